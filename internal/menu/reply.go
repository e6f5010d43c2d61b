package menu

import "github.com/antoniostano/asistente/internal/llm"

// ShowMenuSentinel tells the caller to redisplay the main menu. Replies
// without it expect further free-text input.
const ShowMenuSentinel = "MOSTRAR_MENU_PRINCIPAL"

// Kind identifies the outcome of one processed option.
type Kind string

const (
	KindIdeaPrompt          Kind = "idea_prompt"
	KindEmptyIdea           Kind = "empty_idea"
	KindProjectCreated      Kind = "project_created"
	KindGatewayFailure      Kind = "gateway_failure"
	KindTaskList            Kind = "task_list"
	KindFirstTaskPrompt     Kind = "first_task_prompt"
	KindNoProject           Kind = "no_project"
	KindNoTasks             Kind = "no_tasks"
	KindMissingProject      Kind = "missing_project"
	KindMissingTasks        Kind = "missing_tasks"
	KindTaskAdded           Kind = "task_added"
	KindProgress            Kind = "progress"
	KindInvalidTaskNumber   Kind = "invalid_task_number"
	KindNotANumber          Kind = "not_a_number"
	KindAlreadyCompleted    Kind = "already_completed"
	KindTaskCompleted       Kind = "task_completed"
	KindFarewell            Kind = "farewell"
	KindInvalidOption       Kind = "invalid_option"
	KindLegacyTasks         Kind = "legacy_tasks"
	KindLegacyTasksFallback Kind = "legacy_tasks_fallback"
	KindSessionRequired     Kind = "session_required"
)

// Reply is the typed result of a handler. Only the fields relevant to Kind
// are set; Render turns it into user-facing text.
type Reply struct {
	Kind        Kind
	SessionKey  string
	ProjectName string
	Idea        string
	Content     string
	Failure     llm.FailureKind
	Tasks       string
	TaskNumber  int
	TaskText    string
	Input       int
	Completed   int
	Total       int
}

// ShowsMenu reports whether the rendered reply carries the sentinel.
func (r Reply) ShowsMenu() bool {
	switch r.Kind {
	case KindProjectCreated, KindGatewayFailure, KindMissingProject, KindMissingTasks,
		KindTaskAdded, KindInvalidTaskNumber, KindNotANumber, KindAlreadyCompleted,
		KindTaskCompleted, KindLegacyTasks, KindLegacyTasksFallback, KindSessionRequired:
		return true
	default:
		return false
	}
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) * 100 / float64(total)
}
