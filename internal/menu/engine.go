package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antoniostano/asistente/internal/extract"
	"github.com/antoniostano/asistente/internal/journal"
	"github.com/antoniostano/asistente/internal/llm"
	"github.com/antoniostano/asistente/internal/logging"
	"github.com/antoniostano/asistente/internal/observability"
	"github.com/antoniostano/asistente/internal/policy"
	"github.com/antoniostano/asistente/internal/session"
)

const projectPromptTemplate = "El usuario tiene la siguiente idea de proyecto: \"%s\"\n\n" +
	"Eres un experto en arquitectura de software de proyectos. Por favor, ayúdalo a desarrollar y definir completamente este proyecto. " +
	"Proporciona 10 tareas principales que se deben realizar para desarrollar este proyecto:\n" +
	"Las tareas deben ser específicas y detalladas, y deben ser realizadas en orden cronológico.\n" +
	"Al final, indica claramente cuál sería el nombre específico del proyecto para usarlo como referencia."

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	ReapDelay           time.Duration
	ProjectMaxTokens    int
	JournalPayloadLimit int
}

// Engine runs the per-session project/task menu.
type Engine struct {
	store   *session.Store
	reaper  *session.Reaper
	gateway llm.Gateway
	journal journal.Store
	metrics *observability.Metrics
	cfg     Config
}

func NewEngine(store *session.Store, reaper *session.Reaper, gateway llm.Gateway, j journal.Store, metrics *observability.Metrics, cfg Config) *Engine {
	if cfg.ReapDelay < 0 {
		cfg.ReapDelay = 0
	}
	if cfg.ProjectMaxTokens <= 0 {
		cfg.ProjectMaxTokens = 3000
	}
	if cfg.JournalPayloadLimit <= 0 {
		cfg.JournalPayloadLimit = 500
	}
	return &Engine{
		store:   store,
		reaper:  reaper,
		gateway: gateway,
		journal: j,
		metrics: metrics,
		cfg:     cfg,
	}
}

// ProcessOption handles an option selected without free-text input.
func (e *Engine) ProcessOption(ctx context.Context, optionID int, sessionKey string) string {
	return Render(e.Handle(ctx, optionID, "", false, sessionKey))
}

// ProcessOptionWithPayload handles an option that carries free-text input.
func (e *Engine) ProcessOptionWithPayload(ctx context.Context, optionID int, payload, sessionKey string) string {
	return Render(e.Handle(ctx, optionID, payload, true, sessionKey))
}

// Handle dispatches one option and returns the typed reply.
func (e *Engine) Handle(ctx context.Context, optionID int, payload string, hasPayload bool, sessionKey string) Reply {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		hasPayload = false
	}

	var reply Reply
	switch optionID {
	case OptionCreateProject:
		if hasPayload {
			reply = e.createProject(ctx, payload, sessionKey)
		} else {
			e.touch(sessionKey)
			reply = Reply{Kind: KindIdeaPrompt}
		}
	case OptionManageTasks:
		if hasPayload {
			reply = e.addTask(payload, sessionKey)
		} else {
			reply = e.showTasks(sessionKey)
		}
	case OptionQueryTasks:
		if hasPayload {
			reply = e.completeTask(payload, sessionKey)
		} else {
			reply = e.showProgress(sessionKey)
		}
	case OptionExit:
		reply = e.exit(sessionKey)
	default:
		reply = Reply{Kind: KindInvalidOption}
	}

	e.record(ctx, optionID, payload, sessionKey, reply)
	return reply
}

func (e *Engine) touch(key string) {
	e.store.Update(key, func(sess *session.Session) { sess.InteractionCount++ })
}

func (e *Engine) createProject(ctx context.Context, idea, key string) Reply {
	e.touch(key)

	content, err := e.generate(ctx, fmt.Sprintf(projectPromptTemplate, idea), e.cfg.ProjectMaxTokens)
	if err != nil {
		return Reply{Kind: KindGatewayFailure, Idea: idea, Failure: llm.KindOf(err)}
	}

	name, ok := extract.ProjectName(content)
	if !ok {
		name = extract.FallbackProjectName
	}
	tasks := extract.Tasks(content)

	e.store.Update(key, func(sess *session.Session) {
		sess.ProjectContext = content
		sess.ProjectName = name
		sess.Tasks = tasks
		// A new project starts a new task list, so earlier completions no longer apply.
		sess.Completed = make(map[int]bool)
	})
	return Reply{Kind: KindProjectCreated, ProjectName: name, Content: content}
}

func (e *Engine) showTasks(key string) Reply {
	var reply Reply
	e.store.Update(key, func(sess *session.Session) {
		sess.InteractionCount++
		switch {
		case sess.HasTasks():
			reply = Reply{
				Kind:        KindTaskList,
				ProjectName: sess.ProjectName,
				Tasks:       sess.Tasks,
				Total:       extract.CountTasks(sess.Tasks),
			}
		case sess.HasProject():
			reply = Reply{Kind: KindFirstTaskPrompt, ProjectName: sess.ProjectName}
		default:
			reply = Reply{Kind: KindNoProject}
		}
	})
	return reply
}

func (e *Engine) addTask(description, key string) Reply {
	var reply Reply
	e.store.Update(key, func(sess *session.Session) {
		sess.InteractionCount++
		if !sess.HasProject() {
			reply = Reply{Kind: KindMissingProject}
			return
		}
		tasks, n := extract.AppendTask(sess.Tasks, description)
		sess.Tasks = tasks
		reply = Reply{
			Kind:        KindTaskAdded,
			ProjectName: sess.ProjectName,
			TaskNumber:  n,
			TaskText:    description,
			Tasks:       tasks,
			Total:       extract.CountTasks(tasks),
		}
	})
	return reply
}

func (e *Engine) showProgress(key string) Reply {
	var reply Reply
	e.store.Update(key, func(sess *session.Session) {
		sess.InteractionCount++
		if !sess.HasTasks() {
			reply = Reply{Kind: KindNoTasks}
			return
		}
		reply = Reply{
			Kind:        KindProgress,
			ProjectName: sess.ProjectName,
			Tasks:       extract.FormatWithStatus(sess.Tasks, sess.Completed),
			Completed:   len(completedNumbers(sess.Completed)),
			Total:       extract.CountTasks(sess.Tasks),
		}
	})
	return reply
}

func (e *Engine) completeTask(input, key string) Reply {
	n, err := strconv.Atoi(input)
	if err != nil {
		e.touch(key)
		return Reply{Kind: KindNotANumber}
	}

	var reply Reply
	e.store.Update(key, func(sess *session.Session) {
		sess.InteractionCount++
		if !sess.HasProject() {
			reply = Reply{Kind: KindMissingProject}
			return
		}
		if !sess.HasTasks() {
			reply = Reply{Kind: KindMissingTasks}
			return
		}
		total := extract.CountTasks(sess.Tasks)
		if n < 1 || n > total {
			reply = Reply{Kind: KindInvalidTaskNumber, Input: n, Total: total}
			return
		}
		if sess.Completed[n] {
			reply = Reply{Kind: KindAlreadyCompleted, ProjectName: sess.ProjectName, TaskNumber: n}
			return
		}
		sess.Completed[n] = true
		reply = Reply{
			Kind:        KindTaskCompleted,
			ProjectName: sess.ProjectName,
			TaskNumber:  n,
			TaskText:    extract.TaskTextAt(sess.Tasks, n),
			Completed:   len(completedNumbers(sess.Completed)),
			Total:       total,
		}
	})
	return reply
}

func (e *Engine) exit(key string) Reply {
	closed := e.store.Update(key, func(sess *session.Session) {
		sess.InteractionCount++
		sess.Active = false
	})
	if e.reaper != nil {
		e.reaper.ScheduleRemoval(key, closed.Epoch, e.cfg.ReapDelay)
	}
	e.metrics.SessionEvent("closed")
	logging.Info().Str("session", key).Dur("reap_delay", e.cfg.ReapDelay).Msg("session closed")
	return Reply{Kind: KindFarewell, SessionKey: key}
}

// generate calls the gateway without propagating caller cancellation: once
// issued, a call runs to completion or failure.
func (e *Engine) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	text, err := e.gateway.Generate(ctx, prompt, maxTokens)
	e.metrics.ObserveGatewayLatency(time.Since(start))
	if err != nil {
		kind := llm.KindOf(err)
		e.metrics.GatewayFailure(string(kind))
		logging.Warn().Err(err).Str("kind", string(kind)).Msg("llm gateway failed")
		return "", err
	}
	return text, nil
}

// Menu returns the main menu for key, creating the session when absent.
func (e *Engine) Menu(key string) View {
	sess := e.store.GetOrCreate(key)
	e.metrics.SetActiveSessions(e.store.Len())
	status := "activo"
	if !sess.Active {
		status = "finalizado"
	}
	return View{
		SessionKey: key,
		Title:      menuTitle,
		Options:    Options(),
		Status:     status,
	}
}

// Reset revives key with an empty workflow and cancels any pending removal.
func (e *Engine) Reset(key string) Status {
	if e.reaper != nil {
		e.reaper.Cancel(key)
	}
	sess := e.store.Reset(key)
	e.metrics.SessionEvent("reset")
	e.metrics.SetActiveSessions(e.store.Len())
	logging.Info().Str("session", key).Msg("session reset")
	return statusOf(sess)
}

// Snapshot returns the current state of key without creating it.
func (e *Engine) Snapshot(key string) (Status, error) {
	sess, err := e.store.Get(key)
	if err != nil {
		return Status{}, err
	}
	return statusOf(sess), nil
}

// History returns the most recent journal entries for key.
func (e *Engine) History(ctx context.Context, key string, limit int) ([]journal.Entry, error) {
	if e.journal == nil {
		return nil, errors.New("journal disabled")
	}
	return e.journal.Recent(ctx, key, limit)
}

func (e *Engine) record(ctx context.Context, optionID int, payload, key string, reply Reply) {
	e.metrics.MenuOption(strconv.Itoa(optionID), string(reply.Kind))
	e.metrics.SetActiveSessions(e.store.Len())
	logging.Debug().
		Str("session", key).
		Int("option", optionID).
		Str("outcome", string(reply.Kind)).
		Msg("menu option processed")

	if e.journal == nil {
		return
	}
	redacted, changed := policy.ForJournal(payload, e.cfg.JournalPayloadLimit)
	err := e.journal.Record(context.WithoutCancel(ctx), journal.Entry{
		SessionKey:  key,
		OptionID:    optionID,
		Outcome:     string(reply.Kind),
		Payload:     redacted,
		PIIRedacted: changed,
	})
	if err != nil {
		logging.Warn().Err(err).Str("session", key).Msg("journal record failed")
	}
}
