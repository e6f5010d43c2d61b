package menu

import (
	"context"
	"fmt"
	"strings"
)

// LegacySessionKey is shared by every caller that selects option 1
// without a session id.
const LegacySessionKey = "default_session"

const legacyTasksPromptTemplate = "Tengo un proyecto llamado '%s'. " +
	"Por favor, proporciona las 10 tareas principales que debo realizar para desarrollar este proyecto. " +
	"Enumera cada tarea de forma clara y específica, del 1 al 10."

// ProcessLegacy serves clients that post a payload without a session id.
// Option 2 asks the gateway for tasks of the named project instead of
// touching session state.
func (e *Engine) ProcessLegacy(ctx context.Context, optionID int, payload string) string {
	return Render(e.HandleLegacy(ctx, optionID, payload))
}

func (e *Engine) HandleLegacy(ctx context.Context, optionID int, payload string) Reply {
	payload = strings.TrimSpace(payload)

	var reply Reply
	switch optionID {
	case OptionCreateProject:
		if payload == "" {
			reply = Reply{Kind: KindEmptyIdea}
		} else {
			reply = e.createProject(ctx, payload, LegacySessionKey)
		}
	case OptionManageTasks:
		reply = e.legacyTasks(ctx, payload)
	case OptionQueryTasks:
		reply = Reply{Kind: KindSessionRequired}
	case OptionExit:
		reply = Reply{Kind: KindFarewell}
	default:
		reply = Reply{Kind: KindInvalidOption}
	}

	e.record(ctx, optionID, payload, LegacySessionKey, reply)
	return reply
}

func (e *Engine) legacyTasks(ctx context.Context, name string) Reply {
	if name == "" {
		name = "Proyecto sin nombre"
	}
	content, err := e.generate(ctx, fmt.Sprintf(legacyTasksPromptTemplate, name), e.cfg.ProjectMaxTokens)
	if err != nil {
		return Reply{Kind: KindLegacyTasksFallback, ProjectName: name}
	}
	return Reply{Kind: KindLegacyTasks, ProjectName: name, Content: content}
}
