package menu

import (
	"sort"

	"github.com/antoniostano/asistente/internal/extract"
	"github.com/antoniostano/asistente/internal/session"
)

const (
	OptionCreateProject = 1
	OptionManageTasks   = 2
	OptionQueryTasks    = 3
	OptionExit          = 4
)

const menuTitle = "Menú Principal - Gestión de Proyectos"

// Option is one entry of the main menu.
type Option struct {
	ID          int    `json:"id"`
	Description string `json:"descripcion"`
	Action      string `json:"accion"`
}

// View is the main menu as shown to a session.
type View struct {
	SessionKey string   `json:"sessionId"`
	Title      string   `json:"titulo"`
	Options    []Option `json:"opciones"`
	Status     string   `json:"estado"`
}

var mainOptions = []Option{
	{ID: OptionCreateProject, Description: "Crear un proyecto", Action: "crear_proyecto"},
	{ID: OptionManageTasks, Description: "Crear las tareas del proyecto", Action: "crear_tareas"},
	{ID: OptionQueryTasks, Description: "Consultar tareas del proyecto", Action: "consultar_tareas"},
	{ID: OptionExit, Description: "Salir", Action: "salir"},
}

// Options returns a copy of the main menu entries.
func Options() []Option {
	out := make([]Option, len(mainOptions))
	copy(out, mainOptions)
	return out
}

func IsValidOption(id int) bool {
	return id >= OptionCreateProject && id <= OptionExit
}

// Status is a read-only view of a session's workflow state.
type Status struct {
	SessionKey       string         `json:"sessionId"`
	Active           bool           `json:"activa"`
	InteractionCount int            `json:"interacciones"`
	ProjectName      string         `json:"proyecto,omitempty"`
	Tasks            []extract.Task `json:"tareas"`
	Completed        []int          `json:"completadas"`
	Progress         float64        `json:"progreso"`
}

func statusOf(sess *session.Session) Status {
	tasks := extract.ParseTasks(sess.Tasks)
	if tasks == nil {
		tasks = []extract.Task{}
	}
	completed := completedNumbers(sess.Completed)
	return Status{
		SessionKey:       sess.Key,
		Active:           sess.Active,
		InteractionCount: sess.InteractionCount,
		ProjectName:      sess.ProjectName,
		Tasks:            tasks,
		Completed:        completed,
		Progress:         percent(len(completed), extract.CountTasks(sess.Tasks)),
	}
}

func completedNumbers(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for n, done := range set {
		if done {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
