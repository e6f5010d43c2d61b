// Package extract turns free-form LLM output into a project name and a
// numbered task list. Every function is best-effort and falls back to a
// usable value instead of reporting "nothing found".
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FallbackProjectName is returned when no naming pattern matches.
const FallbackProjectName = "Proyecto definido con ChatGPT"

// Task is one numbered entry of a task list.
type Task struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// Ordered from most to least specific.
var projectNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`proyecto llamado "([^"]+)"`),
	regexp.MustCompile(`proyecto: ([^\n]+)`),
	regexp.MustCompile(`nombre del proyecto: ([^\n]+)`),
	regexp.MustCompile(`proyecto "([^"]+)"`),
	regexp.MustCompile(`llamado "([^"]+)"`),
	regexp.MustCompile(`proyecto (\p{Lu}[^,.\n]+)`),
}

var (
	taskStartLine = regexp.MustCompile(`^\d+\.[ \t]+\S`)
	numberedLine  = regexp.MustCompile(`(?m)^\d+\.`)
	leadingNumber = regexp.MustCompile(`^(\d+)\.`)
)

// ProjectName returns the first non-empty name captured by the naming
// patterns, or FallbackProjectName. ok is false only for blank input.
func ProjectName(text string) (name string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, p := range projectNamePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if found := strings.TrimSpace(m[1]); found != "" {
			return found, true
		}
	}
	return FallbackProjectName, true
}

// Tasks keeps only the numbered groups of text. A group starts at a line
// like "3. something" and runs until the next such line or the end of the
// text. When no numbered line exists the input is returned unchanged.
func Tasks(text string) string {
	var (
		groups  []string
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if g := strings.TrimSpace(strings.Join(current, "\n")); g != "" {
			groups = append(groups, g)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if taskStartLine.MatchString(line) {
			flush()
			current = append(current, line)
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	flush()

	if len(groups) == 0 {
		return text
	}
	return strings.TrimSpace(strings.Join(groups, "\n"))
}

// CountTasks counts lines starting with "<n>.".
func CountTasks(tasks string) int {
	if tasks == "" {
		return 0
	}
	return len(numberedLine.FindAllStringIndex(tasks, -1))
}

// TaskTextAt returns the description of task n, or "Tarea #n" when absent.
func TaskTextAt(tasks string, n int) string {
	prefix := strconv.Itoa(n) + ". "
	for _, line := range strings.Split(tasks, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, prefix) {
			continue
		}
		if desc := line[len(prefix):]; desc != "" {
			return desc
		}
	}
	return fmt.Sprintf("Tarea #%d", n)
}

// FormatWithStatus decorates every non-blank line with a completion glyph
// and label. Lines without a leading number are always pending.
func FormatWithStatus(tasks string, completed map[int]bool) string {
	var b strings.Builder
	for _, line := range strings.Split(tasks, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		done := false
		if m := leadingNumber.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			done = err == nil && completed[n]
		}
		if done {
			b.WriteString("✅ " + line + " **(COMPLETADA)**\n")
		} else {
			b.WriteString("⏳ " + line + " (Pendiente)\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// AppendTask adds description as task CountTasks(tasks)+1 and returns the
// new list together with the assigned number.
func AppendTask(tasks, description string) (string, int) {
	n := CountTasks(tasks) + 1
	entry := fmt.Sprintf("%d. %s", n, strings.TrimSpace(description))
	if tasks == "" {
		return entry, n
	}
	return tasks + "\n" + entry, n
}

// ParseTasks lists the numbered lines of tasks in display order.
func ParseTasks(tasks string) []Task {
	var out []Task
	for _, line := range strings.Split(tasks, "\n") {
		m := leadingNumber.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, Task{
			Number:      n,
			Description: strings.TrimSpace(line[len(m[0]):]),
		})
	}
	return out
}
