// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todos/internal/service"
)

// Completion markers.
const (
	MarkDone = "[x]"
	MarkOpen = "[ ]"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {MARK} {TEXT}\n" (4-wide right-aligned number, two spaces,
// completion marker, text)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Mark(task.Completed), NormalizeText(task.Text))
}

// FormatTasks formats tasks numbered from first.
func FormatTasks(w io.Writer, first int, tasks []service.Task) {
	for i, task := range tasks {
		FormatTask(w, first+i, task)
	}
}

// Mark returns the completion marker.
func Mark(completed bool) string {
	if completed {
		return MarkDone
	}
	return MarkOpen
}

// NormalizeText normalizes task text for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
