package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"bindgen/internal/pipeline"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[pipeline.Status]lipgloss.Style{
		pipeline.StatusQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		pipeline.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		pipeline.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		pipeline.StatusError:   errorStyle,
	}
)

// Truncate shortens value to at most width terminal cells, marking the cut
// with "..." when there is room for it.
func Truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}

// PadRight pads value with spaces to width terminal cells.
func PadRight(value string, width int) string {
	return runewidth.FillRight(value, width)
}
