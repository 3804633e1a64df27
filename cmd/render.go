package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kilianp07/dronecoord/core/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	labelStyle = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("8"))
)

func title(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

func field(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+value)
}

func warnings(w io.Writer, ws []string) {
	for _, m := range ws {
		fmt.Fprintln(w, warnStyle.Render("warning: ")+m)
	}
}

func ok(w io.Writer, s string) {
	fmt.Fprintln(w, okStyle.Render(s))
}

// table renders rows with columns padded to the widest cell.
func table(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], len(c))
		}
	}
	line := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = style.Width(widths[i] + 2).Render(c)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, ""), " "))
	}
	line(header, lipgloss.NewStyle().Bold(true))
	for _, r := range rows {
		line(r, lipgloss.NewStyle())
	}
}

// shownError marks an error already rendered to the user.
type shownError struct{ error }

func (e shownError) Unwrap() error { return e.error }

// failure renders a coordinator error and returns it so the process exits
// non-zero.
func failure(w io.Writer, err error) error {
	fmt.Fprintln(w, failStyle.Render(model.KindOf(err)+":")+" "+err.Error())
	for _, b := range model.BlockersOf(err) {
		fmt.Fprintln(w, "  - "+b)
	}
	return shownError{err}
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
