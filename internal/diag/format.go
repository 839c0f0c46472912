package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

type shortLine struct {
	item     uint32
	severity Severity
	label    string
	code     string
	subject  string
	message  string
}

// FormatShort renders diagnostics one per line, sorted deterministically:
//
//	warning LAY2001 Foo#3: message
//
// Notes follow their diagnostic with the "note" label when includeNotes is set.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, shortLine{
			item:     uint32(d.Subject.Item),
			severity: d.Severity,
			label:    d.Severity.String(),
			code:     d.Code.ID(),
			subject:  d.Subject.String(),
			message:  sanitizeMessage(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine{
				item:     uint32(d.Subject.Item),
				severity: d.Severity,
				label:    "note",
				code:     d.Code.ID(),
				subject:  n.Subject.String(),
				message:  sanitizeMessage(n.Msg),
			})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		li, lj := lines[i], lines[j]
		if li.item != lj.item {
			return li.item < lj.item
		}
		if li.severity != lj.severity {
			return li.severity > lj.severity
		}
		return li.code < lj.code
	})

	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%s %s %s: %s", l.label, l.code, l.subject, l.message)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderOptions control Render.
type RenderOptions struct {
	Color  bool
	Prefix string // e.g. the input path
	Notes  bool
}

// Render writes diagnostics for a terminal, one line each, colorizing the
// severity label when opts.Color is set.
func Render(w io.Writer, diags []Diagnostic, opts RenderOptions) error {
	errLabel := color.New(color.FgRed, color.Bold)
	warnLabel := color.New(color.FgYellow, color.Bold)
	infoLabel := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{errLabel, warnLabel, infoLabel, dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	sorted := append([]Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Subject.Item < sorted[j].Subject.Item
	})
	for _, d := range sorted {
		label := infoLabel
		switch d.Severity {
		case SevError:
			label = errLabel
		case SevWarning:
			label = warnLabel
		}
		prefix := ""
		if opts.Prefix != "" {
			prefix = opts.Prefix + ": "
		}
		if _, err := fmt.Fprintf(w, "%s%s[%s] %s: %s\n", prefix, label.Sprint(d.Severity.String()),
			d.Code.ID(), d.Subject.String(), sanitizeMessage(d.Message)); err != nil {
			return err
		}
		if !opts.Notes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "%s  %s %s: %s\n", prefix, dim.Sprint("note"), n.Subject.String(), sanitizeMessage(n.Msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
