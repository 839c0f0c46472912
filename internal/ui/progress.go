// Package ui renders live progress of multi-graph generation runs.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"bindgen/internal/pipeline"
)

const labelWidth = 10

// stageWeights is the share of a job considered complete once it enters
// the stage.
var stageWeights = map[pipeline.Stage]float64{
	pipeline.StageLoad:     0.1,
	pipeline.StageGenerate: 0.4,
	pipeline.StageWrite:    0.9,
}

var stageVerbs = map[pipeline.Stage]string{
	pipeline.StageLoad:     "loading",
	pipeline.StageGenerate: "generating",
	pipeline.StageWrite:    "writing",
}

// jobRow is the displayed state of one input graph.
type jobRow struct {
	path    string
	stage   pipeline.Stage
	status  pipeline.Status
	elapsed time.Duration
	err     string
}

func (r jobRow) finished() bool {
	return r.status == pipeline.StatusDone || r.status == pipeline.StatusError
}

func (r jobRow) label() string {
	if r.status == pipeline.StatusWorking {
		if verb, ok := stageVerbs[r.stage]; ok {
			return verb
		}
	}
	return string(r.status)
}

func (r jobRow) weight() float64 {
	if r.finished() {
		return 1
	}
	return stageWeights[r.stage]
}

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spin    spinner.Model
	bar     progress.Model
	rows    []jobRow
	byPath  map[string]int
	width   int
	closed  bool
	runDone pipeline.Status
}

type eventMsg pipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per input
// graph and an overall bar. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = statusStyles[pipeline.StatusWorking]

	m := &progressModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rows:   make([]jobRow, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	m.bar.Width = m.width - 10
	for i, f := range files {
		m.rows[i] = jobRow{path: f, status: pipeline.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next waits for the following pipeline event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(pipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 10
		}
	}
	return m, nil
}

// applyEvent folds ev into the rows. Events for unknown files are ignored;
// events without a file describe the whole run.
func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	if ev.File == "" {
		m.runDone = ev.Status
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.status = ev.Status
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		row.err = ev.Err.Error()
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.finished() {
			n++
		}
	}
	return n
}

func (m *progressModel) failed() int {
	n := 0
	for _, r := range m.rows {
		if r.status == pipeline.StatusError {
			n++
		}
	}
	return n
}

// percent is the mean completion over all graphs.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range m.rows {
		sum += r.weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	lead := m.spin.View()
	if m.closed {
		lead = "done:"
	}
	header := fmt.Sprintf("%s %s [%d/%d]", lead, m.title, m.finished(), len(m.rows))
	if n := m.failed(); n > 0 {
		header += fmt.Sprintf(", %d failed", n)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	pathWidth := max(m.width-labelWidth-14, 20)
	indent := strings.Repeat(" ", labelWidth+3)
	for _, r := range m.rows {
		label := statusStyles[r.status].Render(PadRight(r.label(), labelWidth))
		fmt.Fprintf(&b, "  %s %s", label, PadRight(Truncate(r.path, pathWidth), pathWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(" " + dimStyle.Render(r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
		if r.err != "" {
			b.WriteString(errorStyle.Render(indent + Truncate(r.err, pathWidth)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}
