package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/nodefield/internal/field"
	"github.com/san-kum/nodefield/internal/host"
	"github.com/san-kum/nodefield/internal/metrics"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// ErrNoHistory is returned by NewModel when no frame recorder is given.
var ErrNoHistory = errors.New("viz: nil frame history")

type TickMsg time.Time

// Options configure the live view.
type Options struct {
	FPS    int
	CellPx float64 // field units per braille dot
	Theme  string
}

// Model hosts one field. The field, queue and viewport are shared between
// copies of the model; bubbletea only ever runs one Update at a time.
type Model struct {
	field    *field.Field
	queue    *host.Queue
	viewport *host.Viewport
	surface  *BrailleSurface
	history  *metrics.Recorder

	period time.Duration
	theme  Theme
	styles Styles
	keys   keyMap
	help   help.Model

	width, height int
	paused        bool

	spring   harmonica.Spring
	fps      float64
	fpsVel   float64
	lastTick time.Time
}

// NewModel mounts f on a braille surface sized for a default terminal until
// the first window size arrives. f must not already be mounted, and history
// must be among the observers f was built with for the sparklines to fill.
func NewModel(f *field.Field, history *metrics.Recorder, opts Options) (Model, error) {
	if history == nil {
		return Model{}, ErrNoHistory
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.CellPx <= 0 {
		opts.CellPx = 8
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		field:   f,
		queue:   host.NewQueue(),
		surface: NewBrailleSurface(opts.CellPx),
		history: history,
		period:  time.Second / time.Duration(opts.FPS),
		theme:   theme,
		styles:  NewStyles(theme),
		keys:    defaultKeys(),
		help:    help.New(),
		width:   defaultCols,
		height:  defaultRows,
		spring:  harmonica.NewSpring(harmonica.FPS(opts.FPS), 4.0, 1.0),
	}
	w, h := m.fieldSize()
	m.viewport = host.NewViewport(w, h)

	err := f.Mount(field.MountPoint{
		Surface:   field.StaticSurface(m.surface),
		Scheduler: m.queue,
		Viewport:  m.viewport,
	})
	if err != nil {
		return Model{}, fmt.Errorf("mount field: %w", err)
	}
	return m, nil
}

// fieldSize converts the terminal area left of the stats panel into field units.
func (m Model) fieldSize() (float64, float64) {
	cols := max(m.width-panelWidth-2, 1)
	rows := max(m.height-2, 1)
	scale := m.surface.Scale()
	return float64(cols*2) * scale, float64(rows*4) * scale
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick(m.period)
}

// Update handles input events and advances the field.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.field.Unmount()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Theme):
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Set(m.fieldSize())
	case TickMsg:
		now := time.Time(msg)
		if !m.paused {
			m.queue.Flush(now)
			m.observeRate(now)
		}
		if !m.field.Mounted() {
			return m, nil
		}
		return m, tick(m.period)
	}
	return m, nil
}

func (m *Model) observeRate(now time.Time) {
	if !m.lastTick.IsZero() {
		if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
			m.fps, m.fpsVel = m.spring.Update(m.fps, m.fpsVel, 1/dt)
		}
	}
	m.lastTick = now
}

func (m Model) View() string {
	canvas := m.styles.Field.Render(m.surface.Canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.panel())
}

func (m Model) panel() string {
	s := m.styles
	var last field.FrameStats
	if frames := m.history.Frames(); len(frames) > 0 {
		last = frames[len(frames)-1]
	}

	status := s.Running.Render("● live")
	if m.paused {
		status = s.Paused.Render("‖ paused")
	}
	w, h := m.field.Size()

	row := func(label, value string) string {
		return s.Label.Render(label) + s.Value.Render(value)
	}
	lines := []string{
		s.Header.Render("nodefield"),
		status,
		"",
		row("particles", fmt.Sprintf("%d", last.Particles)),
		row("links", fmt.Sprintf("%d", last.Links)),
		row("opacity", fmt.Sprintf("%.3f", last.MeanLinkOpacity)),
		row("pulse", fmt.Sprintf("%.2f", last.MeanPulse)),
		row("surface", fmt.Sprintf("%.0f×%.0f", w, h)),
		row("fps", fmt.Sprintf("%.0f", m.fps)),
		row("theme", m.theme.Name),
		"",
		s.Label.Render("links/frame"),
		s.Spark.Render(Sparkline(m.history.Series(metrics.Links), panelWidth-4)),
		s.Label.Render("pulse"),
		s.Spark.Render(Sparkline(m.history.Series(metrics.Pulse), panelWidth-4)),
		"",
		m.help.View(m.keys),
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}

// Run hosts f in the terminal until the user quits.
func Run(f *field.Field, history *metrics.Recorder, opts Options) error {
	m, err := NewModel(f, history, opts)
	if err != nil {
		return err
	}
	defer f.Unmount()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
