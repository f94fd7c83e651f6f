package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"partify/internal/export"
	"partify/internal/geometry"
	"partify/internal/palette"
	"partify/internal/playback"
	"partify/internal/prefs"
	"partify/internal/session"
	"partify/internal/settings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// MessageText is shown under the small message mirror.
const MessageText = "@channel it's party time!"

const (
	defaultColumns = 48
	magnitudeStep  = 0.1
	centerStep     = 0.1
)

var errNothingToExport = errors.New("preview: no frames to export")

type keyMap struct {
	Style    key.Binding
	Blend    key.Binding
	Scheme   key.Binding
	MagUp    key.Binding
	MagDown  key.Binding
	CenterUp key.Binding
	CenterDn key.Binding
	Reset    key.Binding
	Generate key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Style:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wave")),
	Blend:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "blend")),
	Scheme:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colours")),
	MagUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "magnitude")),
	MagDown:  key.NewBinding(key.WithKeys("-", "_")),
	CenterUp: key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "centre")),
	CenterDn: key.NewBinding(key.WithKeys("[")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Generate: key.NewBinding(key.WithKeys("g", "enter"), key.WithHelp("g", "generate")),
	Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hide notice")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Style, k.Blend, k.Scheme, k.MagUp, k.CenterUp, k.Reset, k.Generate, k.Quit}
}

type tickMsg time.Time

type generatedMsg struct {
	path string
	err  error
}

// Options configures a Model.
type Options struct {
	Session *session.Session
	// Intro records whether the welcome notice was dismissed. Nil shows it
	// every time.
	Intro *prefs.Flag
	// NewEncoder builds a fresh encoder for each export.
	NewEncoder func() (export.Encoder, error)
	OutputDir  string
	Columns    int
	Logger     *log.Logger
}

// Model is the interactive preview. The session's scheduler must be in
// manual mode; the model drives it from its own tick.
type Model struct {
	session    *session.Session
	intro      *prefs.Flag
	newEncoder func() (export.Encoder, error)
	outputDir  string
	columns    int
	logger     *log.Logger

	handle    playback.Handle
	frame     image.Image
	index     int
	status    string
	statusErr bool
	busy      bool
}

// New creates the model and subscribes it to new frames.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Columns <= 0 {
		opts.Columns = defaultColumns
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	m := &Model{
		session:    opts.Session,
		intro:      opts.Intro,
		newEncoder: opts.NewEncoder,
		outputDir:  opts.OutputDir,
		columns:    opts.Columns,
		logger:     opts.Logger,
	}
	m.handle = m.session.Scheduler().OnReady(func(f playback.Frame) {
		m.frame = f.Image
		m.index = f.Index
	})
	return m
}

func tick() tea.Cmd {
	return tea.Tick(playback.DefaultTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.session.Scheduler().Advance(time.Time(msg))
		return m, tick()

	case generatedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("export failed: %v", msg.err), true)
			return m, nil
		}
		m.setStatus("saved "+msg.path, false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := m.session.Settings()
	next := cur

	switch {
	case key.Matches(msg, keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, keys.Dismiss):
		if m.intro != nil {
			m.intro.Set(true)
		}
		return m, nil
	case key.Matches(msg, keys.Generate):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("exporting...", false)
		return m, m.generate()
	case key.Matches(msg, keys.Style):
		next.WaveStyle = cycle(geometry.Styles, cur.WaveStyle)
	case key.Matches(msg, keys.Blend):
		next.BlendMode = cycle(palette.BlendModes, cur.BlendMode)
	case key.Matches(msg, keys.Scheme):
		next.ColourScheme = cycle(palette.Schemes, cur.ColourScheme)
	case key.Matches(msg, keys.MagUp):
		next.Magnitude += magnitudeStep
	case key.Matches(msg, keys.MagDown):
		next.Magnitude -= magnitudeStep
	case key.Matches(msg, keys.CenterUp):
		next.VerticalCenter += centerStep
	case key.Matches(msg, keys.CenterDn):
		next.VerticalCenter -= centerStep
	case key.Matches(msg, keys.Reset):
		next = settings.Default()
	default:
		return m, nil
	}

	next = next.Clamped()
	if next == cur {
		return m, nil
	}
	if err := m.session.UpdateSettings(next); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.setStatus("", false)
	return m, nil
}

func (m *Model) generate() tea.Cmd {
	return func() tea.Msg {
		if m.newEncoder == nil {
			return generatedMsg{err: errNothingToExport}
		}
		enc, err := m.newEncoder()
		if err != nil {
			return generatedMsg{err: err}
		}
		res, err := m.session.GenerateSync(context.Background(), enc)
		if err != nil {
			return generatedMsg{err: err}
		}
		if res == nil {
			return generatedMsg{err: errNothingToExport}
		}
		path := filepath.Join(m.outputDir, res.Name)
		if err := os.WriteFile(path, res.Data, 0644); err != nil {
			return generatedMsg{err: err}
		}
		m.logger.Info("exported", "path", path, "bytes", len(res.Data))
		return generatedMsg{path: path}
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// Close unsubscribes from playback and stops it.
func (m *Model) Close() {
	m.session.Scheduler().OnDestroy(m.handle)
	m.session.Close()
}

// View renders the preview.
func (m *Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("partify"))

	if m.intro == nil || !m.intro.Get() {
		sections = append(sections, introStyle.Render(
			"Pick a picture, tweak the wobble, press g to save a party GIF.\nPress x to hide this notice."))
	}

	if m.frame == nil {
		sections = append(sections, labelStyle.Render("no image loaded"))
	} else {
		large := Blocks(m.frame, m.columns, backdrop)
		small := Blocks(m.frame, max(4, m.columns/4), backdrop)
		message := messageStyle.Render(lipgloss.JoinVertical(lipgloss.Left, small, MessageText))
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, large, "  ", message))
	}

	sections = append(sections, m.settingsLine())
	if m.status != "" {
		if m.statusErr {
			sections = append(sections, errorStyle.Render(m.status))
		} else {
			sections = append(sections, labelStyle.Render(m.status))
		}
	}
	sections = append(sections, m.helpLine())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) settingsLine() string {
	s := m.session.Settings()
	field := func(label, value string) string {
		return labelStyle.Render(label+" ") + valueStyle.Render(value)
	}
	return strings.Join([]string{
		field("wave", s.WaveStyle.Label()),
		field("blend", s.BlendMode.Label()),
		field("colours", s.ColourScheme.Label()),
		field("magnitude", fmt.Sprintf("%.1f", s.Magnitude)),
		field("centre", fmt.Sprintf("%.2f", s.VerticalCenter)),
		field("frame", fmt.Sprintf("%d/%d", m.index+1, geometry.FrameCount)),
	}, "  ")
}

func (m *Model) helpLine() string {
	var parts []string
	for _, b := range keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

func cycle[T comparable](items []T, cur T) T {
	for i, it := range items {
		if it == cur {
			return items[(i+1)%len(items)]
		}
	}
	return items[0]
}
