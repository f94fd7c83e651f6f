package preview

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"partify/internal/export"
	"partify/internal/geometry"
	"partify/internal/loader"
	"partify/internal/palette"
	"partify/internal/playback"
	"partify/internal/prefs"
	"partify/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var epoch = time.Unix(1000, 0)

func square(n int) *loader.Image {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i-3], img.Pix[i-2], img.Pix[i-1], img.Pix[i] = 200, 120, 40, 255
	}
	return loader.FromImage(img, "png")
}

func newModel(t *testing.T, store prefs.Store) *Model {
	t.Helper()
	logger := log.New(io.Discard)
	sess := session.New(session.Options{
		Workers:   2,
		Scheduler: playback.New(playback.Options{Clock: fixedClock{epoch}, Manual: true}),
		Logger:    logger,
	})
	if err := sess.SetImage(square(16)); err != nil {
		t.Fatal(err)
	}
	m := New(Options{
		Session:    sess,
		Intro:      prefs.NewFlag(store, prefs.IntroDismissedKey, false, logger),
		NewEncoder: func() (export.Encoder, error) { return export.NewGIF(1), nil },
		OutputDir:  t.TempDir(),
		Columns:    16,
		Logger:     logger,
	})
	t.Cleanup(m.Close)
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_TickAdvancesFrame(t *testing.T) {
	m := newModel(t, prefs.NewMemoryStore())
	if m.frame != nil {
		t.Fatal("expected no frame before the first tick")
	}

	m.Update(tickMsg(epoch.Add(20 * time.Millisecond)))
	if m.frame != nil {
		t.Error("expected no frame after 20ms")
	}

	m.Update(tickMsg(epoch.Add(50 * time.Millisecond)))
	if m.frame == nil {
		t.Fatal("expected a frame after 50ms")
	}
	if m.index != 1 {
		t.Errorf("expected index 1, got %d", m.index)
	}
	if !strings.Contains(m.View(), MessageText) {
		t.Error("expected message preview in view")
	}
}

func TestModel_CycleSettings(t *testing.T) {
	m := newModel(t, prefs.NewMemoryStore())

	m.Update(runeKey('w'))
	if got := m.session.Settings().WaveStyle; got != geometry.Centered {
		t.Errorf("expected centered, got %s", got)
	}
	m.Update(runeKey('b'))
	if got := m.session.Settings().BlendMode; got != palette.Lighten {
		t.Errorf("expected lighten, got %s", got)
	}
	m.Update(runeKey('c'))
	if got := m.session.Settings().ColourScheme; got != palette.Kakapo {
		t.Errorf("expected kakapo, got %s", got)
	}
	if m.session.Frames() == nil {
		t.Error("expected frames after settings change")
	}
}

func TestModel_MagnitudeClamps(t *testing.T) {
	m := newModel(t, prefs.NewMemoryStore())
	for i := 0; i < 20; i++ {
		m.Update(runeKey('-'))
	}
	if got := m.session.Settings().Magnitude; got != 0 {
		t.Errorf("expected magnitude 0, got %v", got)
	}
	m.Update(runeKey('r'))
	if got := m.session.Settings().Magnitude; got != 1 {
		t.Errorf("expected reset magnitude 1, got %v", got)
	}
}

func TestModel_DismissIntroPersists(t *testing.T) {
	store := prefs.NewMemoryStore()
	m := newModel(t, store)
	if !strings.Contains(m.View(), "hide this notice") {
		t.Fatal("expected intro notice")
	}
	m.Update(runeKey('x'))
	if strings.Contains(m.View(), "hide this notice") {
		t.Error("expected intro notice to be hidden")
	}

	again := newModel(t, store)
	if strings.Contains(again.View(), "hide this notice") {
		t.Error("expected dismissal to persist")
	}
}

func TestModel_GenerateWritesFile(t *testing.T) {
	m := newModel(t, prefs.NewMemoryStore())
	_, cmd := m.Update(runeKey('g'))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg, ok := cmd().(generatedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if msg.err != nil {
		t.Fatalf("export failed: %v", msg.err)
	}
	if filepath.Base(msg.path) != "party-classic-classic-overlay.gif" {
		t.Errorf("unexpected name %s", msg.path)
	}
	if _, err := os.Stat(msg.path); err != nil {
		t.Error(err)
	}
	m.Update(msg)
	if m.busy {
		t.Error("expected busy cleared")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, prefs.NewMemoryStore())
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.session.Scheduler().State() != playback.Idle {
		t.Error("expected playback stopped")
	}
}

func TestBlocks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	out := Blocks(img, 10, color.NRGBA{A: 255})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 10 {
			t.Errorf("row %d: expected width 10, got %d", i, w)
		}
	}
	if Blocks(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 10, backdrop) != "" {
		t.Error("expected empty output for empty image")
	}
}

func TestFlatten(t *testing.T) {
	got := flatten(color.NRGBA{R: 255, A: 0}, color.NRGBA{B: 200, A: 255})
	if got != (color.NRGBA{B: 200, A: 255}) {
		t.Errorf("transparent pixel should show backdrop, got %v", got)
	}
	got = flatten(color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 200, A: 255})
	if got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("opaque pixel should win, got %v", got)
	}
}
