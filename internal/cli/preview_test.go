package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/barnsley/pkg/fern"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle runs cmd and feeds its message back into m.
func settle(t *testing.T, m previewModel, cmd tea.Cmd) previewModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(previewModel)
}

func TestPreviewInitGenerates(t *testing.T) {
	m := newPreviewModel(200, 5)
	if m.seed != 5 {
		t.Fatalf("seed = %d, want 5", m.seed)
	}
	if !strings.Contains(m.View(), "generating") {
		t.Error("View() before first sequence should show progress")
	}

	m = settle(t, m, m.Init())
	if m.seq == nil || m.seq.Len() != 200 {
		t.Fatalf("seq = %v, want 200 points", m.seq)
	}
	if v := m.View(); !strings.Contains(v, "200 points") || !strings.Contains(v, "seed 5") {
		t.Errorf("View() header missing point count or seed:\n%s", v)
	}
}

func TestPreviewRandomSeed(t *testing.T) {
	if m := newPreviewModel(10, 0); m.seed == 0 {
		t.Error("newPreviewModel(_, 0) should pick a nonzero seed")
	}
}

func TestPreviewKeys(t *testing.T) {
	tests := []struct {
		name       string
		start      int
		key        tea.KeyMsg
		wantPoints int
		wantCmd    bool
	}{
		{"double", 100, key("+"), 200, true},
		{"double with =", 100, key("="), 200, true},
		{"double capped", maxPreviewPoints - 1, key("+"), maxPreviewPoints, true},
		{"at cap", maxPreviewPoints, key("+"), maxPreviewPoints, false},
		{"halve", 100, key("-"), 50, true},
		{"halve odd", 3, key("-"), 1, true},
		{"at minimum", 1, key("-"), 1, false},
		{"reseed", 100, key("r"), 100, true},
		{"unbound key", 100, key("x"), 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPreviewModel(tt.start, 7)
			next, cmd := m.Update(tt.key)
			got := next.(previewModel)
			if got.points != tt.wantPoints {
				t.Errorf("points = %d, want %d", got.points, tt.wantPoints)
			}
			if (cmd != nil) != tt.wantCmd {
				t.Errorf("cmd returned = %v, want %v", cmd != nil, tt.wantCmd)
			}
		})
	}
}

func TestPreviewReseedChangesSeed(t *testing.T) {
	m := newPreviewModel(10, 7)
	next, _ := m.Update(key("r"))
	if next.(previewModel).seed == 7 {
		t.Error("r should pick a new seed")
	}
}

func TestPreviewQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := newPreviewModel(10, 1).Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not tea.Quit", k)
		}
	}
}

func TestPreviewDropsStaleSequence(t *testing.T) {
	m := newPreviewModel(100, 7)
	stale := m.Init()

	next, _ := m.Update(key("+"))
	m = next.(previewModel)
	m = settle(t, m, stale)
	if m.seq != nil {
		t.Error("sequence for 100 points accepted after switching to 200")
	}
}

func TestPreviewWindowSize(t *testing.T) {
	m := newPreviewModel(2000, 3)
	m = settle(t, m, m.Init())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 13})
	m = next.(previewModel)

	if m.width != 30 || m.height != 13 {
		t.Fatalf("size = %dx%d, want 30x13", m.width, m.height)
	}
	// header + 10 canvas rows + help
	if lines := strings.Count(m.View(), "\n") + 1; lines != 12 {
		t.Errorf("View() has %d lines, want 12", lines)
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		count, peak int
		want        byte
	}{
		{0, 10, ' '},
		{5, 0, ' '},
		{10, 10, '@'},
		{1, 100, '.'},
		{1, 1_000_000, '.'},
	}
	for _, tt := range tests {
		if got := shade(tt.count, tt.peak); got != tt.want {
			t.Errorf("shade(%d, %d) = %q, want %q", tt.count, tt.peak, got, tt.want)
		}
	}
}

func TestDensityArt(t *testing.T) {
	seq, err := fern.Generate(5000, fern.NewSource(11))
	if err != nil {
		t.Fatal(err)
	}

	art := densityArt(seq, 40, 20)
	lines := strings.Split(art, "\n")
	if len(lines) != 20 {
		t.Fatalf("densityArt rows = %d, want 20", len(lines))
	}
	for i, l := range lines {
		if len(l) > 40 {
			t.Errorf("row %d has %d columns, want <= 40", i, len(l))
		}
	}
	if !strings.Contains(art, "@") {
		t.Error("densityArt has no peak cell")
	}
}
