package cli

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barnsley/pkg/fern"
	"github.com/matzehuels/barnsley/pkg/render"
)

const (
	maxPreviewPoints = 1_000_000
	defaultCols      = 80
	defaultRows      = 24
)

// shades are ordered from empty to densest.
const shades = " .:-=+*#%@"

var (
	previewFernStyle = lipgloss.NewStyle().Foreground(colorGreen)
	previewHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand opens the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "preview [points]",
		Short: "Show the fern in the terminal",
		Long: `Preview draws the fern as a density map in the terminal.

Keys: r reseeds, + doubles the point count, - halves it, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			points, err := parsePoints(args, cfg.Points)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}

			p := tea.NewProgram(newPreviewModel(points, seed), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "initial random seed (0 = random)")
	return cmd
}

// =============================================================================
// previewModel - bubbletea model for the terminal preview
// =============================================================================

type previewModel struct {
	points int
	seed   uint64
	seq    *fern.Sequence
	err    error

	width  int
	height int
}

// sequenceMsg carries a finished generation back to the model.
type sequenceMsg struct {
	points int
	seed   uint64
	seq    *fern.Sequence
	err    error
}

func newPreviewModel(points int, seed uint64) previewModel {
	if seed == 0 {
		seed = randomSeed()
	}
	return previewModel{points: points, seed: seed, width: defaultCols, height: defaultRows}
}

func randomSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}

func generateCmd(points int, seed uint64) tea.Cmd {
	return func() tea.Msg {
		seq, err := fern.Generate(points, fern.NewSource(seed))
		return sequenceMsg{points: points, seed: seed, seq: seq, err: err}
	}
}

func (m previewModel) Init() tea.Cmd {
	return generateCmd(m.points, m.seed)
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.seed = randomSeed()
		case "+", "=":
			if m.points >= maxPreviewPoints {
				return m, nil
			}
			m.points = min(m.points*2, maxPreviewPoints)
		case "-", "_":
			if m.points <= 1 {
				return m, nil
			}
			m.points = max(m.points/2, 1)
		default:
			return m, nil
		}
		return m, generateCmd(m.points, m.seed)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case sequenceMsg:
		// Drop results of superseded requests.
		if msg.points == m.points && msg.seed == m.seed {
			m.seq, m.err = msg.seq, msg.err
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Barnsley fern"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d points · seed %d", m.points, m.seed)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
	case m.seq == nil:
		b.WriteString(StyleDim.Render("generating..."))
	default:
		b.WriteString(previewFernStyle.Render(densityArt(m.seq, m.width, m.height-3)))
	}

	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("r reseed  + more points  - fewer points  q quit"))
	return b.String()
}

// densityArt draws seq as shaded characters. Shading uses the square root of
// the cell count so sparse fronds stay visible next to the dense stem.
func densityArt(seq *fern.Sequence, cols, rows int) string {
	if cols < 1 {
		cols = defaultCols
	}
	if rows < 1 {
		rows = 1
	}
	grid := render.Raster(seq, cols, rows)

	peak := 0
	for _, row := range grid {
		for _, v := range row {
			peak = max(peak, v)
		}
	}

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		line := make([]byte, len(row))
		for i, v := range row {
			line[i] = shade(v, peak)
		}
		b.WriteString(strings.TrimRight(string(line), " "))
	}
	return b.String()
}

func shade(count, peak int) byte {
	if count == 0 || peak == 0 {
		return shades[0]
	}
	top := len(shades) - 1
	level := int(math.Ceil(math.Sqrt(float64(count)/float64(peak)) * float64(top)))
	return shades[min(max(level, 1), top)]
}
