package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/historian/pkg/cache"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/layout"
	"github.com/matzehuels/historian/pkg/pipeline"
	"github.com/matzehuels/historian/pkg/render/text"
)

// viewCacheSize bounds the layouts kept while toggling options.
const viewCacheSize = 64

// viewCommand creates the interactive pager command.
func (c *CLI) viewCommand() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the commit graph in a terminal pager",
		Long: `Browse the commit graph in a full screen pager. Layout options can be
changed while browsing:

  h / v    flip horizontally / vertically
  e        cycle the column engine
  r        toggle chain reduction
  m        toggle chain markers
  + / -    widen or narrow column gaps`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, c)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(f.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			records, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			store, err := cache.NewMemoryCache(viewCacheSize)
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := newViewModel(ctx, records, opts, store, runner.Keyer, c.out())
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithOutput(c.out()),
			).Run()
			return err
		},
	}

	f.register(cmd)
	return cmd
}

var (
	viewTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// viewModel is the bubbletea model of the pager. Every option change lays
// the history out again; rendered pages are kept in a memory cache keyed
// like pipeline artifacts, so flipping back and forth is instant.
type viewModel struct {
	ctx     context.Context
	records []history.Record
	hash    string
	opts    pipeline.Options
	store   cache.Cache
	keyer   cache.Keyer
	out     io.Writer

	lines  []string
	offset int
	width  int
	height int
	builds int
	err    error
}

func newViewModel(ctx context.Context, records []history.Record, opts pipeline.Options, store cache.Cache, keyer cache.Keyer, out io.Writer) (viewModel, error) {
	if err := opts.Validate(); err != nil {
		return viewModel{}, err
	}
	opts.Format = pipeline.FormatText
	m := viewModel{
		ctx:     ctx,
		records: records,
		hash:    pipeline.HashRecords(records),
		opts:    opts,
		store:   store,
		keyer:   keyer,
		out:     out,
		height:  24,
	}
	m = m.relayout()
	return m, m.err
}

// relayout fills m.lines for the current options.
func (m viewModel) relayout() viewModel {
	keyOpts := m.opts.ArtifactKeyOpts()
	keyOpts.Format = "view"
	keyOpts.Palette = m.opts.Color
	key := m.keyer.ArtifactKey(m.hash, keyOpts)

	data, hit, err := m.store.Get(m.ctx, key)
	if err != nil || !hit {
		out, err := m.render()
		if err != nil {
			m.err = err
			return m
		}
		m.builds++
		data = []byte(out)
		_ = m.store.Set(m.ctx, key, data, 0)
	}

	m.err = nil
	m.lines = nil
	if s := strings.TrimSuffix(string(data), "\n"); s != "" {
		m.lines = strings.Split(s, "\n")
	}
	m.offset = m.clamp(m.offset)
	return m
}

func (m viewModel) render() (string, error) {
	l, err := pipeline.BuildLayout(m.records, m.opts)
	if err != nil {
		return "", err
	}
	r, err := pipeline.TextRenderer(l, m.opts, m.out)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// page is the number of graph lines between header and footer.
func (m viewModel) page() int {
	return max(m.height-2, 1)
}

func (m viewModel) clamp(offset int) int {
	return max(min(offset, len(m.lines)-m.page()), 0)
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.offset = m.clamp(m.offset)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "down", "j":
			m.offset = m.clamp(m.offset + 1)
		case "up", "k":
			m.offset = m.clamp(m.offset - 1)
		case "pgdown", " ", "f":
			m.offset = m.clamp(m.offset + m.page())
		case "pgup", "b":
			m.offset = m.clamp(m.offset - m.page())
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.clamp(len(m.lines))
		case "h":
			m.opts.Orientation ^= text.HFlip
			return m.relayout(), nil
		case "v":
			m.opts.Orientation ^= text.VFlip
			return m.relayout(), nil
		case "e":
			i := slices.Index(layout.Engines, m.opts.Engine)
			m.opts.Engine = layout.Engines[(i+1)%len(layout.Engines)]
			return m.relayout(), nil
		case "r":
			m.opts.Reduce = !m.opts.Reduce
			return m.relayout(), nil
		case "m":
			m.opts.Markers ^= text.MarkersChain
			return m.relayout(), nil
		case "+", "=":
			m.opts.Width++
			return m.relayout(), nil
		case "-":
			if m.opts.Width > 1 {
				m.opts.Width--
				return m.relayout(), nil
			}
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(viewTitleStyle.Render(appName))
	b.WriteString(" ")
	b.WriteString(viewStatusStyle.Render(m.status()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(viewErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	end := min(m.offset+m.page(), len(m.lines))
	clip := lipgloss.NewStyle()
	if m.width > 0 {
		clip = clip.MaxWidth(m.width)
	}
	for _, line := range m.lines[m.offset:end] {
		b.WriteString(clip.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(viewHelpStyle.Render(fmt.Sprintf("[%d-%d/%d]  j/k scroll  h/v flip  e engine  r reduce  m markers  +/- width  q quit",
		min(m.offset+1, end), end, len(m.lines))))
	return b.String()
}

func (m viewModel) status() string {
	parts := []string{"engine " + m.opts.Engine, fmt.Sprintf("width %d", m.opts.Width)}
	if m.opts.Reduce {
		parts = append(parts, "reduced")
	}
	if m.opts.Orientation != text.Normal {
		parts = append(parts, m.opts.Orientation.String())
	}
	if m.opts.Markers != text.MarkersDefault {
		parts = append(parts, "markers "+m.opts.Markers.String())
	}
	return strings.Join(parts, " · ")
}
