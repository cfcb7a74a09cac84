package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/render/term"
	"github.com/matzehuels/dijkstraviz/pkg/session"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

const (
	chromeRows = 2     // status bar and key help below the graph
	rateStep   = 10.0  // steps/s per +/- press
	wheelDelta = 120.0 // zoom exponent per wheel notch
	panCells   = 8     // cells per arrow key press
)

// Bar styles
var (
	barStatusStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccepted)
	barDimStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	barErrorStyle  = lipgloss.NewStyle().Foreground(colorTarget)
)

const helpText = "click: source→target · g generate · s start · p pause · r reset · +/- speed · w weights · f fit · arrows pan · q quit"

// tuiCommand creates the interactive terminal visualizer.
func (c *CLI) tuiCommand() *cobra.Command {
	var gopts graphOpts

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal visualizer",
		Long: `Tui draws the graph in the terminal. Click a node to pick the source and
another to pick the target, then press s to watch the search settle nodes and
relax edges. Drag to pan and scroll to zoom.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gopts.apply(cmd, cfg)
			return c.runTUI(ctx, cfg, &gopts)
		},
	}

	gopts.register(cmd, true)

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, cfg *config.Config, gopts *graphOpts) error {
	store, release := c.openGraphs(ctx, cfg)
	defer release()

	g, _, err := gopts.graphFor(ctx, cfg, store)
	if err != nil {
		return err
	}
	s := newSession(ctx, cfg, store)
	defer s.Close()
	s.Load(g)

	// Log lines would tear the alternate screen.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(c.logOut)

	m := newTUIModel(ctx, s, cfg)
	m.status = generatedText(g.Len(), cfg.Generate.Probability)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// tuiModel
// =============================================================================

type (
	tickMsg      time.Time
	generatedMsg struct {
		nodes int
		p     float64
		err   error
	}
)

// tuiModel is the bubbletea model for the visualizer. Playback advances on
// every tickMsg; the raster is redrawn from the session state in View.
type tuiModel struct {
	ctx     context.Context
	session *session.Session
	gen     config.GenerateConfig
	frame   time.Duration
	vp      *graph.Viewport

	width   int
	height  int
	weights bool
	status  string // last action message, see statusText
	err     string

	dragging     bool
	dragged      bool
	dragX, dragY int
}

func newTUIModel(ctx context.Context, s *session.Session, cfg *config.Config) tuiModel {
	return tuiModel{
		ctx:     ctx,
		session: s,
		gen:     cfg.Generate,
		frame:   cfg.Playback.FrameInterval(),
		vp:      graph.NewViewport(),
		status:  statusReady,
	}
}

func (m tuiModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m tuiModel) Init() tea.Cmd {
	return m.tick()
}

// rows is the height of the graph area in cells.
func (m tuiModel) rows() int {
	return max(m.height-chromeRows, 0)
}

func (m tuiModel) fit() {
	w := float64(m.width) * term.CellWidth
	h := float64(m.rows()) * term.CellHeight
	m.session.View(func(g *graph.Graph, _ *state.State, _ session.Selection) {
		m.vp.Fit(g, w, h, 2*term.CellWidth)
	})
}

func (m tuiModel) generate() tea.Cmd {
	ctx, s, gen := m.ctx, m.session, m.gen
	return func() tea.Msg {
		err := s.Generate(ctx, gen.Nodes, gen.Probability)
		return generatedMsg{nodes: gen.Nodes, p: gen.Probability, err: err}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.session.Tick(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.fit()

	case generatedMsg:
		if msg.err != nil {
			m.err = errors.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.status = generatedText(msg.nodes, msg.p)
		m.fit()

	case tea.MouseMsg:
		return m.mouse(msg), nil

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m tuiModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "g":
		m.status = fmt.Sprintf("Generating %d nodes...", m.gen.Nodes)
		return m, m.generate()
	case "s":
		m.err = ""
		if _, err := m.session.Start(); err != nil {
			m.err = errors.UserMessage(err)
		}
	case "p":
		m.session.Pause()
	case "r":
		m.session.Reset()
		m.status = statusReady
		m.err = ""
	case "+", "=":
		m.session.SetRate(m.session.Info().Rate + rateStep)
	case "-", "_":
		m.session.SetRate(m.session.Info().Rate - rateStep)
	case "w":
		m.weights = !m.weights
	case "f":
		m.fit()
	case "left":
		m.vp.Pan(panCells*term.CellWidth, 0)
	case "right":
		m.vp.Pan(-panCells*term.CellWidth, 0)
	case "up":
		m.vp.Pan(0, panCells*term.CellHeight)
	case "down":
		m.vp.Pan(0, -panCells*term.CellHeight)
	}
	return m, nil
}

// mouse pans on drag, zooms on wheel and picks on a click that did not drag.
func (m tuiModel) mouse(msg tea.MouseMsg) tuiModel {
	sx, sy := term.CellToScreen(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.vp.ZoomAt(sx, sy, wheelDelta)
	case msg.Button == tea.MouseButtonWheelDown:
		m.vp.ZoomAt(sx, sy, -wheelDelta)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging, m.dragged = true, false
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.dragX, msg.Y-m.dragY
		if dx != 0 || dy != 0 {
			m.vp.Pan(float64(dx)*term.CellWidth, float64(dy)*term.CellHeight)
			m.dragX, m.dragY = msg.X, msg.Y
			m.dragged = true
		}
	case msg.Action == tea.MouseActionRelease:
		if m.dragging && !m.dragged && msg.Y < m.rows() {
			m.session.Pick(m.vp, sx, sy)
		}
		m.dragging = false
	}
	return m
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	info := m.session.Info()
	var frame, status string
	var sel session.Selection
	m.session.View(func(g *graph.Graph, st *state.State, s session.Selection) {
		f := term.Draw(g, st, m.vp, term.Options{
			Width:       m.width,
			Height:      m.rows(),
			Source:      s.Source,
			Target:      s.Target,
			ShowWeights: m.weights,
		})
		frame = f.Render()
		status = statusText(st, s, info.Paused, m.status)
		sel = s
	})

	return frame + "\n" + m.statusBar(status, sel, info) + "\n" + barDimStyle.MaxWidth(m.width).Render(helpText)
}

func (m tuiModel) statusBar(status string, sel session.Selection, info session.Info) string {
	parts := []string{barStatusStyle.Render(status)}
	parts = append(parts, barDimStyle.Render(selectionText(sel)))
	parts = append(parts, barDimStyle.Render(formatRate(info.Rate)))
	if info.Backlog > 0 {
		parts = append(parts, barDimStyle.Render(fmt.Sprintf("%d queued", info.Backlog)))
	}
	if m.err != "" {
		parts = append(parts, barErrorStyle.Render(m.err))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, barDimStyle.Render(" · ")))
}

func selectionText(sel session.Selection) string {
	node := func(id int) string {
		if id == graph.NoNode {
			return "-"
		}
		return fmt.Sprint(id)
	}
	return fmt.Sprintf("source=%s target=%s", node(sel.Source), node(sel.Target))
}
