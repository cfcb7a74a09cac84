// Package term rasterizes a graph and its search state into a grid of
// terminal cells.
//
// Screen units are mapped onto cells through a [graph.Transform]; one cell
// is CellWidth units wide and CellHeight units tall, which roughly matches
// the aspect ratio of a terminal font. Edges are clipped to the frame before
// they are rasterized, so zooming in does not cost more than the visible
// area.
package term

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/render"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

// Cell size in screen units.
const (
	CellWidth  = 4.0
	CellHeight = 8.0
)

// Options configures a frame.
type Options struct {
	Width       int // columns
	Height      int // rows
	Source      int
	Target      int
	ShowWeights bool
}

// Placer maps world coordinates to screen units.
type Placer interface {
	ToScreen(x, y float64) (sx, sy float64)
}

var (
	edgeGlyphs = map[render.Role]rune{
		render.EdgeIdle:     '·',
		render.EdgeRejected: '·',
		render.EdgeAccepted: '•',
		render.EdgeSettled:  '•',
		render.EdgePath:     '*',
	}
	nodeGlyphs = map[render.Role]rune{
		render.NodeIdle:    'o',
		render.NodeSettled: '●',
		render.NodeTarget:  'T',
		render.NodeSource:  'S',
	}
)

type cell struct {
	r     rune
	color string
	prio  int
}

// Frame is a rasterized picture of the graph.
type Frame struct {
	Width  int
	Height int
	cells  []cell
}

func newFrame(w, h int) *Frame {
	f := &Frame{Width: max(w, 0), Height: max(h, 0)}
	f.cells = make([]cell, f.Width*f.Height)
	return f
}

// At returns the glyph and color at column x, row y. Empty cells are a
// space with no color.
func (f *Frame) At(x, y int) (rune, string) {
	c := f.cells[y*f.Width+x]
	if c.r == 0 {
		return ' ', ""
	}
	return c.r, c.color
}

func (f *Frame) put(x, y int, r rune, color string, prio int) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	c := &f.cells[y*f.Width+x]
	if prio >= c.prio {
		*c = cell{r: r, color: color, prio: prio}
	}
}

// Draw rasterizes g under st as seen through p.
func Draw(g *graph.Graph, st *state.State, p Placer, opts Options) *Frame {
	f := newFrame(opts.Width, opts.Height)
	if f.Width == 0 || f.Height == 0 {
		return f
	}

	path := render.PathPairs(st, opts.Target)
	g.UndirectedEdges(func(e graph.Edge) {
		role := render.EdgeRole(st, e.From, e.To)
		if _, ok := path[state.MakePair(e.From, e.To)]; ok {
			role = render.EdgePath
		}
		a, b := g.Node(e.From), g.Node(e.To)
		ax, ay := toCell(p, a.X, a.Y)
		bx, by := toCell(p, b.X, b.Y)
		f.line(ax, ay, bx, by, edgeGlyphs[role], role.Color(), 1+int(role))

		if opts.ShowWeights {
			label := fmt.Sprintf("%.0f", e.Weight)
			mx := snap((ax+bx)/2) - len(label)/2
			my := snap((ay + by) / 2)
			for i, r := range label {
				f.put(mx+i, my, r, render.WeightColor, 1+int(render.EdgePath))
			}
		}
	})

	for _, n := range g.Nodes() {
		role := render.NodeRole(st, opts.Source, opts.Target, n.ID)
		x, y := toCell(p, n.X, n.Y)
		f.put(snap(x), snap(y), nodeGlyphs[role], role.Color(), 1+int(role))
	}
	return f
}

// CellToScreen returns the screen point at the center of cell (col, row).
func CellToScreen(col, row int) (sx, sy float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

func toCell(p Placer, x, y float64) (float64, float64) {
	sx, sy := p.ToScreen(x, y)
	return sx/CellWidth - 0.5, sy/CellHeight - 0.5
}

// line rasterizes the segment after clipping it to the frame.
func (f *Frame) line(x0, y0, x1, y1 float64, r rune, color string, prio int) {
	x0, y0, x1, y1, ok := clip(x0, y0, x1, y1, -0.5, -0.5, float64(f.Width)-0.5, float64(f.Height)-0.5)
	if !ok {
		return
	}
	steps := int(math.Ceil(max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		f.put(snap(x0), snap(y0), r, color, prio)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		f.put(snap(x0+t*(x1-x0)), snap(y0+t*(y1-y0)), r, color, prio)
	}
}

// snap returns the cell containing coordinate v; halves round up.
func snap(v float64) int { return int(math.Floor(v + 0.5)) }

// clip is Liang-Barsky segment clipping against [xmin,xmax]x[ymin,ymax].
func clip(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, c := range [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	} {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// String returns the frame without colors, one line per row.
func (f *Frame) String() string {
	var b strings.Builder
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, _ := f.At(x, y)
			b.WriteRune(r)
		}
		if y < f.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render returns the frame with lipgloss colors. Runs of equally colored
// cells share one style.
func (f *Frame) Render() string {
	styles := map[string]lipgloss.Style{}
	style := func(color string) lipgloss.Style {
		s, ok := styles[color]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			styles[color] = s
		}
		return s
	}

	var b, run strings.Builder
	for y := 0; y < f.Height; y++ {
		cur := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(style(cur).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < f.Width; x++ {
			r, color := f.At(x, y)
			if color != cur {
				flush()
				cur = color
			}
			run.WriteRune(r)
		}
		flush()
		if y < f.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
