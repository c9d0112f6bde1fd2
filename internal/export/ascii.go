package export

import (
	"math"
	"strings"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// Glyphs used in the ASCII picture.
const (
	WallGlyph      = '█'
	PipeGlyph      = '║'
	SprinklerGlyph = '●'
)

// Default ASCII canvas size in characters.
const (
	DefaultASCIIWidth  = 80
	DefaultASCIIHeight = 25
)

type charGrid struct {
	cells         [][]rune
	width, height int
	minX, minY    float64
	scaleX        float64
	scaleY        float64
}

func (g *charGrid) project(p model.Point3D) (int, int) {
	return int(math.Round((p.X - g.minX) * g.scaleX)), int(math.Round((p.Y - g.minY) * g.scaleY))
}

// set writes r at grid coordinates with Y pointing up.
func (g *charGrid) set(x, y int, r rune) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[g.height-1-y][x] = r
	}
}

func (g *charGrid) line(a, b model.Point3D, r rune) {
	x1, y1 := g.project(a)
	x2, y2 := g.project(b)
	steps := max(abs(x2-x1), abs(y2-y1))
	if steps == 0 {
		g.set(x1, y1, r)
		return
	}
	for i := 0; i <= steps; i++ {
		g.set(x1+(x2-x1)*i/steps, y1+(y2-y1)*i/steps, r)
	}
}

// RenderASCII draws walls, pipes and sprinklers onto a width×height character
// canvas, followed by a legend. Sprinklers are drawn last and win overlaps.
func RenderASCII(scene Scene, width, height int) string {
	if len(scene.Room) == 0 {
		return "No room data available\n"
	}
	if width < 3 {
		width = DefaultASCIIWidth
	}
	if height < 3 {
		height = DefaultASCIIHeight
	}

	min, max := geometry.BoundingBox(scene.Room)
	g := &charGrid{
		width:  width,
		height: height,
		minX:   min.X,
		minY:   min.Y,
		scaleX: float64(width-2) / math.Max(max.X-min.X, 1),
		scaleY: float64(height-2) / math.Max(max.Y-min.Y, 1),
	}
	g.cells = make([][]rune, height)
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", width))
	}

	n := len(scene.Room)
	for i := range scene.Room {
		g.line(scene.Room[i], scene.Room[(i+1)%n], WallGlyph)
	}
	for _, p := range scene.Pipes {
		g.line(p.Start, p.End, PipeGlyph)
	}
	for _, s := range scene.Result.Sprinklers {
		x, y := g.project(s)
		if x <= 0 || x >= width-1 || y <= 0 || y >= height-1 {
			continue
		}
		// Wider than tall to offset the character aspect ratio.
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if math.Hypot(float64(dx), float64(dy)*0.5) <= 1 {
					g.set(x+dx, y+dy, SprinklerGlyph)
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString("SPRINKLER LAYOUT VISUALIZATION\n")
	b.WriteString("===============================\n\n")
	for _, row := range g.cells {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString("\nLegend: █ = Room walls, ║ = Water pipes, ● = Sprinklers\n")
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
