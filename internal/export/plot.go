package export

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/piwi3910/SprinklerLayout/internal/geometry"
	"github.com/piwi3910/SprinklerLayout/internal/model"
)

// circleSegments is the number of chords used to approximate coverage circles.
const circleSegments = 48

var (
	plotWallColor       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	plotPipeColor       = color.RGBA{R: 0, G: 90, B: 200, A: 255}
	plotConnectionColor = color.RGBA{R: 0, G: 160, B: 80, A: 255}
	plotSprinklerColor  = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	plotCoverageColor   = color.RGBA{R: 220, G: 40, B: 40, A: 90}
)

// ExportPNG renders the layout as a plan-view image. The file format follows
// the extension of path (png, svg, pdf, jpg).
func ExportPNG(path string, scene Scene) error {
	p, err := buildPlot(scene)
	if err != nil {
		return err
	}

	// Keep the image aspect ratio close to the room's so circles stay round.
	min, max := geometry.BoundingBox(scene.Room)
	w := 10 * vg.Inch
	h := w
	if dx := max.X - min.X; dx > 0 {
		h = vg.Length(float64(w) * math.Max(0.3, math.Min(3, (max.Y-min.Y)/dx)))
	}

	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

func buildPlot(scene Scene) (*plot.Plot, error) {
	if err := scene.check(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", scene.title(), scene.Result.Strategy)
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"
	p.Add(plotter.NewGrid())

	wall := make(plotter.XYs, 0, len(scene.Room)+1)
	for _, v := range scene.Room {
		wall = append(wall, plotter.XY{X: v.X, Y: v.Y})
	}
	wall = append(wall, wall[0])
	wallLine, err := plotter.NewLine(wall)
	if err != nil {
		return nil, err
	}
	wallLine.Color = plotWallColor
	wallLine.Width = vg.Points(2)
	p.Add(wallLine)
	p.Legend.Add("Room", wallLine)

	radius := scene.Settings.MinimumCoverageRadius
	for i, s := range scene.Result.Sprinklers {
		if radius > 0 {
			circle, err := plotter.NewLine(circlePoints(s, radius))
			if err != nil {
				return nil, err
			}
			circle.Color = plotCoverageColor
			circle.Width = vg.Points(0.5)
			p.Add(circle)
			if i == 0 {
				p.Legend.Add("Coverage", circle)
			}
		}
	}

	for i, pipe := range scene.Pipes {
		line, err := plotter.NewLine(plotter.XYs{
			{X: pipe.Start.X, Y: pipe.Start.Y},
			{X: pipe.End.X, Y: pipe.End.Y},
		})
		if err != nil {
			return nil, err
		}
		line.Color = plotPipeColor
		line.Width = vg.Points(3)
		p.Add(line)
		if i == 0 {
			p.Legend.Add("Pipes", line)
		}
	}

	for i, c := range scene.Result.Connections {
		line, err := plotter.NewLine(plotter.XYs{
			{X: c.Sprinkler.X, Y: c.Sprinkler.Y},
			{X: c.Point.X, Y: c.Point.Y},
		})
		if err != nil {
			return nil, err
		}
		line.Color = plotConnectionColor
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		if i == 0 {
			p.Legend.Add("Connections", line)
		}
	}

	if len(scene.Result.Sprinklers) > 0 {
		pts := make(plotter.XYs, len(scene.Result.Sprinklers))
		for i, s := range scene.Result.Sprinklers {
			pts[i] = plotter.XY{X: s.X, Y: s.Y}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = plotSprinklerColor
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)
		p.Legend.Add("Sprinklers", scatter)
	}

	min, max := geometry.BoundingBox(scene.Room)
	pad := math.Max(max.X-min.X, max.Y-min.Y) * 0.05
	p.X.Min, p.X.Max = min.X-pad, max.X+pad
	p.Y.Min, p.Y.Max = min.Y-pad, max.Y+pad

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

func circlePoints(center model.Point3D, radius float64) plotter.XYs {
	pts := make(plotter.XYs, circleSegments+1)
	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = plotter.XY{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return pts
}
