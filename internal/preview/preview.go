// Package preview renders building footprints colored by land use, as a
// quick visual check of a pipeline run.
package preview

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/fogleman/gg"
	"github.com/stwalsh4118/citybuildings/internal/landuse"
	"github.com/stwalsh4118/citybuildings/internal/models"
	"github.com/twpayne/go-geom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	margin        = 24.0
	legendWidth   = 260.0
	legendRow     = 16.0
	maxLegendRows = 40
)

// palette is cycled over the sorted land-use categories.
var palette = []color.RGBA{
	{0xe6, 0x19, 0x4b, 0xff}, {0x3c, 0xb4, 0x4b, 0xff}, {0xff, 0xe1, 0x19, 0xff},
	{0x43, 0x63, 0xd8, 0xff}, {0xf5, 0x82, 0x31, 0xff}, {0x91, 0x1e, 0xb4, 0xff},
	{0x46, 0xf0, 0xf0, 0xff}, {0xf0, 0x32, 0xe6, 0xff}, {0xbc, 0xf6, 0x0c, 0xff},
	{0xfa, 0xbe, 0xbe, 0xff}, {0x00, 0x80, 0x80, 0xff}, {0xe6, 0xbe, 0xff, 0xff},
	{0x9a, 0x63, 0x24, 0xff}, {0xff, 0xfa, 0xc8, 0xff}, {0x80, 0x00, 0x00, 0xff},
	{0xaa, 0xff, 0xc3, 0xff}, {0x80, 0x80, 0x00, 0xff}, {0xff, 0xd8, 0xb1, 0xff},
	{0x00, 0x00, 0x75, 0xff}, {0x80, 0x80, 0x80, 0xff},
}

var unknownColor = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}

// Renderer draws footprints onto a fixed-size canvas.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer for a width x height image.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height}
}

// ColorFor returns the fill color of a land-use label. Labels keep their
// color across runs because the category list is static.
func ColorFor(label string) color.RGBA {
	if landuse.IsFallback(label) {
		return unknownColor
	}
	categories := landuse.Categories()
	i := sort.SearchStrings(categories, label)
	if i == len(categories) || categories[i] != label {
		return unknownColor
	}
	return palette[i%len(palette)]
}

// Render draws the records and returns the context. Coordinates must be
// longitude/latitude.
func (r *Renderer) Render(records []models.BuildingRecord) (*gg.Context, error) {
	dc := gg.NewContext(r.Width, r.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	ext := newExtent()
	counts := make(map[string]int)
	for _, rec := range records {
		if b := rec.Geometry.Bounds(); b != nil {
			ext.add(b)
		}
		counts[rec.LandUseDetailedType]++
	}
	if ext.empty() {
		return nil, fmt.Errorf("nothing to render: no footprints")
	}

	mapWidth := float64(r.Width) - legendWidth - 2*margin
	mapHeight := float64(r.Height) - 2*margin
	if mapWidth <= 0 || mapHeight <= 0 {
		return nil, fmt.Errorf("canvas %dx%d too small for preview", r.Width, r.Height)
	}
	tf := newTransform(ext, mapWidth, mapHeight)

	dc.SetFillRuleEvenOdd()
	dc.SetLineWidth(0.5)
	for _, rec := range records {
		if !tracePath(dc, rec.Geometry.Geom, tf) {
			continue
		}
		dc.SetColor(ColorFor(rec.LandUseDetailedType))
		dc.FillPreserve()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.Stroke()
	}

	drawLegend(dc, counts, float64(r.Width)-legendWidth)
	return dc, nil
}

// WriteFile renders the records as a PNG at path. The image is written to a
// temp file first so a failed render never leaves a truncated file behind.
func (r *Renderer) WriteFile(path string, records []models.BuildingRecord) error {
	dc, err := r.Render(records)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := dc.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to move preview into place: %w", err)
	}
	return nil
}

type extent struct {
	minX, minY, maxX, maxY float64
}

func newExtent() extent {
	return extent{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
}

func (e *extent) add(b *geom.Bounds) {
	e.minX = math.Min(e.minX, b.Min(0))
	e.minY = math.Min(e.minY, b.Min(1))
	e.maxX = math.Max(e.maxX, b.Max(0))
	e.maxY = math.Max(e.maxY, b.Max(1))
}

func (e extent) empty() bool {
	return e.minX > e.maxX || e.minY > e.maxY
}

// transform maps lon/lat into canvas pixels, shrinking longitude by the
// cosine of the mid latitude so buildings keep their shape.
type transform struct {
	minX, maxY float64
	kx, scale  float64
}

func newTransform(e extent, width, height float64) transform {
	midLat := (e.minY + e.maxY) / 2
	kx := math.Cos(midLat * math.Pi / 180)
	spanX := (e.maxX - e.minX) * kx
	spanY := e.maxY - e.minY

	scale := math.Inf(1)
	if spanX > 0 {
		scale = width / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, height/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	return transform{minX: e.minX, maxY: e.maxY, kx: kx, scale: scale}
}

func (t transform) apply(lon, lat float64) (float64, float64) {
	return margin + (lon-t.minX)*t.kx*t.scale, margin + (t.maxY-lat)*t.scale
}

// tracePath adds every ring of g to the current path. It returns false for
// geometries it cannot draw.
func tracePath(dc *gg.Context, g geom.T, tf transform) bool {
	var polygons []*geom.Polygon
	switch g := g.(type) {
	case *geom.Polygon:
		polygons = append(polygons, g)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			polygons = append(polygons, g.Polygon(i))
		}
	default:
		return false
	}

	dc.NewSubPath()
	for _, p := range polygons {
		for i := 0; i < p.NumLinearRings(); i++ {
			coords := p.LinearRing(i).Coords()
			for j, c := range coords {
				x, y := tf.apply(c.X(), c.Y())
				if j == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
	}
	return true
}

// drawLegend lists the categories by descending count.
func drawLegend(dc *gg.Context, counts map[string]int, left float64) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > maxLegendRows {
		labels = labels[:maxLegendRows]
	}

	title := cases.Title(language.English)
	y := margin
	for _, label := range labels {
		dc.SetColor(ColorFor(label))
		dc.DrawRectangle(left, y, 12, 12)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawString(fmt.Sprintf("%s (%d)", title.String(label), counts[label]), left+18, y+11)
		y += legendRow
	}
}
