package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	"github.com/google/uuid"

	"github.com/ithesk/axeweb/domain"
)

// Point is one sampled pointer position on the signature canvas
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// strokeColor matches the pen color of the portal canvas
var strokeColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}

// SignaturePad accumulates freehand strokes and encodes them into a
// signature artifact. Clear discards both strokes and artifact; Save accepts
// an empty signature, which is a known gap carried over from the portal.
type SignaturePad struct {
	width    int
	height   int
	strokes  [][]Point
	current  []Point
	artifact *domain.SignatureArtifact
	clock    domain.Clock
}

// NewSignaturePad creates a pad with the given canvas dimensions.
func NewSignaturePad(width, height int, clock domain.Clock) *SignaturePad {
	return &SignaturePad{width: width, height: height, clock: clock}
}

// clampPoint confines a point to the canvas. Coordinates come straight from
// the browser; an out-of-range value must not drive the rasterizer beyond the
// drawable area.
func (p *SignaturePad) clampPoint(pt Point) Point {
	if pt.X < 0 {
		pt.X = 0
	} else if pt.X >= p.width {
		pt.X = p.width - 1
	}
	if pt.Y < 0 {
		pt.Y = 0
	} else if pt.Y >= p.height {
		pt.Y = p.height - 1
	}
	return pt
}

// Begin starts a new stroke at the given point.
func (p *SignaturePad) Begin(x, y int) {
	p.current = []Point{p.clampPoint(Point{X: x, Y: y})}
}

// Extend continues the active stroke. Without a preceding Begin it is a no-op.
func (p *SignaturePad) Extend(x, y int) {
	if p.current == nil {
		return
	}
	p.current = append(p.current, p.clampPoint(Point{X: x, Y: y}))
}

// End finishes the active stroke.
func (p *SignaturePad) End() {
	if p.current != nil {
		p.strokes = append(p.strokes, p.current)
		p.current = nil
	}
}

// SetStrokes replaces the pad contents with strokes captured elsewhere,
// as when the browser submits the drawing in one request. Points outside the
// canvas are clamped to its edge.
func (p *SignaturePad) SetStrokes(strokes [][]Point) {
	p.strokes = make([][]Point, 0, len(strokes))
	for _, stroke := range strokes {
		clamped := make([]Point, len(stroke))
		for i, pt := range stroke {
			clamped[i] = p.clampPoint(pt)
		}
		p.strokes = append(p.strokes, clamped)
	}
	p.current = nil
	p.artifact = nil
}

// Clear discards all strokes and the stored artifact.
func (p *SignaturePad) Clear() {
	p.strokes = nil
	p.current = nil
	p.artifact = nil
}

// Artifact returns the last saved artifact, if any.
func (p *SignaturePad) Artifact() (*domain.SignatureArtifact, bool) {
	if p.artifact == nil {
		return nil, false
	}
	return p.artifact, true
}

// Save rasterizes the strokes to a PNG data URL and stores the result as the
// pad's artifact for the given order.
func (p *SignaturePad) Save(orderID int64) (*domain.SignatureArtifact, error) {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			img.Set(x, y, color.White)
		}
	}

	for _, stroke := range p.strokes {
		for i := 1; i < len(stroke); i++ {
			drawLine(img, stroke[i-1], stroke[i])
		}
		if len(stroke) == 1 {
			img.Set(stroke[0].X, stroke[0].Y, strokeColor)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	artifact := &domain.SignatureArtifact{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		DataURL:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		CreatedAt: p.clock.Now(),
	}
	p.artifact = artifact
	return artifact, nil
}

// drawLine plots the segment between two points with integer line stepping.
func drawLine(img *image.RGBA, a, b Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		img.Set(x, y, strokeColor)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
