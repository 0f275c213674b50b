// Package render draws tracking overlays onto JPEG frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/TechWebSid/testcam/pkg/detection"
	"github.com/TechWebSid/testcam/pkg/tracking"
	"gocv.io/x/gocv"
)

// Renderer annotates frames with the face box, landmark markers and the
// displacement vector. Implements tracking.Annotator.
type Renderer struct {
	BoxColor     color.RGBA
	MarkerColor  color.RGBA
	MotionColor  color.RGBA
	BoxThickness int
	MarkerRadius int
}

// New returns a renderer with the default palette: green box, yellow
// landmarks, red displacement vector.
func New() *Renderer {
	return &Renderer{
		BoxColor:     color.RGBA{0, 255, 0, 255},
		MarkerColor:  color.RGBA{255, 255, 0, 255},
		MotionColor:  color.RGBA{255, 0, 0, 255},
		BoxThickness: 2,
		MarkerRadius: 3,
	}
}

// Annotate decodes the JPEG frame, draws the overlay instructions and
// re-encodes. The input slice is never modified.
func (r *Renderer) Annotate(jpeg []byte, overlay tracking.Overlay) ([]byte, error) {
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	if !overlay.Box.Empty() {
		gocv.Rectangle(&img, overlay.Box, r.BoxColor, r.BoxThickness)
	}

	for _, p := range overlay.Landmarks {
		gocv.Circle(&img, toPixel(p), r.MarkerRadius, r.MarkerColor, -1)
	}

	if overlay.Motion != nil {
		gocv.Line(&img, toPixel(overlay.Motion.From), toPixel(overlay.Motion.To),
			r.MotionColor, r.BoxThickness)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func toPixel(p detection.Point) image.Point {
	return image.Pt(int(p.X+0.5), int(p.Y+0.5))
}
