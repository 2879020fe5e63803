// Package raster paints planned covers onto pixel buffers. It is the last
// stage of the plan, place, composite pipeline; file serialization is the
// export package's concern.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/quillforge/bindery/internal/geom"
	"github.com/quillforge/bindery/internal/typeset"
)

// Artifact is a rendered cover: the pixel buffer plus the resolution tag
// it should be exported with. The tag never changes pixel content; page
// description exporters use it to report correct physical dimensions.
type Artifact struct {
	Image *image.NRGBA
	DPI   int
}

// Options configures one composite call.
type Options struct {
	// Background fills the whole canvas, bleed included. Defaults to white.
	Background color.Color

	// Fills maps panel names to their background colors. Panels without an
	// entry keep the canvas background.
	Fills map[geom.Panel]color.Color

	// DPI is the resolution tag stamped on the artifact.
	DPI int
}

// Composite paints the canvas background, then each panel fill, then each
// placed text line, in that order. Later draws occlude earlier ones; there
// is no blending between layers. An empty placement list yields the
// fill-only canvas.
func Composite(plan *geom.CanvasPlan, placements []typeset.Placement, opts Options) (*Artifact, error) {
	if plan == nil {
		return nil, fmt.Errorf("composite requires a canvas plan")
	}
	if plan.WidthPX <= 0 || plan.HeightPX <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d px is not positive: %w", plan.WidthPX, plan.HeightPX, geom.ErrInvalidInput)
	}

	background := opts.Background
	if background == nil {
		background = color.White
	}

	canvas := imaging.New(plan.WidthPX, plan.HeightPX, background)

	// Panel fills in the fixed left-to-right order so overlap, if a caller
	// ever constructs a degenerate plan, resolves deterministically.
	for _, name := range []geom.Panel{geom.PanelBack, geom.PanelSpine, geom.PanelFront} {
		fill, ok := opts.Fills[name]
		if !ok {
			continue
		}
		rect, ok := plan.Panels[name]
		if !ok {
			return nil, fmt.Errorf("plan has no %s panel", name)
		}
		fillRect(canvas, rect, fill)
	}

	for i, p := range placements {
		if err := drawPlacement(canvas, p); err != nil {
			return nil, fmt.Errorf("failed to draw placement %d (%q): %w", i, p.Line, err)
		}
	}

	return &Artifact{Image: canvas, DPI: opts.DPI}, nil
}

func fillRect(dst *image.NRGBA, r geom.PanelRect, c color.Color) {
	bounds := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	draw.Draw(dst, bounds, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawPlacement(dst *image.NRGBA, p typeset.Placement) error {
	if p.Line == "" {
		return nil
	}
	if p.Face == nil {
		return fmt.Errorf("placement has no font face")
	}

	if !p.Rotated {
		drawLine(dst, p, p.X, p.Y)
		return nil
	}

	if p.BlockWidth <= 0 || p.BlockHeight <= 0 {
		return fmt.Errorf("rotated placement has empty block %dx%d", p.BlockWidth, p.BlockHeight)
	}

	// Compose the line into an unrotated transparent block, rotate the
	// finished block, then center it within the spine panel. Rotating
	// per glyph would break centering because metrics only exist in
	// unrotated space.
	block := imaging.New(p.BlockWidth, p.BlockHeight, color.Transparent)
	drawLine(block, p, p.X, p.Y)
	rotated := imaging.Rotate90(block)

	offset := image.Pt(
		p.Panel.X+(p.Panel.Width-rotated.Bounds().Dx())/2,
		p.Panel.Y+(p.Panel.Height-rotated.Bounds().Dy())/2,
	)
	draw.Draw(dst, rotated.Bounds().Add(offset), rotated, image.Point{}, draw.Over)
	return nil
}

// drawLine draws the placement's text with its top-left corner at (x, y).
// Placements position line boxes; the drawer wants a baseline, so the
// face's ascent bridges the two.
func drawLine(dst draw.Image, p typeset.Placement, x, y int) {
	ascent := p.Face.Metrics().Ascent.Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(p.Color),
		Face: p.Face,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(p.Line)
}
