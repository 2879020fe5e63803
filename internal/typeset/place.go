package typeset

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/font"

	"github.com/quillforge/bindery/internal/geom"
)

// TextBlock is a run of text lines drawn with a single face and color.
// Blocks are built per render call and discarded after compositing.
type TextBlock struct {
	Lines []string
	Face  font.Face
	Color color.Color

	// LineGapPX is the extra vertical gap between stacked lines.
	LineGapPX int
}

// Placement pins one measured text line on the canvas.
//
// For an unrotated placement X and Y are the top-left corner of the line
// box in canvas coordinates. A rotated placement is composed in an
// unrotated block of BlockWidth by BlockHeight pixels with X and Y
// relative to that block; the compositor rotates the finished block 90
// degrees counter-clockwise and centers it within Panel. Metrics only
// exist in unrotated space, which is why the placement keeps the block
// coordinates instead of pre-rotating them.
type Placement struct {
	Line   string
	X      int
	Y      int
	Width  int
	Height int
	Face   font.Face
	Color  color.Color

	Rotated     bool
	BlockWidth  int
	BlockHeight int
	Panel       geom.PanelRect
}

// PlaceCentered lays out the block's lines horizontally centered within
// the panel, stacking downward from panel.Y + anchorFractionY*panel.Height
// and advancing by each line's height plus the block's line gap.
//
// Blank lines are dropped; a block with no drawable line yields an empty
// placement sequence and no error.
func PlaceCentered(m Measurer, block TextBlock, panel geom.PanelRect, anchorFractionY float64) ([]Placement, error) {
	var placements []Placement

	y := panel.Y + int(anchorFractionY*float64(panel.Height))
	for _, line := range block.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, h, err := m.Measure(line, block.Face)
		if err != nil {
			return nil, fmt.Errorf("failed to measure %q: %w", line, err)
		}
		placements = append(placements, Placement{
			Line:   line,
			X:      panel.X + (panel.Width-w)/2,
			Y:      y,
			Width:  w,
			Height: h,
			Face:   block.Face,
			Color:  block.Color,
		})
		y += h + block.LineGapPX
	}

	return placements, nil
}

// PlaceRotatedSpine places the block's first drawable line on the spine.
//
// The line is centered within an intermediate horizontal block sized to
// the spine panel with width and height swapped, because text metrics are
// only meaningful unrotated. The compositor then rotates that block 90
// degrees so its long axis runs along the spine and centers the result in
// the panel. Only the first line is used, by convention; spines hold one
// line of text.
//
// A zero-width spine or a block with no drawable line yields an empty
// sequence and no error.
func PlaceRotatedSpine(m Measurer, block TextBlock, panel geom.PanelRect) ([]Placement, error) {
	if panel.Width <= 0 || panel.Height <= 0 {
		return nil, nil
	}

	var line string
	for _, l := range block.Lines {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	if line == "" {
		return nil, nil
	}

	w, h, err := m.Measure(line, block.Face)
	if err != nil {
		return nil, fmt.Errorf("failed to measure spine text %q: %w", line, err)
	}

	blockW, blockH := panel.Height, panel.Width
	return []Placement{{
		Line:        line,
		X:           (blockW - w) / 2,
		Y:           (blockH - h) / 2,
		Width:       w,
		Height:      h,
		Face:        block.Face,
		Color:       block.Color,
		Rotated:     true,
		BlockWidth:  blockW,
		BlockHeight: blockH,
		Panel:       panel,
	}}, nil
}
