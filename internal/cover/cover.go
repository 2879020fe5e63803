// Package cover renders print wrap covers and ebook covers through the
// plan, place, composite pipeline. It is the surface the orchestrator
// calls; geometry, placement, and painting live in their own packages so
// each stage can be tested and replaced independently.
package cover

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/quillforge/bindery/internal/geom"
	"github.com/quillforge/bindery/internal/logger"
	"github.com/quillforge/bindery/internal/raster"
	"github.com/quillforge/bindery/internal/typeset"
)

// Palette holds the fill and ink colors for one cover render.
type Palette struct {
	Background color.Color
	Back       color.Color
	Spine      color.Color
	Front      color.Color
	Title      color.Color
	Author     color.Color
}

// DefaultPalette returns the house colors: lavender back, gray spine,
// off-white front, near-black title ink.
func DefaultPalette() Palette {
	return Palette{
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Back:       color.NRGBA{R: 230, G: 230, B: 250, A: 255},
		Spine:      color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		Front:      color.NRGBA{R: 245, G: 245, B: 245, A: 255},
		Title:      color.NRGBA{R: 20, G: 20, B: 20, A: 255},
		Author:     color.NRGBA{R: 60, G: 60, B: 60, A: 255},
	}
}

// Renderer renders covers. It is stateless between calls; concurrent
// renders with different specs need no coordination.
type Renderer struct {
	logger   *logger.Logger
	measurer typeset.Measurer
}

// Config holds construction options for a Renderer.
type Config struct {
	Logger *logger.Logger

	// Measurer overrides the text-metrics collaborator. Defaults to the
	// opentype-backed measurer; tests inject a fixed-metrics double.
	Measurer typeset.Measurer
}

// New creates a renderer.
func New(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	m := cfg.Measurer
	if m == nil {
		m = typeset.NewFaceMeasurer()
	}
	return &Renderer{logger: log, measurer: m}
}

// PlanPrintCover computes the wrap-cover canvas plan for the spec.
func (r *Renderer) PlanPrintCover(spec geom.CoverSpec) (*geom.CanvasPlan, error) {
	plan, err := geom.Plan(spec)
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}
	r.logger.WithStage("planning").WithFields(
		"canvas_px", fmt.Sprintf("%dx%d", plan.WidthPX, plan.HeightPX),
		"spine_px", plan.Panels[geom.PanelSpine].Width,
		"seam_drift_px", plan.SeamDriftPX,
	).Debug("Planned print cover")
	return plan, nil
}

// Anchor fractions and per-panel font sizing, relative to panel height.
// These mirror the house layout: title in the upper third of the front
// panel, author near the bottom, spine text sized to the spine width.
const (
	printTitleAnchorY  = 0.18
	printAuthorAnchorY = 0.88
	printTitleScale    = 0.12
	printAuthorScale   = 0.07
	spineTextScale     = 0.7
	printLineGapPX     = 6

	ebookTitleAnchorY  = 0.30
	ebookAuthorAnchorY = 0.88
	ebookTitleScale    = 0.08
	ebookAuthorScale   = 0.04
	ebookLineGapPX     = 10
)

// RenderCover renders the planned print wrap cover: panel fills, title and
// author on the front panel, and the title rotated along the spine. An
// empty title and author produce the fill-only canvas.
func (r *Renderer) RenderCover(plan *geom.CanvasPlan, title, author string, faces typeset.FaceSource, pal Palette) (*raster.Artifact, error) {
	if plan == nil {
		return nil, fmt.Errorf("compositing: no canvas plan: %w", geom.ErrInvalidInput)
	}

	front := plan.Panels[geom.PanelFront]
	spine := plan.Panels[geom.PanelSpine]

	var placements []typeset.Placement

	titleLines := splitLines(title)
	if len(titleLines) > 0 {
		face, err := faces.Face(sizeOrMin(printTitleScale, front.Height, 12))
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placed, err := typeset.PlaceCentered(r.measurer, typeset.TextBlock{
			Lines:     titleLines,
			Face:      face,
			Color:     pal.Title,
			LineGapPX: printLineGapPX,
		}, front, printTitleAnchorY)
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placements = append(placements, placed...)
	}

	if strings.TrimSpace(author) != "" {
		face, err := faces.Face(sizeOrMin(printAuthorScale, front.Height, 10))
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placed, err := typeset.PlaceCentered(r.measurer, typeset.TextBlock{
			Lines: []string{"By " + author},
			Face:  face,
			Color: pal.Author,
		}, front, printAuthorAnchorY)
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placements = append(placements, placed...)
	}

	if spine.Width > 0 && len(titleLines) > 0 {
		face, err := faces.Face(sizeOrMin(spineTextScale, spine.Width, 8))
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placed, err := typeset.PlaceRotatedSpine(r.measurer, typeset.TextBlock{
			Lines: titleLines,
			Face:  face,
			Color: pal.Title,
		}, spine)
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placements = append(placements, placed...)
	}

	art, err := raster.Composite(plan, placements, raster.Options{
		Background: pal.Background,
		Fills: map[geom.Panel]color.Color{
			geom.PanelBack:  pal.Back,
			geom.PanelSpine: pal.Spine,
			geom.PanelFront: pal.Front,
		},
		DPI: plan.DPI,
	})
	if err != nil {
		return nil, fmt.Errorf("compositing: %w", err)
	}

	r.logger.WithStage("compositing").WithFields(
		"placements", len(placements),
		"canvas_px", fmt.Sprintf("%dx%d", plan.WidthPX, plan.HeightPX),
	).Debug("Rendered print cover")
	return art, nil
}

// RenderEbookCover renders a flat single-panel cover that keeps the trim
// aspect ratio with its long side scaled to longSidePX. Ebook covers have
// no physical size, so the artifact carries no DPI tag.
func (r *Renderer) RenderEbookCover(title, author string, trim geom.PhysicalSize, longSidePX int, faces typeset.FaceSource, pal Palette) (*raster.Artifact, error) {
	if longSidePX <= 0 {
		return nil, fmt.Errorf("planning: long side must be positive, got %d px: %w", longSidePX, geom.ErrInvalidInput)
	}
	if trim.WidthMM <= 0 || trim.HeightMM <= 0 {
		return nil, fmt.Errorf("planning: trim %gx%g mm is not positive: %w", trim.WidthMM, trim.HeightMM, geom.ErrInvalidInput)
	}

	var widthPX, heightPX int
	if trim.HeightMM >= trim.WidthMM {
		heightPX = longSidePX
		widthPX = int(math.Round(float64(longSidePX) * trim.WidthMM / trim.HeightMM))
	} else {
		widthPX = longSidePX
		heightPX = int(math.Round(float64(longSidePX) * trim.HeightMM / trim.WidthMM))
	}
	if widthPX <= 0 || heightPX <= 0 {
		return nil, fmt.Errorf("planning: computed cover size %dx%d px is not positive: %w", widthPX, heightPX, geom.ErrInvalidInput)
	}

	// A single full-bleed panel; the wrap pipeline handles the rest.
	panel := geom.PanelRect{X: 0, Y: 0, Width: widthPX, Height: heightPX}
	plan := &geom.CanvasPlan{
		WidthPX:  widthPX,
		HeightPX: heightPX,
		Panels:   map[geom.Panel]geom.PanelRect{geom.PanelFront: panel},
	}

	var placements []typeset.Placement

	titleLines := splitLines(title)
	if len(titleLines) > 0 {
		face, err := faces.Face(sizeOrMin(ebookTitleScale, heightPX, 28))
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placed, err := typeset.PlaceCentered(r.measurer, typeset.TextBlock{
			Lines:     titleLines,
			Face:      face,
			Color:     pal.Title,
			LineGapPX: ebookLineGapPX,
		}, panel, ebookTitleAnchorY)
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placements = append(placements, placed...)
	}

	if strings.TrimSpace(author) != "" {
		face, err := faces.Face(sizeOrMin(ebookAuthorScale, heightPX, 18))
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placed, err := typeset.PlaceCentered(r.measurer, typeset.TextBlock{
			Lines: []string{"By " + author},
			Face:  face,
			Color: pal.Author,
		}, panel, ebookAuthorAnchorY)
		if err != nil {
			return nil, fmt.Errorf("placement: %w", err)
		}
		placements = append(placements, placed...)
	}

	art, err := raster.Composite(plan, placements, raster.Options{
		Background: pal.Background,
		Fills:      map[geom.Panel]color.Color{geom.PanelFront: pal.Front},
	})
	if err != nil {
		return nil, fmt.Errorf("compositing: %w", err)
	}

	r.logger.WithStage("compositing").WithFields(
		"canvas_px", fmt.Sprintf("%dx%d", widthPX, heightPX),
		"placements", len(placements),
	).Debug("Rendered ebook cover")
	return art, nil
}

// sizeOrMin scales a panel dimension by factor, clamped below at min.
// Fonts stop shrinking past legibility even on tiny panels.
func sizeOrMin(factor float64, dimensionPX, min int) int {
	size := int(factor * float64(dimensionPX))
	if size < min {
		return min
	}
	return size
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
