package geom

import "fmt"

// Plan computes the full canvas size and the pixel rectangles of the
// back, spine, and front panels for the given spec.
//
// The canvas spans, left to right: bleed, back cover, spine, front cover,
// bleed. All three panels share y = bleed and the trim height. A zero
// spine width is valid (front and back abut); zero bleed collapses the
// outer margins.
//
// Plan is a pure function: identical specs yield identical plans.
func Plan(spec CoverSpec) (*CanvasPlan, error) {
	spineMM, err := SpineWidthMM(spec.PageCount, spec.ThicknessPerPageMM)
	if err != nil {
		return nil, err
	}
	if spec.BleedMM < 0 {
		return nil, fmt.Errorf("bleed must not be negative, got %g: %w", spec.BleedMM, ErrInvalidInput)
	}

	fullWidthMM := 2*spec.Trim.WidthMM + spineMM + 2*spec.BleedMM
	fullHeightMM := spec.Trim.HeightMM + 2*spec.BleedMM

	// Each quantity is converted independently; see CanvasPlan.SeamDriftPX.
	widthPX, err := MMToPX(fullWidthMM, spec.DPI)
	if err != nil {
		return nil, err
	}
	heightPX, err := MMToPX(fullHeightMM, spec.DPI)
	if err != nil {
		return nil, err
	}
	bleedPX, err := MMToPX(spec.BleedMM, spec.DPI)
	if err != nil {
		return nil, err
	}
	pageWidthPX, err := MMToPX(spec.Trim.WidthMM, spec.DPI)
	if err != nil {
		return nil, err
	}
	pageHeightPX, err := MMToPX(spec.Trim.HeightMM, spec.DPI)
	if err != nil {
		return nil, err
	}
	spinePX, err := MMToPX(spineMM, spec.DPI)
	if err != nil {
		return nil, err
	}

	if widthPX <= 0 || heightPX <= 0 {
		return nil, fmt.Errorf("computed canvas size %dx%d px is not positive: %w", widthPX, heightPX, ErrInvalidInput)
	}
	if pageWidthPX <= 0 || pageHeightPX <= 0 {
		return nil, fmt.Errorf("computed panel size %dx%d px is not positive: %w", pageWidthPX, pageHeightPX, ErrInvalidInput)
	}

	back := PanelRect{
		X:      bleedPX,
		Y:      bleedPX,
		Width:  pageWidthPX,
		Height: pageHeightPX,
	}
	spine := PanelRect{
		X:      back.X + back.Width,
		Y:      bleedPX,
		Width:  spinePX,
		Height: pageHeightPX,
	}
	front := PanelRect{
		X:      spine.X + spine.Width,
		Y:      bleedPX,
		Width:  pageWidthPX,
		Height: pageHeightPX,
	}

	return &CanvasPlan{
		WidthPX:  widthPX,
		HeightPX: heightPX,
		BleedPX:  bleedPX,
		DPI:      spec.DPI,
		Panels: map[Panel]PanelRect{
			PanelBack:  back,
			PanelSpine: spine,
			PanelFront: front,
		},
		SeamDriftPX: widthPX - (2*pageWidthPX + spinePX + 2*bleedPX),
	}, nil
}
