// Package geom computes the physical geometry and pixel layout of
// wrap-around print covers: unit conversion, spine width estimation, and
// panel rectangle placement.
package geom

import "errors"

// ErrInvalidInput indicates a request that violates an input contract
// (non-positive DPI, negative page count, non-positive computed pixel
// dimension). It is always surfaced to the caller, never clamped.
var ErrInvalidInput = errors.New("invalid input")

// Panel identifies one of the three cover panels. On the canvas they are
// laid out left to right in the fixed order back, spine, front.
type Panel string

// Panel names used as keys in CanvasPlan.Panels and in fill maps.
const (
	PanelBack  Panel = "back"
	PanelSpine Panel = "spine"
	PanelFront Panel = "front"
)

// PhysicalSize holds trim dimensions in millimeters. By convention width
// does not exceed height, but this is not enforced.
type PhysicalSize struct {
	WidthMM  float64
	HeightMM float64
}

// CoverSpec describes one print-cover render request. It is built once per
// request and never mutated after validation.
type CoverSpec struct {
	// Trim is the finished page size after cutting.
	Trim PhysicalSize

	// BleedMM is the extra margin printed beyond trim size, on every side.
	BleedMM float64

	// DPI is the raster resolution used for all mm to pixel conversions.
	DPI int

	// PageCount is the total interior page count, used for spine width.
	PageCount int

	// ThicknessPerPageMM is the paper thickness per page. This is a domain
	// fact the caller must supply; see SpineWidthMM.
	ThicknessPerPageMM float64
}

// PanelRect is a pixel rectangle on the cover canvas.
type PanelRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// CanvasPlan is the output of Plan: the full canvas size and the disjoint
// panel rectangles within it.
//
// Each millimeter quantity is converted to pixels independently (see
// MMToPX), and the canvas width comes from converting the summed
// millimeter width rather than summing converted parts. The two can
// disagree by a pixel or two, since each of the five addends rounds
// independently; SeamDriftPX records that difference so
//
//	Panels[PanelFront].X + Panels[PanelFront].Width + BleedPX + SeamDriftPX == WidthPX
//
// holds for every plan.
type CanvasPlan struct {
	WidthPX  int
	HeightPX int

	// BleedPX is the outer bleed margin in pixels.
	BleedPX int

	// DPI is the resolution the plan was computed at, carried along so
	// exporters can tag artifacts with the correct physical size.
	DPI int

	// Panels maps panel name to its rectangle. Rectangles are disjoint and
	// contiguous: back ends where spine starts, spine ends where front starts.
	Panels map[Panel]PanelRect

	// SeamDriftPX is the rounding difference between the independently
	// converted full width and the sum of the converted parts.
	SeamDriftPX int
}
