package geom

import "fmt"

// SpineWidthMM estimates the spine width as pageCount times the per-page
// paper thickness.
//
// This is a deliberate linear approximation, not a calibrated model: real
// spine width depends on paper stock, binding glue, and vendor tolerances.
// The caller supplies thicknessPerPageMM from printer specs; this package
// cannot derive it. Zero pages is valid and yields a zero-width spine.
func SpineWidthMM(pageCount int, thicknessPerPageMM float64) (float64, error) {
	if pageCount < 0 {
		return 0, fmt.Errorf("page count must not be negative, got %d: %w", pageCount, ErrInvalidInput)
	}
	if thicknessPerPageMM < 0 {
		return 0, fmt.Errorf("paper thickness must not be negative, got %g: %w", thicknessPerPageMM, ErrInvalidInput)
	}
	return float64(pageCount) * thicknessPerPageMM, nil
}
