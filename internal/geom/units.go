package geom

import (
	"fmt"
	"math"
)

// MMPerInch is the exact definition of the inch in millimeters.
const MMPerInch = 25.4

// MMToPX converts a physical length in millimeters to whole pixels at the
// given resolution.
//
// Rounding is half-away-from-zero, and the same policy applies to every
// conversion within a render. Quantities are converted independently, so
// the conversion of a sum can differ by a pixel from the sum of
// conversions; callers that care (the panel planner) account for that
// explicitly rather than masking it.
func MMToPX(mm float64, dpi int) (int, error) {
	if dpi <= 0 {
		return 0, fmt.Errorf("dpi must be positive, got %d: %w", dpi, ErrInvalidInput)
	}
	return int(math.Round(mm / MMPerInch * float64(dpi))), nil
}

// PXToMM converts a pixel count back to millimeters at the given
// resolution. Used by exporters to derive physical page sizes.
func PXToMM(px int, dpi int) (float64, error) {
	if dpi <= 0 {
		return 0, fmt.Errorf("dpi must be positive, got %d: %w", dpi, ErrInvalidInput)
	}
	return float64(px) / float64(dpi) * MMPerInch, nil
}
