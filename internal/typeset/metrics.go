// Package typeset computes centered text placements within cover panels,
// including the rotated variant used on the spine. Text measurement is an
// injected capability so rendering backends and test doubles are
// interchangeable.
package typeset

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// ErrMetricsUnavailable indicates the text-metrics collaborator could not
// measure a line. Placement depends on correct measurements, so this is
// propagated to the caller and never retried.
var ErrMetricsUnavailable = errors.New("text metrics unavailable")

// Measurer reports the rendered pixel size of a single line of text for a
// given face. Implementations wrap an external font rasterizer and are
// treated as black boxes; a zero size for an empty string is valid output,
// not an error.
type Measurer interface {
	Measure(line string, face font.Face) (width, height int, err error)
}

// FaceMeasurer measures text using golang.org/x/image font faces. The
// line height is the face's ascent plus descent, independent of content,
// so stacked lines advance uniformly.
type FaceMeasurer struct{}

// NewFaceMeasurer creates the default production measurer.
func NewFaceMeasurer() *FaceMeasurer { return &FaceMeasurer{} }

// Measure implements Measurer.
func (m *FaceMeasurer) Measure(line string, face font.Face) (int, int, error) {
	if face == nil {
		return 0, 0, fmt.Errorf("no font face supplied: %w", ErrMetricsUnavailable)
	}
	if line == "" {
		return 0, 0, nil
	}
	width := font.MeasureString(face, line).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	return width, height, nil
}

// FixedMeasurer is a headless test double: every rune is CharWidth pixels
// wide and every line is LineHeight pixels tall. It keeps placement tests
// independent of real font files.
type FixedMeasurer struct {
	CharWidth  int
	LineHeight int

	// Err, when set, is returned from every call. Used to exercise
	// metrics-failure propagation.
	Err error
}

// Measure implements Measurer.
func (m *FixedMeasurer) Measure(line string, _ font.Face) (int, int, error) {
	if m.Err != nil {
		return 0, 0, m.Err
	}
	if line == "" {
		return 0, 0, nil
	}
	return len([]rune(line)) * m.CharWidth, m.LineHeight, nil
}

// FaceSource yields faces of one font family at requested pixel sizes.
// It is the opaque font descriptor handed to the cover renderer; resolving
// font files from disk stays outside the core.
type FaceSource interface {
	Face(sizePX int) (font.Face, error)
}

// FontFile is a FaceSource backed by a parsed TTF/OTF font.
type FontFile struct {
	font *opentype.Font
}

// LoadFontFile parses the TTF/OTF file at path.
func LoadFontFile(path string) (*FontFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}
	return ParseFont(data)
}

// ParseFont parses raw TTF/OTF bytes.
func ParseFont(data []byte) (*FontFile, error) {
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &FontFile{font: fnt}, nil
}

// Face implements FaceSource. The returned face renders glyphs sizePX
// pixels tall regardless of output resolution; physical sizing is handled
// by the DPI tag on exported artifacts, not by the rasterizer.
func (f *FontFile) Face(sizePX int) (font.Face, error) {
	if sizePX <= 0 {
		return nil, fmt.Errorf("face size must be positive, got %d px", sizePX)
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(sizePX),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %dpx face: %w", sizePX, err)
	}
	return face, nil
}
