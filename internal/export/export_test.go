package export

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/quillforge/bindery/internal/geom"
	"github.com/quillforge/bindery/internal/raster"
)

func testArtifact(t *testing.T, dpi int) *raster.Artifact {
	t.Helper()
	plan, err := geom.Plan(geom.CoverSpec{
		Trim:               geom.PhysicalSize{WidthMM: 52, HeightMM: 74},
		BleedMM:            3,
		DPI:                96,
		PageCount:          120,
		ThicknessPerPageMM: 0.0025,
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	art, err := raster.Composite(plan, nil, raster.Options{
		Fills: map[geom.Panel]color.Color{
			geom.PanelBack:  color.NRGBA{R: 230, G: 230, B: 250, A: 255},
			geom.PanelSpine: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
			geom.PanelFront: color.NRGBA{R: 245, G: 245, B: 245, A: 255},
		},
		DPI: dpi,
	})
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	return art
}

func TestWriteJPEG(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "cover_ebook.jpg")

	if err := e.WriteJPEG(testArtifact(t, 0), path, 90); err != nil {
		t.Fatalf("WriteJPEG() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	// JPEG SOI marker.
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("output is not a JPEG (starts %x)", data[:2])
	}
}

func TestWritePNG(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "cover.png")

	if err := e.WritePNG(testArtifact(t, 0), path); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG")
	}
}

func TestWritePDF(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "cover_print.pdf")

	if err := e.WritePDF(testArtifact(t, 96), path); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Errorf("output is not a PDF (starts %q)", data[:4])
	}

	// The wrapper must survive structural validation.
	if err := e.ValidatePDF(path); err != nil {
		t.Errorf("ValidatePDF() error = %v", err)
	}
}

func TestWritePDF_RequiresDPITag(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "cover_print.pdf")

	err := e.WritePDF(testArtifact(t, 0), path)
	if !errors.Is(err, geom.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput for missing dpi tag", err)
	}
}

func TestWritePDF_CreatesParentDirs(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "nested", "out", "cover_print.pdf")

	if err := e.WritePDF(testArtifact(t, 96), path); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestValidatePDF_RejectsGarbage(t *testing.T) {
	e := New(nil)
	path := filepath.Join(t.TempDir(), "not-a.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := e.ValidatePDF(path); err == nil {
		t.Error("expected validation error for garbage file")
	}
}
