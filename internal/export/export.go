// Package export serializes rendered cover artifacts to files: JPEG for
// ebook covers, a single-page PDF wrapper for print covers. It sits on the
// far side of the core boundary; the compositor hands over a pixel buffer
// and this package owns it from there.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/signintech/gopdf"

	"github.com/quillforge/bindery/internal/geom"
	"github.com/quillforge/bindery/internal/logger"
	"github.com/quillforge/bindery/internal/raster"
)

// DefaultJPEGQuality matches the house setting for ebook covers.
const DefaultJPEGQuality = 90

// Exporter writes artifacts to disk.
type Exporter struct {
	logger *logger.Logger
}

// Config holds construction options for an Exporter.
type Config struct {
	Logger *logger.Logger
}

// New creates an exporter.
func New(cfg *Config) *Exporter {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	return &Exporter{logger: log}
}

// WriteJPEG saves the artifact as a JPEG at the given quality (1-100).
// Zero quality means DefaultJPEGQuality.
func (e *Exporter) WriteJPEG(art *raster.Artifact, path string, quality int) error {
	if art == nil || art.Image == nil {
		return fmt.Errorf("no artifact to export")
	}
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := imaging.Save(art.Image, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to write JPEG %s: %w", path, err)
	}
	e.logger.WithStage("export").WithArtifact(path).Debug("Wrote JPEG cover")
	return nil
}

// WritePNG saves the artifact as a PNG.
func (e *Exporter) WritePNG(art *raster.Artifact, path string) error {
	if art == nil || art.Image == nil {
		return fmt.Errorf("no artifact to export")
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := imaging.Save(art.Image, path); err != nil {
		return fmt.Errorf("failed to write PNG %s: %w", path, err)
	}
	e.logger.WithStage("export").WithArtifact(path).Debug("Wrote PNG cover")
	return nil
}

// WritePDF wraps the artifact in a single-page PDF whose page size is
// derived from the pixel dimensions and the artifact's DPI tag, so
// downstream tools report the correct physical cover size regardless of
// pixel count. The artifact must carry a positive DPI tag.
func (e *Exporter) WritePDF(art *raster.Artifact, path string) error {
	if art == nil || art.Image == nil {
		return fmt.Errorf("no artifact to export")
	}
	if art.DPI <= 0 {
		return fmt.Errorf("artifact has no dpi tag, cannot derive page size: %w", geom.ErrInvalidInput)
	}

	bounds := art.Image.Bounds()
	// Pixels to PDF points: px * 72 / dpi.
	widthPt := float64(bounds.Dx()) * 72.0 / float64(art.DPI)
	heightPt := float64(bounds.Dy()) * 72.0 / float64(art.DPI)

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		PageSize: gopdf.Rect{W: widthPt, H: heightPt},
	})
	pdf.AddPage()

	if err := pdf.ImageFrom(art.Image, 0, 0, &gopdf.Rect{W: widthPt, H: heightPt}); err != nil {
		return fmt.Errorf("failed to place cover image in PDF: %w", err)
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := pdf.WritePdf(path); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", path, err)
	}

	e.logger.WithStage("export").WithArtifact(path).WithFields(
		"page_pt", fmt.Sprintf("%.1fx%.1f", widthPt, heightPt),
		"dpi", art.DPI,
	).Debug("Wrote print cover PDF")
	return nil
}

// ValidatePDF checks the file at path is a structurally valid PDF.
func (e *Exporter) ValidatePDF(path string) error {
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf validation failed for %s: %w", path, err)
	}
	e.logger.WithStage("validate").WithArtifact(path).Debug("Validated print cover PDF")
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
