// Package pipeline orchestrates a complete publish run: merge the
// manuscript with front and back matter, render both covers, convert to
// EPUB via pandoc, validate via epubcheck, and write an aggregate report.
//
// The cover core never invokes external tools; this package owns every
// boundary operation and never re-invokes a core render when a
// collaborator fails afterwards.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/quillforge/bindery/internal/config"
	"github.com/quillforge/bindery/internal/cover"
	"github.com/quillforge/bindery/internal/export"
	"github.com/quillforge/bindery/internal/logger"
	"github.com/quillforge/bindery/internal/metadata"
	"github.com/quillforge/bindery/internal/typeset"
)

// Orchestrator coordinates the complete publish workflow
type Orchestrator struct {
	config   *config.Config
	logger   *logger.Logger
	renderer *cover.Renderer
	exporter *export.Exporter
}

// Config holds configuration for the publish orchestrator
type Config struct {
	Config   *config.Config
	Logger   *logger.Logger
	Renderer *cover.Renderer
	Exporter *export.Exporter
}

// Inputs names the source files for one publish run. Only Manuscript is
// required; empty optional paths are skipped.
type Inputs struct {
	Manuscript  string
	Metadata    string
	FrontMatter string
	LegalNotice string
	BackMatter  string

	// CLI fallbacks used when the metadata file omits a field.
	TitleOverride     string
	AuthorOverride    string
	PageCountOverride int
}

// New creates a publish orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Config == nil {
		return nil, fmt.Errorf("config.Config is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = cover.New(&cover.Config{Logger: log})
	}
	exporter := cfg.Exporter
	if exporter == nil {
		exporter = export.New(&export.Config{Logger: log})
	}

	return &Orchestrator{
		config:   cfg.Config,
		logger:   log,
		renderer: renderer,
		exporter: exporter,
	}, nil
}

// Run executes the complete publish workflow and writes all artifacts to
// the configured output directory.
func (o *Orchestrator) Run(ctx context.Context, in Inputs) (*Result, error) {
	o.logger.Info("Starting publish workflow")
	startTime := time.Now()

	result := NewResult()

	if in.Manuscript == "" {
		return nil, fmt.Errorf("manuscript path is required")
	}
	if err := os.MkdirAll(o.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workDir, err := os.MkdirTemp("", "bindery-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	// Step 1: bring the manuscript to markdown and merge the book parts.
	manuscriptMD := filepath.Join(workDir, "manuscript.md")
	if err := o.convertToMarkdown(ctx, in.Manuscript, manuscriptMD); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	parts := []string{}
	for _, p := range []string{in.FrontMatter, manuscriptMD, in.LegalNotice, in.BackMatter} {
		if p == "" {
			continue
		}
		if p != manuscriptMD {
			if _, err := os.Stat(p); err != nil {
				result.AddWarning(fmt.Sprintf("skipping missing part %s", p))
				continue
			}
		}
		parts = append(parts, p)
	}
	mergedMD := filepath.Join(workDir, "full_book.md")
	if err := MergeMarkdown(parts, mergedMD); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	// Step 2: resolve book metadata.
	book := &metadata.Book{}
	if in.Metadata != "" {
		book, err = metadata.Load(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
	}
	book.Resolve(in.TitleOverride, in.AuthorOverride, in.PageCountOverride)
	o.logger.WithFields("title", book.Title, "author", book.Author, "pages", book.PageCount).Info("Resolved book metadata")

	faces, err := typeset.LoadFontFile(o.config.FontPath)
	if err != nil {
		return nil, fmt.Errorf("placement: %w", err)
	}
	trim, err := o.config.Trim()
	if err != nil {
		return nil, err
	}
	pal := cover.DefaultPalette()

	// Step 3: ebook cover JPEG.
	ebookArt, err := o.renderer.RenderEbookCover(book.Title, book.Author, trim, o.config.EbookLongSidePX, faces, pal)
	if err != nil {
		return nil, err
	}
	result.EbookCover = filepath.Join(o.config.OutputDir, "cover_ebook.jpg")
	if err := o.exporter.WriteJPEG(ebookArt, result.EbookCover, o.config.JPEGQuality); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	// Step 4: print wrap cover PDF.
	spec, err := o.config.CoverSpec(book.PageCount)
	if err != nil {
		return nil, err
	}
	plan, err := o.renderer.PlanPrintCover(spec)
	if err != nil {
		return nil, err
	}
	printArt, err := o.renderer.RenderCover(plan, book.Title, book.Author, faces, pal)
	if err != nil {
		return nil, err
	}
	result.PrintCover = filepath.Join(o.config.OutputDir, "cover_print.pdf")
	if err := o.exporter.WritePDF(printArt, result.PrintCover); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := o.exporter.ValidatePDF(result.PrintCover); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// Step 5: EPUB via pandoc.
	result.EPUB = filepath.Join(o.config.OutputDir, "book.epub")
	if err := o.buildEPUB(ctx, mergedMD, result.EbookCover, in.Metadata, result.EPUB); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	// Step 6: EPUB validation report; a missing epubcheck jar downgrades
	// to a skipped report, not a failure.
	result.ValidationReport = filepath.Join(o.config.OutputDir, "epubcheck_report.json")
	if err := o.validateEPUB(ctx, result.EPUB, result.ValidationReport); err != nil {
		result.AddWarning(fmt.Sprintf("epub validation: %v", err))
	}

	result.Duration = time.Since(startTime)

	// Step 7: aggregate report.
	reportPath := filepath.Join(o.config.OutputDir, "publish_report.json")
	if err := result.Write(reportPath); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	o.logger.WithFields(
		"run_id", result.RunID,
		"duration", result.Duration,
		"warnings", len(result.Warnings),
	).Info("Publish workflow finished")
	return result, nil
}

// convertibleExtensions lists manuscript formats handed to pandoc for
// conversion; .md files pass through untouched.
var convertibleExtensions = map[string]string{
	".docx": "docx",
	".doc":  "doc",
	".odt":  "odt",
	".txt":  "markdown",
}

// convertToMarkdown copies markdown manuscripts and converts everything
// else through pandoc.
func (o *Orchestrator) convertToMarkdown(ctx context.Context, inputPath, outPath string) error {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext == ".md" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read manuscript %s: %w", inputPath, err)
		}
		return os.WriteFile(outPath, data, 0644)
	}

	format, ok := convertibleExtensions[ext]
	if !ok {
		return fmt.Errorf("unsupported manuscript extension %q", ext)
	}

	args := []string{inputPath, "-f", format, "-t", "markdown", "-o", outPath}
	return o.runTool(ctx, o.config.PandocPath, args...)
}

// buildEPUB invokes pandoc to produce an EPUB3 with cover, optional CSS
// and metadata file, and a two-level table of contents.
func (o *Orchestrator) buildEPUB(ctx context.Context, mergedMD, coverPath, metadataPath, outEPUB string) error {
	args := []string{mergedMD, "-o", outEPUB, "--to", "epub3"}
	if coverPath != "" {
		args = append(args, "--epub-cover-image", coverPath)
	}
	if o.config.CSSPath != "" {
		args = append(args, "--css", o.config.CSSPath)
	}
	if metadataPath != "" {
		args = append(args, "--metadata-file", metadataPath)
	}
	args = append(args, "--toc", "--toc-depth=2")
	if err := o.runTool(ctx, o.config.PandocPath, args...); err != nil {
		return err
	}
	o.logger.WithStage("convert").WithArtifact(outEPUB).Info("EPUB generated")
	return nil
}

// validateEPUB runs epubcheck and writes a JSON report. Without a jar the
// report records the skip and no error is returned.
func (o *Orchestrator) validateEPUB(ctx context.Context, epubPath, reportPath string) error {
	jar := o.config.EpubcheckJar
	if jar == "" {
		o.logger.Warn("epubcheck jar not configured; skipping EPUB validation")
		return WriteSkippedValidation(epubPath, reportPath)
	}
	if _, err := os.Stat(jar); err != nil {
		o.logger.WithFields("jar", jar).Warn("epubcheck jar not found; skipping EPUB validation")
		return WriteSkippedValidation(epubPath, reportPath)
	}

	err := o.runTool(ctx, "java", "-jar", jar, epubPath, "-mode", "expensive", "-out", reportPath)
	if err != nil {
		return fmt.Errorf("epubcheck failed: %w", err)
	}
	o.logger.WithStage("validate").WithArtifact(reportPath).Info("EPUB validation report written")
	return nil
}

func (o *Orchestrator) runTool(ctx context.Context, name string, args ...string) error {
	o.logger.WithFields("cmd", name, "args", strings.Join(args, " ")).Debug("Running external tool")
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\noutput: %s", name, err, string(out))
	}
	return nil
}

// MergeMarkdown concatenates the markdown parts in order with an explicit
// page break marker between them, so print layouts start each part on a
// fresh page.
func MergeMarkdown(parts []string, outPath string) error {
	var sb strings.Builder
	for _, p := range parts {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read part %s: %w", p, err)
		}
		sb.Write(data)
		sb.WriteString("\n\n<div style=\"page-break-after: always;\"></div>\n\n")
	}
	if err := os.WriteFile(outPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write merged markdown: %w", err)
	}
	return nil
}
