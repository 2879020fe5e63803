package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result lists the artifacts produced by one publish run. It is written
// verbatim as publish_report.json.
type Result struct {
	RunID            string        `json:"run_id"`
	EPUB             string        `json:"epub"`
	EbookCover       string        `json:"ebook_cover"`
	PrintCover       string        `json:"print_cover_pdf"`
	ValidationReport string        `json:"validation_report"`
	Warnings         []string      `json:"warnings,omitempty"`
	Duration         time.Duration `json:"duration_ns"`
}

// NewResult creates a result with a fresh run ID.
func NewResult() *Result {
	return &Result{RunID: uuid.NewString()}
}

// AddWarning records a non-fatal problem.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Write serializes the result as indented JSON at path.
func (r *Result) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal publish report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write publish report %s: %w", path, err)
	}
	return nil
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var sb strings.Builder
	sb.WriteString("Publish Summary:\n")
	sb.WriteString(fmt.Sprintf("  EPUB: %s\n", r.EPUB))
	sb.WriteString(fmt.Sprintf("  Ebook Cover: %s\n", r.EbookCover))
	sb.WriteString(fmt.Sprintf("  Print Cover: %s\n", r.PrintCover))
	sb.WriteString(fmt.Sprintf("  Validation Report: %s\n", r.ValidationReport))
	sb.WriteString(fmt.Sprintf("  Duration: %v\n", r.Duration))
	if len(r.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", w))
		}
	}
	return sb.String()
}

// epubValidation is the shape of the skip report written when epubcheck
// is unavailable.
type epubValidation struct {
	EPUB      string   `json:"epub"`
	Validated bool     `json:"validated"`
	Skipped   bool     `json:"skipped,omitempty"`
	Errors    []string `json:"errors"`
}

// WriteSkippedValidation records that EPUB validation did not run, so the
// report file always exists for downstream consumers.
func WriteSkippedValidation(epubPath, reportPath string) error {
	data, err := json.MarshalIndent(epubValidation{EPUB: epubPath, Skipped: true}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal validation report: %w", err)
	}
	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write validation report %s: %w", reportPath, err)
	}
	return nil
}
