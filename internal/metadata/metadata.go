// Package metadata loads book metadata (title, author, page count) from
// JSON or YAML files. The same file is later handed to the document
// converter as its metadata input, so this package only reads the fields
// the cover pipeline needs and leaves the rest untouched.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values used when neither the metadata file nor the CLI supplies
// a field.
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Unknown Author"
)

// Book holds the metadata fields the pipeline consumes.
type Book struct {
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	PageCount int    `json:"page_count" yaml:"page_count"`
}

// Load reads book metadata from a JSON (.json) or YAML (.yaml, .yml)
// file, chosen by extension.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}

	var book Book
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &book); err != nil {
			return nil, fmt.Errorf("failed to parse metadata JSON %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &book); err != nil {
			return nil, fmt.Errorf("failed to parse metadata YAML %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported metadata format %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}

	if book.PageCount < 0 {
		return nil, fmt.Errorf("metadata page_count %d must not be negative", book.PageCount)
	}
	return &book, nil
}

// Resolve fills empty fields from the given fallbacks (typically CLI
// flags), then from package defaults. File values win over flags, flags
// win over defaults.
func (b *Book) Resolve(titleFallback, authorFallback string, pageCountFallback int) {
	if b.Title == "" {
		b.Title = titleFallback
	}
	if b.Title == "" {
		b.Title = DefaultTitle
	}
	if b.Author == "" {
		b.Author = authorFallback
	}
	if b.Author == "" {
		b.Author = DefaultAuthor
	}
	if b.PageCount == 0 {
		b.PageCount = pageCountFallback
	}
}
