// Package config provides configuration management for the bindery application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/quillforge/bindery/internal/geom"
)

// TrimPresets maps named trim formats to their physical sizes in mm.
// Width comes before height; all presets are portrait.
var TrimPresets = map[string]geom.PhysicalSize{
	"A8": {WidthMM: 52, HeightMM: 74},
	"A7": {WidthMM: 74, HeightMM: 105},
	"A6": {WidthMM: 105, HeightMM: 148},
	"A5": {WidthMM: 148, HeightMM: 210},
	"A4": {WidthMM: 210, HeightMM: 297},
}

// Config holds all configuration settings for the bindery application.
// Configuration precedence: CLI flags > Environment variables > Config file > Defaults
//
// Every rendering default lives here as an explicit field handed into the
// planner and renderer, never as a package global consulted at render
// time, so concurrent renders with different settings cannot interfere.
type Config struct {
	// OutputDir is the directory where generated artifacts are written
	OutputDir string

	// DPI is the raster resolution for print cover generation
	DPI int

	// BleedMM is the print bleed margin in millimeters
	BleedMM float64

	// TrimFormat names a preset from TrimPresets (e.g. "A8")
	TrimFormat string

	// TrimWidthMM and TrimHeightMM override the preset when both are set
	TrimWidthMM  float64
	TrimHeightMM float64

	// PaperThicknessMM is the per-page paper thickness for spine estimation
	PaperThicknessMM float64

	// EbookLongSidePX is the target long side for the ebook cover raster
	// (1600 px is the common storefront minimum)
	EbookLongSidePX int

	// JPEGQuality for the ebook cover (1-100)
	JPEGQuality int

	// FontPath is the TTF/OTF font used on covers
	FontPath string

	// PandocPath is the pandoc executable used for document conversion
	PandocPath string

	// EpubcheckJar is the path to the epubcheck jar; empty skips validation
	EpubcheckJar string

	// CSSPath is an optional stylesheet passed to the EPUB converter
	CSSPath string

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string
}

// Load reads configuration from multiple sources and returns a Config instance.
// Sources are checked in this order: CLI flags > env vars > config file > defaults
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Look for config in home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			v.SetConfigName(".bindery")
			v.SetConfigType("yaml")
		}
	}

	// Read config file if it exists (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	v.SetEnvPrefix("BINDERY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	config := &Config{
		OutputDir:        v.GetString("output-dir"),
		DPI:              v.GetInt("dpi"),
		BleedMM:          v.GetFloat64("bleed-mm"),
		TrimFormat:       v.GetString("trim-format"),
		TrimWidthMM:      v.GetFloat64("trim-width-mm"),
		TrimHeightMM:     v.GetFloat64("trim-height-mm"),
		PaperThicknessMM: v.GetFloat64("paper-thickness-mm"),
		EbookLongSidePX:  v.GetInt("ebook-long-side-px"),
		JPEGQuality:      v.GetInt("jpeg-quality"),
		FontPath:         v.GetString("font-path"),
		PandocPath:       v.GetString("pandoc-path"),
		EpubcheckJar:     v.GetString("epubcheck-jar"),
		CSSPath:          v.GetString("css-path"),
		LogLevel:         v.GetString("log-level"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("output-dir", "output")
	v.SetDefault("dpi", 300)
	v.SetDefault("bleed-mm", 3.0)
	v.SetDefault("trim-format", "A8")
	v.SetDefault("trim-width-mm", 0.0)
	v.SetDefault("trim-height-mm", 0.0)
	// Approximate uncoated stock; printers publish the real figure.
	v.SetDefault("paper-thickness-mm", 0.0025)
	v.SetDefault("ebook-long-side-px", 1600)
	v.SetDefault("jpeg-quality", 90)
	v.SetDefault("font-path", "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf")
	v.SetDefault("pandoc-path", "pandoc")
	v.SetDefault("epubcheck-jar", "")
	v.SetDefault("css-path", "")
	v.SetDefault("log-level", "info")
}

// Validate checks that the configuration is valid and internally consistent
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}

	// Expand home directory if present
	if strings.HasPrefix(c.OutputDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand home directory in output-dir: %w", err)
		}
		c.OutputDir = filepath.Join(home, c.OutputDir[2:])
	}

	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.BleedMM < 0 {
		return fmt.Errorf("bleed-mm must not be negative, got %g", c.BleedMM)
	}
	if c.PaperThicknessMM < 0 {
		return fmt.Errorf("paper-thickness-mm must not be negative, got %g", c.PaperThicknessMM)
	}
	if c.EbookLongSidePX <= 0 {
		return fmt.Errorf("ebook-long-side-px must be positive, got %d", c.EbookLongSidePX)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg-quality must be 1-100, got %d", c.JPEGQuality)
	}

	if _, err := c.Trim(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log-level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	return nil
}

// Trim resolves the trim size: explicit width/height overrides win over the
// named preset.
func (c *Config) Trim() (geom.PhysicalSize, error) {
	if c.TrimWidthMM > 0 && c.TrimHeightMM > 0 {
		return geom.PhysicalSize{WidthMM: c.TrimWidthMM, HeightMM: c.TrimHeightMM}, nil
	}
	if c.TrimWidthMM != 0 || c.TrimHeightMM != 0 {
		return geom.PhysicalSize{}, fmt.Errorf("trim-width-mm and trim-height-mm must both be set, got %g x %g", c.TrimWidthMM, c.TrimHeightMM)
	}
	preset, ok := TrimPresets[strings.ToUpper(c.TrimFormat)]
	if !ok {
		return geom.PhysicalSize{}, fmt.Errorf("unknown trim-format %q", c.TrimFormat)
	}
	return preset, nil
}

// CoverSpec builds the print-cover spec for a book with the given page count.
func (c *Config) CoverSpec(pageCount int) (geom.CoverSpec, error) {
	trim, err := c.Trim()
	if err != nil {
		return geom.CoverSpec{}, err
	}
	return geom.CoverSpec{
		Trim:               trim,
		BleedMM:            c.BleedMM,
		DPI:                c.DPI,
		PageCount:          pageCount,
		ThicknessPerPageMM: c.PaperThicknessMM,
	}, nil
}
