package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quillforge/bindery/internal/cover"
	"github.com/quillforge/bindery/internal/export"
	"github.com/quillforge/bindery/internal/geom"
	"github.com/quillforge/bindery/internal/metadata"
	"github.com/quillforge/bindery/internal/typeset"
)

var (
	coverMetadata string
	coverTitle    string
	coverAuthor   string
	coverPages    int
	coverEbook    bool
	coverPrint    bool
	coverPNG      bool
)

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Render covers without running the full build",
	Long: `Render the ebook cover JPEG and the print-ready wrap cover PDF
directly from metadata, without converting a manuscript.

Examples:
  # Both covers from a metadata file
  bindery cover --metadata book.yaml

  # Ebook cover only, with inline metadata
  bindery cover --title "Field Notes" --author "R. Calder" --ebook

  # Print cover at a larger trim and resolution
  bindery cover --metadata book.json --trim A5 --dpi 600 --print`,
	RunE: runCover,
}

func init() {
	rootCmd.AddCommand(coverCmd)

	coverCmd.Flags().StringVarP(&coverMetadata, "metadata", "m", "", "book metadata file (.json, .yaml)")
	coverCmd.Flags().StringVar(&coverTitle, "title", "", "book title")
	coverCmd.Flags().StringVar(&coverAuthor, "author", "", "author name")
	coverCmd.Flags().IntVar(&coverPages, "pages", 0, "page count for spine width")
	coverCmd.Flags().BoolVar(&coverEbook, "ebook", false, "render only the ebook cover")
	coverCmd.Flags().BoolVar(&coverPrint, "print", false, "render only the print cover")
	coverCmd.Flags().BoolVar(&coverPNG, "png", false, "also write the print cover as a PNG for inspection")
}

func runCover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	book := &metadata.Book{}
	if coverMetadata != "" {
		book, err = metadata.Load(coverMetadata)
		if err != nil {
			return err
		}
	}
	book.Resolve(coverTitle, coverAuthor, coverPages)

	faces, err := typeset.LoadFontFile(cfg.FontPath)
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	renderer := cover.New(&cover.Config{Logger: log})
	exporter := export.New(&export.Config{Logger: log})
	pal := cover.DefaultPalette()

	// Default to both artifacts when neither is requested.
	wantEbook := coverEbook || !coverPrint
	wantPrint := coverPrint || !coverEbook

	trim, err := cfg.Trim()
	if err != nil {
		return err
	}

	if wantEbook {
		art, err := renderer.RenderEbookCover(book.Title, book.Author, trim, cfg.EbookLongSidePX, faces, pal)
		if err != nil {
			return err
		}
		out := filepath.Join(cfg.OutputDir, "cover_ebook.jpg")
		if err := exporter.WriteJPEG(art, out, cfg.JPEGQuality); err != nil {
			return err
		}
		fmt.Printf("Ebook cover: %s\n", out)
	}

	if wantPrint {
		spec, err := cfg.CoverSpec(book.PageCount)
		if err != nil {
			return err
		}
		plan, err := renderer.PlanPrintCover(spec)
		if err != nil {
			return err
		}
		art, err := renderer.RenderCover(plan, book.Title, book.Author, faces, pal)
		if err != nil {
			return err
		}
		out := filepath.Join(cfg.OutputDir, "cover_print.pdf")
		if err := exporter.WritePDF(art, out); err != nil {
			return err
		}
		if err := exporter.ValidatePDF(out); err != nil {
			return err
		}
		if coverPNG {
			pngOut := filepath.Join(cfg.OutputDir, "cover_print.png")
			if err := exporter.WritePNG(art, pngOut); err != nil {
				return err
			}
			fmt.Printf("Print cover PNG: %s\n", pngOut)
		}
		fmt.Printf("Print cover: %s (%dx%dpx, spine %dpx)\n",
			out, plan.WidthPX, plan.HeightPX, plan.Panels[geom.PanelSpine].Width)
	}

	return nil
}
