package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillforge/bindery/internal/pipeline"
)

var (
	buildManuscript string
	buildMetadata   string
	buildFront      string
	buildLegal      string
	buildBack       string
	buildTitle      string
	buildAuthor     string
	buildPages      int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all publishing artifacts from a manuscript",
	Long: `Run the full publish workflow: convert the manuscript to Markdown,
merge front matter, legal notice, and back matter, generate the ebook
cover and print cover, build an EPUB3 with pandoc, and validate the
results.

Examples:
  # Build with a metadata file
  bindery build --input manuscript.docx --metadata book.yaml

  # Build with inline metadata and extra parts
  bindery build --input draft.md --title "Field Notes" --author "R. Calder" \
    --pages 180 --front front.md --legal legal.md --back back.md

  # Custom output directory and trim size
  bindery build --input manuscript.odt --metadata book.json --trim A6 --output dist`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildManuscript, "input", "i", "", "manuscript file (.md, .txt, .docx, .doc, .odt)")
	buildCmd.Flags().StringVarP(&buildMetadata, "metadata", "m", "", "book metadata file (.json, .yaml)")
	buildCmd.Flags().StringVar(&buildFront, "front", "", "front matter Markdown file")
	buildCmd.Flags().StringVar(&buildLegal, "legal", "", "legal notice Markdown file")
	buildCmd.Flags().StringVar(&buildBack, "back", "", "back matter Markdown file")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "book title (fallback when metadata omits it)")
	buildCmd.Flags().StringVar(&buildAuthor, "author", "", "author name (fallback when metadata omits it)")
	buildCmd.Flags().IntVar(&buildPages, "pages", 0, "page count for spine width (fallback when metadata omits it)")

	_ = buildCmd.MarkFlagRequired("input")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	orch, err := pipeline.New(&pipeline.Config{
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	result, err := orch.Run(cmd.Context(), pipeline.Inputs{
		Manuscript:        buildManuscript,
		Metadata:          buildMetadata,
		FrontMatter:       buildFront,
		LegalNotice:       buildLegal,
		BackMatter:        buildBack,
		TitleOverride:     buildTitle,
		AuthorOverride:    buildAuthor,
		PageCountOverride: buildPages,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Summary())
	return nil
}
