package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillforge/bindery/internal/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate <cover.pdf>",
	Short: "Validate a print cover PDF",
	Long: `Check that a generated print cover PDF is structurally valid.

Examples:
  bindery validate out/cover_print.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	exporter := export.New(&export.Config{Logger: log})
	if err := exporter.ValidatePDF(args[0]); err != nil {
		return err
	}

	fmt.Printf("%s: OK\n", args[0])
	return nil
}
