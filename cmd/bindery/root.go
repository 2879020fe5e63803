package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quillforge/bindery/internal/config"
	"github.com/quillforge/bindery/internal/logger"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bindery",
	Short: "Turn a manuscript into an EPUB with print-ready covers",
	Long: `bindery builds publishing artifacts from a manuscript: a merged
EPUB, an ebook cover JPEG, and a print-ready wrap-around cover PDF
with computed spine width and bleed.

Features:
  - Wrap cover geometry from trim size, page count, and paper thickness
  - Ebook cover scaled to storefront pixel requirements
  - EPUB3 generation via pandoc with cover, CSS, and metadata
  - EPUB validation via epubcheck (optional)
  - Print cover PDF validation`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bindery.yaml)")
	rootCmd.PersistentFlags().String("output", "", "output directory for artifacts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("dpi", 0, "raster resolution for the print cover (default 300)")
	rootCmd.PersistentFlags().Float64("bleed", -1, "print bleed in mm (default 3)")
	rootCmd.PersistentFlags().String("trim", "", "trim preset (A8..A4) or leave empty for config default")
	rootCmd.PersistentFlags().String("font", "", "path to TTF/OTF font for covers")

	// Bind flags to viper
	_ = viper.BindPFlag("output-dir", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("dpi", rootCmd.PersistentFlags().Lookup("dpi"))
	_ = viper.BindPFlag("bleed-mm", rootCmd.PersistentFlags().Lookup("bleed"))
	_ = viper.BindPFlag("trim-format", rootCmd.PersistentFlags().Lookup("trim"))
	_ = viper.BindPFlag("font-path", rootCmd.PersistentFlags().Lookup("font"))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory with name ".bindery" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bindery")
	}

	// Read environment variables with BINDERY prefix
	viper.SetEnvPrefix("BINDERY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the application config, letting set flags override
// file and environment values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("output") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("dpi") {
		cfg.DPI, _ = cmd.Flags().GetInt("dpi")
	}
	if cmd.Flags().Changed("bleed") {
		cfg.BleedMM, _ = cmd.Flags().GetFloat64("bleed")
	}
	if cmd.Flags().Changed("trim") {
		cfg.TrimFormat, _ = cmd.Flags().GetString("trim")
	}
	if cmd.Flags().Changed("font") {
		cfg.FontPath, _ = cmd.Flags().GetString("font")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the loaded config.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: "console",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
