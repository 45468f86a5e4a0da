// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the datasheet-parser CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/datasheet-parser/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the datasheet-parser CLI.
var rootCmd = &cobra.Command{
	Use:   "datasheet-parser",
	Short: "Convert PDF datasheets to structured Markdown with multimodal AI models",
	Long: `datasheet-parser rasterizes each page of a PDF datasheet, sends the page
image to a multimodal inference endpoint for extraction (or translation),
and reassembles the per-page results into one cleaned Markdown document
with a generated table of contents.

Pages are processed strictly in order, one request at a time. A page that
fails is recorded and skipped; the run continues and still produces a
merged document from the pages that succeeded.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env first (endpoint key and URL commonly live there), then
		// plain-file secrets.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./datasheet-parser.yaml or ~/.config/datasheet-parser/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("datasheet-parser")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "datasheet-parser"))
		}
	}

	viper.SetEnvPrefix("DATASHEET_PARSER")
	viper.AutomaticEnv()

	viper.SetDefault("api_url", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("output_dir", "output")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
