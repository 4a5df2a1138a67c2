// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2md CLI, which converts legal
// PDFs (the Civil Code of Québec and documents laid out like it) into
// structured Markdown.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md-legal/internal/logging"
)

// version is set at build time via ldflags.
var version = "1.0.0"

var (
	// appLogger is the diagnostic logger built from the log.* settings.
	appLogger *logrus.Logger

	logCloser io.Closer
)

// rootCmd is the base command for the pdf2md CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf2md",
	Short: "Convert legal PDF documents to structured Markdown",
	Long: `pdf2md converts legal PDFs such as the Civil Code of Québec into
Markdown. It extracts the text page by page, drops running headers and
footers, and turns books, titles, chapters, sections, articles and
amendment citations into Markdown structure.

Use convert to produce Markdown, catalog to browse past conversions, and
profile to inspect the keyword profile driving the classifier.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closer, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		appLogger, logCloser = logger, closer
		if used := viper.ConfigFileUsed(); used != "" {
			appLogger.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetVersionTemplate("pdf2md {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pdf2md.yaml or ~/.config/pdf2md/pdf2md.yaml)")
	pf.String("profile", "", "YAML keyword profile overriding the built-in Civil Code profile")
	pf.String("catalog", "", "SQLite catalog recording conversions (empty disables recording)")
	pf.String("log-level", "info", "diagnostic log level: debug, info, warn, or error")
	pf.String("log-format", "text", "diagnostic log format: text or json")
	pf.String("log-file", "", "also write diagnostics to this rotating log file")

	for key, flag := range map[string]string{
		"profile":    "profile",
		"catalog":    "catalog",
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.file":   "log-file",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
	setDefaults()
}

func initConfig() {
	// A .env file in the working directory may provide PDF2MD_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2md"))
		}
	}

	viper.SetEnvPrefix("PDF2MD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Warning: reading config:", err)
		}
	}
}

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n✗ Error: %v\n", err)
		os.Exit(1)
	}
}
