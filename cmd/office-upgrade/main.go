// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the office-upgrade CLI.
// The convert command runs a batch in the terminal; the gui command opens
// the desktop window.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/office-upgrade/internal/logging"
	"github.com/pdiddy/office-upgrade/internal/office"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// envKeyReplacer maps keys such as log-file to OFFICE_UPGRADE_LOG_FILE.
var envKeyReplacer = strings.NewReplacer("-", "_")

// loggerName names the application logger in log records.
const loggerName = "convo"

// rootCmd is the base command for the office-upgrade CLI.
var rootCmd = &cobra.Command{
	Use:   "office-upgrade",
	Short: "Convert legacy .doc, .xls, and .ppt files to .docx, .xlsx, and .pptx",
	Long: `office-upgrade converts the legacy office documents of a directory to the
XML-based formats. Each .doc, .xls, and .ppt file at the top level is opened
in an office application, saved next to the original with the modern
extension, and the original is moved into an "OLD FORMAT" subdirectory.

Conversion is driven by Microsoft Office over COM on Windows, or by
LibreOffice (installed locally or run in a container) elsewhere.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./office-upgrade.yaml or ~/.config/office-upgrade/config.yaml)")
	flags.String("backend", string(types.BackendAuto), "automation backend: auto, com, soffice, or container")
	flags.String("soffice-bin", office.DefaultSofficeBin, "LibreOffice binary for the soffice backend")
	flags.String("image", office.DefaultImage, "LibreOffice image for the container backend")
	flags.Duration("timeout", 5*time.Minute, "limit for converting one file with soffice or container (0 disables)")
	flags.String("log-file", logging.DefaultFile, "append-only log file (empty disables)")
	flags.String("log-level", logging.DefaultLevel, "log level: debug, info, warn, or error")

	for _, key := range []string{"backend", "soffice-bin", "image", "timeout", "log-file", "log-level"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("office-upgrade")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "office-upgrade"))
		}
	}

	viper.SetEnvPrefix("OFFICE_UPGRADE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// converterConfig collects the settings resolved from flags, environment,
// and config file.
func converterConfig() types.ConverterConfig {
	return types.ConverterConfig{
		Backend:    types.Backend(viper.GetString("backend")),
		SofficeBin: viper.GetString("soffice-bin"),
		Image:      viper.GetString("image"),
		Timeout:    viper.GetDuration("timeout"),
		LogFile:    viper.GetString("log-file"),
		LogLevel:   viper.GetString("log-level"),
		Output:     types.OutputFormat(viper.GetString("output")),
	}
}

// newLogger opens the application logger; console receives the same records
// as the log file.
func newLogger(cfg types.ConverterConfig, console io.Writer) (*logging.Logger, error) {
	log, err := logging.New(loggerName, cfg.LogFile, cfg.LogLevel, console)
	if err != nil {
		return nil, err
	}
	log.Debug("convo started", "version", version, "backend", cfg.Backend)
	return log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
