// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/office-upgrade/internal/convert"
	"github.com/pdiddy/office-upgrade/internal/office"
	"github.com/pdiddy/office-upgrade/internal/termui"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [dir]",
	Short: "Convert the legacy office files of a directory",
	Long: `Convert upgrades every .doc, .xls, and .ppt file at the top level of dir
(default: the current directory) to .docx, .xlsx, and .pptx. Converted
originals are moved into dir/OLD FORMAT. Files that fail are reported and
left in place; the rest of the batch continues.

Progress is drawn on stderr and the batch summary is printed on stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("output", string(types.OutputText), "summary format: text, yaml, or json")
	convertCmd.Flags().Bool("dry-run", false, "list the files that would be converted and exit")
	convertCmd.Flags().BoolP("verbose", "v", false, "also print log records on stderr")
	_ = viper.BindPFlag("output", convertCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		return printPlan(cmd.OutOrStdout(), dir)
	}

	cfg := converterConfig()
	if err := cfg.Output.Validate(); err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	var console io.Writer = io.Discard
	if verbose {
		console = os.Stderr
	}
	log, err := newLogger(cfg, console)
	if err != nil {
		return err
	}
	defer log.Close()

	svc, err := office.NewService(cfg)
	if err != nil {
		log.Error("no automation service", "error", err)
		return err
	}
	engine := convert.NewEngine(svc, log.Named("engine"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	state := types.NewConfig()
	state.DirPath = dir
	term := termui.New(os.Stderr, state, isTerminal(os.Stderr) && !verbose)
	term.Start()

	summary, err := engine.Run(ctx, dir, term)
	if err != nil {
		log.Error("conversion aborted", "dir", dir, "error", err)
		return err
	}

	if err := convert.WriteSummary(cmd.OutOrStdout(), dir, summary, cfg.Output); err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", summary.Failed)
	}
	return nil
}

// printPlan lists the files a run over dir would convert.
func printPlan(w io.Writer, dir string) error {
	targets, skipped, err := convert.Scan(dir)
	if err != nil {
		return err
	}
	for _, t := range targets {
		fmt.Fprintf(w, "%s -> %s\n", t.Name, t.TargetExtension())
	}
	fmt.Fprintf(w, "%d file(s) to convert, %d other entries\n", len(targets), skipped)
	return nil
}

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
