package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vramcounter/internal/config"
	"vramcounter/internal/logutil"
)

type rootFlags struct {
	configPath  string
	outputDir   string
	logLevel    string
	noTUI       bool
	noClipboard bool
	noPrompt    bool
	remember    bool
	headersOnly bool
	workers     int
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "vramcounter [mods-dir]",
	Short: "vramcounter - estimate the VRAM used by installed mods",
	Long: "vramcounter walks every mod folder, reads image headers and estimates the VRAM " +
		"the game will use for their textures. The mods folder defaults to the parent of " +
		"the working directory.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		level := flags.logLevel
		if !cmd.Flags().Changed("log-level") {
			if env := os.Getenv("VRAM_LOG_LEVEL"); env != "" {
				level = env
			}
		}
		logutil.SetDefault(logutil.New(os.Stderr, logutil.ParseLevel(level)))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args, flags)
		if err != nil {
			return err
		}
		return s.run(cmd.Context())
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logutil.Default().Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultFileName, "settings file (.properties or .toml)")
	pf.StringVarP(&flags.outputDir, "output", "o", ".", "directory the summary file is written to")
	pf.StringVar(&flags.logLevel, "log-level", "info", "diagnostics level (debug, info, warn, error)")
	pf.BoolVar(&flags.noTUI, "no-tui", false, "print the progress log instead of the live progress view; also disables the GraphicsLib prompt")
	pf.BoolVar(&flags.noClipboard, "no-clipboard", false, "do not copy the summary to the clipboard")
	pf.BoolVar(&flags.noPrompt, "no-prompt", false, "never ask for GraphicsLib map settings")
	pf.BoolVar(&flags.remember, "remember", false, "save prompted GraphicsLib map settings to the settings file")
	pf.BoolVar(&flags.headersOnly, "headers-only", false, "read image headers only; faster, but corrupt pixel data is not detected")
	pf.IntVarP(&flags.workers, "workers", "w", 0, "concurrent workers (0 = number of CPUs)")
}
