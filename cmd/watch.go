package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"vramcounter/internal/estimator"
	"vramcounter/internal/report"
	"vramcounter/internal/watch"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [mods-dir]",
	Short: "Re-estimate whenever files under the mods folder change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args, flags)
		if err != nil {
			return err
		}
		cache, err := estimator.NewProbeCache(estimator.DefaultCacheSize)
		if err != nil {
			return err
		}
		s.cache = cache

		ctx := cmd.Context()
		if err := s.run(ctx); err != nil {
			return err
		}

		w, err := watch.New(s.modsDir, watch.Options{
			Debounce: debounce,
			Ignore:   ignoreOwnFiles(s.flags),
			Logger:   s.logger,
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", s.modsDir, err)
		}
		defer w.Close()

		s.logger.Info("watching for changes", "dir", s.modsDir)
		return w.Run(ctx, func(ctx context.Context, paths []string) error {
			s.logger.Info("change detected, re-estimating", "files", len(paths), "cached", cache.Len())
			if err := s.run(ctx); err != nil {
				// a half-copied mod is expected while files are still arriving
				s.logger.Error("estimate", "err", err)
			}
			return nil
		})
	},
}

// ignoreOwnFiles drops events caused by writing the summary and settings,
// which usually live inside the watched mods folder.
func ignoreOwnFiles(f rootFlags) func(string) bool {
	return func(p string) bool {
		base := filepath.Base(p)
		return base == report.OutputFileName || base == filepath.Base(f.configPath)
	}
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-estimating")
	rootCmd.AddCommand(watchCmd)
}
