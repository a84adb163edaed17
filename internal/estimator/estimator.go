// Package estimator turns a set of mod folders into a static estimate of
// the VRAM their images occupy.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"vramcounter/internal/config"
	"vramcounter/internal/progress"
)

var (
	// ErrRootNotFound means the mods folder does not exist.
	ErrRootNotFound = errors.New("mods folder does not exist")
	// ErrRootNotDir means a mods folder or package root is a regular file.
	ErrRootNotDir = errors.New("not a directory")
)

type Options struct {
	Config     config.Effective
	Classifier Classifier
	// Workers bounds both concurrent packages and decoders per package.
	// Zero means runtime.NumCPU().
	Workers int
	// HeadersOnly skips decoding pixel data. Dimensions and channel depths
	// still come from the headers, but corrupt pixel data goes unnoticed.
	HeadersOnly bool
	// Cache is optional.
	Cache *ProbeCache
}

type Estimator struct {
	opts    Options
	log     *progress.Log
	updates chan<- ProgressUpdate
}

// New returns an Estimator. log and updates may be nil. A zero Classifier
// is replaced by DefaultClassifier.
func New(opts Options, log *progress.Log, updates chan<- ProgressUpdate) *Estimator {
	if opts.Classifier.BackgroundToken == "" && len(opts.Classifier.UnusedIndicators) == 0 {
		opts.Classifier = DefaultClassifier()
	}
	return &Estimator{opts: opts, log: log, updates: updates}
}

// CheckRoot verifies the mods folder exists before any work starts.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrRootNotDir)
	}
	return nil
}

// Run scans packages concurrently and reduces the results once every
// package has finished. Results keep the order of packages.
func (e *Estimator) Run(ctx context.Context, packages []Package) (Report, error) {
	started := time.Now()
	e.send(ProgressUpdate{PackagesDelta: len(packages)})

	limit := e.opts.Workers
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]PackageResult, len(packages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, pkg := range packages {
		g.Go(func() error {
			res, err := e.ScanPackage(gctx, pkg)
			if err != nil {
				return fmt.Errorf("scan %s: %w", pkg.FormattedName(), err)
			}
			results[i] = res
			e.send(ProgressUpdate{PackagesDoneDelta: 1})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Packages: results,
		Totals:   ComputeTotals(results),
		Elapsed:  time.Since(started),
	}
	if e.opts.Config.ShowPerformance {
		e.log.Printf("Finished run in %d ms", report.Elapsed.Milliseconds())
	}
	return report, nil
}

func (e *Estimator) send(u ProgressUpdate) {
	if e.updates != nil {
		e.updates <- u
	}
}
