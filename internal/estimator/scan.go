package estimator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"
)

type decodeResult struct {
	file  PackageFile
	asset ImageAsset
	err   error
}

// ScanPackage lists, decodes, classifies and aggregates one package.
func (e *Estimator) ScanPackage(ctx context.Context, pkg Package) (PackageResult, error) {
	cfg := e.opts.Config
	e.log.Println("")
	e.log.Printf("Folder: %s", pkg.Name)
	started := time.Now()

	files, err := e.listFiles(pkg.Root)
	if err != nil {
		return PackageResult{Package: pkg}, err
	}
	e.send(ProgressUpdate{FilesDelta: len(files)})

	excl := ResolveExclusions(files, cfg, e.log)
	gfxDone := time.Now()
	if cfg.ShowPerformance {
		e.log.Printf("Finished getting graphicslib data for %s in %d ms", pkg.Name, gfxDone.Sub(started).Milliseconds())
	}

	images, err := e.decodeAll(ctx, pkg, files)
	if err != nil {
		return PackageResult{Package: pkg}, err
	}
	filesDone := time.Now()
	if cfg.ShowPerformance {
		e.log.Printf("Finished getting file data for %s in %d ms", pkg.FormattedName(), filesDone.Sub(gfxDone).Milliseconds())
	}

	res := Aggregate(pkg, images, excl, cfg, e.log)
	if cfg.ShowPerformance {
		e.log.Printf("Finished calculating file sizes for %s in %d ms", pkg.FormattedName(), time.Since(filesDone).Milliseconds())
	}
	return res, nil
}

// listFiles returns every regular file under root in lexical walk order.
// Unreadable subdirectories are logged and skipped.
func (e *Estimator) listFiles(root string) ([]PackageFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "scan", Path: root, Err: ErrRootNotDir}
	}

	var files []PackageFile
	fsys := os.DirFS(root)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == "." {
				return walkErr
			}
			e.log.Printf("Unable to read %s: %v", path, walkErr)
			return fs.SkipDir
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		files = append(files, PackageFile{
			Path:    filepath.Join(root, filepath.FromSlash(path)),
			RelPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// decodeAll probes files on a worker pool. Workers only produce results; a
// single collector merges them.
func (e *Estimator) decodeAll(ctx context.Context, pkg Package, files []PackageFile) ([]ImageAsset, error) {
	jobs := make(chan PackageFile)
	results := make(chan decodeResult)

	workers := e.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- e.decodeOne(job)
			}
		}()
	}

	var images []ImageAsset
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			if res.err != nil {
				if e.opts.Config.ShowSkippedFiles {
					e.log.Printf("Skipped non-image %s (%v)", pkg.DisplayPath(res.file.RelPath), res.err)
				}
				e.send(ProgressUpdate{ScannedDelta: 1, SkippedDelta: 1})
				continue
			}
			images = append(images, res.asset)
			e.send(ProgressUpdate{ScannedDelta: 1, ImagesDelta: 1})
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				producerErr <- ctx.Err()
				return
			}
		}
		producerErr <- nil
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil {
		return nil, err
	}

	sort.Slice(images, func(i, j int) bool { return images[i].RelPath < images[j].RelPath })
	return images, nil
}

func (e *Estimator) decodeOne(f PackageFile) decodeResult {
	p, err := e.opts.Cache.lookup(f.Path, e.opts.HeadersOnly)
	if err != nil {
		return decodeResult{file: f, err: err}
	}
	category := e.opts.Classifier.Classify(f.RelPath)
	return decodeResult{
		file:  f,
		asset: NewImageAsset(f.RelPath, p.Width, p.Height, p.ChannelBits, category),
	}
}
