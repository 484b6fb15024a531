package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"fte/internal/config"
	"fte/internal/tree"
	"fte/internal/watch"
)

// CycleReport summarizes one discovery cycle
type CycleReport struct {
	Generation tree.Generation
	Files      int  // File nodes created
	Tests      int  // Test functions attached
	Failed     int  // Files that could not be read
	Stale      bool // A newer cycle superseded this one before it finished
}

// Orchestrator keeps the test tree in sync with the filesystem. Every
// trigger runs the same full rebuild: clear, enumerate, scan.
type Orchestrator struct {
	roots       []string
	concurrency int
	store       *tree.Store
	scanner     *Scanner
	parser      *Parser
	readFile    func(string) ([]byte, error)

	mu    sync.Mutex
	hooks []func(CycleReport)
	wg    sync.WaitGroup
}

// NewOrchestrator creates an Orchestrator for the configured workspace roots
func NewOrchestrator(cfg *config.Config, store *tree.Store, scanner *Scanner, parser *Parser) *Orchestrator {
	concurrency := cfg.ScanConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Orchestrator{
		roots:       cfg.WorkspaceRoots,
		concurrency: concurrency,
		store:       store,
		scanner:     scanner,
		parser:      parser,
		readFile:    os.ReadFile,
	}
}

// OnCycle registers fn to be called after every discovery cycle that was not
// superseded by a newer one.
func (o *Orchestrator) OnCycle(fn func(CycleReport)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hooks = append(o.hooks, fn)
}

// Discover runs one full discovery cycle and waits for every file scan to settle.
// Failures reading individual files are contained to that file.
func (o *Orchestrator) Discover(ctx context.Context) (CycleReport, error) {
	gen := o.store.Clear()
	report := CycleReport{Generation: gen}

	type pendingFile struct {
		handle tree.FileHandle
		path   string
	}

	// File nodes are created in enumeration order before any file is read,
	// so sibling order never depends on scan completion order.
	var files []pendingFile
	seen := make(map[string]struct{})
	for _, root := range o.roots {
		paths, err := o.scanner.Enumerate(root)
		if err != nil {
			slog.Error("Failed to enumerate test files", "root", root, "error", err)
			continue
		}

		for _, path := range paths {
			// overlapping roots enumerate the same file more than once
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}

			handle, err := o.store.AddFile(gen, path, filepath.Base(path), root)
			if err != nil {
				report.Stale = true
				slog.Debug("Discovery cycle superseded", "generation", gen)
				return report, nil
			}
			files = append(files, pendingFile{handle: handle, path: path})
		}
	}
	report.Files = len(files)

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.concurrency)

	for _, file := range files {
		file := file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			count, err := o.populate(file.handle, file.path)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, tree.ErrStaleGeneration):
				report.Stale = true
			case err != nil:
				report.Failed++
				slog.Warn("Failed to scan test file", "path", file.path, "error", err)
			default:
				report.Tests += count
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return report, fmt.Errorf("discovery interrupted: %w", err)
	}

	slog.Info("Discovery cycle finished",
		"generation", gen,
		"files", report.Files,
		"tests", report.Tests,
		"failed", report.Failed,
		"stale", report.Stale,
	)

	if !report.Stale {
		o.notify(report)
	}

	return report, nil
}

// populate reads and scans one file, attaching its test functions.
func (o *Orchestrator) populate(handle tree.FileHandle, path string) (int, error) {
	// #nosec G304 - path comes from the workspace walk
	content, err := o.readFile(path)
	if err != nil {
		return 0, err
	}

	text := string(content)
	index := NewLineIndex(text)

	declarations := o.parser.Scan(text)
	for _, decl := range declarations {
		if err := o.store.AddFunction(handle, decl.Name, index.PositionAt(decl.Offset)); err != nil {
			return 0, err
		}
	}

	return len(declarations), nil
}

// Trigger starts a discovery cycle without blocking the caller.
func (o *Orchestrator) Trigger(ctx context.Context) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if _, err := o.Discover(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Discovery cycle failed", "error", err)
		}
	}()
}

// Wait blocks until every triggered cycle has finished
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Watch rebuilds the tree on every event from source until ctx is done or
// the source closes. In-flight cycles are not awaited; call Wait for that.
func (o *Orchestrator) Watch(ctx context.Context, source watch.Source) error {
	errs := source.Errors()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-source.Events():
			if !ok {
				return nil
			}
			slog.Debug("Workspace changed", "kind", event.Kind, "path", event.Path)
			o.Trigger(ctx)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("Workspace watcher error", "error", err)
		}
	}
}

func (o *Orchestrator) notify(report CycleReport) {
	o.mu.Lock()
	hooks := append([]func(CycleReport){}, o.hooks...)
	o.mu.Unlock()

	for _, hook := range hooks {
		hook(report)
	}
}
