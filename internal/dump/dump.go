package dump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/olehluchkiv/asmdump/internal/analyzer"
	"github.com/olehluchkiv/asmdump/internal/discovery"
	"github.com/olehluchkiv/asmdump/internal/metadata"
	"github.com/olehluchkiv/asmdump/internal/render"
)

// Config holds everything one run needs besides its collaborators.
type Config struct {
	Dirs      []string
	Discovery discovery.Options
	Analyze   analyzer.Options
	Stats     bool
	Jobs      int // libraries processed concurrently; <= 1 is sequential
}

// Runner executes the discover -> load -> select -> render -> write pipeline.
type Runner struct {
	provider metadata.Provider
	analyzer *analyzer.Analyzer
	out      io.Writer
	logger   *slog.Logger

	mu    sync.Mutex // serializes blocks written to out
	stats Stats
}

// NewRunner wires the pipeline for one run.
func NewRunner(cfg Config, provider metadata.Provider, names *render.Names, out io.Writer, logger *slog.Logger) *Runner {
	return &Runner{
		provider: provider,
		analyzer: analyzer.New(cfg.Analyze, names, logger),
		out:      out,
		logger:   logger.With("component", "dump"),
	}
}

// Run discovers libraries and writes their API surface. With cfg.Stats the
// per-library line counts follow the listing.
func Run(ctx context.Context, cfg Config, provider metadata.Provider, names *render.Names, out io.Writer, logger *slog.Logger) error {
	libs, err := discovery.Discover(cfg.Dirs, cfg.Discovery, logger)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	if len(libs) == 0 {
		logger.Info("no libraries found", "dirs", cfg.Dirs)
		return nil
	}

	r := NewRunner(cfg, provider, names, out, logger)
	if cfg.Jobs > 1 {
		err = r.runConcurrent(ctx, libs, cfg.Jobs)
	} else {
		err = r.runSequential(ctx, libs)
	}
	if err != nil {
		return err
	}

	if cfg.Stats {
		if _, err := r.stats.WriteTo(out); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	return nil
}

// runSequential streams each type's lines to the output as soon as they are
// rendered.
func (r *Runner) runSequential(ctx context.Context, libs []string) error {
	for _, lib := range libs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.library(ctx, lib, r.out); err != nil {
			return err
		}
	}
	return nil
}

// runConcurrent processes up to jobs libraries at once. Each library's output
// is buffered and flushed as one contiguous block, in discovery order, as
// soon as every earlier library has been flushed.
func (r *Runner) runConcurrent(ctx context.Context, libs []string, jobs int) error {
	bufs := make([]*bytes.Buffer, len(libs))
	done := make([]bool, len(libs))
	next := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, lib := range libs {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := r.library(gctx, lib, &buf); err != nil {
				return err
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			bufs[i], done[i] = &buf, true
			for next < len(libs) && done[next] {
				if _, err := bufs[next].WriteTo(r.out); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
				bufs[next] = nil
				next++
			}
			return nil
		})
	}
	return g.Wait()
}

// library loads one library and writes its listings to w. Unsupported
// libraries are skipped without output or stats.
func (r *Runner) library(ctx context.Context, lib string, w io.Writer) error {
	name := filepath.Base(lib)
	asm, err := r.provider.Load(ctx, lib)
	if errors.Is(err, metadata.ErrUnsupportedFormat) {
		r.logger.Debug("skipping unsupported library", "library", name, "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}

	var writeErr error
	lines := r.analyzer.Analyze(asm, func(l analyzer.Listing) {
		if writeErr != nil {
			return
		}
		writeErr = writeListing(w, l)
	})
	if writeErr != nil {
		return fmt.Errorf("writing output: %w", writeErr)
	}

	r.logger.Debug("library done", "library", name, "types", len(asm.Types), "lines", lines)
	r.stats.Add(name, lines)
	return nil
}

func writeListing(w io.Writer, l analyzer.Listing) error {
	for _, line := range l.Lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
