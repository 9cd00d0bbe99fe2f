package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hyphen-docs/hyphen/internal/docset"
	"github.com/hyphen-docs/hyphen/internal/index"
	"github.com/hyphen-docs/hyphen/internal/progress"
	"github.com/hyphen-docs/hyphen/internal/resolve"
	"github.com/hyphen-docs/hyphen/internal/storage"
	"github.com/hyphen-docs/hyphen/internal/transform"
)

// Runner turns a freshly dumped docset into a filtered, cross-linked one.
// A Runner performs a single run and is not safe for concurrent use.
type Runner struct {
	Dumper    Dumper
	OpenIndex func(path string) (Index, error)
	Languages []docset.Language
	Platforms []docset.Platform
	// StyleOverrides is appended to the bundle stylesheet when non-empty.
	StyleOverrides []byte
	Logger         *slog.Logger
	Progress       *progress.Reporter

	mu    sync.Mutex
	stage Stage
}

// OpenStore adapts index.Open to Runner.OpenIndex.
func OpenStore(path string) (Index, error) {
	s, err := index.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Stage returns the stage the run is in.
func (r *Runner) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

func (r *Runner) setStage(s Stage) {
	r.mu.Lock()
	r.stage = s
	r.mu.Unlock()
}

func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.Dumper == nil || r.OpenIndex == nil {
		return Summary{}, errors.New("pipeline runner missing dependencies")
	}
	sum, err := r.run(ctx)
	if err != nil {
		failed := r.Stage()
		r.setStage(StageError)
		return sum, fmt.Errorf("%s: %w", failed, err)
	}
	r.setStage(StageDone)
	r.logger().Info("run done",
		"bundle", sum.Bundle.Root,
		"entries", sum.Entries,
		"kept", sum.Kept,
		"removed", sum.Removed,
		"language_removed", sum.LanguageRemoved,
		"documents_linked", sum.DocumentsLinked,
		"links", sum.LinksInjected,
	)
	return sum, nil
}

func (r *Runner) run(ctx context.Context) (Summary, error) {
	r.setStage(StageDump)
	r.Progress.Section("Dumping docset")
	bundle, err := r.Dumper.Dump(ctx)
	if err != nil {
		return Summary{}, err
	}

	idx, err := r.OpenIndex(bundle.IndexPath())
	if err != nil {
		return Summary{Bundle: bundle}, err
	}
	closed := false
	defer func() {
		if !closed {
			_ = idx.Close()
		}
	}()

	r.setStage(StageLanguagePrune)
	pruned, removed, err := r.pruneLanguages(ctx, idx)
	if err != nil {
		return Summary{Bundle: bundle}, err
	}

	sum, err := r.Filter(ctx, idx, storage.NewFSStorage(bundle.DocumentsDir()))
	sum.Bundle = bundle
	sum.PrunedLanguages = pruned
	sum.LanguageRemoved = removed
	if err != nil {
		return sum, err
	}

	closed = true
	if err := idx.Close(); err != nil {
		return sum, err
	}

	r.setStage(StageRestyle)
	if len(r.StyleOverrides) > 0 {
		r.Progress.Section("Updating stylesheet")
		if err := docset.AppendStylesheet(bundle, r.StyleOverrides); err != nil {
			return sum, err
		}
	}

	r.setStage(StageRelabel)
	r.Progress.Section("Renaming docset")
	if err := docset.Relabel(bundle, r.Platforms); err != nil {
		return sum, err
	}
	return sum, nil
}

func (r *Runner) pruneLanguages(ctx context.Context, idx Index) ([]docset.Language, int64, error) {
	wanted := make(map[docset.Language]bool, len(r.Languages))
	for _, l := range r.Languages {
		wanted[l] = true
	}

	var pruned []docset.Language
	var removed int64
	for _, l := range docset.Languages {
		if wanted[l] {
			continue
		}
		r.Progress.Section("Removing " + l.DisplayName() + " entries")
		n, err := idx.DeleteByLanguageMarker(ctx, l.Marker())
		if err != nil {
			return pruned, removed, err
		}
		r.logger().Info("pruned language", "language", string(l), "entries", n)
		pruned = append(pruned, l)
		removed += n
	}
	return pruned, removed, nil
}

// Filter removes every entry whose document is not available on one of
// r.Platforms, links type names in the documents that stay, then deletes
// and compacts. docs must be rooted at the bundle's Documents directory.
func (r *Runner) Filter(ctx context.Context, idx Index, docs *storage.FSStorage) (Summary, error) {
	var sum Summary

	r.setStage(StageScan)
	r.Progress.Section("Filtering by platform: " + docset.BundleDisplayName(r.Platforms))
	total, err := idx.Count(ctx)
	if err != nil {
		return sum, err
	}

	filter := transform.NewAvailabilityFilter(docset.DisplayNames(r.Platforms))
	res := resolve.New(idx)
	// Many entries point into the same document; each document is
	// checked and linked once.
	decisions := make(map[string]bool)
	var doomed []int64

	i := 0
	err = idx.Scan(ctx, func(e index.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Progress.Step(i, total)
		i++

		file := docset.DocumentFile(e.Path)
		keep, seen := decisions[file]
		if !seen {
			keep = r.appliesTo(ctx, filter, docs, file)
			decisions[file] = keep
			if keep {
				n, err := r.linkDocument(ctx, docs, res, file)
				if err != nil {
					return err
				}
				if n > 0 {
					sum.DocumentsLinked++
					sum.LinksInjected += n
				}
			}
		}
		if !keep {
			doomed = append(doomed, e.ID)
		}
		return nil
	})
	sum.Entries = i
	sum.Removed = len(doomed)
	sum.Kept = i - len(doomed)
	sum.Lookups = res.Stats().Lookups
	if err != nil {
		return sum, err
	}
	r.Progress.Done()

	stats := res.Stats()
	r.logger().Info("scan done", "entries", sum.Entries, "documents", len(decisions), "kept", sum.Kept,
		"removed", sum.Removed, "lookups", stats.Lookups, "cache_hits", stats.Hits, "misses", stats.Misses)

	r.setStage(StageBatchDelete)
	r.Progress.Section(fmt.Sprintf("Deleting %d entries", len(doomed)))
	err = idx.DeleteBatch(ctx, doomed, func(done, total int) {
		r.Progress.Step(done-1, total)
	})
	if err != nil {
		return sum, err
	}
	r.Progress.Done()

	r.setStage(StageCompact)
	r.Progress.Section("Compacting index")
	if err := idx.Compact(ctx); err != nil {
		return sum, err
	}
	return sum, nil
}

// appliesTo reports whether file declares one of the requested platforms.
// A document that cannot be read declares nothing.
func (r *Runner) appliesTo(ctx context.Context, filter *transform.AvailabilityFilter, docs *storage.FSStorage, file string) bool {
	rc, err := docs.Open(ctx, file)
	if err != nil {
		r.logger().Debug("document unavailable", "path", file, "error", err)
		return false
	}
	defer func() { _ = rc.Close() }()

	ok, err := filter.AppliesTo(rc)
	if err != nil {
		r.logger().Debug("document unreadable", "path", file, "error", err)
		return false
	}
	return ok
}

// linkDocument links type names in file and rewrites it when anything
// changed. It returns the number of links injected.
func (r *Runner) linkDocument(ctx context.Context, docs *storage.FSStorage, res transform.Resolver, file string) (int, error) {
	rc, err := docs.Open(ctx, file)
	if err != nil {
		return 0, fmt.Errorf("link %s: %w", file, err)
	}
	content, found, err := transform.ReadIfTypeToken(rc)
	_ = rc.Close()
	if err != nil {
		return 0, fmt.Errorf("link %s: read: %w", file, err)
	}
	if !found {
		return 0, nil
	}

	linked, n, err := transform.LinkTypes(ctx, content, res)
	if err != nil {
		return 0, fmt.Errorf("link %s: %w", file, err)
	}
	if n == 0 || bytes.Equal(linked, content) {
		return 0, nil
	}
	if err := docs.WriteHTML(ctx, file, linked); err != nil {
		return 0, fmt.Errorf("write %s: %w", file, err)
	}
	r.logger().Debug("linked document", "path", file, "links", n)
	return n, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
