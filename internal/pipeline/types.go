package pipeline

import (
	"context"

	"github.com/hyphen-docs/hyphen/internal/docset"
	"github.com/hyphen-docs/hyphen/internal/index"
)

// Dumper produces the bundle a run works on.
type Dumper interface {
	Dump(ctx context.Context) (docset.Bundle, error)
}

// Index is the subset of *index.Store used by a run.
type Index interface {
	Count(ctx context.Context) (int, error)
	Scan(ctx context.Context, fn func(index.Entry) error) error
	FindBestByName(ctx context.Context, name string) (string, bool, error)
	DeleteByLanguageMarker(ctx context.Context, marker string) (int64, error)
	DeleteBatch(ctx context.Context, ids []int64, progress func(done, total int)) error
	Compact(ctx context.Context) error
	Close() error
}

// Stage is a step of a run. Stages run strictly in declaration order.
type Stage int

const (
	StageWaiting Stage = iota
	StageDump
	StageLanguagePrune
	StageScan
	StageBatchDelete
	StageCompact
	StageRestyle
	StageRelabel
	StageDone
	StageError
)

var stageNames = [...]string{
	StageWaiting:       "waiting",
	StageDump:          "dump",
	StageLanguagePrune: "language-prune",
	StageScan:          "scan",
	StageBatchDelete:   "batch-delete",
	StageCompact:       "compact",
	StageRestyle:       "restyle",
	StageRelabel:       "relabel",
	StageDone:          "done",
	StageError:         "error",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Summary reports what a run did.
type Summary struct {
	Bundle docset.Bundle

	// Language pruning.
	PrunedLanguages []docset.Language
	LanguageRemoved int64

	// Platform filtering.
	Entries int
	Kept    int
	Removed int

	// Type linking.
	DocumentsLinked int
	LinksInjected   int
	Lookups         int
}
