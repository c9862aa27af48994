package vocab

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/storage"
)

// Vocabularies are the per-request snapshots that ground the routing
// prompt in live data.
type Vocabularies struct {
	Employers  []string
	Categories []string
}

// Loader recomputes the employer and category vocabularies from the
// external store on every request.
type Loader struct {
	storage storage.Storage
	logger  *zap.Logger
}

func NewLoader(store storage.Storage, logger *zap.Logger) *Loader {
	return &Loader{storage: store, logger: logger}
}

// Load fetches both vocabularies, deduplicated and lexically sorted so
// the rendered prompt is stable across requests. A failed fetch degrades
// that dimension to an empty list; it never aborts the pipeline.
func (l *Loader) Load(ctx context.Context) Vocabularies {
	var v Vocabularies

	employers, err := l.storage.ListEmployers(ctx)
	if err != nil {
		l.logger.Warn("Failed to load employer vocabulary", zap.Error(err))
	} else {
		v.Employers = normalize(employers)
	}

	categories, err := l.storage.ListResourceCategories(ctx)
	if err != nil {
		l.logger.Warn("Failed to load category vocabulary", zap.Error(err))
	} else {
		v.Categories = normalize(categories)
	}

	return v
}

func normalize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
