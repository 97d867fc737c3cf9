package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/whymaker/chat-backend/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// searchAccumulator merges results across sequential search calls within
// one request. Deduplication is by document identity, first-seen wins; the
// first non-empty summary is kept regardless of which query produced it.
type searchAccumulator struct {
	seen    map[string]struct{}
	results []entity.SearchResult
	summary string
}

func newSearchAccumulator() *searchAccumulator {
	return &searchAccumulator{
		seen: make(map[string]struct{}),
	}
}

func (a *searchAccumulator) add(resp *entity.SearchResponse) {
	if resp == nil {
		return
	}

	for _, result := range resp.Results {
		id := result.Document.Identity()
		if id == "" {
			continue
		}
		if _, ok := a.seen[id]; ok {
			continue
		}
		a.seen[id] = struct{}{}
		a.results = append(a.results, result)
	}

	if a.summary == "" && resp.Summary != nil {
		a.summary = strings.TrimSpace(resp.Summary.SummaryText)
	}
}

func (a *searchAccumulator) count() int {
	return len(a.results)
}

// Two-tier fallback search states.
type searchState int

const (
	tryPrimary searchState = iota
	tryFallback
	searchDone
)

// searchQuery runs one query against the primary serving config, falling
// back to the secondary on a not-found condition or an empty result. The
// fallback response is kept only if it actually produced results. Failures
// degrade to a nil response; they never abort the request.
func (uc *Usecase) searchQuery(
	ctx context.Context,
	targets *entity.SearchTargets,
	query string,
	source oauth2.TokenSource,
) (*entity.SearchResponse, entity.SearchTarget) {
	var resp *entity.SearchResponse
	used := targets.Primary

	state := tryPrimary
	for state != searchDone {
		switch state {
		case tryPrimary:
			r, err := uc.searchConn.Search(ctx, targets.Primary, query, source)
			switch {
			case err != nil && targets.Fallback != nil && errors.Is(err, entity.ErrTargetNotFound):
				state = tryFallback
			case err != nil:
				ctxzap.Warn(ctx, "search query failed, treating as empty",
					zap.String("query", query),
					zap.Error(err),
				)
				state = searchDone
			case len(r.Results) == 0 && targets.Fallback != nil:
				resp = r
				state = tryFallback
			default:
				resp = r
				state = searchDone
			}

		case tryFallback:
			r, err := uc.searchConn.Search(ctx, *targets.Fallback, query, source)
			if err != nil {
				ctxzap.Warn(ctx, "fallback search failed, keeping primary response",
					zap.String("query", query),
					zap.Error(err),
				)
			} else if len(r.Results) > 0 {
				ctxzap.Info(ctx, "fallback serving config produced results",
					zap.String("query", query),
					zap.Int("result_count", len(r.Results)),
				)
				resp = r
				used = *targets.Fallback
			}
			state = searchDone
		}
	}

	return resp, used
}
