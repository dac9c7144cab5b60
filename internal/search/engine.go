// Package search merges candidates from the national address index and the
// gazetteer into one list.
//
// Ordering is fixed: every GSI candidate precedes every gazetteer candidate,
// each in the order its source returned them. Nothing is deduplicated or
// re-ranked, so a place known to both sources is listed twice.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

// MinQueryRunes is the shortest query that reaches the network.
const MinQueryRunes = 2

// Limits per source.
const (
	NationalLimit        = 5
	GazetteerHybridLimit = 5
	GazetteerSingleLimit = 10
)

// Engine runs hybrid searches against two geocode sources.
type Engine struct {
	national  domain.GeocodeSource
	gazetteer domain.GeocodeSource
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewEngine creates an engine. Either source may be nil, which makes it
// contribute nothing.
func NewEngine(national, gazetteer domain.GeocodeSource, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		national:  national,
		gazetteer: gazetteer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Normalize trims the query and folds full-width forms (NFKC).
func Normalize(query string) string {
	return strings.TrimSpace(norm.NFKC.String(query))
}

// Search returns national-index candidates followed by gazetteer candidates.
// Queries shorter than MinQueryRunes return an empty result without any
// upstream call. Source failures are logged and contribute nothing; Search
// itself never fails.
func (e *Engine) Search(ctx context.Context, query string) []domain.Candidate {
	q := Normalize(query)
	if utf8.RuneCountInString(q) < MinQueryRunes {
		return []domain.Candidate{}
	}

	var national, gazetteer []domain.Candidate

	// Both goroutines always return nil: a failed source settles as empty
	// and never cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		national = e.query(ctx, e.national, q, NationalLimit)
		return nil
	})
	g.Go(func() error {
		gazetteer = e.query(ctx, e.gazetteer, q, GazetteerHybridLimit)
		return nil
	})
	_ = g.Wait()

	merged := make([]domain.Candidate, 0, len(national)+len(gazetteer))
	merged = append(merged, national...)
	merged = append(merged, gazetteer...)

	e.metrics.SearchResults.Observe(float64(len(merged)))
	e.logger.Debug("hybrid search",
		"query", q,
		"national", len(national),
		"gazetteer", len(gazetteer),
	)
	return merged
}

// SearchGazetteer is the standalone mode: gazetteer only, up to
// GazetteerSingleLimit results.
func (e *Engine) SearchGazetteer(ctx context.Context, query string) []domain.Candidate {
	q := Normalize(query)
	if utf8.RuneCountInString(q) < MinQueryRunes {
		return []domain.Candidate{}
	}
	result := e.query(ctx, e.gazetteer, q, GazetteerSingleLimit)
	if result == nil {
		result = []domain.Candidate{}
	}
	e.metrics.SearchResults.Observe(float64(len(result)))
	return result
}

func (e *Engine) query(ctx context.Context, src domain.GeocodeSource, q string, limit int) []domain.Candidate {
	if src == nil {
		return nil
	}
	result, err := src.Search(ctx, q, limit)
	if errors.Is(err, context.Canceled) {
		e.logger.Debug("geocode search canceled", "source", src.Name(), "query", q)
		return nil
	}
	if err != nil {
		e.logger.Warn("geocode source failed",
			"source", src.Name(),
			"query", q,
			"error", err,
		)
		return nil
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
