package fulltext

import (
	"fmt"
	"math"
	"sort"
)

// ScoreAggregationKind defines the type of score aggregation strategy.
type ScoreAggregationKind string

const (
	// SumAggregation sums all scores for the same document
	SumAggregation ScoreAggregationKind = "sum"

	// MaxAggregation takes the maximum score for the same document
	MaxAggregation ScoreAggregationKind = "max"

	// MeanAggregation averages all scores for the same document
	MeanAggregation ScoreAggregationKind = "mean"
)

// TextAggregation defines how to aggregate scores when the same document
// appears in results from multiple queries.
//
// Aggregate deduplicates by document ID and returns the results sorted by
// aggregated score, best first, ties by ascending document ID.
type TextAggregation interface {
	// Kind returns the kind of aggregation strategy
	Kind() ScoreAggregationKind

	Aggregate(results []SearchResult) []SearchResult
}

// Singleton instances for text aggregation
var (
	textSumAgg  = &textSumAggregation{}
	textMaxAgg  = &textMaxAggregation{}
	textMeanAgg = &textMeanAggregation{}
)

// NewTextAggregation returns the aggregation instance for the given kind.
// Returns error if the kind is not recognized.
func NewTextAggregation(kind ScoreAggregationKind) (TextAggregation, error) {
	switch kind {
	case SumAggregation:
		return textSumAgg, nil
	case MaxAggregation:
		return textMaxAgg, nil
	case MeanAggregation:
		return textMeanAgg, nil
	default:
		return nil, fmt.Errorf("unknown aggregation kind: %s", kind)
	}
}

// DefaultTextAggregation returns the default text aggregation strategy (Sum).
func DefaultTextAggregation() TextAggregation {
	return textSumAgg
}

// collect folds the scores of every document with fn and sorts the result.
func collect(results []SearchResult, fn func(acc, score, n int) int) []SearchResult {
	if len(results) == 0 {
		return results
	}
	type entry struct {
		score, n int
	}
	docs := make(map[uint32]*entry)
	order := make([]uint32, 0, len(results))
	for _, r := range results {
		e, ok := docs[r.DocID]
		if !ok {
			docs[r.DocID] = &entry{score: r.Score, n: 1}
			order = append(order, r.DocID)
			continue
		}
		e.n++
		e.score = fn(e.score, r.Score, e.n)
	}

	aggregated := make([]SearchResult, 0, len(order))
	for _, id := range order {
		aggregated = append(aggregated, SearchResult{DocID: id, Score: docs[id].score})
	}
	sort.Slice(aggregated, func(i, j int) bool {
		return better(aggregated[i], aggregated[j])
	})
	return aggregated
}

// textSumAggregation sums all scores for the same document.
//
// Example: If document 42 appears in 3 queries with scores [150, 200, 180],
// the final score will be 530.
type textSumAggregation struct{}

func (s *textSumAggregation) Kind() ScoreAggregationKind {
	return SumAggregation
}

func (s *textSumAggregation) Aggregate(results []SearchResult) []SearchResult {
	return collect(results, func(acc, score, _ int) int {
		return acc + score
	})
}

// textMaxAggregation takes the maximum (best) score for the same document.
type textMaxAggregation struct{}

func (m *textMaxAggregation) Kind() ScoreAggregationKind {
	return MaxAggregation
}

func (m *textMaxAggregation) Aggregate(results []SearchResult) []SearchResult {
	return collect(results, func(acc, score, _ int) int {
		return max(acc, score)
	})
}

// textMeanAggregation averages all scores for the same document, rounding
// to the nearest integer.
type textMeanAggregation struct{}

func (a *textMeanAggregation) Kind() ScoreAggregationKind {
	return MeanAggregation
}

func (a *textMeanAggregation) Aggregate(results []SearchResult) []SearchResult {
	// means are taken over exact integer sums
	sums := make(map[uint32]int)
	counts := make(map[uint32]int)
	for _, r := range results {
		sums[r.DocID] += r.Score
		counts[r.DocID]++
	}
	out := collect(results, func(acc, _, _ int) int { return acc })
	for i := range out {
		id := out[i].DocID
		out[i].Score = int(math.Round(float64(sums[id]) / float64(counts[id])))
	}
	sort.Slice(out, func(i, j int) bool {
		return better(out[i], out[j])
	})
	return out
}
