package fulltext

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring"
)

// SearchResult represents a single search result with its score.
type SearchResult struct {
	DocID uint32 // Document ID
	Score int    // fixed point relevance score, higher is better
}

// heapPool is a sync.Pool for resultHeap to reduce allocations during search operations
var heapPool = sync.Pool{
	New: func() any {
		h := &resultHeap{}
		heap.Init(h)
		return h
	},
}

// Search is a search builder. It is not safe for concurrent use; build one
// per search with Index.NewSearch.
type Search struct {
	index           *Index
	queries         []string
	documentIDs     []uint32
	fuzzy           bool
	wildcards       bool
	errors          int
	k               int
	aggregationKind ScoreAggregationKind
	cutoff          int
}

// NewSearch creates a new search builder for this index.
//
// Example:
//
//	results, err := idx.NewSearch().
//		WithQuery("quick brown").
//		WithFuzzy(true).
//		WithK(5).
//		Execute(ctx)
func (ix *Index) NewSearch() *Search {
	return &Search{
		index:     ix,
		errors:    ix.fuzzyErrors,
		wildcards: ix.wildcards,
		k:         10, // Default k value
		cutoff:    -1, // Default no cutoff
	}
}

// WithQuery sets the query text(s). Every query is tokenized like a
// document; results of several queries are aggregated by document.
func (s *Search) WithQuery(queries ...string) *Search {
	s.queries = queries
	return s
}

// WithFuzzy matches query terms against every dictionary term within the
// error budget instead of exactly.
func (s *Search) WithFuzzy(fuzzy bool) *Search {
	s.fuzzy = fuzzy
	return s
}

// WithWildcards reads query tokens as wildcard patterns. A dot matches one
// character and may be followed by ?, *, + or {n,m}; a backslash escapes the
// next character. Defaults to the tokenizer wildcards setting of the config.
// Patterns take precedence over fuzzy matching.
func (s *Search) WithWildcards(wildcards bool) *Search {
	s.wildcards = wildcards
	return s
}

// WithErrors sets the fuzzy error budget; 0 derives it from the term length.
func (s *Search) WithErrors(errors int) *Search {
	s.errors = max(errors, 0)
	return s
}

// WithK sets the number of results to return.
// Defaults to 10 if not set. If k is 0 or negative, returns all results.
func (s *Search) WithK(k int) *Search {
	s.k = k
	return s
}

// WithDocumentIDs restricts the candidates to the given documents.
// If empty, all documents are eligible (default behavior).
func (s *Search) WithDocumentIDs(docIDs ...uint32) *Search {
	s.documentIDs = docIDs
	return s
}

// WithScoreAggregation sets how the scores of a document found by several
// queries are combined. Defaults to SumAggregation.
func (s *Search) WithScoreAggregation(kind ScoreAggregationKind) *Search {
	s.aggregationKind = kind
	return s
}

// WithCutoff sets the autocut parameter. A value of -1 (default) disables
// autocut, otherwise it is the number of extrema to find.
func (s *Search) WithCutoff(cutoff int) *Search {
	s.cutoff = cutoff
	return s
}

// Execute performs the search and returns results, best first. Ties are
// broken by ascending document ID.
//
// Every query term is matched against the dictionary exactly, within the
// fuzzy budget or as a wildcard pattern. Each candidate document is scored with a ScoreTable built
// from its term stream; a dictionary term matched by several query terms
// contributes once.
func (s *Search) Execute(ctx context.Context) ([]SearchResult, error) {
	start := time.Now()
	results, err := s.execute(ctx)
	switch {
	case err != nil:
		s.index.metrics.search("error", time.Since(start))
	case len(results) == 0:
		s.index.metrics.search("zero_result", time.Since(start))
	default:
		s.index.metrics.search("hit", time.Since(start))
	}
	return results, err
}

func (s *Search) execute(ctx context.Context) ([]SearchResult, error) {
	if len(s.queries) == 0 {
		return nil, ErrEmptyQuery
	}

	aggregationKind := s.aggregationKind
	if aggregationKind == "" {
		aggregationKind = SumAggregation
	}
	aggregation, err := NewTextAggregation(aggregationKind)
	if err != nil {
		return nil, err
	}

	// tokenize before taking the gate
	tokenized := make([][]queryTerm, len(s.queries))
	for i, q := range s.queries {
		tokenized[i] = s.index.queryTerms(q, s.wildcards)
	}

	if err := s.index.acquire(ctx, GateRead); err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer s.index.gate.ReleaseRead()

	var all []SearchResult
	for _, terms := range tokenized {
		all = append(all, s.searchTerms(terms)...)
	}

	results := aggregation.Aggregate(all)
	results = limitResults(results, s.k)
	results = autocutResults(results, s.cutoff)
	return results, nil
}

// matchTerms returns the dictionary ids matched by the query terms.
// Must be called with the read side of the gate held.
func (s *Search) matchTerms(terms []queryTerm) []uint32 {
	ids := roaring.New()
	for _, t := range terms {
		switch {
		case t.wildcard != nil:
			ids.AddMany(s.index.wildcardTerms(t))
		case s.fuzzy:
			ids.AddMany(s.index.fuzzyTerms(t.token, s.errors))
		default:
			if id := s.index.dict.ID(t.token); id != 0 {
				ids.Add(uint32(id))
			}
		}
	}
	return ids.ToArray()
}

// fuzzyTerms scans the dictionary for terms similar to term. Concurrent
// searches for the same term share one scan; all of them hold the read side
// of the gate, so the dictionary cannot change meanwhile.
func (ix *Index) fuzzyTerms(term []byte, errors int) []uint32 {
	key := fmt.Sprintf("%d:%s", errors, term)
	v, _, _ := ix.expand.Do(key, func() (any, error) {
		lev := NewLevenshtein(errors)
		var ids []uint32
		for id, t := range ix.dict.All() {
			if lev.Similar(t, term) {
				ids = append(ids, uint32(id))
			}
		}
		return ids, nil
	})
	return v.([]uint32)
}

// wildcardTerms scans the dictionary for terms matching a pattern. Like
// fuzzyTerms, concurrent searches for the same pattern share one scan.
func (ix *Index) wildcardTerms(t queryTerm) []uint32 {
	v, _, _ := ix.expand.Do("w:"+string(t.token), func() (any, error) {
		var ids []uint32
		for id, term := range ix.dict.All() {
			if t.wildcard.Match(term) {
				ids = append(ids, uint32(id))
			}
		}
		return ids, nil
	})
	return v.([]uint32)
}

// searchTerms scores the documents holding any of the query terms of one
// query and returns the top k.
func (s *Search) searchTerms(terms []queryTerm) []SearchResult {
	ix := s.index
	matched := s.matchTerms(terms)
	if len(matched) == 0 {
		return nil
	}

	bitmaps := make([]*roaring.Bitmap, len(matched))
	for i, id := range matched {
		bitmaps[i] = ix.dict.Value(int(id))
	}
	candidates := roaring.FastOr(bitmaps...)

	docFilter := NewDocumentFilter(s.documentIDs)
	defer ReturnDocumentFilter(docFilter)
	docFilter.Restrict(candidates)
	if candidates.IsEmpty() {
		return nil
	}

	cfg := ScoreConfig{CorpusSize: ix.corpusSize, DocFrequency: ix.docFrequencyLocked}

	h := heapPool.Get().(*resultHeap)
	*h = (*h)[:0] // Reset the heap slice
	defer func() {
		*h = (*h)[:0] // Clear before returning to pool
		heapPool.Put(h)
	}()

	for it := candidates.Iterator(); it.HasNext(); {
		docID := it.Next()
		st := ix.scoreTable(docID, cfg)
		score := 0
		for _, id := range matched {
			score += st.Score(ix.dict.Key(int(id)))
		}
		if score == 0 {
			continue
		}
		result := SearchResult{DocID: docID, Score: score}
		if s.k <= 0 || h.Len() < s.k {
			heap.Push(h, result)
		} else if better(result, (*h)[0]) {
			// Replace minimum if new result ranks higher
			heap.Pop(h)
			heap.Push(h, result)
		}
	}

	// Extract results from heap and reverse to get descending order
	results := make([]SearchResult, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = heap.Pop(h).(SearchResult)
	}
	return results
}

// scoreTable counts the terms of a document.
func (ix *Index) scoreTable(docID uint32, cfg ScoreConfig) *ScoreTable {
	st := NewScoreTable(cfg)
	for id := range NumArrayValues(ix.docTerms[docID]) {
		st.Add(ix.dict.Key(int(id)))
	}
	return st
}

// better reports whether a ranks before b.
func better(a, b SearchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DocID < b.DocID
}

// resultHeap is a min-heap of SearchResults for efficient top-K retrieval.
// The worst ranked result is at the root.
type resultHeap []SearchResult

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return better(h[j], h[i]) }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x any) {
	*h = append(*h, x.(SearchResult))
}

func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
