package fulltext

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
)

// Index is an in-memory inverted index over the tokens of a Tokenizer.
//
// HOW IT IS STORED:
//   - dictionary: normalized term -> roaring bitmap of the documents holding it
//   - postings: term -> num array of (docID, tf, positions...) records
//   - per document: num array of dictionary ids in token order, used to
//     rebuild the document's ScoreTable at query time and to unlink the
//     document on removal
//
// Dictionary ids are never reused. A term whose last document is removed is
// deleted from the dictionary and leaves a hole.
//
// CONCURRENCY:
// Tokenization runs outside the gate. Every structural mutation holds the
// write side of the gate and every lookup holds the read side, so searches
// run in parallel and writers are admitted in arrival order.
type Index struct {
	gate        *Gate
	opts        Options
	normalize   bool
	stopWords   *TokenSet
	gateTimeout time.Duration
	workers     int
	fuzzyErrors int
	wildcards   bool
	corpusSize  int
	logger      *slog.Logger
	logOutput   io.Writer
	metrics     *Metrics

	// guarded by gate
	dict     *Map[*roaring.Bitmap]
	postings *BytesMap
	docTerms map[uint32][]byte
	docs     *roaring.Bitmap

	// fuzzy and wildcard expansions of concurrent searches for the same term
	expand singleflight.Group

	numDocs  atomic.Uint32
	numTerms atomic.Int64
}

// Document is a document handed to AddBatch.
type Document struct {
	ID   uint32
	Text string
}

// Posting lists the word positions of a term in one document.
type Posting struct {
	DocID     uint32
	Positions []int
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the logger. Without it the index logs to the writer set
// by WithLogOutput, with the level and format of the logging config.
func WithLogger(l *slog.Logger) IndexOption {
	return func(ix *Index) {
		ix.logger = l
	}
}

// WithLogOutput sets the destination of the configured logger; the default
// is os.Stderr. It has no effect together with WithLogger.
func WithLogOutput(w io.Writer) IndexOption {
	return func(ix *Index) {
		ix.logOutput = w
	}
}

// WithMetrics sets the collectors updated by the index.
func WithMetrics(m *Metrics) IndexOption {
	return func(ix *Index) {
		ix.metrics = m
	}
}

// NewIndex creates an empty index. A nil cfg selects DefaultConfig().
//
// Example:
//
//	idx, err := NewIndex(nil)
//	err = idx.Add(ctx, 1, "the quick brown fox")
//	results, err := idx.NewSearch().WithQuery("foxes").WithK(10).Execute(ctx)
func NewIndex(cfg *Config, opts ...IndexOption) (*Index, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	topts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	// documents never carry wildcard operators
	wildcards := topts.Wildcards
	topts.Wildcards = false

	ix := &Index{
		opts:        topts,
		normalize:   cfg.Tokenizer.Normalize,
		stopWords:   NewTokenSet(),
		gateTimeout: cfg.Index.GateTimeout,
		workers:     max(cfg.Index.BatchWorkers, 1),
		fuzzyErrors: cfg.Fuzzy.Errors,
		wildcards:   wildcards,
		corpusSize:  cfg.Scoring.CorpusSize,
		dict:        NewMap[*roaring.Bitmap](),
		postings:    NewMap[[]byte](),
		docTerms:    make(map[uint32][]byte),
		docs:        roaring.New(),
		logOutput:   os.Stderr,
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = NewLogger(ix.logOutput, cfg.Logging.Level, cfg.Logging.Format)
	}
	ix.logger = ix.logger.With("component", "fulltext")
	ix.gate = NewGate(WithWaitObserver(ix.metrics.gateWait))

	// stop words go through the same pipeline as the documents
	for _, w := range cfg.Index.StopWords {
		for span := range Tokenize([]byte(ix.prepare(w)), ix.opts) {
			ix.stopWords.Add(span.Token)
		}
	}
	return ix, nil
}

func (ix *Index) prepare(text string) string {
	if ix.normalize {
		return norm.NFKC.String(text)
	}
	return text
}

// analyzed is a tokenized document ready for insertion.
type analyzed struct {
	id uint32
	// term -> word positions
	terms *Map[[]int32]
	// local term ids in token order
	order []int
}

func (ix *Index) analyze(id uint32, text string) *analyzed {
	a := &analyzed{id: id, terms: NewMap[[]int32]()}
	t := NewTokenizer([]byte(ix.prepare(text)), ix.opts)
	for t.More() {
		tok := t.Get()
		if ix.stopWords.Contains(tok) {
			continue
		}
		r := a.terms.Add(tok)
		a.terms.SetValue(r.ID, append(a.terms.Value(r.ID), int32(t.Word())))
		a.order = append(a.order, r.ID)
	}
	return a
}

// queryTerm is a normalized query token. A token holding wildcard
// operators keeps its compiled pattern.
type queryTerm struct {
	token    []byte
	wildcard *Wildcard
}

// queryTerms tokenizes query text like a document. With wildcards, tokens
// holding wildcard operators become patterns and are not stemmed; the
// others are unescaped and then stemmed like document terms.
func (ix *Index) queryTerms(query string, wildcards bool) []queryTerm {
	text := []byte(ix.prepare(query))
	var terms []queryTerm
	if !wildcards {
		for span := range Tokenize(text, ix.opts) {
			if !ix.stopWords.Contains(span.Token) {
				terms = append(terms, queryTerm{token: span.Token})
			}
		}
		return terms
	}

	opts := ix.opts
	opts.Wildcards = true
	opts.Stemming = false
	for span := range Tokenize(text, opts) {
		w := ParseWildcard(span.Token)
		lit, ok := w.Literal()
		if !ok {
			terms = append(terms, queryTerm{token: span.Token, wildcard: w})
			continue
		}
		if ix.opts.Stemming {
			lit = ix.opts.stemmer().Stem(lit)
		}
		if len(lit) > 0 && !ix.stopWords.Contains(lit) {
			terms = append(terms, queryTerm{token: lit})
		}
	}
	return terms
}

// acquire takes one side of the gate, bounded by the gate timeout.
func (ix *Index) acquire(ctx context.Context, mode GateMode) error {
	if ix.gateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ix.gateTimeout)
		defer cancel()
	}
	var err error
	if mode == GateWrite {
		err = ix.gate.AcquireWrite(ctx)
	} else {
		err = ix.gate.AcquireRead(ctx)
	}
	if err != nil {
		ix.logger.Warn("index gate not acquired", "mode", mode, "error", err)
	}
	return err
}

// Add indexes a document. If a document with the same ID already exists, it
// is replaced.
//
// Parameters:
//   - ctx: bounds the wait for the write gate
//   - id: Document ID
//   - text: Document text to index
//
// Returns:
//   - error: the context error if the gate was not acquired
//
// Time Complexity: O(m) where m is the number of tokens in the text
func (ix *Index) Add(ctx context.Context, id uint32, text string) error {
	a := ix.analyze(id, text)

	if err := ix.acquire(ctx, GateWrite); err != nil {
		return fmt.Errorf("adding document %d: %w", id, err)
	}
	defer ix.gate.ReleaseWrite()

	ix.insertLocked(a)
	ix.logger.Debug("document indexed", "doc_id", id, "tokens", len(a.order), "terms", a.terms.Len())
	ix.metrics.docsIndexed(1)
	ix.metrics.terms(ix.dict.Len())
	return nil
}

// AddBatch indexes several documents. Documents are tokenized concurrently
// and inserted under a single write acquisition. A later document replaces
// an earlier one with the same ID.
func (ix *Index) AddBatch(ctx context.Context, docs []Document) error {
	batch := make([]*analyzed, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i, d := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch[i] = ix.analyze(d.ID, d.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("tokenizing batch: %w", err)
	}

	if err := ix.acquire(ctx, GateWrite); err != nil {
		return fmt.Errorf("adding batch: %w", err)
	}
	defer ix.gate.ReleaseWrite()

	for _, a := range batch {
		ix.insertLocked(a)
	}
	ix.logger.Debug("batch indexed", "docs", len(batch))
	ix.metrics.docsIndexed(len(batch))
	ix.metrics.terms(ix.dict.Len())
	return nil
}

// insertLocked adds an analyzed document. Must be called with the write
// side of the gate held.
func (ix *Index) insertLocked(a *analyzed) {
	if ix.docs.Contains(a.id) {
		ix.removeLocked(a.id)
	}

	ids := make([]int, a.terms.MaxID()+1)
	for lid, term := range a.terms.All() {
		r := ix.dict.Add(term)
		bm := ix.dict.Value(r.ID)
		if bm == nil {
			bm = roaring.New()
			ix.dict.SetValue(r.ID, bm)
		}
		bm.Add(a.id)

		positions := a.terms.Value(lid)
		p, _ := ix.postings.Get(term)
		p = NumArrayAppend(p, int32(a.id))
		p = NumArrayAppend(p, int32(len(positions)))
		for _, pos := range positions {
			p = NumArrayAppend(p, pos)
		}
		ix.postings.Put(term, p)
		ids[lid] = r.ID
	}

	stream := NewNumArray()
	for _, lid := range a.order {
		stream = NumArrayAppend(stream, int32(ids[lid]))
	}
	ix.docTerms[a.id] = stream
	ix.docs.Add(a.id)
	ix.numDocs.Add(1)
	ix.numTerms.Store(int64(ix.dict.Len()))
}

// Remove removes a document from the index.
//
// Returns:
//   - error: ErrDocumentNotFound if the index does not hold the document,
//     or the context error if the gate was not acquired
func (ix *Index) Remove(ctx context.Context, id uint32) error {
	if err := ix.acquire(ctx, GateWrite); err != nil {
		return fmt.Errorf("removing document %d: %w", id, err)
	}
	defer ix.gate.ReleaseWrite()

	if !ix.removeLocked(id) {
		return fmt.Errorf("removing document %d: %w", id, ErrDocumentNotFound)
	}
	ix.logger.Debug("document removed", "doc_id", id)
	ix.metrics.docRemoved()
	ix.metrics.terms(ix.dict.Len())
	return nil
}

// removeLocked unlinks a document and deletes terms it held alone.
// Must be called with the write side of the gate held.
func (ix *Index) removeLocked(id uint32) bool {
	stream, ok := ix.docTerms[id]
	if !ok {
		return false
	}
	seen := roaring.New()
	for tid := range NumArrayValues(stream) {
		if !seen.CheckedAdd(uint32(tid)) {
			continue
		}
		term := ix.dict.Key(int(tid))
		bm := ix.dict.Value(int(tid))
		bm.Remove(id)
		if bm.IsEmpty() {
			ix.postings.Delete(term)
			ix.dict.Delete(term)
			continue
		}
		p, _ := ix.postings.Get(term)
		ix.postings.Put(term, dropPostings(p, id))
	}
	delete(ix.docTerms, id)
	ix.docs.Remove(id)
	ix.numDocs.Add(^uint32(0))
	ix.numTerms.Store(int64(ix.dict.Len()))
	return true
}

// decodePostings splits a postings array into records.
func decodePostings(arr []byte) []Posting {
	vals := slices.Collect(NumArrayValues(arr))
	var out []Posting
	for i := 0; i+1 < len(vals); {
		doc, tf := uint32(vals[i]), int(vals[i+1])
		i += 2
		p := Posting{DocID: doc, Positions: make([]int, 0, tf)}
		for j := 0; j < tf && i < len(vals); j++ {
			p.Positions = append(p.Positions, int(vals[i]))
			i++
		}
		out = append(out, p)
	}
	return out
}

// dropPostings returns a postings array without the records of doc.
func dropPostings(arr []byte, doc uint32) []byte {
	out := NewNumArray()
	for _, p := range decodePostings(arr) {
		if p.DocID == doc {
			continue
		}
		out = NumArrayAppend(out, int32(p.DocID))
		out = NumArrayAppend(out, int32(len(p.Positions)))
		for _, pos := range p.Positions {
			out = NumArrayAppend(out, int32(pos))
		}
	}
	return out
}

// lookupTerm normalizes a term like a query and returns its first token.
func (ix *Index) lookupTerm(term string) ([]byte, bool) {
	terms := ix.queryTerms(term, false)
	if len(terms) == 0 {
		return nil, false
	}
	return terms[0].token, true
}

// Postings returns the documents and word positions of a term, in insertion
// order. The term goes through the document pipeline first.
func (ix *Index) Postings(ctx context.Context, term string) ([]Posting, error) {
	key, ok := ix.lookupTerm(term)
	if !ok {
		return nil, nil
	}
	if err := ix.acquire(ctx, GateRead); err != nil {
		return nil, fmt.Errorf("reading postings: %w", err)
	}
	defer ix.gate.ReleaseRead()

	p, ok := ix.postings.Get(key)
	if !ok {
		return nil, nil
	}
	return decodePostings(p), nil
}

// DocFrequency returns the number of documents holding a term.
func (ix *Index) DocFrequency(ctx context.Context, term string) (int, error) {
	key, ok := ix.lookupTerm(term)
	if !ok {
		return 0, nil
	}
	if err := ix.acquire(ctx, GateRead); err != nil {
		return 0, fmt.Errorf("reading document frequency: %w", err)
	}
	defer ix.gate.ReleaseRead()
	return ix.docFrequencyLocked(key), nil
}

func (ix *Index) docFrequencyLocked(term []byte) int {
	bm, ok := ix.dict.Get(term)
	if !ok || bm == nil {
		return 0
	}
	return int(bm.GetCardinality())
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return int(ix.numDocs.Load())
}

// Terms returns the number of distinct terms.
func (ix *Index) Terms() int {
	return int(ix.numTerms.Load())
}

// GateStats returns a snapshot of the index gate.
func (ix *Index) GateStats() GateStats {
	return ix.gate.Stats()
}
