package fulltext

import (
	"math"
)

// DefaultCorpusSize is the assumed number of documents of the background
// corpus used to weight scores by document frequency.
const DefaultCorpusSize = 2666130

// ScoreConfig configures a ScoreTable.
type ScoreConfig struct {
	// CorpusSize replaces DefaultCorpusSize when positive.
	CorpusSize int
	// DocFrequency returns the number of corpus documents containing a
	// token. Nil, or a non-positive result, scores by term frequency only.
	DocFrequency func(token []byte) int
}

func (c ScoreConfig) corpusSize() int {
	if c.CorpusSize > 0 {
		return c.CorpusSize
	}
	return DefaultCorpusSize
}

// ScoreTable counts the tokens of one document and scores them as fixed
// point values in 1..1000 (scaled by idf when document frequencies are
// known). Every token contributes once: Score spends it.
type ScoreTable struct {
	counts *IntMap
	max    int
	cfg    ScoreConfig
}

// NewScoreTable creates an empty table.
func NewScoreTable(cfg ScoreConfig) *ScoreTable {
	return &ScoreTable{counts: NewMap[int](), cfg: cfg}
}

// ScoreDocument tokenizes text and counts its tokens.
func ScoreDocument(text []byte, opts Options, cfg ScoreConfig) *ScoreTable {
	st := NewScoreTable(cfg)
	t := NewTokenizer(text, opts)
	for t.More() {
		st.Add(t.Get())
	}
	return st
}

// Add counts one occurrence of token.
func (st *ScoreTable) Add(token []byte) {
	r := st.counts.Add(token)
	c := st.counts.Value(r.ID)
	if c < 0 {
		// spent tokens stay spent
		return
	}
	c++
	st.counts.SetValue(r.ID, c)
	st.max = max(st.max, c)
}

// Count returns the number of occurrences of token, or -1 once it is spent.
func (st *ScoreTable) Count(token []byte) int {
	c, _ := st.counts.Get(token)
	return c
}

// Max returns the largest count of any token.
func (st *ScoreTable) Max() int { return st.max }

// Len returns the number of distinct tokens.
func (st *ScoreTable) Len() int { return st.counts.Len() }

// Score returns the score of token and spends it, so that a second call
// returns 0. Unknown tokens score 0.
func (st *ScoreTable) Score(token []byte) int {
	id := st.counts.ID(token)
	if id == 0 {
		return 0
	}
	c := st.counts.Value(id)
	if c <= 0 {
		return 0
	}
	st.counts.SetValue(id, -1)

	tf := float64(c) * 1000 / float64(st.max)
	if st.cfg.DocFrequency != nil {
		if f := st.cfg.DocFrequency(token); f > 0 {
			idf := math.Log(float64(st.cfg.corpusSize()) / float64(f))
			return max(1, int(math.Round(idf*tf)))
		}
	}
	return max(1, int(math.Round(tf)))
}
