package fulltext

import (
	"bytes"
	"fmt"
	"iter"
)

// Unit selects the granularity of a token position.
type Unit int

const (
	UnitWord Unit = iota
	UnitSentence
	UnitParagraph
)

func (u Unit) String() string {
	switch u {
	case UnitWord:
		return "word"
	case UnitSentence:
		return "sentence"
	case UnitParagraph:
		return "paragraph"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Segmentation selects how token boundaries are found.
type Segmentation int

const (
	// SegmentLatin scans runs of full-text characters. It is the default.
	SegmentLatin Segmentation = iota
	// SegmentUnicode follows UAX#29 word boundaries. Wildcards are ignored.
	SegmentUnicode
)

// Options configures a Tokenizer. The zero value tokenizes case
// insensitively, strips diacritics and does not stem.
type Options struct {
	// CaseSensitive keeps the original case unless Lowercase is set.
	CaseSensitive bool
	// Diacritics preserves diacritics instead of folding them.
	Diacritics bool
	// Stemming applies Stemmer to every token.
	Stemming bool
	// Uppercase converts tokens to upper case.
	Uppercase bool
	// Lowercase converts tokens to lower case.
	Lowercase bool
	// Wildcards keeps escapes and wildcard operators inside tokens. A dot
	// inside a token matches one character, so it no longer ends a sentence.
	// Use it for query patterns, not for documents.
	Wildcards bool
	// Stemmer is used when Stemming is set; nil selects the Porter stemmer.
	Stemmer Stemmer
	// Segmentation selects the boundary scanner.
	Segmentation Segmentation
}

func (o Options) stemmer() Stemmer {
	if o.Stemmer != nil {
		return o.Stemmer
	}
	return PorterStemmer{}
}

// Span is one token of a text with its positions.
type Span struct {
	Token     []byte
	Word      int
	Sentence  int
	Paragraph int
}

// Tokenizer splits a text into normalized tokens. It keeps per-text cursor
// state and is not safe for concurrent use; give every goroutine its own.
//
//	t := NewTokenizer(text, opts)
//	for t.More() {
//		use(t.Get(), t.Word(), t.Sentence(), t.Paragraph())
//	}
type Tokenizer struct {
	opts    Options
	stemmer Stemmer
	text    []byte

	pos        int
	start, end int
	word       int
	sent, para int
	valid      bool

	// boundaries of SegmentUnicode, computed on Init
	segments []segment
	seg      int

	// per-word positions, computed by the first Pos or Count call
	sentences  []int
	paragraphs []int
}

// NewTokenizer creates a tokenizer bound to text.
func NewTokenizer(text []byte, opts Options) *Tokenizer {
	t := &Tokenizer{opts: opts, stemmer: opts.stemmer()}
	t.Init(text)
	return t
}

// Init binds the tokenizer to a new text and resets the cursor, the counters
// and the cached positions.
func (t *Tokenizer) Init(text []byte) {
	t.text = text
	t.pos, t.start, t.end = 0, 0, 0
	t.word = -1
	t.sent, t.para = 0, 0
	t.valid = false
	t.sentences, t.paragraphs = nil, nil
	t.segments, t.seg = nil, 0
	if t.opts.Segmentation == SegmentUnicode {
		t.segments = segmentUnicode(text)
	}
}

// More advances to the next token and reports whether there is one.
func (t *Tokenizer) More() bool {
	if t.opts.Segmentation == SegmentUnicode {
		return t.moreUnicode()
	}
	l := len(t.text)
	var sentence, paragraph bool
	for t.pos < l {
		if t.opts.Wildcards && t.wildcardStart(t.pos) {
			break
		}
		r, n := Codepoint(t.text, t.pos)
		if IsFTChar(r) {
			break
		}
		switch r {
		case '.', '!', '?':
			sentence = true
		case '\n':
			paragraph = true
		}
		t.pos += n
	}
	if t.pos >= l {
		t.valid = false
		return false
	}
	if sentence {
		t.sent++
	}
	if paragraph {
		t.para++
	}

	t.start = t.pos
	for t.pos < l {
		r, n := Codepoint(t.text, t.pos)
		if t.opts.Wildcards {
			if r == '\\' {
				t.pos++
				if t.pos < l {
					_, n = Codepoint(t.text, t.pos)
					t.pos += n
				}
				continue
			}
			if r == '.' {
				t.pos += max(wildcardLen(t.text, t.pos), 1)
				continue
			}
		}
		if !IsFTChar(r) {
			break
		}
		t.pos += n
	}
	t.end = t.pos
	t.word++
	t.valid = true
	return true
}

// wildcardStart reports whether a token starts at i in wildcard mode.
// A bare dot starts a token only when a token character or an escape
// follows it.
func (t *Tokenizer) wildcardStart(i int) bool {
	switch t.text[i] {
	case '\\':
		return true
	case '.':
		if wildcardLen(t.text, i) > 0 {
			return true
		}
		if i+1 >= len(t.text) {
			return false
		}
		if t.text[i+1] == '\\' {
			return true
		}
		r, _ := Codepoint(t.text, i+1)
		return IsFTChar(r)
	}
	return false
}

// wildcardLen returns the length of the wildcard operator at i, or 0.
// Recognized forms are .? .* .+ and .{n,m}.
func wildcardLen(text []byte, i int) int {
	if text[i] != '.' || i+1 >= len(text) {
		return 0
	}
	switch text[i+1] {
	case '?', '*', '+':
		return 2
	case '{':
		for j := i + 2; j < len(text); j++ {
			switch c := text[j]; {
			case c == '}':
				return j + 1 - i
			case c == ',' || isDigit(rune(c)):
			default:
				return 0
			}
		}
	}
	return 0
}

// Get returns the normalized current token in a fresh slice. Diacritics are
// stripped first, then the token is upper-cased, lower-cased and finally
// stemmed, as configured.
func (t *Tokenizer) Get() []byte {
	if !t.valid {
		panic("fulltext: Tokenizer.Get called without a successful More")
	}
	tok := bytes.Clone(t.text[t.start:t.end])
	if !t.opts.Diacritics {
		tok = NoDiacritics(tok)
	}
	if t.opts.Uppercase {
		tok = Upper(tok)
	}
	if t.opts.Lowercase || !t.opts.CaseSensitive {
		tok = Lower(tok)
	}
	if t.opts.Stemming {
		tok = t.stemmer.Stem(tok)
	}
	return tok
}

// Orig returns the current token as it appears in the text. The slice
// aliases the text and must not be modified.
func (t *Tokenizer) Orig() []byte {
	if !t.valid {
		panic("fulltext: Tokenizer.Orig called without a successful More")
	}
	return t.text[t.start:t.end]
}

// Word returns the 0-based ordinal of the current token.
func (t *Tokenizer) Word() int { return t.word }

// Sentence returns the number of sentence boundaries before the current token.
func (t *Tokenizer) Sentence() int { return t.sent }

// Paragraph returns the number of paragraph boundaries before the current token.
func (t *Tokenizer) Paragraph() int { return t.para }

// Pos maps a word ordinal to the given unit. The first call for a text scans
// it once; later calls are lookups.
func (t *Tokenizer) Pos(word int, unit Unit) int {
	if unit == UnitWord {
		return word
	}
	t.prescan()
	if word < 0 || word >= len(t.sentences) {
		panic(fmt.Sprintf("fulltext: word %d out of range [0,%d)", word, len(t.sentences)))
	}
	if unit == UnitSentence {
		return t.sentences[word]
	}
	return t.paragraphs[word]
}

// Count returns the number of tokens of the bound text.
func (t *Tokenizer) Count() int {
	t.prescan()
	return len(t.sentences)
}

func (t *Tokenizer) prescan() {
	if t.sentences != nil {
		return
	}
	c := &Tokenizer{opts: t.opts, stemmer: t.stemmer}
	c.Init(t.text)
	t.sentences = make([]int, 0, 16)
	t.paragraphs = make([]int, 0, 16)
	for c.More() {
		t.sentences = append(t.sentences, c.sent)
		t.paragraphs = append(t.paragraphs, c.para)
	}
}

// Spans iterates over the remaining tokens.
func (t *Tokenizer) Spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for t.More() {
			if !yield(Span{Token: t.Get(), Word: t.word, Sentence: t.sent, Paragraph: t.para}) {
				return
			}
		}
	}
}

// Tokenize returns the tokens of text with their positions.
func Tokenize(text []byte, opts Options) iter.Seq[Span] {
	return NewTokenizer(text, opts).Spans()
}
