package fulltext

import (
	"math/rand"
	"reflect"
	"slices"
	"testing"
)

func spans(text string, opts Options) []Span {
	var out []Span
	for s := range Tokenize([]byte(text), opts) {
		out = append(out, s)
	}
	return out
}

func tokens(text string, opts Options) []string {
	var out []string
	for s := range Tokenize([]byte(text), opts) {
		out = append(out, string(s.Token))
	}
	return out
}

// panics reports whether f panics.
func panics(f func()) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = true
		}
	}()
	f()
	return false
}

func TestTokenizerPositions(t *testing.T) {
	got := spans("Hello, World! How are you?\nFine.", Options{})
	want := []Span{
		{Token: []byte("hello"), Word: 0, Sentence: 0, Paragraph: 0},
		{Token: []byte("world"), Word: 1, Sentence: 0, Paragraph: 0},
		{Token: []byte("how"), Word: 2, Sentence: 1, Paragraph: 0},
		{Token: []byte("are"), Word: 3, Sentence: 1, Paragraph: 0},
		{Token: []byte("you"), Word: 4, Sentence: 1, Paragraph: 0},
		{Token: []byte("fine"), Word: 5, Sentence: 2, Paragraph: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("spans = %+v, want %+v", got, want)
	}
}

func TestTokenizerRepeatedTerminators(t *testing.T) {
	got := spans("Wait!!! Go", Options{})
	if len(got) != 2 {
		t.Fatalf("got %d spans, want 2", len(got))
	}
	if string(got[1].Token) != "go" || got[1].Sentence != 1 {
		t.Errorf("second span = %+v, want go in sentence 1", got[1])
	}

	got = spans("a\n\n\nb", Options{})
	if len(got) != 2 {
		t.Fatalf("got %d spans, want 2", len(got))
	}
	if got[1].Paragraph != 1 {
		t.Errorf("Paragraph = %d, want 1", got[1].Paragraph)
	}
}

func TestTokenizerEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "...", "-- !? --"} {
		tok := NewTokenizer([]byte(text), Options{})
		if tok.More() {
			t.Errorf("More() on %q = true", text)
		}
		if tok.Count() != 0 {
			t.Errorf("Count() on %q = %d, want 0", text, tok.Count())
		}
	}
}

func TestTokenizerInitResets(t *testing.T) {
	tok := NewTokenizer([]byte("one. two"), Options{})
	for tok.More() {
	}
	if tok.Sentence() != 1 {
		t.Errorf("Sentence() = %d, want 1", tok.Sentence())
	}

	tok.Init([]byte("three four"))
	if !tok.More() {
		t.Fatal("More() after Init = false")
	}
	if got := string(tok.Get()); got != "three" {
		t.Errorf("Get() = %q, want three", got)
	}
	if tok.Word() != 0 || tok.Sentence() != 0 || tok.Count() != 2 {
		t.Errorf("Word, Sentence, Count = %d, %d, %d, want 0, 0, 2", tok.Word(), tok.Sentence(), tok.Count())
	}

	first := spans("Same text. Twice", Options{})
	tok.Init([]byte("Same text. Twice"))
	var second []Span
	for s := range tok.Spans() {
		second = append(second, s)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Spans() after Init = %+v, want %+v", second, first)
	}
}

func TestTokenizerGetBeforeMorePanics(t *testing.T) {
	tok := NewTokenizer([]byte("word"), Options{})
	if !panics(func() { tok.Get() }) {
		t.Error("Get before More did not panic")
	}

	if !tok.More() {
		t.Fatal("More() = false")
	}
	if panics(func() { tok.Get() }) {
		t.Error("Get after More panicked")
	}

	if tok.More() {
		t.Fatal("More() past the end = true")
	}
	if !panics(func() { tok.Get() }) {
		t.Error("Get after exhaustion did not panic")
	}
}

func TestTokenizerNormalization(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts Options
		want string
	}{
		{"default", "Café", Options{}, "cafe"},
		{"diacritics", "Café", Options{Diacritics: true}, "café"},
		{"case sensitive", "Café", Options{CaseSensitive: true}, "Cafe"},
		{"case sensitive upper", "Café", Options{CaseSensitive: true, Uppercase: true}, "CAFE"},
		{"case sensitive lower", "Café", Options{CaseSensitive: true, Lowercase: true}, "cafe"},
		// lower casing runs after upper casing
		{"insensitive upper", "Café", Options{Uppercase: true}, "cafe"},
		{"stemming", "Running", Options{Stemming: true}, "run"},
		{"stemming after folding", "CARESSES", Options{Stemming: true}, "caress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokens(tt.text, tt.opts); !slices.Equal(got, []string{tt.want}) {
				t.Errorf("tokens(%q) = %q, want [%q]", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizerCustomStemmer(t *testing.T) {
	s, err := NewStemmer("english")
	if err != nil {
		t.Fatal(err)
	}
	got := tokens("cats running", Options{Stemming: true, Stemmer: s})
	if want := []string{"cat", "run"}; !slices.Equal(got, want) {
		t.Errorf("tokens = %q, want %q", got, want)
	}
}

func TestTokenizerOrig(t *testing.T) {
	tok := NewTokenizer([]byte("  Café au lait"), Options{})
	if !tok.More() {
		t.Fatal("More() = false")
	}
	if string(tok.Orig()) != "Café" || string(tok.Get()) != "cafe" {
		t.Errorf("Orig, Get = %q, %q, want Café, cafe", tok.Orig(), tok.Get())
	}
}

func TestTokenizerWildcards(t *testing.T) {
	opts := Options{Wildcards: true}
	tests := []struct {
		text string
		want []string
	}{
		{"fo.*bar", []string{"fo.*bar"}},
		{"fo.?bar and .+x", []string{"fo.?bar", "and", ".+x"}},
		{`te\st`, []string{`te\st`}},
		{`\.net`, []string{`\.net`}},
		{"x.{1,3}y", []string{"x.{1,3}y"}},
		{"he.{1,2}o", []string{"he.{1,2}o"}},
		{"h.+ll.+", []string{"h.+ll.+"}},
		{`h.\llo`, []string{`h.\llo`}},
		// a bare dot matches one character
		{".ello hell.", []string{".ello", "hell."}},
		{"a.b", []string{"a.b"}},
		{"x.{1,", []string{"x.", "1"}},
		{"end. next", []string{"end.", "next"}},
		{". x", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := tokens(tt.text, opts); !slices.Equal(got, tt.want) {
				t.Errorf("tokens(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}

	if got := tokens("fo.*bar", Options{}); !slices.Equal(got, []string{"fo", "bar"}) {
		t.Errorf("tokens without wildcards = %q, want [fo bar]", got)
	}
}

func TestTokenizerPos(t *testing.T) {
	tok := NewTokenizer([]byte("One two. Three\n\nfour"), Options{})

	if tok.Count() != 4 {
		t.Errorf("Count() = %d, want 4", tok.Count())
	}
	tests := []struct {
		word int
		unit Unit
		want int
	}{
		{2, UnitWord, 2},
		{1, UnitSentence, 0},
		{2, UnitSentence, 1},
		{3, UnitSentence, 1},
		{2, UnitParagraph, 0},
		{3, UnitParagraph, 1},
	}
	for _, tt := range tests {
		if got := tok.Pos(tt.word, tt.unit); got != tt.want {
			t.Errorf("Pos(%d, %s) = %d, want %d", tt.word, tt.unit, got, tt.want)
		}
	}

	if !panics(func() { tok.Pos(4, UnitSentence) }) {
		t.Error("Pos past the last token did not panic")
	}
	if !panics(func() { tok.Pos(-1, UnitParagraph) }) {
		t.Error("negative Pos did not panic")
	}

	// the prescan does not move the cursor
	if !tok.More() || string(tok.Get()) != "one" {
		t.Error("first token after Pos is not one")
	}
}

func TestTokenizerUnicodeSegmentation(t *testing.T) {
	opts := Options{Segmentation: SegmentUnicode}
	got := spans("Don't stop. 3.14 is pi", opts)

	var toks []string
	for _, s := range got {
		toks = append(toks, string(s.Token))
	}
	if want := []string{"don't", "stop", "3.14", "is", "pi"}; !slices.Equal(toks, want) {
		t.Fatalf("tokens = %q, want %q", toks, want)
	}
	if got[1].Sentence != 0 || got[2].Sentence != 1 || got[4].Word != 4 {
		t.Errorf("positions = %+v", got)
	}

	tok := NewTokenizer([]byte("Über alles.\nNext"), opts)
	if tok.Count() != 3 {
		t.Errorf("Count() = %d, want 3", tok.Count())
	}
	if p := tok.Pos(2, UnitParagraph); p != 1 {
		t.Errorf("Pos(2, paragraph) = %d, want 1", p)
	}
}

func TestTokenizerArbitraryBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	optsList := []Options{
		{},
		{Wildcards: true},
		{Stemming: true, Diacritics: true},
		{CaseSensitive: true, Uppercase: true},
		{Segmentation: SegmentUnicode},
	}
	for i := 0; i < 200; i++ {
		buf := make([]byte, rng.Intn(64))
		rng.Read(buf)
		for _, opts := range optsList {
			n := 0
			var tok *Tokenizer
			if panics(func() {
				tok = NewTokenizer(buf, opts)
				for tok.More() {
					tok.Get()
					n++
				}
			}) {
				t.Fatalf("tokenizing %q with %+v panicked", buf, opts)
			}
			if n != tok.Count() {
				t.Errorf("tokenizing %q with %+v: %d tokens, Count() = %d", buf, opts, n, tok.Count())
			}
		}
	}
}

func TestTokenizeEarlyBreak(t *testing.T) {
	var got []string
	for s := range Tokenize([]byte("a b c d"), Options{}) {
		got = append(got, string(s.Token))
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("got %q, want [a b]", got)
	}
}

func TestUnitString(t *testing.T) {
	tests := map[Unit]string{
		UnitWord:      "word",
		UnitSentence:  "sentence",
		UnitParagraph: "paragraph",
		Unit(7):       "Unit(7)",
	}
	for u, want := range tests {
		if u.String() != want {
			t.Errorf("String() = %q, want %q", u.String(), want)
		}
	}
}
