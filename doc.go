/*
Package fulltext provides the full-text core of a document database: a
tokenizer, stemmers, a fuzzy matcher, a term-frequency scoring engine, a
compact integer codec for postings, an open-hash symbol table and a fair
reader/writer gate, tied together by an in-memory inverted index.

# Overview

Raw document bytes pass through the Tokenizer, which segments them into
words, sentences and paragraphs and normalizes every token (diacritics,
case, stemming). Normalized tokens key a symbol table (TokenSet, Map) whose
values are postings encoded as num arrays. At query time the same pipeline
normalizes the query, the Levenshtein or wildcard matcher optionally
relaxes equality and ScoreTable ranks the candidates. A Gate serializes structural changes
against concurrent readers.

# Quick Start

	package main

	import (
	    "context"
	    "fmt"
	    "log"

	    "github.com/wizenheimer/fulltext"
	)

	func main() {
	    ctx := context.Background()
	    idx, err := fulltext.NewIndex(nil)
	    if err != nil {
	        log.Fatal(err)
	    }
	    _ = idx.Add(ctx, 1, "The quick brown fox jumps over the lazy dog.")
	    _ = idx.Add(ctx, 2, "Foxes are jumping. Dogs are sleeping.")

	    results, err := idx.NewSearch().
	        WithQuery("jumping foxes").
	        WithK(10).
	        Execute(ctx)
	    if err != nil {
	        log.Fatal(err)
	    }
	    for i, r := range results {
	        fmt.Printf("%d. doc=%d score=%d\n", i+1, r.DocID, r.Score)
	    }
	}

# Tokenizing

	t := fulltext.NewTokenizer(text, fulltext.Options{Stemming: true})
	for t.More() {
	    fmt.Println(string(t.Get()), t.Word(), t.Sentence(), t.Paragraph())
	}

Tokens are normalized in a fixed order: diacritics are stripped (unless
preserved), then the token is upper-cased, lower-cased and finally stemmed.

# Fuzzy Matching

	fulltext.Similar([]byte("testing"), []byte("testng"), 0) // true
	fulltext.Similar([]byte("cat"), []byte("bat"), 0)        // false, too short

# Wildcards

In wildcard mode a dot matches one character and may carry a quantifier
(.? .* .+ .{n,m}); a backslash escapes the next character. Documents are
always indexed without wildcards; searches opt in per query.

	results, err := idx.NewSearch().WithQuery("hel.*").WithWildcards(true).Execute(ctx)

# Num Codec

Integers are packed into 1, 2, 4 or 5 bytes; the two high bits of the first
byte select the length. The byte layout is stable and safe to persist.

	buf := fulltext.EncodeNum(16384)     // 4 bytes
	v, n := fulltext.DecodeNum(buf, 0)   // 16384, 4

# Thread Safety

Tokenizer, Levenshtein and ScoreTable keep per-call scratch state; give
every goroutine its own. TokenSet and Map are not synchronized. Index is
safe for concurrent use: mutations hold the write side of its Gate and
lookups the read side.
*/
package fulltext
