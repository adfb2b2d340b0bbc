package fulltext

import (
	"github.com/clipperhouse/uax29/v2/words"
)

// segment is a UAX#29 word-boundary segment of the bound text.
type segment struct {
	start, end int
	// word is set for segments holding at least one letter or digit
	word bool
}

// segmentUnicode splits text at UAX#29 word boundaries.
func segmentUnicode(text []byte) []segment {
	var segs []segment
	toks := words.FromString(string(text))
	off := 0
	for toks.Next() {
		v := toks.Value()
		s := segment{start: off, end: off + len(v)}
		for i := s.start; i < s.end; {
			r, n := Codepoint(text, i)
			if IsFTChar(r) {
				s.word = true
				break
			}
			i += n
		}
		segs = append(segs, s)
		off = s.end
	}
	return segs
}

func (t *Tokenizer) moreUnicode() bool {
	var sentence, paragraph bool
	for ; t.seg < len(t.segments); t.seg++ {
		s := t.segments[t.seg]
		if s.word {
			break
		}
		for _, b := range t.text[s.start:s.end] {
			switch b {
			case '.', '!', '?':
				sentence = true
			case '\n':
				paragraph = true
			}
		}
	}
	if t.seg >= len(t.segments) {
		t.pos = len(t.text)
		t.valid = false
		return false
	}
	if sentence {
		t.sent++
	}
	if paragraph {
		t.para++
	}
	s := t.segments[t.seg]
	t.seg++
	t.start, t.end, t.pos = s.start, s.end, s.end
	t.word++
	t.valid = true
	return true
}
