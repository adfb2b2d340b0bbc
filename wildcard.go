package fulltext

// unbounded marks a wildcard without an upper repetition limit.
const unbounded = -1

// wildcardElem is one element of a compiled pattern: either a literal
// character or a dot with its repetition bounds.
type wildcardElem struct {
	lit    rune
	raw    []byte
	dot    bool
	lo, hi int
}

// Wildcard is a compiled wildcard pattern as produced by a Tokenizer in
// wildcard mode. A dot matches one character and may be followed by a
// quantifier: .? matches zero or one, .* zero or more, .+ one or more and
// .{n,m} between n and m characters. A backslash makes the next character
// literal. Malformed quantifiers are read as a bare dot followed by
// literals.
//
// A Wildcard is immutable and safe for concurrent use.
type Wildcard struct {
	elems []wildcardElem
	dots  bool
}

// ParseWildcard compiles a pattern token. It never fails.
func ParseWildcard(pattern []byte) *Wildcard {
	w := &Wildcard{}
	for i := 0; i < len(pattern); {
		r, n := Codepoint(pattern, i)
		switch {
		case r == '\\' && i+1 < len(pattern):
			r, n = Codepoint(pattern, i+1)
			w.elems = append(w.elems, wildcardElem{lit: r, raw: pattern[i+1 : i+1+n]})
			i += 1 + n
		case r == '.':
			lo, hi, q := quantifier(pattern, i+1)
			w.elems = append(w.elems, wildcardElem{dot: true, lo: lo, hi: hi})
			w.dots = true
			i += 1 + q
		default:
			w.elems = append(w.elems, wildcardElem{lit: r, raw: pattern[i : i+n]})
			i += n
		}
	}
	return w
}

// quantifier reads the repetition bounds following a dot at i and the
// number of bytes they occupy.
func quantifier(p []byte, i int) (lo, hi, n int) {
	if i >= len(p) {
		return 1, 1, 0
	}
	switch p[i] {
	case '?':
		return 0, 1, 1
	case '*':
		return 0, unbounded, 1
	case '+':
		return 1, unbounded, 1
	case '{':
		from, j, ok := digits(p, i+1)
		if !ok || j >= len(p) || p[j] != ',' {
			break
		}
		to, k, ok := digits(p, j+1)
		if !ok || k >= len(p) || p[k] != '}' || from > to {
			break
		}
		return from, to, k + 1 - i
	}
	return 1, 1, 0
}

// digits parses a decimal number at i and returns it with the index after
// its last digit. Large values saturate.
func digits(p []byte, i int) (v, next int, ok bool) {
	start := i
	for ; i < len(p) && isDigit(rune(p[i])); i++ {
		if v < 1<<20 {
			v = v*10 + int(p[i]-'0')
		}
	}
	return v, i, i > start
}

// HasDots reports whether the pattern contains wildcard operators.
func (w *Wildcard) HasDots() bool { return w.dots }

// Literal returns the unescaped pattern. It reports false when the
// pattern contains wildcard operators.
func (w *Wildcard) Literal() ([]byte, bool) {
	if w.dots {
		return nil, false
	}
	var out []byte
	for _, e := range w.elems {
		out = append(out, e.raw...)
	}
	return out, true
}

// Match reports whether the whole token matches the pattern.
func (w *Wildcard) Match(token []byte) bool {
	var chars []rune
	for i := 0; i < len(token); {
		r, n := Codepoint(token, i)
		chars = append(chars, r)
		i += n
	}

	// reach[j] is set when the elements seen so far can consume chars[:j]
	reach := make([]bool, len(chars)+1)
	next := make([]bool, len(chars)+1)
	reach[0] = true
	for _, e := range w.elems {
		clear(next)
		alive := false
		for j, ok := range reach {
			if !ok {
				continue
			}
			if !e.dot {
				if j < len(chars) && chars[j] == e.lit {
					next[j+1] = true
					alive = true
				}
				continue
			}
			hi := len(chars) - j
			if e.hi != unbounded {
				hi = min(hi, e.hi)
			}
			for c := e.lo; c <= hi; c++ {
				next[j+c] = true
				alive = true
			}
		}
		if !alive {
			return false
		}
		reach, next = next, reach
	}
	return reach[len(chars)]
}
