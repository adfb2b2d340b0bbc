package fulltext

// PorterStemmer implements the suffix-stripping algorithm published by
// M.F. Porter in 1980, following the reference implementation including its
// two departures from the paper (bli→ble and logi→log).
//
// The stemmer works on lower-case ASCII letters; other bytes are treated as
// consonants. It is stateless and safe for concurrent use.
type PorterStemmer struct{}

var _ Stemmer = PorterStemmer{}

// Stem returns the stem of token in a freshly allocated slice.
func (PorterStemmer) Stem(token []byte) []byte {
	p := newPorter(token)
	if p.k > 1 {
		p.step1ab()
		p.step1c()
		p.step2()
		p.step3()
		p.step4()
		p.step5()
	}
	return p.result()
}

// porter holds the scratch state of one stemming run. b is owned by the run,
// k is the index of the last character of the current stem and j marks the
// end of the stem before a matched suffix.
type porter struct {
	b    []byte
	k, j int
}

func newPorter(token []byte) *porter {
	b := make([]byte, len(token), len(token)+8)
	copy(b, token)
	return &porter{b: b, k: len(token) - 1}
}

func (p *porter) result() []byte {
	return p.b[:p.k+1]
}

// cons reports whether b[i] is a consonant.
func (p *porter) cons(i int) bool {
	switch p.b[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !p.cons(i - 1)
	default:
		return true
	}
}

// m measures the number of consonant sequences between 0 and j:
//
//	<c><v>       gives 0
//	<c>vc<v>     gives 1
//	<c>vcvc<v>   gives 2
func (p *porter) m() int {
	n := 0
	i := 0
	for {
		if i > p.j {
			return n
		}
		if !p.cons(i) {
			break
		}
		i++
	}
	i++
	for {
		for {
			if i > p.j {
				return n
			}
			if p.cons(i) {
				break
			}
			i++
		}
		i++
		n++
		for {
			if i > p.j {
				return n
			}
			if !p.cons(i) {
				break
			}
			i++
		}
		i++
	}
}

// vowelInStem reports whether 0..j contains a vowel.
func (p *porter) vowelInStem() bool {
	for i := 0; i <= p.j; i++ {
		if !p.cons(i) {
			return true
		}
	}
	return false
}

// doubleC reports whether j-1 and j hold the same consonant.
func (p *porter) doubleC(j int) bool {
	if j < 1 || p.b[j] != p.b[j-1] {
		return false
	}
	return p.cons(j)
}

// cvc reports whether i-2, i-1, i is consonant-vowel-consonant and the last
// consonant is not w, x or y. It restores an e in words like cav(e), lov(e).
func (p *porter) cvc(i int) bool {
	if i < 2 || !p.cons(i) || p.cons(i-1) || !p.cons(i-2) {
		return false
	}
	switch p.b[i] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

// ends reports whether 0..k ends with s and sets j accordingly.
func (p *porter) ends(s string) bool {
	l := len(s)
	o := p.k - l + 1
	if o < 0 {
		return false
	}
	if string(p.b[o:p.k+1]) != s {
		return false
	}
	p.j = p.k - l
	return true
}

// setTo replaces j+1..k with s and adjusts k.
func (p *porter) setTo(s string) {
	p.b = append(p.b[:p.j+1], s...)
	p.k = p.j + len(s)
}

func (p *porter) r(s string) {
	if p.m() > 0 {
		p.setTo(s)
	}
}

// step1ab removes plurals and -ed or -ing:
//
//	caresses  ->  caress
//	ponies    ->  poni
//	feed      ->  feed
//	agreed    ->  agree
//	plastered ->  plaster
//	motoring  ->  motor
//	hopping   ->  hop
//	filing    ->  file
func (p *porter) step1ab() {
	if p.b[p.k] == 's' {
		switch {
		case p.ends("sses"):
			p.k -= 2
		case p.ends("ies"):
			p.setTo("i")
		case p.b[p.k-1] != 's':
			p.k--
		}
	}
	if p.ends("eed") {
		if p.m() > 0 {
			p.k--
		}
	} else if (p.ends("ed") || p.ends("ing")) && p.vowelInStem() {
		p.k = p.j
		switch {
		case p.ends("at"):
			p.setTo("ate")
		case p.ends("bl"):
			p.setTo("ble")
		case p.ends("iz"):
			p.setTo("ize")
		case p.doubleC(p.k):
			p.k--
			switch p.b[p.k] {
			case 'l', 's', 'z':
				p.k++
			}
		default:
			p.j = p.k
			if p.m() == 1 && p.cvc(p.k) {
				p.setTo("e")
			}
		}
	}
}

// step1c turns a terminal y into i when there is another vowel in the stem.
func (p *porter) step1c() {
	if p.ends("y") && p.vowelInStem() {
		p.b[p.k] = 'i'
	}
}

// step2 maps double suffixes to single ones when m() > 0.
func (p *porter) step2() {
	if p.k == 0 {
		return
	}
	switch p.b[p.k-1] {
	case 'a':
		if p.ends("ational") {
			p.r("ate")
		} else if p.ends("tional") {
			p.r("tion")
		}
	case 'c':
		if p.ends("enci") {
			p.r("ence")
		} else if p.ends("anci") {
			p.r("ance")
		}
	case 'e':
		if p.ends("izer") {
			p.r("ize")
		}
	case 'l':
		switch {
		case p.ends("bli"):
			p.r("ble")
		case p.ends("alli"):
			p.r("al")
		case p.ends("entli"):
			p.r("ent")
		case p.ends("eli"):
			p.r("e")
		case p.ends("ousli"):
			p.r("ous")
		}
	case 'o':
		switch {
		case p.ends("ization"):
			p.r("ize")
		case p.ends("ation"):
			p.r("ate")
		case p.ends("ator"):
			p.r("ate")
		}
	case 's':
		switch {
		case p.ends("alism"):
			p.r("al")
		case p.ends("iveness"):
			p.r("ive")
		case p.ends("fulness"):
			p.r("ful")
		case p.ends("ousness"):
			p.r("ous")
		}
	case 't':
		switch {
		case p.ends("aliti"):
			p.r("al")
		case p.ends("iviti"):
			p.r("ive")
		case p.ends("biliti"):
			p.r("ble")
		}
	case 'g':
		if p.ends("logi") {
			p.r("log")
		}
	}
}

// step3 deals with -ic-, -full, -ness etc.
func (p *porter) step3() {
	switch p.b[p.k] {
	case 'e':
		switch {
		case p.ends("icate"):
			p.r("ic")
		case p.ends("ative"):
			p.r("")
		case p.ends("alize"):
			p.r("al")
		}
	case 'i':
		if p.ends("iciti") {
			p.r("ic")
		}
	case 'l':
		if p.ends("ical") {
			p.r("ic")
		} else if p.ends("ful") {
			p.r("")
		}
	case 's':
		if p.ends("ness") {
			p.r("")
		}
	}
}

// step4 takes off -ant, -ence etc. in context <c>vcvc<v>.
func (p *porter) step4() {
	if p.k == 0 {
		return
	}
	switch p.b[p.k-1] {
	case 'a':
		if !p.ends("al") {
			return
		}
	case 'c':
		if !p.ends("ance") && !p.ends("ence") {
			return
		}
	case 'e':
		if !p.ends("er") {
			return
		}
	case 'i':
		if !p.ends("ic") {
			return
		}
	case 'l':
		if !p.ends("able") && !p.ends("ible") {
			return
		}
	case 'n':
		if !p.ends("ant") && !p.ends("ement") && !p.ends("ment") && !p.ends("ent") {
			return
		}
	case 'o':
		if p.ends("ion") && p.j >= 0 && (p.b[p.j] == 's' || p.b[p.j] == 't') {
			break
		}
		if !p.ends("ou") {
			return
		}
	case 's':
		if !p.ends("ism") {
			return
		}
	case 't':
		if !p.ends("ate") && !p.ends("iti") {
			return
		}
	case 'u':
		if !p.ends("ous") {
			return
		}
	case 'v':
		if !p.ends("ive") {
			return
		}
	case 'z':
		if !p.ends("ize") {
			return
		}
	default:
		return
	}
	if p.m() > 1 {
		p.k = p.j
	}
}

// step5 removes a final -e if m() > 1 and changes -ll to -l if m() > 1.
func (p *porter) step5() {
	p.j = p.k
	if p.b[p.k] == 'e' {
		a := p.m()
		if a > 1 || a == 1 && !p.cvc(p.k-1) {
			p.k--
		}
	}
	if p.b[p.k] == 'l' && p.doubleC(p.k) && p.m() > 1 {
		p.k--
	}
}
