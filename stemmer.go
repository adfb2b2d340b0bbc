package fulltext

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer reduces a token to its stem. Implementations return a fresh slice
// and never modify or alias their input.
type Stemmer interface {
	Stem(token []byte) []byte
}

// snowballLanguages maps accepted language names to snowball algorithms.
var snowballLanguages = map[string]string{
	"english":   "english",
	"spanish":   "spanish",
	"es":        "spanish",
	"french":    "french",
	"fr":        "french",
	"russian":   "russian",
	"ru":        "russian",
	"swedish":   "swedish",
	"sv":        "swedish",
	"norwegian": "norwegian",
	"no":        "norwegian",
	"hungarian": "hungarian",
	"hu":        "hungarian",
}

// NewStemmer returns the stemmer for a language. The empty string, "en" and
// "porter" select the Porter stemmer; english (Porter2), spanish, french,
// russian, swedish, norwegian and hungarian use Snowball.
func NewStemmer(lang string) (Stemmer, error) {
	l := strings.ToLower(strings.TrimSpace(lang))
	switch l {
	case "", "en", "porter":
		return PorterStemmer{}, nil
	}
	algo, ok := snowballLanguages[l]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return snowballStemmer{language: algo}, nil
}

type snowballStemmer struct {
	language string
}

// Stem returns the snowball stem of token. Tokens the algorithm rejects are
// returned unchanged.
func (s snowballStemmer) Stem(token []byte) []byte {
	stemmed, err := snowball.Stem(string(token), s.language, true)
	if err != nil {
		return append([]byte{}, token...)
	}
	return []byte(stemmed)
}
