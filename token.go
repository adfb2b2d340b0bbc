package fulltext

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxHashLen is the number of leading bytes that contribute to a token hash.
// Tokens sharing a longer prefix collide; equality still compares every byte.
const MaxHashLen = 64

// latin1Fold maps U+00C0..U+00FF to their base letters. The multiplication
// and division signs map to a space so they never count as letters.
var latin1Fold = [64]byte{
	'A', 'A', 'A', 'A', 'A', 'A', 'A', 'C', 'E', 'E', 'E', 'E', 'I', 'I', 'I', 'I',
	'D', 'N', 'O', 'O', 'O', 'O', 'O', ' ', 'O', 'U', 'U', 'U', 'U', 'Y', 'D', 'S',
	'a', 'a', 'a', 'a', 'a', 'a', 'a', 'c', 'e', 'e', 'e', 'e', 'i', 'i', 'i', 'i',
	'd', 'n', 'o', 'o', 'o', 'o', 'o', ' ', 'o', 'u', 'u', 'u', 'u', 'y', 'd', 'y',
}

// Hash returns the hash of a token over at most its first MaxHashLen bytes.
// Bytes are treated as signed values so hashes stay stable across ports
// that store tokens as signed byte arrays.
func Hash(token []byte) int32 {
	var h int32
	l := min(len(token), MaxHashLen)
	for i := 0; i < l; i++ {
		h = h<<5 - h + int32(int8(token[i]))
	}
	return h
}

// Equal reports whether two tokens hold the same bytes.
func Equal(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// Codepoint decodes the character starting at pos and returns it together
// with its length in bytes. An invalid or truncated sequence never fails:
// the offending byte is returned as a single one-byte character.
func Codepoint(token []byte, pos int) (rune, int) {
	b := token[pos]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, n := utf8.DecodeRune(token[pos:])
	if r == utf8.RuneError && n <= 1 {
		return rune(b), 1
	}
	return r, n
}

// Length returns the number of characters in a token.
func Length(token []byte) int {
	n := 0
	for i := 0; i < len(token); {
		_, l := Codepoint(token, i)
		i += l
		n++
	}
	return n
}

// IsASCII reports whether a token consists of 7-bit characters only.
func IsASCII(token []byte) bool {
	for _, b := range token {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func letterOrDigit(r rune) bool {
	return isLetter(r) || isDigit(r)
}

// fold strips the diacritic of a Latin-1 character.
func fold(r rune) rune {
	if r >= 0xC0 && r <= 0xFF {
		return rune(latin1Fold[r-0xC0])
	}
	return r
}

// IsFTChar reports whether r belongs to a full-text token.
func IsFTChar(r rune) bool {
	if r < utf8.RuneSelf {
		return letterOrDigit(r)
	}
	if r < 0x100 {
		return r >= 0xC0 && letterOrDigit(fold(r))
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FTNorm returns the lowercase form of r without diacritics.
func FTNorm(r rune) rune {
	return LowerRune(fold(r))
}

// LowerRune converts a single character to lower case.
func LowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r | 0x20
	}
	if r < utf8.RuneSelf {
		return r
	}
	return unicode.ToLower(r)
}

// UpperRune converts a single character to upper case.
func UpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 0x20
	}
	if r < utf8.RuneSelf {
		return r
	}
	return unicode.ToUpper(r)
}

// Lower returns a lower-case copy of the token.
func Lower(token []byte) []byte {
	if IsASCII(token) {
		out := make([]byte, len(token))
		for i, b := range token {
			out[i] = byte(LowerRune(rune(b)))
		}
		return out
	}
	if !utf8.Valid(token) {
		return convertCase(token, latin1Lower, LowerRune)
	}
	return cases.Lower(language.English).Bytes(token)
}

// Upper returns an upper-case copy of the token.
func Upper(token []byte) []byte {
	if IsASCII(token) {
		out := make([]byte, len(token))
		for i, b := range token {
			out[i] = byte(UpperRune(rune(b)))
		}
		return out
	}
	if !utf8.Valid(token) {
		return convertCase(token, latin1Upper, UpperRune)
	}
	return cases.Upper(language.English).Bytes(token)
}

// convertCase maps a token that is not valid UTF-8 character by character.
// A byte that does not start a valid sequence is read as ISO-8859-1 and
// stays a single byte.
func convertCase(token []byte, latin1 func(byte) byte, conv func(rune) rune) []byte {
	out := make([]byte, 0, len(token))
	for i := 0; i < len(token); {
		r, n := Codepoint(token, i)
		if n == 1 && r >= utf8.RuneSelf {
			out = append(out, latin1(byte(r)))
		} else {
			out = utf8.AppendRune(out, conv(r))
		}
		i += n
	}
	return out
}

func latin1Lower(b byte) byte {
	if b >= 0xC0 && b <= 0xDE && b != 0xD7 {
		return b + 0x20
	}
	return b
}

func latin1Upper(b byte) byte {
	if b >= 0xE0 && b <= 0xFE && b != 0xF7 {
		return b - 0x20
	}
	return b
}

// NoDiacritics strips diacritics in the ISO-8859-1 range. Characters outside
// that range keep their exact bytes. The token itself is returned when it
// contains no candidate characters.
func NoDiacritics(token []byte) []byte {
	if IsASCII(token) {
		return token
	}
	out := make([]byte, 0, len(token))
	for i := 0; i < len(token); {
		r, n := Codepoint(token, i)
		if f := fold(r); f != r {
			out = append(out, byte(f))
		} else {
			out = append(out, token[i:i+n]...)
		}
		i += n
	}
	return out
}
