package fulltext

import "errors"

var (
	// ErrUnknownLanguage is returned when no stemmer exists for a language.
	ErrUnknownLanguage = errors.New("unknown stemming language")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrDocumentNotFound is returned when removing a document the index does not hold.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEmptyQuery is returned by a search without query text.
	ErrEmptyQuery = errors.New("no query specified")
)
