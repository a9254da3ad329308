package cipher

import "errors"

// Errors returned by the cipher primitives and the cryptanalysis engine.
// Callers match them with errors.Is; detail is attached by wrapping.
var (
	// ErrInvalidKey is returned for an empty key, a key containing
	// non-letters, or a key length below one.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidRange is returned when a key-length search range has
	// min < 1 or max < min.
	ErrInvalidRange = errors.New("invalid key length range")

	// ErrEmptyText is returned when the text has no letters after normalization.
	ErrEmptyText = errors.New("text contains no letters")

	// ErrDegenerateClass is returned when a residue class used for key
	// recovery has no letters because the key length exceeds the text.
	ErrDegenerateClass = errors.New("residue class has no letters")
)
