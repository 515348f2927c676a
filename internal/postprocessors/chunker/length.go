package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// LengthFunc measures text in the unit chunk size and overlap use.
// It must be consistent with what the embedding model counts against its
// context limit.
type LengthFunc func(string) int

// RuneLength counts characters.
func RuneLength(s string) int {
	return utf8.RuneCountInString(s)
}

// TokenLength counts tokens of the named tiktoken encoding
// (for example "cl100k_base").
func TokenLength(encoding string) (LengthFunc, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}, nil
}
