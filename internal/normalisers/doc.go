// Package normalisers provides implementations of the Normaliser interface.
// Each normaliser knows how to extract page text from a specific MIME type.
// Only PDF is accepted for upload, so pdf is the one implementation.
package normalisers
