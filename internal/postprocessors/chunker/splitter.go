package chunker

import (
	"iter"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultChunkSize is the default chunk length in length units.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap in length units.
const DefaultChunkOverlap = 200

// maxWordScan bounds how far an overlap start is moved back to reach the
// beginning of a word.
const maxWordScan = 64

// DefaultSeparators are tried in order: paragraph, line, sentence, word,
// then single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Span is one chunk and its byte offsets in the source text.
// Text is always exactly source[Start:End].
type Span struct {
	Text  string
	Start int
	End   int
}

// Splitter splits text recursively on a separator hierarchy and merges the
// pieces into overlapping chunks. It holds no state between calls.
type Splitter struct {
	chunkSize  int
	overlap    int
	length     LengthFunc
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk length.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets how much of each chunk is repeated at the start of the
// next one.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithLengthFunc sets the unit chunk size and overlap are measured in.
func WithLengthFunc(fn LengthFunc) Option {
	return func(s *Splitter) {
		if fn != nil {
			s.length = fn
		}
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators ...string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = append([]string(nil), separators...)
		}
	}
}

// NewSplitter creates a splitter with the given options.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		length:     RuneLength,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of text. The sequence is computed on each
// iteration, so it can be ranged over any number of times.
func (s *Splitter) Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for span := range s.Spans(text) {
			if !yield(span.Text) {
				return
			}
		}
	}
}

// Spans is Split with source offsets.
func (s *Splitter) Spans(text string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		if strings.TrimSpace(text) == "" {
			return
		}
		pieces := s.decompose(text, 0, s.separators, nil)
		s.merge(text, pieces, yield)
	}
}

// piece is a contiguous run of the source text that is merged as a unit.
type piece struct {
	start, end int
	n          int
}

// decompose breaks text into pieces no longer than chunkSize-overlap, using
// the coarsest separator that works for each region. Separators stay at the
// end of the piece they terminate, so pieces tile the text exactly.
func (s *Splitter) decompose(text string, offset int, separators []string, out []piece) []piece {
	limit := s.chunkSize - s.overlap
	sep, rest := pickSeparator(text, separators)

	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		n := s.length(part)
		if n <= limit || sep == "" {
			out = append(out, piece{start: offset, end: offset + len(part), n: n})
		} else {
			out = s.decompose(part, offset, rest, out)
		}
		offset += len(part)
	}
	return out
}

func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// merge packs pieces greedily into chunks of at most chunkSize. Each new
// chunk starts with the last overlap units of the previous one.
func (s *Splitter) merge(text string, pieces []piece, yield func(Span) bool) {
	if len(pieces) == 0 {
		return
	}

	start, end, total := pieces[0].start, pieces[0].start, 0
	// carry is where the overlap taken from the last emitted chunk begins.
	carry := start
	for _, p := range pieces {
		if end > start && total+p.n > s.chunkSize {
			if strings.TrimSpace(text[start:end]) == "" {
				// Blank chunks are not emitted. Restart as close to the last
				// emitted chunk as the next piece allows.
				start = s.fitStart(text, carry, end, p.n)
			} else {
				if !yield(Span{Text: text[start:end], Start: start, End: end}) {
					return
				}
				start = s.tailStart(text, start, end, p.n)
				carry = start
			}
			total = 0
			if start < end {
				total = s.length(text[start:end])
			}
			// Oversized piece at the finest level: drop the overlap rather
			// than emit a chunk made only of repeated text.
			if total+p.n > s.chunkSize {
				start, total = end, 0
			}
		}
		end = p.end
		total += p.n
	}
	emit(text, start, end, yield)
}

// fitStart returns the earliest rune boundary in text[from:end] from which
// the rest of that range plus a piece of length next fits in one chunk.
func (s *Splitter) fitStart(text string, from, end, next int) int {
	seg := text[from:end]
	bounds := runeStarts(seg)
	i := sort.Search(len(bounds), func(i int) bool {
		return s.length(seg[bounds[i]:])+next <= s.chunkSize
	})
	if i == len(bounds) {
		return end
	}
	return from + bounds[i]
}

func emit(text string, start, end int, yield func(Span) bool) bool {
	chunk := text[start:end]
	if strings.TrimSpace(chunk) == "" {
		return true
	}
	return yield(Span{Text: chunk, Start: start, End: end})
}

// tailStart finds where the overlap carried from text[start:end] begins.
// The tail is the longest suffix no longer than overlap, moved back to the
// start of a word when the next piece still fits.
func (s *Splitter) tailStart(text string, start, end, next int) int {
	if s.overlap == 0 {
		return end
	}

	seg := text[start:end]
	bounds := runeStarts(seg)
	i := sort.Search(len(bounds), func(i int) bool {
		return s.length(seg[bounds[i]:]) <= s.overlap
	})
	if i == len(bounds) {
		return end
	}

	if at, _ := utf8.DecodeRuneInString(seg[bounds[i]:]); unicode.IsSpace(at) {
		return start + bounds[i]
	}
	for j := i; j > 0 && i-j <= maxWordScan; j-- {
		if j < i && s.length(seg[bounds[j]:])+next > s.chunkSize {
			break
		}
		prev, _ := utf8.DecodeLastRuneInString(seg[:bounds[j]])
		if unicode.IsSpace(prev) {
			return start + bounds[j]
		}
	}
	return start + bounds[i]
}

func runeStarts(s string) []int {
	bounds := make([]int, 0, len(s))
	for i := range s {
		bounds = append(bounds, i)
	}
	return bounds
}
