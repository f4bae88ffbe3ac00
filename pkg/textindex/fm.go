// ABOUTME: FM-index over the text corpus: BWT plus backward search
// ABOUTME: Count via range narrowing, locate via sampled suffix positions

package textindex

import (
	"github.com/nainya/xmlgrove/pkg/bitvec"
	"github.com/nainya/xmlgrove/pkg/wavelet"
)

const (
	// TERMINATOR ends the indexed text. Appended exactly once at build,
	// strictly smaller than every corpus symbol.
	TERMINATOR = 0x00

	// RUN_SEPARATOR follows every text run in the corpus, so matches
	// never span two runs. Corpus symbols must be >= MIN_CORPUS_BYTE.
	RUN_SEPARATOR   = 0x01
	MIN_CORPUS_BYTE = 0x02

	// DEFAULT_SAMPLE_RATE is the suffix-position sampling stride:
	// smaller is faster locate, larger is less memory.
	DEFAULT_SAMPLE_RATE = 16
)

// fmIndex is the Burrows-Wheeler index over the corpus plus terminator.
// All fields are frozen after construction.
type fmIndex struct {
	occ        *wavelet.Matrix // BWT column with rank/select per byte
	counts     [257]int        // counts[c] = symbols strictly smaller than c
	sampled    *bitvec.Vector  // rows whose suffix position is sampled
	samples    []int32         // sampled suffix positions, in row order
	sampleRate int
	rows       int // corpus length + 1 terminator
}

// newFMIndex builds the index over corpus (run separators included, no
// terminator). The corpus must not contain TERMINATOR.
func newFMIndex(corpus []byte, sampleRate int) *fmIndex {
	if sampleRate <= 0 {
		sampleRate = DEFAULT_SAMPLE_RATE
	}
	text := make([]byte, len(corpus)+1)
	copy(text, corpus)
	text[len(corpus)] = TERMINATOR

	sa := buildSuffixArray(text)
	n := len(text)

	fm := &fmIndex{sampleRate: sampleRate, rows: n}

	bwt := make([]uint64, n)
	sampledBits := bitvec.NewBuilder(n)
	for row, pos := range sa {
		if pos == 0 {
			bwt[row] = uint64(text[n-1])
		} else {
			bwt[row] = uint64(text[pos-1])
		}
		if int(pos)%sampleRate == 0 {
			sampledBits.Append(true)
			fm.samples = append(fm.samples, pos)
		} else {
			sampledBits.Append(false)
		}
	}
	fm.sampled = sampledBits.Build()
	fm.occ = wavelet.New(bwt, 8)

	var freq [256]int
	for _, b := range text {
		freq[b]++
	}
	for c := 0; c < 256; c++ {
		fm.counts[c+1] = fm.counts[c] + freq[c]
	}
	return fm
}

// searchRange narrows the half-open BWT row range matching pattern by
// backward search. ok is false when the pattern is absent.
func (fm *fmIndex) searchRange(pattern []byte) (lo, hi int, ok bool) {
	if len(pattern) == 0 {
		return 0, 0, false
	}
	lo, hi = 0, fm.rows
	for i := len(pattern) - 1; i >= 0; i-- {
		c := pattern[i]
		if c < MIN_CORPUS_BYTE {
			return 0, 0, false
		}
		lo = fm.counts[c] + fm.occ.Rank(uint64(c), lo)
		hi = fm.counts[c] + fm.occ.Rank(uint64(c), hi)
		if lo >= hi {
			return 0, 0, false
		}
	}
	return lo, hi, true
}

// lf is the last-to-first mapping: the row of the suffix one position
// earlier in the text.
func (fm *fmIndex) lf(row int) int {
	c := fm.occ.Access(row)
	return fm.counts[c] + fm.occ.Rank(c, row)
}

// offsetAt recovers the text offset of the suffix in the given row by
// walking lf until a sampled row is reached.
func (fm *fmIndex) offsetAt(row int) int {
	steps := 0
	for !fm.sampled.Get(row) {
		row = fm.lf(row)
		steps++
	}
	return int(fm.samples[fm.sampled.Rank1(row)]) + steps
}

// Offsets is a lazy, restartable sequence of corpus offsets produced by
// a locate query. Offsets arrive in BWT row order, not text order.
type Offsets struct {
	fm      *fmIndex
	lo, hi  int
	current int
}

// Next produces the next corpus offset. ok is false when exhausted.
func (o *Offsets) Next() (offset int, ok bool) {
	if o.current >= o.hi {
		return 0, false
	}
	offset = o.fm.offsetAt(o.current)
	o.current++
	return offset, true
}

// Reset rewinds the sequence to its start.
func (o *Offsets) Reset() {
	o.current = o.lo
}

// Len reports the total number of offsets in the sequence.
func (o *Offsets) Len() int {
	return o.hi - o.lo
}
