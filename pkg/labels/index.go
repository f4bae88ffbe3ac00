// ABOUTME: Label index mapping preorder node rank to label code
// ABOUTME: Two interchangeable strategies chosen by alphabet cardinality

package labels

import (
	"github.com/nainya/xmlgrove/pkg/bitvec"
	"github.com/nainya/xmlgrove/pkg/wavelet"
)

// SPARSE_MAX_CODES is the alphabet size up to which the per-code sparse
// bit-vector strategy is chosen by default. Few high-frequency codes
// favor per-code vectors; many distinct codes favor the wavelet matrix.
const SPARSE_MAX_CODES = 64

// Strategy selects the label index representation at build time.
type Strategy int

const (
	StrategyAuto Strategy = iota
	StrategySparse
	StrategyWavelet
)

// Index answers label queries over the document-order label sequence.
// Implementations are immutable and safe for concurrent reads.
type Index interface {
	// At returns the label of the i-th node in document order.
	At(i int) Code

	// Rank counts nodes with label c among the first i nodes.
	Rank(c Code, i int) int

	// Select returns the document-order index of the k-th node with
	// label c, 0-indexed. ok is false when fewer than k+1 exist.
	Select(c Code, k int) (int, bool)

	// Len reports the number of labeled nodes.
	Len() int
}

// BuildIndex freezes the label sequence into an Index. cardinality is
// the number of distinct codes assigned by the interner.
func BuildIndex(seq []Code, cardinality int, strategy Strategy) Index {
	if strategy == StrategyAuto {
		if cardinality <= SPARSE_MAX_CODES {
			strategy = StrategySparse
		} else {
			strategy = StrategyWavelet
		}
	}
	if strategy == StrategySparse {
		return newSparseIndex(seq, cardinality)
	}
	return newWaveletIndex(seq, cardinality)
}

// waveletIndex stores the sequence in a wavelet matrix: N*log(sigma)
// bits, logarithmic-in-alphabet queries.
type waveletIndex struct {
	m *wavelet.Matrix
}

func newWaveletIndex(seq []Code, cardinality int) *waveletIndex {
	data := make([]uint64, len(seq))
	for i, c := range seq {
		data[i] = uint64(c)
	}
	return &waveletIndex{m: wavelet.New(data, wavelet.BitsFor(cardinality))}
}

func (w *waveletIndex) At(i int) Code {
	return Code(w.m.Access(i))
}

func (w *waveletIndex) Rank(c Code, i int) int {
	return w.m.Rank(uint64(c), i)
}

func (w *waveletIndex) Select(c Code, k int) (int, bool) {
	return w.m.Select(uint64(c), k)
}

func (w *waveletIndex) Len() int {
	return w.m.Len()
}

// sparseIndex keeps the raw code sequence for O(1) access plus one
// rank/select bit vector per code for O(1)-class occurrence stepping.
type sparseIndex struct {
	codes   []Code
	perCode []*bitvec.Vector
}

func newSparseIndex(seq []Code, cardinality int) *sparseIndex {
	s := &sparseIndex{
		codes:   seq,
		perCode: make([]*bitvec.Vector, cardinality),
	}
	builders := make([]*bitvec.Builder, cardinality)
	for c := range builders {
		builders[c] = bitvec.NewBuilder(len(seq))
	}
	for _, code := range seq {
		for c := range builders {
			builders[c].Append(Code(c) == code)
		}
	}
	for c, b := range builders {
		s.perCode[c] = b.Build()
	}
	return s
}

func (s *sparseIndex) At(i int) Code {
	return s.codes[i]
}

func (s *sparseIndex) Rank(c Code, i int) int {
	if int(c) >= len(s.perCode) {
		return 0
	}
	return s.perCode[c].Rank1(i)
}

func (s *sparseIndex) Select(c Code, k int) (int, bool) {
	if int(c) >= len(s.perCode) {
		return 0, false
	}
	pos, err := s.perCode[c].Select1(k)
	if err != nil {
		return 0, false
	}
	return pos, true
}

func (s *sparseIndex) Len() int {
	return len(s.codes)
}
