// ABOUTME: Wavelet matrix over small-alphabet integer sequences
// ABOUTME: Supports access, rank and select per symbol in O(width) time

package wavelet

import (
	"github.com/nainya/xmlgrove/pkg/bitvec"
)

// Matrix is an immutable wavelet matrix over a sequence of symbols
// drawn from [0, 1<<width). One bit-vector level per symbol bit,
// most significant bit first.
type Matrix struct {
	levels []*bitvec.Vector
	zeros  []int
	length int
	width  int
}

// BitsFor returns the number of bits needed to represent symbols of an
// alphabet with the given cardinality. Always at least 1.
func BitsFor(cardinality int) int {
	width := 1
	for 1<<uint(width) < cardinality {
		width++
	}
	return width
}

// New builds a wavelet matrix from the symbol sequence. Every symbol
// must be below 1<<width.
func New(data []uint64, width int) *Matrix {
	if width < 1 {
		panic("wavelet: width must be at least 1")
	}
	m := &Matrix{
		levels: make([]*bitvec.Vector, width),
		zeros:  make([]int, width),
		length: len(data),
		width:  width,
	}

	cur := make([]uint64, len(data))
	copy(cur, data)
	next := make([]uint64, len(data))

	for l := 0; l < width; l++ {
		shift := uint(width - 1 - l)
		b := bitvec.NewBuilder(len(cur))
		for _, sym := range cur {
			b.Append(sym>>shift&1 == 1)
		}
		m.levels[l] = b.Build()
		m.zeros[l] = m.levels[l].Zeros()

		// Stable partition: zero-bit symbols first, then one-bit.
		n := 0
		for _, sym := range cur {
			if sym>>shift&1 == 0 {
				next[n] = sym
				n++
			}
		}
		for _, sym := range cur {
			if sym>>shift&1 == 1 {
				next[n] = sym
				n++
			}
		}
		cur, next = next, cur
	}
	return m
}

// Len reports the sequence length.
func (m *Matrix) Len() int {
	return m.length
}

// Width reports the number of bit levels.
func (m *Matrix) Width() int {
	return m.width
}

// Access returns the symbol at position i.
func (m *Matrix) Access(i int) uint64 {
	if i < 0 || i >= m.length {
		panic("wavelet: position out of bounds")
	}
	var sym uint64
	for l := 0; l < m.width; l++ {
		lv := m.levels[l]
		if lv.Get(i) {
			sym = sym<<1 | 1
			i = m.zeros[l] + lv.Rank1(i)
		} else {
			sym = sym << 1
			i = lv.Rank0(i)
		}
	}
	return sym
}

// Rank counts occurrences of sym in [0, i).
func (m *Matrix) Rank(sym uint64, i int) int {
	if i < 0 || i > m.length {
		panic("wavelet: rank position out of bounds")
	}
	if sym>>uint(m.width) != 0 {
		return 0
	}
	s, e := 0, i
	for l := 0; l < m.width; l++ {
		lv := m.levels[l]
		if sym>>uint(m.width-1-l)&1 == 1 {
			s = m.zeros[l] + lv.Rank1(s)
			e = m.zeros[l] + lv.Rank1(e)
		} else {
			s = lv.Rank0(s)
			e = lv.Rank0(e)
		}
	}
	return e - s
}

// Select returns the position of the k-th occurrence of sym, 0-indexed.
// The second result is false when fewer than k+1 occurrences exist.
func (m *Matrix) Select(sym uint64, k int) (int, bool) {
	if k < 0 || sym>>uint(m.width) != 0 {
		return 0, false
	}
	// Descend to the symbol's interval at the bottom level.
	s, e := 0, m.length
	for l := 0; l < m.width; l++ {
		lv := m.levels[l]
		if sym>>uint(m.width-1-l)&1 == 1 {
			s = m.zeros[l] + lv.Rank1(s)
			e = m.zeros[l] + lv.Rank1(e)
		} else {
			s = lv.Rank0(s)
			e = lv.Rank0(e)
		}
	}
	if k >= e-s {
		return 0, false
	}

	// Ascend from the bottom-level position back to the original index.
	pos := s + k
	for l := m.width - 1; l >= 0; l-- {
		lv := m.levels[l]
		var err error
		if sym>>uint(m.width-1-l)&1 == 1 {
			pos, err = lv.Select1(pos - m.zeros[l])
		} else {
			pos, err = lv.Select0(pos)
		}
		if err != nil {
			panic("wavelet: select directory out of sync")
		}
	}
	return pos, true
}
