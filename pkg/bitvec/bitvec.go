// ABOUTME: Immutable bit vector with O(1)-class rank and log-time select
// ABOUTME: Block-summary directory built once, read-only afterwards

package bitvec

import (
	"errors"
	"math/bits"
)

const (
	WORD_BITS       = 64  // bits per machine word
	RANK_BLOCK_BITS = 512 // bits covered by one rank summary entry
	WORDS_PER_BLOCK = RANK_BLOCK_BITS / WORD_BITS
)

// ErrOutOfRange is returned by Select1/Select0 when the requested
// occurrence does not exist. It is never silently clamped.
var ErrOutOfRange = errors.New("bitvec: select out of range")

// Vector is an immutable bit sequence with rank/select support.
// Construct one with a Builder; a zero Vector is a valid empty sequence.
type Vector struct {
	words  []uint64
	length int
	ones   int

	// blockRank[b] = number of 1-bits strictly before block b.
	blockRank []int64
}

// Builder accumulates bits and freezes them into a Vector.
type Builder struct {
	words  []uint64
	length int
}

// NewBuilder returns a Builder, optionally pre-sizing for n bits.
func NewBuilder(n int) *Builder {
	return &Builder{words: make([]uint64, 0, (n+WORD_BITS-1)/WORD_BITS)}
}

// Append adds one bit at the end of the sequence.
func (b *Builder) Append(bit bool) {
	if b.length%WORD_BITS == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.length/WORD_BITS] |= 1 << uint(b.length%WORD_BITS)
	}
	b.length++
}

// Len reports the number of bits appended so far.
func (b *Builder) Len() int {
	return b.length
}

// Build freezes the accumulated bits and computes the rank directory.
// The Builder must not be used afterwards.
func (b *Builder) Build() *Vector {
	v := &Vector{words: b.words, length: b.length}
	nblocks := (b.length + RANK_BLOCK_BITS - 1) / RANK_BLOCK_BITS
	v.blockRank = make([]int64, nblocks+1)

	var total int64
	for blk := 0; blk < nblocks; blk++ {
		v.blockRank[blk] = total
		for w := blk * WORDS_PER_BLOCK; w < (blk+1)*WORDS_PER_BLOCK && w < len(v.words); w++ {
			total += int64(bits.OnesCount64(v.words[w]))
		}
	}
	v.blockRank[nblocks] = total
	v.ones = int(total)
	return v
}

// Len reports the length of the bit sequence.
func (v *Vector) Len() int {
	return v.length
}

// Ones reports the total number of 1-bits.
func (v *Vector) Ones() int {
	return v.ones
}

// Zeros reports the total number of 0-bits.
func (v *Vector) Zeros() int {
	return v.length - v.ones
}

// Words exposes the packed bit storage, least significant bit first.
// The slice must not be mutated; it exists for hashing and
// serialization by surrounding systems.
func (v *Vector) Words() []uint64 {
	return v.words
}

// Get returns the bit at position i.
func (v *Vector) Get(i int) bool {
	if i < 0 || i >= v.length {
		panic("bitvec: position out of bounds")
	}
	return v.words[i/WORD_BITS]&(1<<uint(i%WORD_BITS)) != 0
}

// Rank1 counts 1-bits in [0, i). i may equal Len().
func (v *Vector) Rank1(i int) int {
	if i < 0 || i > v.length {
		panic("bitvec: rank position out of bounds")
	}
	blk := i / RANK_BLOCK_BITS
	cnt := v.blockRank[blk]
	w := blk * WORDS_PER_BLOCK
	for ; (w+1)*WORD_BITS <= i; w++ {
		cnt += int64(bits.OnesCount64(v.words[w]))
	}
	if rem := i - w*WORD_BITS; rem > 0 {
		cnt += int64(bits.OnesCount64(v.words[w] & (1<<uint(rem) - 1)))
	}
	return int(cnt)
}

// Rank0 counts 0-bits in [0, i).
func (v *Vector) Rank0(i int) int {
	return i - v.Rank1(i)
}

// Select1 returns the position of the k-th 1-bit, 0-indexed.
func (v *Vector) Select1(k int) (int, error) {
	if k < 0 || k >= v.ones {
		return 0, ErrOutOfRange
	}
	// Binary search the block directory for the covering block.
	lo, hi := 0, len(v.blockRank)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if int(v.blockRank[mid]) <= k {
			lo = mid
		} else {
			hi = mid
		}
	}
	rem := k - int(v.blockRank[lo])
	for w := lo * WORDS_PER_BLOCK; w < len(v.words); w++ {
		c := bits.OnesCount64(v.words[w])
		if rem < c {
			return w*WORD_BITS + selectInWord(v.words[w], rem), nil
		}
		rem -= c
	}
	return 0, ErrOutOfRange
}

// Select0 returns the position of the k-th 0-bit, 0-indexed.
func (v *Vector) Select0(k int) (int, error) {
	if k < 0 || k >= v.length-v.ones {
		return 0, ErrOutOfRange
	}
	lo, hi := 0, len(v.blockRank)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if mid*RANK_BLOCK_BITS-int(v.blockRank[mid]) <= k {
			lo = mid
		} else {
			hi = mid
		}
	}
	rem := k - (lo*RANK_BLOCK_BITS - int(v.blockRank[lo]))
	for w := lo * WORDS_PER_BLOCK; w < len(v.words); w++ {
		wordLen := v.length - w*WORD_BITS
		if wordLen > WORD_BITS {
			wordLen = WORD_BITS
		}
		inverted := ^v.words[w]
		if wordLen < WORD_BITS {
			inverted &= 1<<uint(wordLen) - 1
		}
		c := bits.OnesCount64(inverted)
		if rem < c {
			return w*WORD_BITS + selectInWord(inverted, rem), nil
		}
		rem -= c
	}
	return 0, ErrOutOfRange
}

// selectInWord finds the position of the k-th set bit within a word.
// The caller guarantees the word has more than k set bits.
func selectInWord(w uint64, k int) int {
	for ; k > 0; k-- {
		w &= w - 1
	}
	return bits.TrailingZeros64(w)
}
