// ABOUTME: Balanced-parenthesis tree encoding with pointer-free navigation
// ABOUTME: Parenthesis matching via a range-min excess directory over blocks

package bptree

import (
	"math"

	"github.com/nainya/xmlgrove/pkg/bitvec"
)

// EXCESS_BLOCK_BITS is the span of one excess-directory block.
const EXCESS_BLOCK_BITS = 512

// Tree navigates a tree encoded as balanced parentheses: a 1 bit opens a
// node, the matching 0 bit closes it. Nodes are identified by their open
// bit position. The sequence must be well formed; the document builder
// guarantees this before construction.
type Tree struct {
	bits *bitvec.Vector

	// Per block: minimum post-excess inside the block, and the
	// post-excess at the block's last position. Excess is the running
	// count of opens minus closes after each bit.
	blockMin    []int
	blockExcess []int

	// Array segment tree over blockMin for logarithmic excess searches.
	seg     []int
	segSize int
	nblocks int
}

// New builds the navigation directory over a frozen parenthesis sequence.
func New(bits *bitvec.Vector) *Tree {
	t := &Tree{bits: bits}
	n := bits.Len()
	t.nblocks = (n + EXCESS_BLOCK_BITS - 1) / EXCESS_BLOCK_BITS
	t.blockMin = make([]int, t.nblocks)
	t.blockExcess = make([]int, t.nblocks)

	excess := 0
	for b := 0; b < t.nblocks; b++ {
		blockMin := math.MaxInt
		end := (b + 1) * EXCESS_BLOCK_BITS
		if end > n {
			end = n
		}
		for i := b * EXCESS_BLOCK_BITS; i < end; i++ {
			if bits.Get(i) {
				excess++
			} else {
				excess--
			}
			if excess < blockMin {
				blockMin = excess
			}
		}
		t.blockMin[b] = blockMin
		t.blockExcess[b] = excess
	}

	t.segSize = 1
	for t.segSize < t.nblocks {
		t.segSize *= 2
	}
	t.seg = make([]int, 2*t.segSize)
	for i := range t.seg {
		t.seg[i] = math.MaxInt
	}
	for i := 0; i < t.nblocks; i++ {
		t.seg[t.segSize+i] = t.blockMin[i]
	}
	for i := t.segSize - 1; i >= 1; i-- {
		t.seg[i] = min(t.seg[2*i], t.seg[2*i+1])
	}
	return t
}

// Len reports the parenthesis sequence length (2 bits per node).
func (t *Tree) Len() int {
	return t.bits.Len()
}

// NumNodes reports the number of nodes.
func (t *Tree) NumNodes() int {
	return t.bits.Ones()
}

// Root returns the first node position. ok is false for an empty tree.
func (t *Tree) Root() (int, bool) {
	if t.bits.Len() == 0 {
		return 0, false
	}
	return 0, true
}

// IsOpen reports whether position i carries an opening parenthesis.
func (t *Tree) IsOpen(i int) bool {
	return t.bits.Get(i)
}

// preExcess is the excess strictly before position i: the depth at which
// position i sits. preExcess(open of v) is v's 0-based depth.
func (t *Tree) preExcess(i int) int {
	return 2*t.bits.Rank1(i) - i
}

// FindClose returns the position of the closing parenthesis matching the
// opening parenthesis at v.
func (t *Tree) FindClose(v int) int {
	if !t.bits.Get(v) {
		panic("bptree: FindClose on a closing parenthesis")
	}
	target := t.preExcess(v)
	if j := t.scanForward(v+1, target, t.preExcess(v)+1); j >= 0 {
		return j
	}
	panic("bptree: unbalanced parenthesis sequence")
}

// FindOpen returns the position of the opening parenthesis matching the
// closing parenthesis at c.
func (t *Tree) FindOpen(c int) int {
	if t.bits.Get(c) {
		panic("bptree: FindOpen on an opening parenthesis")
	}
	// Post-excess at c; the matching open sits right after the last
	// earlier position with the same excess.
	target := t.preExcess(c) - 1
	return t.scanBackward(c-1, target, t.preExcess(c)) + 1
}

// Parent returns the position of v's parent. ok is false for a node at
// depth zero.
func (t *Tree) Parent(v int) (int, bool) {
	depth := t.preExcess(v)
	if depth == 0 {
		return 0, false
	}
	return t.scanBackward(v-1, depth-1, depth) + 1, true
}

// FirstChild returns v's first child, if any.
func (t *Tree) FirstChild(v int) (int, bool) {
	if !t.bits.Get(v) {
		panic("bptree: FirstChild on a closing parenthesis")
	}
	if v+1 < t.bits.Len() && t.bits.Get(v+1) {
		return v + 1, true
	}
	return 0, false
}

// LastChild returns v's last child, if any.
func (t *Tree) LastChild(v int) (int, bool) {
	c := t.FindClose(v)
	if c == v+1 {
		return 0, false
	}
	return t.FindOpen(c - 1), true
}

// NextSibling returns the sibling immediately after v, if any.
func (t *Tree) NextSibling(v int) (int, bool) {
	j := t.FindClose(v) + 1
	if j < t.bits.Len() && t.bits.Get(j) {
		return j, true
	}
	return 0, false
}

// PrevSibling returns the sibling immediately before v, if any.
func (t *Tree) PrevSibling(v int) (int, bool) {
	if v == 0 || t.bits.Get(v-1) {
		// Start of sequence, or v-1 opens the parent.
		return 0, false
	}
	return t.FindOpen(v - 1), true
}

// SubtreeSize counts the nodes in v's subtree, v included.
func (t *Tree) SubtreeSize(v int) int {
	return (t.FindClose(v) - v + 1) / 2
}

// Depth reports v's 0-based depth.
func (t *Tree) Depth(v int) int {
	return t.preExcess(v)
}

// IsAncestor reports whether u is an ancestor of v (or v itself).
func (t *Tree) IsAncestor(u, v int) bool {
	return u <= v && v <= t.FindClose(u)
}

// PreorderRank converts a node position to its 0-based document-order index.
func (t *Tree) PreorderRank(v int) int {
	return t.bits.Rank1(v)
}

// PreorderSelect converts a 0-based document-order index back to a node
// position. ok is false when k is out of range.
func (t *Tree) PreorderSelect(k int) (int, bool) {
	pos, err := t.bits.Select1(k)
	if err != nil {
		return 0, false
	}
	return pos, true
}

// scanForward finds the smallest j >= from with post-excess equal to
// target, given the post-excess at from-1. Returns -1 when absent.
func (t *Tree) scanForward(from, target, excessBefore int) int {
	n := t.bits.Len()
	if from >= n {
		return -1
	}
	blk := from / EXCESS_BLOCK_BITS
	end := (blk + 1) * EXCESS_BLOCK_BITS
	if end > n {
		end = n
	}
	excess := excessBefore
	for j := from; j < end; j++ {
		if t.bits.Get(j) {
			excess++
		} else {
			excess--
		}
		if excess == target {
			return j
		}
	}

	b := t.leftmostBlock(blk+1, target)
	if b < 0 {
		return -1
	}
	excess = t.blockExcess[b-1]
	end = (b + 1) * EXCESS_BLOCK_BITS
	if end > n {
		end = n
	}
	for j := b * EXCESS_BLOCK_BITS; j < end; j++ {
		if t.bits.Get(j) {
			excess++
		} else {
			excess--
		}
		if excess == target {
			return j
		}
	}
	panic("bptree: excess directory out of sync")
}

// scanBackward finds the largest j <= from with post-excess equal to
// target, given the post-excess at from itself. Returns -1 when no
// position qualifies; the virtual position before the sequence has
// excess zero, so callers map -1 to position 0 via j+1.
func (t *Tree) scanBackward(from, target, excessAt int) int {
	blk := from / EXCESS_BLOCK_BITS
	start := blk * EXCESS_BLOCK_BITS
	excess := excessAt
	for j := from; j >= start; j-- {
		if excess == target {
			return j
		}
		// Undo the step at j to obtain the post-excess at j-1.
		if t.bits.Get(j) {
			excess--
		} else {
			excess++
		}
	}

	b := t.rightmostBlock(blk-1, target)
	if b < 0 {
		if target == 0 {
			return -1
		}
		panic("bptree: excess directory out of sync")
	}
	excess = t.blockExcess[b]
	for j := (b+1)*EXCESS_BLOCK_BITS - 1; j >= b*EXCESS_BLOCK_BITS; j-- {
		if excess == target {
			return j
		}
		if t.bits.Get(j) {
			excess--
		} else {
			excess++
		}
	}
	panic("bptree: excess directory out of sync")
}

// leftmostBlock returns the smallest block index >= lo whose minimum
// excess is <= target, or -1.
func (t *Tree) leftmostBlock(lo, target int) int {
	if lo >= t.nblocks {
		return -1
	}
	return t.descendLeft(1, 0, t.segSize, lo, target)
}

func (t *Tree) descendLeft(node, nodeLo, nodeHi, lo, target int) int {
	if nodeHi <= lo || t.seg[node] > target || nodeLo >= t.nblocks {
		return -1
	}
	if nodeHi-nodeLo == 1 {
		return nodeLo
	}
	mid := (nodeLo + nodeHi) / 2
	if r := t.descendLeft(2*node, nodeLo, mid, lo, target); r >= 0 {
		return r
	}
	return t.descendLeft(2*node+1, mid, nodeHi, lo, target)
}

// rightmostBlock returns the largest block index <= hi whose minimum
// excess is <= target, or -1.
func (t *Tree) rightmostBlock(hi, target int) int {
	if hi < 0 {
		return -1
	}
	return t.descendRight(1, 0, t.segSize, hi, target)
}

func (t *Tree) descendRight(node, nodeLo, nodeHi, hi, target int) int {
	if nodeLo > hi || t.seg[node] > target || nodeLo >= t.nblocks {
		return -1
	}
	if nodeHi-nodeLo == 1 {
		return nodeLo
	}
	mid := (nodeLo + nodeHi) / 2
	if r := t.descendRight(2*node+1, mid, nodeHi, hi, target); r >= 0 {
		return r
	}
	return t.descendRight(2*node, nodeLo, mid, hi, target)
}
