// ABOUTME: Restartable iterators over children, tag occurrences and
// ABOUTME: text-search hits; all views borrow the owning Document

package document

import (
	"github.com/nainya/xmlgrove/pkg/labels"
	"github.com/nainya/xmlgrove/pkg/textindex"
)

// ChildIterator walks the direct children of one node in document
// order. A zero cursor starts before the first child; Reset returns
// there.
type ChildIterator struct {
	doc    *Document
	parent int
	cur    int
	begun  bool
}

// Next advances to the next child. ok is false once the children are
// exhausted; further calls keep returning false.
func (it *ChildIterator) Next() (Node, bool) {
	var pos int
	var ok bool
	if !it.begun {
		pos, ok = it.doc.tree.FirstChild(it.parent)
		it.begun = true
	} else {
		pos, ok = it.doc.tree.NextSibling(it.cur)
	}
	if !ok {
		return Node{}, false
	}
	it.cur = pos
	return Node{doc: it.doc, pos: pos}, true
}

// Reset rewinds the iterator to before the first child.
func (it *ChildIterator) Reset() {
	it.begun = false
	it.cur = 0
}

// TagIterator yields the nodes carrying one label code in ascending
// document order, one label-index Select per step.
type TagIterator struct {
	doc       *Document
	code      labels.Code
	k         int
	exhausted bool
	unknown   bool
}

// Next returns the next node with the tag. ok is false past the last
// occurrence.
func (it *TagIterator) Next() (Node, bool) {
	if it.exhausted {
		return Node{}, false
	}
	rank, ok := it.doc.labelIdx.Select(it.code, it.k)
	if !ok {
		it.exhausted = true
		return Node{}, false
	}
	it.k++
	pos, _ := it.doc.tree.PreorderSelect(rank)
	return Node{doc: it.doc, pos: pos}, true
}

// Reset rewinds the iterator to the first occurrence.
func (it *TagIterator) Reset() {
	it.k = 0
	it.exhausted = it.unknown
}

// Remaining reports how many occurrences are left without consuming
// them.
func (it *TagIterator) Remaining() int {
	if it.exhausted {
		return 0
	}
	total := it.doc.labelIdx.Rank(it.code, it.doc.labelIdx.Len())
	if it.k >= total {
		return 0
	}
	return total - it.k
}

// OffsetIterator yields corpus offsets where a search pattern occurs.
// The order is unspecified. Resolve on the Document maps each offset
// back to its text node.
type OffsetIterator struct {
	doc     *Document
	offsets *textindex.Offsets
}

// Next returns the next match offset. ok is false once the matches are
// exhausted.
func (it *OffsetIterator) Next() (int, bool) {
	it.doc.met.LocateWalksTotal.Inc()
	return it.offsets.Next()
}

// Reset rewinds the iterator to the first match.
func (it *OffsetIterator) Reset() {
	it.offsets.Reset()
}

// Len reports the total number of matches, independent of position.
func (it *OffsetIterator) Len() int {
	return it.offsets.Len()
}
