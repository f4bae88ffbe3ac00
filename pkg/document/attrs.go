// ABOUTME: Attribute store: sorted (node, key) records with binary search
// ABOUTME: A node's attributes occupy one contiguous range after sorting

package document

import (
	"sort"

	"github.com/nainya/xmlgrove/pkg/labels"
)

// attrRecord associates one attribute with its owning node position.
type attrRecord struct {
	node  int32
	key   labels.Code
	value string
}

// attrStore holds all attribute records sorted by (node, key).
type attrStore struct {
	recs []attrRecord
}

// newAttrStore sorts the records gathered during the build. The sort is
// stable so duplicate keys keep stream order, though well-formed input
// never produces duplicates.
func newAttrStore(recs []attrRecord) *attrStore {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].node != recs[j].node {
			return recs[i].node < recs[j].node
		}
		return recs[i].key < recs[j].key
	})
	return &attrStore{recs: recs}
}

// rangeOf returns the half-open record range owned by the node at pos.
func (s *attrStore) rangeOf(pos int) (lo, hi int) {
	lo = sort.Search(len(s.recs), func(i int) bool {
		return int(s.recs[i].node) >= pos
	})
	hi = sort.Search(len(s.recs), func(i int) bool {
		return int(s.recs[i].node) > pos
	})
	return lo, hi
}

// valueOf finds the value of one key within a node's range.
func (s *attrStore) valueOf(pos int, key labels.Code) (string, bool) {
	lo, hi := s.rangeOf(pos)
	i := lo + sort.Search(hi-lo, func(i int) bool {
		return s.recs[lo+i].key >= key
	})
	if i < hi && s.recs[i].key == key {
		return s.recs[i].value, true
	}
	return "", false
}

func (s *attrStore) len() int {
	return len(s.recs)
}
