// ABOUTME: Frozen Document: owns the tree, label, text and attribute indexes
// ABOUTME: All operations are reads; safe for unsynchronized concurrent use

package document

import (
	"github.com/nainya/xmlgrove/internal/metrics"
	"github.com/nainya/xmlgrove/pkg/bptree"
	"github.com/nainya/xmlgrove/pkg/labels"
	"github.com/nainya/xmlgrove/pkg/textindex"
)

// Document is the immutable, memory-compact representation of one XML
// document. It is produced once by a Builder and never mutated; any
// number of goroutines may query it concurrently without locks. Node
// handles borrow the Document and must not outlive it.
type Document struct {
	tree     *bptree.Tree
	labelIdx labels.Index
	names    *labels.Interner
	text     *textindex.Index
	attrs    *attrStore

	comments  []string
	piTargets []string
	piContent []string

	fingerprint uint64
	met         *metrics.Metrics
}

// Root returns the first node in document order. ok is false for a
// document built from an empty event stream.
func (d *Document) Root() (Node, bool) {
	pos, ok := d.tree.Root()
	if !ok {
		return Node{}, false
	}
	return Node{doc: d, pos: pos}, true
}

// NumNodes reports the total node count, all kinds included.
func (d *Document) NumNodes() int {
	return d.tree.NumNodes()
}

// NodeAt returns the node with the given 0-based preorder rank.
func (d *Document) NodeAt(rank int) (Node, bool) {
	pos, ok := d.tree.PreorderSelect(rank)
	if !ok {
		return Node{}, false
	}
	return Node{doc: d, pos: pos}, true
}

// NodesWithTag returns the ascending document-order sequence of nodes
// carrying the given tag or kind name. Unknown names yield an empty
// sequence.
func (d *Document) NodesWithTag(name string) *TagIterator {
	d.met.TagQueriesTotal.Inc()
	code, ok := d.names.Lookup(name)
	if !ok {
		return &TagIterator{doc: d, exhausted: true, unknown: true}
	}
	return &TagIterator{doc: d, code: code}
}

// Count reports the number of occurrences of pattern in the document's
// character data. Absent patterns count zero; this is never an error.
func (d *Document) Count(pattern string) int {
	n := d.text.Count([]byte(pattern))
	d.met.RecordSearch(n)
	return n
}

// Locate returns the lazy sequence of corpus offsets where pattern
// occurs, unordered. Partial consumption has no side effect.
func (d *Document) Locate(pattern string) *OffsetIterator {
	offs := d.text.Locate([]byte(pattern))
	d.met.RecordSearch(offs.Len())
	return &OffsetIterator{doc: d, offsets: offs}
}

// Resolve maps a corpus offset (as produced by Locate) to the owning
// text node and the offset within that node's run.
func (d *Document) Resolve(offset int) (Node, int, bool) {
	pos, local, ok := d.text.Resolve(offset)
	if !ok {
		return Node{}, 0, false
	}
	return Node{doc: d, pos: pos}, local, true
}

// Fingerprint is a stable hash over all frozen structures: two builds
// from identical event streams produce identical fingerprints.
func (d *Document) Fingerprint() uint64 {
	return d.fingerprint
}

// Stats summarizes the built document.
type Stats struct {
	Nodes         int    `json:"nodes"`
	TextRuns      int    `json:"text_runs"`
	CorpusBytes   int    `json:"corpus_bytes"`
	Attributes    int    `json:"attributes"`
	DistinctNames int    `json:"distinct_names"`
	Fingerprint   uint64 `json:"fingerprint"`
}

// Stats reports structural counts for logging and tooling.
func (d *Document) Stats() Stats {
	return Stats{
		Nodes:         d.NumNodes(),
		TextRuns:      d.text.NumRuns(),
		CorpusBytes:   d.text.CorpusLen(),
		Attributes:    d.attrs.len(),
		DistinctNames: d.names.Count(),
		Fingerprint:   d.fingerprint,
	}
}
