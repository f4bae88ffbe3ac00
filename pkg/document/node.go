// ABOUTME: Node handle: a position value borrowing the owning Document
// ABOUTME: Navigation, tag, text and attribute reads over the indexes

package document

import (
	"strings"

	"github.com/nainya/xmlgrove/pkg/labels"
)

// Kind classifies a node.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindProcInst
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindProcInst:
		return "processing-instruction"
	default:
		return "unknown"
	}
}

// Node is a lightweight view into a Document: the position of the
// node's opening parenthesis plus the owning Document. Two Nodes are
// equal iff their documents and positions are equal. A Node must not
// outlive its Document.
type Node struct {
	doc *Document
	pos int
}

// Attr is one attribute key/value pair.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Position returns the node's opening-parenthesis bit position, its
// identity within the document.
func (n Node) Position() int {
	return n.pos
}

// PreorderRank returns the node's 0-based document-order index.
func (n Node) PreorderRank() int {
	return n.doc.tree.PreorderRank(n.pos)
}

// code returns the node's label code.
func (n Node) code() labels.Code {
	return n.doc.labelIdx.At(n.PreorderRank())
}

// Kind reports whether the node is an element, text run, comment or
// processing instruction.
func (n Node) Kind() Kind {
	switch n.code() {
	case labels.CODE_TEXT:
		return KindText
	case labels.CODE_COMMENT:
		return KindComment
	case labels.CODE_PROC_INST:
		return KindProcInst
	default:
		return KindElement
	}
}

// Tag returns the element's tag name, or the reserved kind name
// (#text, #comment, #processing-instruction) for non-elements.
func (n Node) Tag() string {
	return n.doc.names.Name(n.code())
}

// Parent returns the enclosing node. ok is false at the top level.
func (n Node) Parent() (Node, bool) {
	n.doc.met.NavigationOpsTotal.WithLabelValues("parent").Inc()
	pos, ok := n.doc.tree.Parent(n.pos)
	if !ok {
		return Node{}, false
	}
	return Node{doc: n.doc, pos: pos}, true
}

// FirstChild returns the first child in document order, if any.
func (n Node) FirstChild() (Node, bool) {
	n.doc.met.NavigationOpsTotal.WithLabelValues("first_child").Inc()
	pos, ok := n.doc.tree.FirstChild(n.pos)
	if !ok {
		return Node{}, false
	}
	return Node{doc: n.doc, pos: pos}, true
}

// LastChild returns the last child in document order, if any.
func (n Node) LastChild() (Node, bool) {
	n.doc.met.NavigationOpsTotal.WithLabelValues("last_child").Inc()
	pos, ok := n.doc.tree.LastChild(n.pos)
	if !ok {
		return Node{}, false
	}
	return Node{doc: n.doc, pos: pos}, true
}

// NextSibling returns the sibling immediately after this node, if any.
func (n Node) NextSibling() (Node, bool) {
	n.doc.met.NavigationOpsTotal.WithLabelValues("next_sibling").Inc()
	pos, ok := n.doc.tree.NextSibling(n.pos)
	if !ok {
		return Node{}, false
	}
	return Node{doc: n.doc, pos: pos}, true
}

// PrevSibling returns the sibling immediately before this node, if any.
func (n Node) PrevSibling() (Node, bool) {
	n.doc.met.NavigationOpsTotal.WithLabelValues("prev_sibling").Inc()
	pos, ok := n.doc.tree.PrevSibling(n.pos)
	if !ok {
		return Node{}, false
	}
	return Node{doc: n.doc, pos: pos}, true
}

// Children returns a restartable iterator over direct children.
func (n Node) Children() *ChildIterator {
	return &ChildIterator{doc: n.doc, parent: n.pos}
}

// SubtreeSize counts the nodes in this node's subtree, itself included.
func (n Node) SubtreeSize() int {
	return n.doc.tree.SubtreeSize(n.pos)
}

// Depth reports the node's 0-based depth.
func (n Node) Depth() int {
	return n.doc.tree.Depth(n.pos)
}

// IsAncestorOf reports whether this node encloses other (or is other).
func (n Node) IsAncestorOf(other Node) bool {
	return n.doc == other.doc && n.doc.tree.IsAncestor(n.pos, other.pos)
}

// Text returns the node's character data: the run itself for text
// nodes, stored content for comments and processing instructions, and
// the document-order concatenation of descendant runs for elements.
func (n Node) Text() string {
	switch n.code() {
	case labels.CODE_TEXT:
		run, _ := n.doc.text.TextOf(n.pos)
		return string(run)
	case labels.CODE_COMMENT:
		return n.doc.comments[n.doc.labelIdx.Rank(labels.CODE_COMMENT, n.PreorderRank())]
	case labels.CODE_PROC_INST:
		return n.doc.piContent[n.doc.labelIdx.Rank(labels.CODE_PROC_INST, n.PreorderRank())]
	}

	// Element: gather the text runs inside the subtree via the label
	// index, skipping any tree walk.
	rank := n.PreorderRank()
	from := n.doc.labelIdx.Rank(labels.CODE_TEXT, rank)
	to := n.doc.labelIdx.Rank(labels.CODE_TEXT, rank+n.SubtreeSize())
	var sb strings.Builder
	for k := from; k < to; k++ {
		idx, ok := n.doc.labelIdx.Select(labels.CODE_TEXT, k)
		if !ok {
			break
		}
		pos, _ := n.doc.tree.PreorderSelect(idx)
		run, _ := n.doc.text.TextOf(pos)
		sb.Write(run)
	}
	return sb.String()
}

// Target returns the target of a processing-instruction node. ok is
// false for every other kind.
func (n Node) Target() (string, bool) {
	if n.code() != labels.CODE_PROC_INST {
		return "", false
	}
	return n.doc.piTargets[n.doc.labelIdx.Rank(labels.CODE_PROC_INST, n.PreorderRank())], true
}

// Attributes returns the node's attributes in key-code order. Elements
// without attributes and non-elements return an empty slice.
func (n Node) Attributes() []Attr {
	lo, hi := n.doc.attrs.rangeOf(n.pos)
	if lo == hi {
		return nil
	}
	out := make([]Attr, 0, hi-lo)
	for _, rec := range n.doc.attrs.recs[lo:hi] {
		out = append(out, Attr{Name: n.doc.names.Name(rec.key), Value: rec.value})
	}
	return out
}

// AttributeValue returns the value of the named attribute. ok is false
// when the node does not carry it.
func (n Node) AttributeValue(name string) (string, bool) {
	key, known := n.doc.names.Lookup(name)
	if !known {
		return "", false
	}
	return n.doc.attrs.valueOf(n.pos, key)
}
