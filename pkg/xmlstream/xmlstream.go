// ABOUTME: Adapter from encoding/xml token streams to document events
// ABOUTME: Flattens attributes into events and skips inter-element space

package xmlstream

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/nainya/xmlgrove/pkg/document"
)

// Parser turns an XML byte stream into the event sequence the document
// builder consumes. It is a thin cursor over encoding/xml's Decoder:
// attributes are flattened into their own events right after the
// element start, and whitespace-only character data outside any element
// is dropped.
type Parser struct {
	dec   *xml.Decoder
	queue []document.Event
	depth int
}

// NewParser wraps the reader. The parser does not buffer the input;
// callers wanting buffering wrap r themselves.
func NewParser(r io.Reader) *Parser {
	return &Parser{dec: xml.NewDecoder(r)}
}

// Next returns the next structural event, or io.EOF at end of input.
// XML syntax errors come through verbatim from encoding/xml.
func (p *Parser) Next() (document.Event, error) {
	if len(p.queue) > 0 {
		e := p.queue[0]
		p.queue = p.queue[1:]
		return e, nil
	}

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return document.Event{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.depth++
			for _, a := range t.Attr {
				p.queue = append(p.queue, document.Event{
					Kind:  document.EventAttribute,
					Name:  attrName(a.Name),
					Value: a.Value,
				})
			}
			return document.Event{Kind: document.EventStartElement, Name: t.Name.Local}, nil

		case xml.EndElement:
			p.depth--
			return document.Event{Kind: document.EventEndElement}, nil

		case xml.CharData:
			// Whitespace between top-level constructs is not content.
			if p.depth == 0 && len(strings.TrimSpace(string(t))) == 0 {
				continue
			}
			return document.Event{Kind: document.EventText, Value: string(t)}, nil

		case xml.Comment:
			return document.Event{Kind: document.EventComment, Value: string(t)}, nil

		case xml.ProcInst:
			// The XML declaration is prolog syntax, not document content.
			if t.Target == "xml" {
				continue
			}
			return document.Event{
				Kind:  document.EventProcInst,
				Name:  t.Target,
				Value: string(t.Inst),
			}, nil

		case xml.Directive:
			// DOCTYPE and friends carry no tree structure.
			continue
		}
	}
}

// attrName renders a possibly-prefixed attribute name. encoding/xml
// resolves namespaces into URLs; the prefix form is what documents
// actually show.
func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Load parses the full XML input and builds a Document in one call.
func Load(r io.Reader, opts document.Options) (*document.Document, error) {
	return document.Build(NewParser(r), opts)
}
