// ABOUTME: One-pass event-stream consumer producing a frozen Document
// ABOUTME: Maintains the open-element stack, intern table and text corpus

package document

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/nainya/xmlgrove/internal/logger"
	"github.com/nainya/xmlgrove/internal/metrics"
	"github.com/nainya/xmlgrove/pkg/bitvec"
	"github.com/nainya/xmlgrove/pkg/bptree"
	"github.com/nainya/xmlgrove/pkg/labels"
	"github.com/nainya/xmlgrove/pkg/textindex"
)

// Options controls build-time choices.
type Options struct {
	// DiscardComments drops comment events instead of storing them as
	// labeled leaf nodes.
	DiscardComments bool

	// DiscardProcInst drops processing-instruction events.
	DiscardProcInst bool

	// LabelStrategy overrides the cardinality-based label index choice.
	LabelStrategy labels.Strategy

	// CompressText stores the corpus as zstd blocks.
	CompressText bool

	// LocateSampleRate is the suffix-position sampling stride; zero
	// selects the text index default.
	LocateSampleRate int
}

// Builder consumes one event stream in document order and finalizes it
// into an immutable Document. Construction is strictly sequential; the
// resulting Document is what supports concurrent reads.
type Builder struct {
	opts Options

	names  *labels.Interner
	bits   *bitvec.Builder
	codes  []labels.Code
	corpus []byte

	runStarts []int32
	runNodes  []int32

	attrs     []attrRecord
	comments  []string
	piTargets []string
	piContent []string

	stack     []int32 // open element bit positions
	attrsOpen bool    // true only immediately after StartElement
	started   time.Time

	err  error
	done bool
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:    opts,
		names:   labels.NewInterner(),
		bits:    bitvec.NewBuilder(0),
		started: time.Now(),
	}
}

// Build drains the event source and finalizes the Document. The stream
// is consumed exactly once; on any error the partial build is discarded.
func Build(src EventSource, opts Options) (*Document, error) {
	b := NewBuilder(opts)
	for {
		e, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			b.fail(fmt.Errorf("document: reading event stream: %w", err))
			return nil, b.err
		}
		if err := b.Consume(e); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// Consume applies one event.
func (b *Builder) Consume(e Event) error {
	switch e.Kind {
	case EventStartElement:
		return b.StartElement(e.Name)
	case EventEndElement:
		return b.EndElement()
	case EventAttribute:
		return b.Attribute(e.Name, e.Value)
	case EventText:
		return b.Text(e.Value)
	case EventComment:
		return b.Comment(e.Value)
	case EventProcInst:
		return b.ProcInst(e.Name, e.Value)
	default:
		return b.fail(fmt.Errorf("%w: unknown event kind %d", ErrMalformedInput, int(e.Kind)))
	}
}

// StartElement opens an element node.
func (b *Builder) StartElement(name string) error {
	if err := b.usable(); err != nil {
		return err
	}
	b.codes = append(b.codes, b.names.Intern(name))
	b.stack = append(b.stack, int32(b.bits.Len()))
	b.bits.Append(true)
	b.attrsOpen = true
	return nil
}

// EndElement closes the innermost open element.
func (b *Builder) EndElement() error {
	if err := b.usable(); err != nil {
		return err
	}
	if len(b.stack) == 0 {
		return b.fail(fmt.Errorf("%w: end element without matching start", ErrMalformedInput))
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.bits.Append(false)
	b.attrsOpen = false
	return nil
}

// Attribute attaches a key/value pair to the element just started.
func (b *Builder) Attribute(name, value string) error {
	if err := b.usable(); err != nil {
		return err
	}
	if !b.attrsOpen {
		return b.fail(fmt.Errorf("%w: attribute outside an element start", ErrMalformedInput))
	}
	b.attrs = append(b.attrs, attrRecord{
		node:  b.stack[len(b.stack)-1],
		key:   b.names.Intern(name),
		value: value,
	})
	return nil
}

// Text appends a character-data run as a text leaf node.
func (b *Builder) Text(content string) error {
	if err := b.usable(); err != nil {
		return err
	}
	for i := 0; i < len(content); i++ {
		if content[i] < textindex.MIN_CORPUS_BYTE {
			return b.fail(fmt.Errorf("%w: byte 0x%02x at offset %d", ErrReservedByte, content[i], i))
		}
	}
	b.runStarts = append(b.runStarts, int32(len(b.corpus)))
	b.runNodes = append(b.runNodes, int32(b.bits.Len()))
	b.corpus = append(b.corpus, content...)
	b.corpus = append(b.corpus, textindex.RUN_SEPARATOR)
	b.leaf(labels.CODE_TEXT)
	return nil
}

// Comment appends a comment leaf node, or drops it per Options.
func (b *Builder) Comment(content string) error {
	if err := b.usable(); err != nil {
		return err
	}
	b.attrsOpen = false
	if b.opts.DiscardComments {
		return nil
	}
	b.comments = append(b.comments, content)
	b.leaf(labels.CODE_COMMENT)
	return nil
}

// ProcInst appends a processing-instruction leaf node, or drops it.
func (b *Builder) ProcInst(target, content string) error {
	if err := b.usable(); err != nil {
		return err
	}
	b.attrsOpen = false
	if b.opts.DiscardProcInst {
		return nil
	}
	b.piTargets = append(b.piTargets, target)
	b.piContent = append(b.piContent, content)
	b.leaf(labels.CODE_PROC_INST)
	return nil
}

// leaf emits the open/close bit pair for a childless node.
func (b *Builder) leaf(code labels.Code) {
	b.codes = append(b.codes, code)
	b.bits.Append(true)
	b.bits.Append(false)
	b.attrsOpen = false
}

// Finalize freezes all structures and returns the Document. The Builder
// must not be used afterwards. A well-nesting violation discards the
// whole attempt.
func (b *Builder) Finalize() (*Document, error) {
	log := logger.GetGlobalLogger()
	met := metrics.Get()

	if b.done {
		return nil, ErrBuilderFinalized
	}
	b.done = true
	if b.err != nil {
		log.LogBuildFailed(b.err)
		met.RecordBuild("failed", 0, 0, 0, 0)
		return nil, b.err
	}
	if len(b.stack) != 0 {
		err := fmt.Errorf("%w: %d element(s) left open at stream end", ErrMalformedInput, len(b.stack))
		log.LogBuildFailed(err)
		met.RecordBuild("failed", 0, 0, 0, 0)
		return nil, err
	}

	bits := b.bits.Build()
	doc := &Document{
		tree:      bptree.New(bits),
		labelIdx:  labels.BuildIndex(b.codes, b.names.Count(), b.opts.LabelStrategy),
		names:     b.names,
		attrs:     newAttrStore(b.attrs),
		comments:  b.comments,
		piTargets: b.piTargets,
		piContent: b.piContent,
		met:       met,
	}
	doc.text = textindex.New(b.corpus, b.runStarts, b.runNodes, textindex.Config{
		SampleRate: b.opts.LocateSampleRate,
		Compress:   b.opts.CompressText,
	})
	doc.fingerprint = b.fingerprint(bits)

	duration := time.Since(b.started)
	log.LogBuildCompleted(doc.NumNodes(), b.names.Count(), len(b.corpus), len(b.attrs), duration)
	met.RecordBuild("ok", doc.NumNodes(), len(b.corpus), len(b.attrs), duration)
	return doc, nil
}

// fail records the first error; later calls keep reporting it.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return b.err
}

func (b *Builder) usable() error {
	if b.done {
		return ErrBuilderFinalized
	}
	return b.err
}

// fingerprint hashes every frozen structure so identical event streams
// produce identical values.
func (b *Builder) fingerprint(bits *bitvec.Vector) uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, w := range bits.Words() {
		binary.LittleEndian.PutUint64(buf[:], w)
		h.Write(buf[:8])
	}
	for _, c := range b.codes {
		binary.LittleEndian.PutUint32(buf[:4], uint32(c))
		h.Write(buf[:4])
	}
	h.Write(b.corpus)
	for _, a := range b.attrs {
		binary.LittleEndian.PutUint32(buf[:4], uint32(a.node))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(a.key))
		h.Write(buf[:8])
		h.Write([]byte(a.value))
	}
	for i := 0; i < b.names.Count(); i++ {
		h.Write([]byte(b.names.Name(labels.Code(i))))
		h.Write([]byte{0})
	}
	for _, s := range b.comments {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for i := range b.piTargets {
		h.Write([]byte(b.piTargets[i]))
		h.Write([]byte{0})
		h.Write([]byte(b.piContent[i]))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
