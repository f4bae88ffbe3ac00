// ABOUTME: Corpus byte storage and the run-offset table
// ABOUTME: Raw or zstd block-compressed residency behind one interface

package textindex

import (
	"sort"

	"github.com/klauspost/compress/zstd"
)

// CORPUS_BLOCK_SIZE is the span of one compressed corpus block.
const CORPUS_BLOCK_SIZE = 1 << 16

// Shared zstd state; both are safe for concurrent EncodeAll/DecodeAll use
// and expensive to construct.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// corpusStore provides random access to the frozen corpus bytes.
type corpusStore interface {
	// Slice returns corpus bytes in [start, end). The result must not
	// be mutated.
	Slice(start, end int) []byte
	Len() int
}

// rawStore keeps the corpus uncompressed.
type rawStore []byte

func (r rawStore) Slice(start, end int) []byte { return r[start:end] }
func (r rawStore) Len() int                    { return len(r) }

// zstdStore keeps the corpus as independently compressed fixed-size
// blocks, decompressed on demand per extraction.
type zstdStore struct {
	blocks [][]byte
	length int
}

func newZstdStore(corpus []byte) *zstdStore {
	s := &zstdStore{length: len(corpus)}
	for off := 0; off < len(corpus); off += CORPUS_BLOCK_SIZE {
		end := off + CORPUS_BLOCK_SIZE
		if end > len(corpus) {
			end = len(corpus)
		}
		s.blocks = append(s.blocks, zstdEncoder.EncodeAll(corpus[off:end], nil))
	}
	return s
}

func (s *zstdStore) Len() int { return s.length }

func (s *zstdStore) Slice(start, end int) []byte {
	if start >= end {
		return nil
	}
	out := make([]byte, 0, end-start)
	for blk := start / CORPUS_BLOCK_SIZE; blk*CORPUS_BLOCK_SIZE < end; blk++ {
		plain, err := zstdDecoder.DecodeAll(s.blocks[blk], nil)
		if err != nil {
			panic("textindex: corrupt corpus block")
		}
		blockStart := blk * CORPUS_BLOCK_SIZE
		lo, hi := 0, len(plain)
		if start > blockStart {
			lo = start - blockStart
		}
		if end < blockStart+len(plain) {
			hi = end - blockStart
		}
		out = append(out, plain[lo:hi]...)
	}
	return out
}

// runTable maps corpus offsets to the owning text-bearing node and back.
// starts and nodes are parallel, ascending in document order. Each run
// occupies [starts[i], nextStart-1); the byte before the next start is
// the run separator.
type runTable struct {
	starts []int32
	nodes  []int32
	corpus int // corpus length, separators included
}

func newRunTable(starts, nodes []int32, corpusLen int) *runTable {
	return &runTable{starts: starts, nodes: nodes, corpus: corpusLen}
}

// resolve maps a corpus offset to (owning node position, in-run offset).
// ok is false for offsets outside any run, such as separator bytes.
func (rt *runTable) resolve(offset int) (node int, local int, ok bool) {
	if offset < 0 || offset >= rt.corpus || len(rt.starts) == 0 {
		return 0, 0, false
	}
	// Last run starting at or before offset.
	i := sort.Search(len(rt.starts), func(i int) bool {
		return int(rt.starts[i]) > offset
	}) - 1
	if i < 0 {
		return 0, 0, false
	}
	if offset >= rt.runEnd(i) {
		return 0, 0, false
	}
	return int(rt.nodes[i]), offset - int(rt.starts[i]), true
}

// runEnd is the exclusive end of run i's content, before its separator.
func (rt *runTable) runEnd(i int) int {
	if i+1 < len(rt.starts) {
		return int(rt.starts[i+1]) - 1
	}
	return rt.corpus - 1
}

// runOf locates the run owned by the given node position.
func (rt *runTable) runOf(node int) (start, end int, ok bool) {
	i := sort.Search(len(rt.nodes), func(i int) bool {
		return int(rt.nodes[i]) >= node
	})
	if i == len(rt.nodes) || int(rt.nodes[i]) != node {
		return 0, 0, false
	}
	return int(rt.starts[i]), rt.runEnd(i), true
}

func (rt *runTable) numRuns() int {
	return len(rt.starts)
}
