// ABOUTME: Public text index: substring count/locate plus node resolution
// ABOUTME: Composes the FM-index, the corpus store and the run table

package textindex

// Config controls text index construction.
type Config struct {
	// SampleRate is the suffix-position sampling stride for locate.
	// Zero selects DEFAULT_SAMPLE_RATE.
	SampleRate int

	// Compress stores the corpus as zstd blocks instead of raw bytes.
	// Search structures are unaffected; only text extraction pays the
	// per-block decompression.
	Compress bool
}

// Index is the compressed full-text index over the document's character
// data. Immutable and safe for concurrent reads.
type Index struct {
	fm    *fmIndex
	store corpusStore
	runs  *runTable
}

// New builds the index. corpus is the document-order concatenation of
// text runs, each followed by RUN_SEPARATOR; starts and nodes are the
// parallel per-run corpus offsets and owning node positions.
func New(corpus []byte, starts, nodes []int32, cfg Config) *Index {
	var store corpusStore
	if cfg.Compress {
		store = newZstdStore(corpus)
	} else {
		store = rawStore(corpus)
	}
	return &Index{
		fm:    newFMIndex(corpus, cfg.SampleRate),
		store: store,
		runs:  newRunTable(starts, nodes, len(corpus)),
	}
}

// Count returns the number of occurrences of pattern in the corpus.
// Absent, empty, over-long and separator-bearing patterns count zero.
func (ix *Index) Count(pattern []byte) int {
	lo, hi, ok := ix.fm.searchRange(pattern)
	if !ok {
		return 0
	}
	return hi - lo
}

// Locate returns the lazy sequence of corpus offsets where pattern
// occurs. The sequence is unordered; callers sort if they need to.
func (ix *Index) Locate(pattern []byte) *Offsets {
	lo, hi, ok := ix.fm.searchRange(pattern)
	if !ok {
		lo, hi = 0, 0
	}
	return &Offsets{fm: ix.fm, lo: lo, hi: hi, current: lo}
}

// Resolve maps a corpus offset to its owning node position and the
// offset local to that node's run. ok is false outside any run.
func (ix *Index) Resolve(offset int) (node int, local int, ok bool) {
	return ix.runs.resolve(offset)
}

// TextOf returns the run content owned by the node at the given
// position. ok is false when the node owns no text run.
func (ix *Index) TextOf(node int) ([]byte, bool) {
	start, end, ok := ix.runs.runOf(node)
	if !ok {
		return nil, false
	}
	return ix.store.Slice(start, end), true
}

// CorpusLen reports the corpus size in bytes, separators included.
func (ix *Index) CorpusLen() int {
	return ix.store.Len()
}

// NumRuns reports the number of text runs.
func (ix *Index) NumRuns() int {
	return ix.runs.numRuns()
}
