// ABOUTME: Tests for interning and both label index strategies
// ABOUTME: Both strategies are checked against the same reference answers

package labels

import (
	"math/rand"
	"testing"
)

func TestInternerReservedCodes(t *testing.T) {
	in := NewInterner()
	if c, ok := in.Lookup(NAME_TEXT); !ok || c != CODE_TEXT {
		t.Errorf("Lookup(#text) = %d, %v", c, ok)
	}
	if c, ok := in.Lookup(NAME_COMMENT); !ok || c != CODE_COMMENT {
		t.Errorf("Lookup(#comment) = %d, %v", c, ok)
	}
	if c, ok := in.Lookup(NAME_PROC_INST); !ok || c != CODE_PROC_INST {
		t.Errorf("Lookup(#processing-instruction) = %d, %v", c, ok)
	}
	if got := in.Intern("chapter"); got != FIRST_NAME_CODE {
		t.Errorf("first name code = %d, want %d", got, FIRST_NAME_CODE)
	}
}

func TestInternerStableCodes(t *testing.T) {
	in := NewInterner()
	a := in.Intern("a")
	b := in.Intern("b")
	if in.Intern("a") != a || in.Intern("b") != b {
		t.Error("re-interning changed codes")
	}
	if a == b {
		t.Error("distinct names share a code")
	}
	if in.Name(a) != "a" || in.Name(b) != "b" {
		t.Error("reverse mapping broken")
	}
	if _, ok := in.Lookup("unseen"); ok {
		t.Error("Lookup invented a code")
	}
	if in.Count() != 5 {
		t.Errorf("Count() = %d, want 5", in.Count())
	}
}

func checkIndex(t *testing.T, idx Index, seq []Code, cardinality int) {
	t.Helper()
	if idx.Len() != len(seq) {
		t.Fatalf("Len() = %d, want %d", idx.Len(), len(seq))
	}
	for i, want := range seq {
		if got := idx.At(i); got != want {
			t.Fatalf("At(%d) = %d, want %d", i, got, want)
		}
	}
	for c := Code(0); c < Code(cardinality); c++ {
		count := 0
		for i, code := range seq {
			if got := idx.Rank(c, i); got != count {
				t.Fatalf("Rank(%d, %d) = %d, want %d", c, i, got, count)
			}
			if code == c {
				if got, ok := idx.Select(c, count); !ok || got != i {
					t.Fatalf("Select(%d, %d) = %d, %v, want %d", c, count, got, ok, i)
				}
				count++
			}
		}
		if _, ok := idx.Select(c, count); ok {
			t.Fatalf("Select(%d, %d) past last occurrence reported a position", c, count)
		}
	}
}

func TestBothStrategies(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, cardinality := range []int{1, 2, 7, 40, 200} {
		seq := make([]Code, 600)
		for i := range seq {
			seq[i] = Code(rng.Intn(cardinality))
		}
		for _, strategy := range []Strategy{StrategySparse, StrategyWavelet} {
			checkIndex(t, BuildIndex(seq, cardinality, strategy), seq, cardinality)
		}
	}
}

func TestAutoStrategySelection(t *testing.T) {
	seq := []Code{0, 1, 0, 1}
	if _, ok := BuildIndex(seq, 2, StrategyAuto).(*sparseIndex); !ok {
		t.Error("small alphabet did not select the sparse strategy")
	}
	if _, ok := BuildIndex(seq, SPARSE_MAX_CODES+1, StrategyAuto).(*waveletIndex); !ok {
		t.Error("large alphabet did not select the wavelet strategy")
	}
}

func TestUnusedCode(t *testing.T) {
	seq := []Code{0, 0, 2}
	for _, strategy := range []Strategy{StrategySparse, StrategyWavelet} {
		idx := BuildIndex(seq, 4, strategy)
		if got := idx.Rank(1, 3); got != 0 {
			t.Errorf("Rank of unused code = %d, want 0", got)
		}
		if _, ok := idx.Select(1, 0); ok {
			t.Error("Select of unused code reported a position")
		}
		if _, ok := idx.Select(9, 0); ok {
			t.Error("Select of unknown code reported a position")
		}
	}
}

func TestEmptySequence(t *testing.T) {
	for _, strategy := range []Strategy{StrategySparse, StrategyWavelet} {
		idx := BuildIndex(nil, 3, strategy)
		if idx.Len() != 0 {
			t.Errorf("Len() = %d, want 0", idx.Len())
		}
		if _, ok := idx.Select(0, 0); ok {
			t.Error("Select on empty sequence reported a position")
		}
	}
}
