// ABOUTME: Tests for the wavelet matrix against a naive reference
// ABOUTME: Exercises access/rank/select across alphabet sizes and shapes

package wavelet

import (
	"math/rand"
	"testing"
)

func refRank(data []uint64, sym uint64, i int) int {
	n := 0
	for _, s := range data[:i] {
		if s == sym {
			n++
		}
	}
	return n
}

func refSelect(data []uint64, sym uint64, k int) (int, bool) {
	for i, s := range data {
		if s == sym {
			if k == 0 {
				return i, true
			}
			k--
		}
	}
	return 0, false
}

func checkMatrix(t *testing.T, data []uint64, width int, alphabet int) {
	t.Helper()
	m := New(data, width)

	if m.Len() != len(data) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(data))
	}
	for i, want := range data {
		if got := m.Access(i); got != want {
			t.Fatalf("Access(%d) = %d, want %d", i, got, want)
		}
	}
	for sym := uint64(0); sym < uint64(alphabet); sym++ {
		for i := 0; i <= len(data); i++ {
			if got, want := m.Rank(sym, i), refRank(data, sym, i); got != want {
				t.Fatalf("Rank(%d, %d) = %d, want %d", sym, i, got, want)
			}
		}
		for k := 0; ; k++ {
			want, ok := refSelect(data, sym, k)
			got, found := m.Select(sym, k)
			if found != ok {
				t.Fatalf("Select(%d, %d) found = %v, want %v", sym, k, found, ok)
			}
			if !ok {
				break
			}
			if got != want {
				t.Fatalf("Select(%d, %d) = %d, want %d", sym, k, got, want)
			}
		}
	}
}

func TestBitsFor(t *testing.T) {
	cases := []struct{ cardinality, want int }{
		{0, 1}, {1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {256, 8}, {257, 9},
	}
	for _, c := range cases {
		if got := BitsFor(c.cardinality); got != c.want {
			t.Errorf("BitsFor(%d) = %d, want %d", c.cardinality, got, c.want)
		}
	}
}

func TestTinySequences(t *testing.T) {
	checkMatrix(t, []uint64{0}, 1, 2)
	checkMatrix(t, []uint64{1, 0, 1}, 1, 2)
	checkMatrix(t, []uint64{0, 1, 2, 3}, 2, 4)
	checkMatrix(t, []uint64{0, 1, 1, 3, 2, 3}, 2, 4)
	checkMatrix(t, []uint64{7, 7, 7}, 3, 8)
}

func TestEmptySequence(t *testing.T) {
	m := New(nil, 3)
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}
	if _, ok := m.Select(0, 0); ok {
		t.Error("Select on empty sequence reported a position")
	}
	if got := m.Rank(5, 0); got != 0 {
		t.Errorf("Rank(5, 0) = %d, want 0", got)
	}
}

func TestRandomAlphabets(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, alphabet := range []int{2, 5, 17, 130} {
		data := make([]uint64, 800)
		for i := range data {
			data[i] = uint64(rng.Intn(alphabet))
		}
		checkMatrix(t, data, BitsFor(alphabet), alphabet)
	}
}

func TestRankOfAbsentSymbol(t *testing.T) {
	m := New([]uint64{0, 1, 2}, 2)
	if got := m.Rank(3, 3); got != 0 {
		t.Errorf("Rank of unused symbol = %d, want 0", got)
	}
	if _, ok := m.Select(3, 0); ok {
		t.Error("Select of unused symbol reported a position")
	}
}

func BenchmarkRank(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	data := make([]uint64, 1<<16)
	for i := range data {
		data[i] = uint64(rng.Intn(64))
	}
	m := New(data, 6)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Rank(uint64(i%64), i%len(data))
	}
}
