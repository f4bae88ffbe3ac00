// ABOUTME: Tests for balanced-parenthesis navigation against naive matching
// ABOUTME: Includes deep and wide trees spanning multiple excess blocks

package bptree

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/nainya/xmlgrove/pkg/bitvec"
)

func fromParens(s string) *Tree {
	b := bitvec.NewBuilder(len(s))
	for _, r := range s {
		b.Append(r == '(')
	}
	return New(b.Build())
}

// refMatch computes matching positions by a linear stack scan.
func refMatch(s string) (closes map[int]int, parent map[int]int) {
	closes = map[int]int{}
	parent = map[int]int{}
	var stack []int
	for i, r := range s {
		if r == '(' {
			if len(stack) > 0 {
				parent[i] = stack[len(stack)-1]
			} else {
				parent[i] = -1
			}
			stack = append(stack, i)
		} else {
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closes[open] = i
		}
	}
	return closes, parent
}

func checkNavigation(t *testing.T, s string) {
	t.Helper()
	tree := fromParens(s)
	closeOf, parentOf := refMatch(s)

	for v := range s {
		if s[v] != '(' {
			continue
		}
		c := closeOf[v]
		if got := tree.FindClose(v); got != c {
			t.Fatalf("FindClose(%d) = %d, want %d", v, got, c)
		}
		if got := tree.FindOpen(c); got != v {
			t.Fatalf("FindOpen(%d) = %d, want %d", c, got, v)
		}

		p, ok := tree.Parent(v)
		if want := parentOf[v]; want == -1 {
			if ok {
				t.Fatalf("Parent(%d) = %d, want none", v, p)
			}
		} else if !ok || p != want {
			t.Fatalf("Parent(%d) = %d, %v, want %d", v, p, ok, want)
		}

		// First child is v+1 iff it opens.
		fc, ok := tree.FirstChild(v)
		if wantChild := v+1 < len(s) && s[v+1] == '('; wantChild != ok {
			t.Fatalf("FirstChild(%d) ok = %v, want %v", v, ok, wantChild)
		} else if ok && fc != v+1 {
			t.Fatalf("FirstChild(%d) = %d, want %d", v, fc, v+1)
		}

		ns, ok := tree.NextSibling(v)
		if wantSib := c+1 < len(s) && s[c+1] == '('; wantSib != ok {
			t.Fatalf("NextSibling(%d) ok = %v, want %v", v, ok, wantSib)
		} else if ok && ns != c+1 {
			t.Fatalf("NextSibling(%d) = %d, want %d", v, ns, c+1)
		}

		if got, want := tree.SubtreeSize(v), (c-v+1)/2; got != want {
			t.Fatalf("SubtreeSize(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestSingleNode(t *testing.T) {
	tree := fromParens("()")
	root, ok := tree.Root()
	if !ok || root != 0 {
		t.Fatalf("Root() = %d, %v", root, ok)
	}
	if _, ok := tree.FirstChild(0); ok {
		t.Error("leaf reports a first child")
	}
	if _, ok := tree.NextSibling(0); ok {
		t.Error("single root reports a next sibling")
	}
	if _, ok := tree.Parent(0); ok {
		t.Error("root reports a parent")
	}
	if tree.SubtreeSize(0) != 1 {
		t.Errorf("SubtreeSize(0) = %d, want 1", tree.SubtreeSize(0))
	}
}

func TestEmptyTree(t *testing.T) {
	tree := fromParens("")
	if _, ok := tree.Root(); ok {
		t.Error("empty tree reports a root")
	}
	if tree.NumNodes() != 0 {
		t.Errorf("NumNodes() = %d, want 0", tree.NumNodes())
	}
}

func TestSmallShapes(t *testing.T) {
	for _, s := range []string{
		"()",
		"(())",
		"(()())",
		"((()))",
		"(()(()))",
		"(((()())())(()))",
		"()()", // forest of two roots
	} {
		checkNavigation(t, s)
	}
}

func TestSiblingChain(t *testing.T) {
	tree := fromParens("(()()())")
	first, _ := tree.FirstChild(0)
	second, ok := tree.NextSibling(first)
	if !ok {
		t.Fatal("first child has no next sibling")
	}
	third, ok := tree.NextSibling(second)
	if !ok {
		t.Fatal("second child has no next sibling")
	}
	if _, ok := tree.NextSibling(third); ok {
		t.Error("last child reports a next sibling")
	}

	if prev, ok := tree.PrevSibling(third); !ok || prev != second {
		t.Errorf("PrevSibling(third) = %d, %v, want %d", prev, ok, second)
	}
	if prev, ok := tree.PrevSibling(second); !ok || prev != first {
		t.Errorf("PrevSibling(second) = %d, %v, want %d", prev, ok, first)
	}
	if _, ok := tree.PrevSibling(first); ok {
		t.Error("first child reports a previous sibling")
	}

	if last, ok := tree.LastChild(0); !ok || last != third {
		t.Errorf("LastChild(0) = %d, %v, want %d", last, ok, third)
	}
}

func TestDeepTree(t *testing.T) {
	// A path of 2000 nodes spans several excess blocks, forcing the
	// directory search instead of in-block scans.
	depth := 2000
	s := strings.Repeat("(", depth) + strings.Repeat(")", depth)
	checkNavigation(t, s)

	tree := fromParens(s)
	if got := tree.FindClose(0); got != 2*depth-1 {
		t.Errorf("FindClose(0) = %d, want %d", got, 2*depth-1)
	}
	if got := tree.Depth(depth - 1); got != depth-1 {
		t.Errorf("Depth(innermost) = %d, want %d", got, depth-1)
	}
}

func TestWideTree(t *testing.T) {
	s := "(" + strings.Repeat("()", 1500) + ")"
	checkNavigation(t, s)
}

func randomTree(rng *rand.Rand, nodes int) string {
	var sb strings.Builder
	open := 0
	placed := 0
	for placed < nodes || open > 0 {
		if placed < nodes && (open == 0 || rng.Intn(2) == 0) {
			sb.WriteByte('(')
			open++
			placed++
		} else {
			sb.WriteByte(')')
			open--
		}
	}
	return sb.String()
}

func TestRandomTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for i := 0; i < 10; i++ {
		checkNavigation(t, randomTree(rng, 400))
	}
}

func TestPreorderBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tree := fromParens(randomTree(rng, 300))
	for k := 0; k < tree.NumNodes(); k++ {
		v, ok := tree.PreorderSelect(k)
		if !ok {
			t.Fatalf("PreorderSelect(%d) failed", k)
		}
		if got := tree.PreorderRank(v); got != k {
			t.Fatalf("PreorderRank(PreorderSelect(%d)) = %d", k, got)
		}
	}
	if _, ok := tree.PreorderSelect(tree.NumNodes()); ok {
		t.Error("PreorderSelect past the last node reported a position")
	}
}

func TestIsAncestor(t *testing.T) {
	tree := fromParens("(()(()))")
	cases := []struct {
		u, v int
		want bool
	}{
		{0, 0, true},
		{0, 1, true},
		{0, 4, true},
		{3, 4, true},
		{1, 4, false},
		{4, 3, false},
	}
	for _, c := range cases {
		if got := tree.IsAncestor(c.u, c.v); got != c.want {
			t.Errorf("IsAncestor(%d, %d) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestSubtreeSizeConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := fromParens(randomTree(rng, 500))
	for k := 0; k < tree.NumNodes(); k++ {
		v, _ := tree.PreorderSelect(k)
		sum := 1
		for c, ok := tree.FirstChild(v); ok; c, ok = tree.NextSibling(c) {
			sum += tree.SubtreeSize(c)
		}
		if got := tree.SubtreeSize(v); got != sum {
			t.Fatalf("SubtreeSize(%d) = %d, children sum to %d", v, got, sum-1)
		}
	}
}

func BenchmarkFindClose(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tree := fromParens(randomTree(rng, 100000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, _ := tree.PreorderSelect(i % tree.NumNodes())
		tree.FindClose(v)
	}
}
