// ABOUTME: Suffix array construction by prefix doubling
// ABOUTME: O(n log^2 n) build, used once to derive the Burrows-Wheeler transform

package textindex

import "sort"

// buildSuffixArray returns the suffix array of text: the start positions
// of all suffixes in ascending lexicographic order.
func buildSuffixArray(text []byte) []int32 {
	n := len(text)
	sa := make([]int32, n)
	rank := make([]int, n)
	next := make([]int, n)
	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int(text[i])
	}

	for k := 1; n > 1; k *= 2 {
		// Compare by current rank, ties broken by the rank k positions
		// later (-1 past the end, ordering shorter suffixes first).
		less := func(a, b int32) bool {
			if rank[a] != rank[b] {
				return rank[a] < rank[b]
			}
			ra, rb := -1, -1
			if int(a)+k < n {
				ra = rank[int(a)+k]
			}
			if int(b)+k < n {
				rb = rank[int(b)+k]
			}
			return ra < rb
		}
		sort.Slice(sa, func(i, j int) bool { return less(sa[i], sa[j]) })

		next[sa[0]] = 0
		for i := 1; i < n; i++ {
			next[sa[i]] = next[sa[i-1]]
			if less(sa[i-1], sa[i]) {
				next[sa[i]]++
			}
		}
		copy(rank, next)
		if rank[sa[n-1]] == n-1 {
			break
		}
	}
	return sa
}
