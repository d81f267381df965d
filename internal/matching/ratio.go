package matching

// Ratio computes a similarity ratio in [0,1] between two strings: twice the
// total length of their matching blocks divided by the combined length.
// Matching blocks are found by repeatedly taking the longest common
// substring and recursing on the pieces to its left and right, so the
// result is symmetric-ish, deterministic, and 1.0 for identical strings.
func Ratio(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingRunes(ar, br)) / float64(total)
}

// matchingRunes sums the sizes of all matching blocks between a and b.
func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:i], b[:j]) +
		matchingRunes(a[i+size:], b[j+size:])
}

// longestMatch finds the longest block where a[i:i+size] == b[j:j+size],
// preferring the earliest i and then the earliest j on ties.
func longestMatch(a, b []rune) (besti, bestj, bestsize int) {
	// lengths[j] is the size of the match ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		next := make([]int, len(b)+1)
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				continue
			}
			k := lengths[j] + 1
			next[j+1] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return besti, bestj, bestsize
}
