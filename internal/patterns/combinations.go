package patterns

import "math/bits"

// forEachCombination calls fn with the bit mask of every size-k subset of
// numbers. numbers must be distinct board numbers.
func forEachCombination(numbers []int, k int, fn func(mask uint64)) {
	n := len(numbers)
	if k <= 0 || k > n {
		return
	}

	bitsOf := make([]uint64, n)
	for i, v := range numbers {
		bitsOf[i] = 1 << uint(v-1)
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		var mask uint64
		for _, i := range idx {
			mask |= bitsOf[i]
		}
		fn(mask)

		// Advance to the next combination in lexicographic index order.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// lexLess orders two equally sized masks by their ascending number lists.
// The lowest differing bit decides: whichever mask holds it has the smaller
// number at the first position where the lists differ.
func lexLess(a, b uint64) bool {
	diff := a ^ b
	if diff == 0 {
		return false
	}
	return a&(diff&-diff) != 0
}

// Binomial returns C(n, k).
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

func popcount(mask uint64) int {
	return bits.OnesCount64(mask)
}
