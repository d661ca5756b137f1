/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: random.go
Description: Random selection helpers. Every draw takes the run's explicit random
source and an ordered input so generation is reproducible.
*/

package generator

import (
	"fmt"
	"math/rand"

	"github.com/kleascm/akaylee-ontogen/pkg/grammar"
)

// maxPowerSet bounds the number of elements whose power set is materialized.
// Larger inputs draw each element with a fair coin, which has the same distribution.
const maxPowerSet = 16

// RandomInt draws uniformly from [min, max). Equal bounds return min.
func RandomInt(rng *rand.Rand, min, max int) (int, error) {
	n, err := grammar.RandomInt64(rng, int64(min), int64(max))
	if err != nil {
		return 0, fmt.Errorf("random int: %w", err)
	}
	return int(n), nil
}

// randomElement returns a uniformly chosen element of a non-empty slice
func randomElement[T any](rng *rand.Rand, list []T) T {
	return list[rng.Intn(len(list))]
}

// powerSet lists every subset of {0..n-1} as ascending index slices, ordered by bitmask
func powerSet(n int) [][]int {
	subsets := make([][]int, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		var subset []int
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, i)
			}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

// randomSubset returns a uniformly chosen subset of {0..n-1}, using cache for
// materialized power sets
func randomSubset(rng *rand.Rand, n int, cache map[int][][]int) []int {
	if n == 0 {
		return nil
	}
	if n > maxPowerSet {
		var subset []int
		for i := 0; i < n; i++ {
			if rng.Float64() < 0.5 {
				subset = append(subset, i)
			}
		}
		return subset
	}
	subsets, ok := cache[n]
	if !ok {
		subsets = powerSet(n)
		cache[n] = subsets
	}
	return randomElement(rng, subsets)
}
