package picker

import (
	"math/rand/v2"
	"slices"
)

// drawWeighted picks k distinct candidates. Each draw is proportional to the
// remaining weights; the chosen candidate is removed before the next draw.
// The caller guarantees k <= len(candidates).
func drawWeighted(rng *rand.Rand, candidates []string, weights []float64, k int) []string {
	cand := slices.Clone(candidates)
	w := slices.Clone(weights)
	out := make([]string, 0, k)

	for len(out) < k && len(cand) > 0 {
		idx := pickIndex(rng, w)
		out = append(out, cand[idx])
		cand = slices.Delete(cand, idx, idx+1)
		w = slices.Delete(w, idx, idx+1)
	}
	return out
}

// pickIndex walks the cumulative sum of w. With no positive mass left it
// falls back to a uniform choice.
func pickIndex(rng *rand.Rand, w []float64) int {
	var total float64
	for _, x := range w {
		total += x
	}
	if total <= 0 {
		return rng.IntN(len(w))
	}

	r := rng.Float64() * total
	var acc float64
	for i, x := range w {
		acc += x
		if r < acc {
			return i
		}
	}
	return len(w) - 1
}
