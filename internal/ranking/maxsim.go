package ranking

import "math"

// MaxSim scores a multi-vector query against a page's multi-vector
// embedding by late interaction: each query vector contributes its best
// inner product over the page vectors, and the contributions are summed.
// An empty page scores zero.
func MaxSim(query, page [][]float32) float64 {
	var total float64
	for _, q := range query {
		best := math.Inf(-1)
		for _, p := range page {
			if s := dot(q, p); s > best {
				best = s
			}
		}
		if !math.IsInf(best, -1) {
			total += best
		}
	}
	return total
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
