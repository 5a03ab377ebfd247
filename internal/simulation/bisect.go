package simulation

// BisectOptions bounds a bisection search.
type BisectOptions struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultBisectOptions gives at most 15 halvings, stopping once the interval is under 0.1.
var DefaultBisectOptions = BisectOptions{MaxIterations: 15, Tolerance: 0.1}

// BisectResult reports the smallest satisfying point found.
type BisectResult struct {
	Value      float64
	Found      bool
	Iterations int
}

// Bisect searches [low, high] for the smallest x where satisfies(x) holds, assuming the
// predicate is monotone (false below some threshold, true above it). Only midpoints are
// probed; when none satisfies, Found is false and Value is zero.
func Bisect(low, high float64, satisfies func(float64) bool, opts BisectOptions) BisectResult {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultBisectOptions.MaxIterations
	}

	var res BisectResult
	for res.Iterations < opts.MaxIterations {
		mid := (low + high) / 2
		res.Iterations++
		if satisfies(mid) {
			res.Value = mid
			res.Found = true
			high = mid
		} else {
			low = mid
		}
		if high-low < opts.Tolerance {
			break
		}
	}
	return res
}
