package errors

import "math"

// Generation and playback limits shared by validators and their callers.
const (
	MinNodeCount = 1
	MaxNodeCount = 50000

	MinRate = 1.0
	MaxRate = 120.0
)

// ValidateNodeCount checks a requested node count for generation.
//
// The upper bound is a practical ceiling: generation is quadratic in the node
// count, so larger graphs take minutes rather than seconds.
func ValidateNodeCount(n int) error {
	if n < MinNodeCount {
		return New(ErrCodeInvalidNodeCount, "node count must be at least %d, got %d", MinNodeCount, n)
	}
	if n > MaxNodeCount {
		return New(ErrCodeInvalidNodeCount, "node count too large (max %d), got %d", MaxNodeCount, n)
	}
	return nil
}

// ValidateProbability checks an edge probability lies in [0, 1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidProbability, "edge probability must be in [0,1], got %g", p)
	}
	return nil
}

// ValidateNode checks that id addresses one of n nodes.
func ValidateNode(id, n int) error {
	if id < 0 || id >= n {
		return New(ErrCodeInvalidNode, "node %d out of range [0,%d)", id, n)
	}
	return nil
}

// ValidateRate checks a playback rate in steps per second.
func ValidateRate(r float64) error {
	if math.IsNaN(r) || r < MinRate || r > MaxRate {
		return New(ErrCodeInvalidRate, "rate must be in [%g,%g] steps/s, got %g", MinRate, MaxRate, r)
	}
	return nil
}
