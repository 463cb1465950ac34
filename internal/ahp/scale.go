package ahp

import "math"

// ScaleEntry is one point of the Saaty judgment scale.
type ScaleEntry struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// SaatyScale lists the canonical judgments, strongest preference for the
// left-hand item first and strongest preference for the right-hand item last.
var SaatyScale = []ScaleEntry{
	{9, "extreme importance"},
	{8, "very strong to extreme"},
	{7, "very strong importance"},
	{6, "strong to very strong"},
	{5, "strong importance"},
	{4, "moderate to strong"},
	{3, "moderate importance"},
	{2, "equal to moderate"},
	{1, "equal importance"},
	{1.0 / 2, "equal to moderate (inverse)"},
	{1.0 / 3, "moderate importance (inverse)"},
	{1.0 / 4, "moderate to strong (inverse)"},
	{1.0 / 5, "strong importance (inverse)"},
	{1.0 / 6, "strong to very strong (inverse)"},
	{1.0 / 7, "very strong importance (inverse)"},
	{1.0 / 8, "very strong to extreme (inverse)"},
	{1.0 / 9, "extreme importance (inverse)"},
}

// IsSaatyValue reports whether v is one of the scale values within 1e-9.
func IsSaatyValue(v float64) bool {
	for _, e := range SaatyScale {
		if math.Abs(e.Value-v) <= 1e-9 {
			return true
		}
	}
	return false
}
