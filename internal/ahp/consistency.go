package ahp

import "fmt"

// AcceptableCR is the conventional consistency threshold. It is not configurable.
const AcceptableCR = 0.10

// crRounding absorbs floating-point error when CR is computed to exactly the threshold.
const crRounding = 1e-12

// randomIndex holds Saaty's random consistency index for n = 1..10.
var randomIndex = map[int]float64{
	1: 0.00, 2: 0.00, 3: 0.58, 4: 0.90, 5: 1.12,
	6: 1.24, 7: 1.32, 8: 1.41, 9: 1.45, 10: 1.49,
}

// defaultRandomIndex is used for n > 10.
const defaultRandomIndex = 1.49

// RandomIndex returns RI for a matrix of size n.
func RandomIndex(n int) float64 {
	if ri, ok := randomIndex[n]; ok {
		return ri
	}
	if n < 1 {
		return 0
	}
	return defaultRandomIndex
}

// ConsistencyResult scores how far a set of judgments is from perfect consistency.
type ConsistencyResult struct {
	CI         float64 `json:"ci"`
	RI         float64 `json:"ri"`
	CR         float64 `json:"cr"`
	Acceptable bool    `json:"acceptable"`
}

// ScoreConsistency derives CI, RI and CR from a PriorityResult.
// Matrices of size 1 or 2 always have CR = 0.
func ScoreConsistency(p PriorityResult) ConsistencyResult {
	n := p.N
	var ci float64
	if n > 1 {
		ci = (p.LambdaMax - float64(n)) / float64(n-1)
	}
	ri := RandomIndex(n)

	var cr float64
	if n > 2 && ri > 0 {
		cr = ci / ri
	}
	return ConsistencyResult{
		CI:         ci,
		RI:         ri,
		CR:         cr,
		Acceptable: cr <= AcceptableCR+crRounding,
	}
}

// Verdict returns a one-line description suitable for display next to a matrix.
func (c ConsistencyResult) Verdict() string {
	if c.Acceptable {
		return fmt.Sprintf("consistency acceptable (CR = %.4f)", c.CR)
	}
	return fmt.Sprintf("consistency unacceptable (CR = %.4f), judgments should be revised", c.CR)
}
