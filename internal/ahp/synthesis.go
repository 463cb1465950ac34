package ahp

import (
	"fmt"
	"sort"
)

// Contribution is one criterion's share of an alternative's final score.
type Contribution struct {
	Criterion       string  `json:"criterion"`
	CriterionWeight float64 `json:"criterion_weight"`
	LocalWeight     float64 `json:"local_weight"`
	Weighted        float64 `json:"weighted"`
}

// RankedAlternative is one row of the final ranking.
type RankedAlternative struct {
	Rank          int            `json:"rank"`
	Alternative   string         `json:"alternative"`
	Index         int            `json:"index"`
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// SynthesisResult is the ranked outcome of combining criteria weights with
// per-criterion alternative weights.
type SynthesisResult struct {
	Ranking []RankedAlternative `json:"ranking"`
	// Scores holds the final scores in input alternative order.
	Scores []float64 `json:"scores"`
}

// Labels names the rows and columns of a synthesis. Empty slices get generated names.
type Labels struct {
	Criteria     []string
	Alternatives []string
}

// Synthesize computes finalScores = LocalWeights · CriteriaWeights, where column j
// of LocalWeights holds local[j].Weights. local must be ordered like the criteria
// weight vector. No consistency gate is applied here.
func Synthesize(criteria PriorityResult, local []*PriorityResult, labels Labels) (SynthesisResult, error) {
	m := len(criteria.Weights)
	if m == 0 || criteria.N != m {
		return SynthesisResult{}, fmt.Errorf("%w: criteria result has %d weights for n=%d", ErrInvalidDimension, m, criteria.N)
	}
	critNames := labels.Criteria
	if len(critNames) == 0 {
		critNames = generatedLabels("C", m)
	}
	if len(critNames) != m {
		return SynthesisResult{}, fmt.Errorf("%w: %d criterion labels for %d weights", ErrInvalidDimension, len(critNames), m)
	}

	if len(local) > m {
		return SynthesisResult{}, fmt.Errorf("%w: %d local results for %d criteria", ErrInvalidDimension, len(local), m)
	}
	for j := 0; j < m; j++ {
		if j >= len(local) || local[j] == nil {
			return SynthesisResult{}, fmt.Errorf("%w: %q", ErrMissingCriterionMatrix, critNames[j])
		}
	}

	k := local[0].N
	altNames := labels.Alternatives
	if len(altNames) == 0 {
		altNames = generatedLabels("A", k)
	}
	if len(altNames) != k {
		return SynthesisResult{}, fmt.Errorf("%w: %d alternative labels for %d weights", ErrInvalidDimension, len(altNames), k)
	}
	for j, lr := range local {
		if lr.N != k || len(lr.Weights) != k {
			return SynthesisResult{}, fmt.Errorf("%w: criterion %q has %d alternative weights, want %d", ErrInvalidDimension, critNames[j], len(lr.Weights), k)
		}
	}

	scores := make([]float64, k)
	ranking := make([]RankedAlternative, k)
	for i := 0; i < k; i++ {
		contributions := make([]Contribution, m)
		var total float64
		for j := 0; j < m; j++ {
			c := Contribution{
				Criterion:       critNames[j],
				CriterionWeight: criteria.Weights[j],
				LocalWeight:     local[j].Weights[i],
			}
			c.Weighted = c.CriterionWeight * c.LocalWeight
			total += c.Weighted
			contributions[j] = c
		}
		scores[i] = total
		ranking[i] = RankedAlternative{
			Alternative:   altNames[i],
			Index:         i,
			Score:         total,
			Contributions: contributions,
		}
	}

	orderRanking(ranking)
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	return SynthesisResult{Ranking: ranking, Scores: scores}, nil
}

// Top returns the best-ranked alternative, or false for an empty result.
func (r SynthesisResult) Top() (RankedAlternative, bool) {
	if len(r.Ranking) == 0 {
		return RankedAlternative{}, false
	}
	return r.Ranking[0], true
}

// orderRanking sorts by exact score, descending, then puts each run of
// neighbours closer than ZeroTolerance back into input order. The tolerance is
// applied after sorting so the comparator stays a strict weak ordering.
func orderRanking(ranking []RankedAlternative) {
	sort.SliceStable(ranking, func(a, b int) bool {
		if ranking[a].Score != ranking[b].Score {
			return ranking[a].Score > ranking[b].Score
		}
		return ranking[a].Index < ranking[b].Index
	})
	for start := 0; start < len(ranking); {
		end := start + 1
		for end < len(ranking) && ranking[end-1].Score-ranking[end].Score <= ZeroTolerance {
			end++
		}
		run := ranking[start:end]
		sort.Slice(run, func(a, b int) bool { return run[a].Index < run[b].Index })
		start = end
	}
}

func generatedLabels(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}
