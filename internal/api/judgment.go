package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Judgment is a pairwise judgment in a request body. It accepts a JSON number
// or a fraction string such as "1/3".
type Judgment float64

func (j *Judgment) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*j = Judgment(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("judgment must be a number or fraction string: %s", data)
	}
	v, err := parseFraction(s)
	if err != nil {
		return err
	}
	*j = Judgment(v)
	return nil
}

func parseFraction(s string) (float64, error) {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("judgment %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil {
		return 0, fmt.Errorf("judgment %q: %w", s, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("judgment %q: zero denominator", s)
	}
	return n / d, nil
}

func judgmentValues(js []Judgment) []float64 {
	out := make([]float64, len(js))
	for i, j := range js {
		out[i] = float64(j)
	}
	return out
}
