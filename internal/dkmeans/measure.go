package dkmeans

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Measure identifies the central-tendency function used to collapse a cluster's
// members into one vector, per component.
type Measure string

const (
	// Median is the component-wise median; even counts average the middle pair.
	Median Measure = "median"

	// Mean is the component-wise arithmetic mean.
	Mean Measure = "mean"
)

// ValidMeasures returns every supported measure.
func ValidMeasures() []Measure {
	return []Measure{Median, Mean}
}

// ParseMeasure resolves a measure identifier, case-insensitively.
func ParseMeasure(s string) (Measure, error) {
	want := Measure(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(ValidMeasures(), want) {
		return want, nil
	}
	return "", &ConfigError{Field: "measure", Value: s, Reason: fmt.Sprintf("valid measures are %v", ValidMeasures())}
}

// apply reduces rows (all of equal length, at least one) component-wise.
func (m Measure) apply(rows [][]float64) []float64 {
	dims := len(rows[0])
	out := make([]float64, dims)
	col := make([]float64, len(rows))
	for d := range dims {
		for i, r := range rows {
			col[i] = r[d]
		}
		out[d] = m.reduce(col)
	}
	return out
}

func (m Measure) reduce(xs []float64) float64 {
	if m == Mean {
		return stat.Mean(xs, nil)
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
