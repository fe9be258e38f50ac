package colourspace

import "gonum.org/v1/gonum/floats"

// Distance returns the Euclidean distance between two vectors of equal arity.
// It panics if the lengths differ.
func Distance(a, b Vector) float64 {
	return floats.Distance(a, b, 2)
}

// Nearest returns the index of the vector in candidates closest to v and that
// distance. Ties resolve to the lowest index. It returns -1 when candidates is empty.
func Nearest(v Vector, candidates []Vector) (int, float64) {
	best, bestDist := -1, 0.0
	for i, c := range candidates {
		d := Distance(v, c)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
