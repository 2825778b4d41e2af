package model

import "math"

// Euclidean returns sqrt(sum((a[i]-b[i])^2)). Callers check that len(a) == len(b).
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(euclidSquared(a, b))
}

func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
