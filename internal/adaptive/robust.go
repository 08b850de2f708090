package adaptive

import "sort"

// minInlierShare is the fraction of values that must survive IQR filtering for
// the filtered mean to be trusted. Below it RobustMean falls back to the median.
const minInlierShare = 0.7

// RobustMean averages values after discarding points outside 1.5 IQR of the
// quartiles. Quartiles are taken by index truncation (sorted[floor(n*p)]),
// not interpolation. With two or fewer values it is the plain mean.
func RobustMean(values []float64) float64 {
	n := len(values)
	switch {
	case n == 0:
		return 0
	case n <= 2:
		m, _ := meanStdDev(values)
		return m
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := sorted[int(float64(n)*0.25)]
	q3 := sorted[int(float64(n)*0.75)]
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr

	inliers := make([]float64, 0, n)
	for _, v := range sorted {
		if v >= lower && v <= upper {
			inliers = append(inliers, v)
		}
	}

	if float64(len(inliers)) < float64(n)*minInlierShare {
		return median(sorted)
	}
	m, _ := meanStdDev(inliers)
	return m
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
