package metrics

// Jain's fairness index of xs: (Σx)² / (n·Σx²). 1 means perfectly even, 1/n
// means one value dominates. Returns 0 for no or all-zero values.
func JainIndex(xs []float64) float64 {
	var s, s2 float64
	for _, x := range xs {
		s += x
		s2 += x * x
	}
	if s2 == 0 {
		return 0
	}
	return (s * s) / (float64(len(xs)) * s2)
}

// Turnaround of each completed job divided by its processing time. A job
// that never waited scores 1.
func normalizedTurnarounds(jobs []JobStat) []float64 {
	out := make([]float64, 0, len(jobs))
	for _, j := range jobs {
		if !j.Completed() || j.Processing <= 0 {
			continue
		}
		out = append(out, float64(j.Turnaround())/float64(j.Processing))
	}
	return out
}
