package segment

// Share is one label's portion of the image.
type Share struct {
	Label    int     `json:"label"`
	Fraction float64 `json:"fraction"`
}

// Stats summarizes the label map.
type Stats struct {
	Segments int     `json:"segments"` // labels 1..Count holding at least one pixel
	Largest  Share   `json:"largest"`
	Smallest Share   `json:"smallest"`
	Boundary float64 `json:"boundary"` // fraction of label-0 pixels
}

// computeStats returns the area fraction of every label 1..count, plus label
// 0 when boundary pixels exist, so the fractions always sum to 1.
func computeStats(labels []int, count int) (map[int]float64, Stats) {
	hist := make([]int, count+1)
	for _, l := range labels {
		hist[l]++
	}
	total := float64(len(labels))

	fr := make(map[int]float64, count+1)
	if hist[0] > 0 {
		fr[0] = float64(hist[0]) / total
	}
	var st Stats
	st.Boundary = fr[0]
	for l := 1; l <= count; l++ {
		f := float64(hist[l]) / total
		fr[l] = f
		if hist[l] > 0 {
			st.Segments++
		}
		if l == 1 || f > st.Largest.Fraction {
			st.Largest = Share{Label: l, Fraction: f}
		}
		if l == 1 || f < st.Smallest.Fraction {
			st.Smallest = Share{Label: l, Fraction: f}
		}
	}
	return fr, st
}
