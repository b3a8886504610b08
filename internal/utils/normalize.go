package utils

import "math"

// MaxFrequency is the largest value of a 4-bit frequency.
const MaxFrequency = 15

// RankFrequencies spreads count items, sorted from most to least frequent,
// over the frequency range. The first item gets MaxFrequency and the last 0.
func RankFrequencies(count int) []int {
	if count <= 0 {
		return []int{}
	}
	freqs := make([]int, count)
	if count == 1 {
		freqs[0] = MaxFrequency
		return freqs
	}
	for i := 0; i < count; i++ {
		freqs[i] = MaxFrequency - i*MaxFrequency/(count-1)
	}
	return freqs
}

// QuantizeCounts maps occurrence counts to frequencies on a log scale, the
// largest count getting MaxFrequency. Negative counts are treated as 0.
func QuantizeCounts(counts []int) []int {
	freqs := make([]int, len(counts))
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	if peak == 0 {
		return freqs
	}
	scale := math.Log1p(float64(peak))
	for i, c := range counts {
		if c <= 0 {
			continue
		}
		f := int(math.Round(MaxFrequency * math.Log1p(float64(c)) / scale))
		freqs[i] = min(max(f, 0), MaxFrequency)
	}
	return freqs
}
