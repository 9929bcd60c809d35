package textutil

import "math"

// TitleScore compares two titles and returns an integer similarity in [0, 100].
// Titles are normalized before comparison, then scored by token-vector cosine
// similarity. When either title yields no usable tokens the score falls back
// to a character-overlap heuristic, which is lower fidelity but never refuses
// an answer.
func TitleScore(a, b string) int {
	na := NormalizeTitle(a)
	nb := NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	fa := NewFingerprint(na)
	fb := NewFingerprint(nb)
	if fa == nil || fb == nil {
		return charOverlapScore(na, nb)
	}
	return int(math.Round(CosineSimilarity(fa, fb) * 100))
}

// charOverlapScore counts shared characters (multiset intersection) and scales
// by the longer string. Used only when tokenization produces nothing.
func charOverlapScore(a, b string) int {
	counts := make(map[rune]int)
	lenA := 0
	for _, r := range a {
		if r == ' ' {
			continue
		}
		counts[r]++
		lenA++
	}
	common := 0
	lenB := 0
	for _, r := range b {
		if r == ' ' {
			continue
		}
		lenB++
		if counts[r] > 0 {
			counts[r]--
			common++
		}
	}
	longest := lenA
	if lenB > longest {
		longest = lenB
	}
	if longest == 0 {
		return 0
	}
	return int(math.Round(float64(common) / float64(longest) * 100))
}
