package metadata

import "sort"

// Candidate is one scored search match presented for automatic or manual
// selection.
type Candidate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Score       int       `json:"score"`
	Source      SourceTag `json:"source"`
	ReleaseYear int       `json:"release_year,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	Genres      string    `json:"genres,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
}

// sortCandidates orders by score descending, keeping the source's own order
// for ties.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

// bestCandidate returns the top scored candidate, or nil for an empty list.
func bestCandidate(candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}
	best := &candidates[0]
	for i := range candidates[1:] {
		if candidates[i+1].Score > best.Score {
			best = &candidates[i+1]
		}
	}
	return best
}
