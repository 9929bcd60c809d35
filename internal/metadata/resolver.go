package metadata

// ResolvedID is the outcome of identifier resolution for one source.
type ResolvedID struct {
	ID     string
	Origin IDOrigin
}

// resolveIdentifier walks the resolution tiers in order: an explicit id wins
// outright, then a cross-referenced id from the other source, then the best
// fuzzy candidate when its score reaches the auto-accept threshold. The
// threshold comparison is inclusive. Returns nil when no tier produces an id.
func resolveIdentifier(explicit, crossRef string, candidates []Candidate, threshold int) *ResolvedID {
	if explicit != "" {
		return &ResolvedID{ID: explicit, Origin: OriginExplicit}
	}
	if crossRef != "" {
		return &ResolvedID{ID: crossRef, Origin: OriginCrossReference}
	}
	if best := bestCandidate(candidates); best != nil && best.Score >= threshold {
		return &ResolvedID{ID: best.ID, Origin: OriginTitleSearch}
	}
	return nil
}
