package generation

// Candidate is one extracted, scored sample
type Candidate struct {
	Code  string
	Score float64
	Index int // sampling attempt index, 0-based
}

// Select returns the highest-scoring candidate. Equal scores go to the lowest
// attempt index, independent of the order of candidates. The bool is false
// when there is nothing to select.
func Select(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score || (c.Score == best.Score && c.Index < best.Index) {
			best = c
		}
	}
	return best, true
}
