package matching

// Weights is the immutable factor weighting applied by the aggregator.
// The defaults are fixed product constants; the struct is injectable so
// tests can substitute alternate weightings without global state.
type Weights struct {
	Location     float64 `json:"location"`
	Skills       float64 `json:"skills"`
	Availability float64 `json:"availability"`
	Preferences  float64 `json:"preferences"`
	Reliability  float64 `json:"reliability"`
}

// DefaultWeights returns the production weighting. The five values sum to
// 1.05; the aggregator caps the weighted total at 100.
func DefaultWeights() Weights {
	return Weights{
		Location:     0.35,
		Skills:       0.30,
		Availability: 0.25,
		Preferences:  0.10,
		Reliability:  0.05,
	}
}
