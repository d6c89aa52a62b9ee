package matching

// Match quality labels, highest first.
const (
	QualityExcellent = "Excellent"
	QualityVeryGood  = "Very Good"
	QualityGood      = "Good"
	QualityFair      = "Fair"
	QualityModerate  = "Moderate"
	QualityPoor      = "Poor"
	QualityVeryPoor  = "Very Poor"
)

// MatchQuality buckets a total score into a human-readable label.
// Thresholds are inclusive at the lower bound.
func MatchQuality(score int) string {
	switch {
	case score >= 90:
		return QualityExcellent
	case score >= 80:
		return QualityVeryGood
	case score >= 70:
		return QualityGood
	case score >= 60:
		return QualityFair
	case score >= 50:
		return QualityModerate
	case score >= 40:
		return QualityPoor
	default:
		return QualityVeryPoor
	}
}
