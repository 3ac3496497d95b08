package moments

// Score bands drive the user-facing explanation of a hook score. Bands are
// evaluated high to low with inclusive boundaries; exactly one applies.
const (
	BandVeryHigh = "very high / hook+viral fit"
	BandHigh     = "high / needs good distribution"
	BandMedium   = "medium / needs strong editing"
	BandLow      = "low / needs more material"
)

func ScoreBand(score int) string {
	switch {
	case score >= 85:
		return BandVeryHigh
	case score >= 70:
		return BandHigh
	case score >= 50:
		return BandMedium
	default:
		return BandLow
	}
}
