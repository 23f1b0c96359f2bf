package analysis

// Communication state labels.
const (
	StateSilent = "Silent"
	StateLow    = "Low"
	StateNormal = "Normal"
	StateHigh   = "High"
)

// Classify maps a precise density to a communication state.
// The thresholds are asymmetric: below 0.1 is strict, 0.3 and up is High,
// and [0.1, 0.3) falls through to Normal.
func Classify(density float64) string {
	switch {
	case density >= 0.3:
		return StateHigh
	case density > 0 && density < 0.1:
		return StateLow
	case density == 0:
		return StateSilent
	default:
		return StateNormal
	}
}
