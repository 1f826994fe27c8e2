package quiz

// Tier is the feedback bucket for a final percentage.
type Tier string

const (
	TierTop  Tier = "TOP"
	TierHigh Tier = "HIGH"
	TierMid  Tier = "MID"
	TierLow  Tier = "LOW"
)

// TierFor maps a percentage (0-100) to its tier. Thresholds are inclusive.
func TierFor(percentage int) Tier {
	switch {
	case percentage >= 90:
		return TierTop
	case percentage >= 70:
		return TierHigh
	case percentage >= 50:
		return TierMid
	default:
		return TierLow
	}
}

// Message returns the player-facing feedback line for the tier.
func (t Tier) Message() string {
	switch t {
	case TierTop:
		return "Amazing! You're a true trivia master!"
	case TierHigh:
		return "Great job! You really know your stuff!"
	case TierMid:
		return "Not bad! You've got some trivia knowledge!"
	default:
		return "Keep learning! You'll do better next time!"
	}
}

// Percentage returns round(100 * score / total), rounding halves up.
// A non-positive total yields 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}
