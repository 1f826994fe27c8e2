package quiz_test

import (
	"testing"

	"github.com/stemsi/trivia-backend/internal/quiz"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		pct  int
		want quiz.Tier
	}{
		{100, quiz.TierTop},
		{90, quiz.TierTop},
		{89, quiz.TierHigh},
		{75, quiz.TierHigh},
		{70, quiz.TierHigh},
		{69, quiz.TierMid},
		{55, quiz.TierMid},
		{50, quiz.TierMid},
		{49, quiz.TierLow},
		{20, quiz.TierLow},
		{0, quiz.TierLow},
	}

	for _, tt := range tests {
		if got := quiz.TierFor(tt.pct); got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestTierMessagesAreDistinct(t *testing.T) {
	seen := map[string]quiz.Tier{}
	for _, tier := range []quiz.Tier{quiz.TierTop, quiz.TierHigh, quiz.TierMid, quiz.TierLow} {
		msg := tier.Message()
		if msg == "" {
			t.Fatalf("%s has no message", tier)
		}
		if other, ok := seen[msg]; ok {
			t.Fatalf("%s and %s share message %q", tier, other, msg)
		}
		seen[msg] = tier
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{2, 2, 100},
		{0, 2, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{7, 8, 88},
		{9, 10, 90},
		{3, 0, 0},
	}

	for _, tt := range tests {
		if got := quiz.Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}
