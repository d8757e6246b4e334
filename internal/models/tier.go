package models

// Tier is the difficulty of one interview question.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// TotalQuestions is the fixed length of every interview.
const TotalQuestions = 6

// Per-tier answer time limits, in seconds.
const (
	EasyTimeLimitSeconds   = 120
	MediumTimeLimitSeconds = 180
	HardTimeLimitSeconds   = 240
)

// TierForOrdinal maps a 0-based question position to its difficulty:
// positions 0-1 are easy, 2-3 medium, 4-5 hard. Every call site that
// needs a tier derives it from here; the mapping is never stored
// per-session.
func TierForOrdinal(ordinal int) Tier {
	switch {
	case ordinal < 2:
		return TierEasy
	case ordinal < 4:
		return TierMedium
	default:
		return TierHard
	}
}

// TimeLimitSeconds returns the answer window for a tier.
func (t Tier) TimeLimitSeconds() int {
	switch t {
	case TierEasy:
		return EasyTimeLimitSeconds
	case TierMedium:
		return MediumTimeLimitSeconds
	default:
		return HardTimeLimitSeconds
	}
}
