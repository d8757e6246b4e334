package models

import "testing"

func TestTierForOrdinal(t *testing.T) {
	tests := []struct {
		ordinal int
		want    Tier
	}{
		{0, TierEasy},
		{1, TierEasy},
		{2, TierMedium},
		{3, TierMedium},
		{4, TierHard},
		{5, TierHard},
	}

	for _, tt := range tests {
		if got := TierForOrdinal(tt.ordinal); got != tt.want {
			t.Errorf("TierForOrdinal(%d) = %s, want %s", tt.ordinal, got, tt.want)
		}
	}
}

func TestTimeLimitSeconds(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{TierEasy, 120},
		{TierMedium, 180},
		{TierHard, 240},
	}

	for _, tt := range tests {
		if got := tt.tier.TimeLimitSeconds(); got != tt.want {
			t.Errorf("%s.TimeLimitSeconds() = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestNewQuestionSlots(t *testing.T) {
	slots := NewQuestionSlots()
	if len(slots) != TotalQuestions {
		t.Fatalf("len(slots) = %d, want %d", len(slots), TotalQuestions)
	}
	for i, slot := range slots {
		if slot.Level != TierForOrdinal(i) {
			t.Errorf("slot %d level = %s, want %s", i, slot.Level, TierForOrdinal(i))
		}
		if slot.Answered() {
			t.Errorf("slot %d should start unanswered", i)
		}
	}
}

func TestFirstUnanswered(t *testing.T) {
	s := &InterviewSession{Questions: NewQuestionSlots()}
	if got := s.FirstUnanswered(); got != 0 {
		t.Fatalf("fresh session FirstUnanswered = %d, want 0", got)
	}

	s.Questions[0].Answer = "a"
	s.Questions[1].Answer = "b"
	if got := s.FirstUnanswered(); got != 2 {
		t.Fatalf("FirstUnanswered = %d, want 2", got)
	}
	if got := s.AnsweredCount(); got != 2 {
		t.Fatalf("AnsweredCount = %d, want 2", got)
	}

	// Gaps resolve to the earliest hole, not the highest answered slot.
	s.Questions[4].Answer = "e"
	if got := s.FirstUnanswered(); got != 2 {
		t.Fatalf("FirstUnanswered with gap = %d, want 2", got)
	}

	for i := range s.Questions {
		s.Questions[i].Answer = "x"
	}
	if got := s.FirstUnanswered(); got != -1 {
		t.Fatalf("full session FirstUnanswered = %d, want -1", got)
	}
}
