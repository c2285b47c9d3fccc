package standing

import (
	"testing"
)

func cleanSignals() PlayerSignals {
	return PlayerSignals{
		AccountAgeDays: 365,
		SuspicionScore: 0.1,
		OwnedGames:     40,
		PlayedGames:    25,
		TotalPlaytime:  90000,
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*PlayerSignals)
		wantStanding Standing
		wantReason   string
	}{
		{
			name:         "clean account is cleared",
			mutate:       func(s *PlayerSignals) {},
			wantStanding: StandingCleared,
			wantReason:   ReasonOK,
		},
		{
			name: "vac ban blacklists",
			mutate: func(s *PlayerSignals) {
				s.VACBanned = true
				s.VACBanCount = 1
			},
			wantStanding: StandingBlacklisted,
			wantReason:   ReasonVACBan,
		},
		{
			name: "game ban blacklists",
			mutate: func(s *PlayerSignals) {
				s.GameBanned = true
				s.GameBanCount = 2
			},
			wantStanding: StandingBlacklisted,
			wantReason:   ReasonGameBan,
		},
		{
			name: "ban outranks old account age",
			mutate: func(s *PlayerSignals) {
				s.VACBanned = true
				s.VACBanCount = 1
				s.AccountAgeDays = 1000
			},
			wantStanding: StandingBlacklisted,
			wantReason:   ReasonVACBan,
		},
		{
			name: "ban outranks missing qualifying games",
			mutate: func(s *PlayerSignals) {
				s.GameBanned = true
				s.GameBanCount = 1
				s.PlayedGames = 0
				s.OwnedGames = 0
			},
			wantStanding: StandingBlacklisted,
			wantReason:   ReasonGameBan,
		},
		{
			name: "29 day old account is suspicious",
			mutate: func(s *PlayerSignals) {
				s.AccountAgeDays = 29
			},
			wantStanding: StandingSuspicious,
			wantReason:   ReasonNewAccount,
		},
		{
			name: "30 day old account passes the age check",
			mutate: func(s *PlayerSignals) {
				s.AccountAgeDays = 30
			},
			wantStanding: StandingCleared,
			wantReason:   ReasonOK,
		},
		{
			name: "suspicion score above cutoff is suspicious",
			mutate: func(s *PlayerSignals) {
				s.SuspicionScore = 0.71
			},
			wantStanding: StandingSuspicious,
			wantReason:   ReasonActivityPattern,
		},
		{
			name: "suspicion score exactly at cutoff passes",
			mutate: func(s *PlayerSignals) {
				s.SuspicionScore = 0.7
			},
			wantStanding: StandingCleared,
			wantReason:   ReasonOK,
		},
		{
			name: "no played games is ineligible",
			mutate: func(s *PlayerSignals) {
				s.PlayedGames = 0
			},
			wantStanding: StandingIneligible,
			wantReason:   ReasonNoQualifyingGame,
		},
		{
			name: "zero owned games is ineligible",
			mutate: func(s *PlayerSignals) {
				s.OwnedGames = 0
				s.PlayedGames = 0
				s.TotalPlaytime = 0
			},
			wantStanding: StandingIneligible,
			wantReason:   ReasonNoQualifyingGame,
		},
		{
			name: "negative ban count is malformed",
			mutate: func(s *PlayerSignals) {
				s.VACBanCount = -1
			},
			wantStanding: StandingError,
			wantReason:   ReasonInvalidSignals,
		},
		{
			name: "negative account age is malformed",
			mutate: func(s *PlayerSignals) {
				s.AccountAgeDays = -5
			},
			wantStanding: StandingError,
			wantReason:   ReasonInvalidSignals,
		},
		{
			name: "suspicion score above one is malformed",
			mutate: func(s *PlayerSignals) {
				s.SuspicionScore = 1.5
			},
			wantStanding: StandingError,
			wantReason:   ReasonInvalidSignals,
		},
		{
			name: "played games above owned games is malformed",
			mutate: func(s *PlayerSignals) {
				s.OwnedGames = 1
				s.PlayedGames = 2
			},
			wantStanding: StandingError,
			wantReason:   ReasonInvalidSignals,
		},
	}

	c := NewClassifier()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := cleanSignals()
			tt.mutate(&signals)

			got := c.Classify(signals)
			if got.Standing != tt.wantStanding {
				t.Errorf("Classify() standing = %v, want %v", got.Standing, tt.wantStanding)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Classify() reason = %v, want %v", got.Reason, tt.wantReason)
			}
			if got.Signals == nil {
				t.Error("Classify() did not echo signals")
			}
		})
	}
}

func TestService_LastVerdict(t *testing.T) {
	s := NewService()

	if _, ok := s.LastVerdict("p1"); ok {
		t.Fatal("LastVerdict() returned a verdict before any evaluation")
	}

	want := s.Evaluate("p1", cleanSignals())
	got, ok := s.LastVerdict("p1")
	if !ok {
		t.Fatal("LastVerdict() missing after Evaluate()")
	}
	if got.Standing != want.Standing || got.Reason != want.Reason {
		t.Errorf("LastVerdict() = %v/%v, want %v/%v", got.Standing, got.Reason, want.Standing, want.Reason)
	}
}
