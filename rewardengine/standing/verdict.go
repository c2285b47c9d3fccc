package standing

// Standing is the eligibility class a player lands in after classification.
type Standing int

const (
	StandingCleared Standing = iota
	StandingSuspicious
	StandingBlacklisted
	StandingIneligible
	StandingError
)

func (s Standing) String() string {
	switch s {
	case StandingCleared:
		return "cleared"
	case StandingSuspicious:
		return "suspicious"
	case StandingBlacklisted:
		return "blacklisted"
	case StandingIneligible:
		return "ineligible"
	case StandingError:
		return "error"
	default:
		return "unknown"
	}
}

// Machine-readable reason codes. Callers branch on these, so they are part of
// the engine's contract and must stay stable.
const (
	ReasonOK               = "ok"
	ReasonVACBan           = "vac_ban"
	ReasonGameBan          = "game_ban"
	ReasonNewAccount       = "new_account"
	ReasonActivityPattern  = "activity_pattern"
	ReasonNoQualifyingGame = "no_qualifying_game"
	ReasonInvalidSignals   = "invalid_signals"
)

// Verdict is the immutable result of one classification call. Signals echoes
// the input that produced the verdict; retention is the caller's decision.
type Verdict struct {
	Standing Standing       `json:"standing"`
	Reason   string         `json:"reason"`
	Signals  *PlayerSignals `json:"signals,omitempty"`
}

// Eligible reports whether the verdict allows a reward payout.
func (v Verdict) Eligible() bool {
	return v.Standing == StandingCleared
}
