package standing

// Classification thresholds. These are engine constants shared with existing
// callers, not tunables.
const (
	minAccountAgeDays         = 30
	suspicionScoreCutoff      = 0.7
	qualifyingPlaytimeMinutes = 60
)

// Classifier turns raw player signals into a standing verdict. It holds no
// state; classification is a pure function of its input.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify evaluates the rules in a fixed order where a ban always outranks a
// merely-suspicious signal. The first matching rule wins:
//
//  1. any ban flag        -> blacklisted
//  2. account age < 30d   -> suspicious (new account)
//  3. suspicion > 0.7     -> suspicious (activity pattern)
//  4. no game >= 60 min   -> ineligible
//  5. otherwise           -> cleared
//
// An account age of exactly 30 days and a suspicion score of exactly 0.7 both
// pass their checks. A malformed signal set yields an error verdict rather
// than a panic.
func (c *Classifier) Classify(signals PlayerSignals) Verdict {
	if !signals.wellFormed() {
		return Verdict{Standing: StandingError, Reason: ReasonInvalidSignals, Signals: &signals}
	}

	if signals.VACBanned {
		return Verdict{Standing: StandingBlacklisted, Reason: ReasonVACBan, Signals: &signals}
	}
	if signals.GameBanned {
		return Verdict{Standing: StandingBlacklisted, Reason: ReasonGameBan, Signals: &signals}
	}

	if signals.AccountAgeDays < minAccountAgeDays {
		return Verdict{Standing: StandingSuspicious, Reason: ReasonNewAccount, Signals: &signals}
	}

	if signals.SuspicionScore > suspicionScoreCutoff {
		return Verdict{Standing: StandingSuspicious, Reason: ReasonActivityPattern, Signals: &signals}
	}

	if signals.PlayedGames == 0 {
		return Verdict{Standing: StandingIneligible, Reason: ReasonNoQualifyingGame, Signals: &signals}
	}

	return Verdict{Standing: StandingCleared, Reason: ReasonOK, Signals: &signals}
}
