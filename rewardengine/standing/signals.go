package standing

// PlayerSignals carries the raw reputation signals for a single player, as
// reported by the upstream reputation source. A fresh value is supplied per
// classification call; nothing here is retained by the classifier.
type PlayerSignals struct {
	// Ban flags, each paired with the count reported by the source.
	VACBanned    bool
	VACBanCount  int
	GameBanned   bool
	GameBanCount int

	AccountAgeDays int

	// SuspicionScore is an upstream activity heuristic in [0, 1].
	SuspicionScore float64

	// Game ownership summary. PlayedGames counts games with at least
	// qualifyingPlaytimeMinutes of recorded playtime.
	OwnedGames    int
	PlayedGames   int
	TotalPlaytime int64 // minutes
}

// wellFormed reports whether the signal set is internally consistent enough
// to classify. Counts and ages must be non-negative, the suspicion score must
// stay inside [0, 1], and a played game implies an owned game.
func (s PlayerSignals) wellFormed() bool {
	switch {
	case s.VACBanCount < 0 || s.GameBanCount < 0:
		return false
	case s.AccountAgeDays < 0:
		return false
	case s.SuspicionScore < 0 || s.SuspicionScore > 1:
		return false
	case s.OwnedGames < 0 || s.PlayedGames < 0 || s.TotalPlaytime < 0:
		return false
	case s.PlayedGames > s.OwnedGames:
		return false
	}
	return true
}
