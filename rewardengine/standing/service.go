package standing

import (
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const verdictCacheSize = 10000

// cachedVerdict keeps the last verdict per player for callers that want to
// surface it without re-fetching signals. The classifier itself stays pure;
// retention lives here, on the service side.
type cachedVerdict struct {
	verdict   Verdict
	timestamp time.Time
}

// Service wraps the classifier with per-player verdict retention.
type Service struct {
	classifier *Classifier
	cache      *lru.Cache
}

func NewService() *Service {
	cache, _ := lru.New(verdictCacheSize)
	return &Service{
		classifier: NewClassifier(),
		cache:      cache,
	}
}

// Evaluate classifies the supplied signals and remembers the verdict for the
// player.
func (s *Service) Evaluate(playerID string, signals PlayerSignals) Verdict {
	verdict := s.classifier.Classify(signals)

	s.cache.Add(playerID, cachedVerdict{
		verdict:   verdict,
		timestamp: time.Now(),
	})

	if verdict.Standing != StandingCleared {
		slog.Info("Player failed standing check",
			slog.String("type", "engine"),
			slog.String("player_id", playerID),
			slog.String("standing", verdict.Standing.String()),
			slog.String("reason", verdict.Reason))
	}

	return verdict
}

// LastVerdict returns the most recent verdict recorded for the player, if one
// is still cached.
func (s *Service) LastVerdict(playerID string) (Verdict, bool) {
	entry, ok := s.cache.Get(playerID)
	if !ok {
		return Verdict{}, false
	}
	return entry.(cachedVerdict).verdict, true
}
