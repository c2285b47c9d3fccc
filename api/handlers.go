package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/playvault/reward-engine/rewardengine/database/repositories"
	"github.com/playvault/reward-engine/rewardengine/economy"
	"github.com/playvault/reward-engine/rewardengine/economy/claim"
	"github.com/playvault/reward-engine/rewardengine/economy/staking"
	"github.com/playvault/reward-engine/rewardengine/standing"
)

// Server wires the engine behind an HTTP surface. Repositories are optional;
// without them the server runs purely in memory.
type Server struct {
	engine   *economy.Coordinator
	standing *standing.Service
	limiter  *claim.Limiter
	stakes   repositories.StakeRepository
	events   repositories.RewardEventRepository
	app      *fiber.App
}

func NewServer(
	engine *economy.Coordinator,
	standingSvc *standing.Service,
	limiter *claim.Limiter,
	stakes repositories.StakeRepository,
	events repositories.RewardEventRepository,
) *Server {
	s := &Server{
		engine:   engine,
		standing: standingSvc,
		limiter:  limiter,
		stakes:   stakes,
		events:   events,
	}

	app := fiber.New(fiber.Config{
		AppName:      "Reward Engine API",
		ServerHeader: "RewardEngine",
		ErrorHandler: CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(LoggingMiddleware())

	v1 := app.Group("/api/v1")
	v1.Get("/health", s.handleHealth)
	v1.Get("/status", s.handleStatus)
	v1.Get("/staking/stats", s.handleStakingStats)

	players := v1.Group("/players/:id")
	players.Post("/classify", s.handleClassify)
	players.Post("/rewards", s.handleReward)
	players.Get("/stakes", s.handleGetBook)
	players.Post("/stakes", s.handleStake)
	players.Delete("/stakes/:stakeID", s.handleUnstake)

	s.app = app
	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// signalsRequest mirrors standing.PlayerSignals for the wire.
type signalsRequest struct {
	VACBanned      bool    `json:"vac_banned"`
	VACBanCount    int     `json:"vac_ban_count"`
	GameBanned     bool    `json:"game_banned"`
	GameBanCount   int     `json:"game_ban_count"`
	AccountAgeDays int     `json:"account_age_days"`
	SuspicionScore float64 `json:"suspicion_score"`
	OwnedGames     int     `json:"owned_games"`
	PlayedGames    int     `json:"played_games"`
	TotalPlaytime  int64   `json:"total_playtime_minutes"`
}

func (r signalsRequest) toSignals() standing.PlayerSignals {
	return standing.PlayerSignals{
		VACBanned:      r.VACBanned,
		VACBanCount:    r.VACBanCount,
		GameBanned:     r.GameBanned,
		GameBanCount:   r.GameBanCount,
		AccountAgeDays: r.AccountAgeDays,
		SuspicionScore: r.SuspicionScore,
		OwnedGames:     r.OwnedGames,
		PlayedGames:    r.PlayedGames,
		TotalPlaytime:  r.TotalPlaytime,
	}
}

type verdictPayload struct {
	Standing string `json:"standing"`
	Reason   string `json:"reason"`
	Eligible bool   `json:"eligible"`
}

func toVerdictPayload(v standing.Verdict) verdictPayload {
	return verdictPayload{
		Standing: v.Standing.String(),
		Reason:   v.Reason,
		Eligible: v.Eligible(),
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return SendSuccess(c, fiber.Map{"status": "healthy"}, "")
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return SendSuccess(c, s.engine.Status(), "")
}

func (s *Server) handleStakingStats(c *fiber.Ctx) error {
	return SendSuccess(c, s.engine.StakingStats(), "")
}

func (s *Server) handleClassify(c *fiber.Ctx) error {
	playerID := c.Params("id")

	var req signalsRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid signals payload", nil)
	}

	verdict := s.standing.Evaluate(playerID, req.toSignals())
	return SendSuccess(c, toVerdictPayload(verdict), "")
}

type rewardRequest struct {
	AchievementID string         `json:"achievement_id"`
	RarityPercent float64        `json:"rarity_percent"`
	Gross         int64          `json:"gross"`
	Signals       signalsRequest `json:"signals"`
}

func (s *Server) handleReward(c *fiber.Ctx) error {
	playerID := c.Params("id")

	var req rewardRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid reward payload", nil)
	}

	verdict := s.standing.Evaluate(playerID, req.Signals.toSignals())
	if !verdict.Eligible() {
		return SendForbidden(c, "player is not eligible for rewards", map[string]string{
			"standing": verdict.Standing.String(),
			"reason":   verdict.Reason,
		})
	}

	if ok, wait := s.limiter.CanClaim(playerID); !ok {
		return SendTooManyRequests(c, "claim rate limit reached", map[string]string{
			"retry_after": wait.Round(time.Second).String(),
		})
	}

	gross := req.Gross
	if gross == 0 && req.RarityPercent > 0 {
		var err error
		gross, err = economy.AchievementReward(req.RarityPercent)
		if err != nil {
			return SendBadRequest(c, err.Error(), nil)
		}
	}

	outcome, err := s.engine.ProcessReward(gross)
	if err != nil {
		if errors.Is(err, economy.ErrNegativeAmount) {
			return SendBadRequest(c, err.Error(), nil)
		}
		return SendInternalServerError(c, "failed to process reward")
	}

	s.limiter.RecordClaim(playerID)
	s.journalReward(c.Context(), playerID, req.AchievementID, outcome)

	return SendCreated(c, outcome, "reward processed")
}

// journalReward is best effort; a journaling failure must not take down a
// payout that already happened in memory.
func (s *Server) journalReward(ctx context.Context, playerID, achievementID string, outcome economy.RewardOutcome) {
	if s.events == nil {
		return
	}
	event := &models.RewardEvent{
		UserID:             playerID,
		AchievementID:      achievementID,
		Gross:              outcome.Gross,
		InstantClaim:       outcome.InstantClaim,
		StakingIncentive:   outcome.StakingIncentive,
		ProtocolOperations: outcome.ProtocolOperations,
		CreatedAt:          time.Now(),
	}
	if err := s.events.Insert(ctx, event); err != nil {
		slog.Error("Failed to journal reward event",
			slog.String("type", "api"),
			slog.String("user_id", playerID),
			slog.String("error", err.Error()))
	}
}

type stakeRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Server) handleStake(c *fiber.Ctx) error {
	playerID := c.Params("id")

	var req stakeRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "invalid stake payload", nil)
	}

	position, err := s.engine.Stake(playerID, req.Amount)
	if err != nil {
		if errors.Is(err, staking.ErrInvalidAmount) {
			return SendBadRequest(c, err.Error(), nil)
		}
		return SendInternalServerError(c, "failed to stake")
	}

	if s.stakes != nil {
		record := &models.StakePosition{
			ID:              position.ID,
			UserID:          position.UserID,
			Principal:       position.Principal,
			LockDays:        position.LockDays,
			BonusMultiplier: position.BonusMultiplier,
			StakedAt:        position.StakedAt,
			UnlockAt:        position.UnlockAt,
			Status:          string(position.Status),
		}
		if err := s.stakes.Insert(c.Context(), record); err != nil {
			slog.Error("Failed to persist stake position",
				slog.String("type", "api"),
				slog.String("stake_id", position.ID),
				slog.String("error", err.Error()))
		}
	}

	return SendCreated(c, position, "stake created")
}

func (s *Server) handleUnstake(c *fiber.Ctx) error {
	playerID := c.Params("id")
	stakeID := c.Params("stakeID")

	payout, err := s.engine.Unstake(playerID, stakeID)
	if err != nil {
		var lockErr *staking.LockActiveError
		switch {
		case errors.As(err, &lockErr):
			return SendConflict(c, lockErr.Error(), map[string]string{
				"unlock_at":      lockErr.UnlockAt.UTC().Format(time.RFC3339),
				"remaining_days": fmt.Sprintf("%d", lockErr.RemainingDays),
			})
		case errors.Is(err, staking.ErrNoBook), errors.Is(err, staking.ErrNotFound):
			return SendNotFound(c, err.Error())
		default:
			return SendInternalServerError(c, "failed to unstake")
		}
	}

	if s.stakes != nil {
		if err := s.stakes.Close(c.Context(), stakeID, payout.Yield, time.Now()); err != nil {
			slog.Error("Failed to close stake position",
				slog.String("type", "api"),
				slog.String("stake_id", stakeID),
				slog.String("error", err.Error()))
		}
	}

	return SendSuccess(c, payout, "stake settled")
}

func (s *Server) handleGetBook(c *fiber.Ctx) error {
	return SendSuccess(c, s.engine.GetBook(c.Params("id")), "")
}
