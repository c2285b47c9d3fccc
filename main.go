package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playvault/reward-engine/api"
	"github.com/playvault/reward-engine/rewardengine"
	"github.com/playvault/reward-engine/rewardengine/database"
	"github.com/playvault/reward-engine/rewardengine/database/repositories"
	"github.com/playvault/reward-engine/rewardengine/economy"
	"github.com/playvault/reward-engine/rewardengine/economy/claim"
	"github.com/playvault/reward-engine/rewardengine/economy/staking"
	"github.com/playvault/reward-engine/rewardengine/logger"
	"github.com/playvault/reward-engine/rewardengine/migration"
	"github.com/playvault/reward-engine/rewardengine/services"
	"github.com/playvault/reward-engine/rewardengine/standing"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Initialize custom logger
	customHandler := logger.NewHandler("RewardEngine")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Reward Engine",
		slog.String("version", version),
		slog.String("commit", commit))

	importLegacy := flag.String("import-legacy", "", "directory with legacy BSON stake dumps to import, then exit")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := rewardengine.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	// Repositories
	stakeRepo := repositories.NewStakeRepository(db.BunDB())
	eventRepo := repositories.NewRewardEventRepository(db.BunDB())
	statsRepo := repositories.NewStakingStatsRepository(db.BunDB())

	// One-shot legacy import mode
	if *importLegacy != "" {
		migrator := migration.NewMigrator(db.BunDB(), *importLegacy)
		if err := migrator.MigrateStakes(ctx); err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Legacy import finished")
		return
	}

	// Warm the in-memory ledger from persisted active positions
	ledger := staking.NewLedger(staking.NewMemoryStore(), staking.SystemClock())
	active, err := stakeRepo.GetAllActive(ctx)
	if err != nil {
		slog.Error("Failed to load active stake positions", slog.Any("error", err))
		os.Exit(-1)
	}
	if len(active) > 0 {
		positions := make([]staking.Position, len(active))
		for i, record := range active {
			positions[i] = staking.Position{
				ID:              record.ID,
				UserID:          record.UserID,
				Principal:       record.Principal,
				LockDays:        record.LockDays,
				BonusMultiplier: record.BonusMultiplier,
				StakedAt:        record.StakedAt,
				UnlockAt:        record.UnlockAt,
			}
		}
		ledger.Restore(positions)
		slog.Info("Staking ledger warmed from database",
			slog.Int("positions", len(active)),
			slog.Int64("total_staked", ledger.TotalStaked()))
	}

	engine := economy.NewCoordinator(ledger)
	standingSvc := standing.NewService()

	limiter := claim.NewLimiter(cfg.Claims.Cooldown())
	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	limiter.StartCleanupRoutine(runCtx)

	monitor := economy.NewStakingMonitor(ledger, statsRepo)
	monitor.Start(runCtx)

	if cfg.Spaces.Key != "" {
		snapshots := services.NewSnapshotService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.Root,
			ledger,
		)
		interval := time.Duration(cfg.Spaces.Interval) * time.Minute
		if interval <= 0 {
			interval = time.Hour
		}
		snapshots.StartExportRoutine(runCtx, interval)
	}

	server := api.NewServer(engine, standingSvc, limiter, stakeRepo, eventRepo)
	go func() {
		if err := server.Listen(cfg.Server.Addr()); err != nil {
			slog.Error("HTTP server stopped",
				slog.String("type", "sys"),
				slog.Any("error", err))
			os.Exit(-1)
		}
	}()

	logger.LogSystem("Reward engine is running. Press CTRL-C to exit.",
		slog.String("addr", cfg.Server.Addr()))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	logger.LogSystem("Shutting down...")
	runCancel()
	if err := server.Shutdown(); err != nil {
		logger.LogError("Server shutdown failed", err)
	}
}
