package migration

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playvault/reward-engine/rewardengine/database/models"
	"github.com/playvault/reward-engine/rewardengine/logger"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
)

// Migrator imports stake positions from the retired Mongo-backed service.
// Input is a raw BSON dump (mongodump format, one document after another).
type Migrator struct {
	pgDB       *bun.DB
	dataDir    string
	stakesPath string
	batchSize  int
	stats      MigrationStats
}

func NewMigrator(pgDB *bun.DB, dataDir string) *Migrator {
	return &Migrator{
		pgDB:       pgDB,
		dataDir:    dataDir,
		stakesPath: filepath.Join(dataDir, "stakes.bson"),
		batchSize:  1000,
		stats: MigrationStats{
			Tables:    map[string]*TableStats{"stake_positions": {}},
			StartTime: time.Now(),
		},
	}
}

// SetBatchSize overrides the default batch size for inserts
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

func (m *Migrator) Stats() MigrationStats {
	return m.stats
}

// MigrateStakes reads the legacy dump and inserts the positions. Existing IDs
// are left untouched, so reruns are safe.
func (m *Migrator) MigrateStakes(ctx context.Context) error {
	slog.Info("Starting stake migration",
		"stakesPath", m.stakesPath,
		"batchSize", m.batchSize)

	file, err := os.Open(m.stakesPath)
	if err != nil {
		slog.Error("Failed to open stakes BSON file", "error", err)
		return fmt.Errorf("failed to open stakes BSON file: %w", err)
	}
	defer file.Close()

	var legacy []LegacyStake

	reader := bufio.NewReader(file)
	for {
		// Each BSON document starts with an int32 length
		lengthBytes := make([]byte, 4)
		_, err := io.ReadFull(reader, lengthBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Error("Failed to read document length", "error", err)
			return fmt.Errorf("failed to read document length: %w", err)
		}

		length := int32(binary.LittleEndian.Uint32(lengthBytes))
		if length <= 0 {
			slog.Error("Invalid document length", "length", length)
			return fmt.Errorf("invalid document length: %d", length)
		}

		// The length includes the 4 bytes of the length itself
		docBytes := make([]byte, length-4)
		_, err = io.ReadFull(reader, docBytes)
		if err != nil {
			slog.Error("Failed to read document bytes", "error", err)
			return fmt.Errorf("failed to read document bytes: %w", err)
		}

		fullDocBytes := append(lengthBytes, docBytes...)

		var ls LegacyStake
		if err := bson.Unmarshal(fullDocBytes, &ls); err != nil {
			slog.Error("Failed to decode stakes BSON", "error", err)
			return fmt.Errorf("failed to decode stakes BSON: %w", err)
		}
		legacy = append(legacy, ls)
	}

	slog.Info("Loaded stakes from BSON file", "count", len(legacy))

	return m.processStakes(ctx, legacy)
}

func (m *Migrator) processStakes(ctx context.Context, legacy []LegacyStake) error {
	tableStats := m.stats.Tables["stake_positions"]
	tableStats.Read = len(legacy)

	batch := make([]*models.StakePosition, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		start := time.Now()
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		logger.LogQuery("bulk insert stake_positions", time.Since(start), err)
		if err != nil {
			tableStats.Failed += len(batch)
			return fmt.Errorf("failed to insert stake batch: %w", err)
		}
		if rows, err := res.RowsAffected(); err == nil {
			tableStats.Inserted += int(rows)
			tableStats.Skipped += len(batch) - int(rows)
		}
		batch = batch[:0]
		return nil
	}

	for _, ls := range legacy {
		position, ok := convertLegacyStake(ls)
		if !ok {
			tableStats.Skipped++
			continue
		}
		batch = append(batch, position)
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("Stake migration completed",
		"read", tableStats.Read,
		"inserted", tableStats.Inserted,
		"skipped", tableStats.Skipped,
		"took", time.Since(m.stats.StartTime).String())
	return nil
}

// convertLegacyStake maps one legacy document onto the current schema.
// Documents without a user or with a non-positive amount are dropped.
func convertLegacyStake(ls LegacyStake) (*models.StakePosition, bool) {
	userID := strings.TrimSpace(ls.UserID)
	if userID == "" || ls.Amount < 1 {
		return nil, false
	}

	id := strings.TrimSpace(ls.StakeID)
	if id == "" {
		// old documents predate string stake ids
		id = "stake_" + uuid.NewString()
	}

	lockDays := int(ls.LockDays)
	if lockDays <= 0 {
		lockDays = 30
	}
	bonus := ls.Bonus
	if bonus <= 0 {
		bonus = 1.5
	}

	stakedAt := ls.StakedAt
	if stakedAt.IsZero() {
		stakedAt = ls.ID.Timestamp()
	}
	unlockAt := ls.UnlockAt
	if unlockAt.IsZero() {
		unlockAt = stakedAt.Add(time.Duration(lockDays) * 24 * time.Hour)
	}

	status := ls.Status
	if status != "active" && status != "closed" {
		status = "active"
	}

	return &models.StakePosition{
		ID:              id,
		UserID:          userID,
		Principal:       int64(ls.Amount),
		LockDays:        lockDays,
		BonusMultiplier: bonus,
		StakedAt:        stakedAt,
		UnlockAt:        unlockAt,
		Status:          status,
		PaidYield:       ls.Paid,
		ClosedAt:        ls.ClosedAt,
	}, true
}
