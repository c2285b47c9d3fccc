// types.go
package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyStake is a stake document from the retired Mongo-backed service.
// Numeric fields come back as float64 because the old service wrote plain
// JavaScript numbers.
type LegacyStake struct {
	ID       primitive.ObjectID `bson:"_id"`
	StakeID  string             `bson:"stakeid,omitempty"`
	UserID   string             `bson:"userid"`
	Amount   float64            `bson:"amount"`
	LockDays float64            `bson:"lockdays"`
	Bonus    float64            `bson:"bonus"`
	StakedAt time.Time          `bson:"stakedat"`
	UnlockAt time.Time          `bson:"unlockat"`
	Status   string             `bson:"status"`
	Paid     float64            `bson:"paid"`
	ClosedAt time.Time          `bson:"closedat,omitempty"`
}

// TableStats tracks per-table migration progress
type TableStats struct {
	Read     int
	Inserted int
	Skipped  int
	Failed   int
}

// MigrationStats aggregates the whole run
type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
}
