package staking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAmount rejects stake commands with a non-positive principal.
	ErrInvalidAmount = errors.New("stake amount must be positive")

	// ErrNoBook means the user has never staked.
	ErrNoBook = errors.New("user has no stake book")

	// ErrNotFound means the stake id is not among the user's active positions.
	ErrNotFound = errors.New("stake position not found")
)

// LockActiveError reports an unstake attempt before the lock expires. It
// carries the remaining whole days so the caller can tell the user when to
// come back.
type LockActiveError struct {
	StakeID       string
	UnlockAt      time.Time
	RemainingDays int64
}

func (e *LockActiveError) Error() string {
	return fmt.Sprintf("stake %s is locked for %d more days (until %s)",
		e.StakeID, e.RemainingDays, e.UnlockAt.UTC().Format(time.RFC3339))
}
