package economy

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playvault/reward-engine/rewardengine/economy/staking"
)

func newTestCoordinator() *Coordinator {
	clock := staking.ClockFunc(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})
	return NewCoordinator(staking.NewLedger(staking.NewMemoryStore(), clock))
}

func TestCoordinator_ProcessReward(t *testing.T) {
	c := newTestCoordinator()

	outcome, err := c.ProcessReward(100)
	if err != nil {
		t.Fatalf("ProcessReward() error = %v", err)
	}
	if outcome.InstantClaim != 30 || outcome.StakingIncentive != 20 || outcome.ProtocolOperations != 50 {
		t.Errorf("ProcessReward() split = %d/%d/%d, want 30/20/50",
			outcome.InstantClaim, outcome.StakingIncentive, outcome.ProtocolOperations)
	}
	if outcome.StakingStats.TotalStaked != 0 {
		t.Errorf("StakingStats.TotalStaked = %d, want 0", outcome.StakingStats.TotalStaked)
	}

	status := c.Status()
	if status.TotalRewardsEver != 100 {
		t.Errorf("TotalRewardsEver = %d, want 100", status.TotalRewardsEver)
	}
	if status.UserPoolEver != 50 {
		t.Errorf("UserPoolEver = %d, want 50", status.UserPoolEver)
	}
	if status.ProtocolPoolEver != 50 {
		t.Errorf("ProtocolPoolEver = %d, want 50", status.ProtocolPoolEver)
	}
}

func TestCoordinator_ProcessReward_Negative(t *testing.T) {
	c := newTestCoordinator()

	if _, err := c.ProcessReward(-10); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("ProcessReward(-10) error = %v, want ErrNegativeAmount", err)
	}
	// rejected rewards never touch the totals
	if status := c.Status(); status.TotalRewardsEver != 0 {
		t.Errorf("TotalRewardsEver = %d, want 0 after rejection", status.TotalRewardsEver)
	}
}

func TestCoordinator_StakeDelegation(t *testing.T) {
	c := newTestCoordinator()

	position, err := c.Stake("user-1", 1000)
	if err != nil {
		t.Fatalf("Stake() error = %v", err)
	}

	book := c.GetBook("user-1")
	if book.TotalStaked != 1000 {
		t.Errorf("GetBook() totalStaked = %d, want 1000", book.TotalStaked)
	}

	// ledger errors surface unchanged through the coordinator
	var lockErr *staking.LockActiveError
	if _, err := c.Unstake("user-1", position.ID); !errors.As(err, &lockErr) {
		t.Errorf("Unstake() error = %v, want LockActiveError", err)
	}
	if _, err := c.Unstake("stranger", position.ID); !errors.Is(err, staking.ErrNoBook) {
		t.Errorf("Unstake() error = %v, want ErrNoBook", err)
	}
	if _, err := c.Stake("user-1", 0); !errors.Is(err, staking.ErrInvalidAmount) {
		t.Errorf("Stake(0) error = %v, want ErrInvalidAmount", err)
	}

	stats := c.StakingStats()
	if stats.TotalStaked != 1000 || stats.StakeCount != 1 {
		t.Errorf("StakingStats() = %+v, want one 1000 position", stats)
	}
}

func TestCoordinator_Status_Sustainability(t *testing.T) {
	c := newTestCoordinator()

	if got := c.Status().SustainabilityRatio; got != 1.25 {
		t.Errorf("SustainabilityRatio = %v, want 1.25", got)
	}
}

func TestCoordinator_ConcurrentRewards(t *testing.T) {
	c := newTestCoordinator()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := c.ProcessReward(100); err != nil {
					t.Errorf("ProcessReward() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	status := c.Status()
	want := int64(workers * perWorker * 100)
	if status.TotalRewardsEver != want {
		t.Errorf("TotalRewardsEver = %d, want %d", status.TotalRewardsEver, want)
	}
	if status.UserPoolEver+status.ProtocolPoolEver != want {
		t.Errorf("pools sum = %d, want %d", status.UserPoolEver+status.ProtocolPoolEver, want)
	}
}
