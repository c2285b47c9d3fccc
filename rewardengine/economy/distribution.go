package economy

import (
	"errors"
)

// Split ratios expressed in tenths so the math stays in integers. Minor token
// units never go fractional; every division floors.
const (
	userShareTenths    = 5 // half of every gross reward goes to the player
	instantClaimTenths = 6 // of the user share, 60% is claimable right away

	hostingTenths     = 4
	securityTenths    = 3
	developmentTenths = 2
	reserveTenths     = 1
)

var ErrNegativeAmount = errors.New("gross amount must not be negative")

// OperationsBreakdown divides the protocol share into its running-cost
// buckets. Each bucket is floored independently, so the four buckets may
// undershoot the protocol share by up to three minor units; that residual
// stays unallocated.
type OperationsBreakdown struct {
	Hosting     int64 `json:"hosting"`
	Security    int64 `json:"security"`
	Development int64 `json:"development"`
	Reserve     int64 `json:"reserve"`
}

// Total returns the sum of the four buckets.
func (b OperationsBreakdown) Total() int64 {
	return b.Hosting + b.Security + b.Development + b.Reserve
}

// Distribution is the exact split of one gross reward.
// InstantClaim + StakingIncentive + ProtocolOperations always equals Gross.
type Distribution struct {
	Gross              int64               `json:"gross"`
	InstantClaim       int64               `json:"instant_claim"`
	StakingIncentive   int64               `json:"staking_incentive"`
	ProtocolOperations int64               `json:"protocol_operations"`
	Operations         OperationsBreakdown `json:"operations_breakdown"`
}

// Distributor splits gross reward amounts. It is deterministic and side
// effect free; applying the split to persistent pools is the coordinator's
// job.
type Distributor struct{}

func NewDistributor() *Distributor {
	return &Distributor{}
}

// Distribute splits gross into user-claimable, staking-incentive and
// protocol-operations amounts. The remainder of each floor split lands on the
// counterpart bucket (protocol share, staking incentive) so the three top
// level parts always sum exactly to gross. A gross of zero is valid and
// yields an all-zero distribution.
func (d *Distributor) Distribute(gross int64) (Distribution, error) {
	if gross < 0 {
		return Distribution{}, ErrNegativeAmount
	}

	userShare := gross * userShareTenths / 10
	protocolShare := gross - userShare

	instantClaim := userShare * instantClaimTenths / 10
	stakingIncentive := userShare - instantClaim

	return Distribution{
		Gross:              gross,
		InstantClaim:       instantClaim,
		StakingIncentive:   stakingIncentive,
		ProtocolOperations: protocolShare,
		Operations: OperationsBreakdown{
			Hosting:     protocolShare * hostingTenths / 10,
			Security:    protocolShare * securityTenths / 10,
			Development: protocolShare * developmentTenths / 10,
			Reserve:     protocolShare * reserveTenths / 10,
		},
	}, nil
}
