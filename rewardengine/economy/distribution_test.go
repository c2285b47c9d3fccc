package economy

import (
	"errors"
	"testing"
)

func TestDistributor_Distribute(t *testing.T) {
	d := NewDistributor()

	tests := []struct {
		name  string
		gross int64
		want  Distribution
	}{
		{
			name:  "even hundred",
			gross: 100,
			want: Distribution{
				Gross:              100,
				InstantClaim:       30,
				StakingIncentive:   20,
				ProtocolOperations: 50,
				Operations: OperationsBreakdown{
					Hosting:     20,
					Security:    15,
					Development: 10,
					Reserve:     5,
				},
			},
		},
		{
			name:  "zero gross",
			gross: 0,
			want:  Distribution{},
		},
		{
			name:  "single unit",
			gross: 1,
			want: Distribution{
				Gross:              1,
				InstantClaim:       0,
				StakingIncentive:   0,
				ProtocolOperations: 1,
			},
		},
		{
			name:  "odd gross floors toward protocol and staking",
			gross: 999,
			want: Distribution{
				Gross:              999,
				InstantClaim:       299, // floor(499 * 6/10)
				StakingIncentive:   200,
				ProtocolOperations: 500,
				Operations: OperationsBreakdown{
					Hosting:     200,
					Security:    150,
					Development: 100,
					Reserve:     50,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Distribute(tt.gross)
			if err != nil {
				t.Fatalf("Distribute(%d) error = %v", tt.gross, err)
			}
			if got != tt.want {
				t.Errorf("Distribute(%d) = %+v, want %+v", tt.gross, got, tt.want)
			}
		})
	}
}

func TestDistributor_Distribute_Negative(t *testing.T) {
	d := NewDistributor()

	if _, err := d.Distribute(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("Distribute(-1) error = %v, want ErrNegativeAmount", err)
	}
}

// The three top level parts must reconstruct gross exactly for every amount,
// and the operations buckets may undershoot the protocol share by at most
// three minor units.
func TestDistributor_Distribute_SumInvariant(t *testing.T) {
	d := NewDistributor()

	grosses := []int64{0, 1, 2, 3, 7, 9, 10, 11, 99, 100, 101, 999, 12345, 1_000_003}
	for g := int64(0); g < 200; g++ {
		grosses = append(grosses, g)
	}

	for _, gross := range grosses {
		dist, err := d.Distribute(gross)
		if err != nil {
			t.Fatalf("Distribute(%d) error = %v", gross, err)
		}

		sum := dist.InstantClaim + dist.StakingIncentive + dist.ProtocolOperations
		if sum != gross {
			t.Fatalf("Distribute(%d): parts sum to %d", gross, sum)
		}

		residual := dist.ProtocolOperations - dist.Operations.Total()
		if residual < 0 || residual > 3 {
			t.Fatalf("Distribute(%d): operations residual = %d, want 0..3", gross, residual)
		}
	}
}
