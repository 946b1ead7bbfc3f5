package router

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestSplitFeePercentages(t *testing.T) {
	cases := []struct {
		name        string
		amount      uint64
		feeRate     uint64
		feeDecimals uint8
		wantFee     uint64
		wantNet     uint64
	}{
		{name: "five percent", amount: 1000, feeRate: 5, feeDecimals: 0, wantFee: 50, wantNet: 950},
		{name: "zero rate", amount: 1000, feeRate: 0, feeDecimals: 0, wantFee: 0, wantNet: 1000},
		{name: "zero amount", amount: 0, feeRate: 5, feeDecimals: 0, wantFee: 0, wantNet: 0},
		{name: "half percent", amount: 1000, feeRate: 5, feeDecimals: 1, wantFee: 5, wantNet: 995},
		{name: "quarter percent floors", amount: 999, feeRate: 25, feeDecimals: 2, wantFee: 2, wantNet: 997},
		{name: "sub unit fee floors to zero", amount: 19, feeRate: 5, feeDecimals: 0, wantFee: 0, wantNet: 19},
		{name: "full hundred percent", amount: 1234, feeRate: 100, feeDecimals: 0, wantFee: 1234, wantNet: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, net, err := SplitFee(uint256.NewInt(tc.amount), uint256.NewInt(tc.feeRate), tc.feeDecimals)
			if err != nil {
				t.Fatalf("split fee: %v", err)
			}
			if fee.Uint64() != tc.wantFee {
				t.Fatalf("fee mismatch: got %s want %d", fee, tc.wantFee)
			}
			if net.Uint64() != tc.wantNet {
				t.Fatalf("net mismatch: got %s want %d", net, tc.wantNet)
			}
		})
	}
}

func TestSplitFeeConservation(t *testing.T) {
	amounts := []uint64{0, 1, 7, 99, 100, 999, 1000, 123456789}
	rates := []uint64{0, 1, 3, 5, 25, 50, 99, 100}
	decimals := []uint8{0, 1, 2, 3}
	for _, amount := range amounts {
		for _, rate := range rates {
			for _, dec := range decimals {
				fee, net, err := SplitFee(uint256.NewInt(amount), uint256.NewInt(rate), dec)
				if err != nil {
					t.Fatalf("split fee amount=%d rate=%d dec=%d: %v", amount, rate, dec, err)
				}
				sum := new(uint256.Int).Add(fee, net)
				if sum.Uint64() != amount {
					t.Fatalf("conservation violated: %s + %s != %d", fee, net, amount)
				}
				if fee.Gt(uint256.NewInt(amount)) {
					t.Fatalf("fee %s exceeds amount %d", fee, amount)
				}
			}
		}
	}
}

func TestSplitFeeOverHundredPercentFails(t *testing.T) {
	_, _, err := SplitFee(uint256.NewInt(1000), uint256.NewInt(150), 0)
	if !errors.Is(err, ErrFeeExceedsAmount) {
		t.Fatalf("expected ErrFeeExceedsAmount, got %v", err)
	}
}

func TestSplitFeeOverflowFails(t *testing.T) {
	maxU128 := new(uint256.Int).Sub(
		new(uint256.Int).Lsh(uint256.NewInt(1), 128),
		uint256.NewInt(1),
	)

	// amount * rate leaves the 128-bit range.
	if _, _, err := SplitFee(maxU128, uint256.NewInt(2), 0); !errors.Is(err, ErrFeeOverflow) {
		t.Fatalf("expected ErrFeeOverflow for wide product, got %v", err)
	}

	// 10^decimals alone leaves the 128-bit range.
	if _, _, err := SplitFee(uint256.NewInt(10), uint256.NewInt(1), 39); !errors.Is(err, ErrFeeOverflow) {
		t.Fatalf("expected ErrFeeOverflow for wide scale, got %v", err)
	}

	// Inputs wider than 128 bits are rejected outright.
	tooWide := new(uint256.Int).Lsh(uint256.NewInt(1), 129)
	if _, _, err := SplitFee(tooWide, uint256.NewInt(1), 0); !errors.Is(err, ErrFeeOverflow) {
		t.Fatalf("expected ErrFeeOverflow for wide amount, got %v", err)
	}
}

func TestSplitFeeNilInputs(t *testing.T) {
	fee, net, err := SplitFee(nil, nil, 0)
	if err != nil {
		t.Fatalf("split fee: %v", err)
	}
	if !fee.IsZero() || !net.IsZero() {
		t.Fatalf("expected zero split, got fee=%s net=%s", fee, net)
	}
}
