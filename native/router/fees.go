package router

import (
	"github.com/holiman/uint256"
)

// maxUint128Bits bounds every intermediate of the fee computation. The fee
// protocol is specified over unsigned 128-bit integers; anything wider is a
// configuration bug surfaced as ErrFeeOverflow rather than wrapped or clamped.
const maxUint128Bits = 128

func fitsUint128(v *uint256.Int) bool {
	return v.BitLen() <= maxUint128Bits
}

// pow128 computes base^exp, failing once the value leaves the 128-bit range.
func pow128(base uint64, exp uint8) (*uint256.Int, error) {
	result := uint256.NewInt(1)
	b := uint256.NewInt(base)
	for i := uint8(0); i < exp; i++ {
		if _, overflow := result.MulOverflow(result, b); overflow || !fitsUint128(result) {
			return nil, ErrFeeOverflow
		}
	}
	return result, nil
}

// SplitFee computes the fee taken from a deposit and the remainder forwarded
// to the recipient. feeRate and feeDecimals encode the percentage
// feeRate/10^feeDecimals, so:
//
//	rate = feeRate * 10^feeDecimals
//	fee  = floor(amount * rate / (100^feeDecimals * 100))
//
// Truncating fixed-point percentage arithmetic over unsigned 128-bit values.
// fee + remaining == amount always holds on success. A fee exceeding the
// amount is a hard failure, not a clamp: it means the configured rate takes
// more than 100% of a deposit.
func SplitFee(amount, feeRate *uint256.Int, feeDecimals uint8) (fee, remaining *uint256.Int, err error) {
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	if feeRate == nil {
		feeRate = uint256.NewInt(0)
	}
	if !fitsUint128(amount) || !fitsUint128(feeRate) {
		return nil, nil, ErrFeeOverflow
	}

	scale, err := pow128(10, feeDecimals)
	if err != nil {
		return nil, nil, err
	}
	rate := new(uint256.Int)
	if _, overflow := rate.MulOverflow(feeRate, scale); overflow || !fitsUint128(rate) {
		return nil, nil, ErrFeeOverflow
	}

	product := new(uint256.Int)
	if _, overflow := product.MulOverflow(amount, rate); overflow || !fitsUint128(product) {
		return nil, nil, ErrFeeOverflow
	}

	divisor, err := pow128(100, feeDecimals)
	if err != nil {
		return nil, nil, err
	}
	if _, overflow := divisor.MulOverflow(divisor, uint256.NewInt(100)); overflow || !fitsUint128(divisor) {
		return nil, nil, ErrFeeOverflow
	}

	fee = new(uint256.Int).Div(product, divisor)
	if fee.Gt(amount) {
		return nil, nil, ErrFeeExceedsAmount
	}
	remaining = new(uint256.Int).Sub(amount, fee)
	return fee, remaining, nil
}
