package trig

import (
	"math/big"

	"github.com/GiovaTC/HEXA-IBM/apperr"
)

// DefaultModulus folds values into whole degrees of a circle.
const DefaultModulus int64 = 360

// MapAngle reduces value into [0, modulus).
func MapAngle(value *big.Int, modulus int64) (int64, error) {
	const op = "map angle"

	if modulus <= 0 {
		return 0, apperr.Newf(apperr.KindInvalidConfiguration, op, "modulus must be positive, got %d", modulus)
	}
	if value == nil || value.Sign() < 0 {
		return 0, apperr.New(apperr.KindInvalidInput, op, "value must be a non-negative integer")
	}

	// Mod is Euclidean, so the result is already non-negative.
	r := new(big.Int).Mod(value, big.NewInt(modulus))
	return r.Int64(), nil
}
