// Package primegen is the opaque prime-generation collaborator this module's
// key agreement treats as an external source: it knows nothing about curves
// or fields, only how to produce a probable prime within a caller-requested
// magnitude range.
package primegen

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

// ErrInvalidRange is returned when lo is not smaller than hi, or when either
// bound is non-positive.
var ErrInvalidRange = errors.New("primegen: invalid range")

// ErrRangeExhausted is returned by InRange when MaxAttempts candidates were
// rejected without finding a prime. This is only expected for very narrow
// ranges.
var ErrRangeExhausted = errors.New("primegen: no prime found in range within attempt budget")

// MaxAttempts bounds InRange's rejection sampling. Zero means unbounded.
var MaxAttempts = 100000

// Bits generates a random prime of exactly the given bit length, delegating
// directly to crypto/rand.Prime.
func Bits(r io.Reader, bits int) (*big.Int, error) {
	return rand.Prime(r, bits)
}

// InRange generates a probable prime p with lo <= p < hi by rejection
// sampling: draw a uniform candidate in the range and test it with
// ProbablyPrime, retrying on composite hits. This is the primitive
// KeyAgreement's initiator uses to pick a field modulus of a caller-chosen
// magnitude rather than an exact bit length.
func InRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo.Sign() <= 0 || hi.Cmp(lo) <= 0 {
		return nil, ErrInvalidRange
	}
	span := new(big.Int).Sub(hi, lo)
	for attempts := 0; MaxAttempts == 0 || attempts < MaxAttempts; attempts++ {
		offset, err := rand.Int(r, span)
		if err != nil {
			return nil, err
		}
		candidate := new(big.Int).Add(lo, offset)
		candidate.SetBit(candidate, 0, 1) // odd, primality tests skip evens cheaply
		if candidate.Cmp(hi) >= 0 {
			continue
		}
		if candidate.ProbablyPrime(32) {
			return candidate, nil
		}
	}
	return nil, ErrRangeExhausted
}
