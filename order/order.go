// Package order implements OrderTools: point-order computation against a
// curve's already-known (or lazily computed) cardinality, and the
// generator-search procedure used to instantiate key agreement.
package order

import (
	"errors"
	"io"
	"math/big"

	"github.com/5p4k/goec/curve"
	"github.com/5p4k/goec/factor"
)

// ErrNoGenerator is returned by PickGenerator when MaxGeneratorAttempts
// samples were drawn without finding an element of full order. This is
// expected to be rare for the intended use case (prime or near-prime
// cofactor) and near-certain for a curve whose group is not cyclic, where
// the spec's reimplementation would otherwise loop forever.
var ErrNoGenerator = errors.New("order: no generator found within sample budget")

// MaxGeneratorAttempts bounds PickGenerator's search. Zero means unbounded.
var MaxGeneratorAttempts = 10000

// ComputeOrder returns the order m of p: the smallest positive integer m
// such that m*p is the identity. m necessarily divides the curve's
// cardinality (computed lazily if not already cached), so the algorithm
// factors the cardinality and walks its divisors in ascending order,
// returning the first that annihilates p. When the cardinality is prime, a
// non-identity point is settled after two probes (1 and the cardinality).
func ComputeOrder(p *curve.Point, r io.Reader) (*big.Int, error) {
	n, err := p.Curve().Cardinality(r)
	if err != nil {
		return nil, err
	}
	return orderDividing(p, n)
}

// OrderInFactorGroup returns the order of p within the cyclic subgroup of
// order q, given that q divides the curve's cardinality and p is known to
// lie in a subgroup whose order divides q. It is the per-prime-power
// reduction OrderTools exposes for callers that already know a bound
// tighter than the full cardinality — the same information Pohlig-Hellman
// would otherwise rederive from scratch for each prime power.
func OrderInFactorGroup(p *curve.Point, q *big.Int) (*big.Int, error) {
	return orderDividing(p, q)
}

// orderDividing returns the smallest divisor d of n with d*p = O.
func orderDividing(p *curve.Point, n *big.Int) (*big.Int, error) {
	factorization, err := factor.Factor(n)
	if err != nil {
		return nil, err
	}
	for _, d := range factorization.Divisors() {
		if p.ScalarMul(d).IsIdentity() {
			return d, nil
		}
	}
	// Unreachable given a correct factorization: n itself is always a
	// valid divisor and n*p = O follows from Lagrange's theorem.
	return nil, errors.New("order: no divisor of n annihilates p")
}

// PickGenerator searches for a point whose order equals the curve's full
// cardinality n, returning the first such sample found. For a cyclic group
// a sampled point has order n with probability φ(n)/n, so the expected
// number of attempts is small whenever n has few, large prime factors —
// the case this module's key agreement relies on. If the group is not
// cyclic this search can never succeed; MaxGeneratorAttempts bounds it and
// reports ErrNoGenerator instead of looping forever.
func PickGenerator(c *curve.Curve, r io.Reader) (*curve.Point, error) {
	n, err := c.Cardinality(r)
	if err != nil {
		return nil, err
	}

	for attempts := 0; MaxGeneratorAttempts == 0 || attempts < MaxGeneratorAttempts; attempts++ {
		p, err := c.PickPoint(r)
		if err != nil {
			return nil, err
		}
		if p.IsIdentity() {
			continue
		}
		ord, err := ComputeOrder(p, r)
		if err != nil {
			return nil, err
		}
		if ord.Cmp(n) == 0 {
			return p, nil
		}
	}
	return nil, ErrNoGenerator
}
