// Package field implements exact arithmetic modulo a prime p: the
// ModularArithmetic component that every other package in this module is
// built on. Field elements are represented as arbitrary-precision integers
// canonicalized to the range [0, p); there is no 64-bit truncation anywhere,
// since curve parameters and scalars here routinely exceed 2^32.
package field

import (
	"errors"
	"math/big"
)

// ErrNotInvertible is returned by Inverse when the operand is a zero divisor
// modulo p (i.e. congruent to 0).
var ErrNotInvertible = errors.New("field: operand has no multiplicative inverse mod p")

// ErrNotASquare is returned by Sqrt when the operand is a quadratic
// non-residue modulo p.
var ErrNotASquare = errors.New("field: operand is not a quadratic residue mod p")

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// Prime is an immutable modulus p used to perform F_p arithmetic. The zero
// value is not usable; construct one with NewPrime.
type Prime struct {
	p *big.Int
}

// NewPrime validates that p is a prime greater than 3 and returns the
// modulus wrapping it. p is not mutated, nor is the caller's pointer kept:
// the value is copied so that Prime is immutable after construction.
func NewPrime(p *big.Int) (*Prime, error) {
	if p.Cmp(three) <= 0 || !p.ProbablyPrime(32) {
		return nil, ErrNotPrime
	}
	return &Prime{p: new(big.Int).Set(p)}, nil
}

// ErrNotPrime is returned by NewPrime when the supplied modulus is composite
// or not greater than 3.
var ErrNotPrime = errors.New("field: modulus is not a prime greater than 3")

// Modulus returns the prime p itself. Callers must not mutate the result.
func (f *Prime) Modulus() *big.Int {
	return f.p
}

// Reduce canonicalizes x to [0, p).
func (f *Prime) Reduce(x *big.Int) *big.Int {
	r := new(big.Int).Mod(x, f.p)
	return r
}

// Add returns (x+y) mod p.
func (f *Prime) Add(x, y *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Add(x, y))
}

// Sub returns (x-y) mod p.
func (f *Prime) Sub(x, y *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Sub(x, y))
}

// Neg returns (-x) mod p.
func (f *Prime) Neg(x *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Neg(x))
}

// Mul returns (x*y) mod p.
func (f *Prime) Mul(x, y *big.Int) *big.Int {
	return f.Reduce(new(big.Int).Mul(x, y))
}

// Exp returns (x^e) mod p for a non-negative exponent e.
func (f *Prime) Exp(x, e *big.Int) *big.Int {
	return new(big.Int).Exp(x, e, f.p)
}

// Inverse returns the multiplicative inverse of x mod p via the extended
// Euclidean algorithm, or ErrNotInvertible when x is congruent to 0 mod p.
func (f *Prime) Inverse(x *big.Int) (*big.Int, error) {
	x = f.Reduce(x)
	if x.Sign() == 0 {
		return nil, ErrNotInvertible
	}
	inv := new(big.Int).ModInverse(x, f.p)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// Sqrt returns the pair of square roots {r, p-r} of n mod p, or
// ErrNotASquare if n is a quadratic non-residue. When p ≡ 3 (mod 4) the fast
// path r = n^((p+1)/4) mod p is used and verified; otherwise Tonelli-Shanks
// is used. Either returned root is acceptable to callers; which one comes
// first carries no meaning.
func (f *Prime) Sqrt(n *big.Int) (r0, r1 *big.Int, err error) {
	n = f.Reduce(n)
	if n.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0), nil
	}

	var r *big.Int
	if new(big.Int).And(f.p, three).Cmp(three) == 0 {
		// p ≡ 3 (mod 4): r = n^((p+1)/4) mod p
		exp := new(big.Int).Add(f.p, one)
		exp.Div(exp, four)
		r = f.Exp(n, exp)
		if f.Mul(r, r).Cmp(n) != 0 {
			return nil, nil, ErrNotASquare
		}
	} else {
		r, err = f.tonelliShanks(n)
		if err != nil {
			return nil, nil, err
		}
	}

	other := f.Neg(r)
	if other.Cmp(r) < 0 {
		return other, r, nil
	}
	return r, other, nil
}

// tonelliShanks implements the general modular square root algorithm for an
// arbitrary odd prime p. See Tonelli (1891) / Shanks (1973).
func (f *Prime) tonelliShanks(n *big.Int) (*big.Int, error) {
	p := f.p

	// Confirm n is a quadratic residue via Euler's criterion.
	legendre := f.Exp(n, new(big.Int).Rsh(new(big.Int).Sub(p, one), 1))
	if legendre.Cmp(one) != 0 {
		return nil, ErrNotASquare
	}

	// Factor p-1 = q * 2^s with q odd.
	q := new(big.Int).Sub(p, one)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	// Find a quadratic non-residue z.
	z := big.NewInt(2)
	for f.Exp(z, new(big.Int).Rsh(new(big.Int).Sub(p, one), 1)).Cmp(new(big.Int).Sub(p, one)) != 0 {
		z.Add(z, one)
	}

	m := s
	c := f.Exp(z, q)
	t := f.Exp(n, q)
	rExp := new(big.Int).Add(q, one)
	rExp.Rsh(rExp, 1)
	r := f.Exp(n, rExp)

	for {
		if t.Cmp(one) == 0 {
			return r, nil
		}
		// Find least i, 0 < i < m, such that t^(2^i) == 1.
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt = f.Mul(tt, tt)
			i++
			if i == m {
				return nil, ErrNotASquare
			}
		}
		b := f.Exp(c, new(big.Int).Lsh(one, uint(m-i-1)))
		m = i
		c = f.Mul(b, b)
		t = f.Mul(t, c)
		r = f.Mul(r, b)
	}
}
