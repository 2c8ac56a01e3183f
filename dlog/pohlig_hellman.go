package dlog

import (
	"math/big"

	"github.com/5p4k/goec/factor"
	"github.com/5p4k/goec/group"
)

// ErrFactorizationFailed is returned by PohligHellman when n could not be
// fully factored; the algorithm is only sound given the complete
// factorization of n.
var ErrFactorizationFailed = factor.ErrFactorizationFailed

// PohligHellman computes k such that k*base = target, where n is the
// (already known) order of base, by reducing the discrete log modulo each
// prime power in n's factorization and reassembling the result via the
// Chinese Remainder Theorem.
func PohligHellman(base, target group.Element, n *big.Int) (*big.Int, error) {
	factorization, err := factor.Factor(n)
	if err != nil {
		return nil, err
	}

	moduli := make([]*big.Int, 0, len(factorization.Factors))
	residues := make([]*big.Int, 0, len(factorization.Factors))

	for _, fac := range factorization.Factors {
		q := new(big.Int).Exp(fac.Prime, big.NewInt(int64(fac.Exp)), nil)
		nOverQ := new(big.Int).Div(n, q)

		// a_i = (n/q)*base has order q; b_i = (n/q)*target.
		ai := group.ScalarMul(base, nOverQ)
		bi := group.ScalarMul(target, nOverQ)

		ki, err := pohligHellmanPrimePower(ai, bi, fac.Prime, fac.Exp)
		if err != nil {
			return nil, err
		}

		moduli = append(moduli, q)
		residues = append(residues, ki)
	}

	k, err := crt(residues, moduli)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(k, n), nil
}

// pohligHellmanPrimePower solves k*a = b where a has order p^e, computing
// k digit by digit in base p as described by the module's design: at each
// digit d, reduce the residual target into the order-p subgroup and solve
// a single discrete log there via AutoShanks.
func pohligHellmanPrimePower(a, b group.Element, p *big.Int, e int) (*big.Int, error) {
	pExp := func(exp int) *big.Int {
		return new(big.Int).Exp(p, big.NewInt(int64(exp)), nil)
	}

	x := big.NewInt(0)
	// aAtOrderP = p^(e-1) * a has order p.
	aAtOrderP := group.ScalarMul(a, pExp(e-1))

	for d := 0; d < e; d++ {
		// residual = b - x*a, so far accumulated.
		xa := group.ScalarMul(a, x)
		residual := b.Combine(xa.Inverse())

		target := group.ScalarMul(residual, pExp(e-1-d))

		xd, err := AutoShanks(aAtOrderP, target, p)
		if err != nil {
			return nil, err
		}

		x = new(big.Int).Add(x, new(big.Int).Mul(xd, pExp(d)))
	}
	return new(big.Int).Mod(x, pExp(e)), nil
}

// crt reassembles x from x ≡ residues[i] (mod moduli[i]) via the Chinese
// Remainder Theorem. The moduli here are always pairwise coprime prime
// powers drawn from a single factorization.
func crt(residues, moduli []*big.Int) (*big.Int, error) {
	x := big.NewInt(0)
	n := big.NewInt(1)
	for i := range residues {
		m := moduli[i]
		r := residues[i]

		// Solve x + n*t ≡ r (mod m) for t.
		diff := new(big.Int).Sub(r, x)
		nInvModM := new(big.Int).ModInverse(n, m)
		if nInvModM == nil {
			return nil, ErrNoSolution
		}
		t := new(big.Int).Mul(diff, nInvModM)
		t.Mod(t, m)

		x = new(big.Int).Add(x, new(big.Int).Mul(n, t))
		n = new(big.Int).Mul(n, m)
		x = new(big.Int).Mod(x, n)
	}
	return x, nil
}
