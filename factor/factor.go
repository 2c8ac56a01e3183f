// Package factor provides the prime factorization and divisor enumeration
// used by Pohlig-Hellman's prime-power reduction and by OrderTools' exact
// point-order computation.
package factor

import (
	"errors"
	"math/big"
	"sort"
)

// ErrFactorizationFailed is returned by Factor when n could not be fully
// factored within its trial-division and Pollard-rho budget. Pohlig-Hellman
// is only sound given the complete factorization, so a partial result is
// reported as a distinct failure rather than silently used.
var ErrFactorizationFailed = errors.New("factor: could not fully factor n within budget")

// PrimePower is one prime power p^e in a factorization.
type PrimePower struct {
	Prime *big.Int
	Exp   int
}

// Factorization is the list of prime powers whose product is n, in
// ascending order of Prime.
type Factorization struct {
	N       *big.Int
	Factors []PrimePower
}

// trialDivisionBound caps the cost of the trial-division phase; primes
// larger than this are handed to Pollard's rho.
var trialDivisionBound = int64(1_000_000)

// rhoAttempts bounds how many times Pollard's rho is retried (with a fresh
// pseudo-random polynomial constant) against a single composite before
// Factor gives up and reports ErrFactorizationFailed.
const rhoAttempts = 64

// Factor returns the complete prime factorization of n, or
// ErrFactorizationFailed if the budget above is exhausted first.
func Factor(n *big.Int) (*Factorization, error) {
	remaining := new(big.Int).Set(n)
	factors := map[string]int{}
	primeByKey := map[string]*big.Int{}

	record := func(p *big.Int) {
		key := p.String()
		primeByKey[key] = p
		factors[key]++
	}

	// Trial division by small primes.
	for _, sp := range smallPrimes(trialDivisionBound) {
		p := big.NewInt(sp)
		for new(big.Int).Mod(remaining, p).Sign() == 0 {
			record(p)
			remaining.Div(remaining, p)
		}
		if remaining.Cmp(big.NewInt(1)) == 0 {
			break
		}
	}

	// Whatever remains is either 1, prime, or a product of large primes
	// recoverable via Pollard's rho.
	stack := []*big.Int{}
	if remaining.Cmp(big.NewInt(1)) > 0 {
		stack = append(stack, remaining)
	}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if m.ProbablyPrime(40) {
			record(m)
			continue
		}
		d, err := pollardRho(m)
		if err != nil {
			return nil, ErrFactorizationFailed
		}
		stack = append(stack, d, new(big.Int).Div(m, d))
	}

	result := &Factorization{N: new(big.Int).Set(n)}
	for key, exp := range factors {
		result.Factors = append(result.Factors, PrimePower{Prime: primeByKey[key], Exp: exp})
	}
	sort.Slice(result.Factors, func(i, j int) bool {
		return result.Factors[i].Prime.Cmp(result.Factors[j].Prime) < 0
	})
	return result, nil
}

// pollardRho finds one (not necessarily prime) non-trivial factor of the
// composite m using Pollard's rho with Floyd cycle detection, retrying
// with a different pseudo-random constant on failure.
func pollardRho(m *big.Int) (*big.Int, error) {
	if m.Bit(0) == 0 {
		return big.NewInt(2), nil
	}

	one := big.NewInt(1)
	for attempt := int64(1); attempt <= rhoAttempts; attempt++ {
		c := big.NewInt(attempt)
		f := func(x *big.Int) *big.Int {
			x2 := new(big.Int).Mul(x, x)
			x2.Add(x2, c)
			return x2.Mod(x2, m)
		}

		x := big.NewInt(2)
		y := big.NewInt(2)
		d := big.NewInt(1)
		for d.Cmp(one) == 0 {
			x = f(x)
			y = f(f(y))
			diff := new(big.Int).Sub(x, y)
			diff.Abs(diff)
			if diff.Sign() == 0 {
				break
			}
			d = new(big.Int).GCD(nil, nil, diff, m)
		}
		if d.Cmp(one) != 0 && d.Cmp(m) != 0 {
			return d, nil
		}
	}
	return nil, ErrFactorizationFailed
}

// smallPrimes returns every prime up to and including bound via a sieve of
// Eratosthenes, used to seed trial division.
func smallPrimes(bound int64) []int64 {
	sieve := make([]bool, bound+1)
	var primes []int64
	for i := int64(2); i <= bound; i++ {
		if sieve[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= bound; j += i {
			sieve[j] = true
		}
	}
	return primes
}

// Divisors returns every positive divisor of the factored integer in
// ascending order, walking the exponent vector of the factorization.
func (fz *Factorization) Divisors() []*big.Int {
	divisors := []*big.Int{big.NewInt(1)}
	for _, fac := range fz.Factors {
		existing := divisors
		divisors = make([]*big.Int, 0, len(existing)*(fac.Exp+1))
		power := big.NewInt(1)
		for e := 0; e <= fac.Exp; e++ {
			for _, d := range existing {
				divisors = append(divisors, new(big.Int).Mul(d, power))
			}
			power = new(big.Int).Mul(power, fac.Prime)
		}
	}
	sort.Slice(divisors, func(i, j int) bool { return divisors[i].Cmp(divisors[j]) < 0 })
	return divisors
}

// Lcm returns the least common multiple of a and b.
func Lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return big.NewInt(0)
	}
	gcd := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	return new(big.Int).Mul(new(big.Int).Div(a, gcd), b)
}
