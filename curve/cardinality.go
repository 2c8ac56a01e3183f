package curve

import (
	"errors"
	"io"
	"math/big"

	"github.com/5p4k/goec/dlog"
	"github.com/5p4k/goec/factor"
)

// ErrCardinalityNotDetermined is returned by Cardinality when
// MaxCardinalitySamples sampled points were not enough to pin down a
// unique candidate inside the Hasse interval. This guards against a
// pathological random source stalling the algorithm forever; it is not
// part of the core algebra, which has no inherent sample bound.
var ErrCardinalityNotDetermined = errors.New("curve: cardinality not determined within sample cap")

// MaxCardinalitySamples bounds how many points Cardinality will sample
// before giving up with ErrCardinalityNotDetermined. Zero means unbounded,
// matching the source algorithm's unbounded sampling loop.
var MaxCardinalitySamples = 10000

// Cardinality returns #C, the number of rational points on c (including the
// identity), computing it on first call and caching the result thereafter.
// The cache write is serialized by an internal mutex and is idempotent, so
// concurrent callers always observe the same value.
//
// The algorithm repeatedly samples points and accumulates the least common
// multiple of their exact orders (each of which necessarily divides #C),
// clamped to the Hasse interval [p+1-2√p, p+1+2√p]. It terminates as soon
// as the accumulated LCM has exactly one multiple inside that interval:
// at that point the accumulator could not possibly be anything but #C.
func (c *Curve) Cardinality(r io.Reader) (*big.Int, error) {
	c.cardinalityMu.Lock()
	defer c.cardinalityMu.Unlock()

	if c.cardinality != nil {
		return c.cardinality, nil
	}

	lo, hi := c.hasseInterval()
	l := big.NewInt(1)

	for samples := 0; MaxCardinalitySamples == 0 || samples < MaxCardinalitySamples; samples++ {
		p, err := c.PickPoint(r)
		if err != nil {
			return nil, err
		}

		m, err := dlog.OrderUpTo(p.AsElement(), hi)
		if err != nil {
			return nil, err
		}
		l = factor.Lcm(l, m)

		if candidate, ok := uniqueMultipleInInterval(l, lo, hi); ok {
			c.cardinality = candidate
			return candidate, nil
		}
	}
	return nil, ErrCardinalityNotDetermined
}

// uniqueMultipleInInterval reports whether exactly one multiple of l lies
// within [lo, hi], returning it when so.
func uniqueMultipleInInterval(l, lo, hi *big.Int) (*big.Int, bool) {
	// Smallest multiple of l that is >= lo.
	q, rem := new(big.Int).QuoRem(lo, l, new(big.Int))
	first := new(big.Int).Mul(q, l)
	if rem.Sign() != 0 {
		first.Add(first, l)
	}
	if first.Cmp(hi) > 0 {
		return nil, false
	}
	second := new(big.Int).Add(first, l)
	if second.Cmp(hi) <= 0 {
		return nil, false
	}
	return first, true
}
