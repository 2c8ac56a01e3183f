package dlog

import (
	"errors"
	"math/big"
	"sort"

	"github.com/5p4k/goec/group"
)

// ErrOrderNotFound is returned by OrderUpTo when no positive n <= bound
// satisfies n*e = identity; this means bound was too small; the real order
// of e exceeds it.
var ErrOrderNotFound = errors.New("dlog: no element order found within bound")

// OrderUpTo returns the smallest positive integer n <= bound such that
// n*e equals the identity, via a baby-step/giant-step search over
// [1, bound]. Unlike Shanks, this never trivially returns n=0 (since the
// identity is always 0*e) — the baby table is built from strictly positive
// multiples of e, so the smallest hit found is e's true order whenever it
// is <= bound.
//
// This is the bootstrapping primitive cardinality() uses to learn the
// exact order of sampled points without already knowing the group's
// cardinality; it's also what lets a single bounded search stand in for
// the spec's "structural reduction" used to compute a point's own order.
func OrderUpTo(e group.Element, bound *big.Int) (*big.Int, error) {
	if bound.Sign() <= 0 {
		return nil, ErrOrderNotFound
	}
	step := ceilSqrt(bound)
	bs := step.Int64()
	gs := bs

	identity := e.Combine(e.Inverse())

	table := make([]babyEntry, 0, bs)
	acc := e
	for j := int64(1); j <= bs; j++ {
		table = append(table, babyEntry{key: acc.Canonical(), j: j})
		if acc.SameAs(identity) {
			// e's order divides j and is <= bs; the smallest such j
			// found via linear scan here is already e's exact order.
			return findExactOrder(e, j), nil
		}
		acc = acc.Combine(e)
	}
	sortBabyEntries(table)

	bsElement := group.ScalarMul(e, big.NewInt(bs))
	negBsElement := bsElement.Inverse()

	probe := identity
	for i := int64(0); i < gs; i++ {
		key := probe.Canonical()
		if idx, ok := searchBabyEntries(table, key); ok {
			n := i*bs + table[idx].j
			if n > 0 {
				// The first hit is e's exact order; it may still exceed
				// bound, since bs*gs can be larger than bound.
				if big.NewInt(n).Cmp(bound) > 0 {
					return nil, ErrOrderNotFound
				}
				return findExactOrder(e, n), nil
			}
		}
		probe = probe.Combine(negBsElement)
	}
	return nil, ErrOrderNotFound
}

// findExactOrder reduces a known multiple m of e's order down to the exact
// order by testing each of m's divisors in ascending order. m never exceeds
// the bound given to OrderUpTo, and trial division only runs up to √m, so
// this is cheap.
func findExactOrder(e group.Element, m int64) *big.Int {
	identity := e.Combine(e.Inverse())
	var divisors []int64
	for d := int64(1); d*d <= m; d++ {
		if m%d != 0 {
			continue
		}
		divisors = append(divisors, d)
		if complement := m / d; complement != d {
			divisors = append(divisors, complement)
		}
	}
	sort.Slice(divisors, func(i, j int) bool { return divisors[i] < divisors[j] })
	for _, d := range divisors {
		if group.ScalarMul(e, big.NewInt(d)).SameAs(identity) {
			return big.NewInt(d)
		}
	}
	return big.NewInt(m)
}

func sortBabyEntries(table []babyEntry) {
	// insertion sort is fine: table sizes here are O(sqrt(bound)).
	for i := 1; i < len(table); i++ {
		for j := i; j > 0 && compareBytes(table[j-1].key, table[j].key) > 0; j-- {
			table[j-1], table[j] = table[j], table[j-1]
		}
	}
}

func searchBabyEntries(table []babyEntry, key []byte) (int, bool) {
	lo, hi := 0, len(table)
	for lo < hi {
		mid := (lo + hi) / 2
		if compareBytes(table[mid].key, key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(table) && compareBytes(table[lo].key, key) == 0 {
		return lo, true
	}
	return 0, false
}
