package dlog

import (
	"math/big"
	"sort"

	"github.com/5p4k/goec/group"
)

// babyEntry is one row of Shanks's sorted baby-step table: the canonical
// encoding of j*a paired with j itself.
type babyEntry struct {
	key []byte
	j   int64
}

// Shanks returns the smallest non-negative k in [0, bs*gs) such that
// k*base = target, using the baby-step/giant-step time-space tradeoff.
// Complexity is O((bs+gs)*log(bs)) time and O(bs) space.
func Shanks(base, target group.Element, bs, gs int64) (*big.Int, error) {
	table := make([]babyEntry, 0, bs+1)
	acc := base.Combine(base.Inverse()) // identity
	for j := int64(0); j <= bs; j++ {
		table = append(table, babyEntry{key: acc.Canonical(), j: j})
		acc = acc.Combine(base)
	}
	// A stable sort keeps equal keys in ascending j, so the search below
	// finds the smallest j when base's order is at most bs.
	sort.SliceStable(table, func(i, k int) bool {
		return compareBytes(table[i].key, table[k].key) < 0
	})

	// step = -(bs)*base, the amount by which each giant step retreats the
	// probe back toward the baby table.
	bsBase := group.ScalarMul(base, big.NewInt(bs))
	step := bsBase.Inverse()

	probe := target
	for i := int64(0); i < gs; i++ {
		key := probe.Canonical()
		idx := sort.Search(len(table), func(k int) bool {
			return compareBytes(table[k].key, key) >= 0
		})
		if idx < len(table) && compareBytes(table[idx].key, key) == 0 {
			return big.NewInt(i*bs + table[idx].j), nil
		}
		probe = probe.Combine(step)
	}
	return nil, ErrNoSolution
}

// AutoShanks delegates to Shanks with bs = gs = ceil(sqrt(n)), the standard
// parametrization when the group order n (or an upper bound on it) is
// known.
func AutoShanks(base, target group.Element, n *big.Int) (*big.Int, error) {
	step := ceilSqrt(n)
	return Shanks(base, target, step.Int64(), step.Int64())
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func ceilSqrt(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return big.NewInt(1)
	}
	r := new(big.Int).Sqrt(n)
	sq := new(big.Int).Mul(r, r)
	if sq.Cmp(n) != 0 {
		r.Add(r, big.NewInt(1))
	}
	return r
}
