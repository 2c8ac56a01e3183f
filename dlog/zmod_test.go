package dlog_test

import (
	"math/big"

	"github.com/5p4k/goec/group"
)

// zmod is a minimal additive group Z/nZ used to exercise the generic
// solvers without depending on package curve.
type zmod struct {
	v, n *big.Int
}

func newZmod(v, n int64) zmod {
	return zmod{v: big.NewInt(v), n: big.NewInt(n)}
}

func (z zmod) IsIdentity() bool { return z.v.Sign() == 0 }

func (z zmod) Combine(other group.Element) group.Element {
	o := other.(zmod)
	sum := new(big.Int).Add(z.v, o.v)
	sum.Mod(sum, z.n)
	return zmod{v: sum, n: z.n}
}

func (z zmod) Inverse() group.Element {
	neg := new(big.Int).Neg(z.v)
	neg.Mod(neg, z.n)
	return zmod{v: neg, n: z.n}
}

func (z zmod) SameAs(other group.Element) bool {
	return z.v.Cmp(other.(zmod).v) == 0
}

func (z zmod) Canonical() []byte {
	return z.v.FillBytes(make([]byte, 8))
}
