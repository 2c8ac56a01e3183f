package curve_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVerticalChordYieldsIdentity covers case 3 of Add: same x, different y.
func TestVerticalChordYieldsIdentity(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 8, 39)
	q := p.Neg()

	sum, err := p.Add(q)
	require.NoError(t, err)
	require.True(t, sum.IsIdentity())
}

// TestZeroTangentDoublingYieldsIdentity covers the vertical-tangent guard
// inside the doubling branch: a point with y = 0 doubles to the identity.
func TestZeroTangentDoublingYieldsIdentity(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 442, 0)

	doubled, err := p.Add(p)
	require.NoError(t, err)
	require.True(t, doubled.IsIdentity())
}

// TestScalarMulConsistency checks (j+k)P = jP + kP and j(kP) = (jk)P, a
// sample of the scalar-multiplication consistency laws.
func TestScalarMulConsistency(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 8, 39)
	j := big.NewInt(11)
	k := big.NewInt(23)

	jp := p.ScalarMul(j)
	kp := p.ScalarMul(k)
	sum, err := jp.Add(kp)
	require.NoError(t, err)

	jPlusK := new(big.Int).Add(j, k)
	require.True(t, p.ScalarMul(jPlusK).Equal(sum))

	jk := new(big.Int).Mul(j, k)
	require.True(t, p.ScalarMul(jk).Equal(jp.ScalarMul(k)))
}

// TestNegativeScalarMulMatchesNegation checks (-1)*P = -P and, more
// generally, (-k)*P = k*(-P).
func TestNegativeScalarMulMatchesNegation(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 8, 39)

	require.True(t, p.ScalarMul(big.NewInt(-1)).Equal(p.Neg()))

	k := big.NewInt(17)
	negK := new(big.Int).Neg(k)
	require.True(t, p.ScalarMul(negK).Equal(p.Neg().ScalarMul(k)))
}

func TestGroupAssociativity(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 8, 39)
	q := mustAffine(t, c, 40, 185)
	r := p.ScalarMul(big.NewInt(7))

	pq, err := p.Add(q)
	require.NoError(t, err)
	left, err := pq.Add(r)
	require.NoError(t, err)

	qr, err := q.Add(r)
	require.NoError(t, err)
	right, err := p.Add(qr)
	require.NoError(t, err)

	require.True(t, left.Equal(right))
}
