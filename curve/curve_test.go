package curve_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/5p4k/goec/curve"
)

func mustCurve(t *testing.T, a, b, c, p int64) *curve.Curve {
	t.Helper()
	cv, err := curve.New(big.NewInt(a), big.NewInt(b), big.NewInt(c), big.NewInt(p), curve.StrictnessStrict)
	require.NoError(t, err)
	return cv
}

func mustAffine(t *testing.T, c *curve.Curve, x, y int64) *curve.Point {
	t.Helper()
	p, err := curve.Affine(c, big.NewInt(x), big.NewInt(y))
	require.NoError(t, err)
	return p
}

// TestSmallCurveArithmetic is scenario S1: fixed sums, multiples and the
// cardinality on y² = x³ + 5x + 2 over F_967.
func TestSmallCurveArithmetic(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 8, 39)
	q := mustAffine(t, c, 40, 185)

	sum, err := p.Add(q)
	require.NoError(t, err)
	requireAffine(t, sum, 309, 703)

	doubled, err := p.Add(p)
	require.NoError(t, err)
	requireAffine(t, doubled, 756, 105)

	requireAffine(t, p.ScalarMul(big.NewInt(3)), 157, 602)
	requireAffine(t, p.ScalarMul(big.NewInt(4)), 783, 349)
	requireAffine(t, p.ScalarMul(big.NewInt(345)), 697, 843)

	n, err := c.Cardinality(rand.Reader)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(976), n)
}

// TestIdentityLaws is scenario S2.
func TestIdentityLaws(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	o := curve.Identity(c)

	require.True(t, o.Equal(o.ScalarMul(big.NewInt(2))))
	require.True(t, o.Equal(o.Neg()))
	require.True(t, o.Equal(o.ScalarMul(big.NewInt(50))))

	p := mustAffine(t, c, 8, 39)
	sum, err := p.Add(o)
	require.NoError(t, err)
	require.True(t, sum.Equal(p))

	sum, err = o.Add(p)
	require.NoError(t, err)
	require.True(t, sum.Equal(p))

	require.True(t, p.ScalarMul(big.NewInt(0)).IsIdentity())

	negSum, err := p.Add(p.Neg())
	require.NoError(t, err)
	require.True(t, negSum.IsIdentity())
}

// TestMediumCurveCardinality is scenario S3.
func TestMediumCurveCardinality(t *testing.T) {
	c := mustCurve(t, 1, 2, 300, 25169)
	n, err := c.Cardinality(rand.Reader)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(25136), n)

	for i := 0; i < 5; i++ {
		p, err := c.PickPoint(rand.Reader)
		require.NoError(t, err)
		require.True(t, p.ScalarMul(n).IsIdentity())
	}
}

func TestMixedCurvesRejected(t *testing.T) {
	c1 := mustCurve(t, 0, 5, 2, 967)
	c2 := mustCurve(t, 1, 2, 300, 25169)
	p := mustAffine(t, c1, 8, 39)
	q, err := curve.Affine(c2, big.NewInt(1), big.NewInt(1))
	require.Error(t, err) // (1,1) likely not on c2; pick a real point instead
	_ = q

	qOnC2, err := c2.PickPoint(rand.Reader)
	require.NoError(t, err)
	_, err = p.Add(qOnC2)
	require.ErrorIs(t, err, curve.ErrMixedCurves)
}

func TestSingularCurveRejected(t *testing.T) {
	// y^2 = x^3 has discriminant 0.
	_, err := curve.New(big.NewInt(0), big.NewInt(0), big.NewInt(0), big.NewInt(967), curve.StrictnessStrict)
	require.ErrorIs(t, err, curve.ErrSingularCurve)
}

func TestNonPrimeModulusRejected(t *testing.T) {
	_, err := curve.New(big.NewInt(0), big.NewInt(5), big.NewInt(2), big.NewInt(968), curve.StrictnessStrict)
	require.ErrorIs(t, err, curve.ErrNotPrime)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := mustCurve(t, 0, 5, 2, 967)
	p := mustAffine(t, c, 8, 39)

	encoded := curve.Encode(p)
	decoded, err := curve.Decode(c, encoded)
	require.NoError(t, err)
	require.True(t, p.Equal(decoded))

	o := curve.Identity(c)
	encodedO := curve.Encode(o)
	require.NotEqual(t, encoded[0], encodedO[0])

	decodedO, err := curve.Decode(c, encodedO)
	require.NoError(t, err)
	require.True(t, decodedO.IsIdentity())
}

func requireAffine(t *testing.T, p *curve.Point, x, y int64) {
	t.Helper()
	gotX, gotY, ok := p.XY()
	require.True(t, ok)
	require.Equal(t, big.NewInt(x), gotX)
	require.Equal(t, big.NewInt(y), gotY)
}
