package field_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/5p4k/goec/field"
)

func mustPrime(t *testing.T, n int64) *field.Prime {
	t.Helper()
	p, err := field.NewPrime(big.NewInt(n))
	require.NoError(t, err)
	return p
}

func TestNewPrimeRejectsComposite(t *testing.T) {
	_, err := field.NewPrime(big.NewInt(21))
	require.ErrorIs(t, err, field.ErrNotPrime)
}

func TestNewPrimeRejectsSmall(t *testing.T) {
	_, err := field.NewPrime(big.NewInt(3))
	require.ErrorIs(t, err, field.ErrNotPrime)
}

func TestAddSubMulCanonicalize(t *testing.T) {
	f := mustPrime(t, 967)
	sum := f.Add(big.NewInt(900), big.NewInt(900))
	require.Equal(t, big.NewInt(833), sum)

	diff := f.Sub(big.NewInt(5), big.NewInt(10))
	require.Equal(t, big.NewInt(962), diff)

	prod := f.Mul(big.NewInt(500), big.NewInt(500))
	require.Equal(t, new(big.Int).Mod(big.NewInt(250000), big.NewInt(967)), prod)
}

func TestInverse(t *testing.T) {
	f := mustPrime(t, 967)
	inv, err := f.Inverse(big.NewInt(39))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), f.Mul(big.NewInt(39), inv))
}

func TestInverseOfZeroFails(t *testing.T) {
	f := mustPrime(t, 967)
	_, err := f.Inverse(big.NewInt(0))
	require.ErrorIs(t, err, field.ErrNotInvertible)
	_, err = f.Inverse(big.NewInt(967))
	require.ErrorIs(t, err, field.ErrNotInvertible)
}

func TestSqrtFastPath(t *testing.T) {
	// 967 ≡ 3 (mod 4), so this exercises the fast path.
	f := mustPrime(t, 967)
	n := f.Mul(big.NewInt(123), big.NewInt(123))
	r0, r1, err := f.Sqrt(n)
	require.NoError(t, err)
	require.Equal(t, n, f.Mul(r0, r0))
	require.Equal(t, n, f.Mul(r1, r1))
	require.NotEqual(t, r0, r1)
}

func TestSqrtGeneralPath(t *testing.T) {
	// 17 ≡ 1 (mod 4): exercises Tonelli-Shanks.
	f := mustPrime(t, 17)
	for x := int64(1); x < 17; x++ {
		n := f.Mul(big.NewInt(x), big.NewInt(x))
		r0, r1, err := f.Sqrt(n)
		require.NoError(t, err)
		require.Equal(t, n, f.Mul(r0, r0))
		require.Equal(t, n, f.Mul(r1, r1))
	}
}

func TestSqrtRejectsNonResidue(t *testing.T) {
	f := mustPrime(t, 17)
	// 3 is a quadratic non-residue mod 17.
	_, _, err := f.Sqrt(big.NewInt(3))
	require.ErrorIs(t, err, field.ErrNotASquare)
}

func TestSqrtOfZero(t *testing.T) {
	f := mustPrime(t, 967)
	r0, r1, err := f.Sqrt(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0), r0)
	require.Equal(t, big.NewInt(0), r1)
}
