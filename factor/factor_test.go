package factor_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/5p4k/goec/factor"
)

func TestFactorSmallComposite(t *testing.T) {
	fz, err := factor.Factor(big.NewInt(360)) // 2^3 * 3^2 * 5
	require.NoError(t, err)

	got := map[string]int{}
	for _, f := range fz.Factors {
		got[f.Prime.String()] = f.Exp
	}
	require.Equal(t, map[string]int{"2": 3, "3": 2, "5": 1}, got)
}

func TestFactorPrime(t *testing.T) {
	fz, err := factor.Factor(big.NewInt(25169))
	require.NoError(t, err)
	require.Len(t, fz.Factors, 1)
	require.Equal(t, big.NewInt(25169), fz.Factors[0].Prime)
	require.Equal(t, 1, fz.Factors[0].Exp)
}

func TestFactorLargerCompositeWithRepeatedPrime(t *testing.T) {
	// 25136 = 2^4 * 1571
	fz, err := factor.Factor(big.NewInt(25136))
	require.NoError(t, err)

	got := map[string]int{}
	for _, f := range fz.Factors {
		got[f.Prime.String()] = f.Exp
	}
	require.Equal(t, map[string]int{"2": 4, "1571": 1}, got)
}

func TestDivisorsAscendingAndComplete(t *testing.T) {
	fz, err := factor.Factor(big.NewInt(12)) // divisors: 1,2,3,4,6,12
	require.NoError(t, err)

	var got []int64
	for _, d := range fz.Divisors() {
		got = append(got, d.Int64())
	}
	require.Equal(t, []int64{1, 2, 3, 4, 6, 12}, got)
}

func TestLcm(t *testing.T) {
	require.Equal(t, big.NewInt(12), factor.Lcm(big.NewInt(4), big.NewInt(6)))
	require.Equal(t, big.NewInt(0), factor.Lcm(big.NewInt(0), big.NewInt(6)))
	require.Equal(t, big.NewInt(7), factor.Lcm(big.NewInt(1), big.NewInt(7)))
}
