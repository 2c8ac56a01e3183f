package dlog_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/5p4k/goec/dlog"
)

func TestPohligHellmanMatchesAutoShanks(t *testing.T) {
	// 1000 = 2^3 * 5^3, a composite order exercising multiple prime powers.
	n := int64(1000)
	base := newZmod(1, n)
	for _, k := range []int64{0, 1, 343, 999} {
		target := newZmod(k, n)

		want, err := dlog.AutoShanks(base, target, big.NewInt(n))
		require.NoError(t, err)

		got, err := dlog.PohligHellman(base, target, big.NewInt(n))
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, big.NewInt(k), got)
	}
}

func TestPohligHellmanRejectsOutOfSubgroup(t *testing.T) {
	n := int64(10)
	base := newZmod(2, n) // generates the even subgroup {0,2,4,6,8}
	target := newZmod(3, n)
	_, err := dlog.PohligHellman(base, target, big.NewInt(5))
	require.Error(t, err)
}
