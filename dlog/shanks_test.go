package dlog_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/5p4k/goec/dlog"
)

func TestAutoShanksFindsDiscreteLog(t *testing.T) {
	n := int64(1009) // prime group order
	base := newZmod(1, n)
	for _, k := range []int64{0, 1, 2, 500, 1008} {
		target := newZmod(k, n)
		got, err := dlog.AutoShanks(base, target, big.NewInt(n))
		require.NoError(t, err)
		require.Equal(t, big.NewInt(k), got)
	}
}

func TestAutoShanksRejectsOutOfSubgroup(t *testing.T) {
	// base generates the subgroup of even residues mod 10; target=3 is odd
	// and therefore outside <base>.
	n := int64(10)
	base := newZmod(2, n)
	target := newZmod(3, n)
	_, err := dlog.AutoShanks(base, target, big.NewInt(5))
	require.ErrorIs(t, err, dlog.ErrNoSolution)
}

func TestShanksWithExplicitSteps(t *testing.T) {
	n := int64(97)
	base := newZmod(1, n)
	target := newZmod(42, n)
	got, err := dlog.Shanks(base, target, 10, 10)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), got)
}
