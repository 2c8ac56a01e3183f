package keyagreement_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/5p4k/goec/keyagreement"
)

func newHandshakePair(t *testing.T) (*keyagreement.Initiator, *keyagreement.Responder) {
	t.Helper()
	lo := big.NewInt(1 << 12)
	hi := big.NewInt(1 << 13)

	initiator, err := keyagreement.NewInitiator(rand.Reader, lo, hi)
	require.NoError(t, err)
	require.Equal(t, keyagreement.ParamsSent, initiator.State())

	responder, err := keyagreement.NewResponder(rand.Reader, initiator.Params())
	require.NoError(t, err)
	require.Equal(t, keyagreement.SharedPointDerived, responder.State())

	require.NoError(t, initiator.ReceivePeerPoint(responder.Public()))
	require.Equal(t, keyagreement.SharedPointDerived, initiator.State())

	return initiator, responder
}

func TestFullHandshakeAgreesOnKey(t *testing.T) {
	initiator, responder := newHandshakePair(t)

	initiatorKey, err := initiator.SessionKey()
	require.NoError(t, err)
	responderKey, err := responder.SessionKey()
	require.NoError(t, err)
	require.Equal(t, initiatorKey, responderKey)
}

func TestConfirmationRoundTrip(t *testing.T) {
	initiator, responder := newHandshakePair(t)

	initiatorTag, err := initiator.ConfirmationTag()
	require.NoError(t, err)
	responderTag, err := responder.ConfirmationTag()
	require.NoError(t, err)

	require.NoError(t, responder.VerifyPeerTag(initiatorTag))
	require.Equal(t, keyagreement.Confirmed, responder.State())

	require.NoError(t, initiator.VerifyPeerTag(responderTag))
	require.Equal(t, keyagreement.Confirmed, initiator.State())
}

func TestVerifyPeerTagRejectsGarbage(t *testing.T) {
	initiator, _ := newHandshakePair(t)

	err := initiator.VerifyPeerTag([]byte("not a valid tag"))
	require.ErrorIs(t, err, keyagreement.ErrProtocolMismatch)
}

func TestNewResponderRejectsMismatchedPublicPoint(t *testing.T) {
	lo := big.NewInt(1 << 12)
	hi := big.NewInt(1 << 13)

	initiator, err := keyagreement.NewInitiator(rand.Reader, lo, hi)
	require.NoError(t, err)

	otherInitiator, err := keyagreement.NewInitiator(rand.Reader, lo, hi)
	require.NoError(t, err)

	params := initiator.Params()
	params.Public = otherInitiator.Params().Generator

	_, err = keyagreement.NewResponder(rand.Reader, params)
	require.Error(t, err)
}
