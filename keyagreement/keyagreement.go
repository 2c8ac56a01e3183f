// Package keyagreement implements the thin state machine sitting on top of
// the algebraic core: generate curve parameters and a generator, exchange
// points, derive a shared point, and hand its canonical encoding to the
// external key-derivation function. It is the only library package in this
// module that reaches past the algebraic core into the opaque collaborators
// (primegen, kdf, streamcipher) the rest of the spec treats as external.
package keyagreement

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/5p4k/goec/curve"
	"github.com/5p4k/goec/kdf"
	"github.com/5p4k/goec/order"
	"github.com/5p4k/goec/primegen"
	"github.com/5p4k/goec/streamcipher"
)

// State is a node in the KeyAgreement state machine: Idle, ParamsSent,
// AwaitingPeerPoint, SharedPointDerived, Confirmed.
type State int

const (
	Idle State = iota
	ParamsSent
	AwaitingPeerPoint
	SharedPointDerived
	Confirmed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ParamsSent:
		return "ParamsSent"
	case AwaitingPeerPoint:
		return "AwaitingPeerPoint"
	case SharedPointDerived:
		return "SharedPointDerived"
	case Confirmed:
		return "Confirmed"
	default:
		return "Unknown"
	}
}

// ErrProtocolMismatch is returned when a peer's confirmation tag fails to
// verify against the expected transcript.
var ErrProtocolMismatch = errors.New("keyagreement: confirmation tag did not verify")

// ErrWrongState is returned when a method is called out of order relative
// to the state machine.
var ErrWrongState = errors.New("keyagreement: operation invalid in current state")

// ErrInvalidPeerPoint is returned when the peer's supplied point fails to
// decode or does not lie on the agreed curve.
var ErrInvalidPeerPoint = errors.New("keyagreement: peer point invalid")

// ScalarRejectionAttempts bounds the sampling loop used to find a curve with
// a non-singular discriminant. Zero means unbounded. Private scalars are
// drawn in a single step and are not subject to it.
var ScalarRejectionAttempts = 1000

// session carries the state shared by both roles once params exist.
type session struct {
	state       State
	rng         io.Reader
	curve       *curve.Curve
	generator   *curve.Point
	scalar      *big.Int // the local private exponent
	ownPoint    *curve.Point
	peerPoint   *curve.Point
	shared      *curve.Point
	cipher      *streamcipher.Session
	isResponder bool
}

// Params bundles the curve, its generator and the local public point,
// exactly the six values (p, a, b, c, g, K) the wire encoding in this
// module's curve package carries.
type Params struct {
	Curve     *curve.Curve
	Generator *curve.Point
	Public    *curve.Point
}

// Encode serializes Params per the wire format: curve params followed by
// the encodings of the generator and the public point.
func (p Params) Encode() []byte {
	out := curve.EncodeParams(p.Curve)
	out = append(out, curve.Encode(p.Generator)...)
	out = append(out, curve.Encode(p.Public)...)
	return out
}

// Initiator plays the M role of §4.7: it picks curve parameters and a
// generator, then waits for the peer's public point.
type Initiator struct {
	session
}

// NewInitiator generates a prime in [primeLo, primeHi), curve coefficients
// rejected until non-singular, a generator, and a private scalar, advancing
// to ParamsSent. r is the sole source of randomness, threaded explicitly
// per this module's no-hidden-state discipline.
func NewInitiator(r io.Reader, primeLo, primeHi *big.Int) (*Initiator, error) {
	c, err := sampleCurve(r, primeLo, primeHi)
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: sampling curve parameters")
	}

	g, err := order.PickGenerator(c, r)
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: picking generator")
	}

	n, err := order.ComputeOrder(g, r)
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: computing generator order")
	}

	a, err := sampleScalar(r, n)
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: sampling private scalar")
	}

	return &Initiator{session: session{
		state:     ParamsSent,
		rng:       r,
		curve:     c,
		generator: g,
		scalar:    a,
		ownPoint:  g.ScalarMul(a),
	}}, nil
}

// Params returns the parameters to send to the peer. Valid once the
// Initiator is constructed (state ParamsSent or later).
func (m *Initiator) Params() Params {
	return Params{Curve: m.curve, Generator: m.generator, Public: m.ownPoint}
}

// ReceivePeerPoint consumes the peer's public point B·g, derives the shared
// point A·(B·g), and derives the session key. Valid only from ParamsSent.
func (m *Initiator) ReceivePeerPoint(peerPublic *curve.Point) error {
	return m.session.receivePeerPoint(peerPublic)
}

// ConfirmationTag seals a deterministic tag over the exchanged points,
// ready to send to the peer. Valid once SharedPointDerived.
func (m *Initiator) ConfirmationTag() ([]byte, error) { return m.session.confirmationTag() }

// VerifyPeerTag checks the peer's confirmation tag and, on success,
// advances to Confirmed. Returns ErrProtocolMismatch on failure.
func (m *Initiator) VerifyPeerTag(peerTag []byte) error { return m.session.verifyPeerTag(peerTag) }

// State reports the current state machine node.
func (m *Initiator) State() State { return m.session.state }

// SessionKey returns the derived key once SharedPointDerived or later.
func (m *Initiator) SessionKey() ([]byte, error) { return m.session.sessionKey() }

// Responder plays the D role of §4.7: it receives parameters chosen by the
// initiator, validates them, and replies with its own public point.
type Responder struct {
	session
}

// NewResponder validates the peer's curve parameters and generator, samples
// a private scalar, and computes this side's public point. peerParams.Curve
// must already have passed curve.New's own singularity and primality
// checks; NewResponder additionally checks that the generator and the
// peer's public point lie on that curve, matching §4.7's "validate that g,
// A·g lie on it".
func NewResponder(r io.Reader, peerParams Params) (*Responder, error) {
	if !onCurve(peerParams.Curve, peerParams.Generator) || !onCurve(peerParams.Curve, peerParams.Public) {
		return nil, ErrInvalidPeerPoint
	}

	n, err := order.ComputeOrder(peerParams.Generator, r)
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: computing generator order")
	}

	b, err := sampleScalar(r, n)
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: sampling private scalar")
	}

	resp := &Responder{session: session{
		state:       ParamsSent,
		rng:         r,
		curve:       peerParams.Curve,
		generator:   peerParams.Generator,
		scalar:      b,
		ownPoint:    peerParams.Generator.ScalarMul(b),
		isResponder: true,
	}}

	if err := resp.session.receivePeerPoint(peerParams.Public); err != nil {
		return nil, err
	}
	return resp, nil
}

// Public returns this side's public point B·g, to send back to the
// initiator.
func (d *Responder) Public() *curve.Point { return d.ownPoint }

// ConfirmationTag seals a deterministic tag over the exchanged points,
// ready to send to the peer. Valid once SharedPointDerived.
func (d *Responder) ConfirmationTag() ([]byte, error) { return d.session.confirmationTag() }

// VerifyPeerTag checks the peer's confirmation tag and, on success,
// advances to Confirmed. Returns ErrProtocolMismatch on failure.
func (d *Responder) VerifyPeerTag(peerTag []byte) error { return d.session.verifyPeerTag(peerTag) }

// State reports the current state machine node.
func (d *Responder) State() State { return d.session.state }

// SessionKey returns the derived key once SharedPointDerived or later.
func (d *Responder) SessionKey() ([]byte, error) { return d.session.sessionKey() }

func (s *session) receivePeerPoint(peerPublic *curve.Point) error {
	if s.state != ParamsSent {
		return ErrWrongState
	}
	if !onCurve(s.curve, peerPublic) {
		return ErrInvalidPeerPoint
	}
	s.peerPoint = peerPublic
	s.state = AwaitingPeerPoint

	s.shared = peerPublic.ScalarMul(s.scalar)
	key, err := kdf.DeriveSessionKey(curve.Encode(s.shared))
	if err != nil {
		return errors.Wrap(err, "keyagreement: deriving session key")
	}
	cipher, err := streamcipher.New(key)
	if err != nil {
		return errors.Wrap(err, "keyagreement: initializing session cipher")
	}
	s.cipher = cipher
	s.state = SharedPointDerived
	return nil
}

func (s *session) sessionKey() ([]byte, error) {
	if s.state != SharedPointDerived && s.state != Confirmed {
		return nil, ErrWrongState
	}
	return kdf.DeriveSessionKey(curve.Encode(s.shared))
}

// transcript is the deterministic value both sides' confirmation tags are
// computed over: the initiator's public point A·g followed by the
// responder's public point B·g. The initiator writes own-then-peer and the
// responder peer-then-own, so both sides compute the same bytes only when
// their points genuinely match up.
func (s *session) transcript() []byte {
	agPoint, bgPoint := s.ownPoint, s.peerPoint
	if s.isResponder {
		agPoint, bgPoint = s.peerPoint, s.ownPoint
	}
	return append(curve.Encode(agPoint), curve.Encode(bgPoint)...)
}

func (s *session) confirmationTag() ([]byte, error) {
	if s.state != SharedPointDerived {
		return nil, ErrWrongState
	}
	tag, err := s.cipher.SealTag(s.transcript())
	if err != nil {
		return nil, errors.Wrap(err, "keyagreement: sealing confirmation tag")
	}
	return tag, nil
}

func (s *session) verifyPeerTag(peerTag []byte) error {
	if s.state != SharedPointDerived {
		return ErrWrongState
	}
	if err := s.cipher.OpenTag(peerTag, s.transcript()); err != nil {
		return ErrProtocolMismatch
	}
	s.state = Confirmed
	return nil
}

func onCurve(c *curve.Curve, p *curve.Point) bool {
	if p.IsIdentity() {
		return false
	}
	return p.Curve().Same(c)
}

func sampleCurve(r io.Reader, primeLo, primeHi *big.Int) (*curve.Curve, error) {
	p, err := primegen.InRange(r, primeLo, primeHi)
	if err != nil {
		return nil, err
	}
	for attempts := 0; ScalarRejectionAttempts == 0 || attempts < ScalarRejectionAttempts; attempts++ {
		a, err := cryptoRandBelow(r, p)
		if err != nil {
			return nil, err
		}
		b, err := cryptoRandBelow(r, p)
		if err != nil {
			return nil, err
		}
		c, err := cryptoRandBelow(r, p)
		if err != nil {
			return nil, err
		}
		curveVal, err := curve.New(a, b, c, p, curve.StrictnessStrict)
		if errors.Is(err, curve.ErrSingularCurve) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return curveVal, nil
	}
	return nil, errors.New("keyagreement: could not find a non-singular curve within attempt budget")
}

func sampleScalar(r io.Reader, n *big.Int) (*big.Int, error) {
	// Sample uniformly from [1, n).
	bound := new(big.Int).Sub(n, big.NewInt(1))
	if bound.Sign() <= 0 {
		return big.NewInt(1), nil
	}
	k, err := cryptoRandBelow(r, bound)
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}

// cryptoRandBelow returns a uniform random value in [0, bound).
func cryptoRandBelow(r io.Reader, bound *big.Int) (*big.Int, error) {
	return rand.Int(r, bound)
}
