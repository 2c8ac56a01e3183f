// Package streamcipher is the opaque symmetric-cipher collaborator used
// after key agreement: a stream cipher keyed by the bytes kdf produces. It
// wraps ChaCha20-Poly1305, which in an AEAD sense subsumes the "confidential
// stream of frames" role this module needs for chat messages and for the
// key-agreement confirmation tags.
package streamcipher

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertextTooShort is returned by Open when the input is shorter than a
// nonce.
var ErrCiphertextTooShort = errors.New("streamcipher: ciphertext shorter than nonce")

// Session is a keyed cipher instance: Seal and Open are safe to call
// repeatedly with fresh random nonces prepended to each output.
type Session struct {
	aead cipher.AEAD
}

// New builds a Session from a key produced by kdf.DeriveSessionKey.
func New(key []byte) (*Session, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &Session{aead: aead}, nil
}

// Seal encrypts plaintext, authenticating additionalData, and returns
// nonce || ciphertext.
func (s *Session) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open reverses Seal, verifying additionalData.
func (s *Session) Open(sealed, additionalData []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := sealed[:n], sealed[n:]
	return s.aead.Open(nil, nonce, ciphertext, additionalData)
}

// SealTag produces the confirmation tag KeyAgreement's confirmation step
// exchanges: an AEAD seal, under a fresh random nonce, of an empty plaintext
// over the transcript, which doubles as a MAC since ChaCha20-Poly1305's tag
// alone authenticates additionalData. The output differs on every call;
// OpenTag accepts any of them for the same transcript.
func (s *Session) SealTag(transcript []byte) ([]byte, error) {
	return s.Seal(nil, transcript)
}

// OpenTag verifies a confirmation tag produced by SealTag against the same
// transcript.
func (s *Session) OpenTag(tag, transcript []byte) error {
	_, err := s.Open(tag, transcript)
	return err
}
