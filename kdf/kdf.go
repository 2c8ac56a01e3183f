// Package kdf is the opaque key-derivation collaborator: a function from a
// point's canonical encoding to a fixed-length session key. It knows nothing
// about curves; it only consumes bytes.
package kdf

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length in bytes of a derived session key: 32 bytes, the
// key size streamcipher expects.
const KeySize = 32

// info is fixed rather than caller-supplied: this module derives exactly
// one kind of key, a chat session key, so there is nothing to domain-separate
// against.
var info = []byte("goec key agreement session key")

// DeriveSessionKey expands the shared secret (the canonical encoding of the
// key-agreement shared point) into a KeySize-byte session key via
// HKDF-SHA256, with no salt: the shared secret is already high-entropy and
// unique per session, so a salt would add nothing.
func DeriveSessionKey(sharedSecret []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, sharedSecret, nil, info)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}
