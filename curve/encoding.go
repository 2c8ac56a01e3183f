package curve

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// ErrInvalidEncoding is returned by Decode when the input is not a
// well-formed encoding of a point on c.
var ErrInvalidEncoding = errors.New("curve: malformed point encoding")

const (
	tagIdentity = 0x00
	tagAffine   = 0x04
)

// coordLen returns the number of bytes ⌈log2(p)/8⌉ used to encode a
// coordinate, per the canonical point encoding.
func (c *Curve) coordLen() int {
	return (c.P().BitLen() + 7) / 8
}

// Encode returns the canonical byte encoding used for equality keys,
// Shanks's sorted baby-step table, and KDF input: a single tag byte 0x00
// for the identity, or 0x04 followed by big-endian x and y each padded to
// ⌈log2(p)/8⌉ bytes for an affine point.
func Encode(p *Point) []byte {
	if p.isIdentity {
		return []byte{tagIdentity}
	}
	n := p.curve.coordLen()
	out := make([]byte, 1+2*n)
	out[0] = tagAffine
	p.x.FillBytes(out[1 : 1+n])
	p.y.FillBytes(out[1+n : 1+2*n])
	return out
}

// Decode reconstructs a Point on c from its canonical encoding, validating
// that an affine encoding lies on the curve.
func Decode(c *Curve, data []byte) (*Point, error) {
	if len(data) == 0 {
		return nil, ErrInvalidEncoding
	}
	switch data[0] {
	case tagIdentity:
		if len(data) != 1 {
			return nil, ErrInvalidEncoding
		}
		return Identity(c), nil
	case tagAffine:
		n := c.coordLen()
		if len(data) != 1+2*n {
			return nil, ErrInvalidEncoding
		}
		x := new(big.Int).SetBytes(data[1 : 1+n])
		y := new(big.Int).SetBytes(data[1+n : 1+2*n])
		return Affine(c, x, y)
	default:
		return nil, ErrInvalidEncoding
	}
}

// EncodedPointLen returns the fixed number of bytes Encode produces for any
// affine point on c (identity encodings are always 1 byte), letting callers
// that concatenate several point encodings on the wire split them back
// apart without an extra length prefix.
func EncodedPointLen(c *Curve) int {
	return 1 + 2*c.coordLen()
}

// EncodeParams serializes the curve's wire form: big-endian length-
// prefixed integers in the order p, a, b, c.
func EncodeParams(c *Curve) []byte {
	var out []byte
	for _, v := range []*big.Int{c.P(), c.a, c.b, c.c} {
		out = append(out, lengthPrefixed(v)...)
	}
	return out
}

// DecodeParams parses a curve's wire form produced by EncodeParams and
// constructs the curve (validating primality and, under strictness,
// non-singularity), returning the number of bytes consumed.
func DecodeParams(data []byte, strictness Strictness) (c *Curve, consumed int, err error) {
	var values [4]*big.Int
	offset := 0
	for i := range values {
		v, n, err := readLengthPrefixed(data[offset:])
		if err != nil {
			return nil, 0, err
		}
		values[i] = v
		offset += n
	}
	c, err = New(values[1], values[2], values[3], values[0], strictness)
	if err != nil {
		return nil, 0, err
	}
	return c, offset, nil
}

func lengthPrefixed(v *big.Int) []byte {
	b := v.Bytes()
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	return append(lenBuf[:], b...)
}

func readLengthPrefixed(data []byte) (*big.Int, int, error) {
	if len(data) < 4 {
		return nil, 0, ErrInvalidEncoding
	}
	length := binary.BigEndian.Uint32(data[:4])
	if uint64(len(data)) < 4+uint64(length) {
		return nil, 0, ErrInvalidEncoding
	}
	v := new(big.Int).SetBytes(data[4 : 4+length])
	return v, 4 + int(length), nil
}
