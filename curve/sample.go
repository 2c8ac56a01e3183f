package curve

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/5p4k/goec/field"
)

// ErrEnumerationMismatch is returned by EnumerateAllPoints when the number
// of points found while scanning x = 0..p-1 does not match the curve's
// cardinality: a sanity gate on the group-law and cardinality logic.
var ErrEnumerationMismatch = errors.New("curve: enumerated point count does not match cardinality")

// PickPoint samples a random affine point on c: it draws x uniformly from
// [0, p) and accepts if the right-hand side of the curve equation is a
// quadratic residue, resampling otherwise. y is always the smaller of the
// two square roots, and the identity is never returned. Expected number of
// attempts is about 2.
func (c *Curve) PickPoint(r io.Reader) (*Point, error) {
	for {
		x, err := rand.Int(r, c.P())
		if err != nil {
			return nil, err
		}
		y2 := c.rhs(x)
		r0, _, err := c.f.Sqrt(y2)
		if err == field.ErrNotASquare {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Point{curve: c, x: x, y: r0}, nil
	}
}

// EnumerateAllPoints calls fn once for every rational point on c, including
// the identity, by scanning x = 0, 1, ..., p-1 and, for each, emitting the
// points whose y satisfies the curve equation. It stops early (returning
// nil) if the count emitted so far reaches c.Cardinality(), which serves as
// a sanity gate: if the scan would run past that count, something is
// structurally wrong and ErrEnumerationMismatch is returned instead.
func (c *Curve) EnumerateAllPoints(r io.Reader, fn func(*Point) error) error {
	n, err := c.Cardinality(r)
	if err != nil {
		return err
	}

	emitted := big.NewInt(0)
	one := big.NewInt(1)

	emit := func(p *Point) error {
		if emitted.Cmp(n) >= 0 {
			return ErrEnumerationMismatch
		}
		emitted.Add(emitted, one)
		return fn(p)
	}

	if err := emit(Identity(c)); err != nil {
		return err
	}

	p := c.P()
	for x := big.NewInt(0); x.Cmp(p) < 0 && emitted.Cmp(n) < 0; x.Add(x, one) {
		y2 := c.rhs(x)
		r0, r1, err := c.f.Sqrt(y2)
		if err == field.ErrNotASquare {
			continue
		}
		if err != nil {
			return err
		}
		if err := emit(&Point{curve: c, x: new(big.Int).Set(x), y: r0}); err != nil {
			return err
		}
		if r1.Cmp(r0) != 0 {
			if err := emit(&Point{curve: c, x: new(big.Int).Set(x), y: r1}); err != nil {
				return err
			}
		}
	}

	if emitted.Cmp(n) != 0 {
		return ErrEnumerationMismatch
	}
	return nil
}
