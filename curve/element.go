package curve

import "github.com/5p4k/goec/group"

// element adapts a Point to the generic group.Element interface consumed
// by the discrete-log solvers in package dlog. Combine panics on a curve
// mismatch (ErrMixedCurves from Point.Add) rather than returning an error,
// since by construction every Element a solver combines is derived from the
// same base point.
type element struct {
	p *Point
}

// AsElement adapts p to the generic algebraic interface used by the
// discrete-log solvers.
func (p *Point) AsElement() group.Element {
	return element{p: p}
}

// FromElement recovers the underlying Point from a group.Element produced
// by AsElement. It panics if e was not produced by AsElement on a Point.
func FromElement(e group.Element) *Point {
	return e.(element).p
}

func (e element) IsIdentity() bool { return e.p.IsIdentity() }

func (e element) Combine(other group.Element) group.Element {
	sum, err := e.p.Add(other.(element).p)
	if err != nil {
		panic(err)
	}
	return element{p: sum}
}

func (e element) Inverse() group.Element {
	return element{p: e.p.Neg()}
}

func (e element) SameAs(other group.Element) bool {
	return e.p.Equal(other.(element).p)
}

func (e element) Canonical() []byte {
	return Encode(e.p)
}
