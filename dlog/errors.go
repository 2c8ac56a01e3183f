// Package dlog implements discrete-log solvers that are generic over any
// group.Element: baby-step/giant-step (Shanks) and Pohlig-Hellman.
package dlog

import "errors"

// ErrNoSolution is returned when the target is not in the subgroup
// generated by the base element.
var ErrNoSolution = errors.New("dlog: target is not in the subgroup generated by base")
