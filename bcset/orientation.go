package bcset

import "fmt"

// Orientation is an inter-block patch orientation code in {1..8}, encoding
// the reflections/rotations that map a first-patch (d1,d2) pair onto the
// matching second-patch (d1',d2') pair. This is the single table-driven
// routine spec design note "Inter-block orientation" calls for: the eight
// codes are a pure function of (d1,d2,len1,len2), with no per-direction
// dispatch.
type Orientation int

const (
	Orient1 Orientation = iota + 1 // (d1,d2) -> (d1,d2)
	Orient2                        // (d1,d2) -> (d2,d1)
	Orient3                        // (d1,d2) -> (len1-1-d1, d2)
	Orient4                        // (d1,d2) -> (d1, len2-1-d2)
	Orient5                        // (d1,d2) -> (len1-1-d1, len2-1-d2)
	Orient6                        // (d1,d2) -> (len2-1-d2, d1)
	Orient7                        // (d1,d2) -> (d2, len1-1-d1)
	Orient8                        // (d1,d2) -> (len2-1-d2, len1-1-d1)
)

// Valid reports whether o is one of the eight defined codes.
func (o Orientation) Valid() bool { return o >= Orient1 && o <= Orient8 }

// transposes reports whether this orientation swaps the d1/d2 axes (used
// to decide the output patch's Dir1/Dir2 lengths relative to the input).
func (o Orientation) transposes() bool {
	switch o {
	case Orient2, Orient6, Orient7, Orient8:
		return true
	default:
		return false
	}
}

// Map returns the permutation function (d1,d2) -> (d1',d2') for this
// orientation code, given the donor patch's Dir1/Dir2 lengths (len1,len2).
// The returned indices are valid coordinates into the receiver patch,
// whose own Dir1/Dir2 lengths are len2,len1 if transposes() else len1,len2.
func (o Orientation) Map(len1, len2 int) (func(d1, d2 int) (int, int), error) {
	if !o.Valid() {
		return nil, fmt.Errorf("bcset: invalid orientation code %d", o)
	}
	switch o {
	case Orient1:
		return func(d1, d2 int) (int, int) { return d1, d2 }, nil
	case Orient2:
		return func(d1, d2 int) (int, int) { return d2, d1 }, nil
	case Orient3:
		return func(d1, d2 int) (int, int) { return len1 - 1 - d1, d2 }, nil
	case Orient4:
		return func(d1, d2 int) (int, int) { return d1, len2 - 1 - d2 }, nil
	case Orient5:
		return func(d1, d2 int) (int, int) { return len1 - 1 - d1, len2 - 1 - d2 }, nil
	case Orient6:
		return func(d1, d2 int) (int, int) { return len2 - 1 - d2, d1 }, nil
	case Orient7:
		return func(d1, d2 int) (int, int) { return d2, len1 - 1 - d1 }, nil
	case Orient8:
		return func(d1, d2 int) (int, int) { return len2 - 1 - d2, len1 - 1 - d1 }, nil
	}
	panic("unreachable")
}

// Inverse returns the orientation code whose Map, applied on the receiver
// patch with the receiver's own (len1,len2), undoes this one. Codes 1-5
// and 8 are involutions of themselves; the pure-transpose-plus-single-flip
// codes 6 and 7 invert into each other (ghost.SwapSlice relies on this for
// its round-trip property, spec 8 property 4).
func (o Orientation) Inverse() Orientation {
	switch o {
	case Orient6:
		return Orient7
	case Orient7:
		return Orient6
	default:
		return o
	}
}

// ReceiverLens returns the (len1,len2) of the receiving patch given the
// donor patch's (len1,len2).
func (o Orientation) ReceiverLens(len1, len2 int) (int, int) {
	if o.transposes() {
		return len2, len1
	}
	return len1, len2
}
