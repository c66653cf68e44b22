package bcset

import "fmt"

// Patch describes one block's side of a connection: the in-plane extent
// along Dir1 and Dir2, and where it starts in that block's surface-local
// coordinates.
type Patch struct {
	Dir1Start, Dir1Len int
	Dir2Start, Dir2Len int
}

// Connection is an inter-block boundary pairing two patches, one on each
// of two blocks (possibly the same block, for a self-periodic connection),
// related by an Orientation code (spec 4.3 "connection").
type Connection struct {
	BlockFirst, BlockSecond int // parent block ids
	RankFirst, RankSecond   int // owning MPI ranks
	LocalFirst, LocalSecond int // local-position indices on each owning rank

	SurfaceFirst, SurfaceSecond   Side
	Direction3First, Direction3Second int // axis (0,1,2) each side's normal points along

	PatchFirst, PatchSecond Patch
	Orientation             Orientation
}

// Validate checks the invariant that the orientation code, surface pair,
// and patch ranges together determine a bijection between the two patches'
// cells (spec 3 "connection" invariant).
func (c Connection) Validate() error {
	if !c.Orientation.Valid() {
		return fmt.Errorf("bcset: connection has invalid orientation %d", c.Orientation)
	}
	l1, l2 := c.Orientation.ReceiverLens(c.PatchFirst.Dir1Len, c.PatchFirst.Dir2Len)
	if l1 != c.PatchSecond.Dir1Len || l2 != c.PatchSecond.Dir2Len {
		return fmt.Errorf("bcset: connection patch size mismatch: first (%d,%d) under orientation %d expects second (%d,%d), got (%d,%d)",
			c.PatchFirst.Dir1Len, c.PatchFirst.Dir2Len, c.Orientation, l1, l2, c.PatchSecond.Dir1Len, c.PatchSecond.Dir2Len)
	}
	return nil
}

// SameRank reports whether both sides of the connection are owned by the
// same MPI rank, in which case the exchange may be done with a direct
// in-memory copy rather than MPI send/recv (spec 4.3/5).
func (c Connection) SameRank() bool { return c.RankFirst == c.RankSecond }

// LowerUpperFlip reports whether the two sides pair a low-index face with
// a high-index face on the connecting axis, which requires face-area
// vectors to be sign-flipped during exchange (spec 4.3).
func (c Connection) LowerUpperFlip() bool {
	return c.SurfaceFirst.IsLow() != c.SurfaceSecond.IsLow()
}
