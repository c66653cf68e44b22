// Package bcset implements the boundary-surface set and inter-block
// connection descriptors of spec 4.3 item C3: ranges, BC tags, and the
// 8-code orientation table that maps one connection patch onto its
// partner.
package bcset

import "fmt"

// Side identifies one of a block's six faces.
type Side int

const (
	ILo Side = iota
	IHi
	JLo
	JHi
	KLo
	KHi
)

// SurfaceType returns the 1..6 surface type code spec 4.3 (GetSurfaceType)
// requires, in ILo..KHi declaration order.
func (s Side) SurfaceType() int { return int(s) + 1 }

// Direction3 returns the axis (0=i, 1=j, 2=k) this side's outward normal
// points along.
func (s Side) Direction3() int { return int(s) / 2 }

// IsLow reports whether this is the low-index side of its axis.
func (s Side) IsLow() bool { return int(s)%2 == 0 }

// Surface is an axis-aligned cell-face range on one side of a block,
// carrying a BC name and a tag indexing optional external configuration.
type Surface struct {
	Side           Side
	IMin, IMax     int // exclusive upper bound, cell index range
	JMin, JMax     int
	KMin, KMax     int
	BCName         string
	Tag            int
	Connection     *ConnectionRef // non-nil iff BCName == "interblock"
}

// ConnectionRef points a surface at the connection descriptor governing it.
type ConnectionRef struct {
	ConnectionIndex int // index into the owning gridLevel's connection slice
}

// RangeDir1 returns the surface's extent along its first in-plane axis:
// for an i-normal surface this is J, for j-normal this is I, for k-normal
// this is I.
func (s Surface) RangeDir1() (lo, hi int) {
	switch s.Side.Direction3() {
	case 0:
		return s.JMin, s.JMax
	case 1:
		return s.IMin, s.IMax
	default:
		return s.IMin, s.IMax
	}
}

// RangeDir2 returns the surface's extent along its second in-plane axis:
// for an i-normal surface this is K, for j-normal this is K, for k-normal
// this is J.
func (s Surface) RangeDir2() (lo, hi int) {
	switch s.Side.Direction3() {
	case 0:
		return s.KMin, s.KMax
	case 1:
		return s.KMin, s.KMax
	default:
		return s.JMin, s.JMax
	}
}

// BoundaryConditions is a block's full surface set.
type BoundaryConditions struct {
	Surfaces []Surface
}

// IsConnection reports whether surface idx is an inter-block connection.
func (bc *BoundaryConditions) IsConnection(idx int) bool {
	return bc.Surfaces[idx].BCName == "interblock"
}

// GetBCTypes returns the BC name of every surface, in surface order.
func (bc *BoundaryConditions) GetBCTypes() []string {
	out := make([]string, len(bc.Surfaces))
	for i, s := range bc.Surfaces {
		out[i] = s.BCName
	}
	return out
}

// GetSurfaceType returns surface idx's side code in {1..6}.
func (bc *BoundaryConditions) GetSurfaceType(idx int) int {
	return bc.Surfaces[idx].Side.SurfaceType()
}

// Direction3 returns the axis (0=i,1=j,2=k) surface idx's normal points along.
func (bc *BoundaryConditions) Direction3(idx int) int {
	return bc.Surfaces[idx].Side.Direction3()
}

// Validate checks that every surface names a known BC or a connection.
func (bc *BoundaryConditions) Validate(known map[string]bool) error {
	for i, s := range bc.Surfaces {
		if s.BCName == "interblock" {
			continue
		}
		if !known[s.BCName] {
			return fmt.Errorf("bcset: surface %d: unknown BC %q", i, s.BCName)
		}
	}
	return nil
}
