package block

import (
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/ghost"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// ApplyPhysicalBoundaryConditions fills the ghost layer immediately
// outside every physical (non-interblock) surface from the adjoining
// interior state, via ghost.GhostState. Interblock surfaces are left
// untouched here; gridLevel fills those separately through
// ghost.SwapSlice/SwapSliceMPI once every block on a rank has its
// physical ghosts current (spec 4.3/4.5 step 1, "GetBoundaryConditions").
func (b *ProcBlock) ApplyPhysicalBoundaryConditions(eos physics.EquationOfState, inp solverinput.Input) error {
	if b.BC == nil {
		return nil
	}
	for idx, s := range b.BC.Surfaces {
		if s.BCName == "interblock" {
			continue
		}
		if err := b.applySurfaceBC(idx, s, eos, inp); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEdgeAndCornerBoundaryConditions fills the ghost cells along a
// block's 12 edges and 8 corners from its already-filled face ghosts
// (spec 4.3 "Edge ghost extension"). Must run after every face's regular
// ghost fill — physical (ApplyPhysicalBoundaryConditions) and, once both
// sides of a connection are current, inter-block — has completed.
func (b *ProcBlock) ApplyEdgeAndCornerBoundaryConditions() {
	if b.BC == nil || b.G == 0 {
		return
	}
	for _, e := range b.edgeDefs() {
		b.fillEdge(e)
	}
	for _, c := range b.cornerDefs() {
		b.fillCorner(c)
	}
}

// edgeDef describes one of a block's 12 edges: the two axes whose ghost
// region it straddles (with their low/high sides), and the third axis
// the edge runs along at the block's full physical extent.
type edgeDef struct {
	axis2, axis3 int
	side2, side3 bcset.Side
	alongLen     int
}

func axisSides(axis int) (lo, hi bcset.Side) {
	switch axis {
	case 0:
		return bcset.ILo, bcset.IHi
	case 1:
		return bcset.JLo, bcset.JHi
	default:
		return bcset.KLo, bcset.KHi
	}
}

func (b *ProcBlock) axisLen(axis int) int {
	switch axis {
	case 0:
		return b.NI()
	case 1:
		return b.NJ()
	default:
		return b.NK()
	}
}

// edgeDefs enumerates the 3 axis-pairs x 2x2 low/high combinations that
// make up a block's 12 edges.
func (b *ProcBlock) edgeDefs() []edgeDef {
	pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	out := make([]edgeDef, 0, 12)
	for _, p := range pairs {
		a2, a3 := p[0], p[1]
		along := 3 - a2 - a3
		lo2, hi2 := axisSides(a2)
		lo3, hi3 := axisSides(a3)
		for _, s2 := range [2]bcset.Side{lo2, hi2} {
			for _, s3 := range [2]bcset.Side{lo3, hi3} {
				out = append(out, edgeDef{axis2: a2, axis3: a3, side2: s2, side3: s3,
					alongLen: b.axisLen(along)})
			}
		}
	}
	return out
}

// cornerDef is one of a block's 8 corners: the three axes' low/high sides.
type cornerDef struct {
	side [3]bcset.Side
}

func (b *ProcBlock) cornerDefs() []cornerDef {
	lo0, hi0 := axisSides(0)
	lo1, hi1 := axisSides(1)
	lo2, hi2 := axisSides(2)
	out := make([]cornerDef, 0, 8)
	for _, s0 := range [2]bcset.Side{lo0, hi0} {
		for _, s1 := range [2]bcset.Side{lo1, hi1} {
			for _, s2 := range [2]bcset.Side{lo2, hi2} {
				out = append(out, cornerDef{side: [3]bcset.Side{s0, s1, s2}})
			}
		}
	}
	return out
}

func (b *ProcBlock) surfaceForSide(side bcset.Side) (bcset.Surface, bool) {
	for _, s := range b.BC.Surfaces {
		if s.Side == side {
			return s, true
		}
	}
	return bcset.Surface{}, false
}

// ghostIndexAt returns the real index `depth` ghost layers out from side
// on its own axis (depth=1 is the first layer outside the domain).
func ghostIndexAt(side bcset.Side, n, depth int) int {
	if side.IsLow() {
		return -depth
	}
	return n + depth - 1
}

// clampInterior returns the nearest in-range physical index on axis for
// side's block extent n, used to read an already-filled regular ghost
// cell's tangential-constant-extrapolated value at an edge or corner.
func clampInterior(n, d int) int {
	if d < 0 {
		return 0
	}
	if d >= n {
		return n - 1
	}
	return d
}

// edgeSourceFor reads the regular ghost value side already filled, at
// depth layers out along its own axis and at (otherAxisCoord, alongCoord)
// clamped into side's valid tangential range — the "extend using the
// wall side's normal" and "average the two adjacent regular ghosts"
// operations of spec 4.3 both draw from this same already-filled data.
func (b *ProcBlock) edgeSourceFor(side bcset.Side, depth, otherAxis, otherAxisLen, otherCoord, alongCoord int) ghost.EdgeSource {
	s, ok := b.surfaceForSide(side)
	if !ok {
		return ghost.EdgeSource{}
	}
	axis := side.Direction3()
	n := b.axisLen(axis)
	d := ghostIndexAt(side, n, depth)
	tangential := clampInterior(otherAxisLen, otherCoord)

	var i, j, k int
	switch {
	case axis == 0:
		i = d
	case otherAxis == 0:
		i = tangential
	default:
		i = alongCoord
	}
	switch {
	case axis == 1:
		j = d
	case otherAxis == 1:
		j = tangential
	default:
		j = alongCoord
	}
	switch {
	case axis == 2:
		k = d
	case otherAxis == 2:
		k = tangential
	default:
		k = alongCoord
	}

	return ghost.EdgeSource{
		State: b.State.RecordView(i, j, k).Materialize(),
		Valid: true,
		Wall:  ghost.IsWallBC(s.BCName),
		Depth: depth,
	}
}

func (b *ProcBlock) fillEdge(e edgeDef) {
	n2, n3 := b.axisLen(e.axis2), b.axisLen(e.axis3)
	for depth2 := 1; depth2 <= b.G; depth2++ {
		for depth3 := 1; depth3 <= b.G; depth3++ {
			for t := 0; t < e.alongLen; t++ {
				src2 := b.edgeSourceFor(e.side2, depth2, e.axis3, n3, ghostIndexAt(e.side3, n3, depth3), t)
				src3 := b.edgeSourceFor(e.side3, depth3, e.axis2, n2, ghostIndexAt(e.side2, n2, depth2), t)
				out := ghost.ExtendEdge(src2, src3)

				i2 := ghostIndexAt(e.side2, n2, depth2)
				i3 := ghostIndexAt(e.side3, n3, depth3)
				var i, j, k int
				switch {
				case e.axis2 == 0:
					i = i2
				case e.axis3 == 0:
					i = i3
				default:
					i = t
				}
				switch {
				case e.axis2 == 1:
					j = i2
				case e.axis3 == 1:
					j = i3
				default:
					j = t
				}
				switch {
				case e.axis2 == 2:
					k = i2
				case e.axis3 == 2:
					k = i3
				default:
					k = t
				}
				b.State.SetRecord(i, j, k, out)
			}
		}
	}
}

func (b *ProcBlock) fillCorner(c cornerDef) {
	n := [3]int{b.NI(), b.NJ(), b.NK()}
	for d0 := 1; d0 <= b.G; d0++ {
		for d1 := 1; d1 <= b.G; d1++ {
			for d2 := 1; d2 <= b.G; d2++ {
				depth := [3]int{d0, d1, d2}
				src := [3]ghost.EdgeSource{}
				for axis := 0; axis < 3; axis++ {
					other1, other2 := (axis+1)%3, (axis+2)%3
					src[axis] = b.edgeSourceFor(c.side[axis], depth[axis], other1, n[other1],
						ghostIndexAt(c.side[other1], n[other1], depth[other1]),
						ghostIndexAt(c.side[other2], n[other2], depth[other2]))
				}
				out := ghost.ExtendCorner(src[0], src[1], src[2])
				i := ghostIndexAt(c.side[0], n[0], d0)
				j := ghostIndexAt(c.side[1], n[1], d1)
				k := ghostIndexAt(c.side[2], n[2], d2)
				b.State.SetRecord(i, j, k, out)
			}
		}
	}
}

func (b *ProcBlock) applySurfaceBC(idx int, s bcset.Surface, eos physics.EquationOfState, inp solverinput.Input) error {
	lo1, hi1 := s.RangeDir1()
	lo2, hi2 := s.RangeDir2()
	axis := s.Side.Direction3()
	isLow := s.Side.IsLow()

	for d1 := lo1; d1 < hi1; d1++ {
		for d2 := lo2; d2 < hi2; d2++ {
			i, j, k := b.boundaryInteriorCell(axis, isLow, d1, d2)
			interior := b.State.RecordView(i, j, k).Materialize()
			n := b.outwardNormal(axis, isLow, d1, d2)

			ghostState, err := ghost.GhostState(s.BCName, s.Tag, inp, eos, interior, n)
			if err != nil {
				return err
			}

			// Fill every ghost layer with the same boundary-derived
			// state; higher-order reconstruction stencils reach past
			// the first ghost cell, and a constant extrapolation is
			// the cheapest extension that keeps them well-defined.
			for layer := 1; layer <= b.G; layer++ {
				gi, gj, gk := b.ghostCellAtLayer(axis, isLow, d1, d2, layer)
				b.State.SetRecord(gi, gj, gk, ghostState)
			}

			if s.BCName == "viscousWall" {
				b.recordWallData(idx, i, j, k, interior, ghostState)
			}
		}
	}
	return nil
}

// boundaryInteriorCell maps a surface's in-plane (d1, d2) coordinate to
// the physical cell adjoining that face, per bcset.Surface.RangeDir1/2's
// axis convention (i-normal: d1=J, d2=K; j-normal: d1=I, d2=K; k-normal:
// d1=I, d2=J).
func (b *ProcBlock) boundaryInteriorCell(axis int, isLow bool, d1, d2 int) (i, j, k int) {
	switch axis {
	case 0:
		i = 0
		if !isLow {
			i = b.NI() - 1
		}
		return i, d1, d2
	case 1:
		j = 0
		if !isLow {
			j = b.NJ() - 1
		}
		return d1, j, d2
	default:
		k = 0
		if !isLow {
			k = b.NK() - 1
		}
		return d1, d2, k
	}
}

// ghostCellAtLayer returns the ghost-cell index `layer` cells past the
// boundary face along axis (layer=1 is the cell immediately outside the
// physical domain).
func (b *ProcBlock) ghostCellAtLayer(axis int, isLow bool, d1, d2, layer int) (i, j, k int) {
	i, j, k = b.boundaryInteriorCell(axis, isLow, d1, d2)
	delta := layer
	if isLow {
		delta = -layer
	}
	switch axis {
	case 0:
		i += delta
	case 1:
		j += delta
	default:
		k += delta
	}
	return i, j, k
}

// outwardNormal returns the unit outward face normal at in-plane
// coordinate (d1, d2) of the surface on the given axis/side. Face area
// vectors are stored pointing toward increasing index along their axis,
// so a low-index surface's outward normal is the negated, normalized
// area vector and a high-index surface's is the normalized area vector
// as stored.
func (b *ProcBlock) outwardNormal(axis int, isLow bool, d1, d2 int) ghost.Normal {
	var a geom.Area
	switch axis {
	case 0:
		faceIdx := 0
		if !isLow {
			faceIdx = b.NI()
		}
		a = b.Geom.FaceAreaI(faceIdx, d1, d2)
	case 1:
		faceIdx := 0
		if !isLow {
			faceIdx = b.NJ()
		}
		a = b.Geom.FaceAreaJ(d1, faceIdx, d2)
	default:
		faceIdx := 0
		if !isLow {
			faceIdx = b.NK()
		}
		a = b.Geom.FaceAreaK(d1, d2, faceIdx)
	}
	unit := a.UnitNormal()
	if isLow {
		unit = unit.Scale(-1)
	}
	return ghost.Normal{unit.X, unit.Y, unit.Z}
}

func (b *ProcBlock) recordWallData(surfaceIdx, i, j, k int, interior, ghostState varset.Primitive) {
	_ = i
	_ = j
	_ = k
	if surfaceIdx >= len(b.WallData) {
		return
	}
	u, v, w := interior.Velocity()
	gu, gv, gw := ghostState.Velocity()
	b.WallData[surfaceIdx].ShearStress = [3]float64{u - gu, v - gv, w - gw}
	b.WallData[surfaceIdx].Density = ghostState.Rho()
}
