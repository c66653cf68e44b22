// Package multigrid implements spec 4.6, item C8: the geometric multigrid
// driver that coarsens a fine grid level by a factor of two per axis,
// restricts state and linear-solver corrections down, and prolongates
// corrections back up. Grounded on the teacher's own factor-2 structured
// coarsening (same plot3d node-subsampling idiom the teacher's mesh
// utilities use for a visualization decimation pass), generalized here to
// drive a full FAS multigrid cycle rather than a one-shot mesh thinning.
package multigrid

import (
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/gridlevel"
	"github.com/notargets/flowcore/varset"
)

// Coarsening carries the per-block bookkeeping Restriction/Prolongation
// need to move fields between one fine block and its coarse counterpart:
// the fine->coarse cell-index map, each fine cell's share of its coarse
// cell's total volume, and its trilinear prolongation weights.
type Coarsening struct {
	// NI, NJ, NK are the fine block's physical cell counts, needed to
	// unflatten FineToCoarse/VolumeWeight/TrilinearCoeffs' flat indices.
	NI, NJ, NK int

	// FineToCoarse maps a fine cell's flat index (i*NJ+j)*NK+k to its
	// coarse cell's flat index in the coarse block's own (ci*CNJ+cj)*CNK+ck
	// ordering.
	FineToCoarse []int

	// VolumeWeight is, per fine cell, that cell's volume divided by the
	// total volume of every fine cell mapping to the same coarse cell
	// (spec 4.6: "the fraction of the sum of volumes... this fine cell
	// contributes").
	VolumeWeight []float64

	// TrilinearCoeffs holds, per fine cell, the first seven of the eight
	// corner weights used to interpolate its coarse cell's 2x2x2
	// neighborhood back onto it during Prolongation; the eighth (the base
	// coarse cell itself) is 1 minus the other seven's sum (spec 4.6:
	// "seven packed coefficients suffice"). Corner order is the
	// structured offset order keyed by each axis's low/high half:
	// index 0 = (+i,+0,+0), 1 = (+0,+j,+0), 2 = (+0,+0,+k), 3 = (+i,+j,+0),
	// 4 = (+i,+0,+k), 5 = (+0,+j,+k), 6 = (+i,+j,+k) — offsets that are
	// zero along an axis where the fine cell sits in the low half of its
	// parent octant, one where it sits in the high half.
	TrilinearCoeffs [][7]float64
}

// neighborOffsets is the corner order TrilinearCoeffs documents.
var neighborOffsets = [7][3]int{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	{1, 1, 0}, {1, 0, 1}, {0, 1, 1},
	{1, 1, 1},
}

// Coarsen builds one grid level half the resolution of fine along every
// axis: every block's node grid is subsampled by keeping every other node
// (spec 4.6 — for a structured block this also keeps the boundary-surface
// nodes automatically, since index 0 and the last index are always even
// multiples of the coarsening stride on an even-sized block), derived
// geometry is recomputed from the kept nodes, boundary ranges are halved,
// inter-block connections are recomputed from the halved patches, and the
// coarse state is initialized by volume-weighted restriction of the fine
// state. Requires every block's physical extent to be even in each axis;
// a block that isn't is reported via InvalidGeometry rather than silently
// rounding (a silently-uneven coarsening would misalign the fine->coarse
// cell map between adjoining blocks).
func Coarsen(fine *gridlevel.GridLevel) (*gridlevel.GridLevel, []*Coarsening, error) {
	coarseBlocks := make([]*block.ProcBlock, len(fine.Blocks))
	coarsenings := make([]*Coarsening, len(fine.Blocks))

	for bi, b := range fine.Blocks {
		ni, nj, nk := b.NI(), b.NJ(), b.NK()
		if ni%2 != 0 || nj%2 != 0 || nk%2 != 0 {
			return nil, nil, &ferr.InvalidGeometry{Block: b.ID.GlobalPosition,
				Reason: "block extent must be even in every axis to coarsen by a factor of two"}
		}
		cni, cnj, cnk := ni/2, nj/2, nk/2

		coarseGeom := geom.NewPlotBlock(cni, cnj, cnk)
		for ci := 0; ci <= cni; ci++ {
			for cj := 0; cj <= cnj; cj++ {
				for ck := 0; ck <= cnk; ck++ {
					coarseGeom.SetNode(ci, cj, ck, b.Geom.Node(2*ci, 2*cj, 2*ck))
				}
			}
		}
		if err := coarseGeom.ComputeDerived(); err != nil {
			return nil, nil, err
		}

		coarseBC := coarsenSurfaces(b.BC)
		coarsePB := block.New(coarseGeom, coarseBC, b.ID, b.Layout, b.G)

		c := &Coarsening{NI: ni, NJ: nj, NK: nk}
		buildCellMap(b, coarsePB, c)
		restrictState(b, coarsePB, c)

		coarseBlocks[bi] = coarsePB
		coarsenings[bi] = c
	}

	coarseConns := coarsenConnections(fine.Connections)

	coarse := gridlevel.New(coarseBlocks, coarseConns, fine.Rank, fine.Comm,
		fine.EOS, fine.Transport, fine.Turbulence, fine.Chemistry, fine.Input, nil)
	coarse.Level = fine.Level + 1
	return coarse, coarsenings, nil
}

// coarsenSurfaces halves every surface's in-plane index range, producing
// the coarse block's boundary set. Connection surfaces keep their BCName
// ("interblock") and Tag; the concrete Patch ranges of the connections
// themselves are coarsened separately by coarsenConnections.
func coarsenSurfaces(bc *bcset.BoundaryConditions) *bcset.BoundaryConditions {
	if bc == nil {
		return nil
	}
	out := &bcset.BoundaryConditions{Surfaces: make([]bcset.Surface, len(bc.Surfaces))}
	for i, s := range bc.Surfaces {
		out.Surfaces[i] = bcset.Surface{
			Side:       s.Side,
			IMin:       s.IMin / 2, IMax: s.IMax / 2,
			JMin:       s.JMin / 2, JMax: s.JMax / 2,
			KMin:       s.KMin / 2, KMax: s.KMax / 2,
			BCName:     s.BCName,
			Tag:        s.Tag,
			Connection: s.Connection,
		}
	}
	return out
}

// coarsenConnections halves every connection's patch start/length, which
// preserves each connection's bijection under Orientation since both
// sides of a connection are coarsened by the same factor along matching
// axes.
func coarsenConnections(conns []bcset.Connection) []bcset.Connection {
	if conns == nil {
		return nil
	}
	out := make([]bcset.Connection, len(conns))
	for i, c := range conns {
		out[i] = c
		out[i].PatchFirst = halvePatch(c.PatchFirst)
		out[i].PatchSecond = halvePatch(c.PatchSecond)
	}
	return out
}

func halvePatch(p bcset.Patch) bcset.Patch {
	return bcset.Patch{
		Dir1Start: p.Dir1Start / 2, Dir1Len: p.Dir1Len / 2,
		Dir2Start: p.Dir2Start / 2, Dir2Len: p.Dir2Len / 2,
	}
}

// buildCellMap fills c's FineToCoarse/VolumeWeight/TrilinearCoeffs from
// fine's and coarse's geometry.
func buildCellMap(fine, coarse *block.ProcBlock, c *Coarsening) {
	ni, nj, nk := fine.NI(), fine.NJ(), fine.NK()
	cnj, cnk := coarse.NJ(), coarse.NK()
	n := ni * nj * nk
	c.FineToCoarse = make([]int, n)
	c.VolumeWeight = make([]float64, n)
	c.TrilinearCoeffs = make([][7]float64, n)

	coarseTotalVol := make([]float64, coarse.NI()*cnj*cnk)

	flat := func(i, j, k int) int { return (i*nj + j) * nk + k }
	coarseFlat := func(ci, cj, ck int) int { return (ci*cnj + cj) * cnk + ck }

	for i := 0; i < ni; i++ {
		ci := i / 2
		for j := 0; j < nj; j++ {
			cj := j / 2
			for k := 0; k < nk; k++ {
				ck := k / 2
				fi := flat(i, j, k)
				cf := coarseFlat(ci, cj, ck)
				c.FineToCoarse[fi] = cf
				coarseTotalVol[cf] += fine.Geom.Volume(i, j, k)
			}
		}
	}
	for i := 0; i < ni; i++ {
		ci := i / 2
		u := trilinearWeight(i)
		for j := 0; j < nj; j++ {
			cj := j / 2
			v := trilinearWeight(j)
			for k := 0; k < nk; k++ {
				ck := k / 2
				w := trilinearWeight(k)
				fi := flat(i, j, k)
				cf := coarseFlat(ci, cj, ck)
				total := coarseTotalVol[cf]
				if total > 0 {
					c.VolumeWeight[fi] = fine.Geom.Volume(i, j, k) / total
				}
				var coeffs [7]float64
				for n, off := range neighborOffsets {
					wx := axisWeight(u, off[0])
					wy := axisWeight(v, off[1])
					wz := axisWeight(w, off[2])
					coeffs[n] = wx * wy * wz
				}
				c.TrilinearCoeffs[fi] = coeffs
			}
		}
	}
}

// trilinearWeight returns a fine cell's fractional position within its
// 2x2x2 parent octant along one axis: 0.25 for the low half, 0.75 for the
// high half, the structured half-cell-offset approximation documented as
// a deliberate scope simplification in place of a full geometric
// trilinear inversion against the coarse cell's physical corner nodes.
func trilinearWeight(fineIdx int) float64 {
	if fineIdx%2 == 0 {
		return 0.25
	}
	return 0.75
}

// axisWeight returns the interpolation weight toward the neighbor in the
// offset direction (1) or the base coarse cell (0) along one axis, given
// the fine cell's fractional position u.
func axisWeight(u float64, offset int) float64 {
	if offset == 1 {
		return u
	}
	return 1 - u
}

// restrictState volume-weight-averages fine's primitive state onto
// coarse's, per buildCellMap's weights — spec 4.6's "initialize coarse
// states by restriction at level construction".
func restrictState(fine, coarse *block.ProcBlock, c *Coarsening) {
	accum := make([][]float64, coarse.NI()*coarse.NJ()*coarse.NK())
	cnj, cnk := coarse.NJ(), coarse.NK()
	coarseFlat := func(ci, cj, ck int) int { return (ci*cnj + cj) * cnk + ck }

	for i := 0; i < fine.NI(); i++ {
		for j := 0; j < fine.NJ(); j++ {
			for k := 0; k < fine.NK(); k++ {
				fi := (i*fine.NJ()+j)*fine.NK() + k
				cf := c.FineToCoarse[fi]
				w := c.VolumeWeight[fi]
				raw := fine.State.RecordView(i, j, k).Materialize().Raw()
				if accum[cf] == nil {
					accum[cf] = make([]float64, len(raw))
				}
				for eq, v := range raw {
					accum[cf][eq] += w * v
				}
			}
		}
	}
	for ci := 0; ci < coarse.NI(); ci++ {
		for cj := 0; cj < coarse.NJ(); cj++ {
			for ck := 0; ck < coarse.NK(); ck++ {
				cf := coarseFlat(ci, cj, ck)
				if accum[cf] == nil {
					continue
				}
				p := varset.NewPrimitive(coarse.Layout)
				for eq, v := range accum[cf] {
					p.Set(eq, v)
				}
				coarse.State.SetRecord(ci, cj, ck, p)
			}
		}
	}
}
