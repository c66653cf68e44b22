// Package main implements flowsolve, an example driver wiring gridLevel,
// multigrid, and restart into a runnable nonlinear iteration loop (spec
// SPEC_FULL's cmd/flowsolve — illustrative, not a stable CLI per spec
// §6, which scopes CLI/input parsing out of the core).
package main

import (
	"math"

	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/geom"
)

// splitElementRange divides [0, n) into numParts near-equal contiguous
// chunks, the same block-partitioning strategy
// partitions/partition_builder.go's BlockPartition strategy applies to a
// flat element count, generalized here to one axis's structured cell
// range: chunk c covers [c*chunkSize, min(n, (c+1)*chunkSize)), the last
// chunk absorbing any remainder exactly as
// PartitionBuilder.partitionElements' ceil-division/clamp does.
func splitElementRange(n, numParts int) []int {
	chunkSize := int(math.Ceil(float64(n) / float64(numParts)))
	bounds := make([]int, 0, numParts+1)
	bounds = append(bounds, 0)
	for c := 1; c < numParts; c++ {
		b := c * chunkSize
		if b >= n {
			break
		}
		bounds = append(bounds, b)
	}
	bounds = append(bounds, n)
	return bounds
}

// SplitBlockAlongAxis partitions a single structured block into
// contiguous sub-blocks along one axis (0=i, 1=j, 2=k), each sized by
// splitElementRange, and connects adjoining sub-blocks with an identity
// (Orient1) inter-block connection — splitting along an axis preserves
// every other index untouched, so the cut faces line up node-for-node
// with no permutation needed. Every original boundary surface is copied
// onto whichever sub-block still borders that physical face, clipped to
// the sub-block's transverse extent.
func SplitBlockAlongAxis(pb *block.ProcBlock, axis int, numParts int) ([]*block.ProcBlock, []bcset.Connection, error) {
	n := axisExtent(pb, axis)
	if numParts < 1 || numParts > n {
		return nil, nil, &ferr.InvalidGeometry{Block: pb.ID.GlobalPosition,
			Reason: "cannot split an axis of extent smaller than the requested partition count"}
	}
	bounds := splitElementRange(n, numParts)
	nParts := len(bounds) - 1

	subBlocks := make([]*block.ProcBlock, nParts)
	for p := 0; p < nParts; p++ {
		g, err := subGeom(pb.Geom, axis, bounds[p], bounds[p+1])
		if err != nil {
			return nil, nil, err
		}
		bc := clipSurfaces(pb.BC, axis, bounds[p], bounds[p+1], n)
		id := block.Identity{ParentBlockID: pb.ID.ParentBlockID, GlobalPosition: p, LocalPosition: p}
		subBlocks[p] = block.New(g, bc, id, pb.Layout, pb.G)
	}

	conns := make([]bcset.Connection, 0, nParts-1)
	for p := 0; p < nParts-1; p++ {
		conns = append(conns, cutConnection(subBlocks[p], subBlocks[p+1], axis, p, p+1))
	}
	return subBlocks, conns, nil
}

func axisExtent(pb *block.ProcBlock, axis int) int {
	switch axis {
	case 0:
		return pb.NI()
	case 1:
		return pb.NJ()
	default:
		return pb.NK()
	}
}

// subGeom builds one sub-block's node grid by slicing the parent's node
// array to [lo, hi] (inclusive of both cut-face node rings) along axis,
// keeping the other two axes at full extent, then recomputing derived
// geometry.
func subGeom(parent *geom.PlotBlock, axis, lo, hi int) (*geom.PlotBlock, error) {
	ni, nj, nk := parent.NI(), parent.NJ(), parent.NK()
	var sni, snj, snk int
	switch axis {
	case 0:
		sni, snj, snk = hi-lo, nj, nk
	case 1:
		sni, snj, snk = ni, hi-lo, nk
	default:
		sni, snj, snk = ni, nj, hi-lo
	}
	g := geom.NewPlotBlock(sni, snj, snk)
	for i := 0; i <= sni; i++ {
		for j := 0; j <= snj; j++ {
			for k := 0; k <= snk; k++ {
				pi, pj, pk := i, j, k
				switch axis {
				case 0:
					pi = i + lo
				case 1:
					pj = j + lo
				default:
					pk = k + lo
				}
				g.SetNode(i, j, k, parent.Node(pi, pj, pk))
			}
		}
	}
	if err := g.ComputeDerived(); err != nil {
		return nil, err
	}
	return g, nil
}

// clipSurfaces copies every boundary surface from parent onto a
// sub-block covering axis range [lo,hi) of the parent's [0,n) extent,
// clipping the two surfaces normal to axis to whichever sub-block
// actually borders the parent's low/high face and passing every
// transverse surface through shiftTransverse, which clamps its range
// along the split axis to [lo,hi) and re-bases it to local coordinates.
// A surface normal to axis that the sub-block doesn't touch is dropped;
// no surface is added for the interblock cut faces.
func clipSurfaces(bc *bcset.BoundaryConditions, axis, lo, hi, n int) *bcset.BoundaryConditions {
	if bc == nil {
		return nil
	}
	out := &bcset.BoundaryConditions{}
	for _, s := range bc.Surfaces {
		if s.Side.Direction3() == axis {
			if s.Side.IsLow() && lo != 0 {
				continue
			}
			if !s.Side.IsLow() && hi != n {
				continue
			}
			out.Surfaces = append(out.Surfaces, s)
			continue
		}
		out.Surfaces = append(out.Surfaces, shiftTransverse(s, axis, lo, hi))
	}
	return out
}

// shiftTransverse re-bases a transverse surface's range on the split
// axis to the sub-block's local [0, hi-lo) coordinates; the surface's own
// in-plane (non-split) extent is unaffected by the split.
func shiftTransverse(s bcset.Surface, axis, lo, hi int) bcset.Surface {
	switch axis {
	case 0:
		s.IMin, s.IMax = clampRange(s.IMin, s.IMax, lo, hi)
	case 1:
		s.JMin, s.JMax = clampRange(s.JMin, s.JMax, lo, hi)
	default:
		s.KMin, s.KMax = clampRange(s.KMin, s.KMax, lo, hi)
	}
	return s
}

func clampRange(min, max, lo, hi int) (int, int) {
	cmin, cmax := min, max
	if cmin < lo {
		cmin = lo
	}
	if cmax > hi {
		cmax = hi
	}
	return cmin - lo, cmax - lo
}

// cutConnection builds the Orient1 interblock connection between two
// sub-blocks adjoining at the cut plane produced by splitting along
// axis: first's high face on axis pairs with second's low face, both
// covering the full transverse extent, orientation identity since the
// split didn't reindex either transverse axis.
func cutConnection(first, second *block.ProcBlock, axis, firstPos, secondPos int) bcset.Connection {
	var sideFirst, sideSecond bcset.Side
	var dir1Len, dir2Len int
	switch axis {
	case 0:
		sideFirst, sideSecond = bcset.IHi, bcset.ILo
		dir1Len, dir2Len = first.NJ(), first.NK()
	case 1:
		sideFirst, sideSecond = bcset.JHi, bcset.JLo
		dir1Len, dir2Len = first.NI(), first.NK()
	default:
		sideFirst, sideSecond = bcset.KHi, bcset.KLo
		dir1Len, dir2Len = first.NI(), first.NJ()
	}
	patch := bcset.Patch{Dir1Start: 0, Dir1Len: dir1Len, Dir2Start: 0, Dir2Len: dir2Len}
	return bcset.Connection{
		BlockFirst: firstPos, BlockSecond: secondPos,
		RankFirst: first.ID.Rank, RankSecond: second.ID.Rank,
		LocalFirst: firstPos, LocalSecond: secondPos,
		SurfaceFirst: sideFirst, SurfaceSecond: sideSecond,
		Direction3First: axis, Direction3Second: axis,
		PatchFirst: patch, PatchSecond: patch,
		Orientation: bcset.Orient1,
	}
}

// AssignRanks distributes blocks across numRanks ranks round-robin, the
// same cyclic RoundRobin strategy partition_builder.go's
// partitionElements implements for a flat element list, applied here to
// a block list instead.
func AssignRanks(blocks []*block.ProcBlock, numRanks int) {
	for i, b := range blocks {
		b.ID.Rank = i % numRanks
	}
}
