package ghost

import (
	"github.com/notargets/flowcore/array3d"
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/dcomm"
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/varset"
)

// faceCoord places a (depth, dir1, dir2) triple onto side's block's real
// (i,j,k) axes: depth runs along side's own normal, dir1/dir2 along the
// two in-plane axes bcset.Surface.RangeDir1/RangeDir2 use (i-normal:
// dir1=J, dir2=K; j-normal: dir1=I, dir2=K; k-normal: dir1=I, dir2=J).
func faceCoord(side bcset.Side, depth, dir1, dir2 int) (i, j, k int) {
	switch side.Direction3() {
	case 0:
		return depth, dir1, dir2
	case 1:
		return dir1, depth, dir2
	default:
		return dir1, dir2, depth
	}
}

// interiorAt returns the real index of the interior cell at distance d
// from side's face (d=0 touches the face, increasing d moves inward)
// along side's normal axis of physical extent n.
func interiorAt(side bcset.Side, n, d int) int {
	if side.IsLow() {
		return d
	}
	return n - 1 - d
}

// ghostAt returns the real index of the ghost cell at distance d from
// side's face (d=0 touches the face) along side's normal axis of
// physical extent n.
func ghostAt(side bcset.Side, n, d int) int {
	if side.IsLow() {
		return -1 - d
	}
	return n + d
}

func axisExtent(ni, nj, nk, axis int) int {
	switch axis {
	case 0:
		return ni
	case 1:
		return nj
	default:
		return nk
	}
}

func sideExtent(b *array3d.BlkMultiArray3d, side bcset.Side) int {
	return axisExtent(b.NI(), b.NJ(), b.NK(), side.Direction3())
}

// extractFacePatch reads a side's interior (Dir1,Dir2) patch into a flat
// buffer, one record per (dir1,dir2,depth) triple in that nesting order,
// depth running outward from the shared face.
func extractFacePatch(b *array3d.BlkMultiArray3d, side bcset.Side, patch bcset.Patch, g int) []float64 {
	n := sideExtent(b, side)
	stride := b.Layout().Size()
	out := make([]float64, patch.Dir1Len*patch.Dir2Len*g*stride)
	pos := 0
	for d1 := 0; d1 < patch.Dir1Len; d1++ {
		for d2 := 0; d2 < patch.Dir2Len; d2++ {
			for depth := 0; depth < g; depth++ {
				i, j, k := faceCoord(side, interiorAt(side, n, depth), patch.Dir1Start+d1, patch.Dir2Start+d2)
				rv := b.RecordView(i, j, k)
				copy(out[pos:pos+stride], rv.Raw())
				pos += stride
			}
		}
	}
	return out
}

// insertFacePatch writes a flat (dir1,dir2,depth)-ordered donor buffer
// into a side's ghost patch, permuting (dir1,dir2) through permute
// before placement; depth maps one-to-one by distance from the shared
// face, so no layer reversal is needed regardless of which sides are
// low or high on their respective axes.
func insertFacePatch(b *array3d.BlkMultiArray3d, side bcset.Side, patch bcset.Patch, g int,
	donorD1Len, donorD2Len int, data []float64, permute func(d1, d2 int) (int, int)) {
	n := sideExtent(b, side)
	stride := b.Layout().Size()
	pos := 0
	for d1 := 0; d1 < donorD1Len; d1++ {
		for d2 := 0; d2 < donorD2Len; d2++ {
			r1, r2 := permute(d1, d2)
			for depth := 0; depth < g; depth++ {
				i, j, k := faceCoord(side, ghostAt(side, n, depth), patch.Dir1Start+r1, patch.Dir2Start+r2)
				b.SetRecord(i, j, k, varset.ViewPrimitive(b.Layout(), data[pos:pos+stride]))
				pos += stride
			}
		}
	}
}

// SwapSlice exchanges one connection's patch between two blocks owned by
// the same rank: it reads the donor's interior patch cell by cell and
// writes it into the receiver's ghost patch, permuting the in-plane
// (Dir1,Dir2) coordinates through the connection's orientation code.
// Ghost depth is aligned with interior depth directly — both are counted
// outward from the shared face — so the exchange is correct regardless
// of which side of the connecting axis is low or high, and regardless of
// which axis (I, J, or K) the connection's normal runs along (spec
// design note "Inter-block orientation").
func SwapSlice(conn bcset.Connection, donor, receiver *array3d.BlkMultiArray3d) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	g := donor.NumGhostLayers()
	permute, err := conn.Orientation.Map(conn.PatchFirst.Dir1Len, conn.PatchFirst.Dir2Len)
	if err != nil {
		return err
	}
	data := extractFacePatch(donor, conn.SurfaceFirst, conn.PatchFirst, g)
	insertFacePatch(receiver, conn.SurfaceSecond, conn.PatchSecond, g,
		conn.PatchFirst.Dir1Len, conn.PatchFirst.Dir2Len, data, permute)
	return nil
}

// SwapSliceMPI is SwapSlice's cross-rank counterpart: the local block
// sends its own interior patch to the peer rank and receives the peer's
// matching interior patch in return, writing it into the local ghost
// patch after applying the connection's orientation permutation (spec
// 4.3/5: "each rank performs a blocking send of its donor patch and a
// blocking receive of the matching patch from its peer, tagged by
// connection index"). localIsFirst selects which of the connection's two
// sides this rank's block plays; the receive uses the inverse
// orientation whenever local is first, since Orientation always maps
// first's coordinates onto second's.
func SwapSliceMPI(comm *dcomm.Comm, conn bcset.Connection, connIdx int, peerRank int,
	local *array3d.BlkMultiArray3d, localIsFirst bool) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	g := local.NumGhostLayers()

	localSide, localPatch := conn.SurfaceFirst, conn.PatchFirst
	peerPatch := conn.PatchSecond
	recvOrient := conn.Orientation.Inverse()
	if !localIsFirst {
		localSide, localPatch = conn.SurfaceSecond, conn.PatchSecond
		peerPatch = conn.PatchFirst
		recvOrient = conn.Orientation
	}

	send := extractFacePatch(local, localSide, localPatch, g)
	recv := make([]float64, len(send))

	if err := comm.SendFloat64(send, peerRank, connIdx); err != nil {
		return &ferr.DomainDecompMismatch{Reason: "SwapSliceMPI send: " + err.Error()}
	}
	if err := comm.RecvFloat64(recv, peerRank, connIdx); err != nil {
		return &ferr.DomainDecompMismatch{Reason: "SwapSliceMPI recv: " + err.Error()}
	}

	permute, err := recvOrient.Map(peerPatch.Dir1Len, peerPatch.Dir2Len)
	if err != nil {
		return err
	}
	insertFacePatch(local, localSide, localPatch, g, peerPatch.Dir1Len, peerPatch.Dir2Len, recv, permute)
	return nil
}
