package ghost

import "github.com/notargets/flowcore/geom"

// MirrorCellCenter reflects an interior cell center across a boundary
// face's plane, giving the geometric position a ghost cell "would" sit
// at if the grid extended past the boundary. faceCenter and faceNormal
// describe the boundary face; interior is the adjoining interior cell's
// centroid.
func MirrorCellCenter(interior, faceCenter geom.Vec3, faceNormal geom.Vec3) geom.Vec3 {
	toFace := faceCenter.Sub(interior)
	d := toFace.Dot(faceNormal)
	return interior.Add(faceNormal.Scale(2 * d))
}

// MirrorVolume returns the volume a ghost cell is assigned: equal to its
// interior neighbor's, since no independent geometry exists past a
// physical boundary (spec 4.3, ghost cells carry a copy of the adjoining
// interior cell's volume rather than an extrapolated one).
func MirrorVolume(interiorVolume float64) float64 { return interiorVolume }
