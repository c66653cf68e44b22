package block

import (
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/kdquery"
	"github.com/notargets/flowcore/varset"
)

// InitializeUniform fills every cell, including ghosts, with the same
// primitive state — the simple freestream-everywhere start spec 4.4's
// initialization step supports.
func (b *ProcBlock) InitializeUniform(state varset.Primitive) {
	g := b.G
	for i := -g; i < b.NI()+g; i++ {
		for j := -g; j < b.NJ()+g; j++ {
			for k := -g; k < b.NK()+g; k++ {
				b.State.SetRecord(i, j, k, state)
			}
		}
	}
}

// SeedPoint pairs a spatial location with the primitive state to assign
// to the nearest cell center, used by InitializeFromPointCloud to seed a
// block from an unstructured restart/ICs cloud (e.g. a coarser prior
// solution) rather than a single uniform freestream value.
type SeedPoint struct {
	Location geom.Vec3
	State    varset.Primitive
}

// InitializeFromPointCloud seeds every physical cell from the nearest
// point in seeds by cell-center distance (spec 4.4's alternative
// initialization path), via kdquery's k-d tree nearest-neighbor search.
// Ghost cells are left to the boundary-condition/exchange machinery to
// fill on the first GetBoundaryConditions pass.
func (b *ProcBlock) InitializeFromPointCloud(seeds []SeedPoint) {
	if len(seeds) == 0 {
		return
	}
	cloud := make([]kdquery.Point3, len(seeds))
	for idx, s := range seeds {
		cloud[idx] = kdquery.Point3{X: s.Location.X, Y: s.Location.Y, Z: s.Location.Z, Payload: idx}
	}
	tree := kdquery.NewTree(cloud)

	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				ctr := b.Geom.Centroid(i, j, k)
				nearest, _ := tree.NearestNeighbor(kdquery.Point3{X: ctr.X, Y: ctr.Y, Z: ctr.Z})
				b.State.SetRecord(i, j, k, seeds[nearest.Payload].State)
			}
		}
	}
}
