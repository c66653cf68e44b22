// Package kdquery implements the NearestNeighbor collaborator spec 1
// calls out for wall-distance and point-cloud seeding queries, backed by
// gonum's k-d tree.
package kdquery

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Point3 is a queryable 3-D point carrying an opaque payload (e.g. a seed
// primitive-state index).
type Point3 struct {
	X, Y, Z float64
	Payload int
}

// Compare implements kdtree.Comparable for Point3 against the three
// Cartesian axes.
func (p Point3) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Point3)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		return p.Z - q.Z
	}
}

func (p Point3) Dims() int { return 3 }

func (p Point3) Distance(c kdtree.Comparable) float64 {
	q := c.(Point3)
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}

// points is a kdtree.Interface implementation over a flat Point3 slice.
// Pivot sorts the active sub-slice fully along dimension d and returns the
// median index; a full sort is more work than a true partition but keeps
// the implementation simple and is only paid once per tree build.
type points []Point3

func (p points) Index(i int) kdtree.Comparable { return p[i] }
func (p points) Len() int                       { return len(p) }

func (p points) Pivot(d kdtree.Dim) int {
	sort.Slice(p, func(i, j int) bool {
		return dimValue(p[i], d) < dimValue(p[j], d)
	})
	return len(p) / 2
}

func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

func dimValue(p Point3, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Tree is the NearestNeighbor collaborator: given a point cloud, it
// answers nearest-point queries in O(log n).
type Tree struct {
	t *kdtree.Tree
}

// NewTree builds a k-d tree over cloud. cloud must not be empty.
func NewTree(cloud []Point3) *Tree {
	pts := points(append([]Point3(nil), cloud...))
	return &Tree{t: kdtree.New(pts, false)}
}

// NearestNeighbor returns the closest cloud point to query and its squared
// Euclidean distance.
func (t *Tree) NearestNeighbor(query Point3) (nearest Point3, distSq float64) {
	c, d := t.t.Nearest(query)
	return c.(Point3), d
}
