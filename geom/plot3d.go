// Package geom implements the plot3dBlock geometry primitive: a structured
// node grid and the cell volumes, face area vectors, face centers, and
// cell centroids derived from it (spec 4.1).
package geom

import (
	"github.com/notargets/flowcore/array3d"
	"github.com/notargets/flowcore/ferr"
)

// PlotBlock holds a (Ni+1, Nj+1, Nk+1) grid of node coordinates and the
// geometry derived from it. Ni, Nj, Nk are the cell counts along each axis.
type PlotBlock struct {
	ni, nj, nk int
	nodes      *array3d.MultiArray3d[Vec3] // node indices [0, n+1)

	volume *array3d.MultiArray3d[float64]
	center *array3d.MultiArray3d[Vec3]

	faceAreaI   *array3d.MultiArray3d[Area] // (ni+1, nj, nk)
	faceAreaJ   *array3d.MultiArray3d[Area] // (ni, nj+1, nk)
	faceAreaK   *array3d.MultiArray3d[Area] // (ni, nj, nk+1)
	faceCenterI *array3d.MultiArray3d[Vec3]
	faceCenterJ *array3d.MultiArray3d[Vec3]
	faceCenterK *array3d.MultiArray3d[Vec3]
}

// NewPlotBlock allocates a node grid of (ni+1)x(nj+1)x(nk+1) points; the
// caller fills it via SetNode before calling ComputeDerived.
func NewPlotBlock(ni, nj, nk int) *PlotBlock {
	return &PlotBlock{
		ni: ni, nj: nj, nk: nk,
		nodes: array3d.New[Vec3](ni+1, nj+1, nk+1, 0),
	}
}

func (p *PlotBlock) NI() int { return p.ni }
func (p *PlotBlock) NJ() int { return p.nj }
func (p *PlotBlock) NK() int { return p.nk }

// SetNode assigns node (i,j,k)'s coordinates, 0 <= i <= Ni etc.
func (p *PlotBlock) SetNode(i, j, k int, v Vec3) { p.nodes.Set(i, j, k, v) }

// Node returns node (i,j,k)'s coordinates.
func (p *PlotBlock) Node(i, j, k int) Vec3 { return p.nodes.Get(i, j, k) }

// hexNodes returns the eight corner nodes of cell (i,j,k) in the
// conventional plot3d ordering: (i,j,k) low-low-low through high-high-high.
func (p *PlotBlock) hexNodes(i, j, k int) [8]Vec3 {
	return [8]Vec3{
		p.Node(i, j, k), p.Node(i+1, j, k), p.Node(i+1, j+1, k), p.Node(i, j+1, k),
		p.Node(i, j, k+1), p.Node(i+1, j, k+1), p.Node(i+1, j+1, k+1), p.Node(i, j+1, k+1),
	}
}

// centroidOf returns the arithmetic mean of the eight hex nodes; used as
// the apex for the pyramidal volume decomposition.
func centroidOf(n [8]Vec3) Vec3 {
	var c Vec3
	for _, v := range n {
		c = c.Add(v)
	}
	return c.Scale(1.0 / 8.0)
}

// pyramidVolume returns the signed volume of the pyramid with quadrilateral
// base (a,b,c,d) and apex point p; it is negative when the base is wound so
// its normal points away from apex. The base is split into two triangles
// sharing diagonal a-c.
func pyramidVolume(a, b, c, d, apex Vec3) float64 {
	// Volume of tetrahedron (a,b,c,apex) + (a,c,d,apex), each = (1/6)|((b-a)x(c-a)). (apex-a)|
	vol := func(p0, p1, p2, p3 Vec3) float64 {
		return (p1.Sub(p0)).Cross(p2.Sub(p0)).Dot(p3.Sub(p0)) / 6.0
	}
	return vol(a, b, c, apex) + vol(a, c, d, apex)
}

// ComputeDerived computes volumes, face areas, face centers, and cell
// centroids from the node grid. Fails with InvalidGeometry if any cell
// volume is non-positive.
func (p *PlotBlock) ComputeDerived() error {
	p.volume = array3d.New[float64](p.ni, p.nj, p.nk, 0)
	p.center = array3d.New[Vec3](p.ni, p.nj, p.nk, 0)
	p.faceAreaI = array3d.New[Area](p.ni+1, p.nj, p.nk, 0)
	p.faceAreaJ = array3d.New[Area](p.ni, p.nj+1, p.nk, 0)
	p.faceAreaK = array3d.New[Area](p.ni, p.nj, p.nk+1, 0)
	p.faceCenterI = array3d.New[Vec3](p.ni+1, p.nj, p.nk, 0)
	p.faceCenterJ = array3d.New[Vec3](p.ni, p.nj+1, p.nk, 0)
	p.faceCenterK = array3d.New[Vec3](p.ni, p.nj, p.nk+1, 0)

	for i := 0; i < p.ni; i++ {
		for j := 0; j < p.nj; j++ {
			for k := 0; k < p.nk; k++ {
				n := p.hexNodes(i, j, k)
				ctr := centroidOf(n)
				vol := hexVolume(n, ctr)
				if vol <= 0 {
					return &ferr.InvalidGeometry{I: i, J: j, K: k, Reason: "non-positive cell volume"}
				}
				p.volume.Set(i, j, k, vol)
				p.center.Set(i, j, k, ctr)
			}
		}
	}

	p.computeFacesI()
	p.computeFacesJ()
	p.computeFacesK()
	return nil
}

// hexVolume decomposes the hexahedron into six pyramids, one per quad
// face, all with their apex at the cell centroid, and sums their volumes.
func hexVolume(n [8]Vec3, ctr Vec3) float64 {
	// Six quad faces of the hex, each wound outward, each contributing one
	// pyramid with apex at the centroid. The six pyramids fill the hex
	// exactly once. With the apex inside the cell, pyramidVolume is
	// negative for an outward-wound base, so the sum is negated.
	faces := [6][4]Vec3{
		{n[0], n[3], n[2], n[1]}, // k-low
		{n[4], n[5], n[6], n[7]}, // k-high
		{n[0], n[1], n[5], n[4]}, // j-low
		{n[3], n[7], n[6], n[2]}, // j-high
		{n[0], n[4], n[7], n[3]}, // i-low
		{n[1], n[2], n[6], n[5]}, // i-high
	}
	vol := 0.0
	for _, f := range faces {
		vol += pyramidVolume(f[0], f[1], f[2], f[3], ctr)
	}
	return -vol
}

// faceAreaVector returns the area vector of a quad face (a,b,c,d) as the
// cross product of its two diagonals, halved (spec 4.1).
func faceAreaVector(a, b, c, d Vec3) Area {
	d1 := c.Sub(a)
	d2 := d.Sub(b)
	return Area{Vec: d1.Cross(d2).Scale(0.5)}
}

func quadCenter(a, b, c, d Vec3) Vec3 {
	return a.Add(b).Add(c).Add(d).Scale(0.25)
}

func (p *PlotBlock) computeFacesI() {
	for i := 0; i <= p.ni; i++ {
		for j := 0; j < p.nj; j++ {
			for k := 0; k < p.nk; k++ {
				a := p.Node(i, j, k)
				b := p.Node(i, j+1, k)
				c := p.Node(i, j+1, k+1)
				d := p.Node(i, j, k+1)
				p.faceAreaI.Set(i, j, k, faceAreaVector(a, b, c, d))
				p.faceCenterI.Set(i, j, k, quadCenter(a, b, c, d))
			}
		}
	}
}

func (p *PlotBlock) computeFacesJ() {
	for i := 0; i < p.ni; i++ {
		for j := 0; j <= p.nj; j++ {
			for k := 0; k < p.nk; k++ {
				a := p.Node(i, j, k)
				b := p.Node(i, j, k+1)
				c := p.Node(i+1, j, k+1)
				d := p.Node(i+1, j, k)
				p.faceAreaJ.Set(i, j, k, faceAreaVector(a, b, c, d))
				p.faceCenterJ.Set(i, j, k, quadCenter(a, b, c, d))
			}
		}
	}
}

func (p *PlotBlock) computeFacesK() {
	for i := 0; i < p.ni; i++ {
		for j := 0; j < p.nj; j++ {
			for k := 0; k <= p.nk; k++ {
				a := p.Node(i, j, k)
				b := p.Node(i+1, j, k)
				c := p.Node(i+1, j+1, k)
				d := p.Node(i, j+1, k)
				p.faceAreaK.Set(i, j, k, faceAreaVector(a, b, c, d))
				p.faceCenterK.Set(i, j, k, quadCenter(a, b, c, d))
			}
		}
	}
}

func (p *PlotBlock) Volume(i, j, k int) float64     { return p.volume.Get(i, j, k) }
func (p *PlotBlock) Centroid(i, j, k int) Vec3       { return p.center.Get(i, j, k) }
func (p *PlotBlock) FaceAreaI(i, j, k int) Area       { return p.faceAreaI.Get(i, j, k) }
func (p *PlotBlock) FaceAreaJ(i, j, k int) Area       { return p.faceAreaJ.Get(i, j, k) }
func (p *PlotBlock) FaceAreaK(i, j, k int) Area       { return p.faceAreaK.Get(i, j, k) }
func (p *PlotBlock) FaceCenterI(i, j, k int) Vec3     { return p.faceCenterI.Get(i, j, k) }
func (p *PlotBlock) FaceCenterJ(i, j, k int) Vec3     { return p.faceCenterJ.Get(i, j, k) }
func (p *PlotBlock) FaceCenterK(i, j, k int) Vec3     { return p.faceCenterK.Get(i, j, k) }
