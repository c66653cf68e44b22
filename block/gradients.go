package block

import (
	"github.com/notargets/flowcore/flux"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/varset"
)

// faceAt places a canonical (c, d1, d2) triple onto the block's real
// (i,j,k) axes for face family fam: c runs along fam's own axis, d1/d2
// along the two in-plane axes (mirrors sweepFamily's local closure in
// residual.go).
func faceAt(fam faceFamily, c, d1, d2 int) (i, j, k int) {
	switch fam {
	case FamilyI:
		return c, d1, d2
	case FamilyJ:
		return d1, c, d2
	default:
		return d1, d2, c
	}
}

// tangentialFamilies returns the two face families normal to fam's
// in-plane axes, in (dir1, dir2) order.
func tangentialFamilies(fam faceFamily) (tan1, tan2 faceFamily) {
	switch fam {
	case FamilyI:
		return FamilyJ, FamilyK
	case FamilyJ:
		return FamilyI, FamilyK
	default:
		return FamilyI, FamilyJ
	}
}

func clampCell(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampFace(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// faceAreaAt reads family fam's face-area vector at real coordinates
// (i,j,k), clamping the component along fam's own axis into a valid
// face index and the other two into valid cell indices. A coordinate
// outside the block's physical extent clamps to its nearest physical
// value rather than reading a separately-stored ghost geometry array,
// since geometry ghosts mirror the bordering interior cell's own volume
// and face areas exactly (spec 4.1 "Geometry ghosts").
func (b *ProcBlock) faceAreaAt(fam faceFamily, i, j, k int) [3]float64 {
	ni, nj, nk := b.NI(), b.NJ(), b.NK()
	switch fam {
	case FamilyI:
		return b.faceArea(FamilyI, clampFace(i, ni), clampCell(j, nj), clampCell(k, nk))
	case FamilyJ:
		return b.faceArea(FamilyJ, clampFace(j, nj), clampCell(i, ni), clampCell(k, nk))
	default:
		return b.faceArea(FamilyK, clampFace(k, nk), clampCell(i, ni), clampCell(j, nj))
	}
}

func (b *ProcBlock) volumeAt(i, j, k int) float64 {
	return b.Geom.Volume(clampCell(i, b.NI()), clampCell(j, b.NJ()), clampCell(k, b.NK()))
}

func add3(a, c [3]float64) [3]float64 {
	return [3]float64{a[0] + c[0], a[1] + c[1], a[2] + c[2]}
}

func negate(v [3]float64) [3]float64 { return [3]float64{-v[0], -v[1], -v[2]} }

// faceGradients holds one face's alternative-control-volume gradient
// result, split one-sixth into each of its two adjacent cells by the
// caller.
type faceGradients struct {
	vel                 physics.Tensor3x3
	t, rho, p, tke, sdr [3]float64
}

// ComputeGradients fills VelocityGrad, TemperatureGrad, DensityGrad,
// PressureGrad, TKEGrad, SDRGrad for every physical cell by sweeping
// each of the block's three face families once, computing a single
// face-centered Green-Gauss gradient per face (spec 4.2 step 5's
// "alternative control volume that straddles the face"), and folding
// one-sixth of each face's result into both of its adjacent cells. A
// cell borders six faces, so it ends up with the arithmetic mean of its
// six face gradients.
//
// Requires the block's regular and edge ghost layers to already carry
// valid state (ApplyPhysicalBoundaryConditions, inter-block exchange,
// ApplyEdgeAndCornerBoundaryConditions), since a face on the block's
// boundary reaches into the edge-neighbor cells of its tangential
// stencil.
func (b *ProcBlock) ComputeGradients(physicsModel physics.EquationOfState) {
	ni, nj, nk := b.NI(), b.NJ(), b.NK()
	acc := make([]faceGradients, ni*nj*nk)
	idx := func(i, j, k int) int { return (i*nj+j)*nk + k }

	add := func(i, j, k int, g faceGradients) {
		if i < 0 || i >= ni || j < 0 || j >= nj || k < 0 || k >= nk {
			return
		}
		a := &acc[idx(i, j, k)]
		a.vel = a.vel.Add(g.vel.Scale(1.0 / 6.0))
		for c := 0; c < 3; c++ {
			a.t[c] += g.t[c] / 6
			a.rho[c] += g.rho[c] / 6
			a.p[c] += g.p[c] / 6
			a.tke[c] += g.tke[c] / 6
			a.sdr[c] += g.sdr[c] / 6
		}
	}

	for fi := 0; fi <= ni; fi++ {
		for j := 0; j < nj; j++ {
			for k := 0; k < nk; k++ {
				g := b.faceCenteredGradients(physicsModel, FamilyI, fi, j, k)
				add(fi-1, j, k, g)
				add(fi, j, k, g)
			}
		}
	}
	for fj := 0; fj <= nj; fj++ {
		for i := 0; i < ni; i++ {
			for k := 0; k < nk; k++ {
				g := b.faceCenteredGradients(physicsModel, FamilyJ, fj, i, k)
				add(i, fj-1, k, g)
				add(i, fj, k, g)
			}
		}
	}
	for fk := 0; fk <= nk; fk++ {
		for i := 0; i < ni; i++ {
			for j := 0; j < nj; j++ {
				g := b.faceCenteredGradients(physicsModel, FamilyK, fk, i, j)
				add(i, j, fk-1, g)
				add(i, j, fk, g)
			}
		}
	}

	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			for k := 0; k < nk; k++ {
				a := acc[idx(i, j, k)]
				b.VelocityGrad.Set(i, j, k, a.vel)
				b.TemperatureGrad.Set(i, j, k, a.t)
				b.DensityGrad.Set(i, j, k, a.rho)
				b.PressureGrad.Set(i, j, k, a.p)
				b.TKEGrad.Set(i, j, k, a.tke)
				b.SDRGrad.Set(i, j, k, a.sdr)
			}
		}
	}
}

// faceCenteredGradients computes the alternative control volume built
// from the two cells straddling face fam/fi/(d1,d2): its through-axis
// end caps are the two cells' own outer faces valued at each cell's own
// state, and its four tangential bounding faces are the vector sum of
// the two cells' own tangential faces, valued as the two-point-central
// average of the corresponding pair of edge-neighbor cells (spec 4.2
// step 5's ten-cell stencil: the two adjacent cells plus eight edge
// neighbors, two per tangential direction per side).
func (b *ProcBlock) faceCenteredGradients(eos physics.EquationOfState, fam faceFamily, fi, d1, d2 int) faceGradients {
	cell := func(c, e1, e2 int) varset.PrimitiveView {
		i, j, k := faceAt(fam, c, e1, e2)
		return b.State.RecordView(i, j, k)
	}
	vol := func(c, e1, e2 int) float64 {
		i, j, k := faceAt(fam, c, e1, e2)
		return b.volumeAt(i, j, k)
	}
	areaOf := func(f faceFamily, c, e1, e2 int) [3]float64 {
		i, j, k := faceAt(fam, c, e1, e2)
		return b.faceAreaAt(f, i, j, k)
	}

	tan1, tan2 := tangentialFamilies(fam)

	qL, qR := cell(fi-1, d1, d2), cell(fi, d1, d2)
	volume := vol(fi-1, d1, d2) + vol(fi, d1, d2)

	areaEndLo := negate(areaOf(fam, fi-1, d1, d2))
	areaEndHi := areaOf(fam, fi+1, d1, d2)
	areaT1Lo := negate(add3(areaOf(tan1, fi-1, d1, d2), areaOf(tan1, fi, d1, d2)))
	areaT1Hi := add3(areaOf(tan1, fi-1, d1+1, d2), areaOf(tan1, fi, d1+1, d2))
	areaT2Lo := negate(add3(areaOf(tan2, fi-1, d1, d2), areaOf(tan2, fi, d1, d2)))
	areaT2Hi := add3(areaOf(tan2, fi-1, d1, d2+1), areaOf(tan2, fi, d1, d2+1))

	qT1Lo := [2]varset.PrimitiveView{cell(fi-1, d1-1, d2), cell(fi, d1-1, d2)}
	qT1Hi := [2]varset.PrimitiveView{cell(fi-1, d1+1, d2), cell(fi, d1+1, d2)}
	qT2Lo := [2]varset.PrimitiveView{cell(fi-1, d1, d2-1), cell(fi, d1, d2-1)}
	qT2Hi := [2]varset.PrimitiveView{cell(fi-1, d1, d2+1), cell(fi, d1, d2+1)}

	build := func(valAt func(varset.PrimitiveView) float64) [6]flux.FaceSample {
		return [6]flux.FaceSample{
			{Value: valAt(qL), Area: areaEndLo},
			{Value: valAt(qR), Area: areaEndHi},
			{Value: 0.5 * (valAt(qT1Lo[0]) + valAt(qT1Lo[1])), Area: areaT1Lo},
			{Value: 0.5 * (valAt(qT1Hi[0]) + valAt(qT1Hi[1])), Area: areaT1Hi},
			{Value: 0.5 * (valAt(qT2Lo[0]) + valAt(qT2Lo[1])), Area: areaT2Lo},
			{Value: 0.5 * (valAt(qT2Hi[0]) + valAt(qT2Hi[1])), Area: areaT2Hi},
		}
	}

	velU := func(v varset.PrimitiveView) float64 { u, _, _ := v.Velocity(); return u }
	velV := func(v varset.PrimitiveView) float64 { _, w, _ := v.Velocity(); return w }
	velW := func(v varset.PrimitiveView) float64 { _, _, z := v.Velocity(); return z }
	tempAt := func(v varset.PrimitiveView) float64 { return eos.Temperature(v) }
	rhoAt := func(v varset.PrimitiveView) float64 { return v.Rho() }
	pAt := func(v varset.PrimitiveView) float64 { return v.Pressure() }
	tkeAt := func(v varset.PrimitiveView) float64 { return v.Turbulence(0) }
	sdrAt := func(v varset.PrimitiveView) float64 { return v.Turbulence(1) }

	var out faceGradients
	out.vel = flux.VelocityGradient(build(velU), build(velV), build(velW), volume)
	out.t = flux.GreenGaussGradient(build(tempAt), volume)
	out.rho = flux.GreenGaussGradient(build(rhoAt), volume)
	out.p = flux.GreenGaussGradient(build(pAt), volume)
	out.tke = flux.GreenGaussGradient(build(tkeAt), volume)
	out.sdr = flux.GreenGaussGradient(build(sdrAt), volume)
	return out
}
