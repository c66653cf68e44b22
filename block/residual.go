package block

import (
	"math"

	"github.com/notargets/flowcore/flux"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// faceFamily names the three logical face directions a block's residual
// assembly sweeps (spec 4.2, "for each face family i, j, k").
type faceFamily int

const (
	FamilyI faceFamily = iota
	FamilyJ
	FamilyK
)

// CalcResidualNoSource sweeps all three face families, accumulating the
// inviscid flux contribution and spectral radius into every physical
// cell's Residual/SpecRadius arrays. Source terms (chemistry/turbulence)
// are deliberately excluded here; the caller adds them in a separate
// pass once inter-block gradient exchange has completed (spec 4.2 step
// 7, 4.5 step 2).
//
// Second-order MUSCL reconstruction needs two ghost layers and WENO/
// WENO-Z needs three; b.G must be configured accordingly for the
// selected solverinput.ReconstructionOrder or this will panic on an
// out-of-range array access rather than silently truncate the stencil.
//
// transport may be nil when inp.IsViscous() is false; the caller must
// have already run ComputeGradients and UpdateTransportProperties this
// step when viscous terms are active, since the viscous flux reads
// VelocityGrad/TemperatureGrad/Viscosity/EddyViscosity directly.
func (b *ProcBlock) CalcResidualNoSource(eos physics.EquationOfState, transport physics.TransportModel,
	inp solverinput.Input) error {
	b.zeroResidualAndSpecRad()

	if err := b.sweepFamily(eos, transport, inp, FamilyI); err != nil {
		return err
	}
	if err := b.sweepFamily(eos, transport, inp, FamilyJ); err != nil {
		return err
	}
	if err := b.sweepFamily(eos, transport, inp, FamilyK); err != nil {
		return err
	}
	return nil
}

// zeroResidualAndSpecRad clears both accumulators before a fresh
// residual sweep; BlkMultiArray3d has no bulk-clear of its own, so the
// zero record is written cell by cell.
func (b *ProcBlock) zeroResidualAndSpecRad() {
	zeroRes := varset.NewResidual(b.Layout)
	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				b.Residual.SetRecord(i, j, k, zeroRes)
				b.SpecRadius.Set(i, j, k, 0)
				b.ViscSpecRadius.Set(i, j, k, 0)
			}
		}
	}
}

func (b *ProcBlock) sweepFamily(eos physics.EquationOfState, transport physics.TransportModel,
	inp solverinput.Input, fam faceFamily) error {
	ni, nj, nk := b.NI(), b.NJ(), b.NK()
	limiter := flux.LimiterByName(inp.LimiterName())

	var dim1, dim2, dim3 int
	switch fam {
	case FamilyI:
		dim1, dim2, dim3 = nj, nk, ni
	case FamilyJ:
		dim1, dim2, dim3 = ni, nk, nj
	default:
		dim1, dim2, dim3 = ni, nj, nk
	}

	at := func(c, d1, d2 int) (int, int, int) {
		switch fam {
		case FamilyI:
			return c, d1, d2
		case FamilyJ:
			return d1, c, d2
		default:
			return d1, d2, c
		}
	}
	// view returns the state at family-axis index c, or a zero view (which
	// panics if read) when c lies beyond the block's b.G ghost layers.
	view := func(c, d1, d2 int) varset.PrimitiveView {
		if c < -b.G || c >= dim3+b.G {
			return varset.PrimitiveView{}
		}
		i, j, k := at(c, d1, d2)
		return b.State.RecordView(i, j, k)
	}
	faceName := "i"
	if fam == FamilyJ {
		faceName = "j"
	} else if fam == FamilyK {
		faceName = "k"
	}

	for d1 := 0; d1 < dim1; d1++ {
		for d2 := 0; d2 < dim2; d2++ {
			for c := -1; c < dim3; c++ { // c = left cell index along this family's axis
				iL, jL, kL := at(c, d1, d2)
				iR, jR, kR := at(c+1, d1, d2)

				stencil := flux.Stencil{
					QM2: view(c-2, d1, d2),
					QM1: view(c-1, d1, d2),
					Q0:  b.State.RecordView(iL, jL, kL),
					QP1: b.State.RecordView(iR, jR, kR),
					QP2: view(c+2, d1, d2),
				}

				qL, qR, err := flux.Reconstruct(inp.ReconstructionOrder(), inp.MUSCLKappa(), limiter, stencil,
					b.ID.GlobalPosition, faceName, iR, jR, kR)
				if err != nil {
					return err
				}

				area := b.faceArea(fam, c+1, d1, d2)
				f, specRad, err := flux.InviscidFlux(inp.FluxScheme(), eos, qL, qR, area)
				if err != nil {
					return err
				}

				viscSpecRad := 0.0
				if inp.IsViscous() && transport != nil {
					vf, vsr := b.viscousFaceFlux(eos, transport, qL, qR, area, iL, jL, kL, iR, jR, kR)
					f.Add(vf)
					viscSpecRad = vsr
				}

				if c >= 0 && c < dim3 {
					addInto(b.Residual.RecordView(iL, jL, kL), f, 1)
					b.SpecRadius.Set(iL, jL, kL, b.SpecRadius.Get(iL, jL, kL)+specRad)
					b.ViscSpecRadius.Set(iL, jL, kL, b.ViscSpecRadius.Get(iL, jL, kL)+viscSpecRad)
				}
				if c+1 >= 0 && c+1 < dim3 {
					addInto(b.Residual.RecordView(iR, jR, kR), f, -1)
					b.SpecRadius.Set(iR, jR, kR, b.SpecRadius.Get(iR, jR, kR)+specRad)
					b.ViscSpecRadius.Set(iR, jR, kR, b.ViscSpecRadius.Get(iR, jR, kR)+viscSpecRad)
				}
			}
		}
	}
	return nil
}

// addInto folds sign*f into a residual accumulator view; Residual's
// storage is addressed through the same PrimitiveView machinery used
// for state since both are fixed-stride records over the block's flat
// float64 slab.
func addInto(view varset.PrimitiveView, f varset.Residual, sign float64) {
	for i := 0; i < view.Layout.Size(); i++ {
		view.Set(i, view.At(i)+sign*f.At(i))
	}
}

// viscousFaceFlux evaluates the TSL viscous flux at the face between
// (iL,jL,kL) and (iR,jR,kR), averaging the two neighboring cells'
// already-computed gradients, viscosity (molecular + eddy), and thermal
// conductivity rather than reconstructing a face-local gradient stencil
// (spec 4.2's viscous term uses the same gradients the source terms do).
func (b *ProcBlock) viscousFaceFlux(eos physics.EquationOfState, transport physics.TransportModel,
	qL, qR varset.Primitive, area [3]float64, iL, jL, kL, iR, jR, kR int) (varset.Residual, float64) {
	mag := math.Sqrt(area[0]*area[0] + area[1]*area[1] + area[2]*area[2])
	if mag <= 0 {
		return varset.NewResidual(qL.Layout), 0
	}
	nx, ny, nz := area[0]/mag, area[1]/mag, area[2]/mag

	qFace := varset.NewPrimitive(qL.Layout)
	for i := 0; i < qL.Layout.Size(); i++ {
		qFace.Set(i, 0.5*(qL.At(i)+qR.At(i)))
	}

	// VelocityGrad/TemperatureGrad and friends hold no ghost layer (G=0);
	// at a domain boundary one side of the face falls outside the
	// physical extent, so the face value there is just the interior
	// side's cell-centered value rather than an average.
	inPhysical := func(i, j, k int) bool {
		return i >= 0 && i < b.NI() && j >= 0 && j < b.NJ() && k >= 0 && k < b.NK()
	}
	physL, physR := inPhysical(iL, jL, kL), inPhysical(iR, jR, kR)

	var velGrad physics.Tensor3x3
	var gradT [3]float64
	var muL, muR, volL, volR float64
	if physL {
		velGrad = velGrad.Add(b.VelocityGrad.Get(iL, jL, kL))
		gt := b.TemperatureGrad.Get(iL, jL, kL)
		gradT[0] += gt[0]
		gradT[1] += gt[1]
		gradT[2] += gt[2]
		muL = b.Viscosity.Get(iL, jL, kL) + b.EddyViscosity.Get(iL, jL, kL)
		volL = b.Geom.Volume(iL, jL, kL)
	}
	if physR {
		velGrad = velGrad.Add(b.VelocityGrad.Get(iR, jR, kR))
		gt := b.TemperatureGrad.Get(iR, jR, kR)
		gradT[0] += gt[0]
		gradT[1] += gt[1]
		gradT[2] += gt[2]
		muR = b.Viscosity.Get(iR, jR, kR) + b.EddyViscosity.Get(iR, jR, kR)
		volR = b.Geom.Volume(iR, jR, kR)
	}
	count := 0.0
	if physL {
		count++
	}
	if physR {
		count++
	}
	if count == 0 {
		count = 1
	}
	velGrad = velGrad.Scale(1.0 / count)
	gradT[0] /= count
	gradT[1] /= count
	gradT[2] /= count
	mu := (muL + muR) / count
	vol := (volL + volR) / count

	temperature := eos.Temperature(varset.ViewOfPrimitive(qFace))
	kThermal := transport.ThermalConductivity(varset.ViewOfPrimitive(qFace), temperature, mu)

	return flux.ViscousFlux(eos, qFace, velGrad, gradT, mu, kThermal, mag, vol, nx, ny, nz)
}

func (b *ProcBlock) faceArea(fam faceFamily, faceIdx, d1, d2 int) [3]float64 {
	var a geom.Area
	switch fam {
	case FamilyI:
		a = b.Geom.FaceAreaI(faceIdx, d1, d2)
	case FamilyJ:
		a = b.Geom.FaceAreaJ(d1, faceIdx, d2)
	default:
		a = b.Geom.FaceAreaK(d1, d2, faceIdx)
	}
	return [3]float64{a.Vec.X, a.Vec.Y, a.Vec.Z}
}
