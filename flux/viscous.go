package flux

import (
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/varset"
)

// FaceSample is one of the cell-face samples contributing to a
// Green-Gauss gradient: the quantity's face-averaged value and the face
// area vector. No orientation flag is carried, so callers pass area
// vectors already oriented outward from THIS control volume.
type FaceSample struct {
	Value float64
	Area  [3]float64
}

// GreenGaussGradient accumulates sum(value_f * areaVec_f) / volume over
// the six faces of a control volume, giving the gradient of a scalar
// quantity. ProcBlock.faceCenteredGradients (package block) uses it over the face-straddling
// control volume of its ten-cell stencil (the two cells adjacent to the
// face plus eight edge neighbors), pre-averaging the neighbor states into
// each of the six face samples before calling this; the routine itself
// does not depend on how many cells contributed to each face value.
func GreenGaussGradient(faces [6]FaceSample, volume float64) [3]float64 {
	var g [3]float64
	if volume <= 0 {
		return g
	}
	for _, f := range faces {
		g[0] += f.Value * f.Area[0]
		g[1] += f.Value * f.Area[1]
		g[2] += f.Value * f.Area[2]
	}
	g[0] /= volume
	g[1] /= volume
	g[2] /= volume
	return g
}

// VelocityGradient assembles the 3x3 velocity-gradient tensor (row i =
// gradient of velocity component i) from three independent Green-Gauss
// gradient calls, one per velocity component.
func VelocityGradient(uFaces, vFaces, wFaces [6]FaceSample, volume float64) physics.Tensor3x3 {
	gu := GreenGaussGradient(uFaces, volume)
	gv := GreenGaussGradient(vFaces, volume)
	gw := GreenGaussGradient(wFaces, volume)
	return physics.Tensor3x3{gu, gv, gw}
}

// ViscousFlux evaluates the thin-shear-layer (TSL) viscous flux across a
// face: the full strain-rate tensor contracted with the face normal,
// Stokes' hypothesis for the bulk viscosity term, and Fourier
// conduction for the energy equation. specRad is the viscous spectral
// radius contribution (spec 4.2), (4*mu/(3*rho) + kThermal/(rho*cv))
// scaled by area^2/volume, which the caller adds to the inviscid
// spectral radius for the time step and implicit diagonal.
func ViscousFlux(eos physics.EquationOfState, qFace varset.Primitive, velGrad physics.Tensor3x3,
	gradT [3]float64, mu, kThermal, faceAreaMag, cellVolume float64, nx, ny, nz float64) (varset.Residual, float64) {
	l := qFace.Layout
	out := varset.NewResidual(l)

	strain := velGrad.SymmetricPart()
	divU := velGrad.Trace()

	// tau_ij = 2*mu*S_ij - (2/3)*mu*divU*delta_ij (Stokes' hypothesis).
	var tau physics.Tensor3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tau[i][j] = 2 * mu * strain[i][j]
		}
		tau[i][i] -= (2.0 / 3.0) * mu * divU
	}

	n := [3]float64{nx, ny, nz}
	var tauDotN [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tauDotN[i] += tau[i][j] * n[j]
		}
	}

	u, v, w := qFace.Velocity()
	vel := [3]float64{u, v, w}
	work := 0.0
	for i := 0; i < 3; i++ {
		work += vel[i] * tauDotN[i]
	}

	qHeat := 0.0
	for i := 0; i < 3; i++ {
		qHeat += kThermal * gradT[i] * n[i]
	}

	out.Set(l.MomentumXIndex(), tauDotN[0])
	out.Set(l.MomentumYIndex(), tauDotN[1])
	out.Set(l.MomentumZIndex(), tauDotN[2])
	out.Set(l.EnergyIndex(), work+qHeat)

	rho := qFace.Rho()
	specRad := 0.0
	if rho > 0 && cellVolume > 0 {
		cv := 1.0 // nondimensionalized reference; callers with a real
		// thermodynamic cv should pre-scale kThermal accordingly.
		specRad = (4.0/3.0*mu/rho + kThermal/(rho*cv)) * faceAreaMag * faceAreaMag / cellVolume
	}
	return out, specRad
}
