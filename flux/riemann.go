package flux

import (
	"math"

	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// physicalFlux evaluates the convective flux vector F(q)*n for primitive
// state p across a unit normal (nx,ny,nz): per-species mass flux,
// momentum flux (convection plus pressure), energy flux, and (if RANS)
// turbulence mass flux.
func physicalFlux(eos physics.EquationOfState, p varset.Primitive, nx, ny, nz float64) varset.Residual {
	l := p.Layout
	f := varset.NewResidual(l)
	u, v, w := p.Velocity()
	un := u*nx + v*ny + w*nz
	press := p.Pressure()
	rho := p.Rho()

	for s := 0; s < l.NumSpecies; s++ {
		f.Set(l.SpeciesIndex(s), p.RhoSpecies(s)*un)
	}
	f.Set(l.MomentumXIndex(), rho*u*un+press*nx)
	f.Set(l.MomentumYIndex(), rho*v*un+press*ny)
	f.Set(l.MomentumZIndex(), rho*w*un+press*nz)

	// Total energy per unit volume, recovered from conserved state so the
	// convective energy flux un*(rhoE+p) is consistent with ToConserved.
	c, err := eos.ToConserved(p)
	rhoE := 0.0
	if err == nil {
		rhoE = c.Energy()
	}
	f.Set(l.EnergyIndex(), un*(rhoE+press))

	if l.HasRANS {
		for k := 0; k < 2; k++ {
			f.Set(l.TurbulenceIndex(k), rho*p.Turbulence(k)*un)
		}
	}
	return f
}

// spectralRadiusOf returns |un| + a, the inviscid spectral radius
// contribution of one face's state, used both by the dissipation terms
// below and by the block package's time-step/diagonal accumulation.
func spectralRadiusOf(eos physics.EquationOfState, p varset.Primitive, nx, ny, nz float64) float64 {
	u, v, w := p.Velocity()
	un := u*nx + v*ny + w*nz
	a := eos.SpeedOfSound(varset.ViewOfPrimitive(p))
	return math.Abs(un) + a
}

// InviscidFlux dispatches to the configured Riemann solver (spec 4.2
// item C5) and returns the face flux (already scaled by face area) plus
// the spectral radius contribution the caller accumulates for the time
// step and implicit diagonal.
func InviscidFlux(scheme solverinput.FluxScheme, eos physics.EquationOfState, qL, qR varset.Primitive,
	areaVec [3]float64) (varset.Residual, float64, error) {
	mag := math.Sqrt(areaVec[0]*areaVec[0] + areaVec[1]*areaVec[1] + areaVec[2]*areaVec[2])
	if mag == 0 {
		return varset.NewResidual(qL.Layout), 0, nil
	}
	nx, ny, nz := areaVec[0]/mag, areaVec[1]/mag, areaVec[2]/mag

	var f varset.Residual
	var specRad float64
	var err error
	switch scheme {
	case solverinput.FluxRoe:
		f, specRad, err = roeFlux(eos, qL, qR, nx, ny, nz)
	case solverinput.FluxAUSM:
		f, specRad, err = ausmFlux(eos, qL, qR, nx, ny, nz)
	case solverinput.FluxHLL:
		f, specRad, err = hllFlux(eos, qL, qR, nx, ny, nz)
	default:
		f, specRad, err = rusanovFlux(eos, qL, qR, nx, ny, nz)
	}
	if err != nil {
		return varset.Residual{}, 0, err
	}
	out := varset.NewResidual(qL.Layout)
	out.AddScaled(mag, f)
	return out, specRad * mag, nil
}

func rusanovFlux(eos physics.EquationOfState, qL, qR varset.Primitive, nx, ny, nz float64) (varset.Residual, float64, error) {
	fL := physicalFlux(eos, qL, nx, ny, nz)
	fR := physicalFlux(eos, qR, nx, ny, nz)
	srL := spectralRadiusOf(eos, qL, nx, ny, nz)
	srR := spectralRadiusOf(eos, qR, nx, ny, nz)
	smax := math.Max(srL, srR)

	cL, err := eos.ToConserved(qL)
	if err != nil {
		return varset.Residual{}, 0, err
	}
	cR, err := eos.ToConserved(qR)
	if err != nil {
		return varset.Residual{}, 0, err
	}

	out := varset.NewResidual(qL.Layout)
	for i := 0; i < out.Layout.Size(); i++ {
		out.Set(i, 0.5*(fL.At(i)+fR.At(i))-0.5*smax*(cR.At(i)-cL.At(i)))
	}
	return out, smax, nil
}

// roeFlux approximates the Roe flux-difference splitting: the acoustic
// and convective wave speeds are evaluated at Roe-averaged density
// weighting, but (since the layout's species/turbulence count is
// runtime-variable) each equation's dissipation is applied with a
// scalar wave speed rather than a full eigenvector decomposition —
// consistent with the simplified-Roe treatment the Aither original
// falls back to for its scalar-transported species and turbulence
// equations, generalized here to every equation slot.
func roeFlux(eos physics.EquationOfState, qL, qR varset.Primitive, nx, ny, nz float64) (varset.Residual, float64, error) {
	fL := physicalFlux(eos, qL, nx, ny, nz)
	fR := physicalFlux(eos, qR, nx, ny, nz)

	rhoL, rhoR := qL.Rho(), qR.Rho()
	sqrtL, sqrtR := math.Sqrt(math.Max(rhoL, 1e-300)), math.Sqrt(math.Max(rhoR, 1e-300))
	denom := sqrtL + sqrtR

	uL, vL, wL := qL.Velocity()
	uR, vR, wR := qR.Velocity()
	uRoe := (sqrtL*uL + sqrtR*uR) / denom
	vRoe := (sqrtL*vL + sqrtR*vR) / denom
	wRoe := (sqrtL*wL + sqrtR*wR) / denom
	unRoe := uRoe*nx + vRoe*ny + wRoe*nz

	aL := eos.SpeedOfSound(varset.ViewOfPrimitive(qL))
	aR := eos.SpeedOfSound(varset.ViewOfPrimitive(qR))
	aRoe := (sqrtL*aL + sqrtR*aR) / denom

	lambdaAcoustic := math.Abs(unRoe) + aRoe
	lambdaConvective := math.Abs(unRoe)

	cL, err := eos.ToConserved(qL)
	if err != nil {
		return varset.Residual{}, 0, err
	}
	cR, err := eos.ToConserved(qR)
	if err != nil {
		return varset.Residual{}, 0, err
	}

	l := qL.Layout
	out := varset.NewResidual(l)
	for i := 0; i < l.Size(); i++ {
		lambda := lambdaConvective
		if i == l.MomentumXIndex() || i == l.MomentumYIndex() || i == l.MomentumZIndex() || i == l.EnergyIndex() {
			lambda = lambdaAcoustic
		}
		out.Set(i, 0.5*(fL.At(i)+fR.At(i))-0.5*lambda*(cR.At(i)-cL.At(i)))
	}
	return out, lambdaAcoustic, nil
}

// ausmFlux implements the AUSM (Liou & Steffen) convective/pressure
// splitting: the mass flux is built from split Mach numbers times the
// upwinded density, and pressure is split separately.
func ausmFlux(eos physics.EquationOfState, qL, qR varset.Primitive, nx, ny, nz float64) (varset.Residual, float64, error) {
	uL, vL, wL := qL.Velocity()
	uR, vR, wR := qR.Velocity()
	unL := uL*nx + vL*ny + wL*nz
	unR := uR*nx + vR*ny + wR*nz
	aL := eos.SpeedOfSound(varset.ViewOfPrimitive(qL))
	aR := eos.SpeedOfSound(varset.ViewOfPrimitive(qR))
	aHalf := 0.5 * (aL + aR)

	mL, mR := unL/aHalf, unR/aHalf

	splitM := func(m float64, plus bool) float64 {
		if math.Abs(m) >= 1 {
			if plus {
				return 0.5 * (m + math.Abs(m))
			}
			return 0.5 * (m - math.Abs(m))
		}
		if plus {
			return 0.25 * sq(m+1)
		}
		return -0.25 * sq(m-1)
	}
	splitP := func(m float64, plus bool) float64 {
		if math.Abs(m) >= 1 {
			if plus {
				return 0.5 * (1 + sign(m))
			}
			return 0.5 * (1 - sign(m))
		}
		if plus {
			return 0.25 * sq(m+1) * (2 - m)
		}
		return 0.25 * sq(m-1) * (2 + m)
	}

	mHalf := splitM(mL, true) + splitM(mR, false)
	pL, pR := qL.Pressure(), qR.Pressure()
	pHalf := splitP(mL, true)*pL + splitP(mR, false)*pR

	cL, err := eos.ToConserved(qL)
	if err != nil {
		return varset.Residual{}, 0, err
	}
	cR, err := eos.ToConserved(qR)
	if err != nil {
		return varset.Residual{}, 0, err
	}

	l := qL.Layout
	out := varset.NewResidual(l)
	massFlux := func(c varset.Conserved, eq int) float64 { return c.At(eq) }
	upwind := cL
	if mHalf < 0 {
		upwind = cR
	}
	for eq := 0; eq < l.NumSpecies; eq++ {
		out.Set(eq, mHalf*aHalf*massFlux(upwind, eq))
	}
	upwindU, upwindV, upwindW := qL.Velocity()
	if mHalf < 0 {
		upwindU, upwindV, upwindW = qR.Velocity()
	}
	out.Set(l.MomentumXIndex(), mHalf*aHalf*upwind.Rho()*upwindU+pHalf*nx)
	out.Set(l.MomentumYIndex(), mHalf*aHalf*upwind.Rho()*upwindV+pHalf*ny)
	out.Set(l.MomentumZIndex(), mHalf*aHalf*upwind.Rho()*upwindW+pHalf*nz)
	out.Set(l.EnergyIndex(), mHalf*aHalf*(upwind.Energy()+pressureOf(eos, upwind)))
	if l.HasRANS {
		upwindP := qL
		if mHalf < 0 {
			upwindP = qR
		}
		for k := 0; k < 2; k++ {
			out.Set(l.TurbulenceIndex(k), mHalf*aHalf*upwind.Rho()*upwindP.Turbulence(k))
		}
	}
	specRad := math.Abs(0.5*(unL+unR)) + aHalf
	return out, specRad, nil
}

func pressureOf(eos physics.EquationOfState, c varset.Conserved) float64 {
	p, err := eos.ToPrimitive(c)
	if err != nil {
		return 0
	}
	return p.Pressure()
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// hllFlux implements the two-wave HLL estimate with Davis wave-speed
// bounds.
func hllFlux(eos physics.EquationOfState, qL, qR varset.Primitive, nx, ny, nz float64) (varset.Residual, float64, error) {
	uL, vL, wL := qL.Velocity()
	uR, vR, wR := qR.Velocity()
	unL := uL*nx + vL*ny + wL*nz
	unR := uR*nx + vR*ny + wR*nz
	aL := eos.SpeedOfSound(varset.ViewOfPrimitive(qL))
	aR := eos.SpeedOfSound(varset.ViewOfPrimitive(qR))

	sL := math.Min(unL-aL, unR-aR)
	sL = math.Min(sL, 0)
	sR := math.Max(unL+aL, unR+aR)
	sR = math.Max(sR, 0)

	fL := physicalFlux(eos, qL, nx, ny, nz)
	fR := physicalFlux(eos, qR, nx, ny, nz)
	cL, err := eos.ToConserved(qL)
	if err != nil {
		return varset.Residual{}, 0, err
	}
	cR, err := eos.ToConserved(qR)
	if err != nil {
		return varset.Residual{}, 0, err
	}

	l := qL.Layout
	out := varset.NewResidual(l)
	if sR == sL {
		return out, math.Max(math.Abs(sL), math.Abs(sR)), nil
	}
	for i := 0; i < l.Size(); i++ {
		v := (sR*fL.At(i) - sL*fR.At(i) + sL*sR*(cR.At(i)-cL.At(i))) / (sR - sL)
		out.Set(i, v)
	}
	return out, math.Max(math.Abs(sL), math.Abs(sR)), nil
}
