package physics

import (
	"fmt"
	"math"

	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/varset"
	"gonum.org/v1/gonum/mat"
)

// IdealGas is a calorically-perfect, multi-species, nondimensional
// equation of state: each species carries its own gas constant and
// specific-heat ratio; mixture properties are the mass-fraction-weighted
// average. It is the reference EquationOfState used by tests and
// cmd/flowsolve; a production build would substitute a thermally-perfect
// or real-gas table behind the same interface.
type IdealGas struct {
	Layout       varset.Layout
	SpeciesR     []float64 // nondimensional gas constant per species
	SpeciesGamma []float64 // specific heat ratio per species
}

// NewIdealGas builds a nondimensional ideal gas for the given layout with
// R=1 and gamma=1.4 for every species, the common case for the Euler/NS
// test scenarios in spec 8.
func NewIdealGas(l varset.Layout) *IdealGas {
	r := make([]float64, l.NumSpecies)
	g := make([]float64, l.NumSpecies)
	for s := range r {
		r[s], g[s] = 1.0, 1.4
	}
	return &IdealGas{Layout: l, SpeciesR: r, SpeciesGamma: g}
}

func (eos *IdealGas) mixtureRGamma(massFractions []float64) (R, gamma float64) {
	for s, y := range massFractions {
		R += y * eos.SpeciesR[s]
	}
	// Mixture gamma from mixture cv = sum(y_s * R_s/(gamma_s-1)).
	cv := 0.0
	for s, y := range massFractions {
		cv += y * eos.SpeciesR[s] / (eos.SpeciesGamma[s] - 1)
	}
	if cv <= 0 {
		return R, 1.4
	}
	gamma = 1 + R/cv
	return R, gamma
}

func (eos *IdealGas) ToPrimitive(c varset.Conserved) (varset.Primitive, error) {
	l := eos.Layout
	rho := c.Rho()
	if rho <= 0 {
		return varset.Primitive{}, &ferr.NonphysicalState{Quantity: "rho", Value: rho}
	}
	mx, my, mz := c.Momentum()
	u, v, w := mx/rho, my/rho, mz/rho
	ke := 0.5 * (u*u + v*v + w*w)
	rhoE := c.Energy()

	massFractions := make([]float64, l.NumSpecies)
	for s := 0; s < l.NumSpecies; s++ {
		massFractions[s] = c.RhoSpecies(s) / rho
	}
	_, gamma := eos.mixtureRGamma(massFractions)

	p := NewPrimitiveLayout(l)
	for s := 0; s < l.NumSpecies; s++ {
		p.Set(l.SpeciesIndex(s), c.RhoSpecies(s))
	}
	p.Set(l.MomentumXIndex(), u)
	p.Set(l.MomentumYIndex(), v)
	p.Set(l.MomentumZIndex(), w)

	internalEnergy := rhoE/rho - ke
	pressure := (gamma - 1) * rho * internalEnergy
	if pressure <= 0 {
		return varset.Primitive{}, &ferr.NonphysicalState{Quantity: "pressure", Value: pressure}
	}
	p.Set(l.EnergyIndex(), pressure)

	if l.HasRANS {
		p.Set(l.TurbulenceIndex(0), c.At(l.TurbulenceIndex(0))/rho)
		p.Set(l.TurbulenceIndex(1), c.At(l.TurbulenceIndex(1))/rho)
	}
	return p, nil
}

func (eos *IdealGas) ToConserved(p varset.Primitive) (varset.Conserved, error) {
	l := eos.Layout
	rho := p.Rho()
	if rho <= 0 {
		return varset.Conserved{}, &ferr.NonphysicalState{Quantity: "rho", Value: rho}
	}
	u, v, w := p.Velocity()
	pressure := p.Pressure()
	if pressure <= 0 {
		return varset.Conserved{}, &ferr.NonphysicalState{Quantity: "pressure", Value: pressure}
	}

	massFractions := make([]float64, l.NumSpecies)
	for s := 0; s < l.NumSpecies; s++ {
		massFractions[s] = p.MassFraction(s)
	}
	_, gamma := eos.mixtureRGamma(massFractions)

	c := varset.NewConserved(l)
	for s := 0; s < l.NumSpecies; s++ {
		c.Set(l.SpeciesIndex(s), p.RhoSpecies(s))
	}
	c.Set(l.MomentumXIndex(), rho*u)
	c.Set(l.MomentumYIndex(), rho*v)
	c.Set(l.MomentumZIndex(), rho*w)

	ke := 0.5 * (u*u + v*v + w*w)
	internalEnergy := pressure / ((gamma - 1) * rho)
	c.Set(l.EnergyIndex(), rho*(internalEnergy+ke))

	if l.HasRANS {
		c.Set(l.TurbulenceIndex(0), rho*p.Turbulence(0))
		c.Set(l.TurbulenceIndex(1), rho*p.Turbulence(1))
	}
	return c, nil
}

func (eos *IdealGas) SpeedOfSound(p varset.PrimitiveView) float64 {
	rho := p.Rho()
	pr := Primitive(p).Pressure()
	massFractions := eos.massFractionsOf(p)
	_, gamma := eos.mixtureRGamma(massFractions)
	if rho <= 0 || pr <= 0 {
		return 0
	}
	return math.Sqrt(gamma * pr / rho)
}

func (eos *IdealGas) Temperature(p varset.PrimitiveView) float64 {
	rho := p.Rho()
	pr := Primitive(p).Pressure()
	massFractions := eos.massFractionsOf(p)
	R, _ := eos.mixtureRGamma(massFractions)
	if rho <= 0 || R <= 0 {
		return 0
	}
	return pr / (rho * R)
}

func (eos *IdealGas) massFractionsOf(p varset.PrimitiveView) []float64 {
	l := eos.Layout
	out := make([]float64, l.NumSpecies)
	pr := Primitive(p)
	for s := 0; s < l.NumSpecies; s++ {
		out[s] = pr.MassFraction(s)
	}
	return out
}

// NewPrimitiveLayout is a small helper so this file doesn't need to import
// varset.NewPrimitive under a different name; kept for readability.
func NewPrimitiveLayout(l varset.Layout) varset.Primitive { return varset.NewPrimitive(l) }

// Primitive adapts a PrimitiveView to the value-receiver Primitive methods
// (Rho/Velocity/Pressure/MassFraction) without copying its backing slice.
func Primitive(v varset.PrimitiveView) varset.Primitive {
	return varset.NewPrimitiveFromView(v)
}

// FluxJacobianNormal returns the 1-D inviscid flux Jacobian dF/dU projected
// along unit normal n, evaluated at primitive state p, as an
// NumEquations x NumEquations dense matrix. Used by block.OffDiagonal's
// implicit off-diagonal product as an approximate Jacobian without a full
// analytic flux linearization: only the diagonal is filled, with the
// normal velocity.
func (eos *IdealGas) FluxJacobianNormal(p varset.Primitive, nx, ny, nz float64) (*mat.Dense, error) {
	l := eos.Layout
	n := l.NumEquations
	rho := p.Rho()
	if rho <= 0 {
		return nil, fmt.Errorf("physics: FluxJacobianNormal: nonphysical density %g", rho)
	}
	u, v, w := p.Velocity()
	un := u*nx + v*ny + w*nz
	massFractions := make([]float64, l.NumSpecies)
	for s := 0; s < l.NumSpecies; s++ {
		massFractions[s] = p.MassFraction(s)
	}
	_, _ = eos.mixtureRGamma(massFractions)

	J := mat.NewDense(n, n, nil)
	// Species rows: convective transport at the local normal velocity.
	for s := 0; s < l.NumSpecies; s++ {
		J.Set(l.SpeciesIndex(s), l.SpeciesIndex(s), un)
	}
	mxi, myi, mzi, ei := l.MomentumXIndex(), l.MomentumYIndex(), l.MomentumZIndex(), l.EnergyIndex()
	J.Set(mxi, mxi, un)
	J.Set(myi, myi, un)
	J.Set(mzi, mzi, un)
	J.Set(ei, ei, un)
	if l.HasRANS {
		J.Set(l.TurbulenceIndex(0), l.TurbulenceIndex(0), un)
		J.Set(l.TurbulenceIndex(1), l.TurbulenceIndex(1), un)
	}
	return J, nil
}
