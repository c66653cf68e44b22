package varset

import "fmt"

// Conserved is a fixed-length record: species densities, momentum, total
// energy, and rho*turbulence quantities.
type Conserved struct {
	Layout Layout
	data   []float64
}

// Primitive is a fixed-length record: species densities, velocity, pressure,
// and turbulence quantities.
type Primitive struct {
	Layout Layout
	data   []float64
}

// Residual is the same layout used as a per-equation accumulator for
// residual sums and L2/Linf norms.
type Residual struct {
	Layout Layout
	data   []float64
}

// UncoupledScalar is a two-field scalar record used for turbulence
// quantities that are solved with a decoupled, point-implicit update
// (e.g. k/omega) rather than folded into the full equation set. Recovered
// from the Aither original's uncoupledScalar.hpp.
type UncoupledScalar struct {
	data [2]float64
}

func newData(l Layout) []float64 { return make([]float64, l.Size()) }

// NewConserved allocates a zeroed conserved record for the given layout.
func NewConserved(l Layout) Conserved { return Conserved{Layout: l, data: newData(l)} }

// NewPrimitive allocates a zeroed primitive record for the given layout.
func NewPrimitive(l Layout) Primitive { return Primitive{Layout: l, data: newData(l)} }

// NewResidual allocates a zeroed residual accumulator for the given layout.
func NewResidual(l Layout) Residual { return Residual{Layout: l, data: newData(l)} }

// At returns the raw storage value at equation index i.
func (c Conserved) At(i int) float64 { return c.data[i] }

// Set assigns the raw storage value at equation index i.
func (c Conserved) Set(i int, v float64) { c.data[i] = v }

// Raw exposes the backing slice (len == Layout.Size()); callers must not
// retain it past the record's lifetime if the record is a borrowed View.
func (c Conserved) Raw() []float64 { return c.data }

func (p Primitive) At(i int) float64     { return p.data[i] }
func (p Primitive) Set(i int, v float64) { p.data[i] = v }
func (p Primitive) Raw() []float64       { return p.data }

func (r Residual) At(i int) float64     { return r.data[i] }
func (r Residual) Set(i int, v float64) { r.data[i] = v }
func (r Residual) Raw() []float64       { return r.data }

// RhoSpecies returns species density s.
func (c Conserved) RhoSpecies(s int) float64 { return c.data[c.Layout.SpeciesIndex(s)] }

// Rho returns total density, the sum of species densities.
func (c Conserved) Rho() float64 {
	sum := 0.0
	for s := 0; s < c.Layout.NumSpecies; s++ {
		sum += c.RhoSpecies(s)
	}
	return sum
}

// Momentum returns the (rho*u, rho*v, rho*w) triple.
func (c Conserved) Momentum() (x, y, z float64) {
	return c.data[c.Layout.MomentumXIndex()], c.data[c.Layout.MomentumYIndex()], c.data[c.Layout.MomentumZIndex()]
}

// Energy returns total energy per unit volume (rho*E).
func (c Conserved) Energy() float64 { return c.data[c.Layout.EnergyIndex()] }

// RhoSpecies returns species density s for a primitive record.
func (p Primitive) RhoSpecies(s int) float64 { return p.data[p.Layout.SpeciesIndex(s)] }

// Rho returns total density.
func (p Primitive) Rho() float64 {
	sum := 0.0
	for s := 0; s < p.Layout.NumSpecies; s++ {
		sum += p.RhoSpecies(s)
	}
	return sum
}

// Velocity returns (u, v, w).
func (p Primitive) Velocity() (u, v, w float64) {
	return p.data[p.Layout.MomentumXIndex()], p.data[p.Layout.MomentumYIndex()], p.data[p.Layout.MomentumZIndex()]
}

// Pressure returns static pressure.
func (p Primitive) Pressure() float64 { return p.data[p.Layout.EnergyIndex()] }

// MassFraction returns species s's mass fraction (species density / total density).
func (p Primitive) MassFraction(s int) float64 {
	rho := p.Rho()
	if rho <= 0 {
		return 0
	}
	return p.RhoSpecies(s) / rho
}

// Turbulence returns turbulence quantity k, or 0 if the layout has no RANS terms.
func (p Primitive) Turbulence(k int) float64 {
	if !p.Layout.HasRANS {
		return 0
	}
	return p.data[p.Layout.TurbulenceIndex(k)]
}

// ClampSpeciesNonnegative zeroes any negative species mass and renormalizes
// the remaining mass fractions so they sum to the original total density.
// Required by spec 4.4 after an implicit state update.
func (p Primitive) ClampSpeciesNonnegative() {
	original := 0.0
	for s := 0; s < p.Layout.NumSpecies; s++ {
		original += p.data[p.Layout.SpeciesIndex(s)]
	}
	clampedTotal := 0.0
	clamped := false
	for s := 0; s < p.Layout.NumSpecies; s++ {
		idx := p.Layout.SpeciesIndex(s)
		if p.data[idx] < 0 {
			p.data[idx] = 0
			clamped = true
		}
		clampedTotal += p.data[idx]
	}
	if !clamped || clampedTotal <= 0 {
		return
	}
	// Rescale surviving species back up so total density matches the
	// pre-clamp total; the clamped-to-zero species give up their
	// (erroneous, negative) share proportionally to the rest.
	scale := original / clampedTotal
	for s := 0; s < p.Layout.NumSpecies; s++ {
		idx := p.Layout.SpeciesIndex(s)
		p.data[idx] *= scale
	}
}

// Add accumulates src into r element-wise (used by the residual accumulator).
func (r Residual) Add(src Residual) {
	for i := range r.data {
		r.data[i] += src.data[i]
	}
}

// Scale multiplies every equation slot by c in place.
func (r Residual) Scale(c float64) {
	for i := range r.data {
		r.data[i] *= c
	}
}

// AddScaled accumulates alpha*src into r element-wise.
func (r Residual) AddScaled(alpha float64, src Residual) {
	for i := range r.data {
		r.data[i] += alpha * src.data[i]
	}
}

// Zero resets every equation slot to 0.
func (r Residual) Zero() {
	for i := range r.data {
		r.data[i] = 0
	}
}

// L2Sq returns the per-equation squares, suitable for accumulation into a
// running L2-norm-squared total across all cells.
func (r Residual) L2Sq(out []float64) {
	for i, v := range r.data {
		out[i] += v * v
	}
}

// AbsMaxEquation returns the equation index and magnitude of the
// largest-magnitude residual component, used to build the Linf report.
func (r Residual) AbsMaxEquation() (eq int, mag float64) {
	for i, v := range r.data {
		a := v
		if a < 0 {
			a = -a
		}
		if a > mag {
			mag, eq = a, i
		}
	}
	return eq, mag
}

// ConvergenceAccumulator tracks running L2 and Linf norms of a per-cell
// update across an entire nonlinear sweep, one instance shared across all
// of a rank's blocks (spec 4.4's L2_acc/Linf_acc update arguments).
type ConvergenceAccumulator struct {
	L2      Residual
	LinfEq  int
	LinfVal float64
}

// NewConvergenceAccumulator allocates a zeroed accumulator for layout l.
func NewConvergenceAccumulator(l Layout) *ConvergenceAccumulator {
	return &ConvergenceAccumulator{L2: NewResidual(l)}
}

// Accumulate folds one cell's update into the running norms.
func (a *ConvergenceAccumulator) Accumulate(du Residual) {
	du.L2Sq(a.L2.Raw())
	eq, mag := du.AbsMaxEquation()
	if mag > a.LinfVal {
		a.LinfVal = mag
		a.LinfEq = eq
	}
}

func (u *UncoupledScalar) At(i int) float64 {
	if i < 0 || i > 1 {
		panic(fmt.Sprintf("varset: UncoupledScalar index %d out of range", i))
	}
	return u.data[i]
}

func (u *UncoupledScalar) Set(i int, v float64) {
	if i < 0 || i > 1 {
		panic(fmt.Sprintf("varset: UncoupledScalar index %d out of range", i))
	}
	u.data[i] = v
}
