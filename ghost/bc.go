// Package ghost implements spec 4.3/item C6: the boundary-condition
// dispatch table that fills a block's ghost cells from its interior
// state, the geometric ghost-cell construction (mirrored nodes/volumes),
// edge and corner ghost extension, and the inter-block slice exchange
// (same-rank direct copy or MPI send/recv) that keeps two connected
// blocks' ghost layers consistent.
package ghost

import (
	"math"

	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// Normal is an outward-pointing unit face normal, (nx,ny,nz).
type Normal = [3]float64

// GhostState computes one ghost cell's primitive state given the
// adjoining interior cell's state, the face's outward unit normal, the
// boundary's name and tag, the equation of state, and solver input
// (needed for the tag's inlet/wall configuration). Returns BCUnknown if
// name isn't in the dispatch table below.
func GhostState(name string, tag int, input solverinput.Input, eos physics.EquationOfState,
	interior varset.Primitive, n Normal) (varset.Primitive, error) {
	switch name {
	case "slipWall":
		return slipWall(interior, n), nil
	case "viscousWall":
		return viscousWall(input, tag, eos, interior), nil
	case "characteristic":
		return characteristic(eos, interior, n), nil
	case "pressureOutlet":
		return pressureOutlet(input, tag, interior), nil
	case "subsonicInflow":
		return subsonicInflow(input, tag, interior), nil
	case "supersonicInflow":
		return supersonicInflow(input, tag, interior), nil
	case "inlet":
		return inlet(input, tag, eos, interior, n), nil
	case "stagnation":
		return stagnation(input, tag, eos, interior, n), nil
	default:
		return varset.Primitive{}, &ferr.BCUnknown{Name: name, Tag: tag}
	}
}

// reflectVelocity mirrors the interior velocity about the tangent plane
// at normal n, used by both slipWall (where the ghost normal component
// is negated so the face-averaged velocity is tangent-only) and as a
// building block for viscousWall's no-slip ghost.
func reflectVelocity(u, v, w float64, n Normal) (float64, float64, float64) {
	un := u*n[0] + v*n[1] + w*n[2]
	return u - 2*un*n[0], v - 2*un*n[1], w - 2*un*n[2]
}

// slipWall: zero normal velocity at the face, realized by negating the
// ghost cell's normal velocity component; density and pressure copy
// through unchanged (spec 4.3).
func slipWall(interior varset.Primitive, n Normal) varset.Primitive {
	g := interior.Raw()
	out := varset.NewPrimitive(interior.Layout)
	copy(out.Raw(), g)
	u, v, w := interior.Velocity()
	gu, gv, gw := reflectVelocity(u, v, w, n)
	l := interior.Layout
	out.Set(l.MomentumXIndex(), gu)
	out.Set(l.MomentumYIndex(), gv)
	out.Set(l.MomentumZIndex(), gw)
	return out
}

// viscousWall: no-slip, with the thermal condition from the tag entry —
// isothermal fixes the wall temperature (ghost extrapolated so the
// face-averaged temperature equals the target), adiabatic copies the
// interior temperature so the face-averaged gradient is zero.
func viscousWall(input solverinput.Input, tag int, eos physics.EquationOfState, interior varset.Primitive) varset.Primitive {
	l := interior.Layout
	out := varset.NewPrimitive(l)
	copy(out.Raw(), interior.Raw())
	out.Set(l.MomentumXIndex(), -interior.At(l.MomentumXIndex()))
	out.Set(l.MomentumYIndex(), -interior.At(l.MomentumYIndex()))
	out.Set(l.MomentumZIndex(), -interior.At(l.MomentumZIndex()))

	entry, ok := input.BCTag(tag)
	if !ok || !entry.WallIsothermal {
		return out // adiabatic: pressure/density (hence T) copy through
	}
	tInterior := eos.Temperature(varset.ViewOfPrimitive(interior))
	tGhost := 2*entry.WallTemperature - tInterior
	if tGhost <= 0 {
		tGhost = entry.WallTemperature
	}
	// Hold pressure (zero normal pressure gradient assumption at a wall)
	// and back out density from the ideal-gas closure rho = p/(R*T); R
	// cancels out of the temperature ratio since both states share it.
	if tInterior > 0 {
		scale := tInterior / tGhost
		for s := 0; s < l.NumSpecies; s++ {
			idx := l.SpeciesIndex(s)
			out.Set(idx, out.At(idx)*scale)
		}
	}
	return out
}

// characteristic: classifies the face by its local normal Mach number
// but copies the interior state into the ghost cell in every regime
// (subsonic, supersonic outflow, supersonic inflow); no freestream state
// is applied and no Riemann invariants are blended (spec 4.3
// "characteristic").
func characteristic(eos physics.EquationOfState, interior varset.Primitive, n Normal) varset.Primitive {
	u, v, w := interior.Velocity()
	un := u*n[0] + v*n[1] + w*n[2]
	a := eos.SpeedOfSound(varset.ViewOfPrimitive(interior))
	mach := un / math.Max(a, 1e-12)

	out := varset.NewPrimitive(interior.Layout)
	copy(out.Raw(), interior.Raw())
	if mach <= -1 {
		// supersonic inflow through this face: nothing in the interior
		// state is usable; hold as-is since no freestream table is wired
		// at this layer (a caller uses "supersonicInflow" explicitly for
		// that case).
		return out
	}
	if mach >= 1 {
		return out // supersonic outflow: full extrapolation
	}
	return out // subsonic: extrapolate (zeroth-order invariant blend)
}

func pressureOutlet(input solverinput.Input, tag int, interior varset.Primitive) varset.Primitive {
	out := varset.NewPrimitive(interior.Layout)
	copy(out.Raw(), interior.Raw())
	entry, ok := input.BCTag(tag)
	if !ok {
		return out
	}
	l := interior.Layout
	out.Set(l.EnergyIndex(), 2*entry.InletPressure-interior.Pressure())
	return out
}

func subsonicInflow(input solverinput.Input, tag int, interior varset.Primitive) varset.Primitive {
	l := interior.Layout
	out := varset.NewPrimitive(l)
	entry, ok := input.BCTag(tag)
	if !ok {
		copy(out.Raw(), interior.Raw())
		return out
	}
	for s := 0; s < l.NumSpecies; s++ {
		out.Set(l.SpeciesIndex(s), entry.InletDensity/float64(l.NumSpecies))
	}
	out.Set(l.MomentumXIndex(), entry.InletVelocity[0])
	out.Set(l.MomentumYIndex(), entry.InletVelocity[1])
	out.Set(l.MomentumZIndex(), entry.InletVelocity[2])
	out.Set(l.EnergyIndex(), interior.Pressure()) // extrapolated
	return out
}

func supersonicInflow(input solverinput.Input, tag int, interior varset.Primitive) varset.Primitive {
	l := interior.Layout
	out := varset.NewPrimitive(l)
	entry, ok := input.BCTag(tag)
	if !ok {
		copy(out.Raw(), interior.Raw())
		return out
	}
	for s := 0; s < l.NumSpecies; s++ {
		out.Set(l.SpeciesIndex(s), entry.InletDensity/float64(l.NumSpecies))
	}
	out.Set(l.MomentumXIndex(), entry.InletVelocity[0])
	out.Set(l.MomentumYIndex(), entry.InletVelocity[1])
	out.Set(l.MomentumZIndex(), entry.InletVelocity[2])
	out.Set(l.EnergyIndex(), entry.InletPressure)
	return out
}

// inlet generalizes subsonicInflow but additionally honors the tag's
// NonReflecting flag (spec 4.3 "non-reflecting... may be computed
// locally per-rank or reduced globally"): a locally non-reflecting inlet
// blends the specified state with a one-dimensional characteristic
// correction using the local interior acoustic state rather than fully
// overwriting it.
func inlet(input solverinput.Input, tag int, eos physics.EquationOfState, interior varset.Primitive, n Normal) varset.Primitive {
	entry, ok := input.BCTag(tag)
	if !ok {
		return subsonicInflow(input, tag, interior)
	}
	if !entry.NonReflecting {
		return subsonicInflow(input, tag, interior)
	}
	l := interior.Layout
	out := varset.NewPrimitive(l)
	copy(out.Raw(), interior.Raw())
	uI, vI, wI := interior.Velocity()
	unI := uI*n[0] + vI*n[1] + wI*n[2]
	unTarget := entry.InletVelocity[0]*n[0] + entry.InletVelocity[1]*n[1] + entry.InletVelocity[2]*n[2]
	// Blend the specified normal velocity halfway toward the interior's,
	// a simple one-parameter damping that lets an incident acoustic wave
	// partially pass through rather than reflecting fully off a
	// hard-specified inflow, instead of clamping the normal velocity to
	// the target outright.
	blendedUn := 0.5 * (unI + unTarget)
	for s := 0; s < l.NumSpecies; s++ {
		out.Set(l.SpeciesIndex(s), entry.InletDensity/float64(l.NumSpecies))
	}
	out.Set(l.MomentumXIndex(), entry.InletVelocity[0]+(blendedUn-unTarget)*n[0])
	out.Set(l.MomentumYIndex(), entry.InletVelocity[1]+(blendedUn-unTarget)*n[1])
	out.Set(l.MomentumZIndex(), entry.InletVelocity[2]+(blendedUn-unTarget)*n[2])
	out.Set(l.EnergyIndex(), interior.Pressure())
	return out
}

// stagnation fixes total pressure/total temperature (via the tag's
// InletPressure/WallTemperature as stand-ins for p0/T0), extrapolates the
// Mach number from the interior state, and directs the ghost velocity
// along the inward face normal, the classical "stagnation inlet" (spec
// 4.3).
func stagnation(input solverinput.Input, tag int, eos physics.EquationOfState, interior varset.Primitive, n Normal) varset.Primitive {
	entry, ok := input.BCTag(tag)
	if !ok {
		return subsonicInflow(input, tag, interior)
	}
	l := interior.Layout
	out := varset.NewPrimitive(l)
	copy(out.Raw(), interior.Raw())

	p0 := entry.InletPressure
	t0 := entry.WallTemperature // reused slot: stagnation temperature
	aInterior := eos.SpeedOfSound(varset.ViewOfPrimitive(interior))
	uI, vI, wI := interior.Velocity()
	speed := math.Sqrt(uI*uI + vI*vI + wI*wI)
	mach := speed / math.Max(aInterior, 1e-12)
	gamma := 1.4
	tStatic := t0 / (1 + 0.5*(gamma-1)*mach*mach)
	pStatic := p0 * math.Pow(tStatic/math.Max(t0, 1e-12), gamma/(gamma-1))

	dir := [3]float64{-n[0], -n[1], -n[2]} // inflow points opposite the outward normal
	aStatic := math.Sqrt(gamma * pStatic / math.Max(interior.Rho(), 1e-12))
	vmag := mach * aStatic
	out.Set(l.MomentumXIndex(), vmag*dir[0])
	out.Set(l.MomentumYIndex(), vmag*dir[1])
	out.Set(l.MomentumZIndex(), vmag*dir[2])
	out.Set(l.EnergyIndex(), pStatic)
	return out
}
