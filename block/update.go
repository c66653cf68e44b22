package block

import (
	"fmt"

	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// rk4LowStorageCoeffs are the four stage weights of the low-storage RK4
// scheme used for steady-state acceleration (spec 4.4): each stage
// advances from the frozen stage-0 state by coeff*(dt/V)*R(current).
var rk4LowStorageCoeffs = [4]float64{0.25, 1.0 / 3.0, 0.5, 1.0}

// UpdateBlock advances every physical cell's state by one scheme step.
// du carries the linear solver's conserved-variable correction and is
// only consulted for ImplicitBeamWarming; it may be nil otherwise.
// rkStage selects the low-storage RK4 stage (0-3) when the scheme is
// ExplicitRK4 and is ignored otherwise. isLastNonlinIter, true only on
// an implicit scheme's final inner iteration, triggers the Uⁿ→Uⁿ⁻¹
// rotation Beam-Warming needs for its next time step's SolDeltaNm1.
// acc, if non-nil, accumulates the per-cell update into running L2/Linf
// norms for convergence reporting.
func (b *ProcBlock) UpdateBlock(inp solverinput.Input, eos physics.EquationOfState, du *ConservedDelta,
	rkStage int, isLastNonlinIter bool, acc *varset.ConvergenceAccumulator) error {
	switch inp.TimeIntegrationScheme() {
	case solverinput.ExplicitEuler:
		return b.updateExplicitEuler(eos, acc)
	case solverinput.ExplicitRK4:
		return b.updateExplicitRK4(eos, rkStage, acc)
	case solverinput.ImplicitBeamWarming:
		return b.updateImplicit(eos, du, isLastNonlinIter, acc)
	default:
		return fmt.Errorf("block: unknown time integration scheme %v", inp.TimeIntegrationScheme())
	}
}

// ConservedDelta is the per-cell conserved-variable correction an outer
// linear solver produces for the implicit scheme (spec 4.5's X(b)),
// stored with the same flat-slab layout as ProcBlock's other block
// arrays so it can be exchanged/restricted like any other field.
type ConservedDelta struct {
	NI, NJ, NK int
	Layout     varset.Layout
	data       []float64
}

// NewConservedDelta allocates a zeroed correction array sized to match a
// block's physical extent.
func NewConservedDelta(ni, nj, nk int, l varset.Layout) *ConservedDelta {
	return &ConservedDelta{NI: ni, NJ: nj, NK: nk, Layout: l, data: make([]float64, ni*nj*nk*l.Size())}
}

func (d *ConservedDelta) offset(i, j, k int) int {
	return ((i*d.NJ+j)*d.NK + k) * d.Layout.Size()
}

// At returns the delta record for cell (i,j,k).
func (d *ConservedDelta) At(i, j, k int) varset.Residual {
	off := d.offset(i, j, k)
	return varset.ViewResidual(d.Layout, d.data[off:off+d.Layout.Size()])
}

// Set assigns the delta record for cell (i,j,k).
func (d *ConservedDelta) Set(i, j, k int, r varset.Residual) {
	off := d.offset(i, j, k)
	copy(d.data[off:off+d.Layout.Size()], r.Raw())
}

func (b *ProcBlock) updateExplicitEuler(eos physics.EquationOfState, acc *varset.ConvergenceAccumulator) error {
	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				if err := b.stepConservedEuler(eos, i, j, k, 1.0, acc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b *ProcBlock) updateExplicitRK4(eos physics.EquationOfState, stage int, acc *varset.ConvergenceAccumulator) error {
	if stage < 0 || stage > 3 {
		return fmt.Errorf("block: RK4 stage %d out of range [0,3]", stage)
	}
	if stage == 0 {
		for i := 0; i < b.NI(); i++ {
			for j := 0; j < b.NJ(); j++ {
				for k := 0; k < b.NK(); k++ {
					p := b.State.RecordView(i, j, k).Materialize()
					c, err := eos.ToConserved(p)
					if err != nil {
						return err
					}
					b.ConsVarsN.SetRecord(i, j, k, c)
				}
			}
		}
	}
	coeff := rk4LowStorageCoeffs[stage]
	last := stage == 3
	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				var stageAcc *varset.ConvergenceAccumulator
				if last {
					stageAcc = acc
				}
				if err := b.stepConservedFromBase(eos, i, j, k, coeff, stageAcc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// stepConservedEuler advances cell (i,j,k) by coeff*(dt/V)*Residual from
// its current state (coeff is always 1 for plain Explicit Euler; RK4
// stages go through stepConservedFromBase instead).
func (b *ProcBlock) stepConservedEuler(eos physics.EquationOfState, i, j, k int, coeff float64,
	acc *varset.ConvergenceAccumulator) error {
	p := b.State.RecordView(i, j, k).Materialize()
	cBefore, err := eos.ToConserved(p)
	if err != nil {
		return err
	}
	return b.applyExplicitStep(eos, i, j, k, cBefore, coeff, acc)
}

// stepConservedFromBase advances cell (i,j,k) from the frozen stage-0
// conserved state (ConsVarsN) using the current state's residual, the
// low-storage RK4 update rule.
func (b *ProcBlock) stepConservedFromBase(eos physics.EquationOfState, i, j, k int, coeff float64,
	acc *varset.ConvergenceAccumulator) error {
	cBase := varset.NewConservedFromView(b.ConsVarsN.RecordView(i, j, k))
	return b.applyExplicitStep(eos, i, j, k, cBase, coeff, acc)
}

func (b *ProcBlock) applyExplicitStep(eos physics.EquationOfState, i, j, k int, base varset.Conserved,
	coeff float64, acc *varset.ConvergenceAccumulator) error {
	r := b.Residual.RecordView(i, j, k)
	dt := b.Dt.Get(i, j, k)
	vol := b.Geom.Volume(i, j, k)
	factor := coeff * dt / vol

	newCons := varset.NewConserved(base.Layout)
	delta := varset.NewResidual(base.Layout)
	for eq := 0; eq < base.Layout.Size(); eq++ {
		d := -factor * r.At(eq)
		newCons.Set(eq, base.At(eq)+d)
		delta.Set(eq, d)
	}
	if acc != nil {
		acc.Accumulate(delta)
	}

	p, err := eos.ToPrimitive(newCons)
	if err != nil {
		return err
	}
	p.ClampSpeciesNonnegative()
	b.State.SetRecord(i, j, k, p)
	return nil
}

// updateImplicit applies the linear solver's conserved correction du
// directly, clamps/renormalizes species, and — on the last nonlinear
// iteration — rotates Uⁿ into Uⁿ⁻¹ so the next time step's Beam-Warming
// unsteady term has the right history (spec 4.5, "rotates Uⁿ→Uⁿ⁻¹ at
// last nonlinear iter").
func (b *ProcBlock) updateImplicit(eos physics.EquationOfState, du *ConservedDelta, isLastNonlinIter bool,
	acc *varset.ConvergenceAccumulator) error {
	if du == nil {
		return fmt.Errorf("block: implicit update requires a non-nil correction")
	}
	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				p := b.State.RecordView(i, j, k).Materialize()
				cBefore, err := eos.ToConserved(p)
				if err != nil {
					return err
				}
				delta := du.At(i, j, k)
				newCons := varset.NewConserved(cBefore.Layout)
				for eq := 0; eq < cBefore.Layout.Size(); eq++ {
					newCons.Set(eq, cBefore.At(eq)+delta.At(eq))
				}
				if acc != nil {
					acc.Accumulate(delta)
				}
				newP, err := eos.ToPrimitive(newCons)
				if err != nil {
					return err
				}
				newP.ClampSpeciesNonnegative()
				b.State.SetRecord(i, j, k, newP)

				if isLastNonlinIter {
					finalCons, err2 := eos.ToConserved(newP)
					if err2 != nil {
						return err2
					}
					prevN := varset.NewConservedFromView(b.ConsVarsN.RecordView(i, j, k)).Raw()
					prevNCopy := make([]float64, len(prevN))
					copy(prevNCopy, prevN)
					b.ConsVarsNm1.SetRecord(i, j, k, varset.ViewResidual(cBefore.Layout, prevNCopy))
					b.ConsVarsN.SetRecord(i, j, k, finalCons)
				}
			}
		}
	}
	return nil
}

// SolDeltaMmN returns Uⁿ − Uⁿ⁻¹ for cell (i,j,k), the unsteady term
// Beam-Warming's RHS needs (spec 4.4).
func (b *ProcBlock) SolDeltaMmN(i, j, k int) varset.Residual {
	n := b.ConsVarsN.RecordView(i, j, k)
	nm1 := b.ConsVarsNm1.RecordView(i, j, k)
	l := b.Layout
	out := varset.NewResidual(l)
	for eq := 0; eq < l.Size(); eq++ {
		out.Set(eq, n.At(eq)-nm1.At(eq))
	}
	return out
}

// SolDeltaNm1 returns Uⁿ⁻¹ for cell (i,j,k) as a Residual-shaped record,
// used by callers assembling the Beam-Warming RHS alongside SolDeltaMmN.
func (b *ProcBlock) SolDeltaNm1(i, j, k int) varset.Residual {
	nm1 := b.ConsVarsNm1.RecordView(i, j, k)
	l := b.Layout
	out := varset.NewResidual(l)
	for eq := 0; eq < l.Size(); eq++ {
		out.Set(eq, nm1.At(eq))
	}
	return out
}
