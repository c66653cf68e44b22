package restart

import (
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// FromBlocks builds a *File from the current (nondimensional) state of
// blocks, converting to dimensional units via inp's reference quantities
// (spec 4.7: "dimensional on disk; the core converts to nondimensional
// using reference ρRef, aRef, TRef, μRef, LRef"). withConserved requests
// the matching conserved-variable snapshot (NumSols == 2) Beam-Warming's
// unsteady term needs to resume a restarted implicit run exactly.
func FromBlocks(blocks []*block.ProcBlock, inp solverinput.Input, eos physics.EquationOfState,
	iter int, residL2First []float64, species []string, withConserved bool) (*File, error) {

	numVars := numVarsFor(inp)
	f := &File{
		NumSols:      1,
		Iter:         iter,
		NumEqns:      len(residL2First),
		Species:      species,
		ResidL2First: residL2First,
		Primitive:    make([]BlockData, len(blocks)),
	}
	if withConserved {
		f.NumSols = 2
		f.Conserved = make([]BlockData, len(blocks))
	}

	rhoRef, aRef := inp.ReferenceDensity(), inp.ReferenceSoundSpeed()

	for bi, b := range blocks {
		ni, nj, nk := b.NI(), b.NJ(), b.NK()
		values := make([]float64, ni*nj*nk*numVars)
		idx := 0
		for i := 0; i < ni; i++ {
			for j := 0; j < nj; j++ {
				for k := 0; k < nk; k++ {
					p := b.State.RecordView(i, j, k).Materialize()
					u, v, w := p.Velocity()
					values[idx+0] = p.Rho() * rhoRef
					values[idx+1] = u * aRef
					values[idx+2] = v * aRef
					values[idx+3] = w * aRef
					values[idx+4] = p.Pressure() * rhoRef * aRef * aRef
					off := 5
					if inp.IsRANS() {
						values[idx+off] = p.Turbulence(0)
						values[idx+off+1] = p.Turbulence(1)
						off += 2
					}
					for s := 0; s < inp.NumSpecies(); s++ {
						values[idx+off+s] = p.MassFraction(s)
					}
					idx += numVars
				}
			}
		}
		f.Primitive[bi] = BlockData{Ni: ni, Nj: nj, Nk: nk, NumVars: numVars, Values: values}

		if withConserved {
			consValues := make([]float64, len(values))
			idx = 0
			for i := 0; i < ni; i++ {
				for j := 0; j < nj; j++ {
					for k := 0; k < nk; k++ {
						p := b.State.RecordView(i, j, k).Materialize()
						c, err := eos.ToConserved(p)
						if err != nil {
							return nil, err
						}
						copy(consValues[idx:idx+numVars], conservedToSchema(c, inp, rhoRef, aRef))
						idx += numVars
					}
				}
			}
			f.Conserved[bi] = BlockData{Ni: ni, Nj: nj, Nk: nk, NumVars: numVars, Values: consValues}
		}
	}
	return f, nil
}

// conservedToSchema lays a Conserved record out in the restart schema's
// per-cell order (same field order as the primitive snapshot: density,
// momentum components in place of velocity, energy in place of pressure,
// turbulence, mass fractions) scaled to dimensional units.
func conservedToSchema(c varset.Conserved, inp solverinput.Input, rhoRef, aRef float64) []float64 {
	n := numVarsFor(inp)
	out := make([]float64, n)
	out[0] = c.Rho() * rhoRef
	mx, my, mz := c.Layout.MomentumXIndex(), c.Layout.MomentumYIndex(), c.Layout.MomentumZIndex()
	out[1] = c.At(mx) * rhoRef * aRef
	out[2] = c.At(my) * rhoRef * aRef
	out[3] = c.At(mz) * rhoRef * aRef
	out[4] = c.At(c.Layout.EnergyIndex()) * rhoRef * aRef * aRef
	off := 5
	if inp.IsRANS() {
		out[off] = c.At(c.Layout.TurbulenceIndex(0))
		out[off+1] = c.At(c.Layout.TurbulenceIndex(1))
		off += 2
	}
	for s := 0; s < inp.NumSpecies(); s++ {
		out[off+s] = c.RhoSpecies(s) * rhoRef
	}
	return out
}

// ApplyToBlock nondimensionalizes restart block data and writes it into
// dst's physical cells — the per-block half of spec 5's "centralized at
// root, then decomposed and scattered" restart path; the caller resolves
// which BlockData belongs to which ProcBlock (by matching Ni/Nj/Nk and
// decomposition order) before calling this.
func ApplyToBlock(data BlockData, dst *block.ProcBlock, inp solverinput.Input) error {
	if data.Ni != dst.NI() || data.Nj != dst.NJ() || data.Nk != dst.NK() {
		return &ferr.DomainDecompMismatch{Reason: "restart block extent does not match current grid block"}
	}
	rhoRef, aRef := inp.ReferenceDensity(), inp.ReferenceSoundSpeed()
	numVars := data.NumVars
	idx := 0
	for i := 0; i < data.Ni; i++ {
		for j := 0; j < data.Nj; j++ {
			for k := 0; k < data.Nk; k++ {
				rec := varset.NewPrimitive(dst.Layout)
				l := dst.Layout
				rho := data.Values[idx+0] / rhoRef
				u := data.Values[idx+1] / aRef
				v := data.Values[idx+2] / aRef
				w := data.Values[idx+3] / aRef
				press := data.Values[idx+4] / (rhoRef * aRef * aRef)
				off := 5
				var tke, sdr float64
				if inp.IsRANS() {
					tke, sdr = data.Values[idx+off], data.Values[idx+off+1]
					off += 2
				}
				rec.Set(l.MomentumXIndex(), u)
				rec.Set(l.MomentumYIndex(), v)
				rec.Set(l.MomentumZIndex(), w)
				rec.Set(l.EnergyIndex(), press)
				if inp.IsRANS() {
					rec.Set(l.TurbulenceIndex(0), tke)
					rec.Set(l.TurbulenceIndex(1), sdr)
				}
				for s := 0; s < inp.NumSpecies(); s++ {
					mf := data.Values[idx+off+s]
					rec.Set(l.SpeciesIndex(s), mf*rho)
				}
				dst.State.SetRecord(i, j, k, rec)
				idx += numVars
			}
		}
	}
	return nil
}
