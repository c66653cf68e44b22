package block

import (
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/solverinput"
)

// CalcBlockTimeStep fills Dt for every physical cell. A positive fixed
// time step in the input is nondimensionalized and applied uniformly;
// otherwise each cell gets a local CFL-limited step from its spectral
// radius, with the viscous contribution scaled by
// ViscousCFLCoefficient (Blazek eq. 6.18) since the viscous stability
// limit is tighter than the convective one at equal spectral radius.
func (b *ProcBlock) CalcBlockTimeStep(inp solverinput.Input) error {
	if fixed := inp.FixedTimeStep(); fixed > 0 {
		dt := fixed * inp.ReferenceSoundSpeed() / inp.ReferenceLength()
		for i := 0; i < b.NI(); i++ {
			for j := 0; j < b.NJ(); j++ {
				for k := 0; k < b.NK(); k++ {
					b.Dt.Set(i, j, k, dt)
				}
			}
		}
		return nil
	}

	cfl := inp.CFL()
	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				vol := b.Geom.Volume(i, j, k)
				if vol <= 0 {
					return &ferr.InvalidGeometry{Block: b.ID.GlobalPosition, I: i, J: j, K: k, Reason: "non-positive cell volume"}
				}
				specRad := b.SpecRadius.Get(i, j, k) + inp.ViscousCFLCoefficient()*b.ViscSpecRadius.Get(i, j, k)
				if specRad <= 0 {
					return &ferr.NonphysicalState{Block: b.ID.GlobalPosition, I: i, J: j, K: k,
						Quantity: "spectral radius", Value: specRad}
				}
				dt := cfl * vol / specRad
				b.Dt.Set(i, j, k, dt)
			}
		}
	}
	return nil
}
