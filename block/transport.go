package block

import "github.com/notargets/flowcore/physics"

// UpdateTransportProperties refreshes Temperature, Viscosity, and
// EddyViscosity over every cell including ghosts, so that face-averaged
// values used by the viscous flux and by gradient assembly are always
// current with the latest State (spec 4.4, "transport properties are
// recomputed from the updated state before the next residual pass").
func (b *ProcBlock) UpdateTransportProperties(eos physics.EquationOfState, transport physics.TransportModel,
	turbulence physics.TurbulenceModel) {
	g := b.G
	for i := -g; i < b.NI()+g; i++ {
		for j := -g; j < b.NJ()+g; j++ {
			for k := -g; k < b.NK()+g; k++ {
				q := b.State.RecordView(i, j, k)
				t := eos.Temperature(q)
				b.Temperature.Set(i, j, k, t)
				if transport != nil {
					b.Viscosity.Set(i, j, k, transport.Viscosity(q, t))
				}
				if turbulence != nil {
					wd := 0.0
					if i >= 0 && i < b.NI() && j >= 0 && j < b.NJ() && k >= 0 && k < b.NK() {
						wd = b.WallDist.Get(i, j, k)
					}
					velGrad := physics.Tensor3x3{}
					if i >= 0 && i < b.NI() && j >= 0 && j < b.NJ() && k >= 0 && k < b.NK() {
						velGrad = b.VelocityGrad.Get(i, j, k)
					}
					b.EddyViscosity.Set(i, j, k, turbulence.EddyViscosity(q, wd, velGrad))
					if i >= 0 && i < b.NI() && j >= 0 && j < b.NJ() && k >= 0 && k < b.NK() {
						f1, f2 := turbulence.BlendingFunctions(q, wd, velGrad)
						b.F1.Set(i, j, k, f1)
						b.F2.Set(i, j, k, f2)
					}
				}
			}
		}
	}
}
