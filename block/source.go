package block

import (
	"github.com/notargets/flowcore/flux"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/varset"
)

// CalcSourceTerms folds the turbulence and chemistry source contributions
// into every physical cell's residual. Called once per residual pass,
// after CalcResidualNoSource and gradient computation have both
// completed (spec 4.2 step 7, 4.5 step 2: "source terms are added in a
// separate pass once inter-block gradient exchange has completed").
// Either model may be nil.
func (b *ProcBlock) CalcSourceTerms(turbulence physics.TurbulenceModel, chemistry physics.ChemistryModel) {
	if turbulence == nil && chemistry == nil {
		return
	}
	for i := 0; i < b.NI(); i++ {
		for j := 0; j < b.NJ(); j++ {
			for k := 0; k < b.NK(); k++ {
				view := varset.ViewOfPrimitive(b.State.RecordView(i, j, k).Materialize())
				residualView := varset.ViewResidual(b.Layout, b.Residual.RecordView(i, j, k).Raw())
				convective := b.SpecRadius.Get(i, j, k)

				if turbulence != nil {
					velGrad := b.VelocityGrad.Get(i, j, k)
					wallDist := b.WallDist.Get(i, j, k)
					src, specRad := turbulence.Source(view, velGrad, wallDist)
					reduction := flux.AccumulateSource(residualView, src, specRad, convective)
					convective -= reduction
					b.SpecRadius.Set(i, j, k, convective)
				}
				if chemistry != nil {
					src, specRad := chemistry.Source(view)
					reduction := flux.AccumulateSource(residualView, src, specRad, convective)
					convective -= reduction
					b.SpecRadius.Set(i, j, k, convective)
				}
			}
		}
	}
}
