package flux

import "github.com/notargets/flowcore/varset"

// AccumulateSource folds a chemistry or turbulence source term into a
// cell's residual accumulator and returns the (possibly reduced)
// spectral radius the caller should subtract from the diagonal's
// convective+viscous spectral radius sum.
//
// Open question (spec 9, "does the source Jacobian spectral radius
// ever need guarding against driving the diagonal negative?") is
// resolved here: a negative net diagonal contribution destabilizes the
// point-implicit update far more reliably than it ever helps
// convergence, so the subtraction is capped at 90% of the inviscid
// spectral radius already accumulated, never allowed to flip its sign.
func AccumulateSource(residual varset.Residual, src varset.Residual, srcSpecRadius, convectiveSpecRadius float64) float64 {
	residual.Add(src)
	cap := 0.9 * convectiveSpecRadius
	if srcSpecRadius > cap {
		srcSpecRadius = cap
	}
	if srcSpecRadius < 0 {
		srcSpecRadius = 0
	}
	return srcSpecRadius
}
