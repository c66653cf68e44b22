package gridlevel

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/flowcore/varset"
)

// CombineConvergence merges one ConvergenceAccumulator per local block
// into a single rank-local summary: the per-equation L2 sums-of-squares
// add elementwise (gonum/floats.Add — spec 4.5's running residual norm
// is the sum-of-squares across every block, and eventually every rank,
// before the final sqrt), and Linf takes the single worst-magnitude
// equation across every block, found via floats.MaxIdx over each
// block's already-tracked Linf magnitude.
func CombineConvergence(accs []*varset.ConvergenceAccumulator, l varset.Layout) *varset.ConvergenceAccumulator {
	out := varset.NewConvergenceAccumulator(l)
	if len(accs) == 0 {
		return out
	}
	l2 := out.L2.Raw()
	mags := make([]float64, len(accs))
	for i, a := range accs {
		if a == nil {
			continue
		}
		floats.Add(l2, a.L2.Raw())
		mags[i] = a.LinfVal
	}
	worst := floats.MaxIdx(mags)
	if accs[worst] != nil {
		out.LinfVal = accs[worst].LinfVal
		out.LinfEq = accs[worst].LinfEq
	}
	return out
}

// L2Norm returns the per-equation L2 norm (square root of the
// accumulated sum of squares), the reporting step run once per
// nonlinear iteration after every block's contribution (and, across
// ranks, dcomm.Comm.AllreduceFloat64) has been folded in.
func L2Norm(acc *varset.ConvergenceAccumulator) []float64 {
	raw := acc.L2.Raw()
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = math.Sqrt(v)
	}
	return out
}
