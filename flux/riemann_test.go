package flux

import (
	"testing"

	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
	"github.com/stretchr/testify/require"
)

func uniformPrimitive(l varset.Layout, rho, u, v, w, p float64) varset.Primitive {
	prim := varset.NewPrimitive(l)
	prim.Set(l.SpeciesIndex(0), rho)
	prim.Set(l.MomentumXIndex(), u)
	prim.Set(l.MomentumYIndex(), v)
	prim.Set(l.MomentumZIndex(), w)
	prim.Set(l.EnergyIndex(), p)
	return prim
}

// TestFluxConsistency is spec 8 testable property 6: when qL == qR, every
// Riemann solver's dissipation term vanishes and the flux reduces to the
// exact physical flux F(q)*n.
func TestFluxConsistency(t *testing.T) {
	l, err := varset.NewLayout(1, false)
	require.NoError(t, err)
	eos := physics.NewIdealGas(l)
	q := uniformPrimitive(l, 1.0, 10.0, 0, 0, 1.0)
	area := [3]float64{1, 0, 0}

	for _, scheme := range []solverinput.FluxScheme{solverinput.FluxRoe, solverinput.FluxAUSM, solverinput.FluxHLL, solverinput.FluxRusanov} {
		f, _, err := InviscidFlux(scheme, eos, q, q, area)
		require.NoError(t, err)
		want := physicalFlux(eos, q, 1, 0, 0)
		for i := 0; i < l.Size(); i++ {
			require.InDeltaf(t, want.At(i), f.At(i), 1e-9, "scheme %d eq %d", scheme, i)
		}
	}
}

// TestRusanovConservation is spec 8 testable property 7: the flux
// computed with the normal reversed and states swapped is the exact
// negation of the original (discrete conservation across a shared face).
func TestRusanovConservation(t *testing.T) {
	l, err := varset.NewLayout(1, false)
	require.NoError(t, err)
	eos := physics.NewIdealGas(l)
	qL := uniformPrimitive(l, 1.2, 50, 1, 0, 1.1)
	qR := uniformPrimitive(l, 0.8, -20, -1, 0, 0.9)
	area := [3]float64{2, 0, 0}
	negArea := [3]float64{-2, 0, 0}

	fwd, _, err := InviscidFlux(solverinput.FluxRusanov, eos, qL, qR, area)
	require.NoError(t, err)
	rev, _, err := InviscidFlux(solverinput.FluxRusanov, eos, qR, qL, negArea)
	require.NoError(t, err)
	for i := 0; i < l.Size(); i++ {
		require.InDeltaf(t, fwd.At(i), -rev.At(i), 1e-9, "eq %d", i)
	}
}
