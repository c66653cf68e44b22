package ghost

import (
	"testing"

	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
	"github.com/stretchr/testify/require"
)

func primWith(l varset.Layout, rho, u, v, w, p float64) varset.Primitive {
	pr := varset.NewPrimitive(l)
	pr.Set(l.SpeciesIndex(0), rho)
	pr.Set(l.MomentumXIndex(), u)
	pr.Set(l.MomentumYIndex(), v)
	pr.Set(l.MomentumZIndex(), w)
	pr.Set(l.EnergyIndex(), p)
	return pr
}

func TestSlipWallZeroesFaceAverageNormalVelocity(t *testing.T) {
	l, err := varset.NewLayout(1, false)
	require.NoError(t, err)
	interior := primWith(l, 1.0, 3.0, 4.0, 0, 1.0)
	n := Normal{1, 0, 0}
	g := slipWall(interior, n)

	u, v, w := g.Velocity()
	require.InDelta(t, -3.0, u, 1e-12)
	require.InDelta(t, 4.0, v, 1e-12)
	require.InDelta(t, 0.0, w, 1e-12)
	// Face-averaged normal velocity between interior and ghost is zero.
	require.InDelta(t, 0.0, 0.5*(3.0+u), 1e-12)
}

func TestViscousWallAdiabaticIsNoSlip(t *testing.T) {
	l, err := varset.NewLayout(1, false)
	require.NoError(t, err)
	input := &solverinput.StaticInput{BCTags: map[int]solverinput.BCTagEntry{}}
	interior := primWith(l, 1.0, 5.0, -2.0, 1.0, 1.0)
	eos := physics.NewIdealGas(l)
	g := viscousWall(input, 0, eos, interior)
	u, v, w := g.Velocity()
	require.InDelta(t, -5.0, u, 1e-12)
	require.InDelta(t, 2.0, v, 1e-12)
	require.InDelta(t, -1.0, w, 1e-12)
}

func TestGhostStateUnknownBC(t *testing.T) {
	l, err := varset.NewLayout(1, false)
	require.NoError(t, err)
	input := &solverinput.StaticInput{BCTags: map[int]solverinput.BCTagEntry{}}
	eos := physics.NewIdealGas(l)
	interior := primWith(l, 1.0, 0, 0, 0, 1.0)
	_, err = GhostState("madeUpBC", 0, input, eos, interior, Normal{1, 0, 0})
	require.Error(t, err)
}
