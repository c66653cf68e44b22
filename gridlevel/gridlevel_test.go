package gridlevel

import (
	"testing"

	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
	"github.com/stretchr/testify/require"
)

func slipWallCube(t *testing.T, n int) *block.ProcBlock {
	t.Helper()
	g := geom.NewPlotBlock(n, n, n)
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			for k := 0; k <= n; k++ {
				g.SetNode(i, j, k, geom.Vec3{X: float64(i), Y: float64(j), Z: float64(k)})
			}
		}
	}
	require.NoError(t, g.ComputeDerived())

	bc := &bcset.BoundaryConditions{Surfaces: []bcset.Surface{
		{Side: bcset.ILo, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.IHi, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.JLo, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.JHi, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.KLo, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.KHi, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
	}}

	l, err := varset.NewLayout(1, false)
	require.NoError(t, err)
	pb := block.New(g, bc, block.Identity{GlobalPosition: 0, Rank: 0}, l, 1)

	p := varset.NewPrimitive(l)
	p.Set(l.SpeciesIndex(0), 1.0)
	p.Set(l.MomentumXIndex(), 0)
	p.Set(l.MomentumYIndex(), 0)
	p.Set(l.MomentumZIndex(), 0)
	p.Set(l.EnergyIndex(), 100000.0)
	pb.InitializeUniform(p)
	return pb
}

func TestGridLevelExplicitEulerOneStepStaysAtRest(t *testing.T) {
	n := 3
	pb := slipWallCube(t, n)
	l := pb.Layout
	eos := physics.NewIdealGas(l)

	inp := &solverinput.StaticInput{
		CFLNum:  0.3,
		Order:   solverinput.FirstOrder,
		Flux:    solverinput.FluxRusanov,
		Limiter: "none",
		Scheme:  solverinput.ExplicitEuler,
		BCTags:  map[int]solverinput.BCTagEntry{},
	}

	gl := New([]*block.ProcBlock{pb}, nil, 0, nil, eos, nil, nil, nil, inp, nil)

	require.NoError(t, gl.GetBoundaryConditions())
	require.NoError(t, gl.CalcResidual())
	require.NoError(t, gl.CalcTimeStep())
	require.NoError(t, gl.ExplicitUpdate(0, nil))

	for i := 0; i < pb.NI(); i++ {
		for j := 0; j < pb.NJ(); j++ {
			for k := 0; k < pb.NK(); k++ {
				rho := pb.State.RecordView(i, j, k).Materialize().Rho()
				require.InDelta(t, 1.0, rho, 1e-6, "cell (%d,%d,%d)", i, j, k)
			}
		}
	}
}
