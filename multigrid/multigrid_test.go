package multigrid

import (
	"testing"

	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/gridlevel"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
	"github.com/stretchr/testify/require"
)

// uniformCube builds an n x n x n unit-spaced cube block, fully enclosed
// by slipWall surfaces, at rest (same construction as gridlevel's own
// rest-cube fixture).
func uniformCube(t *testing.T, n int) *block.ProcBlock {
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
	p.Set(l.SpeciesIndex(0), 1.2)
	p.Set(l.MomentumXIndex(), 3.0)
	p.Set(l.MomentumYIndex(), 0)
	p.Set(l.MomentumZIndex(), 0)
	p.Set(l.EnergyIndex(), 101325.0)
	pb.InitializeUniform(p)
	return pb
}

// TestCoarsenRestrictsUniformStateExactly checks that a spatially uniform
// fine state restricts to the identical uniform coarse state: since every
// fine cell feeding a given coarse cell shares the same volume (the cube
// fixture is uniformly spaced) and the same primitive values, the
// volume-weighted average must reproduce that value exactly, regardless
// of the per-cell weighting scheme.
func TestCoarsenRestrictsUniformStateExactly(t *testing.T) {
	n := 4
	pb := uniformCube(t, n)
	l := pb.Layout
	eos := physics.NewIdealGas(l)

	inp := &solverinput.StaticInput{
		CFLNum: 0.3, Order: solverinput.FirstOrder, Flux: solverinput.FluxRusanov,
		Limiter: "none", Scheme: solverinput.ExplicitEuler, BCTags: map[int]solverinput.BCTagEntry{},
	}
	fine := gridlevel.New([]*block.ProcBlock{pb}, nil, 0, nil, eos, nil, nil, nil, inp, nil)

	coarse, coarsenings, err := Coarsen(fine)
	require.NoError(t, err)
	require.Len(t, coarsenings, 1)

	cb := coarse.Blocks[0]
	require.Equal(t, n/2, cb.NI())
	require.Equal(t, n/2, cb.NJ())
	require.Equal(t, n/2, cb.NK())

	expected := pb.State.RecordView(0, 0, 0).Materialize().Raw()
	for i := 0; i < cb.NI(); i++ {
		for j := 0; j < cb.NJ(); j++ {
			for k := 0; k < cb.NK(); k++ {
				got := cb.State.RecordView(i, j, k).Materialize().Raw()
				for eq := range expected {
					require.InDelta(t, expected[eq], got[eq], 1e-9, "cell (%d,%d,%d) eq %d", i, j, k, eq)
				}
			}
		}
	}
}

// TestTrilinearCoeffsSumToOne checks the invariant Prolongation's
// implicit eighth coefficient relies on: every fine cell's seven packed
// coefficients must sum to at most 1, with the remainder assigned to the
// base coarse cell.
func TestTrilinearCoeffsSumToOne(t *testing.T) {
	n := 4
	pb := uniformCube(t, n)
	l := pb.Layout
	eos := physics.NewIdealGas(l)
	inp := &solverinput.StaticInput{
		CFLNum: 0.3, Order: solverinput.FirstOrder, Flux: solverinput.FluxRusanov,
		Limiter: "none", Scheme: solverinput.ExplicitEuler, BCTags: map[int]solverinput.BCTagEntry{},
	}
	fine := gridlevel.New([]*block.ProcBlock{pb}, nil, 0, nil, eos, nil, nil, nil, inp, nil)

	_, coarsenings, err := Coarsen(fine)
	require.NoError(t, err)

	for _, coeffs := range coarsenings[0].TrilinearCoeffs {
		sum := 0.0
		for _, w := range coeffs {
			sum += w
			require.GreaterOrEqual(t, w, 0.0)
		}
		require.LessOrEqual(t, sum, 1.0+1e-9)
	}
}

// TestProlongationOfZeroCorrectionStaysZero checks the consistency
// property that a zero coarse correction (the state immediately after
// InitializeMatrixUpdate, before any sweeps) prolongates to a zero fine
// correction — Prolongation(Restriction(U)) - U lies in the null space of
// the coarse projection trivially when U itself is zero.
func TestProlongationOfZeroCorrectionStaysZero(t *testing.T) {
	n := 4
	pb := uniformCube(t, n)
	l := pb.Layout
	eos := physics.NewIdealGas(l)
	inp := &solverinput.StaticInput{
		CFLNum: 0.3, Order: solverinput.FirstOrder, Flux: solverinput.FluxRusanov,
		Limiter: "none", Scheme: solverinput.ImplicitBeamWarming, BCTags: map[int]solverinput.BCTagEntry{},
	}
	fineSolver := gridlevel.NewLUSGSSolver([]*block.ProcBlock{pb}, l)

	fine := gridlevel.New([]*block.ProcBlock{pb}, nil, 0, nil, eos, nil, nil, nil, inp, fineSolver)
	coarse, coarsenings, err := Coarsen(fine)
	require.NoError(t, err)
	coarse.Solver = gridlevel.NewLUSGSSolver(coarse.Blocks, l)

	applied, err := Prolongation(fine, coarse, coarsenings)
	require.NoError(t, err)
	require.NotNil(t, applied)

	for i := 0; i < pb.NI(); i++ {
		for j := 0; j < pb.NJ(); j++ {
			for k := 0; k < pb.NK(); k++ {
				r := applied[0].At(i, j, k)
				for eq := 0; eq < l.Size(); eq++ {
					require.InDelta(t, 0.0, r.At(eq), 1e-12)
				}
			}
		}
	}
}
