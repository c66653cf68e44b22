package restart

import (
	"bytes"
	"testing"

	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
	"github.com/stretchr/testify/require"
)

func testBlock(t *testing.T, n int) *block.ProcBlock {
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
	l, err := varset.NewLayout(2, true)
	require.NoError(t, err)
	pb := block.New(g, bc, block.Identity{GlobalPosition: 0, Rank: 0}, l, 1)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				p := varset.NewPrimitive(l)
				p.Set(l.SpeciesIndex(0), 0.7)
				p.Set(l.SpeciesIndex(1), 0.3)
				p.Set(l.MomentumXIndex(), 10.0+float64(i))
				p.Set(l.MomentumYIndex(), 1.0+float64(j))
				p.Set(l.MomentumZIndex(), 0.5+float64(k))
				p.Set(l.EnergyIndex(), 101325.0)
				p.Set(l.TurbulenceIndex(0), 0.01)
				p.Set(l.TurbulenceIndex(1), 100.0)
				pb.State.SetRecord(i, j, k, p)
			}
		}
	}
	return pb
}

// TestRestartRoundTrip checks spec 4.7's testable property 9: write then
// read a restart with RANS and multi-species, every primitive cell
// matches the pre-write value to < 1e-14 relative.
func TestRestartRoundTrip(t *testing.T) {
	n := 3
	pb := testBlock(t, n)
	l := pb.Layout
	inp := &solverinput.StaticInput{
		RANS: true, Species: 2, RhoRef: 1.225, ARef: 340.0, TRef: 288.0, LRef: 1.0, MuRef: 1.8e-5,
	}
	eos := physics.NewIdealGas(l)

	f, err := FromBlocks([]*block.ProcBlock{pb}, inp, eos, 42, []float64{1, 2, 3, 4, 5, 6, 7}, []string{"air", "fuel"}, true)
	require.NoError(t, err)
	require.Equal(t, 2, f.NumSols)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f))

	decoded, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, 42, decoded.Iter)
	require.Equal(t, 2, decoded.NumSols)
	require.Equal(t, []string{"air", "fuel"}, decoded.Species)
	require.Len(t, decoded.Primitive, 1)

	out := block.New(pb.Geom, pb.BC, pb.ID, l, 1)
	require.NoError(t, ApplyToBlock(decoded.Primitive[0], out, inp))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				want := pb.State.RecordView(i, j, k).Materialize().Raw()
				got := out.State.RecordView(i, j, k).Materialize().Raw()
				for eq := range want {
					require.InEpsilon(t, want[eq], got[eq], 1e-14, "cell (%d,%d,%d) eq %d", i, j, k, eq)
				}
			}
		}
	}
}
