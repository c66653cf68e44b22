package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// uniformBlock builds a Ni x Nj x Nk block of unit cubes, origin at 0.
func uniformBlock(ni, nj, nk int) *PlotBlock {
	p := NewPlotBlock(ni, nj, nk)
	for i := 0; i <= ni; i++ {
		for j := 0; j <= nj; j++ {
			for k := 0; k <= nk; k++ {
				p.SetNode(i, j, k, Vec3{X: float64(i), Y: float64(j), Z: float64(k)})
			}
		}
	}
	return p
}

func TestComputeDerivedUnitCubeVolumes(t *testing.T) {
	p := uniformBlock(3, 2, 2)
	require.NoError(t, p.ComputeDerived())
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				require.InDelta(t, 1.0, p.Volume(i, j, k), 1e-9)
			}
		}
	}
}

func TestFaceAreaVectorsUnitCube(t *testing.T) {
	p := uniformBlock(2, 2, 2)
	require.NoError(t, p.ComputeDerived())
	a := p.FaceAreaI(1, 0, 0)
	require.InDelta(t, 1.0, a.Magnitude(), 1e-9)
	n := a.UnitNormal()
	require.InDelta(t, 1.0, n.X, 1e-9)
	require.InDelta(t, 0.0, n.Y, 1e-9)
	require.InDelta(t, 0.0, n.Z, 1e-9)
}

func TestSplitJoinRoundTrip(t *testing.T) {
	orig := uniformBlock(8, 4, 3)
	require.NoError(t, orig.ComputeDerived())

	copyBlock := uniformBlock(8, 4, 3)
	require.NoError(t, copyBlock.ComputeDerived())

	upper, err := copyBlock.Split(0, 3)
	require.NoError(t, err)
	require.Equal(t, 3, copyBlock.NI())
	require.Equal(t, 5, upper.NI())

	require.NoError(t, copyBlock.Join(upper, 0))
	require.Equal(t, 8, copyBlock.NI())

	for i := 0; i < orig.NI(); i++ {
		for j := 0; j < orig.NJ(); j++ {
			for k := 0; k < orig.NK(); k++ {
				require.InDelta(t, orig.Volume(i, j, k), copyBlock.Volume(i, j, k), 1e-9)
				oc, cc := orig.Centroid(i, j, k), copyBlock.Centroid(i, j, k)
				require.InDelta(t, oc.X, cc.X, 1e-9)
				require.InDelta(t, oc.Y, cc.Y, 1e-9)
				require.InDelta(t, oc.Z, cc.Z, 1e-9)
			}
		}
	}
}

func TestComputeDerivedRejectsDegenerateCell(t *testing.T) {
	p := NewPlotBlock(1, 1, 1)
	// Collapse the cell to zero volume by coincident nodes.
	for i := 0; i <= 1; i++ {
		for j := 0; j <= 1; j++ {
			for k := 0; k <= 1; k++ {
				p.SetNode(i, j, k, Vec3{})
			}
		}
	}
	require.Error(t, p.ComputeDerived())
}
