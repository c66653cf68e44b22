package array3d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	m := New[float64](4, 3, 2, 2)
	for i := -2; i < 6; i++ {
		for j := -2; j < 5; j++ {
			for k := -2; k < 4; k++ {
				m.Set(i, j, k, float64(i*100+j*10+k))
			}
		}
	}
	require.Equal(t, 312.0, m.Get(3, 1, 2))
	require.Equal(t, -218.0, m.Get(-2, -2, 2))
}

func TestExtractInsertPatchRoundTrip(t *testing.T) {
	m := New[int](4, 4, 4, 1)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				m.Set(i, j, k, i*100+j*10+k)
			}
		}
	}
	spec := PatchSpec{I: Range{1, 3}, J: Range{0, 4}, K: Range{2, 4}}
	patch := m.ExtractPatch(spec)
	require.Len(t, patch, 2*4*2)

	dst := New[int](4, 4, 4, 1)
	require.NoError(t, dst.InsertPatch(spec, patch))
	for i := spec.I.Lo; i < spec.I.Hi; i++ {
		for j := spec.J.Lo; j < spec.J.Hi; j++ {
			for k := spec.K.Lo; k < spec.K.Hi; k++ {
				require.Equal(t, m.Get(i, j, k), dst.Get(i, j, k))
			}
		}
	}
}

func TestInsertPatchRejectsSizeMismatch(t *testing.T) {
	m := New[float64](3, 3, 3, 0)
	err := m.InsertPatch(PatchSpec{I: Range{0, 2}, J: Range{0, 2}, K: Range{0, 2}}, []float64{1, 2, 3})
	require.Error(t, err)
}

func TestGrowAxisPreservesContents(t *testing.T) {
	m := New[int](2, 2, 2, 1)
	m.Set(0, 0, 0, 7)
	m.GrowAxis(0, 2)
	require.Equal(t, 4, m.NI())
	require.Equal(t, 7, m.Get(0, 0, 0))
}

func TestPermuteAndInsertPatchIdentityIsNoOp(t *testing.T) {
	m := New[int](4, 4, 1, 0)
	for d1 := 0; d1 < 4; d1++ {
		for d2 := 0; d2 < 4; d2++ {
			m.Set(d1, d2, 0, d1*10+d2)
		}
	}
	data := m.ExtractPatch(PatchSpec{I: Range{0, 4}, J: Range{0, 4}, K: Range{0, 1}})
	dst := New[int](4, 4, 1, 0)
	identity := func(d1, d2 int) (int, int) { return d1, d2 }
	require.NoError(t, dst.PermuteAndInsertPatch(
		PatchSpec{I: Range{0, 4}, J: Range{0, 4}, K: Range{0, 1}}, 4, 4, 1, data, identity, false))
	for d1 := 0; d1 < 4; d1++ {
		for d2 := 0; d2 < 4; d2++ {
			require.Equal(t, m.Get(d1, d2, 0), dst.Get(d1, d2, 0))
		}
	}
}
