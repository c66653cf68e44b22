// Package array3d implements the dense 3-D ghost-aware array that backs all
// of a procBlock's per-cell storage: geometry, state, gradients, and
// residual/flux accumulators.
package array3d

import "fmt"

// MultiArray3d is a dense 3-D array with G ghost layers per axis; logical
// indices range over [-G, N+G) on each axis. Zero value is not usable;
// construct with New.
type MultiArray3d[T any] struct {
	ni, nj, nk int
	g          int
	data       []T
}

// New allocates a zeroed MultiArray3d of physical extent ni x nj x nk with g
// ghost layers on every side.
func New[T any](ni, nj, nk, g int) *MultiArray3d[T] {
	if ni < 0 || nj < 0 || nk < 0 || g < 0 {
		panic(fmt.Sprintf("array3d: invalid dimensions ni=%d nj=%d nk=%d g=%d", ni, nj, nk, g))
	}
	m := &MultiArray3d[T]{ni: ni, nj: nj, nk: nk, g: g}
	m.data = make([]T, m.stI()*m.stJ()*m.stK())
	return m
}

func (m *MultiArray3d[T]) stI() int { return m.ni + 2*m.g }
func (m *MultiArray3d[T]) stJ() int { return m.nj + 2*m.g }
func (m *MultiArray3d[T]) stK() int { return m.nk + 2*m.g }

// NI, NJ, NK return the physical (non-ghost) extents.
func (m *MultiArray3d[T]) NI() int { return m.ni }
func (m *MultiArray3d[T]) NJ() int { return m.nj }
func (m *MultiArray3d[T]) NK() int { return m.nk }

// NumGhostLayers returns G.
func (m *MultiArray3d[T]) NumGhostLayers() int { return m.g }

// IsInitialized reports whether this array carries at least one ghost
// layer; a G==0 array is the tri-state sentinel spec 4.6/9 describes as
// "not yet initialized" when used for inter-block connection geometry.
func (m *MultiArray3d[T]) IsInitialized() bool { return m.g > 0 }

func (m *MultiArray3d[T]) index(i, j, k int) int {
	ii, jj, kk := i+m.g, j+m.g, k+m.g
	if ii < 0 || ii >= m.stI() || jj < 0 || jj >= m.stJ() || kk < 0 || kk >= m.stK() {
		panic(fmt.Sprintf("array3d: index (%d,%d,%d) out of range for ni=%d nj=%d nk=%d g=%d",
			i, j, k, m.ni, m.nj, m.nk, m.g))
	}
	return (ii*m.stJ()+jj)*m.stK() + kk
}

// Get returns the value at logical index (i,j,k), which may be a ghost index.
func (m *MultiArray3d[T]) Get(i, j, k int) T { return m.data[m.index(i, j, k)] }

// Set assigns the value at logical index (i,j,k).
func (m *MultiArray3d[T]) Set(i, j, k int, v T) { m.data[m.index(i, j, k)] = v }

// Clear resets every element (ghost and physical) to the zero value of T.
func (m *MultiArray3d[T]) Clear() {
	var zero T
	for idx := range m.data {
		m.data[idx] = zero
	}
}

// Resize reallocates the array to new physical extents, discarding all
// prior contents. The ghost layer count is unchanged.
func (m *MultiArray3d[T]) Resize(ni, nj, nk int) {
	m.ni, m.nj, m.nk = ni, nj, nk
	m.data = make([]T, m.stI()*m.stJ()*m.stK())
}

// GrowAxis appends n additional physical cells along one axis (0=i, 1=j,
// 2=k), preserving all existing contents and leaving the new cells zeroed.
// Used when a connection's coarse-mesh patch must be padded to match a
// neighbor during multigrid coarsening.
func (m *MultiArray3d[T]) GrowAxis(axis, n int) {
	if n <= 0 {
		return
	}
	ni, nj, nk := m.ni, m.nj, m.nk
	switch axis {
	case 0:
		ni += n
	case 1:
		nj += n
	case 2:
		nk += n
	default:
		panic(fmt.Sprintf("array3d: invalid axis %d", axis))
	}
	grown := New[T](ni, nj, nk, m.g)
	for i := -m.g; i < m.ni+m.g; i++ {
		for j := -m.g; j < m.nj+m.g; j++ {
			for k := -m.g; k < m.nk+m.g; k++ {
				grown.Set(i, j, k, m.Get(i, j, k))
			}
		}
	}
	*m = *grown
}

// Range describes an inclusive-exclusive logical index range on one axis,
// possibly extending into ghost space ([-G, N+G)).
type Range struct {
	Lo, Hi int // [Lo, Hi)
}

// Len returns Hi-Lo.
func (r Range) Len() int { return r.Hi - r.Lo }

// PatchSpec selects a rectangular sub-array by axis ranges.
type PatchSpec struct {
	I, J, K Range
}

// ExtractPatch copies the sub-array selected by spec into a flat,
// row-major (i-major, then j, then k) slice. The returned slice's length is
// spec.I.Len()*spec.J.Len()*spec.K.Len().
func (m *MultiArray3d[T]) ExtractPatch(spec PatchSpec) []T {
	out := make([]T, spec.I.Len()*spec.J.Len()*spec.K.Len())
	n := 0
	for i := spec.I.Lo; i < spec.I.Hi; i++ {
		for j := spec.J.Lo; j < spec.J.Hi; j++ {
			for k := spec.K.Lo; k < spec.K.Hi; k++ {
				out[n] = m.Get(i, j, k)
				n++
			}
		}
	}
	return out
}

// InsertPatch writes a flat, row-major slice (as produced by ExtractPatch)
// into the sub-array selected by spec. len(data) must equal the patch's
// cell count exactly (spec invariant: "slice dimensions must match
// destination extents exactly").
func (m *MultiArray3d[T]) InsertPatch(spec PatchSpec, data []T) error {
	want := spec.I.Len() * spec.J.Len() * spec.K.Len()
	if len(data) != want {
		return fmt.Errorf("array3d: InsertPatch size mismatch: got %d values, need %d", len(data), want)
	}
	n := 0
	for i := spec.I.Lo; i < spec.I.Hi; i++ {
		for j := spec.J.Lo; j < spec.J.Hi; j++ {
			for k := spec.K.Lo; k < spec.K.Hi; k++ {
				m.Set(i, j, k, data[n])
				n++
			}
		}
	}
	return nil
}

// PermuteAndInsertPatch writes data (extracted in the donor's row-major
// (d1,d2,layer) order) into spec after remapping each donor (d1,d2) pair to
// a receiver (d1',d2') pair via permute, and optionally reversing the
// layer axis. This is the single table-driven routine the inter-block
// orientation codes (ghost package) drive; it has no orientation-specific
// logic of its own.
func (m *MultiArray3d[T]) PermuteAndInsertPatch(spec PatchSpec, donorD1Len, donorD2Len, donorLayerLen int,
	data []T, permute func(d1, d2 int) (int, int), reverseLayer bool) error {
	want := donorD1Len * donorD2Len * donorLayerLen
	if len(data) != want {
		return fmt.Errorf("array3d: PermuteAndInsertPatch size mismatch: got %d values, need %d", len(data), want)
	}
	if spec.I.Len()*spec.J.Len()*spec.K.Len() != want {
		return fmt.Errorf("array3d: PermuteAndInsertPatch destination size mismatch: got %d, need %d",
			spec.I.Len()*spec.J.Len()*spec.K.Len(), want)
	}
	iLo, jLo, kLo := spec.I.Lo, spec.J.Lo, spec.K.Lo
	n := 0
	for d1 := 0; d1 < donorD1Len; d1++ {
		for d2 := 0; d2 < donorD2Len; d2++ {
			r1, r2 := permute(d1, d2)
			for layer := 0; layer < donorLayerLen; layer++ {
				l := layer
				if reverseLayer {
					l = donorLayerLen - 1 - layer
				}
				m.Set(iLo+r1, jLo+r2, kLo+l, data[n])
				n++
			}
		}
	}
	return nil
}
