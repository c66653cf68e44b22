package array3d

import (
	"fmt"

	"github.com/notargets/flowcore/varset"
)

// BlkMultiArray3d is a multiArray3d specialization where each cell holds a
// fixed-stride record (a varset Primitive/Conserved/Residual) rather than a
// single scalar. Storage is one flat []float64 slab so that MPI slice
// exchange of state data can serialize/deserialize a patch with a single
// contiguous copy.
type BlkMultiArray3d struct {
	ni, nj, nk int
	g          int
	stride     int
	layout     varset.Layout
	data       []float64
}

// NewBlkMultiArray3d allocates a zeroed block array of physical extent
// ni x nj x nk, g ghost layers, and per-cell record layout l.
func NewBlkMultiArray3d(ni, nj, nk, g int, l varset.Layout) *BlkMultiArray3d {
	b := &BlkMultiArray3d{ni: ni, nj: nj, nk: nk, g: g, stride: l.Size(), layout: l}
	b.data = make([]float64, b.stI()*b.stJ()*b.stK()*b.stride)
	return b
}

func (b *BlkMultiArray3d) stI() int { return b.ni + 2*b.g }
func (b *BlkMultiArray3d) stJ() int { return b.nj + 2*b.g }
func (b *BlkMultiArray3d) stK() int { return b.nk + 2*b.g }

func (b *BlkMultiArray3d) NI() int              { return b.ni }
func (b *BlkMultiArray3d) NJ() int              { return b.nj }
func (b *BlkMultiArray3d) NK() int              { return b.nk }
func (b *BlkMultiArray3d) NumGhostLayers() int  { return b.g }
func (b *BlkMultiArray3d) Layout() varset.Layout { return b.layout }

func (b *BlkMultiArray3d) cellOffset(i, j, k int) int {
	ii, jj, kk := i+b.g, j+b.g, k+b.g
	if ii < 0 || ii >= b.stI() || jj < 0 || jj >= b.stJ() || kk < 0 || kk >= b.stK() {
		panic(fmt.Sprintf("array3d: BlkMultiArray3d index (%d,%d,%d) out of range", i, j, k))
	}
	return ((ii*b.stJ()+jj)*b.stK() + kk) * b.stride
}

// RecordView returns a non-owning view over cell (i,j,k)'s record storage.
func (b *BlkMultiArray3d) RecordView(i, j, k int) varset.PrimitiveView {
	off := b.cellOffset(i, j, k)
	return varset.ViewPrimitive(b.layout, b.data[off:off+b.stride])
}

// SetRecord copies rec's values into cell (i,j,k).
func (b *BlkMultiArray3d) SetRecord(i, j, k int, rec interface{ Raw() []float64 }) {
	off := b.cellOffset(i, j, k)
	copy(b.data[off:off+b.stride], rec.Raw())
}

// ExtractPatch copies the records in the sub-array selected by spec into a
// flat row-major (i,j,k)-major slice of stride-sized records.
func (b *BlkMultiArray3d) ExtractPatch(spec PatchSpec) []float64 {
	n := spec.I.Len() * spec.J.Len() * spec.K.Len()
	out := make([]float64, n*b.stride)
	pos := 0
	for i := spec.I.Lo; i < spec.I.Hi; i++ {
		for j := spec.J.Lo; j < spec.J.Hi; j++ {
			for k := spec.K.Lo; k < spec.K.Hi; k++ {
				off := b.cellOffset(i, j, k)
				copy(out[pos:pos+b.stride], b.data[off:off+b.stride])
				pos += b.stride
			}
		}
	}
	return out
}

// InsertPatch is the record-aware analogue of MultiArray3d.InsertPatch.
func (b *BlkMultiArray3d) InsertPatch(spec PatchSpec, data []float64) error {
	n := spec.I.Len() * spec.J.Len() * spec.K.Len()
	if len(data) != n*b.stride {
		return fmt.Errorf("array3d: BlkMultiArray3d InsertPatch size mismatch: got %d floats, need %d",
			len(data), n*b.stride)
	}
	pos := 0
	for i := spec.I.Lo; i < spec.I.Hi; i++ {
		for j := spec.J.Lo; j < spec.J.Hi; j++ {
			for k := spec.K.Lo; k < spec.K.Hi; k++ {
				off := b.cellOffset(i, j, k)
				copy(b.data[off:off+b.stride], data[pos:pos+b.stride])
				pos += b.stride
			}
		}
	}
	return nil
}

// PermuteAndInsertPatch is the record-stride analogue of
// MultiArray3d.PermuteAndInsertPatch: it remaps donor (d1,d2) pairs to
// receiver (d1',d2') pairs via permute before writing whole records.
func (b *BlkMultiArray3d) PermuteAndInsertPatch(spec PatchSpec, donorD1Len, donorD2Len, donorLayerLen int,
	data []float64, permute func(d1, d2 int) (int, int), reverseLayer bool) error {
	want := donorD1Len * donorD2Len * donorLayerLen
	if len(data) != want*b.stride {
		return fmt.Errorf("array3d: BlkMultiArray3d PermuteAndInsertPatch size mismatch: got %d floats, need %d",
			len(data), want*b.stride)
	}
	iLo, jLo, kLo := spec.I.Lo, spec.J.Lo, spec.K.Lo
	pos := 0
	for d1 := 0; d1 < donorD1Len; d1++ {
		for d2 := 0; d2 < donorD2Len; d2++ {
			r1, r2 := permute(d1, d2)
			for layer := 0; layer < donorLayerLen; layer++ {
				l := layer
				if reverseLayer {
					l = donorLayerLen - 1 - layer
				}
				off := b.cellOffset(iLo+r1, jLo+r2, kLo+l)
				copy(b.data[off:off+b.stride], data[pos:pos+b.stride])
				pos += b.stride
			}
		}
	}
	return nil
}
