package varset

// PrimitiveView is a non-owning borrow of a primitive record's storage,
// used during inter-block exchange and solver passes to avoid copies.
type PrimitiveView struct {
	Layout Layout
	data   []float64
}

// ConservedView is a non-owning borrow of a conserved record's storage.
type ConservedView struct {
	Layout Layout
	data   []float64
}

// ViewOfPrimitive returns a PrimitiveView over p's own backing slice; p must
// outlive the view.
func ViewOfPrimitive(p Primitive) PrimitiveView { return PrimitiveView{Layout: p.Layout, data: p.data} }

// ViewPrimitive wraps an externally-owned slice (e.g. a sub-slice of a
// blkMultiArray3d's backing store) as a PrimitiveView. len(backing) must
// equal l.Size().
func ViewPrimitive(l Layout, backing []float64) PrimitiveView {
	return PrimitiveView{Layout: l, data: backing}
}

func (v PrimitiveView) At(i int) float64     { return v.data[i] }
func (v PrimitiveView) Set(i int, x float64) { v.data[i] = x }
func (v PrimitiveView) Raw() []float64       { return v.data }

// Materialize copies the view into an owned Primitive record.
func (v PrimitiveView) Materialize() Primitive {
	p := NewPrimitive(v.Layout)
	copy(p.data, v.data)
	return p
}

func (v PrimitiveView) Rho() float64 {
	return Primitive{Layout: v.Layout, data: v.data}.Rho()
}

func (v PrimitiveView) Velocity() (u, w, z float64) {
	return Primitive{Layout: v.Layout, data: v.data}.Velocity()
}

func (v PrimitiveView) Pressure() float64 {
	return Primitive{Layout: v.Layout, data: v.data}.Pressure()
}

func (v PrimitiveView) Turbulence(k int) float64 {
	return Primitive{Layout: v.Layout, data: v.data}.Turbulence(k)
}

// NewPrimitiveFromView adapts a PrimitiveView to a Primitive sharing the
// same backing storage (no copy); mutating the result mutates the view.
func NewPrimitiveFromView(v PrimitiveView) Primitive { return Primitive{Layout: v.Layout, data: v.data} }

// NewConservedFromView adapts a PrimitiveView to a Conserved sharing the
// same backing storage; used where a BlkMultiArray3d's RecordView is
// known to actually hold conserved-variable storage (e.g. ConsVarsN).
func NewConservedFromView(v PrimitiveView) Conserved { return Conserved{Layout: v.Layout, data: v.data} }

// ViewResidual wraps an externally-owned slice as a Residual record
// sharing that backing storage (no copy).
func ViewResidual(l Layout, backing []float64) Residual { return Residual{Layout: l, data: backing} }

func ViewConserved(l Layout, backing []float64) ConservedView {
	return ConservedView{Layout: l, data: backing}
}

func (v ConservedView) At(i int) float64     { return v.data[i] }
func (v ConservedView) Set(i int, x float64) { v.data[i] = x }
func (v ConservedView) Raw() []float64       { return v.data }

func (v ConservedView) Materialize() Conserved {
	c := NewConserved(v.Layout)
	copy(c.data, v.data)
	return c
}
