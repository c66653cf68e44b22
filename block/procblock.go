// Package block implements procBlock (spec 4, item C4): the per-block
// aggregate of geometry, state, gradients, ghost machinery, and
// block-local residual assembly that is the core's largest component.
// A ProcBlock is mutated only on its owning rank (spec 5, "shared
// resource policy").
package block

import (
	"github.com/notargets/flowcore/array3d"
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/varset"
)

// Identity carries a block's position in the global decomposition: the
// parent block id before any splitting, its global position, the owning
// rank, and its local position among blocks on that rank.
type Identity struct {
	ParentBlockID  int
	GlobalPosition int
	Rank           int
	LocalPosition  int
}

// ProcBlock owns all per-block data: geometry, state, derived scalars,
// gradients, residual/flux accumulators, and boundary metadata (spec
// 4's procBlock field list, section 4 "procBlock (C4): owns").
type ProcBlock struct {
	ID Identity

	Geom *geom.PlotBlock

	Layout varset.Layout
	G      int // ghost layer count, fixed from input

	State       *array3d.BlkMultiArray3d // primitive, G ghost layers
	ConsVarsN   *array3d.BlkMultiArray3d // conserved at time n (implicit schemes)
	ConsVarsNm1 *array3d.BlkMultiArray3d // conserved at time n-1 (Beam-Warming)

	Temperature   *array3d.MultiArray3d[float64]
	Viscosity     *array3d.MultiArray3d[float64]
	EddyViscosity *array3d.MultiArray3d[float64]
	F1            *array3d.MultiArray3d[float64]
	F2            *array3d.MultiArray3d[float64]
	WallDist      *array3d.MultiArray3d[float64]

	VelocityGrad   *array3d.MultiArray3d[physics.Tensor3x3]
	TemperatureGrad *array3d.MultiArray3d[[3]float64]
	DensityGrad    *array3d.MultiArray3d[[3]float64]
	PressureGrad   *array3d.MultiArray3d[[3]float64]
	TKEGrad        *array3d.MultiArray3d[[3]float64]
	SDRGrad        *array3d.MultiArray3d[[3]float64]

	Residual       *array3d.BlkMultiArray3d // G=0, one record per physical cell
	SpecRadius     *array3d.MultiArray3d[float64] // convective spectral radius
	ViscSpecRadius *array3d.MultiArray3d[float64] // viscous spectral radius, tracked separately (Blazek 6.18)
	Dt             *array3d.MultiArray3d[float64]

	BC       *bcset.BoundaryConditions
	WallData []WallData // one per surface, indexed like BC.Surfaces; filled for viscous walls
}

// New constructs a ProcBlock from a geometry block, BC set, identity, and
// variable layout. Ghost layer count g must match the layout consistently
// across every array (spec 4: "all arrays share a consistent ghost layer
// count G, fixed from input").
func New(g *geom.PlotBlock, bc *bcset.BoundaryConditions, id Identity, layout varset.Layout, g_ int) *ProcBlock {
	ni, nj, nk := g.NI(), g.NJ(), g.NK()
	pb := &ProcBlock{
		ID:     id,
		Geom:   g,
		Layout: layout,
		G:      g_,

		State:       array3d.NewBlkMultiArray3d(ni, nj, nk, g_, layout),
		ConsVarsN:   array3d.NewBlkMultiArray3d(ni, nj, nk, 0, layout),
		ConsVarsNm1: array3d.NewBlkMultiArray3d(ni, nj, nk, 0, layout),

		Temperature:   array3d.New[float64](ni, nj, nk, g_),
		Viscosity:     array3d.New[float64](ni, nj, nk, g_),
		EddyViscosity: array3d.New[float64](ni, nj, nk, g_),
		F1:            array3d.New[float64](ni, nj, nk, g_),
		F2:            array3d.New[float64](ni, nj, nk, g_),
		WallDist:      array3d.New[float64](ni, nj, nk, g_),

		VelocityGrad:    array3d.New[physics.Tensor3x3](ni, nj, nk, 0),
		TemperatureGrad: array3d.New[[3]float64](ni, nj, nk, 0),
		DensityGrad:     array3d.New[[3]float64](ni, nj, nk, 0),
		PressureGrad:    array3d.New[[3]float64](ni, nj, nk, 0),
		TKEGrad:         array3d.New[[3]float64](ni, nj, nk, 0),
		SDRGrad:         array3d.New[[3]float64](ni, nj, nk, 0),

		Residual:       array3d.NewBlkMultiArray3d(ni, nj, nk, 0, layout),
		SpecRadius:     array3d.New[float64](ni, nj, nk, 0),
		ViscSpecRadius: array3d.New[float64](ni, nj, nk, 0),
		Dt:             array3d.New[float64](ni, nj, nk, 0),

		BC: bc,
	}
	if bc != nil {
		pb.WallData = make([]WallData, len(bc.Surfaces))
	}
	return pb
}

func (b *ProcBlock) NI() int { return b.Geom.NI() }
func (b *ProcBlock) NJ() int { return b.Geom.NJ() }
func (b *ProcBlock) NK() int { return b.Geom.NK() }
