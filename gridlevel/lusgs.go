package gridlevel

import (
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// LUSGSSolver is a concrete, point-diagonal LinearSolver: each cell's
// diagonal is a scalar (cell volume over Δt, plus the accumulated
// convective+viscous spectral radius) rather than a full dense flux
// Jacobian, matching Blazek's LU-SGS simplification of Beam-Warming's
// block-tridiagonal system. Grounded on the teacher's own point-implicit
// update path, generalized from a fixed equation count to
// varset.Layout's runtime-determined one.
type LUSGSSolver struct {
	blocks []*block.ProcBlock
	layout varset.Layout

	a    []*block.ConservedDelta // per-block RHS accumulator
	x    []*block.ConservedDelta // per-block correction estimate
	diag []*array3dScalar        // per-block cached diagonal (one scalar per cell)

	diagRaw []*array3dScalar // per-block pre-inversion diagonal, kept by Invert for DiagAt
}

// array3dScalar is a flat per-block scalar cache sized to the block's
// physical extent, avoiding a dependency on array3d.MultiArray3d's
// ghost-aware indexing for a field that only ever covers physical cells.
type array3dScalar struct {
	ni, nj, nk int
	data       []float64
}

func newArray3dScalar(ni, nj, nk int) *array3dScalar {
	return &array3dScalar{ni: ni, nj: nj, nk: nk, data: make([]float64, ni*nj*nk)}
}

func (a *array3dScalar) idx(i, j, k int) int { return (i*a.nj+j)*a.nk + k }
func (a *array3dScalar) Get(i, j, k int) float64 { return a.data[a.idx(i, j, k)] }
func (a *array3dScalar) Set(i, j, k int, v float64) { a.data[a.idx(i, j, k)] = v }

// NewLUSGSSolver allocates RHS/correction/diagonal storage for every
// block in blocks, all sharing layout's equation count.
func NewLUSGSSolver(blocks []*block.ProcBlock, layout varset.Layout) *LUSGSSolver {
	s := &LUSGSSolver{blocks: blocks, layout: layout}
	for _, b := range blocks {
		s.a = append(s.a, block.NewConservedDelta(b.NI(), b.NJ(), b.NK(), layout))
		s.x = append(s.x, block.NewConservedDelta(b.NI(), b.NJ(), b.NK(), layout))
		s.diag = append(s.diag, newArray3dScalar(b.NI(), b.NJ(), b.NK()))
	}
	return s
}

func (s *LUSGSSolver) A(b int) *block.ConservedDelta { return s.a[b] }
func (s *LUSGSSolver) X(b int) *block.ConservedDelta { return s.x[b] }

func (s *LUSGSSolver) ZeroA(b int) {
	blk := s.blocks[b]
	zero := varset.NewResidual(s.layout)
	for i := 0; i < blk.NI(); i++ {
		for j := 0; j < blk.NJ(); j++ {
			for k := 0; k < blk.NK(); k++ {
				s.a[b].Set(i, j, k, zero)
			}
		}
	}
}

// AddDiagonalTerms builds each cell's scalar diagonal: volume/Δt for the
// Beam-Warming unsteady term, plus the convective and (scaled) viscous
// spectral radii already accumulated by CalcResidual/CalcTimeStep (spec
// 4.4/4.5, the LU-SGS diagonal dominance term).
func (s *LUSGSSolver) AddDiagonalTerms(level *GridLevel, inp solverinput.Input) error {
	theta := inp.BeamWarmingTheta()
	if theta <= 0 {
		theta = 1
	}
	for bi, blk := range level.Blocks {
		for i := 0; i < blk.NI(); i++ {
			for j := 0; j < blk.NJ(); j++ {
				for k := 0; k < blk.NK(); k++ {
					vol := blk.Geom.Volume(i, j, k)
					dt := blk.Dt.Get(i, j, k)
					unsteady := 0.0
					if dt > 0 {
						unsteady = theta * vol / dt
					}
					specRad := blk.SpecRadius.Get(i, j, k)
					if inp.IsViscous() {
						specRad += inp.ViscousCFLCoefficient() * blk.ViscSpecRadius.Get(i, j, k)
					}
					s.diag[bi].Set(i, j, k, unsteady+specRad)
				}
			}
		}
	}
	return nil
}

// Invert turns each cell's assembled diagonal into its reciprocal,
// in place, so Relax's per-sweep solve is a multiply rather than a
// divide. The pre-inversion value is kept in diagRaw so AXmB (spec
// 4.5's "A·x - b") can still recover the actual diagonal term.
func (s *LUSGSSolver) Invert() error {
	s.diagRaw = make([]*array3dScalar, len(s.diag))
	for bi, d := range s.diag {
		raw := newArray3dScalar(d.ni, d.nj, d.nk)
		copy(raw.data, d.data)
		s.diagRaw[bi] = raw
		for idx, v := range d.data {
			if v != 0 {
				d.data[idx] = 1.0 / v
			}
		}
	}
	return nil
}

// DiagAt returns cell (i,j,k)'s pre-inversion diagonal value for block
// b, satisfying the optional DiagonalProvider capability AXmB queries.
func (s *LUSGSSolver) DiagAt(b, i, j, k int) float64 {
	if b >= len(s.diagRaw) || s.diagRaw[b] == nil {
		return 0
	}
	return s.diagRaw[b].Get(i, j, k)
}

// InitializeMatrixUpdate zeroes every block's RHS and correction
// estimate ahead of a fresh set of stationary sweeps.
func (s *LUSGSSolver) InitializeMatrixUpdate(level *GridLevel, inp solverinput.Input, eos physics.EquationOfState) error {
	zero := varset.NewResidual(s.layout)
	for bi, blk := range level.Blocks {
		for i := 0; i < blk.NI(); i++ {
			for j := 0; j < blk.NJ(); j++ {
				for k := 0; k < blk.NK(); k++ {
					s.a[bi].Set(i, j, k, zero)
					s.x[bi].Set(i, j, k, zero)
				}
			}
		}
	}
	return nil
}

// Relax is LUSGSSolver's own stationary-sweep solve step, called by the
// driver after each GridLevel.SweepStationary: it folds the block's
// no-source residual into the RHS the off-diagonal sweep already
// populated, then updates X in place by the cached diagonal inverse
// (point-Jacobi form of the LU-SGS relaxation). Not part of the
// LinearSolver interface — a concrete solver is free to structure its
// own inner solve however it likes; gridLevel only needs A/X/Zero.
func (s *LUSGSSolver) Relax(level *GridLevel) {
	for bi, blk := range level.Blocks {
		for i := 0; i < blk.NI(); i++ {
			for j := 0; j < blk.NJ(); j++ {
				for k := 0; k < blk.NK(); k++ {
					r := blk.Residual.RecordView(i, j, k)
					rhs := s.a[bi].At(i, j, k)
					dinv := s.diag[bi].Get(i, j, k)

					newX := varset.NewResidual(s.layout)
					for eq := 0; eq < s.layout.Size(); eq++ {
						newX.Set(eq, dinv*(-r.At(eq)-rhs.At(eq)))
					}
					s.x[bi].Set(i, j, k, newX)
				}
			}
		}
	}
}

// Restriction volume-weight-averages this (fine) level's correction
// estimate onto coarseSolver's X, per fineToCoarse's fine-cell ->
// coarse-cell-index map (flattened in the fine block's own i,j,k order)
// and volumeFactor (the ratio each fine cell contributes, typically
// 1/8 for a uniform 2x coarsening). Only blocks owned by rank are
// restricted, matching spec 4.6's per-rank multigrid hierarchy.
func (s *LUSGSSolver) Restriction(coarseSolver LinearSolver, connections []bcset.Connection,
	fineToCoarse []int, volumeFactor float64, rank int) error {
	coarse, ok := coarseSolver.(*LUSGSSolver)
	if !ok {
		return nil
	}
	_ = connections
	for bi, blk := range s.blocks {
		if blk.ID.Rank != rank {
			continue
		}
		idx := 0
		for i := 0; i < blk.NI(); i++ {
			for j := 0; j < blk.NJ(); j++ {
				for k := 0; k < blk.NK(); k++ {
					if idx >= len(fineToCoarse) {
						continue
					}
					ci, cj, ck := unflattenCoarseIndex(fineToCoarse[idx], coarse.blocks[bi])
					fineVal := s.x[bi].At(i, j, k)
					coarseVal := coarse.x[bi].At(ci, cj, ck)
					acc := varset.NewResidual(s.layout)
					for eq := 0; eq < s.layout.Size(); eq++ {
						acc.Set(eq, coarseVal.At(eq)+volumeFactor*fineVal.At(eq))
					}
					coarse.x[bi].Set(ci, cj, ck, acc)
					idx++
				}
			}
		}
	}
	return nil
}

func unflattenCoarseIndex(flat int, coarseBlock *block.ProcBlock) (i, j, k int) {
	nj, nk := coarseBlock.NJ(), coarseBlock.NK()
	k = flat % nk
	flat /= nk
	j = flat % nj
	i = flat / nj
	return i, j, k
}

// AddToUpdate folds corrections into every block's X, cell by cell.
func (s *LUSGSSolver) AddToUpdate(corrections []*block.ConservedDelta) {
	s.combineUpdate(corrections, 1)
}

// SubtractFromUpdate is AddToUpdate's inverse.
func (s *LUSGSSolver) SubtractFromUpdate(corrections []*block.ConservedDelta) {
	s.combineUpdate(corrections, -1)
}

func (s *LUSGSSolver) combineUpdate(corrections []*block.ConservedDelta, sign float64) {
	for bi, blk := range s.blocks {
		if bi >= len(corrections) || corrections[bi] == nil {
			continue
		}
		for i := 0; i < blk.NI(); i++ {
			for j := 0; j < blk.NJ(); j++ {
				for k := 0; k < blk.NK(); k++ {
					cur := s.x[bi].At(i, j, k)
					delta := corrections[bi].At(i, j, k)
					out := varset.NewResidual(s.layout)
					for eq := 0; eq < s.layout.Size(); eq++ {
						out.Set(eq, cur.At(eq)+sign*delta.At(eq))
					}
					s.x[bi].Set(i, j, k, out)
				}
			}
		}
	}
}
