// Package gridlevel implements spec 4.5, item C7: a grid level is one
// rank's set of procBlocks at a single multigrid resolution, plus the
// inter-block connection list and the per-iteration control flow that
// drives boundary-condition exchange, residual assembly, time-step
// sizing, and (for the implicit scheme) the point-implicit linear solve
// and state update. Grounded on the teacher's top-level solver-loop
// orchestration, generalized from a single-equation-set sweep to the
// full procBlock/linearSolver collaborator split spec 4.5 names.
package gridlevel

import (
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/dcomm"
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/ghost"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// GridLevel is one rank's blocks at a single multigrid resolution
// (spec 4.5's gridLevel, "owns: procBlocks, connections, linearSolver").
type GridLevel struct {
	Blocks      []*block.ProcBlock
	Connections []bcset.Connection
	Rank        int
	Comm        *dcomm.Comm // nil when running single-rank, no MPI exchange needed

	EOS        physics.EquationOfState
	Transport  physics.TransportModel
	Turbulence physics.TurbulenceModel
	Chemistry  physics.ChemistryModel
	Input      solverinput.Input

	Solver LinearSolver // nil for an explicit time-integration scheme

	// Level is this grid's position in the multigrid hierarchy, 0 =
	// finest. multigrid.Coarsen/Restriction/Prolongation move fields
	// between adjacent Level values.
	Level int

	// MGForcing is this (coarse) level's multigrid forcing term, one
	// ConservedDelta per block: A·x - b at the coarse state plus the
	// volume-restricted fine residual (spec 4.6's FAS forcing term).
	// multigrid.Restriction populates it; the coarse level's stationary
	// sweeps read it as an additional RHS contribution.
	MGForcing []*block.ConservedDelta
}

// New constructs a grid level from its blocks, connection list, and
// collaborators. Solver may be nil when inp's scheme is explicit.
func New(blocks []*block.ProcBlock, connections []bcset.Connection, rank int, comm *dcomm.Comm,
	eos physics.EquationOfState, transport physics.TransportModel, turbulence physics.TurbulenceModel,
	chemistry physics.ChemistryModel, inp solverinput.Input, solver LinearSolver) *GridLevel {
	return &GridLevel{
		Blocks:      blocks,
		Connections: connections,
		Rank:        rank,
		Comm:        comm,
		EOS:         eos,
		Transport:   transport,
		Turbulence:  turbulence,
		Chemistry:   chemistry,
		Input:       inp,
		Solver:      solver,
	}
}

// blockIndex finds a block's position in gl.Blocks by its global
// position, used to resolve a connection's BlockFirst/BlockSecond into
// a local slice index. Returns -1 if the block isn't owned locally.
func (gl *GridLevel) blockIndex(globalPos int) int {
	for i, b := range gl.Blocks {
		if b.ID.GlobalPosition == globalPos {
			return i
		}
	}
	return -1
}

// GetBoundaryConditions fills every block's ghost layer: first the
// physical (non-interblock) surfaces from each block's own interior
// state, then the interblock connections, same-rank connections via a
// direct patch copy and cross-rank connections via the MPI wrapper
// (spec 4.5 step 1).
func (gl *GridLevel) GetBoundaryConditions() error {
	for _, b := range gl.Blocks {
		if err := b.ApplyPhysicalBoundaryConditions(gl.EOS, gl.Input); err != nil {
			return err
		}
	}
	for idx, conn := range gl.Connections {
		if err := gl.exchangeConnection(idx, conn); err != nil {
			return err
		}
	}
	for _, b := range gl.Blocks {
		b.ApplyEdgeAndCornerBoundaryConditions()
	}
	return nil
}

// exchangeConnection fills the ghost cells one connection touches. Both
// directions are driven: first's interior feeds second's ghost and
// second's interior feeds first's ghost, since a connection is a single
// bidirectional pairing, not a one-way donor relationship. Same-rank
// connections are a direct in-process copy; cross-rank connections go
// through dcomm, with each rank handling only the side(s) it owns.
func (gl *GridLevel) exchangeConnection(idx int, conn bcset.Connection) error {
	li := gl.blockIndex(conn.BlockFirst)
	lj := gl.blockIndex(conn.BlockSecond)
	if li < 0 && lj < 0 {
		// Neither side of this connection is owned locally (can happen
		// while iterating a global connection list each rank holds a
		// full copy of); nothing to exchange here.
		return nil
	}
	if li >= 0 && lj >= 0 {
		first, second := gl.Blocks[li], gl.Blocks[lj]
		if err := ghost.SwapSlice(conn, first.State, second.State); err != nil {
			return err
		}
		return ghost.SwapSlice(reverseConnection(conn), second.State, first.State)
	}
	if gl.Comm == nil {
		return &ferr.DomainDecompMismatch{Reason: "cross-rank connection with no communicator attached"}
	}
	if li >= 0 {
		return ghost.SwapSliceMPI(gl.Comm, conn, idx, conn.RankSecond, gl.Blocks[li].State, true)
	}
	return ghost.SwapSliceMPI(gl.Comm, conn, idx, conn.RankFirst, gl.Blocks[lj].State, false)
}

// reverseConnection swaps a connection's first/second roles, used to
// drive the second-to-first leg of a same-rank exchange with the same
// ghost.SwapSlice call that handles first-to-second.
func reverseConnection(conn bcset.Connection) bcset.Connection {
	return bcset.Connection{
		BlockFirst: conn.BlockSecond, BlockSecond: conn.BlockFirst,
		RankFirst: conn.RankSecond, RankSecond: conn.RankFirst,
		LocalFirst: conn.LocalSecond, LocalSecond: conn.LocalFirst,
		SurfaceFirst: conn.SurfaceSecond, SurfaceSecond: conn.SurfaceFirst,
		Direction3First: conn.Direction3Second, Direction3Second: conn.Direction3First,
		PatchFirst: conn.PatchSecond, PatchSecond: conn.PatchFirst,
		Orientation: conn.Orientation.Inverse(),
	}
}

// CalcResidual runs one full residual assembly pass across every local
// block: refresh transport properties, compute gradients (needed by
// both the viscous flux and the turbulence/chemistry source terms),
// assemble the convective+viscous flux residual, then fold in source
// terms (spec 4.5 step 2, "CalcResidual: CalcResidualNoSource per
// block, swap gradients/eddy viscosity, RANS turbulence swap, then
// source terms").
func (gl *GridLevel) CalcResidual() error {
	for _, b := range gl.Blocks {
		b.UpdateTransportProperties(gl.EOS, gl.Transport, gl.Turbulence)
		if gl.Input.IsViscous() || gl.Input.IsRANS() {
			b.ComputeGradients(gl.EOS)
		}
		if err := b.CalcResidualNoSource(gl.EOS, gl.Transport, gl.Input); err != nil {
			return err
		}
		b.CalcSourceTerms(gl.Turbulence, gl.Chemistry)
	}
	return nil
}

// CalcTimeStep sizes every local block's per-cell Δt (spec 4.5 step 3).
func (gl *GridLevel) CalcTimeStep() error {
	for _, b := range gl.Blocks {
		if err := b.CalcBlockTimeStep(gl.Input); err != nil {
			return err
		}
	}
	return nil
}

// InvertDiagonal assembles and inverts each block's point-implicit
// diagonal block (spec 4.5 step 4, implicit scheme only). The diagonal
// terms themselves — the local flux Jacobian plus the spectral-radius
// dissipation and the unsteady Beam-Warming term — are solver-internal
// (spec 4.5's linearSolver.AddDiagonalTerms), since their storage
// layout is a choice the linear solver owns, not gridLevel.
func (gl *GridLevel) InvertDiagonal() error {
	if gl.Solver == nil {
		return nil
	}
	if err := gl.Solver.AddDiagonalTerms(gl, gl.Input); err != nil {
		return err
	}
	return gl.Solver.Invert()
}

// InitializeMatrixUpdate zeroes each block's correction estimate and RHS
// ahead of the inner stationary sweeps (spec 4.5 step 5).
func (gl *GridLevel) InitializeMatrixUpdate() error {
	if gl.Solver == nil {
		return nil
	}
	return gl.Solver.InitializeMatrixUpdate(gl, gl.Input, gl.EOS)
}

// SweepStationary runs one symmetric Gauss-Seidel half-pass (lower then
// upper off-diagonal sweep) across every local block, accumulating the
// off-diagonal contribution into the solver's per-block RHS (spec 4.5
// step 6, "inner stationary sweeps (solver-internal, unspecified)" —
// gridLevel supplies the one piece that isn't solver-internal, namely
// driving block.ImplicitLower/Upper over the solver's A(b)/X(b)
// storage; the caller decides how many times to call this per
// nonlinear iteration).
func (gl *GridLevel) SweepStationary() error {
	if gl.Solver == nil {
		return nil
	}
	for idx, b := range gl.Blocks {
		du := gl.Solver.X(idx)
		rhs := gl.Solver.A(idx)
		if err := b.ImplicitLower(gl.EOS, gl.Transport, gl.Input, du, rhs); err != nil {
			return err
		}
		if err := b.ImplicitUpper(gl.EOS, gl.Transport, gl.Input, du, rhs); err != nil {
			return err
		}
	}
	return nil
}

// UpdateBlocks applies the linear solver's converged correction to
// every local block's state, rotating Uⁿ→Uⁿ⁻¹ on the last nonlinear
// iteration, and folds each cell's update into acc (spec 4.5 step 7).
func (gl *GridLevel) UpdateBlocks(isLastNonlinIter bool, acc *varset.ConvergenceAccumulator) error {
	if gl.Solver == nil {
		return &ferr.DomainDecompMismatch{Reason: "UpdateBlocks called on an implicit path with no linear solver attached"}
	}
	for idx, b := range gl.Blocks {
		du := gl.Solver.X(idx)
		if err := b.UpdateBlock(gl.Input, gl.EOS, du, 0, isLastNonlinIter, acc); err != nil {
			return err
		}
	}
	return nil
}

// AXmB computes A·x - b per local block at the level's current solver
// state: the material of the multigrid forcing term (spec 4.5, "the
// level exposes AXmB(physics, inp) which computes A·x - b ... this is
// the material of the multigrid forcing term"). The diagonal term A is
// read through the optional DiagonalProvider capability; a solver that
// doesn't implement it contributes zero there, leaving only -b (see
// DiagonalProvider's doc comment). Returns nil (no error, empty slice)
// when there's no solver attached (explicit scheme, nothing to coarsen
// against here).
func (gl *GridLevel) AXmB(phys physics.EquationOfState, inp solverinput.Input) ([]*block.ConservedDelta, error) {
	if gl.Solver == nil {
		return nil, nil
	}
	diagProv, _ := gl.Solver.(DiagonalProvider)
	out := make([]*block.ConservedDelta, len(gl.Blocks))
	for bi, b := range gl.Blocks {
		x := gl.Solver.X(bi)
		rhs := gl.Solver.A(bi)
		result := block.NewConservedDelta(b.NI(), b.NJ(), b.NK(), b.Layout)
		for i := 0; i < b.NI(); i++ {
			for j := 0; j < b.NJ(); j++ {
				for k := 0; k < b.NK(); k++ {
					diag := 0.0
					if diagProv != nil {
						diag = diagProv.DiagAt(bi, i, j, k)
					}
					xVal := x.At(i, j, k)
					rhsVal := rhs.At(i, j, k)
					res := varset.NewResidual(b.Layout)
					for eq := 0; eq < b.Layout.Size(); eq++ {
						res.Set(eq, diag*xVal.At(eq)-rhsVal.At(eq))
					}
					result.Set(i, j, k, res)
				}
			}
		}
		out[bi] = result
	}
	return out, nil
}

// ExplicitUpdate advances every local block by one explicit scheme step
// (Euler or one RK4 stage), bypassing the linear-solver path entirely
// (spec 4.5, "the explicit path skips steps 4-6 and calls
// ExplicitUpdate"). rkStage is ignored for ExplicitEuler.
func (gl *GridLevel) ExplicitUpdate(rkStage int, acc *varset.ConvergenceAccumulator) error {
	for _, b := range gl.Blocks {
		if err := b.UpdateBlock(gl.Input, gl.EOS, nil, rkStage, false, acc); err != nil {
			return err
		}
	}
	return nil
}
