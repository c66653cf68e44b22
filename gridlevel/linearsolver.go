package gridlevel

import (
	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/solverinput"
)

// LinearSolver is the point-implicit solve collaborator spec 4.5 treats
// as external: it owns the per-block diagonal matrix storage and
// correction/RHS vectors that gridLevel's control-flow methods drive but
// never allocate themselves, and the multigrid restriction operator that
// moves a fine-level correction update onto a coarse level's solver
// state (spec 4.5/4.6).
type LinearSolver interface {
	// A returns block b's right-hand-side accumulator (the assembled
	// off-diagonal contribution plus the residual/unsteady source the
	// diagonal solve is inverting against).
	A(b int) *block.ConservedDelta

	// X returns block b's current correction estimate, the quantity
	// ImplicitLower/Upper read as their neighbor term and UpdateBlocks
	// applies to the block's state once the sweeps have converged.
	X(b int) *block.ConservedDelta

	// ZeroA clears block b's RHS accumulator ahead of a fresh sweep.
	ZeroA(b int)

	// AddDiagonalTerms assembles every block's diagonal matrix entries:
	// the local flux Jacobian, the spectral-radius dissipation term, and
	// (for ImplicitBeamWarming) the 1/Δt unsteady contribution.
	AddDiagonalTerms(level *GridLevel, inp solverinput.Input) error

	// Invert factors or otherwise prepares every block's assembled
	// diagonal for repeated triangular solves during the stationary
	// sweeps.
	Invert() error

	// InitializeMatrixUpdate zeroes every block's RHS and correction
	// estimate ahead of a fresh set of stationary sweeps.
	InitializeMatrixUpdate(level *GridLevel, inp solverinput.Input, eos physics.EquationOfState) error

	// Restriction transfers this (fine) solver's state onto coarseSolver
	// at the next multigrid level down, using connections and
	// fineToCoarse (spec 4.6's cell-aggregation map) to combine
	// volumeFactor-weighted fine corrections into each coarse cell,
	// restricted to whichever blocks rank owns.
	Restriction(coarseSolver LinearSolver, connections []bcset.Connection, fineToCoarse []int,
		volumeFactor float64, rank int) error

	// AddToUpdate folds corrections (one ConservedDelta per block, in
	// gridLevel.Blocks order) into every block's current X(b).
	AddToUpdate(corrections []*block.ConservedDelta)

	// SubtractFromUpdate is AddToUpdate's inverse, used when a coarse
	// correction is being removed from a fine level's estimate after
	// prolongation has already added the interpolated version back in.
	SubtractFromUpdate(corrections []*block.ConservedDelta)
}

// DiagonalProvider is an optional LinearSolver capability exposing each
// cell's pre-inversion scalar diagonal, the one piece GridLevel.AXmB
// needs that the base LinearSolver interface doesn't carry (Invert is
// free to discard its input once it has a usable inverse). A solver
// that doesn't implement this contributes a zero diagonal term to
// AXmB, i.e. its forcing term degrades to the bare "-b" off-diagonal
// residual rather than failing outright.
type DiagonalProvider interface {
	DiagAt(b, i, j, k int) float64
}
