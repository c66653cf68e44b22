// Package ferr defines the error taxonomy shared across flowcore's
// packages (spec 7): each kind carries the context needed for the fatal
// diagnostic the outer driver logs before aborting, or, for the two
// recoverable kinds, the context the caller needs to retry or continue.
package ferr

import "fmt"

// NonphysicalState is raised when rho<=0, P<=0, T<=0, mu<0, or wall
// distance goes negative beyond tolerance.
type NonphysicalState struct {
	Block         int
	I, J, K       int
	Quantity      string
	Value         float64
}

func (e *NonphysicalState) Error() string {
	return fmt.Sprintf("nonphysical state: block %d cell (%d,%d,%d): %s = %g",
		e.Block, e.I, e.J, e.K, e.Quantity, e.Value)
}

// InvalidGeometry is raised when a cell volume is non-positive or a face
// decomposition is non-convex during geometry construction.
type InvalidGeometry struct {
	Block   int
	I, J, K int
	Reason  string
}

func (e *InvalidGeometry) Error() string {
	return fmt.Sprintf("invalid geometry: block %d cell (%d,%d,%d): %s", e.Block, e.I, e.J, e.K, e.Reason)
}

// ReconstructionFailure is raised when a reconstructed interface state has
// a NaN or negative intensive property.
type ReconstructionFailure struct {
	Block     int
	Face      string // "i", "j", or "k"
	I, J, K   int
	Quantity  string
	Value     float64
}

func (e *ReconstructionFailure) Error() string {
	return fmt.Sprintf("reconstruction failure: block %d %s-face (%d,%d,%d): %s = %g",
		e.Block, e.Face, e.I, e.J, e.K, e.Quantity, e.Value)
}

// BCUnknown is raised when a boundary surface names a BC not present in
// the dispatcher table.
type BCUnknown struct {
	Name string
	Tag  int
}

func (e *BCUnknown) Error() string {
	return fmt.Sprintf("unknown boundary condition %q (tag %d)", e.Name, e.Tag)
}

// DomainDecompMismatch is raised when a restart file's block count/sizes
// don't match the current grid decomposition.
type DomainDecompMismatch struct {
	Reason string
}

func (e *DomainDecompMismatch) Error() string { return "domain decomposition mismatch: " + e.Reason }

// IOFailure wraps any file open/read/write error.
type IOFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("io failure during %s of %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error { return e.Err }

// TIntersectionDeferred signals that an incoming ghost slice carried the
// sentinel "not yet valid" marker because the donor side of a T-intersection
// has not itself been filled yet, with flags for the patch edges that
// border the unfilled connection. It is classed as recoverable. The
// ghost exchange functions (SwapSlice, SwapSliceMPI) never return it.
type TIntersectionDeferred struct {
	ConnectionIndex int
	AdjEdgeLow1     bool
	AdjEdgeHigh1    bool
	AdjEdgeLow2     bool
	AdjEdgeHigh2    bool
}

func (e *TIntersectionDeferred) Error() string {
	return fmt.Sprintf("connection %d deferred pending T-intersection donor", e.ConnectionIndex)
}

// ConvergenceDivergence is reported, not fatal: the outer driver may choose
// to continue the simulation after logging it.
type ConvergenceDivergence struct {
	Iteration int
	Norm      float64
	Threshold float64
}

func (e *ConvergenceDivergence) Error() string {
	return fmt.Sprintf("residual norm %g exceeds threshold %g at iteration %d", e.Norm, e.Threshold, e.Iteration)
}
