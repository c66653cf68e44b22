package multigrid

import (
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/gridlevel"
	"github.com/notargets/flowcore/varset"
)

// Restriction carries fine's current state and (for the implicit path)
// its linear-solver correction down onto coarse, then assembles coarse's
// multigrid forcing term — spec 4.6's five-step sequence: (1) volume-
// weighted restriction of the fine solution onto the coarse state; (2)
// on the first nonlinear iteration of a cycle (m == 0) save that
// restricted state as the coarse level's time-n solution, the FAS
// reference state Prolongation's correction is measured against; (3)
// apply boundary conditions, assemble the residual, size the time step,
// and invert the diagonal on the coarse level exactly as the fine level
// would for its own nonlinear iteration; (4) restrict the fine solver's
// correction estimate onto the coarse solver; (5) compute coarse A·x - b
// and add the volume-restricted fine residual, storing the sum as
// coarse.MGForcing, the term the coarse level's own sweeps solve against
// in place of its bare residual.
func Restriction(fine, coarse *gridlevel.GridLevel, coarsenings []*Coarsening, m int) error {
	for bi, c := range coarsenings {
		restrictState(fine.Blocks[bi], coarse.Blocks[bi], c)
	}

	if m == 0 {
		for _, b := range coarse.Blocks {
			for i := 0; i < b.NI(); i++ {
				for j := 0; j < b.NJ(); j++ {
					for k := 0; k < b.NK(); k++ {
						p := b.State.RecordView(i, j, k).Materialize()
						cons, err := coarse.EOS.ToConserved(p)
						if err != nil {
							return err
						}
						b.ConsVarsN.SetRecord(i, j, k, cons)
					}
				}
			}
		}
	}

	if err := coarse.GetBoundaryConditions(); err != nil {
		return err
	}
	if err := coarse.CalcResidual(); err != nil {
		return err
	}
	if err := coarse.CalcTimeStep(); err != nil {
		return err
	}
	if err := coarse.InvertDiagonal(); err != nil {
		return err
	}

	if fine.Solver != nil && coarse.Solver != nil {
		for _, c := range coarsenings {
			if err := fine.Solver.Restriction(coarse.Solver, fine.Connections, c.FineToCoarse, 0.125, fine.Rank); err != nil {
				return err
			}
		}
	}

	coarseAxb, err := coarse.AXmB(coarse.EOS, coarse.Input)
	if err != nil {
		return err
	}
	if coarseAxb == nil {
		return nil
	}
	restrictedFineResidual := make([]*block.ConservedDelta, len(coarsenings))
	for bi, c := range coarsenings {
		restrictedFineResidual[bi] = restrictResidual(fine.Blocks[bi], coarse.Blocks[bi], c)
	}

	coarse.MGForcing = make([]*block.ConservedDelta, len(coarse.Blocks))
	for bi, b := range coarse.Blocks {
		forcing := block.NewConservedDelta(b.NI(), b.NJ(), b.NK(), b.Layout)
		for i := 0; i < b.NI(); i++ {
			for j := 0; j < b.NJ(); j++ {
				for k := 0; k < b.NK(); k++ {
					axb := coarseAxb[bi].At(i, j, k)
					rf := restrictedFineResidual[bi].At(i, j, k)
					out := varset.NewResidual(b.Layout)
					for eq := 0; eq < b.Layout.Size(); eq++ {
						out.Set(eq, axb.At(eq)+rf.At(eq))
					}
					forcing.Set(i, j, k, out)
				}
			}
		}
		coarse.MGForcing[bi] = forcing
	}
	return nil
}

// restrictResidual volume-weight-averages fine's no-source residual onto
// a ConservedDelta sized to coarse, the "R_f↓" term of spec 4.6's forcing
// expression.
func restrictResidual(fine, coarse *block.ProcBlock, c *Coarsening) *block.ConservedDelta {
	out := block.NewConservedDelta(coarse.NI(), coarse.NJ(), coarse.NK(), coarse.Layout)
	cnj, cnk := coarse.NJ(), coarse.NK()
	for i := 0; i < fine.NI(); i++ {
		for j := 0; j < fine.NJ(); j++ {
			for k := 0; k < fine.NK(); k++ {
				fi := (i*fine.NJ()+j)*fine.NK() + k
				cf := c.FineToCoarse[fi]
				ck := cf % cnk
				rest := cf / cnk
				cj := rest % cnj
				ci := rest / cnj
				w := c.VolumeWeight[fi]
				r := fine.Residual.RecordView(i, j, k)
				cur := out.At(ci, cj, ck)
				acc := varset.NewResidual(coarse.Layout)
				for eq := 0; eq < coarse.Layout.Size(); eq++ {
					acc.Set(eq, cur.At(eq)+w*r.At(eq))
				}
				out.Set(ci, cj, ck, acc)
			}
		}
	}
	return out
}

// Prolongation interpolates coarse's current correction estimate
// (coarse.Solver.X) back onto fine via each fine cell's seven packed
// trilinear coefficients plus the implicit eighth (the base coarse cell),
// and folds the result into fine's solver update (spec 4.6: "trilinear-
// interpolate coarse X(b) onto fine cells... add to fine solver's
// update"). Returns the per-block correction it applied, since
// SubtractFromUpdate needs the identical values to undo this exact
// contribution later.
func Prolongation(fine, coarse *gridlevel.GridLevel, coarsenings []*Coarsening) ([]*block.ConservedDelta, error) {
	if fine.Solver == nil || coarse.Solver == nil {
		return nil, nil
	}
	applied := make([]*block.ConservedDelta, len(fine.Blocks))
	for bi, c := range coarsenings {
		fb := fine.Blocks[bi]
		cb := coarse.Blocks[bi]
		coarseX := coarse.Solver.X(bi)
		out := block.NewConservedDelta(fb.NI(), fb.NJ(), fb.NK(), fb.Layout)
		cnj, cnk := cb.NJ(), cb.NK()

		for i := 0; i < fb.NI(); i++ {
			ci := i / 2
			for j := 0; j < fb.NJ(); j++ {
				cj := j / 2
				for k := 0; k < fb.NK(); k++ {
					ck := k / 2
					fi := (i*fb.NJ()+j)*fb.NK() + k
					coeffs := c.TrilinearCoeffs[fi]

					base := 1.0
					interp := varset.NewResidual(fb.Layout)
					baseVal := coarseX.At(ci, cj, ck)
					for n, off := range neighborOffsets {
						w := coeffs[n]
						base -= w
						if w == 0 {
							continue
						}
						ni, nj, nk := clampCoarseIdx(ci+off[0], cj+off[1], ck+off[2], cb.NI(), cnj, cnk)
						val := coarseX.At(ni, nj, nk)
						for eq := 0; eq < fb.Layout.Size(); eq++ {
							interp.Set(eq, interp.At(eq)+w*val.At(eq))
						}
					}
					for eq := 0; eq < fb.Layout.Size(); eq++ {
						interp.Set(eq, interp.At(eq)+base*baseVal.At(eq))
					}
					out.Set(i, j, k, interp)
				}
			}
		}
		applied[bi] = out
	}
	fine.Solver.AddToUpdate(applied)
	return applied, nil
}

func clampCoarseIdx(i, j, k, ni, nj, nk int) (int, int, int) {
	if i >= ni {
		i = ni - 1
	}
	if j >= nj {
		j = nj - 1
	}
	if k >= nk {
		k = nk - 1
	}
	return i, j, k
}

// SubtractFromUpdate removes a previously applied Prolongation
// contribution from fine's solver state, the full-approximation-storage
// (FAS) convention of un-folding a coarse correction once it has served
// its purpose (spec 4.6).
func SubtractFromUpdate(fine *gridlevel.GridLevel, applied []*block.ConservedDelta) {
	if fine.Solver == nil || applied == nil {
		return
	}
	fine.Solver.SubtractFromUpdate(applied)
}
