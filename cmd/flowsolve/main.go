package main

import (
	"bytes"
	"os"
	"strconv"

	"github.com/notargets/flowcore/bcset"
	"github.com/notargets/flowcore/block"
	"github.com/notargets/flowcore/geom"
	"github.com/notargets/flowcore/gridlevel"
	"github.com/notargets/flowcore/multigrid"
	"github.com/notargets/flowcore/physics"
	"github.com/notargets/flowcore/restart"
	"github.com/notargets/flowcore/simlog"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// This is an illustrative driver, not a stable CLI (spec §6 scopes
// input-file parsing and a command surface out of the core). It builds a
// small uniform-flow cube, splits it into a multi-block decomposition,
// and runs a fixed number of nonlinear iterations through gridLevel's
// control flow, exercising multigrid and restart along the way.

func main() {
	n := 8
	numParts := 2
	numIters := 20
	mgEvery := 5

	layout, err := varset.NewLayout(1, false)
	if err != nil {
		simlog.Fatal(err, simlog.Fields{"stage": "layout"})
	}
	eos := physics.NewIdealGas(layout)
	inp := &solverinput.StaticInput{
		CFLNum:   0.5,
		Order:    solverinput.FirstOrder,
		Flux:     solverinput.FluxRusanov,
		Limiter:  "none",
		Scheme:   solverinput.ExplicitEuler,
		RhoRef:   1.225,
		ARef:     340.0,
		TRef:     288.0,
		LRef:     1.0,
		MuRef:    1.8e-5,
		MGLevels: 1,
		OutputFreq: 10,
		OutVars:  []string{"density", "velocity", "pressure"},
	}

	full := uniformCube(n, layout)
	blocks, conns, err := SplitBlockAlongAxis(full, 0, numParts)
	if err != nil {
		simlog.Fatal(err, simlog.Fields{"stage": "decompose"})
	}
	AssignRanks(blocks, 1)

	fine := gridlevel.New(blocks, conns, 0, nil, eos, nil, nil, nil, inp, gridlevel.NewLUSGSSolver(blocks, layout))

	var coarse *gridlevel.GridLevel
	var coarsenings []*multigrid.Coarsening
	if inp.MultigridLevels() > 0 {
		coarse, coarsenings, err = multigrid.Coarsen(fine)
		if err != nil {
			simlog.Warn(err, simlog.Fields{"stage": "multigrid-coarsen"})
			coarse = nil
		}
	}

	for iter := 1; iter <= numIters; iter++ {
		acc := varset.NewConvergenceAccumulator(layout)

		if err := fine.GetBoundaryConditions(); err != nil {
			simlog.Fatal(err, simlog.Fields{"stage": "bc", "iter": iter})
		}
		if err := fine.CalcResidual(); err != nil {
			simlog.Fatal(err, simlog.Fields{"stage": "residual", "iter": iter})
		}
		if err := fine.CalcTimeStep(); err != nil {
			simlog.Fatal(err, simlog.Fields{"stage": "dt", "iter": iter})
		}

		if err := fine.ExplicitUpdate(0, acc); err != nil {
			simlog.Fatal(err, simlog.Fields{"stage": "update", "iter": iter})
		}

		l2 := gridlevel.L2Norm(acc)
		simlog.Iteration(fine.Rank, iter, l2[0])

		if coarse != nil && iter%mgEvery == 0 {
			if err := multigrid.Restriction(fine, coarse, coarsenings, 0); err != nil {
				simlog.Warn(err, simlog.Fields{"stage": "multigrid-restriction", "iter": iter})
			} else if applied, err := multigrid.Prolongation(fine, coarse, coarsenings); err != nil {
				simlog.Warn(err, simlog.Fields{"stage": "multigrid-prolongation", "iter": iter})
			} else {
				_ = applied
			}
		}

		if inp.OutputFrequency() > 0 && iter%inp.OutputFrequency() == 0 {
			writeRestart(fine, inp, eos, iter, l2)
		}
	}
}

// uniformCube builds a single full-domain block at rest in a uniform
// free-stream state, the seed geometry SplitBlockAlongAxis then
// partitions into the rank's procBlocks.
func uniformCube(n int, l varset.Layout) *block.ProcBlock {
	g := geom.NewPlotBlock(n, n, n)
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			for k := 0; k <= n; k++ {
				g.SetNode(i, j, k, geom.Vec3{X: float64(i), Y: float64(j), Z: float64(k)})
			}
		}
	}
	if err := g.ComputeDerived(); err != nil {
		simlog.Fatal(err, simlog.Fields{"stage": "geometry"})
	}

	bc := &bcset.BoundaryConditions{Surfaces: []bcset.Surface{
		{Side: bcset.ILo, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.IHi, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.JLo, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.JHi, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.KLo, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
		{Side: bcset.KHi, IMin: 0, IMax: n, JMin: 0, JMax: n, KMin: 0, KMax: n, BCName: "slipWall"},
	}}

	pb := block.New(g, bc, block.Identity{GlobalPosition: 0, Rank: 0}, l, 1)

	p := varset.NewPrimitive(l)
	p.Set(l.SpeciesIndex(0), 1.0)
	p.Set(l.MomentumXIndex(), 0)
	p.Set(l.MomentumYIndex(), 0)
	p.Set(l.MomentumZIndex(), 0)
	p.Set(l.EnergyIndex(), 101325.0)
	pb.InitializeUniform(p)
	return pb
}

// writeRestart snapshots the current rank's blocks to a restart file
// under ./restart-<iter>.bin, the same periodic-checkpoint cadence
// inp.OutputFrequency() governs for solution output (spec 4.7).
func writeRestart(gl *gridlevel.GridLevel, inp solverinput.Input, eos physics.EquationOfState, iter int, l2 []float64) {
	f, err := restart.FromBlocks(gl.Blocks, inp, eos, iter, l2, nil, false)
	if err != nil {
		simlog.Warn(err, simlog.Fields{"stage": "restart-build", "iter": iter})
		return
	}
	var buf bytes.Buffer
	if err := restart.Write(&buf, f); err != nil {
		simlog.Warn(err, simlog.Fields{"stage": "restart-write", "iter": iter})
		return
	}
	path := restartPath(iter)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		simlog.Warn(err, simlog.Fields{"stage": "restart-flush", "iter": iter, "path": path})
	}
}

func restartPath(iter int) string {
	return "restart-" + strconv.Itoa(iter) + ".bin"
}
