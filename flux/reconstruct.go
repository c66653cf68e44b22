package flux

import (
	"github.com/notargets/flowcore/ferr"
	"github.com/notargets/flowcore/solverinput"
	"github.com/notargets/flowcore/varset"
)

// Stencil holds the five cell-centered primitive states bracketing one
// face: qm2,qm1,q0 on the left side and qp1,qp2 continuing across the
// face (the face sits between q0 and qp1). First-order and MUSCL
// reconstruction only read qm1..qp2; WENO/WENO-Z read all five.
type Stencil struct {
	QM2, QM1, Q0, QP1, QP2 varset.PrimitiveView
}

// Reconstruct computes the left (donor-side) and right (receiver-side)
// face states for one face from its five-cell stencil, per spec 4.2's
// reconstruction order choice. Every equation slot is reconstructed
// independently. A ReconstructionFailure is returned if a NaN appears or
// if either face state's total density or pressure is not positive;
// species densities and pressures below a small positive floor are then
// raised to that floor.
func Reconstruct(order solverinput.ReconstructionOrder, kappa float64, limiter Limiter, s Stencil,
	blockID int, faceName string, i, j, k int) (qL, qR varset.Primitive, err error) {
	l := s.Q0.Layout
	qL = varset.NewPrimitive(l)
	qR = varset.NewPrimitive(l)

	for eq := 0; eq < l.Size(); eq++ {
		var left, right float64
		switch order {
		case solverinput.FirstOrder:
			left, right = s.Q0.At(eq), s.QP1.At(eq)
		case solverinput.SecondOrderMUSCL:
			left, right = reconstructMUSCL(kappa, limiter, s.QM1.At(eq), s.Q0.At(eq), s.QP1.At(eq), s.QP2.At(eq))
		case solverinput.SecondOrderWENO:
			left, right = reconstructWENO(s.QM2.At(eq), s.QM1.At(eq), s.Q0.At(eq), s.QP1.At(eq), s.QP2.At(eq), false)
		case solverinput.SecondOrderWENOZ:
			left, right = reconstructWENO(s.QM2.At(eq), s.QM1.At(eq), s.Q0.At(eq), s.QP1.At(eq), s.QP2.At(eq), true)
		default:
			left, right = s.Q0.At(eq), s.QP1.At(eq)
		}
		if left != left || right != right { // NaN check
			return qL, qR, &ferr.ReconstructionFailure{Block: blockID, Face: faceName, I: i, J: j, K: k,
				Quantity: "reconstructed value", Value: left}
		}
		qL.Set(eq, left)
		qR.Set(eq, right)
	}

	if err := clampIntensive(qL, blockID, faceName, i, j, k); err != nil {
		return qL, qR, err
	}
	if err := clampIntensive(qR, blockID, faceName, i, j, k); err != nil {
		return qL, qR, err
	}
	return qL, qR, nil
}

// clampIntensive reports a non-positive total density or pressure as a
// ReconstructionFailure; otherwise it floors species density and pressure
// slots away from zero rather than let a small reconstructed overshoot
// produce a nonphysical interface state.
func clampIntensive(q varset.Primitive, blockID int, face string, i, j, k int) error {
	if rho := q.Rho(); rho <= 0 {
		return &ferr.ReconstructionFailure{Block: blockID, Face: face, I: i, J: j, K: k,
			Quantity: "density", Value: rho}
	}
	if p := q.Pressure(); p <= 0 {
		return &ferr.ReconstructionFailure{Block: blockID, Face: face, I: i, J: j, K: k,
			Quantity: "pressure", Value: p}
	}
	const floor = 1e-10
	for s := 0; s < q.Layout.NumSpecies; s++ {
		idx := q.Layout.SpeciesIndex(s)
		if q.At(idx) < floor {
			q.Set(idx, floor)
		}
	}
	pIdx := q.Layout.EnergyIndex()
	if q.At(pIdx) < floor {
		q.Set(pIdx, floor)
	}
	return nil
}

// reconstructMUSCL applies the kappa-scheme with a slope limiter (spec
// 4.2, "second-order MUSCL... kappa parameter and a limiter"). qm1,q0
// bracket the left extrapolation; q0,qp1 the right.
func reconstructMUSCL(kappa float64, lim Limiter, qm1, q0, qp1, qp2 float64) (left, right float64) {
	dL := q0 - qm1
	dC := qp1 - q0
	dR := qp2 - qp1

	rL := lim(ratio(dC, dL))
	left = q0 + 0.25*rL*((1-kappa)*dL+(1+kappa)*dC)

	rR := lim(ratio(dC, dR))
	right = qp1 - 0.25*rR*((1+kappa)*dC+(1-kappa)*dR)
	return left, right
}

// reconstructWENO applies a fifth-order WENO (or WENO-Z, if z is true)
// reconstruction using the classical Jiang-Shu three-substencil
// combination, evaluated once for the left-biased face value and once
// (mirrored) for the right-biased value.
func reconstructWENO(qm2, qm1, q0, qp1, qp2 float64, z bool) (left, right float64) {
	left = wenoFace(qm2, qm1, q0, qp1, qp2, z)
	// Mirror the stencil to get the right-biased reconstruction at the
	// same face (the face is at the qp1 side when read in reverse).
	right = wenoFace(qp2, qp1, q0, qm1, qm2, z)
	return left, right
}

// wenoFace evaluates the standard 5-point WENO left-biased interpolation
// of the face value between v[2] and v[3] given stencil v = (qm2,qm1,q0,
// qp1,qp2), using the three candidate third-order stencils and their
// smoothness-indicator nonlinear weights.
func wenoFace(qm2, qm1, q0, qp1, qp2 float64, z bool) float64 {
	// Candidate reconstructions.
	p0 := (2*qm2 - 7*qm1 + 11*q0) / 6
	p1 := (-qm1 + 5*q0 + 2*qp1) / 6
	p2 := (2*q0 + 5*qp1 - qp2) / 6

	// Smoothness indicators (Jiang & Shu 1996).
	b0 := 13.0/12.0*sq(qm2-2*qm1+q0) + 0.25*sq(qm2-4*qm1+3*q0)
	b1 := 13.0/12.0*sq(qm1-2*q0+qp1) + 0.25*sq(qm1-qp1)
	b2 := 13.0/12.0*sq(q0-2*qp1+qp2) + 0.25*sq(3*q0-4*qp1+qp2)

	const eps = 1e-6
	d0, d1, d2 := 0.1, 0.6, 0.3

	var a0, a1, a2 float64
	if z {
		tau5 := abs(b0 - b2)
		a0 = d0 * (1 + tau5/(b0+eps))
		a1 = d1 * (1 + tau5/(b1+eps))
		a2 = d2 * (1 + tau5/(b2+eps))
	} else {
		a0 = d0 / sq(eps+b0)
		a1 = d1 / sq(eps+b1)
		a2 = d2 / sq(eps+b2)
	}
	sum := a0 + a1 + a2
	w0, w1, w2 := a0/sum, a1/sum, a2/sum
	return w0*p0 + w1*p1 + w2*p2
}

func sq(x float64) float64 { return x * x }
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
