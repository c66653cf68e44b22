// Package physics declares the physical-model collaborator contracts spec
// 1 treats as external (equation of state, transport, turbulence closure,
// chemistry kinetics), and supplies one concrete, nondimensional ideal-gas
// implementation used by tests and the example driver.
package physics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/flowcore/varset"
)

// EquationOfState converts between conserved and primitive records and
// supplies the speed of sound needed by the flux kernels' spectral radius.
type EquationOfState interface {
	ToPrimitive(c varset.Conserved) (varset.Primitive, error)
	ToConserved(p varset.Primitive) (varset.Conserved, error)
	SpeedOfSound(p varset.PrimitiveView) float64
	Temperature(p varset.PrimitiveView) float64

	// FluxJacobianNormal returns the 1-D inviscid flux Jacobian dF/dU
	// projected along unit normal n, used by the implicit scheme's
	// off-diagonal LU-SGS product.
	FluxJacobianNormal(p varset.Primitive, nx, ny, nz float64) (*mat.Dense, error)
}

// TransportModel supplies molecular viscosity and thermal conductivity
// given the local primitive state and temperature.
type TransportModel interface {
	Viscosity(p varset.PrimitiveView, temperature float64) float64
	ThermalConductivity(p varset.PrimitiveView, temperature, viscosity float64) float64
}

// TurbulenceModel supplies the unlimited eddy viscosity and the blending
// functions f1, f2 used by two-equation RANS closures, plus the
// turbulence-source contribution to the residual and its spectral radius.
type TurbulenceModel interface {
	EddyViscosity(p varset.PrimitiveView, wallDist float64, velGrad Tensor3x3) float64
	BlendingFunctions(p varset.PrimitiveView, wallDist float64, velGrad Tensor3x3) (f1, f2 float64)
	Source(p varset.PrimitiveView, velGrad Tensor3x3, wallDist float64) (src varset.Residual, specRad float64)
}

// ChemistryModel supplies the finite-rate species source term and its
// point-implicit Jacobian spectral radius contribution.
type ChemistryModel interface {
	Source(p varset.PrimitiveView) (src varset.Residual, specRad float64)
}

// Tensor3x3 is a fixed 3x3 tensor, used for the velocity gradient and its
// strain-rate decomposition (recovered from the Aither original's
// utility.hpp Tensor<double>, see SPEC_FULL 3).
type Tensor3x3 [3][3]float64

// Trace returns the sum of the diagonal.
func (t Tensor3x3) Trace() float64 { return t[0][0] + t[1][1] + t[2][2] }

// SymmetricPart returns (T + T^T)/2, the strain-rate tensor for a velocity
// gradient T.
func (t Tensor3x3) SymmetricPart() Tensor3x3 {
	var s Tensor3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s[i][j] = 0.5 * (t[i][j] + t[j][i])
		}
	}
	return s
}

// Scale returns t scaled by c.
func (t Tensor3x3) Scale(c float64) Tensor3x3 {
	var s Tensor3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s[i][j] = t[i][j] * c
		}
	}
	return s
}

// Add returns t+o element-wise.
func (t Tensor3x3) Add(o Tensor3x3) Tensor3x3 {
	var s Tensor3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s[i][j] = t[i][j] + o[i][j]
		}
	}
	return s
}
