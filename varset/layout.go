// Package varset implements the fixed-layout numeric records shared by the
// primitive, conserved, and residual variable sets: species mass densities,
// momentum (or velocity), total energy (or pressure), and, for RANS closures,
// two turbulence quantities.
package varset

import "fmt"

// Layout describes the role index table for a given species count and
// turbulence model choice. It is a pure function of NumSpecies and HasRANS,
// and is immutable once constructed (spec invariant (c)/(d)).
type Layout struct {
	NumSpecies   int
	HasRANS      bool
	NumEquations int
}

// NewLayout validates and builds a Layout. Species count must be >= 1
// (spec invariant (a)); equation count is NumSpecies + 4 + (2 if RANS)
// (spec invariant (b)).
func NewLayout(numSpecies int, hasRANS bool) (Layout, error) {
	if numSpecies < 1 {
		return Layout{}, fmt.Errorf("varset: species count must be >= 1, got %d", numSpecies)
	}
	n := numSpecies + 4
	if hasRANS {
		n += 2
	}
	return Layout{NumSpecies: numSpecies, HasRANS: hasRANS, NumEquations: n}, nil
}

// SpeciesIndex returns the storage index of species s (0-based).
func (l Layout) SpeciesIndex(s int) int { return s }

// MomentumXIndex returns the storage index of the x-momentum/velocity slot.
func (l Layout) MomentumXIndex() int { return l.NumSpecies }

// MomentumYIndex returns the storage index of the y-momentum/velocity slot.
func (l Layout) MomentumYIndex() int { return l.NumSpecies + 1 }

// MomentumZIndex returns the storage index of the z-momentum/velocity slot.
func (l Layout) MomentumZIndex() int { return l.NumSpecies + 2 }

// EnergyIndex returns the storage index of the total-energy/pressure slot.
func (l Layout) EnergyIndex() int { return l.NumSpecies + 3 }

// TurbulenceIndex returns the storage index of turbulence quantity k (0 or 1).
// Panics if the layout has no RANS quantities or k is out of [0,1]; callers
// are expected to check HasRANS first.
func (l Layout) TurbulenceIndex(k int) int {
	if !l.HasRANS || k < 0 || k > 1 {
		panic(fmt.Sprintf("varset: invalid turbulence index %d (HasRANS=%v)", k, l.HasRANS))
	}
	return l.NumSpecies + 4 + k
}

// Size returns the fixed record length, equal to NumEquations.
func (l Layout) Size() int { return l.NumEquations }
