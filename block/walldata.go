package block

// WallData holds the per-wall-surface quantities a viscous wall BC fills
// alongside its ghost state (spec 4.3, "wall variants also fill a
// wallVars record"), recovered from the Aither original's wallData.hpp
// (see SPEC_FULL 3).
type WallData struct {
	ShearStress    [3]float64
	HeatFlux       float64
	YPlus          float64
	FrictionVel    float64
	Temperature    float64
	Density        float64
	Viscosity      float64
	EddyViscosity  float64
	TKE            float64
	SDR            float64
	MassFractions  []float64
}

// NewWallData allocates a zeroed WallData sized for numSpecies mass
// fractions.
func NewWallData(numSpecies int) WallData {
	return WallData{MassFractions: make([]float64, numSpecies)}
}
