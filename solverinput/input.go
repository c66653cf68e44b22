// Package solverinput declares the `input` collaborator contract spec 6
// treats as external (CLI-level configuration), and supplies an in-memory
// struct implementation plus a thin gopkg.in/ini.v1-backed file loader
// (grounded on Orange-ke-TemperatureFieldCalculation_Go's solver-parameter
// ini file) used by tests and cmd/flowsolve.
package solverinput

// TimeScheme enumerates the supported time-integration schemes.
type TimeScheme int

const (
	ExplicitEuler TimeScheme = iota
	ExplicitRK4
	ImplicitBeamWarming
)

// ReconstructionOrder enumerates the supported spatial orders.
type ReconstructionOrder int

const (
	FirstOrder ReconstructionOrder = iota
	SecondOrderMUSCL
	SecondOrderWENO
	SecondOrderWENOZ
)

// FluxScheme enumerates the supported inviscid flux functions.
type FluxScheme int

const (
	FluxRoe FluxScheme = iota
	FluxAUSM
	FluxHLL
	FluxRusanov
)

// BCTagEntry holds the per-tag configuration a boundary surface's integer
// tag indexes into: wall thermal law, inlet state, non-reflecting flag.
type BCTagEntry struct {
	Tag               int
	WallIsothermal    bool
	WallTemperature   float64 // used iff WallIsothermal
	WallLawOfTheWall  bool
	InletDensity      float64
	InletVelocity     [3]float64
	InletPressure     float64
	NonReflecting     bool
}

// Input is the configuration collaborator the core consumes (spec 6).
type Input interface {
	GridName() string
	FixedTimeStep() float64 // <=0 means "use CFL"
	CFL() float64
	ViscousCFLCoefficient() float64
	IterationStart() int
	IterationCount() int
	OutputFrequency() int

	NumSpecies() int
	IsViscous() bool
	IsRANS() bool
	IsReacting() bool

	TimeIntegrationScheme() TimeScheme
	BeamWarmingTheta() float64
	BeamWarmingZeta() float64

	ReferenceDensity() float64
	ReferenceSoundSpeed() float64
	ReferenceTemperature() float64
	ReferenceLength() float64
	ReferenceViscosity() float64

	ReconstructionOrder() ReconstructionOrder
	FluxScheme() FluxScheme
	MUSCLKappa() float64
	LimiterName() string

	MultigridLevels() int

	BCTag(tag int) (BCTagEntry, bool)

	OutputVariables() []string
}

// StaticInput is a plain in-memory Input implementation, used directly by
// tests and by cmd/flowsolve's example scenarios.
type StaticInput struct {
	Grid                 string
	DtFixed              float64
	CFLNum                float64
	ViscCFLCoeff          float64
	IterStart, IterCount  int
	OutputFreq            int
	Species               int
	Viscous, RANS, React  bool
	Scheme                TimeScheme
	Theta, Zeta           float64
	RhoRef, ARef, TRef    float64
	LRef, MuRef           float64
	Order                 ReconstructionOrder
	Flux                  FluxScheme
	Kappa                 float64
	Limiter               string
	MGLevels              int
	BCTags                map[int]BCTagEntry
	OutVars               []string
}

func (s *StaticInput) GridName() string                    { return s.Grid }
func (s *StaticInput) FixedTimeStep() float64               { return s.DtFixed }
func (s *StaticInput) CFL() float64                          { return s.CFLNum }
func (s *StaticInput) ViscousCFLCoefficient() float64        { return s.ViscCFLCoeff }
func (s *StaticInput) IterationStart() int                   { return s.IterStart }
func (s *StaticInput) IterationCount() int                   { return s.IterCount }
func (s *StaticInput) OutputFrequency() int                  { return s.OutputFreq }
func (s *StaticInput) NumSpecies() int                       { return s.Species }
func (s *StaticInput) IsViscous() bool                       { return s.Viscous }
func (s *StaticInput) IsRANS() bool                          { return s.RANS }
func (s *StaticInput) IsReacting() bool                      { return s.React }
func (s *StaticInput) TimeIntegrationScheme() TimeScheme      { return s.Scheme }
func (s *StaticInput) BeamWarmingTheta() float64              { return s.Theta }
func (s *StaticInput) BeamWarmingZeta() float64               { return s.Zeta }
func (s *StaticInput) ReferenceDensity() float64              { return s.RhoRef }
func (s *StaticInput) ReferenceSoundSpeed() float64           { return s.ARef }
func (s *StaticInput) ReferenceTemperature() float64          { return s.TRef }
func (s *StaticInput) ReferenceLength() float64               { return s.LRef }
func (s *StaticInput) ReferenceViscosity() float64            { return s.MuRef }
func (s *StaticInput) ReconstructionOrder() ReconstructionOrder { return s.Order }
func (s *StaticInput) FluxScheme() FluxScheme                  { return s.Flux }
func (s *StaticInput) MUSCLKappa() float64                    { return s.Kappa }
func (s *StaticInput) LimiterName() string                    { return s.Limiter }
func (s *StaticInput) MultigridLevels() int                   { return s.MGLevels }
func (s *StaticInput) OutputVariables() []string               { return s.OutVars }

func (s *StaticInput) BCTag(tag int) (BCTagEntry, bool) {
	e, ok := s.BCTags[tag]
	return e, ok
}
