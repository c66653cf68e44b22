package solverinput

import (
	"fmt"

	"github.com/notargets/flowcore/ferr"
	"gopkg.in/ini.v1"
)

// LoadINI reads a StaticInput from an .ini file, grounded on
// Orange-ke-TemperatureFieldCalculation_Go's use of gopkg.in/ini.v1 to read
// its solver parameters. Only the scalar fields are populated; BCTags and
// OutputVariables are left for the caller to fill in (the BC tag table in
// particular commonly comes from a separate, grid-specific file).
func LoadINI(path string) (*StaticInput, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, &ferr.IOFailure{Op: "read", Path: path, Err: err}
	}
	sec := cfg.Section("solver")

	s := &StaticInput{BCTags: map[int]BCTagEntry{}}
	s.Grid = sec.Key("grid_name").MustString("")
	s.DtFixed = sec.Key("dt").MustFloat64(0)
	s.CFLNum = sec.Key("cfl").MustFloat64(1.0)
	s.ViscCFLCoeff = sec.Key("viscous_cfl_coefficient").MustFloat64(6.18)
	s.IterStart = sec.Key("iteration_start").MustInt(0)
	s.IterCount = sec.Key("iteration_count").MustInt(0)
	s.OutputFreq = sec.Key("output_frequency").MustInt(100)
	s.Species = sec.Key("num_species").MustInt(1)
	s.Viscous = sec.Key("viscous").MustBool(false)
	s.RANS = sec.Key("rans").MustBool(false)
	s.React = sec.Key("reacting").MustBool(false)
	s.Theta = sec.Key("beam_warming_theta").MustFloat64(1.0)
	s.Zeta = sec.Key("beam_warming_zeta").MustFloat64(0.0)
	s.RhoRef = sec.Key("rho_ref").MustFloat64(1.0)
	s.ARef = sec.Key("a_ref").MustFloat64(1.0)
	s.TRef = sec.Key("t_ref").MustFloat64(1.0)
	s.LRef = sec.Key("l_ref").MustFloat64(1.0)
	s.MuRef = sec.Key("mu_ref").MustFloat64(1.0)
	s.Kappa = sec.Key("muscl_kappa").MustFloat64(1.0 / 3.0)
	s.Limiter = sec.Key("limiter").MustString("vanAlbada")
	s.MGLevels = sec.Key("multigrid_levels").MustInt(1)

	switch sec.Key("time_scheme").MustString("implicit") {
	case "explicit_euler":
		s.Scheme = ExplicitEuler
	case "explicit_rk4":
		s.Scheme = ExplicitRK4
	default:
		s.Scheme = ImplicitBeamWarming
	}
	switch sec.Key("reconstruction_order").MustString("second_muscl") {
	case "first":
		s.Order = FirstOrder
	case "second_weno":
		s.Order = SecondOrderWENO
	case "second_wenoz":
		s.Order = SecondOrderWENOZ
	default:
		s.Order = SecondOrderMUSCL
	}
	switch sec.Key("flux_scheme").MustString("roe") {
	case "ausm":
		s.Flux = FluxAUSM
	case "hll":
		s.Flux = FluxHLL
	case "rusanov":
		s.Flux = FluxRusanov
	default:
		s.Flux = FluxRoe
	}

	if s.Species < 1 {
		return nil, fmt.Errorf("solverinput: num_species must be >= 1, got %d", s.Species)
	}
	return s, nil
}
