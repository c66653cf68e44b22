package varset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	cases := []struct {
		name       string
		numSpecies int
		hasRANS    bool
		wantEqs    int
		wantErr    bool
	}{
		{"single species, laminar", 1, false, 5, false},
		{"single species, RANS", 1, true, 7, false},
		{"multi species, RANS", 3, true, 9, false},
		{"zero species rejected", 0, false, 0, true},
		{"negative species rejected", -2, false, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, err := NewLayout(c.numSpecies, c.hasRANS)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.wantEqs, l.NumEquations)
			require.Equal(t, c.wantEqs, l.Size())
		})
	}
}

func TestRoleIndicesPureFunctionOfSpeciesCount(t *testing.T) {
	l, err := NewLayout(2, true)
	require.NoError(t, err)

	require.Equal(t, 2, l.MomentumXIndex())
	require.Equal(t, 3, l.MomentumYIndex())
	require.Equal(t, 4, l.MomentumZIndex())
	require.Equal(t, 5, l.EnergyIndex())
	require.Equal(t, 6, l.TurbulenceIndex(0))
	require.Equal(t, 7, l.TurbulenceIndex(1))
}

func TestTurbulenceIndexPanicsWithoutRANS(t *testing.T) {
	l, err := NewLayout(1, false)
	require.NoError(t, err)
	require.Panics(t, func() { l.TurbulenceIndex(0) })
}
