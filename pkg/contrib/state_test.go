package contrib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

func testTarget(t *testing.T, pressureBar float64, amounts ...float64) domain.InitialState {
	t.Helper()
	target, err := domain.NewInitialState(
		quantity.Scalar(310, unitKelvin),
		quantity.Scalar(pressureBar, quantity.MustParse("bar")),
		quantity.Vector(amounts, unitMole),
	)
	require.NoError(t, err)
	return target
}

func species(t *testing.T, names ...string) domain.SpeciesSet {
	t.Helper()
	s, err := domain.NewSpeciesSet(names...)
	require.NoError(t, err)
	return s
}

func TestTVNReverseLeavesVolumeUnknown(t *testing.T) {
	x, err := TVN{}.Reverse(testTarget(t, 20, 1.5, 0.5), species(t, "CO2", "N2"))
	require.NoError(t, err)
	require.Len(t, x, 4)

	assert.Equal(t, 310.0, x[0])
	assert.True(t, domain.IsUnknown(x[1]))
	assert.Equal(t, 1.5, x[2])
	assert.Equal(t, 0.5, x[3])
}

func TestTPNReverseIsComplete(t *testing.T) {
	x, err := TPN{}.Reverse(testTarget(t, 20, 1.5), species(t, "CO2"))
	require.NoError(t, err)
	assert.Equal(t, []float64{310, 20e5, 1.5}, x)
}

func TestStateProvides(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{domain.KeyTemperature, domain.KeyVolume, domain.KeyAmount},
		TVN{}.Provides())
	assert.ElementsMatch(t,
		[]string{domain.KeyTemperature, domain.KeyPressure, domain.KeyAmount},
		TPN{}.Provides())
	assert.Equal(t, 2, TVN{}.Coordinates())
	assert.Equal(t, 2, TPN{}.Coordinates())
}
