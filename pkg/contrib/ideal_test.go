package contrib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/frame"
)

func TestIdealGas(t *testing.T) {
	s := species(t, "A")
	ig, err := NewIdealGas(s, nil)
	require.NoError(t, err)
	frm := assembleTVN(t, s, []frame.Named{{Name: "ig", Contribution: ig}})

	// Volume chosen so that p = nRT/V is exactly the 1 bar reference: the
	// log terms vanish and the entropy reduces to n * s0.
	const temp, n, s0 = 300.0, 1.0, 200.0
	vol := n * GasConstant * temp / 1e5
	params := map[string]float64{"ig.s0.A": s0}

	props, err := frm.Eval([]float64{temp, vol, n}, params, false)
	require.NoError(t, err)

	p, err := props[domain.KeyPressure].SI()
	require.NoError(t, err)
	assert.InDelta(t, 1e5, p, 1e-6)

	mu, err := props[domain.KeyChemicalPotential].SIs()
	require.NoError(t, err)
	assert.InDelta(t, 0, mu[0], 1e-8)

	entropy, err := props[domain.KeyEntropy].SI()
	require.NoError(t, err)
	assert.InDelta(t, n*s0, entropy, 1e-8)
}

func TestIdealGasOffReference(t *testing.T) {
	s := species(t, "A")
	ig, err := NewIdealGas(s, map[string]any{
		"reference_pressure":      1,
		"reference_pressure_unit": "atm",
	})
	require.NoError(t, err)
	frm := assembleTVN(t, s, []frame.Named{{Name: "ig", Contribution: ig}})

	const temp, n, vol, s0 = 350.0, 2.0, 0.01, 150.0
	props, err := frm.Eval([]float64{temp, vol, n}, map[string]float64{"ig.s0.A": s0}, false)
	require.NoError(t, err)

	rt := GasConstant * temp
	ratio := n * rt / vol / 101325

	mu, err := props[domain.KeyChemicalPotential].SIs()
	require.NoError(t, err)
	assert.InDelta(t, rt*math.Log(ratio), mu[0], 1e-8)

	entropy, err := props[domain.KeyEntropy].SI()
	require.NoError(t, err)
	assert.InDelta(t, n*s0-GasConstant*n*math.Log(ratio), entropy, 1e-8)
}

func TestIdealGasOptionValidation(t *testing.T) {
	s := species(t, "A")

	_, err := NewIdealGas(s, map[string]any{"reference_pressure_unit": "K"})
	assert.Error(t, err)

	_, err = NewIdealGas(s, map[string]any{"reference_pressure": -1})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
