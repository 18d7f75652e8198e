package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlabs/gibbs/pkg/contrib"
	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/registry"
)

func builtinFactory(t *testing.T) *registry.Factory {
	t.Helper()
	f := registry.NewFactory()
	require.NoError(t, contrib.Register(f))
	return f
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := builtinFactory(t)

	err := f.RegisterContribution(contrib.ClassIdealGas, contrib.NewIdealGas)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	err = f.RegisterState(contrib.TVN{})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	assert.ElementsMatch(t, []string{
		contrib.ClassGeometricMixing,
		contrib.ClassIdealGas,
		contrib.ClassVanDerWaals,
	}, f.Contributions())
}

func TestCreateFrame(t *testing.T) {
	f := builtinFactory(t)

	frm, err := f.CreateFrame(registry.Config{
		Species: []string{"CO2", "N2"},
		State:   "TVn",
		Contributions: []registry.ContributionConfig{
			{Class: contrib.ClassGeometricMixing, Name: "mix"},
			{Class: contrib.ClassIdealGas},
			{Class: contrib.ClassVanDerWaals, Name: "eos"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "TVn", frm.StateName())
	assert.Equal(t, 4, frm.StateLen())

	structure := frm.ParameterStructure()
	assert.Contains(t, structure, "mix.a.CO2")
	assert.Contains(t, structure, "ideal-gas.s0.N2")
	assert.Contains(t, structure, "eos.b.CO2")
}

func TestCreateFrameFailures(t *testing.T) {
	f := builtinFactory(t)

	valid := []registry.ContributionConfig{
		{Class: contrib.ClassGeometricMixing},
		{Class: contrib.ClassIdealGas},
	}

	_, err := f.CreateFrame(registry.Config{State: "TVn", Contributions: valid})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = f.CreateFrame(registry.Config{Species: []string{"CO2"}, State: "TXn", Contributions: valid})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	_, err = f.CreateFrame(registry.Config{Species: []string{"CO2"}, State: "TVn"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = f.CreateFrame(registry.Config{
		Species:       []string{"CO2"},
		State:         "TVn",
		Contributions: []registry.ContributionConfig{{Class: "unobtainium"}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	// Order matters: the equation of state cannot precede its mixing rule.
	_, err = f.CreateFrame(registry.Config{
		Species: []string{"CO2"},
		State:   "TVn",
		Contributions: []registry.ContributionConfig{
			{Class: contrib.ClassIdealGas},
			{Class: contrib.ClassVanDerWaals},
			{Class: contrib.ClassGeometricMixing},
		},
	})
	assert.ErrorIs(t, err, domain.ErrUnmetDependency)
}
