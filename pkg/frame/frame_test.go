package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstlabs/gibbs/pkg/contrib"
	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/frame"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

// stub is a minimal contribution for assembly tests.
type stub struct {
	provides []string
	requires []domain.Requirement
	define   func(res *domain.Result, reg *domain.Registrar) error
}

func (s stub) Provides() []string             { return s.provides }
func (s stub) Requires() []domain.Requirement { return s.requires }
func (s stub) Define(res *domain.Result, reg *domain.Registrar) error {
	if s.define == nil {
		return nil
	}
	return s.define(res, reg)
}

type stubRelaxer struct {
	stub
	limit float64
}

func (s stubRelaxer) Relax(domain.Properties, []float64) (float64, error) {
	return s.limit, nil
}

func singleSpecies(t *testing.T) domain.SpeciesSet {
	t.Helper()
	s, err := domain.NewSpeciesSet("CO2")
	require.NoError(t, err)
	return s
}

// pressureStub provides p = n c T / V with one declared scalar parameter.
var pressureStub = stub{
	provides: []string{domain.KeyPressure},
	requires: []domain.Requirement{
		{Key: domain.KeyTemperature},
		{Key: domain.KeyVolume},
		{Key: domain.KeyAmount},
	},
	define: func(res *domain.Result, reg *domain.Registrar) error {
		t, err := res.Get(domain.KeyTemperature)
		if err != nil {
			return err
		}
		v, err := res.Get(domain.KeyVolume)
		if err != nil {
			return err
		}
		n, err := res.Get(domain.KeyAmount)
		if err != nil {
			return err
		}
		c := reg.Scalar("c", quantity.MustParse("J/mol/K"))
		return res.Set(domain.KeyPressure, n.Sum().Mul(c).Mul(t).Div(v))
	},
}

func TestNewRejectsUnmetDependency(t *testing.T) {
	needy := stub{requires: []domain.Requirement{{Key: domain.KeyAttraction}}}

	_, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "needy", Contribution: needy},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnmetDependency)
}

func TestNewDoesNotReorder(t *testing.T) {
	provider := stub{provides: []string{domain.KeyAttraction}}
	needy := stub{requires: []domain.Requirement{{Key: domain.KeyAttraction}}}

	// Provider listed after the consumer: assembly must fail, not reorder.
	_, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "needy", Contribution: needy},
		{Name: "provider", Contribution: provider},
	})
	assert.ErrorIs(t, err, domain.ErrUnmetDependency)

	// The other way round it assembles.
	_, err = frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "provider", Contribution: provider},
		{Name: "needy", Contribution: needy},
	})
	assert.NoError(t, err)
}

func TestNewChecksNamedProvider(t *testing.T) {
	fromState := stub{requires: []domain.Requirement{{Key: domain.KeyTemperature, Provider: "TVn"}}}
	fromGhost := stub{requires: []domain.Requirement{{Key: domain.KeyTemperature, Provider: "ghost"}}}

	_, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "a", Contribution: fromState},
	})
	assert.NoError(t, err)

	_, err = frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "a", Contribution: fromGhost},
	})
	assert.ErrorIs(t, err, domain.ErrUnmetDependency)
}

func TestNewRejectsDuplicateInstanceNames(t *testing.T) {
	_, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "a", Contribution: stub{}},
		{Name: "a", Contribution: stub{}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestEval(t *testing.T) {
	frm, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "ideal", Contribution: pressureStub},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, frm.StateLen())
	assert.Equal(t, map[string]string{"ideal.c": "J/mol/K"}, frm.ParameterStructure())

	props, err := frm.Eval([]float64{300, 0.01, 2}, map[string]float64{"ideal.c": 10}, false)
	require.NoError(t, err)

	p, err := props[domain.KeyPressure].SI()
	require.NoError(t, err)
	assert.InDelta(t, 2*10*300/0.01, p, 1e-9)
	assert.True(t, props[domain.KeyPressure].Unit().Compatible(quantity.MustParse("Pa")))

	// A missing parameter is reported by path.
	_, err = frm.Eval([]float64{300, 0.01, 2}, nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ideal.c")
}

func TestEvalFlowUnits(t *testing.T) {
	frm, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "ideal", Contribution: pressureStub},
	})
	require.NoError(t, err)

	params := map[string]float64{"ideal.c": 10}

	static, err := frm.Eval([]float64{300, 0.01, 2}, params, false)
	require.NoError(t, err)
	flow, err := frm.Eval([]float64{300, 0.01, 2}, params, true)
	require.NoError(t, err)

	assert.True(t, static[domain.KeyAmount].Unit().Compatible(quantity.MustParse("mol")))
	assert.True(t, flow[domain.KeyAmount].Unit().Compatible(quantity.MustParse("mol/s")))
	// Intensive slots keep their units in both forms.
	assert.True(t, flow[domain.KeyTemperature].Unit().Compatible(quantity.MustParse("K")))
}

func TestRelaxTakesTheMinimum(t *testing.T) {
	frm, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "loose", Contribution: stubRelaxer{limit: 5}},
		{Name: "tight", Contribution: stubRelaxer{limit: 2}},
		{Name: "plain", Contribution: stub{}},
	})
	require.NoError(t, err)

	limit, err := frm.Relax(nil, []float64{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, limit)
}

func testTarget(t *testing.T) domain.InitialState {
	t.Helper()
	target, err := domain.NewInitialState(
		quantity.Scalar(300, quantity.MustParse("K")),
		quantity.Scalar(2, quantity.MustParse("bar")),
		quantity.Vector([]float64{1.5}, quantity.MustParse("mol")),
	)
	require.NoError(t, err)
	return target
}

func TestRefineInitialStateDirectCoordinates(t *testing.T) {
	frm, err := frame.New(singleSpecies(t), contrib.TPN{}, nil)
	require.NoError(t, err)

	// (T, p, n) coordinates reverse completely; the solver must not run.
	res, err := frm.RefineInitialState(testTarget(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, []float64{300, 2e5, 1.5}, res.State)
}

func TestInitialStateDefaultFallback(t *testing.T) {
	frm, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "ideal", Contribution: pressureStub},
	}, frame.WithDefaultState([]float64{0, 0.05, 0}))
	require.NoError(t, err)

	// No initializer is registered: the unknown volume slot comes from the
	// default, the derivable slots from the target.
	x, err := frm.InitialState(testTarget(t), map[string]float64{"ideal.c": 10})
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 0.05, 1.5}, x)
}

func TestInitialStateWithoutInitializer(t *testing.T) {
	frm, err := frame.New(singleSpecies(t), contrib.TVN{}, []frame.Named{
		{Name: "ideal", Contribution: pressureStub},
	})
	require.NoError(t, err)

	_, err = frm.InitialState(testTarget(t), map[string]float64{"ideal.c": 10})
	assert.ErrorIs(t, err, domain.ErrNoInitializer)
}
