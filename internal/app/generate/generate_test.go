package generate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/stepviz/internal/algorithms"
	"github.com/slok/stepviz/internal/app/generate"
	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/model"
)

func newService(t *testing.T) *generate.Service {
	t.Helper()

	c, err := catalog.New(catalog.Config{})
	require.NoError(t, err)
	eng, err := engine.NewEngine(engine.Config{})
	require.NoError(t, err)

	svc, err := generate.NewService(generate.ServiceConfig{
		Registry: algorithms.NewRegistry(),
		Catalog:  c,
		Engine:   eng,
	})
	require.NoError(t, err)

	return svc
}

func TestNewService(t *testing.T) {
	c, err := catalog.New(catalog.Config{})
	require.NoError(t, err)
	eng, err := engine.NewEngine(engine.Config{})
	require.NoError(t, err)

	tests := map[string]struct {
		config generate.ServiceConfig
		expErr bool
	}{
		"A valid configuration should create the service": {
			config: generate.ServiceConfig{Registry: algorithms.NewRegistry(), Catalog: c, Engine: eng},
		},
		"A missing registry should fail": {
			config: generate.ServiceConfig{Catalog: c, Engine: eng},
			expErr: true,
		},
		"A missing catalog should fail": {
			config: generate.ServiceConfig{Registry: algorithms.NewRegistry(), Engine: eng},
			expErr: true,
		},
		"A missing engine should fail": {
			config: generate.ServiceConfig{Registry: algorithms.NewRegistry(), Catalog: c},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := generate.NewService(test.config)
			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		request generate.Request
		expErr  bool
		check   func(t *testing.T, seq *model.StepSequence)
	}{
		"Explicit inputs should drive the run": {
			request: generate.Request{
				AlgorithmID: "binary-search",
				Inputs:      model.Inputs{"array": []int{1, 2, 3}, "target": 2},
			},
			check: func(t *testing.T, seq *model.StepSequence) {
				assert.Equal(t, "binary-search", seq.AlgorithmID)
				assert.Equal(t, "found", seq.Steps[len(seq.Steps)-1].ID)
			},
		},
		"Nil inputs should fall back to the catalog defaults": {
			request: generate.Request{AlgorithmID: "bubble-sort"},
			check: func(t *testing.T, seq *model.StepSequence) {
				assert.Equal(t, "bubble-sort", seq.AlgorithmID)
				assert.NotEmpty(t, seq.Inputs)
			},
		},
		"An unknown algorithm should fail with not found": {
			request: generate.Request{AlgorithmID: "quick-sort"},
			expErr:  true,
			check:   func(t *testing.T, _ *model.StepSequence) {},
		},
		"A too small step ceiling should fail with a generation error": {
			request: generate.Request{AlgorithmID: "bubble-sort", MaxSteps: 2},
			expErr:  true,
			check:   func(t *testing.T, _ *model.StepSequence) {},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newService(t)

			seq, err := svc.Run(context.Background(), test.request)
			if test.expErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			test.check(t, seq)
		})
	}
}

func TestServiceRunErrorKinds(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	svc := newService(t)

	_, err := svc.Run(context.Background(), generate.Request{AlgorithmID: "quick-sort"})
	require.Error(err)
	assert.True(errors.Is(err, model.ErrNotFound))

	_, err = svc.Run(context.Background(), generate.Request{AlgorithmID: "bubble-sort", MaxSteps: 2})
	require.Error(err)
	var gerr *model.GenerationError
	assert.True(errors.As(err, &gerr))
}
