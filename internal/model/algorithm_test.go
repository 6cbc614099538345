package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/stepviz/internal/model"
)

func TestAlgorithmInfoValidate(t *testing.T) {
	valid := model.AlgorithmInfo{
		ID:       "binary-search",
		Name:     "Binary Search",
		Category: model.CategoryClassical,
	}

	tests := map[string]struct {
		mutate func(i *model.AlgorithmInfo)
		expErr bool
	}{
		"A valid info should not fail": {
			mutate: func(i *model.AlgorithmInfo) {},
			expErr: false,
		},
		"Missing id should fail": {
			mutate: func(i *model.AlgorithmInfo) { i.ID = "" },
			expErr: true,
		},
		"Underscored id should fail": {
			mutate: func(i *model.AlgorithmInfo) { i.ID = "binary_search" },
			expErr: true,
		},
		"Missing name should fail": {
			mutate: func(i *model.AlgorithmInfo) { i.Name = "" },
			expErr: true,
		},
		"Unknown category should fail": {
			mutate: func(i *model.AlgorithmInfo) { i.Category = "blockchain" },
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			info := valid
			test.mutate(&info)

			err := info.Validate()

			if test.expErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrNotValid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAlgorithmCategoryValid(t *testing.T) {
	assert := assert.New(t)

	assert.True(model.CategoryClassical.Valid())
	assert.True(model.CategoryDeepLearning.Valid())
	assert.True(model.CategoryGenerativeAI.Valid())
	assert.True(model.CategoryQuantum.Valid())
	assert.False(model.AlgorithmCategory("").Valid())
	assert.False(model.AlgorithmCategory("misc").Valid())
}
