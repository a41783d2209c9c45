// Copyright 2021 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rating

import (
	"context"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/gorse-io/movielens-bench/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriplets(t *testing.T) {
	trainSet := threeRatings()
	triplets := Triplets(trainSet, trainSet.GetUserDict(), trainSet.GetMovieDict())
	assert.Equal(t, []Triplet{
		{UserIndex: 0, MovieIndex: 0, Rating: 5},
		{UserIndex: 0, MovieIndex: 1, Rating: 3},
		{UserIndex: 1, MovieIndex: 0, Rating: 4},
	}, triplets)
	// identifiers unseen in the reference set map to NotId
	testSet := dataset.Join([]dataset.Rating{
		{UserId: 2, MovieId: 2, Rating: 4},
		{UserId: 9, MovieId: 9, Rating: 1},
	}, nil)
	triplets = Triplets(testSet, trainSet.GetUserDict(), trainSet.GetMovieDict())
	assert.Equal(t, []Triplet{
		{UserIndex: 1, MovieIndex: 1, Rating: 4},
		{UserIndex: dataset.NotId, MovieIndex: dataset.NotId, Rating: 1},
	}, triplets)
}

func TestMatrixFactorization(t *testing.T) {
	trainSet := biasedRatings()
	m := NewMatrixFactorization(nil, model.Params{model.RandomState: int64(42)})
	require.NoError(t, m.Fit(context.Background(), trainSet, NewFitConfig()))
	// the trained model must beat the naive baseline on the training set
	naive := NewGlobalMean(nil)
	require.NoError(t, naive.Fit(context.Background(), trainSet, nil))
	naiveRMSE, _, err := Evaluate(naive, trainSet)
	require.NoError(t, err)
	trainedRMSE, excluded, err := Evaluate(m, trainSet)
	require.NoError(t, err)
	assert.Zero(t, excluded)
	assert.Less(t, trainedRMSE, naiveRMSE)
	// unseen identifiers have no opinion
	assert.True(t, math32.IsNaN(m.Predict(999, 0)))
	assert.True(t, math32.IsNaN(m.Predict(0, 999)))
	// no retraining
	assert.Error(t, m.Fit(context.Background(), trainSet, NewFitConfig()))
}

func TestMatrixFactorizationTrainedEntitiesPredictable(t *testing.T) {
	// every identifier indexed during training yields a prediction; only
	// unseen identifiers have no opinion
	for _, trainSet := range []*dataset.Dataset{threeRatings(), biasedRatings()} {
		m := NewMatrixFactorization(nil, model.Params{model.NEpochs: 1})
		require.NoError(t, m.Fit(context.Background(), trainSet, NewFitConfig()))
		for i := 0; i < trainSet.Count(); i++ {
			row := trainSet.Get(i)
			assert.False(t, math32.IsNaN(m.Predict(row.UserId, row.MovieId)))
		}
		assert.True(t, math32.IsNaN(m.Predict(1000000, 0)))
	}
}

func TestMatrixFactorizationDeterminism(t *testing.T) {
	trainSet := biasedRatings()
	params := model.Params{model.RandomState: int64(7), model.NEpochs: 5}
	a := NewMatrixFactorization(nil, params)
	b := NewMatrixFactorization(nil, params)
	require.NoError(t, a.Fit(context.Background(), trainSet, NewFitConfig()))
	require.NoError(t, b.Fit(context.Background(), trainSet, NewFitConfig()))
	for u := 0; u < 30; u++ {
		for m := 0; m < 20; m++ {
			assert.Equal(t, a.Predict(u, m), b.Predict(u, m))
		}
	}
}

func TestPredictTriplets(t *testing.T) {
	trainSet := threeRatings()
	m := NewMatrixFactorization(nil, model.Params{model.NEpochs: 1})
	require.NoError(t, m.Fit(context.Background(), trainSet, NewFitConfig()))
	triplets := []Triplet{
		{UserIndex: 0, MovieIndex: 0},
		{UserIndex: dataset.NotId, MovieIndex: 0},
		{UserIndex: 1, MovieIndex: 1},
	}
	predictions := m.PredictTriplets(triplets)
	assert.Len(t, predictions, 3)
	assert.Equal(t, m.Predict(1, 1), predictions[0])
	assert.True(t, math32.IsNaN(predictions[1]))
	assert.False(t, math32.IsNaN(predictions[2]))
}

func TestMatrixFactorizationEmptyTrainSet(t *testing.T) {
	m := NewMatrixFactorization(nil, nil)
	assert.Error(t, m.Fit(context.Background(), dataset.Join(nil, nil), NewFitConfig()))
}
