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
	"github.com/chewxy/math32"
	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/juju/errors"
)

// RMSE is the root mean square error between predictions and observations.
// Both sequences must be non-empty and of equal length. Pairs with a NaN
// prediction or observation carry no opinion and are excluded; the number of
// excluded pairs is returned. RMSE fails when every pair is excluded.
func RMSE(predicted, observed []float32) (float32, int, error) {
	if len(predicted) != len(observed) {
		return 0, 0, errors.Errorf("sequence lengths do not match: %d != %d", len(predicted), len(observed))
	}
	if len(predicted) == 0 {
		return 0, 0, errors.New("sequences are empty")
	}
	var sum float32
	excluded := 0
	for i := range predicted {
		if math32.IsNaN(predicted[i]) || math32.IsNaN(observed[i]) {
			excluded++
			continue
		}
		diff := predicted[i] - observed[i]
		sum += diff * diff
	}
	if excluded == len(predicted) {
		return 0, excluded, errors.New("all pairs are excluded")
	}
	return math32.Sqrt(sum / float32(len(predicted)-excluded)), excluded, nil
}

// Score maps an RMSE to points by a fixed step function.
func Score(rmse float32) int {
	switch {
	case rmse >= 0.9:
		return 5
	case rmse >= 0.8655:
		return 10
	case rmse > 0.865:
		return 15
	case rmse >= 0.8649:
		return 20
	default:
		return 25
	}
}

// Evaluate computes the RMSE of a fitted model against a test set. The
// number of rows excluded by the missing-prediction policy is returned
// alongside the score.
func Evaluate(m Model, testSet *dataset.Dataset) (rmse float32, excluded int, err error) {
	predicted := make([]float32, testSet.Count())
	for i := 0; i < testSet.Count(); i++ {
		row := testSet.Get(i)
		predicted[i] = m.Predict(row.UserId, row.MovieId)
	}
	return RMSE(predicted, testSet.Ratings())
}
