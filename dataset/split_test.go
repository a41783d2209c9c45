// Copyright 2025 gorse Project Authors
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

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingTable(n int) *Dataset {
	var ratings []Rating
	for i := 0; i < n; i++ {
		ratings = append(ratings, Rating{
			UserId:  i % 31,
			MovieId: i % 17,
			Rating:  float32(i%9)/2 + 0.5,
		})
	}
	return Join(ratings, nil)
}

func TestSplitDeterminism(t *testing.T) {
	data := newRatingTable(1000)
	trainA, heldOutA := Split(data, 0.2, 42)
	trainB, heldOutB := Split(data, 0.2, 42)
	assert.Equal(t, 200, heldOutA.Count())
	assert.Equal(t, 800, trainA.Count())
	for i := 0; i < heldOutA.Count(); i++ {
		assert.Equal(t, heldOutA.Get(i), heldOutB.Get(i))
	}
	for i := 0; i < trainA.Count(); i++ {
		assert.Equal(t, trainA.Get(i), trainB.Get(i))
	}
	// a different seed produces a different permutation
	_, heldOutC := Split(data, 0.2, 43)
	same := true
	for i := 0; i < heldOutA.Count(); i++ {
		if heldOutA.Get(i) != heldOutC.Get(i) {
			same = false
			break
		}
	}
	assert.False(t, same)
}

func TestSplitRoundsHeldOutSize(t *testing.T) {
	// 30 * 0.25 = 7.5 rounds up; truncation would keep only 7 rows
	data := newRatingTable(30)
	train, heldOut := Split(data, 0.25, 0)
	assert.Equal(t, 8, heldOut.Count())
	assert.Equal(t, 22, train.Count())
}

func TestReconcile(t *testing.T) {
	data := newRatingTable(1000)
	train, heldOut := Split(data, 0.1, 0)
	train, validation, err := Reconcile(train, heldOut)
	require.NoError(t, err)
	assert.Equal(t, data.Count(), train.Count()+validation.Count())
	// every validation identifier must exist in the training set
	for i := 0; i < validation.Count(); i++ {
		row := validation.Get(i)
		assert.NotEqual(t, NotId, train.GetUserDict().Id(row.UserId))
		assert.NotEqual(t, NotId, train.GetMovieDict().Id(row.MovieId))
	}
}

func TestReconcileMovesUnseenRows(t *testing.T) {
	movies := map[int]Movie{}
	train := Join([]Rating{
		{UserId: 1, MovieId: 10, Rating: 5},
		{UserId: 2, MovieId: 20, Rating: 3},
	}, movies)
	heldOut := Join([]Rating{
		{UserId: 1, MovieId: 10, Rating: 4}, // kept
		{UserId: 3, MovieId: 10, Rating: 2}, // unseen user
		{UserId: 1, MovieId: 30, Rating: 1}, // unseen movie
	}, movies)
	train, validation, err := Reconcile(train, heldOut)
	require.NoError(t, err)
	assert.Equal(t, 4, train.Count())
	assert.Equal(t, 1, validation.Count())
	assert.Equal(t, Rating{UserId: 1, MovieId: 10, Rating: 4}, validation.Get(0))
}

func TestReconcileEmptyValidation(t *testing.T) {
	train := Join([]Rating{{UserId: 1, MovieId: 10, Rating: 5}}, nil)
	heldOut := Join([]Rating{{UserId: 2, MovieId: 20, Rating: 3}}, nil)
	_, _, err := Reconcile(train, heldOut)
	assert.Error(t, err)
}
