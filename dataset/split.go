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
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/gorse-io/movielens-bench/base"
	"github.com/gorse-io/movielens-bench/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Split partitions a dataset into a training part and a held-out part of
// size round(fraction*|data|). The split is deterministic for a given seed.
func Split(data *Dataset, fraction float64, seed int64) (train, heldOut *Dataset) {
	rng := base.NewRandomGenerator(seed)
	perm := rng.Perm(data.Count())
	heldOutSize := int(math.Round(float64(data.Count()) * fraction))
	heldOut = data.SubSet(perm[:heldOutSize])
	train = data.SubSet(perm[heldOutSize:])
	return
}

// Reconcile moves every held-out row whose user or movie is absent from the
// training set back into the training set, so that the remaining held-out
// rows only reference identifiers the models have seen. The training set is
// extended in place. Reconcile fails if no held-out rows remain.
func Reconcile(train, heldOut *Dataset) (*Dataset, *Dataset, error) {
	// Membership is decided against the training set as it was before any
	// row is moved, then all moves are applied at once.
	unseen := bitset.New(uint(heldOut.Count()))
	for i := 0; i < heldOut.Count(); i++ {
		row := heldOut.Get(i)
		if train.GetUserDict().Id(row.UserId) == NotId ||
			train.GetMovieDict().Id(row.MovieId) == NotId {
			unseen.Set(uint(i))
		}
	}
	validation := NewDataset(heldOut.movies, heldOut.Count())
	moved := 0
	for i := 0; i < heldOut.Count(); i++ {
		if unseen.Test(uint(i)) {
			train.AddRating(heldOut.Get(i))
			moved++
		} else {
			validation.AddRating(heldOut.Get(i))
		}
	}
	if validation.Count() == 0 {
		return nil, nil, errors.New("reconciliation left an empty held-out set")
	}
	if moved > 0 {
		log.Logger().Info("reconcile split",
			zap.Int("n_moved", moved),
			zap.Int("n_train", train.Count()),
			zap.Int("n_held_out", validation.Count()))
	}
	return train, validation, nil
}
