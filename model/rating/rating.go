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

// Package rating implements a ladder of rating predictors for MovieLens
// style data: a global mean baseline, additive movie and user biases, and
// matrix factorization. A model with no opinion on a (user, movie) pair
// predicts NaN; the evaluator excludes NaN predictions from scoring and
// reports how many were excluded.
package rating

import (
	"context"

	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/gorse-io/movielens-bench/model"
)

type FitConfig struct {
	Jobs    int
	Verbose int
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 10,
	}
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) LoadDefaultIfNil() *FitConfig {
	if config == nil {
		return NewFitConfig()
	}
	return config
}

// Model is a rating predictor. A model is fitted once against a training set
// and is read-only afterwards.
type Model interface {
	model.Model
	// Fit the model with a training set.
	Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error
	// Predict the rating given by a user to a movie. Predict returns NaN
	// when the user or the movie was unseen during training.
	Predict(userId, movieId int) float32
	// Name returns the short name of the model.
	Name() string
	// Describe returns a human readable description of the model.
	Describe() string
}
