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

	"github.com/chewxy/math32"
	"github.com/gorse-io/movielens-bench/base/log"
	"github.com/gorse-io/movielens-bench/common/floats"
	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/gorse-io/movielens-bench/model"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// GlobalMean is the naive baseline. The prediction for any (user, movie)
// pair is the training mean:
//
//	\hat{r}_{ui} = μ
type GlobalMean struct {
	model.BaseModel
	GlobalBias float32 // mu
}

func NewGlobalMean(params model.Params) *GlobalMean {
	m := new(GlobalMean)
	m.SetParams(params)
	return m
}

func (gm *GlobalMean) Fit(_ context.Context, trainSet *dataset.Dataset, _ *FitConfig) error {
	if trainSet.Count() == 0 {
		return errors.New("training set is empty")
	}
	gm.GlobalBias = floats.Mean(trainSet.Ratings())
	log.Logger().Info("fit global mean",
		zap.Int("train_set_size", trainSet.Count()),
		zap.Float32("mu", gm.GlobalBias))
	return nil
}

func (gm *GlobalMean) Predict(_, _ int) float32 {
	return gm.GlobalBias
}

func (gm *GlobalMean) Name() string { return "global_mean" }

func (gm *GlobalMean) Describe() string { return "Just the average" }

// MovieBias adds an additive per-movie deviation to the global mean:
//
//	\hat{r}_{ui} = μ + b_i
//
// where b_i is the mean residual of movie i in the training set. The
// prediction for a movie unseen during training is NaN.
type MovieBias struct {
	model.BaseModel
	GlobalBias float32   // mu
	MovieBias  []float32 // b_i
	movieIndex *dataset.FreqDict
}

func NewMovieBias(params model.Params) *MovieBias {
	m := new(MovieBias)
	m.SetParams(params)
	return m
}

func (mb *MovieBias) Fit(_ context.Context, trainSet *dataset.Dataset, _ *FitConfig) error {
	if trainSet.Count() == 0 {
		return errors.New("training set is empty")
	}
	mb.GlobalBias = floats.Mean(trainSet.Ratings())
	mb.movieIndex = trainSet.GetMovieDict()
	mb.MovieBias = movieResiduals(trainSet, mb.GlobalBias)
	log.Logger().Info("fit movie bias",
		zap.Int("train_set_size", trainSet.Count()),
		zap.Int("n_movies", trainSet.CountMovies()))
	return nil
}

func (mb *MovieBias) Predict(_, movieId int) float32 {
	movieIndex := mb.movieIndex.Id(movieId)
	if movieIndex == dataset.NotId {
		return math32.NaN()
	}
	return mb.GlobalBias + mb.MovieBias[movieIndex]
}

func (mb *MovieBias) Name() string { return "movie_bias" }

func (mb *MovieBias) Describe() string { return "Movie effect model" }

// MovieUserBias adds an additive per-user deviation on top of the movie
// effect:
//
//	\hat{r}_{ui} = μ + b_i + b_u
//
// where b_u is the mean residual of user u after the movie effect is
// removed. The prediction is NaN when either the user or the movie was
// unseen during training.
type MovieUserBias struct {
	model.BaseModel
	GlobalBias float32   // mu
	MovieBias  []float32 // b_i
	UserBias   []float32 // b_u
	movieIndex *dataset.FreqDict
	userIndex  *dataset.FreqDict
}

func NewMovieUserBias(params model.Params) *MovieUserBias {
	m := new(MovieUserBias)
	m.SetParams(params)
	return m
}

func (mub *MovieUserBias) Fit(_ context.Context, trainSet *dataset.Dataset, _ *FitConfig) error {
	if trainSet.Count() == 0 {
		return errors.New("training set is empty")
	}
	mub.GlobalBias = floats.Mean(trainSet.Ratings())
	mub.movieIndex = trainSet.GetMovieDict()
	mub.userIndex = trainSet.GetUserDict()
	mub.MovieBias = movieResiduals(trainSet, mub.GlobalBias)
	// b_u = mean(r - mu - b_i) over the training rows of each user
	mub.UserBias = make([]float32, trainSet.CountUsers())
	for i := 0; i < trainSet.Count(); i++ {
		row := trainSet.Get(i)
		userIndex := mub.userIndex.Id(row.UserId)
		movieIndex := mub.movieIndex.Id(row.MovieId)
		mub.UserBias[userIndex] += row.Rating - mub.GlobalBias - mub.MovieBias[movieIndex]
	}
	for userIndex := range mub.UserBias {
		mub.UserBias[userIndex] /= float32(mub.userIndex.Freq(int32(userIndex)))
	}
	log.Logger().Info("fit movie and user bias",
		zap.Int("train_set_size", trainSet.Count()),
		zap.Int("n_movies", trainSet.CountMovies()),
		zap.Int("n_users", trainSet.CountUsers()))
	return nil
}

func (mub *MovieUserBias) Predict(userId, movieId int) float32 {
	userIndex := mub.userIndex.Id(userId)
	movieIndex := mub.movieIndex.Id(movieId)
	if userIndex == dataset.NotId || movieIndex == dataset.NotId {
		return math32.NaN()
	}
	return mub.GlobalBias + mub.MovieBias[movieIndex] + mub.UserBias[userIndex]
}

func (mub *MovieUserBias) Name() string { return "movie_user_bias" }

func (mub *MovieUserBias) Describe() string { return "Movie and user effects model" }

// movieResiduals computes the mean residual b_i = mean(r - mu) of every
// movie in the training set.
func movieResiduals(trainSet *dataset.Dataset, globalBias float32) []float32 {
	movieDict := trainSet.GetMovieDict()
	bias := make([]float32, trainSet.CountMovies())
	for i := 0; i < trainSet.Count(); i++ {
		row := trainSet.Get(i)
		bias[movieDict.Id(row.MovieId)] += row.Rating - globalBias
	}
	for movieIndex := range bias {
		bias[movieIndex] /= float32(movieDict.Freq(int32(movieIndex)))
	}
	return bias
}
