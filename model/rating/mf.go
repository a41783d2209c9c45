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
	"time"

	"github.com/chewxy/math32"
	"github.com/gorse-io/movielens-bench/base"
	"github.com/gorse-io/movielens-bench/base/log"
	"github.com/gorse-io/movielens-bench/base/progress"
	"github.com/gorse-io/movielens-bench/common/floats"
	"github.com/gorse-io/movielens-bench/common/parallel"
	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/gorse-io/movielens-bench/model"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Triplet is a sparse rating sample in the format expected by the
// factorization solver. Identifier indices are dense; dataset.NotId marks an
// identifier unseen during training.
type Triplet struct {
	UserIndex  int32
	MovieIndex int32
	Rating     float32
}

// Triplets converts a rating table into a triplet stream, preserving row
// order. Identifiers are resolved against the given dictionaries (usually
// those of the training set), so rows of a test set referencing unseen
// identifiers yield dataset.NotId indices.
func Triplets(data *dataset.Dataset, userDict, movieDict *dataset.FreqDict) []Triplet {
	triplets := make([]Triplet, data.Count())
	for i := 0; i < data.Count(); i++ {
		row := data.Get(i)
		triplets[i] = Triplet{
			UserIndex:  userDict.Id(row.UserId),
			MovieIndex: movieDict.Id(row.MovieId),
			Rating:     row.Rating,
		}
	}
	return triplets
}

// FactorModel is a trained latent factor model. It is immutable.
type FactorModel interface {
	// PredictIndex predicts the rating of a (user, movie) pair of dense
	// indices.
	PredictIndex(userIndex, movieIndex int32) float32
}

// Factorizer is the narrow boundary to the factorization solver. The rest of
// the pipeline only depends on this interface and is agnostic to the
// underlying optimizer.
type Factorizer interface {
	// Train fits a latent factor model on a triplet stream. Training is
	// seeded via the RandomState hyper-parameter.
	Train(ctx context.Context, triplets []Triplet, nUsers, nMovies int, params model.Params, config *FitConfig) (FactorModel, error)
}

// MatrixFactorization adapts a rating table to a Factorizer and implements
// the Model interface. The model is trained once and is read-only
// afterwards.
type MatrixFactorization struct {
	model.BaseModel
	factorizer Factorizer
	trained    FactorModel
	userIndex  *dataset.FreqDict
	movieIndex *dataset.FreqDict
}

// NewMatrixFactorization creates a matrix factorization model backed by a
// Factorizer. A nil factorizer selects the built-in SGD solver.
func NewMatrixFactorization(factorizer Factorizer, params model.Params) *MatrixFactorization {
	if factorizer == nil {
		factorizer = &FunkSVD{}
	}
	mf := &MatrixFactorization{factorizer: factorizer}
	mf.SetParams(params)
	return mf
}

func (mf *MatrixFactorization) Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error {
	if mf.trained != nil {
		return errors.New("matrix factorization does not support retraining")
	}
	if trainSet.Count() == 0 {
		return errors.New("training set is empty")
	}
	config = config.LoadDefaultIfNil()
	mf.userIndex = trainSet.GetUserDict()
	mf.movieIndex = trainSet.GetMovieDict()
	triplets := Triplets(trainSet, mf.userIndex, mf.movieIndex)
	trained, err := mf.factorizer.Train(ctx, triplets, trainSet.CountUsers(), trainSet.CountMovies(), mf.Params, config)
	if err != nil {
		return errors.Trace(err)
	}
	mf.trained = trained
	return nil
}

func (mf *MatrixFactorization) Predict(userId, movieId int) float32 {
	userIndex := mf.userIndex.Id(userId)
	movieIndex := mf.movieIndex.Id(movieId)
	if userIndex == dataset.NotId || movieIndex == dataset.NotId {
		return math32.NaN()
	}
	return mf.trained.PredictIndex(userIndex, movieIndex)
}

// PredictTriplets returns one prediction per input triplet, in input order.
// Triplets referencing unseen identifiers predict NaN.
func (mf *MatrixFactorization) PredictTriplets(triplets []Triplet) []float32 {
	predictions := make([]float32, len(triplets))
	for i, t := range triplets {
		if t.UserIndex == dataset.NotId || t.MovieIndex == dataset.NotId {
			predictions[i] = math32.NaN()
		} else {
			predictions[i] = mf.trained.PredictIndex(t.UserIndex, t.MovieIndex)
		}
	}
	return predictions
}

func (mf *MatrixFactorization) Name() string { return "matrix_factorization" }

func (mf *MatrixFactorization) Describe() string { return "Matrix factorization" }

// FunkSVD is the built-in factorization solver, stochastic gradient descent
// on the regularized squared error of
//
//	\hat{r}_{ui} = μ + b_u + b_i + q_i^T p_u
//
// Users are decomposed into blocks updated in parallel; item parameters are
// updated lock-free. With a single job the procedure is fully deterministic
// for a given RandomState.
//
// Hyper-parameters:
//
//	Reg        - The regularization parameter of the cost function that is
//	             optimized. Default is 0.1.
//	Lr         - The learning rate of SGD. Default is 0.005.
//	NFactors   - The number of latent factors. Default is 10.
//	NEpochs    - The number of iterations of the SGD procedure. Default is 20.
//	NBlocks    - The number of blocks for parallel updates. Default is 20.
//	InitMean   - The mean of initial random latent factors. Default is 0.
//	InitStdDev - The standard deviation of initial random latent factors.
//	             Default is 0.1.
type FunkSVD struct{}

type funkModel struct {
	globalBias  float32     // mu
	userBias    []float32   // b_u
	movieBias   []float32   // b_i
	userFactor  [][]float32 // p_u
	movieFactor [][]float32 // q_i
}

func (m *funkModel) PredictIndex(userIndex, movieIndex int32) float32 {
	return m.globalBias + m.userBias[userIndex] + m.movieBias[movieIndex] +
		floats.Dot(m.userFactor[userIndex], m.movieFactor[movieIndex])
}

func (svd *FunkSVD) Train(ctx context.Context, triplets []Triplet, nUsers, nMovies int,
	params model.Params, config *FitConfig) (FactorModel, error) {
	// Setup hyper-parameters
	nFactors := params.GetInt(model.NFactors, 10)
	nEpochs := params.GetInt(model.NEpochs, 20)
	nBlocks := params.GetInt(model.NBlocks, 20)
	lr := params.GetFloat32(model.Lr, 0.005)
	reg := params.GetFloat32(model.Reg, 0.1)
	initMean := params.GetFloat32(model.InitMean, 0)
	initStdDev := params.GetFloat32(model.InitStdDev, 0.1)
	randomState := params.GetInt64(model.RandomState, 0)
	log.Logger().Info("train funk svd",
		zap.Int("train_set_size", len(triplets)),
		zap.Int("n_factors", nFactors),
		zap.Int("n_epochs", nEpochs),
		zap.Int("n_blocks", nBlocks),
		zap.Float32("lr", lr),
		zap.Float32("reg", reg))
	// Initialize parameters
	rng := base.NewRandomGenerator(randomState)
	m := &funkModel{
		userBias:    make([]float32, nUsers),
		movieBias:   make([]float32, nMovies),
		userFactor:  rng.NormalMatrix(nUsers, nFactors, initMean, initStdDev),
		movieFactor: rng.NormalMatrix(nMovies, nFactors, initMean, initStdDev),
	}
	m.globalBias = mean(triplets)
	// Decompose samples into blocks by user so that rows of the same user
	// never race across workers.
	blocks := make([][]int, nBlocks)
	for i, t := range triplets {
		blockId := int(t.UserIndex) % nBlocks
		blocks[blockId] = append(blocks[blockId], i)
	}
	// Create buffers
	buffers := make([][]float32, max(config.Jobs, 1))
	for i := range buffers {
		buffers[i] = make([]float32, nFactors)
	}
	// Stochastic gradient descent
	newCtx, span := progress.Start(ctx, "FunkSVD.Train", nEpochs)
	for epoch := 1; epoch <= nEpochs; epoch++ {
		fitStart := time.Now()
		cost := make([]float32, max(config.Jobs, 1))
		err := parallel.Parallel(newCtx, nBlocks, config.Jobs, func(workerId, blockId int) error {
			buffer := buffers[workerId]
			for _, i := range blocks[blockId] {
				t := triplets[i]
				userFactor := m.userFactor[t.UserIndex]
				movieFactor := m.movieFactor[t.MovieIndex]
				// Compute error: e_{ui} = r_{ui} - \hat{r}_{ui}
				diff := t.Rating - m.PredictIndex(t.UserIndex, t.MovieIndex)
				cost[workerId] += diff * diff
				// Update biases
				m.userBias[t.UserIndex] += lr * (diff - reg*m.userBias[t.UserIndex])
				m.movieBias[t.MovieIndex] += lr * (diff - reg*m.movieBias[t.MovieIndex])
				// Update latent factors:
				//   p_u <- p_u + lr * (e_{ui} * q_i - reg * p_u)
				//   q_i <- q_i + lr * (e_{ui} * p_u - reg * q_i)
				copy(buffer, userFactor)
				for d := 0; d < nFactors; d++ {
					userFactor[d] += lr * (diff*movieFactor[d] - reg*userFactor[d])
				}
				for d := 0; d < nFactors; d++ {
					movieFactor[d] += lr * (diff*buffer[d] - reg*movieFactor[d])
				}
			}
			return nil
		})
		if err != nil {
			span.Fail(err)
			return nil, errors.Trace(err)
		}
		span.Add(1)
		if config.Verbose > 0 && epoch%config.Verbose == 0 {
			log.Logger().Debug("train funk svd",
				zap.Int("epoch", epoch),
				zap.Int("n_epochs", nEpochs),
				zap.Float32("cost", floats.Sum(cost)/float32(len(triplets))),
				zap.String("fit_time", time.Since(fitStart).String()))
		}
	}
	span.End()
	return m, nil
}

func mean(triplets []Triplet) float32 {
	var sum float32
	for _, t := range triplets {
		sum += t.Rating
	}
	return sum / float32(len(triplets))
}
