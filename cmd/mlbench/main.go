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
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/gorse-io/movielens-bench/base/log"
	"github.com/gorse-io/movielens-bench/cmd/version"
	"github.com/gorse-io/movielens-bench/config"
	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/gorse-io/movielens-bench/model"
	"github.com/gorse-io/movielens-bench/model/rating"
	"github.com/gorse-io/movielens-bench/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var benchCommand = &cobra.Command{
	Use:   "mlbench",
	Short: "MovieLens rating prediction benchmark.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		defer log.CloseLogger()

		// Load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		jobs, _ := cmd.PersistentFlags().GetInt("jobs")
		if err = runBenchmark(cmd.Context(), conf, jobs); err != nil {
			log.Logger().Fatal("benchmark failed", zap.Error(err))
		}
	},
}

func init() {
	log.AddFlags(benchCommand.PersistentFlags())
	benchCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	benchCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	benchCommand.PersistentFlags().BoolP("version", "v", false, "mlbench version")
	benchCommand.PersistentFlags().IntP("jobs", "j", runtime.NumCPU(), "number of fit jobs")
}

func runBenchmark(ctx context.Context, conf *config.Config, jobs int) error {
	// Load dataset
	data, err := dataset.LoadDataFromBuiltIn(conf.Data.Name)
	if err != nil {
		return err
	}

	// Carve the final holdout, then the internal test set. Rows of a held
	// out set whose user or movie is unseen in training move back into
	// training.
	working, holdout := dataset.Split(data, float64(conf.Split.HoldoutFraction), conf.Split.HoldoutSeed)
	working, holdout, err = dataset.Reconcile(working, holdout)
	if err != nil {
		return err
	}
	trainSet, testSet := dataset.Split(working, float64(conf.Split.TestFraction), conf.Split.TestSeed)
	trainSet, testSet, err = dataset.Reconcile(trainSet, testSet)
	if err != nil {
		return err
	}
	log.Logger().Info("partitioned dataset",
		zap.Int("n_train", trainSet.Count()),
		zap.Int("n_test", testSet.Count()),
		zap.Int("n_holdout", holdout.Count()))
	// The full table is no longer needed once the splits exist.
	data, working = nil, nil

	// Exploratory summaries on a sample of the training set. These tables
	// never feed the models.
	if err = writeSummaries(trainSet, &conf.Summary); err != nil {
		return err
	}

	// Fit the ladder of models and evaluate each against the test set.
	models := []rating.Model{
		rating.NewGlobalMean(nil),
		rating.NewMovieBias(nil),
		rating.NewMovieUserBias(nil),
		rating.NewMatrixFactorization(nil, model.Params{
			model.NFactors:    conf.MF.NFactors,
			model.NEpochs:     conf.MF.NEpochs,
			model.NBlocks:     conf.MF.NBlocks,
			model.Lr:          conf.MF.Lr,
			model.Reg:         conf.MF.Reg,
			model.InitStdDev:  conf.MF.InitStdDev,
			model.RandomState: conf.MF.RandomState,
		}),
	}
	fitConfig := rating.NewFitConfig().SetJobs(jobs)
	report := new(rating.Report)
	var best rating.Model
	var bestRMSE float32
	for _, m := range models {
		if err = m.Fit(ctx, trainSet, fitConfig); err != nil {
			return err
		}
		rmse, excluded, err := rating.Evaluate(m, testSet)
		if err != nil {
			return err
		}
		log.Logger().Info("evaluated model",
			zap.String("model", m.Name()),
			zap.Float32("rmse", rmse),
			zap.Int("n_excluded", excluded))
		report.Append(m.Describe(), m.Name(), rmse)
		if best == nil || rmse < bestRMSE {
			best, bestRMSE = m, rmse
		}
	}

	// Re-evaluate the best model against the untouched holdout.
	rmse, excluded, err := rating.Evaluate(best, holdout)
	if err != nil {
		return err
	}
	log.Logger().Info("evaluated best model on holdout",
		zap.String("model", best.Name()),
		zap.Float32("rmse", rmse),
		zap.Int("n_excluded", excluded))
	report.Append(best.Describe()+" (holdout)", best.Name(), rmse)
	return report.Write(os.Stdout)
}

func writeSummaries(trainSet *dataset.Dataset, conf *config.SummaryConfig) error {
	sample := trainSet.SampleN(conf.SampleSize, conf.Seed)
	if err := stats.WriteMovies(os.Stdout, stats.SummarizeMovies(sample), conf.TopN); err != nil {
		return err
	}
	if err := stats.WriteUsers(os.Stdout, stats.SummarizeUsers(sample), conf.TopN); err != nil {
		return err
	}
	if err := stats.WriteGenres(os.Stdout, stats.SummarizeGenres(sample)); err != nil {
		return err
	}
	return stats.WriteGenreCombos(os.Stdout, stats.SummarizeGenreCombos(sample), conf.TopN)
}

func main() {
	if err := benchCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
