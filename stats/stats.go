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

// Package stats computes exploratory summaries of a rating sample. The
// summaries are for reporting only and never feed the predictive models.
package stats

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/movielens-bench/dataset"
	"github.com/samber/lo"
)

// MovieSummary is the aggregate of one movie in the sample.
type MovieSummary struct {
	MovieId int
	Title   string
	Count   int
	Mean    float32
}

// UserSummary is the aggregate of one user in the sample.
type UserSummary struct {
	UserId int
	Count  int
	Mean   float32
}

// GenreSummary is the aggregate of one genre tag in the sample, after
// exploding the pipe-delimited genre string one row per tag.
type GenreSummary struct {
	Genre string
	Count int
	Mean  float32
}

// ComboSummary is the aggregate of one genre combination string; its mean is
// the average of the per-tag means of the tags it contains.
type ComboSummary struct {
	Genres string
	Mean   float32
}

type accumulator struct {
	count int
	sum   float32
}

func (a *accumulator) add(v float32) {
	a.count++
	a.sum += v
}

func (a *accumulator) mean() float32 {
	return a.sum / float32(a.count)
}

// SummarizeMovies aggregates ratings per movie, most rated first.
func SummarizeMovies(sample *dataset.Dataset) []MovieSummary {
	acc := make(map[int]*accumulator)
	for i := 0; i < sample.Count(); i++ {
		row := sample.Get(i)
		if _, ok := acc[row.MovieId]; !ok {
			acc[row.MovieId] = new(accumulator)
		}
		acc[row.MovieId].add(row.Rating)
	}
	summaries := lo.MapToSlice(acc, func(movieId int, a *accumulator) MovieSummary {
		summary := MovieSummary{MovieId: movieId, Count: a.count, Mean: a.mean()}
		if movie, ok := sample.Movie(movieId); ok {
			summary.Title = movie.Title
		}
		return summary
	})
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].MovieId < summaries[j].MovieId
	})
	return summaries
}

// SummarizeUsers aggregates ratings per user, most active first.
func SummarizeUsers(sample *dataset.Dataset) []UserSummary {
	acc := make(map[int]*accumulator)
	for i := 0; i < sample.Count(); i++ {
		row := sample.Get(i)
		if _, ok := acc[row.UserId]; !ok {
			acc[row.UserId] = new(accumulator)
		}
		acc[row.UserId].add(row.Rating)
	}
	summaries := lo.MapToSlice(acc, func(userId int, a *accumulator) UserSummary {
		return UserSummary{UserId: userId, Count: a.count, Mean: a.mean()}
	})
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Count != summaries[j].Count {
			return summaries[i].Count > summaries[j].Count
		}
		return summaries[i].UserId < summaries[j].UserId
	})
	return summaries
}

// SummarizeGenres explodes the genre string of every rated movie one row per
// tag and aggregates ratings per tag, alphabetically.
func SummarizeGenres(sample *dataset.Dataset) []GenreSummary {
	acc := make(map[string]*accumulator)
	for i := 0; i < sample.Count(); i++ {
		row := sample.Get(i)
		movie, ok := sample.Movie(row.MovieId)
		if !ok || movie.Genres == "" {
			continue
		}
		for _, genre := range strings.Split(movie.Genres, "|") {
			if _, ok := acc[genre]; !ok {
				acc[genre] = new(accumulator)
			}
			acc[genre].add(row.Rating)
		}
	}
	summaries := lo.MapToSlice(acc, func(genre string, a *accumulator) GenreSummary {
		return GenreSummary{Genre: genre, Count: a.count, Mean: a.mean()}
	})
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Genre < summaries[j].Genre
	})
	return summaries
}

// SummarizeGenreCombos averages the per-tag means over the tags of every
// genre combination present in the sample, alphabetically.
func SummarizeGenreCombos(sample *dataset.Dataset) []ComboSummary {
	perGenre := lo.SliceToMap(SummarizeGenres(sample), func(s GenreSummary) (string, float32) {
		return s.Genre, s.Mean
	})
	combos := mapset.NewSet[string]()
	for i := 0; i < sample.Count(); i++ {
		if movie, ok := sample.Movie(sample.Get(i).MovieId); ok && movie.Genres != "" {
			combos.Add(movie.Genres)
		}
	}
	summaries := make([]ComboSummary, 0, combos.Cardinality())
	for combo := range combos.Iter() {
		tags := strings.Split(combo, "|")
		var sum float32
		for _, tag := range tags {
			sum += perGenre[tag]
		}
		summaries = append(summaries, ComboSummary{Genres: combo, Mean: sum / float32(len(tags))})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Genres < summaries[j].Genres
	})
	return summaries
}
