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
	"github.com/gorse-io/movielens-bench/base"
)

// Rating is a single MovieLens rating event. Ratings are half-steps in
// [0.5, 5.0].
type Rating struct {
	UserId    int
	MovieId   int
	Rating    float32
	Timestamp int64
}

// Movie is the metadata of a movie. Title embeds the release year in
// parentheses and Genres is a pipe-delimited tag string.
type Movie struct {
	MovieId int
	Title   string
	Genres  string
}

// Dataset is an immutable table of ratings joined with movie metadata.
// Rows are stored in column slices. The movie table is shared between a
// dataset and its subsets.
type Dataset struct {
	userIds    []int
	movieIds   []int
	ratings    []float32
	timestamps []int64
	movies     map[int]Movie
	userDict   *FreqDict
	movieDict  *FreqDict
}

// NewDataset creates an empty dataset over a movie table. The movie table
// may be nil when metadata is unavailable.
func NewDataset(movies map[int]Movie, capacity int) *Dataset {
	return &Dataset{
		userIds:    make([]int, 0, capacity),
		movieIds:   make([]int, 0, capacity),
		ratings:    make([]float32, 0, capacity),
		timestamps: make([]int64, 0, capacity),
		movies:     movies,
		userDict:   NewFreqDict(),
		movieDict:  NewFreqDict(),
	}
}

// AddRating appends a rating row and indexes its identifiers.
func (d *Dataset) AddRating(r Rating) {
	d.userIds = append(d.userIds, r.UserId)
	d.movieIds = append(d.movieIds, r.MovieId)
	d.ratings = append(d.ratings, r.Rating)
	d.timestamps = append(d.timestamps, r.Timestamp)
	d.userDict.Add(r.UserId)
	d.movieDict.Add(r.MovieId)
}

func (d *Dataset) Count() int {
	return len(d.ratings)
}

func (d *Dataset) CountUsers() int {
	return int(d.userDict.Count())
}

func (d *Dataset) CountMovies() int {
	return int(d.movieDict.Count())
}

// Get returns the i-th rating row.
func (d *Dataset) Get(i int) Rating {
	return Rating{
		UserId:    d.userIds[i],
		MovieId:   d.movieIds[i],
		Rating:    d.ratings[i],
		Timestamp: d.timestamps[i],
	}
}

// Ratings returns the rating column. The returned slice must not be modified.
func (d *Dataset) Ratings() []float32 {
	return d.ratings
}

func (d *Dataset) GetUserDict() *FreqDict {
	return d.userDict
}

func (d *Dataset) GetMovieDict() *FreqDict {
	return d.movieDict
}

// Movie looks up the metadata of a movie. The second return value is false
// when the movie is absent from the movie table.
func (d *Dataset) Movie(movieId int) (Movie, bool) {
	movie, ok := d.movies[movieId]
	return movie, ok
}

// Movies returns the shared movie table.
func (d *Dataset) Movies() map[int]Movie {
	return d.movies
}

// SubSet builds a new dataset from the rows at the given indices. The movie
// table is shared, identifier indices are rebuilt.
func (d *Dataset) SubSet(indices []int) *Dataset {
	set := NewDataset(d.movies, len(indices))
	for _, i := range indices {
		set.AddRating(d.Get(i))
	}
	return set
}

// SampleN draws a deterministic sample of at most n rows for the
// exploratory summaries.
func (d *Dataset) SampleN(n int, seed int64) *Dataset {
	if n >= d.Count() {
		return d
	}
	rng := base.NewRandomGenerator(seed)
	return d.SubSet(rng.Perm(d.Count())[:n])
}
