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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRatings(t *testing.T) {
	path := writeFile(t, "ratings.dat",
		"1::122::5::838985046\n"+
			"1::185::3.5::838983525\n"+
			"2::122::4::868245920\n")
	ratings, err := LoadRatings(path)
	assert.NoError(t, err)
	assert.Len(t, ratings, 3)
	assert.Equal(t, Rating{UserId: 1, MovieId: 185, Rating: 3.5, Timestamp: 838983525}, ratings[1])
}

func TestLoadRatingsMalformed(t *testing.T) {
	path := writeFile(t, "ratings.dat", "1::122::5\n")
	_, err := LoadRatings(path)
	assert.Error(t, err)
	path = writeFile(t, "ratings.dat", "1::122::five::838985046\n")
	_, err = LoadRatings(path)
	assert.Error(t, err)
}

func TestLoadMovies(t *testing.T) {
	path := writeFile(t, "movies.dat",
		"122::Boomerang (1992)::Comedy|Romance\n"+
			"185::Net, The (1995)::Action|Crime|Thriller\n")
	movies, err := LoadMovies(path)
	assert.NoError(t, err)
	assert.Len(t, movies, 2)
	assert.Equal(t, "Net, The (1995)", movies[185].Title)
	assert.Equal(t, "Action|Crime|Thriller", movies[185].Genres)

	path = writeFile(t, "movies.dat", "122::Boomerang (1992)\n")
	_, err = LoadMovies(path)
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	movies := map[int]Movie{
		122: {MovieId: 122, Title: "Boomerang (1992)", Genres: "Comedy|Romance"},
	}
	ratings := []Rating{
		{UserId: 1, MovieId: 122, Rating: 5},
		{UserId: 1, MovieId: 185, Rating: 3.5},
		{UserId: 2, MovieId: 122, Rating: 4},
	}
	data := Join(ratings, movies)
	assert.Equal(t, 3, data.Count())
	assert.Equal(t, 2, data.CountUsers())
	assert.Equal(t, 2, data.CountMovies())
	// movie metadata is a left join: a rating may reference a missing movie
	movie, ok := data.Movie(122)
	assert.True(t, ok)
	assert.Equal(t, "Boomerang (1992)", movie.Title)
	_, ok = data.Movie(185)
	assert.False(t, ok)
}

func TestSubSet(t *testing.T) {
	data := Join([]Rating{
		{UserId: 1, MovieId: 10, Rating: 5},
		{UserId: 1, MovieId: 20, Rating: 3},
		{UserId: 2, MovieId: 10, Rating: 4},
	}, nil)
	subset := data.SubSet([]int{0, 2})
	assert.Equal(t, 2, subset.Count())
	assert.Equal(t, 2, subset.CountUsers())
	assert.Equal(t, 1, subset.CountMovies())
	assert.Equal(t, data.Get(2), subset.Get(1))
}

func TestSampleN(t *testing.T) {
	var ratings []Rating
	for i := 0; i < 100; i++ {
		ratings = append(ratings, Rating{UserId: i, MovieId: i % 10, Rating: 3})
	}
	data := Join(ratings, nil)
	sample := data.SampleN(10, 0)
	assert.Equal(t, 10, sample.Count())
	// deterministic under the same seed
	again := data.SampleN(10, 0)
	for i := 0; i < sample.Count(); i++ {
		assert.Equal(t, sample.Get(i), again.Get(i))
	}
	// sample larger than the dataset returns the dataset itself
	assert.Equal(t, data, data.SampleN(1000, 0))
}
