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
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorse-io/movielens-bench/base/log"
	"github.com/gorse-io/movielens-bench/common/util"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const movieLensSep = "::"

// LoadRatings reads a MovieLens ratings file of
// `userId::movieId::rating::timestamp` records. A row with the wrong column
// count is a fatal load error.
func LoadRatings(path string) ([]Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	var ratings []Rating
	lineNumber := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, movieLensSep)
		if len(fields) != 4 {
			return nil, errors.Errorf("%s:%d: expect 4 fields, got %d", path, lineNumber, len(fields))
		}
		var rating Rating
		if rating.UserId, err = util.ParseInt[int](fields[0]); err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, lineNumber)
		}
		if rating.MovieId, err = util.ParseInt[int](fields[1]); err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, lineNumber)
		}
		if rating.Rating, err = util.ParseFloat[float32](fields[2]); err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, lineNumber)
		}
		if rating.Timestamp, err = util.ParseInt[int64](fields[3]); err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, lineNumber)
		}
		ratings = append(ratings, rating)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return ratings, nil
}

// LoadMovies reads a MovieLens movies file of `movieId::title::genres`
// records.
func LoadMovies(path string) (map[int]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	movies := make(map[int]Movie)
	lineNumber := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, movieLensSep)
		if len(fields) != 3 {
			return nil, errors.Errorf("%s:%d: expect 3 fields, got %d", path, lineNumber, len(fields))
		}
		var movie Movie
		if movie.MovieId, err = util.ParseInt[int](fields[0]); err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, lineNumber)
		}
		movie.Title = fields[1]
		movie.Genres = fields[2]
		movies[movie.MovieId] = movie
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return movies, nil
}

// Join left-joins ratings onto the movie table. Every rating row is kept
// even when its movie is absent from the movie table.
func Join(ratings []Rating, movies map[int]Movie) *Dataset {
	data := NewDataset(movies, len(ratings))
	for _, rating := range ratings {
		data.AddRating(rating)
	}
	return data
}

// LoadDataFromBuiltIn downloads a built-in MovieLens dataset if necessary and
// returns the joined rating table.
func LoadDataFromBuiltIn(name string) (*Dataset, error) {
	path, err := DownloadAndUnzip(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ratings, err := LoadRatings(filepath.Join(path, "ratings.dat"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	movies, err := LoadMovies(filepath.Join(path, "movies.dat"))
	if err != nil {
		return nil, errors.Trace(err)
	}
	data := Join(ratings, movies)
	log.Logger().Info("load dataset",
		zap.String("name", name),
		zap.Int("n_ratings", data.Count()),
		zap.Int("n_users", data.CountUsers()),
		zap.Int("n_movies", data.CountMovies()))
	return data, nil
}
