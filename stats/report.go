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

package stats

import (
	"fmt"
	"io"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
)

// WriteMovies renders the first topN movie summaries as a table.
func WriteMovies(w io.Writer, summaries []MovieSummary, topN int) error {
	table := tablewriter.NewTable(w)
	table.Header("MOVIE", "TITLE", "COUNT", "MEAN")
	for _, s := range truncate(summaries, topN) {
		if err := table.Append([]string{
			fmt.Sprint(s.MovieId), s.Title, fmt.Sprint(s.Count), fmt.Sprintf("%.3f", s.Mean),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// WriteUsers renders the first topN user summaries as a table.
func WriteUsers(w io.Writer, summaries []UserSummary, topN int) error {
	table := tablewriter.NewTable(w)
	table.Header("USER", "COUNT", "MEAN")
	for _, s := range truncate(summaries, topN) {
		if err := table.Append([]string{
			fmt.Sprint(s.UserId), fmt.Sprint(s.Count), fmt.Sprintf("%.3f", s.Mean),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// WriteGenres renders genre tag summaries as a table.
func WriteGenres(w io.Writer, summaries []GenreSummary) error {
	table := tablewriter.NewTable(w)
	table.Header("GENRE", "COUNT", "MEAN")
	for _, s := range summaries {
		if err := table.Append([]string{
			s.Genre, fmt.Sprint(s.Count), fmt.Sprintf("%.3f", s.Mean),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// WriteGenreCombos renders the first topN genre combination summaries.
func WriteGenreCombos(w io.Writer, summaries []ComboSummary, topN int) error {
	table := tablewriter.NewTable(w)
	table.Header("GENRES", "MEAN")
	for _, s := range truncate(summaries, topN) {
		if err := table.Append([]string{s.Genres, fmt.Sprintf("%.3f", s.Mean)}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
