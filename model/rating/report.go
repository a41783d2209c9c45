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
	"fmt"
	"io"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
)

// Result is one row of the final results table.
type Result struct {
	Method string
	Model  string
	RMSE   float32
	Points int
}

// Report is the append-only results table of the benchmark.
type Report struct {
	results []Result
}

// Append adds a result row, scoring the RMSE with the step function.
func (r *Report) Append(method, model string, rmse float32) {
	r.results = append(r.results, Result{
		Method: method,
		Model:  model,
		RMSE:   rmse,
		Points: Score(rmse),
	})
}

func (r *Report) Results() []Result {
	return r.results
}

// Write renders the results table.
func (r *Report) Write(w io.Writer) error {
	table := tablewriter.NewTable(w)
	table.Header("Method", "Model", "RMSE", "Points")
	for _, result := range r.results {
		if err := table.Append([]string{
			result.Method,
			result.Model,
			fmt.Sprintf("%.5f", result.RMSE),
			fmt.Sprintf("%d", result.Points),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
