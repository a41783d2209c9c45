// Copyright 2020 gorse Project Authors
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

package model

import (
	"github.com/gorse-io/movielens-bench/base"
)

type Model interface {
	// SetParams sets hyper-parameters for the model.
	SetParams(params Params)
	// GetParams returns all hyper-parameters.
	GetParams() Params
}

// BaseModel is the base of all models. The random generator is seeded by the
// RandomState hyper-parameter so that every fit is reproducible.
type BaseModel struct {
	Params    Params
	rng       base.RandomGenerator
	randState int64
}

func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.randState = model.Params.GetInt64(RandomState, 0)
	model.rng = base.NewRandomGenerator(model.randState)
}

func (model *BaseModel) GetParams() Params {
	return model.Params
}

func (model *BaseModel) GetRandomGenerator() base.RandomGenerator {
	return model.rng
}
