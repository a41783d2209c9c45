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
	"reflect"

	"github.com/gorse-io/movielens-bench/base/log"
	"go.uber.org/zap"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	Lr          ParamName = "Lr"          // learning rate
	Reg         ParamName = "Reg"         // regularization strength
	NEpochs     ParamName = "NEpochs"     // number of epochs
	NFactors    ParamName = "NFactors"    // number of factors
	NBlocks     ParamName = "NBlocks"     // number of blocks for parallel updates
	RandomState ParamName = "RandomState" // random state (seed)
	InitMean    ParamName = "InitMean"    // mean of gaussian initial parameters
	InitStdDev  ParamName = "InitStdDev"  // standard deviation of gaussian initial parameters
)

// Params stores hyper-parameters for a model. It is a map between strings
// (names) and interface{}s (values). For example, hyper-parameters for the
// factorization model are given by:
//
//	model.Params{
//		model.Lr:       0.005,
//		model.NEpochs:  20,
//		model.NFactors: 10,
//		model.Reg:      0.1,
//	}
type Params map[ParamName]interface{}

// Copy hyper-parameters.
func (parameters Params) Copy() Params {
	newParams := make(Params)
	for k, v := range parameters {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter by name. Returns _default if not exists or type doesn't match.
func (parameters Params) GetInt(name ParamName, _default int) int {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int:
			return val
		default:
			log.Logger().Error("type mismatch in hyper-parameters",
				zap.String("name", string(name)),
				zap.String("expect", "int"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return _default
}

// GetInt64 gets an int64 parameter by name. Returns _default if not exists or
// type doesn't match. The type will be converted if given int.
func (parameters Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int64:
			return val
		case int:
			return int64(val)
		default:
			log.Logger().Error("type mismatch in hyper-parameters",
				zap.String("name", string(name)),
				zap.String("expect", "int64"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return _default
}

// GetFloat32 gets a float32 parameter by name. Returns _default if not exists
// or type doesn't match. The type will be converted if given float64 or int.
func (parameters Params) GetFloat32(name ParamName, _default float32) float32 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case float32:
			return val
		case float64:
			return float32(val)
		case int:
			return float32(val)
		default:
			log.Logger().Error("type mismatch in hyper-parameters",
				zap.String("name", string(name)),
				zap.String("expect", "float32"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return _default
}

// Overwrite merges params into parameters, the values in params win.
func (parameters Params) Overwrite(params Params) Params {
	merged := parameters.Copy()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
