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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	p := Params{
		NFactors:    10,
		Reg:         0.1,
		RandomState: int64(42),
	}
	assert.Equal(t, 10, p.GetInt(NFactors, 100))
	assert.Equal(t, 20, p.GetInt(NEpochs, 20))
	assert.Equal(t, float32(0.1), p.GetFloat32(Reg, 0.02))
	assert.Equal(t, float32(10), p.GetFloat32(NFactors, 0.02))
	assert.Equal(t, int64(42), p.GetInt64(RandomState, 0))
	assert.Equal(t, int64(10), p.GetInt64(NFactors, 0))
	// type mismatch falls back to the default
	assert.Equal(t, 100, p.GetInt(Reg, 100))
}

func TestParamsCopyOverwrite(t *testing.T) {
	p := Params{NFactors: 10}
	q := p.Copy()
	q[NFactors] = 20
	assert.Equal(t, 10, p.GetInt(NFactors, 0))
	merged := p.Overwrite(Params{NFactors: 30, NEpochs: 5})
	assert.Equal(t, 30, merged.GetInt(NFactors, 0))
	assert.Equal(t, 5, merged.GetInt(NEpochs, 0))
	assert.Equal(t, 10, p.GetInt(NFactors, 0))
}

func TestBaseModel(t *testing.T) {
	a, b := new(BaseModel), new(BaseModel)
	a.SetParams(Params{RandomState: int64(7)})
	b.SetParams(Params{RandomState: int64(7)})
	assert.Equal(t, a.GetRandomGenerator().Perm(10), b.GetRandomGenerator().Perm(10))
	assert.Equal(t, Params{RandomState: int64(7)}, a.GetParams())
}
