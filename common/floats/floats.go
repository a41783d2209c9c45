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

package floats

// Dot computes the dot product of two vectors of 32-bit floats.
func Dot(a, b []float32) (ret float32) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// MulConstTo multiplies a vector by a constant and saves the result in dst: dst = a * b
func MulConstTo(a []float32, b float32, dst []float32) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] * b
	}
}

// MulConstAdd multiplies a vector by a constant and adds the result to dst: dst += a * c
func MulConstAdd(a []float32, c float32, dst []float32) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] += a[i] * c
	}
}

// SubTo subtracts one vector by another and saves the result in dst: dst = a - b
func SubTo(a, b, dst []float32) {
	if len(dst) != len(b) || len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] - b[i]
	}
}

// AddConst adds a constant to all elements of a vector: a += c
func AddConst(a []float32, c float32) {
	for i := range a {
		a[i] += c
	}
}

// Zero fills zeros in a slice of 32-bit floats.
func Zero(a []float32) {
	for i := range a {
		a[i] = 0
	}
}

// MatZero fills zeros in a matrix of 32-bit floats.
func MatZero(x [][]float32) {
	for i := range x {
		for j := range x[i] {
			x[i][j] = 0
		}
	}
}

// Sum of a vector of 32-bit floats.
func Sum(a []float32) (ret float32) {
	for i := range a {
		ret += a[i]
	}
	return
}

// Mean of a vector of 32-bit floats.
func Mean(a []float32) float32 {
	return Sum(a) / float32(len(a))
}
