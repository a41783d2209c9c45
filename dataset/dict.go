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

// NotId is returned when an identifier is absent from a FreqDict.
const NotId = int32(-1)

// FreqDict maps sparse MovieLens identifiers to dense indices and counts the
// frequency of each identifier.
type FreqDict struct {
	si  map[int]int32
	is  []int
	cnt []int32
}

func NewFreqDict() (d *FreqDict) {
	d = &FreqDict{map[int]int32{}, []int{}, []int32{}}
	return
}

func (d *FreqDict) Count() int32 {
	return int32(len(d.is))
}

// Add returns the dense index of v, inserting it if absent, and increments
// its frequency.
func (d *FreqDict) Add(v int) (y int32) {
	if y, ok := d.si[v]; ok {
		d.cnt[y]++
		return y
	}

	y = int32(len(d.is))
	d.si[v] = y
	d.is = append(d.is, v)
	d.cnt = append(d.cnt, 1)
	return
}

// Id returns the dense index of v, or NotId if v was never added.
func (d *FreqDict) Id(v int) int32 {
	if y, ok := d.si[v]; ok {
		return y
	}
	return NotId
}

// Value returns the sparse identifier of a dense index.
func (d *FreqDict) Value(id int32) (v int, ok bool) {
	if id < 0 || id >= int32(len(d.is)) {
		return 0, false
	}
	return d.is[id], true
}

func (d *FreqDict) Freq(id int32) int32 {
	if id < 0 || id >= int32(len(d.cnt)) {
		return 0
	}
	return d.cnt[id]
}
