// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"sync"
)

// Don´t you wish for generic types in golang? Sigh.

// Pool of constant sized []float32 arrays, to reduce allocation overhead in
// the strip-parallel stage kernels (guided-filter box means, scratch
// GrayImage buffers). Only the float32 flavor survives from the teacher's
// original per-type pool set: the kernels here are exclusively float32, and
// an unused pool for a type nothing allocates is dead code.
var poolFloat32 = struct {
	sync.RWMutex
	m map[int]*sync.Pool
}{m: make(map[int]*sync.Pool)}

// Returns a pool for []float32 arrays of the given size
func getSizedPoolFloat32(size int) *sync.Pool {
	poolFloat32.RLock()
	pool := poolFloat32.m[size]
	poolFloat32.RUnlock()
	if pool == nil {
		pool = &sync.Pool{
			New: func() interface{} {
				return make([]float32, size)
			},
		}
		poolFloat32.Lock()
		poolFloat32.m[size] = pool
		poolFloat32.Unlock()
	}
	return pool
}

// GetArrayOfFloat32FromPool retrieves a []float32 of the given size from the pool.
func GetArrayOfFloat32FromPool(size int) []float32 {
	pool := getSizedPoolFloat32(size)
	return pool.Get().([]float32)
}

// PutArrayOfFloat32IntoPool returns a []float32 to the pool.
func PutArrayOfFloat32IntoPool(arr []float32) {
	pool := getSizedPoolFloat32(len(arr))
	pool.Put(arr)
}

// newPooledGray allocates a GrayImage backed by a pooled []float32 buffer.
// Callers that don't retain the returned image past their own scope should
// release it via releasePooledGray.
func newPooledGray(w, h int) *GrayImage {
	data := GetArrayOfFloat32FromPool(w * h)
	for i := range data {
		data[i] = 0
	}
	return &GrayImage{Width: w, Height: h, Data: data}
}

// releasePooledGray returns a GrayImage's backing buffer allocated via
// newPooledGray to the pool. The image must not be used afterward.
func releasePooledGray(g *GrayImage) {
	PutArrayOfFloat32IntoPool(g.Data)
}
