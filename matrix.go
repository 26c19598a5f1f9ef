// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package uacodec

import "fmt"

// Matrix is a multi-dimensional array flattened into a linear value sequence
// in row-major order plus a dimensions vector. The dimension vector length is
// the rank and the product of the dimensions equals the element count.
type Matrix struct {
	Type       TypeID
	Values     []interface{}
	Dimensions []int32
}

// NewMatrix creates a Matrix after validating the shape invariant.
func NewMatrix(t TypeID, values []interface{}, dimensions []int32) (*Matrix, error) {
	m := &Matrix{Type: t, Values: values, Dimensions: dimensions}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that the flattened value count equals the product of the
// dimensions and that no dimension is negative.
func (m *Matrix) Validate() error {
	product := int64(1)
	for _, d := range m.Dimensions {
		if d < 0 {
			return fmt.Errorf("%w: negative matrix dimension %d", ErrDecoding, d)
		}
		product *= int64(d)
	}
	if product != int64(len(m.Values)) {
		return fmt.Errorf("%w: matrix has %d values but dimensions %v require %d",
			ErrDecoding, len(m.Values), m.Dimensions, product)
	}
	return nil
}

// Rank returns the number of dimensions.
func (m *Matrix) Rank() int {
	return len(m.Dimensions)
}

// Len returns the flattened element count.
func (m *Matrix) Len() int {
	return len(m.Values)
}

// At returns the element at the given row-major indices.
func (m *Matrix) At(indices ...int) (interface{}, error) {
	if len(indices) != len(m.Dimensions) {
		return nil, fmt.Errorf("%w: matrix rank is %d, got %d indices", ErrInternal, len(m.Dimensions), len(indices))
	}
	offset := 0
	for i, index := range indices {
		if index < 0 || int32(index) >= m.Dimensions[i] {
			return nil, fmt.Errorf("%w: index %d out of range for dimension %d", ErrInternal, index, i)
		}
		offset = offset*int(m.Dimensions[i]) + index
	}
	return m.Values[offset], nil
}
