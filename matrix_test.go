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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	m, err := NewMatrix(TypeInt32,
		[]interface{}{int32(1), int32(2), int32(3), int32(4), int32(5), int32(6)},
		[]int32{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rank())
	assert.Equal(t, 6, m.Len())
}

func TestNewMatrixShapeMismatch(t *testing.T) {
	_, err := NewMatrix(TypeInt32, []interface{}{int32(1)}, []int32{2, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestMatrixValidateNegativeDimension(t *testing.T) {
	m := &Matrix{Type: TypeInt32, Values: nil, Dimensions: []int32{-1, 0}}
	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestMatrixAt(t *testing.T) {
	m, err := NewMatrix(TypeInt32,
		[]interface{}{int32(1), int32(2), int32(3), int32(4), int32(5), int32(6)},
		[]int32{2, 3})
	require.NoError(t, err)

	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)
	v, err = m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(6), v)
	v, err = m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(4), v)
}

func TestMatrixAtErrors(t *testing.T) {
	m, err := NewMatrix(TypeInt32,
		[]interface{}{int32(1), int32(2)}, []int32{2})
	require.NoError(t, err)

	_, err = m.At(0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = m.At(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = m.At(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestMatrixZeroDimension(t *testing.T) {
	m, err := NewMatrix(TypeInt32, []interface{}{}, []int32{0, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 2, m.Rank())
}
