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
	"time"

	"github.com/google/uuid"
)

// variantArrayElements reports whether a variant value is a one-dimensional
// array and returns its elements. []byte is never an array here: it is the
// ByteString scalar. A nil []interface{} means a null array.
func variantArrayElements(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []bool:
		return box(v), true
	case []int8:
		return box(v), true
	case []int16:
		return box(v), true
	case []uint16:
		return box(v), true
	case []int32:
		return box(v), true
	case []uint32:
		return box(v), true
	case []int64:
		return box(v), true
	case []uint64:
		return box(v), true
	case []float32:
		return box(v), true
	case []float64:
		return box(v), true
	case []string:
		return box(v), true
	case []time.Time:
		return box(v), true
	case []uuid.UUID:
		return box(v), true
	case [][]byte:
		return box(v), true
	case []XMLElement:
		return box(v), true
	case []NodeID:
		return box(v), true
	case []ExpandedNodeID:
		return box(v), true
	case []StatusCode:
		return box(v), true
	case []QualifiedName:
		return box(v), true
	case []LocalizedText:
		return box(v), true
	case []ExtensionObject:
		return box(v), true
	case []Variant:
		return box(v), true
	case []DataValue:
		return box(v), true
	}
	return nil, false
}

func box[T any](v []T) []interface{} {
	if v == nil {
		return nil
	}
	out := make([]interface{}, len(v))
	for i := range v {
		out[i] = v[i]
	}
	return out
}

func unbox[T any](elems []interface{}) ([]T, bool) {
	out := make([]T, len(elems))
	for i, elem := range elems {
		v, ok := elem.(T)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// typedVariantSlice converts decoded variant array elements into the typed
// slice form the corresponding encoder accepts, so that a decode of an
// encode compares equal to the original value.
func typedVariantSlice(t TypeID, elems []interface{}) interface{} {
	var (
		out interface{}
		ok  bool
	)
	switch t {
	case TypeBoolean:
		out, ok = unbox[bool](elems)
	case TypeSByte:
		out, ok = unbox[int8](elems)
	case TypeByte:
		out, ok = unbox[uint8](elems)
	case TypeInt16:
		out, ok = unbox[int16](elems)
	case TypeUInt16:
		out, ok = unbox[uint16](elems)
	case TypeInt32:
		out, ok = unbox[int32](elems)
	case TypeUInt32:
		out, ok = unbox[uint32](elems)
	case TypeInt64:
		out, ok = unbox[int64](elems)
	case TypeUInt64:
		out, ok = unbox[uint64](elems)
	case TypeFloat:
		out, ok = unbox[float32](elems)
	case TypeDouble:
		out, ok = unbox[float64](elems)
	case TypeString:
		out, ok = unbox[string](elems)
	case TypeDateTime:
		out, ok = unbox[time.Time](elems)
	case TypeGUID:
		out, ok = unbox[uuid.UUID](elems)
	case TypeByteString:
		out, ok = unbox[[]byte](elems)
	case TypeXMLElement:
		out, ok = unbox[XMLElement](elems)
	case TypeNodeID:
		out, ok = unbox[NodeID](elems)
	case TypeExpandedNodeID:
		out, ok = unbox[ExpandedNodeID](elems)
	case TypeStatusCode:
		out, ok = unbox[StatusCode](elems)
	case TypeQualifiedName:
		out, ok = unbox[QualifiedName](elems)
	case TypeLocalizedText:
		out, ok = unbox[LocalizedText](elems)
	case TypeExtensionObject:
		out, ok = unbox[ExtensionObject](elems)
	case TypeVariant:
		out, ok = unbox[Variant](elems)
	case TypeDataValue:
		out, ok = unbox[DataValue](elems)
	}
	if !ok || out == nil {
		return elems
	}
	return out
}
