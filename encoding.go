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
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bounds of the representable DateTime range, shared by all three wire
// formats. Out-of-range timestamps clamp to these instants instead of
// failing.
var (
	dateTimeMin = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)
	dateTimeMax = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// clampDateTime forces a timestamp into the representable range.
func clampDateTime(v time.Time) time.Time {
	v = v.UTC()
	if v.Before(dateTimeMin) {
		return dateTimeMin
	}
	if v.After(dateTimeMax) {
		return dateTimeMax
	}
	return v
}

// Encoder is the format-independent encode surface implemented by the
// binary, XML and JSON encoders. The field name is used by the textual
// formats when the value is embedded in a structure; the binary encoder
// ignores it. Encoders hold mutable cursor state and must be used by a
// single caller at a time; Reset prepares an instance for reuse.
type Encoder interface {
	WriteBoolean(field string, v bool) error
	WriteSByte(field string, v int8) error
	WriteByte(field string, v uint8) error
	WriteInt16(field string, v int16) error
	WriteUInt16(field string, v uint16) error
	WriteInt32(field string, v int32) error
	WriteUInt32(field string, v uint32) error
	WriteInt64(field string, v int64) error
	WriteUInt64(field string, v uint64) error
	WriteFloat(field string, v float32) error
	WriteDouble(field string, v float64) error
	WriteString(field string, v string) error
	WriteDateTime(field string, v time.Time) error
	WriteGUID(field string, v uuid.UUID) error
	WriteByteString(field string, v []byte) error
	WriteXMLElement(field string, v XMLElement) error
	WriteNodeID(field string, v NodeID) error
	WriteExpandedNodeID(field string, v ExpandedNodeID) error
	WriteStatusCode(field string, v StatusCode) error
	WriteQualifiedName(field string, v QualifiedName) error
	WriteLocalizedText(field string, v LocalizedText) error
	WriteVariant(field string, v Variant) error
	WriteDataValue(field string, v DataValue) error
	WriteExtensionObject(field string, v ExtensionObject) error

	WriteBooleanArray(field string, v []bool) error
	WriteSByteArray(field string, v []int8) error
	WriteByteArray(field string, v []uint8) error
	WriteInt16Array(field string, v []int16) error
	WriteUInt16Array(field string, v []uint16) error
	WriteInt32Array(field string, v []int32) error
	WriteUInt32Array(field string, v []uint32) error
	WriteInt64Array(field string, v []int64) error
	WriteUInt64Array(field string, v []uint64) error
	WriteFloatArray(field string, v []float32) error
	WriteDoubleArray(field string, v []float64) error
	WriteStringArray(field string, v []string) error
	WriteDateTimeArray(field string, v []time.Time) error
	WriteGUIDArray(field string, v []uuid.UUID) error
	WriteByteStringArray(field string, v [][]byte) error
	WriteXMLElementArray(field string, v []XMLElement) error
	WriteNodeIDArray(field string, v []NodeID) error
	WriteExpandedNodeIDArray(field string, v []ExpandedNodeID) error
	WriteStatusCodeArray(field string, v []StatusCode) error
	WriteQualifiedNameArray(field string, v []QualifiedName) error
	WriteLocalizedTextArray(field string, v []LocalizedText) error
	WriteVariantArray(field string, v []Variant) error
	WriteDataValueArray(field string, v []DataValue) error
	WriteExtensionObjectArray(field string, v []ExtensionObject) error

	// WriteEnum renders an enumerated value with its symbolic name and
	// integer value, in the format-specific enum form.
	WriteEnum(field string, v EnumValue) error
	WriteEnumArray(field string, v []EnumValue) error

	// WriteStruct dispatches encoding of a structured value through the
	// codec registry using the given type identity.
	WriteStruct(field string, v interface{}, typeID NodeID) error
	WriteStructArray(field string, v []interface{}, typeID NodeID) error

	// WriteMatrix flattens an N-dimensional array into a linear value
	// sequence plus a dimensions vector.
	WriteMatrix(field string, m *Matrix) error
	WriteStructMatrix(field string, m *Matrix, typeID NodeID) error

	// Reset prepares the encoder for an unrelated encode operation.
	Reset()
}

// Decoder is the format-independent decode surface implemented by the
// binary, XML and JSON decoders. Like encoders, decoders hold mutable cursor
// state and are single-caller objects.
type Decoder interface {
	ReadBoolean(field string) (bool, error)
	ReadSByte(field string) (int8, error)
	ReadByte(field string) (uint8, error)
	ReadInt16(field string) (int16, error)
	ReadUInt16(field string) (uint16, error)
	ReadInt32(field string) (int32, error)
	ReadUInt32(field string) (uint32, error)
	ReadInt64(field string) (int64, error)
	ReadUInt64(field string) (uint64, error)
	ReadFloat(field string) (float32, error)
	ReadDouble(field string) (float64, error)
	ReadString(field string) (string, error)
	ReadDateTime(field string) (time.Time, error)
	ReadGUID(field string) (uuid.UUID, error)
	ReadByteString(field string) ([]byte, error)
	ReadXMLElement(field string) (XMLElement, error)
	ReadNodeID(field string) (NodeID, error)
	ReadExpandedNodeID(field string) (ExpandedNodeID, error)
	ReadStatusCode(field string) (StatusCode, error)
	ReadQualifiedName(field string) (QualifiedName, error)
	ReadLocalizedText(field string) (LocalizedText, error)
	ReadVariant(field string) (Variant, error)
	ReadDataValue(field string) (DataValue, error)
	ReadExtensionObject(field string) (ExtensionObject, error)

	ReadBooleanArray(field string) ([]bool, error)
	ReadSByteArray(field string) ([]int8, error)
	ReadByteArray(field string) ([]uint8, error)
	ReadInt16Array(field string) ([]int16, error)
	ReadUInt16Array(field string) ([]uint16, error)
	ReadInt32Array(field string) ([]int32, error)
	ReadUInt32Array(field string) ([]uint32, error)
	ReadInt64Array(field string) ([]int64, error)
	ReadUInt64Array(field string) ([]uint64, error)
	ReadFloatArray(field string) ([]float32, error)
	ReadDoubleArray(field string) ([]float64, error)
	ReadStringArray(field string) ([]string, error)
	ReadDateTimeArray(field string) ([]time.Time, error)
	ReadGUIDArray(field string) ([]uuid.UUID, error)
	ReadByteStringArray(field string) ([][]byte, error)
	ReadXMLElementArray(field string) ([]XMLElement, error)
	ReadNodeIDArray(field string) ([]NodeID, error)
	ReadExpandedNodeIDArray(field string) ([]ExpandedNodeID, error)
	ReadStatusCodeArray(field string) ([]StatusCode, error)
	ReadQualifiedNameArray(field string) ([]QualifiedName, error)
	ReadLocalizedTextArray(field string) ([]LocalizedText, error)
	ReadVariantArray(field string) ([]Variant, error)
	ReadDataValueArray(field string) ([]DataValue, error)
	ReadExtensionObjectArray(field string) ([]ExtensionObject, error)

	ReadEnum(field string) (EnumValue, error)
	ReadEnumArray(field string) ([]EnumValue, error)

	ReadStruct(field string, typeID NodeID) (interface{}, error)
	ReadStructArray(field string, typeID NodeID) ([]interface{}, error)

	ReadMatrix(field string, t TypeID) (*Matrix, error)
	ReadStructMatrix(field string, typeID NodeID) (*Matrix, error)
}

// EnumValue is an enumerated value carrying both the symbolic name and the
// wire integer representation.
type EnumValue struct {
	Name  string
	Value int32
}

// Codec is a bidirectional encode/decode unit bound to a type identity. One
// codec implementation serves all three wire formats through the shared
// Encoder/Decoder contract.
type Codec interface {
	Encode(ctx *EncodingContext, e Encoder, value interface{}) error
	Decode(ctx *EncodingContext, d Decoder) (interface{}, error)
}

// EncodingContext bundles the shared state an encode or decode operation
// needs: the namespace and server tables and the codec registry. Contexts
// are constructed explicitly and passed by reference; DefaultContext is a
// process-wide convenience, not a requirement.
type EncodingContext struct {
	Namespaces *NamespaceTable
	Servers    *ServerTable
	Registry   *CodecRegistry
	Metrics    *CodecMetrics
}

// ContextOption configures an EncodingContext.
type ContextOption func(*EncodingContext)

// WithNamespaceTable sets the namespace table.
func WithNamespaceTable(ns *NamespaceTable) ContextOption {
	return func(c *EncodingContext) {
		c.Namespaces = ns
	}
}

// WithServerTable sets the server table.
func WithServerTable(s *ServerTable) ContextOption {
	return func(c *EncodingContext) {
		c.Servers = s
	}
}

// WithRegistry sets the codec registry.
func WithRegistry(r *CodecRegistry) ContextOption {
	return func(c *EncodingContext) {
		c.Registry = r
	}
}

// WithMetrics attaches codec metrics to the context.
func WithMetrics(m *CodecMetrics) ContextOption {
	return func(c *EncodingContext) {
		c.Metrics = m
	}
}

// NewEncodingContext creates an EncodingContext with a fresh namespace
// table, the local server table and the default registry, then applies the
// options.
func NewEncodingContext(opts ...ContextOption) *EncodingContext {
	c := &EncodingContext{
		Namespaces: NewNamespaceTable(),
		Servers:    NewServerTable(""),
		Registry:   DefaultRegistry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultContext is the process-wide convenience context backed by
// DefaultRegistry.
var DefaultContext = NewEncodingContext()

// lookupEncodeCodec resolves a codec for encoding by type identity.
func (c *EncodingContext) lookupEncodeCodec(typeID NodeID) (Codec, error) {
	codec, ok := c.Registry.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %w for %s", ErrEncoding, ErrCodecNotFound, FormatNodeID(typeID))
	}
	return codec, nil
}

// lookupDecodeCodec resolves a codec for decoding by type identity.
func (c *EncodingContext) lookupDecodeCodec(typeID NodeID) (Codec, error) {
	codec, ok := c.Registry.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %w for %s", ErrDecoding, ErrCodecNotFound, FormatNodeID(typeID))
	}
	return codec, nil
}
