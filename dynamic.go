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

// DynamicStruct is a runtime-typed structured value decoded through a
// synthesized codec. Field order on the wire comes from the
// StructureDefinition, not from the map.
type DynamicStruct struct {
	TypeID NodeID
	Values map[string]interface{}
}

// NewDynamicStruct creates an empty dynamic value of the given data type.
func NewDynamicStruct(typeID NodeID) *DynamicStruct {
	return &DynamicStruct{TypeID: typeID, Values: make(map[string]interface{})}
}

// dynamicStructCodec encodes and decodes DynamicStruct values by iterating
// the StructureDefinition field list in declared order and dispatching each
// field on its declared data type and value rank.
type dynamicStructCodec struct {
	dataType *DataType
	def      *StructureDefinition
	tree     *DataTypeTree
}

// NewDynamicStructCodec synthesizes a codec from a descriptor whose
// definition is a StructureDefinition.
func NewDynamicStructCodec(dt *DataType, tree *DataTypeTree) (Codec, error) {
	def, ok := dt.Definition.(*StructureDefinition)
	if !ok {
		return nil, fmt.Errorf("%w: data type %s has no structure definition",
			ErrInternal, FormatNodeID(dt.NodeID))
	}
	return &dynamicStructCodec{dataType: dt, def: def, tree: tree}, nil
}

func (c *dynamicStructCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	ds, ok := value.(*DynamicStruct)
	if !ok {
		return fmt.Errorf("%w: expected *DynamicStruct, got %T", ErrEncoding, value)
	}
	for _, f := range c.def.Fields {
		if err := c.encodeField(e, f, ds.Values[f.Name]); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

func (c *dynamicStructCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	ds := NewDynamicStruct(c.dataType.NodeID)
	for _, f := range c.def.Fields {
		v, err := c.decodeField(d, f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		ds.Values[f.Name] = v
	}
	return ds, nil
}

// fieldKind classifies a declared field type: a nested structure handled
// through the registry, an enumerated type, or a built-in scalar kind.
func (c *dynamicStructCodec) fieldKind(f StructureField) (TypeID, bool, bool) {
	builtin := c.tree.BuiltinTypeOf(f.DataType)
	if dt, ok := c.tree.DataType(f.DataType); ok {
		switch dt.Definition.(type) {
		case *StructureDefinition:
			return builtin, true, false
		case *EnumDefinition:
			return builtin, false, true
		}
	}
	return builtin, false, false
}

func (c *dynamicStructCodec) encodeField(e Encoder, f StructureField, v interface{}) error {
	builtin, isStruct, isEnum := c.fieldKind(f)

	switch {
	case f.ValueRank >= 2:
		m, ok := v.(*Matrix)
		if !ok {
			return fmt.Errorf("%w: expected *Matrix, got %T", ErrEncoding, v)
		}
		if isStruct {
			return e.WriteStructMatrix(f.Name, m, f.DataType)
		}
		return e.WriteMatrix(f.Name, m)

	case f.ValueRank >= ValueRankOneDimension:
		if isStruct {
			elems, ok := v.([]interface{})
			if !ok && v != nil {
				return fmt.Errorf("%w: expected []interface{}, got %T", ErrEncoding, v)
			}
			return e.WriteStructArray(f.Name, elems, f.DataType)
		}
		if isEnum {
			evs, ok := v.([]EnumValue)
			if !ok && v != nil {
				return fmt.Errorf("%w: expected []EnumValue, got %T", ErrEncoding, v)
			}
			return e.WriteEnumArray(f.Name, evs)
		}
		return writeBuiltinArray(e, f.Name, builtin, v)

	default:
		if isStruct {
			return e.WriteStruct(f.Name, v, f.DataType)
		}
		if isEnum {
			ev, ok := v.(EnumValue)
			if !ok {
				return fmt.Errorf("%w: expected EnumValue, got %T", ErrEncoding, v)
			}
			return e.WriteEnum(f.Name, ev)
		}
		return writeBuiltinScalar(e, f.Name, builtin, v)
	}
}

func (c *dynamicStructCodec) decodeField(d Decoder, f StructureField) (interface{}, error) {
	builtin, isStruct, isEnum := c.fieldKind(f)

	switch {
	case f.ValueRank >= 2:
		if isStruct {
			return d.ReadStructMatrix(f.Name, f.DataType)
		}
		return d.ReadMatrix(f.Name, builtin)

	case f.ValueRank >= ValueRankOneDimension:
		if isStruct {
			return d.ReadStructArray(f.Name, f.DataType)
		}
		if isEnum {
			evs, err := d.ReadEnumArray(f.Name)
			if err != nil {
				return nil, err
			}
			return c.resolveEnumNames(f, evs), nil
		}
		return readBuiltinArray(d, f.Name, builtin)

	default:
		if isStruct {
			return d.ReadStruct(f.Name, f.DataType)
		}
		if isEnum {
			ev, err := d.ReadEnum(f.Name)
			if err != nil {
				return nil, err
			}
			return c.resolveEnumName(f, ev), nil
		}
		return readBuiltinScalar(d, f.Name, builtin)
	}
}

// resolveEnumName fills in the symbolic name for a decoded wire value when
// the field's EnumDefinition declares one.
func (c *dynamicStructCodec) resolveEnumName(f StructureField, ev EnumValue) EnumValue {
	if ev.Name != "" {
		return ev
	}
	dt, ok := c.tree.DataType(f.DataType)
	if !ok {
		return ev
	}
	def, ok := dt.Definition.(*EnumDefinition)
	if !ok {
		return ev
	}
	for _, ef := range def.Fields {
		if int32(ef.Value) == ev.Value {
			ev.Name = ef.Name
			return ev
		}
	}
	return ev
}

func (c *dynamicStructCodec) resolveEnumNames(f StructureField, evs []EnumValue) []EnumValue {
	for i, ev := range evs {
		evs[i] = c.resolveEnumName(f, ev)
	}
	return evs
}

// dynamicEnumCodec maps between symbolic name/value pairs and the wire
// integer representation of an enumerated data type.
type dynamicEnumCodec struct {
	dataType *DataType
	def      *EnumDefinition
}

// NewDynamicEnumCodec synthesizes a codec from a descriptor whose
// definition is an EnumDefinition.
func NewDynamicEnumCodec(dt *DataType) (Codec, error) {
	def, ok := dt.Definition.(*EnumDefinition)
	if !ok {
		return nil, fmt.Errorf("%w: data type %s has no enum definition",
			ErrInternal, FormatNodeID(dt.NodeID))
	}
	return &dynamicEnumCodec{dataType: dt, def: def}, nil
}

func (c *dynamicEnumCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	var ev EnumValue
	switch v := value.(type) {
	case EnumValue:
		ev = v
	case int32:
		ev = EnumValue{Value: v}
	default:
		return fmt.Errorf("%w: expected EnumValue, got %T", ErrEncoding, value)
	}
	if ev.Name == "" {
		ev.Name = c.nameOf(ev.Value)
	}
	return e.WriteEnum("", ev)
}

func (c *dynamicEnumCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	ev, err := d.ReadEnum("")
	if err != nil {
		return nil, err
	}
	if ev.Name == "" {
		ev.Name = c.nameOf(ev.Value)
	}
	return ev, nil
}

func (c *dynamicEnumCodec) nameOf(value int32) string {
	for _, f := range c.def.Fields {
		if int32(f.Value) == value {
			return f.Name
		}
	}
	return ""
}

// RegisterDynamicCodecs walks a built tree and synthesizes a codec for
// every data type that publishes a definition, registering each under its
// data type id and whichever encoding ids the server exposed. Types
// without an encoding for some format simply miss that registry index.
func RegisterDynamicCodecs(registry *CodecRegistry, tree *DataTypeTree) error {
	var firstErr error
	tree.Walk(func(dt *DataType) {
		if firstErr != nil {
			return
		}
		var codec Codec
		var err error
		switch dt.Definition.(type) {
		case *StructureDefinition:
			codec, err = NewDynamicStructCodec(dt, tree)
		case *EnumDefinition:
			codec, err = NewDynamicEnumCodec(dt)
		default:
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		registry.Register(dt.NodeID, dt.EncodingIdentity(), codec)
	})
	return firstErr
}

// writeBuiltinScalar dispatches a scalar of a built-in kind to the typed
// encode method for it.
func writeBuiltinScalar(e Encoder, field string, t TypeID, v interface{}) error {
	switch t {
	case TypeBoolean:
		x, ok := v.(bool)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteBoolean(field, x)
	case TypeSByte:
		x, ok := v.(int8)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteSByte(field, x)
	case TypeByte:
		x, ok := v.(uint8)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteByte(field, x)
	case TypeInt16:
		x, ok := v.(int16)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteInt16(field, x)
	case TypeUInt16:
		x, ok := v.(uint16)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteUInt16(field, x)
	case TypeInt32:
		x, ok := v.(int32)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteInt32(field, x)
	case TypeUInt32:
		x, ok := v.(uint32)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteUInt32(field, x)
	case TypeInt64:
		x, ok := v.(int64)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteInt64(field, x)
	case TypeUInt64:
		x, ok := v.(uint64)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteUInt64(field, x)
	case TypeFloat:
		x, ok := v.(float32)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteFloat(field, x)
	case TypeDouble:
		x, ok := v.(float64)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteDouble(field, x)
	case TypeString:
		x, ok := v.(string)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteString(field, x)
	case TypeDateTime:
		x, ok := v.(time.Time)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteDateTime(field, x)
	case TypeGUID:
		x, ok := v.(uuid.UUID)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteGUID(field, x)
	case TypeByteString:
		x, ok := v.([]byte)
		if !ok && v != nil {
			return variantTypeMismatch(t, v)
		}
		return e.WriteByteString(field, x)
	case TypeXMLElement:
		x, ok := v.(XMLElement)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteXMLElement(field, x)
	case TypeNodeID:
		x, ok := v.(NodeID)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteNodeID(field, x)
	case TypeExpandedNodeID:
		x, ok := v.(ExpandedNodeID)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteExpandedNodeID(field, x)
	case TypeStatusCode:
		x, ok := v.(StatusCode)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteStatusCode(field, x)
	case TypeQualifiedName:
		x, ok := v.(QualifiedName)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteQualifiedName(field, x)
	case TypeLocalizedText:
		x, ok := v.(LocalizedText)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteLocalizedText(field, x)
	case TypeVariant:
		x, ok := v.(Variant)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteVariant(field, x)
	case TypeDataValue:
		x, ok := v.(DataValue)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteDataValue(field, x)
	case TypeExtensionObject:
		x, ok := v.(ExtensionObject)
		if !ok {
			return variantTypeMismatch(t, v)
		}
		return e.WriteExtensionObject(field, x)
	default:
		return fmt.Errorf("%w: unsupported field type %d", ErrEncoding, t)
	}
}

// readBuiltinScalar dispatches a scalar read of a built-in kind.
func readBuiltinScalar(d Decoder, field string, t TypeID) (interface{}, error) {
	switch t {
	case TypeBoolean:
		return d.ReadBoolean(field)
	case TypeSByte:
		return d.ReadSByte(field)
	case TypeByte:
		return d.ReadByte(field)
	case TypeInt16:
		return d.ReadInt16(field)
	case TypeUInt16:
		return d.ReadUInt16(field)
	case TypeInt32:
		return d.ReadInt32(field)
	case TypeUInt32:
		return d.ReadUInt32(field)
	case TypeInt64:
		return d.ReadInt64(field)
	case TypeUInt64:
		return d.ReadUInt64(field)
	case TypeFloat:
		return d.ReadFloat(field)
	case TypeDouble:
		return d.ReadDouble(field)
	case TypeString:
		return d.ReadString(field)
	case TypeDateTime:
		return d.ReadDateTime(field)
	case TypeGUID:
		return d.ReadGUID(field)
	case TypeByteString:
		return d.ReadByteString(field)
	case TypeXMLElement:
		return d.ReadXMLElement(field)
	case TypeNodeID:
		return d.ReadNodeID(field)
	case TypeExpandedNodeID:
		return d.ReadExpandedNodeID(field)
	case TypeStatusCode:
		return d.ReadStatusCode(field)
	case TypeQualifiedName:
		return d.ReadQualifiedName(field)
	case TypeLocalizedText:
		return d.ReadLocalizedText(field)
	case TypeVariant:
		return d.ReadVariant(field)
	case TypeDataValue:
		return d.ReadDataValue(field)
	case TypeExtensionObject:
		return d.ReadExtensionObject(field)
	default:
		return nil, fmt.Errorf("%w: unsupported field type %d", ErrDecoding, t)
	}
}

// writeBuiltinArray dispatches a one-dimensional array of a built-in kind.
// A nil value encodes as the format's null array.
func writeBuiltinArray(e Encoder, field string, t TypeID, v interface{}) error {
	if v == nil {
		switch t {
		case TypeBoolean:
			return e.WriteBooleanArray(field, nil)
		case TypeSByte:
			return e.WriteSByteArray(field, nil)
		case TypeByte:
			return e.WriteByteArray(field, nil)
		case TypeInt16:
			return e.WriteInt16Array(field, nil)
		case TypeUInt16:
			return e.WriteUInt16Array(field, nil)
		case TypeInt32:
			return e.WriteInt32Array(field, nil)
		case TypeUInt32:
			return e.WriteUInt32Array(field, nil)
		case TypeInt64:
			return e.WriteInt64Array(field, nil)
		case TypeUInt64:
			return e.WriteUInt64Array(field, nil)
		case TypeFloat:
			return e.WriteFloatArray(field, nil)
		case TypeDouble:
			return e.WriteDoubleArray(field, nil)
		case TypeString:
			return e.WriteStringArray(field, nil)
		case TypeDateTime:
			return e.WriteDateTimeArray(field, nil)
		case TypeGUID:
			return e.WriteGUIDArray(field, nil)
		case TypeByteString:
			return e.WriteByteStringArray(field, nil)
		case TypeXMLElement:
			return e.WriteXMLElementArray(field, nil)
		case TypeNodeID:
			return e.WriteNodeIDArray(field, nil)
		case TypeExpandedNodeID:
			return e.WriteExpandedNodeIDArray(field, nil)
		case TypeStatusCode:
			return e.WriteStatusCodeArray(field, nil)
		case TypeQualifiedName:
			return e.WriteQualifiedNameArray(field, nil)
		case TypeLocalizedText:
			return e.WriteLocalizedTextArray(field, nil)
		case TypeVariant:
			return e.WriteVariantArray(field, nil)
		case TypeDataValue:
			return e.WriteDataValueArray(field, nil)
		case TypeExtensionObject:
			return e.WriteExtensionObjectArray(field, nil)
		default:
			return fmt.Errorf("%w: unsupported field type %d", ErrEncoding, t)
		}
	}
	switch x := v.(type) {
	case []bool:
		return e.WriteBooleanArray(field, x)
	case []int8:
		return e.WriteSByteArray(field, x)
	case []uint8:
		return e.WriteByteArray(field, x)
	case []int16:
		return e.WriteInt16Array(field, x)
	case []uint16:
		return e.WriteUInt16Array(field, x)
	case []int32:
		return e.WriteInt32Array(field, x)
	case []uint32:
		return e.WriteUInt32Array(field, x)
	case []int64:
		return e.WriteInt64Array(field, x)
	case []uint64:
		return e.WriteUInt64Array(field, x)
	case []float32:
		return e.WriteFloatArray(field, x)
	case []float64:
		return e.WriteDoubleArray(field, x)
	case []string:
		return e.WriteStringArray(field, x)
	case []time.Time:
		return e.WriteDateTimeArray(field, x)
	case []uuid.UUID:
		return e.WriteGUIDArray(field, x)
	case [][]byte:
		return e.WriteByteStringArray(field, x)
	case []XMLElement:
		return e.WriteXMLElementArray(field, x)
	case []NodeID:
		return e.WriteNodeIDArray(field, x)
	case []ExpandedNodeID:
		return e.WriteExpandedNodeIDArray(field, x)
	case []StatusCode:
		return e.WriteStatusCodeArray(field, x)
	case []QualifiedName:
		return e.WriteQualifiedNameArray(field, x)
	case []LocalizedText:
		return e.WriteLocalizedTextArray(field, x)
	case []Variant:
		return e.WriteVariantArray(field, x)
	case []DataValue:
		return e.WriteDataValueArray(field, x)
	case []ExtensionObject:
		return e.WriteExtensionObjectArray(field, x)
	default:
		return variantTypeMismatch(t, v)
	}
}

// readBuiltinArray dispatches a one-dimensional array read of a built-in
// kind.
func readBuiltinArray(d Decoder, field string, t TypeID) (interface{}, error) {
	switch t {
	case TypeBoolean:
		return d.ReadBooleanArray(field)
	case TypeSByte:
		return d.ReadSByteArray(field)
	case TypeByte:
		return d.ReadByteArray(field)
	case TypeInt16:
		return d.ReadInt16Array(field)
	case TypeUInt16:
		return d.ReadUInt16Array(field)
	case TypeInt32:
		return d.ReadInt32Array(field)
	case TypeUInt32:
		return d.ReadUInt32Array(field)
	case TypeInt64:
		return d.ReadInt64Array(field)
	case TypeUInt64:
		return d.ReadUInt64Array(field)
	case TypeFloat:
		return d.ReadFloatArray(field)
	case TypeDouble:
		return d.ReadDoubleArray(field)
	case TypeString:
		return d.ReadStringArray(field)
	case TypeDateTime:
		return d.ReadDateTimeArray(field)
	case TypeGUID:
		return d.ReadGUIDArray(field)
	case TypeByteString:
		return d.ReadByteStringArray(field)
	case TypeXMLElement:
		return d.ReadXMLElementArray(field)
	case TypeNodeID:
		return d.ReadNodeIDArray(field)
	case TypeExpandedNodeID:
		return d.ReadExpandedNodeIDArray(field)
	case TypeStatusCode:
		return d.ReadStatusCodeArray(field)
	case TypeQualifiedName:
		return d.ReadQualifiedNameArray(field)
	case TypeLocalizedText:
		return d.ReadLocalizedTextArray(field)
	case TypeVariant:
		return d.ReadVariantArray(field)
	case TypeDataValue:
		return d.ReadDataValueArray(field)
	case TypeExtensionObject:
		return d.ReadExtensionObjectArray(field)
	default:
		return nil, fmt.Errorf("%w: unsupported field type %d", ErrDecoding, t)
	}
}
