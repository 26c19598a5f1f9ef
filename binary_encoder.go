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
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ticks1601 is the number of 100-nanosecond intervals between the OPC UA
// epoch (1601-01-01) and the Unix epoch (1970-01-01).
const ticks1601 = 116444736000000000

// ticksPerSecond is the number of 100-nanosecond intervals per second.
const ticksPerSecond = 10000000

// maxDateTimeTicks is the tick count of 9999-12-31T23:59:59Z.
const maxDateTimeTicks = 253402300799*ticksPerSecond + ticks1601

// BinaryEncoder encodes values in the OPC UA compact binary format:
// little-endian fixed layouts, length-prefixed strings and arrays with a -1
// null sentinel, no self-description. The field parameter of the shared
// contract is ignored; binary layouts carry no field names.
type BinaryEncoder struct {
	ctx *EncodingContext
	buf *bytes.Buffer
}

// NewBinaryEncoder creates a binary encoder writing into an internal buffer.
func NewBinaryEncoder(ctx *EncodingContext) *BinaryEncoder {
	return &BinaryEncoder{ctx: ctx, buf: new(bytes.Buffer)}
}

// Bytes returns the encoded bytes.
func (e *BinaryEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Reset discards the buffered output so the encoder can be reused.
func (e *BinaryEncoder) Reset() {
	e.buf.Reset()
}

// Context returns the encoding context.
func (e *BinaryEncoder) Context() *EncodingContext {
	return e.ctx
}

// WriteBoolean writes a boolean value.
func (e *BinaryEncoder) WriteBoolean(_ string, v bool) error {
	if v {
		return e.buf.WriteByte(1)
	}
	return e.buf.WriteByte(0)
}

// WriteSByte writes a signed byte value.
func (e *BinaryEncoder) WriteSByte(_ string, v int8) error {
	return e.buf.WriteByte(byte(v))
}

// WriteByte writes a byte value.
func (e *BinaryEncoder) WriteByte(_ string, v uint8) error {
	return e.buf.WriteByte(v)
}

// WriteInt16 writes an int16 value.
func (e *BinaryEncoder) WriteInt16(_ string, v int16) error {
	return e.WriteUInt16("", uint16(v))
}

// WriteUInt16 writes a uint16 value.
func (e *BinaryEncoder) WriteUInt16(_ string, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := e.buf.Write(b[:])
	return err
}

// WriteInt32 writes an int32 value.
func (e *BinaryEncoder) WriteInt32(_ string, v int32) error {
	return e.WriteUInt32("", uint32(v))
}

// WriteUInt32 writes a uint32 value.
func (e *BinaryEncoder) WriteUInt32(_ string, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := e.buf.Write(b[:])
	return err
}

// WriteInt64 writes an int64 value.
func (e *BinaryEncoder) WriteInt64(_ string, v int64) error {
	return e.WriteUInt64("", uint64(v))
}

// WriteUInt64 writes a uint64 value.
func (e *BinaryEncoder) WriteUInt64(_ string, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := e.buf.Write(b[:])
	return err
}

// WriteFloat writes a float32 value.
func (e *BinaryEncoder) WriteFloat(_ string, v float32) error {
	return e.WriteUInt32("", math.Float32bits(v))
}

// WriteDouble writes a float64 value.
func (e *BinaryEncoder) WriteDouble(_ string, v float64) error {
	return e.WriteUInt64("", math.Float64bits(v))
}

// WriteString writes a length-prefixed string. The empty string is written
// as the -1 null sentinel.
func (e *BinaryEncoder) WriteString(_ string, v string) error {
	if v == "" {
		return e.WriteInt32("", -1)
	}
	if err := e.WriteInt32("", int32(len(v))); err != nil {
		return err
	}
	_, err := e.buf.WriteString(v)
	return err
}

// WriteDateTime writes a DateTime as 100-nanosecond ticks since 1601.
// Instants at or before 1601-01-01 write tick 0 and instants at or after
// 9999-12-31T23:59:59Z write the maximum tick, so out-of-range timestamps
// clamp instead of overflowing. The tick arithmetic runs on whole seconds
// because UnixNano cannot represent the full DateTime range.
func (e *BinaryEncoder) WriteDateTime(_ string, v time.Time) error {
	v = v.UTC()
	if !v.After(dateTimeMin) {
		return e.WriteInt64("", 0)
	}
	if !v.Before(dateTimeMax) {
		return e.WriteInt64("", maxDateTimeTicks)
	}
	return e.WriteInt64("", v.Unix()*ticksPerSecond+int64(v.Nanosecond()/100)+ticks1601)
}

// WriteGUID writes a GUID: Data1/Data2/Data3 little-endian, Data4 as-is.
func (e *BinaryEncoder) WriteGUID(_ string, v uuid.UUID) error {
	if err := e.WriteUInt32("", binary.BigEndian.Uint32(v[0:4])); err != nil {
		return err
	}
	if err := e.WriteUInt16("", binary.BigEndian.Uint16(v[4:6])); err != nil {
		return err
	}
	if err := e.WriteUInt16("", binary.BigEndian.Uint16(v[6:8])); err != nil {
		return err
	}
	_, err := e.buf.Write(v[8:16])
	return err
}

// WriteByteString writes a length-prefixed byte string; nil is the -1 null
// sentinel.
func (e *BinaryEncoder) WriteByteString(_ string, v []byte) error {
	if v == nil {
		return e.WriteInt32("", -1)
	}
	if err := e.WriteInt32("", int32(len(v))); err != nil {
		return err
	}
	_, err := e.buf.Write(v)
	return err
}

// WriteXMLElement writes an XML fragment as a byte string.
func (e *BinaryEncoder) WriteXMLElement(_ string, v XMLElement) error {
	if v == "" {
		return e.WriteInt32("", -1)
	}
	return e.WriteByteString("", []byte(v))
}

// WriteNodeID writes a NodeID using the most compact of the two-byte,
// four-byte and full layouts.
func (e *BinaryEncoder) WriteNodeID(_ string, v NodeID) error {
	return e.writeNodeIDMasked(v, 0)
}

func (e *BinaryEncoder) writeNodeIDMasked(v NodeID, mask uint8) error {
	switch v.Type {
	case NodeIDTypeNumeric:
		switch {
		case v.Namespace == 0 && v.Numeric <= 255:
			if err := e.WriteByte("", 0x00|mask); err != nil {
				return err
			}
			return e.WriteByte("", byte(v.Numeric))
		case v.Namespace <= 255 && v.Numeric <= 65535:
			if err := e.WriteByte("", 0x01|mask); err != nil {
				return err
			}
			if err := e.WriteByte("", byte(v.Namespace)); err != nil {
				return err
			}
			return e.WriteUInt16("", uint16(v.Numeric))
		default:
			if err := e.WriteByte("", 0x02|mask); err != nil {
				return err
			}
			if err := e.WriteUInt16("", v.Namespace); err != nil {
				return err
			}
			return e.WriteUInt32("", v.Numeric)
		}
	case NodeIDTypeString:
		if err := e.WriteByte("", 0x03|mask); err != nil {
			return err
		}
		if err := e.WriteUInt16("", v.Namespace); err != nil {
			return err
		}
		return e.WriteString("", v.String)
	case NodeIDTypeGUID:
		if err := e.WriteByte("", 0x04|mask); err != nil {
			return err
		}
		if err := e.WriteUInt16("", v.Namespace); err != nil {
			return err
		}
		return e.WriteGUID("", v.GUID)
	case NodeIDTypeOpaque:
		if err := e.WriteByte("", 0x05|mask); err != nil {
			return err
		}
		if err := e.WriteUInt16("", v.Namespace); err != nil {
			return err
		}
		return e.WriteByteString("", v.Opaque)
	}
	return fmt.Errorf("%w: unknown NodeID type %d", ErrEncoding, v.Type)
}

// WriteExpandedNodeID writes an ExpandedNodeID: the inner NodeID with the
// URI and server-index flag bits, then the optional components.
func (e *BinaryEncoder) WriteExpandedNodeID(_ string, v ExpandedNodeID) error {
	var mask uint8
	if v.NamespaceURI != "" {
		mask |= 0x80
	}
	if v.ServerIndex > 0 {
		mask |= 0x40
	}
	if err := e.writeNodeIDMasked(v.NodeID, mask); err != nil {
		return err
	}
	if v.NamespaceURI != "" {
		if err := e.WriteString("", v.NamespaceURI); err != nil {
			return err
		}
	}
	if v.ServerIndex > 0 {
		if err := e.WriteUInt32("", v.ServerIndex); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatusCode writes a StatusCode value.
func (e *BinaryEncoder) WriteStatusCode(_ string, v StatusCode) error {
	return e.WriteUInt32("", uint32(v))
}

// WriteQualifiedName writes a QualifiedName value.
func (e *BinaryEncoder) WriteQualifiedName(_ string, v QualifiedName) error {
	if err := e.WriteUInt16("", v.NamespaceIndex); err != nil {
		return err
	}
	return e.WriteString("", v.Name)
}

// WriteLocalizedText writes a LocalizedText with its encoding mask.
func (e *BinaryEncoder) WriteLocalizedText(_ string, v LocalizedText) error {
	var mask uint8
	if v.Locale != "" {
		mask |= 0x01
	}
	if v.Text != "" {
		mask |= 0x02
	}
	if err := e.WriteByte("", mask); err != nil {
		return err
	}
	if v.Locale != "" {
		if err := e.WriteString("", v.Locale); err != nil {
			return err
		}
	}
	if v.Text != "" {
		if err := e.WriteString("", v.Text); err != nil {
			return err
		}
	}
	return nil
}

// WriteVariant writes a Variant: an encoding-mask byte carrying the built-in
// type id plus the array (0x80) and dimensions (0x40) bits, then the value.
func (e *BinaryEncoder) WriteVariant(_ string, v Variant) error {
	if v.IsNull() {
		return e.WriteByte("", 0)
	}

	if m, ok := v.Value.(*Matrix); ok {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrEncoding, err)
		}
		if err := e.WriteByte("", uint8(m.Type)|0x80|0x40); err != nil {
			return err
		}
		if err := e.WriteInt32("", int32(len(m.Values))); err != nil {
			return err
		}
		for _, elem := range m.Values {
			if err := e.writeVariantScalar(m.Type, elem); err != nil {
				return err
			}
		}
		if err := e.WriteInt32("", int32(len(m.Dimensions))); err != nil {
			return err
		}
		for _, d := range m.Dimensions {
			if err := e.WriteInt32("", d); err != nil {
				return err
			}
		}
		return nil
	}

	if elems, ok := variantArrayElements(v.Value); ok {
		if err := e.WriteByte("", uint8(v.Type)|0x80); err != nil {
			return err
		}
		if elems == nil {
			return e.WriteInt32("", -1)
		}
		if err := e.WriteInt32("", int32(len(elems))); err != nil {
			return err
		}
		for _, elem := range elems {
			if err := e.writeVariantScalar(v.Type, elem); err != nil {
				return err
			}
		}
		return nil
	}

	if err := e.WriteByte("", uint8(v.Type)); err != nil {
		return err
	}
	return e.writeVariantScalar(v.Type, v.Value)
}

func (e *BinaryEncoder) writeVariantScalar(t TypeID, value interface{}) error {
	switch t {
	case TypeBoolean:
		v, ok := value.(bool)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteBoolean("", v)
	case TypeSByte:
		v, ok := value.(int8)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteSByte("", v)
	case TypeByte:
		v, ok := value.(uint8)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteByte("", v)
	case TypeInt16:
		v, ok := value.(int16)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteInt16("", v)
	case TypeUInt16:
		v, ok := value.(uint16)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteUInt16("", v)
	case TypeInt32:
		v, ok := value.(int32)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteInt32("", v)
	case TypeUInt32:
		v, ok := value.(uint32)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteUInt32("", v)
	case TypeInt64:
		v, ok := value.(int64)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteInt64("", v)
	case TypeUInt64:
		v, ok := value.(uint64)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteUInt64("", v)
	case TypeFloat:
		v, ok := value.(float32)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteFloat("", v)
	case TypeDouble:
		v, ok := value.(float64)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteDouble("", v)
	case TypeString:
		v, ok := value.(string)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteString("", v)
	case TypeDateTime:
		v, ok := value.(time.Time)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteDateTime("", v)
	case TypeGUID:
		v, ok := value.(uuid.UUID)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteGUID("", v)
	case TypeByteString:
		v, ok := value.([]byte)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteByteString("", v)
	case TypeXMLElement:
		v, ok := value.(XMLElement)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteXMLElement("", v)
	case TypeNodeID:
		v, ok := value.(NodeID)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteNodeID("", v)
	case TypeExpandedNodeID:
		v, ok := value.(ExpandedNodeID)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteExpandedNodeID("", v)
	case TypeStatusCode:
		v, ok := value.(StatusCode)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteStatusCode("", v)
	case TypeQualifiedName:
		v, ok := value.(QualifiedName)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteQualifiedName("", v)
	case TypeLocalizedText:
		v, ok := value.(LocalizedText)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteLocalizedText("", v)
	case TypeExtensionObject:
		v, ok := value.(ExtensionObject)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteExtensionObject("", v)
	case TypeVariant:
		v, ok := value.(Variant)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteVariant("", v)
	case TypeDataValue:
		v, ok := value.(DataValue)
		if !ok {
			return variantTypeMismatch(t, value)
		}
		return e.WriteDataValue("", v)
	}
	return fmt.Errorf("%w: unsupported variant type %d", ErrEncoding, t)
}

func variantTypeMismatch(t TypeID, value interface{}) error {
	return fmt.Errorf("%w: variant type %s does not match value %T", ErrEncoding, t, value)
}

// WriteDataValue writes a DataValue with its encoding mask.
func (e *BinaryEncoder) WriteDataValue(_ string, v DataValue) error {
	var mask uint8
	if v.Value != nil {
		mask |= 0x01
	}
	if v.StatusCode != StatusGood {
		mask |= 0x02
	}
	if !v.SourceTimestamp.IsZero() {
		mask |= 0x04
	}
	if !v.ServerTimestamp.IsZero() {
		mask |= 0x08
	}
	if v.SourcePicoseconds != 0 {
		mask |= 0x10
	}
	if v.ServerPicoseconds != 0 {
		mask |= 0x20
	}
	if err := e.WriteByte("", mask); err != nil {
		return err
	}
	if mask&0x01 != 0 {
		if err := e.WriteVariant("", *v.Value); err != nil {
			return err
		}
	}
	if mask&0x02 != 0 {
		if err := e.WriteStatusCode("", v.StatusCode); err != nil {
			return err
		}
	}
	if mask&0x04 != 0 {
		if err := e.WriteDateTime("", v.SourceTimestamp); err != nil {
			return err
		}
	}
	if mask&0x10 != 0 {
		if err := e.WriteUInt16("", v.SourcePicoseconds); err != nil {
			return err
		}
	}
	if mask&0x08 != 0 {
		if err := e.WriteDateTime("", v.ServerTimestamp); err != nil {
			return err
		}
	}
	if mask&0x20 != 0 {
		if err := e.WriteUInt16("", v.ServerPicoseconds); err != nil {
			return err
		}
	}
	return nil
}

// WriteExtensionObject writes an ExtensionObject: type id, body mask, body.
// A decoded body is re-encoded through the codec registered under the
// carried type identity.
func (e *BinaryEncoder) WriteExtensionObject(_ string, v ExtensionObject) error {
	typeID, ok := v.TypeID.ToNodeID(e.ctx.Namespaces)
	if !ok {
		typeID = v.TypeID.NodeID
	}
	if err := e.WriteNodeID("", typeID); err != nil {
		return err
	}
	switch body := v.Body.(type) {
	case nil:
		return e.WriteByte("", uint8(ExtensionObjectEmpty))
	case []byte:
		if err := e.WriteByte("", uint8(ExtensionObjectByteString)); err != nil {
			return err
		}
		return e.WriteByteString("", body)
	case XMLElement:
		if err := e.WriteByte("", uint8(ExtensionObjectXML)); err != nil {
			return err
		}
		return e.WriteXMLElement("", body)
	default:
		codec, ok := e.ctx.Registry.LookupAny(typeID)
		if !ok {
			return fmt.Errorf("%w: %w for encoding id %s", ErrEncoding, ErrCodecNotFound, FormatNodeID(typeID))
		}
		nested := NewBinaryEncoder(e.ctx)
		if err := codec.Encode(e.ctx, nested, body); err != nil {
			return err
		}
		if err := e.WriteByte("", uint8(ExtensionObjectByteString)); err != nil {
			return err
		}
		return e.WriteByteString("", nested.Bytes())
	}
}

// WriteEnum writes the wire integer representation of an enumerated value.
func (e *BinaryEncoder) WriteEnum(_ string, v EnumValue) error {
	return e.WriteInt32("", v.Value)
}

// WriteStruct dispatches encoding of a structured value through the codec
// registry.
func (e *BinaryEncoder) WriteStruct(_ string, v interface{}, typeID NodeID) error {
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	return codec.Encode(e.ctx, e, v)
}

// writeArray writes the -1 null sentinel or the length prefix followed by
// the elements.
func (e *BinaryEncoder) writeArray(isNil bool, n int, elem func(i int) error) error {
	if isNil {
		return e.WriteInt32("", -1)
	}
	if err := e.WriteInt32("", int32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := elem(i); err != nil {
			return err
		}
	}
	return nil
}

// WriteBooleanArray writes a boolean array.
func (e *BinaryEncoder) WriteBooleanArray(_ string, v []bool) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteBoolean("", v[i]) })
}

// WriteSByteArray writes a signed byte array.
func (e *BinaryEncoder) WriteSByteArray(_ string, v []int8) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteSByte("", v[i]) })
}

// WriteByteArray writes a byte array.
func (e *BinaryEncoder) WriteByteArray(_ string, v []uint8) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteByte("", v[i]) })
}

// WriteInt16Array writes an int16 array.
func (e *BinaryEncoder) WriteInt16Array(_ string, v []int16) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteInt16("", v[i]) })
}

// WriteUInt16Array writes a uint16 array.
func (e *BinaryEncoder) WriteUInt16Array(_ string, v []uint16) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteUInt16("", v[i]) })
}

// WriteInt32Array writes an int32 array.
func (e *BinaryEncoder) WriteInt32Array(_ string, v []int32) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteInt32("", v[i]) })
}

// WriteUInt32Array writes a uint32 array.
func (e *BinaryEncoder) WriteUInt32Array(_ string, v []uint32) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteUInt32("", v[i]) })
}

// WriteInt64Array writes an int64 array.
func (e *BinaryEncoder) WriteInt64Array(_ string, v []int64) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteInt64("", v[i]) })
}

// WriteUInt64Array writes a uint64 array.
func (e *BinaryEncoder) WriteUInt64Array(_ string, v []uint64) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteUInt64("", v[i]) })
}

// WriteFloatArray writes a float32 array.
func (e *BinaryEncoder) WriteFloatArray(_ string, v []float32) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteFloat("", v[i]) })
}

// WriteDoubleArray writes a float64 array.
func (e *BinaryEncoder) WriteDoubleArray(_ string, v []float64) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteDouble("", v[i]) })
}

// WriteStringArray writes a string array.
func (e *BinaryEncoder) WriteStringArray(_ string, v []string) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteString("", v[i]) })
}

// WriteDateTimeArray writes a DateTime array.
func (e *BinaryEncoder) WriteDateTimeArray(_ string, v []time.Time) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteDateTime("", v[i]) })
}

// WriteGUIDArray writes a GUID array.
func (e *BinaryEncoder) WriteGUIDArray(_ string, v []uuid.UUID) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteGUID("", v[i]) })
}

// WriteByteStringArray writes a byte-string array.
func (e *BinaryEncoder) WriteByteStringArray(_ string, v [][]byte) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteByteString("", v[i]) })
}

// WriteXMLElementArray writes an XML fragment array.
func (e *BinaryEncoder) WriteXMLElementArray(_ string, v []XMLElement) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteXMLElement("", v[i]) })
}

// WriteNodeIDArray writes a NodeID array.
func (e *BinaryEncoder) WriteNodeIDArray(_ string, v []NodeID) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteNodeID("", v[i]) })
}

// WriteExpandedNodeIDArray writes an ExpandedNodeID array.
func (e *BinaryEncoder) WriteExpandedNodeIDArray(_ string, v []ExpandedNodeID) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteExpandedNodeID("", v[i]) })
}

// WriteStatusCodeArray writes a StatusCode array.
func (e *BinaryEncoder) WriteStatusCodeArray(_ string, v []StatusCode) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteStatusCode("", v[i]) })
}

// WriteQualifiedNameArray writes a QualifiedName array.
func (e *BinaryEncoder) WriteQualifiedNameArray(_ string, v []QualifiedName) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteQualifiedName("", v[i]) })
}

// WriteLocalizedTextArray writes a LocalizedText array.
func (e *BinaryEncoder) WriteLocalizedTextArray(_ string, v []LocalizedText) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteLocalizedText("", v[i]) })
}

// WriteVariantArray writes a Variant array.
func (e *BinaryEncoder) WriteVariantArray(_ string, v []Variant) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteVariant("", v[i]) })
}

// WriteDataValueArray writes a DataValue array.
func (e *BinaryEncoder) WriteDataValueArray(_ string, v []DataValue) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteDataValue("", v[i]) })
}

// WriteExtensionObjectArray writes an ExtensionObject array.
func (e *BinaryEncoder) WriteExtensionObjectArray(_ string, v []ExtensionObject) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteExtensionObject("", v[i]) })
}

// WriteEnumArray writes an enumerated-value array.
func (e *BinaryEncoder) WriteEnumArray(_ string, v []EnumValue) error {
	return e.writeArray(v == nil, len(v), func(i int) error { return e.WriteEnum("", v[i]) })
}

// WriteStructArray writes a structured-value array through the registry.
func (e *BinaryEncoder) WriteStructArray(_ string, v []interface{}, typeID NodeID) error {
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	return e.writeArray(v == nil, len(v), func(i int) error { return codec.Encode(e.ctx, e, v[i]) })
}

// WriteMatrix writes the flattened value sequence followed by the
// dimensions vector.
func (e *BinaryEncoder) WriteMatrix(_ string, m *Matrix) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	if err := e.WriteInt32("", int32(len(m.Values))); err != nil {
		return err
	}
	for _, elem := range m.Values {
		if err := e.writeVariantScalar(m.Type, elem); err != nil {
			return err
		}
	}
	return e.WriteInt32Array("", m.Dimensions)
}

// WriteStructMatrix writes a matrix of structured values through the
// registry.
func (e *BinaryEncoder) WriteStructMatrix(_ string, m *Matrix, typeID NodeID) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	if err := e.WriteInt32("", int32(len(m.Values))); err != nil {
		return err
	}
	for _, elem := range m.Values {
		if err := codec.Encode(e.ctx, e, elem); err != nil {
			return err
		}
	}
	return e.WriteInt32Array("", m.Dimensions)
}
