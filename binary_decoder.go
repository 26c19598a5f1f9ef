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
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// BinaryDecoder decodes the OPC UA compact binary format from a positioned
// byte slice. Reads past the end of the data fail with a decoding error.
type BinaryDecoder struct {
	ctx  *EncodingContext
	data []byte
	pos  int
}

// NewBinaryDecoder creates a binary decoder over data.
func NewBinaryDecoder(ctx *EncodingContext, data []byte) *BinaryDecoder {
	return &BinaryDecoder{ctx: ctx, data: data}
}

// Reset points the decoder at new data so the instance can be reused.
func (d *BinaryDecoder) Reset(data []byte) {
	d.data = data
	d.pos = 0
}

// Remaining returns the number of unread bytes.
func (d *BinaryDecoder) Remaining() int {
	return len(d.data) - d.pos
}

func (d *BinaryDecoder) require(n int) error {
	if d.pos+n > len(d.data) {
		return fmt.Errorf("%w: unexpected end of data at offset %d (need %d bytes)", ErrDecoding, d.pos, n)
	}
	return nil
}

// ReadBoolean reads a boolean value.
func (d *BinaryDecoder) ReadBoolean(_ string) (bool, error) {
	b, err := d.ReadByte("")
	return b != 0, err
}

// ReadSByte reads a signed byte value.
func (d *BinaryDecoder) ReadSByte(_ string) (int8, error) {
	b, err := d.ReadByte("")
	return int8(b), err
}

// ReadByte reads a byte value.
func (d *BinaryDecoder) ReadByte(_ string) (uint8, error) {
	if err := d.require(1); err != nil {
		return 0, err
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

// ReadInt16 reads an int16 value.
func (d *BinaryDecoder) ReadInt16(_ string) (int16, error) {
	v, err := d.ReadUInt16("")
	return int16(v), err
}

// ReadUInt16 reads a uint16 value.
func (d *BinaryDecoder) ReadUInt16(_ string) (uint16, error) {
	if err := d.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

// ReadInt32 reads an int32 value.
func (d *BinaryDecoder) ReadInt32(_ string) (int32, error) {
	v, err := d.ReadUInt32("")
	return int32(v), err
}

// ReadUInt32 reads a uint32 value.
func (d *BinaryDecoder) ReadUInt32(_ string) (uint32, error) {
	if err := d.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

// ReadInt64 reads an int64 value.
func (d *BinaryDecoder) ReadInt64(_ string) (int64, error) {
	v, err := d.ReadUInt64("")
	return int64(v), err
}

// ReadUInt64 reads a uint64 value.
func (d *BinaryDecoder) ReadUInt64(_ string) (uint64, error) {
	if err := d.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

// ReadFloat reads a float32 value.
func (d *BinaryDecoder) ReadFloat(_ string) (float32, error) {
	v, err := d.ReadUInt32("")
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadDouble reads a float64 value.
func (d *BinaryDecoder) ReadDouble(_ string) (float64, error) {
	v, err := d.ReadUInt64("")
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadString reads a length-prefixed string; the -1 sentinel decodes to the
// empty string.
func (d *BinaryDecoder) ReadString(_ string) (string, error) {
	length, err := d.ReadInt32("")
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", nil
	}
	if err := d.require(int(length)); err != nil {
		return "", fmt.Errorf("%w: string truncated", ErrDecoding)
	}
	v := string(d.data[d.pos : d.pos+int(length)])
	d.pos += int(length)
	return v, nil
}

// ReadDateTime reads a DateTime encoded as 100-nanosecond ticks since
// 1601, clamping out-of-range tick counts to the representable bounds.
func (d *BinaryDecoder) ReadDateTime(_ string) (time.Time, error) {
	ticks, err := d.ReadInt64("")
	if err != nil {
		return time.Time{}, err
	}
	if ticks <= 0 {
		return dateTimeMin, nil
	}
	if ticks >= maxDateTimeTicks {
		return dateTimeMax, nil
	}
	ticks -= ticks1601
	return time.Unix(ticks/ticksPerSecond, (ticks%ticksPerSecond)*100).UTC(), nil
}

// ReadGUID reads a GUID value.
func (d *BinaryDecoder) ReadGUID(_ string) (uuid.UUID, error) {
	var guid uuid.UUID
	if err := d.require(16); err != nil {
		return guid, fmt.Errorf("%w: GUID truncated", ErrDecoding)
	}
	binary.BigEndian.PutUint32(guid[0:4], binary.LittleEndian.Uint32(d.data[d.pos:]))
	binary.BigEndian.PutUint16(guid[4:6], binary.LittleEndian.Uint16(d.data[d.pos+4:]))
	binary.BigEndian.PutUint16(guid[6:8], binary.LittleEndian.Uint16(d.data[d.pos+6:]))
	copy(guid[8:16], d.data[d.pos+8:d.pos+16])
	d.pos += 16
	return guid, nil
}

// ReadByteString reads a length-prefixed byte string; the -1 sentinel
// decodes to nil.
func (d *BinaryDecoder) ReadByteString(_ string) ([]byte, error) {
	length, err := d.ReadInt32("")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, nil
	}
	if err := d.require(int(length)); err != nil {
		return nil, fmt.Errorf("%w: byte string truncated", ErrDecoding)
	}
	v := make([]byte, length)
	copy(v, d.data[d.pos:d.pos+int(length)])
	d.pos += int(length)
	return v, nil
}

// ReadXMLElement reads an XML fragment carried as a byte string.
func (d *BinaryDecoder) ReadXMLElement(_ string) (XMLElement, error) {
	raw, err := d.ReadByteString("")
	return XMLElement(raw), err
}

// ReadNodeID reads a NodeID value.
func (d *BinaryDecoder) ReadNodeID(_ string) (NodeID, error) {
	n, _, err := d.readNodeIDMasked()
	return n, err
}

func (d *BinaryDecoder) readNodeIDMasked() (NodeID, uint8, error) {
	encodingByte, err := d.ReadByte("")
	if err != nil {
		return NodeID{}, 0, err
	}
	mask := encodingByte & 0xC0

	switch encodingByte & 0x3F {
	case 0x00: // two-byte numeric
		id, err := d.ReadByte("")
		if err != nil {
			return NodeID{}, 0, err
		}
		return NewNumericNodeID(0, uint32(id)), mask, nil
	case 0x01: // four-byte numeric
		ns, err := d.ReadByte("")
		if err != nil {
			return NodeID{}, 0, err
		}
		id, err := d.ReadUInt16("")
		if err != nil {
			return NodeID{}, 0, err
		}
		return NewNumericNodeID(uint16(ns), uint32(id)), mask, nil
	case 0x02: // numeric
		ns, err := d.ReadUInt16("")
		if err != nil {
			return NodeID{}, 0, err
		}
		id, err := d.ReadUInt32("")
		if err != nil {
			return NodeID{}, 0, err
		}
		return NewNumericNodeID(ns, id), mask, nil
	case 0x03: // string
		ns, err := d.ReadUInt16("")
		if err != nil {
			return NodeID{}, 0, err
		}
		s, err := d.ReadString("")
		if err != nil {
			return NodeID{}, 0, err
		}
		return NewStringNodeID(ns, s), mask, nil
	case 0x04: // GUID
		ns, err := d.ReadUInt16("")
		if err != nil {
			return NodeID{}, 0, err
		}
		g, err := d.ReadGUID("")
		if err != nil {
			return NodeID{}, 0, err
		}
		return NewGUIDNodeID(ns, g), mask, nil
	case 0x05: // opaque
		ns, err := d.ReadUInt16("")
		if err != nil {
			return NodeID{}, 0, err
		}
		b, err := d.ReadByteString("")
		if err != nil {
			return NodeID{}, 0, err
		}
		return NewOpaqueNodeID(ns, b), mask, nil
	default:
		return NodeID{}, 0, fmt.Errorf("%w: unknown NodeID encoding 0x%02X", ErrDecoding, encodingByte&0x3F)
	}
}

// ReadExpandedNodeID reads an ExpandedNodeID value.
func (d *BinaryDecoder) ReadExpandedNodeID(_ string) (ExpandedNodeID, error) {
	n, mask, err := d.readNodeIDMasked()
	if err != nil {
		return ExpandedNodeID{}, err
	}
	e := ExpandedNodeID{NodeID: n}
	if mask&0x80 != 0 {
		e.NamespaceURI, err = d.ReadString("")
		if err != nil {
			return ExpandedNodeID{}, err
		}
	}
	if mask&0x40 != 0 {
		e.ServerIndex, err = d.ReadUInt32("")
		if err != nil {
			return ExpandedNodeID{}, err
		}
	}
	return e, nil
}

// ReadStatusCode reads a StatusCode value.
func (d *BinaryDecoder) ReadStatusCode(_ string) (StatusCode, error) {
	v, err := d.ReadUInt32("")
	return StatusCode(v), err
}

// ReadQualifiedName reads a QualifiedName value.
func (d *BinaryDecoder) ReadQualifiedName(_ string) (QualifiedName, error) {
	ns, err := d.ReadUInt16("")
	if err != nil {
		return QualifiedName{}, err
	}
	name, err := d.ReadString("")
	if err != nil {
		return QualifiedName{}, err
	}
	return QualifiedName{NamespaceIndex: ns, Name: name}, nil
}

// ReadLocalizedText reads a LocalizedText value.
func (d *BinaryDecoder) ReadLocalizedText(_ string) (LocalizedText, error) {
	mask, err := d.ReadByte("")
	if err != nil {
		return LocalizedText{}, err
	}
	var lt LocalizedText
	if mask&0x01 != 0 {
		lt.Locale, err = d.ReadString("")
		if err != nil {
			return LocalizedText{}, err
		}
	}
	if mask&0x02 != 0 {
		lt.Text, err = d.ReadString("")
		if err != nil {
			return LocalizedText{}, err
		}
	}
	return lt, nil
}

// ReadVariant reads a Variant value. Arrays decode to typed slices and a
// dimensioned array decodes to a *Matrix, validated against the shape
// invariant.
func (d *BinaryDecoder) ReadVariant(_ string) (Variant, error) {
	mask, err := d.ReadByte("")
	if err != nil {
		return Variant{}, err
	}
	typeID := TypeID(mask & 0x3F)
	if mask == 0 {
		return Variant{}, nil
	}

	if mask&0x80 == 0 {
		value, err := d.readVariantScalar(typeID)
		if err != nil {
			return Variant{}, err
		}
		return Variant{Type: typeID, Value: value}, nil
	}

	length, err := d.ReadInt32("")
	if err != nil {
		return Variant{}, err
	}
	var elems []interface{}
	if length >= 0 {
		elems = make([]interface{}, length)
		for i := range elems {
			if elems[i], err = d.readVariantScalar(typeID); err != nil {
				return Variant{}, err
			}
		}
	}

	if mask&0x40 != 0 {
		dims, err := d.ReadInt32Array("")
		if err != nil {
			return Variant{}, err
		}
		m := &Matrix{Type: typeID, Values: elems, Dimensions: dims}
		if err := m.Validate(); err != nil {
			return Variant{}, err
		}
		return Variant{Type: typeID, Value: m}, nil
	}

	if elems == nil {
		return Variant{Type: typeID, Value: []interface{}(nil)}, nil
	}
	return Variant{Type: typeID, Value: typedVariantSlice(typeID, elems)}, nil
}

func (d *BinaryDecoder) readVariantScalar(t TypeID) (interface{}, error) {
	switch t {
	case TypeNull:
		return nil, nil
	case TypeBoolean:
		return d.ReadBoolean("")
	case TypeSByte:
		return d.ReadSByte("")
	case TypeByte:
		return d.ReadByte("")
	case TypeInt16:
		return d.ReadInt16("")
	case TypeUInt16:
		return d.ReadUInt16("")
	case TypeInt32:
		return d.ReadInt32("")
	case TypeUInt32:
		return d.ReadUInt32("")
	case TypeInt64:
		return d.ReadInt64("")
	case TypeUInt64:
		return d.ReadUInt64("")
	case TypeFloat:
		return d.ReadFloat("")
	case TypeDouble:
		return d.ReadDouble("")
	case TypeString:
		return d.ReadString("")
	case TypeDateTime:
		return d.ReadDateTime("")
	case TypeGUID:
		return d.ReadGUID("")
	case TypeByteString:
		return d.ReadByteString("")
	case TypeXMLElement:
		return d.ReadXMLElement("")
	case TypeNodeID:
		return d.ReadNodeID("")
	case TypeExpandedNodeID:
		return d.ReadExpandedNodeID("")
	case TypeStatusCode:
		return d.ReadStatusCode("")
	case TypeQualifiedName:
		return d.ReadQualifiedName("")
	case TypeLocalizedText:
		return d.ReadLocalizedText("")
	case TypeExtensionObject:
		return d.ReadExtensionObject("")
	case TypeVariant:
		return d.ReadVariant("")
	case TypeDataValue:
		return d.ReadDataValue("")
	default:
		return nil, fmt.Errorf("%w: unsupported variant type %d", ErrDecoding, t)
	}
}

// ReadDataValue reads a DataValue value.
func (d *BinaryDecoder) ReadDataValue(_ string) (DataValue, error) {
	mask, err := d.ReadByte("")
	if err != nil {
		return DataValue{}, err
	}
	var dv DataValue
	if mask&0x01 != 0 {
		v, err := d.ReadVariant("")
		if err != nil {
			return DataValue{}, err
		}
		dv.Value = &v
	}
	if mask&0x02 != 0 {
		if dv.StatusCode, err = d.ReadStatusCode(""); err != nil {
			return DataValue{}, err
		}
	}
	if mask&0x04 != 0 {
		if dv.SourceTimestamp, err = d.ReadDateTime(""); err != nil {
			return DataValue{}, err
		}
	}
	if mask&0x10 != 0 {
		if dv.SourcePicoseconds, err = d.ReadUInt16(""); err != nil {
			return DataValue{}, err
		}
	}
	if mask&0x08 != 0 {
		if dv.ServerTimestamp, err = d.ReadDateTime(""); err != nil {
			return DataValue{}, err
		}
	}
	if mask&0x20 != 0 {
		if dv.ServerPicoseconds, err = d.ReadUInt16(""); err != nil {
			return DataValue{}, err
		}
	}
	return dv, nil
}

// ReadExtensionObject reads an ExtensionObject. When a codec is registered
// under the carried binary encoding id the body is decoded through it;
// otherwise the raw body is kept.
func (d *BinaryDecoder) ReadExtensionObject(_ string) (ExtensionObject, error) {
	typeID, err := d.ReadNodeID("")
	if err != nil {
		return ExtensionObject{}, err
	}
	encoding, err := d.ReadByte("")
	if err != nil {
		return ExtensionObject{}, err
	}
	eo := ExtensionObject{
		TypeID:   NewExpandedNodeID(typeID),
		Encoding: ExtensionObjectEncoding(encoding),
	}
	switch ExtensionObjectEncoding(encoding) {
	case ExtensionObjectEmpty:
		return eo, nil
	case ExtensionObjectByteString:
		raw, err := d.ReadByteString("")
		if err != nil {
			return ExtensionObject{}, err
		}
		if codec, ok := d.ctx.Registry.LookupAny(typeID); ok {
			nested := NewBinaryDecoder(d.ctx, raw)
			body, err := codec.Decode(d.ctx, nested)
			if err != nil {
				return ExtensionObject{}, err
			}
			eo.Body = body
			return eo, nil
		}
		eo.Body = raw
		return eo, nil
	case ExtensionObjectXML:
		body, err := d.ReadXMLElement("")
		if err != nil {
			return ExtensionObject{}, err
		}
		eo.Body = body
		return eo, nil
	default:
		return ExtensionObject{}, fmt.Errorf("%w: unknown ExtensionObject encoding %d", ErrDecoding, encoding)
	}
}

// ReadEnum reads the wire integer representation of an enumerated value.
// The symbolic name is not carried by the binary format.
func (d *BinaryDecoder) ReadEnum(_ string) (EnumValue, error) {
	v, err := d.ReadInt32("")
	return EnumValue{Value: v}, err
}

// ReadStruct dispatches decoding of a structured value through the codec
// registry.
func (d *BinaryDecoder) ReadStruct(_ string, typeID NodeID) (interface{}, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	return codec.Decode(d.ctx, d)
}

func readArray[T any](d *BinaryDecoder, elem func() (T, error)) ([]T, error) {
	length, err := d.ReadInt32("")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, nil
	}
	if int(length) > d.Remaining() {
		return nil, fmt.Errorf("%w: array length %d exceeds remaining data", ErrDecoding, length)
	}
	out := make([]T, length)
	for i := range out {
		if out[i], err = elem(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadBooleanArray reads a boolean array.
func (d *BinaryDecoder) ReadBooleanArray(_ string) ([]bool, error) {
	return readArray(d, func() (bool, error) { return d.ReadBoolean("") })
}

// ReadSByteArray reads a signed byte array.
func (d *BinaryDecoder) ReadSByteArray(_ string) ([]int8, error) {
	return readArray(d, func() (int8, error) { return d.ReadSByte("") })
}

// ReadByteArray reads a byte array.
func (d *BinaryDecoder) ReadByteArray(_ string) ([]uint8, error) {
	return readArray(d, func() (uint8, error) { return d.ReadByte("") })
}

// ReadInt16Array reads an int16 array.
func (d *BinaryDecoder) ReadInt16Array(_ string) ([]int16, error) {
	return readArray(d, func() (int16, error) { return d.ReadInt16("") })
}

// ReadUInt16Array reads a uint16 array.
func (d *BinaryDecoder) ReadUInt16Array(_ string) ([]uint16, error) {
	return readArray(d, func() (uint16, error) { return d.ReadUInt16("") })
}

// ReadInt32Array reads an int32 array.
func (d *BinaryDecoder) ReadInt32Array(_ string) ([]int32, error) {
	return readArray(d, func() (int32, error) { return d.ReadInt32("") })
}

// ReadUInt32Array reads a uint32 array.
func (d *BinaryDecoder) ReadUInt32Array(_ string) ([]uint32, error) {
	return readArray(d, func() (uint32, error) { return d.ReadUInt32("") })
}

// ReadInt64Array reads an int64 array.
func (d *BinaryDecoder) ReadInt64Array(_ string) ([]int64, error) {
	return readArray(d, func() (int64, error) { return d.ReadInt64("") })
}

// ReadUInt64Array reads a uint64 array.
func (d *BinaryDecoder) ReadUInt64Array(_ string) ([]uint64, error) {
	return readArray(d, func() (uint64, error) { return d.ReadUInt64("") })
}

// ReadFloatArray reads a float32 array.
func (d *BinaryDecoder) ReadFloatArray(_ string) ([]float32, error) {
	return readArray(d, func() (float32, error) { return d.ReadFloat("") })
}

// ReadDoubleArray reads a float64 array.
func (d *BinaryDecoder) ReadDoubleArray(_ string) ([]float64, error) {
	return readArray(d, func() (float64, error) { return d.ReadDouble("") })
}

// ReadStringArray reads a string array.
func (d *BinaryDecoder) ReadStringArray(_ string) ([]string, error) {
	return readArray(d, func() (string, error) { return d.ReadString("") })
}

// ReadDateTimeArray reads a DateTime array.
func (d *BinaryDecoder) ReadDateTimeArray(_ string) ([]time.Time, error) {
	return readArray(d, func() (time.Time, error) { return d.ReadDateTime("") })
}

// ReadGUIDArray reads a GUID array.
func (d *BinaryDecoder) ReadGUIDArray(_ string) ([]uuid.UUID, error) {
	return readArray(d, func() (uuid.UUID, error) { return d.ReadGUID("") })
}

// ReadByteStringArray reads a byte-string array.
func (d *BinaryDecoder) ReadByteStringArray(_ string) ([][]byte, error) {
	return readArray(d, func() ([]byte, error) { return d.ReadByteString("") })
}

// ReadXMLElementArray reads an XML fragment array.
func (d *BinaryDecoder) ReadXMLElementArray(_ string) ([]XMLElement, error) {
	return readArray(d, func() (XMLElement, error) { return d.ReadXMLElement("") })
}

// ReadNodeIDArray reads a NodeID array.
func (d *BinaryDecoder) ReadNodeIDArray(_ string) ([]NodeID, error) {
	return readArray(d, func() (NodeID, error) { return d.ReadNodeID("") })
}

// ReadExpandedNodeIDArray reads an ExpandedNodeID array.
func (d *BinaryDecoder) ReadExpandedNodeIDArray(_ string) ([]ExpandedNodeID, error) {
	return readArray(d, func() (ExpandedNodeID, error) { return d.ReadExpandedNodeID("") })
}

// ReadStatusCodeArray reads a StatusCode array.
func (d *BinaryDecoder) ReadStatusCodeArray(_ string) ([]StatusCode, error) {
	return readArray(d, func() (StatusCode, error) { return d.ReadStatusCode("") })
}

// ReadQualifiedNameArray reads a QualifiedName array.
func (d *BinaryDecoder) ReadQualifiedNameArray(_ string) ([]QualifiedName, error) {
	return readArray(d, func() (QualifiedName, error) { return d.ReadQualifiedName("") })
}

// ReadLocalizedTextArray reads a LocalizedText array.
func (d *BinaryDecoder) ReadLocalizedTextArray(_ string) ([]LocalizedText, error) {
	return readArray(d, func() (LocalizedText, error) { return d.ReadLocalizedText("") })
}

// ReadVariantArray reads a Variant array.
func (d *BinaryDecoder) ReadVariantArray(_ string) ([]Variant, error) {
	return readArray(d, func() (Variant, error) { return d.ReadVariant("") })
}

// ReadDataValueArray reads a DataValue array.
func (d *BinaryDecoder) ReadDataValueArray(_ string) ([]DataValue, error) {
	return readArray(d, func() (DataValue, error) { return d.ReadDataValue("") })
}

// ReadExtensionObjectArray reads an ExtensionObject array.
func (d *BinaryDecoder) ReadExtensionObjectArray(_ string) ([]ExtensionObject, error) {
	return readArray(d, func() (ExtensionObject, error) { return d.ReadExtensionObject("") })
}

// ReadEnumArray reads an enumerated-value array.
func (d *BinaryDecoder) ReadEnumArray(_ string) ([]EnumValue, error) {
	return readArray(d, func() (EnumValue, error) { return d.ReadEnum("") })
}

// ReadStructArray reads a structured-value array through the registry.
func (d *BinaryDecoder) ReadStructArray(_ string, typeID NodeID) ([]interface{}, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	return readArray(d, func() (interface{}, error) { return codec.Decode(d.ctx, d) })
}

// ReadMatrix reads a flattened value sequence and a dimensions vector and
// validates the shape invariant. The element type comes from the field
// definition since the wire carries no type marker outside a Variant.
func (d *BinaryDecoder) ReadMatrix(_ string, t TypeID) (*Matrix, error) {
	m, err := d.readMatrixWith(func() (interface{}, error) { return d.readVariantScalar(t) })
	if err != nil {
		return nil, err
	}
	m.Type = t
	return m, nil
}

// ReadStructMatrix reads a matrix of structured values through the
// registry.
func (d *BinaryDecoder) ReadStructMatrix(_ string, typeID NodeID) (*Matrix, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	m, err := d.readMatrixWith(func() (interface{}, error) { return codec.Decode(d.ctx, d) })
	if err != nil {
		return nil, err
	}
	m.Type = TypeExtensionObject
	return m, nil
}

func (d *BinaryDecoder) readMatrixWith(elem func() (interface{}, error)) (*Matrix, error) {
	values, err := readArray(d, elem)
	if err != nil {
		return nil, err
	}
	dims, err := d.ReadInt32Array("")
	if err != nil {
		return nil, err
	}
	m := &Matrix{Values: values, Dimensions: dims}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
