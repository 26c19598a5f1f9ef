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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JSONDecoder decodes OPC UA JSON previously produced in reversible mode.
// A missing field decodes to the type's null or zero value; malformed
// values are decoding errors.
type JSONDecoder struct {
	ctx    *EncodingContext
	frames []*jsonDecFrame
}

type jsonDecFrame struct {
	obj  map[string]interface{}
	val  interface{}
	used bool
}

// NewJSONDecoder parses data and creates a decoder positioned at the
// document root. Numbers are kept in their textual form until a typed read
// interprets them, so 64-bit values do not lose precision.
func NewJSONDecoder(ctx *EncodingContext, data []byte) (*JSONDecoder, error) {
	d := &JSONDecoder{ctx: ctx}
	if err := d.Reset(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset re-points the decoder at a new document.
func (d *JSONDecoder) Reset(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return fmt.Errorf("%w: malformed JSON: %s", ErrDecoding, err)
	}
	d.frames = []*jsonDecFrame{{val: root}}
	return nil
}

func (d *JSONDecoder) push(f *jsonDecFrame) {
	d.frames = append(d.frames, f)
}

func (d *JSONDecoder) pop() {
	d.frames = d.frames[:len(d.frames)-1]
}

// take locates the value for a field: a keyed lookup inside an object
// frame, or the frame's own value for an anonymous read.
func (d *JSONDecoder) take(field string) (interface{}, bool) {
	top := d.frames[len(d.frames)-1]
	if top.obj != nil {
		v, ok := top.obj[field]
		return v, ok
	}
	if top.used {
		return nil, false
	}
	top.used = true
	return top.val, true
}

func jsonParseInt(v interface{}, bits int) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, bits)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid integer %q", ErrDecoding, n.String())
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(n, 10, bits)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid integer %q", ErrDecoding, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrDecoding, v)
	}
}

func jsonParseUint(v interface{}, bits int) (uint64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		i, err := strconv.ParseUint(n.String(), 10, bits)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid unsigned integer %q", ErrDecoding, n.String())
		}
		return i, nil
	case string:
		i, err := strconv.ParseUint(n, 10, bits)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid unsigned integer %q", ErrDecoding, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: expected unsigned integer, got %T", ErrDecoding, v)
	}
}

func jsonParseFloat(v interface{}, bits int) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), bits)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid floating point %q", ErrDecoding, n.String())
		}
		return f, nil
	case string:
		switch n {
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		case "NaN":
			return math.NaN(), nil
		}
		return 0, fmt.Errorf("%w: invalid floating point %q", ErrDecoding, n)
	default:
		return 0, fmt.Errorf("%w: expected number, got %T", ErrDecoding, v)
	}
}

func jsonParseString(v interface{}) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("%w: expected string, got %T", ErrDecoding, v)
	}
}

func jsonParseObject(v interface{}) (map[string]interface{}, error) {
	switch o := v.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return o, nil
	default:
		return nil, fmt.Errorf("%w: expected object, got %T", ErrDecoding, v)
	}
}

func jsonParseSlice(v interface{}) ([]interface{}, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		return a, nil
	default:
		return nil, fmt.Errorf("%w: expected array, got %T", ErrDecoding, v)
	}
}

// ReadBoolean reads a boolean value.
func (d *JSONDecoder) ReadBoolean(field string) (bool, error) {
	v, ok := d.take(field)
	if !ok || v == nil {
		return false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, fmt.Errorf("%w: expected boolean, got %T", ErrDecoding, v)
	}
	return b, nil
}

// ReadSByte reads a signed byte value.
func (d *JSONDecoder) ReadSByte(field string) (int8, error) {
	v, _ := d.take(field)
	n, err := jsonParseInt(v, 8)
	return int8(n), err
}

// ReadByte reads a byte value.
func (d *JSONDecoder) ReadByte(field string) (uint8, error) {
	v, _ := d.take(field)
	n, err := jsonParseUint(v, 8)
	return uint8(n), err
}

// ReadInt16 reads an int16 value.
func (d *JSONDecoder) ReadInt16(field string) (int16, error) {
	v, _ := d.take(field)
	n, err := jsonParseInt(v, 16)
	return int16(n), err
}

// ReadUInt16 reads a uint16 value.
func (d *JSONDecoder) ReadUInt16(field string) (uint16, error) {
	v, _ := d.take(field)
	n, err := jsonParseUint(v, 16)
	return uint16(n), err
}

// ReadInt32 reads an int32 value.
func (d *JSONDecoder) ReadInt32(field string) (int32, error) {
	v, _ := d.take(field)
	n, err := jsonParseInt(v, 32)
	return int32(n), err
}

// ReadUInt32 reads a uint32 value.
func (d *JSONDecoder) ReadUInt32(field string) (uint32, error) {
	v, _ := d.take(field)
	n, err := jsonParseUint(v, 32)
	return uint32(n), err
}

// ReadInt64 reads an int64 value from its decimal string form.
func (d *JSONDecoder) ReadInt64(field string) (int64, error) {
	v, _ := d.take(field)
	return jsonParseInt(v, 64)
}

// ReadUInt64 reads a uint64 value from its decimal string form.
func (d *JSONDecoder) ReadUInt64(field string) (uint64, error) {
	v, _ := d.take(field)
	return jsonParseUint(v, 64)
}

// ReadFloat reads a float32 value.
func (d *JSONDecoder) ReadFloat(field string) (float32, error) {
	v, _ := d.take(field)
	f, err := jsonParseFloat(v, 32)
	return float32(f), err
}

// ReadDouble reads a float64 value.
func (d *JSONDecoder) ReadDouble(field string) (float64, error) {
	v, _ := d.take(field)
	return jsonParseFloat(v, 64)
}

// ReadString reads a string value.
func (d *JSONDecoder) ReadString(field string) (string, error) {
	v, _ := d.take(field)
	return jsonParseString(v)
}

func jsonParseDateTime(v interface{}) (time.Time, error) {
	s, err := jsonParseString(v)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(xmlDateTimeFormat, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid DateTime %q", ErrDecoding, s)
	}
	return clampDateTime(t), nil
}

// ReadDateTime reads a DateTime value, clamping out-of-range timestamps.
func (d *JSONDecoder) ReadDateTime(field string) (time.Time, error) {
	v, _ := d.take(field)
	return jsonParseDateTime(v)
}

func jsonParseGUID(v interface{}) (uuid.UUID, error) {
	s, err := jsonParseString(v)
	if err != nil || s == "" {
		return uuid.UUID{}, err
	}
	g, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: invalid GUID %q", ErrDecoding, s)
	}
	return g, nil
}

// ReadGUID reads a GUID value.
func (d *JSONDecoder) ReadGUID(field string) (uuid.UUID, error) {
	v, _ := d.take(field)
	return jsonParseGUID(v)
}

func jsonParseByteString(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	s, err := jsonParseString(v)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Base64: %s", ErrDecoding, err)
	}
	return b, nil
}

// ReadByteString reads a byte string from Base64 text. A null value
// decodes to nil.
func (d *JSONDecoder) ReadByteString(field string) ([]byte, error) {
	v, _ := d.take(field)
	return jsonParseByteString(v)
}

// ReadXMLElement reads an XML fragment carried as a string.
func (d *JSONDecoder) ReadXMLElement(field string) (XMLElement, error) {
	v, _ := d.take(field)
	s, err := jsonParseString(v)
	return XMLElement(s), err
}

func (d *JSONDecoder) jsonParseNodeID(v interface{}) (NodeID, error) {
	s, err := jsonParseString(v)
	if err != nil || s == "" {
		return NodeID{}, err
	}
	return ParseNodeID(s, d.ctx.Namespaces)
}

// ReadNodeID reads a NodeID from its textual form.
func (d *JSONDecoder) ReadNodeID(field string) (NodeID, error) {
	v, _ := d.take(field)
	return d.jsonParseNodeID(v)
}

func jsonParseExpandedNodeID(v interface{}) (ExpandedNodeID, error) {
	s, err := jsonParseString(v)
	if err != nil || s == "" {
		return ExpandedNodeID{}, err
	}
	return ParseExpandedNodeID(s)
}

// ReadExpandedNodeID reads an ExpandedNodeID from its textual form.
func (d *JSONDecoder) ReadExpandedNodeID(field string) (ExpandedNodeID, error) {
	v, _ := d.take(field)
	return jsonParseExpandedNodeID(v)
}

func jsonParseStatusCode(v interface{}) (StatusCode, error) {
	n, err := jsonParseUint(v, 32)
	return StatusCode(n), err
}

// ReadStatusCode reads a StatusCode value.
func (d *JSONDecoder) ReadStatusCode(field string) (StatusCode, error) {
	v, _ := d.take(field)
	return jsonParseStatusCode(v)
}

func jsonParseQualifiedName(v interface{}) (QualifiedName, error) {
	obj, err := jsonParseObject(v)
	if err != nil || obj == nil {
		return QualifiedName{}, err
	}
	var qn QualifiedName
	if qn.Name, err = jsonParseString(obj["Name"]); err != nil {
		return QualifiedName{}, err
	}
	ns, err := jsonParseUint(obj["Uri"], 16)
	if err != nil {
		return QualifiedName{}, err
	}
	qn.NamespaceIndex = uint16(ns)
	return qn, nil
}

// ReadQualifiedName reads a QualifiedName value.
func (d *JSONDecoder) ReadQualifiedName(field string) (QualifiedName, error) {
	v, _ := d.take(field)
	return jsonParseQualifiedName(v)
}

func jsonParseLocalizedText(v interface{}) (LocalizedText, error) {
	obj, err := jsonParseObject(v)
	if err != nil || obj == nil {
		return LocalizedText{}, err
	}
	var lt LocalizedText
	if lt.Locale, err = jsonParseString(obj["Locale"]); err != nil {
		return LocalizedText{}, err
	}
	if lt.Text, err = jsonParseString(obj["Text"]); err != nil {
		return LocalizedText{}, err
	}
	return lt, nil
}

// ReadLocalizedText reads a LocalizedText value.
func (d *JSONDecoder) ReadLocalizedText(field string) (LocalizedText, error) {
	v, _ := d.take(field)
	return jsonParseLocalizedText(v)
}

// ReadVariant reads a Variant from its reversible Type/Body/Dimensions
// object form.
func (d *JSONDecoder) ReadVariant(field string) (Variant, error) {
	v, _ := d.take(field)
	return d.jsonParseVariant(v)
}

func (d *JSONDecoder) jsonParseVariant(v interface{}) (Variant, error) {
	if v == nil {
		return Variant{}, nil
	}
	obj, err := jsonParseObject(v)
	if err != nil {
		return Variant{}, err
	}
	tn, err := jsonParseUint(obj["Type"], 8)
	if err != nil {
		return Variant{}, err
	}
	t := TypeID(tn)
	if t == TypeNull {
		return Variant{}, nil
	}
	body := obj["Body"]

	if dimsRaw, hasDims := obj["Dimensions"]; hasDims {
		dims, err := d.jsonParseInt32Slice(dimsRaw)
		if err != nil {
			return Variant{}, err
		}
		elemsRaw, err := jsonParseSlice(body)
		if err != nil {
			return Variant{}, err
		}
		values := make([]interface{}, len(elemsRaw))
		for i, raw := range elemsRaw {
			if values[i], err = d.jsonParseVariantScalar(t, raw); err != nil {
				return Variant{}, err
			}
		}
		m := &Matrix{Type: t, Values: values, Dimensions: dims}
		if err := m.Validate(); err != nil {
			return Variant{}, err
		}
		return Variant{Type: t, Value: m}, nil
	}

	if elemsRaw, isArray := body.([]interface{}); isArray {
		elems := make([]interface{}, len(elemsRaw))
		for i, raw := range elemsRaw {
			if elems[i], err = d.jsonParseVariantScalar(t, raw); err != nil {
				return Variant{}, err
			}
		}
		return Variant{Type: t, Value: typedVariantSlice(t, elems)}, nil
	}

	value, err := d.jsonParseVariantScalar(t, body)
	if err != nil {
		return Variant{}, err
	}
	return Variant{Type: t, Value: value}, nil
}

func (d *JSONDecoder) jsonParseInt32Slice(v interface{}) ([]int32, error) {
	raw, err := jsonParseSlice(v)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make([]int32, len(raw))
	for i, e := range raw {
		n, err := jsonParseInt(e, 32)
		if err != nil {
			return nil, err
		}
		out[i] = int32(n)
	}
	return out, nil
}

func (d *JSONDecoder) jsonParseVariantScalar(t TypeID, v interface{}) (interface{}, error) {
	switch t {
	case TypeBoolean:
		if v == nil {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expected boolean, got %T", ErrDecoding, v)
		}
		return b, nil
	case TypeSByte:
		n, err := jsonParseInt(v, 8)
		return int8(n), err
	case TypeByte:
		n, err := jsonParseUint(v, 8)
		return uint8(n), err
	case TypeInt16:
		n, err := jsonParseInt(v, 16)
		return int16(n), err
	case TypeUInt16:
		n, err := jsonParseUint(v, 16)
		return uint16(n), err
	case TypeInt32:
		n, err := jsonParseInt(v, 32)
		return int32(n), err
	case TypeUInt32:
		n, err := jsonParseUint(v, 32)
		return uint32(n), err
	case TypeInt64:
		return jsonParseInt(v, 64)
	case TypeUInt64:
		return jsonParseUint(v, 64)
	case TypeFloat:
		f, err := jsonParseFloat(v, 32)
		return float32(f), err
	case TypeDouble:
		return jsonParseFloat(v, 64)
	case TypeString:
		return jsonParseString(v)
	case TypeDateTime:
		return jsonParseDateTime(v)
	case TypeGUID:
		return jsonParseGUID(v)
	case TypeByteString:
		return jsonParseByteString(v)
	case TypeXMLElement:
		s, err := jsonParseString(v)
		return XMLElement(s), err
	case TypeNodeID:
		return d.jsonParseNodeID(v)
	case TypeExpandedNodeID:
		return jsonParseExpandedNodeID(v)
	case TypeStatusCode:
		return jsonParseStatusCode(v)
	case TypeQualifiedName:
		return jsonParseQualifiedName(v)
	case TypeLocalizedText:
		return jsonParseLocalizedText(v)
	case TypeExtensionObject:
		return d.jsonParseExtensionObject(v)
	case TypeVariant:
		return d.jsonParseVariant(v)
	case TypeDataValue:
		return d.jsonParseDataValue(v)
	default:
		return nil, fmt.Errorf("%w: unsupported variant type %d", ErrDecoding, t)
	}
}

func (d *JSONDecoder) jsonParseDataValue(v interface{}) (DataValue, error) {
	obj, err := jsonParseObject(v)
	if err != nil || obj == nil {
		return DataValue{}, err
	}
	var dv DataValue
	if raw, ok := obj["Value"]; ok {
		variant, err := d.jsonParseVariant(raw)
		if err != nil {
			return DataValue{}, err
		}
		dv.Value = &variant
	}
	if dv.StatusCode, err = jsonParseStatusCode(obj["Status"]); err != nil {
		return DataValue{}, err
	}
	if dv.SourceTimestamp, err = jsonParseDateTime(obj["SourceTimestamp"]); err != nil {
		return DataValue{}, err
	}
	sp, err := jsonParseUint(obj["SourcePicoseconds"], 16)
	if err != nil {
		return DataValue{}, err
	}
	dv.SourcePicoseconds = uint16(sp)
	if dv.ServerTimestamp, err = jsonParseDateTime(obj["ServerTimestamp"]); err != nil {
		return DataValue{}, err
	}
	pp, err := jsonParseUint(obj["ServerPicoseconds"], 16)
	if err != nil {
		return DataValue{}, err
	}
	dv.ServerPicoseconds = uint16(pp)
	return dv, nil
}

// ReadDataValue reads a DataValue value.
func (d *JSONDecoder) ReadDataValue(field string) (DataValue, error) {
	v, _ := d.take(field)
	return d.jsonParseDataValue(v)
}

func (d *JSONDecoder) jsonParseExtensionObject(v interface{}) (ExtensionObject, error) {
	obj, err := jsonParseObject(v)
	if err != nil || obj == nil {
		return ExtensionObject{}, err
	}
	typeID, err := d.jsonParseNodeID(obj["TypeId"])
	if err != nil {
		return ExtensionObject{}, err
	}
	eo := ExtensionObject{TypeID: NewExpandedNodeID(typeID)}

	encoding, err := jsonParseUint(obj["Encoding"], 8)
	if err != nil {
		return ExtensionObject{}, err
	}
	body, hasBody := obj["Body"]
	if !hasBody || body == nil {
		return eo, nil
	}

	switch encoding {
	case 1:
		raw, err := jsonParseByteString(body)
		if err != nil {
			return ExtensionObject{}, err
		}
		if codec, ok := d.ctx.Registry.LookupAny(typeID); ok {
			nested := NewBinaryDecoder(d.ctx, raw)
			decoded, err := codec.Decode(d.ctx, nested)
			if err != nil {
				return ExtensionObject{}, err
			}
			eo.Encoding = ExtensionObjectByteString
			eo.Body = decoded
			return eo, nil
		}
		eo.Encoding = ExtensionObjectByteString
		eo.Body = raw
		return eo, nil
	case 2:
		s, err := jsonParseString(body)
		if err != nil {
			return ExtensionObject{}, err
		}
		eo.Encoding = ExtensionObjectXML
		eo.Body = XMLElement(s)
		return eo, nil
	default:
		bodyObj, err := jsonParseObject(body)
		if err != nil {
			return ExtensionObject{}, err
		}
		codec, ok := d.ctx.Registry.LookupAny(typeID)
		if !ok {
			return ExtensionObject{}, fmt.Errorf("%w: %w for %s",
				ErrDecoding, ErrCodecNotFound, FormatNodeID(typeID))
		}
		d.push(&jsonDecFrame{obj: bodyObj})
		decoded, err := codec.Decode(d.ctx, d)
		d.pop()
		if err != nil {
			return ExtensionObject{}, err
		}
		eo.Body = decoded
		return eo, nil
	}
}

// ReadExtensionObject reads an ExtensionObject. A structured Body needs a
// registered codec; binary and XML bodies fall back to their raw form.
func (d *JSONDecoder) ReadExtensionObject(field string) (ExtensionObject, error) {
	v, _ := d.take(field)
	return d.jsonParseExtensionObject(v)
}

func jsonParseEnum(v interface{}) (EnumValue, error) {
	switch e := v.(type) {
	case nil:
		return EnumValue{}, nil
	case json.Number:
		n, err := strconv.ParseInt(e.String(), 10, 32)
		if err != nil {
			return EnumValue{}, fmt.Errorf("%w: invalid enumeration %q", ErrDecoding, e.String())
		}
		return EnumValue{Value: int32(n)}, nil
	case string:
		if i := strings.LastIndexByte(e, '_'); i >= 0 {
			n, err := strconv.ParseInt(e[i+1:], 10, 32)
			if err == nil {
				return EnumValue{Name: e[:i], Value: int32(n)}, nil
			}
		}
		return EnumValue{}, fmt.Errorf("%w: invalid enumeration %q", ErrDecoding, e)
	default:
		return EnumValue{}, fmt.Errorf("%w: expected enumeration, got %T", ErrDecoding, v)
	}
}

// ReadEnum reads an enumerated value.
func (d *JSONDecoder) ReadEnum(field string) (EnumValue, error) {
	v, _ := d.take(field)
	return jsonParseEnum(v)
}

// ReadStruct dispatches decoding of a structured value through the codec
// registry.
func (d *JSONDecoder) ReadStruct(field string, typeID NodeID) (interface{}, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	v, _ := d.take(field)
	obj, err := jsonParseObject(v)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	d.push(&jsonDecFrame{obj: obj})
	defer d.pop()
	return codec.Decode(d.ctx, d)
}

func readJSONArray[T any](d *JSONDecoder, field string, elem func(v interface{}) (T, error)) ([]T, error) {
	v, _ := d.take(field)
	raw, err := jsonParseSlice(v)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make([]T, len(raw))
	for i, r := range raw {
		if out[i], err = elem(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadBooleanArray reads a boolean array.
func (d *JSONDecoder) ReadBooleanArray(field string) ([]bool, error) {
	return readJSONArray(d, field, func(v interface{}) (bool, error) {
		if v == nil {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("%w: expected boolean, got %T", ErrDecoding, v)
		}
		return b, nil
	})
}

// ReadSByteArray reads a signed byte array.
func (d *JSONDecoder) ReadSByteArray(field string) ([]int8, error) {
	return readJSONArray(d, field, func(v interface{}) (int8, error) {
		n, err := jsonParseInt(v, 8)
		return int8(n), err
	})
}

// ReadByteArray reads a byte array.
func (d *JSONDecoder) ReadByteArray(field string) ([]uint8, error) {
	return readJSONArray(d, field, func(v interface{}) (uint8, error) {
		n, err := jsonParseUint(v, 8)
		return uint8(n), err
	})
}

// ReadInt16Array reads an int16 array.
func (d *JSONDecoder) ReadInt16Array(field string) ([]int16, error) {
	return readJSONArray(d, field, func(v interface{}) (int16, error) {
		n, err := jsonParseInt(v, 16)
		return int16(n), err
	})
}

// ReadUInt16Array reads a uint16 array.
func (d *JSONDecoder) ReadUInt16Array(field string) ([]uint16, error) {
	return readJSONArray(d, field, func(v interface{}) (uint16, error) {
		n, err := jsonParseUint(v, 16)
		return uint16(n), err
	})
}

// ReadInt32Array reads an int32 array.
func (d *JSONDecoder) ReadInt32Array(field string) ([]int32, error) {
	return readJSONArray(d, field, func(v interface{}) (int32, error) {
		n, err := jsonParseInt(v, 32)
		return int32(n), err
	})
}

// ReadUInt32Array reads a uint32 array.
func (d *JSONDecoder) ReadUInt32Array(field string) ([]uint32, error) {
	return readJSONArray(d, field, func(v interface{}) (uint32, error) {
		n, err := jsonParseUint(v, 32)
		return uint32(n), err
	})
}

// ReadInt64Array reads an int64 array.
func (d *JSONDecoder) ReadInt64Array(field string) ([]int64, error) {
	return readJSONArray(d, field, func(v interface{}) (int64, error) {
		return jsonParseInt(v, 64)
	})
}

// ReadUInt64Array reads a uint64 array.
func (d *JSONDecoder) ReadUInt64Array(field string) ([]uint64, error) {
	return readJSONArray(d, field, func(v interface{}) (uint64, error) {
		return jsonParseUint(v, 64)
	})
}

// ReadFloatArray reads a float32 array.
func (d *JSONDecoder) ReadFloatArray(field string) ([]float32, error) {
	return readJSONArray(d, field, func(v interface{}) (float32, error) {
		f, err := jsonParseFloat(v, 32)
		return float32(f), err
	})
}

// ReadDoubleArray reads a float64 array.
func (d *JSONDecoder) ReadDoubleArray(field string) ([]float64, error) {
	return readJSONArray(d, field, func(v interface{}) (float64, error) {
		return jsonParseFloat(v, 64)
	})
}

// ReadStringArray reads a string array.
func (d *JSONDecoder) ReadStringArray(field string) ([]string, error) {
	return readJSONArray(d, field, jsonParseString)
}

// ReadDateTimeArray reads a DateTime array.
func (d *JSONDecoder) ReadDateTimeArray(field string) ([]time.Time, error) {
	return readJSONArray(d, field, jsonParseDateTime)
}

// ReadGUIDArray reads a GUID array.
func (d *JSONDecoder) ReadGUIDArray(field string) ([]uuid.UUID, error) {
	return readJSONArray(d, field, jsonParseGUID)
}

// ReadByteStringArray reads a byte-string array.
func (d *JSONDecoder) ReadByteStringArray(field string) ([][]byte, error) {
	return readJSONArray(d, field, jsonParseByteString)
}

// ReadXMLElementArray reads an XML fragment array.
func (d *JSONDecoder) ReadXMLElementArray(field string) ([]XMLElement, error) {
	return readJSONArray(d, field, func(v interface{}) (XMLElement, error) {
		s, err := jsonParseString(v)
		return XMLElement(s), err
	})
}

// ReadNodeIDArray reads a NodeID array.
func (d *JSONDecoder) ReadNodeIDArray(field string) ([]NodeID, error) {
	return readJSONArray(d, field, d.jsonParseNodeID)
}

// ReadExpandedNodeIDArray reads an ExpandedNodeID array.
func (d *JSONDecoder) ReadExpandedNodeIDArray(field string) ([]ExpandedNodeID, error) {
	return readJSONArray(d, field, jsonParseExpandedNodeID)
}

// ReadStatusCodeArray reads a StatusCode array.
func (d *JSONDecoder) ReadStatusCodeArray(field string) ([]StatusCode, error) {
	return readJSONArray(d, field, jsonParseStatusCode)
}

// ReadQualifiedNameArray reads a QualifiedName array.
func (d *JSONDecoder) ReadQualifiedNameArray(field string) ([]QualifiedName, error) {
	return readJSONArray(d, field, jsonParseQualifiedName)
}

// ReadLocalizedTextArray reads a LocalizedText array.
func (d *JSONDecoder) ReadLocalizedTextArray(field string) ([]LocalizedText, error) {
	return readJSONArray(d, field, jsonParseLocalizedText)
}

// ReadVariantArray reads a Variant array.
func (d *JSONDecoder) ReadVariantArray(field string) ([]Variant, error) {
	return readJSONArray(d, field, d.jsonParseVariant)
}

// ReadDataValueArray reads a DataValue array.
func (d *JSONDecoder) ReadDataValueArray(field string) ([]DataValue, error) {
	return readJSONArray(d, field, d.jsonParseDataValue)
}

// ReadExtensionObjectArray reads an ExtensionObject array.
func (d *JSONDecoder) ReadExtensionObjectArray(field string) ([]ExtensionObject, error) {
	return readJSONArray(d, field, d.jsonParseExtensionObject)
}

// ReadEnumArray reads an enumerated-value array.
func (d *JSONDecoder) ReadEnumArray(field string) ([]EnumValue, error) {
	return readJSONArray(d, field, jsonParseEnum)
}

// ReadStructArray reads a structured-value array through the registry.
func (d *JSONDecoder) ReadStructArray(field string, typeID NodeID) ([]interface{}, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	return readJSONArray(d, field, func(v interface{}) (interface{}, error) {
		obj, err := jsonParseObject(v)
		if err != nil {
			return nil, err
		}
		d.push(&jsonDecFrame{obj: obj})
		defer d.pop()
		return codec.Decode(d.ctx, d)
	})
}

// ReadMatrix reads an N-dimensional array from its Dimensions and
// Elements object form. The element type comes from the field definition.
func (d *JSONDecoder) ReadMatrix(field string, t TypeID) (*Matrix, error) {
	v, _ := d.take(field)
	obj, err := jsonParseObject(v)
	if err != nil || obj == nil {
		return nil, err
	}
	return d.jsonParseMatrix(obj, func(raw interface{}) (interface{}, error) {
		return d.jsonParseVariantScalar(t, raw)
	}, t)
}

// ReadStructMatrix reads a matrix of structured values through the
// registry.
func (d *JSONDecoder) ReadStructMatrix(field string, typeID NodeID) (*Matrix, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	v, _ := d.take(field)
	obj, err := jsonParseObject(v)
	if err != nil || obj == nil {
		return nil, err
	}
	return d.jsonParseMatrix(obj, func(raw interface{}) (interface{}, error) {
		elemObj, err := jsonParseObject(raw)
		if err != nil {
			return nil, err
		}
		d.push(&jsonDecFrame{obj: elemObj})
		defer d.pop()
		return codec.Decode(d.ctx, d)
	}, TypeExtensionObject)
}

func (d *JSONDecoder) jsonParseMatrix(obj map[string]interface{}, elem func(interface{}) (interface{}, error), t TypeID) (*Matrix, error) {
	dims, err := d.jsonParseInt32Slice(obj["Dimensions"])
	if err != nil {
		return nil, err
	}
	raw, err := jsonParseSlice(obj["Elements"])
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, len(raw))
	for i, r := range raw {
		if values[i], err = elem(r); err != nil {
			return nil, err
		}
	}
	m := &Matrix{Type: t, Values: values, Dimensions: dims}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
