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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JSONEncoder encodes values as OPC UA JSON. In reversible mode type
// discriminants are kept so the output can be decoded again; non-reversible
// output renders bare bodies for display and must never be decoded.
//
// The encoder builds a value tree and serializes it on Bytes. 64-bit
// integers are rendered as decimal strings to survive JSON number
// precision limits.
type JSONEncoder struct {
	ctx           *EncodingContext
	frames        []*jsonFrame
	nonReversible bool
}

type jsonFrame struct {
	obj    map[string]interface{}
	values []interface{}
	isObj  bool
}

// JSONEncoderOption configures a JSONEncoder.
type JSONEncoderOption func(*JSONEncoder)

// JSONNonReversible switches the encoder to the non-reversible rendering:
// bare bodies without type discriminants, namespace URIs in NodeId text.
func JSONNonReversible() JSONEncoderOption {
	return func(e *JSONEncoder) {
		e.nonReversible = true
	}
}

// NewJSONEncoder creates a JSON encoder bound to ctx.
func NewJSONEncoder(ctx *EncodingContext, opts ...JSONEncoderOption) *JSONEncoder {
	e := &JSONEncoder{ctx: ctx}
	e.Reset()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset discards the value tree so the encoder can be reused.
func (e *JSONEncoder) Reset() {
	e.frames = []*jsonFrame{{}}
}

// Context returns the encoding context.
func (e *JSONEncoder) Context() *EncodingContext {
	return e.ctx
}

// Bytes serializes the encoded value tree. A single top-level value is
// rendered bare; multiple values become a JSON array.
func (e *JSONEncoder) Bytes() ([]byte, error) {
	root := e.frames[0]
	var v interface{}
	switch len(root.values) {
	case 0:
		v = nil
	case 1:
		v = root.values[0]
	default:
		v = root.values
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	return out, nil
}

func (e *JSONEncoder) put(field string, v interface{}) error {
	top := e.frames[len(e.frames)-1]
	if top.isObj {
		if field == "" {
			return fmt.Errorf("%w: anonymous field inside JSON object", ErrEncoding)
		}
		if v != nil {
			top.obj[field] = v
		}
		return nil
	}
	top.values = append(top.values, v)
	return nil
}

// encodeObject runs fn against a fresh detached object frame and returns
// the populated object.
func (e *JSONEncoder) encodeObject(fn func() error) (map[string]interface{}, error) {
	frame := &jsonFrame{obj: map[string]interface{}{}, isObj: true}
	e.frames = append(e.frames, frame)
	err := fn()
	e.frames = e.frames[:len(e.frames)-1]
	if err != nil {
		return nil, err
	}
	return frame.obj, nil
}

func jsonFloat(v float64, bits int) interface{} {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	default:
		return json.Number(strconv.FormatFloat(v, 'g', -1, bits))
	}
}

func jsonDateTime(v time.Time) string {
	return clampDateTime(v).Format(xmlDateTimeFormat)
}

// WriteBoolean writes a boolean value.
func (e *JSONEncoder) WriteBoolean(field string, v bool) error {
	return e.put(field, v)
}

// WriteSByte writes a signed byte value.
func (e *JSONEncoder) WriteSByte(field string, v int8) error {
	return e.put(field, int64(v))
}

// WriteByte writes a byte value.
func (e *JSONEncoder) WriteByte(field string, v uint8) error {
	return e.put(field, uint64(v))
}

// WriteInt16 writes an int16 value.
func (e *JSONEncoder) WriteInt16(field string, v int16) error {
	return e.put(field, int64(v))
}

// WriteUInt16 writes a uint16 value.
func (e *JSONEncoder) WriteUInt16(field string, v uint16) error {
	return e.put(field, uint64(v))
}

// WriteInt32 writes an int32 value.
func (e *JSONEncoder) WriteInt32(field string, v int32) error {
	return e.put(field, int64(v))
}

// WriteUInt32 writes a uint32 value.
func (e *JSONEncoder) WriteUInt32(field string, v uint32) error {
	return e.put(field, uint64(v))
}

// WriteInt64 writes an int64 value as a decimal string.
func (e *JSONEncoder) WriteInt64(field string, v int64) error {
	return e.put(field, strconv.FormatInt(v, 10))
}

// WriteUInt64 writes a uint64 value as a decimal string.
func (e *JSONEncoder) WriteUInt64(field string, v uint64) error {
	return e.put(field, strconv.FormatUint(v, 10))
}

// WriteFloat writes a float32 value, using the literal tokens Infinity,
// -Infinity and NaN for the special values.
func (e *JSONEncoder) WriteFloat(field string, v float32) error {
	return e.put(field, jsonFloat(float64(v), 32))
}

// WriteDouble writes a float64 value.
func (e *JSONEncoder) WriteDouble(field string, v float64) error {
	return e.put(field, jsonFloat(v, 64))
}

// WriteString writes a string value.
func (e *JSONEncoder) WriteString(field string, v string) error {
	return e.put(field, v)
}

// WriteDateTime writes a DateTime value, clamping out-of-range timestamps.
func (e *JSONEncoder) WriteDateTime(field string, v time.Time) error {
	return e.put(field, jsonDateTime(v))
}

// WriteGUID writes a GUID in canonical upper-case text.
func (e *JSONEncoder) WriteGUID(field string, v uuid.UUID) error {
	return e.put(field, strings.ToUpper(v.String()))
}

// WriteByteString writes a byte string as Base64 text.
func (e *JSONEncoder) WriteByteString(field string, v []byte) error {
	if v == nil {
		return e.put(field, nil)
	}
	return e.put(field, base64.StdEncoding.EncodeToString(v))
}

// WriteXMLElement writes an XML fragment as a string.
func (e *JSONEncoder) WriteXMLElement(field string, v XMLElement) error {
	return e.put(field, string(v))
}

// WriteNodeID writes a NodeID in its textual form.
func (e *JSONEncoder) WriteNodeID(field string, v NodeID) error {
	if e.nonReversible {
		return e.put(field, FormatNodeIDNonReversible(v, e.ctx.Namespaces))
	}
	return e.put(field, FormatNodeID(v))
}

// WriteExpandedNodeID writes an ExpandedNodeID in its textual form.
func (e *JSONEncoder) WriteExpandedNodeID(field string, v ExpandedNodeID) error {
	if e.nonReversible {
		return e.put(field, FormatExpandedNodeIDNonReversible(v, e.ctx.Namespaces))
	}
	return e.put(field, FormatExpandedNodeID(v))
}

// WriteStatusCode writes a StatusCode as its numeric code.
func (e *JSONEncoder) WriteStatusCode(field string, v StatusCode) error {
	if e.nonReversible {
		obj := map[string]interface{}{"Code": uint64(v)}
		if sym := v.String(); sym != "" {
			obj["Symbol"] = sym
		}
		return e.put(field, obj)
	}
	return e.put(field, uint64(v))
}

func (e *JSONEncoder) jsonQualifiedName(v QualifiedName) interface{} {
	obj := map[string]interface{}{"Name": v.Name}
	if v.NamespaceIndex != 0 {
		obj["Uri"] = uint64(v.NamespaceIndex)
	}
	return obj
}

// WriteQualifiedName writes a QualifiedName value.
func (e *JSONEncoder) WriteQualifiedName(field string, v QualifiedName) error {
	return e.put(field, e.jsonQualifiedName(v))
}

func (e *JSONEncoder) jsonLocalizedText(v LocalizedText) interface{} {
	if e.nonReversible {
		return v.Text
	}
	obj := map[string]interface{}{}
	if v.Locale != "" {
		obj["Locale"] = v.Locale
	}
	if v.Text != "" {
		obj["Text"] = v.Text
	}
	return obj
}

// WriteLocalizedText writes a LocalizedText value. The non-reversible
// rendering is the bare text.
func (e *JSONEncoder) WriteLocalizedText(field string, v LocalizedText) error {
	return e.put(field, e.jsonLocalizedText(v))
}

// writeVariantScalarValue appends one scalar of the given type to the
// current frame.
func (e *JSONEncoder) writeVariantScalarValue(t TypeID, value interface{}) error {
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
	default:
		return fmt.Errorf("%w: unsupported variant type %d", ErrEncoding, t)
	}
}

// collectValues runs fn against a detached value frame and returns the
// values fn produced, in order.
func (e *JSONEncoder) collectValues(fn func() error) ([]interface{}, error) {
	frame := &jsonFrame{}
	e.frames = append(e.frames, frame)
	err := fn()
	e.frames = e.frames[:len(e.frames)-1]
	if err != nil {
		return nil, err
	}
	if frame.values == nil {
		return []interface{}{}, nil
	}
	return frame.values, nil
}

// WriteVariant writes a Variant. The reversible rendering is an object
// with Type, Body and, for a matrix, Dimensions; non-reversible output is
// the bare body.
func (e *JSONEncoder) WriteVariant(field string, v Variant) error {
	if v.IsNull() {
		return e.put(field, nil)
	}

	var body interface{}
	var dims []int32

	if m, ok := v.Value.(*Matrix); ok {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrEncoding, err)
		}
		dims = m.Dimensions
		values, err := e.collectValues(func() error {
			for _, elem := range m.Values {
				if err := e.writeVariantScalarValue(m.Type, elem); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		body = values
	} else if elems, ok := variantArrayElements(v.Value); ok {
		values, err := e.collectValues(func() error {
			for _, elem := range elems {
				if err := e.writeVariantScalarValue(v.Type, elem); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		body = values
	} else {
		values, err := e.collectValues(func() error {
			return e.writeVariantScalarValue(v.Type, v.Value)
		})
		if err != nil {
			return err
		}
		if len(values) > 0 {
			body = values[0]
		}
	}

	if e.nonReversible {
		return e.put(field, body)
	}
	obj := map[string]interface{}{
		"Type": uint64(v.Type),
		"Body": body,
	}
	if dims != nil {
		obj["Dimensions"] = dims
	}
	return e.put(field, obj)
}

// WriteDataValue writes a DataValue, omitting unset components.
func (e *JSONEncoder) WriteDataValue(field string, v DataValue) error {
	obj, err := e.encodeObject(func() error {
		if v.Value != nil {
			if err := e.WriteVariant("Value", *v.Value); err != nil {
				return err
			}
		}
		if v.StatusCode != 0 {
			if err := e.WriteStatusCode("Status", v.StatusCode); err != nil {
				return err
			}
		}
		if !v.SourceTimestamp.IsZero() {
			if err := e.WriteDateTime("SourceTimestamp", v.SourceTimestamp); err != nil {
				return err
			}
		}
		if v.SourcePicoseconds != 0 {
			if err := e.WriteUInt16("SourcePicoseconds", v.SourcePicoseconds); err != nil {
				return err
			}
		}
		if !v.ServerTimestamp.IsZero() {
			if err := e.WriteDateTime("ServerTimestamp", v.ServerTimestamp); err != nil {
				return err
			}
		}
		if v.ServerPicoseconds != 0 {
			if err := e.WriteUInt16("ServerPicoseconds", v.ServerPicoseconds); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return e.put(field, obj)
}

// WriteExtensionObject writes an ExtensionObject as a TypeId and Body
// object. A decoded body is re-encoded through the registered codec; the
// non-reversible rendering is the bare body without a TypeId.
func (e *JSONEncoder) WriteExtensionObject(field string, v ExtensionObject) error {
	typeID, ok := v.TypeID.ToNodeID(e.ctx.Namespaces)
	if !ok {
		return fmt.Errorf("%w: ExtensionObject type %s has no local namespace",
			ErrEncoding, FormatExpandedNodeID(v.TypeID))
	}

	var body interface{}
	var encoding uint64
	switch b := v.Body.(type) {
	case nil:
		body = nil
	case []byte:
		body = base64.StdEncoding.EncodeToString(b)
		encoding = 1
	case XMLElement:
		body = string(b)
		encoding = 2
	default:
		codec, ok := e.ctx.Registry.LookupAny(typeID)
		if !ok {
			return fmt.Errorf("%w: %w for %s", ErrEncoding, ErrCodecNotFound, FormatNodeID(typeID))
		}
		obj, err := e.encodeObject(func() error {
			return codec.Encode(e.ctx, e, b)
		})
		if err != nil {
			return err
		}
		body = obj
	}

	if e.nonReversible {
		return e.put(field, body)
	}
	obj := map[string]interface{}{
		"TypeId": FormatNodeID(typeID),
	}
	if body != nil {
		obj["Body"] = body
	}
	if encoding != 0 {
		obj["Encoding"] = encoding
	}
	return e.put(field, obj)
}

// WriteEnum writes an enumerated value: the wire number in reversible
// mode, Name_Value text in non-reversible mode.
func (e *JSONEncoder) WriteEnum(field string, v EnumValue) error {
	if e.nonReversible && v.Name != "" {
		return e.put(field, fmt.Sprintf("%s_%d", v.Name, v.Value))
	}
	return e.put(field, int64(v.Value))
}

// WriteStruct dispatches encoding of a structured value through the codec
// registry. The struct becomes a JSON object.
func (e *JSONEncoder) WriteStruct(field string, v interface{}, typeID NodeID) error {
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	obj, err := e.encodeObject(func() error {
		return codec.Encode(e.ctx, e, v)
	})
	if err != nil {
		return err
	}
	return e.put(field, obj)
}

func (e *JSONEncoder) putArray(field string, isNil bool, n int, elem func(i int) error) error {
	if isNil {
		return e.put(field, nil)
	}
	values, err := e.collectValues(func() error {
		for i := 0; i < n; i++ {
			if err := elem(i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return e.put(field, values)
}

// WriteBooleanArray writes a boolean array.
func (e *JSONEncoder) WriteBooleanArray(field string, v []bool) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteBoolean("", v[i]) })
}

// WriteSByteArray writes a signed byte array.
func (e *JSONEncoder) WriteSByteArray(field string, v []int8) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteSByte("", v[i]) })
}

// WriteByteArray writes a byte array.
func (e *JSONEncoder) WriteByteArray(field string, v []uint8) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteByte("", v[i]) })
}

// WriteInt16Array writes an int16 array.
func (e *JSONEncoder) WriteInt16Array(field string, v []int16) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteInt16("", v[i]) })
}

// WriteUInt16Array writes a uint16 array.
func (e *JSONEncoder) WriteUInt16Array(field string, v []uint16) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteUInt16("", v[i]) })
}

// WriteInt32Array writes an int32 array.
func (e *JSONEncoder) WriteInt32Array(field string, v []int32) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteInt32("", v[i]) })
}

// WriteUInt32Array writes a uint32 array.
func (e *JSONEncoder) WriteUInt32Array(field string, v []uint32) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteUInt32("", v[i]) })
}

// WriteInt64Array writes an int64 array.
func (e *JSONEncoder) WriteInt64Array(field string, v []int64) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteInt64("", v[i]) })
}

// WriteUInt64Array writes a uint64 array.
func (e *JSONEncoder) WriteUInt64Array(field string, v []uint64) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteUInt64("", v[i]) })
}

// WriteFloatArray writes a float32 array.
func (e *JSONEncoder) WriteFloatArray(field string, v []float32) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteFloat("", v[i]) })
}

// WriteDoubleArray writes a float64 array.
func (e *JSONEncoder) WriteDoubleArray(field string, v []float64) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteDouble("", v[i]) })
}

// WriteStringArray writes a string array.
func (e *JSONEncoder) WriteStringArray(field string, v []string) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteString("", v[i]) })
}

// WriteDateTimeArray writes a DateTime array.
func (e *JSONEncoder) WriteDateTimeArray(field string, v []time.Time) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteDateTime("", v[i]) })
}

// WriteGUIDArray writes a GUID array.
func (e *JSONEncoder) WriteGUIDArray(field string, v []uuid.UUID) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteGUID("", v[i]) })
}

// WriteByteStringArray writes a byte-string array.
func (e *JSONEncoder) WriteByteStringArray(field string, v [][]byte) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteByteString("", v[i]) })
}

// WriteXMLElementArray writes an XML fragment array.
func (e *JSONEncoder) WriteXMLElementArray(field string, v []XMLElement) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteXMLElement("", v[i]) })
}

// WriteNodeIDArray writes a NodeID array.
func (e *JSONEncoder) WriteNodeIDArray(field string, v []NodeID) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteNodeID("", v[i]) })
}

// WriteExpandedNodeIDArray writes an ExpandedNodeID array.
func (e *JSONEncoder) WriteExpandedNodeIDArray(field string, v []ExpandedNodeID) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteExpandedNodeID("", v[i]) })
}

// WriteStatusCodeArray writes a StatusCode array.
func (e *JSONEncoder) WriteStatusCodeArray(field string, v []StatusCode) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteStatusCode("", v[i]) })
}

// WriteQualifiedNameArray writes a QualifiedName array.
func (e *JSONEncoder) WriteQualifiedNameArray(field string, v []QualifiedName) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteQualifiedName("", v[i]) })
}

// WriteLocalizedTextArray writes a LocalizedText array.
func (e *JSONEncoder) WriteLocalizedTextArray(field string, v []LocalizedText) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteLocalizedText("", v[i]) })
}

// WriteVariantArray writes a Variant array.
func (e *JSONEncoder) WriteVariantArray(field string, v []Variant) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteVariant("", v[i]) })
}

// WriteDataValueArray writes a DataValue array.
func (e *JSONEncoder) WriteDataValueArray(field string, v []DataValue) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteDataValue("", v[i]) })
}

// WriteExtensionObjectArray writes an ExtensionObject array.
func (e *JSONEncoder) WriteExtensionObjectArray(field string, v []ExtensionObject) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteExtensionObject("", v[i]) })
}

// WriteEnumArray writes an enumerated-value array.
func (e *JSONEncoder) WriteEnumArray(field string, v []EnumValue) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteEnum("", v[i]) })
}

// WriteStructArray writes a structured-value array through the registry.
func (e *JSONEncoder) WriteStructArray(field string, v []interface{}, typeID NodeID) error {
	return e.putArray(field, v == nil, len(v), func(i int) error { return e.WriteStruct("", v[i], typeID) })
}

// WriteMatrix writes an N-dimensional array as an object holding the
// Dimensions vector and the flattened Elements sequence.
func (e *JSONEncoder) WriteMatrix(field string, m *Matrix) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	elems, err := e.collectValues(func() error {
		for _, elem := range m.Values {
			if err := e.writeVariantScalarValue(m.Type, elem); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return e.put(field, map[string]interface{}{
		"Dimensions": m.Dimensions,
		"Elements":   elems,
	})
}

// WriteStructMatrix writes a matrix of structured values through the
// registry.
func (e *JSONEncoder) WriteStructMatrix(field string, m *Matrix, typeID NodeID) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	elems := make([]interface{}, 0, len(m.Values))
	for _, v := range m.Values {
		obj, err := e.encodeObject(func() error {
			return codec.Encode(e.ctx, e, v)
		})
		if err != nil {
			return err
		}
		elems = append(elems, obj)
	}
	return e.put(field, map[string]interface{}{
		"Dimensions": m.Dimensions,
		"Elements":   elems,
	})
}
