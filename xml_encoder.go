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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const xmlDateTimeFormat = "2006-01-02T15:04:05Z"

// XMLEncoder encodes values as OPC UA XML. Values embedded in a structure
// are wrapped in a field-named element; top-level values use the bare
// type-named element. The encoder builds an element tree and serializes it
// on Bytes.
type XMLEncoder struct {
	ctx           *EncodingContext
	root          *xmlNode
	stack         []*xmlNode
	nonReversible bool
}

// XMLEncoderOption configures an XMLEncoder.
type XMLEncoderOption func(*XMLEncoder)

// XMLNonReversible switches the encoder to the non-reversible rendering:
// namespace URIs instead of indices in NodeId text. Output produced this
// way is for display and must not be decoded.
func XMLNonReversible() XMLEncoderOption {
	return func(e *XMLEncoder) {
		e.nonReversible = true
	}
}

// NewXMLEncoder creates an XML encoder bound to ctx.
func NewXMLEncoder(ctx *EncodingContext, opts ...XMLEncoderOption) *XMLEncoder {
	e := &XMLEncoder{ctx: ctx}
	e.Reset()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset discards the element tree so the encoder can be reused.
func (e *XMLEncoder) Reset() {
	e.root = &xmlNode{}
	e.stack = []*xmlNode{e.root}
}

// Context returns the encoding context.
func (e *XMLEncoder) Context() *EncodingContext {
	return e.ctx
}

// Bytes serializes the encoded document. Top-level elements carry the OPC
// UA Types namespace declaration.
func (e *XMLEncoder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	for _, c := range e.root.children {
		if err := c.serialize(&buf, NamespaceXSD); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEncoding, err)
		}
	}
	return buf.Bytes(), nil
}

func (e *XMLEncoder) cur() *xmlNode {
	return e.stack[len(e.stack)-1]
}

func (e *XMLEncoder) begin(name string) {
	e.stack = append(e.stack, e.cur().add(name))
}

func (e *XMLEncoder) end() {
	e.stack = e.stack[:len(e.stack)-1]
}

func elementName(field, fallback string) string {
	if field != "" {
		return field
	}
	return fallback
}

func (e *XMLEncoder) writeLeaf(field string, t TypeID, text string) error {
	e.cur().add(elementName(field, t.String())).text = text
	return nil
}

// WriteBoolean writes a boolean value.
func (e *XMLEncoder) WriteBoolean(field string, v bool) error {
	return e.writeLeaf(field, TypeBoolean, strconv.FormatBool(v))
}

// WriteSByte writes a signed byte value.
func (e *XMLEncoder) WriteSByte(field string, v int8) error {
	return e.writeLeaf(field, TypeSByte, strconv.FormatInt(int64(v), 10))
}

// WriteByte writes a byte value.
func (e *XMLEncoder) WriteByte(field string, v uint8) error {
	return e.writeLeaf(field, TypeByte, strconv.FormatUint(uint64(v), 10))
}

// WriteInt16 writes an int16 value.
func (e *XMLEncoder) WriteInt16(field string, v int16) error {
	return e.writeLeaf(field, TypeInt16, strconv.FormatInt(int64(v), 10))
}

// WriteUInt16 writes a uint16 value.
func (e *XMLEncoder) WriteUInt16(field string, v uint16) error {
	return e.writeLeaf(field, TypeUInt16, strconv.FormatUint(uint64(v), 10))
}

// WriteInt32 writes an int32 value.
func (e *XMLEncoder) WriteInt32(field string, v int32) error {
	return e.writeLeaf(field, TypeInt32, strconv.FormatInt(int64(v), 10))
}

// WriteUInt32 writes a uint32 value.
func (e *XMLEncoder) WriteUInt32(field string, v uint32) error {
	return e.writeLeaf(field, TypeUInt32, strconv.FormatUint(uint64(v), 10))
}

// WriteInt64 writes an int64 value.
func (e *XMLEncoder) WriteInt64(field string, v int64) error {
	return e.writeLeaf(field, TypeInt64, strconv.FormatInt(v, 10))
}

// WriteUInt64 writes a uint64 value.
func (e *XMLEncoder) WriteUInt64(field string, v uint64) error {
	return e.writeLeaf(field, TypeUInt64, strconv.FormatUint(v, 10))
}

// formatXMLFloat renders a floating point value, using the literal tokens
// Infinity, -Infinity and NaN for the special values.
func formatXMLFloat(v float64, bits int) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	default:
		return strconv.FormatFloat(v, 'g', -1, bits)
	}
}

// WriteFloat writes a float32 value.
func (e *XMLEncoder) WriteFloat(field string, v float32) error {
	return e.writeLeaf(field, TypeFloat, formatXMLFloat(float64(v), 32))
}

// WriteDouble writes a float64 value.
func (e *XMLEncoder) WriteDouble(field string, v float64) error {
	return e.writeLeaf(field, TypeDouble, formatXMLFloat(v, 64))
}

// WriteString writes a string value.
func (e *XMLEncoder) WriteString(field string, v string) error {
	return e.writeLeaf(field, TypeString, v)
}

// WriteDateTime writes a DateTime value, clamping out-of-range timestamps.
func (e *XMLEncoder) WriteDateTime(field string, v time.Time) error {
	return e.writeLeaf(field, TypeDateTime, clampDateTime(v).Format(xmlDateTimeFormat))
}

// WriteGUID writes a GUID value in canonical upper-case text.
func (e *XMLEncoder) WriteGUID(field string, v uuid.UUID) error {
	e.begin(elementName(field, "Guid"))
	e.cur().add("String").text = strings.ToUpper(v.String())
	e.end()
	return nil
}

// WriteByteString writes a byte string as Base64 text.
func (e *XMLEncoder) WriteByteString(field string, v []byte) error {
	if v == nil {
		return nil
	}
	return e.writeLeaf(field, TypeByteString, base64.StdEncoding.EncodeToString(v))
}

// WriteXMLElement writes an XML fragment verbatim.
func (e *XMLEncoder) WriteXMLElement(field string, v XMLElement) error {
	e.cur().add(elementName(field, "XmlElement")).raw = string(v)
	return nil
}

// WriteNodeID writes a NodeID in its textual form inside an Identifier
// element.
func (e *XMLEncoder) WriteNodeID(field string, v NodeID) error {
	e.begin(elementName(field, "NodeId"))
	if e.nonReversible {
		e.cur().add("Identifier").text = FormatNodeIDNonReversible(v, e.ctx.Namespaces)
	} else {
		e.cur().add("Identifier").text = FormatNodeID(v)
	}
	e.end()
	return nil
}

// WriteExpandedNodeID writes an ExpandedNodeID in its textual form.
func (e *XMLEncoder) WriteExpandedNodeID(field string, v ExpandedNodeID) error {
	e.begin(elementName(field, "ExpandedNodeId"))
	if e.nonReversible {
		e.cur().add("Identifier").text = FormatExpandedNodeIDNonReversible(v, e.ctx.Namespaces)
	} else {
		e.cur().add("Identifier").text = FormatExpandedNodeID(v)
	}
	e.end()
	return nil
}

// WriteStatusCode writes a StatusCode as its numeric Code element.
func (e *XMLEncoder) WriteStatusCode(field string, v StatusCode) error {
	e.begin(elementName(field, "StatusCode"))
	e.cur().add("Code").text = strconv.FormatUint(uint64(v), 10)
	e.end()
	return nil
}

// WriteQualifiedName writes a QualifiedName value.
func (e *XMLEncoder) WriteQualifiedName(field string, v QualifiedName) error {
	e.begin(elementName(field, "QualifiedName"))
	e.cur().add("NamespaceIndex").text = strconv.FormatUint(uint64(v.NamespaceIndex), 10)
	e.cur().add("Name").text = v.Name
	e.end()
	return nil
}

// WriteLocalizedText writes a LocalizedText value.
func (e *XMLEncoder) WriteLocalizedText(field string, v LocalizedText) error {
	e.begin(elementName(field, "LocalizedText"))
	if v.Locale != "" {
		e.cur().add("Locale").text = v.Locale
	}
	if v.Text != "" {
		e.cur().add("Text").text = v.Text
	}
	e.end()
	return nil
}

// WriteVariant writes a Variant as a Value element wrapping the typed
// payload.
func (e *XMLEncoder) WriteVariant(field string, v Variant) error {
	e.begin(elementName(field, "Variant"))
	defer e.end()
	if v.IsNull() {
		return nil
	}
	e.begin("Value")
	defer e.end()

	if m, ok := v.Value.(*Matrix); ok {
		e.begin("Matrix")
		defer e.end()
		return e.writeMatrixBody(m)
	}
	if elems, ok := variantArrayElements(v.Value); ok {
		e.begin("ListOf" + v.Type.String())
		defer e.end()
		for _, elem := range elems {
			if err := e.writeVariantScalar(v.Type, elem); err != nil {
				return err
			}
		}
		return nil
	}
	return e.writeVariantScalar(v.Type, v.Value)
}

func (e *XMLEncoder) writeVariantScalar(t TypeID, value interface{}) error {
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

// WriteDataValue writes a DataValue value, omitting unset components.
func (e *XMLEncoder) WriteDataValue(field string, v DataValue) error {
	e.begin(elementName(field, "DataValue"))
	defer e.end()
	if v.Value != nil {
		if err := e.WriteVariant("Value", *v.Value); err != nil {
			return err
		}
	}
	if v.StatusCode != 0 {
		if err := e.WriteStatusCode("StatusCode", v.StatusCode); err != nil {
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
}

// WriteExtensionObject writes an ExtensionObject with its TypeId and Body.
// A decoded body is re-encoded through the registered XML codec.
func (e *XMLEncoder) WriteExtensionObject(field string, v ExtensionObject) error {
	typeID, ok := v.TypeID.ToNodeID(e.ctx.Namespaces)
	if !ok {
		return fmt.Errorf("%w: ExtensionObject type %s has no local namespace",
			ErrEncoding, FormatExpandedNodeID(v.TypeID))
	}
	e.begin(elementName(field, "ExtensionObject"))
	defer e.end()
	if err := e.WriteNodeID("TypeId", typeID); err != nil {
		return err
	}

	switch body := v.Body.(type) {
	case nil:
		return nil
	case []byte:
		e.begin("Body")
		err := e.WriteByteString("ByteString", body)
		e.end()
		return err
	case XMLElement:
		e.begin("Body")
		err := e.WriteXMLElement("", body)
		e.end()
		return err
	default:
		codec, ok := e.ctx.Registry.LookupAny(typeID)
		if !ok {
			return fmt.Errorf("%w: %w for %s", ErrEncoding, ErrCodecNotFound, FormatNodeID(typeID))
		}
		e.begin("Body")
		err := codec.Encode(e.ctx, e, body)
		e.end()
		return err
	}
}

// WriteEnum writes an enumerated value as Name_Value text, or the bare
// number when the symbolic name is unknown.
func (e *XMLEncoder) WriteEnum(field string, v EnumValue) error {
	text := strconv.FormatInt(int64(v.Value), 10)
	if v.Name != "" {
		text = fmt.Sprintf("%s_%d", v.Name, v.Value)
	}
	e.cur().add(elementName(field, "Enumeration")).text = text
	return nil
}

// WriteStruct dispatches encoding of a structured value through the codec
// registry. The struct's fields become child elements of the field-named
// wrapper.
func (e *XMLEncoder) WriteStruct(field string, v interface{}, typeID NodeID) error {
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	e.begin(elementName(field, "Structure"))
	defer e.end()
	return codec.Encode(e.ctx, e, v)
}

func (e *XMLEncoder) writeList(field string, t TypeID, n int, elem func(i int) error) error {
	e.begin(elementName(field, "ListOf"+t.String()))
	defer e.end()
	for i := 0; i < n; i++ {
		if err := elem(i); err != nil {
			return err
		}
	}
	return nil
}

// WriteBooleanArray writes a boolean array.
func (e *XMLEncoder) WriteBooleanArray(field string, v []bool) error {
	return e.writeList(field, TypeBoolean, len(v), func(i int) error { return e.WriteBoolean("", v[i]) })
}

// WriteSByteArray writes a signed byte array.
func (e *XMLEncoder) WriteSByteArray(field string, v []int8) error {
	return e.writeList(field, TypeSByte, len(v), func(i int) error { return e.WriteSByte("", v[i]) })
}

// WriteByteArray writes a byte array.
func (e *XMLEncoder) WriteByteArray(field string, v []uint8) error {
	return e.writeList(field, TypeByte, len(v), func(i int) error { return e.WriteByte("", v[i]) })
}

// WriteInt16Array writes an int16 array.
func (e *XMLEncoder) WriteInt16Array(field string, v []int16) error {
	return e.writeList(field, TypeInt16, len(v), func(i int) error { return e.WriteInt16("", v[i]) })
}

// WriteUInt16Array writes a uint16 array.
func (e *XMLEncoder) WriteUInt16Array(field string, v []uint16) error {
	return e.writeList(field, TypeUInt16, len(v), func(i int) error { return e.WriteUInt16("", v[i]) })
}

// WriteInt32Array writes an int32 array.
func (e *XMLEncoder) WriteInt32Array(field string, v []int32) error {
	return e.writeList(field, TypeInt32, len(v), func(i int) error { return e.WriteInt32("", v[i]) })
}

// WriteUInt32Array writes a uint32 array.
func (e *XMLEncoder) WriteUInt32Array(field string, v []uint32) error {
	return e.writeList(field, TypeUInt32, len(v), func(i int) error { return e.WriteUInt32("", v[i]) })
}

// WriteInt64Array writes an int64 array.
func (e *XMLEncoder) WriteInt64Array(field string, v []int64) error {
	return e.writeList(field, TypeInt64, len(v), func(i int) error { return e.WriteInt64("", v[i]) })
}

// WriteUInt64Array writes a uint64 array.
func (e *XMLEncoder) WriteUInt64Array(field string, v []uint64) error {
	return e.writeList(field, TypeUInt64, len(v), func(i int) error { return e.WriteUInt64("", v[i]) })
}

// WriteFloatArray writes a float32 array.
func (e *XMLEncoder) WriteFloatArray(field string, v []float32) error {
	return e.writeList(field, TypeFloat, len(v), func(i int) error { return e.WriteFloat("", v[i]) })
}

// WriteDoubleArray writes a float64 array.
func (e *XMLEncoder) WriteDoubleArray(field string, v []float64) error {
	return e.writeList(field, TypeDouble, len(v), func(i int) error { return e.WriteDouble("", v[i]) })
}

// WriteStringArray writes a string array.
func (e *XMLEncoder) WriteStringArray(field string, v []string) error {
	return e.writeList(field, TypeString, len(v), func(i int) error { return e.WriteString("", v[i]) })
}

// WriteDateTimeArray writes a DateTime array.
func (e *XMLEncoder) WriteDateTimeArray(field string, v []time.Time) error {
	return e.writeList(field, TypeDateTime, len(v), func(i int) error { return e.WriteDateTime("", v[i]) })
}

// WriteGUIDArray writes a GUID array.
func (e *XMLEncoder) WriteGUIDArray(field string, v []uuid.UUID) error {
	return e.writeList(field, TypeGUID, len(v), func(i int) error { return e.WriteGUID("", v[i]) })
}

// WriteByteStringArray writes a byte-string array.
func (e *XMLEncoder) WriteByteStringArray(field string, v [][]byte) error {
	return e.writeList(field, TypeByteString, len(v), func(i int) error { return e.WriteByteString("", v[i]) })
}

// WriteXMLElementArray writes an XML fragment array.
func (e *XMLEncoder) WriteXMLElementArray(field string, v []XMLElement) error {
	return e.writeList(field, TypeXMLElement, len(v), func(i int) error { return e.WriteXMLElement("", v[i]) })
}

// WriteNodeIDArray writes a NodeID array.
func (e *XMLEncoder) WriteNodeIDArray(field string, v []NodeID) error {
	return e.writeList(field, TypeNodeID, len(v), func(i int) error { return e.WriteNodeID("", v[i]) })
}

// WriteExpandedNodeIDArray writes an ExpandedNodeID array.
func (e *XMLEncoder) WriteExpandedNodeIDArray(field string, v []ExpandedNodeID) error {
	return e.writeList(field, TypeExpandedNodeID, len(v), func(i int) error { return e.WriteExpandedNodeID("", v[i]) })
}

// WriteStatusCodeArray writes a StatusCode array.
func (e *XMLEncoder) WriteStatusCodeArray(field string, v []StatusCode) error {
	return e.writeList(field, TypeStatusCode, len(v), func(i int) error { return e.WriteStatusCode("", v[i]) })
}

// WriteQualifiedNameArray writes a QualifiedName array.
func (e *XMLEncoder) WriteQualifiedNameArray(field string, v []QualifiedName) error {
	return e.writeList(field, TypeQualifiedName, len(v), func(i int) error { return e.WriteQualifiedName("", v[i]) })
}

// WriteLocalizedTextArray writes a LocalizedText array.
func (e *XMLEncoder) WriteLocalizedTextArray(field string, v []LocalizedText) error {
	return e.writeList(field, TypeLocalizedText, len(v), func(i int) error { return e.WriteLocalizedText("", v[i]) })
}

// WriteVariantArray writes a Variant array.
func (e *XMLEncoder) WriteVariantArray(field string, v []Variant) error {
	return e.writeList(field, TypeVariant, len(v), func(i int) error { return e.WriteVariant("", v[i]) })
}

// WriteDataValueArray writes a DataValue array.
func (e *XMLEncoder) WriteDataValueArray(field string, v []DataValue) error {
	return e.writeList(field, TypeDataValue, len(v), func(i int) error { return e.WriteDataValue("", v[i]) })
}

// WriteExtensionObjectArray writes an ExtensionObject array.
func (e *XMLEncoder) WriteExtensionObjectArray(field string, v []ExtensionObject) error {
	return e.writeList(field, TypeExtensionObject, len(v), func(i int) error { return e.WriteExtensionObject("", v[i]) })
}

// WriteEnumArray writes an enumerated-value array.
func (e *XMLEncoder) WriteEnumArray(field string, v []EnumValue) error {
	e.begin(elementName(field, "ListOfEnumeration"))
	defer e.end()
	for _, ev := range v {
		if err := e.WriteEnum("Enumeration", ev); err != nil {
			return err
		}
	}
	return nil
}

// WriteStructArray writes a structured-value array through the registry.
func (e *XMLEncoder) WriteStructArray(field string, v []interface{}, typeID NodeID) error {
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	e.begin(elementName(field, "ListOfStructure"))
	defer e.end()
	for _, elem := range v {
		e.begin("Structure")
		err := codec.Encode(e.ctx, e, elem)
		e.end()
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteMatrix writes an N-dimensional array as a Matrix element holding a
// Dimensions vector and the flattened Elements sequence.
func (e *XMLEncoder) WriteMatrix(field string, m *Matrix) error {
	e.begin(elementName(field, "Matrix"))
	defer e.end()
	return e.writeMatrixBody(m)
}

func (e *XMLEncoder) writeMatrixBody(m *Matrix) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	if err := e.WriteInt32Array("Dimensions", m.Dimensions); err != nil {
		return err
	}
	e.begin("Elements")
	defer e.end()
	for _, elem := range m.Values {
		if err := e.writeVariantScalar(m.Type, elem); err != nil {
			return err
		}
	}
	return nil
}

// WriteStructMatrix writes a matrix of structured values through the
// registry.
func (e *XMLEncoder) WriteStructMatrix(field string, m *Matrix, typeID NodeID) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	codec, err := e.ctx.lookupEncodeCodec(typeID)
	if err != nil {
		return err
	}
	e.begin(elementName(field, "Matrix"))
	defer e.end()
	if err := e.WriteInt32Array("Dimensions", m.Dimensions); err != nil {
		return err
	}
	e.begin("Elements")
	defer e.end()
	for _, elem := range m.Values {
		e.begin("Structure")
		err := codec.Encode(e.ctx, e, elem)
		e.end()
		if err != nil {
			return err
		}
	}
	return nil
}
