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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// typeIDByXMLName maps the bare element name of a built-in type back to
// its TypeID.
var typeIDByXMLName = func() map[string]TypeID {
	m := make(map[string]TypeID, 25)
	for t := TypeBoolean; t <= TypeDiagnosticInfo; t++ {
		m[t.String()] = t
	}
	return m
}()

// XMLDecoder decodes OPC UA XML previously produced in reversible mode. A
// missing element decodes to the type's null or zero value; malformed text
// is a decoding error.
type XMLDecoder struct {
	ctx   *EncodingContext
	stack []*xmlNode
}

// NewXMLDecoder parses data and creates a decoder positioned at the
// document root.
func NewXMLDecoder(ctx *EncodingContext, data []byte) (*XMLDecoder, error) {
	d := &XMLDecoder{ctx: ctx}
	if err := d.Reset(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset re-points the decoder at a new document.
func (d *XMLDecoder) Reset(data []byte) error {
	root, err := parseXMLTree(data)
	if err != nil {
		return err
	}
	d.stack = []*xmlNode{root}
	return nil
}

func (d *XMLDecoder) cur() *xmlNode {
	return d.stack[len(d.stack)-1]
}

func (d *XMLDecoder) push(n *xmlNode) {
	d.stack = append(d.stack, n)
}

func (d *XMLDecoder) pop() {
	d.stack = d.stack[:len(d.stack)-1]
}

// take locates the next unconsumed element for a field, falling back to the
// bare type name when the field is anonymous. Absent elements return nil.
func (d *XMLDecoder) take(field, fallback string) *xmlNode {
	name := elementName(field, fallback)
	return d.cur().take(name)
}

func parseXMLBool(n *xmlNode) (bool, error) {
	if n == nil || n.text == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(n.text)
	if err != nil {
		return false, fmt.Errorf("%w: invalid Boolean text %q", ErrDecoding, n.text)
	}
	return v, nil
}

func parseXMLInt(n *xmlNode, bits int) (int64, error) {
	if n == nil || n.text == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(n.text, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid integer text %q", ErrDecoding, n.text)
	}
	return v, nil
}

func parseXMLUint(n *xmlNode, bits int) (uint64, error) {
	if n == nil || n.text == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(n.text, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid unsigned integer text %q", ErrDecoding, n.text)
	}
	return v, nil
}

func parseXMLFloat(n *xmlNode, bits int) (float64, error) {
	if n == nil || n.text == "" {
		return 0, nil
	}
	switch n.text {
	case "Infinity", "INF":
		return math.Inf(1), nil
	case "-Infinity", "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(n.text, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid floating point text %q", ErrDecoding, n.text)
	}
	return v, nil
}

// ReadBoolean reads a boolean value.
func (d *XMLDecoder) ReadBoolean(field string) (bool, error) {
	return parseXMLBool(d.take(field, "Boolean"))
}

// ReadSByte reads a signed byte value.
func (d *XMLDecoder) ReadSByte(field string) (int8, error) {
	v, err := parseXMLInt(d.take(field, "SByte"), 8)
	return int8(v), err
}

// ReadByte reads a byte value.
func (d *XMLDecoder) ReadByte(field string) (uint8, error) {
	v, err := parseXMLUint(d.take(field, "Byte"), 8)
	return uint8(v), err
}

// ReadInt16 reads an int16 value.
func (d *XMLDecoder) ReadInt16(field string) (int16, error) {
	v, err := parseXMLInt(d.take(field, "Int16"), 16)
	return int16(v), err
}

// ReadUInt16 reads a uint16 value.
func (d *XMLDecoder) ReadUInt16(field string) (uint16, error) {
	v, err := parseXMLUint(d.take(field, "UInt16"), 16)
	return uint16(v), err
}

// ReadInt32 reads an int32 value.
func (d *XMLDecoder) ReadInt32(field string) (int32, error) {
	v, err := parseXMLInt(d.take(field, "Int32"), 32)
	return int32(v), err
}

// ReadUInt32 reads a uint32 value.
func (d *XMLDecoder) ReadUInt32(field string) (uint32, error) {
	v, err := parseXMLUint(d.take(field, "UInt32"), 32)
	return uint32(v), err
}

// ReadInt64 reads an int64 value.
func (d *XMLDecoder) ReadInt64(field string) (int64, error) {
	return parseXMLInt(d.take(field, "Int64"), 64)
}

// ReadUInt64 reads a uint64 value.
func (d *XMLDecoder) ReadUInt64(field string) (uint64, error) {
	return parseXMLUint(d.take(field, "UInt64"), 64)
}

// ReadFloat reads a float32 value.
func (d *XMLDecoder) ReadFloat(field string) (float32, error) {
	v, err := parseXMLFloat(d.take(field, "Float"), 32)
	return float32(v), err
}

// ReadDouble reads a float64 value.
func (d *XMLDecoder) ReadDouble(field string) (float64, error) {
	return parseXMLFloat(d.take(field, "Double"), 64)
}

// ReadString reads a string value.
func (d *XMLDecoder) ReadString(field string) (string, error) {
	n := d.take(field, "String")
	if n == nil {
		return "", nil
	}
	return n.text, nil
}

func parseXMLDateTime(n *xmlNode) (time.Time, error) {
	if n == nil || n.text == "" {
		return time.Time{}, nil
	}
	v, err := time.Parse(xmlDateTimeFormat, n.text)
	if err != nil {
		v, err = time.Parse(time.RFC3339, n.text)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid DateTime text %q", ErrDecoding, n.text)
	}
	return clampDateTime(v), nil
}

// ReadDateTime reads a DateTime value, clamping out-of-range timestamps.
func (d *XMLDecoder) ReadDateTime(field string) (time.Time, error) {
	return parseXMLDateTime(d.take(field, "DateTime"))
}

func parseXMLGUID(n *xmlNode) (uuid.UUID, error) {
	if n == nil {
		return uuid.UUID{}, nil
	}
	s := n.take("String")
	if s == nil || s.text == "" {
		return uuid.UUID{}, nil
	}
	v, err := uuid.Parse(s.text)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: invalid GUID text %q", ErrDecoding, s.text)
	}
	return v, nil
}

// ReadGUID reads a GUID value.
func (d *XMLDecoder) ReadGUID(field string) (uuid.UUID, error) {
	return parseXMLGUID(d.take(field, "Guid"))
}

func parseXMLByteString(n *xmlNode) ([]byte, error) {
	if n == nil {
		return nil, nil
	}
	if n.text == "" {
		return []byte{}, nil
	}
	v, err := base64.StdEncoding.DecodeString(n.text)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Base64 text: %s", ErrDecoding, err)
	}
	return v, nil
}

// ReadByteString reads a byte string from Base64 text. An absent element
// decodes to nil.
func (d *XMLDecoder) ReadByteString(field string) ([]byte, error) {
	return parseXMLByteString(d.take(field, "ByteString"))
}

// ReadXMLElement reads an XML fragment verbatim.
func (d *XMLDecoder) ReadXMLElement(field string) (XMLElement, error) {
	n := d.take(field, "XmlElement")
	if n == nil {
		return "", nil
	}
	return XMLElement(n.innerXML()), nil
}

func (d *XMLDecoder) parseNodeIDNode(n *xmlNode) (NodeID, error) {
	if n == nil {
		return NodeID{}, nil
	}
	id := n.take("Identifier")
	if id == nil || id.text == "" {
		return NodeID{}, nil
	}
	return ParseNodeID(id.text, d.ctx.Namespaces)
}

// ReadNodeID reads a NodeID from its textual Identifier form.
func (d *XMLDecoder) ReadNodeID(field string) (NodeID, error) {
	return d.parseNodeIDNode(d.take(field, "NodeId"))
}

func parseExpandedNodeIDNode(n *xmlNode) (ExpandedNodeID, error) {
	if n == nil {
		return ExpandedNodeID{}, nil
	}
	id := n.take("Identifier")
	if id == nil || id.text == "" {
		return ExpandedNodeID{}, nil
	}
	return ParseExpandedNodeID(id.text)
}

// ReadExpandedNodeID reads an ExpandedNodeID from its textual form.
func (d *XMLDecoder) ReadExpandedNodeID(field string) (ExpandedNodeID, error) {
	return parseExpandedNodeIDNode(d.take(field, "ExpandedNodeId"))
}

func parseStatusCodeNode(n *xmlNode) (StatusCode, error) {
	if n == nil {
		return 0, nil
	}
	v, err := parseXMLUint(n.take("Code"), 32)
	return StatusCode(v), err
}

// ReadStatusCode reads a StatusCode value.
func (d *XMLDecoder) ReadStatusCode(field string) (StatusCode, error) {
	return parseStatusCodeNode(d.take(field, "StatusCode"))
}

func parseQualifiedNameNode(n *xmlNode) (QualifiedName, error) {
	if n == nil {
		return QualifiedName{}, nil
	}
	ns, err := parseXMLUint(n.take("NamespaceIndex"), 16)
	if err != nil {
		return QualifiedName{}, err
	}
	var name string
	if c := n.take("Name"); c != nil {
		name = c.text
	}
	return QualifiedName{NamespaceIndex: uint16(ns), Name: name}, nil
}

// ReadQualifiedName reads a QualifiedName value.
func (d *XMLDecoder) ReadQualifiedName(field string) (QualifiedName, error) {
	return parseQualifiedNameNode(d.take(field, "QualifiedName"))
}

func parseLocalizedTextNode(n *xmlNode) (LocalizedText, error) {
	if n == nil {
		return LocalizedText{}, nil
	}
	var lt LocalizedText
	if c := n.take("Locale"); c != nil {
		lt.Locale = c.text
	}
	if c := n.take("Text"); c != nil {
		lt.Text = c.text
	}
	return lt, nil
}

// ReadLocalizedText reads a LocalizedText value.
func (d *XMLDecoder) ReadLocalizedText(field string) (LocalizedText, error) {
	return parseLocalizedTextNode(d.take(field, "LocalizedText"))
}

// ReadVariant reads a Variant. The payload type is recovered from the name
// of the element under Value.
func (d *XMLDecoder) ReadVariant(field string) (Variant, error) {
	return d.parseVariantNode(d.take(field, "Variant"))
}

func (d *XMLDecoder) parseVariantNode(n *xmlNode) (Variant, error) {
	if n == nil {
		return Variant{}, nil
	}
	value := n.take("Value")
	if value == nil {
		return Variant{}, nil
	}
	payload := value.takeAny()
	if payload == nil {
		return Variant{}, nil
	}

	if payload.name == "Matrix" {
		m, t, err := d.parseMatrixNode(payload, TypeNull, nil)
		if err != nil {
			return Variant{}, err
		}
		m.Type = t
		return Variant{Type: t, Value: m}, nil
	}

	if rest, ok := strings.CutPrefix(payload.name, "ListOf"); ok {
		t, known := typeIDByXMLName[rest]
		if !known {
			return Variant{}, fmt.Errorf("%w: unknown variant array element type %q", ErrDecoding, rest)
		}
		var elems []interface{}
		for {
			c := payload.takeAny()
			if c == nil {
				break
			}
			elem, err := d.parseVariantScalarNode(t, c)
			if err != nil {
				return Variant{}, err
			}
			elems = append(elems, elem)
		}
		if elems == nil {
			return Variant{Type: t, Value: typedVariantSlice(t, []interface{}{})}, nil
		}
		return Variant{Type: t, Value: typedVariantSlice(t, elems)}, nil
	}

	t, known := typeIDByXMLName[payload.name]
	if !known {
		return Variant{}, fmt.Errorf("%w: unknown variant element %q", ErrDecoding, payload.name)
	}
	v, err := d.parseVariantScalarNode(t, payload)
	if err != nil {
		return Variant{}, err
	}
	return Variant{Type: t, Value: v}, nil
}

func (d *XMLDecoder) parseVariantScalarNode(t TypeID, n *xmlNode) (interface{}, error) {
	switch t {
	case TypeBoolean:
		return parseXMLBool(n)
	case TypeSByte:
		v, err := parseXMLInt(n, 8)
		return int8(v), err
	case TypeByte:
		v, err := parseXMLUint(n, 8)
		return uint8(v), err
	case TypeInt16:
		v, err := parseXMLInt(n, 16)
		return int16(v), err
	case TypeUInt16:
		v, err := parseXMLUint(n, 16)
		return uint16(v), err
	case TypeInt32:
		v, err := parseXMLInt(n, 32)
		return int32(v), err
	case TypeUInt32:
		v, err := parseXMLUint(n, 32)
		return uint32(v), err
	case TypeInt64:
		return parseXMLInt(n, 64)
	case TypeUInt64:
		return parseXMLUint(n, 64)
	case TypeFloat:
		v, err := parseXMLFloat(n, 32)
		return float32(v), err
	case TypeDouble:
		return parseXMLFloat(n, 64)
	case TypeString:
		return n.text, nil
	case TypeDateTime:
		return parseXMLDateTime(n)
	case TypeGUID:
		return parseXMLGUID(n)
	case TypeByteString:
		return parseXMLByteString(n)
	case TypeXMLElement:
		return XMLElement(n.innerXML()), nil
	case TypeNodeID:
		return d.parseNodeIDNode(n)
	case TypeExpandedNodeID:
		return parseExpandedNodeIDNode(n)
	case TypeStatusCode:
		return parseStatusCodeNode(n)
	case TypeQualifiedName:
		return parseQualifiedNameNode(n)
	case TypeLocalizedText:
		return parseLocalizedTextNode(n)
	case TypeExtensionObject:
		return d.parseExtensionObjectNode(n)
	case TypeVariant:
		return d.parseVariantNode(n)
	case TypeDataValue:
		return d.parseDataValueNode(n)
	default:
		return nil, fmt.Errorf("%w: unsupported variant type %d", ErrDecoding, t)
	}
}

func (d *XMLDecoder) parseDataValueNode(n *xmlNode) (DataValue, error) {
	if n == nil {
		return DataValue{}, nil
	}
	var dv DataValue
	if c := n.take("Value"); c != nil {
		v, err := d.parseVariantNode(c)
		if err != nil {
			return DataValue{}, err
		}
		dv.Value = &v
	}
	var err error
	if dv.StatusCode, err = parseStatusCodeNode(n.take("StatusCode")); err != nil {
		return DataValue{}, err
	}
	if dv.SourceTimestamp, err = parseXMLDateTime(n.take("SourceTimestamp")); err != nil {
		return DataValue{}, err
	}
	sp, err := parseXMLUint(n.take("SourcePicoseconds"), 16)
	if err != nil {
		return DataValue{}, err
	}
	dv.SourcePicoseconds = uint16(sp)
	if dv.ServerTimestamp, err = parseXMLDateTime(n.take("ServerTimestamp")); err != nil {
		return DataValue{}, err
	}
	pp, err := parseXMLUint(n.take("ServerPicoseconds"), 16)
	if err != nil {
		return DataValue{}, err
	}
	dv.ServerPicoseconds = uint16(pp)
	return dv, nil
}

// ReadDataValue reads a DataValue value.
func (d *XMLDecoder) ReadDataValue(field string) (DataValue, error) {
	return d.parseDataValueNode(d.take(field, "DataValue"))
}

func (d *XMLDecoder) parseExtensionObjectNode(n *xmlNode) (ExtensionObject, error) {
	if n == nil {
		return ExtensionObject{}, nil
	}
	typeID, err := d.parseNodeIDNode(n.take("TypeId"))
	if err != nil {
		return ExtensionObject{}, err
	}
	eo := ExtensionObject{TypeID: NewExpandedNodeID(typeID)}
	body := n.take("Body")
	if body == nil {
		return eo, nil
	}

	if codec, ok := d.ctx.Registry.LookupAny(typeID); ok {
		d.push(body)
		decoded, err := codec.Decode(d.ctx, d)
		d.pop()
		if err != nil {
			return ExtensionObject{}, err
		}
		eo.Encoding = ExtensionObjectXML
		eo.Body = decoded
		return eo, nil
	}

	if bs := body.take("ByteString"); bs != nil {
		raw, err := parseXMLByteString(bs)
		if err != nil {
			return ExtensionObject{}, err
		}
		eo.Encoding = ExtensionObjectByteString
		eo.Body = raw
		return eo, nil
	}
	eo.Encoding = ExtensionObjectXML
	eo.Body = XMLElement(body.innerXML())
	return eo, nil
}

// ReadExtensionObject reads an ExtensionObject. When a codec is registered
// for the carried type the Body is decoded through it; otherwise the raw
// fragment is kept.
func (d *XMLDecoder) ReadExtensionObject(field string) (ExtensionObject, error) {
	return d.parseExtensionObjectNode(d.take(field, "ExtensionObject"))
}

func parseEnumNode(n *xmlNode) (EnumValue, error) {
	if n == nil || n.text == "" {
		return EnumValue{}, nil
	}
	if i := strings.LastIndexByte(n.text, '_'); i >= 0 {
		v, err := strconv.ParseInt(n.text[i+1:], 10, 32)
		if err == nil {
			return EnumValue{Name: n.text[:i], Value: int32(v)}, nil
		}
	}
	v, err := strconv.ParseInt(n.text, 10, 32)
	if err != nil {
		return EnumValue{}, fmt.Errorf("%w: invalid enumeration text %q", ErrDecoding, n.text)
	}
	return EnumValue{Value: int32(v)}, nil
}

// ReadEnum reads an enumerated value from Name_Value text.
func (d *XMLDecoder) ReadEnum(field string) (EnumValue, error) {
	return parseEnumNode(d.take(field, "Enumeration"))
}

// ReadStruct dispatches decoding of a structured value through the codec
// registry.
func (d *XMLDecoder) ReadStruct(field string, typeID NodeID) (interface{}, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	n := d.take(field, "Structure")
	if n == nil {
		return nil, nil
	}
	d.push(n)
	defer d.pop()
	return codec.Decode(d.ctx, d)
}

func readXMLList[T any](d *XMLDecoder, field string, t TypeID, elem func(n *xmlNode) (T, error)) ([]T, error) {
	container := d.take(field, "ListOf"+t.String())
	if container == nil {
		return nil, nil
	}
	out := []T{}
	for {
		c := container.takeAny()
		if c == nil {
			return out, nil
		}
		v, err := elem(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// ReadBooleanArray reads a boolean array.
func (d *XMLDecoder) ReadBooleanArray(field string) ([]bool, error) {
	return readXMLList(d, field, TypeBoolean, parseXMLBool)
}

// ReadSByteArray reads a signed byte array.
func (d *XMLDecoder) ReadSByteArray(field string) ([]int8, error) {
	return readXMLList(d, field, TypeSByte, func(n *xmlNode) (int8, error) {
		v, err := parseXMLInt(n, 8)
		return int8(v), err
	})
}

// ReadByteArray reads a byte array.
func (d *XMLDecoder) ReadByteArray(field string) ([]uint8, error) {
	return readXMLList(d, field, TypeByte, func(n *xmlNode) (uint8, error) {
		v, err := parseXMLUint(n, 8)
		return uint8(v), err
	})
}

// ReadInt16Array reads an int16 array.
func (d *XMLDecoder) ReadInt16Array(field string) ([]int16, error) {
	return readXMLList(d, field, TypeInt16, func(n *xmlNode) (int16, error) {
		v, err := parseXMLInt(n, 16)
		return int16(v), err
	})
}

// ReadUInt16Array reads a uint16 array.
func (d *XMLDecoder) ReadUInt16Array(field string) ([]uint16, error) {
	return readXMLList(d, field, TypeUInt16, func(n *xmlNode) (uint16, error) {
		v, err := parseXMLUint(n, 16)
		return uint16(v), err
	})
}

// ReadInt32Array reads an int32 array.
func (d *XMLDecoder) ReadInt32Array(field string) ([]int32, error) {
	return readXMLList(d, field, TypeInt32, func(n *xmlNode) (int32, error) {
		v, err := parseXMLInt(n, 32)
		return int32(v), err
	})
}

// ReadUInt32Array reads a uint32 array.
func (d *XMLDecoder) ReadUInt32Array(field string) ([]uint32, error) {
	return readXMLList(d, field, TypeUInt32, func(n *xmlNode) (uint32, error) {
		v, err := parseXMLUint(n, 32)
		return uint32(v), err
	})
}

// ReadInt64Array reads an int64 array.
func (d *XMLDecoder) ReadInt64Array(field string) ([]int64, error) {
	return readXMLList(d, field, TypeInt64, func(n *xmlNode) (int64, error) {
		return parseXMLInt(n, 64)
	})
}

// ReadUInt64Array reads a uint64 array.
func (d *XMLDecoder) ReadUInt64Array(field string) ([]uint64, error) {
	return readXMLList(d, field, TypeUInt64, func(n *xmlNode) (uint64, error) {
		return parseXMLUint(n, 64)
	})
}

// ReadFloatArray reads a float32 array.
func (d *XMLDecoder) ReadFloatArray(field string) ([]float32, error) {
	return readXMLList(d, field, TypeFloat, func(n *xmlNode) (float32, error) {
		v, err := parseXMLFloat(n, 32)
		return float32(v), err
	})
}

// ReadDoubleArray reads a float64 array.
func (d *XMLDecoder) ReadDoubleArray(field string) ([]float64, error) {
	return readXMLList(d, field, TypeDouble, func(n *xmlNode) (float64, error) {
		return parseXMLFloat(n, 64)
	})
}

// ReadStringArray reads a string array.
func (d *XMLDecoder) ReadStringArray(field string) ([]string, error) {
	return readXMLList(d, field, TypeString, func(n *xmlNode) (string, error) {
		return n.text, nil
	})
}

// ReadDateTimeArray reads a DateTime array.
func (d *XMLDecoder) ReadDateTimeArray(field string) ([]time.Time, error) {
	return readXMLList(d, field, TypeDateTime, parseXMLDateTime)
}

// ReadGUIDArray reads a GUID array.
func (d *XMLDecoder) ReadGUIDArray(field string) ([]uuid.UUID, error) {
	return readXMLList(d, field, TypeGUID, parseXMLGUID)
}

// ReadByteStringArray reads a byte-string array.
func (d *XMLDecoder) ReadByteStringArray(field string) ([][]byte, error) {
	return readXMLList(d, field, TypeByteString, parseXMLByteString)
}

// ReadXMLElementArray reads an XML fragment array.
func (d *XMLDecoder) ReadXMLElementArray(field string) ([]XMLElement, error) {
	return readXMLList(d, field, TypeXMLElement, func(n *xmlNode) (XMLElement, error) {
		return XMLElement(n.innerXML()), nil
	})
}

// ReadNodeIDArray reads a NodeID array.
func (d *XMLDecoder) ReadNodeIDArray(field string) ([]NodeID, error) {
	return readXMLList(d, field, TypeNodeID, d.parseNodeIDNode)
}

// ReadExpandedNodeIDArray reads an ExpandedNodeID array.
func (d *XMLDecoder) ReadExpandedNodeIDArray(field string) ([]ExpandedNodeID, error) {
	return readXMLList(d, field, TypeExpandedNodeID, parseExpandedNodeIDNode)
}

// ReadStatusCodeArray reads a StatusCode array.
func (d *XMLDecoder) ReadStatusCodeArray(field string) ([]StatusCode, error) {
	return readXMLList(d, field, TypeStatusCode, parseStatusCodeNode)
}

// ReadQualifiedNameArray reads a QualifiedName array.
func (d *XMLDecoder) ReadQualifiedNameArray(field string) ([]QualifiedName, error) {
	return readXMLList(d, field, TypeQualifiedName, parseQualifiedNameNode)
}

// ReadLocalizedTextArray reads a LocalizedText array.
func (d *XMLDecoder) ReadLocalizedTextArray(field string) ([]LocalizedText, error) {
	return readXMLList(d, field, TypeLocalizedText, parseLocalizedTextNode)
}

// ReadVariantArray reads a Variant array.
func (d *XMLDecoder) ReadVariantArray(field string) ([]Variant, error) {
	return readXMLList(d, field, TypeVariant, d.parseVariantNode)
}

// ReadDataValueArray reads a DataValue array.
func (d *XMLDecoder) ReadDataValueArray(field string) ([]DataValue, error) {
	return readXMLList(d, field, TypeDataValue, d.parseDataValueNode)
}

// ReadExtensionObjectArray reads an ExtensionObject array.
func (d *XMLDecoder) ReadExtensionObjectArray(field string) ([]ExtensionObject, error) {
	return readXMLList(d, field, TypeExtensionObject, d.parseExtensionObjectNode)
}

// ReadEnumArray reads an enumerated-value array.
func (d *XMLDecoder) ReadEnumArray(field string) ([]EnumValue, error) {
	container := d.take(field, "ListOfEnumeration")
	if container == nil {
		return nil, nil
	}
	out := []EnumValue{}
	for {
		c := container.takeAny()
		if c == nil {
			return out, nil
		}
		v, err := parseEnumNode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// ReadStructArray reads a structured-value array through the registry.
func (d *XMLDecoder) ReadStructArray(field string, typeID NodeID) ([]interface{}, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	container := d.take(field, "ListOfStructure")
	if container == nil {
		return nil, nil
	}
	out := []interface{}{}
	for {
		c := container.takeAny()
		if c == nil {
			return out, nil
		}
		d.push(c)
		v, err := codec.Decode(d.ctx, d)
		d.pop()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// ReadMatrix reads an N-dimensional array from a Matrix element. The
// element type comes from the field definition.
func (d *XMLDecoder) ReadMatrix(field string, t TypeID) (*Matrix, error) {
	n := d.take(field, "Matrix")
	if n == nil {
		return nil, nil
	}
	m, _, err := d.parseMatrixNode(n, t, nil)
	if err != nil {
		return nil, err
	}
	m.Type = t
	return m, nil
}

// ReadStructMatrix reads a matrix of structured values through the
// registry.
func (d *XMLDecoder) ReadStructMatrix(field string, typeID NodeID) (*Matrix, error) {
	codec, err := d.ctx.lookupDecodeCodec(typeID)
	if err != nil {
		return nil, err
	}
	n := d.take(field, "Matrix")
	if n == nil {
		return nil, nil
	}
	m, _, err := d.parseMatrixNode(n, TypeExtensionObject, codec)
	if err != nil {
		return nil, err
	}
	m.Type = TypeExtensionObject
	return m, nil
}

// parseMatrixNode reads the Dimensions and Elements children of a Matrix
// element. With the TypeNull hint the element type is recovered from the
// name of the first element child.
func (d *XMLDecoder) parseMatrixNode(n *xmlNode, hint TypeID, codec Codec) (*Matrix, TypeID, error) {
	d.push(n)
	dims, err := d.ReadInt32Array("Dimensions")
	d.pop()
	if err != nil {
		return nil, TypeNull, err
	}
	elements := n.take("Elements")
	t := hint
	values := []interface{}{}
	if elements != nil {
		for {
			c := elements.takeAny()
			if c == nil {
				break
			}
			if codec != nil {
				d.push(c)
				v, err := codec.Decode(d.ctx, d)
				d.pop()
				if err != nil {
					return nil, TypeNull, err
				}
				values = append(values, v)
				continue
			}
			if t == TypeNull {
				known, ok := typeIDByXMLName[c.name]
				if !ok {
					return nil, TypeNull, fmt.Errorf("%w: unknown matrix element %q", ErrDecoding, c.name)
				}
				t = known
			}
			v, err := d.parseVariantScalarNode(t, c)
			if err != nil {
				return nil, TypeNull, err
			}
			values = append(values, v)
		}
	}
	m := &Matrix{Type: t, Values: values, Dimensions: dims}
	if err := m.Validate(); err != nil {
		return nil, TypeNull, err
	}
	return m, t, nil
}
