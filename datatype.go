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

import "fmt"

// StructureType describes the layout discipline of a structured data type.
type StructureType int32

// Structure layout kinds.
const (
	StructureLayoutPlain          StructureType = 0
	StructureLayoutOptionalFields StructureType = 1
	StructureLayoutUnion          StructureType = 2
)

func (s StructureType) String() string {
	switch s {
	case StructureLayoutPlain:
		return "Structure"
	case StructureLayoutOptionalFields:
		return "StructureWithOptionalFields"
	case StructureLayoutUnion:
		return "Union"
	default:
		return fmt.Sprintf("StructureType(%d)", int32(s))
	}
}

// Value ranks as carried in StructureField.ValueRank.
const (
	ValueRankScalar       int32 = -1
	ValueRankOneDimension int32 = 1
)

// StructureField is one field of a StructureDefinition: its name, declared
// data type and value rank.
type StructureField struct {
	Name            string
	Description     LocalizedText
	DataType        NodeID
	ValueRank       int32
	ArrayDimensions []uint32
	MaxStringLength uint32
	IsOptional      bool
}

// StructureDefinition is the server-published layout description of a
// structured data type. It is the single source of truth the dynamic codec
// synthesizer works from.
type StructureDefinition struct {
	DefaultEncodingID NodeID
	BaseDataType      NodeID
	StructureType     StructureType
	Fields            []StructureField
}

// EnumField is one symbolic name and value pair of an EnumDefinition.
type EnumField struct {
	Value       int64
	DisplayName LocalizedText
	Description LocalizedText
	Name        string
}

// EnumDefinition is the server-published description of an enumerated data
// type.
type EnumDefinition struct {
	Fields []EnumField
}

// DataTypeDefinition is the union of the definition kinds a DataType node
// may publish.
type DataTypeDefinition interface {
	isDataTypeDefinition()
}

func (*StructureDefinition) isDataTypeDefinition() {}
func (*EnumDefinition) isDataTypeDefinition()      {}

// Well-known identities of the definition types and their encodings.
var (
	IDStructureField = NewNumericNodeID(0, 101)
	IDEnumField      = NewNumericNodeID(0, 102)

	IDStructureDefinitionDefaultXML  = NewNumericNodeID(0, 14798)
	IDEnumDefinitionDefaultXML       = NewNumericNodeID(0, 14799)
	IDStructureFieldDefaultBinary    = NewNumericNodeID(0, 14844)
	IDStructureFieldDefaultXML       = NewNumericNodeID(0, 14800)
	IDEnumFieldDefaultBinary         = NewNumericNodeID(0, 14845)
	IDEnumFieldDefaultXML            = NewNumericNodeID(0, 14801)
	IDStructureDefinitionDefaultJSON = NewNumericNodeID(0, 15589)
	IDEnumDefinitionDefaultJSON      = NewNumericNodeID(0, 15590)
	IDStructureFieldDefaultJSON      = NewNumericNodeID(0, 15591)
	IDEnumFieldDefaultJSON           = NewNumericNodeID(0, 15592)
)

// registerBuiltinCodecs installs the static codecs for the definition
// types. The tree builder needs these to decode DataTypeDefinition
// attribute values carried inside ExtensionObjects.
func registerBuiltinCodecs(r *CodecRegistry) {
	r.Register(IDStructureField, EncodingIdentity{
		Binary: IDStructureFieldDefaultBinary,
		XML:    IDStructureFieldDefaultXML,
		JSON:   IDStructureFieldDefaultJSON,
	}, structureFieldCodec{})
	r.Register(IDStructureDefinition, EncodingIdentity{
		Binary: IDStructureDefinitionDefaultBinary,
		XML:    IDStructureDefinitionDefaultXML,
		JSON:   IDStructureDefinitionDefaultJSON,
	}, structureDefinitionCodec{})
	r.Register(IDEnumField, EncodingIdentity{
		Binary: IDEnumFieldDefaultBinary,
		XML:    IDEnumFieldDefaultXML,
		JSON:   IDEnumFieldDefaultJSON,
	}, enumFieldCodec{})
	r.Register(IDEnumDefinition, EncodingIdentity{
		Binary: IDEnumDefinitionDefaultBinary,
		XML:    IDEnumDefinitionDefaultXML,
		JSON:   IDEnumDefinitionDefaultJSON,
	}, enumDefinitionCodec{})
}

type structureFieldCodec struct{}

func (structureFieldCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	f, ok := value.(StructureField)
	if !ok {
		if p, isPtr := value.(*StructureField); isPtr {
			f = *p
		} else {
			return fmt.Errorf("%w: expected StructureField, got %T", ErrEncoding, value)
		}
	}
	if err := e.WriteString("Name", f.Name); err != nil {
		return err
	}
	if err := e.WriteLocalizedText("Description", f.Description); err != nil {
		return err
	}
	if err := e.WriteNodeID("DataType", f.DataType); err != nil {
		return err
	}
	if err := e.WriteInt32("ValueRank", f.ValueRank); err != nil {
		return err
	}
	if err := e.WriteUInt32Array("ArrayDimensions", f.ArrayDimensions); err != nil {
		return err
	}
	if err := e.WriteUInt32("MaxStringLength", f.MaxStringLength); err != nil {
		return err
	}
	return e.WriteBoolean("IsOptional", f.IsOptional)
}

func (structureFieldCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	var f StructureField
	var err error
	if f.Name, err = d.ReadString("Name"); err != nil {
		return nil, err
	}
	if f.Description, err = d.ReadLocalizedText("Description"); err != nil {
		return nil, err
	}
	if f.DataType, err = d.ReadNodeID("DataType"); err != nil {
		return nil, err
	}
	if f.ValueRank, err = d.ReadInt32("ValueRank"); err != nil {
		return nil, err
	}
	if f.ArrayDimensions, err = d.ReadUInt32Array("ArrayDimensions"); err != nil {
		return nil, err
	}
	if f.MaxStringLength, err = d.ReadUInt32("MaxStringLength"); err != nil {
		return nil, err
	}
	if f.IsOptional, err = d.ReadBoolean("IsOptional"); err != nil {
		return nil, err
	}
	return f, nil
}

type structureDefinitionCodec struct{}

func (structureDefinitionCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	def, ok := value.(*StructureDefinition)
	if !ok {
		return fmt.Errorf("%w: expected *StructureDefinition, got %T", ErrEncoding, value)
	}
	if err := e.WriteNodeID("DefaultEncodingId", def.DefaultEncodingID); err != nil {
		return err
	}
	if err := e.WriteNodeID("BaseDataType", def.BaseDataType); err != nil {
		return err
	}
	if err := e.WriteEnum("StructureType", EnumValue{
		Name:  def.StructureType.String(),
		Value: int32(def.StructureType),
	}); err != nil {
		return err
	}
	fields := make([]interface{}, len(def.Fields))
	for i, f := range def.Fields {
		fields[i] = f
	}
	return e.WriteStructArray("Fields", fields, IDStructureField)
}

func (structureDefinitionCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	def := &StructureDefinition{}
	var err error
	if def.DefaultEncodingID, err = d.ReadNodeID("DefaultEncodingId"); err != nil {
		return nil, err
	}
	if def.BaseDataType, err = d.ReadNodeID("BaseDataType"); err != nil {
		return nil, err
	}
	st, err := d.ReadEnum("StructureType")
	if err != nil {
		return nil, err
	}
	def.StructureType = StructureType(st.Value)
	raw, err := d.ReadStructArray("Fields", IDStructureField)
	if err != nil {
		return nil, err
	}
	def.Fields = make([]StructureField, len(raw))
	for i, v := range raw {
		f, ok := v.(StructureField)
		if !ok {
			return nil, fmt.Errorf("%w: expected StructureField, got %T", ErrDecoding, v)
		}
		def.Fields[i] = f
	}
	return def, nil
}

type enumFieldCodec struct{}

func (enumFieldCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	f, ok := value.(EnumField)
	if !ok {
		if p, isPtr := value.(*EnumField); isPtr {
			f = *p
		} else {
			return fmt.Errorf("%w: expected EnumField, got %T", ErrEncoding, value)
		}
	}
	if err := e.WriteInt64("Value", f.Value); err != nil {
		return err
	}
	if err := e.WriteLocalizedText("DisplayName", f.DisplayName); err != nil {
		return err
	}
	if err := e.WriteLocalizedText("Description", f.Description); err != nil {
		return err
	}
	return e.WriteString("Name", f.Name)
}

func (enumFieldCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	var f EnumField
	var err error
	if f.Value, err = d.ReadInt64("Value"); err != nil {
		return nil, err
	}
	if f.DisplayName, err = d.ReadLocalizedText("DisplayName"); err != nil {
		return nil, err
	}
	if f.Description, err = d.ReadLocalizedText("Description"); err != nil {
		return nil, err
	}
	if f.Name, err = d.ReadString("Name"); err != nil {
		return nil, err
	}
	return f, nil
}

type enumDefinitionCodec struct{}

func (enumDefinitionCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	def, ok := value.(*EnumDefinition)
	if !ok {
		return fmt.Errorf("%w: expected *EnumDefinition, got %T", ErrEncoding, value)
	}
	fields := make([]interface{}, len(def.Fields))
	for i, f := range def.Fields {
		fields[i] = f
	}
	return e.WriteStructArray("Fields", fields, IDEnumField)
}

func (enumDefinitionCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	def := &EnumDefinition{}
	raw, err := d.ReadStructArray("Fields", IDEnumField)
	if err != nil {
		return nil, err
	}
	def.Fields = make([]EnumField, len(raw))
	for i, v := range raw {
		f, ok := v.(EnumField)
		if !ok {
			return nil, fmt.Errorf("%w: expected EnumField, got %T", ErrDecoding, v)
		}
		def.Fields[i] = f
	}
	return def, nil
}
