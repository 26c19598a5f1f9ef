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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMachineTree hand-builds the hierarchy a tree build would produce for a
// server exposing one structured type and one enumerated type.
func newMachineTree() *DataTypeTree {
	root := &DataTypeNode{DataType: &DataType{
		BrowseName: QualifiedName{Name: "BaseDataType"},
		NodeID:     IDBaseDataType,
	}}
	for _, t := range []TypeID{TypeInt32, TypeDouble, TypeString} {
		root.AddChild(&DataType{
			BrowseName: QualifiedName{Name: t.String()},
			NodeID:     NewNumericNodeID(0, uint32(t)),
		})
	}
	structBase := root.AddChild(&DataType{
		BrowseName: QualifiedName{Name: "Structure"},
		NodeID:     idStructureBase,
	})
	enumBase := root.AddChild(&DataType{
		BrowseName: QualifiedName{Name: "Enumeration"},
		NodeID:     idEnumBase,
	})

	enumBase.AddChild(&DataType{
		BrowseName: QualifiedName{Name: "MachineMode"},
		NodeID:     idMachineMode,
		Definition: machineModeDefinition(),
	})
	structBase.AddChild(&DataType{
		BrowseName:       QualifiedName{Name: "MachineStatus"},
		NodeID:           idMachineStatus,
		BinaryEncodingID: NewNumericNodeID(1, 3201),
		XMLEncodingID:    NewNumericNodeID(1, 3202),
		JSONEncodingID:   NewNumericNodeID(1, 3203),
		Definition: &StructureDefinition{
			BaseDataType:  idStructureBase,
			StructureType: StructureLayoutPlain,
			Fields: []StructureField{
				{Name: "Name", DataType: NewNumericNodeID(0, uint32(TypeString)), ValueRank: ValueRankScalar},
				{Name: "Speed", DataType: NewNumericNodeID(0, uint32(TypeDouble)), ValueRank: ValueRankScalar},
				{Name: "Tags", DataType: NewNumericNodeID(0, uint32(TypeString)), ValueRank: ValueRankOneDimension},
				{Name: "Mode", DataType: idMachineMode, ValueRank: ValueRankScalar},
			},
		},
	})
	return NewDataTypeTree(root)
}

func newDynamicContext(t *testing.T) *EncodingContext {
	t.Helper()
	tree := newMachineTree()
	registry := NewCodecRegistry()
	registerBuiltinCodecs(registry)
	require.NoError(t, RegisterDynamicCodecs(registry, tree))
	return NewEncodingContext(WithRegistry(registry))
}

func machineStatusValue() *DynamicStruct {
	ds := NewDynamicStruct(idMachineStatus)
	ds.Values["Name"] = "Pump-1"
	ds.Values["Speed"] = 1480.5
	ds.Values["Tags"] = []string{"hall-a", "critical"}
	ds.Values["Mode"] = EnumValue{Name: "Auto", Value: 2}
	return ds
}

func TestRegisterDynamicCodecs(t *testing.T) {
	tree := newMachineTree()
	registry := NewCodecRegistry()
	require.NoError(t, RegisterDynamicCodecs(registry, tree))

	_, ok := registry.Lookup(idMachineStatus)
	assert.True(t, ok)
	_, ok = registry.LookupBinary(NewNumericNodeID(1, 3201))
	assert.True(t, ok)
	_, ok = registry.LookupJSON(NewNumericNodeID(1, 3203))
	assert.True(t, ok)
	_, ok = registry.Lookup(idMachineMode)
	assert.True(t, ok)

	// Types without a published definition get no codec.
	_, ok = registry.Lookup(idStructureBase)
	assert.False(t, ok)
}

func TestDynamicStructBinaryRoundTrip(t *testing.T) {
	ctx := newDynamicContext(t)
	want := machineStatusValue()

	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteStruct("", want, idMachineStatus))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadStruct("", idMachineStatus)
	require.NoError(t, err)
	ds, ok := got.(*DynamicStruct)
	require.True(t, ok)
	assert.True(t, idMachineStatus.Equal(ds.TypeID))
	assert.Equal(t, want.Values, ds.Values)
}

func TestDynamicStructJSONRoundTrip(t *testing.T) {
	ctx := newDynamicContext(t)
	want := machineStatusValue()

	e := NewJSONEncoder(ctx)
	require.NoError(t, e.WriteStruct("", want, idMachineStatus))
	data, err := e.Bytes()
	require.NoError(t, err)

	d, err := NewJSONDecoder(ctx, data)
	require.NoError(t, err)
	got, err := d.ReadStruct("", idMachineStatus)
	require.NoError(t, err)
	ds, ok := got.(*DynamicStruct)
	require.True(t, ok)
	assert.Equal(t, want.Values, ds.Values)
}

func TestDynamicStructXMLRoundTrip(t *testing.T) {
	ctx := newDynamicContext(t)
	want := machineStatusValue()

	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteStruct("", want, idMachineStatus))
	data, err := e.Bytes()
	require.NoError(t, err)

	d, err := NewXMLDecoder(ctx, data)
	require.NoError(t, err)
	got, err := d.ReadStruct("", idMachineStatus)
	require.NoError(t, err)
	ds, ok := got.(*DynamicStruct)
	require.True(t, ok)
	assert.Equal(t, want.Values, ds.Values)
}

func TestDynamicEnumNameResolution(t *testing.T) {
	ctx := newDynamicContext(t)

	// The wire carries only the number; the decode side restores the
	// symbolic name from the EnumDefinition.
	e := NewBinaryEncoder(ctx)
	ds := machineStatusValue()
	ds.Values["Mode"] = EnumValue{Value: 1}
	require.NoError(t, e.WriteStruct("", ds, idMachineStatus))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadStruct("", idMachineStatus)
	require.NoError(t, err)
	assert.Equal(t, EnumValue{Name: "Manual", Value: 1},
		got.(*DynamicStruct).Values["Mode"])
}

func TestDynamicEnumCodec(t *testing.T) {
	ctx := newDynamicContext(t)
	codec, ok := ctx.Registry.Lookup(idMachineMode)
	require.True(t, ok)

	e := NewBinaryEncoder(ctx)
	require.NoError(t, codec.Encode(ctx, e, int32(2)))
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, e.Bytes())

	got, err := codec.Decode(ctx, NewBinaryDecoder(ctx, e.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, EnumValue{Name: "Auto", Value: 2}, got)
}

func TestDynamicFieldErrorNamesField(t *testing.T) {
	ctx := newDynamicContext(t)
	ds := machineStatusValue()
	ds.Values["Speed"] = "fast"

	e := NewBinaryEncoder(ctx)
	err := e.WriteStruct("", ds, idMachineStatus)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncoding)
	assert.Contains(t, err.Error(), "field Speed")
}

func TestNewDynamicStructCodecRequiresStructureDefinition(t *testing.T) {
	tree := newMachineTree()
	mode, ok := tree.DataType(idMachineMode)
	require.True(t, ok)

	_, err := NewDynamicStructCodec(mode, tree)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = NewDynamicEnumCodec(tree.Root().DataType)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDynamicStructMissingFieldEncodesZero(t *testing.T) {
	ctx := newDynamicContext(t)
	ds := NewDynamicStruct(idMachineStatus)
	ds.Values["Name"] = "Pump-2"
	ds.Values["Speed"] = 0.0
	ds.Values["Mode"] = EnumValue{Value: 0}
	// Tags is absent and encodes as a null array.

	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteStruct("", ds, idMachineStatus))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadStruct("", idMachineStatus)
	require.NoError(t, err)
	assert.Nil(t, got.(*DynamicStruct).Values["Tags"])
}
