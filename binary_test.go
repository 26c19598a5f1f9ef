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
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryScalarRoundTrip(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	require.NoError(t, e.WriteBoolean("", true))
	require.NoError(t, e.WriteSByte("", -5))
	require.NoError(t, e.WriteByte("", 0xFF))
	require.NoError(t, e.WriteInt16("", -12345))
	require.NoError(t, e.WriteUInt16("", 54321))
	require.NoError(t, e.WriteInt32("", math.MinInt32))
	require.NoError(t, e.WriteUInt32("", math.MaxUint32))
	require.NoError(t, e.WriteInt64("", math.MaxInt64))
	require.NoError(t, e.WriteUInt64("", math.MaxUint64))
	require.NoError(t, e.WriteFloat("", 1.5))
	require.NoError(t, e.WriteDouble("", -2.25))
	require.NoError(t, e.WriteString("", "hello"))

	d := NewBinaryDecoder(ctx, e.Bytes())

	b, err := d.ReadBoolean("")
	require.NoError(t, err)
	assert.True(t, b)
	i8, err := d.ReadSByte("")
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)
	u8, err := d.ReadByte("")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), u8)
	i16, err := d.ReadInt16("")
	require.NoError(t, err)
	assert.Equal(t, int16(-12345), i16)
	u16, err := d.ReadUInt16("")
	require.NoError(t, err)
	assert.Equal(t, uint16(54321), u16)
	i32, err := d.ReadInt32("")
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), i32)
	u32, err := d.ReadUInt32("")
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)
	i64, err := d.ReadInt64("")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), i64)
	u64, err := d.ReadUInt64("")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)
	f32, err := d.ReadFloat("")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)
	f64, err := d.ReadDouble("")
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
	s, err := d.ReadString("")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 0, d.Remaining())
}

func TestBinaryFloatSpecials(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteFloat("", float32(math.Inf(1))))
	require.NoError(t, e.WriteDouble("", math.Inf(-1)))
	require.NoError(t, e.WriteDouble("", math.NaN()))

	d := NewBinaryDecoder(ctx, e.Bytes())
	f32, err := d.ReadFloat("")
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(f32), 1))
	f64, err := d.ReadDouble("")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f64, -1))
	nan, err := d.ReadDouble("")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(nan))
}

func TestBinaryStringNullSentinel(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteString("", ""))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes())

	s, err := NewBinaryDecoder(ctx, e.Bytes()).ReadString("")
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestBinaryByteStringNilAndEmpty(t *testing.T) {
	ctx := newTestContext()

	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteByteString("", nil))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes())
	v, err := NewBinaryDecoder(ctx, e.Bytes()).ReadByteString("")
	require.NoError(t, err)
	assert.Nil(t, v)

	e.Reset()
	require.NoError(t, e.WriteByteString("", []byte{}))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, e.Bytes())
	v, err = NewBinaryDecoder(ctx, e.Bytes()).ReadByteString("")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Len(t, v, 0)
}

func TestBinaryDateTime(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	ts := time.Date(2024, 5, 1, 12, 30, 45, 700, time.UTC)
	require.NoError(t, e.WriteDateTime("", time.Time{}))
	require.NoError(t, e.WriteDateTime("", ts))

	// The zero time writes tick 0 and decodes to the range minimum, the
	// same instant the textual formats produce for it.
	d := NewBinaryDecoder(ctx, e.Bytes())
	zero, err := d.ReadDateTime("")
	require.NoError(t, err)
	assert.True(t, dateTimeMin.Equal(zero), "got %v", zero)
	got, err := d.ReadDateTime("")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got), "got %v", got)
}

func TestBinaryDateTimeClamp(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	early := time.Date(1650, 3, 15, 8, 30, 0, 0, time.UTC)
	late := time.Date(2300, 7, 4, 12, 0, 0, 300, time.UTC)
	require.NoError(t, e.WriteDateTime("", time.Date(1600, 12, 31, 23, 59, 59, 0, time.UTC)))
	require.NoError(t, e.WriteDateTime("", time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, e.WriteDateTime("", early))
	require.NoError(t, e.WriteDateTime("", late))

	d := NewBinaryDecoder(ctx, e.Bytes())
	gotMin, err := d.ReadDateTime("")
	require.NoError(t, err)
	assert.True(t, dateTimeMin.Equal(gotMin), "got %v", gotMin)
	gotMax, err := d.ReadDateTime("")
	require.NoError(t, err)
	assert.True(t, dateTimeMax.Equal(gotMax), "got %v", gotMax)

	// In-range instants outside the int64 nanosecond window round-trip
	// exactly instead of overflowing.
	gotEarly, err := d.ReadDateTime("")
	require.NoError(t, err)
	assert.True(t, early.Equal(gotEarly), "got %v", gotEarly)
	gotLate, err := d.ReadDateTime("")
	require.NoError(t, err)
	assert.True(t, late.Equal(gotLate), "got %v", gotLate)
}

func TestBinaryGUIDByteOrder(t *testing.T) {
	ctx := newTestContext()
	guid := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")

	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteGUID("", guid))
	assert.Equal(t, []byte{
		0x33, 0x22, 0x11, 0x00,
		0x55, 0x44,
		0x77, 0x66,
		0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	}, e.Bytes())

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadGUID("")
	require.NoError(t, err)
	assert.Equal(t, guid, got)
}

func TestBinaryNodeIDCompactForms(t *testing.T) {
	ctx := newTestContext()

	cases := []struct {
		name string
		id   NodeID
		want []byte
	}{
		{
			"two byte",
			NewNumericNodeID(0, 255),
			[]byte{0x00, 0xFF},
		},
		{
			"four byte",
			NewNumericNodeID(5, 1025),
			[]byte{0x01, 0x05, 0x01, 0x04},
		},
		{
			"full numeric",
			NewNumericNodeID(300, 70000),
			[]byte{0x02, 0x2C, 0x01, 0x70, 0x11, 0x01, 0x00},
		},
		{
			"string",
			NewStringNodeID(2, "AB"),
			[]byte{0x03, 0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 'A', 'B'},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewBinaryEncoder(ctx)
			require.NoError(t, e.WriteNodeID("", tc.id))
			assert.Equal(t, tc.want, e.Bytes())

			got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadNodeID("")
			require.NoError(t, err)
			assert.True(t, tc.id.Equal(got))
		})
	}
}

func TestBinaryNodeIDRoundTrip(t *testing.T) {
	ctx := newTestContext()
	ids := []NodeID{
		NewGUIDNodeID(4, uuid.MustParse("72962b91-fa75-4ae6-8d28-b404dc7daf63")),
		NewOpaqueNodeID(7, []byte{0x01, 0x02, 0x03}),
	}
	for _, id := range ids {
		e := NewBinaryEncoder(ctx)
		require.NoError(t, e.WriteNodeID("", id))
		got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadNodeID("")
		require.NoError(t, err)
		assert.True(t, id.Equal(got))
	}
}

func TestBinaryExpandedNodeID(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	v := ExpandedNodeID{
		NodeID:       NewNumericNodeID(0, 5),
		NamespaceURI: "urn:factory:line1",
		ServerIndex:  3,
	}
	require.NoError(t, e.WriteExpandedNodeID("", v))

	// Both option bits are set on the leading encoding byte.
	assert.Equal(t, byte(0x00|0x80|0x40), e.Bytes()[0])

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadExpandedNodeID("")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestBinaryLocalizedTextMask(t *testing.T) {
	ctx := newTestContext()
	cases := []struct {
		lt   LocalizedText
		mask byte
	}{
		{LocalizedText{}, 0x00},
		{LocalizedText{Locale: "en"}, 0x01},
		{LocalizedText{Text: "running"}, 0x02},
		{LocalizedText{Locale: "en", Text: "running"}, 0x03},
	}
	for _, tc := range cases {
		e := NewBinaryEncoder(ctx)
		require.NoError(t, e.WriteLocalizedText("", tc.lt))
		assert.Equal(t, tc.mask, e.Bytes()[0])

		got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadLocalizedText("")
		require.NoError(t, err)
		assert.Equal(t, tc.lt, got)
	}
}

func TestBinaryQualifiedName(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	qn := NewQualifiedName(2, "Boiler")
	require.NoError(t, e.WriteQualifiedName("", qn))
	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadQualifiedName("")
	require.NoError(t, err)
	assert.Equal(t, qn, got)
}

func TestBinaryVariantScalar(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	v := NewVariant(TypeDouble, 3.5)
	require.NoError(t, e.WriteVariant("", v))
	assert.Equal(t, byte(TypeDouble), e.Bytes()[0])

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadVariant("")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestBinaryVariantNull(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteVariant("", Variant{}))
	assert.Equal(t, []byte{0x00}, e.Bytes())

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadVariant("")
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestBinaryVariantTypeMismatch(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	err := e.WriteVariant("", Variant{Type: TypeInt32, Value: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestBinaryVariantArray(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	v := NewVariant(TypeInt32, []int32{1, 2, 3})
	require.NoError(t, e.WriteVariant("", v))
	assert.Equal(t, byte(uint8(TypeInt32)|0x80), e.Bytes()[0])

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadVariant("")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestBinaryVariantNullArray(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	require.NoError(t, e.WriteVariant("", Variant{Type: TypeInt32, Value: []int32(nil)}))
	assert.Equal(t, []byte{uint8(TypeInt32) | 0x80, 0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes())

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadVariant("")
	require.NoError(t, err)
	assert.Equal(t, TypeInt32, got.Type)
	assert.Equal(t, []interface{}(nil), got.Value)
}

func TestBinaryVariantMatrix(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	m, err := NewMatrix(TypeDouble,
		[]interface{}{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}, []int32{2, 3})
	require.NoError(t, err)

	require.NoError(t, e.WriteVariant("", Variant{Type: TypeDouble, Value: m}))
	assert.Equal(t, byte(uint8(TypeDouble)|0x80|0x40), e.Bytes()[0])

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadVariant("")
	require.NoError(t, err)
	gm, ok := got.Value.(*Matrix)
	require.True(t, ok)
	assert.Equal(t, m.Dimensions, gm.Dimensions)
	assert.Equal(t, m.Values, gm.Values)
	assert.Equal(t, TypeDouble, gm.Type)
}

func TestBinaryVariantMatrixShapeMismatch(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	bad := &Matrix{Type: TypeInt32, Values: []interface{}{int32(1)}, Dimensions: []int32{2, 2}}
	err := e.WriteVariant("", Variant{Type: TypeInt32, Value: bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestBinaryDataValue(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	src := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	v := NewVariant(TypeInt32, int32(42))
	dv := DataValue{
		Value:             &v,
		StatusCode:        StatusUncertain,
		SourceTimestamp:   src,
		ServerPicoseconds: 7,
	}
	require.NoError(t, e.WriteDataValue("", dv))
	assert.Equal(t, byte(0x01|0x02|0x04|0x20), e.Bytes()[0])

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadDataValue("")
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, v, *got.Value)
	assert.Equal(t, StatusUncertain, got.StatusCode)
	assert.True(t, src.Equal(got.SourceTimestamp))
	assert.True(t, got.ServerTimestamp.IsZero())
	assert.Equal(t, uint16(7), got.ServerPicoseconds)
	assert.Equal(t, uint16(0), got.SourcePicoseconds)
}

func TestBinaryExtensionObjectRawBody(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	eo := ExtensionObject{
		TypeID:   NewExpandedNodeID(NewNumericNodeID(0, 999)),
		Encoding: ExtensionObjectByteString,
		Body:     []byte{0x01, 0x02, 0x03},
	}
	require.NoError(t, e.WriteExtensionObject("", eo))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadExtensionObject("")
	require.NoError(t, err)
	assert.Equal(t, eo, got)
}

func TestBinaryExtensionObjectDecodedBody(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	eo := ExtensionObject{
		TypeID: NewExpandedNodeID(rangeTypeID),
		Body:   analogRange{Low: -10, High: 10},
	}
	require.NoError(t, e.WriteExtensionObject("", eo))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadExtensionObject("")
	require.NoError(t, err)
	assert.Equal(t, ExtensionObjectByteString, got.Encoding)
	assert.Equal(t, analogRange{Low: -10, High: 10}, got.Body)
	assert.True(t, rangeTypeID.Equal(got.TypeID.NodeID))
}

func TestBinaryExtensionObjectEmpty(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	eo := ExtensionObject{TypeID: NewExpandedNodeID(NewNumericNodeID(0, 999))}
	require.NoError(t, e.WriteExtensionObject("", eo))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadExtensionObject("")
	require.NoError(t, err)
	assert.Equal(t, ExtensionObjectEmpty, got.Encoding)
	assert.Nil(t, got.Body)
}

func TestBinaryEnum(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteEnum("", EnumValue{Name: "Running", Value: 2}))
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, e.Bytes())

	// The symbolic name is not carried on the binary wire.
	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadEnum("")
	require.NoError(t, err)
	assert.Equal(t, EnumValue{Value: 2}, got)
}

func TestBinaryStructRoundTrip(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	want := analogRange{Low: 0.5, High: 99.5}
	require.NoError(t, e.WriteStruct("", want, rangeTypeID))
	assert.Len(t, e.Bytes(), 16)

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadStruct("", rangeTypeID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBinaryStructArray(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	want := []interface{}{
		analogRange{Low: 0, High: 1},
		analogRange{Low: 1, High: 2},
	}
	require.NoError(t, e.WriteStructArray("", want, rangeTypeID))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadStructArray("", rangeTypeID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBinaryArrays(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	require.NoError(t, e.WriteStringArray("", []string{"a", "", "c"}))
	require.NoError(t, e.WriteFloatArray("", nil))
	require.NoError(t, e.WriteInt32Array("", []int32{}))

	d := NewBinaryDecoder(ctx, e.Bytes())
	ss, err := d.ReadStringArray("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, ss)
	fs, err := d.ReadFloatArray("")
	require.NoError(t, err)
	assert.Nil(t, fs)
	is, err := d.ReadInt32Array("")
	require.NoError(t, err)
	require.NotNil(t, is)
	assert.Len(t, is, 0)
}

func TestBinaryMatrixStandalone(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)

	m, err := NewMatrix(TypeInt32,
		[]interface{}{int32(1), int32(2), int32(3), int32(4)}, []int32{2, 2})
	require.NoError(t, err)
	require.NoError(t, e.WriteMatrix("", m))

	got, err := NewBinaryDecoder(ctx, e.Bytes()).ReadMatrix("", TypeInt32)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestBinaryTruncatedData(t *testing.T) {
	ctx := newTestContext()

	_, err := NewBinaryDecoder(ctx, []byte{0x01}).ReadInt32("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)

	_, err = NewBinaryDecoder(ctx, []byte{0x05, 0x00, 0x00, 0x00, 'a'}).ReadString("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)

	// A declared element count beyond the remaining bytes must fail before
	// any allocation happens.
	_, err = NewBinaryDecoder(ctx, []byte{0xF0, 0xFF, 0xFF, 0x7F}).ReadInt32Array("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestBinaryUnknownNodeIDEncoding(t *testing.T) {
	ctx := newTestContext()
	_, err := NewBinaryDecoder(ctx, []byte{0x3F, 0x00}).ReadNodeID("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestBinaryEncoderReset(t *testing.T) {
	ctx := newTestContext()
	e := NewBinaryEncoder(ctx)
	require.NoError(t, e.WriteUInt32("", 7))
	e.Reset()
	require.NoError(t, e.WriteByte("", 1))
	assert.Equal(t, []byte{0x01}, e.Bytes())
}
