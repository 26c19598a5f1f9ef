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

func xmlBytes(t *testing.T, e *XMLEncoder) []byte {
	t.Helper()
	data, err := e.Bytes()
	require.NoError(t, err)
	return data
}

func xmlDecode(t *testing.T, ctx *EncodingContext, data []byte) *XMLDecoder {
	t.Helper()
	d, err := NewXMLDecoder(ctx, data)
	require.NoError(t, err)
	return d
}

func TestXMLTopLevelElement(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteDouble("", 1.5))
	assert.Equal(t,
		`<Double xmlns="http://opcfoundation.org/UA/2008/02/Types.xsd">1.5</Double>`,
		string(xmlBytes(t, e)))
}

func TestXMLLeafRoundTrip(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteBoolean("Enabled", true))
	require.NoError(t, e.WriteInt32("Count", -42))
	require.NoError(t, e.WriteUInt64("Serial", math.MaxUint64))
	require.NoError(t, e.WriteString("Name", "Boiler <1>"))

	d := xmlDecode(t, ctx, xmlBytes(t, e))
	b, err := d.ReadBoolean("Enabled")
	require.NoError(t, err)
	assert.True(t, b)
	i, err := d.ReadInt32("Count")
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i)
	u, err := d.ReadUInt64("Serial")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u)
	s, err := d.ReadString("Name")
	require.NoError(t, err)
	assert.Equal(t, "Boiler <1>", s)
}

func TestXMLFloatTokens(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteDouble("A", math.Inf(1)))
	require.NoError(t, e.WriteDouble("B", math.Inf(-1)))
	require.NoError(t, e.WriteDouble("C", math.NaN()))

	data := string(xmlBytes(t, e))
	assert.Contains(t, data, "<A")
	assert.Contains(t, data, ">Infinity</A>")
	assert.Contains(t, data, ">-Infinity</B>")
	assert.Contains(t, data, ">NaN</C>")

	d := xmlDecode(t, ctx, []byte(data))
	a, err := d.ReadDouble("A")
	require.NoError(t, err)
	assert.True(t, math.IsInf(a, 1))
	b, err := d.ReadDouble("B")
	require.NoError(t, err)
	assert.True(t, math.IsInf(b, -1))
	c, err := d.ReadDouble("C")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(c))
}

func TestXMLFloatSchemaTokens(t *testing.T) {
	// Some stacks emit the XML schema INF spellings instead.
	ctx := newTestContext()
	d := xmlDecode(t, ctx, []byte(`<A>INF</A><B>-INF</B>`))
	a, err := d.ReadDouble("A")
	require.NoError(t, err)
	assert.True(t, math.IsInf(a, 1))
	b, err := d.ReadDouble("B")
	require.NoError(t, err)
	assert.True(t, math.IsInf(b, -1))
}

func TestXMLDateTimeClamp(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteDateTime("Old", time.Date(1400, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, e.WriteDateTime("Far", time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC)))

	data := string(xmlBytes(t, e))
	assert.Contains(t, data, ">1601-01-01T00:00:00Z</Old>")
	assert.Contains(t, data, ">9999-12-31T23:59:59Z</Far>")
}

func TestXMLDateTimeRoundTrip(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	ts := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	require.NoError(t, e.WriteDateTime("At", ts))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadDateTime("At")
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestXMLGUID(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	guid := uuid.MustParse("72962b91-fa75-4ae6-8d28-b404dc7daf63")
	require.NoError(t, e.WriteGUID("", guid))
	assert.Equal(t,
		`<Guid xmlns="http://opcfoundation.org/UA/2008/02/Types.xsd">`+
			`<String>72962B91-FA75-4AE6-8D28-B404DC7DAF63</String></Guid>`,
		string(xmlBytes(t, e)))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadGUID("")
	require.NoError(t, err)
	assert.Equal(t, guid, got)
}

func TestXMLByteString(t *testing.T) {
	ctx := newTestContext()

	// A nil ByteString writes no element at all.
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteByteString("Payload", nil))
	assert.Empty(t, xmlBytes(t, e))
	v, err := xmlDecode(t, ctx, nil).ReadByteString("Payload")
	require.NoError(t, err)
	assert.Nil(t, v)

	e.Reset()
	require.NoError(t, e.WriteByteString("Payload", []byte{0xDE, 0xAD}))
	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadByteString("Payload")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, got)
}

func TestXMLNodeID(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	id := NewStringNodeID(2, "Pump;1")
	require.NoError(t, e.WriteNodeID("", id))
	assert.Equal(t,
		`<NodeId xmlns="http://opcfoundation.org/UA/2008/02/Types.xsd">`+
			`<Identifier>ns=2;s=Pump;1</Identifier></NodeId>`,
		string(xmlBytes(t, e)))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadNodeID("")
	require.NoError(t, err)
	assert.True(t, id.Equal(got))
}

func TestXMLNonReversibleNodeID(t *testing.T) {
	ns := NewNamespaceTable("urn:factory:line1", "urn:factory:line2")
	ctx := newTestContext(WithNamespaceTable(ns))
	e := NewXMLEncoder(ctx, XMLNonReversible())
	require.NoError(t, e.WriteNodeID("", NewStringNodeID(2, "Pump")))
	assert.Contains(t, string(xmlBytes(t, e)),
		"<Identifier>nsu=urn:factory:line2;s=Pump</Identifier>")
}

func TestXMLStatusCodeAndQualifiedName(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteStatusCode("Status", StatusBadInternalError))
	require.NoError(t, e.WriteQualifiedName("Browse", NewQualifiedName(3, "Temperature")))

	d := xmlDecode(t, ctx, xmlBytes(t, e))
	sc, err := d.ReadStatusCode("Status")
	require.NoError(t, err)
	assert.Equal(t, StatusBadInternalError, sc)
	qn, err := d.ReadQualifiedName("Browse")
	require.NoError(t, err)
	assert.Equal(t, NewQualifiedName(3, "Temperature"), qn)
}

func TestXMLLocalizedText(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	lt := LocalizedText{Locale: "en-US", Text: "Running"}
	require.NoError(t, e.WriteLocalizedText("State", lt))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadLocalizedText("State")
	require.NoError(t, err)
	assert.Equal(t, lt, got)
}

func TestXMLArrays(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteInt32Array("Vals", []int32{1, -2, 3}))
	require.NoError(t, e.WriteStringArray("Names", nil))

	d := xmlDecode(t, ctx, xmlBytes(t, e))
	vals, err := d.ReadInt32Array("Vals")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, -2, 3}, vals)

	// A nil slice still writes an empty container, which decodes as an
	// empty slice. An absent container decodes as nil.
	names, err := d.ReadStringArray("Names")
	require.NoError(t, err)
	require.NotNil(t, names)
	assert.Len(t, names, 0)
	absent, err := d.ReadFloatArray("Missing")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestXMLVariantScalar(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	v := NewVariant(TypeString, "hello")
	require.NoError(t, e.WriteVariant("", v))
	assert.Contains(t, string(xmlBytes(t, e)), "<Value><String>hello</String></Value>")

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadVariant("")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestXMLVariantNull(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteVariant("", Variant{}))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadVariant("")
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestXMLVariantArray(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	v := NewVariant(TypeInt32, []int32{5, 6})
	require.NoError(t, e.WriteVariant("", v))
	assert.Contains(t, string(xmlBytes(t, e)),
		"<ListOfInt32><Int32>5</Int32><Int32>6</Int32></ListOfInt32>")

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadVariant("")
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestXMLVariantMatrix(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	m, err := NewMatrix(TypeDouble,
		[]interface{}{1.0, 2.0, 3.0, 4.0}, []int32{2, 2})
	require.NoError(t, err)
	require.NoError(t, e.WriteVariant("", Variant{Type: TypeDouble, Value: m}))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadVariant("")
	require.NoError(t, err)
	gm, ok := got.Value.(*Matrix)
	require.True(t, ok)
	assert.Equal(t, TypeDouble, gm.Type)
	assert.Equal(t, m.Dimensions, gm.Dimensions)
	assert.Equal(t, m.Values, gm.Values)
}

func TestXMLEnum(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	require.NoError(t, e.WriteEnum("Mode", EnumValue{Name: "Auto", Value: 1}))
	assert.Contains(t, string(xmlBytes(t, e)), ">Auto_1</Mode>")

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadEnum("Mode")
	require.NoError(t, err)
	assert.Equal(t, EnumValue{Name: "Auto", Value: 1}, got)

	// Bare numeric text is accepted without a symbolic name.
	bare, err := xmlDecode(t, ctx, []byte(`<Mode>3</Mode>`)).ReadEnum("Mode")
	require.NoError(t, err)
	assert.Equal(t, EnumValue{Value: 3}, bare)
}

func TestXMLStructRoundTrip(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	want := analogRange{Low: -1.5, High: 1.5}
	require.NoError(t, e.WriteStruct("", want, rangeTypeID))
	assert.Equal(t,
		`<Structure xmlns="http://opcfoundation.org/UA/2008/02/Types.xsd">`+
			`<Low>-1.5</Low><High>1.5</High></Structure>`,
		string(xmlBytes(t, e)))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadStruct("", rangeTypeID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestXMLStructArray(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	want := []interface{}{
		analogRange{Low: 0, High: 1},
		analogRange{Low: 1, High: 2},
	}
	require.NoError(t, e.WriteStructArray("Ranges", want, rangeTypeID))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadStructArray("Ranges", rangeTypeID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestXMLDataValue(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	src := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	v := NewVariant(TypeInt32, int32(9))
	dv := DataValue{Value: &v, StatusCode: StatusUncertain, SourceTimestamp: src}
	require.NoError(t, e.WriteDataValue("", dv))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadDataValue("")
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, v, *got.Value)
	assert.Equal(t, StatusUncertain, got.StatusCode)
	assert.True(t, src.Equal(got.SourceTimestamp))
}

func TestXMLExtensionObjectDecodedBody(t *testing.T) {
	ctx := newTestContext()
	e := NewXMLEncoder(ctx)
	eo := ExtensionObject{
		TypeID: NewExpandedNodeID(rangeTypeID),
		Body:   analogRange{Low: 2, High: 4},
	}
	require.NoError(t, e.WriteExtensionObject("", eo))

	got, err := xmlDecode(t, ctx, xmlBytes(t, e)).ReadExtensionObject("")
	require.NoError(t, err)
	assert.Equal(t, ExtensionObjectXML, got.Encoding)
	assert.Equal(t, analogRange{Low: 2, High: 4}, got.Body)
	assert.True(t, rangeTypeID.Equal(got.TypeID.NodeID))
}

func TestXMLExtensionObjectUnknownType(t *testing.T) {
	ctx := newTestContext()
	doc := `<ExtensionObject><TypeId><Identifier>i=999</Identifier></TypeId>` +
		`<Body><Custom><X>1</X></Custom></Body></ExtensionObject>`

	got, err := xmlDecode(t, ctx, []byte(doc)).ReadExtensionObject("")
	require.NoError(t, err)
	assert.Equal(t, ExtensionObjectXML, got.Encoding)
	assert.Equal(t, XMLElement("<Custom><X>1</X></Custom>"), got.Body)
}

func TestXMLMalformedDocument(t *testing.T) {
	ctx := newTestContext()
	for _, doc := range []string{"<a><b></a>", "<unclosed>"} {
		_, err := NewXMLDecoder(ctx, []byte(doc))
		require.Error(t, err, doc)
		assert.ErrorIs(t, err, ErrDecoding)
	}
}

func TestXMLMissingElementsDecodeToZero(t *testing.T) {
	ctx := newTestContext()
	d := xmlDecode(t, ctx, []byte(`<Other>1</Other>`))

	i, err := d.ReadInt32("Count")
	require.NoError(t, err)
	assert.Zero(t, i)
	s, err := d.ReadString("Name")
	require.NoError(t, err)
	assert.Empty(t, s)
	id, err := d.ReadNodeID("Target")
	require.NoError(t, err)
	assert.True(t, id.IsNull())
}
