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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analogRange is the static structured type the codec tests register: two
// Double fields, one codec shared by all three wire formats.
type analogRange struct {
	Low  float64
	High float64
}

var (
	rangeTypeID   = NewNumericNodeID(1, 3000)
	rangeBinaryID = NewNumericNodeID(1, 3001)
	rangeXMLID    = NewNumericNodeID(1, 3002)
	rangeJSONID   = NewNumericNodeID(1, 3003)
)

type analogRangeCodec struct{}

func (analogRangeCodec) Encode(_ *EncodingContext, e Encoder, value interface{}) error {
	r, ok := value.(analogRange)
	if !ok {
		return fmt.Errorf("%w: expected analogRange, got %T", ErrEncoding, value)
	}
	if err := e.WriteDouble("Low", r.Low); err != nil {
		return err
	}
	return e.WriteDouble("High", r.High)
}

func (analogRangeCodec) Decode(_ *EncodingContext, d Decoder) (interface{}, error) {
	var r analogRange
	var err error
	if r.Low, err = d.ReadDouble("Low"); err != nil {
		return nil, err
	}
	if r.High, err = d.ReadDouble("High"); err != nil {
		return nil, err
	}
	return r, nil
}

// newTestContext builds a context around a fresh registry holding the
// builtin definition codecs plus the analogRange test codec.
func newTestContext(opts ...ContextOption) *EncodingContext {
	r := NewCodecRegistry()
	registerBuiltinCodecs(r)
	r.Register(rangeTypeID, EncodingIdentity{
		Binary: rangeBinaryID,
		XML:    rangeXMLID,
		JSON:   rangeJSONID,
	}, analogRangeCodec{})
	return NewEncodingContext(append([]ContextOption{WithRegistry(r)}, opts...)...)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"binary": FormatBinary,
		"bin":    FormatBinary,
		"xml":    FormatXML,
		"json":   FormatJSON,
	}
	for in, want := range cases {
		f, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, f)
	}

	_, err := ParseFormat("yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "binary", FormatBinary.String())
	assert.Equal(t, "xml", FormatXML.String())
	assert.Equal(t, "json", FormatJSON.String())
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	ctx := newTestContext()
	want := analogRange{Low: -40, High: 125}

	for _, f := range []Format{FormatBinary, FormatXML, FormatJSON} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Marshal(ctx, f, rangeTypeID, want)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			got, err := Unmarshal(ctx, f, rangeTypeID, data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestMarshalUnknownType(t *testing.T) {
	ctx := newTestContext()
	_, err := Marshal(ctx, FormatBinary, NewNumericNodeID(1, 9999), analogRange{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodecNotFound)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestUnmarshalUnknownType(t *testing.T) {
	ctx := newTestContext()
	_, err := Unmarshal(ctx, FormatBinary, NewNumericNodeID(1, 9999), []byte{0, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodecNotFound)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestUnmarshalMalformedDocument(t *testing.T) {
	ctx := newTestContext()

	_, err := Unmarshal(ctx, FormatJSON, rangeTypeID, []byte("{truncated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)

	_, err = Unmarshal(ctx, FormatXML, rangeTypeID, []byte("<Structure><Low>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecoding)
}

func TestMarshalRecordsMetrics(t *testing.T) {
	m := NewCodecMetrics()
	ctx := newTestContext(WithMetrics(m))
	want := analogRange{Low: 1, High: 2}

	_, err := Marshal(ctx, FormatJSON, rangeTypeID, want)
	require.NoError(t, err)

	data, err := Marshal(ctx, FormatBinary, rangeTypeID, want)
	require.NoError(t, err)
	_, err = Unmarshal(ctx, FormatBinary, rangeTypeID, data)
	require.NoError(t, err)

	_, err = Marshal(ctx, FormatBinary, rangeTypeID, "not a range")
	require.Error(t, err)

	assert.Equal(t, int64(1), m.JSON.Encodes.Value())
	assert.Equal(t, int64(2), m.Binary.Encodes.Value())
	assert.Equal(t, int64(1), m.Binary.EncodeErrors.Value())
	assert.Equal(t, int64(1), m.Binary.Decodes.Value())
	assert.Equal(t, int64(0), m.Binary.DecodeErrors.Value())
	assert.Equal(t, int64(1), m.Binary.EncodeLatency.Stats().Count)
}

func TestMarshalWithoutMetrics(t *testing.T) {
	// A context without metrics must not panic on the observation path.
	ctx := newTestContext()
	require.Nil(t, ctx.Metrics)
	_, err := Marshal(ctx, FormatBinary, rangeTypeID, analogRange{Low: 3, High: 4})
	require.NoError(t, err)
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, StatusGood, Status(nil))
	assert.Equal(t, StatusBadEncodingError, Status(fmt.Errorf("%w: boom", ErrEncoding)))
	assert.Equal(t, StatusBadDecodingError, Status(fmt.Errorf("%w: boom", ErrDecoding)))
	assert.Equal(t, StatusBadInternalError, Status(fmt.Errorf("%w: boom", ErrInternal)))
}
