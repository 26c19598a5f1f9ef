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
	"time"
)

// Format selects one of the three wire formats.
type Format uint8

const (
	FormatBinary Format = iota
	FormatXML
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// ParseFormat parses a format name as used on command lines and in
// configuration.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "binary", "bin":
		return FormatBinary, nil
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrInternal, s)
	}
}

// Marshal encodes a registered structured value to the given format. The
// codec is resolved through the context registry by the data type id.
func Marshal(ctx *EncodingContext, f Format, typeID NodeID, value interface{}) (out []byte, err error) {
	start := time.Now()
	defer func() { ctx.Metrics.observeEncode(f, start, err) }()

	var e interface {
		Encoder
		Bytes() ([]byte, error)
	}
	switch f {
	case FormatBinary:
		e = binaryBytesAdapter{NewBinaryEncoder(ctx)}
	case FormatXML:
		e = NewXMLEncoder(ctx)
	case FormatJSON:
		e = NewJSONEncoder(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrEncoding, f)
	}
	if err = e.WriteStruct("", value, typeID); err != nil {
		return nil, err
	}
	return e.Bytes()
}

// Unmarshal decodes a structured value of the given data type from the
// given format.
func Unmarshal(ctx *EncodingContext, f Format, typeID NodeID, data []byte) (v interface{}, err error) {
	start := time.Now()
	defer func() { ctx.Metrics.observeDecode(f, start, err) }()

	var d Decoder
	switch f {
	case FormatBinary:
		d = NewBinaryDecoder(ctx, data)
	case FormatXML:
		d, err = NewXMLDecoder(ctx, data)
	case FormatJSON:
		d, err = NewJSONDecoder(ctx, data)
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrDecoding, f)
	}
	if err != nil {
		return nil, err
	}
	return d.ReadStruct("", typeID)
}

// binaryBytesAdapter lifts the error-free BinaryEncoder.Bytes to the shape
// Marshal expects.
type binaryBytesAdapter struct {
	*BinaryEncoder
}

func (a binaryBytesAdapter) Bytes() ([]byte, error) {
	return a.BinaryEncoder.Bytes(), nil
}
