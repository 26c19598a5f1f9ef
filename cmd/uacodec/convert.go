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

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edgeo-scada/uacodec"
	"github.com/spf13/cobra"
)

var (
	convertFrom          string
	convertTo            string
	convertInput         string
	convertOutput        string
	convertNonReversible bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an encoded Variant between wire formats",
	Long: `Decode a Variant value from one wire format and re-encode it in
another. Variants are self-describing in all three formats, so no type
information is needed. Binary data is read and written as hex text.

Examples:
  uacodec convert --from json --to binary -i value.json
  uacodec convert --from binary --to xml -i value.hex
  uacodec convert --from xml --to json --non-reversible -i value.xml`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFrom, "from", "f", "json", "Input format: binary, xml or json")
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "binary", "Output format: binary, xml or json")
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "-", "Input file, - for stdin")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "-", "Output file, - for stdout")
	convertCmd.Flags().BoolVar(&convertNonReversible, "non-reversible", false, "Produce the non-reversible rendering (xml and json output only)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, err := uacodec.ParseFormat(convertFrom)
	if err != nil {
		return err
	}
	to, err := uacodec.ParseFormat(convertTo)
	if err != nil {
		return err
	}
	if convertNonReversible && to == uacodec.FormatBinary {
		return fmt.Errorf("binary has no non-reversible form")
	}

	data, err := readInput(convertInput)
	if err != nil {
		return err
	}
	if from == uacodec.FormatBinary {
		data, err = hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}
	}

	ectx := newEncodingContext()

	v, err := decodeVariant(ectx, from, data)
	if err != nil {
		return err
	}

	out, err := encodeVariant(ectx, to, v)
	if err != nil {
		return err
	}
	if to == uacodec.FormatBinary {
		out = []byte(hex.EncodeToString(out) + "\n")
	} else {
		out = append(out, '\n')
	}

	return writeOutput(convertOutput, out)
}

func decodeVariant(ectx *uacodec.EncodingContext, f uacodec.Format, data []byte) (uacodec.Variant, error) {
	switch f {
	case uacodec.FormatBinary:
		return uacodec.NewBinaryDecoder(ectx, data).ReadVariant("")
	case uacodec.FormatXML:
		d, err := uacodec.NewXMLDecoder(ectx, data)
		if err != nil {
			return uacodec.Variant{}, err
		}
		return d.ReadVariant("")
	default:
		d, err := uacodec.NewJSONDecoder(ectx, data)
		if err != nil {
			return uacodec.Variant{}, err
		}
		return d.ReadVariant("")
	}
}

func encodeVariant(ectx *uacodec.EncodingContext, f uacodec.Format, v uacodec.Variant) ([]byte, error) {
	switch f {
	case uacodec.FormatBinary:
		e := uacodec.NewBinaryEncoder(ectx)
		if err := e.WriteVariant("", v); err != nil {
			return nil, err
		}
		return e.Bytes(), nil
	case uacodec.FormatXML:
		var opts []uacodec.XMLEncoderOption
		if convertNonReversible {
			opts = append(opts, uacodec.XMLNonReversible())
		}
		e := uacodec.NewXMLEncoder(ectx, opts...)
		if err := e.WriteVariant("", v); err != nil {
			return nil, err
		}
		return e.Bytes()
	default:
		var opts []uacodec.JSONEncoderOption
		if convertNonReversible {
			opts = append(opts, uacodec.JSONNonReversible())
		}
		e := uacodec.NewJSONEncoder(ectx, opts...)
		if err := e.WriteVariant("", v); err != nil {
			return nil, err
		}
		return e.Bytes()
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
