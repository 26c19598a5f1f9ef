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
	"errors"
	"fmt"
)

// StatusCode severity levels.
const (
	StatusSeverityGood      uint32 = 0x00000000
	StatusSeverityUncertain uint32 = 0x40000000
	StatusSeverityBad       uint32 = 0x80000000
	StatusSeverityMask      uint32 = 0xC0000000
)

// StatusCode represents an OPC UA StatusCode.
type StatusCode uint32

// Status codes surfaced by the encoding layer.
const (
	StatusGood                      StatusCode = 0x00000000
	StatusUncertain                 StatusCode = 0x40000000
	StatusBad                       StatusCode = 0x80000000
	StatusBadUnexpectedError        StatusCode = 0x80010000
	StatusBadInternalError          StatusCode = 0x80020000
	StatusBadOutOfMemory            StatusCode = 0x80030000
	StatusBadResourceUnavailable    StatusCode = 0x80040000
	StatusBadCommunicationError     StatusCode = 0x80050000
	StatusBadEncodingError          StatusCode = 0x80060000
	StatusBadDecodingError          StatusCode = 0x80070000
	StatusBadEncodingLimitsExceeded StatusCode = 0x80080000
	StatusBadUnknownResponse        StatusCode = 0x80090000
	StatusBadTimeout                StatusCode = 0x800A0000
	StatusBadNodeIdInvalid          StatusCode = 0x80330000
	StatusBadNodeIdUnknown          StatusCode = 0x80340000
	StatusBadAttributeIdInvalid     StatusCode = 0x80350000
	StatusBadDataTypeIdUnknown      StatusCode = 0x80110000
	StatusBadNotSupported           StatusCode = 0x803D0000
	StatusBadTypeMismatch           StatusCode = 0x80740000
)

type statusCodeInfo struct {
	name        string
	description string
}

var statusCodes = map[StatusCode]statusCodeInfo{
	StatusGood:                      {"Good", "The operation succeeded"},
	StatusUncertain:                 {"Uncertain", "The operation was uncertain"},
	StatusBad:                       {"Bad", "The operation failed"},
	StatusBadUnexpectedError:        {"BadUnexpectedError", "An unexpected error occurred"},
	StatusBadInternalError:          {"BadInternalError", "An internal error occurred"},
	StatusBadOutOfMemory:            {"BadOutOfMemory", "Not enough memory to complete the operation"},
	StatusBadResourceUnavailable:    {"BadResourceUnavailable", "An operating system resource is not available"},
	StatusBadCommunicationError:     {"BadCommunicationError", "A low level communication error occurred"},
	StatusBadEncodingError:          {"BadEncodingError", "Encoding halted because of invalid data"},
	StatusBadDecodingError:          {"BadDecodingError", "Decoding halted because of invalid data"},
	StatusBadEncodingLimitsExceeded: {"BadEncodingLimitsExceeded", "The message encoding/decoding limits imposed by the stack have been exceeded"},
	StatusBadUnknownResponse:        {"BadUnknownResponse", "An unrecognized response was received"},
	StatusBadTimeout:                {"BadTimeout", "The operation timed out"},
	StatusBadNodeIdInvalid:          {"BadNodeIdInvalid", "The syntax of the node ID is not valid"},
	StatusBadNodeIdUnknown:          {"BadNodeIdUnknown", "The node ID refers to a node that does not exist"},
	StatusBadAttributeIdInvalid:     {"BadAttributeIdInvalid", "The attribute is not supported for the specified node"},
	StatusBadDataTypeIdUnknown:      {"BadDataTypeIdUnknown", "The extension object cannot be decoded because the data type is not known"},
	StatusBadNotSupported:           {"BadNotSupported", "The requested operation is not supported"},
	StatusBadTypeMismatch:           {"BadTypeMismatch", "The value provided does not match the expected data type"},
}

// String returns the symbolic name of the status code.
func (s StatusCode) String() string {
	if info, ok := statusCodes[s]; ok {
		return info.name
	}
	return fmt.Sprintf("Unknown(0x%08X)", uint32(s))
}

// Description returns a human-readable description of the status code.
func (s StatusCode) Description() string {
	if info, ok := statusCodes[s]; ok {
		return info.description
	}
	return "Unknown status code"
}

// Error returns a formatted error string with code, name, and description.
func (s StatusCode) Error() string {
	return fmt.Sprintf("0x%08X (%s): %s", uint32(s), s.String(), s.Description())
}

// IsGood reports whether the status code has Good severity.
func (s StatusCode) IsGood() bool {
	return uint32(s)&StatusSeverityMask == StatusSeverityGood
}

// IsUncertain reports whether the status code has Uncertain severity.
func (s StatusCode) IsUncertain() bool {
	return uint32(s)&StatusSeverityMask == StatusSeverityUncertain
}

// IsBad reports whether the status code has Bad severity.
func (s StatusCode) IsBad() bool {
	return uint32(s)&StatusSeverityMask == StatusSeverityBad
}

// Sentinel errors returned by the encoding layer. Errors wrap one of these
// so callers can classify failures with errors.Is.
var (
	// ErrEncoding indicates encoding halted because of invalid input
	// (unregistered codec, malformed field value, dimension mismatch).
	ErrEncoding = errors.New("uacodec: encoding error")

	// ErrDecoding indicates decoding halted because of invalid wire data
	// (truncated buffer, unrecognized discriminant, shape mismatch).
	ErrDecoding = errors.New("uacodec: decoding error")

	// ErrInternal indicates a failure not attributable to input.
	ErrInternal = errors.New("uacodec: internal error")

	// ErrCodecNotFound indicates no codec is registered for a type identity.
	ErrCodecNotFound = errors.New("uacodec: no codec registered")

	// ErrNamespaceUnknown indicates a namespace URI could not be resolved to
	// a local index.
	ErrNamespaceUnknown = errors.New("uacodec: unknown namespace URI")

	// ErrPoolClosed indicates the codec pool has been closed.
	ErrPoolClosed = errors.New("uacodec: pool closed")
)

// Status maps an error returned by this package to its OPC UA StatusCode.
func Status(err error) StatusCode {
	switch {
	case err == nil:
		return StatusGood
	case errors.Is(err, ErrCodecNotFound), errors.Is(err, ErrEncoding):
		return StatusBadEncodingError
	case errors.Is(err, ErrDecoding):
		return StatusBadDecodingError
	default:
		return StatusBadInternalError
	}
}
