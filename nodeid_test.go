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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNodeID(t *testing.T) {
	guid := uuid.MustParse("72962b91-fa75-4ae6-8d28-b404dc7daf63")

	cases := []struct {
		name string
		id   NodeID
		want string
	}{
		{"numeric ns0", NewNumericNodeID(0, 2253), "i=2253"},
		{"zero value", NodeID{}, "i=0"},
		{"numeric ns2", NewNumericNodeID(2, 42), "ns=2;i=42"},
		{"string", NewStringNodeID(2, "Temperature"), "ns=2;s=Temperature"},
		{"guid upper-case", NewGUIDNodeID(0, guid), "g=72962B91-FA75-4AE6-8D28-B404DC7DAF63"},
		{"opaque base64", NewOpaqueNodeID(3, []byte{0xDE, 0xAD, 0xBE, 0xEF}), "ns=3;b=3q2+7w=="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatNodeID(tc.id))
		})
	}
}

func TestParseNodeIDRoundTrip(t *testing.T) {
	guid := uuid.MustParse("72962b91-fa75-4ae6-8d28-b404dc7daf63")

	ids := []NodeID{
		NewNumericNodeID(0, 0),
		NewNumericNodeID(0, 2253),
		NewNumericNodeID(7, 4294967295),
		NewStringNodeID(2, "Line1/Pump/Speed"),
		NewGUIDNodeID(1, guid),
		NewOpaqueNodeID(3, []byte{0x01, 0x02, 0x03}),
	}
	for _, id := range ids {
		got, err := ParseNodeID(FormatNodeID(id), nil)
		require.NoError(t, err)
		assert.True(t, id.Equal(got), "round trip of %s", FormatNodeID(id))
	}
}

func TestParseNodeIDStringWithSemicolons(t *testing.T) {
	// Everything after s= belongs to the identifier, separators included.
	got, err := ParseNodeID("ns=2;s=a;b;c", nil)
	require.NoError(t, err)
	assert.Equal(t, NewStringNodeID(2, "a;b;c"), got)
}

func TestParseNodeIDErrors(t *testing.T) {
	bad := []string{
		"",
		"x=1",
		"i=notanumber",
		"i=-1",
		"ns=2i=5",
		"ns=banana;i=5",
		"g=not-a-guid",
		"b=!!!",
		"svr=1i=5",
	}
	for _, in := range bad {
		_, err := ParseNodeID(in, nil)
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, ErrDecoding, "input %q", in)
	}
}

func TestFormatNodeIDNonReversible(t *testing.T) {
	ns := NewNamespaceTable("urn:factory:line1", "urn:factory:line2")

	// Index resolved to a URI when the table knows it.
	assert.Equal(t, "nsu=urn:factory:line2;s=Pump",
		FormatNodeIDNonReversible(NewStringNodeID(2, "Pump"), ns))

	// Without a table, index 1 stays implicit and higher indices are kept.
	assert.Equal(t, "s=Pump", FormatNodeIDNonReversible(NewStringNodeID(1, "Pump"), nil))
	assert.Equal(t, "ns=2;s=Pump", FormatNodeIDNonReversible(NewStringNodeID(2, "Pump"), nil))
	assert.Equal(t, "i=2253", FormatNodeIDNonReversible(NewNumericNodeID(0, 2253), ns))
}

func TestFormatExpandedNodeID(t *testing.T) {
	e := ExpandedNodeID{
		NodeID:       NewNumericNodeID(0, 5),
		NamespaceURI: "urn:factory:line1",
		ServerIndex:  3,
	}
	assert.Equal(t, "svr=3;nsu=urn:factory:line1;i=5", FormatExpandedNodeID(e))

	// The URI takes precedence over the namespace index.
	e2 := ExpandedNodeID{NodeID: NewNumericNodeID(4, 5), NamespaceURI: "urn:x"}
	assert.Equal(t, "nsu=urn:x;i=5", FormatExpandedNodeID(e2))

	e3 := NewExpandedNodeID(NewNumericNodeID(4, 5))
	assert.Equal(t, "ns=4;i=5", FormatExpandedNodeID(e3))
}

func TestParseExpandedNodeIDRoundTrip(t *testing.T) {
	cases := []ExpandedNodeID{
		NewExpandedNodeID(NewNumericNodeID(0, 85)),
		NewExpandedNodeID(NewStringNodeID(2, "Boiler")),
		{NodeID: NewNumericNodeID(0, 17), NamespaceURI: "urn:factory:line1"},
		{NodeID: NewStringNodeID(0, "Tag"), NamespaceURI: "urn:x", ServerIndex: 9},
	}
	for _, e := range cases {
		got, err := ParseExpandedNodeID(FormatExpandedNodeID(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestParseExpandedNodeIDKeepsUnresolvableURI(t *testing.T) {
	e, err := ParseExpandedNodeID("nsu=urn:not:registered;i=7")
	require.NoError(t, err)
	assert.Equal(t, "urn:not:registered", e.NamespaceURI)
	assert.Equal(t, uint32(7), e.Numeric)

	// ParseNodeID must fail on the same input when the table cannot
	// resolve the URI.
	_, err = ParseNodeID("nsu=urn:not:registered;i=7", NewNamespaceTable())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNamespaceUnknown)
}

func TestExpandedNodeIDToNodeID(t *testing.T) {
	ns := NewNamespaceTable("urn:factory:line1")

	local, ok := ExpandedNodeID{NodeID: NewNumericNodeID(0, 42), NamespaceURI: "urn:factory:line1"}.ToNodeID(ns)
	require.True(t, ok)
	assert.Equal(t, NewNumericNodeID(1, 42), local)

	_, ok = ExpandedNodeID{NodeID: NewNumericNodeID(0, 42), ServerIndex: 2}.ToNodeID(ns)
	assert.False(t, ok)

	_, ok = ExpandedNodeID{NodeID: NewNumericNodeID(0, 42), NamespaceURI: "urn:unknown"}.ToNodeID(ns)
	assert.False(t, ok)
}

func TestNodeIDIsNull(t *testing.T) {
	assert.True(t, NodeID{}.IsNull())
	assert.True(t, NewStringNodeID(0, "").IsNull())
	assert.False(t, NewNumericNodeID(0, 1).IsNull())
	assert.False(t, NewNumericNodeID(1, 0).IsNull())
}

func TestNodeIDEqual(t *testing.T) {
	assert.True(t, NewOpaqueNodeID(1, []byte{1, 2}).Equal(NewOpaqueNodeID(1, []byte{1, 2})))
	assert.False(t, NewNumericNodeID(0, 5).Equal(NewStringNodeID(0, "5")))
	assert.False(t, NewNumericNodeID(0, 5).Equal(NewNumericNodeID(1, 5)))
}
