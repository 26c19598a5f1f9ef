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
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// identifierString renders the identifier component with its one-letter
// discriminant: i= numeric, s= string, g= GUID, b= Base64 opaque.
func (n NodeID) identifierString() string {
	switch n.Type {
	case NodeIDTypeNumeric:
		return "i=" + strconv.FormatUint(uint64(n.Numeric), 10)
	case NodeIDTypeString:
		return "s=" + n.String
	case NodeIDTypeGUID:
		return "g=" + strings.ToUpper(n.GUID.String())
	case NodeIDTypeOpaque:
		return "b=" + base64.StdEncoding.EncodeToString(n.Opaque)
	}
	return "i=0"
}

// FormatNodeID renders a NodeID in reversible form: the namespace prefix
// ns=<index>; is omitted when the index is 0.
func FormatNodeID(n NodeID) string {
	if n.Namespace == 0 {
		return n.identifierString()
	}
	return fmt.Sprintf("ns=%d;%s", n.Namespace, n.identifierString())
}

// FormatNodeIDNonReversible renders a NodeID in non-reversible form. A URI
// from the namespace table is preferred over the index; without a URI the
// index is rendered only when greater than 1 (index 1 is the default
// application namespace and stays implicit, like index 0).
func FormatNodeIDNonReversible(n NodeID, ns *NamespaceTable) string {
	if n.Namespace > 0 && ns != nil {
		if uri, ok := ns.URI(n.Namespace); ok && uri != "" {
			return fmt.Sprintf("nsu=%s;%s", uri, n.identifierString())
		}
	}
	if n.Namespace > 1 {
		return fmt.Sprintf("ns=%d;%s", n.Namespace, n.identifierString())
	}
	return n.identifierString()
}

// FormatExpandedNodeID renders an ExpandedNodeID in reversible form. The
// server index is rendered as svr=<n>; when non-zero, and the namespace URI
// is preferred over the namespace index when present.
func FormatExpandedNodeID(e ExpandedNodeID) string {
	var b strings.Builder
	if e.ServerIndex > 0 {
		fmt.Fprintf(&b, "svr=%d;", e.ServerIndex)
	}
	if e.NamespaceURI != "" {
		fmt.Fprintf(&b, "nsu=%s;", e.NamespaceURI)
	} else if e.Namespace > 0 {
		fmt.Fprintf(&b, "ns=%d;", e.Namespace)
	}
	b.WriteString(e.identifierString())
	return b.String()
}

// FormatExpandedNodeIDNonReversible renders an ExpandedNodeID in
// non-reversible form, resolving the namespace index through the table when
// no URI is carried.
func FormatExpandedNodeIDNonReversible(e ExpandedNodeID, ns *NamespaceTable) string {
	var b strings.Builder
	if e.ServerIndex > 0 {
		fmt.Fprintf(&b, "svr=%d;", e.ServerIndex)
	}
	if e.NamespaceURI != "" {
		fmt.Fprintf(&b, "nsu=%s;", e.NamespaceURI)
		b.WriteString(e.identifierString())
		return b.String()
	}
	b.WriteString(FormatNodeIDNonReversible(e.NodeID, ns))
	return b.String()
}

// ParseNodeID parses the textual NodeID form produced by FormatNodeID or
// FormatNodeIDNonReversible. An nsu= prefix requires the namespace table to
// resolve the URI to a local index.
func ParseNodeID(s string, ns *NamespaceTable) (NodeID, error) {
	e, err := ParseExpandedNodeID(s)
	if err != nil {
		return NodeID{}, err
	}
	n, ok := e.ToNodeID(ns)
	if !ok {
		return NodeID{}, fmt.Errorf("%w: %w: %q", ErrDecoding, ErrNamespaceUnknown, s)
	}
	return n, nil
}

// ParseExpandedNodeID parses the textual ExpandedNodeID form: an optional
// svr=<n>; prefix, an optional ns=<n>; or nsu=<uri>; prefix, and the
// identifier with its discriminant. An unresolvable namespace URI is kept in
// the expanded form rather than failing.
func ParseExpandedNodeID(s string) (ExpandedNodeID, error) {
	var e ExpandedNodeID
	rest := s

	if v, ok := strings.CutPrefix(rest, "svr="); ok {
		part, tail, found := strings.Cut(v, ";")
		if !found {
			return ExpandedNodeID{}, fmt.Errorf("%w: missing ';' after svr= in %q", ErrDecoding, s)
		}
		svr, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return ExpandedNodeID{}, fmt.Errorf("%w: bad server index in %q", ErrDecoding, s)
		}
		e.ServerIndex = uint32(svr)
		rest = tail
	}

	if v, ok := strings.CutPrefix(rest, "ns="); ok {
		part, tail, found := strings.Cut(v, ";")
		if !found {
			return ExpandedNodeID{}, fmt.Errorf("%w: missing ';' after ns= in %q", ErrDecoding, s)
		}
		index, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return ExpandedNodeID{}, fmt.Errorf("%w: bad namespace index in %q", ErrDecoding, s)
		}
		e.Namespace = uint16(index)
		rest = tail
	} else if v, ok := strings.CutPrefix(rest, "nsu="); ok {
		part, tail, found := strings.Cut(v, ";")
		if !found {
			return ExpandedNodeID{}, fmt.Errorf("%w: missing ';' after nsu= in %q", ErrDecoding, s)
		}
		e.NamespaceURI = part
		rest = tail
	}

	if len(rest) < 2 || rest[1] != '=' {
		return ExpandedNodeID{}, fmt.Errorf("%w: missing identifier discriminant in %q", ErrDecoding, s)
	}
	value := rest[2:]

	switch rest[0] {
	case 'i':
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return ExpandedNodeID{}, fmt.Errorf("%w: bad numeric identifier in %q", ErrDecoding, s)
		}
		e.Type = NodeIDTypeNumeric
		e.Numeric = uint32(id)
	case 's':
		e.Type = NodeIDTypeString
		e.NodeID.String = value
	case 'g':
		id, err := uuid.Parse(value)
		if err != nil {
			return ExpandedNodeID{}, fmt.Errorf("%w: bad GUID identifier in %q", ErrDecoding, s)
		}
		e.Type = NodeIDTypeGUID
		e.GUID = id
	case 'b':
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return ExpandedNodeID{}, fmt.Errorf("%w: bad Base64 identifier in %q", ErrDecoding, s)
		}
		e.Type = NodeIDTypeOpaque
		e.Opaque = raw
	default:
		return ExpandedNodeID{}, fmt.Errorf("%w: unrecognized identifier discriminant %q in %q", ErrDecoding, rest[0], s)
	}

	return e, nil
}
