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

// Package uacodec implements the OPC UA encoding engine: the built-in type
// model, the binary, XML and JSON encoders/decoders, a codec registry keyed
// by type identity, and the DataType tree builder that discovers
// server-defined types and synthesizes codecs for them at runtime.
package uacodec

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NodeIDType represents the identifier type of a NodeID.
type NodeIDType uint8

// NodeID identifier types.
const (
	NodeIDTypeNumeric NodeIDType = iota
	NodeIDTypeString
	NodeIDTypeGUID
	NodeIDTypeOpaque
)

// NodeID represents an OPC UA NodeID.
type NodeID struct {
	Type      NodeIDType
	Namespace uint16
	Numeric   uint32
	String    string
	GUID      uuid.UUID
	Opaque    []byte
}

// NewNumericNodeID creates a new numeric NodeID.
func NewNumericNodeID(namespace uint16, id uint32) NodeID {
	return NodeID{
		Type:      NodeIDTypeNumeric,
		Namespace: namespace,
		Numeric:   id,
	}
}

// NewStringNodeID creates a new string NodeID.
func NewStringNodeID(namespace uint16, id string) NodeID {
	return NodeID{
		Type:      NodeIDTypeString,
		Namespace: namespace,
		String:    id,
	}
}

// NewGUIDNodeID creates a new GUID NodeID.
func NewGUIDNodeID(namespace uint16, id uuid.UUID) NodeID {
	return NodeID{
		Type:      NodeIDTypeGUID,
		Namespace: namespace,
		GUID:      id,
	}
}

// NewOpaqueNodeID creates a new opaque NodeID.
func NewOpaqueNodeID(namespace uint16, id []byte) NodeID {
	return NodeID{
		Type:      NodeIDTypeOpaque,
		Namespace: namespace,
		Opaque:    id,
	}
}

// IsNull reports whether n is the null NodeID (ns=0, i=0).
func (n NodeID) IsNull() bool {
	switch n.Type {
	case NodeIDTypeNumeric:
		return n.Namespace == 0 && n.Numeric == 0
	case NodeIDTypeString:
		return n.Namespace == 0 && n.String == ""
	case NodeIDTypeGUID:
		return n.Namespace == 0 && n.GUID == uuid.Nil
	case NodeIDTypeOpaque:
		return n.Namespace == 0 && len(n.Opaque) == 0
	}
	return false
}

// Equal reports whether two NodeIDs identify the same node. Identifier type,
// namespace index and identifier value must all match.
func (n NodeID) Equal(other NodeID) bool {
	if n.Type != other.Type || n.Namespace != other.Namespace {
		return false
	}
	switch n.Type {
	case NodeIDTypeNumeric:
		return n.Numeric == other.Numeric
	case NodeIDTypeString:
		return n.String == other.String
	case NodeIDTypeGUID:
		return n.GUID == other.GUID
	case NodeIDTypeOpaque:
		return string(n.Opaque) == string(other.Opaque)
	}
	return false
}

// ExpandedNodeID represents an OPC UA ExpandedNodeID. It augments a NodeID
// with an optional namespace URI and a server index for cross-server
// references. When NamespaceURI is non-empty it takes precedence over the
// numeric namespace index.
type ExpandedNodeID struct {
	NodeID
	NamespaceURI string
	ServerIndex  uint32
}

// NewExpandedNodeID wraps a NodeID in an ExpandedNodeID with no URI and a
// local server index.
func NewExpandedNodeID(n NodeID) ExpandedNodeID {
	return ExpandedNodeID{NodeID: n}
}

// IsLocal reports whether the ExpandedNodeID refers to a node on the local
// server.
func (e ExpandedNodeID) IsLocal() bool {
	return e.ServerIndex == 0
}

// ToNodeID resolves the ExpandedNodeID to a local NodeID. Resolution fails
// (ok=false) when the node is remote or when the namespace URI is not present
// in the table.
func (e ExpandedNodeID) ToNodeID(ns *NamespaceTable) (NodeID, bool) {
	if e.ServerIndex != 0 {
		return NodeID{}, false
	}
	if e.NamespaceURI == "" {
		return e.NodeID, true
	}
	if ns == nil {
		return NodeID{}, false
	}
	index, ok := ns.Index(e.NamespaceURI)
	if !ok {
		return NodeID{}, false
	}
	n := e.NodeID
	n.Namespace = index
	return n, true
}

// QualifiedName represents an OPC UA QualifiedName.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

// NewQualifiedName creates a QualifiedName in the given namespace.
func NewQualifiedName(namespace uint16, name string) QualifiedName {
	return QualifiedName{NamespaceIndex: namespace, Name: name}
}

// LocalizedText represents an OPC UA LocalizedText.
type LocalizedText struct {
	Locale string
	Text   string
}

// XMLElement is an XML fragment carried as an opaque string.
type XMLElement string

// TypeID represents an OPC UA built-in type.
type TypeID uint8

// OPC UA built-in types.
const (
	TypeNull            TypeID = 0
	TypeBoolean         TypeID = 1
	TypeSByte           TypeID = 2
	TypeByte            TypeID = 3
	TypeInt16           TypeID = 4
	TypeUInt16          TypeID = 5
	TypeInt32           TypeID = 6
	TypeUInt32          TypeID = 7
	TypeInt64           TypeID = 8
	TypeUInt64          TypeID = 9
	TypeFloat           TypeID = 10
	TypeDouble          TypeID = 11
	TypeString          TypeID = 12
	TypeDateTime        TypeID = 13
	TypeGUID            TypeID = 14
	TypeByteString      TypeID = 15
	TypeXMLElement      TypeID = 16
	TypeNodeID          TypeID = 17
	TypeExpandedNodeID  TypeID = 18
	TypeStatusCode      TypeID = 19
	TypeQualifiedName   TypeID = 20
	TypeLocalizedText   TypeID = 21
	TypeExtensionObject TypeID = 22
	TypeDataValue       TypeID = 23
	TypeVariant         TypeID = 24
	TypeDiagnosticInfo  TypeID = 25
)

// String returns the canonical name of the built-in type, which is also the
// XML element name used for bare values.
func (t TypeID) String() string {
	switch t {
	case TypeBoolean:
		return "Boolean"
	case TypeSByte:
		return "SByte"
	case TypeByte:
		return "Byte"
	case TypeInt16:
		return "Int16"
	case TypeUInt16:
		return "UInt16"
	case TypeInt32:
		return "Int32"
	case TypeUInt32:
		return "UInt32"
	case TypeInt64:
		return "Int64"
	case TypeUInt64:
		return "UInt64"
	case TypeFloat:
		return "Float"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeDateTime:
		return "DateTime"
	case TypeGUID:
		return "Guid"
	case TypeByteString:
		return "ByteString"
	case TypeXMLElement:
		return "XmlElement"
	case TypeNodeID:
		return "NodeId"
	case TypeExpandedNodeID:
		return "ExpandedNodeId"
	case TypeStatusCode:
		return "StatusCode"
	case TypeQualifiedName:
		return "QualifiedName"
	case TypeLocalizedText:
		return "LocalizedText"
	case TypeExtensionObject:
		return "ExtensionObject"
	case TypeDataValue:
		return "DataValue"
	case TypeVariant:
		return "Variant"
	case TypeDiagnosticInfo:
		return "DiagnosticInfo"
	default:
		return "Null"
	}
}

// Variant represents an OPC UA Variant: a built-in type discriminant and a
// value. A multi-dimensional value is carried as a *Matrix.
type Variant struct {
	Type  TypeID
	Value interface{}
}

// NewVariant creates a Variant for a scalar or one-dimensional value.
func NewVariant(t TypeID, value interface{}) Variant {
	return Variant{Type: t, Value: value}
}

// IsNull reports whether the variant carries no value.
func (v Variant) IsNull() bool {
	return v.Type == TypeNull || v.Value == nil
}

// DataValue represents an OPC UA DataValue.
type DataValue struct {
	Value             *Variant
	StatusCode        StatusCode
	SourceTimestamp   time.Time
	ServerTimestamp   time.Time
	SourcePicoseconds uint16
	ServerPicoseconds uint16
}

// ExtensionObjectEncoding is the body encoding of an ExtensionObject.
type ExtensionObjectEncoding uint8

// ExtensionObject body encodings.
const (
	ExtensionObjectEmpty      ExtensionObjectEncoding = 0
	ExtensionObjectByteString ExtensionObjectEncoding = 1
	ExtensionObjectXML        ExtensionObjectEncoding = 2
)

// ExtensionObject carries a structured value together with the NodeID of its
// encoding node. Body holds []byte for the binary encoding, XMLElement for
// the XML encoding, or a decoded value produced through the codec registry.
type ExtensionObject struct {
	TypeID   ExpandedNodeID
	Encoding ExtensionObjectEncoding
	Body     interface{}
}

// AttributeID represents an OPC UA attribute identifier.
type AttributeID uint32

// OPC UA attribute IDs used by the type-system services.
const (
	AttributeNodeID             AttributeID = 1
	AttributeNodeClass          AttributeID = 2
	AttributeBrowseName         AttributeID = 3
	AttributeDisplayName        AttributeID = 4
	AttributeValue              AttributeID = 13
	AttributeDataType           AttributeID = 14
	AttributeValueRank          AttributeID = 15
	AttributeArrayDimensions    AttributeID = 16
	AttributeDataTypeDefinition AttributeID = 93
)

// NodeClass represents the class of an OPC UA node.
type NodeClass uint32

// OPC UA node classes.
const (
	NodeClassUnspecified   NodeClass = 0
	NodeClassObject        NodeClass = 1
	NodeClassVariable      NodeClass = 2
	NodeClassMethod        NodeClass = 4
	NodeClassObjectType    NodeClass = 8
	NodeClassVariableType  NodeClass = 16
	NodeClassReferenceType NodeClass = 32
	NodeClassDataType      NodeClass = 64
	NodeClassView          NodeClass = 128
)

// BrowseDirection represents the direction to browse in the address space.
type BrowseDirection uint32

// Browse directions.
const (
	BrowseDirectionForward BrowseDirection = 0
	BrowseDirectionInverse BrowseDirection = 1
	BrowseDirectionBoth    BrowseDirection = 2
)

// BrowseDescription describes what to browse from a node.
type BrowseDescription struct {
	NodeID          NodeID
	BrowseDirection BrowseDirection
	ReferenceTypeID NodeID
	IncludeSubtypes bool
	NodeClassMask   uint32
	ResultMask      uint32
}

// ReferenceDescription describes a reference returned from a browse.
type ReferenceDescription struct {
	ReferenceTypeID NodeID
	IsForward       bool
	NodeID          ExpandedNodeID
	BrowseName      QualifiedName
	DisplayName     LocalizedText
	NodeClass       NodeClass
	TypeDefinition  ExpandedNodeID
}

// ReadValueID identifies a node attribute to read.
type ReadValueID struct {
	NodeID       NodeID
	AttributeID  AttributeID
	IndexRange   string
	DataEncoding QualifiedName
}

// TypeSystemService is the request/response collaborator the tree builder
// depends on. Implementations issue the Browse and Read services against a
// connected session; the codec layer never touches transport framing.
type TypeSystemService interface {
	Browse(ctx context.Context, description BrowseDescription) ([]ReferenceDescription, error)
	Read(ctx context.Context, id ReadValueID) (DataValue, error)
}

// Well-known NodeIDs of the standard namespace used by the tree builder and
// the default registry.
var (
	IDBaseDataType                      = NewNumericNodeID(0, 24)
	IDHasSubtype                        = NewNumericNodeID(0, 45)
	IDHasEncoding                       = NewNumericNodeID(0, 38)
	IDServerNamespaceArray              = NewNumericNodeID(0, 2255)
	IDStructureDefinition               = NewNumericNodeID(0, 99)
	IDEnumDefinition                    = NewNumericNodeID(0, 100)
	IDStructureDefinitionDefaultBinary  = NewNumericNodeID(0, 122)
	IDEnumDefinitionDefaultBinary       = NewNumericNodeID(0, 123)
)

// Well-known browse names of encoding nodes.
const (
	EncodingNameBinary = "Default Binary"
	EncodingNameXML    = "Default XML"
	EncodingNameJSON   = "Default JSON"
)

// NamespaceOPCUA is the URI of the standard OPC UA namespace (index 0).
const NamespaceOPCUA = "http://opcfoundation.org/UA/"

// NamespaceXSD is the XML namespace of the OPC UA XML type encoding.
const NamespaceXSD = "http://opcfoundation.org/UA/2008/02/Types.xsd"
