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

// DataType describes one data type node discovered during tree building:
// its identity, the encoding identities found through HasEncoding
// references, and the published definition when the server exposes one.
type DataType struct {
	BrowseName       QualifiedName
	NodeID           NodeID
	BinaryEncodingID NodeID
	XMLEncodingID    NodeID
	JSONEncodingID   NodeID

	// Definition is nil when the server does not publish a
	// DataTypeDefinition attribute for this type.
	Definition DataTypeDefinition
}

// EncodingIdentity collects the non-null encoding ids of the descriptor.
func (d *DataType) EncodingIdentity() EncodingIdentity {
	return EncodingIdentity{
		Binary: d.BinaryEncodingID,
		XML:    d.XMLEncodingID,
		JSON:   d.JSONEncodingID,
	}
}

// DataTypeNode is one node of the subtype hierarchy.
type DataTypeNode struct {
	DataType *DataType
	Parent   *DataTypeNode
	Children []*DataTypeNode
}

// AddChild appends a child descriptor and returns its node.
func (n *DataTypeNode) AddChild(dt *DataType) *DataTypeNode {
	child := &DataTypeNode{DataType: dt, Parent: n}
	n.Children = append(n.Children, child)
	return child
}

// DataTypeTree is the immutable result of a tree build: the subtype
// hierarchy rooted at the universal base type, indexed by node id and by
// each encoding id. The tree is safe for concurrent reads.
type DataTypeTree struct {
	root       *DataTypeNode
	byNodeID   map[string]*DataTypeNode
	byBinaryID map[string]*DataType
	byXMLID    map[string]*DataType
	byJSONID   map[string]*DataType
}

// NewDataTypeTree indexes a built hierarchy.
func NewDataTypeTree(root *DataTypeNode) *DataTypeTree {
	t := &DataTypeTree{
		root:       root,
		byNodeID:   make(map[string]*DataTypeNode),
		byBinaryID: make(map[string]*DataType),
		byXMLID:    make(map[string]*DataType),
		byJSONID:   make(map[string]*DataType),
	}
	t.index(root)
	return t
}

func (t *DataTypeTree) index(n *DataTypeNode) {
	if n == nil {
		return
	}
	dt := n.DataType
	t.byNodeID[FormatNodeID(dt.NodeID)] = n
	if !dt.BinaryEncodingID.IsNull() {
		t.byBinaryID[FormatNodeID(dt.BinaryEncodingID)] = dt
	}
	if !dt.XMLEncodingID.IsNull() {
		t.byXMLID[FormatNodeID(dt.XMLEncodingID)] = dt
	}
	if !dt.JSONEncodingID.IsNull() {
		t.byJSONID[FormatNodeID(dt.JSONEncodingID)] = dt
	}
	for _, c := range n.Children {
		t.index(c)
	}
}

// Root returns the root node.
func (t *DataTypeTree) Root() *DataTypeNode {
	return t.root
}

// Node returns the tree node for a data type id.
func (t *DataTypeTree) Node(id NodeID) (*DataTypeNode, bool) {
	n, ok := t.byNodeID[FormatNodeID(id)]
	return n, ok
}

// DataType returns the descriptor for a data type id.
func (t *DataTypeTree) DataType(id NodeID) (*DataType, bool) {
	n, ok := t.byNodeID[FormatNodeID(id)]
	if !ok {
		return nil, false
	}
	return n.DataType, true
}

// ByBinaryEncodingID returns the descriptor carrying a binary encoding id.
func (t *DataTypeTree) ByBinaryEncodingID(id NodeID) (*DataType, bool) {
	dt, ok := t.byBinaryID[FormatNodeID(id)]
	return dt, ok
}

// ByXMLEncodingID returns the descriptor carrying an XML encoding id.
func (t *DataTypeTree) ByXMLEncodingID(id NodeID) (*DataType, bool) {
	dt, ok := t.byXMLID[FormatNodeID(id)]
	return dt, ok
}

// ByJSONEncodingID returns the descriptor carrying a JSON encoding id.
func (t *DataTypeTree) ByJSONEncodingID(id NodeID) (*DataType, bool) {
	dt, ok := t.byJSONID[FormatNodeID(id)]
	return dt, ok
}

// Len returns the number of data types in the tree.
func (t *DataTypeTree) Len() int {
	return len(t.byNodeID)
}

// Walk visits every descriptor in depth-first order.
func (t *DataTypeTree) Walk(fn func(*DataType)) {
	var visit func(*DataTypeNode)
	visit = func(n *DataTypeNode) {
		if n == nil {
			return
		}
		fn(n.DataType)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.root)
}

// IsSubtypeOf reports whether id descends from ancestor, directly or
// transitively. A type is not its own subtype.
func (t *DataTypeTree) IsSubtypeOf(id, ancestor NodeID) bool {
	n, ok := t.byNodeID[FormatNodeID(id)]
	if !ok {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataType.NodeID.Equal(ancestor) {
			return true
		}
	}
	return false
}

// idEnumeration is the abstract Enumeration data type; its subtypes carry
// Int32 on the wire.
var idEnumeration = NewNumericNodeID(0, 29)

// builtinTypeID reports whether id is one of the ns=0 built-in type ids.
func builtinTypeID(id NodeID) (TypeID, bool) {
	if id.Type == NodeIDTypeNumeric && id.Namespace == 0 &&
		id.Numeric >= uint32(TypeBoolean) && id.Numeric <= uint32(TypeDiagnosticInfo) {
		return TypeID(id.Numeric), true
	}
	return 0, false
}

// BuiltinTypeOf resolves the built-in variant type a data type maps to on
// the wire: the type itself when it is a built-in id, otherwise the
// nearest built-in ancestor. Enumeration subtypes resolve to Int32;
// anything else without a built-in ancestor resolves to ExtensionObject.
// Built-in ids resolve without a tree node, so a partially built tree
// still dispatches built-in-typed fields.
func (t *DataTypeTree) BuiltinTypeOf(id NodeID) TypeID {
	if bt, ok := builtinTypeID(id); ok {
		return bt
	}
	n, ok := t.byNodeID[FormatNodeID(id)]
	if !ok {
		return TypeExtensionObject
	}
	for ; n != nil; n = n.Parent {
		cur := n.DataType.NodeID
		if cur.Equal(idEnumeration) {
			return TypeInt32
		}
		if bt, ok := builtinTypeID(cur); ok {
			return bt
		}
	}
	return TypeExtensionObject
}
