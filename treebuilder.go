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
	"context"
	"fmt"
	"sync"
)

// TreeBuilder discovers a server's data type hierarchy by walking forward
// HasSubtype references from the universal base type. For every type found
// it browses HasEncoding references to collect the binary, XML and JSON
// encoding identities and reads the DataTypeDefinition attribute.
//
// Browse failures degrade to empty results and a failed definition read
// yields an absent definition, so partial and pre-1.04 servers still
// produce a usable tree. Only the initial namespace array read is fatal.
type TreeBuilder struct {
	svc TypeSystemService
	ctx *EncodingContext
}

// NewTreeBuilder creates a builder issuing requests through svc. Namespace
// indices in browse results are resolved against ectx.Namespaces, which is
// repopulated from the server's namespace array at the start of a build.
func NewTreeBuilder(svc TypeSystemService, ectx *EncodingContext) *TreeBuilder {
	return &TreeBuilder{svc: svc, ctx: ectx}
}

// TreeResult is the completion signal of an asynchronous build.
type TreeResult struct {
	Tree *DataTypeTree
	Err  error
}

// Build walks the type hierarchy level by level and returns the indexed
// tree. Each level's children are expanded concurrently; the next level
// starts only after the current one is fully combined.
func (b *TreeBuilder) Build(ctx context.Context) (*DataTypeTree, error) {
	if err := b.readNamespaceTable(ctx); err != nil {
		return nil, err
	}

	root := &DataTypeNode{DataType: &DataType{
		BrowseName: QualifiedName{Name: "BaseDataType"},
		NodeID:     IDBaseDataType,
	}}

	level := []*DataTypeNode{root}
	for len(level) > 0 {
		var next []*DataTypeNode
		for _, node := range level {
			children, err := b.expand(ctx, node)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		level = next
	}
	return NewDataTypeTree(root), nil
}

// BuildAsync starts a build and delivers the result through a channel. The
// build observes ctx cancellation as an all-or-nothing failure.
func (b *TreeBuilder) BuildAsync(ctx context.Context) <-chan TreeResult {
	out := make(chan TreeResult, 1)
	go func() {
		tree, err := b.Build(ctx)
		out <- TreeResult{Tree: tree, Err: err}
	}()
	return out
}

// readNamespaceTable reads Server_NamespaceArray and repopulates the
// context's namespace table from it.
func (b *TreeBuilder) readNamespaceTable(ctx context.Context) error {
	dv, err := b.svc.Read(ctx, ReadValueID{
		NodeID:      IDServerNamespaceArray,
		AttributeID: AttributeValue,
	})
	if err != nil {
		return fmt.Errorf("reading namespace array: %w", err)
	}
	if dv.StatusCode.IsBad() {
		return fmt.Errorf("reading namespace array: %w", dv.StatusCode)
	}
	if dv.Value == nil {
		return fmt.Errorf("%w: namespace array value missing", ErrDecoding)
	}
	uris, ok := dv.Value.Value.([]string)
	if !ok {
		return fmt.Errorf("%w: namespace array is %T, expected []string", ErrDecoding, dv.Value.Value)
	}
	table := NewNamespaceTable()
	for _, uri := range uris {
		table.Add(uri)
	}
	b.ctx.Namespaces = table
	return nil
}

// expand browses a node's direct subtypes and builds their descriptors
// concurrently.
func (b *TreeBuilder) expand(ctx context.Context, node *DataTypeNode) ([]*DataTypeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	refs := b.browseSafe(ctx, BrowseDescription{
		NodeID:          node.DataType.NodeID,
		BrowseDirection: BrowseDirectionForward,
		ReferenceTypeID: IDHasSubtype,
		IncludeSubtypes: true,
		NodeClassMask:   uint32(NodeClassDataType),
	})

	descriptors := make([]*DataType, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref ReferenceDescription) {
			defer wg.Done()
			descriptors[i] = b.buildDescriptor(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var children []*DataTypeNode
	for _, dt := range descriptors {
		if dt == nil {
			continue
		}
		children = append(children, node.AddChild(dt))
	}
	return children, nil
}

// buildDescriptor combines a subtype reference with its encoding ids and
// definition. The encoding browse and the definition read run
// concurrently. A reference that cannot be resolved to a local node id is
// skipped.
func (b *TreeBuilder) buildDescriptor(ctx context.Context, ref ReferenceDescription) *DataType {
	nodeID, ok := ref.NodeID.ToNodeID(b.ctx.Namespaces)
	if !ok {
		return nil
	}
	dt := &DataType{
		BrowseName: ref.BrowseName,
		NodeID:     nodeID,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.resolveEncodings(ctx, dt)
	}()
	go func() {
		defer wg.Done()
		dt.Definition = b.readDefinitionSafe(ctx, nodeID)
	}()
	wg.Wait()
	return dt
}

// resolveEncodings browses forward HasEncoding references and matches the
// well-known encoding browse names.
func (b *TreeBuilder) resolveEncodings(ctx context.Context, dt *DataType) {
	refs := b.browseSafe(ctx, BrowseDescription{
		NodeID:          dt.NodeID,
		BrowseDirection: BrowseDirectionForward,
		ReferenceTypeID: IDHasEncoding,
		IncludeSubtypes: false,
		NodeClassMask:   uint32(NodeClassObject),
	})
	for _, ref := range refs {
		id, ok := ref.NodeID.ToNodeID(b.ctx.Namespaces)
		if !ok {
			continue
		}
		switch ref.BrowseName.Name {
		case EncodingNameBinary:
			dt.BinaryEncodingID = id
		case EncodingNameXML:
			dt.XMLEncodingID = id
		case EncodingNameJSON:
			dt.JSONEncodingID = id
		}
	}
}

// browseSafe issues a browse and treats any failure as an empty result.
// Older and partial servers reject some browse operations; a missing
// branch is preferable to a failed build.
func (b *TreeBuilder) browseSafe(ctx context.Context, desc BrowseDescription) []ReferenceDescription {
	refs, err := b.svc.Browse(ctx, desc)
	if err != nil {
		return nil
	}
	return refs
}

// readDefinitionSafe reads the DataTypeDefinition attribute. Any failure,
// including servers that reject the attribute outright, yields an absent
// definition.
func (b *TreeBuilder) readDefinitionSafe(ctx context.Context, nodeID NodeID) DataTypeDefinition {
	dv, err := b.svc.Read(ctx, ReadValueID{
		NodeID:      nodeID,
		AttributeID: AttributeDataTypeDefinition,
	})
	if err != nil || dv.StatusCode.IsBad() || dv.Value == nil {
		return nil
	}
	return b.extractDefinition(dv.Value.Value)
}

// extractDefinition unwraps a DataTypeDefinition from a read result. The
// value arrives either already decoded or as an ExtensionObject whose body
// may still be raw binary.
func (b *TreeBuilder) extractDefinition(value interface{}) DataTypeDefinition {
	switch v := value.(type) {
	case *StructureDefinition:
		return v
	case *EnumDefinition:
		return v
	case ExtensionObject:
		return b.extractDefinitionBody(v)
	case *ExtensionObject:
		return b.extractDefinitionBody(*v)
	default:
		return nil
	}
}

func (b *TreeBuilder) extractDefinitionBody(eo ExtensionObject) DataTypeDefinition {
	switch body := eo.Body.(type) {
	case *StructureDefinition:
		return body
	case *EnumDefinition:
		return body
	case []byte:
		typeID, ok := eo.TypeID.ToNodeID(b.ctx.Namespaces)
		if !ok {
			return nil
		}
		codec, ok := b.ctx.Registry.LookupAny(typeID)
		if !ok {
			return nil
		}
		decoded, err := codec.Decode(b.ctx, NewBinaryDecoder(b.ctx, body))
		if err != nil {
			return nil
		}
		def, _ := decoded.(DataTypeDefinition)
		return def
	default:
		return nil
	}
}
