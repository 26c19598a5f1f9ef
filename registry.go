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

import "sync"

// EncodingIdentity is the triple of encoding node identities a type may
// carry, one per wire format. A zero NodeID means the type has no encoding
// for that format.
type EncodingIdentity struct {
	Binary NodeID
	XML    NodeID
	JSON   NodeID
}

// CodecRegistry maps type identities to codec instances. The same logical
// type is indexed under its data type id and under each of its up to three
// encoding ids. The registry is append-only: entries are inserted if absent
// and never mutated, so lookups stay safe during concurrent registration.
type CodecRegistry struct {
	mu         sync.RWMutex
	byType     map[string]Codec
	byBinaryID map[string]Codec
	byXMLID    map[string]Codec
	byJSONID   map[string]Codec
	encodings  map[string]EncodingIdentity
}

// NewCodecRegistry creates an empty registry.
func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{
		byType:     make(map[string]Codec),
		byBinaryID: make(map[string]Codec),
		byXMLID:    make(map[string]Codec),
		byJSONID:   make(map[string]Codec),
		encodings:  make(map[string]EncodingIdentity),
	}
}

// Register inserts a codec under the data type id and under each non-null
// encoding id. Existing entries are kept; registration never overwrites.
func (r *CodecRegistry) Register(typeID NodeID, encoding EncodingIdentity, codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := FormatNodeID(typeID)
	if _, ok := r.byType[key]; !ok {
		r.byType[key] = codec
		r.encodings[key] = encoding
	}
	if !encoding.Binary.IsNull() {
		insertIfAbsent(r.byBinaryID, FormatNodeID(encoding.Binary), codec)
	}
	if !encoding.XML.IsNull() {
		insertIfAbsent(r.byXMLID, FormatNodeID(encoding.XML), codec)
	}
	if !encoding.JSON.IsNull() {
		insertIfAbsent(r.byJSONID, FormatNodeID(encoding.JSON), codec)
	}
}

func insertIfAbsent(m map[string]Codec, key string, codec Codec) {
	if _, ok := m[key]; !ok {
		m[key] = codec
	}
}

// Lookup returns the codec registered under the data type id.
func (r *CodecRegistry) Lookup(typeID NodeID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.byType[FormatNodeID(typeID)]
	return codec, ok
}

// LookupBinary returns the codec registered under a binary encoding id.
func (r *CodecRegistry) LookupBinary(encodingID NodeID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.byBinaryID[FormatNodeID(encodingID)]
	return codec, ok
}

// LookupXML returns the codec registered under an XML encoding id.
func (r *CodecRegistry) LookupXML(encodingID NodeID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.byXMLID[FormatNodeID(encodingID)]
	return codec, ok
}

// LookupJSON returns the codec registered under a JSON encoding id.
func (r *CodecRegistry) LookupJSON(encodingID NodeID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.byJSONID[FormatNodeID(encodingID)]
	return codec, ok
}

// LookupAny returns the codec registered under any identity: the data
// type id or one of the encoding ids. ExtensionObject bodies carry
// whichever identity the producer used, so resolution has to try all four
// indexes.
func (r *CodecRegistry) LookupAny(id NodeID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := FormatNodeID(id)
	for _, m := range []map[string]Codec{r.byType, r.byBinaryID, r.byXMLID, r.byJSONID} {
		if codec, ok := m[key]; ok {
			return codec, true
		}
	}
	return nil, false
}

// Encoding returns the encoding identity registered for a data type id.
func (r *CodecRegistry) Encoding(typeID NodeID) (EncodingIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.encodings[FormatNodeID(typeID)]
	return e, ok
}

// Len returns the number of distinct data types registered.
func (r *CodecRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// DefaultRegistry is the process-wide convenience registry. It is
// pre-populated with the static codecs the tree builder needs to decode
// DataTypeDefinition attribute values.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *CodecRegistry {
	r := NewCodecRegistry()
	registerBuiltinCodecs(r)
	return r
}
