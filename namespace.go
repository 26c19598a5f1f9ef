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

// uriTable is an ordered, append-only mapping from index to URI.
type uriTable struct {
	mu      sync.RWMutex
	uris    []string
	indexes map[string]uint16
}

func newURITable(reserved string) *uriTable {
	t := &uriTable{indexes: make(map[string]uint16)}
	t.uris = append(t.uris, reserved)
	t.indexes[reserved] = 0
	return t
}

// Add appends the URI if absent and returns its index.
func (t *uriTable) Add(uri string) uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index, ok := t.indexes[uri]; ok {
		return index
	}
	index := uint16(len(t.uris))
	t.uris = append(t.uris, uri)
	t.indexes[uri] = index
	return index
}

// Index returns the index of the URI.
func (t *uriTable) Index(uri string) (uint16, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	index, ok := t.indexes[uri]
	return index, ok
}

// URI returns the URI at the given index.
func (t *uriTable) URI(index uint16) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(index) >= len(t.uris) {
		return "", false
	}
	return t.uris[index], true
}

// Len returns the number of entries in the table.
func (t *uriTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.uris)
}

// NamespaceTable maps namespace indexes to namespace URIs. Index 0 is
// reserved for the standard OPC UA namespace.
type NamespaceTable struct {
	*uriTable
}

// NewNamespaceTable creates a NamespaceTable with index 0 populated.
func NewNamespaceTable(uris ...string) *NamespaceTable {
	t := &NamespaceTable{uriTable: newURITable(NamespaceOPCUA)}
	for _, uri := range uris {
		t.Add(uri)
	}
	return t
}

// ServerTable maps server indexes to server URIs. Index 0 is the local
// server.
type ServerTable struct {
	*uriTable
}

// NewServerTable creates a ServerTable with index 0 populated with the local
// server URI.
func NewServerTable(localURI string) *ServerTable {
	return &ServerTable{uriTable: newURITable(localURI)}
}
