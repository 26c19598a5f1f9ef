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
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlNode is one element of the in-memory document the XML codec builds
// before serialization and after parsing. Namespace prefixes are dropped on
// parse; element identity is the local name only.
type xmlNode struct {
	name     string
	text     string
	raw      string // verbatim inner XML, used for XmlElement payloads
	children []*xmlNode
	consumed bool
}

func (n *xmlNode) add(name string) *xmlNode {
	child := &xmlNode{name: name}
	n.children = append(n.children, child)
	return child
}

// take returns the first unconsumed child with the given name and marks it
// consumed. It returns nil when no such child exists.
func (n *xmlNode) take(name string) *xmlNode {
	for _, c := range n.children {
		if !c.consumed && c.name == name {
			c.consumed = true
			return c
		}
	}
	return nil
}

// takeAny returns the first unconsumed child regardless of name.
func (n *xmlNode) takeAny() *xmlNode {
	for _, c := range n.children {
		if !c.consumed {
			c.consumed = true
			return c
		}
	}
	return nil
}

func (n *xmlNode) serialize(buf *bytes.Buffer, xmlns string) error {
	buf.WriteByte('<')
	buf.WriteString(n.name)
	if xmlns != "" {
		buf.WriteString(` xmlns="`)
		buf.WriteString(xmlns)
		buf.WriteByte('"')
	}
	if n.text == "" && n.raw == "" && len(n.children) == 0 {
		buf.WriteString("/>")
		return nil
	}
	buf.WriteByte('>')
	if n.text != "" {
		if err := xml.EscapeText(buf, []byte(n.text)); err != nil {
			return err
		}
	}
	if n.raw != "" {
		buf.WriteString(n.raw)
	}
	for _, c := range n.children {
		if err := c.serialize(buf, ""); err != nil {
			return err
		}
	}
	buf.WriteString("</")
	buf.WriteString(n.name)
	buf.WriteByte('>')
	return nil
}

// innerXML renders the node's children as an XML fragment.
func (n *xmlNode) innerXML() string {
	var buf bytes.Buffer
	for _, c := range n.children {
		c.serialize(&buf, "")
	}
	if buf.Len() == 0 {
		return n.text
	}
	return buf.String()
}

// parseXMLTree parses an XML document or fragment into a node tree rooted
// at a synthetic document node.
func parseXMLTree(data []byte) (*xmlNode, error) {
	root := &xmlNode{}
	stack := []*xmlNode{root}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed XML: %s", ErrDecoding, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := stack[len(stack)-1].add(t.Name.Local)
			stack = append(stack, child)
		case xml.EndElement:
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: unbalanced XML end element %s", ErrDecoding, t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 1 {
				stack[len(stack)-1].text += strings.TrimSpace(string(t))
			}
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: unterminated XML element %s", ErrDecoding, stack[len(stack)-1].name)
	}
	return root, nil
}
