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

	"github.com/edgeo-scada/uacodec"
	"github.com/spf13/cobra"
)

var nodeidExpanded bool

var nodeidCmd = &cobra.Command{
	Use:   "nodeid <node-id>",
	Short: "Parse and inspect a NodeId string",
	Long: `Parse a NodeId (or ExpandedNodeId) string and print its components
along with the canonical text form and the binary encoding.

Examples:
  uacodec nodeid "i=2253"
  uacodec nodeid "ns=2;s=Temperature"
  uacodec nodeid --expanded "svr=1;nsu=urn:example;s=Pump"`,
	Args: cobra.ExactArgs(1),
	RunE: runNodeID,
}

func init() {
	nodeidCmd.Flags().BoolVar(&nodeidExpanded, "expanded", false, "Parse as an ExpandedNodeId (svr= and nsu= components)")
}

func runNodeID(cmd *cobra.Command, args []string) error {
	ectx := newEncodingContext()
	e := uacodec.NewBinaryEncoder(ectx)

	if nodeidExpanded {
		xid, err := uacodec.ParseExpandedNodeID(args[0])
		if err != nil {
			return err
		}
		if err := e.WriteExpandedNodeID("", xid); err != nil {
			return err
		}
		fmt.Printf("Canonical: %s\n", uacodec.FormatExpandedNodeID(xid))
		if xid.NamespaceURI != "" {
			fmt.Printf("NamespaceURI: %s\n", xid.NamespaceURI)
		}
		if xid.ServerIndex != 0 {
			fmt.Printf("ServerIndex: %d\n", xid.ServerIndex)
		}
		printNodeIDParts(xid.NodeID)
	} else {
		id, err := uacodec.ParseNodeID(args[0], ectx.Namespaces)
		if err != nil {
			return err
		}
		if err := e.WriteNodeID("", id); err != nil {
			return err
		}
		fmt.Printf("Canonical: %s\n", uacodec.FormatNodeID(id))
		printNodeIDParts(id)
	}

	fmt.Printf("Binary: %s\n", hex.EncodeToString(e.Bytes()))
	return nil
}

func printNodeIDParts(id uacodec.NodeID) {
	fmt.Printf("Namespace: %d\n", id.Namespace)
	switch id.Type {
	case uacodec.NodeIDTypeNumeric:
		fmt.Printf("Identifier: %d (numeric)\n", id.Numeric)
	case uacodec.NodeIDTypeString:
		fmt.Printf("Identifier: %q (string)\n", id.String)
	case uacodec.NodeIDTypeGUID:
		fmt.Printf("Identifier: %s (guid)\n", id.GUID)
	case uacodec.NodeIDTypeOpaque:
		fmt.Printf("Identifier: %s (opaque)\n", hex.EncodeToString(id.Opaque))
	}
}

// newEncodingContext builds a context carrying the namespace URIs given on
// the command line.
func newEncodingContext() *uacodec.EncodingContext {
	return uacodec.NewEncodingContext(
		uacodec.WithNamespaceTable(uacodec.NewNamespaceTable(namespaceURIs...)),
	)
}
