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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	namespaceURIs []string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "uacodec",
	Short: "OPC UA value encoding tool",
	Long: `A command line tool for working with OPC UA encoded values.

Examples:
  uacodec nodeid "ns=2;s=Temperature"
  uacodec convert --from json --to binary -i value.json
  uacodec convert --from binary --to xml -i value.hex`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringArrayVar(&namespaceURIs, "namespace", nil, "Namespace URI(s) to append to the namespace table, in index order starting at 1")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	viper.BindPFlag("namespace", rootCmd.PersistentFlags().Lookup("namespace"))

	// Add subcommands
	rootCmd.AddCommand(nodeidCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	viper.SetEnvPrefix("UACODEC")
	viper.AutomaticEnv()
}
