// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-piv/ykctl"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List readers, marking supported devices with *",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	rs, err := ykctl.Readers(settings.Backend, settings.Readers)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rs) == 0 {
		fmt.Fprintln(out, "no readers")
		return nil
	}
	for _, r := range rs {
		mark := " "
		if r.Supported {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s\n", mark, r.Name)
	}
	return nil
}
