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
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-piv/ykctl/mgmt"
)

var infoRaw bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the device configuration",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoRaw, "raw", false, "also list every configuration record")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	card, err := connect()
	if err != nil {
		return err
	}
	defer card.Close()

	s, err := mgmt.Select(card)
	if err != nil {
		return err
	}
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	return printInfo(cmd.OutOrStdout(), cfg, infoRaw)
}

func printInfo(w io.Writer, cfg *mgmt.Config, raw bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "serial:\t%d\n", cfg.Serial)
	fmt.Fprintf(tw, "firmware:\t%s\n", cfg.Version)
	fmt.Fprintf(tw, "form factor:\t%s\n", cfg.FormFactor)
	fmt.Fprintf(tw, "usb supported:\t%s\n", cfg.USBSupported)
	if enabled, ok := cfg.EnabledUSB(); ok {
		fmt.Fprintf(tw, "usb enabled:\t%s\n", enabled)
	}
	if cfg.NFCSupported != 0 {
		fmt.Fprintf(tw, "nfc supported:\t%s\n", cfg.NFCSupported)
		fmt.Fprintf(tw, "nfc enabled:\t%s\n", cfg.NFCEnabled)
	}
	fmt.Fprintf(tw, "locked:\t%t\n", cfg.Locked)
	fmt.Fprintf(tw, "writable:\t%t\n", cfg.CanWrite)

	if raw {
		fmt.Fprintln(tw)
		for _, r := range cfg.Records {
			name := mgmt.TagName(r.Tag)
			if name == "" {
				name = "?"
			}
			fmt.Fprintf(tw, "%v\t%s\t%s\t% x\n", r.Tag, name, r.Tag.Class(), r.Value)
		}
	}
	return tw.Flush()
}
