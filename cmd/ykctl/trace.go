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

	"github.com/spf13/cobra"

	"github.com/go-piv/ykctl/internal/trace"
)

var (
	traceSession string
	traceDir     string
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Print the frames of a trace file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceSession, "session", "", "only print this session")
	traceCmd.Flags().StringVar(&traceDir, "dir", "", "only print frames in this direction: in or out")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	filter := trace.Filter{SessionID: traceSession}
	if traceDir != "" {
		d, err := trace.ParseDirection(traceDir)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}

	r, err := trace.NewFilteredReader(args[0], filter)
	if err != nil {
		return err
	}
	defer r.Close()
	return dumpTrace(cmd.OutOrStdout(), r)
}

type eventSource interface {
	Next() (trace.Event, error)
}

// dumpTrace prints events, with a header line whenever the session changes.
func dumpTrace(w io.Writer, src eventSource) error {
	session := ""
	for {
		e, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if e.SessionID != session {
			session = e.SessionID
			fmt.Fprintf(w, "session %s %s\n", session, e.Reader)
		}
		fmt.Fprintf(w, "  %s\n", e)
	}
}
