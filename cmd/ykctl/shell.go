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
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/go-piv/ykctl/mgmt"
	"github.com/go-piv/ykctl/protocol"
	"github.com/go-piv/ykctl/tlv"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Exchange raw APDUs with the device interactively",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(_ *cobra.Command, _ []string) error {
	card, err := connect()
	if err != nil {
		return err
	}
	defer card.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ykctl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	sh := &shell{out: rl.Stdout(), ch: card}
	sh.help()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		if sh.exec(line) {
			return nil
		}
	}
}

// shell runs the commands of the interactive session against ch.
type shell struct {
	out  io.Writer
	ch   protocol.Channel
	mgmt *mgmt.Session
}

// exec runs one input line and reports whether the session should end.
func (s *shell) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.help()
	case "exit", "quit":
		return true
	case "select":
		err = s.selectApp(args)
	case "config":
		err = s.config()
	case "send":
		err = s.send(args)
	case "raw":
		err = s.raw(args)
	case "tlv":
		err = s.tlv(args)
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *shell) help() {
	fmt.Fprintln(s.out, `Commands:
  select [aid]         select an application (default: management)
  config               read the management configuration
  send <apdu>          send CLA INS P1 P2 and data, print payload and status
  raw <bytes>          transmit bytes verbatim
  tlv <bytes>          decode TLV records
  help                 show this help
  exit                 leave the shell

Bytes are hex and may be split by spaces or colons.`)
}

func (s *shell) selectApp(args []string) error {
	aid := mgmt.ManagementAID[:]
	if len(args) > 0 {
		var err error
		if aid, err = parseHex(args); err != nil {
			return err
		}
	}
	if bytes.Equal(aid, mgmt.ManagementAID[:]) {
		sess, err := mgmt.Select(s.ch)
		if err != nil {
			return err
		}
		s.mgmt = sess
		fmt.Fprintln(s.out, "management application selected")
		return nil
	}

	s.mgmt = nil
	resp, err := protocol.SelectApplication(s.ch, aid)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "selected % x: % x\n", aid, resp)
	return nil
}

func (s *shell) config() error {
	if s.mgmt == nil {
		return errors.New("management application not selected, run 'select' first")
	}
	cfg, err := s.mgmt.Config()
	if err != nil {
		return err
	}
	return printInfo(s.out, cfg, true)
}

func (s *shell) send(args []string) error {
	frame, err := parseHex(args)
	if err != nil {
		return err
	}
	if len(frame) < 4 {
		return fmt.Errorf("need at least 4 header bytes, got %d", len(frame))
	}
	if len(frame)-4 > protocol.MaxDataSize {
		return fmt.Errorf("payload is %d bytes, at most %d fit", len(frame)-4, protocol.MaxDataSize)
	}
	cmd := protocol.CommandFromHeader([4]byte(frame[:4]), frame[4:])
	sw, resp, err := protocol.Exchange(s.ch, cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "% x (%v)\n", resp, sw)
	return nil
}

func (s *shell) raw(args []string) error {
	frame, err := parseHex(args)
	if err != nil {
		return err
	}
	resp, err := s.ch.Transmit(frame)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "% x\n", resp)
	return nil
}

func (s *shell) tlv(args []string) error {
	b, err := parseHex(args)
	if err != nil {
		return err
	}
	records, err := tlv.Decode(b)
	for _, r := range records {
		fmt.Fprintf(s.out, "%v %s: % x\n", r.Tag, r.Tag.Class(), r.Value)
	}
	return err
}

// parseHex decodes hex bytes split across args, ignoring spaces and colons.
func parseHex(args []string) ([]byte, error) {
	s := strings.ReplaceAll(strings.Join(args, ""), ":", "")
	if s == "" {
		return nil, errors.New("no bytes given")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}
