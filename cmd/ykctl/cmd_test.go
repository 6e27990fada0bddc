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
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-piv/ykctl/internal/trace"
	"github.com/go-piv/ykctl/mgmt"
)

func TestParseHex(t *testing.T) {
	b, err := parseHex([]string{"00", "a4:04", "00"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xa4, 0x04, 0x00}, b)

	_, err = parseHex(nil)
	assert.Error(t, err)
	_, err = parseHex([]string{"0g"})
	assert.Error(t, err)
	_, err = parseHex([]string{"abc"})
	assert.Error(t, err)
}

func newShell(card *fakeCard) (*shell, *bytes.Buffer) {
	var out bytes.Buffer
	return &shell{out: &out, ch: card}, &out
}

func TestShellSelectAndConfig(t *testing.T) {
	card := newFakeCard()
	sh, out := newShell(card)

	assert.False(t, sh.exec("config"))
	assert.Contains(t, out.String(), "management application not selected")

	out.Reset()
	assert.False(t, sh.exec("select"))
	assert.Equal(t, "management application selected\n", out.String())

	out.Reset()
	assert.False(t, sh.exec("config"))
	assert.Contains(t, out.String(), "12345678")
	assert.Contains(t, out.String(), "usb-enabled")
	assert.Equal(t, []string{selectFrame, readFrame}, card.sent)
}

func TestShellSelectOther(t *testing.T) {
	card := newFakeCard()
	card.responses["00a4040005a000000308"] = []byte{0x61, 0x11, 0x90, 0x00}
	sh, out := newShell(card)

	sh.exec("select a0:00:00:03:08")
	assert.Equal(t, "selected a0 00 00 03 08: 61 11\n", out.String())
	assert.Nil(t, sh.mgmt)
}

func TestShellSend(t *testing.T) {
	card := newFakeCard()
	sh, out := newShell(card)

	sh.exec("send 00 1d 00 00")
	assert.Contains(t, out.String(), "19 01 02")
	assert.Contains(t, out.String(), "(0x9000")

	out.Reset()
	sh.exec("send 00 1d")
	assert.Equal(t, "Error: need at least 4 header bytes, got 2\n", out.String())

	out.Reset()
	sh.exec("send 00 ff 00 00")
	assert.Contains(t, out.String(), "(0x6d00")
}

func TestShellRaw(t *testing.T) {
	card := newFakeCard()
	sh, out := newShell(card)

	sh.exec("RAW 00 a4 04 00 08 a0 00 00 05 27 47 11 17")
	assert.Contains(t, out.String(), "90 00\n")
	assert.Equal(t, []string{selectFrame}, card.sent)
}

func TestShellTLV(t *testing.T) {
	sh, out := newShell(newFakeCard())

	sh.exec("tlv 01 01 aa 5f2d 02 656e 03 05 00")
	assert.Equal(t, `0x01 Universal: aa
0x5f2d Application: 65 6e
Error: tlv: truncated record at offset 8: tag 0x03 declares 5 value bytes, 1 available
`, out.String())
}

func TestShellMisc(t *testing.T) {
	sh, out := newShell(newFakeCard())

	assert.False(t, sh.exec("   "))
	assert.False(t, sh.exec("frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
	assert.False(t, sh.exec("help"))
	assert.Contains(t, out.String(), "select [aid]")
	assert.True(t, sh.exec("exit"))
	assert.True(t, sh.exec("quit"))
}

func TestPrintInfo(t *testing.T) {
	cfg, err := mgmt.ParseConfig(configResp[:len(configResp)-2])
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printInfo(&out, cfg, false))
	assert.Contains(t, out.String(), "serial:")
	assert.Contains(t, out.String(), "5.4.3")
	assert.Contains(t, out.String(), "USB-C keychain")
	assert.NotContains(t, out.String(), "config-lock")

	out.Reset()
	require.NoError(t, printInfo(&out, cfg, true))
	assert.Contains(t, out.String(), "config-lock")
	assert.Contains(t, out.String(), "Universal")
}

type eventSlice []trace.Event

func (s *eventSlice) Next() (trace.Event, error) {
	if len(*s) == 0 {
		return trace.Event{}, io.EOF
	}
	e := (*s)[0]
	*s = (*s)[1:]
	return e, nil
}

func TestDumpTrace(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &eventSlice{
		{Timestamp: ts, SessionID: "a", Seq: 0, Direction: trace.DirectionOut, Reader: "r0", Data: []byte{0x00, 0x1d}},
		{Timestamp: ts, SessionID: "a", Seq: 1, Direction: trace.DirectionIn, Reader: "r0", Data: []byte{0x90, 0x00}},
		{Timestamp: ts, SessionID: "b", Seq: 0, Direction: trace.DirectionOut, Reader: "r1", Error: "reader gone"},
	}

	var out bytes.Buffer
	require.NoError(t, dumpTrace(&out, src))
	assert.Equal(t, `session a r0
  2024-05-01T12:00:00Z #0 >> 00 1d
  2024-05-01T12:00:00Z #1 << 90 00
session b r1
  2024-05-01T12:00:00Z #0 >> error: reader gone
`, out.String())
}
