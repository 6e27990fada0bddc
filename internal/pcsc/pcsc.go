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

package pcsc

import (
	"fmt"
	"log/slog"

	"github.com/go-piv/ykctl/protocol"
)

func init() {
	protocol.Register("pcsc", protocol.Backend{
		List: ListReaders,
		Open: func(reader string) (protocol.Card, error) {
			c, err := Open(reader)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}

// ListReaders returns the names of the attached readers. It returns an empty
// list rather than an error when no reader is attached.
func ListReaders() ([]string, error) {
	ctx, err := newSmartCardContext()
	if err != nil {
		return nil, err
	}
	defer ctx.Close()
	return ctx.ListReaders()
}

// Card is an exclusive connection to a reader. Each Transmit runs in its own
// card transaction.
type Card struct {
	reader string
	ctx    *smartCardContext
	handle *smartCardHandle
}

var _ protocol.Card = (*Card)(nil)

func Open(reader string) (*Card, error) {
	ctx, err := newSmartCardContext()
	if err != nil {
		return nil, err
	}

	h, err := ctx.Connect(reader)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("connecting to %q: %w", reader, err)
	}
	slog.Debug("connected", "reader", reader)
	return &Card{reader: reader, ctx: ctx, handle: h}, nil
}

func (c *Card) Transmit(req []byte) ([]byte, error) {
	if c.handle == nil {
		return nil, fmt.Errorf("pcsc: card %q is closed", c.reader)
	}
	if len(req) == 0 {
		return nil, fmt.Errorf("pcsc: empty request")
	}

	tx, err := c.handle.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	resp, err := tx.transmit(req)
	if cErr := tx.Close(); err == nil && cErr != nil {
		return nil, fmt.Errorf("ending transaction: %w", cErr)
	}
	return resp, err
}

func (c *Card) Close() error {
	if c.handle == nil {
		return nil
	}
	hErr := c.handle.Close()
	cErr := c.ctx.Close()

	c.ctx = nil
	c.handle = nil

	if hErr == nil {
		return cErr
	}
	return hErr
}

// Error is a PC/SC return code.
type Error struct {
	Code int64
}

var errorNames = map[uint32]string{
	0x80100002: "SCARD_E_CANCELLED",
	0x80100003: "SCARD_E_INVALID_HANDLE",
	0x80100004: "SCARD_E_INVALID_PARAMETER",
	0x80100008: "SCARD_E_INSUFFICIENT_BUFFER",
	0x80100009: "SCARD_E_UNKNOWN_READER",
	0x8010000A: "SCARD_E_TIMEOUT",
	0x8010000B: "SCARD_E_SHARING_VIOLATION",
	0x8010000C: "SCARD_E_NO_SMARTCARD",
	0x8010000F: "SCARD_E_PROTO_MISMATCH",
	0x8010001D: "SCARD_E_NO_SERVICE",
	0x8010002E: "SCARD_E_NO_READERS_AVAILABLE",
	0x80100066: "SCARD_W_UNRESPONSIVE_CARD",
	0x80100067: "SCARD_W_UNPOWERED_CARD",
	0x80100068: "SCARD_W_RESET_CARD",
	0x80100069: "SCARD_W_REMOVED_CARD",
}

func (e *Error) Error() string {
	code := uint32(e.Code)
	if name, ok := errorNames[code]; ok {
		return fmt.Sprintf("pcsc: %s (0x%08x)", name, code)
	}
	return fmt.Sprintf("pcsc: return code 0x%08x", code)
}

const rcNoReaders = 0x8010002E
