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

package protocol

import "fmt"

type CommandClass byte

const (
	StandardCommand CommandClass = 0x00
)

// MaxDataSize is the largest payload a single command frame can carry; the
// length is encoded in one byte.
const MaxDataSize = 0xff

type Command struct {
	Class CommandClass
	Ins   Instruction
	P1    Parameter
	P2    Parameter
	Data  []byte
}

func NewCommand(class CommandClass, ins Instruction, param1, param2 Parameter, data []byte) Command {
	return Command{Class: class, Ins: ins, P1: param1, P2: param2, Data: data}
}

// CommandFromHeader builds a command from a raw 4 byte header.
func CommandFromHeader(header [4]byte, data []byte) Command {
	return NewCommand(CommandClass(header[0]), Instruction(header[1]), Parameter(header[2]), Parameter(header[3]), data)
}

func (c Command) Header() [4]byte {
	return [4]byte{byte(c.Class), byte(c.Ins), byte(c.P1), byte(c.P2)}
}

// Encode returns the command frame: the 4 byte header, one length byte and
// the payload. Encode panics if the payload does not fit in a single frame.
func (c Command) Encode() []byte {
	if len(c.Data) > MaxDataSize {
		panic(fmt.Sprintf("protocol: command %v payload is %d bytes, want <= %d", c.Ins, len(c.Data), MaxDataSize))
	}
	req := make([]byte, 5+len(c.Data))
	req[0] = byte(c.Class)
	req[1] = byte(c.Ins)
	req[2] = byte(c.P1)
	req[3] = byte(c.P2)
	req[4] = byte(len(c.Data))
	copy(req[5:], c.Data)
	return req
}

func (c Command) String() string {
	return fmt.Sprintf("Command{cla: 0x%02x, ins: %v, p1: 0x%02x, p2: 0x%02x, lc: %d}", byte(c.Class), c.Ins, byte(c.P1), byte(c.P2), len(c.Data))
}
