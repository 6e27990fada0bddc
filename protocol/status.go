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

// StatusWord is the two byte trailer of every response. SW1 is the high
// order byte.
type StatusWord uint16

const (
	StatusOK                     StatusWord = 0x9000
	StatusWrongLength            StatusWord = 0x6700
	StatusSecurityNotSatisfied   StatusWord = 0x6982
	StatusConditionsNotSatisfied StatusWord = 0x6985
	StatusWrongData              StatusWord = 0x6A80
	StatusFileNotFound           StatusWord = 0x6A82
	StatusInsNotSupported        StatusWord = 0x6D00
	StatusClaNotSupported        StatusWord = 0x6E00
)

func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(sw1)<<8 | StatusWord(sw2)
}

func (s StatusWord) SW1() byte { return byte(s >> 8) }
func (s StatusWord) SW2() byte { return byte(s) }

func (s StatusWord) String() string {
	if d := s.Description(); d != "" {
		return fmt.Sprintf("0x%04x (%s)", uint16(s), d)
	}
	return fmt.Sprintf("0x%04x", uint16(s))
}

// Description returns a short explanation of well known status words, or ""
// if s is not one of them.
func (s StatusWord) Description() string {
	switch s {
	case StatusOK:
		return "success"
	case StatusWrongLength:
		return "wrong length"
	case StatusSecurityNotSatisfied:
		return "security status not satisfied"
	case StatusConditionsNotSatisfied:
		return "conditions of use not satisfied"
	case StatusWrongData:
		return "incorrect data"
	case StatusFileNotFound:
		return "application or file not found"
	case StatusInsNotSupported:
		return "instruction not supported"
	case StatusClaNotSupported:
		return "class not supported"
	}
	if s.SW1() == 0x61 {
		return fmt.Sprintf("%d response bytes available", s.SW2())
	}
	return ""
}
