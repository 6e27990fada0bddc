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

package tlv

import "fmt"

// Tag identifies a record. Single byte tags occupy the low byte, two byte
// tags carry the leading byte (low 5 bits all set) in the high byte.
type Tag uint16

// multiByteMask selects the low 5 bits of a leading tag byte. When all of them
// are set the tag continues on the next byte.
const multiByteMask = 0x1f

func (t Tag) String() string {
	if t>>8 != 0 {
		return fmt.Sprintf("0x%04x", uint16(t))
	}
	return fmt.Sprintf("0x%02x", uint16(t))
}

// leading returns the first encoded byte of the tag.
func (t Tag) leading() byte {
	if hi := byte(t >> 8); hi != 0 {
		return hi
	}
	return byte(t)
}

// Valid reports whether t can be encoded by Append: a two byte tag must
// carry the multi-byte marker in its leading byte, a one byte tag must not.
func (t Tag) Valid() bool {
	if hi := byte(t >> 8); hi != 0 {
		return hi&multiByteMask == multiByteMask
	}
	return byte(t)&multiByteMask != multiByteMask
}

// Class returns the BER class stored in the two high order bits of the
// leading tag byte.
func (t Tag) Class() Class {
	return DecodeClass(t.leading())
}

// Constructed reports whether the record value holds nested records.
func (t Tag) Constructed() bool {
	return DecodeContentType(t.leading()) == ConstructedType
}

// Class values are stored in the 2 high order bits of the leading tag byte.
type Class uint8

const (
	UniversalClass       Class = 0x00      // 0 stored in 2 high order bits of octet.
	ApplicationClass     Class = 0x01 << 6 // 1 stored in 2 high order bits of octet.
	ContextSpecificClass Class = 0x02 << 6 // 2 stored in 2 high order bits of octet.
	PrivateClass         Class = 0x03 << 6 // 3 stored in 2 high order bits of octet.
)

func (c Class) String() string {
	switch c {
	case UniversalClass:
		return "Universal"
	case ApplicationClass:
		return "Application"
	case ContextSpecificClass:
		return "ContextSpecific"
	case PrivateClass:
		return "Private"
	default:
		return fmt.Sprintf("UnknownClass(%d)", uint8(c))
	}
}

func DecodeClass(octet uint8) Class {
	return Class(octet & (0x03 << 6))
}

type ContentType uint8

const (
	PrimitiveType   ContentType = 0x00 // 0 stored in bit position 6
	ConstructedType ContentType = 0x01 // 1 stored in bit position 6
)

func (c ContentType) String() string {
	if c == ConstructedType {
		return "Constructed"
	}
	return "Primitive"
}

func DecodeContentType(octet uint8) ContentType {
	if octet&(0x01<<5) != 0 {
		return ConstructedType
	}
	return PrimitiveType
}

// parseTag reads a one or two byte tag from the start of data and returns the
// tag and the number of bytes it occupies.
func parseTag(data []byte) (Tag, int, bool) {
	if len(data) < 1 {
		return 0, 0, false
	}
	leading := data[0]
	if leading&multiByteMask != multiByteMask {
		return Tag(leading), 1, true
	}
	if len(data) < 2 {
		return 0, 0, false
	}
	return Tag(leading)<<8 | Tag(data[1]), 2, true
}
