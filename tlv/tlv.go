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

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

const (
	// maxShortLength bounds values produced by Append. Longer values have a
	// multi-byte length encoding which is only ever decoded.
	maxShortLength = 0x80
	// longLengthBase marks a length byte followed by (b - longLengthBase)
	// big-endian length bytes.
	longLengthBase = 0x80
)

// ErrTruncated is returned by Decode when the buffer ends inside a record.
var ErrTruncated = errors.New("tlv: truncated record")

// FormatError describes where strict decoding stopped.
type FormatError struct {
	Offset int    // Offset of the first byte of the incomplete record.
	Reason string // Human readable explanation.
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("tlv: truncated record at offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrTruncated
}

// Record is a single decoded tag and value. Value aliases the buffer the
// record was decoded from.
type Record struct {
	Tag   Tag
	Value []byte
}

// Parse decodes the tag and length of the record starting at data[0]. It
// returns the tag, the size of the tag and length header, and the total size
// of the record including its value. ok is false if data ends before the
// header is complete. Parse does not check that the value fits in data.
func Parse(data []byte) (tag Tag, header, total int, ok bool) {
	tag, tagLen, ok := parseTag(data)
	if !ok {
		return 0, 0, 0, false
	}
	length, lenLen, ok := parseLength(data[tagLen:])
	if !ok {
		return 0, 0, 0, false
	}
	header = tagLen + lenLen
	if length > math.MaxInt-header {
		return 0, 0, 0, false
	}
	return tag, header, header + length, true
}

// parseLength reads a length field and returns the length and the number of
// bytes the field occupies.
func parseLength(data []byte) (int, int, bool) {
	if len(data) < 1 {
		return 0, 0, false
	}
	first := int(data[0])
	if first <= longLengthBase {
		return first, 1, true
	}

	n := first - longLengthBase
	if len(data) < 1+n {
		return 0, 0, false
	}
	length := 0
	for _, b := range data[1 : 1+n] {
		if length > math.MaxInt>>8 {
			return 0, 0, false
		}
		length = length<<8 | int(b)
	}
	return length, 1 + n, true
}

// Iterator walks the records of a buffer front to back. Iteration stops at
// the first record that cannot be decoded completely; the remaining bytes are
// ignored. An Iterator cannot be rewound.
type Iterator struct {
	buf  []byte
	off  int
	done bool
}

func NewIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf}
}

// Next returns the next record, or false once the buffer is exhausted or the
// next record is incomplete.
func (it *Iterator) Next() (Record, bool) {
	if it.done {
		return Record{}, false
	}
	rest := it.buf[it.off:]
	tag, header, total, ok := Parse(rest)
	if !ok || total > len(rest) {
		it.done = true
		return Record{}, false
	}
	it.off += total
	return Record{Tag: tag, Value: rest[header:total:total]}, true
}

// Offset returns the number of bytes consumed by the records returned so far.
func (it *Iterator) Offset() int {
	return it.off
}

// All returns a lazy sequence of the records in buf. Like Iterator it stops
// silently at trailing bytes that do not form a complete record.
func All(buf []byte) iter.Seq2[Tag, []byte] {
	return func(yield func(Tag, []byte) bool) {
		it := NewIterator(buf)
		for {
			rec, ok := it.Next()
			if !ok || !yield(rec.Tag, rec.Value) {
				return
			}
		}
	}
}

// Decode returns every record in buf. Unlike All it reports trailing bytes
// that do not form a complete record with a *FormatError.
func Decode(buf []byte) ([]Record, error) {
	var recs []Record
	it := NewIterator(buf)
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		recs = append(recs, rec)
	}
	if off := it.Offset(); off != len(buf) {
		return recs, &FormatError{Offset: off, Reason: diagnose(buf[off:])}
	}
	return recs, nil
}

func diagnose(rest []byte) string {
	tag, tagLen, ok := parseTag(rest)
	if !ok {
		return "incomplete tag"
	}
	if _, _, ok := parseLength(rest[tagLen:]); !ok {
		return fmt.Sprintf("incomplete length for tag %v", tag)
	}
	_, header, total, _ := Parse(rest)
	return fmt.Sprintf("tag %v declares %d value bytes, %d available", tag, total-header, len(rest)-header)
}

// Append encodes a record and appends it to dst. Only single byte lengths are
// produced.
//
// Append panics if tag is not Valid or if value is 0x80 bytes or longer;
// both are under the caller's control.
func Append(dst []byte, tag Tag, value []byte) []byte {
	if !tag.Valid() {
		panic(fmt.Sprintf("tlv: invalid tag %v", tag))
	}
	if len(value) >= maxShortLength {
		panic(fmt.Sprintf("tlv: value for tag %v is %d bytes, want < %d", tag, len(value), maxShortLength))
	}
	if hi := byte(tag >> 8); hi != 0 {
		dst = append(dst, hi)
	}
	dst = append(dst, byte(tag), byte(len(value)))
	return append(dst, value...)
}
