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
	"bytes"
	"testing"
	"testing/quick"
)

// validTag maps an arbitrary value onto a tag Append accepts.
func validTag(v uint16) Tag {
	hi, lo := byte(v>>8), byte(v)
	if hi != 0 {
		hi |= multiByteMask
	} else if lo&multiByteMask == multiByteMask {
		lo &^= 0x01
	}
	return Tag(hi)<<8 | Tag(lo)
}

func shortValue(v []byte) []byte {
	if len(v) >= maxShortLength {
		return v[:maxShortLength-1]
	}
	return v
}

// Property: decode(encode(tag, value)) yields exactly (tag, value).
func TestProperty_RoundTrip(t *testing.T) {
	property := func(rawTag uint16, rawValue []byte) bool {
		tag, value := validTag(rawTag), shortValue(rawValue)

		recs := collect(Append(nil, tag, value))
		return len(recs) == 1 && recs[0].Tag == tag && bytes.Equal(recs[0].Value, value)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: every tag in 0..0x1e round-trips as a single byte.
func TestProperty_LowTags(t *testing.T) {
	for tag := Tag(0); tag <= 0x1e; tag++ {
		buf := Append(nil, tag, []byte{byte(tag)})
		if len(buf) != 3 {
			t.Fatalf("tag %v encoded to %d bytes", tag, len(buf))
		}
		recs := collect(buf)
		if len(recs) != 1 || recs[0].Tag != tag {
			t.Fatalf("tag %v decoded to %v", tag, recs)
		}
	}
}

// Property: any prefix of a valid buffer decodes to a prefix of its records.
func TestProperty_TruncationSafety(t *testing.T) {
	property := func(rawTags []uint16, rawValues [][]byte) bool {
		var buf []byte
		for i, raw := range rawTags {
			var value []byte
			if i < len(rawValues) {
				value = shortValue(rawValues[i])
			}
			buf = Append(buf, validTag(raw), value)
		}
		full := collect(buf)

		for n := 0; n < len(buf); n++ {
			got := collect(buf[:n])
			if len(got) > len(full) {
				return false
			}
			for i := range got {
				if got[i].Tag != full[i].Tag || !bytes.Equal(got[i].Value, full[i].Value) {
					return false
				}
			}
			if len(got) == len(full) && len(full) > 0 {
				// A strict prefix of the bytes cannot hold every record.
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// Property: arbitrary bytes never panic and never yield values outside buf.
func TestProperty_ArbitraryInput(t *testing.T) {
	property := func(buf []byte) bool {
		consumed := 0
		it := NewIterator(buf)
		for {
			rec, ok := it.Next()
			if !ok {
				break
			}
			consumed += len(rec.Value)
		}
		_, err := Decode(buf)
		return consumed <= len(buf) && it.Offset() <= len(buf) && (err == nil) == (it.Offset() == len(buf))
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
