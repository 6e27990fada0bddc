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

// Channel exchanges one request frame for one response frame with a device.
// The response includes the trailing status word. Channels are not safe for
// concurrent use.
type Channel interface {
	Transmit(req []byte) ([]byte, error)
}

// Card is an opened device session.
type Card interface {
	Channel
	Close() error
}

// MaxResponseSize is the receive buffer size used by channel providers.
const MaxResponseSize = 256

type Version struct {
	Major, Minor, Patch int
}

// ParseVersion decodes a 3 byte major.minor.patch firmware version.
func ParseVersion(b []byte) (Version, error) {
	if len(b) != 3 {
		return Version{}, fmt.Errorf("version must be 3 bytes, got %d", len(b))
	}
	return Version{Major: int(b[0]), Minor: int(b[1]), Patch: int(b[2])}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

func (v Version) AtLeast(o Version) bool {
	return !v.Less(o)
}
