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

// Package trace records and replays the frames exchanged with a device.
//
// Traces are CBOR sequences of Event values, one per request and one per
// response, so a file can be appended to by several runs and streamed back.
package trace

import (
	"fmt"
	"time"
)

// Event is a single frame observed on a channel.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	// SessionID groups the events of one opened card.
	SessionID string    `cbor:"2,keyasint"`
	Seq       uint64    `cbor:"3,keyasint"`
	Direction Direction `cbor:"4,keyasint"`
	Reader    string    `cbor:"5,keyasint,omitempty"`
	Data      []byte    `cbor:"6,keyasint"`
	// Error is set instead of Data when the channel failed.
	Error string `cbor:"7,keyasint,omitempty"`
}

func (e Event) String() string {
	if e.Error != "" {
		return fmt.Sprintf("%s #%d %s error: %s", e.Timestamp.Format(time.RFC3339Nano), e.Seq, e.Direction, e.Error)
	}
	return fmt.Sprintf("%s #%d %s % x", e.Timestamp.Format(time.RFC3339Nano), e.Seq, e.Direction, e.Data)
}

// Direction is the flow of a frame relative to the host.
type Direction uint8

const (
	// DirectionOut is a request sent to the device.
	DirectionOut Direction = 0
	// DirectionIn is a response received from the device.
	DirectionIn Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return ">>"
	case DirectionIn:
		return "<<"
	default:
		return "??"
	}
}

// ParseDirection accepts "in" or "out".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "out":
		return DirectionOut, nil
	case "in":
		return DirectionIn, nil
	default:
		return 0, fmt.Errorf("unknown direction %q, want in or out", s)
	}
}
