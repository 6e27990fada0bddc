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

package trace

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-piv/ykctl/protocol"
)

func init() {
	protocol.Register("replay", protocol.Backend{
		List: func() ([]string, error) { return nil, nil },
		Open: func(path string) (protocol.Card, error) {
			r, err := OpenReplay(path)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	})
}

var (
	// ErrReplayMismatch is returned when a request differs from the recording.
	ErrReplayMismatch = errors.New("trace: request does not match recording")
	// ErrReplayExhausted is returned when no recorded request is left.
	ErrReplayExhausted = errors.New("trace: recording exhausted")
)

// Replay is a protocol.Card that answers requests from a recorded trace.
// Requests must arrive in the recorded order.
type Replay struct {
	events []Event
	pos    int
}

var _ protocol.Card = (*Replay)(nil)

// OpenReplay loads every event of the trace file at path.
func OpenReplay(path string) (*Replay, error) {
	events, err := ReadAll(path, Filter{})
	if err != nil {
		return nil, fmt.Errorf("reading trace %s: %w", path, err)
	}
	return NewReplay(events), nil
}

func NewReplay(events []Event) *Replay {
	return &Replay{events: events}
}

func (r *Replay) Transmit(req []byte) ([]byte, error) {
	out, ok := r.next(DirectionOut)
	if !ok {
		return nil, ErrReplayExhausted
	}
	if !bytes.Equal(out.Data, req) {
		return nil, fmt.Errorf("%w: request #%d is % x, recorded % x", ErrReplayMismatch, out.Seq, req, out.Data)
	}

	in, ok := r.next(DirectionIn)
	if !ok || in.Seq != out.Seq {
		return nil, fmt.Errorf("%w: no response to request #%d", ErrReplayExhausted, out.Seq)
	}
	if in.Error != "" {
		return nil, errors.New(in.Error)
	}
	return bytes.Clone(in.Data), nil
}

// next advances to the next event with direction dir.
func (r *Replay) next(dir Direction) (Event, bool) {
	for r.pos < len(r.events) {
		e := r.events[r.pos]
		r.pos++
		if e.Direction == dir {
			return e, true
		}
	}
	return Event{}, false
}

func (r *Replay) Close() error {
	return nil
}
