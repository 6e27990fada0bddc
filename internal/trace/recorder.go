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
	"time"

	"github.com/google/uuid"

	"github.com/go-piv/ykctl/protocol"
)

// Recorder is a protocol.Card that reports every request and response of the
// wrapped card to a Sink.
type Recorder struct {
	card    protocol.Card
	sink    Sink
	reader  string
	session string
	seq     uint64
	now     func() time.Time
}

var _ protocol.Card = (*Recorder)(nil)

// NewRecorder wraps card. Each Recorder starts a new session ID.
func NewRecorder(card protocol.Card, reader string, sink Sink) *Recorder {
	return &Recorder{
		card:    card,
		sink:    sink,
		reader:  reader,
		session: uuid.NewString(),
		now:     time.Now,
	}
}

func (r *Recorder) SessionID() string {
	return r.session
}

func (r *Recorder) Transmit(req []byte) ([]byte, error) {
	r.seq++
	r.sink.Log(r.event(DirectionOut, req))

	resp, err := r.card.Transmit(req)
	in := r.event(DirectionIn, resp)
	if err != nil {
		in.Data = nil
		in.Error = err.Error()
	}
	r.sink.Log(in)
	return resp, err
}

func (r *Recorder) event(dir Direction, data []byte) Event {
	return Event{
		Timestamp: r.now(),
		SessionID: r.session,
		Seq:       r.seq,
		Direction: dir,
		Reader:    r.reader,
		Data:      bytes.Clone(data),
	}
}

func (r *Recorder) Close() error {
	return r.card.Close()
}
