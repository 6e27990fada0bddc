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
	"log/slog"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Sink receives trace events.
type Sink interface {
	Log(Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Log(Event) {}

// FileSink appends events to a CBOR sequence file. It is safe for concurrent
// use.
type FileSink struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewFileSink opens path for appending, creating it if needed.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f, encoder: newEncoder(f)}, nil
}

// Log writes e. Write failures are logged and otherwise ignored so that
// tracing never interrupts an exchange.
func (s *FileSink) Log(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err := s.encoder.Encode(e); err != nil {
		slog.Warn("writing trace event", "file", s.file.Name(), "err", err)
	}
}

// Close closes the file. Later calls to Log and Close do nothing.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

var (
	_ Sink = NopSink{}
	_ Sink = (*FileSink)(nil)
)
