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

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches any failure of the underlying channel.
	ErrTransport = errors.New("protocol: transport failure")
	// ErrShortResponse is returned when a response cannot hold a status word.
	ErrShortResponse = errors.New("protocol: response is too short")
	// ErrUnexpectedStatus matches any *StatusError.
	ErrUnexpectedStatus = errors.New("protocol: unexpected status")
)

// TransportError wraps an error returned by a Channel.
type TransportError struct {
	Ins Instruction
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transmitting %v: %v", e.Ins, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// StatusError reports a response whose status word differs from the one the
// caller expected.
type StatusError struct {
	Ins      Instruction
	Observed StatusWord
	Expected StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response to %v: %v, want %v", e.Ins, e.Observed, e.Expected)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
