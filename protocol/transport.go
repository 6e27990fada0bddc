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
	"fmt"
	"log/slog"
)

// Exchange transmits cmd over ch and splits the response into its status
// word and payload. The status word is not checked.
func Exchange(ch Channel, cmd Command) (StatusWord, []byte, error) {
	req := cmd.Encode()
	slog.Debug("apdu tx", "ins", cmd.Ins, "data", hexBytes(req))

	resp, err := ch.Transmit(req)
	if err != nil {
		return 0, nil, &TransportError{Ins: cmd.Ins, Err: err}
	}
	slog.Debug("apdu rx", "ins", cmd.Ins, "data", hexBytes(resp))

	if len(resp) < 2 {
		return 0, nil, ErrShortResponse
	}
	n := len(resp) - 2
	return NewStatusWord(resp[n], resp[n+1]), resp[:n:n], nil
}

// Send frames header and payload as a single command, transmits it and
// checks the response status against expect. It returns the status word and
// the response payload.
//
// Send panics if payload is 256 bytes or longer.
func Send(ch Channel, header [4]byte, payload []byte, expect StatusWord) (StatusWord, []byte, error) {
	cmd := CommandFromHeader(header, payload)
	sw, data, err := Exchange(ch, cmd)
	if err != nil {
		return 0, nil, err
	}
	if sw != expect {
		return sw, nil, &StatusError{Ins: cmd.Ins, Observed: sw, Expected: expect}
	}
	return sw, data, nil
}

// SelectApplication selects the application identified by aid and returns
// the select response payload.
func SelectApplication(ch Channel, aid []byte) ([]byte, error) {
	header := NewCommand(StandardCommand, InsSelectApplication, ParamSelectByName, EmptyParam, nil).Header()
	_, data, err := Send(ch, header, aid, StatusOK)
	if err != nil {
		return nil, err
	}
	slog.Debug("selected application", "aid", hexBytes(aid), "response", string(data))
	return data, nil
}

// hexBytes defers hex formatting until a log record is actually emitted.
type hexBytes []byte

func (b hexBytes) LogValue() slog.Value {
	return slog.StringValue(fmt.Sprintf("% x", []byte(b)))
}
