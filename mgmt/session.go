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

package mgmt

import (
	"log/slog"

	"github.com/go-piv/ykctl/protocol"
)

var (
	readConfigHeader  = protocol.NewCommand(protocol.StandardCommand, InsReadConfig, protocol.EmptyParam, protocol.EmptyParam, nil).Header()
	writeConfigHeader = protocol.NewCommand(protocol.StandardCommand, InsWriteConfig, protocol.EmptyParam, protocol.EmptyParam, nil).Header()
)

// Session is a channel on which the management application is selected.
type Session struct {
	ch protocol.Channel
}

// Select selects the management application on ch.
func Select(ch protocol.Channel) (*Session, error) {
	resp, err := protocol.SelectApplication(ch, ManagementAID[:])
	if err != nil {
		return nil, err
	}
	slog.Debug("management application selected", "banner", string(resp))
	return &Session{ch: ch}, nil
}

// ReadConfig returns the raw configuration blob, including its leading
// length byte.
func (s *Session) ReadConfig() ([]byte, error) {
	_, data, err := protocol.Send(s.ch, readConfigHeader, nil, protocol.StatusOK)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteConfig writes a raw configuration blob as produced by Config.Marshal.
func (s *Session) WriteConfig(raw []byte) error {
	_, _, err := protocol.Send(s.ch, writeConfigHeader, raw, protocol.StatusOK)
	return err
}

// Config reads and parses the device configuration.
func (s *Session) Config() (*Config, error) {
	raw, err := s.ReadConfig()
	if err != nil {
		return nil, err
	}
	return ParseConfig(raw)
}
