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
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrReadOnly     = errors.New("writing configuration is not supported for this device")
	ErrCCIDRequired = errors.New("CCID transport must be enabled on the device")
)

// Mode selects how SetApplication changes an application.
type Mode int

const (
	Show Mode = iota
	Enable
	Disable
	Toggle
)

func (m Mode) String() string {
	switch m {
	case Show:
		return "show"
	case Enable:
		return "enable"
	case Disable:
		return "disable"
	case Toggle:
		return "toggle"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) apply(enabled bool) bool {
	switch m {
	case Enable:
		return true
	case Disable:
		return false
	case Toggle:
		return !enabled
	default:
		return enabled
	}
}

// Change describes the outcome of SetApplication.
type Change struct {
	App     Capability
	Before  bool
	After   bool
	Written bool
}

// SetApplication enables, disables or toggles app over USB and writes the
// result to the device, which then reboots. Nothing is written when the state
// does not change. On success cfg reflects the written configuration.
//
// The CCID interface carries this very session, so a configuration without it
// is refused.
func SetApplication(s *Session, cfg *Config, app Capability, m Mode) (Change, error) {
	ch := Change{App: app, Before: cfg.USBEnabled(app)}
	ch.After = m.apply(ch.Before)
	if ch.After == ch.Before {
		return ch, nil
	}

	if !cfg.CanWrite {
		return ch, ErrReadOnly
	}

	next := *cfg
	next.SetUSBEnabled(app, ch.After)
	if !next.USBEnabled(CCID) {
		return ch, ErrCCIDRequired
	}

	raw, err := next.Marshal(true)
	if err != nil {
		return ch, err
	}
	slog.Info("writing configuration", "app", app, "enabled", ch.After)
	if err := s.WriteConfig(raw); err != nil {
		return ch, fmt.Errorf("writing configuration: %w", err)
	}

	*cfg = next
	ch.Written = true
	return ch, nil
}
