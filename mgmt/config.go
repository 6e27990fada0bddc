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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-piv/ykctl/protocol"
	"github.com/go-piv/ykctl/tlv"
)

var (
	ErrConfigLength   = errors.New("mgmt: configuration length prefix does not match")
	ErrConfigTooLarge = errors.New("mgmt: configuration does not fit in one command")
)

// FieldError reports a configuration record with an unexpected size.
type FieldError struct {
	Tag  tlv.Tag
	Size int
	Want string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("mgmt: %s record (%v) is %d bytes, want %s", TagName(e.Tag), e.Tag, e.Size, e.Want)
}

// Config is the decoded device configuration.
type Config struct {
	Serial       uint32
	FormFactor   FormFactor
	Version      protocol.Version
	USBSupported Capability
	NFCSupported Capability
	NFCEnabled   Capability
	Locked       bool
	// CanWrite reports whether the firmware accepts configuration writes.
	CanWrite bool
	// Records holds every record in device order.
	Records []tlv.Record

	usbEnabled Capability
	usbKnown   bool
}

// ParseConfig decodes a configuration blob as returned by ReadConfig. The
// first byte must equal the number of bytes following it. raw is copied.
func ParseConfig(raw []byte) (*Config, error) {
	if len(raw) == 0 || int(raw[0]) != len(raw)-1 {
		return nil, ErrConfigLength
	}
	body := bytes.Clone(raw[1:])

	c := &Config{}
	for tag, val := range tlv.All(body) {
		c.Records = append(c.Records, tlv.Record{Tag: tag, Value: val})

		var err error
		switch tag {
		case TagUSBEnabled:
			if len(val) != 2 {
				return nil, &FieldError{Tag: tag, Size: len(val), Want: "2"}
			}
			c.usbEnabled = Capability(binary.BigEndian.Uint16(val))
			c.usbKnown = true
		case TagVersion:
			if c.Version, err = protocol.ParseVersion(val); err != nil {
				return nil, &FieldError{Tag: tag, Size: len(val), Want: "3"}
			}
			c.CanWrite = c.Version.AtLeast(minWritableVersion)
		case TagSerial:
			if len(val) != 4 {
				return nil, &FieldError{Tag: tag, Size: len(val), Want: "4"}
			}
			c.Serial = binary.BigEndian.Uint32(val)
		case TagFormFactor:
			if len(val) != 1 {
				return nil, &FieldError{Tag: tag, Size: len(val), Want: "1"}
			}
			c.FormFactor = FormFactor(val[0])
		case TagUSBSupported:
			c.USBSupported, err = capabilityValue(tag, val)
		case TagNFCSupported:
			c.NFCSupported, err = capabilityValue(tag, val)
		case TagNFCEnabled:
			c.NFCEnabled, err = capabilityValue(tag, val)
		case TagConfigLock:
			c.Locked = len(val) > 0 && val[0] != 0
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// capabilityValue decodes a 1 or 2 byte application mask.
func capabilityValue(tag tlv.Tag, val []byte) (Capability, error) {
	switch len(val) {
	case 1:
		return Capability(val[0]), nil
	case 2:
		return Capability(binary.BigEndian.Uint16(val)), nil
	default:
		return 0, &FieldError{Tag: tag, Size: len(val), Want: "1 or 2"}
	}
}

// EnabledUSB returns the mask of applications enabled over USB and whether
// the device reported it.
func (c *Config) EnabledUSB() (Capability, bool) {
	return c.usbEnabled, c.usbKnown
}

// USBEnabled reports whether every application in app is enabled over USB.
func (c *Config) USBEnabled(app Capability) bool {
	return c.usbEnabled&app == app
}

func (c *Config) SetUSBEnabled(app Capability, enabled bool) {
	if enabled {
		c.usbEnabled |= app
	} else {
		c.usbEnabled &^= app
	}
	c.usbKnown = true
}

// Marshal encodes the writable part of the configuration with its length
// prefix. If reboot is set the device restarts after applying it.
func (c *Config) Marshal(reboot bool) ([]byte, error) {
	out := []byte{0} // length, filled in below

	if c.usbKnown {
		out = tlv.Append(out, TagUSBEnabled, binary.BigEndian.AppendUint16(nil, uint16(c.usbEnabled)))
	}
	if reboot {
		out = tlv.Append(out, TagReboot, nil)
	}

	if len(out) > protocol.MaxDataSize {
		return nil, ErrConfigTooLarge
	}
	out[0] = byte(len(out) - 1)
	return out, nil
}
