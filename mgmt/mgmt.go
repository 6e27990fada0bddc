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

// Package mgmt talks to the device management application, which holds the
// device wide configuration: enabled USB applications, serial number,
// firmware version and a few timeouts.
//
// A Session can only be obtained by selecting the application, so reading or
// writing the configuration without a prior select does not compile.
package mgmt

import (
	"github.com/go-piv/ykctl/protocol"
	"github.com/go-piv/ykctl/tlv"
)

// ManagementAID identifies the management application.
var ManagementAID = [...]byte{0xa0, 0x00, 0x00, 0x05, 0x27, 0x47, 0x11, 0x17}

const (
	InsWriteConfig protocol.Instruction = 0x1c
	InsReadConfig  protocol.Instruction = 0x1d
)

// Configuration record tags.
const (
	TagUSBSupported      tlv.Tag = 0x01
	TagSerial            tlv.Tag = 0x02
	TagUSBEnabled        tlv.Tag = 0x03
	TagFormFactor        tlv.Tag = 0x04
	TagVersion           tlv.Tag = 0x05
	TagAutoEject         tlv.Tag = 0x06
	TagChallengeResponse tlv.Tag = 0x07
	TagDeviceFlags       tlv.Tag = 0x08
	TagConfigLock        tlv.Tag = 0x0a
	TagReboot            tlv.Tag = 0x0c
	TagNFCSupported      tlv.Tag = 0x0d
	TagNFCEnabled        tlv.Tag = 0x0e
)

// TagName returns a readable name for configuration tags, or "" for tags
// this package does not know.
func TagName(t tlv.Tag) string {
	switch t {
	case TagUSBSupported:
		return "usb-supported"
	case TagSerial:
		return "serial"
	case TagUSBEnabled:
		return "usb-enabled"
	case TagFormFactor:
		return "form-factor"
	case TagVersion:
		return "version"
	case TagAutoEject:
		return "auto-eject-timeout"
	case TagChallengeResponse:
		return "challenge-response-timeout"
	case TagDeviceFlags:
		return "device-flags"
	case TagConfigLock:
		return "config-lock"
	case TagReboot:
		return "reboot"
	case TagNFCSupported:
		return "nfc-supported"
	case TagNFCEnabled:
		return "nfc-enabled"
	default:
		return ""
	}
}

// minWritableVersion is the first firmware accepting configuration writes.
var minWritableVersion = protocol.Version{Major: 5}
