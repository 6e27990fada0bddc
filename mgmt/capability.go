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
	"fmt"
	"strings"
)

// Capability is a bit in the supported and enabled application masks.
type Capability uint16

const (
	OTP     Capability = 0x0001
	U2F     Capability = 0x0002
	CCID    Capability = 0x0004
	OpenPGP Capability = 0x0008
	PIV     Capability = 0x0010
	OATH    Capability = 0x0020
	FIDO2   Capability = 0x0200
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{OTP, "OTP"},
	{U2F, "U2F"},
	{CCID, "CCID"},
	{OpenPGP, "OpenPGP"},
	{PIV, "PIV"},
	{OATH, "OATH"},
	{FIDO2, "FIDO2"},
}

// String lists the set bits, e.g. "OTP|CCID". Unknown bits are printed in hex.
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	rest := c
	for _, n := range capabilityNames {
		if c&n.c != 0 {
			parts = append(parts, n.name)
			rest &^= n.c
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04x", uint16(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseCapability returns the capability with the given case insensitive name.
func ParseCapability(name string) (Capability, error) {
	for _, n := range capabilityNames {
		if strings.EqualFold(n.name, name) {
			return n.c, nil
		}
	}
	return 0, fmt.Errorf("unknown application %q", name)
}

// FormFactor is the physical shape of the device.
type FormFactor byte

func (f FormFactor) String() string {
	switch f & 0x0f {
	case 0x00:
		return "unknown"
	case 0x01:
		return "USB-A keychain"
	case 0x02:
		return "USB-A nano"
	case 0x03:
		return "USB-C keychain"
	case 0x04:
		return "USB-C nano"
	case 0x05:
		return "USB-C Lightning"
	case 0x06:
		return "USB-A bio"
	case 0x07:
		return "USB-C bio"
	default:
		return fmt.Sprintf("FormFactor(0x%02x)", byte(f))
	}
}
