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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-piv/ykctl/protocol"
	"github.com/go-piv/ykctl/tlv"
)

// sampleConfig is a configuration blob as read from a 5.4.3 USB-C key.
var sampleConfig = []byte{
	0x19,
	0x01, 0x02, 0x02, 0x3f, // usb supported
	0x02, 0x04, 0x00, 0xbc, 0x61, 0x4e, // serial
	0x03, 0x02, 0x02, 0x3f, // usb enabled
	0x04, 0x01, 0x03, // form factor
	0x05, 0x03, 0x05, 0x04, 0x03, // version
	0x0a, 0x01, 0x00, // config lock
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, uint32(12345678), cfg.Serial)
	assert.Equal(t, "USB-C keychain", cfg.FormFactor.String())
	assert.Equal(t, protocol.Version{Major: 5, Minor: 4, Patch: 3}, cfg.Version)
	assert.Equal(t, OTP|U2F|CCID|OpenPGP|PIV|OATH|FIDO2, cfg.USBSupported)
	assert.False(t, cfg.Locked)
	assert.True(t, cfg.CanWrite)
	assert.Len(t, cfg.Records, 6)

	usb, known := cfg.EnabledUSB()
	assert.True(t, known)
	assert.Equal(t, Capability(0x023f), usb)
	assert.True(t, cfg.USBEnabled(OTP))
	assert.True(t, cfg.USBEnabled(OTP|CCID))
}

func TestParseConfigCopiesInput(t *testing.T) {
	raw := append([]byte{}, sampleConfig...)
	cfg, err := ParseConfig(raw)
	require.NoError(t, err)
	raw[3] = 0xff
	assert.Equal(t, []byte{0x02, 0x3f}, cfg.Records[0].Value)
}

func TestParseConfigOldFirmware(t *testing.T) {
	cfg, err := ParseConfig([]byte{0x05, 0x05, 0x03, 0x04, 0x03, 0x07})
	require.NoError(t, err)
	assert.False(t, cfg.CanWrite)
	_, known := cfg.EnabledUSB()
	assert.False(t, known)
}

func TestParseConfigIgnoresTrailingBytes(t *testing.T) {
	cfg, err := ParseConfig([]byte{0x06, 0x03, 0x02, 0x00, 0x05, 0x0c, 0x04})
	require.NoError(t, err)
	assert.Len(t, cfg.Records, 1)
	assert.True(t, cfg.USBEnabled(CCID))
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		tag  tlv.Tag
	}{
		{name: "usb enabled", raw: []byte{0x03, 0x03, 0x01, 0x04}, tag: TagUSBEnabled},
		{name: "version", raw: []byte{0x04, 0x05, 0x02, 0x05, 0x00}, tag: TagVersion},
		{name: "serial", raw: []byte{0x03, 0x02, 0x01, 0x01}, tag: TagSerial},
		{name: "form factor", raw: []byte{0x02, 0x04, 0x00}, tag: TagFormFactor},
		{name: "usb supported", raw: []byte{0x05, 0x01, 0x03, 0x00, 0x00, 0x3f}, tag: TagUSBSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.raw)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.tag, fe.Tag)
		})
	}
}

func TestParseConfigLength(t *testing.T) {
	for _, raw := range [][]byte{nil, {0x01}, {0x00, 0x0c, 0x00}, {0x05, 0x0c, 0x00}} {
		_, err := ParseConfig(raw)
		assert.ErrorIs(t, err, ErrConfigLength)
	}
}

func TestMarshal(t *testing.T) {
	cfg, err := ParseConfig(sampleConfig)
	require.NoError(t, err)

	cfg.SetUSBEnabled(OTP, false)
	raw, err := cfg.Marshal(true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x03, 0x02, 0x02, 0x3e, 0x0c, 0x00}, raw)

	raw, err = cfg.Marshal(false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x02, 0x3e}, raw)

	// The blob parses back to the same mask.
	back, err := ParseConfig(raw)
	require.NoError(t, err)
	assert.False(t, back.USBEnabled(OTP))
	assert.True(t, back.USBEnabled(CCID))
}

func TestMarshalEmpty(t *testing.T) {
	raw, err := (&Config{}).Marshal(false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, raw)
}

func TestCapability(t *testing.T) {
	assert.Equal(t, "OTP|CCID", (OTP | CCID).String())
	assert.Equal(t, "none", Capability(0).String())
	assert.Equal(t, "PIV|0x8000", (PIV | 0x8000).String())

	c, err := ParseCapability("otp")
	require.NoError(t, err)
	assert.Equal(t, OTP, c)
	_, err = ParseCapability("hsm")
	assert.Error(t, err)
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "usb-enabled", TagName(TagUSBEnabled))
	assert.Equal(t, "", TagName(0x5f2d))
}
