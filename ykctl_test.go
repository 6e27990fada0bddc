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

package ykctl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-piv/ykctl/protocol"
)

type nopCard struct{ name string }

func (nopCard) Transmit([]byte) ([]byte, error) { return []byte{0x90, 0x00}, nil }
func (nopCard) Close() error                    { return nil }

func init() {
	protocol.Register("ykctl-test", protocol.Backend{
		List: func() ([]string, error) {
			return []string{"Generic Reader 0", "Yubico YubiKey OTP+FIDO+CCID 00 00"}, nil
		},
		Open: func(reader string) (protocol.Card, error) {
			if reader == "Generic Reader 0" {
				return nil, errors.New("sharing violation")
			}
			return nopCard{name: reader}, nil
		},
	})
	protocol.Register("ykctl-test-failing", protocol.Backend{
		List: func() ([]string, error) { return nil, errors.New("no service") },
	})
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("Yubico YubiKey OTP+FIDO+CCID 00 00", DefaultReaders))
	assert.True(t, Supported("YUBICO YUBIKEY", DefaultReaders))
	assert.False(t, Supported("Yubico", DefaultReaders))
	assert.False(t, Supported("Nitrokey 3", DefaultReaders))
	assert.False(t, Supported("Yubico YubiKey", nil))
}

func TestReaders(t *testing.T) {
	readers, err := Readers("ykctl-test", DefaultReaders)
	require.NoError(t, err)
	assert.Equal(t, []Reader{
		{Name: "Generic Reader 0"},
		{Name: "Yubico YubiKey OTP+FIDO+CCID 00 00", Supported: true},
	}, readers)

	_, err = Readers("ykctl-test-failing", DefaultReaders)
	assert.EqualError(t, err, "listing readers: no service")
	_, err = Readers("missing", DefaultReaders)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	name, card, err := Find("ykctl-test", DefaultReaders)
	require.NoError(t, err)
	assert.Equal(t, "Yubico YubiKey OTP+FIDO+CCID 00 00", name)
	assert.Equal(t, nopCard{name: name}, card)

	_, _, err = Find("ykctl-test", []string{"nitrokey"})
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestOpenError(t *testing.T) {
	_, err := Open("ykctl-test", "Generic Reader 0")
	assert.EqualError(t, err, "sharing violation")
}
