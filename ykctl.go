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

// Package ykctl finds supported devices among the readers of a channel
// backend and opens them.
package ykctl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-piv/ykctl/protocol"
)

// DefaultReaders are the reader name prefixes of supported devices.
var DefaultReaders = []string{
	"yubico yubikey",
}

var ErrNoDevice = errors.New("no supported device found")

// Supported reports whether name starts with one of prefixes, ignoring ASCII
// case.
func Supported(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(name) >= len(p) && strings.EqualFold(name[:len(p)], p) {
			return true
		}
	}
	return false
}

// Reader is a reader attached to a backend.
type Reader struct {
	Name      string
	Supported bool
}

// Readers lists the readers of the named backend.
func Readers(backend string, prefixes []string) ([]Reader, error) {
	b, err := protocol.Lookup(backend)
	if err != nil {
		return nil, err
	}
	names, err := b.List()
	if err != nil {
		return nil, fmt.Errorf("listing readers: %w", err)
	}
	readers := make([]Reader, 0, len(names))
	for _, name := range names {
		readers = append(readers, Reader{Name: name, Supported: Supported(name, prefixes)})
	}
	return readers, nil
}

// Find opens the first supported reader of the named backend.
func Find(backend string, prefixes []string) (string, protocol.Card, error) {
	readers, err := Readers(backend, prefixes)
	if err != nil {
		return "", nil, err
	}
	for _, r := range readers {
		if !r.Supported {
			continue
		}
		card, err := Open(backend, r.Name)
		if err != nil {
			return "", nil, err
		}
		return r.Name, card, nil
	}
	return "", nil, ErrNoDevice
}

// Open connects to the named reader of backend.
func Open(backend, reader string) (protocol.Card, error) {
	b, err := protocol.Lookup(backend)
	if err != nil {
		return nil, err
	}
	card, err := b.Open(reader)
	if err != nil {
		return nil, err
	}
	slog.Info("connected", "reader", reader, "backend", backend)
	return card, nil
}
