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

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"":      slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestVerbosity(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Verbosity(slog.LevelWarn, 0))
	assert.Equal(t, slog.LevelInfo, Verbosity(slog.LevelWarn, 1))
	assert.Equal(t, slog.LevelDebug, Verbosity(slog.LevelWarn, 3))
	assert.Equal(t, slog.LevelDebug, Verbosity(slog.LevelDebug, 1))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("connected", "reader", "Yubico YubiKey")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "reader=\"Yubico YubiKey\"")
	assert.NotContains(t, out, "\x1b[")
}
