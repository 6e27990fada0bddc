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

// Package config loads the ykctl configuration file.
//
// Files are TOML or YAML, picked by extension:
//
//	backend = "pcsc"
//	readers = ["yubico yubikey"]
//	log_level = "info"
//	trace = "/tmp/ykctl.trace"
//
// Keys left out of the file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/go-piv/ykctl"
	"github.com/go-piv/ykctl/internal/logging"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "YKCTL_CONFIG"

// Config holds the settings shared by every ykctl command.
type Config struct {
	Backend  string
	Readers  []string
	LogLevel string
	Trace    string
}

func Default() Config {
	return Config{
		Backend:  "pcsc",
		Readers:  append([]string(nil), ykctl.DefaultReaders...),
		LogLevel: "warn",
	}
}

type fileConfig struct {
	Backend  string   `toml:"backend" yaml:"backend"`
	Readers  []string `toml:"readers" yaml:"readers"`
	LogLevel string   `toml:"log_level" yaml:"log_level"`
	Trace    string   `toml:"trace" yaml:"trace"`
}

// Load reads the file at path over Default.
func Load(path string) (Config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	var (
		raw     fileConfig
		defined func(key string) bool
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		defined, err = decodeTOML(body, &raw)
	case ".yaml", ".yml":
		defined, err = decodeYAML(body, &raw)
	default:
		return Config{}, fmt.Errorf("unknown config file type %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Default()
	if defined("backend") {
		if b := strings.TrimSpace(raw.Backend); b != "" {
			cfg.Backend = b
		}
	}
	if defined("readers") {
		cfg.Readers = normalizeReaders(raw.Readers)
	}
	if defined("log_level") {
		level := strings.TrimSpace(raw.LogLevel)
		if _, err := logging.ParseLevel(level); err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}
	if defined("trace") {
		cfg.Trace = strings.TrimSpace(raw.Trace)
	}
	return cfg, nil
}

func decodeTOML(body []byte, raw *fileConfig) (func(string) bool, error) {
	meta, err := toml.Decode(string(body), raw)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return func(key string) bool { return meta.IsDefined(key) }, nil
}

func decodeYAML(body []byte, raw *fileConfig) (func(string) bool, error) {
	keys := map[string]bool{}
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return func(string) bool { return false }, nil
		}
		return nil, err
	}
	if len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode {
		m := doc.Content[0]
		for i := 0; i+1 < len(m.Content); i += 2 {
			keys[m.Content[i].Value] = true
		}
	}
	strict := yaml.NewDecoder(bytes.NewReader(body))
	strict.KnownFields(true)
	if err := strict.Decode(raw); err != nil {
		return nil, err
	}
	return func(key string) bool { return keys[key] }, nil
}

// Find loads the file named by $YKCTL_CONFIG, or the first of config.toml,
// config.yaml and config.yml under the user config directory. It returns
// Default and an empty path when there is no file.
func Find() (Config, string, error) {
	if path := os.Getenv(EnvPath); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return Default(), "", nil
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, "ykctl", name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		cfg, err := Load(path)
		return cfg, path, err
	}
	return Default(), "", nil
}

func normalizeReaders(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		v := strings.ToLower(strings.TrimSpace(r))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
