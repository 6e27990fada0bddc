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

// Command ykctl turns YubiKey applications on and off over USB.
//
// Without a subcommand it manages the OTP application:
//
//	ykctl -s    show whether OTP is enabled
//	ykctl -e    enable OTP
//	ykctl -d    disable OTP
//	ykctl -t    toggle OTP
//
// Changing the configuration reboots the device.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-piv/ykctl"
	"github.com/go-piv/ykctl/internal/config"
	"github.com/go-piv/ykctl/internal/logging"
	_ "github.com/go-piv/ykctl/internal/pcsc"
	"github.com/go-piv/ykctl/internal/trace"
	"github.com/go-piv/ykctl/mgmt"
	"github.com/go-piv/ykctl/protocol"
)

var (
	verbosity   int
	configFile  string
	traceFile   string
	replayFile  string
	backendName string
	readers     []string

	enableApp  bool
	disableApp bool
	toggleApp  bool
	showApp    bool
	appName    string

	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ykctl",
	Short: "Enable, disable or toggle YubiKey applications over USB",
	Long: `ykctl reads the management configuration of the first connected YubiKey
and enables, disables or toggles one of its USB applications (OTP by default).

Writing a new configuration reboots the device. Devices older than firmware
5.0.0 are read only.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runApp,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", "log verbosity (-v info, -vv debug)")
	pf.StringVar(&configFile, "config", "", "path to config file (default: $"+config.EnvPath+" or the user config directory)")
	pf.StringVar(&traceFile, "trace", "", "append every exchanged frame to this trace file")
	pf.StringVar(&replayFile, "replay", "", "answer requests from a trace file instead of a device")
	pf.StringVar(&backendName, "backend", "", "reader backend (default from config, then pcsc)")
	pf.StringArrayVar(&readers, "reader", nil, "supported reader name prefix (can be repeated, replaces the config list)")

	f := rootCmd.Flags()
	f.BoolVarP(&enableApp, "enable", "e", false, "enable the application")
	f.BoolVarP(&disableApp, "disable", "d", false, "disable the application")
	f.BoolVarP(&toggleApp, "toggle", "t", false, "toggle the application")
	f.BoolVarP(&showApp, "show", "s", false, "show the current status (default)")
	f.StringVar(&appName, "app", "OTP", "application to change: OTP, U2F, OpenPGP, PIV, OATH or FIDO2")
	rootCmd.MarkFlagsMutuallyExclusive("enable", "disable", "toggle", "show")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and installs the
// default logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configFile != "" {
		settings, err = config.Load(configFile)
	} else {
		var path string
		settings, path, err = config.Find()
		defer func() {
			if path != "" {
				slog.Debug("loaded config", "path", path)
			}
		}()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		settings.Backend = backendName
	}
	if flags.Changed("reader") {
		settings.Readers = readers
	}
	if flags.Changed("trace") {
		settings.Trace = traceFile
	}

	base, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(os.Stderr, logging.Verbosity(base, verbosity)))
	return nil
}

func selectedMode() mgmt.Mode {
	switch {
	case enableApp:
		return mgmt.Enable
	case disableApp:
		return mgmt.Disable
	case toggleApp:
		return mgmt.Toggle
	default:
		return mgmt.Show
	}
}

func runApp(cmd *cobra.Command, _ []string) error {
	app, err := mgmt.ParseCapability(appName)
	if err != nil {
		return err
	}
	if app == mgmt.CCID {
		return errors.New("the CCID interface carries this session and cannot be changed")
	}

	card, err := connect()
	if err != nil {
		return err
	}
	defer card.Close()

	s, err := mgmt.Select(card)
	if err != nil {
		return err
	}
	cfg, err := s.Config()
	if err != nil {
		return err
	}
	slog.Debug("read configuration", "version", cfg.Version, "serial", cfg.Serial)

	m := selectedMode()
	change, err := mgmt.SetApplication(s, cfg, app, m)
	if err != nil {
		return err
	}
	if m == mgmt.Show {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", app, onOff(change.After))
	}
	if change.Written {
		slog.Info("new state", "app", app, "enabled", change.After)
	}
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// connect opens the first supported device, or the replay file, and wraps it
// in a trace recorder when tracing is configured.
func connect() (protocol.Card, error) {
	var (
		name string
		card protocol.Card
		err  error
	)
	if replayFile != "" {
		name = replayFile
		card, err = ykctl.Open("replay", replayFile)
	} else {
		name, card, err = ykctl.Find(settings.Backend, settings.Readers)
	}
	if err != nil {
		return nil, err
	}

	if settings.Trace == "" {
		return card, nil
	}
	sink, err := trace.NewFileSink(settings.Trace)
	if err != nil {
		card.Close()
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	rec := trace.NewRecorder(card, name, sink)
	slog.Info("tracing", "path", settings.Trace, "session", rec.SessionID())
	return &tracedCard{Recorder: rec, sink: sink}, nil
}

type tracedCard struct {
	*trace.Recorder
	sink *trace.FileSink
}

func (c *tracedCard) Close() error {
	return errors.Join(c.Recorder.Close(), c.sink.Close())
}
