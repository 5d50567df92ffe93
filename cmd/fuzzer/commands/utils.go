/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the RESP fuzzing harness commands.
Configuration loading from environment and flags, logger construction, and
assembly of the immutable harness configuration value.
*/

package commands

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
	"github.com/kleascm/resp-fuzzer/pkg/logging"
)

// LoadConfig binds the RESPFUZZ_* environment into viper.
// Flags already bound in main take precedence per viper's usual ordering.
func LoadConfig() error {
	viper.SetEnvPrefix("RESPFUZZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	return nil
}

// SetupLogging builds the process logger from the logging configuration.
func SetupLogging() (*logrus.Logger, error) {
	return logging.New(logging.Config{
		Level: viper.GetString("log_level"),
		JSON:  viper.GetBool("json_logs"),
	})
}

// createHarnessConfig assembles the immutable configuration from viper.
// Command names are normalized to upper case here, once.
func createHarnessConfig() *interfaces.HarnessConfig {
	return &interfaces.HarnessConfig{
		Host:            viper.GetString("host"),
		Port:            viper.GetInt("port"),
		MaxCommands:     viper.GetInt("max_commands"),
		DictMixRatio:    viper.GetFloat64("dict_mix_ratio"),
		DictPath:        viper.GetString("dict"),
		FocusCommands:   upperAll(viper.GetStringSlice("focus")),
		ExcludeCommands: upperAll(viper.GetStringSlice("exclude")),
		ConnectTimeout:  durationOr(viper.GetDuration("connect_timeout"), 2*time.Second),
		ReadTimeout:     durationOr(viper.GetDuration("read_timeout"), 2*time.Second),
		WriteTimeout:    durationOr(viper.GetDuration("write_timeout"), 2*time.Second),
		MaxDrainBytes:   viper.GetInt("max_drain_bytes"),
	}
}

// warnUnknownFocus logs focus names the catalog does not know; the
// sequence builder drops them silently, so the warning happens here.
func warnUnknownFocus(log *logrus.Logger, cfg *interfaces.HarnessConfig, cat *catalog.Catalog) {
	for _, name := range cfg.FocusCommands {
		if !cat.Has(name) {
			log.WithField("command", name).Warn("focus command not in catalog, ignoring")
		}
	}
}

func upperAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToUpper(name))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
