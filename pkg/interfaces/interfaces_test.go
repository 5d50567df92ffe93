/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces_test.go
Description: Tests for the shared configuration type: validation bounds,
address formatting, and exclusion set construction.
*/

package interfaces_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
)

func validConfig() *interfaces.HarnessConfig {
	return &interfaces.HarnessConfig{
		Host:            "127.0.0.1",
		Port:            6379,
		MaxCommands:     20,
		DictMixRatio:    0.9,
		ExcludeCommands: interfaces.DefaultExcludeCommands(),
		ConnectTimeout:  2 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		MaxDrainBytes:   4096,
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*interfaces.HarnessConfig)
	}{
		{"empty host", func(c *interfaces.HarnessConfig) { c.Host = "" }},
		{"zero port", func(c *interfaces.HarnessConfig) { c.Port = 0 }},
		{"port too high", func(c *interfaces.HarnessConfig) { c.Port = 70000 }},
		{"zero max commands", func(c *interfaces.HarnessConfig) { c.MaxCommands = 0 }},
		{"negative ratio", func(c *interfaces.HarnessConfig) { c.DictMixRatio = -0.1 }},
		{"ratio above one", func(c *interfaces.HarnessConfig) { c.DictMixRatio = 1.1 }},
		{"zero connect timeout", func(c *interfaces.HarnessConfig) { c.ConnectTimeout = 0 }},
		{"zero read timeout", func(c *interfaces.HarnessConfig) { c.ReadTimeout = 0 }},
		{"zero write timeout", func(c *interfaces.HarnessConfig) { c.WriteTimeout = 0 }},
		{"zero drain", func(c *interfaces.HarnessConfig) { c.MaxDrainBytes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRatioBoundsInclusive(t *testing.T) {
	cfg := validConfig()
	cfg.DictMixRatio = 0
	assert.NoError(t, cfg.Validate())
	cfg.DictMixRatio = 1
	assert.NoError(t, cfg.Validate())
}

func TestAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "127.0.0.1:6379", cfg.Addr())
}

func TestExcludeSet(t *testing.T) {
	set := validConfig().ExcludeSet()
	require.Len(t, set, 3)
	_, ok := set["SHUTDOWN"]
	assert.True(t, ok)
	_, ok = set["GET"]
	assert.False(t, ok)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ok", interfaces.OutcomeOK.String())
	assert.Equal(t, "refused", interfaces.OutcomeRefused.String())
	assert.Equal(t, "reset", interfaces.OutcomeReset.String())
	assert.Equal(t, "timeout", interfaces.OutcomeTimeout.String())
}
