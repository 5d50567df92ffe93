/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: harness_test.go
Description: Tests for the per-iteration harness driver using a scripted
transport. Covers clean, hang, and crash classification, stop-on-failure,
the final liveness probe, and wire well-formedness of everything sent.
*/

package harness_test

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/dict"
	"github.com/kleascm/resp-fuzzer/pkg/harness"
	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
)

// scriptedSender replays a fixed outcome sequence, then repeats the last
// entry. Ping outcomes are scripted separately.
type scriptedSender struct {
	outcomes []interfaces.Outcome
	ping     interfaces.Outcome
	payloads [][]byte
	pings    int
}

func (s *scriptedSender) Send(payload []byte) interfaces.Outcome {
	cp := append([]byte(nil), payload...)
	s.payloads = append(s.payloads, cp)
	i := len(s.payloads) - 1
	if i >= len(s.outcomes) {
		i = len(s.outcomes) - 1
	}
	return s.outcomes[i]
}

func (s *scriptedSender) Ping() interfaces.Outcome {
	s.pings++
	return s.ping
}

func (s *scriptedSender) Close() error { return nil }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func harnessConfig() *interfaces.HarnessConfig {
	return &interfaces.HarnessConfig{
		Host:            "127.0.0.1",
		Port:            6379,
		MaxCommands:     10,
		DictMixRatio:    0.5,
		ExcludeCommands: interfaces.DefaultExcludeCommands(),
		ConnectTimeout:  time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		MaxDrainBytes:   4096,
	}
}

func newHarness(t *testing.T, cfg *interfaces.HarnessConfig, sender harness.Sender) *harness.Harness {
	t.Helper()
	cat := catalog.New()
	h, err := harness.New(cfg, cat, dict.NewStore(nil, cat), sender, quietLogger())
	require.NoError(t, err)
	return h
}

func TestRunClean(t *testing.T) {
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeOK},
		ping:     interfaces.OutcomeOK,
	}
	h := newHarness(t, harnessConfig(), sender)

	rng := rand.New(rand.NewSource(47))
	data := make([]byte, 128)
	rng.Read(data)

	result := h.Run(data)
	assert.Equal(t, harness.StatusClean, result.Status)
	assert.Equal(t, result.Commands, result.Sent)
	assert.Equal(t, result.Commands, len(sender.payloads))
	assert.Equal(t, 1, sender.pings, "clean iterations end with one liveness probe")
	assert.Len(t, result.IterationID, 8)
	assert.Equal(t, harness.StateIdle, h.State())
}

func TestRunHangStopsSending(t *testing.T) {
	cfg := harnessConfig()
	cfg.MaxCommands = 30
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{
			interfaces.OutcomeOK,
			interfaces.OutcomeOK,
			interfaces.OutcomeTimeout,
		},
		ping: interfaces.OutcomeOK,
	}
	h := newHarness(t, cfg, sender)

	// 29 forces a long sequence; remaining random bytes drive generation.
	input := append([]byte{28}, bytes.Repeat([]byte{0xA7}, 512)...)
	result := h.Run(input)

	require.Greater(t, result.Commands, 3, "need a sequence long enough to cut short")
	assert.Equal(t, harness.StatusHang, result.Status)
	assert.Equal(t, 2, result.Sent)
	assert.Len(t, sender.payloads, 3, "sending must stop at the first failure")
	assert.Equal(t, interfaces.OutcomeTimeout, result.LastOutcome)
	assert.Zero(t, sender.pings, "failed iterations skip the liveness probe")
}

func TestRunCrashOnReset(t *testing.T) {
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeReset},
		ping:     interfaces.OutcomeOK,
	}
	h := newHarness(t, harnessConfig(), sender)

	result := h.Run([]byte{5, 1, 2, 3, 4})
	assert.Equal(t, harness.StatusCrash, result.Status)
	assert.Zero(t, result.Sent)
	assert.Equal(t, interfaces.OutcomeReset, result.LastOutcome)
}

func TestRunCrashOnRefused(t *testing.T) {
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeRefused},
		ping:     interfaces.OutcomeOK,
	}
	h := newHarness(t, harnessConfig(), sender)

	result := h.Run([]byte{5, 1, 2, 3, 4})
	assert.Equal(t, harness.StatusCrash, result.Status)
}

// TestFinalPingDetectsSilentDeath verifies a target that acknowledged every
// command but died on the last one is still caught by the closing probe.
func TestFinalPingDetectsSilentDeath(t *testing.T) {
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeOK},
		ping:     interfaces.OutcomeReset,
	}
	h := newHarness(t, harnessConfig(), sender)

	result := h.Run([]byte{1, 9, 9, 9})
	assert.Equal(t, harness.StatusCrash, result.Status)
	assert.Equal(t, result.Commands, result.Sent, "every command was acknowledged")
}

func TestFinalPingTimeoutIsHang(t *testing.T) {
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeOK},
		ping:     interfaces.OutcomeTimeout,
	}
	h := newHarness(t, harnessConfig(), sender)

	result := h.Run([]byte{1, 9, 9, 9})
	assert.Equal(t, harness.StatusHang, result.Status)
}

// TestZeroInputIteration pins the floor case end to end: one zero byte in,
// one PING out, clean status.
func TestZeroInputIteration(t *testing.T) {
	cfg := harnessConfig()
	cfg.MaxCommands = 30
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeOK},
		ping:     interfaces.OutcomeOK,
	}
	h := newHarness(t, cfg, sender)

	result := h.Run([]byte{0})
	assert.Equal(t, harness.StatusClean, result.Status)
	assert.Equal(t, 1, result.Commands)
	require.Len(t, sender.payloads, 1)
	assert.Equal(t, "*1\r\n$4\r\nPING\r\n", string(sender.payloads[0]))
}

// TestPayloadsWellFormed walks every sent payload and checks the RESP
// framing: array header, then exactly that many length-prefixed bulk
// strings with correct byte counts.
func TestPayloadsWellFormed(t *testing.T) {
	sender := &scriptedSender{
		outcomes: []interfaces.Outcome{interfaces.OutcomeOK},
		ping:     interfaces.OutcomeOK,
	}
	h := newHarness(t, harnessConfig(), sender)

	rng := rand.New(rand.NewSource(53))
	for i := 0; i < 50; i++ {
		data := make([]byte, 256)
		rng.Read(data)
		h.Run(data)
	}

	for _, payload := range sender.payloads {
		assertWellFormedRESP(t, payload)
	}
}

func assertWellFormedRESP(t *testing.T, payload []byte) {
	t.Helper()
	rest := payload
	require.True(t, len(rest) > 0 && rest[0] == '*', "missing array header: %q", payload)
	n, rest := readInt(t, rest[1:])
	require.Greater(t, n, 0)
	for i := 0; i < n; i++ {
		require.True(t, len(rest) > 0 && rest[0] == '$', "missing bulk header: %q", payload)
		var size int
		size, rest = readInt(t, rest[1:])
		require.GreaterOrEqual(t, size, 0)
		require.GreaterOrEqual(t, len(rest), size+2, "truncated bulk body")
		require.Equal(t, "\r\n", string(rest[size:size+2]), "bulk body not CRLF terminated")
		rest = rest[size+2:]
	}
	assert.Empty(t, rest, "trailing bytes after last element")
}

// readInt consumes a decimal integer plus its CRLF terminator.
func readInt(t *testing.T, b []byte) (int, []byte) {
	t.Helper()
	i := bytes.Index(b, []byte("\r\n"))
	require.Greater(t, i, 0, "unterminated integer")
	n := 0
	for _, c := range b[:i] {
		require.True(t, c >= '0' && c <= '9', "non-digit in length: %q", b[:i])
		n = n*10 + int(c-'0')
	}
	return n, b[i+2:]
}
