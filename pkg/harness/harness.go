/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: harness.go
Description: Per-iteration driver for the RESP fuzzing harness. Runs the
Idle -> Generating -> Sending -> Awaiting -> Done state machine once per
fuzzer-supplied input: expands the input bytes into a command sequence,
encodes each command eagerly, transmits them over the transport client, and
classifies the iteration as clean, hang, or crash for the engine's exit
contract.
*/

package harness

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/decision"
	"github.com/kleascm/resp-fuzzer/pkg/dict"
	"github.com/kleascm/resp-fuzzer/pkg/gen"
	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
	"github.com/kleascm/resp-fuzzer/pkg/resp"
)

// State is the harness loop state.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateSending
	StateAwaiting
	StateDone
)

// Status classifies one finished iteration.
type Status int

const (
	// StatusClean: every command sent and the target still responsive.
	StatusClean Status = iota
	// StatusHang: a read timed out; reported via the engine's timeout convention.
	StatusHang
	// StatusCrash: connection refused/reset beyond the single retry.
	StatusCrash
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusHang:
		return "hang"
	case StatusCrash:
		return "crash"
	}
	return "unknown"
}

// Result summarizes one iteration for logging and the exit contract.
type Result struct {
	IterationID string
	Status      Status
	Commands    int
	Sent        int
	LastOutcome interfaces.Outcome
	Duration    time.Duration
}

// Sender is the transport surface the harness drives.
// Satisfied by transport.Client; narrowed here so tests can script failures.
type Sender interface {
	Send(payload []byte) interfaces.Outcome
	Ping() interfaces.Outcome
	Close() error
}

// Harness wires the generation pipeline to the transport.
type Harness struct {
	cfg     *interfaces.HarnessConfig
	builder *gen.Builder
	client  Sender
	log     *logrus.Logger
	state   State
}

// New builds a harness over the immutable configuration, catalog, and
// dictionary store. An exclusion set that empties the catalog surfaces
// here as a startup error.
func New(cfg *interfaces.HarnessConfig, cat *catalog.Catalog, store *dict.Store, client Sender, log *logrus.Logger) (*Harness, error) {
	builder, err := gen.NewBuilder(cfg, cat, store)
	if err != nil {
		return nil, err
	}
	return &Harness{
		cfg:     cfg,
		builder: builder,
		client:  client,
		log:     log,
		state:   StateIdle,
	}, nil
}

// Builder exposes the sequence builder for startup logging.
func (h *Harness) Builder() *gen.Builder {
	return h.builder
}

// State returns the current loop state.
func (h *Harness) State() State {
	return h.state
}

// Run executes one fuzz iteration over the given input bytes.
func (h *Harness) Run(input []byte) Result {
	start := time.Now()
	result := Result{
		IterationID: uuid.New().String()[:8],
		Status:      StatusClean,
		LastOutcome: interfaces.OutcomeOK,
	}
	iterationsTotal.Inc()

	h.state = StateGenerating
	stream := decision.NewStream(input)
	commands := h.builder.Build(stream)
	result.Commands = len(commands)

	// Encode eagerly: generation faults, if any existed, would surface
	// before the first byte hits the wire.
	payloads := make([][]byte, len(commands))
	for i, cmd := range commands {
		payloads[i] = resp.Encode(cmd)
	}

	log := h.log.WithFields(logrus.Fields{
		"iteration": result.IterationID,
		"commands":  len(commands),
		"input":     len(input),
	})
	log.Debug("sequence generated")

loop:
	for i, payload := range payloads {
		h.state = StateSending
		outcome := h.client.Send(payload)
		h.state = StateAwaiting
		result.LastOutcome = outcome
		commandsSent.Inc()

		switch outcome {
		case interfaces.OutcomeOK:
			result.Sent++
		case interfaces.OutcomeTimeout:
			log.WithField("index", i).Warn("read timed out, classifying as hang")
			result.Status = StatusHang
			break loop
		default:
			log.WithFields(logrus.Fields{
				"index":   i,
				"outcome": outcome.String(),
			}).Warn("connection lost beyond retry, classifying as crash")
			result.Status = StatusCrash
			break loop
		}
	}

	// Final liveness probe: all commands may have been acknowledged by a
	// server that died on the last one.
	if result.Status == StatusClean {
		switch h.client.Ping() {
		case interfaces.OutcomeOK:
		case interfaces.OutcomeTimeout:
			result.Status = StatusHang
		default:
			result.Status = StatusCrash
		}
	}

	h.state = StateDone
	result.Duration = time.Since(start)
	countStatus(result.Status)

	log.WithFields(logrus.Fields{
		"status":   result.Status.String(),
		"sent":     result.Sent,
		"duration": result.Duration,
	}).Info("iteration finished")
	h.state = StateIdle
	return result
}
