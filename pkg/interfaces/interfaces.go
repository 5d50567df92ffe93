/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared types for the RESP fuzzing harness. Defines the command
catalog data model, generated command representation, transport outcomes, and
the immutable harness configuration threaded through every component.
*/

package interfaces

import (
	"fmt"
	"time"
)

// Shape is the preferred value shape of a command argument slot.
// The value generator has a single dispatch point over these.
type Shape int

const (
	// ShapeKey is a key-like string ("key:xxxx").
	ShapeKey Shape = iota
	// ShapeValue is an opaque value: plain, escape-laced, or raw binary.
	ShapeValue
	// ShapeNumeric is an integer literal, boundary values included.
	ShapeNumeric
	// ShapeFloat is a floating point literal, inf/nan included.
	ShapeFloat
	// ShapeFlag is a fixed keyword chosen from the slot's token list.
	ShapeFlag
	// ShapePattern is a glob-style match pattern.
	ShapePattern
	// ShapeJSON is a depth-bounded structured JSON blob.
	ShapeJSON
	// ShapeVector is a vector literal "[f,f,...]".
	ShapeVector
	// ShapeScore is a sorted-set score (small float).
	ShapeScore
	// ShapeStreamID is a stream entry ID ("123-456", "*").
	ShapeStreamID
)

// Slot describes one argument position of a command.
type Slot struct {
	Shape    Shape
	Tokens   []string // keyword choices for ShapeFlag slots
	Variadic bool     // slot may repeat, repeat count decision-bounded
}

// CommandSpec is the immutable shape of one catalog command.
// Args are required in order; Optional slots are gated per-slot in order.
type CommandSpec struct {
	Name     string
	Args     []Slot
	Optional []Slot
}

// MinArgs returns the minimum argument count a generated command may carry.
func (s *CommandSpec) MinArgs() int {
	return len(s.Args)
}

// Command is one generated command with its owned argument bytes.
// Transient: owned by the sequence builder until encoded.
type Command struct {
	Name string
	Args [][]byte
}

// Outcome classifies one transport send.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRefused
	OutcomeReset
	OutcomeTimeout
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRefused:
		return "refused"
	case OutcomeReset:
		return "reset"
	case OutcomeTimeout:
		return "timeout"
	}
	return "unknown"
}

// DefaultExcludeCommands are never generated unless overridden.
func DefaultExcludeCommands() []string {
	return []string{"SHUTDOWN", "FLUSHDB", "FLUSHALL"}
}

// HarnessConfig is the full configuration for one harness process.
// Built once at startup from flags/environment, validated, then treated as
// read-only; it is passed explicitly to every component that needs it.
type HarnessConfig struct {
	Host string
	Port int

	// Generation policy.
	MaxCommands     int
	DictMixRatio    float64
	DictPath        string
	FocusCommands   []string
	ExcludeCommands []string

	// Transport budgets. These are shorter than the fuzzing engine's outer
	// wall-clock timeout so a stuck read is classified before the engine
	// kills the process.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxDrainBytes  int
}

// Addr returns the target address in host:port form.
func (c *HarnessConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExcludeSet returns the exclusion list as a set for membership tests.
func (c *HarnessConfig) ExcludeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExcludeCommands))
	for _, name := range c.ExcludeCommands {
		set[name] = struct{}{}
	}
	return set
}

// Validate checks the configuration for startup-time fatal errors.
func (c *HarnessConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("target host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("target port out of range: %d", c.Port)
	}
	if c.MaxCommands < 1 {
		return fmt.Errorf("max_commands must be >= 1, got %d", c.MaxCommands)
	}
	if c.DictMixRatio < 0 || c.DictMixRatio > 1 {
		return fmt.Errorf("dict_mix_ratio must be in [0,1], got %f", c.DictMixRatio)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}
	if c.MaxDrainBytes <= 0 {
		return fmt.Errorf("max_drain_bytes must be positive")
	}
	return nil
}
