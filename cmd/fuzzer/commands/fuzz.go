/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fuzz.go
Description: Fuzz command for the RESP fuzzing harness. Runs exactly one
iteration: reads the fuzzer-supplied input from a file argument or stdin,
drives the harness loop against the live target, and translates the
classified outcome into the process exit contract the fuzzing engine
triages on (exit 0 clean, exit 124 hang, SIGABRT crash).
*/

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/dict"
	"github.com/kleascm/resp-fuzzer/pkg/harness"
	"github.com/kleascm/resp-fuzzer/pkg/transport"
)

const (
	// exitHang follows the GNU timeout convention the engine maps to
	// its own timeout bucket.
	exitHang = 124
	// exitCrash is the fallback when raising SIGABRT somehow returns.
	exitCrash = 134
)

// NewFuzzCommand builds the fuzz subcommand.
func NewFuzzCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fuzz [input-file]",
		Short: "Run one fuzz iteration against the target",
		Long: `Runs a single generate-send-classify cycle. The input byte sequence is
read from the given file (AFL++ @@ substitution) or from stdin when no file
is given. The process exit status reports the outcome to the engine.`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunFuzz,
	}
}

// RunFuzz executes one harness iteration.
func RunFuzz(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	cfg := createHarnessConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cat := catalog.New()
	warnUnknownFocus(log, cfg, cat)

	store, err := dict.Load(cfg.DictPath, cat)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	client := transport.NewClient(cfg, log)
	defer client.Close()

	h, err := harness.New(cfg, cat, store, client, log)
	if err != nil {
		return fmt.Errorf("failed to build harness: %w", err)
	}

	log.WithFields(logrus.Fields{
		"target":     cfg.Addr(),
		"catalog":    cat.Size(),
		"candidates": len(h.Builder().Candidates()),
		"focus":      h.Builder().Focus(),
		"dictionary": store.Size(),
	}).Debug("harness initialized")

	input, err := readInput(args)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	result := h.Run(input)

	if log.IsLevelEnabled(logrus.DebugLevel) {
		var stats bytes.Buffer
		harness.WriteStats(&stats)
		log.Debug(stats.String())
	}

	switch result.Status {
	case harness.StatusClean:
		return nil
	case harness.StatusHang:
		os.Exit(exitHang)
	case harness.StatusCrash:
		// Raise a fault signal so the engine files this input as a
		// crash rather than a plain non-zero exit.
		syscall.Kill(os.Getpid(), syscall.SIGABRT)
		os.Exit(exitCrash)
	}
	return nil
}

// readInput reads the iteration input from the file argument or stdin.
func readInput(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}
