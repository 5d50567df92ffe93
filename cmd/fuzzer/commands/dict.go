/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dict.go
Description: Dict command for the RESP fuzzing harness. Writes the AFL++
dictionary artifact shared between the harness's dictionary store and the
fuzzing engine's mutation strategy.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kleascm/resp-fuzzer/pkg/catalog"
	"github.com/kleascm/resp-fuzzer/pkg/dict"
)

// NewDictCommand builds the dict subcommand.
func NewDictCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Generate the AFL++ dictionary artifact",
		Long: `Writes the dictionary file consumed both by this harness (literal token
pool) and by AFL++ itself (-x). Contains every non-excluded command token,
boundary numerics, protocol special characters, and escape sequences.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDict(output)
		},
	}
	cmd.Flags().StringVar(&output, "output", "redis.dict", "Dictionary output file")
	return cmd
}

func runDict(output string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	cfg := createHarnessConfig()
	cat := catalog.New()

	if err := dict.Write(output, cat, cfg.ExcludeSet()); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	log.WithField("output", output).Info("dictionary written")
	return nil
}
