/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for the RESP fuzzing harness. Wires the
cobra command tree and binds every flag into viper so each option can also
come from the RESPFUZZ_* environment, which is how the fuzzing engine's
wrapper scripts configure the harness.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/resp-fuzzer/cmd/fuzzer/commands"
)

var (
	// Target configuration
	host string
	port int

	// Generation configuration
	maxCommands     int
	dictPath        string
	dictMixRatio    float64
	focusCommands   []string
	excludeCommands []string

	// Transport configuration
	connectTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	maxDrainBytes  int

	// Logging configuration
	logLevel string
	jsonLogs bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "resp-fuzzer",
		Short: "RESP fuzzing harness for key-value servers",
		Long: `resp-fuzzer is the execution harness behind an AFL++ fuzzing campaign
against RESP-speaking key-value servers. Each invocation deterministically
expands one fuzzer-supplied input into a bounded sequence of valid protocol
commands, sends them to the live target, and reports clean, hang, or crash
through its exit status.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "127.0.0.1", "Target host")
	rootCmd.PersistentFlags().IntVar(&port, "port", 6379, "Target port")
	rootCmd.PersistentFlags().IntVar(&maxCommands, "max-commands", 20, "Maximum commands per iteration")
	rootCmd.PersistentFlags().StringVar(&dictPath, "dict", "", "Dictionary artifact path")
	rootCmd.PersistentFlags().Float64Var(&dictMixRatio, "dict-mix-ratio", 0.9, "Probability of sourcing a value from the dictionary")
	rootCmd.PersistentFlags().StringSliceVar(&focusCommands, "focus", nil, "Focus commands drawn with elevated probability")
	rootCmd.PersistentFlags().StringSliceVar(&excludeCommands, "exclude", []string{"SHUTDOWN", "FLUSHDB", "FLUSHALL"}, "Commands never generated")
	rootCmd.PersistentFlags().DurationVar(&connectTimeout, "connect-timeout", 2*time.Second, "TCP connect timeout")
	rootCmd.PersistentFlags().DurationVar(&readTimeout, "read-timeout", 2*time.Second, "Per-response read timeout")
	rootCmd.PersistentFlags().DurationVar(&writeTimeout, "write-timeout", 2*time.Second, "Per-command write timeout")
	rootCmd.PersistentFlags().IntVar(&maxDrainBytes, "max-drain-bytes", 4096, "Response bytes drained per command")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("max_commands", rootCmd.PersistentFlags().Lookup("max-commands"))
	viper.BindPFlag("dict", rootCmd.PersistentFlags().Lookup("dict"))
	viper.BindPFlag("dict_mix_ratio", rootCmd.PersistentFlags().Lookup("dict-mix-ratio"))
	viper.BindPFlag("focus", rootCmd.PersistentFlags().Lookup("focus"))
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	viper.BindPFlag("connect_timeout", rootCmd.PersistentFlags().Lookup("connect-timeout"))
	viper.BindPFlag("read_timeout", rootCmd.PersistentFlags().Lookup("read-timeout"))
	viper.BindPFlag("write_timeout", rootCmd.PersistentFlags().Lookup("write-timeout"))
	viper.BindPFlag("max_drain_bytes", rootCmd.PersistentFlags().Lookup("max-drain-bytes"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))

	rootCmd.AddCommand(commands.NewFuzzCommand())
	rootCmd.AddCommand(commands.NewDictCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
