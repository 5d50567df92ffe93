/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging setup for the RESP fuzzing harness. Thin configuration
layer over logrus: level and format from the harness configuration, output
pinned to stderr so log lines never interleave with anything the fuzzing
engine reads from stdout.
*/

package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Config holds the logging options exposed on the CLI.
type Config struct {
	Level string
	JSON  bool
}

// New builds a configured logrus logger.
func New(cfg Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return log, nil
}
