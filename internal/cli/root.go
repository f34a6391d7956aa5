// SPDX-License-Identifier: EPL-2.0

// Package cli implements the beatdriver command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/beatdriver/internal/logging"
)

type app struct {
	version string

	debug      bool
	logLevel   string
	configPath string

	logger *zap.Logger
}

// NewRootCommand assembles the command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "beatdriver",
		Short: "Extract per frame band energies, onsets and pulse from audio",
		Long: `beatdriver analyzes an audio file and writes one row per video frame
holding seven normalized band energies, per band onset flags, a cross band
pulse value and loudness, ready to be keyed onto an animation timeline.

Supported inputs: WAV, AIFF, FLAC, MP3 and Ogg Vorbis natively, anything
else through ffmpeg when --ffmpeg is given.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logging.Sync(a.logger) },
	}

	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Human readable debug logging")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "JSON configuration file")

	root.AddCommand(
		a.analyzeCommand(),
		a.batchCommand(),
		a.formatsCommand(),
		a.configCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	if a.debug && !cmd.Flags().Changed("log-level") {
		level = zap.DebugLevel
	}

	logger, err := logging.New(
		logging.WithLevel(level),
		logging.WithDevelopment(a.debug),
	)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// Execute runs the tool and returns the process exit code.
func Execute(ctx context.Context, version string) int {
	root := NewRootCommand(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	return 0
}
