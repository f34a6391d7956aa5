// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/beatdriver/formats"
	"github.com/ik5/beatdriver/formats/ffmpeg"
)

func (a *app) formatsCommand() *cobra.Command {
	var ffmpegPath string

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported input formats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "native: %s\n", strings.Join(formats.NewRegistry().Formats(), ", "))

			dec := ffmpeg.Decoder{FFmpegPath: ffmpegPath}
			if dec.Available() {
				fmt.Fprintln(out, "ffmpeg: available, any format it can decode is accepted with --ffmpeg")
			} else {
				fmt.Fprintln(out, "ffmpeg: not found")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "ffmpeg binary to look for")
	return cmd
}

func (a *app) configCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Long: `Print the configuration that analyze would use, after applying --config
and any analysis flag. The output can be saved and passed back with --config.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.resolve(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "beatdriver %s (%s %s/%s)\n",
				a.version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
