// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/beatdriver"
	"github.com/ik5/beatdriver/bands"
	"github.com/ik5/beatdriver/dataset"
	"github.com/ik5/beatdriver/formats/wav"
)

// defaultOutput names the table after the input: "music/song.mp3" becomes
// "song.csv" in the working directory.
func defaultOutput(input, ext string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func (a *app) analyzeCommand() *cobra.Command {
	var (
		flags    analysisFlags
		output   string
		dumpMono string
	)

	cmd := &cobra.Command{
		Use:   "analyze <audio file>",
		Short: "Analyze one audio file",
		Long: `Analyze one audio file and write the per frame table.

The output format follows the extension of --output: .csv, .json or .parquet,
optionally followed by .gz, .zst, .br, .lz4 or .sz for compression. Without
--output the table is written as <input name>.csv in the working directory.`,
		Example: `  beatdriver analyze song.mp3
  beatdriver analyze -r 24 -o song.parquet song.flac
  beatdriver analyze --bands 20-60,60-250,250-500,500-2000,2000-4000,4000-6000,6000-16000 song.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolve(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			input := args[0]
			if output == "" {
				output = defaultOutput(input, dataset.FormatCSV.Ext())
			}
			if _, _, err := dataset.Detect(output); err != nil {
				return err
			}

			ctx := cmd.Context()
			log := beatdriver.WithLogger(a.logger)

			buf, err := beatdriver.LoadFile(ctx, input, cfg, log)
			if err != nil {
				return err
			}
			if dumpMono != "" {
				if err := writeMono(dumpMono, buf.SampleRate(), buf.Float32()); err != nil {
					return err
				}
				a.logger.Info("mono buffer written", zap.String("path", dumpMono))
			}

			d, err := beatdriver.AnalyzeBuffer(ctx, buf, cfg, log, beatdriver.WithSource(input))
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			if err := dataset.WriteFile(output, d); err != nil {
				return err
			}

			printSummary(cmd, input, output, d)
			return nil
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output table (.csv, .json or .parquet, optionally compressed)")
	cmd.Flags().StringVar(&dumpMono, "dump-mono", "", "Also write the analyzed mono signal as a 16-bit WAV")
	return cmd
}

func writeMono(path string, rate int, samples []float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return wav.WriteMono(f, rate, samples)
}

func printSummary(cmd *cobra.Command, input, output string, d *dataset.Dataset) {
	meta := d.Metadata()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s -> %s\n", input, output)
	fmt.Fprintf(out, "  duration: %.3fs at %d Hz, %d frames at %g fps\n",
		meta.Duration, meta.SampleRate, d.Len(), meta.FrameRate)
	for _, b := range bands.All {
		fmt.Fprintf(out, "  %-10s onsets: %d\n", b, d.OnsetCount(b))
	}
}
