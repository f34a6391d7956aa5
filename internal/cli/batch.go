// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/ik5/beatdriver"
	"github.com/ik5/beatdriver/dataset"
)

var ErrBatchFailed = errors.New("some files failed")

// batchOutputs names the table of every input after its base name. Inputs
// sharing a base name get a numbered suffix so no two jobs write the same
// file: a/song.wav and b/song.wav become song.csv and song-1.csv.
func batchOutputs(inputs []string, ext string) []string {
	out := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))

	for i, input := range inputs {
		name := defaultOutput(input, ext)
		stem := strings.TrimSuffix(name, ext)
		for n := 1; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func (a *app) batchCommand() *cobra.Command {
	var (
		flags    analysisFlags
		outDir   string
		format   string
		workers  int
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "batch <audio file>...",
		Short: "Analyze several files into an output directory",
		Long: `Analyze every given file and write one table per input into --out-dir.

--format is the output extension without the leading dot, for example csv,
json.gz or parquet. Inputs with the same base name get a numbered suffix,
song.csv then song-1.csv. A failing file is reported and skipped; the
command fails at the end if any file failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolve(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			ext := "." + strings.TrimPrefix(format, ".")
			if _, _, err := dataset.Detect("x" + ext); err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			var p *mpb.Progress
			var bar *mpb.Bar
			if progress {
				p = mpb.NewWithContext(cmd.Context(), mpb.WithWidth(64), mpb.WithOutput(cmd.ErrOrStderr()))
				bar = p.AddBar(int64(len(args)),
					mpb.PrependDecorators(
						decor.Name("Analyzing: "),
						decor.CountersNoUnit("%d / %d"),
					),
					mpb.AppendDecorators(
						decor.Percentage(),
						decor.EwmaETA(decor.ET_STYLE_GO, 30),
					),
				)
			}

			type job struct {
				input, output string
			}
			type result struct {
				job
				err error
			}

			jobs := make(chan job)
			results := make(chan result)

			var wg sync.WaitGroup
			for range max(workers, 1) {
				wg.Go(func() {
					for j := range jobs {
						d, err := beatdriver.AnalyzeFile(cmd.Context(), j.input, cfg, beatdriver.WithLogger(a.logger))
						if err == nil {
							err = dataset.WriteFile(j.output, d)
						}
						results <- result{job: j, err: err}
					}
				})
			}

			go func() {
				defer close(jobs)
				for i, name := range batchOutputs(args, ext) {
					select {
					case jobs <- job{input: args[i], output: filepath.Join(outDir, name)}:
					case <-cmd.Context().Done():
						return
					}
				}
			}()
			go func() {
				wg.Wait()
				close(results)
			}()

			var failed []string
			done := 0
			for r := range results {
				if bar != nil {
					bar.Increment()
				}
				done++
				if r.err != nil {
					failed = append(failed, r.input)
					a.logger.Error("analysis failed", zap.String("path", r.input), zap.Error(r.err))
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.input, r.err)
					continue
				}
				a.logger.Info("table written", zap.String("path", r.input), zap.String("output", r.output))
			}
			if bar != nil {
				if done < len(args) {
					bar.Abort(false)
				}
				p.Wait()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d files analyzed into %s\n", done-len(failed), len(args), outDir)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if len(failed) > 0 {
				return fmt.Errorf("%w: %s", ErrBatchFailed, strings.Join(failed, ", "))
			}
			return nil
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "Directory for the output tables")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output extension: csv, json or parquet, optionally .gz, .zst, .br, .lz4 or .sz")
	cmd.Flags().IntVar(&workers, "jobs", 2, "Files analyzed at the same time")
	cmd.Flags().BoolVar(&progress, "progress", true, "Show a progress bar on stderr")
	return cmd
}
