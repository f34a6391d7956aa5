// SPDX-License-Identifier: EPL-2.0

// Package dataset assembles the per frame analysis results into an
// immutable Dataset and writes it as a table.
//
// One row is written per frame, in frame order, with the columns
//
//	frame, sub_bass ... brilliance, onset_sub_bass ... onset_brilliance, pulse, loudness
//
// CSV, JSON and Parquet are supported. WriteFile picks the format from the
// file extension and compresses the stream when the name ends in .gz, .zst,
// .br, .lz4 or .sz.
package dataset
