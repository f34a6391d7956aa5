// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a tabular output encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext is the file extension for f, including the dot.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "parquet", "pq":
		return FormatParquet, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Compression is a stream compression applied around the encoded table.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionBrotli
	CompressionLZ4
	CompressionSnappy
)

var compressionExt = map[string]Compression{
	".gz":  CompressionGzip,
	".zst": CompressionZstd,
	".br":  CompressionBrotli,
	".lz4": CompressionLZ4,
	".sz":  CompressionSnappy,
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionBrotli:
		return "brotli"
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// Detect derives the format and compression from a file name such as
// "song.csv.zst". Names without a known table extension are rejected.
func Detect(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))
	comp := CompressionNone
	if c, ok := compressionExt[filepath.Ext(name)]; ok {
		comp = c
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	ext := filepath.Ext(name)
	if ext == "" {
		return 0, 0, fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return 0, 0, err
	}
	return f, comp, nil
}
