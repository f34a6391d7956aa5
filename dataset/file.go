// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes d to path. The format and compression come from the file
// name, see Detect. Missing parent directories are created. The table is
// written to a temporary file next to path and renamed into place, so a
// failed write leaves any previous file at path untouched.
func WriteFile(path string, d *Dataset) (err error) {
	format, comp, err := Detect(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	cw, err := NewCompressor(bw, comp)
	if err != nil {
		return err
	}
	if err := d.Write(cw, format); err != nil {
		return errors.Join(err, cw.Close())
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("%s close: %w", comp, err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadParquetFile reads back a Parquet output, compressed or not.
func ReadParquetFile(path string) ([]Row, error) {
	format, comp, err := Detect(path)
	if err != nil {
		return nil, err
	}
	if format != FormatParquet {
		return nil, fmt.Errorf("%w: %s is not parquet", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if comp == CompressionNone {
		return ReadParquet(f)
	}

	r, err := NewDecompressor(bufio.NewReader(f), comp)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", comp, err)
	}
	return ReadParquet(bytes.NewReader(data))
}
