// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// Write encodes d to w in format f.
func (d *Dataset) Write(w io.Writer, f Format) error {
	switch f {
	case FormatCSV:
		return d.WriteCSV(w)
	case FormatJSON:
		return d.WriteJSON(w)
	case FormatParquet:
		return d.WriteParquet(w)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// WriteCSV writes a header row followed by one row per frame.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	record := make([]string, len(Columns()))
	for _, f := range d.frames {
		for i, v := range f.ToRow().values() {
			record[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv frame %d: %w", f.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonDocument struct {
	Metadata Metadata `json:"metadata"`
	Columns  []string `json:"columns"`
	Frames   []Row    `json:"frames"`
}

// WriteJSON writes a single document holding the metadata and every row.
func (d *Dataset) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	doc := jsonDocument{Metadata: d.meta, Columns: Columns(), Frames: d.Rows()}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteParquet writes the rows as a snappy compressed Parquet file.
func (d *Dataset) WriteParquet(w io.Writer) error {
	pw := parquet.NewGenericWriter[Row](w, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(d.Rows()); err != nil {
		_ = pw.Close()
		return fmt.Errorf("parquet write: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}

// ReadParquet decodes every row of a file written by WriteParquet.
func ReadParquet(r io.ReaderAt) ([]Row, error) {
	pr := parquet.NewGenericReader[Row](r)
	defer pr.Close()

	out := make([]Row, 0, pr.NumRows())
	buf := make([]Row, 256)
	for {
		n, err := pr.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("parquet read: %w", err)
		}
	}
}
