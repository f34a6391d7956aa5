// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/beatdriver/bands"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t, 4)
	var buf bytes.Buffer
	if err := d.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv read: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want header + 4", len(records))
	}
	if !slices.Equal(records[0], Columns()) {
		t.Errorf("header = %v", records[0])
	}

	// frame 1: bass = (1+1)%4/4, onset_low_mid = (1+2)%3 == 0, pulse = 0.5
	row := records[2]
	if row[0] != "1" || row[1+int(bands.Bass)] != "0.5" {
		t.Errorf("frame 1 = %v", row)
	}
	if row[8+int(bands.LowMid)] != "1" || row[8+int(bands.SubBass)] != "0" {
		t.Errorf("frame 1 onsets = %v", row[8:15])
	}
	if row[15] != "0.5" || row[16] != "0.25" {
		t.Errorf("frame 1 pulse, loudness = %v, %v", row[15], row[16])
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t, 3)
	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if doc.Metadata != d.Metadata() {
		t.Errorf("metadata = %+v, want %+v", doc.Metadata, d.Metadata())
	}
	if !slices.Equal(doc.Frames, d.Rows()) {
		t.Errorf("frames = %+v", doc.Frames)
	}
	if !strings.Contains(buf.String(), `"onset_brilliance"`) {
		t.Error("json missing onset_brilliance key")
	}
}

func TestWriteParquet(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t, 300)
	var buf bytes.Buffer
	if err := d.WriteParquet(&buf); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}

	rows, err := ReadParquet(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadParquet() error = %v", err)
	}
	if !slices.Equal(rows, d.Rows()) {
		t.Errorf("read %d rows, not equal to the %d written", len(rows), d.Len())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := sampleDataset(t, 1).Write(io.Discard, Format(42)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Write() error = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		format Format
		comp   Compression
		err    error
	}{
		{"out.csv", FormatCSV, CompressionNone, nil},
		{"/tmp/a.b/Song.JSON", FormatJSON, CompressionNone, nil},
		{"x.parquet", FormatParquet, CompressionNone, nil},
		{"x.csv.gz", FormatCSV, CompressionGzip, nil},
		{"x.json.zst", FormatJSON, CompressionZstd, nil},
		{"x.csv.br", FormatCSV, CompressionBrotli, nil},
		{"x.csv.lz4", FormatCSV, CompressionLZ4, nil},
		{"x.parquet.sz", FormatParquet, CompressionSnappy, nil},
		{"x.txt", 0, 0, ErrUnknownFormat},
		{"x", 0, 0, ErrUnknownFormat},
		{"x.gz", 0, 0, ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			format, comp, err := Detect(tt.path)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Detect(%q) error = %v, want %v", tt.path, err, tt.err)
			}
			if err == nil && (format != tt.format || comp != tt.comp) {
				t.Errorf("Detect(%q) = %v, %v, want %v, %v", tt.path, format, comp, tt.format, tt.comp)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"csv", ".CSV", " json ", "parquet", "pq"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
	if FormatParquet.Ext() != ".parquet" {
		t.Errorf("Ext() = %q", FormatParquet.Ext())
	}
}

func TestCompressorRoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("frame,sub_bass,bass\n0,0.25,1\n"), 200)
	for _, c := range []Compression{
		CompressionNone, CompressionGzip, CompressionZstd,
		CompressionBrotli, CompressionLZ4, CompressionSnappy,
	} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w, err := NewCompressor(&buf, c)
			if err != nil {
				t.Fatalf("NewCompressor() error = %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			if c != CompressionNone && buf.Len() >= len(payload) {
				t.Errorf("%s did not compress: %d >= %d", c, buf.Len(), len(payload))
			}

			r, err := NewDecompressor(&buf, c)
			if err != nil {
				t.Fatalf("NewDecompressor() error = %v", err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip changed %d bytes into %d", len(payload), len(got))
			}
		})
	}

	if _, err := NewCompressor(io.Discard, Compression(99)); !errors.Is(err, ErrUnknownCompression) {
		t.Errorf("NewCompressor(99) error = %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t, 20)
	for _, name := range []string{"out.csv", "out.csv.gz", "out.json.zst", "out.csv.br", "out.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			if err := WriteFile(path, d); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			format, comp, _ := Detect(path)
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			r, err := NewDecompressor(f, comp)
			if err != nil {
				t.Fatal(err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}

			var want bytes.Buffer
			if err := d.Write(&want, format); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want.Bytes()) {
				t.Errorf("file content differs from direct %s encoding", format)
			}
		})
	}
}

func TestWriteFile_Parquet(t *testing.T) {
	t.Parallel()

	d := sampleDataset(t, 50)
	for _, name := range []string{"out.parquet", "out.parquet.sz"} {
		path := filepath.Join(t.TempDir(), name)
		if err := WriteFile(path, d); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
		rows, err := ReadParquetFile(path)
		if err != nil {
			t.Fatalf("ReadParquetFile(%s) error = %v", name, err)
		}
		if !slices.Equal(rows, d.Rows()) {
			t.Errorf("%s: rows differ", name)
		}
	}
}

func TestWriteFile_BadName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.xml")
	if err := WriteFile(path, sampleDataset(t, 2)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("WriteFile() error = %v, want %v", err, ErrUnknownFormat)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output file created for rejected name: %v", err)
	}
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "renders", "shot 01", "out.json")
	if err := WriteFile(path, sampleDataset(t, 3)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestWriteFile_Replaces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	d := sampleDataset(t, 3)
	if err := WriteFile(path, d); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var want bytes.Buffer
	if err := d.WriteCSV(&want); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Errorf("content = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only out.csv", len(entries))
	}
}

func TestWriteFile_FailureKeepsTarget(t *testing.T) {
	t.Parallel()

	// A directory in the way makes the final rename fail.
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := os.MkdirAll(filepath.Join(path, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, sampleDataset(t, 3)); err == nil {
		t.Fatal("WriteFile() over a directory succeeded")
	}
	if _, err := os.Stat(filepath.Join(path, "keep")); err != nil {
		t.Errorf("target touched: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func BenchmarkWriteCSV(b *testing.B) {
	d := sampleDataset(b, 60*60)

	b.ReportAllocs()
	for b.Loop() {
		if err := d.WriteCSV(io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}
