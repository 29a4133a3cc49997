// Package annot reads and writes simple-seq annotation files: CSVs
// with one row per annotated segment and columns onset_s, offset_s,
// label.
package annot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"cmacbench/model"
)

// Header is the required column order of a simple-seq CSV.
var Header = []string{"onset_s", "offset_s", "label"}

// Read parses a simple-seq CSV file. A file with a header and no data
// rows parses to an empty annotation.
func Read(path string) (*model.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	defer f.Close()

	a, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("invalid annotation file %s: %w", path, err)
	}
	return a, nil
}

func parse(r io.Reader) (*model.Annotation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty, expected header %v", Header)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, want := range Header {
		if header[i] != want {
			return nil, fmt.Errorf("unexpected header %v, want %v", header, Header)
		}
	}

	a := &model.Annotation{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		onset, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad onset_s %q: %w", line, rec[0], err)
		}
		offset, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad offset_s %q: %w", line, rec[1], err)
		}
		a.Onsets = append(a.Onsets, onset)
		a.Offsets = append(a.Offsets, offset)
		a.Labels = append(a.Labels, rec[2])
	}
	return a, nil
}

// Write writes an annotation as a simple-seq CSV, header included.
func Write(path string, a *model.Annotation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create annotation file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range a.Onsets {
		rec := []string{
			strconv.FormatFloat(a.Onsets[i], 'f', -1, 64),
			strconv.FormatFloat(a.Offsets[i], 'f', -1, 64),
			a.Labels[i],
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush annotation file %s: %w", path, err)
	}
	return nil
}
