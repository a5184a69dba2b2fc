// Package export writes mapped records to output files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/guttosm/iosplus-extract/internal/mapper"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Exporter encodes records of one schema.
type Exporter interface {
	// Ext is the file extension, without the dot.
	Ext() string
	Write(w io.Writer, s *mapper.Schema, recs []mapper.Record) error
}

// New returns the exporter for format. Delimiter only applies to csv.
func New(format, delimiter string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return NewDelimited(delimiter), nil
	case FormatXLSX:
		return NewWorkbook(), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// WriteFile writes recs to path through a temporary file in the same
// directory that is renamed into place once complete.
//
// Parameters:
//   - e: encoder
//   - path: final file path; its directory must exist
//   - s, recs: schema and records to write
//
// Returns:
//   - error: encoding or filesystem error; no file is left at path
func WriteFile(e Exporter, path string, s *mapper.Schema, recs []mapper.Record) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = e.Write(tmp, s, recs); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
