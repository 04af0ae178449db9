// Package userpoints writes waypoints as a Little Navmap userpoints CSV.
package userpoints

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
)

// Header is the userpoints column order.
var Header = []string{
	"Type",
	"Name",
	"Ident",
	"Latitude",
	"Longitude",
	"Elevation",
	"Magnetic Declination",
	"Tags",
	"Description",
	"Region",
	"Visible From",
	"Last Edit",
	"Import Filename",
}

// Writer implements pipeline.BatchLoader over a CSV stream. The header is
// written exactly once, before the first row or on Close for empty output.
type Writer struct {
	csv           *csv.Writer
	closer        io.Closer
	headerWritten bool
}

// NewWriter writes CSV to w. The caller owns w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Create truncates or creates the file at path. Close flushes and closes it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// LoadBatch appends one row per waypoint and flushes.
func (w *Writer) LoadBatch(_ context.Context, waypoints []domain.Waypoint) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	for i := range waypoints {
		if err := w.csv.Write(Row(waypoints[i])); err != nil {
			return fmt.Errorf("write userpoint %q: %w", waypoints[i].Name, err)
		}
	}
	return w.flush()
}

// Close writes the header if nothing was written yet, flushes, and closes
// the file opened by Create.
func (w *Writer) Close() error {
	err := w.writeHeader()
	if err == nil {
		err = w.flush()
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}
	return err
}

func (w *Writer) writeHeader() error {
	if w.headerWritten {
		return nil
	}
	if err := w.csv.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.headerWritten = true
	return nil
}

func (w *Writer) flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush userpoints: %w", err)
	}
	return nil
}

// Row formats a waypoint in Header order. Absent fields are empty.
func Row(wp domain.Waypoint) []string {
	return []string{
		wp.Type,
		wp.Name,
		wp.Ident,
		formatFloat(wp.Latitude),
		formatFloat(wp.Longitude),
		optionalFloat(wp.Elevation),
		optionalFloat(wp.MagneticDeclination),
		optionalString(wp.Tags),
		optionalString(wp.Description),
		optionalString(wp.Region),
		optionalInt(wp.VisibleFrom),
		optionalString(wp.LastEdit),
		optionalString(wp.ImportFilename),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
