// Package skydemon streams Airfield records out of a SkyDemon XML export.
package skydemon

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	"golang.org/x/text/encoding/ianaindex"
)

const airfieldElement = "Airfield"

// ErrDecode wraps every failure to tokenize the source document.
var ErrDecode = errors.New("decode source document")

// Airfield attribute names.
const (
	attrName      = "Name"
	attrPosition  = "Position"
	attrElevation = "Elevation"
)

// Reader extracts Airfield elements at any depth of the document, in
// document order. It implements pipeline.BatchExtractor.
type Reader struct {
	dec    *xml.Decoder
	closer io.Closer
	logger *slog.Logger
	next   int
	done   bool
}

// NewReader reads a SkyDemon document from r. The caller owns r.
func NewReader(r io.Reader, logger *slog.Logger) *Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return &Reader{dec: dec, logger: logger}
}

// Open reads the SkyDemon document at path. Close releases the file.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	r := NewReader(f, logger)
	r.closer = f
	return r, nil
}

// ExtractBatch returns up to batchSize airfields. It returns io.EOF, with any
// final airfields, once the document has been fully read.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawAirfield, error) {
	if r.done {
		return nil, io.EOF
	}

	batch := make([]domain.RawAirfield, 0, batchSize)
	for len(batch) < batchSize {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			r.done = true
			r.logger.Debug("source document exhausted", "airfields", r.next)
			return batch, io.EOF
		}
		if err != nil {
			return batch, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != airfieldElement {
			continue
		}
		line, _ := r.dec.InputPos()
		batch = append(batch, airfieldFromElement(start, r.next, line))
		r.next++
	}
	return batch, nil
}

// Close releases the underlying file when the reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// charsetReader decodes documents that declare a non-UTF-8 encoding, such as
// windows-1250 exports.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported document encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func airfieldFromElement(start xml.StartElement, index, line int) domain.RawAirfield {
	raw := domain.RawAirfield{Index: index, Line: line}
	for _, attr := range start.Attr {
		if attr.Name.Space != "" {
			continue
		}
		switch attr.Name.Local {
		case attrName:
			raw.Name = attr.Value
		case attrPosition:
			raw.Position = attr.Value
		case attrElevation:
			v := attr.Value
			raw.Elevation = &v
		}
	}
	return raw
}
