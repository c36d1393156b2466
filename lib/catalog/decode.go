package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"kdb-scraper/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var tracer = telemetry.Tracer("kdb.lib.catalog")

// columnMap holds the position of every known column in the export's header.
type columnMap struct {
	width   int
	indexes []int
}

func newColumnMap(header []string) (columnMap, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		// the export repeats some headers, the first occurrence wins
		if _, seen := positions[name]; seen {
			continue
		}
		positions[name] = i
	}

	m := columnMap{
		width:   len(header),
		indexes: make([]int, len(columns)),
	}
	for i, c := range columns {
		idx, ok := positions[c.header]
		if !ok {
			if c.required {
				return columnMap{}, &ParseError{Line: 1, Column: c.header, Err: ErrMissingColumn}
			}
			idx = -1
		}
		m.indexes[i] = idx
	}
	return m, nil
}

// mapRow projects a row onto a Record, columns not in the header are left
// empty and columns unknown to Record are ignored.
func (m columnMap) mapRow(line int, row []string) (Record, error) {
	if len(row) != m.width {
		return Record{}, &ParseError{Line: line, Err: ErrFieldCount}
	}

	var record Record
	for i, c := range columns {
		idx := m.indexes[i]
		if idx < 0 {
			continue
		}
		c.set(&record, row[idx])
	}
	if record.Code == "" {
		return Record{}, &ParseError{Line: line, Column: columns[0].header, Err: ErrEmptyCode}
	}
	return record, nil
}

func trimFields(row []string) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
}

func newCsvReader(r io.Reader) *csv.Reader {
	// the decoder replaces invalid byte sequences with U+FFFD instead of failing
	utf8Reader := transform.NewReader(r, japanese.ShiftJIS.NewDecoder())

	reader := csv.NewReader(utf8Reader)
	reader.Comma = ','
	// field counts are checked against the header in mapRow
	reader.FieldsPerRecord = -1
	return reader
}

func wrapCsvError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.StartLine, Err: csvErr.Err}
	}
	return err
}

// Decode reads a Shift_JIS encoded catalog export and returns its records in
// file order. any malformed row aborts the whole decode.
func Decode(ctx context.Context, r io.Reader) ([]Record, error) {
	_, span := tracer.Start(ctx, "Decode")
	defer span.End()

	reader := newCsvReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		err = &ParseError{Line: 1, Err: ErrMissingHeader}
	}
	if err != nil {
		err = wrapCsvError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read header")
		return nil, err
	}
	trimFields(header)

	cols, err := newColumnMap(header)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid header")
		return nil, err
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			err = wrapCsvError(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read row")
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		trimFields(row)

		record, err := cols.mapRow(line, row)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid row")
			return nil, err
		}
		records = append(records, record)
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

// DecodeFile decodes the catalog export stored at path.
func DecodeFile(ctx context.Context, path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return Decode(ctx, f)
}
