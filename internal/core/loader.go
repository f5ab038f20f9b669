package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Delimiter separates columns in the header and in every data line.
// Fields are split plainly: there is no quoting or escaping.
const Delimiter = ","

// NotFound is the column position of a recognized field that is absent from
// the header. It is distinct from position 0.
const NotFound = -1

// Recognized column names, matched case-insensitively against the header.
const (
	ColumnName    = "name"
	ColumnAge     = "age"
	ColumnCountry = "country"
)

// Columns holds the resolved position of each recognized field.
type Columns struct {
	Name    int
	Age     int
	Country int
}

// ResolveColumns locates the recognized fields in a header line. Each header
// cell is trimmed; the first case-insensitive match wins.
func ResolveColumns(header string) Columns {
	cells := splitFields(header)
	return Columns{
		Name:    indexOf(cells, ColumnName),
		Age:     indexOf(cells, ColumnAge),
		Country: indexOf(cells, ColumnCountry),
	}
}

// Record builds a UserRecord from already-split fields. A position that is
// NotFound or beyond the line's field count yields an empty string.
func (c Columns) Record(fields []string) UserRecord {
	return UserRecord{
		Name:    fieldAt(fields, c.Name),
		Age:     fieldAt(fields, c.Age),
		Country: fieldAt(fields, c.Country),
	}
}

// Parse reads a header line followed by data lines from r.
//
// Lines end at "\n", "\r\n" or a lone "\r" and may be of any length. Blank
// and whitespace-only data lines are skipped. Short or malformed lines never
// fail: missing fields become empty strings. An input with no lines at all
// yields an empty, non-nil slice. The only errors returned are read errors
// from r.
func Parse(r io.Reader) ([]UserRecord, error) {
	br := bufio.NewReader(r)

	records := []UserRecord{}

	header, ok, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !ok {
		return records, nil
	}
	cols := ResolveColumns(sanitizeLine(header))

	for {
		line, ok, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("read after %d records: %w", len(records), err)
		}
		if !ok {
			break
		}
		line = sanitizeLine(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, cols.Record(splitFields(line)))
	}

	return records, nil
}

// LoadFile reads user records from the CSV file at path.
//
// A missing file is not an error: the resolved absolute path is reported on
// the error log and an empty slice is returned, so callers treat "missing"
// and "empty" the same way. Other failures (permissions, read errors) are
// reported the same way.
func LoadFile(path string) []UserRecord {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Error("could not read CSV", "path", abs)
		} else {
			slog.Error("could not read CSV", "path", abs, "error", err)
		}
		return []UserRecord{}
	}
	defer f.Close()

	in := WrapInput(f)
	records, err := Parse(in)
	if err != nil {
		slog.Error("could not read CSV", "path", abs, "error", err)
		return []UserRecord{}
	}

	slog.Debug("csv loaded", "path", abs, "records", len(records), "bytes", in.BytesRead)
	return records
}

// readLine returns the next line without its terminator. The bool is false
// once the input is exhausted.
func readLine(r *bufio.Reader) (string, bool, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			return b.String(), b.Len() > 0, nil
		case err != nil:
			return "", false, err
		case c == '\n':
			return b.String(), true, nil
		case c == '\r':
			// CRLF counts as one terminator.
			if next, err := r.Peek(1); err == nil && next[0] == '\n' {
				r.Discard(1)
			}
			return b.String(), true, nil
		default:
			b.WriteByte(c)
		}
	}
}

// splitFields splits a line on Delimiter and trims every field.
func splitFields(line string) []string {
	fields := strings.Split(line, Delimiter)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func indexOf(cells []string, name string) int {
	for i, c := range cells {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return NotFound
}

func fieldAt(fields []string, pos int) string {
	if pos < 0 || pos >= len(fields) {
		return ""
	}
	return fields[pos]
}
