package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"callscribe/internal/services"
)

const byteOrderMark = "\ufeff"

// Table is a header row plus data rows. Every row has exactly len(Header)
// cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ReadTable loads a CSV file. An empty charset name means UTF-8; any other
// name is resolved with the WHATWG encoding index (e.g. "windows-1254").
func ReadTable(path, charset string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "records", "open input", path, err)
	}
	defer f.Close()

	src, err := decodingReader(f, charset)
	if err != nil {
		return nil, err
	}
	return parseTable(src, path)
}

func decodingReader(r io.Reader, charset string) (io.Reader, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "records", "resolve encoding", charset, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func parseTable(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrSchema, "records", "read header", name+" has no header row", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrSchema, "records", "read header", name, err)
	}
	header[0] = strings.TrimPrefix(header[0], byteOrderMark)

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrSchema, "records", "read row", name, err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			msg := fmt.Sprintf("%s line %d: expected %d fields, saw %d", name, line, len(header), len(record))
			return nil, services.Wrap(services.ErrSchema, "records", "read row", msg, nil)
		}
		table.Rows = append(table.Rows, padRow(record, len(header)))
	}
	return table, nil
}

func padRow(record []string, width int) []string {
	if len(record) >= width {
		return record
	}
	row := make([]string, width)
	copy(row, record)
	return row
}
