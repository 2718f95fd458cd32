package records

import (
	"fmt"
	"strings"

	"callscribe/internal/config"
	"callscribe/internal/services"
)

// Layout names how transcripts are located in an input table.
type Layout string

const (
	// LayoutColumns reads the transcript from a fixed column index.
	LayoutColumns Layout = "columns"
	// LayoutCommaSplit splits the first column on commas into six parts;
	// the sixth part is the transcript.
	LayoutCommaSplit Layout = "comma-split"
)

const (
	// SummaryColumn is the header appended by the summary stage.
	SummaryColumn = "summary"

	commaSplitParts = 6
)

// TopicColumns are the headers appended by the classification stage.
var TopicColumns = []string{
	"sub_category_1", "main_category_1",
	"sub_category_2", "main_category_2",
	"sub_category_3", "main_category_3",
}

// Options selects layout and column positions. Column indexes are 0-based.
type Options struct {
	Layout           Layout
	TranscriptColumn int
	SummaryColumn    int
	KeepColumns      int
}

// OptionsFromConfig maps the [input] config section.
func OptionsFromConfig(cfg config.Input) Options {
	return Options{
		Layout:           Layout(cfg.Layout),
		TranscriptColumn: cfg.TranscriptColumn,
		SummaryColumn:    cfg.SummaryColumn,
		KeepColumns:      cfg.KeepColumns,
	}
}

// Frame pairs the columns carried through to output with the per-row text a
// stage works on.
type Frame struct {
	Header []string
	Base   [][]string
	Texts  []string
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Texts)
}

// SummaryFrame extracts transcripts and the columns kept ahead of the
// summary column.
func SummaryFrame(table *Table, opts Options) (*Frame, error) {
	switch opts.Layout {
	case LayoutCommaSplit:
		return commaSplitFrame(table)
	case LayoutColumns, "":
		return columnsFrame(table, opts)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "records", "summary frame", fmt.Sprintf("unknown layout %q", opts.Layout), nil)
	}
}

func columnsFrame(table *Table, opts Options) (*Frame, error) {
	if err := requireColumn(table, opts.TranscriptColumn, "transcript"); err != nil {
		return nil, err
	}
	keep := len(table.Header)
	if opts.KeepColumns > 0 && opts.KeepColumns < keep {
		keep = opts.KeepColumns
	}
	frame := &Frame{
		Header: cloneRow(table.Header[:keep]),
		Base:   make([][]string, len(table.Rows)),
		Texts:  make([]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		frame.Base[i] = cloneRow(row[:keep])
		frame.Texts[i] = row[opts.TranscriptColumn]
	}
	return frame, nil
}

func commaSplitFrame(table *Table) (*Frame, error) {
	if len(table.Header) == 0 {
		return nil, services.Wrap(services.ErrSchema, "records", "comma split", "input has no columns", nil)
	}
	header := make([]string, commaSplitParts)
	for i := range header {
		header[i] = fmt.Sprintf("col%d", i+1)
	}
	frame := &Frame{
		Header: header,
		Base:   make([][]string, len(table.Rows)),
		Texts:  make([]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		parts := SplitCommaRecord(row[0])
		frame.Base[i] = parts
		frame.Texts[i] = parts[commaSplitParts-1]
	}
	return frame, nil
}

// SplitCommaRecord splits s on commas, trims each part and pads or truncates
// the result to six parts.
func SplitCommaRecord(s string) []string {
	parts := make([]string, commaSplitParts)
	for i, part := range strings.Split(s, ",") {
		if i >= commaSplitParts {
			break
		}
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// ClassifyFrame carries every input column through and reads the summary
// text from the configured summary column.
func ClassifyFrame(table *Table, opts Options) (*Frame, error) {
	if err := requireColumn(table, opts.SummaryColumn, "summary"); err != nil {
		return nil, err
	}
	frame := &Frame{
		Header: cloneRow(table.Header),
		Base:   make([][]string, len(table.Rows)),
		Texts:  make([]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		frame.Base[i] = cloneRow(row)
		frame.Texts[i] = row[opts.SummaryColumn]
	}
	return frame, nil
}

// Extend builds an output table from the frame's base columns followed by
// extra columns. cells is called once per row and must return len(extra)
// values.
func (f *Frame) Extend(extra []string, cells func(i int) []string) *Table {
	header := make([]string, 0, len(f.Header)+len(extra))
	header = append(header, f.Header...)
	header = append(header, extra...)

	out := &Table{Header: header, Rows: make([][]string, len(f.Base))}
	for i, base := range f.Base {
		row := make([]string, 0, len(header))
		row = append(row, base...)
		row = append(row, cells(i)...)
		out.Rows[i] = padRow(row, len(header))
	}
	return out
}

func requireColumn(table *Table, index int, role string) error {
	if index < 0 || index >= len(table.Header) {
		msg := fmt.Sprintf("%s column %d missing: input has %d columns", role, index, len(table.Header))
		return services.Wrap(services.ErrSchema, "records", "locate column", msg, nil)
	}
	return nil
}

func cloneRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
