package trainingset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Row is one CSV record keyed by header column name. Missing trailing
// columns read as empty strings.
type Row map[string]string

// NamedReader pairs an input stream with the name used in error reporting.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// InputParseError reports that one tabular input could not be parsed. The
// offending source is skipped; the remaining sources are still processed.
type InputParseError struct {
	Source string
	Err    error
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("error reading file %s: %v", e.Source, e.Err)
}

func (e *InputParseError) Unwrap() error { return e.Err }

// ExtractRows parses every input as headered CSV and accumulates rows in
// source order, keeping concatenation order across inputs. A malformed input
// yields an InputParseError for that source and does not abort the others.
func ExtractRows(inputs []NamedReader) ([]Row, []error) {
	var rows []Row
	var errs []error

	for _, input := range inputs {
		parsed, err := readRows(input.Reader)
		if err != nil {
			errs = append(errs, &InputParseError{Source: input.Name, Err: err})
			continue
		}
		rows = append(rows, parsed...)
	}
	return rows, errs
}

func readRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
