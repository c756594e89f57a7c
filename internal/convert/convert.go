// Package convert turns tabular word lists into the JSON data file format.
package convert

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("input has no header row")

// Table is a header row plus data rows, each padded to the header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTSV reads tab-separated rows. The first non-blank row is the header.
func ReadTSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var raw [][]string
	var lines []int
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read tsv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		raw = append(raw, record)
		lines = append(lines, line)
	}
	return buildTable(raw, lines)
}

// ReadXLSX reads rows from the named sheet, or the first sheet when sheet is empty.
func ReadXLSX(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return buildTable(rows, lines)
}

func buildTable(raw [][]string, lines []int) (Table, error) {
	var table Table
	for i, record := range raw {
		if blankRow(record) {
			continue
		}
		if table.Header == nil {
			header, err := headerRow(record)
			if err != nil {
				return Table{}, fmt.Errorf("line %d: %w", lines[i], err)
			}
			table.Header = header
			continue
		}
		row, err := fitRow(record, len(table.Header))
		if err != nil {
			return Table{}, fmt.Errorf("line %d: %w", lines[i], err)
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Header == nil {
		return Table{}, ErrNoHeader
	}
	return table, nil
}

func headerRow(record []string) ([]string, error) {
	header := make([]string, len(record))
	seen := make(map[string]struct{}, len(record))
	for i, cell := range record {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("header column %q repeats", name)
		}
		seen[name] = struct{}{}
		header[i] = name
	}
	return header, nil
}

func fitRow(record []string, width int) ([]string, error) {
	if len(record) > width {
		for _, extra := range record[width:] {
			if strings.TrimSpace(extra) != "" {
				return nil, fmt.Errorf("row has %d cells, header has %d", len(record), width)
			}
		}
		record = record[:width]
	}
	row := make([]string, width)
	copy(row, record)
	return row, nil
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}

type object struct {
	keys   []string
	values []string
}

// MarshalJSON keeps the header's column order.
func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, o.values[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// WriteJSON writes the table as an array of objects keyed by header.
func WriteJSON(w io.Writer, table Table) error {
	objects := make([]object, 0, len(table.Rows))
	for _, row := range table.Rows {
		objects = append(objects, object{keys: table.Header, values: row})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(objects)
}

// DefaultOutputPath replaces the input extension with .json.
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
}

// File converts input to JSON at output and returns the number of rows written.
// Inputs ending in .xlsx are read as workbooks, anything else as TSV.
func File(input, output, sheet string) (int, error) {
	if output == "" {
		output = DefaultOutputPath(input)
	}
	if sameFile(input, output) {
		return 0, fmt.Errorf("output %s would overwrite the input", output)
	}

	table, err := readInput(input, sheet)
	if err != nil {
		return 0, err
	}
	if err := writeFile(output, table); err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}

func readInput(input, sheet string) (Table, error) {
	if strings.EqualFold(filepath.Ext(input), ".xlsx") {
		return ReadXLSX(input, sheet)
	}
	f, err := os.Open(input)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	return ReadTSV(f)
}

func writeFile(path string, table Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "convert-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	writer := bufio.NewWriter(tmpFile)
	if err := WriteJSON(writer, table); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
