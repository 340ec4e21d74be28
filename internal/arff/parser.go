package arff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	attributeMarker = "@attribute"
	dataMarker      = "@data"
	fieldDelimiter  = ","
	minDataFields   = 3
	maxLineBytes    = 16 << 20
)

// ErrMissingDataSection reports an export whose declarations never reach @data.
var ErrMissingDataSection = errors.New("missing @data section")

var reservedColumns = []string{"name", "class"}

type parseState int

const (
	stateDeclaring parseState = iota
	stateData
)

type parser struct {
	state parseState
	table *Table
}

// Parse reads an export from r.
func Parse(r io.Reader) (*Table, error) {
	p := &parser{state: stateDeclaring, table: &Table{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch p.state {
		case stateDeclaring:
			p.declare(line)
		case stateData:
			p.row(lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if p.state != stateData {
		return nil, ErrMissingDataSection
	}
	return p.table, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

func (p *parser) declare(line string) {
	keyword := firstToken(line)
	switch {
	case strings.EqualFold(keyword, dataMarker):
		p.state = stateData
	case strings.EqualFold(keyword, attributeMarker):
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return
		}
		name := unquote(fields[1])
		if isReserved(name) {
			return
		}
		p.table.Columns = append(p.table.Columns, name)
	}
}

func (p *parser) row(lineNo int, line string) {
	fields := strings.Split(line, fieldDelimiter)
	if len(fields) < minDataFields {
		p.table.Skipped = append(p.table.Skipped, SkippedLine{Line: lineNo, Fields: len(fields), Reason: SkipTooFewFields})
		return
	}
	features := fields[1 : len(fields)-1]
	if len(features) != len(p.table.Columns) {
		p.table.Skipped = append(p.table.Skipped, SkippedLine{Line: lineNo, Fields: len(fields), Reason: SkipWidthMismatch})
		return
	}
	values := make([]float64, len(features))
	for i, field := range features {
		values[i] = parseValue(field)
	}
	p.table.Rows = append(p.table.Rows, values)
}

func parseValue(field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// firstToken returns the leading whitespace-delimited token so "@data" and
// "@DATA" match while "@database" does not.
func firstToken(line string) string {
	if idx := strings.IndexFunc(line, isSpace); idx >= 0 {
		return line[:idx]
	}
	return line
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func unquote(name string) string {
	if len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		if first == last && (first == '\'' || first == '"') {
			return name[1 : len(name)-1]
		}
	}
	return name
}

func isReserved(name string) bool {
	for _, reserved := range reservedColumns {
		if strings.EqualFold(name, reserved) {
			return true
		}
	}
	return false
}
