// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package csv is a small, from-scratch quoted-field CSV reader that
// projects rows directly into the shared sparse cell map, independent
// of the ZIP/XLSX ingest path.
package csv

import (
	"os"
	"strings"

	"github.com/Felipe-Aquino/csvim/internal/sheet"
)

// Quote selects the byte used to delimit quoted fields.
type Quote byte

const (
	SingleQuote Quote = '\''
	DoubleQuote Quote = '"'
)

// Rows is the output of ParseBytes: a slice of rows, each a slice of
// field values in column order. Rows retain empty trailing fields.
type Rows [][]string

// ReadFile reads and parses a CSV file from disk.
func ReadFile(path string, separator byte, quote Quote) (Rows, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, separator, quote), nil
}

// ParseBytes scans data byte by byte, tracking an inside-quote state.
// A doubled quote byte is an escaped literal quote when already inside
// a quoted field, or a no-op (degenerate empty inline segment) when
// encountered outside one. A backslash immediately before the quote
// byte, while inside a quoted field, also produces a literal quote
// without ending the field.
func ParseBytes(data []byte, separator byte, quote Quote) Rows {
	quoteByte := byte(quote)

	var rows Rows
	var row []string
	var buf strings.Builder
	insideQuote := false

	flushField := func() {
		row = append(row, buf.String())
		buf.Reset()
	}
	flushRow := func() {
		flushField()
		rows = append(rows, row)
		row = nil
	}

	i := 0
	for i < len(data) {
		c := data[i]

		switch {
		case insideQuote && c == '\\' && i+1 < len(data) && data[i+1] == quoteByte:
			buf.WriteByte(quoteByte)
			i += 2

		case c == quoteByte:
			if i+1 < len(data) && data[i+1] == quoteByte {
				if insideQuote {
					buf.WriteByte(quoteByte)
				}
				i += 2
			} else {
				insideQuote = !insideQuote
				i++
			}

		case c == '\n' && !insideQuote:
			flushRow()
			i++

		case c == separator && !insideQuote:
			flushField()
			i++

		default:
			buf.WriteByte(c)
			i++
		}
	}

	if buf.Len() > 0 || len(row) > 0 {
		flushRow()
	}

	return rows
}

// ToSheet projects rows into a sparse cell map: every non-empty cell
// is inserted at (row index, column index).
func (rows Rows) ToSheet() *sheet.Map {
	m := sheet.New()
	for i, row := range rows {
		for j, col := range row {
			if col == "" {
				continue
			}
			m.Set(uint32(i), uint32(j), col)
		}
	}
	return m
}
