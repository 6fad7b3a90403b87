// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package sheet holds the sparse cell map shared by the CSV and XLSX
// ingest paths: a mapping from zero-based (row, col) to a decoded
// UTF-8 string, with no entry for empty cells.
package sheet

// Key identifies a single cell, zero-based in both dimensions.
type Key struct {
	Row, Col uint32
}

// Map is a sparse (row, col) -> value projection of a spreadsheet or
// CSV file. Iteration order is unspecified.
type Map struct {
	cells map[Key]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{cells: make(map[Key]string)}
}

// Set inserts value at (row, col). An empty value deletes any existing
// entry instead of storing it, preserving the sparse invariant.
func (m *Map) Set(row, col uint32, value string) {
	if value == "" {
		delete(m.cells, Key{row, col})
		return
	}
	m.cells[Key{row, col}] = value
}

// Get returns the value at (row, col) and whether it was present.
func (m *Map) Get(row, col uint32) (string, bool) {
	v, ok := m.cells[Key{row, col}]
	return v, ok
}

// Len reports the number of non-empty cells.
func (m *Map) Len() int { return len(m.cells) }

// All iterates every non-empty cell. Order is unspecified.
func (m *Map) All(yield func(Key, string) bool) {
	for k, v := range m.cells {
		if !yield(k, v) {
			return
		}
	}
}

// CSVMap is the result of reading a CSV file: the sparse cell map
// plus the file-level metadata it was read with.
type CSVMap struct {
	Filename  string
	Separator byte
	Quote     byte
	Map       *Map
}

// XLSXMap is the result of reading an XLSX workbook: the sparse cell
// map plus the filename and the worksheet archive member it came from.
type XLSXMap struct {
	Filename  string
	Worksheet string
	Map       *Map
}
