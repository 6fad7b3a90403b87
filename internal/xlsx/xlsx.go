// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package xlsx projects the two XML trees that make up a worksheet --
// the shared-strings table and a worksheet body -- into a sparse
// (row, col) -> string cell map.
package xlsx

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Felipe-Aquino/csvim/internal/sheet"
	"github.com/Felipe-Aquino/csvim/internal/xmlparse"
)

// ErrFormat is returned when a shared-strings or worksheet document
// parses as XML but lacks its expected top-level element.
var ErrFormat = errors.New("xlsx: malformed workbook part")

// ReadSharedStrings parses xl/sharedStrings.xml content into an
// ordered list; the slice index is the shared-string id referenced
// from worksheet cells with t="s".
func ReadSharedStrings(content []byte) ([]string, error) {
	doc, err := xmlparse.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("xlsx: parsing shared strings: %w", err)
	}

	sst, ok := xmlparse.Root(doc, "sst")
	if !ok {
		return nil, fmt.Errorf("%w: no top-level sst element", ErrFormat)
	}

	strings := make([]string, 0, len(sst.Children))
	for _, si := range sst.ChildrenNamed("si") {
		strings = append(strings, sharedStringText(si))
	}
	return strings, nil
}

// sharedStringText prefers a direct t child; failing that, it looks
// for an r child and then its nested t.
func sharedStringText(si *xmlparse.Component) string {
	if t := si.Child("t"); t != nil {
		return t.TextContent()
	}
	if r := si.Child("r"); r != nil {
		if t := r.Child("t"); t != nil {
			return t.TextContent()
		}
	}
	return ""
}

// ReadWorksheet parses a worksheet XML body into a sparse cell map,
// resolving t="s" cells against sharedStrings. Cells without an r
// attribute are skipped; cells with an unparseable reference are
// dropped with a warning log and do not fail the call.
func ReadWorksheet(content []byte, sharedStrings []string) (*sheet.Map, error) {
	doc, err := xmlparse.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("xlsx: parsing worksheet: %w", err)
	}

	ws, ok := xmlparse.Root(doc, "worksheet")
	if !ok {
		return nil, fmt.Errorf("%w: no top-level worksheet element", ErrFormat)
	}

	m := sheet.New()
	for _, sheetData := range ws.ChildrenNamed("sheetData") {
		for _, row := range sheetData.ChildrenNamed("row") {
			for _, c := range row.ChildrenNamed("c") {
				ref, hasRef := c.Attrs["r"]
				if !hasRef {
					continue
				}
				rowIdx, colIdx, ok := DecodeCellRef(ref)
				if !ok {
					slog.Warn("droppingUnparseableCellRef", "ref", ref)
					continue
				}
				value := cellValue(c, sharedStrings)
				m.Set(rowIdx, colIdx, value)
			}
		}
	}
	return m, nil
}

func cellValue(c *xmlparse.Component, sharedStrings []string) string {
	v := c.Child("v")
	var text string
	if v != nil {
		text = v.TextContent()
	}

	t, hasType := c.Attrs["t"]
	if !hasType {
		return "?"
	}

	switch t {
	case "n", "str":
		return text
	case "b":
		if text == "1" {
			return "true"
		}
		return "false"
	case "s":
		idx, err := strconv.Atoi(text)
		if err != nil || idx < 0 || idx >= len(sharedStrings) {
			slog.Warn("sharedStringOutOfRange", "index", text, "count", len(sharedStrings))
			return "???"
		}
		return sharedStrings[idx]
	default:
		slog.Warn("unrecognizedCellType", "t", t)
		return "??"
	}
}

// DecodeCellRef splits an A1-style reference such as "AB12" at the
// first digit, decoding the letter prefix as a 1-indexed base-26
// numeral (A=1, ..., Z=26, AA=27, ...) and the digit suffix as a
// 1-based decimal row, both converted to zero-based indices.
func DecodeCellRef(ref string) (row, col uint32, ok bool) {
	digitIdx := -1
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		if c >= '0' && c <= '9' {
			digitIdx = i
			break
		}
		if !isAlpha(c) {
			return 0, 0, false
		}
	}
	if digitIdx < 1 {
		return 0, 0, false
	}

	letters, digits := ref[:digitIdx], ref[digitIdx:]

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || n < 1 {
		return 0, 0, false
	}

	colNum := base26LettersToInt(letters)
	if colNum == 0 {
		return 0, 0, false
	}

	return uint32(n - 1), uint32(colNum - 1), true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// base26LettersToInt decodes a 1-indexed base-26 numeral: A=1, Z=26,
// AA=27, AZ=52, BA=53, and so on. Returns 0 for a non-letter input.
func base26LettersToInt(letters string) int {
	result := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		var v int
		switch {
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 1
		case c >= 'a' && c <= 'z':
			v = int(c-'a') + 1
		default:
			return 0
		}
		result = result*26 + v
	}
	return result
}
