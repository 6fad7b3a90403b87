// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package ingest is the public façade over the CSV and XLSX readers:
// it owns the "open a file on disk, produce a sparse cell map" entry
// points that the CLI frontend calls.
package ingest

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Felipe-Aquino/csvim/internal/csv"
	"github.com/Felipe-Aquino/csvim/internal/sheet"
	"github.com/Felipe-Aquino/csvim/internal/workbookcache"
	"github.com/Felipe-Aquino/csvim/internal/xlsx"
	"github.com/Felipe-Aquino/csvim/internal/ziparchive"
)

// ErrNoWorksheet is returned when a workbook contains no member under
// xl/worksheets/ and none was named explicitly.
var ErrNoWorksheet = errors.New("ingest: no worksheet found in workbook")

const sharedStringsMember = "xl/sharedStrings.xml"

// OpenCSV reads a CSV file from disk and projects it into a sparse
// cell map using sep as the field separator and quote as the quoting
// byte (csv.SingleQuote or csv.DoubleQuote).
func OpenCSV(filePath string, sep byte, quote byte) (sheet.CSVMap, error) {
	rows, err := csv.ReadFile(filePath, sep, csv.Quote(quote))
	if err != nil {
		return sheet.CSVMap{}, fmt.Errorf("ingest: opening %s: %w", filePath, err)
	}
	return sheet.CSVMap{
		Filename:  filePath,
		Separator: sep,
		Quote:     quote,
		Map:       rows.ToSheet(),
	}, nil
}

// OpenXLSX extracts an XLSX workbook, projects the shared-strings
// table and a worksheet into a sparse cell map, and returns the
// chosen worksheet's archive member name alongside the filename. If
// worksheet is empty, the first member under xl/worksheets/ is used.
func OpenXLSX(filePath string, worksheet string) (sheet.XLSXMap, error) {
	return OpenXLSXCached(filePath, worksheet, nil)
}

// OpenXLSXCached behaves like OpenXLSX but, after extracting the
// archive, consults cache (and populates it) for the shared-strings
// and worksheet blobs, keyed on the file's path, size, modification
// time, and member name. The archive is still extracted and the XML
// still parsed on every call. A nil cache disables memoization
// entirely.
func OpenXLSXCached(filePath string, worksheet string, cache *workbookcache.Cache) (sheet.XLSXMap, error) {
	entries, err := ziparchive.Open(filePath)
	if err != nil {
		return sheet.XLSXMap{}, fmt.Errorf("ingest: opening %s: %w", filePath, err)
	}

	memberName, err := resolveWorksheetMember(entries, worksheet)
	if err != nil {
		return sheet.XLSXMap{}, err
	}

	sharedStrings, err := loadSharedStrings(filePath, entries, cache)
	if err != nil {
		return sheet.XLSXMap{}, err
	}

	wsContent, err := loadMember(filePath, entries, memberName, cache)
	if err != nil {
		return sheet.XLSXMap{}, fmt.Errorf("ingest: %s: member %s: %w", filePath, memberName, err)
	}

	m, err := xlsx.ReadWorksheet(wsContent, sharedStrings)
	if err != nil {
		return sheet.XLSXMap{}, fmt.Errorf("ingest: %s: worksheet %s: %w", filePath, memberName, err)
	}

	return sheet.XLSXMap{Filename: filePath, Worksheet: memberName, Map: m}, nil
}

// resolveWorksheetMember picks the named worksheet, or the first
// member matching the xl/worksheets/*.xml glob when name is empty.
func resolveWorksheetMember(entries []ziparchive.Entry, name string) (string, error) {
	if name != "" {
		want := "xl/worksheets/" + name + ".xml"
		if _, ok := ziparchive.Find(entries, want); !ok {
			return "", fmt.Errorf("%w: %s", ErrNoWorksheet, want)
		}
		return want, nil
	}

	for _, e := range entries {
		ok, err := doublestar.Match("xl/worksheets/*.xml", e.Name)
		if err == nil && ok {
			return e.Name, nil
		}
	}
	return "", ErrNoWorksheet
}

func loadSharedStrings(filePath string, entries []ziparchive.Entry, cache *workbookcache.Cache) ([]string, error) {
	entry, ok := ziparchive.Find(entries, sharedStringsMember)
	if !ok {
		// Missing xl/sharedStrings.xml is not fatal: t="s" cells then
		// resolve to the out-of-range placeholder.
		return nil, nil
	}

	content, err := cachedOrRaw(filePath, entry, cache)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", sharedStringsMember, err)
	}
	return xlsx.ReadSharedStrings(content)
}

func loadMember(filePath string, entries []ziparchive.Entry, name string, cache *workbookcache.Cache) ([]byte, error) {
	entry, ok := ziparchive.Find(entries, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoWorksheet, name)
	}
	return cachedOrRaw(filePath, entry, cache)
}

// cachedOrRaw returns entry.Data directly, consulting and populating
// cache first when one is configured.
func cachedOrRaw(filePath string, entry ziparchive.Entry, cache *workbookcache.Cache) ([]byte, error) {
	if cache == nil {
		return entry.Data, nil
	}

	key, err := workbookcache.KeyForFile(filePath, entry.Name)
	if err != nil {
		// A stat failure here shouldn't fail the whole open; fall
		// back to the freshly decompressed bytes.
		return entry.Data, nil
	}

	if blob, ok := cache.Get(key); ok {
		return blob, nil
	}

	if err := cache.Put(key, entry.Data); err != nil {
		return entry.Data, nil
	}
	return entry.Data, nil
}

// DefaultCacheDir returns a workbook cache location under base,
// namespaced by the current year and month so stale caches are easy
// to spot. The CLI frontend does not call it; its cache directory
// comes from the --cache-dir flag.
func DefaultCacheDir(base string) string {
	return path.Join(base, "csvim-cache", time.Now().Format("2006-01"))
}
