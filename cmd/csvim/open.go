// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/Felipe-Aquino/csvim/internal/ingest"
	"github.com/Felipe-Aquino/csvim/internal/sheet"
	"github.com/Felipe-Aquino/csvim/internal/workbookcache"
)

type openOptions struct {
	sep      string
	quote    string
	sheet    string
	cacheDir string
	noPager  bool
}

func newOpenCmd() *cobra.Command {
	opts := &openOptions{sep: ",", quote: `"`}

	cmd := &cobra.Command{
		Use:   "open <path>...",
		Short: "Open one or more CSV/XLSX files and page through them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.sep, "sep", opts.sep, "CSV field separator")
	flags.StringVar(&opts.quote, "quote", opts.quote, `CSV quote style, ' or "`)
	flags.StringVar(&opts.sheet, "sheet", "", "worksheet name (default: first worksheet)")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "workbook cache directory (default: disabled)")
	flags.BoolVar(&opts.noPager, "no-pager", false, "dump the grid and exit instead of paging")

	return cmd
}

func runOpen(cmd *cobra.Command, patterns []string, opts *openOptions) error {
	if len(opts.sep) != 1 {
		return fmt.Errorf("--sep must be exactly one byte, got %q", opts.sep)
	}
	if opts.quote != "'" && opts.quote != `"` {
		return fmt.Errorf(`--quote must be ' or ", got %q`, opts.quote)
	}

	paths, err := expandPatterns(patterns)
	if err != nil {
		return err
	}

	var cache *workbookcache.Cache
	if opts.cacheDir != "" {
		cache, err = workbookcache.Open(opts.cacheDir, 1024)
		if err != nil {
			return fmt.Errorf("opening workbook cache: %w", err)
		}
		defer cache.Close()
	}

	for _, path := range paths {
		m, label, err := openOne(path, opts, cache)
		if err != nil {
			return err
		}
		if opts.noPager {
			dumpGrid(cmd.OutOrStdout(), m)
			continue
		}
		if err := page(cmd.OutOrStdout(), label, m); err != nil {
			return err
		}
	}
	return nil
}

// expandPatterns resolves glob-like arguments (doublestar syntax,
// e.g. "reports/**/*.csv") to concrete paths, passing through any
// argument that contains no glob metacharacters unchanged.
func expandPatterns(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) || !strings.ContainsAny(p, "*?[{") {
			out = append(out, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", p, err)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

// openOne loads path on a worker goroutine, showing an indeterminate
// progress bar on the calling goroutine while the (synchronous)
// ingest call runs.
func openOne(path string, opts *openOptions, cache *workbookcache.Cache) (*sheet.Map, string, error) {
	type result struct {
		m     *sheet.Map
		label string
		err   error
	}
	done := make(chan result, 1)

	go func() {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			cm, err := ingest.OpenCSV(path, opts.sep[0], opts.quote[0])
			done <- result{m: cm.Map, label: path, err: err}
			return
		}
		xm, err := ingest.OpenXLSXCached(path, opts.sheet, cache)
		done <- result{m: xm.Map, label: fmt.Sprintf("%s (%s)", path, xm.Worksheet), err: err}
	}()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("opening "+path),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false))
	bar.RenderBlank()

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case r := <-done:
			bar.Finish()
			if r.err != nil {
				slog.Error("openFailed", "path", path, "err", r.err)
			}
			return r.m, r.label, r.err
		case <-ticker.C:
			bar.Add(1)
		}
	}
}

func dumpGrid(w io.Writer, m *sheet.Map) {
	maxRow, maxCol := uint32(0), uint32(0)
	m.All(func(k sheet.Key, _ string) bool {
		if k.Row > maxRow {
			maxRow = k.Row
		}
		if k.Col > maxCol {
			maxCol = k.Col
		}
		return true
	})

	bw := bufio.NewWriter(w)
	defer bw.Flush()
	for r := uint32(0); r <= maxRow; r++ {
		for c := uint32(0); c <= maxCol; c++ {
			if c > 0 {
				bw.WriteByte('\t')
			}
			v, _ := m.Get(r, c)
			bw.WriteString(v)
		}
		bw.WriteByte('\n')
	}
}
