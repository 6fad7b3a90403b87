// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Felipe-Aquino/csvim/internal/sheet"
)

const colWidth = 16

// page renders m a screenful of rows at a time, reading single
// keystrokes from stdin in raw mode: space/j advances, k goes back a
// page, q or Ctrl-C quits. Arrow keys are not recognised.
func page(w io.Writer, label string, m *sheet.Map) error {
	rows, cols := gridDims(m)
	if rows == 0 {
		fmt.Fprintf(w, "%s: empty\n", label)
		return nil
	}

	restore, err := rawTerminal(stdinFd())
	if err != nil {
		// Not a terminal (piped output, tests, CI): fall back to a
		// single full dump instead of failing the open.
		dumpGrid(w, m)
		return nil
	}
	defer restore()

	const pageRows = 20
	in := bufio.NewReader(os.Stdin)
	top := uint32(0)

	for {
		fmt.Fprintf(w, "\033[2J\033[H%s  [rows %d-%d of %d]\r\n", label, top, min32(top+pageRows, rows)-1, rows)
		renderRows(w, m, top, min32(top+pageRows, rows), cols)

		b, err := in.ReadByte()
		if err != nil {
			return nil
		}
		switch b {
		case 'q', 3: // q or Ctrl-C
			return nil
		case ' ', 'j':
			if top+pageRows < rows {
				top += pageRows
			}
		case 'k':
			if top >= pageRows {
				top -= pageRows
			} else {
				top = 0
			}
		}
	}
}

func renderRows(w io.Writer, m *sheet.Map, from, to, cols uint32) {
	for r := from; r < to; r++ {
		for c := uint32(0); c < cols; c++ {
			v, _ := m.Get(r, c)
			fmt.Fprintf(w, "%-*.*s", colWidth, colWidth, v)
		}
		fmt.Fprint(w, "\r\n")
	}
}

func gridDims(m *sheet.Map) (rows, cols uint32) {
	m.All(func(k sheet.Key, _ string) bool {
		if k.Row+1 > rows {
			rows = k.Row + 1
		}
		if k.Col+1 > cols {
			cols = k.Col + 1
		}
		return true
	})
	return rows, cols
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
