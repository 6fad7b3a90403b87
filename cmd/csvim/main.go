// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Command csvim is the CLI entry point: it wires the ingest façade,
// an optional on-disk workbook cache, and a thin keyboard-driven
// terminal pager around the sparse cell map.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "csvim",
		Short: "csvim opens CSV and XLSX files as a sparse cell grid",
	}
	root.AddCommand(newOpenCmd())
	return root
}
