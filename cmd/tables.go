package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltdesk/voltdesk-backend/internal/calculator"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Check the reference tables and print the size and method lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTables(cmd.OutOrStdout())
	},
}

func runTables(out io.Writer) error {
	if err := calculator.ValidateTables(); err != nil {
		return err
	}

	opts := calculator.Options()
	sizes := make([]string, 0, len(opts.StandardSizesMM2))
	for _, s := range opts.StandardSizesMM2 {
		sizes = append(sizes, strconv.FormatFloat(s, 'f', -1, 64))
	}

	fmt.Fprintln(out, "reference tables OK")
	fmt.Fprintf(out, "standard sizes (mm²): %s\n", strings.Join(sizes, ", "))
	fmt.Fprintf(out, "ambient range (°C): %d to %d\n", opts.AmbientRangeC[0], opts.AmbientRangeC[1])
	fmt.Fprintln(out, "installation methods:")
	methods := append([]string(nil), opts.InstallationMethods...)
	sort.Strings(methods)
	for _, m := range methods {
		fmt.Fprintf(out, "  %-18s -> %s\n", m, opts.ReferenceMethods[m])
	}
	return nil
}
