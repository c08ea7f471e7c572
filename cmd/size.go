package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/voltdesk/voltdesk-backend/internal/calculator"
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

var (
	sizeFile   string
	sizeOutput string
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Size one circuit offline",
	Long: `Reads a cable size request (JSON, or YAML for .yaml/.yml files) and prints
the engine's result. Use --file - to read JSON from stdin.

Example:
  voltdesk size --file circuit.yaml --output yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSize(cmd.InOrStdin(), cmd.OutOrStdout(), sizeFile, sizeOutput)
	},
}

func init() {
	sizeCmd.Flags().StringVarP(&sizeFile, "file", "f", "", "request file (- for stdin)")
	sizeCmd.Flags().StringVarP(&sizeOutput, "output", "o", "json", "output format: json or yaml")
	_ = sizeCmd.MarkFlagRequired("file")
}

func runSize(stdin io.Reader, out io.Writer, file, format string) error {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown output format %q", format)
	}

	var (
		raw []byte
		err error
	)
	if file == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	var req models.CableSizeRequest
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &req)
	default:
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	result, err := calculator.Calculate(req)
	if err != nil {
		return err
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
