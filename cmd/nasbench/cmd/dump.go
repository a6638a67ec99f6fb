/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/nasbench/pkg/nasbench"
)

func newDumpCmd() *cobra.Command {
	dumpCmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the decoded records of a TFRecord file",
		Long: `Decode every record of a dataset file and print it.

The json format writes one object per line; the text format writes one
summary line per record.

Examples:
  nasbench dump nasbench_only108.tfrecord --limit 5
  nasbench dump nasbench_only108.tfrecord --format text --skip-malformed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			limit, _ := cmd.Flags().GetInt("limit")

			s, err := nasbench.OpenScanner(args[0], a.scannerConfig())
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := dumpRecords(cmd.OutOrStdout(), s, format, limit)
			if err != nil {
				return err
			}

			a.logger.Info().Str("path", args[0]).Int("records", n).Int("skipped", s.Skipped()).Msg("dump complete")
			return nil
		},
	}

	dumpCmd.Flags().StringP("format", "f", "json", "Output format: json or text")
	dumpCmd.Flags().IntP("limit", "n", 0, "Stop after this many records (0 = all)")
	return dumpCmd
}

// dumpRecords writes records from s to w and returns how many were written
func dumpRecords(w io.Writer, s *nasbench.Scanner, format string, limit int) (int, error) {
	var write func(r *nasbench.RawRecord) error
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		write = func(r *nasbench.RawRecord) error { return enc.Encode(r) }
	case "text":
		write = func(r *nasbench.RawRecord) error {
			_, err := fmt.Fprintf(w, "%s epochs=%d nodes=%d edges=%d ops=%v\n",
				r.ModuleHash, r.Epochs, r.Dim(), r.Edges(), r.Operations)
			return err
		}
	default:
		return 0, fmt.Errorf("unknown format %q", format)
	}

	n := 0
	for (limit <= 0 || n < limit) && s.Next() {
		if err := write(s.Record()); err != nil {
			return n, err
		}
		n++
	}
	return n, s.Err()
}
