/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/nasbench/pkg/nasbench"
	"github.com/ssargent/nasbench/pkg/storage"
)

const importBatchSize = 1000

// importResult summarises one import run
type importResult struct {
	ImportID ksuid.KSUID
	Records  int
	Skipped  int
}

func newImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Decode a TFRecord file into the record archive",
		Long: `Decode every record of a dataset file and store it in the archive,
keyed by module hash. Each run is tagged with a new import id.

Example:
  nasbench import nasbench_only108.tfrecord --db ./archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			dir := a.config.Archive.Dir
			if cmd.Flags().Changed("db") {
				dir, _ = cmd.Flags().GetString("db")
			}

			archive, err := storage.NewArchive(dir)
			if err != nil {
				return err
			}
			defer archive.Close()

			s, err := nasbench.OpenScanner(args[0], a.scannerConfig())
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := importRecords(archive, s)
			if err != nil {
				return err
			}

			a.logger.Info().
				Str("import_id", result.ImportID.String()).
				Str("archive", dir).
				Int("records", result.Records).
				Int("skipped", result.Skipped).
				Msg("import complete")
			cmd.Printf("Imported %d records (import %s)\n", result.Records, result.ImportID)
			return nil
		},
	}

	importCmd.Flags().String("db", "", "Archive directory (defaults to archive.dir from the config)")
	return importCmd
}

// importRecords writes every record of s to archive in batches. A failed scan
// keeps the batches already committed.
func importRecords(archive *storage.Archive, s *nasbench.Scanner) (*importResult, error) {
	result := &importResult{ImportID: storage.NewImportID()}

	batch := make([]*nasbench.RawRecord, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := archive.PutBatch(result.ImportID, batch); err != nil {
			return err
		}
		result.Records += len(batch)
		batch = batch[:0]
		return nil
	}

	for s.Next() {
		batch = append(batch, s.Record())
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	result.Skipped = s.Skipped()
	return result, nil
}
