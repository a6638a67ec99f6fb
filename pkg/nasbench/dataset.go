package nasbench

import (
	"fmt"
	"io"
)

// Dataset is every record of one TFRecord file, in file order.
type Dataset struct {
	Records []*RawRecord
	Skipped int // Malformed records dropped under SkipMalformed
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// LoadFile reads all records from the file at path.
func LoadFile(path string, config ScannerConfig) (*Dataset, error) {
	s, err := OpenScanner(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer s.Close()

	ds, err := collect(s)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, nil
}

// Load reads all records from r.
func Load(r io.Reader, config ScannerConfig) (*Dataset, error) {
	return collect(NewScanner(r, config))
}

func collect(s *Scanner) (*Dataset, error) {
	ds := &Dataset{}
	for s.Next() {
		ds.Records = append(ds.Records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	ds.Skipped = s.Skipped()
	return ds, nil
}
