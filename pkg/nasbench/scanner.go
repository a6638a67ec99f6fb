package nasbench

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/ssargent/nasbench/pkg/metrics"
	"github.com/ssargent/nasbench/pkg/tfrecord"
)

// ScannerConfig holds configuration for a record scanner
type ScannerConfig struct {
	Reader        tfrecord.ReaderConfig // Frame decoder settings; its Logger and Metrics are shared
	SkipMalformed bool                  // Drop records whose payload fails to parse instead of stopping
	Strict        bool                  // Also require RawRecord.Validate to pass
}

// Scanner streams records out of a TFRecord source, one frame at a time
type Scanner struct {
	frames  *tfrecord.Reader
	config  ScannerConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
	record  *RawRecord
	err     error
	index   int
	skipped int
}

// NewScanner creates a scanner over r. The caller keeps ownership of r.
func NewScanner(r io.Reader, config ScannerConfig) *Scanner {
	return newScanner(tfrecord.NewReader(r, config.Reader), config)
}

// OpenScanner creates a scanner that owns the file at path.
func OpenScanner(path string, config ScannerConfig) (*Scanner, error) {
	frames, err := tfrecord.Open(path, config.Reader)
	if err != nil {
		return nil, err
	}
	return newScanner(frames, config), nil
}

func newScanner(frames *tfrecord.Reader, config ScannerConfig) *Scanner {
	logger := zerolog.Nop()
	if config.Reader.Logger != nil {
		logger = *config.Reader.Logger
	}
	return &Scanner{
		frames:  frames,
		config:  config,
		logger:  logger.With().Str("session", frames.Session()).Logger(),
		metrics: config.Reader.Metrics,
	}
}

// Next advances to the next record. It returns false at the end of the
// stream or on the first error that is not skipped; check Err afterwards.
func (s *Scanner) Next() bool {
	s.record = nil
	if s.err != nil {
		return false
	}

	for {
		frame, err := s.frames.ReadNext()
		if err == io.EOF {
			return false
		}
		if err != nil {
			s.err = err
			return false
		}

		index := s.index
		s.index++

		record, err := ParseRecord(frame.Data)
		if err == nil && s.config.Strict {
			err = record.Validate()
		}
		if err == nil {
			s.metrics.RecordParsed()
			s.record = record
			return true
		}

		recErr := &RecordError{Offset: frame.Offset, Index: index, Err: err}
		if s.config.SkipMalformed {
			s.skipped++
			s.metrics.RecordSkipped()
			s.logger.Warn().Err(recErr).Int("index", index).Int64("offset", frame.Offset).Msg("skipping malformed record")
			continue
		}

		s.metrics.RecordFailed()
		s.err = recErr
		_ = s.frames.Close()
		return false
	}
}

// Record returns the record produced by the last successful Next.
func (s *Scanner) Record() *RawRecord {
	return s.record
}

// Err returns the error that stopped the scan, or nil after a clean end or Close.
func (s *Scanner) Err() error {
	if errors.Is(s.err, tfrecord.ErrClosed) {
		return nil
	}
	return s.err
}

// Skipped returns the number of malformed records dropped so far.
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Offset returns the stream position after the last frame read.
func (s *Scanner) Offset() int64 {
	return s.frames.Offset()
}

// Close releases the underlying source if the scanner owns it.
func (s *Scanner) Close() error {
	return s.frames.Close()
}
