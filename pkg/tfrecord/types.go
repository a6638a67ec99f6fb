package tfrecord

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ssargent/nasbench/pkg/checksum"
	"github.com/ssargent/nasbench/pkg/metrics"
)

const (
	lengthSize   = 8
	checksumSize = 4

	// DefaultMaxRecordSize bounds a single payload unless configured otherwise.
	DefaultMaxRecordSize uint64 = 64 << 20
	// DefaultBufferSize is the bufio buffer placed in front of the source.
	DefaultBufferSize = 64 << 10

	readChunkSize = 64 << 10
)

// Frame is one validated unit of the container.
type Frame struct {
	Offset int64  // Byte offset of the length field
	Length uint64 // Payload length in bytes
	Data   []byte // Payload
}

// Size returns the encoded size of the frame including its header and checksums.
func (f *Frame) Size() int64 {
	return int64(lengthSize+2*checksumSize) + int64(f.Length)
}

// ReaderConfig holds configuration for the frame reader
type ReaderConfig struct {
	MaxRecordSize uint64           // Largest accepted payload (0 = DefaultMaxRecordSize)
	BufferSize    int              // Read buffer size (0 = DefaultBufferSize)
	StartOffset   int64            // Position of the first frame in the source; Open seeks here
	Metrics       *metrics.Metrics // Optional
	Logger        *zerolog.Logger  // Optional; nil disables logging
}

func (c ReaderConfig) withDefaults() ReaderConfig {
	if c.MaxRecordSize == 0 {
		c.MaxRecordSize = DefaultMaxRecordSize
	}
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

// FrameIterator provides streaming access to frames
type FrameIterator interface {
	Next() bool
	Frame() *Frame
	Err() error
	Close() error
}

// Section identifies the part of a frame being read when an error occurred.
type Section int

const (
	SectionLength Section = iota
	SectionLengthChecksum
	SectionData
	SectionDataChecksum
)

func (s Section) String() string {
	switch s {
	case SectionLength:
		return "length"
	case SectionLengthChecksum:
		return "length checksum"
	case SectionData:
		return "data"
	case SectionDataChecksum:
		return "data checksum"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// Errors
var (
	ErrTruncated        = errors.New("tfrecord: truncated frame")
	ErrChecksumMismatch = errors.New("tfrecord: checksum mismatch")
	ErrFrameTooLarge    = errors.New("tfrecord: frame length exceeds limit")
	ErrIO               = errors.New("tfrecord: read failed")
	ErrClosed           = errors.New("tfrecord: reader closed")
)

// FrameError describes a terminal decode failure.
type FrameError struct {
	Offset  int64   // Offset of the frame that failed
	Section Section // Section being read or verified
	Err     error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("tfrecord: frame at offset %d: %s: %v", e.Offset, e.Section, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// ChecksumError carries the stored and computed masked checksums.
type ChecksumError struct {
	Stored   uint32
	Computed uint32
}

// Error reports both masked values followed by the raw CRC-32C behind each.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: stored 0x%08x, computed 0x%08x (crc32c 0x%08x vs 0x%08x)",
		e.Stored, e.Computed, checksum.Unmask(e.Stored), checksum.Unmask(e.Computed))
}

func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksumMismatch
}

// errorKind buckets an error for metrics and logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrFrameTooLarge):
		return "too_large"
	default:
		return "io"
	}
}
