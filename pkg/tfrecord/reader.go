package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/nasbench/pkg/checksum"
)

// Reader provides sequential access to the frames of a TFRecord stream
type Reader struct {
	reader  *bufio.Reader
	closer  io.Closer // set when the Reader owns the source
	offset  int64
	frames  int
	config  ReaderConfig
	logger  zerolog.Logger
	session string
	err     error // terminal state; io.EOF after a clean end
}

// NewReader creates a frame reader over r. The caller keeps ownership of r.
func NewReader(r io.Reader, config ReaderConfig) *Reader {
	config = config.withDefaults()
	session := ksuid.New().String()

	return &Reader{
		reader:  bufio.NewReaderSize(r, config.BufferSize),
		offset:  config.StartOffset,
		config:  config,
		logger:  config.Logger.With().Str("session", session).Logger(),
		session: session,
	}
}

// Open opens the file at path and creates a reader that owns it. The file is
// closed when iteration ends, when a decode error occurs, or on Close.
func Open(path string, config ReaderConfig) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// Seek to start offset if specified
	if config.StartOffset > 0 {
		if _, err := file.Seek(config.StartOffset, io.SeekStart); err != nil {
			file.Close()
			return nil, err
		}
	}

	r := NewReader(file, config)
	r.closer = file
	r.logger.Debug().Str("path", path).Int64("start_offset", config.StartOffset).Msg("opened tfrecord file")
	return r, nil
}

// ReadNext decodes the next frame. It returns io.EOF when the stream ends
// exactly on a frame boundary; any other error is a *FrameError and is
// returned again by every later call.
func (r *Reader) ReadNext() (*Frame, error) {
	if r.err != nil {
		return nil, r.err
	}

	frame, err := r.readFrame()
	if err != nil {
		r.fail(err)
		return nil, err
	}

	r.frames++
	r.config.Metrics.RecordFrame(len(frame.Data))
	return frame, nil
}

func (r *Reader) readFrame() (*Frame, error) {
	start := r.offset

	// Length and its checksum
	var header [lengthSize + checksumSize]byte
	if err := r.readFull(header[:lengthSize]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, r.frameError(start, SectionLength, err)
	}
	if err := r.readFull(header[lengthSize:]); err != nil {
		return nil, r.frameError(start, SectionLengthChecksum, err)
	}

	stored := binary.LittleEndian.Uint32(header[lengthSize:])
	if computed := checksum.Masked(header[:lengthSize]); computed != stored {
		return nil, &FrameError{
			Offset:  start,
			Section: SectionLengthChecksum,
			Err:     &ChecksumError{Stored: stored, Computed: computed},
		}
	}

	length := binary.LittleEndian.Uint64(header[:lengthSize])
	if length > r.config.MaxRecordSize {
		return nil, &FrameError{
			Offset:  start,
			Section: SectionLength,
			Err:     fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, r.config.MaxRecordSize),
		}
	}

	// Data and its checksum
	data, err := r.readData(length)
	if err != nil {
		return nil, r.frameError(start, SectionData, err)
	}

	var footer [checksumSize]byte
	if err := r.readFull(footer[:]); err != nil {
		return nil, r.frameError(start, SectionDataChecksum, err)
	}

	stored = binary.LittleEndian.Uint32(footer[:])
	if computed := checksum.Masked(data); computed != stored {
		return nil, &FrameError{
			Offset:  start,
			Section: SectionDataChecksum,
			Err:     &ChecksumError{Stored: stored, Computed: computed},
		}
	}

	return &Frame{Offset: start, Length: length, Data: data}, nil
}

// readData reads exactly n payload bytes, growing the buffer one chunk at a
// time so allocation tracks the bytes actually present in the stream.
func (r *Reader) readData(n uint64) ([]byte, error) {
	if n <= readChunkSize {
		data := make([]byte, n)
		if err := r.readFull(data); err != nil {
			return nil, err
		}
		return data, nil
	}

	data := make([]byte, 0, readChunkSize)
	for remaining := n; remaining > 0; {
		chunk := int(min(remaining, readChunkSize))
		filled := len(data)
		data = slices.Grow(data, chunk)[:filled+chunk]
		if err := r.readFull(data[filled:]); err != nil {
			return nil, err
		}
		remaining -= uint64(chunk)
	}
	return data, nil
}

func (r *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(r.reader, buf)
	r.offset += int64(n)
	return err
}

// frameError classifies a read error. Running out of bytes anywhere past the
// first byte of a frame is truncation; anything else came from the source.
func (r *Reader) frameError(start int64, section Section, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncated
	} else {
		err = fmt.Errorf("%w: %w", ErrIO, err)
	}
	return &FrameError{Offset: start, Section: section, Err: err}
}

func (r *Reader) fail(err error) {
	r.err = err
	if err == io.EOF {
		r.logger.Debug().Int("frames", r.frames).Int64("offset", r.offset).Msg("reached end of stream")
	} else {
		kind := errorKind(err)
		r.config.Metrics.RecordFrameError(kind)
		r.logger.Warn().Err(err).Str("kind", kind).Int("frames", r.frames).Msg("frame decode failed")
	}
	// The stream is finished either way; drop the file now.
	_ = r.release()
}

func (r *Reader) release() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Offset returns the number of bytes consumed from the source, plus StartOffset
func (r *Reader) Offset() int64 {
	return r.offset
}

// Frames returns the number of frames decoded so far
func (r *Reader) Frames() int {
	return r.frames
}

// Session returns the id attached to this reader's log entries.
func (r *Reader) Session() string {
	return r.session
}

// Err returns the terminal error, or nil while the reader is live or after a clean end.
func (r *Reader) Err() error {
	if r.err == io.EOF || r.err == ErrClosed {
		return nil
	}
	return r.err
}

// Iterator returns a streaming iterator for frames
func (r *Reader) Iterator() FrameIterator {
	return &frameIterator{reader: r}
}

// Close releases the source if the reader owns it. Later reads return ErrClosed.
// Close is safe to call more than once.
func (r *Reader) Close() error {
	if r.err == nil {
		r.err = ErrClosed
	}
	return r.release()
}

// frameIterator implements FrameIterator on top of Reader
type frameIterator struct {
	reader *Reader
	frame  *Frame
	err    error
}

func (it *frameIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.frame, it.err = it.reader.ReadNext()
	if it.err == io.EOF {
		it.err = nil
		it.frame = nil
		return false
	}
	return it.err == nil
}

func (it *frameIterator) Frame() *Frame {
	return it.frame
}

func (it *frameIterator) Err() error {
	if it.err == ErrClosed {
		return nil
	}
	return it.err
}

// Close closes the underlying reader so an abandoned iteration still
// releases the file.
func (it *frameIterator) Close() error {
	return it.reader.Close()
}
