// Package tfrecord decodes the TFRecord container format.
//
// # Frame Format
//
// A TFRecord stream is a plain concatenation of frames with no file header:
//
//	[Length(8)][LengthCRC(4)][Data(Length)][DataCRC(4)]
//
// Fields:
//   - Length: 64-bit unsigned payload length (little-endian)
//   - LengthCRC: masked CRC-32C of the 8 length bytes (little-endian)
//   - Data: opaque payload
//   - DataCRC: masked CRC-32C of the payload (little-endian)
//
// See package checksum for the masking transform.
//
// # Reading
//
// Reader is a pull-based cursor. Each ReadNext call decodes exactly one
// frame and returns io.EOF once the stream ends on a frame boundary:
//
//	r, err := tfrecord.Open("nasbench_only108.tfrecord", tfrecord.ReaderConfig{})
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    frame, err := r.ReadNext()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    handle(frame.Data)
//	}
//
// # Error Handling
//
// Every failure is a *FrameError carrying the offset of the frame that failed
// and the section being read. Use errors.Is against ErrTruncated,
// ErrChecksumMismatch, ErrFrameTooLarge and ErrIO to classify it.
//
// All errors are terminal. Once a length field cannot be trusted the position
// of the next frame is unknown, so the reader never resynchronises; it keeps
// returning the same error and releases any file it opened.
//
// # Memory
//
// Payloads are read in bounded chunks, so a corrupt length field can only make
// the reader allocate as much as the stream actually contains, and never more
// than ReaderConfig.MaxRecordSize.
package tfrecord
