//go:build fuzz
// +build fuzz

package tfrecord

import (
	"bytes"
	"io"
	"testing"

	"github.com/ssargent/nasbench/internal/testutil/tfrecordtest"
)

// FuzzReader_RoundTrip checks that every encoded payload decodes back unchanged
func FuzzReader_RoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("payload"))
	f.Add([]byte{0x00, 0x01, 0x02})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1<<20 {
			t.Skip("Input too large for fuzz test")
		}

		r := NewReader(bytes.NewReader(tfrecordtest.Stream(data)), ReaderConfig{})
		frame, err := r.ReadNext()
		if err != nil {
			t.Fatalf("ReadNext failed: %v", err)
		}
		if !bytes.Equal(frame.Data, data) {
			t.Fatalf("Data mismatch: got %x, want %x", frame.Data, data)
		}
		if _, err := r.ReadNext(); err != io.EOF {
			t.Fatalf("Expected io.EOF, got %v", err)
		}
	})
}

// FuzzReader_ArbitraryInput feeds random bytes to the decoder; it must never
// panic and must stop with io.EOF or a *FrameError
func FuzzReader_ArbitraryInput(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x01})
	f.Add(make([]byte, 12))
	f.Add(tfrecordtest.FrameHeader(1 << 62))
	f.Add(tfrecordtest.Stream([]byte("seed")))

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReader(bytes.NewReader(data), ReaderConfig{MaxRecordSize: 1 << 20})
		for {
			_, err := r.ReadNext()
			if err == io.EOF {
				return
			}
			if err != nil {
				if _, ok := err.(*FrameError); !ok {
					t.Fatalf("Unexpected error type %T: %v", err, err)
				}
				return
			}
		}
	})
}
