// Package tfrecordtest builds TFRecord streams for tests. Production code
// only ever reads the container.
package tfrecordtest

import (
	"encoding/binary"

	"github.com/ssargent/nasbench/pkg/checksum"
)

// AppendFrame appends one encoded frame holding data to dst.
func AppendFrame(dst, data []byte) []byte {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(data)))

	dst = append(dst, length[:]...)
	dst = binary.LittleEndian.AppendUint32(dst, checksum.Masked(length[:]))
	dst = append(dst, data...)
	dst = binary.LittleEndian.AppendUint32(dst, checksum.Masked(data))
	return dst
}

// Stream encodes every payload as consecutive frames.
func Stream(payloads ...[]byte) []byte {
	var out []byte
	for _, p := range payloads {
		out = AppendFrame(out, p)
	}
	return out
}

// FrameHeader returns a length field plus its valid checksum for a frame that
// claims length bytes, without any payload.
func FrameHeader(length uint64) []byte {
	var hdr [12]byte
	binary.LittleEndian.PutUint64(hdr[:8], length)
	binary.LittleEndian.PutUint32(hdr[8:], checksum.Masked(hdr[:8]))
	return hdr[:]
}

// Boundaries returns the byte offset at which each frame of Stream(payloads...)
// starts, followed by the total length.
func Boundaries(payloads ...[]byte) []int {
	offsets := make([]int, 0, len(payloads)+1)
	pos := 0
	for _, p := range payloads {
		offsets = append(offsets, pos)
		pos += 16 + len(p)
	}
	return append(offsets, pos)
}
