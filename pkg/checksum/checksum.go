// Package checksum implements the masked CRC-32C used by the TFRecord
// container format.
//
// A raw CRC over data that itself embeds CRCs is prone to accidental
// structure, so every stored checksum is rotated and offset by a constant:
//
//	masked = rotr32(crc32c(span), 15) + 0xa282ead8
//
// Both the length checksum and the data checksum of a frame use Masked.
package checksum

import (
	"hash/crc32"
	"math/bits"
)

// MaskDelta is added to the rotated CRC when masking.
const MaskDelta uint32 = 0xa282ead8

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the unmasked Castagnoli CRC of b
func CRC32C(b []byte) uint32 {
	return crc32.Checksum(b, castagnoli)
}

// Mask applies the rotate-and-add transform to a raw CRC.
func Mask(crc uint32) uint32 {
	return bits.RotateLeft32(crc, -15) + MaskDelta
}

// Unmask reverses Mask.
func Unmask(masked uint32) uint32 {
	return bits.RotateLeft32(masked-MaskDelta, 15)
}

// Masked returns the masked CRC-32C of b.
func Masked(b []byte) uint32 {
	return Mask(CRC32C(b))
}

// Verify reports whether want is the masked checksum of b.
func Verify(b []byte, want uint32) bool {
	return Masked(b) == want
}
