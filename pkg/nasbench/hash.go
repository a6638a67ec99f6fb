package nasbench

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
)

// ModuleHashLen is the number of hex characters in an encoded module hash.
const ModuleHashLen = 32

// ModuleHash is the 128-bit identifier of a module graph.
type ModuleHash struct {
	Hi uint64
	Lo uint64
}

// ParseModuleHash parses exactly 32 hex digits, most significant first.
func ParseModuleHash(s string) (ModuleHash, error) {
	if len(s) != ModuleHashLen {
		return ModuleHash{}, fmt.Errorf("%w: module hash has %d characters, want %d", ErrMalformedField, len(s), ModuleHashLen)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ModuleHash{}, fmt.Errorf("%w: module hash: %v", ErrMalformedField, err)
	}
	return ModuleHashFromBytes(b), nil
}

// ModuleHashFromBytes reads a 16-byte big-endian hash
func ModuleHashFromBytes(b []byte) ModuleHash {
	return ModuleHash{
		Hi: binary.BigEndian.Uint64(b[:8]),
		Lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

// Bytes returns the hash as 16 big-endian bytes.
func (h ModuleHash) Bytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], h.Hi)
	binary.BigEndian.PutUint64(b[8:], h.Lo)
	return b
}

// BigInt returns the hash as an unsigned integer.
func (h ModuleHash) BigInt() *big.Int {
	b := h.Bytes()
	return new(big.Int).SetBytes(b[:])
}

func (h ModuleHash) String() string {
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo)
}

func (h ModuleHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *ModuleHash) UnmarshalText(text []byte) error {
	parsed, err := ParseModuleHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
