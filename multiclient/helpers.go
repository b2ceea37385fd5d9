// Package multiclient implements the two multi-client NI-PSI schemes,
// ported from original_source/nipsi/multiclient.py's Cardinality and
// CardinalityEfficient classes.
package multiclient

import (
	"crypto/rand"
	"fmt"
	"math/bits"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/internal/log"
)

// orDefaultLogger lets every scheme constructor accept a nil Logger
// and fall back to the package-level default rather than each having
// to duplicate the nil check.
func orDefaultLogger(logger log.Logger) log.Logger {
	if logger == nil {
		return log.DefaultLogger()
	}
	return logger
}

// Domain-separation bytes for the two distinct hash-to-point families
// used across the two schemes, so neither can be confused with the
// other.
const (
	domainElementHash byte = 0x20
	domainIndexHash   byte = 0x21
)

func randomBytes(secpar int) ([]byte, error) {
	if secpar <= 0 || secpar%8 != 0 {
		return nil, fmt.Errorf("%w: secpar must be a positive multiple of 8, got %d", nipsi.ErrInvalidArgument, secpar)
	}
	b := make([]byte, secpar/8)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("multiclient: %w", err)
	}
	return b, nil
}

// indexSeed builds the hash-to-point input for bit index idx: idx
// encoded big-endian in bits.Len(k) bytes, followed by gid. The
// byte-count-equals-bit-length-of-k quirk matches the bloom package's
// own hash family so that a filter's bit layout and a scheme's per-bit
// ciphertext layout address the same positions.
func indexSeed(k, idx int, gid nipsi.Gid) []byte {
	prefixLen := bits.Len(uint(k))
	buf := make([]byte, prefixLen+len(gid))
	v := uint64(idx)
	for i := prefixLen - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	copy(buf[prefixLen:], gid[:])
	return buf
}
