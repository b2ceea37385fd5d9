// Package bloom implements a bit-addressable Bloom filter: m bits, k
// hash functions derived from MurmurHash3, with
// add/contains/union/intersection/weight.
//
// The hash family and bit layout are ported from
// original_source/nipsi/multiclient.py's BloomFilter, including the
// i-th hash's prefix length being the bit-length of k used directly as
// a byte count — a quirk of the reference implementation, not a Go
// idiom, kept for cross-implementation bit-position interop. For the
// m < 2^32 path (the one DetermineParameters ever produces), positions
// match the reference exactly: mmh3.hash returns a *signed* int32
// reduced with Python's floored modulo, so positions reproduces that
// with an explicit sign-aware reduction rather than a naive unsigned
// cast. The m >= 2^32 path (mmh3.hash128) is a best-effort 128-bit
// reduction; no filter size produced by this package ever reaches it.
package bloom

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/twmb/murmur3"

	"github.com/CRIPTIM/nipsi"
)

// Filter is an m-bit string addressed by k hash functions. The zero
// value is not usable; construct with New.
type Filter struct {
	M int
	K int
	bs []byte
}

// New creates an empty filter with m bits and k hash functions.
func New(m, k int) *Filter {
	return &Filter{M: m, K: k, bs: make([]byte, (m+7)/8)}
}

// DetermineParameters computes (m, k) for a target capacity of
// maxElements items at the given false-positive rate, reproducing the
// reference's rounding exactly: for (1000, 0.001) this returns
// (14378, 10).
func DetermineParameters(maxElements int, errorRate float64) (m, k int) {
	n := float64(maxElements)
	p := errorRate
	ln2 := math.Log(2)
	m = int(math.Round(-(n * math.Log(p)) / (ln2 * ln2)))
	k = int(math.Round(-math.Log2(p)))
	return m, k
}

// Add sets the k bits the hash family maps elem to. Bits are
// write-once: there is no corresponding Remove, mirroring the
// reference's __setitem__, which always ORs the bit in regardless of
// the value passed to it — harmless here because Add is the only
// writer and only ever wants to set bits to 1.
func (f *Filter) Add(elem []byte) {
	for _, pos := range f.positions(elem) {
		f.bs[pos/8] |= 1 << uint(pos%8)
	}
}

// Contains reports whether all k bits for elem are set. False
// negatives never occur for elements actually added; false positives
// occur at the designed rate.
func (f *Filter) Contains(elem []byte) bool {
	for _, pos := range f.positions(elem) {
		if f.bs[pos/8]&(1<<uint(pos%8)) == 0 {
			return false
		}
	}
	return true
}

// Bit reports the raw bit at position pos, used by
// multiclient.CardinalityEfficient to walk a filter bit by bit.
func (f *Filter) Bit(pos int) bool {
	return f.bs[pos/8]&(1<<uint(pos%8)) != 0
}

// Union returns the bitwise OR of f and other, which must share (M, K).
func (f *Filter) Union(other *Filter) (*Filter, error) {
	if err := f.checkCompatible(other); err != nil {
		return nil, err
	}
	out := New(f.M, f.K)
	for i := range f.bs {
		out.bs[i] = f.bs[i] | other.bs[i]
	}
	return out, nil
}

// Intersection returns the bitwise AND of f and other, which must
// share (M, K).
func (f *Filter) Intersection(other *Filter) (*Filter, error) {
	if err := f.checkCompatible(other); err != nil {
		return nil, err
	}
	out := New(f.M, f.K)
	for i := range f.bs {
		out.bs[i] = f.bs[i] & other.bs[i]
	}
	return out, nil
}

// Weight returns the Hamming weight (popcount) of the bit string.
func (f *Filter) Weight() int {
	w := 0
	for _, b := range f.bs {
		w += bits.OnesCount8(b)
	}
	return w
}

func (f *Filter) checkCompatible(other *Filter) error {
	if f.M != other.M || f.K != other.K {
		return nipsi.ErrParameterMismatch
	}
	return nil
}

// positions computes the k hash positions for elem: h_i(elem) =
// MurmurHash3(prefix_i || elem) mod m, where prefix_i is i encoded
// big-endian in bits.Len(k) bytes — the reference's
// `i.to_bytes(k.bit_length(), 'big')`.
func (f *Filter) positions(elem []byte) []int {
	prefixLen := bits.Len(uint(f.K))
	buf := make([]byte, prefixLen+len(elem))
	copy(buf[prefixLen:], elem)

	out := make([]int, f.K)
	for i := 0; i < f.K; i++ {
		putBigEndian(buf[:prefixLen], uint64(i))
		out[i] = hashMod(buf, f.M)
	}
	return out
}

func putBigEndian(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

// hashMod reduces a MurmurHash3 digest of data modulo m, picking
// x86-32 when m fits in 32 bits (mmh3.hash's regime) and x64-128
// otherwise (mmh3.hash128's regime), matching Python's floored modulo
// in both cases.
func hashMod(data []byte, m int) int {
	if m < (1 << 32) {
		// mmh3.hash returns a signed int32; reducing the raw unsigned
		// bit pattern instead would disagree with the reference on
		// every digest whose top bit is set.
		h := int32(murmur3.SeedSum32(0, data))
		return int(pyMod(int64(h), int64(m)))
	}

	h1, h2 := murmur3.SeedSum128(0, 0, data)
	full := new(big.Int).Lsh(new(big.Int).SetUint64(h1), 64)
	full.Or(full, new(big.Int).SetUint64(h2))
	return int(new(big.Int).Mod(full, big.NewInt(int64(m))).Int64())
}

// pyMod is Python's a % m: always in [0, m) for positive m, unlike
// Go's %, which keeps the sign of a.
func pyMod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
