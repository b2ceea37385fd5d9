// Package nipsi contains a Go port of the non-interactive private set
// intersection (NI-PSI) schemes from the CRIPTIM/nipsi research prototype:
// a trusted authority issues per-client user secret keys, each client
// independently encrypts a set under a shared group identifier (gid), and
// any party holding all ciphertexts for that gid can evaluate a fixed
// functionality — cardinality, intersection, or threshold intersection —
// without learning anything else.
//
// The schemes themselves live in the twoclient and multiclient
// subpackages; this package holds the error types and the Gid type they
// share.
package nipsi

import "errors"

// Gid is a group identifier: a 16-byte value shared by all ciphertexts
// produced for one protocol session. It doubles as the IV for the
// AES-CBC PRF (prf package), so a fresh Gid per session is required for
// PRF-output unlinkability across sessions; reusing it across sessions
// with different input sets only weakens unlinkability between those
// sessions, not correctness.
type Gid [16]byte

// GidFromUint64 builds a Gid from a big-endian encoded uint64, the way
// the evaluation harness and the scheme tests construct session
// identifiers from a monotonic counter.
func GidFromUint64(n uint64) Gid {
	var g Gid
	for i := 0; i < 8; i++ {
		g[15-i] = byte(n)
		n >>= 8
	}
	return g
}

// Sentinel error kinds shared across the scheme packages. Call sites
// wrap one of these with fmt.Errorf("...: %w", ErrX) so errors.Is keeps
// working across package boundaries.
var (
	// ErrMalformedCiphertext is returned when deserializing a point,
	// scalar, or ciphertext fails: bad length, or a point not on the
	// curve.
	ErrMalformedCiphertext = errors.New("nipsi: malformed ciphertext")

	// ErrParameterMismatch is returned when combining Bloom filters with
	// different (m, k), or when eval receives an inconsistent number of
	// client ciphertext sets.
	ErrParameterMismatch = errors.New("nipsi: parameter mismatch")

	// ErrAuthFail is returned when an AEAD tag fails to verify: a
	// tampered ciphertext, or the wrong key.
	ErrAuthFail = errors.New("nipsi: authentication failed")

	// ErrInvalidArgument is returned for bad inputs the caller controls
	// directly: secpar not a multiple of 8, a zero threshold, or an
	// empty set where a non-empty one is required.
	ErrInvalidArgument = errors.New("nipsi: invalid argument")
)
