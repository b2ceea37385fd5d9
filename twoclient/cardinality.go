// Package twoclient implements the three two-client NI-PSI schemes,
// ported from original_source/nipsi/twoclient.py's Cardinality,
// Intersection, and Threshold classes.
package twoclient

import (
	"crypto/rand"
	"fmt"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/internal/log"
	"github.com/CRIPTIM/nipsi/prf"
)

// CardinalityUsk is the shared symmetric key both clients receive from
// Setup — scheme 1 gives both clients the *same* key.
type CardinalityUsk struct {
	Key []byte
}

// Cardinality is the Two-Client Set Intersect Cardinality scheme: a
// deterministic PRF under a shared key makes equal plaintext elements
// map to equal ciphertexts, so the intersection cardinality can be read
// off directly from the ciphertext sets.
type Cardinality struct {
	logger log.Logger
}

// NewCardinality constructs scheme #1. A nil logger falls back to
// log.DefaultLogger().
func NewCardinality(logger log.Logger) *Cardinality {
	return &Cardinality{logger: orDefaultLogger(logger)}
}

// Setup draws a single secpar-bit key and hands the same key to both
// clients. secpar must be a positive multiple of 8.
func (s *Cardinality) Setup(secpar int) (usk0, usk1 CardinalityUsk, err error) {
	s.logger.Debugw("cardinality setup", "secpar", secpar)
	key, err := randomBytes(secpar)
	if err != nil {
		return CardinalityUsk{}, CardinalityUsk{}, err
	}
	return CardinalityUsk{Key: key}, CardinalityUsk{Key: key}, nil
}

// Encrypt computes { PRF(usk.Key, gid, x) : x in ptSet }, returned as
// a set (map[string]struct{}) since the scheme only needs membership,
// never iteration order.
func (s *Cardinality) Encrypt(usk CardinalityUsk, gid nipsi.Gid, ptSet [][]byte) (CtSet, error) {
	s.logger.Debugw("cardinality encrypt", "gid", gid, "set_size", len(ptSet))
	out := make(CtSet, len(ptSet))
	for _, pt := range ptSet {
		ct, err := prf.Eval(usk.Key, gid[:], pt)
		if err != nil {
			return nil, fmt.Errorf("twoclient: cardinality encrypt: %w", err)
		}
		out[string(ct)] = struct{}{}
	}
	return out, nil
}

// CtSet is a set of PRF-output ciphertexts, keyed by their raw bytes.
type CtSet map[string]struct{}

// Eval returns |ctSets[0] ∩ ctSets[1]|, the cardinality of the set
// intersection.
func (s *Cardinality) Eval(ctSets [2]CtSet) int {
	s.logger.Debugw("cardinality eval", "set0_size", len(ctSets[0]), "set1_size", len(ctSets[1]))
	smaller, larger := ctSets[0], ctSets[1]
	if len(larger) < len(smaller) {
		smaller, larger = larger, smaller
	}
	count := 0
	for ct := range smaller {
		if _, ok := larger[ct]; ok {
			count++
		}
	}
	return count
}

func randomBytes(secpar int) ([]byte, error) {
	if secpar <= 0 || secpar%8 != 0 {
		return nil, fmt.Errorf("%w: secpar must be a positive multiple of 8, got %d", nipsi.ErrInvalidArgument, secpar)
	}
	b := make([]byte, secpar/8)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("twoclient: %w", err)
	}
	return b, nil
}
