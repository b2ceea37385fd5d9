package multiclient

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/group"
	"github.com/CRIPTIM/nipsi/internal/log"
)

// CtSet is a set of serialized group-element ciphertexts, keyed by
// their raw bytes so it behaves as a Go set via map membership.
type CtSet map[string]struct{}

// Cardinality is the Multi-Client Set Intersect Cardinality scheme: n
// clients each hold an additive share of zero, s_1..s_n with Σs_i ≡ 0
// mod q. Raising a common hash-to-point value to each client's share
// and multiplying (adding, in the additively-written EC group) all n
// ciphertexts for the same element collapses to the identity exactly
// when that element is present in every client's set.
type Cardinality struct {
	Ops    *group.Ops
	logger log.Logger
}

// NewCardinality constructs scheme #4 against a fresh group instance.
// A nil logger falls back to log.DefaultLogger().
func NewCardinality(logger log.Logger) *Cardinality {
	return &Cardinality{Ops: group.New(), logger: orDefaultLogger(logger)}
}

// Setup draws n-1 uniform scalars and sets the n-th to minus their sum,
// so the n shares always sum to zero mod q.
func (s *Cardinality) Setup(secpar, n int) ([]kyber.Scalar, error) {
	s.logger.Debugw("multiclient cardinality setup", "secpar", secpar, "client_count", n)
	if n < 2 {
		return nil, fmt.Errorf("%w: client_count must be at least 2", nipsi.ErrInvalidArgument)
	}
	if secpar <= 0 || secpar%8 != 0 {
		return nil, fmt.Errorf("%w: secpar must be a positive multiple of 8, got %d", nipsi.ErrInvalidArgument, secpar)
	}

	suite := s.Ops.Suite()
	shares := make([]kyber.Scalar, n)
	sum := suite.Scalar().Zero()
	for i := 0; i < n-1; i++ {
		shares[i] = s.Ops.RandomScalar()
		sum = suite.Scalar().Add(sum, shares[i])
	}
	shares[n-1] = suite.Scalar().Neg(sum)
	return shares, nil
}

// Encrypt computes { serialize(H(gid||x)^usk) : x in ptSet }.
func (s *Cardinality) Encrypt(usk kyber.Scalar, gid nipsi.Gid, ptSet [][]byte) (CtSet, error) {
	s.logger.Debugw("multiclient cardinality encrypt", "gid", gid, "set_size", len(ptSet))
	out := make(CtSet, len(ptSet))
	for _, pt := range ptSet {
		h := s.Ops.HashToPoint(domainElementHash, append(append([]byte{}, gid[:]...), pt...))
		ct := s.Ops.Exp(usk, h)
		ser, err := group.Serialize(ct)
		if err != nil {
			return nil, fmt.Errorf("multiclient: cardinality encrypt: %w", err)
		}
		out[string(ser)] = struct{}{}
	}
	return out, nil
}

// Eval counts the tuples (c_1, ..., c_n) in C_1 x ... x C_n whose
// product is the group identity, via depth-first recursion over the
// client sets with removal-on-match pruning: once a candidate has been
// matched in one branch it cannot be reused by a sibling branch.
func (s *Cardinality) Eval(ctSets []CtSet) (int, error) {
	s.logger.Debugw("multiclient cardinality eval", "client_count", len(ctSets))
	if len(ctSets) == 0 {
		return 0, nil
	}
	sets := make([]map[string]struct{}, len(ctSets))
	for i, cs := range ctSets {
		m := make(map[string]struct{}, len(cs))
		for k := range cs {
			m[k] = struct{}{}
		}
		sets[i] = m
	}
	return s.intersectionCount(sets, s.Ops.Identity())
}

func (s *Cardinality) intersectionCount(sets []map[string]struct{}, product kyber.Point) (int, error) {
	suite := s.Ops.Suite()
	identity := s.Ops.Identity()

	n := len(sets)
	last := sets[n-1]
	rest := sets[:n-1]

	keys := make([]string, 0, len(last))
	for k := range last {
		keys = append(keys, k)
	}

	count := 0
	if len(rest) == 0 {
		for _, k := range keys {
			ct, err := s.Ops.DeserializePoint([]byte(k))
			if err != nil {
				return 0, err
			}
			sum := suite.Point().Add(product, ct)
			if sum.Equal(identity) {
				delete(last, k)
				count = 1
				break
			}
		}
		return count, nil
	}

	for _, k := range keys {
		ct, err := s.Ops.DeserializePoint([]byte(k))
		if err != nil {
			return 0, err
		}
		sum := suite.Point().Add(product, ct)
		found, err := s.intersectionCount(rest, sum)
		if err != nil {
			return 0, err
		}
		if found == 1 {
			delete(last, k)
			count++
			// Unlike the leaf case, we do not stop here: a different
			// candidate may complete an intersection in a sibling branch.
		}
	}
	return count, nil
}
