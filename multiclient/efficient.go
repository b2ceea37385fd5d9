package multiclient

import (
	"fmt"

	"github.com/drand/kyber"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/bloom"
	"github.com/CRIPTIM/nipsi/group"
	"github.com/CRIPTIM/nipsi/internal/log"
	"github.com/CRIPTIM/nipsi/poly"
	"github.com/CRIPTIM/nipsi/prf"
)

// EfficientUsk is one client's key material for scheme #5: a PRF key
// shared by all n clients, plus that client's two Shamir shares f(i)
// and f(n+i) of a degree-n polynomial with f(0) = 0.
type EfficientUsk struct {
	PhiKey []byte
	Fi     kyber.Scalar
	Fni    kyber.Scalar
}

// EfficientBit is one Bloom-filter-bit's ciphertext pair: the masked
// value and the raw mask, used to test whether that bit is set in
// every client's filter without revealing the filters themselves.
type EfficientBit struct {
	Ct kyber.Point
	Gr kyber.Point
}

// EfficientCt is one client's full scheme #5 ciphertext: the masked
// set-level Bloom filter (BFSet, length M) and one per-bit vector per
// plaintext element (Elements, each of length M).
type EfficientCt struct {
	BFSet    []kyber.Point
	Elements [][]EfficientBit
}

// CardinalityEfficient is the Bloom-filter-compressed variant of
// Cardinality (scheme #5): it trades the O(product-of-set-sizes)
// Cartesian search for a per-bit test authenticated by Shamir shares
// of a polynomial with f(0) = 0, avoiding exponential search at the
// cost of a configurable Bloom-filter false-positive rate.
type CardinalityEfficient struct {
	Ops    *group.Ops
	N      int
	M      int
	K      int
	logger log.Logger
}

// NewCardinalityEfficient constructs scheme #5 against a fresh group
// instance. A nil logger falls back to log.DefaultLogger().
func NewCardinalityEfficient(logger log.Logger) *CardinalityEfficient {
	return &CardinalityEfficient{Ops: group.New(), logger: orDefaultLogger(logger)}
}

// DetermineParameters delegates to bloom.DetermineParameters: the
// worst-case filter from an intersection is no denser than a filter
// built from the same number of elements directly.
func DetermineParameters(maxElements int, errorRate float64) (m, k int) {
	return bloom.DetermineParameters(maxElements, errorRate)
}

// Setup draws the shared PRF key and the polynomial f's non-zero
// coefficients (c_0 is fixed at zero), then hands client i its two
// shares f(i) and f(n+i).
func (s *CardinalityEfficient) Setup(secpar, n, m, k int) ([]EfficientUsk, error) {
	s.logger.Debugw("multiclient cardinality-efficient setup", "secpar", secpar, "client_count", n, "m", m, "k", k)
	if n < 2 {
		return nil, fmt.Errorf("%w: client_count must be at least 2", nipsi.ErrInvalidArgument)
	}
	s.N, s.M, s.K = n, m, k

	phiKey, err := randomBytes(secpar)
	if err != nil {
		return nil, err
	}

	suite := s.Ops.Suite()
	cs := make([]kyber.Scalar, n+1)
	cs[0] = suite.Scalar().Zero()
	for j := 1; j <= n; j++ {
		cs[j] = s.Ops.RandomScalar()
	}

	usks := make([]EfficientUsk, n)
	for i := 1; i <= n; i++ {
		fi := poly.EvalScalar(suite, cs, s.Ops.ScalarFromInt(int64(i)))
		fni := poly.EvalScalar(suite, cs, s.Ops.ScalarFromInt(int64(n+i)))
		usks[i-1] = EfficientUsk{PhiKey: phiKey, Fi: fi, Fni: fni}
	}
	return usks, nil
}

func (s *CardinalityEfficient) indexPoint(gid nipsi.Gid, idx int) kyber.Point {
	return s.Ops.HashToPoint(domainIndexHash, indexSeed(s.K, idx, gid))
}

// Encrypt builds the masked set-level filter and one per-bit ciphertext
// vector per plaintext element.
func (s *CardinalityEfficient) Encrypt(usk EfficientUsk, gid nipsi.Gid, ptSet [][]byte) (EfficientCt, error) {
	s.logger.Debugw("multiclient cardinality-efficient encrypt", "gid", gid, "set_size", len(ptSet))
	suite := s.Ops.Suite()
	bfSet := bloom.New(s.M, s.K)

	type elemMask struct {
		c  []byte
		bf *bloom.Filter
		t  int
	}
	masks := make([]elemMask, 0, len(ptSet))

	for _, pt := range ptSet {
		c, err := prf.Eval(usk.PhiKey, gid[:], pt)
		if err != nil {
			return EfficientCt{}, fmt.Errorf("multiclient: efficient encrypt: %w", err)
		}
		bfSet.Add(c)

		bf := bloom.New(s.M, s.K)
		bf.Add(c)
		masks = append(masks, elemMask{c: c, bf: bf, t: bf.Weight()})
	}

	elements := make([][]EfficientBit, len(masks))
	for ei, em := range masks {
		bits := make([]EfficientBit, s.M)
		for l := 0; l < s.M; l++ {
			a := s.Ops.Exp(usk.Fni, s.indexPoint(gid, l))
			gr := s.Ops.RandomPoint()

			var grho kyber.Point
			if em.bf.Bit(l) {
				grho = s.Ops.Exp(s.Ops.ScalarFromInt(int64(em.t)), gr)
			} else {
				grho = s.Ops.RandomPoint()
			}
			bits[l] = EfficientBit{Ct: suite.Point().Add(a, grho), Gr: gr}
		}
		elements[ei] = bits
	}

	bfSetCt := make([]kyber.Point, s.M)
	for l := 0; l < s.M; l++ {
		b := s.Ops.Exp(usk.Fi, s.indexPoint(gid, l))
		if !bfSet.Bit(l) {
			b = suite.Point().Add(b, s.Ops.RandomPoint())
		}
		bfSetCt[l] = b
	}

	return EfficientCt{BFSet: bfSetCt, Elements: elements}, nil
}

// Eval reconstructs, per bit, the Lagrange coefficient that zeroes
// f(0) in the exponent across the set-level filters, then tests each
// candidate element from the smallest client's set against that
// reconstructed bit pattern, returning the count of elements common to
// all n clients.
func (s *CardinalityEfficient) Eval(ctSets []EfficientCt) (int, error) {
	s.logger.Debugw("multiclient cardinality-efficient eval", "client_count", len(ctSets), "m", s.M, "k", s.K)
	if len(ctSets) != s.N {
		return 0, fmt.Errorf("%w: expected %d ciphertext sets, got %d", nipsi.ErrParameterMismatch, s.N, len(ctSets))
	}

	suite := s.Ops.Suite()

	smallest := 0
	for i := 1; i < len(ctSets); i++ {
		if len(ctSets[i].Elements) < len(ctSets[smallest].Elements) {
			smallest = i
		}
	}
	gamma := smallest + 1

	points := make([]kyber.Scalar, s.N+1)
	for i := 1; i <= s.N; i++ {
		points[i-1] = s.Ops.ScalarFromInt(int64(i))
	}
	points[s.N] = s.Ops.ScalarFromInt(int64(s.N + gamma))

	clientDeltas := make([]kyber.Scalar, s.N)
	for i := 0; i < s.N; i++ {
		clientDeltas[i] = poly.Delta(suite, points, s.Ops.ScalarFromInt(int64(i+1)))
	}
	delta := poly.Delta(suite, points, s.Ops.ScalarFromInt(int64(s.N+gamma)))

	aList := make([]kyber.Point, s.M)
	for l := 0; l < s.M; l++ {
		acc := s.Ops.Identity()
		for i := 0; i < s.N; i++ {
			acc = suite.Point().Add(acc, s.Ops.Exp(clientDeltas[i], ctSets[i].BFSet[l]))
		}
		aList[l] = acc
	}

	cardinality := 0
	for _, elem := range ctSets[smallest].Elements {
		var t int
		tKnown := false
		identicalCount := 0

		for l := 0; l < s.M; l++ {
			lhs := suite.Point().Add(s.Ops.Exp(delta, elem[l].Ct), aList[l])

			if !tKnown {
				for cand := s.K; cand >= 1; cand-- {
					exp := suite.Scalar().Mul(delta, s.Ops.ScalarFromInt(int64(cand)))
					rhs := s.Ops.Exp(exp, elem[l].Gr)
					if lhs.Equal(rhs) {
						t = cand
						tKnown = true
						identicalCount = 1
						break
					}
				}
			} else {
				exp := suite.Scalar().Mul(delta, s.Ops.ScalarFromInt(int64(t)))
				rhs := s.Ops.Exp(exp, elem[l].Gr)
				if lhs.Equal(rhs) {
					identicalCount++
					if identicalCount == t {
						cardinality++
						break
					}
				}
			}
		}
		if !tKnown {
			s.logger.Warnw("element never resolved a bit weight within k candidates: "+
				"none of its bits is set in every client's set filter", "k", s.K)
		}
	}

	return cardinality, nil
}
