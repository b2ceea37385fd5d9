package twoclient

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/drand/kyber"

	"github.com/CRIPTIM/nipsi"
	"github.com/CRIPTIM/nipsi/aead"
	"github.com/CRIPTIM/nipsi/group"
	"github.com/CRIPTIM/nipsi/internal/log"
	"github.com/CRIPTIM/nipsi/poly"
	"github.com/CRIPTIM/nipsi/prf"
)

// ThresholdUsk holds one client's three independent PRF keys plus its
// share of the split sigma exponent (as in Intersection) and rho
// exponent (the threshold-gating mask).
type ThresholdUsk struct {
	Sk1, Sk2, Sk3 []byte
	Sigma         kyber.Scalar
	Rho           kyber.Scalar
}

// ThresholdCt is one plaintext element's ciphertext tuple, keyed
// externally by the serialized k2 value (ct1).
type ThresholdCt struct {
	Ct2       []byte // serialize(f(k2)^rho mod q)
	Ct3Nonce  []byte // ae1_nonce, fixed per Encrypt call
	Ct3       []byte // AEAD_1(k1^sigma)
	Ct4Nonce  []byte // fresh per element
	Ct4       []byte // AEAD_2(pt)
}

// ThresholdCtSet maps serialize(k2) to its ThresholdCt.
type ThresholdCtSet map[string]ThresholdCt

// Threshold is the Two-Client Threshold Set Intersect scheme: it
// always reveals the intersection cardinality, but reveals
// the plaintext intersection only once that cardinality reaches the
// configured threshold t. The t-out-of-2 gating is algebraic: the
// Shamir constant term c0 (which unlocks the AEAD wrapping k1^sigma)
// is only Lagrange-reconstructible from >= t shared elements.
type Threshold struct {
	Ops    *group.Ops
	T      int
	logger log.Logger
}

// NewThreshold constructs scheme #3 against a fresh group instance. A
// nil logger falls back to log.DefaultLogger().
func NewThreshold(logger log.Logger) *Threshold {
	return &Threshold{Ops: group.New(), logger: orDefaultLogger(logger)}
}

// Setup draws sigma (split as in Intersection) and rho (split so that
// rho1+rho2 == 1 mod q-1, the multiplicative order of Z_q*), plus
// three independent PRF keys shared verbatim by both clients.
func (s *Threshold) Setup(secpar, threshold int) (usk0, usk1 ThresholdUsk, err error) {
	s.logger.Debugw("threshold setup", "secpar", secpar, "threshold", threshold)
	if threshold <= 0 {
		return ThresholdUsk{}, ThresholdUsk{}, fmt.Errorf("%w: threshold must be positive", nipsi.ErrInvalidArgument)
	}
	s.T = threshold

	sk1, err := randomBytes(secpar)
	if err != nil {
		return ThresholdUsk{}, ThresholdUsk{}, err
	}
	sk2, err := randomBytes(secpar)
	if err != nil {
		return ThresholdUsk{}, ThresholdUsk{}, err
	}
	sk3, err := randomBytes(secpar)
	if err != nil {
		return ThresholdUsk{}, ThresholdUsk{}, err
	}

	sigma := s.Ops.RandomScalar()
	one := s.Ops.Suite().Scalar().One()
	oneMinusSigma := s.Ops.Suite().Scalar().Sub(one, sigma)

	rho1 := s.Ops.RandomScalar()
	qMinus1 := new(big.Int).Sub(s.Ops.Order(), big.NewInt(1))
	rho1Big, err := poly.ScalarToBigInt(rho1)
	if err != nil {
		return ThresholdUsk{}, ThresholdUsk{}, err
	}
	rho2Big := new(big.Int).Mod(new(big.Int).Sub(big.NewInt(1), rho1Big), qMinus1)
	rho2 := poly.BigIntToScalar(s.Ops.Suite(), rho2Big)

	return ThresholdUsk{Sk1: sk1, Sk2: sk2, Sk3: sk3, Sigma: sigma, Rho: rho1},
		ThresholdUsk{Sk1: sk1, Sk2: sk2, Sk3: sk3, Sigma: oneMinusSigma, Rho: rho2}, nil
}

// coefficients derives the gid-deterministic Shamir polynomial
// coefficients c_0..c_{t-1} from sk3, the same on both clients.
func (s *Threshold) coefficients(sk3 []byte, gid nipsi.Gid) ([]kyber.Scalar, error) {
	cs := make([]kyber.Scalar, s.T)
	for j := 0; j < s.T; j++ {
		var jb [16]byte
		binary.BigEndian.PutUint64(jb[8:], uint64(j))
		out, err := prf.Eval(sk3, gid[:], jb[:])
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold coefficients: %w", err)
		}
		cs[j] = s.Ops.ScalarFromBytes(out)
	}
	return cs, nil
}

// Encrypt builds one ciphertext entry per plaintext element.
func (s *Threshold) Encrypt(usk ThresholdUsk, gid nipsi.Gid, ptSet [][]byte) (ThresholdCtSet, error) {
	s.logger.Debugw("threshold encrypt", "gid", gid, "set_size", len(ptSet))
	cs, err := s.coefficients(usk.Sk3, gid)
	if err != nil {
		return nil, err
	}

	ae1Key, err := hashElement(cs[0])
	if err != nil {
		return nil, err
	}
	ae1Nonce := make([]byte, aead.NonceSize)
	if _, err := rand.Read(ae1Nonce); err != nil {
		return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
	}

	out := make(ThresholdCtSet, len(ptSet))
	suite := s.Ops.Suite()
	q := s.Ops.Order()

	for _, pt := range ptSet {
		k1Out, err := prf.Eval(usk.Sk1, gid[:], pt)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}
		k1 := s.Ops.Exp(s.Ops.ScalarFromBytes(k1Out), nil)

		k2Out, err := prf.Eval(usk.Sk2, gid[:], pt)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}
		k2 := s.Ops.ScalarFromBytes(k2Out)

		ct1, err := group.Serialize(k2)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}

		fk2 := poly.EvalScalar(suite, cs, k2)
		fk2Rho, err := poly.ModPow(suite, fk2, usk.Rho, q)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}
		ct2, err := group.Serialize(fk2Rho)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}

		k1Sigma := s.Ops.Exp(usk.Sigma, k1)
		k1SigmaBytes, err := group.Serialize(k1Sigma)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}
		ct3, err := aead.Seal(ae1Key, ae1Nonce, k1SigmaBytes, nil)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}

		ae2Key, err := hashElement(k1)
		if err != nil {
			return nil, err
		}
		ae2Nonce := make([]byte, aead.NonceSize)
		if _, err := rand.Read(ae2Nonce); err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}
		ct4, err := aead.Seal(ae2Key, ae2Nonce, pt, nil)
		if err != nil {
			return nil, fmt.Errorf("twoclient: threshold encrypt: %w", err)
		}

		out[string(ct1)] = ThresholdCt{
			Ct2: ct2, Ct3Nonce: ae1Nonce, Ct3: ct3, Ct4Nonce: ae2Nonce, Ct4: ct4,
		}
	}
	return out, nil
}

// ThresholdResult is eval's split output: cardinality is always
// populated; Intersection is populated only when cardinality >= t.
// Below-threshold is reported as an empty intersection, not an error,
// since it is an expected outcome rather than a failure.
type ThresholdResult struct {
	Cardinality  int
	Intersection map[string][]byte
}

// Eval performs the threshold-gated reconstruction.
func (s *Threshold) Eval(ctSets [2]ThresholdCtSet) (ThresholdResult, error) {
	s.logger.Debugw("threshold eval", "set0_size", len(ctSets[0]), "set1_size", len(ctSets[1]))
	common := make([]string, 0)
	for k := range ctSets[0] {
		if _, ok := ctSets[1][k]; ok {
			common = append(common, k)
		}
	}

	result := ThresholdResult{Cardinality: len(common)}
	if result.Cardinality < s.T {
		s.logger.Warnw("threshold not met, degrading to cardinality-only result",
			"cardinality", result.Cardinality, "threshold", s.T)
		return result, nil
	}

	suite := s.Ops.Suite()
	q := s.Ops.Order()

	xs := make([]kyber.Scalar, 0, s.T)
	ys := make([]kyber.Scalar, 0, s.T)
	for _, k := range common[:s.T] {
		x, err := s.Ops.DeserializeScalar([]byte(k))
		if err != nil {
			return ThresholdResult{}, err
		}
		y0, err := s.Ops.DeserializeScalar(ctSets[0][k].Ct2)
		if err != nil {
			return ThresholdResult{}, err
		}
		y1, err := s.Ops.DeserializeScalar(ctSets[1][k].Ct2)
		if err != nil {
			return ThresholdResult{}, err
		}
		y, err := poly.ModMul(suite, y0, y1, q)
		if err != nil {
			return ThresholdResult{}, err
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	c0 := poly.Reconstruct0(suite, xs, ys)

	ae1Key, err := hashElement(c0)
	if err != nil {
		return ThresholdResult{}, err
	}

	intersection := make(map[string][]byte, result.Cardinality)
	for _, k := range common {
		entry0, entry1 := ctSets[0][k], ctSets[1][k]

		pt1, err := aead.Open(ae1Key, entry0.Ct3Nonce, entry0.Ct3, nil)
		if err != nil {
			return ThresholdResult{}, fmt.Errorf("twoclient: threshold eval: %w", err)
		}
		pt2, err := aead.Open(ae1Key, entry1.Ct3Nonce, entry1.Ct3, nil)
		if err != nil {
			return ThresholdResult{}, fmt.Errorf("twoclient: threshold eval: %w", err)
		}
		g1, err := s.Ops.DeserializePoint(pt1)
		if err != nil {
			return ThresholdResult{}, err
		}
		g2, err := s.Ops.DeserializePoint(pt2)
		if err != nil {
			return ThresholdResult{}, err
		}
		k1 := suite.Point().Add(g1, g2)

		ae2Key, err := hashElement(k1)
		if err != nil {
			return ThresholdResult{}, err
		}
		pt, err := aead.Open(ae2Key, entry0.Ct4Nonce, entry0.Ct4, nil)
		if err != nil {
			return ThresholdResult{}, fmt.Errorf("twoclient: threshold eval: %w", err)
		}
		intersection[k] = pt
	}
	result.Intersection = intersection
	return result, nil
}
