package twoclient

import (
	"crypto/sha256"

	"github.com/drand/kyber"

	"github.com/CRIPTIM/nipsi/group"
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

// hashBytes computes SHA-256(domain || ser).
func hashBytes(domain byte, ser []byte) [sha256.Size]byte {
	return sha256.Sum256(append([]byte{domain}, ser...))
}

// deriveAEKeyNonce maps a group element (a point: scheme 2's k or
// scheme 3's k1, or a scalar: scheme 3's c0) to an AEAD key/nonce pair via
// domain-separated SHA-256. Both kyber.Point and kyber.Scalar implement
// kyber.Marshaling, so one function serves both call sites.
func deriveAEKeyNonce(elem kyber.Marshaling) (key, nonce []byte, err error) {
	ser, err := group.Serialize(elem)
	if err != nil {
		return nil, nil, err
	}
	keyHash := hashBytes(0x00, ser)
	nonceHash := hashBytes(0x01, ser)
	return keyHash[:16], nonceHash[:12], nil
}

// hashElement returns only the AE key half of deriveAEKeyNonce, used
// where scheme 3 only needs a fixed key (AEAD_1, keyed by c0) and
// draws its own fresh nonce separately.
func hashElement(elem kyber.Marshaling) ([]byte, error) {
	key, _, err := deriveAEKeyNonce(elem)
	return key, err
}
