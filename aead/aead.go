// Package aead wraps AES-128-GCM, built directly from crypto/aes +
// crypto/cipher the way drand's ecies package builds its own AEAD step
// rather than reaching for a higher-level AEAD library.
//
// Scheme 2 (twoclient.Intersection) derives its nonce deterministically
// from a group element; scheme 3 (twoclient.Threshold) draws a fresh
// nonce per Encrypt call. This package is agnostic to which: callers
// supply the nonce explicitly.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/CRIPTIM/nipsi"
)

// KeySize is the AES-128 key length.
const KeySize = 16

// NonceSize is the GCM nonce length.
const NonceSize = 12

// Seal encrypts pt under key and nonce, returning ciphertext with a
// 16-byte authentication tag appended (the standard cipher.AEAD.Seal
// layout).
func Seal(key, nonce, pt, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("aead: nonce must be %d bytes, got %d", gcm.NonceSize(), len(nonce))
	}
	return gcm.Seal(nil, nonce, pt, aad), nil
}

// Open decrypts and authenticates ct, returning nipsi.ErrAuthFail
// (wrapped) if the tag does not verify.
func Open(key, nonce, ct, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	pt, err := gcm.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nipsi.ErrAuthFail, err)
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aead: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aead: %w", err)
	}
	return gcm, nil
}
