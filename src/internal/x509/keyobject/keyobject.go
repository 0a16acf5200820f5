// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keyobject

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
)

// Algorithm identifies the key family of a key object.
type Algorithm string

const (
	AlgorithmRSA     Algorithm = "RSA"
	AlgorithmECDSA   Algorithm = "ECDSA"
	AlgorithmEd25519 Algorithm = "Ed25519"
)

// ErrUnsupportedKey indicates a key type outside the supported families.
var ErrUnsupportedKey = errors.New("keyobject: unsupported key type")

// PublicKey is an opaque handle over asymmetric public key material. It
// exposes the two operations the certificate core needs from the key layer:
// key-material equality and signature verification, plus the algorithm
// identifier and raw encoding for callers that serialize keys.
type PublicKey struct {
	key  crypto.PublicKey
	algo Algorithm
}

// NewPublic wraps a public key, rejecting unsupported families.
func NewPublic(key crypto.PublicKey) (*PublicKey, error) {
	switch key.(type) {
	case *rsa.PublicKey:
		return &PublicKey{key: key, algo: AlgorithmRSA}, nil
	case *ecdsa.PublicKey:
		return &PublicKey{key: key, algo: AlgorithmECDSA}, nil
	case ed25519.PublicKey:
		return &PublicKey{key: key, algo: AlgorithmEd25519}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

// FromPrivate derives the public-key handle from a private key.
func FromPrivate(priv crypto.PrivateKey) (*PublicKey, error) {
	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, priv)
	}
	return NewPublic(signer.Public())
}

// Algorithm returns the key family identifier.
func (k *PublicKey) Algorithm() Algorithm { return k.algo }

// Key returns the wrapped standard-library key.
func (k *PublicKey) Key() crypto.PublicKey { return k.key }

// Material returns the PKIX DER encoding of the key material.
func (k *PublicKey) Material() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(k.key)
}

// Equal reports key-material equality. The comparison is
// algorithm-appropriate: modulus and exponent for RSA, curve and point for
// ECDSA, key bytes for Ed25519. Mismatched families compare false.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if other == nil || k.algo != other.algo {
		return false
	}
	type equaler interface {
		Equal(crypto.PublicKey) bool
	}
	eq, ok := k.key.(equaler)
	return ok && eq.Equal(other.key)
}
