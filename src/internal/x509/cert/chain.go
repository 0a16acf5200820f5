// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/go-pkix/certident/src/internal/x509/keyobject"
)

// signatureParams maps a declared signature algorithm to the hash and key
// family needed to verify it against a caller-supplied key.
type signatureParams struct {
	hash   crypto.Hash
	family keyobject.Algorithm
	pss    bool
}

var signatureAlgorithms = map[x509.SignatureAlgorithm]signatureParams{
	x509.SHA1WithRSA:      {crypto.SHA1, keyobject.AlgorithmRSA, false},
	x509.SHA256WithRSA:    {crypto.SHA256, keyobject.AlgorithmRSA, false},
	x509.SHA384WithRSA:    {crypto.SHA384, keyobject.AlgorithmRSA, false},
	x509.SHA512WithRSA:    {crypto.SHA512, keyobject.AlgorithmRSA, false},
	x509.SHA256WithRSAPSS: {crypto.SHA256, keyobject.AlgorithmRSA, true},
	x509.SHA384WithRSAPSS: {crypto.SHA384, keyobject.AlgorithmRSA, true},
	x509.SHA512WithRSAPSS: {crypto.SHA512, keyobject.AlgorithmRSA, true},
	x509.ECDSAWithSHA1:    {crypto.SHA1, keyobject.AlgorithmECDSA, false},
	x509.ECDSAWithSHA256:  {crypto.SHA256, keyobject.AlgorithmECDSA, false},
	x509.ECDSAWithSHA384:  {crypto.SHA384, keyobject.AlgorithmECDSA, false},
	x509.ECDSAWithSHA512:  {crypto.SHA512, keyobject.AlgorithmECDSA, false},
	x509.PureEd25519:      {0, keyobject.AlgorithmEd25519, false},
}

// IsCA reports whether basicConstraints marks the certificate as a CA.
func (c *Certificate) IsCA() bool {
	return c.s.basic.Present && c.s.basic.IsCA
}

// BasicConstraints returns the decoded basicConstraints extension.
func (c *Certificate) BasicConstraints() BasicConstraints { return c.s.basic }

// CheckIssuedBy reports whether this certificate was issued by issuer: the
// issuer name must equal issuer's subject name byte-for-byte, and the
// signature must verify against issuer's public key. Any structural mismatch
// is a plain false, never an error. Path-length consistency between the two
// certificates is deliberately not checked; this is a single-link primitive,
// not path validation.
func (c *Certificate) CheckIssuedBy(issuer *Certificate) bool {
	if !bytes.Equal(c.s.x.RawIssuer, issuer.s.x.RawSubject) {
		return false
	}
	return c.s.x.CheckSignatureFrom(issuer.s.x) == nil
}

// CheckPrivateKey reports whether the private key's public component equals
// the certificate's embedded public key. The comparison is
// algorithm-appropriate (modulus and exponent for RSA, curve and point for
// ECDSA, key bytes for Ed25519); mismatched key families compare false. An
// unsupported key object is an error wrapping [ErrInvalidArgument].
func (c *Certificate) CheckPrivateKey(priv crypto.PrivateKey) (bool, error) {
	pub, err := keyobject.FromPrivate(priv)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	certPub, err := c.PublicKey()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return certPub.Equal(pub), nil
}

// VerifySignature reports whether the certificate's signature validates
// against the supplied public key per the declared signature algorithm. A
// structurally compatible but non-matching signature is a plain false; a key
// whose type is fundamentally incompatible with the declared algorithm is an
// error wrapping [ErrOperationFailed].
func (c *Certificate) VerifySignature(key *keyobject.PublicKey) (bool, error) {
	params, known := signatureAlgorithms[c.s.x.SignatureAlgorithm]
	if !known {
		return false, fmt.Errorf("%w: unsupported signature algorithm %v",
			ErrOperationFailed, c.s.x.SignatureAlgorithm)
	}
	if key.Algorithm() != params.family {
		return false, fmt.Errorf("%w: %v key cannot verify %v signature",
			ErrOperationFailed, key.Algorithm(), c.s.x.SignatureAlgorithm)
	}

	signed := c.s.x.RawTBSCertificate
	sig := c.s.x.Signature

	switch params.family {
	case keyobject.AlgorithmRSA:
		pub := key.Key().(*rsa.PublicKey)
		h := params.hash.New()
		h.Write(signed)
		digest := h.Sum(nil)
		if params.pss {
			err := rsa.VerifyPSS(pub, params.hash, digest, sig,
				&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
			return err == nil, nil
		}
		return rsa.VerifyPKCS1v15(pub, params.hash, digest, sig) == nil, nil
	case keyobject.AlgorithmECDSA:
		pub := key.Key().(*ecdsa.PublicKey)
		h := params.hash.New()
		h.Write(signed)
		return ecdsa.VerifyASN1(pub, h.Sum(nil), sig), nil
	case keyobject.AlgorithmEd25519:
		pub := key.Key().(ed25519.PublicKey)
		return ed25519.Verify(pub, signed, sig), nil
	default:
		return false, fmt.Errorf("%w: unsupported key family", ErrOperationFailed)
	}
}

// EncodeChainPEM encodes an ordered chain (leaf first) to concatenated PEM.
func EncodeChainPEM(chain []*Certificate) []byte {
	var data []byte
	for _, cert := range chain {
		data = append(data, cert.Pem()...)
	}
	return data
}

// EncodeChainDER encodes an ordered chain (leaf first) to concatenated DER.
func EncodeChainDER(chain []*Certificate) []byte {
	var data []byte
	for _, cert := range chain {
		data = append(data, cert.Raw()...)
	}
	return data
}
