// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert_test

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
)

var testNotBefore = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)
var testNotAfter = time.Date(2034, time.December, 31, 23, 59, 59, 0, time.UTC)

func genKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err, "GenerateKey() error")
	return key
}

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "GenerateKey() error")
	return key
}

// baseTemplate returns a minimal leaf template with a fixed validity window
// so rendered timestamps are deterministic.
func baseTemplate(serial int64, cn string) *x509.Certificate {
	return &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    testNotBefore,
		NotAfter:     testNotAfter,
	}
}

// createDER signs tmpl with the signer's key. Self-signed when parent is nil.
func createDER(t *testing.T, tmpl, parent *x509.Certificate, pub crypto.PublicKey, signer crypto.Signer) []byte {
	t.Helper()
	if parent == nil {
		parent = tmpl
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, signer)
	require.NoError(t, err, "CreateCertificate() error")
	return der
}

// mustParse parses raw certificate bytes and schedules the release.
func mustParse(t *testing.T, data []byte) *x509cert.Certificate {
	t.Helper()
	cert, err := x509cert.Parse(data)
	require.NoError(t, err, "Parse() error")
	t.Cleanup(func() { cert.Release() })
	return cert
}

// selfSigned generates a key and a self-signed certificate in one step.
func selfSigned(t *testing.T, tmpl *x509.Certificate) (*x509cert.Certificate, *ecdsa.PrivateKey) {
	t.Helper()
	key := genKey(t)
	der := createDER(t, tmpl, nil, key.Public(), key)
	return mustParse(t, der), key
}

func pemEncode(blockType string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
}
