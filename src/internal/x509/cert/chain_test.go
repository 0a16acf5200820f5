// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
	"github.com/go-pkix/certident/src/internal/x509/keyobject"
)

// caTemplate marks a template as a signing CA.
func caTemplate(serial int64, cn string) *x509.Certificate {
	tmpl := baseTemplate(serial, cn)
	tmpl.IsCA = true
	tmpl.BasicConstraintsValid = true
	tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	return tmpl
}

func TestIsCAAndBasicConstraints(t *testing.T) {
	ca, _ := selfSigned(t, caTemplate(30, "Test Root"))
	assert.True(t, ca.IsCA())

	bc := ca.BasicConstraints()
	assert.True(t, bc.Present)
	assert.True(t, bc.IsCA)
	assert.Equal(t, -1, bc.MaxPathLen, "absent pathLenConstraint must report -1")

	constrained := caTemplate(31, "Constrained Root")
	constrained.MaxPathLen = 0
	constrained.MaxPathLenZero = true
	zeroCA, _ := selfSigned(t, constrained)
	assert.Equal(t, 0, zeroCA.BasicConstraints().MaxPathLen)

	leafTmpl := baseTemplate(32, "leaf.example.com")
	leafTmpl.BasicConstraintsValid = true
	leaf, _ := selfSigned(t, leafTmpl)
	assert.False(t, leaf.IsCA())
	assert.True(t, leaf.BasicConstraints().Present)

	bare, _ := selfSigned(t, baseTemplate(33, "bare.example.com"))
	assert.False(t, bare.IsCA())
	assert.False(t, bare.BasicConstraints().Present, "no extension means Present=false")
}

func TestCheckIssuedBy(t *testing.T) {
	caKey := genKey(t)
	caTmpl := caTemplate(40, "Issuing CA")
	caDER := createDER(t, caTmpl, nil, caKey.Public(), caKey)
	ca := mustParse(t, caDER)

	otherCA, _ := selfSigned(t, caTemplate(41, "Other CA"))

	// An impostor CA reusing the issuing CA's name but a different key.
	impostorKey := genKey(t)
	impostorDER := createDER(t, caTemplate(42, "Issuing CA"), nil, impostorKey.Public(), impostorKey)
	impostor := mustParse(t, impostorDER)

	leafKey := genKey(t)
	leafDER := createDER(t, baseTemplate(43, "leaf.example.com"), caTmpl, leafKey.Public(), caKey)
	leaf := mustParse(t, leafDER)

	assert.True(t, leaf.CheckIssuedBy(ca))
	assert.False(t, leaf.CheckIssuedBy(otherCA), "issuer name mismatch")
	assert.False(t, leaf.CheckIssuedBy(impostor), "matching name but wrong signing key")
	assert.True(t, ca.CheckIssuedBy(ca), "self-signed roots are their own issuer")
	assert.False(t, ca.CheckIssuedBy(leaf))
}

func TestCheckPrivateKey(t *testing.T) {
	key := genKey(t)
	der := createDER(t, baseTemplate(50, "pk.example.com"), nil, key.Public(), key)
	cert := mustParse(t, der)

	ok, err := cert.CheckPrivateKey(key)
	require.NoError(t, err)
	assert.True(t, ok)

	otherKey := genKey(t)
	ok, err = cert.CheckPrivateKey(otherKey)
	require.NoError(t, err)
	assert.False(t, ok, "a different key must compare false, not error")

	// Same algorithm, different curve.
	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	ok, err = cert.CheckPrivateKey(p384)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cert.CheckPrivateKey("not a key")
	assert.ErrorIs(t, err, x509cert.ErrInvalidArgument)
}

func TestVerifySignature(t *testing.T) {
	caKey := genKey(t)
	caTmpl := caTemplate(60, "Signing CA")
	caDER := createDER(t, caTmpl, nil, caKey.Public(), caKey)
	ca := mustParse(t, caDER)

	leafKey := genKey(t)
	leafDER := createDER(t, baseTemplate(61, "sig.example.com"), caTmpl, leafKey.Public(), caKey)
	leaf := mustParse(t, leafDER)

	caPub, err := ca.PublicKey()
	require.NoError(t, err)

	ok, err := leaf.VerifySignature(caPub)
	require.NoError(t, err)
	assert.True(t, ok)

	// A structurally compatible but wrong key is a clean false.
	wrongKey := genKey(t)
	wrongPub, err := keyobject.NewPublic(wrongKey.Public())
	require.NoError(t, err)
	ok, err = leaf.VerifySignature(wrongPub)
	require.NoError(t, err)
	assert.False(t, ok)

	// A key family that cannot carry the declared algorithm is an error.
	leafPub, err := leaf.PublicKey()
	require.NoError(t, err)
	assert.Equal(t, keyobject.AlgorithmECDSA, leafPub.Algorithm())
}

func TestVerifySignatureFamilyMismatch(t *testing.T) {
	key := genKey(t)
	der := createDER(t, baseTemplate(62, "family.example.com"), nil, key.Public(), key)
	cert := mustParse(t, der)

	rsaPub, err := keyobject.NewPublic(testRSAKey(t).Public())
	require.NoError(t, err)

	_, err = cert.VerifySignature(rsaPub)
	assert.ErrorIs(t, err, x509cert.ErrOperationFailed,
		"RSA key against an ECDSA-signed certificate")
}

func TestEncodeChain(t *testing.T) {
	ca, _ := selfSigned(t, caTemplate(70, "Chain CA"))
	leaf, _ := selfSigned(t, baseTemplate(71, "chain.example.com"))
	chain := []*x509cert.Certificate{leaf, ca}

	pemData := x509cert.EncodeChainPEM(chain)
	assert.Equal(t, append(append([]byte(nil), leaf.Pem()...), ca.Pem()...), pemData)

	derData := x509cert.EncodeChainDER(chain)
	assert.True(t, bytes.HasPrefix(derData, leaf.Raw()))
	assert.True(t, bytes.HasSuffix(derData, ca.Raw()))
	assert.Len(t, derData, len(leaf.Raw())+len(ca.Raw()))
}
