// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const (
	certBlockType = "CERTIFICATE"

	// trustedBlockType is the OpenSSL "trusted certificate" armor label. The
	// block body is the certificate DER followed by auxiliary trust data,
	// which this parser skips.
	trustedBlockType = "TRUSTED CERTIFICATE"
)

var (
	// ErrParse indicates that the input could not be decoded as a certificate
	// in any supported encoding. It always carries the PEM-stage diagnostic:
	// PEM is attempted first, and the first-attempted format's error is
	// authoritative even when the DER fallback also fails.
	ErrParse = errors.New("x509cert: failed to parse certificate")

	// ErrInvalidPEMBlock indicates that the input contains no PEM block.
	ErrInvalidPEMBlock = errors.New("x509cert: invalid PEM block")

	// ErrInvalidBlockType indicates a PEM block with an unexpected label.
	ErrInvalidBlockType = errors.New("x509cert: invalid block type")

	// ErrInvalidArgument indicates a malformed candidate name, email, or IP
	// supplied to an identity check, or a wrong key category supplied to a
	// chain-validation operation.
	ErrInvalidArgument = errors.New("x509cert: invalid argument")

	// ErrOperationFailed indicates an unexpected failure in an underlying
	// cryptographic primitive, distinct from a clean negative result.
	ErrOperationFailed = errors.New("x509cert: operation failed")
)

// Parse decodes a single certificate from PEM or DER bytes.
//
// PEM armor is attempted first: one CERTIFICATE (or TRUSTED CERTIFICATE,
// whose attached trust metadata is ignored) block is stripped from the input.
// If that fails, the same bytes are decoded as raw DER, then as a PKCS#7
// bundle from which the first certificate is taken. If every attempt fails,
// the returned error wraps [ErrParse] with the PEM-stage diagnostic.
//
// Construction is all-or-nothing: every derived field is computed here from
// the raw bytes and never mutated afterwards.
func Parse(data []byte) (*Certificate, error) {
	der, pemErr := decodePEMCertificate(data)
	if pemErr == nil {
		cert, err := x509.ParseCertificate(der)
		if err == nil {
			return build(cert)
		}
		pemErr = err
	}

	// Try as DER, but report the original PEM failure if it isn't DER.
	if cert, err := x509.ParseCertificate(data); err == nil {
		return build(cert)
	}

	// PKCS#7 bundles carry their certificates in SignedData.
	if p, err := pkcs7.ParsePKCS7(data); err == nil {
		if certs := p.Content.SignedData.Certificates; len(certs) > 0 {
			return build(certs[0])
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrParse, pemErr)
}

// decodePEMCertificate strips one certificate block from PEM input and
// returns its DER bytes. For trusted-certificate blocks only the leading
// certificate element is returned; the trailing aux data is dropped.
func decodePEMCertificate(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}

	switch block.Type {
	case certBlockType:
		return block.Bytes, nil
	case trustedBlockType:
		var elem cryptobyte.String
		in := cryptobyte.String(block.Bytes)
		if !in.ReadASN1Element(&elem, cbasn1.SEQUENCE) {
			return nil, fmt.Errorf("%w: malformed trusted certificate body", ErrInvalidBlockType)
		}
		return elem, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBlockType, block.Type)
	}
}

// build derives every projection field from a parsed certificate. No partial
// Certificate is ever observable: any derivation failure aborts construction.
func build(x *x509.Certificate) (*Certificate, error) {
	s := &shared{
		raw: x.Raw,
		x:   x,
	}

	var err error
	if s.subject, err = parseRDNSequence(x.RawSubject); err != nil {
		return nil, fmt.Errorf("%w: subject: %v", ErrParse, err)
	}
	if s.issuer, err = parseRDNSequence(x.RawIssuer); err != nil {
		return nil, fmt.Errorf("%w: issuer: %v", ErrParse, err)
	}

	for _, ext := range x.Extensions {
		switch {
		case ext.Id.Equal(oidExtensionSubjectAltName):
			if s.san, err = parseSANExtension(ext.Value); err != nil {
				return nil, fmt.Errorf("%w: subjectAltName: %v", ErrParse, err)
			}
			s.sanOK = true
		case ext.Id.Equal(oidExtensionAuthorityInfoAccess):
			if s.infoAcc, err = parseAIAExtension(ext.Value); err != nil {
				return nil, fmt.Errorf("%w: authorityInfoAccess: %v", ErrParse, err)
			}
			s.infoAccOK = true
		case ext.Id.Equal(oidExtensionBasicConstraints):
			s.basic = BasicConstraints{
				Present:    true,
				IsCA:       x.IsCA,
				MaxPathLen: x.MaxPathLen,
			}
			if x.MaxPathLen == 0 && !x.MaxPathLenZero {
				s.basic.MaxPathLen = -1
			}
		}
	}

	return newCertificate(s), nil
}
