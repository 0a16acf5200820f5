// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"

	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
)

// ErrNoCertificate indicates the connection presented no certificate.
var ErrNoCertificate = errors.New("x509transport: no certificate available")

// Conn is the transport collaborator surface this package consumes: accessors
// for the connection's own certificate and the peer's presented chain.
type Conn interface {
	// LocalCertificate returns the certificate the connection presents
	// itself, or nil when none is configured.
	LocalCertificate() *tls.Certificate
	// PeerCertificates returns the peer's presented chain, leaf first. The
	// returned slice and its contents remain owned by the connection.
	PeerCertificates() []*x509.Certificate
}

// Local wraps the connection's own certificate. The leaf's raw bytes are
// copied before parsing, so the result outlives the connection.
func Local(conn Conn) (*x509cert.Certificate, error) {
	local := conn.LocalCertificate()
	if local == nil || len(local.Certificate) == 0 {
		return nil, ErrNoCertificate
	}
	return x509cert.Parse(append([]byte(nil), local.Certificate[0]...))
}

// PeerChain wraps the peer's presented chain, leaf first. Every certificate
// beyond the one the connection directly owns is defensively duplicated
// (copied raw bytes, independent parse), since the connection may deallocate
// its chain storage after this call returns. When abbreviated is true only
// the leaf is returned.
func PeerChain(conn Conn, abbreviated bool) ([]*x509cert.Certificate, error) {
	peers := conn.PeerCertificates()
	if len(peers) == 0 {
		return nil, ErrNoCertificate
	}

	chain := make([]*x509cert.Certificate, 0, len(peers))
	leaf, err := x509cert.Parse(append([]byte(nil), peers[0].Raw...))
	if err != nil {
		return nil, err
	}
	chain = append(chain, leaf)

	if abbreviated {
		return chain, nil
	}
	for _, peer := range peers[1:] {
		cert, err := x509cert.Parse(append([]byte(nil), peer.Raw...))
		if err != nil {
			releaseAll(chain)
			return nil, err
		}
		chain = append(chain, cert)
	}
	return chain, nil
}

func releaseAll(chain []*x509cert.Certificate) {
	for _, cert := range chain {
		cert.Release()
	}
}

// StateConn adapts a captured tls.ConnectionState (plus the locally
// configured certificate, when known) to the Conn surface.
type StateConn struct {
	State tls.ConnectionState
	Cert  *tls.Certificate
}

// LocalCertificate returns the locally configured certificate, if any.
func (s StateConn) LocalCertificate() *tls.Certificate { return s.Cert }

// PeerCertificates returns the peer chain captured in the connection state.
func (s StateConn) PeerCertificates() []*x509.Certificate { return s.State.PeerCertificates }
