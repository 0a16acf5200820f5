// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"net"
	"sync/atomic"

	"github.com/go-pkix/certident/src/internal/x509/keyobject"
)

// NameType identifies the kind of a subjectAltName general-name entry.
// The values follow the GeneralName context-specific tag numbers.
type NameType int

const (
	// NameTypeOther is an otherName entry.
	NameTypeOther NameType = 0
	// NameTypeEmail is an rfc822Name entry.
	NameTypeEmail NameType = 1
	// NameTypeDNS is a dNSName entry.
	NameTypeDNS NameType = 2
	// NameTypeURI is a uniformResourceIdentifier entry.
	NameTypeURI NameType = 6
	// NameTypeIP is an iPAddress entry.
	NameTypeIP NameType = 7
)

// GeneralName is a single typed subjectAltName entry, preserved in the order
// it appears in the extension.
type GeneralName struct {
	Type NameType
	// Value holds the textual form for DNS, email, and URI entries.
	Value string
	// IP holds the address octets for iPAddress entries.
	IP net.IP
}

// AccessDescription is a single authorityInfoAccess (method, location) pair.
type AccessDescription struct {
	Method   asn1.ObjectIdentifier
	Location GeneralName
}

// BasicConstraints carries the decoded basicConstraints extension.
type BasicConstraints struct {
	Present bool
	IsCA    bool
	// MaxPathLen is the path length bound, or -1 when absent.
	MaxPathLen int
}

// shared is the immutable parsed certificate state referenced by every
// Certificate handle pointing at the same underlying bytes.
type shared struct {
	raw []byte // DER encoding, source of truth
	x   *x509.Certificate

	subject pkix.RDNSequence // encoding order
	issuer  pkix.RDNSequence // encoding order

	san       []GeneralName
	sanOK     bool
	infoAcc   []AccessDescription
	infoAccOK bool
	basic     BasicConstraints
}

// Certificate is an immutable parsed [X.509] certificate with shared
// ownership. Multiple handles may reference the same parsed structure; the
// reference count is maintained atomically so handles can be duplicated and
// released from any goroutine.
//
// All fields are derived once at parse time from the raw DER bytes and never
// mutated afterwards, so every read operation is safe for unsynchronized
// concurrent use.
//
// [X.509]: https://grokipedia.com/page/X.509
type Certificate struct {
	refs *atomic.Int64
	s    *shared
}

// newCertificate wraps parsed state in a handle with a reference count of one.
func newCertificate(s *shared) *Certificate {
	refs := new(atomic.Int64)
	refs.Store(1)
	return &Certificate{refs: refs, s: s}
}

// Clone returns a new handle sharing the same parsed data. The underlying
// structure is not re-parsed; only the reference count is incremented.
func (c *Certificate) Clone() *Certificate {
	c.refs.Add(1)
	return &Certificate{refs: c.refs, s: c.s}
}

// Release drops this handle's reference. It returns the remaining count,
// which reaches zero when the last holder releases the certificate.
func (c *Certificate) Release() int64 {
	return c.refs.Add(-1)
}

// Refs reports the current number of live handles.
func (c *Certificate) Refs() int64 { return c.refs.Load() }

// Raw returns a copy of the DER encoding.
func (c *Certificate) Raw() []byte {
	return append([]byte(nil), c.s.raw...)
}

// Pem returns the PEM armor of the DER encoding.
func (c *Certificate) Pem() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: certBlockType, Bytes: c.s.raw})
}

// PublicKey returns a key-object handle wrapping the embedded public key.
func (c *Certificate) PublicKey() (*keyobject.PublicKey, error) {
	return keyobject.NewPublic(c.s.x.PublicKey)
}

// X509 exposes the underlying standard-library certificate for consumers that
// need fields outside this package's projection surface. The returned value
// must be treated as read-only.
func (c *Certificate) X509() *x509.Certificate { return c.s.x }

// sanEntries returns the ordered subjectAltName entries of the given type.
func (c *Certificate) sanEntries(t NameType) []GeneralName {
	if !c.s.sanOK {
		return nil
	}
	var out []GeneralName
	for _, gn := range c.s.san {
		if gn.Type == t {
			out = append(out, gn)
		}
	}
	return out
}

// subjectValues returns the values of the given attribute type from the
// subject name, in encoding order.
func (c *Certificate) subjectValues(oid string) []string {
	var out []string
	for _, set := range c.s.subject {
		for _, atv := range set {
			if atv.Type.String() != oid {
				continue
			}
			if s, ok := atv.Value.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
