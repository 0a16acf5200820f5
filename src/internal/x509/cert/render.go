// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"crypto"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/go-pkix/certident/src/internal/helper/gc"
)

// validityLayout mirrors OpenSSL's ASN1_TIME_print rendering, the shape
// consumers of the legacy view expect (e.g. "Nov 24 08:41:05 2025 GMT").
const validityLayout = "Jan _2 15:04:05 2006"

// keyUsageNames lists the keyUsage flag names in canonical bit order.
var keyUsageNames = []struct {
	usage x509.KeyUsage
	name  string
}{
	{x509.KeyUsageDigitalSignature, "digitalSignature"},
	{x509.KeyUsageContentCommitment, "nonRepudiation"},
	{x509.KeyUsageKeyEncipherment, "keyEncipherment"},
	{x509.KeyUsageDataEncipherment, "dataEncipherment"},
	{x509.KeyUsageKeyAgreement, "keyAgreement"},
	{x509.KeyUsageCertSign, "keyCertSign"},
	{x509.KeyUsageCRLSign, "cRLSign"},
	{x509.KeyUsageEncipherOnly, "encipherOnly"},
	{x509.KeyUsageDecipherOnly, "decipherOnly"},
}

// Subject returns the canonical subject name string in encoding order.
func (c *Certificate) Subject() string { return formatRDNSequence(c.s.subject) }

// Issuer returns the canonical issuer name string in encoding order.
func (c *Certificate) Issuer() string { return formatRDNSequence(c.s.issuer) }

// ValidFrom returns the notBefore timestamp in canonical textual form.
func (c *Certificate) ValidFrom() string { return formatValidity(c.s.x.NotBefore) }

// ValidTo returns the notAfter timestamp in canonical textual form.
func (c *Certificate) ValidTo() string { return formatValidity(c.s.x.NotAfter) }

// NotBefore returns the parsed notBefore time.
func (c *Certificate) NotBefore() time.Time { return c.s.x.NotBefore }

// NotAfter returns the parsed notAfter time.
func (c *Certificate) NotAfter() time.Time { return c.s.x.NotAfter }

func formatValidity(t time.Time) string {
	return t.UTC().Format(validityLayout) + " GMT"
}

// SerialNumber returns the serial as uppercase hex of its minimal big-endian
// byte representation, without separators or sign padding.
func (c *Certificate) SerialNumber() string {
	b := c.s.x.SerialNumber.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	for _, by := range b {
		buf.WriteString(fmt.Sprintf("%02X", by))
	}
	return buf.String()
}

// Fingerprint returns the digest of the raw DER encoding as colon-separated
// uppercase hex byte pairs. Supported digests are SHA-1 and SHA-256.
func (c *Certificate) Fingerprint(digest crypto.Hash) (string, error) {
	var sum []byte
	switch digest {
	case crypto.SHA1:
		h := sha1.Sum(c.s.raw)
		sum = h[:]
	case crypto.SHA256:
		h := sha256.Sum256(c.s.raw)
		sum = h[:]
	default:
		return "", fmt.Errorf("%w: unsupported fingerprint digest %v", ErrInvalidArgument, digest)
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	for i, b := range sum {
		if i > 0 {
			buf.WriteByte(':')
		}
		buf.WriteString(fmt.Sprintf("%02X", b))
	}
	return buf.String(), nil
}

// KeyUsage returns the names of the set keyUsage flags in canonical order.
// It returns nil when the extension is absent.
func (c *Certificate) KeyUsage() []string {
	if c.s.x.KeyUsage == 0 {
		return nil
	}
	var out []string
	for _, ku := range keyUsageNames {
		if c.s.x.KeyUsage&ku.usage != 0 {
			out = append(out, ku.name)
		}
	}
	return out
}

// SubjectAltName returns the canonical textual rendering of the
// subjectAltName extension. ok is false when the extension is absent, which
// is not an error.
func (c *Certificate) SubjectAltName() (text string, ok bool) {
	if !c.s.sanOK {
		return "", false
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	for i, gn := range c.s.san {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(formatGeneralName(gn))
	}
	return buf.String(), true
}

// InfoAccess returns the canonical textual rendering of the
// authorityInfoAccess extension, one access description per line. ok is
// false when the extension is absent.
func (c *Certificate) InfoAccess() (text string, ok bool) {
	if !c.s.infoAccOK {
		return "", false
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	for i, ad := range c.s.infoAcc {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(accessMethodName(ad.Method))
		buf.WriteString(" - ")
		buf.WriteString(formatGeneralName(ad.Location))
	}
	return buf.String(), true
}

// formatGeneralName renders one entry the way OpenSSL's GENERAL_NAME_print
// does for the types this model carries.
func formatGeneralName(gn GeneralName) string {
	switch gn.Type {
	case NameTypeDNS:
		return "DNS:" + gn.Value
	case NameTypeEmail:
		return "email:" + gn.Value
	case NameTypeURI:
		return "URI:" + gn.Value
	case NameTypeIP:
		return "IP Address:" + gn.IP.String()
	default:
		return "othername:<unsupported>"
	}
}

func accessMethodName(oid asn1.ObjectIdentifier) string {
	switch {
	case oid.Equal(oidAccessMethodOCSP):
		return "OCSP"
	case oid.Equal(oidAccessMethodCAIssuers):
		return "CA Issuers"
	default:
		return oid.String()
	}
}

// LegacyView is the flat field bundle exposed to compatibility consumers
// that expect a single record rather than individual accessors.
type LegacyView struct {
	Subject        string   `json:"subject"`
	Issuer         string   `json:"issuer"`
	SubjectAltName string   `json:"subjectaltname,omitempty"`
	InfoAccess     string   `json:"infoAccess,omitempty"`
	ValidFrom      string   `json:"valid_from"`
	ValidTo        string   `json:"valid_to"`
	SerialNumber   string   `json:"serialNumber"`
	Fingerprint    string   `json:"fingerprint"`
	Fingerprint256 string   `json:"fingerprint256"`
	KeyUsage       []string `json:"keyUsage,omitempty"`
	CA             bool     `json:"ca"`
	PublicKeyAlgo  string   `json:"publicKeyAlgorithm"`
	Raw            []byte   `json:"raw"`
}

// ToLegacyView assembles the flat compatibility record from the individual
// projections.
func (c *Certificate) ToLegacyView() (*LegacyView, error) {
	fp, err := c.Fingerprint(crypto.SHA1)
	if err != nil {
		return nil, err
	}
	fp256, err := c.Fingerprint(crypto.SHA256)
	if err != nil {
		return nil, err
	}

	view := &LegacyView{
		Subject:        c.Subject(),
		Issuer:         c.Issuer(),
		ValidFrom:      c.ValidFrom(),
		ValidTo:        c.ValidTo(),
		SerialNumber:   c.SerialNumber(),
		Fingerprint:    fp,
		Fingerprint256: fp256,
		KeyUsage:       c.KeyUsage(),
		CA:             c.IsCA(),
		PublicKeyAlgo:  c.s.x.PublicKeyAlgorithm.String(),
		Raw:            c.Raw(),
	}
	if san, ok := c.SubjectAltName(); ok {
		view.SubjectAltName = san
	}
	if aia, ok := c.InfoAccess(); ok {
		view.InfoAccess = aia
	}
	return view, nil
}
