// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"crypto/x509/pkix"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/go-pkix/certident/src/internal/helper/gc"
)

const (
	oidAttributeCommonName   = "2.5.4.3"
	oidAttributeEmailAddress = "1.2.840.113549.1.9.1"
)

// attributeNames maps distinguished-name attribute OIDs to the short names
// used in canonical renderings. Unknown types render as the dotted OID.
var attributeNames = map[string]string{
	oidAttributeCommonName:        "CN",
	"2.5.4.4":                     "SN",
	"2.5.4.5":                     "serialNumber",
	"2.5.4.6":                     "C",
	"2.5.4.7":                     "L",
	"2.5.4.8":                     "ST",
	"2.5.4.9":                     "street",
	"2.5.4.10":                    "O",
	"2.5.4.11":                    "OU",
	"2.5.4.12":                    "title",
	"2.5.4.17":                    "postalCode",
	"2.5.4.42":                    "GN",
	oidAttributeEmailAddress:      "emailAddress",
	"0.9.2342.19200300.100.1.1":   "UID",
	"0.9.2342.19200300.100.1.25":  "DC",
	"1.3.6.1.4.1.311.60.2.1.3":    "jurisdictionC",
	"2.5.4.15":                    "businessCategory",
}

// parseRDNSequence decodes a DER-encoded Name preserving encoding order.
// The standard library's pkix.Name drops ordering for multi-valued RDNs and
// renders reversed, so the sequence is walked directly.
func parseRDNSequence(raw []byte) (pkix.RDNSequence, error) {
	var inner cryptobyte.String
	input := cryptobyte.String(raw)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) {
		return nil, errors.New("invalid RDNSequence")
	}

	var seq pkix.RDNSequence
	for !inner.Empty() {
		var set cryptobyte.String
		if !inner.ReadASN1(&set, cbasn1.SET) {
			return nil, errors.New("invalid RDNSequence set")
		}

		var rdn pkix.RelativeDistinguishedNameSET
		for !set.Empty() {
			var atav cryptobyte.String
			if !set.ReadASN1(&atav, cbasn1.SEQUENCE) {
				return nil, errors.New("invalid AttributeTypeAndValue")
			}
			var attr pkix.AttributeTypeAndValue
			if !atav.ReadASN1ObjectIdentifier(&attr.Type) {
				return nil, errors.New("invalid attribute type")
			}
			var elem cryptobyte.String
			var tag cbasn1.Tag
			if !atav.ReadAnyASN1Element(&elem, &tag) {
				return nil, errors.New("invalid attribute value")
			}
			value, err := decodeAttributeValue(elem, tag)
			if err != nil {
				return nil, err
			}
			attr.Value = value
			rdn = append(rdn, attr)
		}
		seq = append(seq, rdn)
	}

	return seq, nil
}

// decodeAttributeValue turns one directory-string element into text. Value
// types without a textual mapping render as "#" plus the hex of the whole
// BER element, per RFC 2253.
func decodeAttributeValue(elem cryptobyte.String, tag cbasn1.Tag) (string, error) {
	var contents cryptobyte.String
	outer := cryptobyte.String(elem)
	if !outer.ReadAnyASN1(&contents, &tag) {
		return "", errors.New("invalid attribute value element")
	}

	switch tag {
	case cbasn1.PrintableString, cbasn1.IA5String:
		for _, b := range contents {
			if b >= utf8.RuneSelf {
				return "", fmt.Errorf("invalid %v contents", tag)
			}
		}
		return string(contents), nil
	case cbasn1.UTF8String:
		if !utf8.Valid(contents) {
			return "", errors.New("invalid UTF8String contents")
		}
		return string(contents), nil
	case cbasn1.T61String:
		// TeletexString in practice carries Latin-1; pass bytes through.
		return string(contents), nil
	case cbasn1.Tag(30): // BMPString
		if len(contents)%2 != 0 {
			return "", errors.New("invalid BMPString contents")
		}
		units := make([]uint16, 0, len(contents)/2)
		for i := 0; i < len(contents); i += 2 {
			units = append(units, uint16(contents[i])<<8|uint16(contents[i+1]))
		}
		return string(utf16.Decode(units)), nil
	default:
		return "#" + hex.EncodeToString(elem), nil
	}
}

// formatRDNSequence renders a name in encoding order: RDN sets joined by ",",
// multi-valued attributes within a set joined by "+", each attribute as
// type=value with reserved characters escaped. No re-sorting is applied.
func formatRDNSequence(seq pkix.RDNSequence) string {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for i, set := range seq {
		if i > 0 {
			buf.WriteString(",")
		}
		for j, atv := range set {
			if j > 0 {
				buf.WriteString("+")
			}
			buf.WriteString(attributeName(atv.Type.String()))
			buf.WriteString("=")
			if s, ok := atv.Value.(string); ok {
				buf.WriteString(escapeDNValue(s))
			}
		}
	}

	return buf.String()
}

// attributeName resolves an attribute OID to its short name, falling back to
// the dotted form.
func attributeName(oid string) string {
	if name, ok := attributeNames[oid]; ok {
		return name
	}
	return oid
}

// escapeDNValue escapes the RFC 2253 reserved characters: any of
// ,+"\<>; anywhere, '#' or space when leading, and space when trailing.
func escapeDNValue(v string) string {
	if v == "" {
		return v
	}

	var b strings.Builder
	for i, r := range v {
		switch {
		case strings.ContainsRune(`,+"\<>;`, r):
			b.WriteByte('\\')
		case i == 0 && (r == '#' || r == ' '):
			b.WriteByte('\\')
		case i == len(v)-1 && r == ' ':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
