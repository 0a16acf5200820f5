// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"encoding/asn1"
	"errors"
	"fmt"
	"net"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidExtensionSubjectAltName      = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidExtensionBasicConstraints    = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidExtensionAuthorityInfoAccess = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}

	oidAccessMethodOCSP      = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1}
	oidAccessMethodCAIssuers = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 2}
)

// forEachGeneralName walks a GeneralNames sequence, invoking the callback
// with the context-specific tag number and contents of each entry.
func forEachGeneralName(der cryptobyte.String, callback func(tag int, data []byte) error) error {
	if !der.ReadASN1(&der, cbasn1.SEQUENCE) {
		return errors.New("invalid GeneralNames sequence")
	}
	for !der.Empty() {
		var name cryptobyte.String
		var tag cbasn1.Tag
		if !der.ReadAnyASN1(&name, &tag) {
			return errors.New("invalid GeneralName entry")
		}
		if err := callback(int(tag ^ 0x80), name); err != nil {
			return err
		}
	}
	return nil
}

// decodeGeneralName maps one GeneralName entry to its typed form. Entries
// with no textual projection are kept as NameTypeOther with an empty value.
func decodeGeneralName(tag int, data []byte) (GeneralName, error) {
	switch NameType(tag) {
	case NameTypeEmail, NameTypeDNS, NameTypeURI:
		if err := isIA5String(string(data)); err != nil {
			return GeneralName{}, err
		}
		return GeneralName{Type: NameType(tag), Value: string(data)}, nil
	case NameTypeIP:
		switch len(data) {
		case net.IPv4len, net.IPv6len:
			return GeneralName{Type: NameTypeIP, IP: append(net.IP(nil), data...)}, nil
		default:
			return GeneralName{}, fmt.Errorf("iPAddress with length %d", len(data))
		}
	default:
		return GeneralName{Type: NameTypeOther}, nil
	}
}

// parseSANExtension decodes the subjectAltName extension into its ordered
// typed entries, preserving the order across types.
func parseSANExtension(value []byte) ([]GeneralName, error) {
	var entries []GeneralName
	err := forEachGeneralName(cryptobyte.String(value), func(tag int, data []byte) error {
		gn, err := decodeGeneralName(tag, data)
		if err != nil {
			return err
		}
		entries = append(entries, gn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// parseAIAExtension decodes authorityInfoAccess into its ordered
// (method, location) pairs.
func parseAIAExtension(value []byte) ([]AccessDescription, error) {
	var out []AccessDescription
	der := cryptobyte.String(value)
	if !der.ReadASN1(&der, cbasn1.SEQUENCE) {
		return nil, errors.New("invalid authorityInfoAccess sequence")
	}
	for !der.Empty() {
		var ad cryptobyte.String
		if !der.ReadASN1(&ad, cbasn1.SEQUENCE) {
			return nil, errors.New("invalid AccessDescription")
		}
		var desc AccessDescription
		if !ad.ReadASN1ObjectIdentifier(&desc.Method) {
			return nil, errors.New("invalid access method")
		}
		var loc cryptobyte.String
		var tag cbasn1.Tag
		if !ad.ReadAnyASN1(&loc, &tag) {
			return nil, errors.New("invalid access location")
		}
		gn, err := decodeGeneralName(int(tag^0x80), loc)
		if err != nil {
			return nil, err
		}
		desc.Location = gn
		out = append(out, desc)
	}
	return out, nil
}

// isIA5String rejects contents outside the ASCII range.
func isIA5String(s string) error {
	for _, r := range s {
		if r >= utf8.RuneSelf {
			return fmt.Errorf("invalid IA5String %q", s)
		}
	}
	return nil
}
