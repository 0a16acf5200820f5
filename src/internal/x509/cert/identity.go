// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

import (
	"bytes"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// CheckFlags gates identity verification behavior. The bit assignments and
// semantics follow OpenSSL's X509_CHECK_FLAG constants.
type CheckFlags uint32

const (
	// AlwaysCheckSubject also considers the subject CN (or emailAddress) even
	// when subjectAltName entries of the relevant type exist.
	AlwaysCheckSubject CheckFlags = 1 << iota
	// NeverCheckSubject never considers the subject, even as a fallback when
	// no subjectAltName entries of the relevant type exist.
	NeverCheckSubject
	// NoWildcards disables all wildcard interpretation in DNS matching;
	// wildcard entries then require a literal match.
	NoWildcards
	// NoPartialWildcards rejects entries whose wildcard is not the entire
	// left-most label (e.g. "www*.example.com").
	NoPartialWildcards
	// MultiLabelWildcards permits patterns with a run of wildcard labels
	// ("*.*.example.com") that are otherwise rejected. Each wildcard label
	// still matches exactly one candidate label.
	MultiLabelWildcards
	// SingleLabelSubdomains makes leading-dot entries (".example.com") match
	// candidates with exactly one additional left-most label.
	SingleLabelSubdomains
)

// CheckHost verifies name against the certificate's DNS identities per
// RFC 6125/RFC 2818 semantics.
//
// When DNS-type subjectAltName entries exist they are matched exclusively,
// unless AlwaysCheckSubject also brings in the subject CN; with no DNS
// entries the subject CN is the fallback unless NeverCheckSubject. The
// comparison is ASCII case-insensitive; a wildcard label matches exactly one
// non-empty candidate label and never spans labels.
//
// On success it returns the matching presented entry's exact text, which may
// differ in case from name. A clean non-match returns ok=false with a nil
// error; a malformed name returns an error wrapping [ErrInvalidArgument].
func (c *Certificate) CheckHost(name string, flags CheckFlags) (matched string, ok bool, err error) {
	candidate, err := normalizeHostCandidate(name)
	if err != nil {
		return "", false, err
	}

	patterns := make([]string, 0, 4)
	dnsEntries := c.sanEntries(NameTypeDNS)
	for _, gn := range dnsEntries {
		patterns = append(patterns, gn.Value)
	}

	checkSubject := len(dnsEntries) == 0 || flags&AlwaysCheckSubject != 0
	if flags&NeverCheckSubject != 0 {
		checkSubject = false
	}
	if checkSubject {
		patterns = append(patterns, c.subjectValues(oidAttributeCommonName)...)
	}

	for _, pattern := range patterns {
		if matchHostPattern(pattern, candidate, flags) {
			return pattern, true, nil
		}
	}
	return "", false, nil
}

// CheckEmail verifies address against the certificate's rfc822Name entries,
// with the subject emailAddress attribute as fallback under the same subject
// rules as CheckHost. The local part compares case-sensitively, the domain
// part case-insensitively; wildcards never apply.
func (c *Certificate) CheckEmail(address string, flags CheckFlags) (matched string, ok bool, err error) {
	local, domain, err := splitEmail(address)
	if err != nil {
		return "", false, err
	}

	entries := make([]string, 0, 2)
	emailEntries := c.sanEntries(NameTypeEmail)
	for _, gn := range emailEntries {
		entries = append(entries, gn.Value)
	}

	checkSubject := len(emailEntries) == 0 || flags&AlwaysCheckSubject != 0
	if flags&NeverCheckSubject != 0 {
		checkSubject = false
	}
	if checkSubject {
		entries = append(entries, c.subjectValues(oidAttributeEmailAddress)...)
	}

	for _, entry := range entries {
		entryLocal, entryDomain, err := splitEmail(entry)
		if err != nil {
			continue // a malformed presented entry never matches
		}
		if entryLocal == local && equalFoldASCII(entryDomain, domain) {
			return entry, true, nil
		}
	}
	return "", false, nil
}

// CheckIP verifies an IPv4 or IPv6 literal against the certificate's
// iPAddress entries by exact octet equality. No wildcard, no partial
// matching, and no subject fallback apply. A malformed literal returns an
// error wrapping [ErrInvalidArgument].
func (c *Certificate) CheckIP(literal string, flags CheckFlags) (matched string, ok bool, err error) {
	ip := net.ParseIP(literal)
	if ip == nil {
		return "", false, fmt.Errorf("%w: invalid IP %q", ErrInvalidArgument, literal)
	}

	want := canonicalIP(ip)
	for _, gn := range c.sanEntries(NameTypeIP) {
		if bytes.Equal(canonicalIP(gn.IP), want) {
			return literal, true, nil
		}
	}
	return "", false, nil
}

// canonicalIP reduces 4-in-6 mapped addresses to their four-octet form so
// equality is a plain byte comparison.
func canonicalIP(ip net.IP) []byte {
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return ip.To16()
}

// normalizeHostCandidate validates the candidate and returns its matchable
// form: A-label converted when non-ASCII, single trailing dot stripped.
func normalizeHostCandidate(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty host name", ErrInvalidArgument)
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: host name contains NUL", ErrInvalidArgument)
	}

	candidate := strings.TrimSuffix(name, ".")
	if !isASCII(candidate) {
		ascii, err := idna.Lookup.ToASCII(candidate)
		if err != nil {
			return "", fmt.Errorf("%w: host name %q: %v", ErrInvalidArgument, name, err)
		}
		candidate = ascii
	}
	if !validDNSName(candidate) {
		return "", fmt.Errorf("%w: host name %q is not a DNS name", ErrInvalidArgument, name)
	}
	return candidate, nil
}

// validDNSName applies the syntactic label rules: 1-63 octets per label,
// at most 253 octets total, letters, digits, hyphens, and underscores only.
func validDNSName(name string) bool {
	if len(name) == 0 || len(name) > 253 {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			case r == '-' || r == '_':
			default:
				return false
			}
		}
	}
	return true
}

// matchHostPattern compares one presented entry against the candidate.
// Ineligible wildcard shapes fall back to a literal comparison, mirroring
// OpenSSL's behavior of treating them as ordinary names.
func matchHostPattern(pattern, host string, flags CheckFlags) bool {
	if pattern == "" {
		return false
	}
	p := strings.TrimSuffix(pattern, ".")

	if flags&SingleLabelSubdomains != 0 && strings.HasPrefix(p, ".") {
		// ".example.com" matches exactly one additional left-most label.
		if len(host) <= len(p) || !equalFoldASCII(host[len(host)-len(p):], p) {
			return false
		}
		rest := host[:len(host)-len(p)]
		return rest != "" && !strings.Contains(rest, ".")
	}

	if flags&NoWildcards != 0 || !strings.Contains(p, "*") {
		return equalFoldASCII(p, host)
	}

	wildcards, suffix, eligible := splitWildcardPattern(p, flags)
	if !eligible {
		return equalFoldASCII(p, host)
	}

	hostLabels := strings.Split(host, ".")
	patternLabels := append(wildcards, suffix...)
	if len(hostLabels) != len(patternLabels) {
		return false
	}

	for i, pl := range patternLabels {
		hl := hostLabels[i]
		if i < len(wildcards) {
			if !matchWildcardLabel(pl, hl) {
				return false
			}
			continue
		}
		if !equalFoldASCII(pl, hl) {
			return false
		}
	}
	return true
}

// splitWildcardPattern validates a wildcard entry's shape and splits it into
// its wildcard labels and literal suffix labels. A pattern is eligible when
// wildcards appear only in the left-most label (or a leading run of "*"
// labels under MultiLabelWildcards), the wildcard label contains exactly one
// "*" (the whole label under NoPartialWildcards), and at least two literal
// labels follow.
func splitWildcardPattern(pattern string, flags CheckFlags) (wildcards, suffix []string, eligible bool) {
	labels := strings.Split(pattern, ".")

	n := 0 // number of leading wildcard labels
	if flags&MultiLabelWildcards != 0 {
		for n < len(labels) && labels[n] == "*" {
			n++
		}
	}
	if n == 0 {
		if strings.Count(labels[0], "*") != 1 {
			return nil, nil, false
		}
		if flags&NoPartialWildcards != 0 && labels[0] != "*" {
			return nil, nil, false
		}
		n = 1
	}

	suffix = labels[n:]
	if len(suffix) < 2 {
		return nil, nil, false
	}
	for _, label := range suffix {
		if strings.Contains(label, "*") {
			return nil, nil, false
		}
	}
	return labels[:n], suffix, true
}

// matchWildcardLabel matches a single wildcard label against a single
// candidate label. The "*" must match at least one character and can never
// cross a label boundary (the caller splits on dots).
func matchWildcardLabel(pattern, label string) bool {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return equalFoldASCII(pattern, label)
	}
	prefix, rest := pattern[:star], pattern[star+1:]
	if len(label) < len(prefix)+len(rest)+1 {
		return false
	}
	return equalFoldASCII(label[:len(prefix)], prefix) &&
		equalFoldASCII(label[len(label)-len(rest):], rest)
}

// splitEmail validates a candidate address and splits it at the final "@".
func splitEmail(address string) (local, domain string, err error) {
	if address == "" {
		return "", "", fmt.Errorf("%w: empty email address", ErrInvalidArgument)
	}
	if strings.ContainsRune(address, 0) {
		return "", "", fmt.Errorf("%w: email address contains NUL", ErrInvalidArgument)
	}
	at := strings.LastIndexByte(address, '@')
	if at <= 0 || at == len(address)-1 {
		return "", "", fmt.Errorf("%w: malformed email address %q", ErrInvalidArgument, address)
	}
	return address[:at], address[at+1:], nil
}

// equalFoldASCII compares two strings case-insensitively over ASCII only.
// Unlike strings.EqualFold it never folds non-ASCII runes, so Unicode
// look-alikes cannot satisfy a DNS comparison.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := lowerASCII(a[i]), lowerASCII(b[i])
		if ca != cb {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
