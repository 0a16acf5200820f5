// Copyright (c) 2025 The certident Authors. All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// certident is a command-line tool for inspecting X.509 certificates and
// verifying the identities they present.
//
// # Installation
//
// Install with Go 1.24 or later:
//
//	go install github.com/go-pkix/certident/cmd/certident@latest
//
// # Usage
//
//	certident COMMAND CERT_FILE [ARGS] [FLAGS]
//
// # Commands
//
//	inspect      Print the certificate's field bundle (text, --json, or --table)
//	check-host   Check a hostname against the certificate's DNS identities
//	check-email  Check an email address against the certificate's identities
//	check-ip     Check an IP literal against the certificate's iPAddress entries
//	verify       Check a single issuer/subject link (--issuer ISSUER_FILE)
//	export       Re-encode a certificate as PEM or DER
//
// # Identity check flags
//
//	--always-check-subject     also check subject CN/emailAddress when SAN entries exist
//	--never-check-subject      never fall back to the subject name
//	--no-wildcards             disable wildcard interpretation
//	--no-partial-wildcards     reject partial-label wildcard entries
//	--multi-label-wildcards    permit multi-label wildcard patterns
//	--single-label-subdomains  match leading-dot entries against one extra label
//
// # Examples
//
// Inspect a certificate:
//
//	certident inspect cert.pem
//
// Check a hostname with wildcard matching disabled:
//
//	certident check-host cert.pem www.example.com --no-wildcards
//
// Check the issuer link between two certificates:
//
//	certident verify cert.pem --issuer ca.pem
//
// Re-encode a DER certificate as PEM:
//
//	certident export cert.der -o cert.pem
package main
