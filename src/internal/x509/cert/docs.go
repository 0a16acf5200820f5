// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509cert implements the [X.509] certificate object model used across
// the project. It provides capabilities to:
//   - Parse PEM-armored or DER-encoded certificates (with a PKCS#7 fallback).
//   - Render canonical field projections (names, validity, serial, fingerprints,
//     key usage, subjectAltName, authority information access).
//   - Verify hostname, email, and IP identities against certificate entries
//     per RFC 6125/RFC 2818 semantics, gated by OpenSSL-style check flags.
//   - Validate single issuer/subject links, private-key ownership, and
//     certificate signatures against a supplied key.
//
// Certificates are immutable after construction and safe for unsynchronized
// concurrent reads; duplication is a reference-count bump, not a re-parse.
//
// [X.509]: https://grokipedia.com/page/X.509
package x509cert
