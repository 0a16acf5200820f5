// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509transport bridges live TLS connections and the certificate
// model. It wraps a connection's local certificate and peer chain as parsed
// certificates, defensively duplicating raw bytes so the results stay valid
// after the connection releases its internal chain storage.
package x509transport
