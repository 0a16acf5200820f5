// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509cert

// Serialize returns the bytes to hand across an execution-context boundary.
// No shared-memory assumption is made: the counterpart reconstructs an
// independently owned certificate with [Reconstruct].
func (c *Certificate) Serialize() []byte { return c.Raw() }

// Reconstruct rebuilds a certificate from serialized bytes. The result is
// independently owned and carries bit-identical raw bytes and field values.
func Reconstruct(data []byte) (*Certificate, error) {
	return Parse(data)
}

// Transfer produces an independently owned copy by re-parsing the raw bytes,
// for boundaries that forbid shared reference-count state. Within a boundary
// that permits sharing, use [Certificate.Clone] instead.
func (c *Certificate) Transfer() (*Certificate, error) {
	return Reconstruct(c.Serialize())
}
