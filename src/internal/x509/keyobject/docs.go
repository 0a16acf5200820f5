// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package keyobject provides the key-object collaborator consumed by the
// certificate core: an opaque public-key handle carrying an algorithm
// identifier, raw key material, and key-material equality. Signature
// verification against these handles lives with the certificate model, which
// knows the declared signature algorithm.
package keyobject
