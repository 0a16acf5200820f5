// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the certificate
// identity toolkit. It implements a Cobra-based CLI with subcommands for
// field inspection (plain, JSON, and markdown table output), hostname, email,
// and IP identity checks, single-link issuer verification, and PEM/DER
// re-encoding. The package handles file I/O, context cancellation, and
// integrates with the logger package for output and error reporting.
package cli
