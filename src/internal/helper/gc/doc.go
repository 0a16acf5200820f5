// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package gc provides reusable byte buffer pooling to reduce garbage collection overhead.
// It abstracts the [bytebufferpool] library to provide a consistent interface for
// buffer management across the application, particularly useful for the certificate
// rendering paths and file/stream reads in the CLI and MCP server.
//
// [bytebufferpool]: https://github.com/valyala/bytebufferpool
package gc
