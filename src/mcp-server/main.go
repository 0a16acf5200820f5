// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the MCP server implementation for certificate
// inspection and identity verification.
package mcpserver

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/go-pkix/certident/src/logger"
	"github.com/go-pkix/certident/src/version"
)

var serverName = "X.509 Certificate Identity Toolkit" // MCP server name

// GetVersion returns the default server version used when the binary is not
// built with an ldflags override.
func GetVersion() string { return version.Version }

// Run starts the MCP stdio server with the certificate inspection and
// identity verification tools. It loads configuration from the
// MCP_CERTIDENT_CONFIG_FILE environment variable.
func Run(appVersion string) error {
	// Structured logging goes to stderr so it never interleaves with the
	// stdio protocol stream; silent unless debugging is requested.
	log := logger.NewMCPLogger(os.Stderr, os.Getenv("MCP_CERTIDENT_DEBUG") == "")

	// Load configuration
	config, err := loadConfig(os.Getenv("MCP_CERTIDENT_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log.Printf("starting %s %s", serverName, appVersion)

	// Create MCP server
	s := server.NewMCPServer(
		serverName,
		appVersion,
		server.WithToolCapabilities(true),
	)

	// Register tools with their handlers
	for _, def := range createTools(config) {
		s.AddTool(def.Tool, def.Handler)
	}

	// Start the stdio server
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
