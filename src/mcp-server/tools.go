// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolDefinition pairs an MCP tool with its handler so the server can
// register them in one pass.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// createTools builds the certificate inspection and identity verification
// tool set. Handlers that honor configuration defaults capture config.
func createTools(config *Config) []ToolDefinition {
	// Define certificate inspection tool
	inspectCertificateTool := mcp.NewTool("inspect_certificate",
		mcp.WithDescription("Inspect an X.509 certificate: subject, issuer, validity, serial number, fingerprints, key usage, and extensions"),
		mcp.WithString("certificate",
			mcp.Required(),
			mcp.Description("Certificate file path, base64-encoded data, or PEM text"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' or 'text' (default: "+config.Defaults.Format+")"),
			mcp.DefaultString(config.Defaults.Format),
		),
	)

	// Define hostname verification tool
	checkHostTool := mcp.NewTool("check_host",
		mcp.WithDescription("Check a hostname against an X.509 certificate's DNS identities"),
		mcp.WithString("certificate",
			mcp.Required(),
			mcp.Description("Certificate file path, base64-encoded data, or PEM text"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Hostname to verify"),
		),
		mcp.WithString("flags",
			mcp.Description("Comma-separated identity-check flag names (e.g. 'noWildcards,neverCheckSubject')"),
		),
	)

	// Define email verification tool
	checkEmailTool := mcp.NewTool("check_email",
		mcp.WithDescription("Check an email address against an X.509 certificate's email identities"),
		mcp.WithString("certificate",
			mcp.Required(),
			mcp.Description("Certificate file path, base64-encoded data, or PEM text"),
		),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Email address to verify"),
		),
		mcp.WithString("flags",
			mcp.Description("Comma-separated identity-check flag names (e.g. 'neverCheckSubject')"),
		),
	)

	// Define IP verification tool
	checkIPTool := mcp.NewTool("check_ip",
		mcp.WithDescription("Check an IP literal against an X.509 certificate's iPAddress entries"),
		mcp.WithString("certificate",
			mcp.Required(),
			mcp.Description("Certificate file path, base64-encoded data, or PEM text"),
		),
		mcp.WithString("ip",
			mcp.Required(),
			mcp.Description("IPv4 or IPv6 literal to verify"),
		),
	)

	// Define issuer link checking tool
	checkIssuedTool := mcp.NewTool("check_issued",
		mcp.WithDescription("Check whether an X.509 certificate was issued by a candidate issuer certificate"),
		mcp.WithString("certificate",
			mcp.Required(),
			mcp.Description("Subject certificate file path, base64-encoded data, or PEM text"),
		),
		mcp.WithString("issuer",
			mcp.Required(),
			mcp.Description("Issuer certificate file path, base64-encoded data, or PEM text"),
		),
	)

	return []ToolDefinition{
		{Tool: inspectCertificateTool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleInspectCertificate(request, config)
		}},
		{Tool: checkHostTool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckHost(request, config)
		}},
		{Tool: checkEmailTool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckEmail(request, config)
		}},
		{Tool: checkIPTool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckIP(request)
		}},
		{Tool: checkIssuedTool, Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckIssued(request)
		}},
	}
}
