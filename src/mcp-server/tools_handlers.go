// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
)

// readCertificateInput materializes certificate bytes from a tool argument.
// The argument may be a file path, a base64-encoded blob, or raw PEM text.
func readCertificateInput(input string) ([]byte, error) {
	if strings.Contains(input, "-----BEGIN") {
		return []byte(input), nil
	}
	if fileData, err := os.ReadFile(input); err == nil {
		return fileData, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(input); err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("not a valid file path, base64 data, or PEM text")
}

// loadCertificateArg reads and parses the named certificate argument.
func loadCertificateArg(request mcp.CallToolRequest, name string) (*x509cert.Certificate, *mcp.CallToolResult) {
	input, err := request.RequireString(name)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("%s parameter required: %v", name, err))
	}

	data, err := readCertificateInput(input)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", name, err))
	}

	cert, err := x509cert.Parse(data)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to parse %s: %v", name, err))
	}
	return cert, nil
}

// resolveCheckFlags resolves the per-call "flags" argument, falling back to
// the configured defaults when the argument is absent.
func resolveCheckFlags(request mcp.CallToolRequest, config *Config) (x509cert.CheckFlags, *mcp.CallToolResult) {
	raw := request.GetString("flags", "")
	if raw == "" {
		return config.checkFlags(), nil
	}

	var flags x509cert.CheckFlags
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		bit, ok := flagNames[name]
		if !ok {
			return 0, mcp.NewToolResultError(fmt.Sprintf("unknown check flag %q", name))
		}
		flags |= bit
	}
	return flags, nil
}

// handleInspectCertificate renders the certificate's field bundle either as
// JSON or as plain "name: value" lines.
func handleInspectCertificate(request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	cert, errResult := loadCertificateArg(request, "certificate")
	if errResult != nil {
		return errResult, nil
	}
	defer cert.Release()

	view, err := cert.ToLegacyView()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render certificate: %v", err)), nil
	}

	format := request.GetString("format", config.Defaults.Format)
	switch format {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode certificate: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	default: // text
		return mcp.NewToolResultText(formatLegacyView(view)), nil
	}
}

// formatLegacyView formats the flat field bundle as plain text lines.
func formatLegacyView(view *x509cert.LegacyView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", view.Subject)
	fmt.Fprintf(&b, "Issuer: %s\n", view.Issuer)
	fmt.Fprintf(&b, "Valid From: %s\n", view.ValidFrom)
	fmt.Fprintf(&b, "Valid To: %s\n", view.ValidTo)
	fmt.Fprintf(&b, "Serial Number: %s\n", view.SerialNumber)
	fmt.Fprintf(&b, "Fingerprint (SHA-1): %s\n", view.Fingerprint)
	fmt.Fprintf(&b, "Fingerprint (SHA-256): %s\n", view.Fingerprint256)
	fmt.Fprintf(&b, "Public Key Algorithm: %s\n", view.PublicKeyAlgo)
	if view.SubjectAltName != "" {
		fmt.Fprintf(&b, "Subject Alt Name: %s\n", view.SubjectAltName)
	}
	if view.InfoAccess != "" {
		fmt.Fprintf(&b, "Info Access: %s\n", strings.ReplaceAll(view.InfoAccess, "\n", "; "))
	}
	if len(view.KeyUsage) > 0 {
		fmt.Fprintf(&b, "Key Usage: %s\n", strings.Join(view.KeyUsage, ", "))
	}
	fmt.Fprintf(&b, "CA: %v\n", view.CA)
	return b.String()
}

// handleCheckHost verifies a hostname against the certificate identities.
func handleCheckHost(request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	cert, errResult := loadCertificateArg(request, "certificate")
	if errResult != nil {
		return errResult, nil
	}
	defer cert.Release()

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("name parameter required: %v", err)), nil
	}
	flags, errResult := resolveCheckFlags(request, config)
	if errResult != nil {
		return errResult, nil
	}

	matched, ok, err := cert.CheckHost(name, flags)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("host check failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("no match: certificate does not cover %q", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("match: %q matched certificate identity %q", name, matched)), nil
}

// handleCheckEmail verifies an email address against the certificate
// identities.
func handleCheckEmail(request mcp.CallToolRequest, config *Config) (*mcp.CallToolResult, error) {
	cert, errResult := loadCertificateArg(request, "certificate")
	if errResult != nil {
		return errResult, nil
	}
	defer cert.Release()

	address, err := request.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("address parameter required: %v", err)), nil
	}
	flags, errResult := resolveCheckFlags(request, config)
	if errResult != nil {
		return errResult, nil
	}

	matched, ok, err := cert.CheckEmail(address, flags)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("email check failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("no match: certificate does not cover %q", address)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("match: %q matched certificate identity %q", address, matched)), nil
}

// handleCheckIP verifies an IP literal against the certificate's iPAddress
// entries.
func handleCheckIP(request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cert, errResult := loadCertificateArg(request, "certificate")
	if errResult != nil {
		return errResult, nil
	}
	defer cert.Release()

	ip, err := request.RequireString("ip")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ip parameter required: %v", err)), nil
	}

	matched, ok, err := cert.CheckIP(ip, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ip check failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("no match: certificate does not cover %q", ip)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("match: %q matched certificate identity %q", ip, matched)), nil
}

// handleCheckIssued checks the single issuer/subject link between two
// certificates: name chaining plus signature verification.
func handleCheckIssued(request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cert, errResult := loadCertificateArg(request, "certificate")
	if errResult != nil {
		return errResult, nil
	}
	defer cert.Release()

	issuer, errResult := loadCertificateArg(request, "issuer")
	if errResult != nil {
		return errResult, nil
	}
	defer issuer.Release()

	if cert.CheckIssuedBy(issuer) {
		return mcp.NewToolResultText(fmt.Sprintf("issued: %q was issued by %q", cert.Subject(), issuer.Subject())), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("not issued: %q was not issued by %q", cert.Subject(), issuer.Subject())), nil
}
