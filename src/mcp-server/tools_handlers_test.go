// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCertPEM generates a self-signed certificate and returns its PEM bytes.
func testCertPEM(t *testing.T, cn string, dnsNames []string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		DNSNames:     dnsNames,
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return content.Text
}

func TestCreateTools(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	defs := createTools(config)
	require.Len(t, defs, 5)

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Tool.Name)
		assert.NotNil(t, def.Handler, "tool %s has no handler", def.Tool.Name)
	}
	assert.Equal(t,
		[]string{"inspect_certificate", "check_host", "check_email", "check_ip", "check_issued"},
		names)
}

func TestHandleInspectCertificate(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	certPEM := testCertPEM(t, "inspect.example.com", []string{"inspect.example.com"})

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "PEM Text Input",
			testFunc: func(t *testing.T) {
				req := toolRequest("inspect_certificate", map[string]any{
					"certificate": string(certPEM),
				})
				result, err := handleInspectCertificate(req, config)
				require.NoError(t, err)
				assert.False(t, result.IsError)
				text := resultText(t, result)
				assert.Contains(t, text, "Subject: CN=inspect.example.com")
				assert.Contains(t, text, "Subject Alt Name: DNS:inspect.example.com")
			},
		},
		{
			name: "Base64 Input",
			testFunc: func(t *testing.T) {
				req := toolRequest("inspect_certificate", map[string]any{
					"certificate": base64.StdEncoding.EncodeToString(certPEM),
				})
				result, err := handleInspectCertificate(req, config)
				require.NoError(t, err)
				assert.False(t, result.IsError)
			},
		},
		{
			name: "File Input With JSON Format",
			testFunc: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "cert.pem")
				require.NoError(t, os.WriteFile(path, certPEM, 0644))

				req := toolRequest("inspect_certificate", map[string]any{
					"certificate": path,
					"format":      "json",
				})
				result, err := handleInspectCertificate(req, config)
				require.NoError(t, err)
				assert.False(t, result.IsError)
				assert.Contains(t, resultText(t, result), `"subject": "CN=inspect.example.com"`)
			},
		},
		{
			name: "Missing Parameter",
			testFunc: func(t *testing.T) {
				result, err := handleInspectCertificate(toolRequest("inspect_certificate", map[string]any{}), config)
				require.NoError(t, err, "parameter errors are tool results, not Go errors")
				assert.True(t, result.IsError)
			},
		},
		{
			name: "Unparseable Input",
			testFunc: func(t *testing.T) {
				req := toolRequest("inspect_certificate", map[string]any{
					"certificate": "bm90IGEgY2VydA==",
				})
				result, err := handleInspectCertificate(req, config)
				require.NoError(t, err)
				assert.True(t, result.IsError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestHandleCheckHost(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	certPEM := testCertPEM(t, "cn.example.com", []string{"*.example.org"})

	tests := []struct {
		name     string
		args     map[string]any
		want     string
		useError bool
	}{
		{
			name: "Wildcard Match",
			args: map[string]any{"certificate": string(certPEM), "name": "www.example.org"},
			want: `matched certificate identity "*.example.org"`,
		},
		{
			name: "No Match",
			args: map[string]any{"certificate": string(certPEM), "name": "www.example.net"},
			want: "no match",
		},
		{
			name: "Flags Disable Wildcards",
			args: map[string]any{
				"certificate": string(certPEM),
				"name":        "www.example.org",
				"flags":       "noWildcards",
			},
			want: "no match",
		},
		{
			name:     "Unknown Flag",
			args:     map[string]any{"certificate": string(certPEM), "name": "x.example.org", "flags": "bogus"},
			useError: true,
		},
		{
			name:     "Malformed Host",
			args:     map[string]any{"certificate": string(certPEM), "name": ""},
			useError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleCheckHost(toolRequest("check_host", tt.args), config)
			require.NoError(t, err)
			assert.Equal(t, tt.useError, result.IsError)
			if tt.want != "" {
				assert.Contains(t, resultText(t, result), tt.want)
			}
		})
	}
}

// testCAPEM generates a self-signed CA certificate in PEM form.
func testCAPEM(t *testing.T, cn string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(2),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestHandleCheckIssued(t *testing.T) {
	certPEM := testCAPEM(t, "Test Root A")
	otherPEM := testCAPEM(t, "Test Root B")

	req := toolRequest("check_issued", map[string]any{
		"certificate": string(certPEM),
		"issuer":      string(certPEM),
	})
	result, err := handleCheckIssued(req)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "issued:")

	req = toolRequest("check_issued", map[string]any{
		"certificate": string(certPEM),
		"issuer":      string(otherPEM),
	})
	result, err = handleCheckIssued(req)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "not issued:")
}
