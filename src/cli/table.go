// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/go-pkix/certident/src/internal/helper/gc"
	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
)

// RenderFieldTable renders the certificate field bundle as a markdown table,
// one field per row.
func RenderFieldTable(view *x509cert.LegacyView) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"Field", "Value"})
	table.Bulk(fieldRows(view))
	table.Render()
	return buf.String()
}

// renderFieldLines renders the field bundle as plain "name: value" lines for
// default CLI output.
func renderFieldLines(view *x509cert.LegacyView) string {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	for _, row := range fieldRows(view) {
		buf.WriteString(row[0])
		buf.WriteString(": ")
		buf.WriteString(row[1])
		buf.WriteByte('\n')
	}
	return buf.String()
}

func fieldRows(view *x509cert.LegacyView) [][]string {
	rows := [][]string{
		{"Subject", view.Subject},
		{"Issuer", view.Issuer},
		{"Valid From", view.ValidFrom},
		{"Valid To", view.ValidTo},
		{"Serial Number", view.SerialNumber},
		{"Fingerprint (SHA-1)", view.Fingerprint},
		{"Fingerprint (SHA-256)", view.Fingerprint256},
		{"Public Key Algorithm", view.PublicKeyAlgo},
	}
	if view.SubjectAltName != "" {
		rows = append(rows, []string{"Subject Alt Name", view.SubjectAltName})
	}
	if view.InfoAccess != "" {
		rows = append(rows, []string{"Info Access", strings.ReplaceAll(view.InfoAccess, "\n", "; ")})
	}
	if len(view.KeyUsage) > 0 {
		rows = append(rows, []string{"Key Usage", strings.Join(view.KeyUsage, ", ")})
	}
	if view.CA {
		rows = append(rows, []string{"CA", "true"})
	}
	return rows
}
