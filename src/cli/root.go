// Copyright (c) 2025 The certident Authors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-pkix/certident/src/internal/helper/gc"
	"github.com/go-pkix/certident/src/internal/helper/posix"
	x509cert "github.com/go-pkix/certident/src/internal/x509/cert"
	"github.com/go-pkix/certident/src/logger"
)

// OperationPerformed reports whether a command ran to completion. The main
// entry point uses it to decide on a closing status line.
var OperationPerformed bool

var (
	outputFile string
	jsonOutput bool
	tableView  bool

	alwaysCheckSubject    bool
	neverCheckSubject     bool
	noWildcards           bool
	noPartialWildcards    bool
	multiLabelWildcards   bool
	singleLabelSubdomains bool
)

// Execute runs the root command with the given context and logger.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	rootCmd := &cobra.Command{
		Use:           posix.GetExecutableName(),
		Short:         "X.509 certificate identity toolkit",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInspectCmd(log),
		newCheckHostCmd(log),
		newCheckEmailCmd(log),
		newCheckIPCmd(log),
		newVerifyCmd(log),
		newExportCmd(log),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return err
	}

	OperationPerformed = true
	return nil
}

// addFlagOptions registers the identity check flags shared by the check-*
// commands.
func addFlagOptions(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&alwaysCheckSubject, "always-check-subject", false, "also check subject CN/emailAddress when SAN entries exist")
	cmd.Flags().BoolVar(&neverCheckSubject, "never-check-subject", false, "never fall back to the subject name")
	cmd.Flags().BoolVar(&noWildcards, "no-wildcards", false, "disable wildcard interpretation")
	cmd.Flags().BoolVar(&noPartialWildcards, "no-partial-wildcards", false, "reject partial-label wildcard entries")
	cmd.Flags().BoolVar(&multiLabelWildcards, "multi-label-wildcards", false, "permit multi-label wildcard patterns")
	cmd.Flags().BoolVar(&singleLabelSubdomains, "single-label-subdomains", false, "match leading-dot entries against one extra label")
}

// checkFlags assembles the flag bitmask from the registered options.
func checkFlags() x509cert.CheckFlags {
	var flags x509cert.CheckFlags
	if alwaysCheckSubject {
		flags |= x509cert.AlwaysCheckSubject
	}
	if neverCheckSubject {
		flags |= x509cert.NeverCheckSubject
	}
	if noWildcards {
		flags |= x509cert.NoWildcards
	}
	if noPartialWildcards {
		flags |= x509cert.NoPartialWildcards
	}
	if multiLabelWildcards {
		flags |= x509cert.MultiLabelWildcards
	}
	if singleLabelSubdomains {
		flags |= x509cert.SingleLabelSubdomains
	}
	return flags
}

// loadCertificate reads and parses a certificate file using the shared
// buffer pool.
func loadCertificate(path string) (*x509cert.Certificate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	defer f.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	cert, err := x509cert.Parse(append([]byte(nil), buf.Bytes()...))
	if err != nil {
		return nil, fmt.Errorf("decoding certificate: %w", err)
	}
	return cert, nil
}

func newInspectCmd(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect CERT_FILE",
		Short: "Print the certificate's field bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := loadCertificate(args[0])
			if err != nil {
				return err
			}
			defer cert.Release()

			view, err := cert.ToLegacyView()
			if err != nil {
				return err
			}

			switch {
			case jsonOutput:
				data, err := json.MarshalIndent(view, "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(log, append(data, '\n'))
			case tableView:
				return writeOutput(log, []byte(RenderFieldTable(view)))
			default:
				return writeOutput(log, []byte(renderFieldLines(view)))
			}
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&tableView, "table", false, "output as a markdown table")
	return cmd
}

func newCheckHostCmd(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-host CERT_FILE NAME",
		Short: "Check a hostname against the certificate's DNS identities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := loadCertificate(args[0])
			if err != nil {
				return err
			}
			defer cert.Release()

			matched, ok, err := cert.CheckHost(args[1], checkFlags())
			return reportMatch(log, matched, ok, err)
		},
	}
	addFlagOptions(cmd)
	return cmd
}

func newCheckEmailCmd(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-email CERT_FILE ADDRESS",
		Short: "Check an email address against the certificate's identities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := loadCertificate(args[0])
			if err != nil {
				return err
			}
			defer cert.Release()

			matched, ok, err := cert.CheckEmail(args[1], checkFlags())
			return reportMatch(log, matched, ok, err)
		},
	}
	addFlagOptions(cmd)
	return cmd
}

func newCheckIPCmd(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-ip CERT_FILE IP",
		Short: "Check an IP literal against the certificate's iPAddress entries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := loadCertificate(args[0])
			if err != nil {
				return err
			}
			defer cert.Release()

			matched, ok, err := cert.CheckIP(args[1], checkFlags())
			return reportMatch(log, matched, ok, err)
		},
	}
	addFlagOptions(cmd)
	return cmd
}

func newVerifyCmd(log logger.Logger) *cobra.Command {
	var issuerFile string

	cmd := &cobra.Command{
		Use:   "verify CERT_FILE --issuer ISSUER_FILE",
		Short: "Check a single issuer/subject link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := loadCertificate(args[0])
			if err != nil {
				return err
			}
			defer cert.Release()

			issuer, err := loadCertificate(issuerFile)
			if err != nil {
				return err
			}
			defer issuer.Release()

			if !cert.CheckIssuedBy(issuer) {
				log.Println("not issued by the supplied certificate")
				return nil
			}
			log.Printf("issued by %s (CA: %v)", issuer.Subject(), issuer.IsCA())
			return nil
		},
	}

	cmd.Flags().StringVar(&issuerFile, "issuer", "", "candidate issuer certificate file")
	cmd.MarkFlagRequired("issuer")
	return cmd
}

func newExportCmd(log logger.Logger) *cobra.Command {
	var derFormat bool

	cmd := &cobra.Command{
		Use:   "export CERT_FILE",
		Short: "Re-encode a certificate as PEM or DER",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := loadCertificate(args[0])
			if err != nil {
				return err
			}
			defer cert.Release()

			if derFormat {
				return writeOutput(log, cert.Raw())
			}
			return writeOutput(log, cert.Pem())
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	cmd.Flags().BoolVarP(&derFormat, "der", "d", false, "output DER format")
	return cmd
}

// reportMatch prints the outcome of an identity check. A clean non-match is
// reported, not treated as a command failure.
func reportMatch(log logger.Logger, matched string, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		log.Println("no match")
		return nil
	}
	log.Printf("matched: %s", matched)
	return nil
}

// writeOutput writes data to the selected output file, or logs it to stdout.
func writeOutput(log logger.Logger, data []byte) error {
	if outputFile != "" {
		return os.WriteFile(outputFile, data, 0644)
	}
	log.Printf("%s", data)
	return nil
}
