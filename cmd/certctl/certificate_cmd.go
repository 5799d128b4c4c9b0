package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/certdesk/internal/app/models"
)

type certificateOptions struct {
	since     string
	semi      bool
	duplicate bool
	issueDate string
	fields    map[string]string
	output    string
	html      bool
}

func (o certificateOptions) overrides() models.FormOverrides {
	return models.FormOverrides{
		Fields:    o.fields,
		Since:     o.since,
		Semi:      o.semi,
		Duplicate: o.duplicate,
		IssueDate: o.issueDate,
	}
}

func bindCertificateFlags(cmd *cobra.Command, opts *certificateOptions) {
	cmd.Flags().StringVar(&opts.since, "since", "", "Override the \"studying since\" month (leave)")
	cmd.Flags().BoolVar(&opts.semi, "semi", false, "Print the standard as Semi")
	cmd.Flags().BoolVar(&opts.duplicate, "duplicate", false, "Reissue a lost leave certificate")
	cmd.Flags().StringVar(&opts.issueDate, "date", "", "Issue date printed on the certificate (dd-MM-yyyy)")
	cmd.Flags().StringToStringVar(&opts.fields, "set", nil, "Override a record field, e.g. --set conduct=Good")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default <type>-<grn>-<number>.pdf)")
}

func newPreviewCmd(root *rootOptions) *cobra.Command {
	var opts certificateOptions

	cmd := &cobra.Command{
		Use:   "preview <leave|bonafide> <grn>",
		Short: "Render a DRAFT certificate without consuming a number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := a.deps.CertificateService.PreviewDraft(cmd.Context(), models.CertificateType(args[0]), args[1], opts.overrides())
			if err != nil {
				return err
			}
			if opts.html {
				return writeFile(cmd, opts.output, rc, []byte(rc.Markup), "html")
			}
			return writeFile(cmd, opts.output, rc, rc.PDF, "pdf")
		},
	}

	bindCertificateFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.html, "html", false, "Write the markup instead of a PDF")
	return cmd
}

func newIssueCmd(root *rootOptions) *cobra.Command {
	var opts certificateOptions

	cmd := &cobra.Command{
		Use:   "issue <leave|bonafide> <grn>",
		Short: "Issue an official certificate, consuming the next number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			rc, err := a.deps.CertificateService.IssueOfficial(cmd.Context(), models.CertificateType(args[0]), args[1], opts.overrides())
			if err != nil {
				return err
			}
			return writeFile(cmd, opts.output, rc, rc.PDF, "pdf")
		},
	}

	bindCertificateFlags(cmd, &opts)
	return cmd
}

func newCountersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counters",
		Short: "Show the next number of every certificate type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			counters, err := a.deps.CertificateService.Counters(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), counters)
		},
	}
}

func writeFile(cmd *cobra.Command, path string, rc *models.RenderedCertificate, data []byte, ext string) error {
	if path == "" {
		path = fmt.Sprintf("%s-%s-%s.%s", rc.Type, rc.GRN, rc.DisplayNumber, ext)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s written to %s\n", rc.Type, rc.DisplayNumber, path)
	return nil
}
