package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/services"
)

type importOptions struct {
	onDuplicate string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <roster.csv|roster.xlsx>",
		Short: "Import a roster; duplicates are kept unless --on-duplicate says otherwise",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch models.ResolutionAction(strings.ToLower(opts.onDuplicate)) {
			case models.ActionKeep, models.ActionReplace, models.ActionSkip:
				return nil
			default:
				return fmt.Errorf("invalid --on-duplicate %q, want keep, replace or skip", opts.onDuplicate)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()
			return runImport(cmd, a.deps.ImportService, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.onDuplicate, "on-duplicate", string(models.ActionKeep), "Action for rows whose GRN exists: keep, replace or skip")
	return cmd
}

type importReport struct {
	Import     *models.ImportResult     `json:"import"`
	Resolution *models.ResolutionResult `json:"resolution,omitempty"`
}

func runImport(cmd *cobra.Command, svc services.ImportService, path string, opts importOptions) error {
	ctx := cmd.Context()

	result, err := svc.ImportFile(ctx, path)
	if err != nil {
		return err
	}
	report := importReport{Import: result}

	action := models.ResolutionAction(strings.ToLower(opts.onDuplicate))
	if len(result.Duplicates) > 0 && action != models.ActionKeep {
		for i := range result.Duplicates {
			result.Duplicates[i].Action = action
		}
		report.Resolution, err = svc.ResolveDuplicates(ctx, result.Duplicates)
		if err != nil {
			return err
		}
	}
	return writeJSON(cmd.OutOrStdout(), report)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
