// Command certctl imports rosters and issues certificates from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yigit/certdesk/internal/bootstrap"
	"github.com/yigit/certdesk/internal/config"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

type rootOptions struct {
	configPath string
}

// app is one CLI session over the configured stores
type app struct {
	cfg  *config.Config
	deps *bootstrap.Dependencies
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.configPath)
	if err != nil {
		return nil, err
	}
	stores, err := bootstrap.SetupStores(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps, err := bootstrap.BuildDependencies(cfg, stores, lgr)
	if err != nil {
		stores.Close()
		return nil, err
	}
	return &app{cfg: cfg, deps: deps}, nil
}

func (a *app) Close() {
	a.deps.Close()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "certctl",
		Short:         "Register import and certificate issuance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config",
		config.GetEnv("CERTDESK_CONFIG", filepath.Join("configs", "config.yaml")), "path to the YAML config file")

	cmd.AddCommand(
		newImportCmd(opts),
		newPreviewCmd(opts),
		newIssueCmd(opts),
		newCountersCmd(opts),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("certctl failed")
		os.Exit(1)
	}
}
