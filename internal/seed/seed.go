// Package seed creates the default data the application needs before serving.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/certdesk/internal/app/models"
	appRepos "github.com/yigit/certdesk/internal/app/repositories"
	"github.com/yigit/certdesk/internal/config"
)

// CounterSeeds returns the configured starting number per certificate type
func CounterSeeds(cfg *config.Config) map[appModels.CertificateType]int {
	return map[appModels.CertificateType]int{
		appModels.CertificateLeave:    cfg.Certificates.LeaveSeed,
		appModels.CertificateBonafide: cfg.Certificates.BonafideSeed,
	}
}

// EnsureCounters creates missing certificate counters. Existing counters are never reset.
func EnsureCounters(ctx context.Context, counters appRepos.CounterStore, cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating certificate counters...")
	var finalErr error // To collect potential errors without stopping the process

	seeds := CounterSeeds(cfg)
	for _, t := range appModels.CertificateTypes {
		if err := counters.EnsureSeed(ctx, t, seeds[t]); err != nil {
			lgr.Error().Err(err).Str("certificateType", t.String()).Msg("Error seeding certificate counter")
			finalErr = errors.Join(finalErr, err)
		}
	}

	all, err := counters.All(ctx)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	for _, c := range all {
		lgr.Info().Str("certificateType", c.Type.String()).Int("nextNumber", c.NextNumber).Msg("Certificate counter ready")
	}
	return finalErr
}
