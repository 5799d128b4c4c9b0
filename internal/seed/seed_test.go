package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/repositories/memstore"
	"github.com/yigit/certdesk/internal/config"
)

func TestEnsureCounters(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.Certificates.LeaveSeed = 500
	cfg.Certificates.BonafideSeed = 20

	counters := memstore.NewCounterStore()
	require.NoError(t, EnsureCounters(ctx, counters, cfg, zerolog.Nop()))

	next, err := counters.GetNext(ctx, models.CertificateLeave)
	require.NoError(t, err)
	assert.Equal(t, 500, next)

	require.NoError(t, counters.Increment(ctx, models.CertificateLeave))
	cfg.Certificates.LeaveSeed = 1
	require.NoError(t, EnsureCounters(ctx, counters, cfg, zerolog.Nop()))

	next, err = counters.GetNext(ctx, models.CertificateLeave)
	require.NoError(t, err)
	assert.Equal(t, 501, next)

	next, err = counters.GetNext(ctx, models.CertificateBonafide)
	require.NoError(t, err)
	assert.Equal(t, 20, next)
}
