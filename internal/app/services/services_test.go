package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/composer"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/repositories/memstore"
	"github.com/yigit/certdesk/internal/pkg/renderer"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fixture struct {
	students *memstore.StudentStore
	counters *memstore.CounterStore
	render   *renderer.Fake
	certs    CertificateService
}

func newFixture(t *testing.T, recs ...models.StudentRecord) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		students: memstore.NewStudentStore(),
		counters: memstore.NewCounterStore(),
		render:   &renderer.Fake{},
	}
	require.NoError(t, f.counters.EnsureSeed(ctx, models.CertificateLeave, 1000))
	require.NoError(t, f.counters.EnsureSeed(ctx, models.CertificateBonafide, 2000))
	for i := range recs {
		_, err := f.students.Insert(ctx, &recs[i])
		require.NoError(t, err)
	}

	comp := composer.New(composer.SchoolProfile{Name: "Shri Saraswati Vidyalaya", Address: "Karad"})
	f.certs = NewCertificateService(f.students, f.counters, comp, f.render, zerolog.Nop(), fixedClock)
	return f
}

func (f *fixture) record(t *testing.T, grn string) *models.StudentRecord {
	t.Helper()
	rec, err := f.students.Get(context.Background(), grn)
	require.NoError(t, err)
	return rec
}

func (f *fixture) next(t *testing.T, ct models.CertificateType) int {
	t.Helper()
	n, err := f.counters.GetNext(context.Background(), ct)
	require.NoError(t, err)
	return n
}

func asha() models.StudentRecord {
	return models.StudentRecord{
		GRN:             "4521",
		Name:            "Asha",
		FathersName:     "Ramesh",
		Surname:         "Patil",
		DateOfBirth:     "2010-06-05",
		DateOfAdmission: "12-06-2015",
		CurrentStandard: "IX",
		AcademicYear:    "2024-2025",
	}
}
