package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/repositories"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

var (
	_ repositories.StudentStore = (*StudentStore)(nil)
	_ repositories.CounterStore = (*CounterStore)(nil)
)

func TestStudentStore_InsertGet(t *testing.T) {
	ctx := context.Background()
	s := NewStudentStore()

	_, err := s.Insert(ctx, &models.StudentRecord{GRN: "4521", Name: "Asha"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "4521")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.Insert(ctx, &models.StudentRecord{GRN: "4521", Name: "Other"})
	assert.ErrorIs(t, err, apperrors.ErrStudentAlreadyExists)

	_, err = s.Get(ctx, " 4521")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStudentStore()
	_, err := s.Insert(ctx, &models.StudentRecord{GRN: "1", Name: "A"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
}

func TestStudentStore_FrozenRejectsEdits(t *testing.T) {
	ctx := context.Background()
	s := NewStudentStore()
	_, err := s.Insert(ctx, &models.StudentRecord{GRN: "1", Name: "A"})
	require.NoError(t, err)
	require.NoError(t, s.SetFrozen(ctx, "1", true))

	_, err = s.Update(ctx, "1", models.StudentPatch{Fields: map[string]string{"name": "B"}})
	assert.ErrorIs(t, err, apperrors.ErrStudentFrozen)
	assert.ErrorIs(t, s.Delete(ctx, "1"), apperrors.ErrStudentFrozen)

	require.NoError(t, s.IncrementGeneratedCount(ctx, "1", models.CertificateLeave))
	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.LeaveGeneratedCount)
	assert.Equal(t, "A", got.Name)

	require.NoError(t, s.SetFrozen(ctx, "1", false))
	updated, err := s.Update(ctx, "1", models.StudentPatch{Fields: map[string]string{"name": "B"}})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
}

func TestStudentStore_UpdateStampsLastUpdated(t *testing.T) {
	ctx := context.Background()
	s := NewStudentStore()
	_, err := s.Insert(ctx, &models.StudentRecord{GRN: "1", Name: "A"})
	require.NoError(t, err)

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := s.Update(ctx, "1", models.StudentPatch{Fields: map[string]string{"caste": "X"}, LastUpdated: &at})
	require.NoError(t, err)
	assert.Equal(t, at, got.LastUpdated)
	assert.Equal(t, "X", got.Caste)
}

func TestStudentStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewStudentStore()
	for _, grn := range []string{"3", "1", "2"} {
		_, err := s.Insert(ctx, &models.StudentRecord{GRN: grn, Name: "N" + grn})
		require.NoError(t, err)
	}

	page, total, err := s.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "2", page[0].GRN)

	page, _, err = s.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].GRN)
}

func TestCounterStore(t *testing.T) {
	ctx := context.Background()
	c := NewCounterStore()

	_, err := c.GetNext(ctx, models.CertificateLeave)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	require.NoError(t, c.EnsureSeed(ctx, models.CertificateLeave, 40))
	require.NoError(t, c.EnsureSeed(ctx, models.CertificateLeave, 1))

	next, err := c.GetNext(ctx, models.CertificateLeave)
	require.NoError(t, err)
	assert.Equal(t, 40, next)

	require.NoError(t, c.Increment(ctx, models.CertificateLeave))
	next, err = c.GetNext(ctx, models.CertificateLeave)
	require.NoError(t, err)
	assert.Equal(t, 41, next)

	require.NoError(t, c.EnsureSeed(ctx, models.CertificateBonafide, 1))
	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CertificateCounter{
		{Type: models.CertificateBonafide, NextNumber: 1},
		{Type: models.CertificateLeave, NextNumber: 41},
	}, all)
}
