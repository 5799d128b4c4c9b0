package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

func TestPreviewDraftIsNeutral(t *testing.T) {
	f := newFixture(t, asha())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out, err := f.certs.PreviewDraft(ctx, models.CertificateLeave, "4521", models.FormOverrides{
			Fields: map[string]string{"remarks": "Not saved"},
		})
		require.NoError(t, err)
		assert.True(t, out.Draft)
		assert.Equal(t, "DRAFT", out.DisplayNumber)
		assert.Zero(t, out.Number)
		assert.NotEmpty(t, out.PDF)
		assert.Contains(t, out.Markup, `<div class="watermark">DRAFT</div>`)
		assert.Contains(t, out.Markup, "Not saved")
	}

	assert.Equal(t, 1000, f.next(t, models.CertificateLeave))
	rec := f.record(t, "4521")
	assert.Zero(t, rec.LeaveGeneratedCount)
	assert.Empty(t, rec.Remarks)
	assert.Empty(t, rec.LeaveCertificateGenerationDate)
}

func TestIssueOfficialTwiceConsumesIncreasingNumbers(t *testing.T) {
	f := newFixture(t, asha())
	ctx := context.Background()

	first, err := f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521", models.FormOverrides{})
	require.NoError(t, err)
	second, err := f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521", models.FormOverrides{})
	require.NoError(t, err)

	assert.Equal(t, 1000, first.Number)
	assert.Equal(t, "1000", first.DisplayNumber)
	assert.Equal(t, 1001, second.Number)
	assert.Contains(t, second.Markup, "1001")
	assert.NotContains(t, second.Markup, "watermark\">")

	assert.Equal(t, 1002, f.next(t, models.CertificateLeave))
	assert.Equal(t, 2000, f.next(t, models.CertificateBonafide))

	rec := f.record(t, "4521")
	assert.Equal(t, 2, rec.LeaveGeneratedCount)
	assert.Zero(t, rec.BonafideGeneratedCount)
	assert.Equal(t, "15-06-2024", rec.LeaveCertificateGenerationDate)
}

func TestIssueOfficialSequenceIsStrictlyIncreasing(t *testing.T) {
	f := newFixture(t, asha())
	ctx := context.Background()

	last := 0
	for i := 0; i < 5; i++ {
		if i%2 == 0 {
			_, err := f.certs.PreviewDraft(ctx, models.CertificateBonafide, "4521", models.FormOverrides{})
			require.NoError(t, err)
		}
		out, err := f.certs.IssueOfficial(ctx, models.CertificateBonafide, "4521", models.FormOverrides{})
		require.NoError(t, err)
		assert.Greater(t, out.Number, last)
		last = out.Number
	}
	assert.Equal(t, 2004, last)
	assert.Equal(t, 5, f.record(t, "4521").BonafideGeneratedCount)
}

func TestIssueOfficialRenderFailureMutatesNothing(t *testing.T) {
	f := newFixture(t, asha())
	f.render.Err = errors.New("chrome crashed")

	_, err := f.certs.IssueOfficial(context.Background(), models.CertificateLeave, "4521", models.FormOverrides{
		Fields: map[string]string{"remarks": "Transferred"},
	})
	require.ErrorIs(t, err, apperrors.ErrRenderFailed)

	assert.Equal(t, 1000, f.next(t, models.CertificateLeave))
	rec := f.record(t, "4521")
	assert.Zero(t, rec.LeaveGeneratedCount)
	assert.Empty(t, rec.Remarks)
	assert.Empty(t, rec.LeaveCertificateGenerationDate)
}

func TestIssueOfficialPersistsFormEdits(t *testing.T) {
	f := newFixture(t, asha())

	out, err := f.certs.IssueOfficial(context.Background(), models.CertificateBonafide, "4521", models.FormOverrides{
		Fields:    map[string]string{"reasonOfBonafide": "passport", "unknownField": "ignored"},
		IssueDate: "01-07-2024",
		Semi:      true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Markup, "passport")
	assert.Contains(t, out.Markup, "01/07/2024")
	assert.Contains(t, out.Markup, "Semi")

	rec := f.record(t, "4521")
	assert.Equal(t, "passport", rec.ReasonOfBonafide)
	assert.Equal(t, "01-07-2024", rec.DateOfBonafide)
	assert.Equal(t, fixedNow, rec.LastUpdated)
}

func TestIssueOfficialKeepsStoredIssueDate(t *testing.T) {
	rec := asha()
	rec.LeaveCertificateGenerationDate = "30-04-2024"
	f := newFixture(t, rec)

	out, err := f.certs.IssueOfficial(context.Background(), models.CertificateLeave, "4521", models.FormOverrides{})
	require.NoError(t, err)
	assert.Contains(t, out.Markup, "30/04/2024")
	assert.Equal(t, "30-04-2024", f.record(t, "4521").LeaveCertificateGenerationDate)
}

func TestDuplicateReissueDoesNotCountAsIssuance(t *testing.T) {
	f := newFixture(t, asha())

	out, err := f.certs.IssueOfficial(context.Background(), models.CertificateLeave, "4521", models.FormOverrides{Duplicate: true})
	require.NoError(t, err)
	assert.Contains(t, out.Markup, "Duplicate Leaving Certificate")
	assert.Equal(t, 1000, out.Number)

	assert.Equal(t, 1001, f.next(t, models.CertificateLeave))
	assert.Zero(t, f.record(t, "4521").LeaveGeneratedCount)
}

func TestIssueOfficialOnFrozenRecord(t *testing.T) {
	f := newFixture(t, asha())
	ctx := context.Background()
	require.NoError(t, f.students.SetFrozen(ctx, "4521", true))

	_, err := f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521", models.FormOverrides{
		Fields: map[string]string{"remarks": "edit"},
	})
	require.ErrorIs(t, err, apperrors.ErrStudentFrozen)
	assert.Equal(t, 1000, f.next(t, models.CertificateLeave))
	assert.Empty(t, f.render.Calls)

	out, err := f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521", models.FormOverrides{})
	require.NoError(t, err)
	assert.Contains(t, out.Markup, "15/06/2024")

	rec := f.record(t, "4521")
	assert.Equal(t, 1, rec.LeaveGeneratedCount)
	assert.Empty(t, rec.LeaveCertificateGenerationDate)
}

func TestIssueOfficialIgnoresGRNOverride(t *testing.T) {
	f := newFixture(t, asha())
	ctx := context.Background()
	ov := models.FormOverrides{Fields: map[string]string{"grn": "9999"}}

	out, err := f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521", ov)
	require.NoError(t, err)
	assert.Contains(t, out.Markup, `G.R. No.: <span class="slot">4521`)
	assert.NotContains(t, out.Markup, "9999")
	assert.Equal(t, 1, f.record(t, "4521").LeaveGeneratedCount)

	require.NoError(t, f.students.SetFrozen(ctx, "4521", true))
	out, err = f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521", ov)
	require.NoError(t, err)
	assert.NotContains(t, out.Markup, "9999")
}

func TestCertificateServiceErrors(t *testing.T) {
	f := newFixture(t, asha())
	ctx := context.Background()

	_, err := f.certs.IssueOfficial(ctx, models.CertificateType("transfer"), "4521", models.FormOverrides{})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCertificateType)

	_, err = f.certs.PreviewDraft(ctx, models.CertificateLeave, "9999", models.FormOverrides{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = f.certs.IssueOfficial(ctx, models.CertificateLeave, "4521 ", models.FormOverrides{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestCounters(t *testing.T) {
	f := newFixture(t, asha())

	counters, err := f.certs.Counters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[models.CertificateType]int{
		models.CertificateLeave:    1000,
		models.CertificateBonafide: 2000,
	}, counters)
}
