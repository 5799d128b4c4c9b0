package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

func testComposer() *Composer {
	return New(SchoolProfile{
		Name:    "Shri Saraswati Vidyalaya",
		Address: "Station Road, Karad",
		Board:   "Maharashtra State Board",
		IndexNo: "12.08.045",
	})
}

func testRecord() models.StudentRecord {
	return models.StudentRecord{
		GRN:                 "4521",
		PENNo:               "PEN0099",
		Name:                "Asha",
		FathersName:         "Ramesh",
		Surname:             "Patil",
		MothersName:         "Sunita",
		Religion:            "Hindu",
		Caste:               "Maratha",
		PlaceOfBirth:        "Karad",
		Nationality:         "Indian",
		DateOfBirth:         "2010-06-05",
		DateOfAdmission:     "12-06-2015",
		CurrentStandard:     "IX",
		Progress:            "Good",
		Conduct:             "Good",
		ReasonOfLeaving:     "Parent's transfer",
		AcademicYear:        "2024-2025",
		ReasonOfBonafide:    "scholarship application",
		RequestOfBonafideBy: "Parent",
	}
}

func TestLeaveDraft(t *testing.T) {
	out, err := testComposer().Leave(testRecord(), models.FormOverrides{}, Options{Draft: true})
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="watermark">DRAFT</div>`)
	assert.Contains(t, out, "Certificate No.: <span class=\"slot\">DRAFT")
	assert.Contains(t, out, "Leaving Certificate")
	assert.Contains(t, out, "Asha Ramesh Patil")
	assert.Contains(t, out, "Fifth June, Two Thousand Ten")
	assert.Contains(t, out, "05/06/2010")
	assert.Contains(t, out, "Standard in which studying: <span class=\"slot\">Ninth IX<sup>th</sup>"+strings.Repeat("&nbsp;", 14)+"</span>")
	assert.NotContains(t, out, "&lt;sup&gt;")
	assert.Contains(t, out, "June, 2015")
	// Empty leave fields print the dash placeholder.
	assert.Contains(t, out, "Sub-Caste: <span class=\"slot\">---")
}

func TestLeaveOfficial(t *testing.T) {
	out, err := testComposer().Leave(testRecord(), models.FormOverrides{}, Options{Number: 7})
	require.NoError(t, err)

	assert.Contains(t, out, "0007")
	assert.NotContains(t, out, "DRAFT")
	assert.NotContains(t, out, "watermark\">")
}

func TestOfficialWithoutNumberFails(t *testing.T) {
	c := testComposer()

	_, err := c.Leave(testRecord(), models.FormOverrides{}, Options{})
	assert.ErrorIs(t, err, apperrors.ErrMissingCertificateNumber)

	_, err = c.Bonafide(testRecord(), models.FormOverrides{}, Options{Number: -3})
	assert.ErrorIs(t, err, apperrors.ErrMissingCertificateNumber)
}

func TestLeaveOverrides(t *testing.T) {
	ov := models.FormOverrides{
		Fields:    map[string]string{"conduct": "Excellent", "remarks": "Passed", "grn": "9999"},
		Since:     "April, 2019",
		Semi:      true,
		Duplicate: true,
		IssueDate: "2025-04-30",
	}
	out, err := testComposer().Leave(testRecord(), ov, Options{Number: 1001})
	require.NoError(t, err)

	assert.Contains(t, out, "<i>Duplicate Leaving Certificate</i>")
	assert.Contains(t, out, "<title>Duplicate Leaving Certificate</title>")
	assert.Contains(t, out, "Excellent")
	assert.Contains(t, out, "April, 2019")
	assert.NotContains(t, out, "June, 2015")
	assert.Contains(t, out, "Ninth IX<sup>th</sup> Semi"+strings.Repeat("&nbsp;", 9)+"</span>")
	assert.Contains(t, out, "30/04/2025")
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, `G.R. No.: <span class="slot">4521`)
	assert.NotContains(t, out, "9999")
}

func TestLeaveSinceEmptyWithoutAdmissionDate(t *testing.T) {
	rec := testRecord()
	rec.DateOfAdmission = ""
	out, err := testComposer().Leave(rec, models.FormOverrides{}, Options{Draft: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Since: <span class=\"slot\">---")
}

func TestLeaveWrapsLongRemarks(t *testing.T) {
	rec := testRecord()
	rec.Remarks = strings.Repeat("remark ", 12)
	out, err := testComposer().Leave(rec, models.FormOverrides{}, Options{Draft: true})
	require.NoError(t, err)
	assert.Contains(t, out, "14. Remarks: <span class=\"slot\">remark remark")
	assert.Contains(t, out, "\n<span class=\"slot\">remark")
}

func TestBonafide(t *testing.T) {
	out, err := testComposer().Bonafide(testRecord(), models.FormOverrides{IssueDate: "01-07-2024"}, Options{Number: 2001})
	require.NoError(t, err)

	assert.Contains(t, out, "Bonafide Certificate")
	assert.Contains(t, out, "2001")
	assert.Contains(t, out, "01/07/2024")
	assert.Contains(t, out, "Asha Patil")
	assert.Contains(t, out, "2024-2025")
	assert.Contains(t, out, "scholarship application")
	assert.Contains(t, out, "Standard <span class=\"slot\">Ninth IX<sup>th</sup>&nbsp;&nbsp;</span>")
	assert.NotContains(t, out, "&lt;sup&gt;")
	// Bonafide spelling has no comma and no "and" after hundreds.
	assert.Contains(t, out, "Fifth June Two Thousand Ten")
	assert.NotContains(t, out, "DRAFT")
	assert.NotContains(t, out, "---")
}

func TestBonafideDraftWatermark(t *testing.T) {
	out, err := testComposer().Bonafide(testRecord(), models.FormOverrides{}, Options{Draft: true, Number: 55})
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="watermark">DRAFT</div>`)
	assert.NotContains(t, out, "0055")
}

func TestComposeIsDeterministic(t *testing.T) {
	c := testComposer()
	a, err := c.Compose(models.CertificateLeave, testRecord(), models.FormOverrides{}, Options{Number: 3})
	require.NoError(t, err)
	b, err := c.Compose(models.CertificateLeave, testRecord(), models.FormOverrides{}, Options{Number: 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposeUnknownType(t *testing.T) {
	_, err := testComposer().Compose("transfer", testRecord(), models.FormOverrides{}, Options{Draft: true})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCertificateType)
}
