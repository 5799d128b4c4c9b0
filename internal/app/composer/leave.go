package composer

import (
	"fmt"
	"strings"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/layout"
	"github.com/yigit/certdesk/internal/pkg/lexical"
)

const (
	leaveTitle          = "Leaving Certificate"
	leaveDuplicateTitle = "<i>Duplicate Leaving Certificate</i>"
)

// Leave composes a school leaving certificate.
func (c *Composer) Leave(rec models.StudentRecord, ov models.FormOverrides, opts Options) (string, error) {
	number, err := certificateNumber(opts)
	if err != nil {
		return "", err
	}
	rec = rec.Merge(ov.Fields)

	title := leaveTitle
	if ov.Duplicate {
		title = leaveDuplicateTitle
	}

	since := ov.Since
	if since == "" {
		since = lexical.MonthYear(rec.DateOfAdmission)
	}
	issued := ov.IssueDate
	if issued == "" {
		issued = rec.LeaveCertificateGenerationDate
	}

	field := func(label, value string, width int) string {
		return layout.RenderField(label, value, width, true, layout.LeavePlaceholder)
	}
	markupField := func(label, markup string, width int) string {
		return layout.RenderMarkupField(label, markup, width, true, layout.LeavePlaceholder)
	}
	wrapped := func(label, value string, width int) string {
		return layout.RenderWrappedField(label, value, width, 88, true, layout.LeavePlaceholder)
	}

	var b strings.Builder
	c.writeHeader(&b)
	fmt.Fprintf(&b, `<h2 class="title">%s</h2>`, title)

	b.WriteString(`<div class="registration">`)
	fmt.Fprintf(&b, "<span>%s</span>", field("G.R. No.", rec.GRN, 10))
	fmt.Fprintf(&b, "<span>%s</span>", field("Certificate No.", number, 8))
	b.WriteString(`</div>`)

	fullName := strings.Join(strings.Fields(rec.Name+" "+rec.FathersName+" "+rec.Surname), " ")

	lines := []string{
		field("Student ID (PEN)", rec.PENNo, 22) + "    " + field("Aadhar No.", rec.AadharNo, 16),
		" 1. " + field("Name of the Student (Name, Father's Name, Surname)", fullName, 40),
		" 2. " + field("Mother's Name", rec.MothersName, 30),
		" 3. " + field("Nationality", rec.Nationality, 16) + "  " + field("Mother Tongue", rec.MotherTongue, 16),
		" 4. " + field("Religion", rec.Religion, 14) + "  " + field("Caste", rec.Caste, 14) + "  " + field("Sub-Caste", rec.SubCaste, 14),
		" 5. " + field("Place of Birth", rec.PlaceOfBirth, 16) + "  " + field("Taluka", rec.Taluka, 14),
		"    " + field("District", rec.District, 16) + "  " + field("State", rec.State, 16),
		" 6. " + field("Date of Birth (in figures)", lexical.FormatDate(rec.DateOfBirth), 12),
		" 7. " + wrapped("Date of Birth (in words)", lexical.DateToWords(rec.DateOfBirth, lexical.LeaveDateStyle), 60),
		" 8. " + wrapped("Last School Attended", rec.LastAttendedSchool, 50) + "  " + field("Standard", rec.LastSchoolStandard, 6),
		" 9. " + field("Date of Admission", lexical.FormatDate(rec.DateOfAdmission), 12) + "  " + field("Standard", rec.AdmissionStandard, 6),
		"10. " + field("Progress", rec.Progress, 20) + "  " + field("Conduct", rec.Conduct, 20),
		"11. " + field("Date of Leaving School", lexical.FormatDate(rec.DateOfLeaving), 12),
		"12. " + markupField("Standard in which studying", lexical.FormatStandardWithSemi(rec.CurrentStandard, ov.Semi), 24) + "  " + field("Since", since, 16),
		"13. " + wrapped("Reason for Leaving School", rec.ReasonOfLeaving, 54),
		"14. " + wrapped("Remarks", rec.Remarks, 70),
	}

	b.WriteString(`<pre class="body">`)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString(`</pre>`)

	b.WriteString(`<p class="narrative">Certified that the above information is in accordance with the School General Register.</p>`)
	fmt.Fprintf(&b, `<div class="issued">%s</div>`, field("Date", lexical.FormatDate(issued), 12))

	b.WriteString(`<div class="signatories">`)
	for _, who := range []string{"Class Teacher", "Clerk", "Principal"} {
		fmt.Fprintf(&b, `<span class="signature">%s</span>`, who)
	}
	b.WriteString(`</div>`)

	return page(title, opts.Draft, b.String()), nil
}
