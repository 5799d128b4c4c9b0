package composer

import (
	"fmt"
	"strings"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/layout"
	"github.com/yigit/certdesk/internal/pkg/lexical"
)

const bonafideTitle = "Bonafide Certificate"

// Bonafide composes a bonafide (proof of enrolment) certificate.
func (c *Composer) Bonafide(rec models.StudentRecord, ov models.FormOverrides, opts Options) (string, error) {
	number, err := certificateNumber(opts)
	if err != nil {
		return "", err
	}
	rec = rec.Merge(ov.Fields)

	issued := ov.IssueDate
	if issued == "" {
		issued = rec.DateOfBonafide
	}
	standard := rec.BonafideStandard
	if standard == "" {
		standard = rec.CurrentStandard
	}

	slot := func(value string, width int) string {
		return layout.Slot(value, width, layout.BonafidePlaceholder)
	}
	field := func(label, value string, width int) string {
		return layout.RenderField(label, value, width, true, layout.BonafidePlaceholder)
	}

	var b strings.Builder
	c.writeHeader(&b)
	fmt.Fprintf(&b, `<h2 class="title">%s</h2>`, bonafideTitle)

	b.WriteString(`<div class="registration">`)
	fmt.Fprintf(&b, "<span>%s</span>", field("G.R. No.", rec.GRN, 10))
	fmt.Fprintf(&b, "<span>%s</span>", field("Certificate No.", number, 8))
	fmt.Fprintf(&b, "<span>%s</span>", field("Date", lexical.FormatDate(issued), 12))
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<p class="narrative">This is to certify that %s, child of Shri %s, is a bonafide student of this school studying in Standard %s during the academic year %s.</p>`,
		slot(rec.FullName(), 36),
		slot(rec.FathersName, 24),
		layout.MarkupSlot(lexical.FormatStandardWithSemi(standard, ov.Semi), 12, layout.BonafidePlaceholder),
		slot(rec.AcademicYear, 11),
	)

	fmt.Fprintf(&b, `<p class="narrative">This certificate is issued for the purpose of %s. As per the school General Register the date of birth is %s (%s), the place of birth is %s and the caste is %s.</p>`,
		slot(rec.ReasonOfBonafide, 30),
		slot(lexical.FormatDate(rec.DateOfBirth), 12),
		slot(lexical.DateToWords(rec.DateOfBirth, lexical.BonafideDateStyle), 44),
		slot(rec.PlaceOfBirth, 18),
		slot(rec.Caste, 14),
	)

	fmt.Fprintf(&b, `<p class="narrative">This certificate is issued on the request of %s.</p>`,
		slot(rec.RequestOfBonafideBy, 30),
	)

	b.WriteString(`<div class="signatories single"><span class="signature">Principal</span></div>`)

	return page(bonafideTitle, opts.Draft, b.String()), nil
}
