// Package composer assembles certificate markup from a student record and the generation
// form. It is pure: the same inputs always produce byte-identical markup, and it never renders
// PDFs or touches storage.
package composer

import (
	"fmt"
	"html"
	"strings"

	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

// SchoolProfile is the letterhead printed on every certificate.
type SchoolProfile struct {
	Name        string
	Trust       string
	Address     string
	Board       string
	IndexNo     string
	UDISE       string
	Medium      string
	Affiliation string
	Contact     string
}

// Options selects between a draft preview and an official, numbered certificate.
type Options struct {
	Draft  bool
	Number int
}

// Composer builds certificate markup for one school.
type Composer struct {
	school SchoolProfile
}

// New creates a Composer for the given letterhead.
func New(school SchoolProfile) *Composer {
	return &Composer{school: school}
}

// Compose dispatches on the certificate type.
func (c *Composer) Compose(t models.CertificateType, rec models.StudentRecord, ov models.FormOverrides, opts Options) (string, error) {
	switch t {
	case models.CertificateLeave:
		return c.Leave(rec, ov, opts)
	case models.CertificateBonafide:
		return c.Bonafide(rec, ov, opts)
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownCertificateType, t)
	}
}

// certificateNumber returns the printed number. Official certificates must carry a positive number.
func certificateNumber(opts Options) (string, error) {
	if !opts.Draft && opts.Number <= 0 {
		return "", apperrors.ErrMissingCertificateNumber
	}
	return models.DisplayNumber(opts.Draft, opts.Number), nil
}

func (c *Composer) writeHeader(b *strings.Builder) {
	b.WriteString(`<header class="letterhead">`)
	if c.school.Trust != "" {
		fmt.Fprintf(b, `<div class="trust">%s</div>`, html.EscapeString(c.school.Trust))
	}
	fmt.Fprintf(b, `<h1 class="school">%s</h1>`, html.EscapeString(c.school.Name))
	if c.school.Address != "" {
		fmt.Fprintf(b, `<div class="address">%s</div>`, html.EscapeString(c.school.Address))
	}

	var meta []string
	for _, kv := range [][2]string{
		{"Board", c.school.Board},
		{"Index No.", c.school.IndexNo},
		{"UDISE", c.school.UDISE},
		{"Medium", c.school.Medium},
		{"Affiliation", c.school.Affiliation},
		{"Contact", c.school.Contact},
	} {
		if kv[1] != "" {
			meta = append(meta, html.EscapeString(kv[0]+": "+kv[1]))
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(b, `<div class="meta">%s</div>`, strings.Join(meta, " | "))
	}
	b.WriteString(`</header>`)
}

// page wraps a certificate body into a printable HTML document.
func page(title string, draft bool, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(stripTags(title)))
	b.WriteString("<style>")
	b.WriteString(stylesheet)
	b.WriteString("</style></head><body><main class=\"certificate\">")
	if draft {
		fmt.Fprintf(&b, `<div class="watermark">%s</div>`, models.DraftMarker)
	}
	b.WriteString(body)
	b.WriteString("</main></body></html>\n")
	return b.String()
}

func stripTags(s string) string {
	var out strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return out.String()
}

const stylesheet = `
@page { size: A4; margin: 12mm; }
body { font-family: "Times New Roman", serif; font-size: 13pt; color: #000; }
.certificate { position: relative; }
.letterhead { text-align: center; border-bottom: 2px solid #000; padding-bottom: 6px; }
.letterhead .school { font-size: 22pt; margin: 4px 0; }
.letterhead .trust, .letterhead .meta { font-size: 10pt; }
h2.title { text-align: center; text-decoration: underline; margin: 12px 0; }
.slot { text-decoration: underline; white-space: pre; }
pre.body { font-family: inherit; font-size: 12pt; line-height: 1.9; white-space: pre-wrap; margin: 0; }
p.narrative { text-align: justify; line-height: 2; text-indent: 48px; }
.registration { display: flex; justify-content: space-between; margin: 8px 0; }
.signatories { display: flex; justify-content: space-between; margin-top: 64px; }
.signatories.single { justify-content: flex-end; }
.watermark { position: fixed; top: 40%; left: 10%; font-size: 120pt; color: rgba(200, 0, 0, 0.15);
  transform: rotate(-45deg); z-index: 0; pointer-events: none; }
`
