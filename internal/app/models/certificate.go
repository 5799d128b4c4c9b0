package models

import "github.com/yigit/certdesk/internal/pkg/lexical"

// CertificateType identifies a certificate family with its own number sequence.
type CertificateType string

const (
	CertificateLeave    CertificateType = "leave"
	CertificateBonafide CertificateType = "bonafide"
)

// CertificateTypes lists every supported type.
var CertificateTypes = []CertificateType{CertificateLeave, CertificateBonafide}

// Valid reports whether t is a supported type.
func (t CertificateType) Valid() bool {
	return t == CertificateLeave || t == CertificateBonafide
}

func (t CertificateType) String() string { return string(t) }

// DraftMarker replaces the certificate number on unnumbered previews.
const DraftMarker = "DRAFT"

// DisplayNumber formats a certificate number for print: "DRAFT" or four zero-padded digits.
func DisplayNumber(draft bool, number int) string {
	if draft {
		return DraftMarker
	}
	return lexical.ZeroPad(number, 4)
}

// FormOverrides are the values entered on the generation form for one document.
type FormOverrides struct {
	// Fields override stored record fields by canonical name.
	Fields map[string]string `json:"fields,omitempty"`
	// Since overrides the "studying since" month on leave certificates.
	Since string `json:"since,omitempty"`
	// Semi appends "Semi" to the printed standard.
	Semi bool `json:"semi,omitempty"`
	// Duplicate reissues a lost leave certificate.
	Duplicate bool `json:"duplicate,omitempty"`
	// IssueDate is printed as the certificate date; defaults to the record's generation date.
	IssueDate string `json:"issueDate,omitempty"`
}

// CertificateCounter holds the next number of a certificate sequence.
type CertificateCounter struct {
	Type       CertificateType `json:"type" db:"type"`
	NextNumber int             `json:"nextNumber" db:"next_number"`
}

// RenderedCertificate is a composed and rendered document. It is never persisted.
type RenderedCertificate struct {
	Type          CertificateType `json:"type"`
	GRN           string          `json:"grn"`
	Draft         bool            `json:"draft"`
	Number        int             `json:"number,omitempty"`
	DisplayNumber string          `json:"displayNumber"`
	Markup        string          `json:"-"`
	PDF           []byte          `json:"-"`
}
