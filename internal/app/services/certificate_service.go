package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/certdesk/internal/app/composer"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/repositories"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
	"github.com/yigit/certdesk/internal/pkg/lexical"
	"github.com/yigit/certdesk/internal/pkg/renderer"
)

// CertificateService defines certificate preview and issuance
type CertificateService interface {
	// PreviewDraft renders an unnumbered document. It never mutates counters or records.
	PreviewDraft(ctx context.Context, t models.CertificateType, grn string, ov models.FormOverrides) (*models.RenderedCertificate, error)
	// IssueOfficial renders the next numbered document, then persists form edits and consumes the number.
	IssueOfficial(ctx context.Context, t models.CertificateType, grn string, ov models.FormOverrides) (*models.RenderedCertificate, error)
	// Counters returns the next number of every certificate type.
	Counters(ctx context.Context) (map[models.CertificateType]int, error)
}

// Clock returns the current time
type Clock func() time.Time

// certificateServiceImpl implements the CertificateService interface
type certificateServiceImpl struct {
	students repositories.StudentStore
	counters repositories.CounterStore
	composer *composer.Composer
	renderer renderer.Renderer
	log      zerolog.Logger
	now      Clock
}

// NewCertificateService creates a new certificate service instance; a nil clock uses time.Now
func NewCertificateService(
	students repositories.StudentStore,
	counters repositories.CounterStore,
	comp *composer.Composer,
	rend renderer.Renderer,
	log zerolog.Logger,
	now Clock,
) CertificateService {
	if now == nil {
		now = time.Now
	}
	return &certificateServiceImpl{
		students: students,
		counters: counters,
		composer: comp,
		renderer: rend,
		log:      log,
		now:      now,
	}
}

// issueDateField is the record field holding the printed date of each certificate type.
var issueDateField = map[models.CertificateType]string{
	models.CertificateLeave:    "leaveCertificateGenerationDate",
	models.CertificateBonafide: "dateOfBonafide",
}

// issuance is a record prepared for composition.
type issuance struct {
	stored   *models.StudentRecord
	merged   models.StudentRecord
	composed models.FormOverrides

	// dateDefaulted is set when the issue date was filled in with today's date
	dateDefaulted bool
	dateField     string
}

// prepare validates the type and loads the record with the form edits applied. The issue date
// resolves to the form value, then the stored value, then today.
func (s *certificateServiceImpl) prepare(ctx context.Context, t models.CertificateType, grn string, ov models.FormOverrides) (*issuance, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownCertificateType, t)
	}

	stored, err := s.students.Get(ctx, grn)
	if err != nil {
		return nil, err
	}

	is := &issuance{stored: stored, merged: stored.Merge(ov.Fields), dateField: issueDateField[t]}
	dateField, _ := models.LookupField(is.dateField)
	switch {
	case ov.IssueDate != "":
		dateField.Set(&is.merged, ov.IssueDate)
	case dateField.Get(&is.merged) == "":
		dateField.Set(&is.merged, s.now().Format(lexical.RegisterLayout))
		is.dateDefaulted = true
	}

	is.composed = ov
	is.composed.Fields = nil
	is.composed.IssueDate = dateField.Get(&is.merged)
	return is, nil
}

// changes returns the fields to persist after issuance. A frozen record keeps its stored data,
// so any explicit edit is rejected and a defaulted date is only printed.
func (is *issuance) changes() (map[string]string, error) {
	changed := is.stored.Diff(&is.merged)
	if !is.stored.Frozen {
		return changed, nil
	}
	if is.dateDefaulted {
		delete(changed, is.dateField)
	}
	if len(changed) > 0 {
		return nil, fmt.Errorf("%w: form edits cannot be saved", apperrors.ErrStudentFrozen)
	}
	return nil, nil
}

func (s *certificateServiceImpl) PreviewDraft(ctx context.Context, t models.CertificateType, grn string, ov models.FormOverrides) (*models.RenderedCertificate, error) {
	is, err := s.prepare(ctx, t, grn, ov)
	if err != nil {
		return nil, err
	}

	markup, err := s.composer.Compose(t, is.merged, is.composed, composer.Options{Draft: true})
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, markup)
	if err != nil {
		s.log.Warn().Err(err).Str("grn", grn).Str("certificateType", t.String()).Msg("Draft rendering failed")
		return nil, err
	}

	return &models.RenderedCertificate{
		Type:          t,
		GRN:           grn,
		Draft:         true,
		DisplayNumber: models.DisplayNumber(true, 0),
		Markup:        markup,
		PDF:           pdf,
	}, nil
}

func (s *certificateServiceImpl) IssueOfficial(ctx context.Context, t models.CertificateType, grn string, ov models.FormOverrides) (*models.RenderedCertificate, error) {
	is, err := s.prepare(ctx, t, grn, ov)
	if err != nil {
		return nil, err
	}
	changed, err := is.changes()
	if err != nil {
		return nil, err
	}

	number, err := s.counters.GetNext(ctx, t)
	if err != nil {
		return nil, err
	}

	markup, err := s.composer.Compose(t, is.merged, is.composed, composer.Options{Number: number})
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, markup)
	if err != nil {
		s.log.Error().Err(err).Str("grn", grn).Str("certificateType", t.String()).Int("number", number).Msg("Official rendering failed, number not consumed")
		return nil, err
	}

	if len(changed) > 0 {
		at := s.now().UTC()
		if _, err := s.students.Update(ctx, grn, models.StudentPatch{Fields: changed, LastUpdated: &at}); err != nil {
			return nil, err
		}
	}

	if err := s.counters.Increment(ctx, t); err != nil {
		return nil, err
	}
	if !ov.Duplicate {
		if err := s.students.IncrementGeneratedCount(ctx, grn, t); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("grn", grn).
		Str("certificateType", t.String()).
		Int("number", number).
		Bool("duplicate", ov.Duplicate).
		Msg("Certificate issued")

	return &models.RenderedCertificate{
		Type:          t,
		GRN:           grn,
		Number:        number,
		DisplayNumber: models.DisplayNumber(false, number),
		Markup:        markup,
		PDF:           pdf,
	}, nil
}

func (s *certificateServiceImpl) Counters(ctx context.Context) (map[models.CertificateType]int, error) {
	all, err := s.counters.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[models.CertificateType]int, len(all))
	for _, c := range all {
		out[c.Type] = c.NextNumber
	}
	return out, nil
}
