package services

import (
	"context"
	"path"

	"github.com/rs/zerolog"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/filestorage"
)

// archivingCertificateService stores a copy of every official PDF under certificates/<type>/
type archivingCertificateService struct {
	CertificateService
	storage filestorage.FileStorage
	log     zerolog.Logger
}

// NewArchivingCertificateService wraps inner so issued PDFs are written to storage.
// A failed write is logged and does not fail the issuance, since the number is already consumed.
func NewArchivingCertificateService(inner CertificateService, storage filestorage.FileStorage, log zerolog.Logger) CertificateService {
	return &archivingCertificateService{CertificateService: inner, storage: storage, log: log}
}

// ArchivePath returns the storage sub path of an issued certificate.
func ArchivePath(t models.CertificateType) string {
	return path.Join("certificates", t.String())
}

func (s *archivingCertificateService) IssueOfficial(ctx context.Context, t models.CertificateType, grn string, ov models.FormOverrides) (*models.RenderedCertificate, error) {
	rc, err := s.CertificateService.IssueOfficial(ctx, t, grn, ov)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.SaveBytes(ArchivePath(t), rc.DisplayNumber+".pdf", rc.PDF)
	if err != nil {
		s.log.Warn().Err(err).
			Str("certificateType", t.String()).
			Int("number", rc.Number).
			Msg("Failed to archive issued certificate")
		return rc, nil
	}
	s.log.Debug().Str("path", stored).Int("number", rc.Number).Msg("Issued certificate archived")
	return rc, nil
}
