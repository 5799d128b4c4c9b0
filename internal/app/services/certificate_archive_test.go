package services

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/pkg/filestorage"
)

type failingStorage struct{}

func (failingStorage) SaveFileWithPath(*multipart.FileHeader, string) (string, error) {
	return "", errors.New("disk full")
}

func (failingStorage) SaveBytes(string, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

func (failingStorage) DeleteFile(string) error { return nil }

func TestArchivingCertificateService_StoresIssuedPDF(t *testing.T) {
	f := newFixture(t, asha())
	root := t.TempDir()
	storage, err := filestorage.NewLocalStorage(root)
	require.NoError(t, err)
	certs := NewArchivingCertificateService(f.certs, storage, zerolog.Nop())

	rc, err := certs.IssueOfficial(context.Background(), models.CertificateLeave, "4521", models.FormOverrides{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "certificates", "leave", "1000.pdf"))
	require.NoError(t, err)
	assert.Equal(t, rc.PDF, data)
}

func TestArchivingCertificateService_WriteFailureKeepsIssuance(t *testing.T) {
	f := newFixture(t, asha())
	certs := NewArchivingCertificateService(f.certs, failingStorage{}, zerolog.Nop())
	ctx := context.Background()

	rc, err := certs.IssueOfficial(ctx, models.CertificateBonafide, "4521", models.FormOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 2000, rc.Number)

	next, err := f.counters.GetNext(ctx, models.CertificateBonafide)
	require.NoError(t, err)
	assert.Equal(t, 2001, next)
}

func TestArchivingCertificateService_PreviewNotArchived(t *testing.T) {
	f := newFixture(t, asha())
	root := t.TempDir()
	storage, err := filestorage.NewLocalStorage(root)
	require.NoError(t, err)
	certs := NewArchivingCertificateService(f.certs, storage, zerolog.Nop())

	_, err = certs.PreviewDraft(context.Background(), models.CertificateLeave, "4521", models.FormOverrides{})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "certificates"))
	assert.True(t, os.IsNotExist(err))
}
