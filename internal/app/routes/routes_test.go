package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/certdesk/internal/app/composer"
	"github.com/yigit/certdesk/internal/app/controllers"
	"github.com/yigit/certdesk/internal/app/importer"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/models/dto"
	"github.com/yigit/certdesk/internal/app/repositories/memstore"
	"github.com/yigit/certdesk/internal/app/services"
	"github.com/yigit/certdesk/internal/pkg/filestorage"
	"github.com/yigit/certdesk/internal/pkg/renderer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router   *gin.Engine
	counters *memstore.CounterStore
	render   *renderer.Fake
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	students := memstore.NewStudentStore()
	counters := memstore.NewCounterStore()
	require.NoError(t, counters.EnsureSeed(ctx, models.CertificateLeave, 1000))
	require.NoError(t, counters.EnsureSeed(ctx, models.CertificateBonafide, 2000))
	_, err := students.Insert(ctx, &models.StudentRecord{
		GRN:             "4521",
		Name:            "Asha",
		Surname:         "Patil",
		DateOfBirth:     "2010-06-05",
		DateOfAdmission: "12-06-2015",
		CurrentStandard: "IX",
	})
	require.NoError(t, err)

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	render := &renderer.Fake{}
	now := func() time.Time { return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC) }
	comp := composer.New(composer.SchoolProfile{Name: "Shri Saraswati Vidyalaya"})
	certs := services.NewArchivingCertificateService(
		services.NewCertificateService(students, counters, comp, render, zerolog.Nop(), now),
		storage,
		zerolog.Nop(),
	)

	router := gin.New()
	SetupRouter(router,
		controllers.NewStudentController(services.NewStudentService(students, zerolog.Nop())),
		controllers.NewCertificateController(certs),
		controllers.NewImportController(services.NewImportService(students, importer.NewMapper(nil), zerolog.Nop(), now), storage),
	)
	return &testApp{router: router, counters: counters, render: render}
}

func (a *testApp) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) upload(t *testing.T, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool             `json:"success"`
	Data    T                `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestStudentRoutes(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/students", models.StudentRecord{GRN: "4600", Name: "Ravi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(http.MethodPost, "/api/v1/students", models.StudentRecord{GRN: "4600", Name: "Ravi"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodGet, "/api/v1/students/4600", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ravi", decode[models.StudentRecord](t, w).Data.Name)

	w = app.do(http.MethodGet, "/api/v1/students/%204600", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/api/v1/students?page=1&size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items      []models.StudentRecord `json:"items"`
		Pagination dto.PaginationInfo     `json:"pagination"`
	}](t, w).Data
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "4521", page.Items[0].GRN)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestFrozenStudentRejectsEdits(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/students/4521/freeze", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(http.MethodPatch, "/api/v1/students/4521", dto.UpdateStudentRequest{Fields: map[string]string{"conduct": "Good"}})
	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceLocked, decode[any](t, w).Error.Code)

	w = app.do(http.MethodDelete, "/api/v1/students/4521", nil)
	assert.Equal(t, http.StatusLocked, w.Code)

	w = app.do(http.MethodDelete, "/api/v1/students/4521/freeze", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(http.MethodPatch, "/api/v1/students/4521", dto.UpdateStudentRequest{Fields: map[string]string{"conduct": "Good"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Good", decode[models.StudentRecord](t, w).Data.Conduct)
}

func TestUpdateStudentRequiresFields(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPatch, "/api/v1/students/4521", dto.UpdateStudentRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewDoesNotConsumeNumbers(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/certificates/leave/preview?format=html", dto.CertificateRequest{GRN: "4521"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), models.DraftMarker)

	w = app.do(http.MethodPost, "/api/v1/certificates/bonafide/preview", dto.CertificateRequest{GRN: "4521"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")

	next, err := app.counters.GetNext(context.Background(), models.CertificateLeave)
	require.NoError(t, err)
	assert.Equal(t, 1000, next)
}

func TestIssueCertificate(t *testing.T) {
	app := newTestApp(t)

	for _, want := range []int{1000, 1001} {
		w := app.do(http.MethodPost, "/api/v1/certificates/leave/issue", dto.CertificateRequest{GRN: "4521"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, fmt.Sprint(want), w.Header().Get(controllers.CertificateNumberHeader))
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	}

	w := app.do(http.MethodGet, "/api/v1/certificates/counters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	counters := decode[dto.CountersResponse](t, w).Data.Counters
	assert.Equal(t, 1002, counters[models.CertificateLeave])
	assert.Equal(t, 2000, counters[models.CertificateBonafide])

	w = app.do(http.MethodGet, "/api/v1/students/4521", nil)
	assert.Equal(t, 2, decode[models.StudentRecord](t, w).Data.LeaveGeneratedCount)
}

func TestIssueCertificateErrors(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/certificates/transfer/issue", dto.CertificateRequest{GRN: "4521"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/v1/certificates/leave/issue", dto.CertificateRequest{GRN: "9999"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodPost, "/api/v1/certificates/leave/issue", dto.CertificateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.render.Err = fmt.Errorf("chrome exited")
	w = app.do(http.MethodPost, "/api/v1/certificates/leave/issue", dto.CertificateRequest{GRN: "4521"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, dto.ErrorCodeExternalServiceError, decode[any](t, w).Error.Code)

	next, err := app.counters.GetNext(context.Background(), models.CertificateLeave)
	require.NoError(t, err)
	assert.Equal(t, 1000, next)
}

func TestImportAndResolve(t *testing.T) {
	app := newTestApp(t)

	w := app.upload(t, "roster.csv", "G.R. No,Student Name,Surname\n4521,Asha,Kulkarni\n4700,Meera,Joshi\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[models.ImportResult](t, w).Data
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, models.ImportDuplicatesPending, result.Status)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, "Patil", result.Duplicates[0].Existing.Surname)

	w = app.do(http.MethodGet, "/api/v1/students/4521", nil)
	assert.Equal(t, "Patil", decode[models.StudentRecord](t, w).Data.Surname)

	dup := result.Duplicates[0]
	dup.Action = models.ActionReplace
	w = app.do(http.MethodPost, "/api/v1/imports/resolve", dto.ResolveDuplicatesRequest{Duplicates: []models.Duplicate{dup}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, decode[models.ResolutionResult](t, w).Data.ImportedCount)

	w = app.do(http.MethodGet, "/api/v1/students/4521", nil)
	assert.Equal(t, "Kulkarni", decode[models.StudentRecord](t, w).Data.Surname)
}

func TestImportRows(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/api/v1/imports/rows", dto.ImportRowsRequest{Rows: []map[string]string{
		{"GRN": "4800", "Name": "Kiran"},
		{"GRN": "", "Name": "Nobody"},
	}})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[models.ImportResult](t, w).Data
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, models.ImportCompleted, result.Status)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 2, result.Rejected[0].Row)
}

func TestImportRejectsUnsupportedFile(t *testing.T) {
	app := newTestApp(t)

	w := app.upload(t, "roster.txt", "GRN\n1\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeUnsupportedFile, decode[any](t, w).Error.Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
