package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/models/dto"
	"github.com/yigit/certdesk/internal/app/services"
	"github.com/yigit/certdesk/internal/middleware"
)

// CertificateNumberHeader carries the consumed number of an official certificate
const CertificateNumberHeader = "X-Certificate-Number"

// CertificateController handles certificate preview and issuance
type CertificateController struct {
	certificateService services.CertificateService
}

// NewCertificateController creates a new CertificateController
func NewCertificateController(certificateService services.CertificateService) *CertificateController {
	return &CertificateController{
		certificateService: certificateService,
	}
}

// PreviewCertificate renders an unnumbered draft
// @Summary Preview a certificate
// @Description Renders a DRAFT document. Counters and records are not modified.
// @Tags certificates
// @Accept json
// @Produce application/pdf,text/html
// @Param type path string true "Certificate type" Enums(leave, bonafide)
// @Param format query string false "Set to html to receive the markup instead of a PDF"
// @Param request body dto.CertificateRequest true "Student and form values"
// @Success 200 {file} file "Draft document"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown certificate type"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 502 {object} dto.ErrorResponse "Document rendering failed"
// @Router /certificates/{type}/preview [post]
func (c *CertificateController) PreviewCertificate(ctx *gin.Context) {
	var req dto.CertificateRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	rc, err := c.certificateService.PreviewDraft(ctx, models.CertificateType(ctx.Param("type")), req.GRN, req.Overrides)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if ctx.Query("format") == "html" {
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rc.Markup))
		return
	}
	writePDF(ctx, rc, "inline")
}

// IssueCertificate renders and records an official certificate
// @Summary Issue a certificate
// @Description Consumes the next number of the type, saves form edits on the record and returns the PDF
// @Tags certificates
// @Accept json
// @Produce application/pdf
// @Param type path string true "Certificate type" Enums(leave, bonafide)
// @Param request body dto.CertificateRequest true "Student and form values"
// @Success 200 {file} file "Official document"
// @Header 200 {integer} X-Certificate-Number "Number printed on the certificate"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown certificate type"
// @Failure 404 {object} dto.ErrorResponse "Student not found or counter not seeded"
// @Failure 423 {object} dto.ErrorResponse "Form edits cannot be saved on a frozen record"
// @Failure 502 {object} dto.ErrorResponse "Document rendering failed"
// @Router /certificates/{type}/issue [post]
func (c *CertificateController) IssueCertificate(ctx *gin.Context) {
	var req dto.CertificateRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	rc, err := c.certificateService.IssueOfficial(ctx, models.CertificateType(ctx.Param("type")), req.GRN, req.Overrides)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header(CertificateNumberHeader, strconv.Itoa(rc.Number))
	writePDF(ctx, rc, "attachment")
}

// GetCounters returns the next number of each certificate type
// @Summary Certificate counters
// @Tags certificates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CountersResponse} "Counters retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /certificates/counters [get]
func (c *CertificateController) GetCounters(ctx *gin.Context) {
	counters, err := c.certificateService.Counters(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.CountersResponse{Counters: counters},
		Timestamp: time.Now(),
	})
}

func writePDF(ctx *gin.Context, rc *models.RenderedCertificate, disposition string) {
	filename := fmt.Sprintf("%s-%s-%s.pdf", rc.Type, rc.GRN, rc.DisplayNumber)
	ctx.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	ctx.Data(http.StatusOK, "application/pdf", rc.PDF)
}
