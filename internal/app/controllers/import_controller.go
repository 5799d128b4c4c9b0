package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/certdesk/internal/app/importer"
	"github.com/yigit/certdesk/internal/app/models/dto"
	"github.com/yigit/certdesk/internal/app/services"
	"github.com/yigit/certdesk/internal/middleware"
	"github.com/yigit/certdesk/internal/pkg/filestorage"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

const importUploadDir = "imports"

// ImportController handles roster uploads and duplicate resolution
type ImportController struct {
	importService services.ImportService
	fileStorage   filestorage.FileStorage
}

// NewImportController creates a new ImportController
func NewImportController(importService services.ImportService, fileStorage filestorage.FileStorage) *ImportController {
	return &ImportController{
		importService: importService,
		fileStorage:   fileStorage,
	}
}

// UploadRoster imports a CSV or XLSX roster
// @Summary Import a roster file
// @Description New GRNs are inserted. Rows whose GRN already exists are returned as duplicates and nothing is overwritten.
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster (.csv, .xlsx)"
// @Success 200 {object} dto.APIResponse{data=models.ImportResult} "Import pass completed"
// @Failure 400 {object} dto.ErrorResponse "Missing, unreadable or unsupported file"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /imports [post]
func (c *ImportController) UploadRoster(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required")
		errorDetail = errorDetail.WithField("file").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if _, err := importer.ParserFor(fileHeader.Filename); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	path, err := c.fileStorage.SaveFileWithPath(fileHeader, importUploadDir)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer func() {
		if err := c.fileStorage.DeleteFile(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to remove uploaded roster")
		}
	}()

	result, err := c.importService.ImportFile(ctx, path)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ImportRows imports already parsed rows keyed by source header
// @Summary Import roster rows
// @Tags imports
// @Accept json
// @Produce json
// @Param request body dto.ImportRowsRequest true "Rows keyed by source header"
// @Success 200 {object} dto.APIResponse{data=models.ImportResult} "Import pass completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /imports/rows [post]
func (c *ImportController) ImportRows(ctx *gin.Context) {
	var req dto.ImportRowsRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.importService.Import(ctx, req.Rows)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ResolveDuplicates applies the chosen action to each duplicate of an import pass
// @Summary Resolve import duplicates
// @Description Only "replace" overwrites the stored record; generated counts and the frozen flag are kept. Any other action leaves the record untouched.
// @Tags imports
// @Accept json
// @Produce json
// @Param request body dto.ResolveDuplicatesRequest true "Duplicates with actions"
// @Success 200 {object} dto.APIResponse{data=models.ResolutionResult} "Resolution pass completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /imports/resolve [post]
func (c *ImportController) ResolveDuplicates(ctx *gin.Context) {
	var req dto.ResolveDuplicatesRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.importService.ResolveDuplicates(ctx, req.Duplicates)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}
