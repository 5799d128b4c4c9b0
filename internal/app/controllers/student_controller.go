// Package controllers holds the gin handlers for the register, certificate and import routes.
// The swag annotations are inert until `swag init` generates a docs package; none is served.
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/certdesk/internal/app/models"
	"github.com/yigit/certdesk/internal/app/models/dto"
	"github.com/yigit/certdesk/internal/app/services"
	"github.com/yigit/certdesk/internal/middleware"
	"github.com/yigit/certdesk/internal/pkg/helpers"
)

// StudentController handles general register operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// ListStudents retrieves one page of the register
// @Summary List students
// @Description Retrieves the general register ordered by GRN
// @Tags students
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.StudentRecord}} "Students retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	students, total, err := c.studentService.ListStudents(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data: dto.PaginatedResponse{
			Items:      students,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetStudent retrieves a student by GRN
// @Summary Get student by GRN
// @Description The GRN is matched exactly
// @Tags students
// @Produce json
// @Param grn path string true "General register number"
// @Success 200 {object} dto.APIResponse{data=models.StudentRecord} "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{grn} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx, ctx.Param("grn"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      student,
		Timestamp: time.Now(),
	})
}

// CreateStudent adds a record to the register
// @Summary Create a student
// @Description Generated counts, frozen flag and timestamps in the body are ignored
// @Tags students
// @Accept json
// @Produce json
// @Param request body models.StudentRecord true "Student record"
// @Success 201 {object} dto.APIResponse{data=models.StudentRecord} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Student with this GRN already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var student models.StudentRecord
	if err := ctx.ShouldBindJSON(&student); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	created, err := c.studentService.CreateStudent(ctx, &student)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Message:   "Student created successfully",
		Data:      created,
		Timestamp: time.Now(),
	})
}

// UpdateStudent changes individual fields of a record
// @Summary Update student fields
// @Description Fields are keyed by canonical name; the GRN cannot be changed
// @Tags students
// @Accept json
// @Produce json
// @Param grn path string true "General register number"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.StudentRecord} "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 423 {object} dto.ErrorResponse "Student record is frozen"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{grn} [patch]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	updated, err := c.studentService.UpdateStudent(ctx, ctx.Param("grn"), req.Fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Message:   "Student updated successfully",
		Data:      updated,
		Timestamp: time.Now(),
	})
}

// DeleteStudent removes a record from the register
// @Summary Delete a student
// @Tags students
// @Param grn path string true "General register number"
// @Success 204 "Student deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 423 {object} dto.ErrorResponse "Student record is frozen"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{grn} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.DeleteStudent(ctx, ctx.Param("grn")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// FreezeStudent locks a record against edits
// @Summary Freeze a student record
// @Tags students
// @Param grn path string true "General register number"
// @Success 204 "Student frozen"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{grn}/freeze [post]
func (c *StudentController) FreezeStudent(ctx *gin.Context) {
	c.setFrozen(ctx, true)
}

// UnfreezeStudent unlocks a frozen record
// @Summary Unfreeze a student record
// @Tags students
// @Param grn path string true "General register number"
// @Success 204 "Student unfrozen"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{grn}/freeze [delete]
func (c *StudentController) UnfreezeStudent(ctx *gin.Context) {
	c.setFrozen(ctx, false)
}

func (c *StudentController) setFrozen(ctx *gin.Context, frozen bool) {
	if err := c.studentService.SetFrozen(ctx, ctx.Param("grn"), frozen); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
