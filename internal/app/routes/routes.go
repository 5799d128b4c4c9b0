package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/certdesk/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	certificateController *controllers.CertificateController,
	importController *controllers.ImportController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.POST("", studentController.CreateStudent)
		students.GET("/:grn", studentController.GetStudent)
		students.PATCH("/:grn", studentController.UpdateStudent)
		students.DELETE("/:grn", studentController.DeleteStudent)
		students.POST("/:grn/freeze", studentController.FreezeStudent)
		students.DELETE("/:grn/freeze", studentController.UnfreezeStudent)
	}

	certificates := v1.Group("/certificates")
	{
		certificates.GET("/counters", certificateController.GetCounters)
		certificates.POST("/:type/preview", certificateController.PreviewCertificate)
		certificates.POST("/:type/issue", certificateController.IssueCertificate)
	}

	imports := v1.Group("/imports")
	{
		imports.POST("", importController.UploadRoster)
		imports.POST("/rows", importController.ImportRows)
		imports.POST("/resolve", importController.ResolveDuplicates)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
