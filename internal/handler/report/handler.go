package report

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/report"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *report.Service
	validate *validator.Validator
}

func NewHandler(service *report.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.POST("", h.UploadReport)
		reports.GET("/:id", h.GetReport)
		reports.GET("/:id/download", h.DownloadReport)
	}

	rg.GET("/patients/:id/reports", h.ListForPatient)
}

// UploadReport accepts a multipart form with the file plus metadata
// fields and returns the stored record with its durable object key.
func (h *Handler) UploadReport(c *gin.Context) {
	principal, ok := handler.RequireStaff(c)
	if !ok {
		return
	}

	var req model.UploadReportRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read uploaded file"))
		return
	}
	defer file.Close()

	rec, err := h.service.Upload(
		c.Request.Context(),
		principal.UserID,
		&req,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) GetReport(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid report ID"))
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

// DownloadReport streams the stored payload back.
func (h *Handler) DownloadReport(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid report ID"))
		return
	}

	rec, rc, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	c.DataFromReader(http.StatusOK, rec.SizeBytes, rec.MimeType, rc, nil)
}

func (h *Handler) ListForPatient(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	reports, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(reports))
}
