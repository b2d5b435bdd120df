package admission

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/admission"
	"github.com/healthvault/ops-api/pkg/validator"
)

// Handler is the HTTP surface of the admission ledger. All ledger
// mutations are staff-only.
type Handler struct {
	service  *admission.Service
	validate *validator.Validator
}

func NewHandler(service *admission.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admissions := rg.Group("/admissions")
	{
		admissions.POST("", h.Admit)
		admissions.GET("", h.ListActive)
		admissions.GET("/:id", h.GetAdmission)
		admissions.POST("/:id/discharge", h.Discharge)
		admissions.POST("/:id/tasks", h.CreateTask)
		admissions.GET("/:id/tasks", h.ListTasks)
	}

	rg.POST("/tasks/:id/complete", h.CompleteTask)
	rg.GET("/patients/:id/admissions", h.ListForPatient)
	rg.GET("/beds/:id/occupancy", h.BedOccupancy)
}

func (h *Handler) Admit(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.AdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	adm, err := h.service.Admit(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(adm))
}

func (h *Handler) Discharge(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	adm, err := h.service.Discharge(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) GetAdmission(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	adm, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(adm))
}

func (h *Handler) ListActive(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var filter model.AdmissionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	admissions, total, err := h.service.ListActive(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{
		Items: admissions,
		Total: total,
	}))
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

	admissions, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(admissions))
}

// BedOccupancy reports whether the bed currently holds an active
// admission, straight from the ledger.
func (h *Handler) BedOccupancy(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	bedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid bed ID"))
		return
	}

	occupied, err := h.service.IsOccupied(c.Request.Context(), bedID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"bed_id":   bedID,
		"occupied": occupied,
	}))
}

func (h *Handler) CreateTask(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	var req model.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), admissionID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(task))
}

func (h *Handler) CompleteTask(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	task, err := h.service.CompleteTask(c.Request.Context(), taskID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(task))
}

func (h *Handler) ListTasks(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid admission ID"))
		return
	}

	tasks, err := h.service.ListTasks(c.Request.Context(), admissionID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tasks))
}
