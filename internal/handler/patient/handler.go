package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/access"
	"github.com/healthvault/ops-api/internal/service/patient"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *patient.Service
	access   *access.Service
	validate *validator.Validator
}

func NewHandler(service *patient.Service, accessSvc *access.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, access: accessSvc, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patients := rg.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

// GetPatient serves staff directly; other callers need an access grant
// for the patient.
func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	principal, ok := handler.Principal(c)
	if !ok {
		return
	}
	if principal.Role != string(model.RoleStaff) {
		allowed, err := h.access.CanView(c.Request.Context(), principal.UserID, id)
		if err != nil {
			handler.Error(c, err)
			return
		}
		if !allowed {
			handler.Error(c, apperrors.Forbidden("no access grant for this patient", nil))
			return
		}
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) ListPatients(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var filter model.PatientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patients, total, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{
		Items: patients,
		Total: total,
	}))
}
