package complaint

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/complaint"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *complaint.Service
	validate *validator.Validator
}

func NewHandler(service *complaint.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	complaints := rg.Group("/complaints")
	{
		complaints.POST("", h.CreateComplaint)
		complaints.GET("", h.ListComplaints)
		complaints.GET("/:id", h.GetComplaint)
		complaints.POST("/:id/status", h.SetStatus)
	}
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var req model.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	complaint, err := h.service.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(complaint))
}

func (h *Handler) GetComplaint(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid complaint ID"))
		return
	}

	complaint, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if principal.Role != string(model.RoleStaff) && complaint.UserID != principal.UserID {
		handler.Error(c, apperrors.Forbidden("complaint belongs to another user", nil))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(complaint))
}

// SetStatus advances open -> in_progress -> resolved; staff-only.
func (h *Handler) SetStatus(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid complaint ID"))
		return
	}

	var req model.SetComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	complaint, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(complaint))
}

// ListComplaints scopes non-staff callers to their own complaints.
func (h *Handler) ListComplaints(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var filter model.ComplaintFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if principal.Role != string(model.RoleStaff) {
		filter.UserID = &principal.UserID
	}

	complaints, total, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{
		Items: complaints,
		Total: total,
	}))
}
