package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/notification"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *notification.Service
	validate *validator.Validator
}

func NewHandler(service *notification.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.POST("", h.Send)
		notifications.GET("", h.ListOwn)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// Send dispatches a targeted or broadcast notification; staff-only.
func (h *Handler) Send(c *gin.Context) {
	principal, ok := handler.RequireStaff(c)
	if !ok {
		return
	}

	var req model.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	n, err := h.service.Send(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(n))
}

// MarkRead is idempotent: repeat calls by the same eligible reader
// succeed without moving the read timestamp.
func (h *Handler) MarkRead(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid notification ID"))
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), id, principal.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(n))
}

// ListOwn returns the caller's notifications, broadcasts included.
func (h *Handler) ListOwn(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var filter model.NotificationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	notifications, total, err := h.service.ListForUser(c.Request.Context(), principal.UserID, &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{
		Items: notifications,
		Total: total,
	}))
}
