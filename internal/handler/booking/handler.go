package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/scheduler"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *scheduler.Service
	validate *validator.Validator
}

func NewHandler(service *scheduler.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.BookSlot)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}

	rg.GET("/doctors/:id/slots", h.ListSlots)
}

func (h *Handler) BookSlot(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var req model.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	booking, err := h.service.Book(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(booking))
}

func (h *Handler) GetBooking(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if principal.Role != string(model.RoleStaff) && booking.UserID != principal.UserID {
		handler.Error(c, apperrors.Forbidden("booking belongs to another user", nil))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

// CancelBooking frees the slot. Only the booking owner or staff may
// cancel.
func (h *Handler) CancelBooking(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if principal.Role != string(model.RoleStaff) && booking.UserID != principal.UserID {
		handler.Error(c, apperrors.Forbidden("booking belongs to another user", nil))
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cancelled))
}

// ListBookings scopes non-staff callers to their own bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var filter model.BookingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if principal.Role != string(model.RoleStaff) {
		filter.UserID = &principal.UserID
	}

	bookings, total, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{
		Items: bookings,
		Total: total,
	}))
}

// ListSlots returns the doctor's slot board for one date.
func (h *Handler) ListSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date query parameter is required"))
		return
	}

	board, err := h.service.ListSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(board))
}
