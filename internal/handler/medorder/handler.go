package medorder

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/medorder"
	"github.com/healthvault/ops-api/pkg/validator"
)

// Handler exposes staff-only medical order endpoints.
type Handler struct {
	service  *medorder.Service
	validate *validator.Validator
}

func NewHandler(service *medorder.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/medical-orders")
	{
		orders.POST("", h.Issue)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/status", h.SetStatus)
	}
}

func (h *Handler) Issue(c *gin.Context) {
	principal, ok := handler.RequireStaff(c)
	if !ok {
		return
	}

	var req model.CreateMedicalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	order, err := h.service.Issue(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(order))
}

func (h *Handler) Get(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

// SetStatus completes or cancels an order.
func (h *Handler) SetStatus(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	var req model.SetMedicalOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	order, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

func (h *Handler) List(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var filter model.MedicalOrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{
		Items: orders,
		Total: total,
	}))
}
