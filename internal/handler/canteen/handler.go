package canteen

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/canteen"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *canteen.Service
	validate *validator.Validator
}

func NewHandler(service *canteen.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/items", h.AddItem)
		orders.POST("/:id/status", h.SetStatus)
	}
}

func (h *Handler) CreateOrder(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(order))
}

func (h *Handler) GetOrder(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
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
	if principal.Role != string(model.RoleStaff) && order.UserID != principal.UserID {
		handler.Error(c, apperrors.Forbidden("order belongs to another user", nil))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(order))
}

// AddItem merges quantity into an existing line for the same item.
func (h *Handler) AddItem(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
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
	if principal.Role != string(model.RoleStaff) && order.UserID != principal.UserID {
		handler.Error(c, apperrors.Forbidden("order belongs to another user", nil))
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	updated, err := h.service.AddItem(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

// SetStatus advances the fulfillment state machine; staff-only.
func (h *Handler) SetStatus(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	var req model.SetOrderStatusRequest
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

// ListOrders scopes non-staff callers to their own orders.
func (h *Handler) ListOrders(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	var filter model.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if principal.Role != string(model.RoleStaff) {
		filter.UserID = &principal.UserID
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
