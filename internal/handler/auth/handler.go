package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/identity"
	"github.com/healthvault/ops-api/pkg/validator"
)

type Handler struct {
	service  *identity.Service
	validate *validator.Validator
}

func NewHandler(service *identity.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
