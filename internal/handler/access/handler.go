package access

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/access"
	"github.com/healthvault/ops-api/pkg/validator"
)

// Handler serves the user-to-patient access grants. Granting and
// revoking is staff-only; every caller can list their own grants.
type Handler struct {
	service  *access.Service
	validate *validator.Validator
}

func NewHandler(service *access.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	grants := rg.Group("/access-grants")
	{
		grants.POST("", h.Grant)
		grants.GET("", h.ListOwn)
		grants.DELETE("/:id", h.Revoke)
	}

	rg.GET("/patients/:id/access-grants", h.ListForPatient)
}

// Grant upserts: re-granting an existing (user, patient) pair updates
// the relationship instead of erroring.
func (h *Handler) Grant(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	grant, err := h.service.Grant(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(grant))
}

func (h *Handler) Revoke(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid grant ID"))
		return
	}

	if err := h.service.Revoke(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListOwn(c *gin.Context) {
	principal, ok := handler.Principal(c)
	if !ok {
		return
	}

	grants, err := h.service.ListForUser(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(grants))
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

	grants, err := h.service.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(grants))
}
