package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/handler"
	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/service/directory"
	"github.com/healthvault/ops-api/pkg/validator"
)

// Handler serves the reference data: departments, doctors, wards,
// beds, and the canteen menu. Mutations are staff-only; listings are
// open to any authenticated caller.
type Handler struct {
	service  *directory.Service
	validate *validator.Validator
}

func NewHandler(service *directory.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	departments := rg.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
	}

	doctors := rg.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
	}

	wards := rg.Group("/wards")
	{
		wards.POST("", h.CreateWard)
		wards.GET("", h.ListWards)
		wards.GET("/:id", h.GetWard)
	}

	beds := rg.Group("/beds")
	{
		beds.POST("", h.CreateBed)
		beds.GET("", h.ListBeds)
		beds.GET("/:id", h.GetBed)
	}

	menu := rg.Group("/menu-items")
	{
		menu.POST("", h.CreateMenuItem)
		menu.GET("", h.ListMenuItems)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	dept, err := h.service.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(dept))
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}

	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dept))
}

func (h *Handler) ListDepartments(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	depts, total, err := h.service.ListDepartments(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{Items: depts, Total: total}))
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(doctor))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	doctors, total, err := h.service.ListDoctors(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{Items: doctors, Total: total}))
}

func (h *Handler) CreateWard(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.CreateWardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	ward, err := h.service.CreateWard(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(ward))
}

func (h *Handler) GetWard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid ward ID"))
		return
	}

	ward, err := h.service.GetWard(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ward))
}

func (h *Handler) ListWards(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	wards, total, err := h.service.ListWards(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{Items: wards, Total: total}))
}

func (h *Handler) CreateBed(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.CreateBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	bed, err := h.service.CreateBed(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(bed))
}

func (h *Handler) GetBed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid bed ID"))
		return
	}

	bed, err := h.service.GetBed(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(bed))
}

// ListBeds carries live occupancy derived from the admission ledger.
func (h *Handler) ListBeds(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	beds, total, err := h.service.ListBeds(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{Items: beds, Total: total}))
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	if _, ok := handler.RequireStaff(c); !ok {
		return
	}

	var req model.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		handler.Error(c, err)
		return
	}

	item, err := h.service.CreateMenuItem(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(item))
}

func (h *Handler) ListMenuItems(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	items, total, err := h.service.ListMenuItems(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListPayload{Items: items, Total: total}))
}

func bindFilter(c *gin.Context) (*model.DirectoryFilter, bool) {
	var filter model.DirectoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}
	return &filter, true
}
