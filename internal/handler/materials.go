package handler

import (
	"net/http"

	"jalaram/internal/apierror"
	"jalaram/internal/dto"
	"jalaram/internal/middleware"
	"jalaram/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MaterialsHandler struct{ svc service.CatalogService }

func NewMaterialsHandler(svc service.CatalogService) *MaterialsHandler {
	return &MaterialsHandler{svc: svc}
}

// Create godoc
// @Summary Register a purchased RAW roll
// @Tags materials
// @Accept json
// @Produce json
// @Param body body dto.CreateMaterialRequest true "Roll attributes"
// @Success 201 {object} dto.MaterialResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/materials [post]
func (h *MaterialsHandler) Create(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateRawMaterial(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MaterialsHandler) List(c *gin.Context) {
	var filter dto.MaterialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list materials"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaterialsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid material ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Material not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Candidates lists active rolls matching a request's attributes; the issue
// screen shows these for the storekeeper to pick from.
func (h *MaterialsHandler) Candidates(c *gin.Context) {
	var q dto.CandidateQuery
	if !bindQueryAndValidate(c, &q) {
		return
	}
	resp, err := h.svc.FindCandidates(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MaterialsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid material ID"))
		return
	}
	var req dto.UpdateMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
