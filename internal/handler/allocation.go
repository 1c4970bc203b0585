package handler

import (
	"net/http"
	"strings"

	"jalaram/internal/apierror"
	"jalaram/internal/dto"
	"jalaram/internal/middleware"
	"jalaram/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AllocationHandler struct{ svc service.AllocationService }

func NewAllocationHandler(svc service.AllocationService) *AllocationHandler {
	return &AllocationHandler{svc: svc}
}

// Issue godoc
// @Summary Issue stock against a material request
// @Tags allocation
// @Accept json
// @Produce json
// @Param body body dto.IssueRequest true "Request ID and stock selections"
// @Success 200 {object} dto.IssueResult
// @Failure 409 {object} apierror.APIError
// @Router /v1/allocation/issue [post]
func (h *AllocationHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Issue(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		// Concurrent depletion surfaces as a conflict the client can retry.
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "changed while issuing") {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRequest loads one material request with its derived remaining quantity.
func (h *AllocationHandler) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid request ID"))
		return
	}
	resp, err := h.svc.LoadRequest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Material request not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
