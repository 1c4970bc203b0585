package handler

import (
	"net/http"

	"jalaram/internal/apierror"
	"jalaram/internal/dto"
	"jalaram/internal/middleware"
	"jalaram/internal/service"

	"github.com/gin-gonic/gin"
)

type JobsHandler struct{ svc service.JobService }

func NewJobsHandler(svc service.JobService) *JobsHandler { return &JobsHandler{svc: svc} }

// Create godoc
// @Summary Open a job card with its material request
// @Tags jobs
// @Accept json
// @Produce json
// @Param body body dto.CreateJobCardRequest true "Job card"
// @Success 201 {object} dto.JobCardResponse
// @Router /v1/jobs [post]
func (h *JobsHandler) Create(c *gin.Context) {
	var req dto.CreateJobCardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *JobsHandler) List(c *gin.Context) {
	var filter dto.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list job cards"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobsHandler) GetByJobNo(c *gin.Context) {
	resp, err := h.svc.GetByJobNo(c.Request.Context(), c.Param("job_no"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Job card not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Requests returns the material requests recorded against a job number.
func (h *JobsHandler) Requests(c *gin.Context) {
	resp, err := h.svc.Requests(c.Request.Context(), c.Param("job_no"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list material requests"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
