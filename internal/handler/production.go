package handler

import (
	"net/http"
	"time"

	"jalaram/internal/apierror"
	"jalaram/internal/dto"
	"jalaram/internal/middleware"
	"jalaram/internal/repository"
	"jalaram/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductionHandler struct{ svc service.ProductionService }

func NewProductionHandler(svc service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// RecordConsumption godoc
// @Summary Record a production-stage run
// @Tags production
// @Accept json
// @Produce json
// @Param body body dto.ConsumptionRequest true "Stage run"
// @Success 201 {object} dto.ConsumptionResult
// @Router /v1/production/consumption [post]
func (h *ProductionHandler) RecordConsumption(c *gin.Context) {
	var req dto.ConsumptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordConsumption(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// TransactionsHandler reads the ledger directly; listing needs no business
// rules beyond filtering, so no service layer sits in between.
type TransactionsHandler struct{ repo repository.TransactionRepository }

func NewTransactionsHandler(repo repository.TransactionRepository) *TransactionsHandler {
	return &TransactionsHandler{repo: repo}
}

func (h *TransactionsHandler) List(c *gin.Context) {
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return
	}
	txs, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list transactions"))
		return
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		t := &txs[i]
		items = append(items, dto.TransactionResponse{
			ID:          t.ID.String(),
			Type:        t.Type,
			JobNo:       t.JobNo,
			Stage:       t.Stage,
			Category:    t.Category,
			PaperCode:   t.PaperCode,
			PaperCodes:  t.PaperCodes,
			ProductCode: t.ProductCode,
			IssuedQty:   t.IssuedQty,
			UsedQty:     t.UsedQty,
			WasteQty:    t.WasteQty,
			LeftoverQty: t.LeftoverQty,
			WipQty:      t.WipQty,
			Note:        t.Note,
			CreatedBy:   t.CreatedBy,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
