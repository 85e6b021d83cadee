package handlers

import (
	"net/http"

	apperrors "github.com/BillChill/billchill-backend/errors"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/types"
	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	searcher HospitalSearcher
}

func NewHospitalHandler(searcher HospitalSearcher) *HospitalHandler {
	return &HospitalHandler{searcher: searcher}
}

// SearchHospitals godoc
// @Summary Find nearby hospitals with price estimates
// @Description Resolves the search origin from lat/lon or a location string, asks the web-search model for hospitals treating the condition, and returns validated results sorted by price.
// @Tags hospitals
// @Accept json
// @Produce json
// @Param request body types.HospitalSearchRequest true "Search origin and condition"
// @Success 200 {object} types.HospitalSearchResponse "Hospitals sorted by price"
// @Failure 400 {object} middleware.ErrorResponse "Missing condition, origin or unknown location"
// @Failure 429 {object} middleware.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} middleware.ErrorResponse "Model key missing"
// @Failure 502 {object} middleware.ErrorResponse "Model request failed"
// @Router /api/hospitals [post]
func (h *HospitalHandler) SearchHospitals(c *gin.Context) {
	var req types.HospitalSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Debugw("Invalid hospital search body", "error", err)
		_ = c.Error(apperrors.ValidationFailed("Invalid JSON body", err.Error()))
		return
	}

	results, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if results == nil {
		results = []types.HospitalResult{}
	}

	c.JSON(http.StatusOK, types.HospitalSearchResponse{Results: results})
}

// Preflight handles OPTIONS /api/hospitals for clients that skip the CORS
// middleware's preflight handling.
func (h *HospitalHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
