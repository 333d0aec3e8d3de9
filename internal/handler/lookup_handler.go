package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zafarh/dsj-hrms-api/internal/service"
	"github.com/zafarh/dsj-hrms-api/pkg/response"
)

// LookupHandler serves the master-data dropdowns.
type LookupHandler struct {
	lookups *service.LookupService
}

// NewLookupHandler constructs a LookupHandler.
func NewLookupHandler(lookups *service.LookupService) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

// Designations godoc
// @Summary List designations
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/designations [get]
func (h *LookupHandler) Designations(c *gin.Context) {
	designations, err := h.lookups.Designations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, designations, nil)
}

// PostingCategories godoc
// @Summary List posting categories
// @Tags Lookups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lookups/posting-categories [get]
func (h *LookupHandler) PostingCategories(c *gin.Context) {
	categories, err := h.lookups.PostingCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}
