package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// openingBalanceHandler handles HTTP requests for seeding account balances.
type openingBalanceHandler struct {
	openingSvc portssvc.OpeningBalanceService
}

func newOpeningBalanceHandler(openingSvc portssvc.OpeningBalanceService) *openingBalanceHandler {
	return &openingBalanceHandler{openingSvc: openingSvc}
}

func registerOpeningBalanceRoutes(rg *gin.RouterGroup, openingSvc portssvc.OpeningBalanceService) {
	h := newOpeningBalanceHandler(openingSvc)
	rg.PUT("/accounts/:accountKey/opening-balance", h.applyOpeningBalance)
}

func (h *openingBalanceHandler) applyOpeningBalance(c *gin.Context) {
	var req dto.ApplyOpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	journal, err := h.openingSvc.ApplyOpeningBalance(c.Request.Context(), c.Param("accountKey"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if journal == nil {
		// Zero amount: the prior opening journal (if any) was voided and no
		// new journal was issued.
		c.JSON(http.StatusOK, gin.H{"journal": nil})
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
