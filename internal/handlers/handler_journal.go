package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
	"github.com/openbookkeeper/ledger/internal/middleware"
)

// journalHandler handles HTTP requests for posting and voiding journals.
type journalHandler struct {
	journalSvc portssvc.JournalService
}

func newJournalHandler(journalSvc portssvc.JournalService) *journalHandler {
	return &journalHandler{journalSvc: journalSvc}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalSvc portssvc.JournalService) {
	h := newJournalHandler(journalSvc)
	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.GET("", h.listJournals)
		journals.POST("/void", h.voidJournalsByIdentifier)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/void", h.voidJournal)
	}
}

func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	journal, err := h.journalSvc.CreateJournal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Journal posted via API", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

func (h *journalHandler) getJournal(c *gin.Context) {
	journal, err := h.journalSvc.GetJournalByID(c.Request.Context(), c.Param("journalID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

func (h *journalHandler) voidJournal(c *gin.Context) {
	var req dto.VoidJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	journal, err := h.journalSvc.VoidJournal(c.Request.Context(), c.Param("journalID"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

func (h *journalHandler) voidJournalsByIdentifier(c *gin.Context) {
	var req dto.VoidJournalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	summary, err := h.journalSvc.VoidJournalsByIdentifier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *journalHandler) listJournals(c *gin.Context) {
	params := dto.ListJournalsParams{
		IncludeVoided: c.Query("includeVoided") == "true",
		Limit:         parseIntQuery(c, "limit", 50),
		Offset:        parseIntQuery(c, "offset", 0),
	}

	resp, err := h.journalSvc.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
