package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// reportingHandler handles HTTP requests for balances and statements.
type reportingHandler struct {
	reportingSvc portssvc.ReportingService
}

func newReportingHandler(reportingSvc portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingSvc: reportingSvc}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingSvc portssvc.ReportingService) {
	h := newReportingHandler(reportingSvc)
	rg.GET("/accounts/:accountKey/balance", h.getAccountBalance)
	rg.GET("/accounts/:accountKey/ledger", h.getAccountLedger)
	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// parseTimeQuery reads an RFC3339 query parameter; a malformed or absent
// value yields nil.
func parseTimeQuery(c *gin.Context, name string) *time.Time {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

// metaFilter collects meta.<field>=value query parameters into an equality
// filter on entry metadata.
func metaFilter(c *gin.Context) map[string]string {
	meta := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(key) > 5 && key[:5] == "meta." && len(values) > 0 {
			meta[key[5:]] = values[0]
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

func (h *reportingHandler) getAccountBalance(c *gin.Context) {
	params := dto.BalanceParams{
		From: parseTimeQuery(c, "from"),
		To:   parseTimeQuery(c, "to"),
		Meta: metaFilter(c),
	}

	balance, err := h.reportingSvc.GetAccountBalance(c.Request.Context(), c.Param("accountKey"), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *reportingHandler) getAccountLedger(c *gin.Context) {
	params := dto.LedgerParams{
		From:     parseTimeQuery(c, "from"),
		To:       parseTimeQuery(c, "to"),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "pageSize", 50),
	}

	ledger, err := h.reportingSvc.GetAccountLedger(c.Request.Context(), c.Param("accountKey"), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	params := dto.RangeParams{
		From: parseTimeQuery(c, "from"),
		To:   parseTimeQuery(c, "to"),
	}

	tb, err := h.reportingSvc.GetTrialBalance(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tb)
}

func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	params := dto.RangeParams{
		From: parseTimeQuery(c, "from"),
		To:   parseTimeQuery(c, "to"),
	}

	pnl, err := h.reportingSvc.GetProfitAndLoss(c.Request.Context(), params, metaFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pnl)
}

func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf := time.Now().UTC()
	if t := parseTimeQuery(c, "asOf"); t != nil {
		asOf = *t
	}

	bs, err := h.reportingSvc.GetBalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bs)
}
