package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountSvc portssvc.AccountService
}

func newAccountHandler(accountSvc portssvc.AccountService) *accountHandler {
	return &accountHandler{accountSvc: accountSvc}
}

func registerAccountRoutes(rg *gin.RouterGroup, accountSvc portssvc.AccountService) {
	h := newAccountHandler(accountSvc)
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/hierarchy", h.getHierarchy)
		accounts.GET("/hierarchy/validate", h.validateHierarchy)
		accounts.GET("/by-code/:code", h.getAccountByCode)
		accounts.GET("/:accountKey", h.getAccount)
		accounts.PATCH("/:accountKey", h.updateAccount)
		accounts.DELETE("/:accountKey", h.deactivateAccount)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountSvc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountSvc.UpdateAccount(c.Request.Context(), c.Param("accountKey"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) deactivateAccount(c *gin.Context) {
	if err := h.accountSvc.DeactivateAccount(c.Request.Context(), c.Param("accountKey")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountSvc.GetAccountByKey(c.Request.Context(), c.Param("accountKey"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccountByCode(c *gin.Context) {
	account, err := h.accountSvc.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	params := dto.ListAccountsParams{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("accountType"); v != "" {
		t := domain.AccountType(v)
		params.AccountType = &t
	}
	if v := c.Query("parentGroup"); v != "" {
		g := domain.ParentGroup(v)
		params.ParentGroup = &g
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		params.IsActive = &active
	}

	resp, err := h.accountSvc.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *accountHandler) getHierarchy(c *gin.Context) {
	forest, err := h.accountSvc.GetAccountHierarchy(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roots": forest})
}

func (h *accountHandler) validateHierarchy(c *gin.Context) {
	if err := h.accountSvc.ValidateHierarchy(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseIntQuery reads an integer query parameter with a fallback.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
