package dto

import (
	"time"

	"github.com/openbookkeeper/ledger/internal/core/domain"
)

// CreateAccountRequest defines the input for creating an account.
type CreateAccountRequest struct {
	AccountKey       string             `json:"accountKey" binding:"required"`
	Code             string             `json:"code" binding:"required,numeric"`
	Name             string             `json:"name" binding:"required"`
	AccountType      domain.AccountType `json:"accountType" binding:"required,accounttype"`
	ParentGroup      domain.ParentGroup `json:"parentGroup" binding:"required,parentgroup"`
	ParentAccountKey string             `json:"parentAccountKey"`
	Extra            map[string]any     `json:"extra"`
}

// UpdateAccountRequest defines the partial update of an account. Nil fields
// are left untouched. Key, code and type are immutable.
type UpdateAccountRequest struct {
	Name             *string             `json:"name"`
	ParentGroup      *domain.ParentGroup `json:"parentGroup"`
	IsActive         *bool               `json:"isActive"`
	ParentAccountKey *string             `json:"parentAccountKey"`
	Extra            map[string]any      `json:"extra"`
}

// ListAccountsParams holds filtering and pagination for account listings.
type ListAccountsParams struct {
	AccountType *domain.AccountType
	ParentGroup *domain.ParentGroup
	IsActive    *bool
	Limit       int
	Offset      int
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountKey       string             `json:"accountKey"`
	Code             string             `json:"code"`
	Name             string             `json:"name"`
	AccountType      domain.AccountType `json:"accountType"`
	ParentGroup      domain.ParentGroup `json:"parentGroup"`
	ParentAccountKey string             `json:"parentAccountKey,omitempty"`
	IsActive         bool               `json:"isActive"`
	Extra            map[string]any     `json:"extra,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
}

// ListAccountsResponse is a paginated account listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int64             `json:"total"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountKey:       a.AccountKey,
		Code:             a.Code,
		Name:             a.Name,
		AccountType:      a.AccountType,
		ParentGroup:      a.ParentGroup,
		ParentAccountKey: a.ParentAccountKey,
		IsActive:         a.IsActive,
		Extra:            a.Extra,
		CreatedAt:        a.CreatedAt,
		LastUpdatedAt:    a.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
