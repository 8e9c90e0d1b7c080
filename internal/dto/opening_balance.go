package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyOpeningBalanceRequest seeds an account's starting position. Amount is
// signed relative to the account's normal balance; a zero amount only voids
// any previously issued opening journal.
type ApplyOpeningBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   *time.Time      `json:"datetime"`
	Memo   string          `json:"memo"`
}
