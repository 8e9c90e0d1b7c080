package accounting

import (
	"github.com/openbookkeeper/ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Places is the fixed rounding precision applied at every arithmetic
// boundary so floating drift cannot compound across many entries.
const Places = 2

// Round normalizes a money value to the ledger's fixed precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// IsDebitNormal reports whether an account's balance increases with debits.
// Asset and expense groups are debit-normal; a contra account attached to the
// liability group is also debit-normal (it offsets a credit-normal balance).
// Everything else increases with credits.
// This single predicate is the basis for every derived balance computation.
func IsDebitNormal(account domain.Account) bool {
	if account.ParentGroup == domain.GroupAsset || account.ParentGroup == domain.GroupExpense {
		return true
	}
	return account.AccountType == domain.Contra && account.ParentGroup == domain.GroupLiability
}

// NormalBalance converts raw debit/credit sums into a signed balance
// according to the account's normal-balance polarity.
func NormalBalance(account domain.Account, debit, credit decimal.Decimal) decimal.Decimal {
	if IsDebitNormal(account) {
		return Round(debit.Sub(credit))
	}
	return Round(credit.Sub(debit))
}

// NetChange is the signed effect of a single entry on its account's balance.
func NetChange(account domain.Account, entry domain.Entry) decimal.Decimal {
	return NormalBalance(account, entry.Debit, entry.Credit)
}

// validPairings is the type <-> parentGroup consistency table. Contra
// accounts attach to the asset or liability group; every other type pairs
// only with its own group.
var validPairings = map[domain.AccountType][]domain.ParentGroup{
	domain.Asset:     {domain.GroupAsset},
	domain.Liability: {domain.GroupLiability},
	domain.Equity:    {domain.GroupEquity},
	domain.Income:    {domain.GroupIncome},
	domain.Expense:   {domain.GroupExpense},
	domain.Contra:    {domain.GroupAsset, domain.GroupLiability},
}

// IsValidPairing reports whether an account type may belong to a parent group.
func IsValidPairing(accountType domain.AccountType, group domain.ParentGroup) bool {
	for _, g := range validPairings[accountType] {
		if g == group {
			return true
		}
	}
	return false
}
