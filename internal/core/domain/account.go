package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
	Contra    AccountType = "CONTRA"
)

// ParentGroup is the top-level statement classification of an account. It
// governs normal-balance polarity and where the account lands on reports.
type ParentGroup string

const (
	GroupAsset     ParentGroup = "ASSET"
	GroupLiability ParentGroup = "LIABILITY"
	GroupEquity    ParentGroup = "EQUITY"
	GroupIncome    ParentGroup = "INCOME"
	GroupExpense   ParentGroup = "EXPENSE"
)

// Account is a node in the chart of accounts.
// AccountKey and Code are immutable after creation; everything else is
// mutated field-by-field via updates. Accounts are never deleted, only
// deactivated.
type Account struct {
	AccountKey       string         `json:"accountKey"`       // Stable business identifier (unique)
	Code             string         `json:"code"`             // Numeric-string identifier (unique)
	Name             string         `json:"name"`             // User-defined name
	AccountType      AccountType    `json:"accountType"`      // ASSET, LIABILITY, ..., CONTRA
	ParentGroup      ParentGroup    `json:"parentGroup"`      // Statement group, must be consistent with AccountType
	ParentAccountKey string         `json:"parentAccountKey"` // Optional self-reference; forms a forest
	IsActive         bool           `json:"isActive"`         // Inactive accounts reject new postings
	Extra            map[string]any `json:"extra"`            // Open attribute bag
	AuditFields
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	AccountType *AccountType
	ParentGroup *ParentGroup
	IsActive    *bool
}

// AccountNode is one node of the account hierarchy forest view.
type AccountNode struct {
	Account  Account        `json:"account"`
	Children []*AccountNode `json:"children"`
}
