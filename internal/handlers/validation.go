package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/openbookkeeper/ledger/internal/core/domain"
)

// RegisterValidations installs the ledger's enum rules into gin's binding
// validator so malformed account types are rejected at bind time.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("accounttype", validAccountType)
	_ = v.RegisterValidation("parentgroup", validParentGroup)
}

func validAccountType(fl validator.FieldLevel) bool {
	switch domain.AccountType(fl.Field().String()) {
	case domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense, domain.Contra:
		return true
	}
	return false
}

func validParentGroup(fl validator.FieldLevel) bool {
	switch domain.ParentGroup(fl.Field().String()) {
	case domain.GroupAsset, domain.GroupLiability, domain.GroupEquity, domain.GroupIncome, domain.GroupExpense:
		return true
	}
	return false
}
