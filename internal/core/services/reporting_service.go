package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbookkeeper/ledger/internal/core/domain"
	portsrepo "github.com/openbookkeeper/ledger/internal/core/ports/repositories"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/dto"
	"github.com/openbookkeeper/ledger/internal/middleware"
	"github.com/openbookkeeper/ledger/internal/utils/accounting"
)

// reportingService derives balances and statements from non-voided entries.
// Every accumulation step re-rounds so floating drift cannot compound.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	accountSvc    portssvc.AccountService
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountSvc portssvc.AccountService) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// GetAccountBalance sums debit/credit over matching entries and derives the
// signed normal balance from the account's polarity.
func (s *reportingService) GetAccountBalance(ctx context.Context, accountKey string, params dto.BalanceParams) (*domain.AccountBalance, error) {
	account, err := s.accountSvc.GetAccountByKey(ctx, accountKey)
	if err != nil {
		return nil, err
	}

	filter := domain.EntryFilter{
		AccountKey: accountKey,
		From:       params.From,
		To:         params.To,
		Meta:       params.Meta,
	}
	debit, credit, err := s.reportingRepo.SumEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to sum entries for account %s: %w", accountKey, err)
	}

	debit = accounting.Round(debit)
	credit = accounting.Round(credit)
	return &domain.AccountBalance{
		Debit:   debit,
		Credit:  credit,
		Balance: accounting.NormalBalance(*account, debit, credit),
	}, nil
}

// GetAccountLedger returns the opening balance strictly before the range and
// a time-ordered page of entries annotated with running balances.
func (s *reportingService) GetAccountLedger(ctx context.Context, accountKey string, params dto.LedgerParams) (*domain.AccountLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetAccountByKey(ctx, accountKey)
	if err != nil {
		return nil, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	// Opening balance: everything strictly before the range start.
	opening := decimal.Zero
	if params.From != nil {
		before := params.From.Add(-time.Millisecond)
		openingBalance, err := s.GetAccountBalance(ctx, accountKey, dto.BalanceParams{To: &before})
		if err != nil {
			return nil, err
		}
		opening = openingBalance.Balance
	}

	filter := domain.EntryFilter{
		AccountKey: accountKey,
		From:       params.From,
		To:         params.To,
	}
	entries, total, err := s.reportingRepo.ListAccountEntries(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for account %s: %w", accountKey, err)
	}

	lines := make([]domain.LedgerLine, len(entries))
	balance := opening
	for i, entry := range entries {
		balance = accounting.Round(balance.Add(accounting.NetChange(*account, entry)))
		lines[i] = domain.LedgerLine{Entry: entry, RunningBalance: balance}
	}

	logger.Debug("Account ledger computed",
		slog.String("account_key", accountKey),
		slog.Int("lines", len(lines)),
		slog.Int64("total", total),
	)
	return &domain.AccountLedger{
		OpeningBalance: opening,
		Lines:          lines,
		TotalCount:     total,
	}, nil
}

// GetTrialBalance reports every account's signed balance over a range plus
// grand debit/credit totals, ordered by account code.
func (s *reportingService) GetTrialBalance(ctx context.Context, params dto.RangeParams) (*domain.TrialBalance, error) {
	rows, err := s.reportingRepo.TrialBalanceRows(ctx, params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range rows {
		rows[i].Debit = accounting.Round(rows[i].Debit)
		rows[i].Credit = accounting.Round(rows[i].Credit)
		polarity := domain.Account{
			AccountType: rows[i].AccountType,
			ParentGroup: rows[i].ParentGroup,
		}
		rows[i].Balance = accounting.NormalBalance(polarity, rows[i].Debit, rows[i].Credit)
		totalDebit = accounting.Round(totalDebit.Add(rows[i].Debit))
		totalCredit = accounting.Round(totalCredit.Add(rows[i].Credit))
	}

	return &domain.TrialBalance{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// GetProfitAndLoss nets the income and expense groups over a period.
func (s *reportingService) GetProfitAndLoss(ctx context.Context, params dto.RangeParams, meta map[string]string) (*domain.ProfitAndLoss, error) {
	sums, err := s.reportingRepo.SumByParentGroup(ctx,
		[]domain.ParentGroup{domain.GroupIncome, domain.GroupExpense},
		params.From, params.To, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to compute profit and loss: %w", err)
	}

	income := sums[domain.GroupIncome]
	expense := sums[domain.GroupExpense]
	totalIncome := accounting.Round(income.Credit.Sub(income.Debit))
	totalExpense := accounting.Round(expense.Debit.Sub(expense.Credit))

	return &domain.ProfitAndLoss{
		From:         params.From,
		To:           params.To,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		NetProfit:    accounting.Round(totalIncome.Sub(totalExpense)),
	}, nil
}

// GetBalanceSheet nets all entries up to asOf by parent group and folds net
// income into equity as calculated retained earnings, so that
// assets == liabilities + equity holds by construction.
func (s *reportingService) GetBalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	sums, err := s.reportingRepo.SumByParentGroup(ctx,
		[]domain.ParentGroup{
			domain.GroupAsset, domain.GroupLiability, domain.GroupEquity,
			domain.GroupIncome, domain.GroupExpense,
		},
		nil, &asOf, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance sheet: %w", err)
	}

	assets := accounting.Round(sums[domain.GroupAsset].Debit.Sub(sums[domain.GroupAsset].Credit))
	liabilities := accounting.Round(sums[domain.GroupLiability].Credit.Sub(sums[domain.GroupLiability].Debit))
	equity := accounting.Round(sums[domain.GroupEquity].Credit.Sub(sums[domain.GroupEquity].Debit))

	netIncome := accounting.Round(sums[domain.GroupIncome].Credit.Sub(sums[domain.GroupIncome].Debit))
	netExpense := accounting.Round(sums[domain.GroupExpense].Debit.Sub(sums[domain.GroupExpense].Credit))
	retained := accounting.Round(netIncome.Sub(netExpense))

	return &domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           accounting.Round(equity.Add(retained)),
		RetainedEarnings: retained,
	}, nil
}
