package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/core/services"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest) (*domain.Journal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) VoidJournal(ctx context.Context, journalID, reason string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) VoidJournalsByIdentifier(ctx context.Context, req dto.VoidJournalsRequest) (domain.VoidSummary, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.VoidSummary), args.Error(1)
}

func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

// --- Test Suite ---
type OpeningBalanceServiceTestSuite struct {
	suite.Suite
	mockAccountSvc *MockAccountService
	mockJournalSvc *MockJournalService
	service        portssvc.OpeningBalanceService
}

func (suite *OpeningBalanceServiceTestSuite) SetupTest() {
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockJournalSvc = new(MockJournalService)
	suite.service = services.NewOpeningBalanceService(suite.mockAccountSvc, suite.mockJournalSvc)
}

func (suite *OpeningBalanceServiceTestSuite) expectPriorVoid(accountKey string, summary domain.VoidSummary) {
	suite.mockJournalSvc.On("VoidJournalsByIdentifier", mock.Anything, mock.MatchedBy(func(req dto.VoidJournalsRequest) bool {
		return req.ReferenceType == services.OpeningBalanceReference && req.ReferenceID == accountKey && req.Reason != ""
	})).Return(summary, nil).Once()
}

func (suite *OpeningBalanceServiceTestSuite) expectEquityEnsure() {
	obe := domain.Account{
		AccountKey:  "OBE",
		Code:        "3900",
		Name:        "Opening Balance Equity",
		AccountType: domain.Equity,
		ParentGroup: domain.GroupEquity,
		IsActive:    true,
	}
	suite.mockAccountSvc.On("EnsureAccounts", mock.Anything, mock.MatchedBy(func(reqs []dto.CreateAccountRequest) bool {
		return len(reqs) == 1 && reqs[0].AccountKey == "OBE" && reqs[0].AccountType == domain.Equity
	})).Return([]domain.Account{obe}, nil).Once()
}

// --- Test Cases ---

func (suite *OpeningBalanceServiceTestSuite) TestApply_DebitNormalPositive() {
	ctx := context.Background()
	cash := assetAccount("CASH")

	suite.mockAccountSvc.On("GetAccountByKey", ctx, "CASH").Return(cash, nil).Once()
	suite.expectPriorVoid("CASH", domain.VoidSummary{})
	suite.expectEquityEnsure()

	posted := &domain.Journal{JournalID: "j-ob", ReferenceType: services.OpeningBalanceReference, ReferenceID: "CASH"}
	suite.mockJournalSvc.On("CreateJournal", ctx, mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
		if len(req.Lines) != 2 || req.ReferenceType != services.OpeningBalanceReference || req.ReferenceID != "CASH" {
			return false
		}
		target, offset := req.Lines[0], req.Lines[1]
		return target.AccountKey == "CASH" &&
			target.Debit.Equal(decimal.NewFromInt(1000)) && target.Credit.IsZero() &&
			offset.AccountKey == "OBE" &&
			offset.Credit.Equal(decimal.NewFromInt(1000)) && offset.Debit.IsZero()
	})).Return(posted, nil).Once()

	journal, err := suite.service.ApplyOpeningBalance(ctx, "CASH", dto.ApplyOpeningBalanceRequest{
		Amount: decimal.NewFromInt(1000),
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Equal("j-ob", journal.JournalID)
	suite.mockJournalSvc.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *OpeningBalanceServiceTestSuite) TestApply_CreditNormalPositive() {
	ctx := context.Background()
	loan := &domain.Account{
		AccountKey:  "LOAN",
		AccountType: domain.Liability,
		ParentGroup: domain.GroupLiability,
		IsActive:    true,
	}

	suite.mockAccountSvc.On("GetAccountByKey", ctx, "LOAN").Return(loan, nil).Once()
	suite.expectPriorVoid("LOAN", domain.VoidSummary{})
	suite.expectEquityEnsure()

	suite.mockJournalSvc.On("CreateJournal", ctx, mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
		target, offset := req.Lines[0], req.Lines[1]
		return target.AccountKey == "LOAN" &&
			target.Credit.Equal(decimal.NewFromInt(500)) && target.Debit.IsZero() &&
			offset.Debit.Equal(decimal.NewFromInt(500))
	})).Return(&domain.Journal{JournalID: "j-ob"}, nil).Once()

	journal, err := suite.service.ApplyOpeningBalance(ctx, "LOAN", dto.ApplyOpeningBalanceRequest{
		Amount: decimal.NewFromInt(500),
	})

	suite.Require().NoError(err)
	suite.NotNil(journal)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *OpeningBalanceServiceTestSuite) TestApply_NegativeAmountFlipsSides() {
	ctx := context.Background()
	cash := assetAccount("CASH")

	suite.mockAccountSvc.On("GetAccountByKey", ctx, "CASH").Return(cash, nil).Once()
	suite.expectPriorVoid("CASH", domain.VoidSummary{JournalsVoided: 1, EntriesVoided: 2})
	suite.expectEquityEnsure()

	suite.mockJournalSvc.On("CreateJournal", ctx, mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
		target, offset := req.Lines[0], req.Lines[1]
		return target.AccountKey == "CASH" &&
			target.Credit.Equal(decimal.NewFromInt(200)) && target.Debit.IsZero() &&
			offset.Debit.Equal(decimal.NewFromInt(200))
	})).Return(&domain.Journal{JournalID: "j-ob2"}, nil).Once()

	journal, err := suite.service.ApplyOpeningBalance(ctx, "CASH", dto.ApplyOpeningBalanceRequest{
		Amount: decimal.NewFromInt(-200),
	})

	suite.Require().NoError(err)
	suite.NotNil(journal)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *OpeningBalanceServiceTestSuite) TestApply_ZeroAmountOnlyVoids() {
	ctx := context.Background()
	cash := assetAccount("CASH")

	suite.mockAccountSvc.On("GetAccountByKey", ctx, "CASH").Return(cash, nil).Once()
	suite.expectPriorVoid("CASH", domain.VoidSummary{JournalsVoided: 1, EntriesVoided: 2})

	journal, err := suite.service.ApplyOpeningBalance(ctx, "CASH", dto.ApplyOpeningBalanceRequest{
		Amount: decimal.Zero,
	})

	suite.Require().NoError(err)
	suite.Nil(journal)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "CreateJournal")
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "EnsureAccounts")
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *OpeningBalanceServiceTestSuite) TestApply_AccountMissing() {
	ctx := context.Background()

	suite.mockAccountSvc.On("GetAccountByKey", ctx, "NOPE").Return(nil, apperrors.ErrAccountNotFound).Once()

	journal, err := suite.service.ApplyOpeningBalance(ctx, "NOPE", dto.ApplyOpeningBalanceRequest{
		Amount: decimal.NewFromInt(10),
	})

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "VoidJournalsByIdentifier")
}

func (suite *OpeningBalanceServiceTestSuite) TestApply_ReseedVoidsPriorIssue() {
	ctx := context.Background()
	cash := assetAccount("CASH")

	suite.mockAccountSvc.On("GetAccountByKey", ctx, "CASH").Return(cash, nil).Once()
	suite.mockJournalSvc.On("VoidJournalsByIdentifier", ctx, dto.VoidJournalsRequest{
		ReferenceType: services.OpeningBalanceReference,
		ReferenceID:   "CASH",
		Reason:        "opening balance reissued",
	}).Return(domain.VoidSummary{JournalsVoided: 1, EntriesVoided: 2}, nil).Once()
	suite.expectEquityEnsure()
	suite.mockJournalSvc.On("CreateJournal", ctx, mock.AnythingOfType("dto.CreateJournalRequest")).
		Return(&domain.Journal{JournalID: "j-new"}, nil).Once()

	journal, err := suite.service.ApplyOpeningBalance(ctx, "CASH", dto.ApplyOpeningBalanceRequest{
		Amount: decimal.NewFromInt(750),
	})

	suite.Require().NoError(err)
	suite.Equal("j-new", journal.JournalID)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestOpeningBalanceService(t *testing.T) {
	suite.Run(t, new(OpeningBalanceServiceTestSuite))
}
