package services_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbookkeeper/ledger/internal/apperrors"
	"github.com/openbookkeeper/ledger/internal/core/domain"
	portssvc "github.com/openbookkeeper/ledger/internal/core/ports/services"
	"github.com/openbookkeeper/ledger/internal/core/services"
	"github.com/openbookkeeper/ledger/internal/dto"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.Entry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, includeVoided bool, limit, offset int) ([]domain.Journal, int64, error) {
	args := m.Called(ctx, includeVoided, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Journal), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.Entry) error {
	args := m.Called(ctx, journal, entries)
	return args.Error(0)
}

func (m *MockJournalRepository) VoidJournal(ctx context.Context, journalID, reason string, now time.Time) (bool, int64, error) {
	args := m.Called(ctx, journalID, reason, now)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockJournalRepository) VoidJournalsByFilter(ctx context.Context, filter domain.VoidFilter, reason string, now time.Time) (domain.VoidSummary, error) {
	args := m.Called(ctx, filter, reason, now)
	return args.Get(0).(domain.VoidSummary), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountKey string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountKey string) error {
	args := m.Called(ctx, accountKey)
	return args.Error(0)
}

func (m *MockAccountService) GetAccountByKey(ctx context.Context, accountKey string) (*domain.Account, error) {
	args := m.Called(ctx, accountKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByKeys(ctx context.Context, accountKeys []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) GetAccountHierarchy(ctx context.Context) ([]*domain.AccountNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) ValidateHierarchy(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAccountService) EnsureAccounts(ctx context.Context, reqs []dto.CreateAccountRequest) ([]domain.Account, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockJournalRepository
	mockAccountSvc *MockAccountService
	service        portssvc.JournalService
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewJournalService(suite.mockRepo, suite.mockAccountSvc)
}

func activeAccounts(keys ...string) map[string]domain.Account {
	out := make(map[string]domain.Account, len(keys))
	for i, key := range keys {
		out[key] = domain.Account{
			AccountKey:  key,
			Code:        strconv.Itoa(1000 + i),
			AccountType: domain.Asset,
			ParentGroup: domain.GroupAsset,
			IsActive:    true,
		}
	}
	return out
}

func balancedRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Memo: "Office supplies",
		Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.EntryLineRequest{
			{AccountKey: "EXPENSE", Debit: decimal.NewFromInt(100)},
			{AccountKey: "CASH", Credit: decimal.NewFromInt(100)},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	req := balancedRequest()

	suite.mockAccountSvc.On("GetAccountsByKeys", ctx, []string{"EXPENSE", "CASH"}).
		Return(activeAccounts("EXPENSE", "CASH"), nil).Once()
	suite.mockRepo.On("SaveJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool {
		return j.Memo == req.Memo && !j.Voided && j.JournalID != ""
	}), mock.MatchedBy(func(entries []domain.Entry) bool {
		return len(entries) == 2 &&
			entries[0].Debit.Equal(decimal.NewFromInt(100)) &&
			entries[1].Credit.Equal(decimal.NewFromInt(100)) &&
			entries[0].AccountCode != ""
	})).Return(nil).Once()

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Len(journal.Entries, 2)
	suite.Equal(req.Date, journal.JournalDate)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Unbalanced() {
	ctx := context.Background()
	req := balancedRequest()
	req.Lines[1].Credit = decimal.RequireFromString("99.99")

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrDoubleEntry)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveJournal")
}

func (suite *JournalServiceTestSuite) TestCreateJournal_LineBothSides() {
	ctx := context.Background()
	req := balancedRequest()
	req.Lines[0].Credit = decimal.NewFromInt(100)

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrLineBothSides)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_LineNoSides() {
	ctx := context.Background()
	req := balancedRequest()
	req.Lines[0].Debit = decimal.Zero

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrLineNoSides)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_NegativeAmount() {
	ctx := context.Background()
	req := balancedRequest()
	req.Lines[0].Debit = decimal.NewFromInt(-100)

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrLineNegativeAmount)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_TooFewLines() {
	ctx := context.Background()
	req := balancedRequest()
	req.Lines = req.Lines[:1]

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrJournalMinEntries)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_MissingMemo() {
	ctx := context.Background()
	req := balancedRequest()
	req.Memo = ""

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrMemoMissing)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_HalfReference() {
	ctx := context.Background()
	req := balancedRequest()
	req.ReferenceType = "INVOICE"

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_UnknownAccount() {
	ctx := context.Background()
	req := balancedRequest()

	// Only CASH resolves; EXPENSE is missing from the map.
	suite.mockAccountSvc.On("GetAccountsByKeys", ctx, []string{"EXPENSE", "CASH"}).
		Return(activeAccounts("CASH"), nil).Once()

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveJournal")
}

func (suite *JournalServiceTestSuite) TestCreateJournal_InactiveAccount() {
	ctx := context.Background()
	req := balancedRequest()
	accounts := activeAccounts("EXPENSE", "CASH")
	inactive := accounts["CASH"]
	inactive.IsActive = false
	accounts["CASH"] = inactive

	suite.mockAccountSvc.On("GetAccountsByKeys", ctx, []string{"EXPENSE", "CASH"}).
		Return(accounts, nil).Once()

	journal, err := suite.service.CreateJournal(ctx, req)

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveJournal")
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_Success() {
	ctx := context.Background()
	journalID := "j-1"
	stored := &domain.Journal{JournalID: journalID, Memo: "m"}
	entries := []domain.Entry{{EntryID: "e-1", JournalID: journalID}}

	suite.mockRepo.On("FindJournalByID", ctx, journalID).Return(stored, nil).Once()
	suite.mockRepo.On("FindEntriesByJournalID", ctx, journalID).Return(entries, nil).Once()

	journal, err := suite.service.GetJournalByID(ctx, journalID)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Len(journal.Entries, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_AbsentIsNotAnError() {
	ctx := context.Background()

	suite.mockRepo.On("FindJournalByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	journal, err := suite.service.GetJournalByID(ctx, "missing")

	suite.Require().NoError(err)
	suite.Nil(journal)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("FindJournalByID", ctx, "j-1").Return(nil, expectedErr).Once()

	journal, err := suite.service.GetJournalByID(ctx, "j-1")

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, expectedErr)
}

func (suite *JournalServiceTestSuite) TestVoidJournal_Success() {
	ctx := context.Background()
	journalID := "j-1"
	voided := &domain.Journal{JournalID: journalID, Voided: true, VoidReason: "duplicate"}

	suite.mockRepo.On("VoidJournal", ctx, journalID, "duplicate", mock.AnythingOfType("time.Time")).
		Return(true, int64(2), nil).Once()
	suite.mockRepo.On("FindJournalByID", ctx, journalID).Return(voided, nil).Once()
	suite.mockRepo.On("FindEntriesByJournalID", ctx, journalID).Return([]domain.Entry{}, nil).Once()

	journal, err := suite.service.VoidJournal(ctx, journalID, "duplicate")

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.True(journal.Voided)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidJournal_AlreadyVoided() {
	ctx := context.Background()
	journalID := "j-1"
	stored := &domain.Journal{JournalID: journalID, Voided: true}

	suite.mockRepo.On("VoidJournal", ctx, journalID, "dup", mock.AnythingOfType("time.Time")).
		Return(false, int64(0), nil).Once()
	suite.mockRepo.On("FindJournalByID", ctx, journalID).Return(stored, nil).Once()

	journal, err := suite.service.VoidJournal(ctx, journalID, "dup")

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrAlreadyVoided)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidJournal_Missing() {
	ctx := context.Background()

	suite.mockRepo.On("VoidJournal", ctx, "missing", "dup", mock.AnythingOfType("time.Time")).
		Return(false, int64(0), nil).Once()
	suite.mockRepo.On("FindJournalByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	journal, err := suite.service.VoidJournal(ctx, "missing", "dup")

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestVoidJournal_MissingReason() {
	ctx := context.Background()

	journal, err := suite.service.VoidJournal(ctx, "j-1", "")

	suite.Require().Error(err)
	suite.Nil(journal)
	suite.ErrorIs(err, services.ErrVoidReasonMissing)
	suite.mockRepo.AssertNotCalled(suite.T(), "VoidJournal")
}

func (suite *JournalServiceTestSuite) TestVoidJournalsByIdentifier_ByReference() {
	ctx := context.Background()
	req := dto.VoidJournalsRequest{
		ReferenceType: "OPENING_BALANCE",
		ReferenceID:   "CASH",
		Reason:        "reissued",
	}
	expected := domain.VoidSummary{JournalsVoided: 1, EntriesVoided: 2}

	suite.mockRepo.On("VoidJournalsByFilter", ctx, domain.VoidFilter{
		ReferenceType: "OPENING_BALANCE",
		ReferenceID:   "CASH",
	}, "reissued", mock.AnythingOfType("time.Time")).Return(expected, nil).Once()

	summary, err := suite.service.VoidJournalsByIdentifier(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(expected, summary)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidJournalsByIdentifier_BothSelectors() {
	ctx := context.Background()
	req := dto.VoidJournalsRequest{
		JournalID:     "j-1",
		ReferenceType: "INVOICE",
		ReferenceID:   "42",
		Reason:        "dup",
	}

	_, err := suite.service.VoidJournalsByIdentifier(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "VoidJournalsByFilter")
}

func (suite *JournalServiceTestSuite) TestVoidJournalsByIdentifier_NoSelector() {
	ctx := context.Background()
	req := dto.VoidJournalsRequest{Reason: "dup"}

	_, err := suite.service.VoidJournalsByIdentifier(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestListJournals_DefaultLimit() {
	ctx := context.Background()

	suite.mockRepo.On("ListJournals", ctx, false, 50, 0).
		Return([]domain.Journal{{JournalID: "j-1"}}, int64(1), nil).Once()

	resp, err := suite.service.ListJournals(ctx, dto.ListJournalsParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Journals, 1)
	suite.Equal(int64(1), resp.Total)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
