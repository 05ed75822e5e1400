package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// --- Mock FinTransactionRepository ---

type MockFinTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.FinTransactionRepositoryFacade = (*MockFinTransactionRepository)(nil)

func (m *MockFinTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinTransaction), args.Error(1)
}

func (m *MockFinTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.FinTransaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.FinTransaction), returnedNextToken, args.Error(2)
}

func (m *MockFinTransactionRepository) SavePosting(ctx context.Context, txn domain.FinTransaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceChanges)
	return args.Error(0)
}

// --- Mock AccountReader ---

type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite ---

type FinTransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockFinTransactionRepository
	mockAccountRepo *MockAccountReader
	service         portssvc.TransactionSvcFacade
}

func (suite *FinTransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockFinTransactionRepository)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.service = services.NewFinTransactionService(suite.mockTxnRepo, suite.mockAccountRepo)
}

func (suite *FinTransactionServiceTestSuite) newAccount(accountID string, accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:   accountID,
		Name:        string(accountType) + " account",
		AccountType: accountType,
		IsActive:    true,
		Balance:     decimal.Zero,
	}
}

// --- Test Cases ---

// Debiting an asset and crediting revenue both increase their balances:
// assets grow on the debit side, revenue grows on the credit side.
func (suite *FinTransactionServiceTestSuite) TestPostTransaction_AssetDebitRevenueCredit() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(500)

	accounts := map[string]domain.Account{
		debitID:  suite.newAccount(debitID, domain.Asset),
		creditID: suite.newAccount(creditID, domain.Revenue),
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitID, creditID}).Return(accounts, nil).Once()
	suite.mockTxnRepo.On("SavePosting", ctx, mock.MatchedBy(func(txn domain.FinTransaction) bool {
		return txn.DebitAccountID == debitID &&
			txn.CreditAccountID == creditID &&
			txn.Amount.Equal(amount) &&
			txn.ReversalOfID == nil &&
			txn.CreatedBy == userID
	}), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 2 &&
			changes[debitID].Equal(decimal.NewFromInt(500)) &&
			changes[creditID].Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	req := dto.CreateTransactionRequest{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          amount,
		Description:     "Invoice paid in cash",
	}
	txn, err := suite.service.PostTransaction(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// Moving money between an expense and an asset account changes the balances
// in opposite directions, so total balance across the books is preserved.
func (suite *FinTransactionServiceTestSuite) TestPostTransaction_ExpenseDebitAssetCredit() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	amount := decimal.NewFromInt(120)

	accounts := map[string]domain.Account{
		debitID:  suite.newAccount(debitID, domain.Expense),
		creditID: suite.newAccount(creditID, domain.Asset),
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitID, creditID}).Return(accounts, nil).Once()
	suite.mockTxnRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.FinTransaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[debitID].Equal(decimal.NewFromInt(120)) &&
			changes[creditID].Equal(decimal.NewFromInt(-120)) &&
			changes[debitID].Add(changes[creditID]).IsZero()
	})).Return(nil).Once()

	req := dto.CreateTransactionRequest{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          amount,
		Description:     "Packaging restock",
	}
	_, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *FinTransactionServiceTestSuite) TestPostTransaction_SameAccountRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()

	req := dto.CreateTransactionRequest{
		DebitAccountID:  accountID,
		CreditAccountID: accountID,
		Amount:          decimal.NewFromInt(10),
	}
	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", ctx, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", ctx, mock.Anything, mock.Anything)
}

func (suite *FinTransactionServiceTestSuite) TestPostTransaction_NonPositiveAmountRejected() {
	ctx := context.Background()

	req := dto.CreateTransactionRequest{
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.Zero,
	}
	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", ctx, mock.Anything, mock.Anything)
}

func (suite *FinTransactionServiceTestSuite) TestPostTransaction_MissingAccount() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()

	// Only the credit account exists.
	accounts := map[string]domain.Account{
		creditID: suite.newAccount(creditID, domain.Revenue),
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitID, creditID}).Return(accounts, nil).Once()

	req := dto.CreateTransactionRequest{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(50),
	}
	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", ctx, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *FinTransactionServiceTestSuite) TestPostTransaction_InactiveAccount() {
	ctx := context.Background()
	debitID := uuid.NewString()
	creditID := uuid.NewString()

	credit := suite.newAccount(creditID, domain.Revenue)
	credit.IsActive = false
	accounts := map[string]domain.Account{
		debitID:  suite.newAccount(debitID, domain.Asset),
		creditID: credit,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{debitID, creditID}).Return(accounts, nil).Once()

	req := dto.CreateTransactionRequest{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(50),
	}
	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, services.ErrAccountInactive)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", ctx, mock.Anything, mock.Anything)
}

// Reversal swaps the accounts and posts the same amount, which lands both
// balances back where they started. The original row stays untouched; the
// new one links back through reversalOfID.
func (suite *FinTransactionServiceTestSuite) TestReverseTransaction_SwapsAccountsAndLinks() {
	ctx := context.Background()
	originalID := uuid.NewString()
	assetID := uuid.NewString()
	revenueID := uuid.NewString()
	userID := uuid.NewString()
	txnDate := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	original := &domain.FinTransaction{
		TransactionID:   originalID,
		DebitAccountID:  assetID,
		CreditAccountID: revenueID,
		Amount:          decimal.NewFromInt(500),
		Description:     "Invoice 9",
		TransactionDate: txnDate,
	}
	accounts := map[string]domain.Account{
		assetID:   suite.newAccount(assetID, domain.Asset),
		revenueID: suite.newAccount(revenueID, domain.Revenue),
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, originalID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{revenueID, assetID}).Return(accounts, nil).Once()
	suite.mockTxnRepo.On("SavePosting", ctx, mock.MatchedBy(func(txn domain.FinTransaction) bool {
		return txn.DebitAccountID == revenueID &&
			txn.CreditAccountID == assetID &&
			txn.Amount.Equal(decimal.NewFromInt(500)) &&
			txn.Description == "Reversal of: Invoice 9" &&
			txn.TransactionDate.Equal(txnDate) &&
			txn.ReversalOfID != nil && *txn.ReversalOfID == originalID
	}), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// Exact inverse of the original posting's deltas.
		return changes[revenueID].Equal(decimal.NewFromInt(-500)) &&
			changes[assetID].Equal(decimal.NewFromInt(-500))
	})).Return(nil).Once()

	reversal, err := suite.service.ReverseTransaction(ctx, originalID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.True(reversal.IsReversal())
	suite.NotEqual(originalID, reversal.TransactionID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// Reversing a reversal is a plain re-posting: the description drops the
// prefix instead of stacking a second one.
func (suite *FinTransactionServiceTestSuite) TestReverseTransaction_OfReversalStripsPrefix() {
	ctx := context.Background()
	reversalID := uuid.NewString()
	firstID := uuid.NewString()
	assetID := uuid.NewString()
	revenueID := uuid.NewString()

	reversal := &domain.FinTransaction{
		TransactionID:   reversalID,
		DebitAccountID:  revenueID,
		CreditAccountID: assetID,
		Amount:          decimal.NewFromInt(500),
		Description:     "Reversal of: Invoice 9",
		TransactionDate: time.Now(),
		ReversalOfID:    &firstID,
	}
	accounts := map[string]domain.Account{
		assetID:   suite.newAccount(assetID, domain.Asset),
		revenueID: suite.newAccount(revenueID, domain.Revenue),
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, reversalID).Return(reversal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{assetID, revenueID}).Return(accounts, nil).Once()
	suite.mockTxnRepo.On("SavePosting", ctx, mock.MatchedBy(func(txn domain.FinTransaction) bool {
		return txn.Description == "Invoice 9" &&
			txn.DebitAccountID == assetID &&
			txn.CreditAccountID == revenueID &&
			txn.ReversalOfID != nil && *txn.ReversalOfID == reversalID
	}), mock.Anything).Return(nil).Once()

	result, err := suite.service.ReverseTransaction(ctx, reversalID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("Invoice 9", result.Description)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *FinTransactionServiceTestSuite) TestReverseTransaction_NotFound() {
	ctx := context.Background()
	transactionID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, transactionID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ReverseTransaction(ctx, transactionID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SavePosting", ctx, mock.Anything, mock.Anything)
}

func (suite *FinTransactionServiceTestSuite) TestGetTransactionByID_Success() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	expected := &domain.FinTransaction{
		TransactionID:   transactionID,
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.NewFromInt(75),
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, transactionID).Return(expected, nil).Once()

	txn, err := suite.service.GetTransactionByID(ctx, transactionID)

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *FinTransactionServiceTestSuite) TestListTransactions_PassesFilter() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txns := []domain.FinTransaction{
		{TransactionID: uuid.NewString(), Amount: decimal.NewFromInt(10)},
		{TransactionID: uuid.NewString(), Amount: decimal.NewFromInt(20)},
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f portsrepo.ListTransactionsFilter) bool {
		return f.AccountID == accountID
	}), 25, (*string)(nil)).Return(txns, "token-2", nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{AccountID: accountID, Limit: 25})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Transactions, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestFinTransactionService(t *testing.T) {
	suite.Run(t, new(FinTransactionServiceTestSuite))
}
