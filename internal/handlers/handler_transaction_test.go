package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
	"github.com/fulfillops/fulfillment_crm_app/internal/handlers"
	"github.com/fulfillops/fulfillment_crm_app/internal/middleware"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils"
)

// --- Mock TransactionService ---

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.FinTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinTransaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockTransactionService) PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinTransaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinTransaction), args.Error(1)
}
func (m *MockTransactionService) ReverseTransaction(ctx context.Context, transactionID string, userID string) (*domain.FinTransaction, error) {
	args := m.Called(ctx, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinTransaction), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---

type TransactionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockTransactionService *MockTransactionService
	jwtSecret              string
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "fcrm-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockTransactionService = new(MockTransactionService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	manage := v1.Group("", middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager))
	handlers.RegisterTransactionRoutes(v1, manage, suite.mockTransactionService)
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestPostTransaction_Success() {
	userID := uuid.NewString()
	debitID := uuid.NewString()
	creditID := uuid.NewString()
	createReq := dto.CreateTransactionRequest{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(500),
		Description:     "Invoice 9 settled",
	}

	posted := &domain.FinTransaction{
		TransactionID:   uuid.NewString(),
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromInt(500),
		Description:     createReq.Description,
		TransactionDate: time.Now(),
	}

	suite.mockTransactionService.On("PostTransaction",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
			return req.DebitAccountID == debitID &&
				req.CreditAccountID == creditID &&
				req.Amount.Equal(decimal.NewFromInt(500))
		}),
		userID,
	).Return(posted, nil).Once()

	body, _ := json.Marshal(createReq)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleManager))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody struct {
		Success bool                    `json:"success"`
		Data    dto.TransactionResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.Require().NoError(err)
	suite.True(responseBody.Success)
	suite.Equal(posted.TransactionID, responseBody.Data.TransactionID)
	suite.True(responseBody.Data.Amount.Equal(decimal.NewFromInt(500)))

	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestPostTransaction_InactiveAccountRejected() {
	userID := uuid.NewString()

	suite.mockTransactionService.On("PostTransaction",
		mock.AnythingOfType("*context.valueCtx"), mock.Anything, userID).
		Return(nil, fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)).Once()

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.NewFromInt(10),
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleAdmin))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)

	var responseBody dto.APIResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.Require().NoError(err)
	suite.False(responseBody.Success)
	suite.Contains(responseBody.Error, "inactive")
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_Success() {
	userID := uuid.NewString()
	originalID := uuid.NewString()

	reversal := &domain.FinTransaction{
		TransactionID:   uuid.NewString(),
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.NewFromInt(500),
		Description:     "Reversal of: Invoice 9 settled",
		TransactionDate: time.Now(),
		ReversalOfID:    &originalID,
	}

	suite.mockTransactionService.On("ReverseTransaction",
		mock.AnythingOfType("*context.valueCtx"), originalID, userID).Return(reversal, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions/"+originalID+"/reverse", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleManager))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody struct {
		Success bool                    `json:"success"`
		Data    dto.TransactionResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.Require().NoError(err)
	suite.Require().NotNil(responseBody.Data.ReversalOfID)
	suite.Equal(originalID, *responseBody.Data.ReversalOfID)

	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_AnalystForbidden() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transactions/"+uuid.NewString()+"/reverse", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString(), domain.RoleAnalyst))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "ReverseTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesQuery() {
	userID := uuid.NewString()
	accountID := uuid.NewString()

	expected := &dto.ListTransactionsResponse{
		Transactions: []dto.TransactionResponse{
			{TransactionID: uuid.NewString(), Amount: decimal.NewFromInt(120)},
		},
		NextToken: nil,
	}

	suite.mockTransactionService.On("ListTransactions",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(params dto.ListTransactionsParams) bool {
			return params.AccountID == accountID && params.Limit == 10
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/transactions?accountID=%s&limit=%d", accountID, 10)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, domain.RoleAnalyst))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody struct {
		Success bool                         `json:"success"`
		Data    dto.ListTransactionsResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.Require().NoError(err)
	suite.Len(responseBody.Data.Transactions, 1)

	suite.mockTransactionService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
