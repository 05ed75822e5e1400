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

// --- Mock OperationRepository ---

type MockOperationRepository struct {
	mock.Mock
}

var _ portsrepo.OperationRepositoryFacade = (*MockOperationRepository)(nil)

func (m *MockOperationRepository) FindCostOperationByID(ctx context.Context, costOperationID string) (*domain.CostOperation, error) {
	args := m.Called(ctx, costOperationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostOperation), args.Error(1)
}

func (m *MockOperationRepository) ListCostOperationsByOrderID(ctx context.Context, orderID string) ([]domain.CostOperation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostOperation), args.Error(1)
}

func (m *MockOperationRepository) SaveCostOperation(ctx context.Context, op domain.CostOperation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) UpdateCostOperation(ctx context.Context, op domain.CostOperation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) DeleteCostOperation(ctx context.Context, costOperationID string) error {
	args := m.Called(ctx, costOperationID)
	return args.Error(0)
}

func (m *MockOperationRepository) FindIncomeOperationByID(ctx context.Context, incomeOperationID string) (*domain.IncomeOperation, error) {
	args := m.Called(ctx, incomeOperationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeOperation), args.Error(1)
}

func (m *MockOperationRepository) ListIncomeOperationsByOrderID(ctx context.Context, orderID string) ([]domain.IncomeOperation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IncomeOperation), args.Error(1)
}

func (m *MockOperationRepository) SaveIncomeOperation(ctx context.Context, op domain.IncomeOperation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) UpdateIncomeOperation(ctx context.Context, op domain.IncomeOperation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) DeleteIncomeOperation(ctx context.Context, incomeOperationID string) error {
	args := m.Called(ctx, incomeOperationID)
	return args.Error(0)
}

// --- Test Suite ---

type OperationServiceTestSuite struct {
	suite.Suite
	mockOperationRepo *MockOperationRepository
	mockVendorRepo    *MockVendorServiceReader
	mockOrderSvc      *MockOrderService
	service           portssvc.OperationSvcFacade
}

func (suite *OperationServiceTestSuite) SetupTest() {
	suite.mockOperationRepo = new(MockOperationRepository)
	suite.mockVendorRepo = new(MockVendorServiceReader)
	suite.mockOrderSvc = new(MockOrderService)
	suite.service = services.NewOperationService(suite.mockOperationRepo, suite.mockVendorRepo, suite.mockOrderSvc)
}

func (suite *OperationServiceTestSuite) expectOrderExists(ctx context.Context, orderID string) {
	suite.mockOrderSvc.On("GetOrderByID", ctx, orderID).Return(&domain.Order{OrderID: orderID, Status: domain.OrderProcessing}, nil).Once()
}

func (suite *OperationServiceTestSuite) expectRecalculation(ctx context.Context, orderID, userID string) {
	suite.mockOrderSvc.On("RecalculateOrder", ctx, orderID, userID).Return(&domain.Order{OrderID: orderID}, nil).Once()
}

func (suite *OperationServiceTestSuite) newCostOperation(orderID string) *domain.CostOperation {
	return &domain.CostOperation{
		CostOperationID: uuid.NewString(),
		OrderID:         orderID,
		Category:        domain.ExpenseLogistics,
		Amount:          decimal.NewFromInt(150),
		Status:          domain.OperationPlanned,
		OperationDate:   time.Now(),
	}
}

func (suite *OperationServiceTestSuite) newIncomeOperation(orderID string, amount, paid int64) *domain.IncomeOperation {
	amountDec := decimal.NewFromInt(amount)
	paidDec := decimal.NewFromInt(paid)
	op := &domain.IncomeOperation{
		IncomeOperationID: uuid.NewString(),
		OrderID:           orderID,
		Amount:            amountDec,
		PaidAmount:        paidDec,
		Status:            domain.DeriveIncomeStatus(amountDec, paidDec),
		OperationDate:     time.Now(),
	}
	if paid > 0 {
		paidAt := time.Now().Add(-time.Hour)
		op.PaidAt = &paidAt
	}
	return op
}

// --- Test Cases ---

func (suite *OperationServiceTestSuite) TestCreateCostOperation_DefaultsToPlanned() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreateCostOperationRequest{
		Category:    domain.ExpenseLogistics,
		Amount:      decimal.NewFromInt(150),
		Description: "Pallet transfer",
	}

	suite.expectOrderExists(ctx, orderID)
	suite.mockOperationRepo.On("SaveCostOperation", ctx, mock.MatchedBy(func(op domain.CostOperation) bool {
		return op.OrderID == orderID &&
			op.Category == domain.ExpenseLogistics &&
			op.Amount.Equal(decimal.NewFromInt(150)) &&
			op.Status == domain.OperationPlanned &&
			op.VendorServiceID == nil &&
			op.CreatedBy == userID &&
			!op.OperationDate.IsZero()
	})).Return(nil).Once()
	suite.expectRecalculation(ctx, orderID, userID)

	op, err := suite.service.CreateCostOperation(ctx, orderID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(op)
	suite.NotEmpty(op.CostOperationID)
	suite.mockOperationRepo.AssertExpectations(suite.T())
	suite.mockOrderSvc.AssertExpectations(suite.T())
}

func (suite *OperationServiceTestSuite) TestCreateCostOperation_WithVendorService() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	vendorServiceID := uuid.NewString()
	operationDate := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	req := dto.CreateCostOperationRequest{
		VendorServiceID: &vendorServiceID,
		Category:        domain.ExpenseLogistics,
		Amount:          decimal.NewFromInt(90),
		Status:          domain.OperationPaid,
		OperationDate:   &operationDate,
		Description:     "Invoiced courier run",
	}

	suite.expectOrderExists(ctx, orderID)
	suite.mockVendorRepo.On("FindVendorServiceByID", ctx, vendorServiceID).Return(&domain.VendorService{
		VendorServiceID: vendorServiceID,
		ServiceType:     domain.ServiceDelivery,
		Name:            "Courier run",
		Price:           decimal.NewFromInt(90),
		IsActive:        true,
	}, nil).Once()
	suite.mockOperationRepo.On("SaveCostOperation", ctx, mock.MatchedBy(func(op domain.CostOperation) bool {
		return op.VendorServiceID != nil && *op.VendorServiceID == vendorServiceID &&
			op.Status == domain.OperationPaid &&
			op.OperationDate.Equal(operationDate)
	})).Return(nil).Once()
	suite.expectRecalculation(ctx, orderID, userID)

	_, err := suite.service.CreateCostOperation(ctx, orderID, req, userID)

	suite.Require().NoError(err)
	suite.mockVendorRepo.AssertExpectations(suite.T())
	suite.mockOperationRepo.AssertExpectations(suite.T())
}

func (suite *OperationServiceTestSuite) TestCreateCostOperation_InvalidCategory() {
	ctx := context.Background()
	orderID := uuid.NewString()

	suite.expectOrderExists(ctx, orderID)

	op, err := suite.service.CreateCostOperation(ctx, orderID, dto.CreateCostOperationRequest{
		Category: "FUEL",
		Amount:   decimal.NewFromInt(10),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(op)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOperationRepo.AssertNotCalled(suite.T(), "SaveCostOperation", ctx, mock.Anything)
	suite.mockOrderSvc.AssertNotCalled(suite.T(), "RecalculateOrder", ctx, mock.Anything, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestCreateCostOperation_NonPositiveAmount() {
	ctx := context.Background()
	orderID := uuid.NewString()

	suite.expectOrderExists(ctx, orderID)

	op, err := suite.service.CreateCostOperation(ctx, orderID, dto.CreateCostOperationRequest{
		Category: domain.ExpenseLabor,
		Amount:   decimal.Zero,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(op)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOperationRepo.AssertNotCalled(suite.T(), "SaveCostOperation", ctx, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestUpdateCostOperation_TriggersRecalculation() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	op := suite.newCostOperation(orderID)

	suite.mockOperationRepo.On("FindCostOperationByID", ctx, op.CostOperationID).Return(op, nil).Once()
	suite.mockOperationRepo.On("UpdateCostOperation", ctx, mock.MatchedBy(func(updated domain.CostOperation) bool {
		return updated.Amount.Equal(decimal.NewFromInt(175)) &&
			updated.Status == domain.OperationConfirmed &&
			updated.LastUpdatedBy == userID
	})).Return(nil).Once()
	suite.expectRecalculation(ctx, orderID, userID)

	status := domain.OperationConfirmed
	result, err := suite.service.UpdateCostOperation(ctx, orderID, op.CostOperationID, dto.UpdateCostOperationRequest{
		Amount: decPtr(decimal.NewFromInt(175)),
		Status: &status,
	}, userID)

	suite.Require().NoError(err)
	suite.True(result.Amount.Equal(decimal.NewFromInt(175)))
	suite.mockOperationRepo.AssertExpectations(suite.T())
	suite.mockOrderSvc.AssertExpectations(suite.T())
}

func (suite *OperationServiceTestSuite) TestUpdateCostOperation_NoFieldsNoWrite() {
	ctx := context.Background()
	orderID := uuid.NewString()
	op := suite.newCostOperation(orderID)

	suite.mockOperationRepo.On("FindCostOperationByID", ctx, op.CostOperationID).Return(op, nil).Once()

	result, err := suite.service.UpdateCostOperation(ctx, orderID, op.CostOperationID, dto.UpdateCostOperationRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(op.CostOperationID, result.CostOperationID)
	suite.mockOperationRepo.AssertNotCalled(suite.T(), "UpdateCostOperation", ctx, mock.Anything)
	suite.mockOrderSvc.AssertNotCalled(suite.T(), "RecalculateOrder", ctx, mock.Anything, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestUpdateCostOperation_WrongOrderMasksAsNotFound() {
	ctx := context.Background()
	op := suite.newCostOperation(uuid.NewString())

	suite.mockOperationRepo.On("FindCostOperationByID", ctx, op.CostOperationID).Return(op, nil).Once()

	result, err := suite.service.UpdateCostOperation(ctx, uuid.NewString(), op.CostOperationID, dto.UpdateCostOperationRequest{
		Description: strPtr("Moved elsewhere"),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockOperationRepo.AssertNotCalled(suite.T(), "UpdateCostOperation", ctx, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestDeleteCostOperation_TriggersRecalculation() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	op := suite.newCostOperation(orderID)

	suite.mockOperationRepo.On("FindCostOperationByID", ctx, op.CostOperationID).Return(op, nil).Once()
	suite.mockOperationRepo.On("DeleteCostOperation", ctx, op.CostOperationID).Return(nil).Once()
	suite.expectRecalculation(ctx, orderID, userID)

	err := suite.service.DeleteCostOperation(ctx, orderID, op.CostOperationID, userID)

	suite.Require().NoError(err)
	suite.mockOperationRepo.AssertExpectations(suite.T())
	suite.mockOrderSvc.AssertExpectations(suite.T())
}

func (suite *OperationServiceTestSuite) TestListCostOperations_NilBecomesEmptySlice() {
	ctx := context.Background()
	orderID := uuid.NewString()

	suite.expectOrderExists(ctx, orderID)
	suite.mockOperationRepo.On("ListCostOperationsByOrderID", ctx, orderID).Return(nil, nil).Once()

	ops, err := suite.service.ListCostOperationsByOrder(ctx, orderID)

	suite.Require().NoError(err)
	suite.NotNil(ops)
	suite.Empty(ops)
}

// Income operations feed reporting only; creating one must not touch the
// order's cached cost aggregates.
func (suite *OperationServiceTestSuite) TestCreateIncomeOperation_PendingWithoutPayment() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreateIncomeOperationRequest{
		Amount:      decimal.NewFromInt(1000),
		Description: "Invoice FF-1042",
	}

	suite.expectOrderExists(ctx, orderID)
	suite.mockOperationRepo.On("SaveIncomeOperation", ctx, mock.MatchedBy(func(op domain.IncomeOperation) bool {
		return op.OrderID == orderID &&
			op.Amount.Equal(decimal.NewFromInt(1000)) &&
			op.PaidAmount.IsZero() &&
			op.Status == domain.IncomePending &&
			op.PaidAt == nil
	})).Return(nil).Once()

	op, err := suite.service.CreateIncomeOperation(ctx, orderID, req, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomePending, op.Status)
	suite.Nil(op.PaidAt)
	suite.mockOperationRepo.AssertExpectations(suite.T())
	suite.mockOrderSvc.AssertNotCalled(suite.T(), "RecalculateOrder", ctx, mock.Anything, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestCreateIncomeOperation_PartialPaymentStampsPaidAt() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreateIncomeOperationRequest{
		Amount:     decimal.NewFromInt(1000),
		PaidAmount: decPtr(decimal.NewFromInt(400)),
	}

	suite.expectOrderExists(ctx, orderID)
	suite.mockOperationRepo.On("SaveIncomeOperation", ctx, mock.MatchedBy(func(op domain.IncomeOperation) bool {
		return op.Status == domain.IncomePartial && op.PaidAt != nil
	})).Return(nil).Once()

	op, err := suite.service.CreateIncomeOperation(ctx, orderID, req, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomePartial, op.Status)
	suite.NotNil(op.PaidAt)
	suite.mockOperationRepo.AssertExpectations(suite.T())
}

func (suite *OperationServiceTestSuite) TestCreateIncomeOperation_NegativePaidRejected() {
	ctx := context.Background()
	orderID := uuid.NewString()

	suite.expectOrderExists(ctx, orderID)

	op, err := suite.service.CreateIncomeOperation(ctx, orderID, dto.CreateIncomeOperationRequest{
		Amount:     decimal.NewFromInt(1000),
		PaidAmount: decPtr(decimal.NewFromInt(-1)),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(op)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOperationRepo.AssertNotCalled(suite.T(), "SaveIncomeOperation", ctx, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestUpdateIncomeOperation_PaymentRederivesStatus() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	op := suite.newIncomeOperation(orderID, 1000, 0)

	suite.mockOperationRepo.On("FindIncomeOperationByID", ctx, op.IncomeOperationID).Return(op, nil).Once()
	suite.mockOperationRepo.On("UpdateIncomeOperation", ctx, mock.MatchedBy(func(updated domain.IncomeOperation) bool {
		return updated.PaidAmount.Equal(decimal.NewFromInt(1000)) &&
			updated.Status == domain.IncomePaid &&
			updated.PaidAt != nil &&
			updated.LastUpdatedBy == userID
	})).Return(nil).Once()

	result, err := suite.service.UpdateIncomeOperation(ctx, orderID, op.IncomeOperationID, dto.UpdateIncomeOperationRequest{
		PaidAmount: decPtr(decimal.NewFromInt(1000)),
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomePaid, result.Status)
	suite.NotNil(result.PaidAt)
	suite.mockOperationRepo.AssertExpectations(suite.T())
	suite.mockOrderSvc.AssertNotCalled(suite.T(), "RecalculateOrder", ctx, mock.Anything, mock.Anything)
}

func (suite *OperationServiceTestSuite) TestUpdateIncomeOperation_ClearingPaymentResetsPaidAt() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	op := suite.newIncomeOperation(orderID, 1000, 400)

	suite.mockOperationRepo.On("FindIncomeOperationByID", ctx, op.IncomeOperationID).Return(op, nil).Once()
	suite.mockOperationRepo.On("UpdateIncomeOperation", ctx, mock.MatchedBy(func(updated domain.IncomeOperation) bool {
		return updated.PaidAmount.IsZero() &&
			updated.Status == domain.IncomePending &&
			updated.PaidAt == nil
	})).Return(nil).Once()

	result, err := suite.service.UpdateIncomeOperation(ctx, orderID, op.IncomeOperationID, dto.UpdateIncomeOperationRequest{
		PaidAmount: decPtr(decimal.Zero),
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomePending, result.Status)
	suite.Nil(result.PaidAt)
	suite.mockOperationRepo.AssertExpectations(suite.T())
}

func (suite *OperationServiceTestSuite) TestDeleteIncomeOperation_NoRecalculation() {
	ctx := context.Background()
	orderID := uuid.NewString()
	op := suite.newIncomeOperation(orderID, 500, 500)

	suite.mockOperationRepo.On("FindIncomeOperationByID", ctx, op.IncomeOperationID).Return(op, nil).Once()
	suite.mockOperationRepo.On("DeleteIncomeOperation", ctx, op.IncomeOperationID).Return(nil).Once()

	err := suite.service.DeleteIncomeOperation(ctx, orderID, op.IncomeOperationID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockOperationRepo.AssertExpectations(suite.T())
	suite.mockOrderSvc.AssertNotCalled(suite.T(), "RecalculateOrder", ctx, mock.Anything, mock.Anything)
}

// --- Run Suite ---

func TestOperationService(t *testing.T) {
	suite.Run(t, new(OperationServiceTestSuite))
}
