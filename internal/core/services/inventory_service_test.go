package services_test

import (
	"context"
	"fmt"
	"testing"

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

// --- Mock InventoryRepository ---

type MockInventoryRepository struct {
	mock.Mock
}

var _ portsrepo.InventoryRepositoryFacade = (*MockInventoryRepository)(nil)

func (m *MockInventoryRepository) FindInventoryItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindInventoryItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListInventoryItems(ctx context.Context, lowStockOnly bool, limit int, offset int) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, lowStockOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListStockMovements(ctx context.Context, itemID string, limit int, offset int) ([]domain.StockMovement, error) {
	args := m.Called(ctx, itemID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func (m *MockInventoryRepository) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) ApplyStockMovement(ctx context.Context, movement domain.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

// --- Test Suite ---

type InventoryServiceTestSuite struct {
	suite.Suite
	mockInventoryRepo *MockInventoryRepository
	service           portssvc.InventorySvcFacade
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.service = services.NewInventoryService(suite.mockInventoryRepo)
}

func (suite *InventoryServiceTestSuite) newItem(sku string) *domain.InventoryItem {
	return &domain.InventoryItem{
		InventoryItemID: uuid.NewString(),
		SKU:             sku,
		Name:            "Cardboard box M",
		Quantity:        decimal.NewFromInt(50),
		MinQuantity:     decimal.NewFromInt(10),
		IsActive:        true,
	}
}

// --- Test Cases ---

func (suite *InventoryServiceTestSuite) TestCreateInventoryItem_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateInventoryItemRequest{
		SKU:         "BOX-M",
		Name:        "Cardboard box M",
		Quantity:    decimal.NewFromInt(100),
		MinQuantity: decimal.NewFromInt(20),
	}

	suite.mockInventoryRepo.On("FindInventoryItemBySKU", ctx, "BOX-M").
		Return(nil, fmt.Errorf("%w: sku", apperrors.ErrNotFound)).Once()
	suite.mockInventoryRepo.On("SaveInventoryItem", ctx, mock.MatchedBy(func(item domain.InventoryItem) bool {
		return item.SKU == "BOX-M" &&
			item.Quantity.Equal(decimal.NewFromInt(100)) &&
			item.MinQuantity.Equal(decimal.NewFromInt(20)) &&
			item.IsActive &&
			item.CreatedBy == userID
	})).Return(nil).Once()

	item, err := suite.service.CreateInventoryItem(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.NotEmpty(item.InventoryItemID)
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCreateInventoryItem_DuplicateSKU() {
	ctx := context.Background()

	suite.mockInventoryRepo.On("FindInventoryItemBySKU", ctx, "BOX-M").
		Return(suite.newItem("BOX-M"), nil).Once()

	item, err := suite.service.CreateInventoryItem(ctx, dto.CreateInventoryItemRequest{
		SKU:  "BOX-M",
		Name: "Cardboard box M",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "SaveInventoryItem", ctx, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestCreateInventoryItem_NegativeQuantityRejected() {
	ctx := context.Background()

	item, err := suite.service.CreateInventoryItem(ctx, dto.CreateInventoryItemRequest{
		SKU:      "BOX-M",
		Name:     "Cardboard box M",
		Quantity: decimal.NewFromInt(-1),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "FindInventoryItemBySKU", ctx, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestRecordStockMovement_Receipt() {
	ctx := context.Background()
	userID := uuid.NewString()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()
	suite.mockInventoryRepo.On("ApplyStockMovement", ctx, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.InventoryItemID == item.InventoryItemID &&
			m.MovementType == domain.MovementReceipt &&
			m.Quantity.Equal(decimal.NewFromInt(30)) &&
			m.OrderID == nil &&
			m.CreatedBy == userID
	})).Return(nil).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementReceipt,
		Quantity:     decimal.NewFromInt(30),
		Note:         "Weekly restock",
	}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.True(movement.QuantityDelta().Equal(decimal.NewFromInt(30)))
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRecordStockMovement_IssueLinksOrder() {
	ctx := context.Background()
	userID := uuid.NewString()
	orderID := uuid.NewString()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()
	suite.mockInventoryRepo.On("ApplyStockMovement", ctx, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.MovementType == domain.MovementIssue &&
			m.Quantity.Equal(decimal.NewFromInt(5)) &&
			m.OrderID != nil && *m.OrderID == orderID
	})).Return(nil).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementIssue,
		Quantity:     decimal.NewFromInt(5),
		OrderID:      &orderID,
	}, userID)

	suite.Require().NoError(err)
	// An issue subtracts from stock even though the recorded quantity is positive.
	suite.True(movement.QuantityDelta().Equal(decimal.NewFromInt(-5)))
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRecordStockMovement_IssueRequiresPositiveQuantity() {
	ctx := context.Background()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementIssue,
		Quantity:     decimal.NewFromInt(-5),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "ApplyStockMovement", ctx, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestRecordStockMovement_AdjustmentAllowsNegative() {
	ctx := context.Background()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()
	suite.mockInventoryRepo.On("ApplyStockMovement", ctx, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.MovementType == domain.MovementAdjustment &&
			m.Quantity.Equal(decimal.NewFromInt(-3))
	})).Return(nil).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementAdjustment,
		Quantity:     decimal.NewFromInt(-3),
		Note:         "Damaged during picking",
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(movement.QuantityDelta().Equal(decimal.NewFromInt(-3)))
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRecordStockMovement_AdjustmentZeroRejected() {
	ctx := context.Background()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementAdjustment,
		Quantity:     decimal.Zero,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestRecordStockMovement_InactiveItemRejected() {
	ctx := context.Background()
	item := suite.newItem("BOX-M")
	item.IsActive = false

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementReceipt,
		Quantity:     decimal.NewFromInt(10),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "ApplyStockMovement", ctx, mock.Anything)
}

// The repository enforces that an issue never drives stock negative; the
// service surfaces that as a validation failure.
func (suite *InventoryServiceTestSuite) TestRecordStockMovement_InsufficientStock() {
	ctx := context.Background()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()
	suite.mockInventoryRepo.On("ApplyStockMovement", ctx, mock.Anything).
		Return(apperrors.NewValidationError("insufficient stock for movement")).Once()

	movement, err := suite.service.RecordStockMovement(ctx, item.InventoryItemID, dto.CreateStockMovementRequest{
		MovementType: domain.MovementIssue,
		Quantity:     decimal.NewFromInt(500),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestUpdateInventoryItem_NoFieldsNoWrite() {
	ctx := context.Background()
	item := suite.newItem("BOX-M")

	suite.mockInventoryRepo.On("FindInventoryItemByID", ctx, item.InventoryItemID).Return(item, nil).Once()

	result, err := suite.service.UpdateInventoryItem(ctx, item.InventoryItemID, dto.UpdateInventoryItemRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(item.InventoryItemID, result.InventoryItemID)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "UpdateInventoryItem", ctx, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestListInventoryItems_PassesLowStockFilter() {
	ctx := context.Background()
	lowItem := *suite.newItem("BOX-S")
	lowItem.Quantity = decimal.NewFromInt(4)

	suite.mockInventoryRepo.On("ListInventoryItems", ctx, true, 5, 0).
		Return([]domain.InventoryItem{lowItem}, nil).Once()

	items, err := suite.service.ListInventoryItems(ctx, dto.ListInventoryItemsParams{
		LowStockOnly: true,
		Limit:        5,
	})

	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.True(items[0].IsLowStock())
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestInventoryService(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
