package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fulfillops/fulfillment_crm_app/internal/apperrors"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	portsrepo "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/repositories"
	portssvc "github.com/fulfillops/fulfillment_crm_app/internal/core/ports/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/core/services"
	"github.com/fulfillops/fulfillment_crm_app/internal/dto"
)

// --- Mock OrderRepository ---

type MockOrderRepository struct {
	mock.Mock
}

var _ portsrepo.OrderRepositoryWithTx = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, filter portsrepo.ListOrdersFilter, limit int, nextToken *string) ([]domain.Order, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Order), returnedNextToken, args.Error(2)
}

func (m *MockOrderRepository) ListOrdersByDateRange(ctx context.Context, from, to time.Time, status domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(ctx, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrder(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string, now time.Time) error {
	args := m.Called(ctx, orderID, status, userID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) FindOrderByIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderAggregatesInTx(ctx context.Context, tx pgx.Tx, order domain.Order, userID string, now time.Time) error {
	args := m.Called(ctx, tx, order, userID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) FindOrderItemByID(ctx context.Context, orderItemID string) (*domain.OrderItem, error) {
	args := m.Called(ctx, orderItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ListOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ListOrderItemsInTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) SaveOrderItem(ctx context.Context, item domain.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderItem(ctx context.Context, item domain.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrderItem(ctx context.Context, orderItemID string) error {
	args := m.Called(ctx, orderItemID)
	return args.Error(0)
}

func (m *MockOrderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockOrderRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockOrderRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock OrderExpenseReader ---

type MockOrderExpenseReader struct {
	mock.Mock
}

var _ portsrepo.OrderExpenseReader = (*MockOrderExpenseReader)(nil)

func (m *MockOrderExpenseReader) FindExpenseByID(ctx context.Context, orderExpenseID string) (*domain.OrderExpense, error) {
	args := m.Called(ctx, orderExpenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderExpense), args.Error(1)
}

func (m *MockOrderExpenseReader) ListExpensesByOrderID(ctx context.Context, orderID string) ([]domain.OrderExpense, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderExpense), args.Error(1)
}

func (m *MockOrderExpenseReader) ListExpensesByOrderIDInTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderExpense, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderExpense), args.Error(1)
}

// --- Mock ClientReader ---

type MockClientReader struct {
	mock.Mock
}

var _ portsrepo.ClientReader = (*MockClientReader)(nil)

func (m *MockClientReader) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientReader) ListClients(ctx context.Context, search string, limit, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

// --- Test Suite ---

type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo   *MockOrderRepository
	mockExpenseRepo *MockOrderExpenseReader
	mockClientRepo  *MockClientReader
	service         portssvc.OrderSvcFacade
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockExpenseRepo = new(MockOrderExpenseReader)
	suite.mockClientRepo = new(MockClientReader)
	suite.service = services.NewOrderService(suite.mockOrderRepo, suite.mockExpenseRepo, suite.mockClientRepo)
}

func (suite *OrderServiceTestSuite) newActiveClient(clientID string) *domain.Client {
	return &domain.Client{
		ClientID: clientID,
		Name:     "Acme Retail",
		IsActive: true,
	}
}

func (suite *OrderServiceTestSuite) newOrder(orderID string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		OrderID:       orderID,
		OrderNumber:   "FF-1001",
		ClientID:      uuid.NewString(),
		Status:        status,
		EstimatedCost: decimal.Zero,
		ActualCost:    decimal.Zero,
		TotalIncome:   decimal.Zero,
		Profit:        decimal.Zero,
		MarginPercent: decimal.Zero,
	}
}

// expectRecalc wires the whole recalculation round trip: begin, lock the
// order row, read children inside the transaction, write the aggregates,
// commit. The deferred rollback fires after commit too, so that expectation
// is deliberately unbounded.
func (suite *OrderServiceTestSuite) expectRecalc(ctx context.Context, order *domain.Order, expenses []domain.OrderExpense, items []domain.OrderItem, userID string, check func(o domain.Order) bool) {
	suite.mockOrderRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockOrderRepo.On("FindOrderByIDForUpdate", ctx, mock.Anything, order.OrderID).Return(order, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByOrderIDInTx", ctx, mock.Anything, order.OrderID).Return(expenses, nil).Once()
	suite.mockOrderRepo.On("ListOrderItemsInTx", ctx, mock.Anything, order.OrderID).Return(items, nil).Once()
	suite.mockOrderRepo.On("UpdateOrderAggregatesInTx", ctx, mock.Anything, mock.MatchedBy(check), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockOrderRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockOrderRepo.On("Rollback", ctx, mock.Anything).Return(nil)
}

// --- Test Cases ---

func (suite *OrderServiceTestSuite) TestCreateOrder_Success() {
	ctx := context.Background()
	clientID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreateOrderRequest{
		OrderNumber: "FF-2042",
		ClientID:    clientID,
		Description: "Spring campaign shipment",
	}

	suite.mockClientRepo.On("FindClientByID", ctx, clientID).Return(suite.newActiveClient(clientID), nil).Once()
	suite.mockOrderRepo.On("SaveOrder", ctx, mock.MatchedBy(func(o domain.Order) bool {
		return o.OrderNumber == "FF-2042" &&
			o.ClientID == clientID &&
			o.Status == domain.OrderNew &&
			o.EstimatedCost.IsZero() &&
			o.ActualCost.IsZero() &&
			o.TotalIncome.IsZero() &&
			o.Profit.IsZero() &&
			o.MarginPercent.IsZero() &&
			o.CreatedBy == userID
	})).Return(nil).Once()

	order, err := suite.service.CreateOrder(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	suite.Equal(domain.OrderNew, order.Status)
	suite.NotEmpty(order.OrderID)
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockClientRepo.AssertExpectations(suite.T())
	// No items, so no recalculation round trip.
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Begin", ctx)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_ClientInactive() {
	ctx := context.Background()
	clientID := uuid.NewString()
	client := suite.newActiveClient(clientID)
	client.IsActive = false

	suite.mockClientRepo.On("FindClientByID", ctx, clientID).Return(client, nil).Once()

	order, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{OrderNumber: "FF-1", ClientID: clientID}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "SaveOrder", ctx, mock.Anything)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_ClientNotFound() {
	ctx := context.Background()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, clientID).Return(nil, apperrors.ErrNotFound).Once()

	order, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{OrderNumber: "FF-1", ClientID: clientID}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_WithItems_RecalculatesOnce() {
	ctx := context.Background()
	clientID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreateOrderRequest{
		OrderNumber: "FF-2043",
		ClientID:    clientID,
		Items: []dto.CreateOrderItemRequest{
			{Name: "Gift box", Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(25)},
			{Name: "Premium insert", Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(50)},
		},
	}

	suite.mockClientRepo.On("FindClientByID", ctx, clientID).Return(suite.newActiveClient(clientID), nil).Once()
	suite.mockOrderRepo.On("SaveOrder", ctx, mock.AnythingOfType("domain.Order")).Return(nil).Once()
	suite.mockOrderRepo.On("SaveOrderItem", ctx, mock.AnythingOfType("domain.OrderItem")).Return(nil).Times(2)

	items := []domain.OrderItem{
		{Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(25)},
		{Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(50)},
	}
	locked := suite.newOrder("", domain.OrderNew)
	suite.mockOrderRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockOrderRepo.On("FindOrderByIDForUpdate", ctx, mock.Anything, mock.AnythingOfType("string")).Return(locked, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByOrderIDInTx", ctx, mock.Anything, mock.AnythingOfType("string")).Return([]domain.OrderExpense{}, nil).Once()
	suite.mockOrderRepo.On("ListOrderItemsInTx", ctx, mock.Anything, mock.AnythingOfType("string")).Return(items, nil).Once()
	suite.mockOrderRepo.On("UpdateOrderAggregatesInTx", ctx, mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.EstimatedCost.IsZero() &&
			o.ActualCost.Equal(decimal.NewFromInt(25)) &&
			o.TotalIncome.Equal(decimal.NewFromInt(100)) &&
			o.Profit.Equal(decimal.NewFromInt(75)) &&
			o.MarginPercent.Equal(decimal.NewFromInt(75))
	}), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockOrderRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockOrderRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	order, err := suite.service.CreateOrder(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	suite.True(order.ActualCost.Equal(decimal.NewFromInt(25)))
	suite.True(order.Profit.Equal(decimal.NewFromInt(75)))
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestGetOrderByID_NotFound() {
	ctx := context.Background()
	orderID := uuid.NewString()

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(nil, apperrors.ErrNotFound).Once()

	order, err := suite.service.GetOrderByID(ctx, orderID)

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestListOrders_InvalidStatus() {
	ctx := context.Background()

	resp, err := suite.service.ListOrders(ctx, dto.ListOrdersParams{Status: "SHIPPING", Limit: 20})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "ListOrders", ctx, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestListOrders_PassesFilterAndToken() {
	ctx := context.Background()
	clientID := uuid.NewString()
	orders := []domain.Order{*suite.newOrder(uuid.NewString(), domain.OrderProcessing)}

	suite.mockOrderRepo.On("ListOrders", ctx, mock.MatchedBy(func(f portsrepo.ListOrdersFilter) bool {
		return f.ClientID == clientID && f.Status == domain.OrderProcessing
	}), 10, (*string)(nil)).Return(orders, "next-page", nil).Once()

	resp, err := suite.service.ListOrders(ctx, dto.ListOrdersParams{ClientID: clientID, Status: "PROCESSING", Limit: 10})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Orders, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

// Recalculation combines expense and item contributions:
// two planned expenses of 50 plus one item costing 200 and selling for 1000
// give estimated 100, actual 300, income 1000, profit 700 and margin 70%.
func (suite *OrderServiceTestSuite) TestRecalculateOrder_CombinesExpensesAndItems() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderProcessing)

	expenses := []domain.OrderExpense{
		{TotalAmount: decimal.NewFromInt(50), ActualAmount: decimal.Zero},
		{TotalAmount: decimal.NewFromInt(50), ActualAmount: decimal.Zero},
	}
	items := []domain.OrderItem{
		{Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(200), UnitPrice: decimal.NewFromInt(1000)},
	}

	suite.expectRecalc(ctx, order, expenses, items, userID, func(o domain.Order) bool {
		return o.EstimatedCost.Equal(decimal.NewFromInt(100)) &&
			o.ActualCost.Equal(decimal.NewFromInt(300)) &&
			o.TotalIncome.Equal(decimal.NewFromInt(1000)) &&
			o.Profit.Equal(decimal.NewFromInt(700)) &&
			o.MarginPercent.Equal(decimal.NewFromInt(70))
	})

	result, err := suite.service.RecalculateOrder(ctx, orderID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.EstimatedCost.Equal(decimal.NewFromInt(100)))
	suite.True(result.ActualCost.Equal(decimal.NewFromInt(300)))
	suite.True(result.Profit.Equal(decimal.NewFromInt(700)))
	suite.True(result.MarginPercent.Equal(decimal.NewFromInt(70)))
	suite.Equal(userID, result.LastUpdatedBy)
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// A realised expense contributes its actual amount instead of the planned
// total; zero actual means "not yet realised" and keeps the total.
func (suite *OrderServiceTestSuite) TestRecalculateOrder_RealisedExpenseWins() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderProcessing)

	expenses := []domain.OrderExpense{
		{TotalAmount: decimal.NewFromInt(50), ActualAmount: decimal.NewFromInt(60)},
		{TotalAmount: decimal.NewFromInt(50), ActualAmount: decimal.Zero},
	}

	suite.expectRecalc(ctx, order, expenses, []domain.OrderItem{}, userID, func(o domain.Order) bool {
		return o.EstimatedCost.Equal(decimal.NewFromInt(110)) &&
			o.ActualCost.Equal(decimal.NewFromInt(110))
	})

	result, err := suite.service.RecalculateOrder(ctx, orderID, userID)

	suite.Require().NoError(err)
	suite.True(result.EstimatedCost.Equal(decimal.NewFromInt(110)))
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

// Without any income the margin is zero rather than a division error, and
// profit goes negative by the full cost.
func (suite *OrderServiceTestSuite) TestRecalculateOrder_NoIncome_ZeroMargin() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderNew)

	expenses := []domain.OrderExpense{
		{TotalAmount: decimal.NewFromInt(80), ActualAmount: decimal.Zero},
	}

	suite.expectRecalc(ctx, order, expenses, []domain.OrderItem{}, userID, func(o domain.Order) bool {
		return o.ActualCost.Equal(decimal.NewFromInt(80)) &&
			o.TotalIncome.IsZero() &&
			o.Profit.Equal(decimal.NewFromInt(-80)) &&
			o.MarginPercent.IsZero()
	})

	result, err := suite.service.RecalculateOrder(ctx, orderID, userID)

	suite.Require().NoError(err)
	suite.True(result.MarginPercent.IsZero())
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

// Income recorded outside the item lines survives recalculation: item revenue
// replaces the cached value only when the items actually carry prices.
func (suite *OrderServiceTestSuite) TestRecalculateOrder_KeepsRecordedIncome() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderProcessing)
	order.TotalIncome = decimal.NewFromInt(500)

	items := []domain.OrderItem{
		{Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(25), UnitPrice: decimal.Zero},
	}

	suite.expectRecalc(ctx, order, []domain.OrderExpense{}, items, userID, func(o domain.Order) bool {
		return o.ActualCost.Equal(decimal.NewFromInt(100)) &&
			o.TotalIncome.Equal(decimal.NewFromInt(500)) &&
			o.Profit.Equal(decimal.NewFromInt(400)) &&
			o.MarginPercent.Equal(decimal.NewFromInt(80))
	})

	result, err := suite.service.RecalculateOrder(ctx, orderID, userID)

	suite.Require().NoError(err)
	suite.True(result.TotalIncome.Equal(decimal.NewFromInt(500)))
	suite.True(result.MarginPercent.Equal(decimal.NewFromInt(80)))
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestRecalculateOrder_OrderNotFound() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockOrderRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockOrderRepo.On("FindOrderByIDForUpdate", ctx, mock.Anything, orderID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockOrderRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	result, err := suite.service.RecalculateOrder(ctx, orderID, userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Commit", ctx, mock.Anything)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

// A failed aggregate write must leave the transaction uncommitted so the
// rollback undoes the lock without persisting anything.
func (suite *OrderServiceTestSuite) TestRecalculateOrder_WriteFailureRollsBack() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderProcessing)

	suite.mockOrderRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockOrderRepo.On("FindOrderByIDForUpdate", ctx, mock.Anything, orderID).Return(order, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByOrderIDInTx", ctx, mock.Anything, orderID).Return([]domain.OrderExpense{}, nil).Once()
	suite.mockOrderRepo.On("ListOrderItemsInTx", ctx, mock.Anything, orderID).Return([]domain.OrderItem{}, nil).Once()
	suite.mockOrderRepo.On("UpdateOrderAggregatesInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Order"), userID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()
	suite.mockOrderRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	result, err := suite.service.RecalculateOrder(ctx, orderID, userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, assert.AnError)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "Commit", ctx, mock.Anything)
	suite.mockOrderRepo.AssertCalled(suite.T(), "Rollback", ctx, mock.Anything)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_Success() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	before := suite.newOrder(orderID, domain.OrderNew)
	after := suite.newOrder(orderID, domain.OrderProcessing)

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(before, nil).Once()
	suite.mockOrderRepo.On("UpdateOrderStatus", ctx, orderID, domain.OrderProcessing, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(after, nil).Once()

	result, err := suite.service.UpdateOrderStatus(ctx, orderID, domain.OrderProcessing, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.OrderProcessing, result.Status)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_SameStatusNoWrite() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderAssembly)

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()

	result, err := suite.service.UpdateOrderStatus(ctx, orderID, domain.OrderAssembly, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.OrderAssembly, result.Status)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateOrderStatus", ctx, orderID, mock.Anything, userID, mock.Anything)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_TerminalStatusConflict() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderCompleted)

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()

	result, err := suite.service.UpdateOrderStatus(ctx, orderID, domain.OrderProcessing, userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestUpdateOrderStatus_InvalidStatus() {
	ctx := context.Background()

	result, err := suite.service.UpdateOrderStatus(ctx, uuid.NewString(), "DISPATCHED", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "FindOrderByID", ctx, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestAddOrderItem_TriggersRecalculation() {
	ctx := context.Background()
	orderID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderProcessing)
	req := dto.AddOrderItemRequest{
		Name:      "Pallet wrap",
		Quantity:  decimal.NewFromInt(3),
		UnitCost:  decimal.NewFromInt(7),
		UnitPrice: decimal.NewFromInt(12),
	}

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("SaveOrderItem", ctx, mock.MatchedBy(func(it domain.OrderItem) bool {
		return it.OrderID == orderID && it.Name == "Pallet wrap" && it.Quantity.Equal(decimal.NewFromInt(3))
	})).Return(nil).Once()

	items := []domain.OrderItem{
		{Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(7), UnitPrice: decimal.NewFromInt(12)},
	}
	suite.expectRecalc(ctx, order, []domain.OrderExpense{}, items, userID, func(o domain.Order) bool {
		return o.ActualCost.Equal(decimal.NewFromInt(21)) && o.TotalIncome.Equal(decimal.NewFromInt(36))
	})

	item, err := suite.service.AddOrderItem(ctx, orderID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.Equal(orderID, item.OrderID)
	suite.NotEmpty(item.OrderItemID)
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestAddOrderItem_NonPositiveQuantity() {
	ctx := context.Background()
	orderID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderNew)

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()

	item, err := suite.service.AddOrderItem(ctx, orderID, dto.AddOrderItemRequest{Name: "Tape", Quantity: decimal.Zero}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "SaveOrderItem", ctx, mock.Anything)
}

// An item belonging to a different order must surface as not found rather
// than leak that the item exists.
func (suite *OrderServiceTestSuite) TestUpdateOrderItem_WrongOrderMasksAsNotFound() {
	ctx := context.Background()
	orderID := uuid.NewString()
	itemID := uuid.NewString()
	item := &domain.OrderItem{OrderItemID: itemID, OrderID: uuid.NewString(), Quantity: decimal.NewFromInt(1)}

	suite.mockOrderRepo.On("FindOrderItemByID", ctx, itemID).Return(item, nil).Once()

	name := "Renamed"
	result, err := suite.service.UpdateOrderItem(ctx, orderID, itemID, dto.UpdateOrderItemRequest{Name: &name}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateOrderItem", ctx, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestRemoveOrderItem_TriggersRecalculation() {
	ctx := context.Background()
	orderID := uuid.NewString()
	itemID := uuid.NewString()
	userID := uuid.NewString()
	order := suite.newOrder(orderID, domain.OrderProcessing)
	item := &domain.OrderItem{OrderItemID: itemID, OrderID: orderID, Quantity: decimal.NewFromInt(1)}

	suite.mockOrderRepo.On("FindOrderItemByID", ctx, itemID).Return(item, nil).Once()
	suite.mockOrderRepo.On("DeleteOrderItem", ctx, itemID).Return(nil).Once()
	suite.expectRecalc(ctx, order, []domain.OrderExpense{}, []domain.OrderItem{}, userID, func(o domain.Order) bool {
		return o.ActualCost.IsZero() && o.EstimatedCost.IsZero()
	})

	err := suite.service.RemoveOrderItem(ctx, orderID, itemID, userID)

	suite.Require().NoError(err)
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
