package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderFixture() (*OrderService, *mocks.MockItemRepository, *mocks.MockOrderRepository, *mocks.MockPublisher) {
	itemRepo := new(mocks.MockItemRepository)
	orderRepo := new(mocks.MockOrderRepository)
	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	tx := &mocks.FakeTxManager{UoW: &mocks.FakeUnitOfWork{ItemRepo: itemRepo, OrderRepo: orderRepo}}
	return NewOrderService(tx, orderRepo, publisher, nil), itemRepo, orderRepo, publisher
}

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name          string
		lines         []domain.LineRequest
		setupMocks    func(*mocks.MockItemRepository, *mocks.MockOrderRepository, *mocks.MockPublisher)
		expectedError string
		expectedKind  domain.Kind
		expectedIndex int
		expectedTotal float64
	}{
		{
			name:  "successful placement captures prices and decrements stock",
			lines: []domain.LineRequest{{ItemID: 1, Quantity: 3}},
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				itemRepo.On("FindForUpdate", mock.Anything, uint64(1)).
					Return(CreateTestItem(1, "Item A", 10, 5, true), nil)
				itemRepo.On("AdjustStock", mock.Anything, uint64(1), int64(-3)).Return(nil)
				orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
					Return(nil).
					Run(func(args mock.Arguments) {
						args.Get(1).(*domain.Order).ID = TestOrderID
					})
				pub.On("Publish", mock.Anything, domain.TopicOrderCreated, mock.Anything).Return(nil).Maybe()
				pub.On("Publish", mock.Anything, domain.TopicItemStockChanged, mock.Anything).Return(nil).Maybe()
			},
			expectedTotal: 30,
		},
		{
			name: "insufficient stock on second line aborts the whole attempt",
			lines: []domain.LineRequest{
				{ItemID: 1, Quantity: 3},
				{ItemID: 2, Quantity: 1},
			},
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				itemRepo.On("FindForUpdate", mock.Anything, uint64(1)).
					Return(CreateTestItem(1, "Item A", 10, 5, true), nil)
				itemRepo.On("AdjustStock", mock.Anything, uint64(1), int64(-3)).Return(nil)
				itemRepo.On("FindForUpdate", mock.Anything, uint64(2)).
					Return(CreateTestItem(2, "Item B", 20, 0, true), nil)
			},
			expectedError: "insufficient stock at index 1",
			expectedKind:  domain.KindConflict,
			expectedIndex: 1,
		},
		{
			name:  "unknown item",
			lines: []domain.LineRequest{{ItemID: 99, Quantity: 1}},
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				itemRepo.On("FindForUpdate", mock.Anything, uint64(99)).Return(nil, nil)
			},
			expectedError: "item not found at index 0",
			expectedKind:  domain.KindNotFound,
			expectedIndex: 0,
		},
		{
			name:  "inactive item reads as not found",
			lines: []domain.LineRequest{{ItemID: 3, Quantity: 1}},
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				itemRepo.On("FindForUpdate", mock.Anything, uint64(3)).
					Return(CreateTestItem(3, "Retired", 5, 10, false), nil)
			},
			expectedError: "item not found at index 0",
			expectedKind:  domain.KindNotFound,
			expectedIndex: 0,
		},
		{
			name:          "empty line list rejected before any lookup",
			lines:         nil,
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: "items array is required",
			expectedKind:  domain.KindValidation,
			expectedIndex: -1,
		},
		{
			name:          "zero quantity rejected before any lookup",
			lines:         []domain.LineRequest{{ItemID: 1, Quantity: 0}},
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: "invalid item at index 0",
			expectedKind:  domain.KindValidation,
			expectedIndex: 0,
		},
		{
			name:  "storage failure surfaces as internal",
			lines: []domain.LineRequest{{ItemID: 1, Quantity: 1}},
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository, pub *mocks.MockPublisher) {
				itemRepo.On("FindForUpdate", mock.Anything, uint64(1)).
					Return(CreateTestItem(1, "Item A", 10, 5, true), nil)
				itemRepo.On("AdjustStock", mock.Anything, uint64(1), int64(-1)).Return(nil)
				orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
					Return(errors.New("database error"))
			},
			expectedError: "database error",
			expectedKind:  domain.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, itemRepo, orderRepo, publisher := newOrderFixture()
			tt.setupMocks(itemRepo, orderRepo, publisher)

			order, err := service.PlaceOrder(context.Background(), TestUserID, tt.lines)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Equal(t, tt.expectedKind, domain.KindOf(err))
				if tt.expectedKind != domain.KindInternal {
					var de *domain.Error
					if assert.ErrorAs(t, err, &de) && tt.expectedIndex >= 0 {
						assert.Equal(t, tt.expectedIndex, de.LineIndex)
					}
				}
				assert.Nil(t, order)
				if tt.expectedKind != domain.KindInternal {
					orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				assert.Equal(t, TestUserID, order.UserID)
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.Equal(t, tt.expectedTotal, order.TotalAmount)
				assert.Len(t, order.Lines, len(tt.lines))
				for i, line := range order.Lines {
					assert.Equal(t, tt.lines[i].Quantity, line.Quantity)
				}
				time.Sleep(50 * time.Millisecond)
			}

			itemRepo.AssertExpectations(t)
			orderRepo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_PlaceOrder_CapturedPriceIsStable(t *testing.T) {
	service, itemRepo, orderRepo, _ := newOrderFixture()

	itemRepo.On("FindForUpdate", mock.Anything, uint64(1)).
		Return(CreateTestItem(1, "Item A", 10, 5, true), nil)
	itemRepo.On("AdjustStock", mock.Anything, uint64(1), int64(-2)).Return(nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	order, err := service.PlaceOrder(context.Background(), TestUserID, []domain.LineRequest{{ItemID: 1, Quantity: 2}})

	assert.NoError(t, err)
	assert.Equal(t, 10.0, order.Lines[0].Price)
	assert.Equal(t, 20.0, order.TotalAmount)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	pendingOrder := func() *domain.Order {
		return CreateTestOrder(TestOrderID, TestUserID, domain.StatusPending,
			domain.OrderLine{ItemID: 1, Quantity: 3, Price: 10})
	}

	tests := []struct {
		name           string
		next           domain.OrderStatus
		setupMocks     func(*mocks.MockItemRepository, *mocks.MockOrderRepository)
		expectedError  string
		expectedKind   domain.Kind
		expectedStatus domain.OrderStatus
	}{
		{
			name: "pending to paid",
			next: domain.StatusPaid,
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository) {
				orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).Return(pendingOrder(), nil)
				orderRepo.On("UpdateStatus", mock.Anything, TestOrderID, domain.StatusPaid, false).Return(nil)
			},
			expectedStatus: domain.StatusPaid,
		},
		{
			name: "cancelling a pending order restores stock once",
			next: domain.StatusCancelled,
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository) {
				orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).Return(pendingOrder(), nil)
				itemRepo.On("FindForUpdate", mock.Anything, uint64(1)).
					Return(CreateTestItem(1, "Item A", 10, 2, true), nil)
				itemRepo.On("AdjustStock", mock.Anything, uint64(1), int64(3)).Return(nil)
				orderRepo.On("UpdateStatus", mock.Anything, TestOrderID, domain.StatusCancelled, true).Return(nil)
			},
			expectedStatus: domain.StatusCancelled,
		},
		{
			name: "cancelling an already-cancelled order is a no-op",
			next: domain.StatusCancelled,
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository) {
				cancelled := CreateTestOrder(TestOrderID, TestUserID, domain.StatusCancelled,
					domain.OrderLine{ItemID: 1, Quantity: 3, Price: 10})
				cancelled.StockRestored = true
				orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).Return(cancelled, nil)
			},
			expectedStatus: domain.StatusCancelled,
		},
		{
			name: "delivered orders cannot be cancelled",
			next: domain.StatusCancelled,
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository) {
				orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).
					Return(CreateTestOrder(TestOrderID, TestUserID, domain.StatusDelivered), nil)
			},
			expectedError: "cannot transition order from delivered to cancelled",
			expectedKind:  domain.KindConflict,
		},
		{
			name: "skipping a step is a conflict",
			next: domain.StatusShipped,
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository) {
				orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).Return(pendingOrder(), nil)
			},
			expectedError: "cannot transition order from pending to shipped",
			expectedKind:  domain.KindConflict,
		},
		{
			name: "unknown order",
			next: domain.StatusPaid,
			setupMocks: func(itemRepo *mocks.MockItemRepository, orderRepo *mocks.MockOrderRepository) {
				orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).Return(nil, nil)
			},
			expectedError: "order not found",
			expectedKind:  domain.KindNotFound,
		},
		{
			name:          "unknown status rejected up front",
			next:          domain.OrderStatus("refunded"),
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockOrderRepository) {},
			expectedError: `invalid status "refunded"`,
			expectedKind:  domain.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, itemRepo, orderRepo, publisher := newOrderFixture()
			publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
			tt.setupMocks(itemRepo, orderRepo)

			order, err := service.UpdateStatus(context.Background(), TestOrderID, tt.next)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Equal(t, tt.expectedKind, domain.KindOf(err))
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, order.Status)
				time.Sleep(50 * time.Millisecond)
			}

			itemRepo.AssertExpectations(t)
			orderRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateStatus_DoubleCancelDoesNotRestock(t *testing.T) {
	service, itemRepo, orderRepo, _ := newOrderFixture()

	cancelled := CreateTestOrder(TestOrderID, TestUserID, domain.StatusCancelled,
		domain.OrderLine{ItemID: 1, Quantity: 3, Price: 10})
	cancelled.StockRestored = true
	orderRepo.On("FindForUpdate", mock.Anything, TestOrderID).Return(cancelled, nil)

	order, err := service.UpdateStatus(context.Background(), TestOrderID, domain.StatusCancelled)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	itemRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ListByUser(t *testing.T) {
	service, _, orderRepo, _ := newOrderFixture()

	expected := []domain.Order{*CreateTestOrder(1, TestUserID, domain.StatusPending)}
	orderRepo.On("FindByUserID", mock.Anything, TestUserID).Return(expected, nil)

	orders, err := service.ListByUser(context.Background(), TestUserID)

	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	orderRepo.AssertExpectations(t)
}
