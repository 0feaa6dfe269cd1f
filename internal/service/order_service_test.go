package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/pkg/apperror"
)

const testWallet = "0x" + "ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.Order), args.Error(1)
}

type mockStoreLookup struct {
	mock.Mock
}

func (m *mockStoreLookup) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func newOrderService(orders *mockOrderRepo, stores *mockStoreLookup, plan string) *OrderService {
	tiers := new(mockTierLookup)
	tiers.On("GetActivePlan", mock.Anything, mock.Anything).Return(plan, nil)
	return NewOrderService(orders, stores, NewFeePolicy(tiers))
}

func TestOrderService_CreateOrder_FreezesFeeSplit(t *testing.T) {
	orders := new(mockOrderRepo)
	stores := new(mockStoreLookup)
	svc := newOrderService(orders, stores, models.PlanPro)
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	storeID := uuid.New()

	stores.On("GetStore", ctx, storeID).Return(&models.Store{ID: storeID, OwnerID: sellerID}, nil)
	orders.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.FeePercent == 5.0 &&
			o.FeeAmount == 5.0 &&
			o.SellerPayout == 95.0 &&
			o.SellerID == sellerID
	})).Return(&models.Order{ID: uuid.New(), Status: models.OrderStatusPending}, nil)

	order, err := svc.CreateOrder(ctx, buyerID, storeID, 100.0, models.CurrencySUI, testWallet)

	assert.NoError(t, err)
	assert.NotNil(t, order)
	orders.AssertExpectations(t)
}

func TestOrderService_CreateOrder_NegativeAmount(t *testing.T) {
	svc := newOrderService(new(mockOrderRepo), new(mockStoreLookup), models.PlanBasic)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), uuid.New(), -1.0, models.CurrencySUI, testWallet)

	assert.True(t, apperror.IsValidation(err))
}

func TestOrderService_CreateOrder_UnsupportedCurrency(t *testing.T) {
	svc := newOrderService(new(mockOrderRepo), new(mockStoreLookup), models.PlanBasic)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), uuid.New(), 10.0, models.CurrencyRUB, testWallet)

	assert.True(t, apperror.IsValidation(err))
}

func TestOrderService_CreateOrder_BadWallet(t *testing.T) {
	svc := newOrderService(new(mockOrderRepo), new(mockStoreLookup), models.PlanBasic)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), uuid.New(), 10.0, models.CurrencySUI, "not-a-wallet")

	assert.True(t, apperror.IsValidation(err))
}

func TestOrderService_CreateOrder_OwnStore(t *testing.T) {
	orders := new(mockOrderRepo)
	stores := new(mockStoreLookup)
	svc := newOrderService(orders, stores, models.PlanBasic)
	ctx := context.Background()

	buyerID := uuid.New()
	storeID := uuid.New()
	stores.On("GetStore", ctx, storeID).Return(&models.Store{ID: storeID, OwnerID: buyerID}, nil)

	_, err := svc.CreateOrder(ctx, buyerID, storeID, 10.0, models.CurrencySUI, testWallet)

	assert.True(t, apperror.IsValidation(err))
}

func TestOrderService_GetOrder_ForbiddenForStranger(t *testing.T) {
	orders := new(mockOrderRepo)
	stores := new(mockStoreLookup)
	svc := newOrderService(orders, stores, models.PlanBasic)
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}, nil)

	_, err := svc.GetOrder(ctx, orderID, uuid.New(), models.RoleBuyer)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOrderService_GetOrder_OperatorSeesAll(t *testing.T) {
	orders := new(mockOrderRepo)
	stores := new(mockStoreLookup)
	svc := newOrderService(orders, stores, models.PlanBasic)
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}, nil)

	order, err := svc.GetOrder(ctx, orderID, uuid.New(), models.RoleOperator)

	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
}
