package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/pkg/apperror"
	"github.com/ignatzorin/chainmarket/internal/repository"
	"github.com/ignatzorin/chainmarket/internal/validation"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error)
}

type StoreLookup interface {
	GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type OrderService struct {
	orders OrderRepository
	stores StoreLookup
	fees   *FeePolicy
}

func NewOrderService(orders OrderRepository, stores StoreLookup, fees *FeePolicy) *OrderService {
	return &OrderService{orders: orders, stores: stores, fees: fees}
}

// CreateOrder создаёт заказ и замораживает в нём текущий процент комиссии.
// Последующая смена тарифа продавца на уже созданный заказ не влияет.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID, storeID uuid.UUID, amount float64, currency, buyerWallet string) (*models.Order, error) {
	if err := validation.ValidateAmount("сумма заказа", amount); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if !models.IsSupportedCurrency(currency) {
		return nil, apperror.New(apperror.ErrCodeValidation, "валюта не поддерживается")
	}
	if currency != models.CurrencySUI {
		return nil, apperror.New(apperror.ErrCodeValidation, "заказы оплачиваются только в SUI")
	}
	if err := validation.ValidateWalletAddress(buyerWallet); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, apperror.ErrStoreNotFound
		}
		return nil, err
	}
	if store.OwnerID == buyerID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя оформить заказ в собственном магазине")
	}

	feePercent := s.fees.FeePercent(ctx, store.OwnerID)
	feeAmount, sellerPayout := SplitAmount(amount, feePercent)

	order := &models.Order{
		BuyerID:      buyerID,
		StoreID:      storeID,
		SellerID:     store.OwnerID,
		Currency:     currency,
		Amount:       amount,
		FeePercent:   feePercent,
		FeeAmount:    feeAmount,
		SellerPayout: sellerPayout,
		BuyerWallet:  buyerWallet,
	}
	return s.orders.Create(ctx, order)
}

// GetOrder возвращает заказ, доступный запрашивающему: покупателю,
// продавцу или оператору.
func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, requesterRole string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	if requesterRole != models.RoleOperator && order.BuyerID != requesterID && order.SellerID != requesterID {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// ListBuyerOrders возвращает заказы покупателя.
func (s *OrderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	limit, offset = normalizePage(limit, offset)
	return s.orders.ListByBuyer(ctx, buyerID, limit, offset)
}

// ListSellerOrders возвращает заказы по магазинам продавца.
func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	limit, offset = normalizePage(limit, offset)
	return s.orders.ListBySeller(ctx, sellerID, limit, offset)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
