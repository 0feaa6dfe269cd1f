package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/dto"
	"github.com/ignatzorin/chainmarket/internal/http/handlers/common"
	"github.com/ignatzorin/chainmarket/internal/models"
	"github.com/ignatzorin/chainmarket/internal/service"
)

// OrderHandler обрабатывает запросы по заказам.
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder обрабатывает POST /api/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateOrderRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), userID, req.StoreID, req.Amount, req.Currency, req.BuyerWallet)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, order)
}

// GetOrder обрабатывает GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, order)
}

// ListMyOrders обрабатывает GET /api/orders/my.
// Покупатель видит свои покупки, продавец — продажи своих магазинов.
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)
	limit, offset := common.GetPagination(c)

	var orders interface{}
	if role == models.RoleSeller {
		orders, err = h.orders.ListSellerOrders(c.Request.Context(), userID, limit, offset)
	} else {
		orders, err = h.orders.ListBuyerOrders(c.Request.Context(), userID, limit, offset)
	}
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, orders)
}
