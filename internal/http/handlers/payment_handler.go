package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/dto"
	"github.com/ignatzorin/chainmarket/internal/http/handlers/common"
	"github.com/ignatzorin/chainmarket/internal/service"
)

// PaymentHandler обрабатывает оплату заказов через сеть.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// BuildTransfer обрабатывает POST /api/orders/:id/transfer.
// Возвращает неподписанный перевод, который покупатель подписывает
// своим кошельком.
func (h *PaymentHandler) BuildTransfer(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	transfer, err := h.payments.BuildTransfer(c.Request.Context(), orderID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, transfer)
}

// SubmitTransfer обрабатывает POST /api/payments/submit.
func (h *PaymentHandler) SubmitTransfer(c *gin.Context) {
	if _, err := common.CurrentUserID(c); err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.SubmitTransferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	digest, err := h.payments.SubmitSignedTransfer(c.Request.Context(), req.TxBytes, req.Signature)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.SubmitTransferResponse{TxDigest: digest})
}

// VerifyPayment обрабатывает POST /api/orders/:id/verify.
// Дожидается подтверждения транзакции и завершает или проваливает заказ.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.VerifyPaymentRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.payments.VerifyPayment(c.Request.Context(), orderID, userID, req.TxDigest)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, order)
}
