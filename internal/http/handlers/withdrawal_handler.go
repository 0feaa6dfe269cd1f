package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/dto"
	"github.com/ignatzorin/chainmarket/internal/http/handlers/common"
	"github.com/ignatzorin/chainmarket/internal/service"
)

// WithdrawalHandler обрабатывает заявки на вывод средств.
type WithdrawalHandler struct {
	withdrawals *service.WithdrawalService
}

func NewWithdrawalHandler(withdrawals *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// CreateWithdrawal обрабатывает POST /api/withdrawals.
func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.RequestWithdrawal(c.Request.Context(), userID, req.Amount, req.Currency)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, w)
}

// GetWithdrawal обрабатывает GET /api/withdrawals/:id.
func (h *WithdrawalHandler) GetWithdrawal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, _ := common.CurrentUserRole(c)

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.GetWithdrawal(c.Request.Context(), id, userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, w)
}

// ListMyWithdrawals обрабатывает GET /api/withdrawals.
func (h *WithdrawalHandler) ListMyWithdrawals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	limit, offset := common.GetPagination(c)

	list, err := h.withdrawals.ListSellerWithdrawals(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, list)
}

// ListOpenWithdrawals обрабатывает GET /api/operator/withdrawals.
func (h *WithdrawalHandler) ListOpenWithdrawals(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	list, err := h.withdrawals.ListOpenWithdrawals(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, list)
}

// HoldWithdrawal обрабатывает PUT /api/operator/withdrawals/:id/hold.
func (h *WithdrawalHandler) HoldWithdrawal(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.HoldWithdrawal(c.Request.Context(), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, w)
}

// DecideWithdrawal обрабатывает PUT /api/operator/withdrawals/:id/decision.
func (h *WithdrawalHandler) DecideWithdrawal(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.WithdrawalDecisionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.withdrawals.DecideWithdrawal(c.Request.Context(), id, req.Decision, req.PayoutProof, req.Notes)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, w)
}
