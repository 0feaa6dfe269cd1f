package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/dto"
	"github.com/ignatzorin/chainmarket/internal/http/handlers/common"
	"github.com/ignatzorin/chainmarket/internal/pkg/apperror"
	"github.com/ignatzorin/chainmarket/internal/repository"
	"github.com/ignatzorin/chainmarket/internal/validation"
)

// ProfileHandler отдаёт и обновляет профиль текущего пользователя.
type ProfileHandler struct {
	users         *repository.UserRepository
	subscriptions *repository.SubscriptionRepository
}

func NewProfileHandler(users *repository.UserRepository, subscriptions *repository.SubscriptionRepository) *ProfileHandler {
	return &ProfileHandler{users: users, subscriptions: subscriptions}
}

// GetMe обрабатывает GET /api/profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			common.RespondAppError(c, apperror.ErrUserNotFound)
			return
		}
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}

// UpdateWallet обрабатывает PUT /api/profile/wallet.
func (h *ProfileHandler) UpdateWallet(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateWalletAddress(req.WalletAddress); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.users.UpdateWallet(c.Request.Context(), userID, req.WalletAddress); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			common.RespondAppError(c, apperror.ErrUserNotFound)
			return
		}
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.SuccessResponse{Message: "адрес кошелька обновлён"})
}

// GetMySubscription обрабатывает GET /api/profile/subscription.
// Тариф подписки определяет процент комиссии в новых заказах продавца.
func (h *ProfileHandler) GetMySubscription(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	sub, err := h.subscriptions.GetBySeller(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			common.RespondAppError(c, apperror.New(apperror.ErrCodeNotFound, "подписка не найдена"))
			return
		}
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, sub)
}
