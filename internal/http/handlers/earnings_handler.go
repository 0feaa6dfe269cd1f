package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/http/handlers/common"
	"github.com/ignatzorin/chainmarket/internal/service"
)

// EarningsHandler отдаёт снимок заработка продавца.
type EarningsHandler struct {
	earnings *service.EarningsService
}

func NewEarningsHandler(earnings *service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earnings: earnings}
}

// GetMyEarnings обрабатывает GET /api/earnings.
func (h *EarningsHandler) GetMyEarnings(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	earnings, err := h.earnings.GetEarnings(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, earnings)
}
