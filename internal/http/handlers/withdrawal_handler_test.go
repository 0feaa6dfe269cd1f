package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/chainmarket/internal/http/middleware"
)

func TestWithdrawalHandler_CreateWithdrawal_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{withdrawals: nil}
	r.POST("/withdrawals", handler.CreateWithdrawal)

	req, _ := http.NewRequest("POST", "/withdrawals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithdrawalHandler_GetWithdrawal_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{withdrawals: nil}
	r.GET("/withdrawals/:id", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		c.Set(middleware.ContextRoleKey, "seller")
		handler.GetWithdrawal(c)
	})

	req, _ := http.NewRequest("GET", "/withdrawals/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdrawalHandler_DecideWithdrawal_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{withdrawals: nil}
	r.PUT("/operator/withdrawals/:id/decision", handler.DecideWithdrawal)

	req, _ := http.NewRequest("PUT", "/operator/withdrawals/not-a-uuid/decision", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
