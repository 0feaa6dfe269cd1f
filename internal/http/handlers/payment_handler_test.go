package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaymentHandler_BuildTransfer_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/orders/:id/transfer", handler.BuildTransfer)

	req, _ := http.NewRequest("POST", "/orders/6f1f64b5-55b7-4f3a-9459-64f1f64b55b7/transfer", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_VerifyPayment_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/orders/:id/verify", handler.VerifyPayment)

	req, _ := http.NewRequest("POST", "/orders/6f1f64b5-55b7-4f3a-9459-64f1f64b55b7/verify", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_SubmitTransfer_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &PaymentHandler{payments: nil}
	r.POST("/payments/submit", handler.SubmitTransfer)

	req, _ := http.NewRequest("POST", "/payments/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
