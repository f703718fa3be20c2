package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

func testRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/complaints", h.SubmitComplaint)
	r.POST("/api/complaints/schedule", h.RescheduleCallback)
	return r
}

func TestSubmitComplaintRejectsMissingFields(t *testing.T) {
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
	r := testRouter(h)

	body, _ := json.Marshal(map[string]string{
		"customer_name": "No Phone",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/complaints", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitComplaintRejectsShortPhone(t *testing.T) {
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
	r := testRouter(h)

	body, _ := json.Marshal(map[string]string{
		"customer_name":         "Short Phone",
		"customer_phone_number": "123",
		"complaint_description": "internet down",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/complaints", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRescheduleRejectsInvalidPayload(t *testing.T) {
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
	r := testRouter(h)

	req, _ := http.NewRequest(http.MethodPost, "/api/complaints/schedule", bytes.NewReader([]byte(`{"complaint_id":"nope"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
