package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
	"github.com/senyabanana/tender-approval-service/internal/services"
	"github.com/senyabanana/tender-approval-service/internal/utils"

	"go.uber.org/zap"
)

// PaymentHandler - структура для обработки HTTP-запросов по взносам.
type PaymentHandler struct {
	Service *services.PaymentService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewPaymentHandler создает новый экземпляр PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, logger *zap.Logger, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// RecordEMDPayment обрабатывает запросы на внесение обеспечительного взноса.
func (h *PaymentHandler) RecordEMDPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only POST is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var paymentReq models.EMDPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&paymentReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	payment, err := h.Service.RecordEMDPayment(ctx, paymentReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to record emd payment", zap.String("tenderId", paymentReq.TenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to record emd payment", zap.String("tenderId", paymentReq.TenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to record payment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(payment); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// CheckEMDPayment обрабатывает запросы на проверку взноса по паре
// (тендер, подрядчик).
func (h *PaymentHandler) CheckEMDPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only GET is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.URL.Query().Get("tenderId")
	contractorID := r.URL.Query().Get("contractorId")

	hasPayment, err := h.Service.HasEMDPayment(ctx, tenderID, contractorID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to check emd payment", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to check emd payment", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to check payment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(map[string]bool{"hasPayment": hasPayment}); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}
