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

// BidHandler - структура для обработки HTTP-запросов по предложениям.
type BidHandler struct {
	Service *services.BidService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, logger *zap.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateBid обрабатывает запросы на подачу предложения.
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only POST is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var bidReq models.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&bidReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	bid, err := h.Service.SubmitBid(ctx, bidReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to submit bid", zap.String("tenderId", bidReq.TenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to submit bid", zap.String("tenderId", bidReq.TenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to submit bid")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(bid); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// GetBids обрабатывает запросы для получения списка всех предложений.
func (h *BidHandler) GetBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only GET is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	bids, err := h.Service.GetBids(ctx, limitStr, offsetStr)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to fetch bids", zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to fetch bids", zap.Error(err))
		utils.SendInternalError(w, "failed to fetch bids")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(bids); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// GetMyBids обрабатывает запросы для получения списка предложений подрядчика.
func (h *BidHandler) GetMyBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only GET is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	contractorID := r.URL.Query().Get("contractorId")

	bids, err := h.Service.GetContractorBids(ctx, limitStr, offsetStr, contractorID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to fetch contractor bids", zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to fetch contractor bids", zap.Error(err))
		utils.SendInternalError(w, "failed to fetch bids")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(bids); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// GetTenderBids обрабатывает запросы для получения предложений по тендеру.
func (h *BidHandler) GetTenderBids(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	bids, err := h.Service.GetTenderBids(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to fetch tender bids", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to fetch tender bids", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to fetch bids")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(bids); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}
