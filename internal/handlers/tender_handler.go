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

// TenderHandler - структура для обработки HTTP-запросов по тендерам.
type TenderHandler struct {
	Service *services.TenderService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, logger *zap.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only GET is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	statuses := r.URL.Query()["status"]

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, err.Error()))
		return
	}

	tenders, err := h.Service.FetchTenders(ctx, limit, offset, statuses)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to fetch tenders", zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to fetch tenders", zap.Error(err))
		utils.SendInternalError(w, "failed to fetch tenders")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tenders); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// GetTenderByID обрабатывает запросы для получения тендера по идентификатору.
func (h *TenderHandler) GetTenderByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	tender, err := h.Service.GetTenderByID(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to get tender", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to get tender", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to get tender")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// CreateTender обрабатывает запросы для создания тендера.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only POST is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var tenderReq models.TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&tenderReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	tender, err := h.Service.CreateTender(ctx, tenderReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to create tender", zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to create tender", zap.Error(err))
		utils.SendInternalError(w, "failed to create tender")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// GetMyTenders обрабатывает запросы для получения списка тендеров координатора.
func (h *TenderHandler) GetMyTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid method, only GET is allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	coordinatorID := r.URL.Query().Get("coordinatorId")

	tenders, err := h.Service.GetCoordinatorTenders(ctx, limitStr, offsetStr, coordinatorID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to fetch coordinator tenders", zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to fetch coordinator tenders", zap.Error(err))
		utils.SendInternalError(w, "failed to fetch tenders")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tenders); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// DeleteTender обрабатывает запросы на удаление тендера.
func (h *TenderHandler) DeleteTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")
	coordinatorID := r.URL.Query().Get("coordinatorId")

	if err := h.Service.DeleteTender(ctx, tenderID, coordinatorID); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to delete tender", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to delete tender", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to delete tender")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateTenderStatus обрабатывает запросы на публикацию и закрытие тендера.
func (h *TenderHandler) UpdateTenderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")
	status := r.URL.Query().Get("status")
	coordinatorID := r.URL.Query().Get("coordinatorId")

	tender, err := h.Service.UpdateTenderStatus(ctx, tenderID, status, coordinatorID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to update tender status", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to update tender status", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to update tender status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// ApproveTender обрабатывает запросы на согласование тендера.
func (h *TenderHandler) ApproveTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var approvalReq models.ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&approvalReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	tender, err := h.Service.ApproveTender(ctx, tenderID, approvalReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to approve tender", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to approve tender", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to approve tender")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// RejectTender обрабатывает запросы на отклонение тендера.
func (h *TenderHandler) RejectTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var rejectionReq models.RejectionRequest
	if err := json.NewDecoder(r.Body).Decode(&rejectionReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	tender, err := h.Service.RejectTender(ctx, tenderID, rejectionReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to reject tender", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to reject tender", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to reject tender")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// ResubmitTender обрабатывает запросы на повторную подачу тендера.
func (h *TenderHandler) ResubmitTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var tenderReq models.TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&tenderReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	tender, err := h.Service.ResubmitTender(ctx, tenderID, tenderReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to resubmit tender", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to resubmit tender", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to resubmit tender")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// AwardTender обрабатывает запросы на присуждение контракта.
func (h *TenderHandler) AwardTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var awardReq models.AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&awardReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(models.ErrInvalidInput, "invalid request body"))
		return
	}

	tender, err := h.Service.AwardTender(ctx, tenderID, awardReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Warn("failed to award tender", zap.String("tenderId", tenderID), zap.Error(err))
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Error("failed to award tender", zap.String("tenderId", tenderID), zap.Error(err))
		utils.SendInternalError(w, "failed to award tender")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(tender); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}
