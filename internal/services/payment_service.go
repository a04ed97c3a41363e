package services

import (
	"context"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
	"github.com/senyabanana/tender-approval-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService struct {
	Repo    repository.PaymentRepository
	Tenders repository.TenderRepository
	logger  *zap.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo repository.PaymentRepository, tenders repository.TenderRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{Repo: repo, Tenders: tenders, logger: logger}
}

// RecordEMDPayment фиксирует обеспечительный взнос подрядчика. Сумма должна
// совпадать с emdAmount тендера.
func (s *PaymentService) RecordEMDPayment(ctx context.Context, paymentReq models.EMDPaymentRequest) (*models.EMDPayment, error) {
	if paymentReq.TenderID == "" || paymentReq.ContractorID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "tenderId and contractorId are required")
	}
	if paymentReq.Amount <= 0 {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "amount must be positive")
	}

	tender, err := s.Tenders.GetTenderByID(ctx, paymentReq.TenderID)
	if err != nil {
		return nil, err
	}
	if paymentReq.Amount != tender.EMDAmount {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "amount must match the tender EMD amount")
	}

	newPayment := models.EMDPayment{
		ID:           uuid.New().String(),
		TenderID:     paymentReq.TenderID,
		ContractorID: paymentReq.ContractorID,
		Amount:       paymentReq.Amount,
		PaymentDate:  time.Now().UTC(),
		Status:       models.PaymentSuccess,
	}
	if err := s.Repo.CreatePayment(ctx, &newPayment); err != nil {
		return nil, err
	}
	s.logger.Info("emd payment recorded",
		zap.String("tenderId", newPayment.TenderID),
		zap.String("contractorId", newPayment.ContractorID),
		zap.Float64("amount", newPayment.Amount))
	return &newPayment, nil
}

// HasEMDPayment проверяет наличие успешного взноса по паре (тендер, подрядчик).
func (s *PaymentService) HasEMDPayment(ctx context.Context, tenderID, contractorID string) (bool, error) {
	if tenderID == "" || contractorID == "" {
		return false, models.NewErrorResponse(models.ErrInvalidInput, "tenderId and contractorId are required")
	}
	return s.Repo.HasSuccessfulPayment(ctx, tenderID, contractorID)
}
