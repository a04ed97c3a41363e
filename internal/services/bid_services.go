package services

import (
	"context"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
	"github.com/senyabanana/tender-approval-service/internal/repository"
	"github.com/senyabanana/tender-approval-service/internal/utils"
	"github.com/senyabanana/tender-approval-service/internal/workflow"

	"go.uber.org/zap"
)

type BidService struct {
	Repo     repository.BidRepository
	Tenders  repository.TenderRepository
	Payments repository.PaymentRepository
	logger   *zap.Logger
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, tenders repository.TenderRepository, payments repository.PaymentRepository, logger *zap.Logger) *BidService {
	return &BidService{Repo: repo, Tenders: tenders, Payments: payments, logger: logger}
}

// SubmitBid принимает предложение подрядчика. Требуется успешный
// обеспечительный взнос, не более одного предложения на подрядчика;
// после вставки пересчитывается минимальное предложение тендера.
func (s *BidService) SubmitBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	if bidReq.TenderID == "" || bidReq.ContractorID == "" || bidReq.ContractorName == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "missing required fields")
	}
	if bidReq.QuotationAmount <= 0 {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "quotationAmount must be positive")
	}

	if _, err := s.Tenders.GetTenderByID(ctx, bidReq.TenderID); err != nil {
		return nil, err
	}

	hasPayment, err := s.Payments.HasSuccessfulPayment(ctx, bidReq.TenderID, bidReq.ContractorID)
	if err != nil {
		return nil, err
	}
	if !hasPayment {
		return nil, models.NewErrorResponse(models.ErrPaymentRequired, "EMD payment is required before bidding")
	}

	bid, err := s.Repo.SubmitBid(ctx, bidReq.TenderID, func(tender *models.Tender, existing []models.Bid) (*models.Bid, error) {
		if err := workflow.ValidateBidSubmission(tender, existing, bidReq); err != nil {
			return nil, err
		}
		newBid := workflow.NewBid(bidReq, time.Now())
		return &newBid, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("bid submitted",
		zap.String("bidId", bid.ID),
		zap.String("tenderId", bid.TenderID),
		zap.Float64("quotationAmount", bid.QuotationAmount),
		zap.Bool("isLowest", bid.IsLowest))
	return bid, nil
}

// GetBids получает список всех предложений.
func (s *BidService) GetBids(ctx context.Context, limitStr, offsetStr string) ([]models.Bid, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, err.Error())
	}
	return s.Repo.GetBids(ctx, limit, offset)
}

// GetTenderBids получает список предложений по тендеру.
func (s *BidService) GetTenderBids(ctx context.Context, tenderID string) ([]models.Bid, error) {
	if tenderID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "tenderId is required")
	}
	return s.Repo.GetTenderBids(ctx, tenderID)
}

// GetContractorBids получает список предложений подрядчика.
func (s *BidService) GetContractorBids(ctx context.Context, limitStr, offsetStr, contractorID string) ([]models.Bid, error) {
	if contractorID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "contractorId is required")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, err.Error())
	}
	return s.Repo.GetContractorBids(ctx, limit, offset, contractorID)
}
