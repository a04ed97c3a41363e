package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/senyabanana/tender-approval-service/internal/models"
)

// ValidateBidSubmission проверяет, что тендер принимает предложения и что
// подрядчик еще не подавал предложение по нему.
func ValidateBidSubmission(t *models.Tender, existing []models.Bid, req models.BidRequest) error {
	if t.Status != models.OpenTender && t.Status != models.ApprovedTender {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("tender in status '%s' does not accept bids", t.Status))
	}
	for _, bid := range existing {
		if bid.ContractorID == req.ContractorID {
			return models.NewErrorResponse(models.ErrDuplicateBid,
				"contractor has already submitted a bid for this tender")
		}
	}
	return nil
}

// NewBid создает предложение из запроса.
func NewBid(req models.BidRequest, now time.Time) models.Bid {
	return models.Bid{
		ID:                     uuid.New().String(),
		TenderID:               req.TenderID,
		ContractorID:           req.ContractorID,
		ContractorName:         req.ContractorName,
		QuotationAmount:        req.QuotationAmount,
		ExpectedCompletionTime: req.ExpectedCompletionTime,
		Remarks:                req.Remarks,
		SubmittedAt:            now.UTC(),
	}
}

// MarkLowestBid пересчитывает флаг is_lowest: он выставляется ровно одному
// предложению с минимальной суммой. При равенстве сумм побеждает более
// раннее по submitted_at, далее - по порядку хранения.
func MarkLowestBid(bids []models.Bid) {
	if len(bids) == 0 {
		return
	}

	lowest := 0
	for i := 1; i < len(bids); i++ {
		switch {
		case bids[i].QuotationAmount < bids[lowest].QuotationAmount:
			lowest = i
		case bids[i].QuotationAmount == bids[lowest].QuotationAmount &&
			bids[i].SubmittedAt.Before(bids[lowest].SubmittedAt):
			lowest = i
		}
	}

	for i := range bids {
		bids[i].IsLowest = i == lowest
	}
}

// ApplyAward присуждает контракт выбранному предложению. Предложение должно
// принадлежать тендеру, тендер не должен быть уже присужден. Выбор цели
// остается за координатором; при requireLowest присуждение не минимального
// предложения запрещено.
func ApplyAward(t *models.Tender, bid *models.Bid, requireLowest bool) error {
	if t.Status == models.AwardedTender || t.AwardedTo != nil {
		return models.NewErrorResponse(models.ErrInvalidStateTransition, "tender has already been awarded")
	}
	if bid.TenderID != t.ID {
		return models.NewErrorResponse(models.ErrInvalidInput, "bid does not belong to this tender")
	}
	if requireLowest && !bid.IsLowest {
		return models.NewErrorResponse(models.ErrInvalidInput, "only the lowest bid may be awarded")
	}

	bid.IsAwarded = true
	t.AwardedTo = &models.AwardInfo{
		ContractorID:   bid.ContractorID,
		ContractorName: bid.ContractorName,
		Amount:         bid.QuotationAmount,
		BidID:          bid.ID,
	}
	t.Status = DeriveStatus(t)
	return nil
}
