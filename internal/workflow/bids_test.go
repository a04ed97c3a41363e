package workflow

import (
	"testing"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
)

func openTender(id string) *models.Tender {
	approved := models.ApprovalSlot{Decision: models.DecisionApproved}
	return &models.Tender{
		ID:     id,
		Status: models.OpenTender,
		Approvals: models.Approvals{
			Registrar: approved,
			Dean:      approved,
			Director:  approved,
		},
	}
}

func TestMarkLowestBid(t *testing.T) {
	base := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	bids := []models.Bid{
		{ID: "b1", QuotationAmount: 2500000, SubmittedAt: base},
		{ID: "b2", QuotationAmount: 2800000, SubmittedAt: base.Add(time.Minute)},
		{ID: "b3", QuotationAmount: 2650000, SubmittedAt: base.Add(2 * time.Minute)},
	}

	MarkLowestBid(bids)

	for _, bid := range bids {
		if want := bid.ID == "b1"; bid.IsLowest != want {
			t.Fatalf("bid %s: isLowest = %v, want %v", bid.ID, bid.IsLowest, want)
		}
	}
}

func TestMarkLowestBidTieBreak(t *testing.T) {
	base := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	// При равных суммах побеждает более раннее предложение, независимо
	// от порядка в списке.
	bids := []models.Bid{
		{ID: "late", QuotationAmount: 100000, SubmittedAt: base.Add(time.Hour)},
		{ID: "early", QuotationAmount: 100000, SubmittedAt: base},
	}

	MarkLowestBid(bids)

	if !bids[1].IsLowest {
		t.Fatal("earlier bid lost the tie-break")
	}
	if bids[0].IsLowest {
		t.Fatal("later bid kept the lowest flag")
	}
}

func TestMarkLowestBidDegenerate(t *testing.T) {
	MarkLowestBid(nil)

	single := []models.Bid{{ID: "only", QuotationAmount: 500}}
	MarkLowestBid(single)
	if !single[0].IsLowest {
		t.Fatal("single bid must be the lowest")
	}
}

func TestValidateBidSubmission(t *testing.T) {
	req := models.BidRequest{TenderID: "tender-1", ContractorID: "contractor-1", ContractorName: "BuildCo", QuotationAmount: 100000}

	for _, status := range []models.TenderStatus{models.OpenTender, models.ApprovedTender} {
		tender := openTender("tender-1")
		tender.Status = status
		if err := ValidateBidSubmission(tender, nil, req); err != nil {
			t.Fatalf("status %s: unexpected error: %v", status, err)
		}
	}

	for _, status := range []models.TenderStatus{
		models.DraftTender, models.PendingApprovalTender, models.ClosedTender, models.AwardedTender, models.RejectedTender,
	} {
		tender := openTender("tender-1")
		tender.Status = status
		requireKind(t, ValidateBidSubmission(tender, nil, req), models.ErrInvalidStateTransition)
	}

	existing := []models.Bid{{ID: "b1", TenderID: "tender-1", ContractorID: "contractor-1"}}
	requireKind(t, ValidateBidSubmission(openTender("tender-1"), existing, req), models.ErrDuplicateBid)
}

func TestApplyAward(t *testing.T) {
	tender := openTender("tender-1")
	bid := models.Bid{
		ID:              "b1",
		TenderID:        "tender-1",
		ContractorID:    "contractor-1",
		ContractorName:  "BuildCo",
		QuotationAmount: 2500000,
		IsLowest:        true,
	}

	if err := ApplyAward(tender, &bid, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tender.Status != models.AwardedTender {
		t.Fatalf("expected awarded, got %s", tender.Status)
	}
	if !bid.IsAwarded {
		t.Fatal("bid not marked awarded")
	}
	if tender.AwardedTo == nil {
		t.Fatal("awardedTo not set")
	}
	if tender.AwardedTo.BidID != "b1" || tender.AwardedTo.ContractorID != "contractor-1" || tender.AwardedTo.Amount != 2500000 {
		t.Fatalf("unexpected awardedTo: %+v", tender.AwardedTo)
	}

	// Повторное присуждение запрещено.
	other := models.Bid{ID: "b2", TenderID: "tender-1", QuotationAmount: 2000000}
	requireKind(t, ApplyAward(tender, &other, false), models.ErrInvalidStateTransition)
}

func TestApplyAwardForeignBid(t *testing.T) {
	tender := openTender("tender-1")
	bid := models.Bid{ID: "b1", TenderID: "tender-2", QuotationAmount: 100000}
	requireKind(t, ApplyAward(tender, &bid, false), models.ErrInvalidInput)
}

func TestApplyAwardRequireLowest(t *testing.T) {
	tender := openTender("tender-1")
	notLowest := models.Bid{ID: "b2", TenderID: "tender-1", QuotationAmount: 2800000}
	requireKind(t, ApplyAward(tender, &notLowest, true), models.ErrInvalidInput)

	lowest := models.Bid{ID: "b1", TenderID: "tender-1", QuotationAmount: 2500000, IsLowest: true}
	if err := ApplyAward(tender, &lowest, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
