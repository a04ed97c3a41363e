package services

import (
	"context"
	"testing"

	"github.com/senyabanana/tender-approval-service/internal/models"
)

func TestSubmitBidRequiresPayment(t *testing.T) {
	env := newTestEnv(false)
	tender := mustOpenTender(t, env)

	_, err := env.bids.SubmitBid(context.Background(), models.BidRequest{
		TenderID:        tender.ID,
		ContractorID:    "contractor-1",
		ContractorName:  "BuildCo",
		QuotationAmount: 2500000,
	})
	requireKind(t, err, models.ErrPaymentRequired)
}

func TestSubmitBidUnknownTender(t *testing.T) {
	env := newTestEnv(false)

	_, err := env.bids.SubmitBid(context.Background(), models.BidRequest{
		TenderID:        "no-such-tender",
		ContractorID:    "contractor-1",
		ContractorName:  "BuildCo",
		QuotationAmount: 2500000,
	})
	requireKind(t, err, models.ErrNotFound)
}

func TestSubmitBidValidation(t *testing.T) {
	env := newTestEnv(false)
	tender := mustOpenTender(t, env)

	tests := []struct {
		name string
		req  models.BidRequest
	}{
		{"missing contractor", models.BidRequest{TenderID: tender.ID, ContractorName: "BuildCo", QuotationAmount: 100}},
		{"missing name", models.BidRequest{TenderID: tender.ID, ContractorID: "contractor-1", QuotationAmount: 100}},
		{"zero amount", models.BidRequest{TenderID: tender.ID, ContractorID: "contractor-1", ContractorName: "BuildCo"}},
		{"negative amount", models.BidRequest{TenderID: tender.ID, ContractorID: "contractor-1", ContractorName: "BuildCo", QuotationAmount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bids.SubmitBid(context.Background(), tt.req)
			requireKind(t, err, models.ErrInvalidInput)
		})
	}
}

func TestSubmitBidDuplicateContractor(t *testing.T) {
	env := newTestEnv(false)
	tender := mustOpenTender(t, env)
	mustSubmitBid(t, env, tender, "contractor-1", "BuildCo", 2500000)

	_, err := env.bids.SubmitBid(context.Background(), models.BidRequest{
		TenderID:        tender.ID,
		ContractorID:    "contractor-1",
		ContractorName:  "BuildCo",
		QuotationAmount: 2400000,
	})
	requireKind(t, err, models.ErrDuplicateBid)
}

func TestSubmitBidTenderNotBiddable(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	tender := mustCreateTender(t, env)

	// Взнос внесен, но тендер еще на согласовании.
	if _, err := env.payments.RecordEMDPayment(ctx, models.EMDPaymentRequest{
		TenderID:     tender.ID,
		ContractorID: "contractor-1",
		Amount:       tender.EMDAmount,
	}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	_, err := env.bids.SubmitBid(ctx, models.BidRequest{
		TenderID:        tender.ID,
		ContractorID:    "contractor-1",
		ContractorName:  "BuildCo",
		QuotationAmount: 2500000,
	})
	requireKind(t, err, models.ErrInvalidStateTransition)
}

func TestSubmitBidRecomputesLowest(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	tender := mustOpenTender(t, env)

	first := mustSubmitBid(t, env, tender, "contractor-1", "BuildCo", 2500000)
	if !first.IsLowest {
		t.Fatal("first bid must start as the lowest")
	}

	second := mustSubmitBid(t, env, tender, "contractor-2", "ConstructAll", 2800000)
	if second.IsLowest {
		t.Fatal("higher bid marked as lowest")
	}

	third := mustSubmitBid(t, env, tender, "contractor-3", "MegaBuild", 2400000)
	if !third.IsLowest {
		t.Fatal("new minimum not marked as lowest")
	}

	bids, err := env.bids.GetTenderBids(ctx, tender.ID)
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	lowestCount := 0
	for _, bid := range bids {
		if bid.IsLowest {
			lowestCount++
			if bid.ID != third.ID {
				t.Fatalf("wrong bid holds the lowest flag: %s", bid.ContractorID)
			}
		}
	}
	if lowestCount != 1 {
		t.Fatalf("expected exactly one lowest bid, got %d", lowestCount)
	}
}

func TestGetContractorBids(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	tender := mustOpenTender(t, env)
	mustSubmitBid(t, env, tender, "contractor-1", "BuildCo", 2500000)
	mustSubmitBid(t, env, tender, "contractor-2", "ConstructAll", 2800000)

	bids, err := env.bids.GetContractorBids(ctx, "", "", "contractor-1")
	if err != nil {
		t.Fatalf("list contractor bids: %v", err)
	}
	if len(bids) != 1 || bids[0].ContractorID != "contractor-1" {
		t.Fatalf("unexpected contractor bids: %+v", bids)
	}

	_, err = env.bids.GetContractorBids(ctx, "", "", "")
	requireKind(t, err, models.ErrInvalidInput)
}

func TestRecordEMDPayment(t *testing.T) {
	env := newTestEnv(false)
	ctx := context.Background()
	tender := mustOpenTender(t, env)

	_, err := env.payments.RecordEMDPayment(ctx, models.EMDPaymentRequest{
		TenderID:     "no-such-tender",
		ContractorID: "contractor-1",
		Amount:       50000,
	})
	requireKind(t, err, models.ErrNotFound)

	// Сумма взноса должна совпадать с emdAmount тендера.
	_, err = env.payments.RecordEMDPayment(ctx, models.EMDPaymentRequest{
		TenderID:     tender.ID,
		ContractorID: "contractor-1",
		Amount:       tender.EMDAmount + 1,
	})
	requireKind(t, err, models.ErrInvalidInput)

	payment, err := env.payments.RecordEMDPayment(ctx, models.EMDPaymentRequest{
		TenderID:     tender.ID,
		ContractorID: "contractor-1",
		Amount:       tender.EMDAmount,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if payment.Status != models.PaymentSuccess {
		t.Fatalf("expected success, got %s", payment.Status)
	}

	has, err := env.payments.HasEMDPayment(ctx, tender.ID, "contractor-1")
	if err != nil {
		t.Fatalf("check payment: %v", err)
	}
	if !has {
		t.Fatal("recorded payment not found")
	}

	has, err = env.payments.HasEMDPayment(ctx, tender.ID, "contractor-2")
	if err != nil {
		t.Fatalf("check payment: %v", err)
	}
	if has {
		t.Fatal("payment reported for contractor without one")
	}
}
