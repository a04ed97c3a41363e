package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
)

func newPendingTender() *models.Tender {
	return &models.Tender{
		ID:            "tender-1",
		Title:         "Construction of new library block",
		CoordinatorID: "coord-1",
		Status:        models.PendingApprovalTender,
		EMDAmount:     50000,
		Approvals:     NewApprovals(),
	}
}

func requireKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	var resp *models.ErrorResponse
	if !errors.As(err, &resp) {
		t.Fatalf("expected *models.ErrorResponse, got %v", err)
	}
	if resp.Kind != kind {
		t.Fatalf("expected error kind %q, got %q (%s)", kind, resp.Kind, resp.Message)
	}
}

func approveAs(t *testing.T, tender *models.Tender, role models.ApprovalRole) {
	t.Helper()
	req := models.ApprovalRequest{
		Role:          role,
		ApprovedBy:    "Approver " + string(role),
		ApproverEmail: string(role) + "@example.edu",
	}
	if err := ApplyApproval(tender, req, time.Now()); err != nil {
		t.Fatalf("approval by %s failed: %v", role, err)
	}
}

func TestApplyApprovalSequence(t *testing.T) {
	tests := []struct {
		name     string
		prior    []models.ApprovalRole
		role     models.ApprovalRole
		wantKind models.ErrorKind
	}{
		{"registrar first", nil, models.RoleRegistrar, ""},
		{"dean before registrar", nil, models.RoleDean, models.ErrOutOfSequenceApproval},
		{"director before registrar", nil, models.RoleDirector, models.ErrOutOfSequenceApproval},
		{"dean after registrar", []models.ApprovalRole{models.RoleRegistrar}, models.RoleDean, ""},
		{"director before dean", []models.ApprovalRole{models.RoleRegistrar}, models.RoleDirector, models.ErrOutOfSequenceApproval},
		{"director after both", []models.ApprovalRole{models.RoleRegistrar, models.RoleDean}, models.RoleDirector, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tender := newPendingTender()
			for _, role := range tt.prior {
				approveAs(t, tender, role)
			}

			req := models.ApprovalRequest{Role: tt.role, ApprovedBy: "Test Approver", ApproverEmail: "approver@example.edu"}
			err := ApplyApproval(tender, req, time.Now())
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tender.Approvals.Slot(tt.role).Decision != models.DecisionApproved {
					t.Fatalf("slot %s not approved", tt.role)
				}
				return
			}
			requireKind(t, err, tt.wantKind)
			if tender.Approvals.Slot(tt.role).Decision != models.DecisionPending {
				t.Fatalf("slot %s changed after failed approval", tt.role)
			}
		})
	}
}

func TestFullApprovalChain(t *testing.T) {
	tender := newPendingTender()

	approveAs(t, tender, models.RoleRegistrar)
	if tender.Status != models.PendingApprovalTender {
		t.Fatalf("after registrar: expected pending_approval, got %s", tender.Status)
	}

	approveAs(t, tender, models.RoleDean)
	if tender.Status != models.PendingApprovalTender {
		t.Fatalf("after dean: expected pending_approval, got %s", tender.Status)
	}

	approveAs(t, tender, models.RoleDirector)
	if tender.Status != models.ApprovedTender {
		t.Fatalf("after director: expected approved, got %s", tender.Status)
	}

	for _, role := range ApprovalSequence {
		slot := tender.Approvals.Slot(role)
		if slot.Approval == nil {
			t.Fatalf("slot %s has no approval record", role)
		}
		if slot.Rejection != nil {
			t.Fatalf("slot %s has rejection record after approval", role)
		}
	}
}

func TestApplyApprovalSameRoleTwice(t *testing.T) {
	tender := newPendingTender()
	approveAs(t, tender, models.RoleRegistrar)

	req := models.ApprovalRequest{Role: models.RoleRegistrar, ApprovedBy: "Second", ApproverEmail: "second@example.edu"}
	requireKind(t, ApplyApproval(tender, req, time.Now()), models.ErrInvalidStateTransition)
}

func TestApplyApprovalUnknownRole(t *testing.T) {
	tender := newPendingTender()
	req := models.ApprovalRequest{Role: "provost", ApprovedBy: "Someone", ApproverEmail: "someone@example.edu"}
	requireKind(t, ApplyApproval(tender, req, time.Now()), models.ErrInvalidInput)
}

func TestApplyApprovalWrongStatus(t *testing.T) {
	for _, status := range []models.TenderStatus{
		models.ApprovedTender, models.OpenTender, models.ClosedTender, models.AwardedTender, models.RejectedTender,
	} {
		tender := newPendingTender()
		tender.Status = status

		req := models.ApprovalRequest{Role: models.RoleRegistrar, ApprovedBy: "Someone", ApproverEmail: "someone@example.edu"}
		requireKind(t, ApplyApproval(tender, req, time.Now()), models.ErrInvalidStateTransition)
	}
}

func TestApplyRejectionAnyRole(t *testing.T) {
	// Вето не связано порядком: директор может отклонить тендер,
	// по которому еще никто не принимал решения.
	tender := newPendingTender()
	req := models.RejectionRequest{
		Role:          models.RoleDirector,
		RejectedBy:    "Director",
		RejectorEmail: "director@example.edu",
		Remarks:       "budget exceeds the approved limit",
	}
	if err := ApplyRejection(tender, req, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tender.Status != models.RejectedTender {
		t.Fatalf("expected rejected, got %s", tender.Status)
	}

	slot := tender.Approvals.Slot(models.RoleDirector)
	if slot.Rejection == nil {
		t.Fatal("rejection record not stored")
	}
	if slot.Rejection.Remarks != req.Remarks {
		t.Fatalf("remarks not preserved: %q", slot.Rejection.Remarks)
	}
}

func TestApplyRejectionShortCircuits(t *testing.T) {
	tender := newPendingTender()
	approveAs(t, tender, models.RoleRegistrar)

	req := models.RejectionRequest{Role: models.RoleDean, RejectedBy: "Dean", RejectorEmail: "dean@example.edu", Remarks: "incomplete requirements"}
	if err := ApplyRejection(tender, req, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tender.Status != models.RejectedTender {
		t.Fatalf("expected rejected, got %s", tender.Status)
	}

	// Отклоненный тендер больше не принимает решений.
	approveReq := models.ApprovalRequest{Role: models.RoleDirector, ApprovedBy: "Director", ApproverEmail: "director@example.edu"}
	requireKind(t, ApplyApproval(tender, approveReq, time.Now()), models.ErrInvalidStateTransition)

	rejectAgain := models.RejectionRequest{Role: models.RoleDirector, RejectedBy: "Director", RejectorEmail: "director@example.edu", Remarks: "also bad"}
	requireKind(t, ApplyRejection(tender, rejectAgain, time.Now()), models.ErrInvalidStateTransition)
}

func TestApplyResubmissionResetsApprovals(t *testing.T) {
	tender := newPendingTender()
	approveAs(t, tender, models.RoleRegistrar)

	req := models.RejectionRequest{Role: models.RoleDean, RejectedBy: "Dean", RejectorEmail: "dean@example.edu", Remarks: "revise the estimate"}
	if err := ApplyRejection(tender, req, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ApplyResubmission(tender); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tender.Status != models.PendingApprovalTender {
		t.Fatalf("expected pending_approval, got %s", tender.Status)
	}
	for _, role := range ApprovalSequence {
		slot := tender.Approvals.Slot(role)
		if slot.Decision != models.DecisionPending || slot.Approval != nil || slot.Rejection != nil {
			t.Fatalf("slot %s not reset: %+v", role, slot)
		}
	}
	if tender.AwardedTo != nil {
		t.Fatal("awardedTo not cleared")
	}
}

func TestApplyResubmissionWrongStatus(t *testing.T) {
	for _, status := range []models.TenderStatus{
		models.PendingApprovalTender, models.ApprovedTender, models.OpenTender, models.ClosedTender, models.AwardedTender,
	} {
		tender := newPendingTender()
		tender.Status = status
		requireKind(t, ApplyResubmission(tender), models.ErrInvalidStateTransition)
	}
}

func TestApplyStatusChange(t *testing.T) {
	tests := []struct {
		from, to models.TenderStatus
		ok       bool
	}{
		{models.ApprovedTender, models.OpenTender, true},
		{models.OpenTender, models.ClosedTender, true},
		{models.PendingApprovalTender, models.OpenTender, false},
		{models.ApprovedTender, models.ClosedTender, false},
		{models.ClosedTender, models.OpenTender, false},
		{models.OpenTender, models.AwardedTender, false},
		{models.RejectedTender, models.OpenTender, false},
	}

	for _, tt := range tests {
		tender := newPendingTender()
		tender.Status = tt.from
		if tt.from != models.PendingApprovalTender && tt.from != models.RejectedTender {
			for _, role := range ApprovalSequence {
				tender.Approvals.Slot(role).Decision = models.DecisionApproved
			}
		}

		err := ApplyStatusChange(tender, tt.to)
		if tt.ok {
			if err != nil {
				t.Fatalf("%s -> %s: unexpected error: %v", tt.from, tt.to, err)
			}
			if tender.Status != tt.to {
				t.Fatalf("%s -> %s: status is %s", tt.from, tt.to, tender.Status)
			}
			continue
		}
		requireKind(t, err, models.ErrInvalidStateTransition)
	}
}

func TestDeriveStatusKeepsManualStatuses(t *testing.T) {
	for _, status := range []models.TenderStatus{models.OpenTender, models.ClosedTender} {
		tender := newPendingTender()
		tender.Status = status
		for _, role := range ApprovalSequence {
			tender.Approvals.Slot(role).Decision = models.DecisionApproved
		}

		if derived := DeriveStatus(tender); derived != status {
			t.Fatalf("expected %s to survive derivation, got %s", status, derived)
		}
	}
}

func TestCheckStatusConsistency(t *testing.T) {
	tender := newPendingTender()
	if err := CheckStatusConsistency(tender); err != nil {
		t.Fatalf("fresh tender reported inconsistent: %v", err)
	}

	tender.Status = models.ApprovedTender
	if err := CheckStatusConsistency(tender); err == nil {
		t.Fatal("expected divergence between stored and derived status")
	}
}
