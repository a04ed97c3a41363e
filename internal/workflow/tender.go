package workflow

import (
	"fmt"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
)

// ApprovalSequence - обязательный порядок согласования тендера.
var ApprovalSequence = []models.ApprovalRole{
	models.RoleRegistrar,
	models.RoleDean,
	models.RoleDirector,
}

// NewApprovals возвращает слоты согласования в исходном состоянии.
func NewApprovals() models.Approvals {
	return models.Approvals{
		Registrar: models.ApprovalSlot{Decision: models.DecisionPending},
		Dean:      models.ApprovalSlot{Decision: models.DecisionPending},
		Director:  models.ApprovalSlot{Decision: models.DecisionPending},
	}
}

// ApplyApproval применяет согласование роли к тендеру. Согласование принимается
// только в статусе pending_approval и только в порядке ApprovalSequence:
// решение декана - после регистратора, директора - после обоих.
func ApplyApproval(t *models.Tender, req models.ApprovalRequest, now time.Time) error {
	if t.Status != models.PendingApprovalTender {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("tender in status '%s' cannot be approved", t.Status))
	}

	slot := t.Approvals.Slot(req.Role)
	if slot == nil {
		return models.NewErrorResponse(models.ErrInvalidInput, fmt.Sprintf("unknown approval role: %s", req.Role))
	}
	if slot.Decision != models.DecisionPending {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("role '%s' has already decided", req.Role))
	}

	for _, prior := range ApprovalSequence {
		if prior == req.Role {
			break
		}
		if t.Approvals.Slot(prior).Decision != models.DecisionApproved {
			return models.NewErrorResponse(models.ErrOutOfSequenceApproval,
				fmt.Sprintf("role '%s' cannot approve before '%s'", req.Role, prior))
		}
	}

	record := NewApprovalRecord(t.ID, req.ApprovedBy, req.ApproverEmail, now)
	slot.Decision = models.DecisionApproved
	slot.Approval = &record
	t.Status = DeriveStatus(t)
	return nil
}

// ApplyRejection применяет отклонение роли к тендеру. Отклонение не связано
// порядком согласования: любое вето сразу переводит тендер в rejected.
func ApplyRejection(t *models.Tender, req models.RejectionRequest, now time.Time) error {
	if t.Status != models.PendingApprovalTender {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("tender in status '%s' cannot be rejected", t.Status))
	}

	slot := t.Approvals.Slot(req.Role)
	if slot == nil {
		return models.NewErrorResponse(models.ErrInvalidInput, fmt.Sprintf("unknown approval role: %s", req.Role))
	}
	if slot.Decision != models.DecisionPending {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("role '%s' has already decided", req.Role))
	}

	record := NewRejectionRecord(req.RejectedBy, req.RejectorEmail, req.Remarks, now)
	slot.Decision = models.DecisionRejected
	slot.Rejection = &record
	t.Status = DeriveStatus(t)
	return nil
}

// ApplyResubmission сбрасывает слоты согласования отклоненного тендера
// и возвращает его на новый цикл согласования.
func ApplyResubmission(t *models.Tender) error {
	if t.Status != models.RejectedTender && t.Status != models.DraftTender {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("tender in status '%s' cannot be resubmitted", t.Status))
	}

	t.Approvals = NewApprovals()
	t.AwardedTo = nil
	t.Status = models.PendingApprovalTender
	return nil
}

// allowedStatusTransition - переходы статуса, выполняемые координатором
// вручную: публикация согласованного тендера и закрытие приема предложений.
var allowedStatusTransition = map[models.TenderStatus][]models.TenderStatus{
	models.ApprovedTender: {models.OpenTender},
	models.OpenTender:     {models.ClosedTender},
}

// ApplyStatusChange применяет ручной переход статуса тендера.
func ApplyStatusChange(t *models.Tender, newStatus models.TenderStatus) error {
	if !containsStatus(allowedStatusTransition[t.Status], newStatus) {
		return models.NewErrorResponse(models.ErrInvalidStateTransition,
			fmt.Sprintf("cannot change tender status from '%s' to '%s'", t.Status, newStatus))
	}
	t.Status = newStatus
	return nil
}

// containsStatus проверяет допустимость перехода.
func containsStatus(validTransitions []models.TenderStatus, newStatus models.TenderStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}

// DeriveStatus вычисляет статус тендера из слотов согласования и факта
// присуждения. Статусы open/closed задаются координатором и сохраняются,
// пока все слоты согласованы.
func DeriveStatus(t *models.Tender) models.TenderStatus {
	if t.AwardedTo != nil {
		return models.AwardedTender
	}

	approved := 0
	for _, role := range ApprovalSequence {
		switch t.Approvals.Slot(role).Decision {
		case models.DecisionRejected:
			return models.RejectedTender
		case models.DecisionApproved:
			approved++
		}
	}

	if approved == len(ApprovalSequence) {
		if t.Status == models.OpenTender || t.Status == models.ClosedTender {
			return t.Status
		}
		return models.ApprovedTender
	}

	if t.Status == models.DraftTender {
		return models.DraftTender
	}
	return models.PendingApprovalTender
}

// CheckStatusConsistency сверяет хранимый статус с вычисленным из слотов.
func CheckStatusConsistency(t *models.Tender) error {
	if derived := DeriveStatus(t); derived != t.Status {
		return fmt.Errorf("tender %s: stored status '%s' diverges from derived '%s'", t.ID, t.Status, derived)
	}
	return nil
}
