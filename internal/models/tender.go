package models

import "time"

type (
	TenderStatus     string // Статус тендера
	ApprovalRole     string // Роль согласующего в цепочке
	ApprovalDecision string // Решение по слоту согласования
)

const (
	DraftTender           TenderStatus = "draft"            // Тендер возвращен на доработку
	PendingApprovalTender TenderStatus = "pending_approval" // Тендер ожидает согласования
	ApprovedTender        TenderStatus = "approved"         // Тендер согласован всеми ролями
	OpenTender            TenderStatus = "open"             // Тендер открыт для предложений
	ClosedTender          TenderStatus = "closed"           // Прием предложений завершен
	AwardedTender         TenderStatus = "awarded"          // Контракт присужден
	RejectedTender        TenderStatus = "rejected"         // Тендер отклонен

	RoleRegistrar ApprovalRole = "registrar"
	RoleDean      ApprovalRole = "dean"
	RoleDirector  ApprovalRole = "director"

	DecisionPending  ApprovalDecision = "pending"  // Решение еще не принято
	DecisionApproved ApprovalDecision = "approved" // Роль согласовала тендер
	DecisionRejected ApprovalDecision = "rejected" // Роль отклонила тендер
)

// ApprovalRecord фиксирует решение о согласовании с OTP и цифровой подписью.
type ApprovalRecord struct {
	ApprovalID       string    `json:"approvalId"`
	OTP              string    `json:"otp"`
	DigitalSignature string    `json:"digitalSignature"`
	Timestamp        time.Time `json:"timestamp"`
	ApprovedBy       string    `json:"approvedBy"`
	ApproverEmail    string    `json:"approverEmail"`
}

// RejectionRecord фиксирует отклонение тендера с замечаниями.
type RejectionRecord struct {
	RejectionID   string    `json:"rejectionId"`
	RejectedBy    string    `json:"rejectedBy"`
	RejectorEmail string    `json:"rejectorEmail"`
	Remarks       string    `json:"remarks"`
	Timestamp     time.Time `json:"timestamp"`
}

// ApprovalSlot - слот согласования одной роли. Заполнено не более одного из
// полей Approval/Rejection, в соответствии с Decision.
type ApprovalSlot struct {
	Decision  ApprovalDecision `json:"decision"`
	Approval  *ApprovalRecord  `json:"approval,omitempty"`
	Rejection *RejectionRecord `json:"rejection,omitempty"`
}

// Approvals - слоты согласования по всем трем ролям.
type Approvals struct {
	Registrar ApprovalSlot `json:"registrar"`
	Dean      ApprovalSlot `json:"dean"`
	Director  ApprovalSlot `json:"director"`
}

// Slot возвращает слот согласования по роли, nil для неизвестной роли.
func (a *Approvals) Slot(role ApprovalRole) *ApprovalSlot {
	switch role {
	case RoleRegistrar:
		return &a.Registrar
	case RoleDean:
		return &a.Dean
	case RoleDirector:
		return &a.Director
	}
	return nil
}

// AwardInfo описывает победителя тендера.
type AwardInfo struct {
	ContractorID   string  `json:"contractorId"`
	ContractorName string  `json:"contractorName"`
	Amount         float64 `json:"amount"`
	BidID          string  `json:"bidId"`
}

// Tender представляет модель тендера.
type Tender struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Requirements    string       `json:"requirements"`
	Department      string       `json:"department"`
	CoordinatorID   string       `json:"coordinatorId"`
	CoordinatorName string       `json:"coordinatorName"`
	Status          TenderStatus `json:"status"`
	EMDAmount       float64      `json:"emdAmount"`
	StartDate       time.Time    `json:"startDate"`
	EndDate         time.Time    `json:"endDate"`
	Approvals       Approvals    `json:"approvals"`
	AwardedTo       *AwardInfo   `json:"awardedTo,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// TenderRequest представляет структуру запроса для создания или повторной
// подачи тендера. Даты передаются в формате YYYY-MM-DD.
type TenderRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Requirements    string  `json:"requirements"`
	Department      string  `json:"department"`
	CoordinatorID   string  `json:"coordinatorId"`
	CoordinatorName string  `json:"coordinatorName"`
	EMDAmount       float64 `json:"emdAmount"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
}

// ApprovalRequest представляет структуру запроса на согласование тендера.
type ApprovalRequest struct {
	Role          ApprovalRole `json:"role"`
	ApprovedBy    string       `json:"approvedBy"`
	ApproverEmail string       `json:"approverEmail"`
}

// RejectionRequest представляет структуру запроса на отклонение тендера.
type RejectionRequest struct {
	Role          ApprovalRole `json:"role"`
	RejectedBy    string       `json:"rejectedBy"`
	RejectorEmail string       `json:"rejectorEmail"`
	Remarks       string       `json:"remarks"`
}

// AwardRequest представляет структуру запроса на присуждение контракта.
type AwardRequest struct {
	BidID         string `json:"bidId"`
	CoordinatorID string `json:"coordinatorId"`
}
