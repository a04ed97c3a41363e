package services

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/tender-approval-service/internal/models"
	"github.com/senyabanana/tender-approval-service/internal/repository"
	"github.com/senyabanana/tender-approval-service/internal/utils"
	"github.com/senyabanana/tender-approval-service/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dateLayout - формат дат тендера в запросах.
const dateLayout = "2006-01-02"

type TenderService struct {
	Repo          repository.TenderRepository
	logger        *zap.Logger
	requireLowest bool
}

// NewTenderService создаёт новый экземпляр TenderService. При requireLowest
// присуждение не минимального предложения запрещено.
func NewTenderService(repo repository.TenderRepository, logger *zap.Logger, requireLowest bool) *TenderService {
	return &TenderService{Repo: repo, logger: logger, requireLowest: requireLowest}
}

// allowedStatuses - статусы, по которым можно фильтровать список тендеров.
var allowedStatuses = map[models.TenderStatus]bool{
	models.DraftTender:           true,
	models.PendingApprovalTender: true,
	models.ApprovedTender:        true,
	models.OpenTender:            true,
	models.ClosedTender:          true,
	models.AwardedTender:         true,
	models.RejectedTender:        true,
}

// FetchTenders получает список тендеров.
func (s *TenderService) FetchTenders(ctx context.Context, limit, offset int, statuses []string) ([]models.Tender, error) {
	for _, status := range statuses {
		if !allowedStatuses[models.TenderStatus(status)] {
			return nil, models.NewErrorResponse(models.ErrInvalidInput, fmt.Sprintf("unsupported status: %s", status))
		}
	}
	return s.Repo.GetTenders(ctx, limit, offset, statuses)
}

// GetTenderByID получает тендер по идентификатору.
func (s *TenderService) GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error) {
	if tenderID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "tenderId is required")
	}
	return s.Repo.GetTenderByID(ctx, tenderID)
}

// GetCoordinatorTenders получает список тендеров координатора.
func (s *TenderService) GetCoordinatorTenders(ctx context.Context, limitStr, offsetStr, coordinatorID string) ([]models.Tender, error) {
	if coordinatorID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "coordinatorId is required")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, err.Error())
	}
	return s.Repo.GetCoordinatorTenders(ctx, limit, offset, coordinatorID)
}

// CreateTender создает новый тендер и сразу отправляет его на согласование.
func (s *TenderService) CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error) {
	startDate, endDate, err := validateTenderRequest(tenderReq)
	if err != nil {
		return nil, err
	}

	newTender := models.Tender{
		ID:              uuid.New().String(),
		Title:           tenderReq.Title,
		Description:     tenderReq.Description,
		Requirements:    tenderReq.Requirements,
		Department:      tenderReq.Department,
		CoordinatorID:   tenderReq.CoordinatorID,
		CoordinatorName: tenderReq.CoordinatorName,
		Status:          models.PendingApprovalTender,
		EMDAmount:       tenderReq.EMDAmount,
		StartDate:       startDate,
		EndDate:         endDate,
		Approvals:       workflow.NewApprovals(),
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.CreateTender(ctx, &newTender); err != nil {
		return nil, err
	}
	s.logger.Info("tender created",
		zap.String("tenderId", newTender.ID),
		zap.String("coordinatorId", newTender.CoordinatorID))
	return &newTender, nil
}

// ApproveTender применяет согласование роли к тендеру.
func (s *TenderService) ApproveTender(ctx context.Context, tenderID string, req models.ApprovalRequest) (*models.Tender, error) {
	if req.Role == "" || req.ApprovedBy == "" || req.ApproverEmail == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "role, approvedBy and approverEmail are required")
	}

	tender, err := s.Repo.UpdateTender(ctx, tenderID, func(t *models.Tender) error {
		return workflow.ApplyApproval(t, req, time.Now())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tender approval recorded",
		zap.String("tenderId", tenderID),
		zap.String("role", string(req.Role)),
		zap.String("status", string(tender.Status)))
	return tender, nil
}

// RejectTender применяет отклонение роли к тендеру.
func (s *TenderService) RejectTender(ctx context.Context, tenderID string, req models.RejectionRequest) (*models.Tender, error) {
	if req.Role == "" || req.RejectedBy == "" || req.RejectorEmail == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "role, rejectedBy and rejectorEmail are required")
	}
	if req.Remarks == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "rejection remarks are required")
	}

	tender, err := s.Repo.UpdateTender(ctx, tenderID, func(t *models.Tender) error {
		return workflow.ApplyRejection(t, req, time.Now())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tender rejected",
		zap.String("tenderId", tenderID),
		zap.String("role", string(req.Role)))
	return tender, nil
}

// ResubmitTender принимает исправленный тендер на новый цикл согласования.
// Доступно только координатору, создавшему тендер.
func (s *TenderService) ResubmitTender(ctx context.Context, tenderID string, tenderReq models.TenderRequest) (*models.Tender, error) {
	startDate, endDate, err := validateTenderRequest(tenderReq)
	if err != nil {
		return nil, err
	}

	tender, err := s.Repo.UpdateTender(ctx, tenderID, func(t *models.Tender) error {
		if t.CoordinatorID != tenderReq.CoordinatorID {
			return models.NewErrorResponse(models.ErrForbidden, "only the owning coordinator can resubmit this tender")
		}
		if err := workflow.ApplyResubmission(t); err != nil {
			return err
		}
		t.Title = tenderReq.Title
		t.Description = tenderReq.Description
		t.Requirements = tenderReq.Requirements
		t.Department = tenderReq.Department
		t.EMDAmount = tenderReq.EMDAmount
		t.StartDate = startDate
		t.EndDate = endDate
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tender resubmitted", zap.String("tenderId", tenderID))
	return tender, nil
}

// UpdateTenderStatus выполняет ручной переход статуса: публикацию
// согласованного тендера или закрытие приема предложений.
func (s *TenderService) UpdateTenderStatus(ctx context.Context, tenderID, status, coordinatorID string) (*models.Tender, error) {
	if status == "" || coordinatorID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "missing required query parameters: status or coordinatorId")
	}
	if !allowedStatuses[models.TenderStatus(status)] {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, fmt.Sprintf("unsupported status: %s", status))
	}

	return s.Repo.UpdateTender(ctx, tenderID, func(t *models.Tender) error {
		if t.CoordinatorID != coordinatorID {
			return models.NewErrorResponse(models.ErrForbidden, "only the owning coordinator can change tender status")
		}
		return workflow.ApplyStatusChange(t, models.TenderStatus(status))
	})
}

// AwardTender присуждает контракт выбранному предложению. Предложение и
// тендер обновляются одной операцией.
func (s *TenderService) AwardTender(ctx context.Context, tenderID string, req models.AwardRequest) (*models.Tender, error) {
	if req.BidID == "" || req.CoordinatorID == "" {
		return nil, models.NewErrorResponse(models.ErrInvalidInput, "bidId and coordinatorId are required")
	}

	tender, err := s.Repo.AwardTender(ctx, tenderID, req.BidID, func(t *models.Tender, b *models.Bid) error {
		if t.CoordinatorID != req.CoordinatorID {
			return models.NewErrorResponse(models.ErrForbidden, "only the owning coordinator can award this tender")
		}
		return workflow.ApplyAward(t, b, s.requireLowest)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tender awarded",
		zap.String("tenderId", tenderID),
		zap.String("bidId", req.BidID),
		zap.Float64("amount", tender.AwardedTo.Amount))
	return tender, nil
}

// DeleteTender удаляет тендер координатора вместе с его предложениями и
// платежами.
func (s *TenderService) DeleteTender(ctx context.Context, tenderID, coordinatorID string) error {
	if coordinatorID == "" {
		return models.NewErrorResponse(models.ErrInvalidInput, "coordinatorId is required")
	}

	tender, err := s.Repo.GetTenderByID(ctx, tenderID)
	if err != nil {
		return err
	}
	if tender.CoordinatorID != coordinatorID {
		return models.NewErrorResponse(models.ErrForbidden, "only the owning coordinator can delete this tender")
	}

	if err := s.Repo.DeleteTender(ctx, tenderID); err != nil {
		return err
	}
	s.logger.Info("tender deleted", zap.String("tenderId", tenderID))
	return nil
}

// validateTenderRequest проверяет поля запроса и разбирает даты.
func validateTenderRequest(tenderReq models.TenderRequest) (startDate, endDate time.Time, err error) {
	if tenderReq.Title == "" || tenderReq.Description == "" || tenderReq.Department == "" ||
		tenderReq.CoordinatorID == "" || tenderReq.CoordinatorName == "" {
		return startDate, endDate, models.NewErrorResponse(models.ErrInvalidInput, "missing required fields")
	}
	if tenderReq.EMDAmount <= 0 {
		return startDate, endDate, models.NewErrorResponse(models.ErrInvalidInput, "emdAmount must be positive")
	}

	startDate, err = time.Parse(dateLayout, tenderReq.StartDate)
	if err != nil {
		return startDate, endDate, models.NewErrorResponse(models.ErrInvalidInput, "invalid startDate, expected YYYY-MM-DD")
	}
	endDate, err = time.Parse(dateLayout, tenderReq.EndDate)
	if err != nil {
		return startDate, endDate, models.NewErrorResponse(models.ErrInvalidInput, "invalid endDate, expected YYYY-MM-DD")
	}
	if !endDate.After(startDate) {
		return startDate, endDate, models.NewErrorResponse(models.ErrInvalidInput, "endDate must be after startDate")
	}
	return startDate, endDate, nil
}
