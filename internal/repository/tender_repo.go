package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/senyabanana/tender-approval-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// TenderRepository - интерфейс для работы с тендерами. Мутирующие методы
// выполняют переданную функцию в монопольной секции по тендеру, чтобы два
// конкурентных согласования или присуждение и подача предложения не
// пересекались.
type TenderRepository interface {
	GetTenders(ctx context.Context, limit, offset int, statuses []string) ([]models.Tender, error)
	GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error)
	GetCoordinatorTenders(ctx context.Context, limit, offset int, coordinatorID string) ([]models.Tender, error)
	CreateTender(ctx context.Context, tender *models.Tender) error
	UpdateTender(ctx context.Context, tenderID string, mutate func(*models.Tender) error) (*models.Tender, error)
	AwardTender(ctx context.Context, tenderID, bidID string, apply func(*models.Tender, *models.Bid) error) (*models.Tender, error)
	DeleteTender(ctx context.Context, tenderID string) error
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

const tenderColumns = `id, title, description, requirements, department, coordinator_id, coordinator_name,
       status, emd_amount, start_date, end_date, approvals, awarded_to, created_at`

// pgxRow - общий интерфейс строк pgx.Row и pgx.Rows.
type pgxRow interface {
	Scan(dest ...any) error
}

// scanTender считывает тендер вместе с JSONB-полями approvals и awarded_to.
func scanTender(row pgxRow) (*models.Tender, error) {
	var tender models.Tender
	var approvalsRaw []byte
	var awardedRaw []byte

	err := row.Scan(
		&tender.ID,
		&tender.Title,
		&tender.Description,
		&tender.Requirements,
		&tender.Department,
		&tender.CoordinatorID,
		&tender.CoordinatorName,
		&tender.Status,
		&tender.EMDAmount,
		&tender.StartDate,
		&tender.EndDate,
		&approvalsRaw,
		&awardedRaw,
		&tender.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(approvalsRaw, &tender.Approvals); err != nil {
		return nil, fmt.Errorf("failed to decode approvals for tender %s: %w", tender.ID, err)
	}
	if awardedRaw != nil {
		tender.AwardedTo = &models.AwardInfo{}
		if err := json.Unmarshal(awardedRaw, tender.AwardedTo); err != nil {
			return nil, fmt.Errorf("failed to decode award info for tender %s: %w", tender.ID, err)
		}
	}
	return &tender, nil
}

// marshalTenderJSON кодирует JSONB-поля тендера для записи.
func marshalTenderJSON(tender *models.Tender) (approvals []byte, awarded []byte, err error) {
	approvals, err = json.Marshal(tender.Approvals)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode approvals: %w", err)
	}
	if tender.AwardedTo != nil {
		awarded, err = json.Marshal(tender.AwardedTo)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode award info: %w", err)
		}
	}
	return approvals, awarded, nil
}

// GetTenders возвращает список тендеров с опциональным фильтром по статусам.
func (r *PostgresTenderRepository) GetTenders(ctx context.Context, limit, offset int, statuses []string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(statuses))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}

// GetTenderByID возвращает тендер по идентификатору.
func (r *PostgresTenderRepository) GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE id = $1`
	tender, err := scanTender(r.DB.QueryRow(ctx, query, tenderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// GetCoordinatorTenders возвращает список тендеров координатора.
func (r *PostgresTenderRepository) GetCoordinatorTenders(ctx context.Context, limit, offset int, coordinatorID string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tender WHERE coordinator_id = $1
	          ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(ctx, query, coordinatorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}

// CreateTender сохраняет новый тендер.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, tender *models.Tender) error {
	approvalsJSON, awardedJSON, err := marshalTenderJSON(tender)
	if err != nil {
		return err
	}

	insertQuery := `INSERT INTO tender (` + tenderColumns + `)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.DB.Exec(
		ctx,
		insertQuery,
		tender.ID,
		tender.Title,
		tender.Description,
		tender.Requirements,
		tender.Department,
		tender.CoordinatorID,
		tender.CoordinatorName,
		tender.Status,
		tender.EMDAmount,
		tender.StartDate,
		tender.EndDate,
		approvalsJSON,
		awardedJSON,
		tender.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tender: %w", err)
	}
	return nil
}

// UpdateTender выполняет mutate над тендером под блокировкой строки и
// сохраняет результат одной транзакцией. При ошибке mutate состояние в базе
// не меняется.
func (r *PostgresTenderRepository) UpdateTender(ctx context.Context, tenderID string, mutate func(*models.Tender) error) (*models.Tender, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tender, err := lockTender(ctx, tx, tenderID)
	if err != nil {
		return nil, err
	}

	if err := mutate(tender); err != nil {
		return nil, err
	}

	if err := saveTender(ctx, tx, tender); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tender, nil
}

// AwardTender выполняет apply над тендером и предложением под блокировкой и
// записывает обе сущности одной транзакцией.
func (r *PostgresTenderRepository) AwardTender(ctx context.Context, tenderID, bidID string, apply func(*models.Tender, *models.Bid) error) (*models.Tender, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tender, err := lockTender(ctx, tx, tenderID)
	if err != nil {
		return nil, err
	}

	bid, err := scanBid(tx.QueryRow(ctx, `SELECT `+bidColumns+` FROM bid WHERE id = $1 FOR UPDATE`, bidID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(models.ErrNotFound, "bid not found")
	}
	if err != nil {
		return nil, err
	}

	if err := apply(tender, bid); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bid SET is_awarded = $1 WHERE id = $2`, bid.IsAwarded, bid.ID); err != nil {
		return nil, err
	}
	if err := saveTender(ctx, tx, tender); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tender, nil
}

// DeleteTender удаляет тендер вместе с его предложениями и платежами.
func (r *PostgresTenderRepository) DeleteTender(ctx context.Context, tenderID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM tender WHERE id = $1`, tenderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}
	return nil
}

// lockTender читает тендер с блокировкой строки внутри транзакции.
func lockTender(ctx context.Context, tx pgx.Tx, tenderID string) (*models.Tender, error) {
	tender, err := scanTender(tx.QueryRow(ctx, `SELECT `+tenderColumns+` FROM tender WHERE id = $1 FOR UPDATE`, tenderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(models.ErrNotFound, "tender not found")
	}
	if err != nil {
		return nil, err
	}
	return tender, nil
}

// saveTender записывает изменяемые поля тендера.
func saveTender(ctx context.Context, tx pgx.Tx, tender *models.Tender) error {
	approvalsJSON, awardedJSON, err := marshalTenderJSON(tender)
	if err != nil {
		return err
	}

	updateQuery := `UPDATE tender
	                SET title = $1, description = $2, requirements = $3, department = $4,
	                    status = $5, emd_amount = $6, start_date = $7, end_date = $8,
	                    approvals = $9, awarded_to = $10
	                WHERE id = $11`
	_, err = tx.Exec(
		ctx,
		updateQuery,
		tender.Title,
		tender.Description,
		tender.Requirements,
		tender.Department,
		tender.Status,
		tender.EMDAmount,
		tender.StartDate,
		tender.EndDate,
		approvalsJSON,
		awardedJSON,
		tender.ID)
	return err
}
