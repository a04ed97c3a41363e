package repository

import (
	"context"
	"errors"

	"github.com/senyabanana/tender-approval-service/internal/models"
	"github.com/senyabanana/tender-approval-service/internal/workflow"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository - интерфейс для работы с предложениями. SubmitBid выполняет
// build и пересчет минимального предложения в монопольной секции по тендеру.
type BidRepository interface {
	GetBids(ctx context.Context, limit, offset int) ([]models.Bid, error)
	GetTenderBids(ctx context.Context, tenderID string) ([]models.Bid, error)
	GetContractorBids(ctx context.Context, limit, offset int, contractorID string) ([]models.Bid, error)
	GetBidByID(ctx context.Context, bidID string) (*models.Bid, error)
	SubmitBid(ctx context.Context, tenderID string, build func(tender *models.Tender, existing []models.Bid) (*models.Bid, error)) (*models.Bid, error)
}

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBidRepository создает новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

const bidColumns = `id, tender_id, contractor_id, contractor_name, quotation_amount,
       expected_completion_time, remarks, submitted_at, is_lowest, is_awarded`

// scanBid считывает предложение из строки результата.
func scanBid(row pgxRow) (*models.Bid, error) {
	var bid models.Bid
	err := row.Scan(
		&bid.ID,
		&bid.TenderID,
		&bid.ContractorID,
		&bid.ContractorName,
		&bid.QuotationAmount,
		&bid.ExpectedCompletionTime,
		&bid.Remarks,
		&bid.SubmittedAt,
		&bid.IsLowest,
		&bid.IsAwarded,
	)
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// GetBids возвращает список всех предложений.
func (r *PostgresBidRepository) GetBids(ctx context.Context, limit, offset int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid ORDER BY submitted_at, id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBids(rows)
}

// GetTenderBids возвращает предложения по тендеру в порядке подачи.
func (r *PostgresBidRepository) GetTenderBids(ctx context.Context, tenderID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE tender_id = $1 ORDER BY submitted_at, id`
	rows, err := r.DB.Query(ctx, query, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBids(rows)
}

// GetContractorBids возвращает предложения подрядчика.
func (r *PostgresBidRepository) GetContractorBids(ctx context.Context, limit, offset int, contractorID string) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE contractor_id = $1 ORDER BY submitted_at, id LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, contractorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBids(rows)
}

// GetBidByID возвращает предложение по идентификатору.
func (r *PostgresBidRepository) GetBidByID(ctx context.Context, bidID string) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bid WHERE id = $1`
	bid, err := scanBid(r.DB.QueryRow(ctx, query, bidID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(models.ErrNotFound, "bid not found")
	}
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// SubmitBid вставляет предложение, построенное build, и пересчитывает флаг
// минимального предложения по тендеру. Вся операция идет под блокировкой
// строки тендера, поэтому присуждение не увидит устаревший флаг.
func (r *PostgresBidRepository) SubmitBid(ctx context.Context, tenderID string, build func(tender *models.Tender, existing []models.Bid) (*models.Bid, error)) (*models.Bid, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tender, err := lockTender(ctx, tx, tenderID)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT `+bidColumns+` FROM bid WHERE tender_id = $1 ORDER BY submitted_at, id`, tenderID)
	if err != nil {
		return nil, err
	}
	existing, err := collectBids(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	newBid, err := build(tender, existing)
	if err != nil {
		return nil, err
	}

	insertQuery := `INSERT INTO bid (` + bidColumns + `)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = tx.Exec(
		ctx,
		insertQuery,
		newBid.ID,
		newBid.TenderID,
		newBid.ContractorID,
		newBid.ContractorName,
		newBid.QuotationAmount,
		newBid.ExpectedCompletionTime,
		newBid.Remarks,
		newBid.SubmittedAt,
		newBid.IsLowest,
		newBid.IsAwarded)
	if err != nil {
		return nil, err
	}

	all := append(existing, *newBid)
	workflow.MarkLowestBid(all)

	var lowestID string
	for _, bid := range all {
		if bid.IsLowest {
			lowestID = bid.ID
		}
		if bid.ID == newBid.ID {
			newBid.IsLowest = bid.IsLowest
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE bid SET is_lowest = (id = $1) WHERE tender_id = $2`, lowestID, tenderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return newBid, nil
}

// collectBids собирает предложения из результата запроса.
func collectBids(rows pgx.Rows) ([]models.Bid, error) {
	var bids []models.Bid
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *bid)
	}
	return bids, rows.Err()
}
