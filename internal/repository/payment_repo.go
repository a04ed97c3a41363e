package repository

import (
	"context"

	"github.com/senyabanana/tender-approval-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository - интерфейс для работы с обеспечительными взносами.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.EMDPayment) error
	HasSuccessfulPayment(ctx context.Context, tenderID, contractorID string) (bool, error)
	GetContractorPayments(ctx context.Context, contractorID string) ([]models.EMDPayment, error)
}

// PostgresPaymentRepository - реализация PaymentRepository для базы данных.
type PostgresPaymentRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPaymentRepository создает новый экземпляр PostgresPaymentRepository.
func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{DB: db}
}

// CreatePayment сохраняет новый платеж.
func (r *PostgresPaymentRepository) CreatePayment(ctx context.Context, payment *models.EMDPayment) error {
	insertQuery := `INSERT INTO emd_payment (id, tender_id, contractor_id, amount, payment_date, status)
	                VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		payment.ID,
		payment.TenderID,
		payment.ContractorID,
		payment.Amount,
		payment.PaymentDate,
		payment.Status)
	return err
}

// HasSuccessfulPayment проверяет наличие успешного платежа по паре
// (тендер, подрядчик).
func (r *PostgresPaymentRepository) HasSuccessfulPayment(ctx context.Context, tenderID, contractorID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM emd_payment WHERE tender_id = $1 AND contractor_id = $2 AND status = $3)`
	err := r.DB.QueryRow(ctx, query, tenderID, contractorID, models.PaymentSuccess).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetContractorPayments возвращает платежи подрядчика.
func (r *PostgresPaymentRepository) GetContractorPayments(ctx context.Context, contractorID string) ([]models.EMDPayment, error) {
	query := `SELECT id, tender_id, contractor_id, amount, payment_date, status
	          FROM emd_payment WHERE contractor_id = $1 ORDER BY payment_date`
	rows, err := r.DB.Query(ctx, query, contractorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.EMDPayment
	for rows.Next() {
		var payment models.EMDPayment
		if err := rows.Scan(
			&payment.ID,
			&payment.TenderID,
			&payment.ContractorID,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.Status); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
