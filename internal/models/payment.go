package models

import "time"

// PaymentStatus - статус платежа обеспечительного взноса (EMD).
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success" // Платеж прошел
	PaymentPending PaymentStatus = "pending" // Платеж в обработке
	PaymentFailed  PaymentStatus = "failed"  // Платеж не прошел
)

// EMDPayment представляет модель обеспечительного взноса подрядчика.
// Подача предложения возможна только при наличии успешного платежа
// по паре (тендер, подрядчик).
type EMDPayment struct {
	ID           string        `json:"id"`
	TenderID     string        `json:"tenderId"`
	ContractorID string        `json:"contractorId"`
	Amount       float64       `json:"amount"`
	PaymentDate  time.Time     `json:"paymentDate"`
	Status       PaymentStatus `json:"status"`
}

// EMDPaymentRequest представляет структуру запроса на внесение взноса.
type EMDPaymentRequest struct {
	TenderID     string  `json:"tenderId"`
	ContractorID string  `json:"contractorId"`
	Amount       float64 `json:"amount"`
}
