package models

import "time"

// Bid представляет модель предложения подрядчика.
type Bid struct {
	ID                     string    `json:"id"`
	TenderID               string    `json:"tenderId"`
	ContractorID           string    `json:"contractorId"`
	ContractorName         string    `json:"contractorName"`
	QuotationAmount        float64   `json:"quotationAmount"`
	ExpectedCompletionTime string    `json:"expectedCompletionTime"`
	Remarks                string    `json:"remarks"`
	SubmittedAt            time.Time `json:"submittedAt"`
	IsLowest               bool      `json:"isLowest"`
	IsAwarded              bool      `json:"isAwarded"`
}

// BidRequest представляет структуру запроса для подачи предложения.
type BidRequest struct {
	TenderID               string  `json:"tenderId"`
	ContractorID           string  `json:"contractorId"`
	ContractorName         string  `json:"contractorName"`
	QuotationAmount        float64 `json:"quotationAmount"`
	ExpectedCompletionTime string  `json:"expectedCompletionTime"`
	Remarks                string  `json:"remarks"`
}
