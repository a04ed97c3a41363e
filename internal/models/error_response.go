package models

import "net/http"

// ErrorKind - машиночитаемый вид ошибки.
type ErrorKind string

const (
	ErrNotFound               ErrorKind = "NotFound"
	ErrInvalidInput           ErrorKind = "InvalidInput"
	ErrInvalidStateTransition ErrorKind = "InvalidStateTransition"
	ErrOutOfSequenceApproval  ErrorKind = "OutOfSequenceApproval"
	ErrPaymentRequired        ErrorKind = "PaymentRequired"
	ErrDuplicateBid           ErrorKind = "DuplicateBid"
	ErrForbidden              ErrorKind = "Forbidden"
	ErrInternal               ErrorKind = "Internal"
)

// statusByKind - соответствие вида ошибки HTTP-статусу.
var statusByKind = map[ErrorKind]int{
	ErrNotFound:               http.StatusNotFound,
	ErrInvalidInput:           http.StatusBadRequest,
	ErrInvalidStateTransition: http.StatusConflict,
	ErrOutOfSequenceApproval:  http.StatusConflict,
	ErrPaymentRequired:        http.StatusPaymentRequired,
	ErrDuplicateBid:           http.StatusConflict,
	ErrForbidden:              http.StatusForbidden,
	ErrInternal:               http.StatusInternalServerError,
}

// ErrorResponse описывает ошибку с видом, кодом и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"reason"`
}

// NewErrorResponse создает новую ошибку указанного вида.
func NewErrorResponse(kind ErrorKind, message string) *ErrorResponse {
	statusCode, ok := statusByKind[kind]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
