package workflow

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/senyabanana/tender-approval-service/internal/models"
)

// NewApprovalRecord формирует запись согласования: одноразовый шестизначный
// OTP и SHA-256 подпись от (tenderId, email, timestamp, otp).
func NewApprovalRecord(tenderID, approvedBy, approverEmail string, now time.Time) models.ApprovalRecord {
	ts := now.UTC()
	otp := generateOTP()
	signatureInput := fmt.Sprintf("%s-%s-%d-%s", tenderID, approverEmail, ts.UnixMilli(), otp)
	digest := sha256.Sum256([]byte(signatureInput))

	return models.ApprovalRecord{
		ApprovalID:       fmt.Sprintf("APV-%d-%s", ts.UnixMilli(), strings.ToUpper(randomToken(9))),
		OTP:              otp,
		DigitalSignature: hex.EncodeToString(digest[:]),
		Timestamp:        ts,
		ApprovedBy:       approvedBy,
		ApproverEmail:    approverEmail,
	}
}

// NewRejectionRecord формирует запись отклонения с замечаниями.
func NewRejectionRecord(rejectedBy, rejectorEmail, remarks string, now time.Time) models.RejectionRecord {
	ts := now.UTC()
	return models.RejectionRecord{
		RejectionID:   fmt.Sprintf("REJ-%d-%s", ts.UnixMilli(), randomToken(9)),
		RejectedBy:    rejectedBy,
		RejectorEmail: rejectorEmail,
		Remarks:       remarks,
		Timestamp:     ts,
	}
}

// generateOTP возвращает шестизначный код из криптографического ГСЧ.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand не возвращает ошибок на поддерживаемых платформах
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// randomToken возвращает случайный суффикс идентификатора решения.
func randomToken(length int) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length > len(token) {
		length = len(token)
	}
	return token[:length]
}
