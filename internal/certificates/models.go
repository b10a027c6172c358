package certificates

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CertificateStatus string

const (
	StatusIssued CertificateStatus = "ISSUED"
	StatusVoided CertificateStatus = "VOIDED"
)

// Certificate is the sanitary certificate issued for one performed
// appointment. The expiry defaults to the issue date plus the validity
// period agreed for the service (usually 30 days).
type Certificate struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppointmentID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	Number        string            `gorm:"not null;uniqueIndex" json:"number"`
	IssueDate     time.Time         `gorm:"not null" json:"issue_date"`
	ExpiryDate    time.Time         `gorm:"not null" json:"expiry_date"`
	Status        CertificateStatus `gorm:"not null;default:'ISSUED'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

type IssueCertificateRequest struct {
	AppointmentID uuid.UUID  `json:"appointment_id" binding:"required"`
	Number        string     `json:"number" binding:"required"`
	IssueDate     *time.Time `json:"issue_date"`
	ValidityDays  int        `json:"validity_days"`
}
