package quotations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type QuotationStatus string

const (
	StatusPending  QuotationStatus = "PENDIENTE"
	StatusAccepted QuotationStatus = "ACEPTADA"
	StatusRejected QuotationStatus = "RECHAZADA"
	StatusExpired  QuotationStatus = "VENCIDA"
)

// Quotation is a priced service offer sent to a client. Totals are
// derived from the lines with the shared money rules and stored
// denormalized for listing.
type Quotation struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number       int             `gorm:"autoIncrement;uniqueIndex" json:"number"`
	ClientID     uuid.UUID       `gorm:"type:uuid;not null" json:"client_id"`
	Client       clients.Client  `gorm:"foreignKey:ClientID" json:"client"`
	IssueDate    time.Time       `gorm:"not null" json:"issue_date"`
	ExpiryDate   time.Time       `gorm:"not null" json:"expiry_date"`
	Currency     money.Currency  `gorm:"type:varchar(3);default:'PEN'" json:"currency"`
	PaymentTerms string          `json:"payment_terms"`
	Notes        string          `json:"notes"`
	Status       QuotationStatus `gorm:"not null;default:'PENDIENTE'" json:"status"`
	Subtotal     float64         `json:"subtotal"`
	Tax          float64         `json:"tax"`
	Total        float64         `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Lines []QuotationLine `gorm:"foreignKey:QuotationID" json:"lines"`
}

type QuotationLine struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null" json:"quotation_id"`
	Ordinal     int       `gorm:"not null" json:"ordinal"`
	Description string    `gorm:"not null" json:"description"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	Amount      float64   `gorm:"not null" json:"amount"`
}

type LineRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateQuotationRequest struct {
	ClientID     uuid.UUID      `json:"client_id" binding:"required"`
	IssueDate    time.Time      `json:"issue_date"`
	ExpiryDate   time.Time      `json:"expiry_date"`
	Currency     money.Currency `json:"currency"`
	PaymentTerms string         `json:"payment_terms"`
	Notes        string         `json:"notes"`
	Lines        []LineRequest  `json:"lines" binding:"required"`
}

type UpdateQuotationRequest struct {
	ExpiryDate   *time.Time     `json:"expiry_date"`
	PaymentTerms *string        `json:"payment_terms"`
	Notes        *string        `json:"notes"`
	Lines        *[]LineRequest `json:"lines"`
}
