package clients

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer of the pest-control service. TaxID holds either
// an 11-digit RUC or an 8-digit DNI.
type Client struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TaxID        string         `gorm:"not null;uniqueIndex" json:"tax_id"`
	BusinessName string         `gorm:"not null" json:"business_name"`
	TradeName    string         `json:"trade_name"`
	ContactName  string         `json:"contact_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Address      string         `json:"address"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName is the name printed on generated documents.
func (c Client) DisplayName() string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.BusinessName
}

type CreateClientRequest struct {
	TaxID        string `json:"tax_id" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	TradeName    string `json:"trade_name"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// UpdateClientRequest carries patch semantics: nil fields are left untouched.
type UpdateClientRequest struct {
	BusinessName *string `json:"business_name"`
	TradeName    *string `json:"trade_name"`
	ContactName  *string `json:"contact_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"is_active"`
}
