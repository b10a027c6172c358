package purchaseorders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type OrderStatus string

const (
	StatusOpen      OrderStatus = "OPEN"
	StatusReceived  OrderStatus = "RECEIVED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PurchaseOrder is an order for supplies issued to a provider. The
// provider is kept in the clients table (counterparty records are
// shared between sales and purchasing).
type PurchaseOrder struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number       int            `gorm:"autoIncrement;uniqueIndex" json:"number"`
	ProviderID   uuid.UUID      `gorm:"type:uuid;not null" json:"provider_id"`
	Provider     clients.Client `gorm:"foreignKey:ProviderID" json:"provider"`
	IssueDate    time.Time      `gorm:"not null" json:"issue_date"`
	Currency     money.Currency `gorm:"type:varchar(3);default:'PEN'" json:"currency"`
	PaymentTerms string         `json:"payment_terms"`
	DeliveryAddr string         `json:"delivery_address"`
	Status       OrderStatus    `gorm:"not null;default:'OPEN'" json:"status"`
	Subtotal     float64        `json:"subtotal"`
	Tax          float64        `json:"tax"`
	Total        float64        `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Products []ProductLine `gorm:"foreignKey:PurchaseOrderID" json:"products"`
}

// ProductLine is one ordered product. Its placeholders feed the cloned
// table row in the printed order.
type ProductLine struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null" json:"purchase_order_id"`
	Ordinal         int       `gorm:"not null" json:"ordinal"`
	Description     string    `gorm:"not null" json:"description"`
	Unit            string    `json:"unit"`
	Quantity        float64   `gorm:"not null" json:"quantity"`
	UnitPrice       float64   `gorm:"not null" json:"unit_price"`
	Amount          float64   `gorm:"not null" json:"amount"`
}

type ProductRequest struct {
	Description string  `json:"description" binding:"required"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateOrderRequest struct {
	ProviderID   uuid.UUID        `json:"provider_id" binding:"required"`
	IssueDate    time.Time        `json:"issue_date"`
	Currency     money.Currency   `json:"currency"`
	PaymentTerms string           `json:"payment_terms"`
	DeliveryAddr string           `json:"delivery_address"`
	Products     []ProductRequest `json:"products" binding:"required"`
}
