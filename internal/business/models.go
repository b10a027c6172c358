package business

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the company's own record: the data printed as letterhead,
// bank details and signatures on every generated document. The system
// keeps at most one row; document generation receives it as an explicit
// read-only value and fails with ErrNotFound when it was never configured.
type Profile struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	TaxID             string    `gorm:"not null" json:"tax_id"`
	Address           string    `json:"address"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	DigesaNumber      string    `json:"digesa_number"`
	BankName          string    `json:"bank_name"`
	BankAccount       string    `json:"bank_account"`
	BankCCI           string    `json:"bank_cci"`
	TechnicalDirector string    `json:"technical_director"`
	ResponsibleKey    string    `json:"responsible_signature_key"`
	DirectorKey       string    `json:"director_signature_key"`
	LetterheadKey     string    `json:"letterhead_key"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	TaxID             *string `json:"tax_id"`
	Address           *string `json:"address"`
	Phone             *string `json:"phone"`
	Email             *string `json:"email"`
	DigesaNumber      *string `json:"digesa_number"`
	BankName          *string `json:"bank_name"`
	BankAccount       *string `json:"bank_account"`
	BankCCI           *string `json:"bank_cci"`
	TechnicalDirector *string `json:"technical_director"`
	ResponsibleKey    *string `json:"responsible_signature_key"`
	DirectorKey       *string `json:"director_signature_key"`
	LetterheadKey     *string `json:"letterhead_key"`
}
