package projects

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentDone      AppointmentStatus = "DONE"
	AppointmentOverdue   AppointmentStatus = "OVERDUE"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Project is a contracted pest-control service for one client: the
// service address, the selected services and the agreed price. Services
// is a JSON array of service names (the certificate placeholder builder
// matches it against the fixed service vocabulary).
type Project struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID  uuid.UUID      `gorm:"type:uuid;not null" json:"client_id"`
	Client    clients.Client `gorm:"foreignKey:ClientID" json:"client"`
	Address   string         `gorm:"not null" json:"address"`
	Area      float64        `json:"area"` // m2
	Services  datatypes.JSON `json:"services"`
	Price     float64        `json:"price"`
	Currency  money.Currency `gorm:"type:varchar(3);default:'PEN'" json:"currency"`
	Ambients  string         `json:"ambients"` // treated environments, free text
	Status    ProjectStatus  `gorm:"not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Appointments []Appointment `gorm:"foreignKey:ProjectID" json:"appointments,omitempty"`
}

// Appointment is one scheduled visit within a project. ActualDate is set
// when the service was performed; a certificate can only be generated for
// a performed appointment.
type Appointment struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID         uuid.UUID         `gorm:"type:uuid;not null" json:"project_id"`
	DueDate           time.Time         `gorm:"not null" json:"due_date"`
	ActualDate        *time.Time        `json:"actual_date,omitempty"`
	CertificateNumber *string           `json:"certificate_number,omitempty"`
	Operator          string            `json:"operator"`
	Status            AppointmentStatus `gorm:"not null;default:'SCHEDULED'" json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ServiceNames decodes the Services JSON column.
func (p Project) ServiceNames() []string {
	var names []string
	if len(p.Services) > 0 {
		_ = json.Unmarshal(p.Services, &names)
	}
	return names
}

type CreateProjectRequest struct {
	ClientID uuid.UUID      `json:"client_id" binding:"required"`
	Address  string         `json:"address" binding:"required"`
	Area     float64        `json:"area"`
	Services []string       `json:"services" binding:"required"`
	Price    float64        `json:"price"`
	Currency money.Currency `json:"currency"`
	Ambients string         `json:"ambients"`
}

type UpdateProjectRequest struct {
	Address  *string         `json:"address"`
	Area     *float64        `json:"area"`
	Services *[]string       `json:"services"`
	Price    *float64        `json:"price"`
	Currency *money.Currency `json:"currency"`
	Ambients *string         `json:"ambients"`
	Status   *ProjectStatus  `json:"status"`
}

type CreateAppointmentRequest struct {
	DueDate  time.Time `json:"due_date" binding:"required"`
	Operator string    `json:"operator"`
}

type CompleteAppointmentRequest struct {
	ActualDate time.Time `json:"actual_date" binding:"required"`
	Operator   string    `json:"operator"`
}
