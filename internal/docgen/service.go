package docgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/certificates"
	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
	"github.com/digitales-2024/perucontrol-sub003/internal/purchaseorders"
	"github.com/digitales-2024/perucontrol-sub003/internal/quotations"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

// Template names resolved through the store.
const (
	templateCertificate   = "certificate.odt"
	templateQuotation     = "quotation.ods"
	templatePurchaseOrder = "purchase-order.ods"
	templateReceipt       = "receipt.odt"
)

// TemplateStore resolves a logical template name to its bytes.
type TemplateStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

type ProfileSource interface {
	Get(ctx context.Context) (*business.Profile, error)
}

type CertificateSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*certificates.Certificate, error)
}

type ProjectSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*projects.Project, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*projects.Appointment, error)
}

type QuotationSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*quotations.Quotation, error)
}

type OrderSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*purchaseorders.PurchaseOrder, error)
}

type ClientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*clients.Client, error)
}

// ReceiptRequest describes an income receipt to generate. Receipts are
// not persisted, the caller supplies everything but the client record.
type ReceiptRequest struct {
	ClientID uuid.UUID      `json:"client_id" binding:"required"`
	Number   string         `json:"number" binding:"required"`
	Concept  string         `json:"concept" binding:"required"`
	Amount   float64        `json:"amount" binding:"required"`
	Currency money.Currency `json:"currency"`
	Date     time.Time      `json:"date"`
}

// GeneratedDocument is the pipeline output: the bytes, how to describe
// them over HTTP and which template tokens stayed unreplaced.
type GeneratedDocument struct {
	Bytes       []byte
	ContentType string
	Filename    string
	Unmatched   []string
}

type Service interface {
	GenerateCertificate(ctx context.Context, certificateID uuid.UUID, target string) (*GeneratedDocument, error)
	GenerateQuotation(ctx context.Context, quotationID uuid.UUID, target string) (*GeneratedDocument, error)
	GeneratePurchaseOrder(ctx context.Context, orderID uuid.UUID, target string) (*GeneratedDocument, error)
	GenerateReceipt(ctx context.Context, req ReceiptRequest, target string) (*GeneratedDocument, error)
}

// Dependencies gathers the collaborators of the generation service.
type Dependencies struct {
	Templates    TemplateStore
	Converter    Converter
	Profiles     ProfileSource
	Certificates CertificateSource
	Projects     ProjectSource
	Quotations   QuotationSource
	Orders       OrderSource
	Clients      ClientSource
	Logger       *zap.Logger
}

type service struct {
	deps Dependencies
}

func NewService(deps Dependencies) Service {
	return &service{deps: deps}
}

var contentTypes = map[string]string{
	"odt":  "application/vnd.oasis.opendocument.text",
	"ods":  "application/vnd.oasis.opendocument.spreadsheet",
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func contentTypeFor(ext string) (string, error) {
	ct, ok := contentTypes[ext]
	if !ok {
		return "", preconditionf("unsupported output format %q", ext)
	}
	return ct, nil
}

func (s *service) profile(ctx context.Context) (*business.Profile, error) {
	profile, err := s.deps.Profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}
	if profile == nil {
		return nil, &PreconditionError{Reason: business.ErrNotFound.Error()}
	}
	return profile, nil
}

func (s *service) template(ctx context.Context, name string) ([]byte, error) {
	data, err := s.deps.Templates.Get(ctx, name)
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	return data, nil
}

// finish converts the rewritten document when the target format differs
// from the template's native one and assembles the result.
func (s *service) finish(ctx context.Context, data []byte, unmatched []string, nativeExt, target, basename string) (*GeneratedDocument, error) {
	ext := nativeExt
	if target != "" && target != nativeExt {
		if _, err := contentTypeFor(target); err != nil {
			return nil, err
		}
		converted, err := s.deps.Converter.Convert(ctx, data, nativeExt, target)
		if err != nil {
			var convErr *ConversionError
			if errors.As(err, &convErr) {
				return nil, err
			}
			return nil, &ConversionError{Err: err}
		}
		data = converted
		ext = target
	}
	ct, err := contentTypeFor(ext)
	if err != nil {
		return nil, err
	}
	if len(unmatched) > 0 {
		s.deps.Logger.Warn("template tokens without mapping",
			zap.String("document", basename),
			zap.Strings("tokens", unmatched))
	}
	return &GeneratedDocument{
		Bytes:       data,
		ContentType: ct,
		Filename:    fmt.Sprintf("%s.%s", basename, ext),
		Unmatched:   unmatched,
	}, nil
}

func (s *service) GenerateCertificate(ctx context.Context, certificateID uuid.UUID, target string) (*GeneratedDocument, error) {
	cert, err := s.deps.Certificates.GetByID(ctx, certificateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}
	if cert == nil {
		return nil, preconditionf("certificate %s not found", certificateID)
	}
	appt, err := s.deps.Projects.GetAppointment(ctx, cert.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if appt == nil {
		return nil, preconditionf("appointment %s not found", cert.AppointmentID)
	}
	project, err := s.deps.Projects.GetByID(ctx, appt.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, preconditionf("project %s not found", appt.ProjectID)
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}

	placeholders, err := buildCertificatePlaceholders(CertificateInput{
		Profile:     *profile,
		Client:      project.Client,
		Project:     *project,
		Appointment: *appt,
		Certificate: *cert,
	})
	if err != nil {
		return nil, err
	}

	tmpl, err := s.template(ctx, templateCertificate)
	if err != nil {
		return nil, err
	}
	result, err := Rewrite(tmpl, FormatODT, placeholders, nil)
	if err != nil {
		return nil, &TemplateError{Name: templateCertificate, Err: err}
	}
	return s.finish(ctx, result.Bytes, result.Unmatched, "odt", target,
		fmt.Sprintf("certificado-%s", cert.Number))
}

func (s *service) GenerateQuotation(ctx context.Context, quotationID uuid.UUID, target string) (*GeneratedDocument, error) {
	quotation, err := s.deps.Quotations.GetByID(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotation: %w", err)
	}
	if quotation == nil {
		return nil, preconditionf("quotation %s not found", quotationID)
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}

	placeholders, rows := buildQuotationPlaceholders(QuotationInput{
		Profile:   *profile,
		Quotation: *quotation,
	})
	tmpl, err := s.template(ctx, templateQuotation)
	if err != nil {
		return nil, err
	}
	result, err := Rewrite(tmpl, FormatODS, placeholders, &LineItems{
		Anchor: "{descripcion_servicio}",
		Rows:   rows,
	})
	if err != nil {
		return nil, &TemplateError{Name: templateQuotation, Err: err}
	}
	return s.finish(ctx, result.Bytes, result.Unmatched, "ods", target,
		fmt.Sprintf("cotizacion-%04d", quotation.Number))
}

func (s *service) GeneratePurchaseOrder(ctx context.Context, orderID uuid.UUID, target string) (*GeneratedDocument, error) {
	order, err := s.deps.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order: %w", err)
	}
	if order == nil {
		return nil, preconditionf("purchase order %s not found", orderID)
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}

	placeholders, rows, err := buildPurchaseOrderPlaceholders(PurchaseOrderInput{
		Profile: *profile,
		Order:   *order,
	})
	if err != nil {
		return nil, err
	}
	tmpl, err := s.template(ctx, templatePurchaseOrder)
	if err != nil {
		return nil, err
	}
	result, err := Rewrite(tmpl, FormatODS, placeholders, &LineItems{
		Anchor: "{descripcion_producto}",
		Rows:   rows,
	})
	if err != nil {
		return nil, &TemplateError{Name: templatePurchaseOrder, Err: err}
	}
	return s.finish(ctx, result.Bytes, result.Unmatched, "ods", target,
		fmt.Sprintf("orden-compra-%04d", order.Number))
}

func (s *service) GenerateReceipt(ctx context.Context, req ReceiptRequest, target string) (*GeneratedDocument, error) {
	client, err := s.deps.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	if client == nil {
		return nil, preconditionf("client %s not found", req.ClientID)
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return nil, err
	}
	if req.Currency == "" {
		req.Currency = money.PEN
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	placeholders, err := buildReceiptPlaceholders(ReceiptInput{
		Profile:  *profile,
		Client:   *client,
		Number:   req.Number,
		Concept:  req.Concept,
		Amount:   req.Amount,
		Currency: req.Currency,
		Date:     req.Date,
	})
	if err != nil {
		return nil, err
	}
	tmpl, err := s.template(ctx, templateReceipt)
	if err != nil {
		return nil, err
	}
	result, err := Rewrite(tmpl, FormatODT, placeholders, nil)
	if err != nil {
		return nil, &TemplateError{Name: templateReceipt, Err: err}
	}
	return s.finish(ctx, result.Bytes, result.Unmatched, "odt", target,
		fmt.Sprintf("recibo-%s", req.Number))
}
