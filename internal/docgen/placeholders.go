package docgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/certificates"
	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
	"github.com/digitales-2024/perucontrol-sub003/internal/purchaseorders"
	"github.com/digitales-2024/perucontrol-sub003/internal/quotations"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

// PlaceholderMap is an ordered token → replacement mapping. Substitution
// tries tokens in insertion order, so more specific tokens must be set
// before any token they share a prefix with.
type PlaceholderMap struct {
	tokens []string
	values map[string]string
}

func NewPlaceholderMap() *PlaceholderMap {
	return &PlaceholderMap{values: make(map[string]string)}
}

// Set adds or overwrites a token. A token keeps its original position
// when set again.
func (m *PlaceholderMap) Set(token, value string) {
	if _, ok := m.values[token]; !ok {
		m.tokens = append(m.tokens, token)
	}
	m.values[token] = value
}

func (m *PlaceholderMap) Get(token string) (string, bool) {
	v, ok := m.values[token]
	return v, ok
}

// Tokens returns the tokens in insertion order.
func (m *PlaceholderMap) Tokens() []string {
	return m.tokens
}

func (m *PlaceholderMap) Len() int {
	return len(m.tokens)
}

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDateLong renders the certificate-facing form, "2 de enero de 2025".
func FormatDateLong(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// FormatDateShort renders the numeric form used everywhere else.
func FormatDateShort(t time.Time) string {
	return t.Format("02/01/2006")
}

// serviceMarkers maps certificate checkbox tokens to the keyword that
// selects them from the project's service names. Keywords are accent-free
// stems so both accented and plain spellings match.
var serviceMarkers = []struct {
	token   string
	keyword string
}{
	{"{serv_fumigacion}", "fumigaci"},
	{"{serv_desinfeccion}", "desinfecci"},
	{"{serv_desinsectacion}", "desinsectaci"},
	{"{serv_desratizacion}", "desratizaci"},
	{"{serv_limpieza_tanques}", "tanque"},
}

func setServiceMarkers(m *PlaceholderMap, services []string) {
	for _, marker := range serviceMarkers {
		mark := ""
		for _, name := range services {
			if strings.Contains(strings.ToLower(name), marker.keyword) {
				mark = "X"
				break
			}
		}
		m.Set(marker.token, mark)
	}
}

func setProfilePlaceholders(m *PlaceholderMap, profile business.Profile) {
	m.Set("{razon_social_empresa}", profile.Name)
	m.Set("{ruc_empresa}", profile.TaxID)
	m.Set("{direccion_empresa}", profile.Address)
	m.Set("{telefono_empresa}", profile.Phone)
	m.Set("{correo_empresa}", profile.Email)
	m.Set("{nro_digesa}", profile.DigesaNumber)
	m.Set("{banco}", profile.BankName)
	m.Set("{cuenta_bancaria}", profile.BankAccount)
	m.Set("{cci_bancario}", profile.BankCCI)
	m.Set("{director_tecnico}", profile.TechnicalDirector)
}

func setClientPlaceholders(m *PlaceholderMap, client clients.Client) {
	m.Set("{nombre_cliente}", client.DisplayName())
	m.Set("{ruc_cliente}", client.TaxID)
	m.Set("{direccion_cliente}", client.Address)
	m.Set("{contacto_cliente}", client.ContactName)
}

// CertificateInput carries everything the certificate template needs.
// The builder never loads data itself.
type CertificateInput struct {
	Profile     business.Profile
	Client      clients.Client
	Project     projects.Project
	Appointment projects.Appointment
	Certificate certificates.Certificate
}

func buildCertificatePlaceholders(in CertificateInput) (*PlaceholderMap, error) {
	if in.Appointment.ActualDate == nil {
		return nil, preconditionf("appointment %s has no service date", in.Appointment.ID)
	}

	m := NewPlaceholderMap()
	setProfilePlaceholders(m, in.Profile)
	setClientPlaceholders(m, in.Client)
	m.Set("{nro_certificado}", in.Certificate.Number)
	m.Set("{direccion_servicio}", in.Project.Address)
	m.Set("{area_tratada}", money.Format(in.Project.Area))
	m.Set("{ambientes}", in.Project.Ambients)
	m.Set("{operario}", in.Appointment.Operator)
	m.Set("{fecha_servicio}", FormatDateLong(*in.Appointment.ActualDate))
	m.Set("{fecha_vencimiento}", FormatDateLong(in.Certificate.ExpiryDate))
	setServiceMarkers(m, in.Project.ServiceNames())
	return m, nil
}

// QuotationInput carries the quotation aggregate with its lines already
// loaded.
type QuotationInput struct {
	Profile   business.Profile
	Quotation quotations.Quotation
}

func buildQuotationPlaceholders(in QuotationInput) (*PlaceholderMap, []*PlaceholderMap) {
	q := in.Quotation
	m := NewPlaceholderMap()
	setProfilePlaceholders(m, in.Profile)
	setClientPlaceholders(m, q.Client)
	m.Set("{nro_cotizacion}", fmt.Sprintf("%04d", q.Number))
	m.Set("{fecha_emision}", FormatDateShort(q.IssueDate))
	m.Set("{fecha_vencimiento}", FormatDateShort(q.ExpiryDate))
	m.Set("{condiciones_pago}", q.PaymentTerms)
	m.Set("{observaciones}", q.Notes)
	m.Set("{moneda}", q.Currency.LongName())
	m.Set("{simbolo_moneda}", q.Currency.Symbol())
	m.Set("{subtotal}", money.Format(q.Subtotal))
	m.Set("{igv}", money.Format(q.Tax))
	m.Set("{total}", money.Format(q.Total))

	rows := make([]*PlaceholderMap, 0, len(q.Lines))
	for i, line := range q.Lines {
		r := NewPlaceholderMap()
		r.Set("{nro_item_servicio}", fmt.Sprintf("%d", i+1))
		r.Set("{descripcion_servicio}", line.Description)
		r.Set("{cantidad_servicio}", money.Format(line.Quantity))
		r.Set("{precio_servicio}", money.Format(line.UnitPrice))
		r.Set("{total_servicio}", money.Format(line.Amount))
		rows = append(rows, r)
	}
	return m, rows
}

// PurchaseOrderInput carries the order aggregate with its product lines.
type PurchaseOrderInput struct {
	Profile business.Profile
	Order   purchaseorders.PurchaseOrder
}

func buildPurchaseOrderPlaceholders(in PurchaseOrderInput) (*PlaceholderMap, []*PlaceholderMap, error) {
	o := in.Order
	totalWords, err := money.InWords(o.Total, o.Currency)
	if err != nil {
		return nil, nil, preconditionf("order %04d total: %v", o.Number, err)
	}

	m := NewPlaceholderMap()
	setProfilePlaceholders(m, in.Profile)
	m.Set("{nro_orden}", fmt.Sprintf("%04d", o.Number))
	m.Set("{fecha_emision}", FormatDateShort(o.IssueDate))
	m.Set("{nombre_proveedor}", o.Provider.DisplayName())
	m.Set("{ruc_proveedor}", o.Provider.TaxID)
	m.Set("{direccion_proveedor}", o.Provider.Address)
	m.Set("{lugar_entrega}", o.DeliveryAddr)
	m.Set("{condiciones_pago}", o.PaymentTerms)
	m.Set("{moneda}", o.Currency.LongName())
	m.Set("{simbolo_moneda}", o.Currency.Symbol())
	m.Set("{subtotal}", money.Format(o.Subtotal))
	m.Set("{igv}", money.Format(o.Tax))
	m.Set("{total}", money.Format(o.Total))
	m.Set("{total_en_letras}", totalWords)

	rows := make([]*PlaceholderMap, 0, len(o.Products))
	for i, p := range o.Products {
		r := NewPlaceholderMap()
		r.Set("{nro_item_producto}", fmt.Sprintf("%d", i+1))
		r.Set("{descripcion_producto}", p.Description)
		r.Set("{unidad_producto}", p.Unit)
		r.Set("{cantidad_producto}", money.Format(p.Quantity))
		r.Set("{precio_unitario_producto}", money.Format(p.UnitPrice))
		r.Set("{total_producto}", money.Format(p.Amount))
		rows = append(rows, r)
	}
	return m, rows, nil
}

// ReceiptInput describes an income receipt. Receipts are not persisted,
// the caller supplies the data directly.
type ReceiptInput struct {
	Profile  business.Profile
	Client   clients.Client
	Number   string
	Concept  string
	Amount   float64
	Currency money.Currency
	Date     time.Time
}

func buildReceiptPlaceholders(in ReceiptInput) (*PlaceholderMap, error) {
	if in.Amount <= 0 {
		return nil, preconditionf("receipt amount must be positive")
	}
	amountWords, err := money.InWords(in.Amount, in.Currency)
	if err != nil {
		return nil, preconditionf("receipt amount: %v", err)
	}

	m := NewPlaceholderMap()
	setProfilePlaceholders(m, in.Profile)
	setClientPlaceholders(m, in.Client)
	m.Set("{nro_recibo}", in.Number)
	m.Set("{concepto}", in.Concept)
	m.Set("{monto}", money.Format(in.Amount))
	m.Set("{monto_en_letras}", amountWords)
	m.Set("{simbolo_moneda}", in.Currency.Symbol())
	m.Set("{fecha}", FormatDateLong(in.Date))
	return m, nil
}
