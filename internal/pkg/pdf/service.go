// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/user"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string        `json:"invoiceNumber"`
	InvoiceDate   string        `json:"invoiceDate"`
	OrderDate     string        `json:"orderDate"`
	Status        string        `json:"status"`
	Currency      string        `json:"currency"`
	Customer      CustomerInfo  `json:"customer"`
	Company       CompanyInfo   `json:"company"`
	Lines         []InvoiceLine `json:"lines"`
	Total         string        `json:"total"`
}

// CustomerInfo is the billed party
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// InvoiceLine is one rendered order line; amounts are preformatted
type InvoiceLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

// InvoiceNumber derives the invoice number of an order
func InvoiceNumber(o *order.Order) string {
	return fmt.Sprintf("INV-%s-%06d", o.CreatedAt.UTC().Format("20060102"), o.ID)
}

// BuildInvoice collects the template data for an order. The order must have
// its products loaded.
func (s *Service) BuildInvoice(o *order.Order, customer *user.User) InvoiceData {
	data := InvoiceData{
		InvoiceNumber: InvoiceNumber(o),
		InvoiceDate:   s.now().UTC().Format("January 2, 2006"),
		OrderDate:     o.CreatedAt.UTC().Format("January 2, 2006"),
		Status:        o.Status.String(),
		Currency:      s.config.Store.Currency,
		Customer: CustomerInfo{
			Address: o.Address,
		},
		Company: CompanyInfo{
			Name:    s.config.Store.Name,
			Address: s.config.Store.Address,
			Email:   s.config.Store.Email,
		},
		Lines: make([]InvoiceLine, 0, len(o.Products)),
		Total: o.NetAmount.StringFixed(2),
	}
	if customer != nil {
		data.Customer.Name = customer.Name
		data.Customer.Email = customer.Email
	}

	for i := range o.Products {
		line := &o.Products[i]
		description := fmt.Sprintf("Product #%d", line.ProductID)
		if line.Product != nil {
			description = line.Product.Name
		}
		data.Lines = append(data.Lines, InvoiceLine{
			Description: description,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price.StringFixed(2),
			Amount:      line.LineTotal().StringFixed(2),
		})
	}

	return data
}

// RenderHTML renders the invoice template
func (s *Service) RenderHTML(data InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateInvoice renders the order invoice to PDF with wkhtmltopdf
func (s *Service) GenerateInvoice(o *order.Order, customer *user.User) ([]byte, error) {
	htmlContent, err := s.RenderHTML(s.BuildInvoice(o, customer))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; }
        .meta td { padding: 2px 12px 2px 0; }
        table.lines { width: 100%; border-collapse: collapse; margin-top: 20px; }
        table.lines th { background: #f3f4f6; text-align: left; padding: 8px; }
        table.lines td { border-bottom: 1px solid #eee; padding: 8px; }
        .num { text-align: right; }
        .total { font-size: 18px; font-weight: bold; text-align: right; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="invoice-title">INVOICE</div>
        <div>{{.Company.Name}}</div>
        <div>{{.Company.Address}}</div>
        <div>{{.Company.Email}}</div>
    </div>

    <table class="meta">
        <tr><td>Invoice</td><td>{{.InvoiceNumber}}</td></tr>
        <tr><td>Invoice date</td><td>{{.InvoiceDate}}</td></tr>
        <tr><td>Order date</td><td>{{.OrderDate}}</td></tr>
        <tr><td>Status</td><td>{{.Status}}</td></tr>
    </table>

    <h3>Bill to</h3>
    <div>{{.Customer.Name}}</div>
    <div>{{.Customer.Email}}</div>
    <div>{{.Customer.Address}}</div>

    <table class="lines">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr>
        </thead>
        <tbody>
        {{range .Lines}}
            <tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Amount}}</td></tr>
        {{end}}
        </tbody>
    </table>

    <div class="total">Total: {{.Total}} {{.Currency}}</div>
</body>
</html>
`
