// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pethealth-commerce/internal/config"
	"github.com/your-org/pethealth-commerce/internal/domain/order"
)

// Service renders purchase receipts as PDF
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt renders a PDF receipt for a completed purchase
func (s *Service) GenerateReceipt(ord *order.Order) (*bytes.Buffer, error) {
	data := receiptData{
		StoreName:   s.config.App.StoreName,
		OrderNumber: ord.OrderNumber,
		Date:        ord.CreatedAt.Format("January 2, 2006"),
		Category:    ord.Category,
		Items:       ord.Items,
		Total:       ord.TotalAmount,
		Currency:    ord.Currency,
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"money": func(cents int64) string {
			return fmt.Sprintf("%.2f", float64(cents)/100)
		},
		"subtotal": func(item order.OrderItem) int64 {
			return item.UnitPrice * int64(item.Quantity)
		},
	}).Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// receiptData is the data passed to the receipt template
type receiptData struct {
	StoreName   string
	OrderNumber string
	Date        string
	Category    string
	Items       []order.OrderItem
	Total       int64
	Currency    string
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.OrderNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #333; padding-bottom: 10px; margin-bottom: 20px; }
        .header h1 { margin: 0; font-size: 22px; }
        .meta { margin-bottom: 20px; font-size: 13px; }
        table { width: 100%; border-collapse: collapse; font-size: 13px; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
        th { background-color: #f5f5f5; }
        .amount { text-align: right; }
        .total-row td { font-weight: bold; border-top: 2px solid #333; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.StoreName}}</h1>
    </div>
    <div class="meta">
        <div>Receipt: {{.OrderNumber}}</div>
        <div>Date: {{.Date}}</div>
        <div>Category: {{.Category}}</div>
    </div>
    <table>
        <tr>
            <th>Product</th>
            <th>Qty</th>
            <th class="amount">Unit Price</th>
            <th class="amount">Amount</th>
        </tr>
        {{range .Items}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Quantity}}</td>
            <td class="amount">{{money .UnitPrice}}</td>
            <td class="amount">{{money (subtotal .)}}</td>
        </tr>
        {{end}}
        <tr class="total-row">
            <td colspan="3">Total ({{.Currency}})</td>
            <td class="amount">{{money .Total}}</td>
        </tr>
    </table>
</body>
</html>
`
