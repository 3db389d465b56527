package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/edubridge-lk/edubridge-api/models"
	"github.com/google/uuid"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><style>
body { font-family: Helvetica, Arial, sans-serif; margin: 48px; color: #222; }
h1 { font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 8px; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
td, th { text-align: left; padding: 6px 4px; border-bottom: 1px solid #ddd; }
.total { font-weight: bold; }
.meta { color: #666; font-size: 12px; margin-top: 32px; }
</style></head>
<body>
<h1>{{.SiteName}} — Payment Receipt</h1>
<p>Order <b>{{.OrderID}}</b> · {{.Date}}</p>
<p>Billed to: {{.CustomerName}}</p>
<table>
<tr><th>Item</th><th>Amount</th></tr>
{{range .Items}}<tr><td>{{.Title}}</td><td>{{printf "%.2f" .Price}} {{.Currency}}</td></tr>{{end}}
<tr class="total"><td>Total</td><td>{{printf "%.2f" .Total}} {{.Currency}}</td></tr>
</table>
<p class="meta">Payment method: {{.Method}} · Verified at {{.VerifiedAt}}</p>
</body>
</html>`))

// ReceiptService renders a PDF receipt for a completed order and uploads
// it for download from the student site. Everything here is best-effort;
// failures are reported to the caller for logging only.
type ReceiptService struct {
	CloudinaryURL string
	SiteName      string
}

func NewReceiptService(cloudinaryURL, siteName string) *ReceiptService {
	return &ReceiptService{CloudinaryURL: cloudinaryURL, SiteName: siteName}
}

// Generate returns the hosted URL of the rendered receipt.
func (s *ReceiptService) Generate(ctx context.Context, order models.Order, customerName string) (string, error) {
	html, err := s.renderHTML(order, customerName)
	if err != nil {
		return "", fmt.Errorf("render receipt html: %w", err)
	}

	pdfBytes, err := printToPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("print receipt pdf: %w", err)
	}

	url, err := s.upload(ctx, pdfBytes, order.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}
	return url, nil
}

func (s *ReceiptService) renderHTML(order models.Order, customerName string) (string, error) {
	verifiedAt := "-"
	if order.Payment.VerifiedAt != nil {
		verifiedAt = order.Payment.VerifiedAt.Format("January 2, 2006 3:04 PM")
	}

	data := struct {
		SiteName     string
		OrderID      string
		Date         string
		CustomerName string
		Items        []models.OrderItem
		Total        float64
		Currency     string
		Method       string
		VerifiedAt   string
	}{
		SiteName:     s.SiteName,
		OrderID:      order.ID.Hex(),
		Date:         time.Now().Format("January 2, 2006"),
		CustomerName: customerName,
		Items:        order.Items,
		Total:        order.Total,
		Currency:     order.Currency,
		Method:       order.Method,
		VerifiedAt:   verifiedAt,
	}

	var rendered bytes.Buffer
	if err := receiptTmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printToPDF(parent context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func (s *ReceiptService) upload(parent context.Context, fileBytes []byte, orderID string) (string, error) {
	cld, err := cloudinary.NewFromURL(s.CloudinaryURL)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", orderID, uuid.New().String()),
		Folder:       "edubridge_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
