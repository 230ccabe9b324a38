package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/usecase"
)

const senderName = "Stock Manager"

// sender is the part of *sendgrid.Client the reporter uses
type sender interface {
	Send(email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridReporter delivers run reports by email. It implements domain.ReportSender.
type SendGridReporter struct {
	client sender
	from   string
	to     []string
}

// NewSendGridReporter creates a reporter sending from one address to every address in to
func NewSendGridReporter(apiKey, from string, to []string) *SendGridReporter {
	return &SendGridReporter{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}
}

// SendStockReport mails the outcome of a reconciliation run
func (r *SendGridReporter) SendStockReport(ctx context.Context, result *domain.StockUpdateResult) error {
	mode := "LIVE"
	if result.DryRun {
		mode = "DRY RUN"
	}
	subject := fmt.Sprintf("[Stock] %s: %d zero-stock products, %d drafted, %d failed",
		mode, result.Summary.TotalFound, result.Summary.SuccessfulUpdates, result.Summary.FailedUpdates)

	html, err := render(stockReportTemplate, result)
	if err != nil {
		return err
	}
	return r.send(subject, usecase.FormatReport(result), html)
}

// SendActivationReport mails the outcome of a bulk activation run
func (r *SendGridReporter) SendActivationReport(ctx context.Context, result *domain.ActivationResult) error {
	subject := fmt.Sprintf("[Stock] Activation: %d of %d products activated",
		result.Summary.Activated, result.Summary.Requested)

	html, err := render(activationReportTemplate, result)
	if err != nil {
		return err
	}
	return r.send(subject, usecase.FormatActivationReport(result), html)
}

// SendFailure mails a run that aborted before producing a report
func (r *SendGridReporter) SendFailure(ctx context.Context, operation string, runErr error) error {
	subject := fmt.Sprintf("[Stock] %s failed", operation)
	text := fmt.Sprintf("%s failed: %v\n", operation, runErr)

	html, err := render(failureTemplate, map[string]string{"Operation": operation, "Error": runErr.Error()})
	if err != nil {
		return err
	}
	return r.send(subject, text, html)
}

func (r *SendGridReporter) send(subject, text, html string) error {
	if r.from == "" || len(r.to) == 0 {
		return fmt.Errorf("%w: sender and recipients are required", domain.ErrReportDelivery)
	}

	personalization := sgmail.NewPersonalization()
	for _, address := range r.to {
		personalization.AddTos(sgmail.NewEmail("", address))
	}

	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(senderName, r.from))
	message.Subject = subject
	message.AddPersonalizations(personalization)
	message.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", html),
	)

	response, err := r.client.Send(message)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrReportDelivery, err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[Mail] SendGrid rejected report: status=%d body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("%w: status=%d", domain.ErrReportDelivery, response.StatusCode)
	}

	log.Printf("[Mail] Report sent: status=%d to=%v subject=%q", response.StatusCode, r.to, subject)
	return nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: rendering %s: %w", domain.ErrReportDelivery, tmpl.Name(), err)
	}
	return buf.String(), nil
}

var stockReportTemplate = template.Must(template.New("stock").Parse(`
<h2>{{if .DryRun}}Dry run{{else}}Live run{{end}} {{.RunID}}</h2>
{{if not .ProductsFound}}<p>No active products found with zero stock.</p>{{else}}
<p>{{.Summary.TotalFound}} active products with no stock, {{.Summary.ExcludedCount}} excluded, {{.Summary.EligibleCount}} eligible.</p>
{{if not .DryRun}}<p>Drafted: {{.Summary.SuccessfulUpdates}}. Failed: {{.Summary.FailedUpdates}}.</p>{{end}}
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>ID</th><th>Title</th><th>Stock</th><th>Sources</th><th></th></tr>
{{range .ProductsFound}}<tr><td>{{.ID}}</td><td>{{.Title}}</td><td>{{.TotalStock}}</td><td>{{.StockSources.AgreementStatus}}</td><td>{{if .IsExcluded}}excluded{{end}}</td></tr>
{{end}}</table>{{end}}
{{with .UpdateResults}}<h3>Updates</h3><ul>
{{range .}}<li>{{.Title}} ({{.ProductID}}): {{if .Success}}{{if .Error}}{{.Error}}{{else}}drafted{{end}}{{else}}FAILED {{.Error}}{{end}}</li>
{{end}}</ul>{{end}}
{{with .Discrepancies}}<h3>Stock source disagreements</h3><ul>
{{range .}}<li>{{.Title}} ({{.ID}}) {{.StockSources.AgreementStatus}}: inventory levels {{.StockSources.InventoryLevels}}, variant quantities {{.StockSources.VariantQuantities}}</li>
{{end}}</ul>{{end}}
`))

var activationReportTemplate = template.Must(template.New("activation").Parse(`
<h2>{{if .DryRun}}Dry run{{else}}Activation{{end}} {{.RunID}}</h2>
<p>Requested {{.Summary.Requested}}, activated {{.Summary.Activated}}, failed {{.Summary.Failed}}.</p>
<ul>
{{range .UpdateResults}}<li>{{.Title}} ({{.ProductID}}): {{if .Success}}ok{{else}}FAILED {{.Error}}{{end}}</li>
{{end}}</ul>
`))

var failureTemplate = template.Must(template.New("failure").Parse(`
<h2>{{.Operation}} failed</h2>
<pre>{{.Error}}</pre>
`))
