package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRenderQuotationPDF renders a saved quotation snapshot to PDF.
	TaskRenderQuotationPDF = "quotation:render_pdf"
	// TaskEmailQuotation emails a rendered quotation to the customer.
	TaskEmailQuotation = "quotation:email"
)

// RenderQuotationPDFPayload identifies the quotation to render. The worker
// reloads the persisted snapshot; nothing pricing-related travels in the
// payload.
type RenderQuotationPDFPayload struct {
	QuotationID int64  `json:"quotation_id"`
	QuoteNumber string `json:"quote_number"`
}

// NewRenderQuotationPDFTask constructs an Asynq task for PDF rendering.
func NewRenderQuotationPDFTask(payload RenderQuotationPDFPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRenderQuotationPDF, data, asynq.Queue(QueueDefault)), nil
}

// EmailQuotationPayload describes the outbound quotation email.
type EmailQuotationPayload struct {
	QuotationID int64  `json:"quotation_id"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
}

// NewEmailQuotationTask constructs an Asynq task for quotation email.
func NewEmailQuotationTask(payload EmailQuotationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailQuotation, data, asynq.Queue(QueueDefault)), nil
}
