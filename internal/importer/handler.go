package importer

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vantage-admin/vantage-admin/internal/platform/httpx"
	"github.com/vantage-admin/vantage-admin/internal/pricing"
	"github.com/vantage-admin/vantage-admin/internal/quotations"
	"github.com/vantage-admin/vantage-admin/internal/shared"
)

const maxWorkbookSize = 10 << 20 // 10 MiB

type Handler struct {
	logger          *slog.Logger
	service         *quotations.Service
	defaultCurrency string
	defaultVATRate  float64
}

func NewHandler(logger *slog.Logger, service *quotations.Service, defaultCurrency string, defaultVATRate float64) *Handler {
	if defaultCurrency == "" {
		defaultCurrency = "SAR"
	}
	return &Handler{
		logger:          logger,
		service:         service,
		defaultCurrency: defaultCurrency,
		defaultVATRate:  defaultVATRate,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/quotations", h.ImportQuotations)
}

// ImportQuotations accepts an Excel workbook and creates one draft
// quotation per distinct customer found in it.
func (h *Handler) ImportQuotations(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxWorkbookSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed multipart body")
		return
	}
	file, _, err := r.FormFile("workbook")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing workbook file")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	currency := r.FormValue("currency")
	if currency == "" {
		currency = h.defaultCurrency
	}

	result, err := Parse(file)
	if err != nil {
		h.logger.Error("parse workbook", slog.Any("error", err))
		httpx.Problem(w, http.StatusUnprocessableEntity, "Import Failed", err.Error())
		return
	}

	actor := shared.ActorFromContext(r.Context())
	now := time.Now()

	created := make([]string, 0, len(result.Groups))
	for _, group := range result.Groups {
		taxRate := h.defaultVATRate
		req := quotations.SaveQuotationRequest{
			Customer:   pricing.CustomerRef{Name: group.CustomerName},
			IssueDate:  now,
			ValidUntil: now.AddDate(0, 1, 0),
			Currency:   currency,
			LineItems:  toLineItemInputs(group.Items),
			TaxRate:    &taxRate,
		}
		q, err := h.service.Save(r.Context(), req, actor.UserID)
		if err != nil {
			h.logger.Error("save imported quotation",
				slog.String("customer", group.CustomerName), slog.Any("error", err))
			httpx.Problem(w, http.StatusUnprocessableEntity, "Import Failed", err.Error())
			return
		}
		created = append(created, q.QuoteNumber)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"quotations": created,
		"total_rows": result.TotalRows,
		"skipped":    result.Skipped,
	})
}

func toLineItemInputs(items []pricing.LineItem) []quotations.LineItemInput {
	out := make([]quotations.LineItemInput, 0, len(items))
	for _, li := range items {
		out = append(out, quotations.LineItemInput{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Unit:        li.Unit,
			PartNumber:  li.PartNumber,
		})
	}
	return out
}
