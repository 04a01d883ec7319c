package quotations

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vantage-admin/vantage-admin/internal/export"
	"github.com/vantage-admin/vantage-admin/internal/platform/httpx"
	"github.com/vantage-admin/vantage-admin/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	renderer *export.PDFRenderer
}

func NewHandler(logger *slog.Logger, service *Service, renderer *export.PDFRenderer) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		renderer: renderer,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListQuotationsRequest{Limit: 50}

	if v := r.URL.Query().Get("status"); v != "" {
		s := Status(v)
		if !s.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status "+v)
			return
		}
		req.Status = &s
	}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer_id")
			return
		}
		req.CustomerID = &id
	}
	req.DateFrom = parseDate(r.URL.Query().Get("date_from"))
	req.DateTo = parseDate(r.URL.Query().Get("date_to"))
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			req.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			req.Offset = n
		}
	}

	quotations, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list quotations", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	page := 1
	if req.Limit > 0 {
		page = req.Offset/req.Limit + 1
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"quotations": quotations,
		"pagination": shared.NewPagination(page, req.Limit, total),
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	q, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Save handles both creation and in-place replacement: identity is the
// quote number carried in the payload.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	actor := shared.ActorFromContext(r.Context())
	q, err := h.service.Save(r.Context(), req, actor.UserID)
	if err != nil {
		h.logger.Error("save quotation", slog.Any("error", err))
		httpx.Problem(w, http.StatusUnprocessableEntity, "Save Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Preview computes totals without persisting anything.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.Preview(req))
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.service.Send)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.service.Reject)
}

// ExportPDF streams the rendered document. Export preconditions are
// checked here, not inside the pricing core.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	q, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.service.ValidateForExport(q); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Export Blocked", err.Error())
		return
	}

	pdf, err := h.renderer.RenderQuotation(q.Document.ToQuotationExport())
	if err != nil {
		h.logger.Error("render quotation pdf", slog.String("quote_number", q.QuoteNumber), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+q.QuoteNumber+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// ShowByNumber resolves a quotation by its natural key, the quote number.
func (h *Handler) ShowByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	q, err := h.service.GetByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation not found")
		} else {
			h.logger.Error("get quotation by number", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Email queues outbound delivery of the rendered quotation.
func (h *Handler) Email(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation ID")
		return
	}
	var req EmailQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Email(r.Context(), id, req.To, req.Subject); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation not found")
		case errors.Is(err, ErrExportBlocked):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Export Blocked", err.Error())
		default:
			h.logger.Error("email quotation", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (*Quotation, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation ID")
		return
	}
	q, err := fn(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation not found")
		case errors.Is(err, ErrInvalidStatus):
			httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
		default:
			h.logger.Error("quotation transition", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*Quotation, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation ID")
		return nil, false
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "quotation not found")
		} else {
			h.logger.Error("get quotation", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return nil, false
	}
	return q, true
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}
