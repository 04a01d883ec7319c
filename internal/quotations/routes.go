package quotations

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Save)
	r.Post("/preview", h.Preview)
	r.Get("/by-number/{number}", h.ShowByNumber)
	r.Get("/{id}", h.Show)
	r.Post("/{id}/send", h.Send)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/email", h.Email)
	r.Get("/{id}/pdf", h.ExportPDF)
}
