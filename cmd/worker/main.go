package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/vantage-admin/vantage-admin/internal/app"
	"github.com/vantage-admin/vantage-admin/internal/export"
	"github.com/vantage-admin/vantage-admin/internal/mail"
	"github.com/vantage-admin/vantage-admin/internal/platform/db"
	"github.com/vantage-admin/vantage-admin/internal/quotations"
	"github.com/vantage-admin/vantage-admin/jobs"
)

type mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	quotationRepo := quotations.NewRepository(pool)
	renderer := export.NewPDFRenderer(cfg.CompanyName)

	var sender mailer
	if cfg.SMTPAddr != "" {
		sender = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRenderQuotationPDF, Handler: renderQuotationPDF(quotationRepo, renderer, logger)},
			{Type: jobs.TaskEmailQuotation, Handler: emailQuotation(quotationRepo, renderer, sender, logger)},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// renderQuotationPDF reloads the persisted snapshot and renders it. The
// output currently lands next to the binary; object storage can replace
// this without touching the render path.
func renderQuotationPDF(repo quotations.Repository, renderer *export.PDFRenderer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload jobs.RenderQuotationPDFPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		q, err := repo.Get(ctx, payload.QuotationID)
		if err != nil {
			if errors.Is(err, quotations.ErrNotFound) {
				return asynq.SkipRetry
			}
			return err
		}
		data, err := renderer.RenderQuotation(q.Document.ToQuotationExport())
		if err != nil {
			return err
		}
		name := q.QuoteNumber + ".pdf"
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return err
		}
		logger.Info("quotation pdf rendered",
			slog.String("quote_number", q.QuoteNumber), slog.String("file", name))
		return nil
	}
}

// emailQuotation renders the quotation and hands it to the SMTP relay. With
// no relay configured the job is dropped with a warning rather than retried
// into a dead queue.
func emailQuotation(repo quotations.Repository, renderer *export.PDFRenderer, sender mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload jobs.EmailQuotationPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if sender == nil {
			logger.Warn("smtp relay not configured, quotation email dropped",
				slog.Int64("quotation_id", payload.QuotationID), slog.String("to", payload.To))
			return nil
		}
		q, err := repo.Get(ctx, payload.QuotationID)
		if err != nil {
			if errors.Is(err, quotations.ErrNotFound) {
				return asynq.SkipRetry
			}
			return err
		}
		data, err := renderer.RenderQuotation(q.Document.ToQuotationExport())
		if err != nil {
			return err
		}
		err = sender.Send(ctx, mail.Message{
			To:             payload.To,
			Subject:        payload.Subject,
			Body:           fmt.Sprintf("Please find attached quotation %s.", q.QuoteNumber),
			Attachment:     data,
			AttachmentName: q.QuoteNumber + ".pdf",
		})
		if err != nil {
			return err
		}
		logger.Info("quotation email sent",
			slog.String("quote_number", q.QuoteNumber), slog.String("to", payload.To))
		return nil
	}
}
