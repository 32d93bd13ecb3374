// Package relay forwards leads to the external form backend.
package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golperbox/internal/models"
)

const (
	DefaultFormURL    = "https://docs.google.com/forms/d/e/1FAIpQLSfq0de5TGD7Y2Eu5M_qC5-yKt5bXLfeoWyb2x10vWKdyfzIYQ/formResponse"
	DefaultEmailField = "entry.914538286"
	DefaultPhoneField = "entry.402855719"
	DefaultTimeout    = 10 * time.Second
)

// Relay delivers a submission to the form backend.
type Relay interface {
	Submit(ctx context.Context, submission *models.Submission) error
}

type GoogleFormConfig struct {
	URL        string
	EmailField string
	PhoneField string
	Timeout    time.Duration
}

// GoogleFormRelay posts leads as multipart form data. The backend does not
// expose its response, so the response is drained and never inspected; only
// transport failures are reported.
type GoogleFormRelay struct {
	config GoogleFormConfig
	client *http.Client
	tracer trace.Tracer
}

func NewGoogleFormRelay(config GoogleFormConfig) *GoogleFormRelay {
	if config.URL == "" {
		config.URL = DefaultFormURL
	}
	if config.EmailField == "" {
		config.EmailField = DefaultEmailField
	}
	if config.PhoneField == "" {
		config.PhoneField = DefaultPhoneField
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &GoogleFormRelay{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		tracer: otel.Tracer("form-relay"),
	}
}

func (r *GoogleFormRelay) Submit(ctx context.Context, submission *models.Submission) error {
	ctx, span := r.tracer.Start(ctx, "form.relay.submit",
		trace.WithAttributes(
			attribute.String("submission.id", submission.ID.String()),
			attribute.String("operation", "form.relay"),
			attribute.String("form.url", r.config.URL),
		))
	defer span.End()

	body, contentType, err := r.encode(submission.Lead)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to encode form payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.URL, body)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	// Opaque response: drain it so the connection can be reused, ignore
	// the status.
	_, _ = io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (r *GoogleFormRelay) encode(lead models.Lead) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField(r.config.EmailField, lead.Email); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField(r.config.PhoneField, lead.Phone); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
