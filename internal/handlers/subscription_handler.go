package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golperbox/internal/landing"
	"golperbox/internal/logging"
	"golperbox/internal/models"
	"golperbox/internal/notify"
)

// SubscriptionHandler is the JSON form endpoint used by scripted clients.
type SubscriptionHandler struct {
	factory *landing.Factory
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewSubscriptionHandler(factory *landing.Factory, logger *logging.ContextLogger) *SubscriptionHandler {
	return &SubscriptionHandler{
		factory: factory,
		logger:  logger,
		tracer:  otel.Tracer("subscription-handler"),
	}
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "subscription.handler.create")
	defer span.End()

	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		h.logger.ErrorWithTracing(ctx, "Invalid request payload", err, logrus.Fields{
			"endpoint": "POST /subscriptions",
		})
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recorder := notify.NewRecorder()
	component := h.factory.New(recorder, landing.WithInput(lead))
	err := component.Submit(ctx)

	input := component.Input()
	resp := models.SubscribeResponse{
		Email:   input.Email,
		Phone:   input.Phone,
		Notices: recorder.Notices(),
	}

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Status = "invalid"
		resp.Field = verr.Field
	case err != nil:
		resp.Status = "failed"
		span.RecordError(err)
	default:
		resp.Status = "subscribed"
	}

	status := statusFor(err)
	h.logger.InfoWithTracing(ctx, "Handled subscription request", logrus.Fields{
		"status":   resp.Status,
		"endpoint": "POST /subscriptions",
	})
	span.SetAttributes(
		attribute.String("subscription.status", resp.Status),
		attribute.Bool("success", err == nil),
	)

	c.JSON(status, resp)
}
