package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golperbox/internal/logging"
	"golperbox/internal/metrics"
	"golperbox/internal/models"
	"golperbox/internal/relay"
)

// SubscriptionService validates a lead and relays it once. There is no
// retry and no de-duplication: submitting the same lead twice relays it
// twice.
type SubscriptionService struct {
	relay   relay.Relay
	metrics *metrics.Registry
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewSubscriptionService(relay relay.Relay, metrics *metrics.Registry, logger *logging.ContextLogger) *SubscriptionService {
	return &SubscriptionService{
		relay:   relay,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer("subscription-service"),
	}
}

// Subscribe returns a *models.ValidationError when the lead is rejected
// locally and a *models.TransportError when the backend could not be
// reached.
func (s *SubscriptionService) Subscribe(ctx context.Context, lead models.Lead) error {
	ctx, span := s.tracer.Start(ctx, "subscription.service.subscribe")
	defer span.End()

	if err := lead.Validate(); err != nil {
		var verr *models.ValidationError
		errors.As(err, &verr)

		s.logger.InfoWithTracing(ctx, "Rejected subscription", logrus.Fields{
			"field": verr.Field,
		})
		span.SetAttributes(
			attribute.String("validation.field", verr.Field),
			attribute.Bool("success", false),
		)
		if verr.Field == models.FieldEmail {
			s.metrics.RecordSubscription(metrics.OutcomeInvalidEmail)
		} else {
			s.metrics.RecordSubscription(metrics.OutcomeInvalidPhone)
		}
		return err
	}

	submission := models.NewSubmission(lead)
	span.SetAttributes(attribute.String("submission.id", submission.ID.String()))

	s.logger.InfoWithTracing(ctx, "Relaying subscription", logrus.Fields{
		"submission_id": submission.ID.String(),
	})

	start := time.Now()
	err := s.relay.Submit(ctx, submission)
	s.metrics.RelayDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.ErrorWithTracing(ctx, "Failed to relay subscription", err, logrus.Fields{
			"submission_id": submission.ID.String(),
		})
		span.RecordError(err)
		s.metrics.RecordSubscription(metrics.OutcomeTransportError)
		if !models.IsTransportError(err) {
			err = &models.TransportError{Err: err}
		}
		return err
	}

	s.logger.InfoWithTracing(ctx, "Successfully relayed subscription", logrus.Fields{
		"submission_id": submission.ID.String(),
	})
	span.SetAttributes(attribute.Bool("success", true))
	s.metrics.RecordSubscription(metrics.OutcomeSubscribed)

	return nil
}
