package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golperbox/internal/logging"
	"golperbox/internal/metrics"
	"golperbox/internal/models"
)

type fakeRelay struct {
	mu          sync.Mutex
	submissions []*models.Submission
	err         error
}

func (f *fakeRelay) Submit(_ context.Context, submission *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, submission)
	return f.err
}

func (f *fakeRelay) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

func newService(r *fakeRelay) (*SubscriptionService, *metrics.Registry) {
	reg := metrics.NewRegistry()
	logger := logging.NewLoggerWithOutput(io.Discard, logrus.InfoLevel)
	return NewSubscriptionService(r, reg, logger), reg
}

func TestSubscribeRejectsEmailWithoutAt(t *testing.T) {
	relay := &fakeRelay{}
	svc, reg := newService(relay)

	err := svc.Subscribe(context.Background(), models.Lead{Email: "nouser", Phone: "12345"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.FieldEmail, verr.Field)
	assert.Zero(t, relay.calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Subscriptions.WithLabelValues(metrics.OutcomeInvalidEmail)))
}

func TestSubscribeChecksEmailBeforePhone(t *testing.T) {
	relay := &fakeRelay{}
	svc, _ := newService(relay)

	err := svc.Subscribe(context.Background(), models.Lead{Email: "nouser", Phone: ""})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.FieldEmail, verr.Field)
	assert.Zero(t, relay.calls())
}

func TestSubscribeRejectsEmptyPhone(t *testing.T) {
	relay := &fakeRelay{}
	svc, reg := newService(relay)

	err := svc.Subscribe(context.Background(), models.Lead{Email: "a@b.com"})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.FieldPhone, verr.Field)
	assert.Equal(t, models.InvalidPhoneMessage, verr.Message)
	assert.Zero(t, relay.calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Subscriptions.WithLabelValues(metrics.OutcomeInvalidPhone)))
}

func TestSubscribeRelaysOnce(t *testing.T) {
	relay := &fakeRelay{}
	svc, reg := newService(relay)

	require.NoError(t, svc.Subscribe(context.Background(), models.Lead{Email: "a@b.com", Phone: "12345"}))

	require.Equal(t, 1, relay.calls())
	assert.Equal(t, models.Lead{Email: "a@b.com", Phone: "12345"}, relay.submissions[0].Lead)
	assert.NotEmpty(t, relay.submissions[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Subscriptions.WithLabelValues(metrics.OutcomeSubscribed)))
	assert.Equal(t, 1, testutil.CollectAndCount(reg.RelayDuration))
}

func TestSubscribeDoesNotDeduplicate(t *testing.T) {
	relay := &fakeRelay{}
	svc, _ := newService(relay)

	lead := models.Lead{Email: "a@b.com", Phone: "12345"}
	require.NoError(t, svc.Subscribe(context.Background(), lead))
	require.NoError(t, svc.Subscribe(context.Background(), lead))

	assert.Equal(t, 2, relay.calls())
	assert.NotEqual(t, relay.submissions[0].ID, relay.submissions[1].ID)
}

func TestSubscribeTransportFailure(t *testing.T) {
	relay := &fakeRelay{err: &models.TransportError{Err: errors.New("connection refused")}}
	svc, reg := newService(relay)

	err := svc.Subscribe(context.Background(), models.Lead{Email: "a@b.com", Phone: "12345"})

	assert.True(t, models.IsTransportError(err))
	assert.Equal(t, 1, relay.calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Subscriptions.WithLabelValues(metrics.OutcomeTransportError)))
}

func TestSubscribeWrapsOtherRelayErrors(t *testing.T) {
	relay := &fakeRelay{err: errors.New("encode failed")}
	svc, _ := newService(relay)

	err := svc.Subscribe(context.Background(), models.Lead{Email: "a@b.com", Phone: "12345"})

	assert.True(t, models.IsTransportError(err))
	assert.ErrorContains(t, err, "encode failed")
}
