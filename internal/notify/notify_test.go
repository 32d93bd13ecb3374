package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"golperbox/internal/logging"
	"golperbox/internal/models"
)

func TestRecorderKeepsOrder(t *testing.T) {
	r := NewRecorder()
	r.NotifyError(context.Background(), "first")
	r.NotifySuccess(context.Background(), "second")

	assert.Equal(t, []models.Notice{
		{Kind: models.NoticeError, Text: "first"},
		{Kind: models.NoticeSuccess, Text: "second"},
	}, r.Notices())
}

func TestRecorderEmpty(t *testing.T) {
	notices := NewRecorder().Notices()
	assert.NotNil(t, notices)
	assert.Empty(t, notices)
}

func TestMultiAndLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithOutput(&buf, logrus.InfoLevel)
	recorder := NewRecorder()

	n := Multi(recorder, NewLogNotifier(logger))
	n.NotifySuccess(context.Background(), models.SubscribedMessage)
	n.NotifyError(context.Background(), models.RelayFailedMessage)

	assert.Len(t, recorder.Notices(), 2)
	assert.Contains(t, buf.String(), models.SubscribedMessage)
	assert.Contains(t, buf.String(), `"notice":"error"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
