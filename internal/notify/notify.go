// Package notify is the user-facing notice surface of the landing page.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"golperbox/internal/logging"
	"golperbox/internal/models"
)

type Notifier interface {
	NotifySuccess(ctx context.Context, text string)
	NotifyError(ctx context.Context, text string)
}

// Recorder keeps notices so a handler can render them with its response.
type Recorder struct {
	mu      sync.Mutex
	notices []models.Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NotifySuccess(_ context.Context, text string) {
	r.add(models.NoticeSuccess, text)
}

func (r *Recorder) NotifyError(_ context.Context, text string) {
	r.add(models.NoticeError, text)
}

func (r *Recorder) add(kind models.NoticeKind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, models.Notice{Kind: kind, Text: text})
}

func (r *Recorder) Notices() []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notice{}, r.notices...)
}

// LogNotifier writes notices through the structured logger; the CLI uses it
// in place of a toast.
type LogNotifier struct {
	logger *logging.ContextLogger
}

func NewLogNotifier(logger *logging.ContextLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifySuccess(ctx context.Context, text string) {
	n.logger.InfoWithTracing(ctx, text, logrus.Fields{"notice": models.NoticeSuccess})
}

func (n *LogNotifier) NotifyError(ctx context.Context, text string) {
	n.logger.WarnWithTracing(ctx, text, logrus.Fields{"notice": models.NoticeError})
}

type multi []Notifier

// Multi fans every notice out to all notifiers in order.
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}

func (m multi) NotifySuccess(ctx context.Context, text string) {
	for _, n := range m {
		n.NotifySuccess(ctx, text)
	}
}

func (m multi) NotifyError(ctx context.Context, text string) {
	for _, n := range m {
		n.NotifyError(ctx, text)
	}
}
