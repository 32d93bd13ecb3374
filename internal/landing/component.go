// Package landing holds the Coming Soon page component: the countdown it
// displays and the lead form it submits.
package landing

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golperbox/internal/countdown"
	"golperbox/internal/metrics"
	"golperbox/internal/models"
	"golperbox/internal/notify"
)

var ErrAlreadyMounted = errors.New("component already mounted")

type Subscriber interface {
	Subscribe(ctx context.Context, lead models.Lead) error
}

// View is a copy of the component state for rendering.
type View struct {
	Email    string
	Phone    string
	TimeLeft models.CountdownState
	Launched bool
}

// Component owns its fields and changes them only through its own methods.
// The countdown goroutine and a submission may run at the same time, so
// every field access goes through mu.
type Component struct {
	mu       sync.Mutex
	email    string
	phone    string
	timeLeft models.CountdownState
	launched bool

	engine     *countdown.Engine
	subscriber Subscriber
	notifier   notify.Notifier
	metrics    *metrics.Registry
	onTick     func(models.CountdownState, bool)
	tracer     trace.Tracer

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Component)

// WithTickObserver is called with every countdown state while mounted,
// after the component has stored it.
func WithTickObserver(fn func(state models.CountdownState, launched bool)) Option {
	return func(c *Component) {
		c.onTick = fn
	}
}

func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Component) {
		c.metrics = reg
	}
}

func WithInput(lead models.Lead) Option {
	return func(c *Component) {
		c.email = lead.Email
		c.phone = lead.Phone
	}
}

func NewComponent(engine *countdown.Engine, subscriber Subscriber, notifier notify.Notifier, opts ...Option) *Component {
	c := &Component{
		engine:     engine,
		subscriber: subscriber,
		notifier:   notifier,
		tracer:     otel.Tracer("landing-component"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Component) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.email = email
}

func (c *Component) SetPhone(phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phone = phone
}

func (c *Component) Input() models.Lead {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Lead{Email: c.email, Phone: c.phone}
}

func (c *Component) TimeLeft() models.CountdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeLeft
}

func (c *Component) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Email:    c.email,
		Phone:    c.phone,
		TimeLeft: c.timeLeft,
		Launched: c.launched,
	}
}

// Refresh recomputes the time left once without mounting.
func (c *Component) Refresh() {
	state, launched := c.engine.Snapshot()
	c.setTimeLeft(state, launched)
}

func (c *Component) setTimeLeft(state models.CountdownState, launched bool) {
	c.mu.Lock()
	c.timeLeft = state
	c.launched = launched
	c.mu.Unlock()
}

// Submit validates the current input and relays it. Validation and
// transport failures become error notices and keep the input; success
// clears both fields.
func (c *Component) Submit(ctx context.Context) error {
	lead := c.Input()

	err := c.subscriber.Subscribe(ctx, lead)

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.notifier.NotifyError(ctx, verr.Message)
	case err != nil:
		c.notifier.NotifyError(ctx, models.RelayFailedMessage)
	default:
		c.notifier.NotifySuccess(ctx, models.SubscribedMessage)
		c.mu.Lock()
		c.email = ""
		c.phone = ""
		c.mu.Unlock()
	}

	return err
}

// Mount starts the countdown. It keeps running until launch or Unmount.
func (c *Component) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.CountdownSessions.Inc()
	}

	go func() {
		defer close(done)

		_, span := c.tracer.Start(ctx, "countdown.session",
			trace.WithAttributes(
				attribute.String("operation", "countdown.session"),
				attribute.String("countdown.target", c.engine.Target().String()),
			))
		defer span.End()

		ticks := 0
		c.engine.Run(ctx, func(state models.CountdownState, launched bool) {
			ticks++
			c.setTimeLeft(state, launched)
			if c.metrics != nil {
				c.metrics.CountdownTicks.Inc()
			}
			if c.onTick != nil {
				c.onTick(state, launched)
			}
		})

		span.SetAttributes(attribute.Int("countdown.ticks", ticks))
	}()

	return nil
}

// Done is closed when the countdown of a mounted component has stopped,
// either at launch or after Unmount. It is nil before Mount.
func (c *Component) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Unmount stops the countdown and waits for it, so no tick is observed after
// it returns. A submission in flight is not cancelled.
func (c *Component) Unmount() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	if c.metrics != nil {
		c.metrics.CountdownSessions.Dec()
	}
}
