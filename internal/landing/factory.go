package landing

import (
	"golperbox/internal/countdown"
	"golperbox/internal/metrics"
	"golperbox/internal/notify"
)

// Factory builds components that share one engine and subscriber. Each
// request or connection gets its own component.
type Factory struct {
	engine     *countdown.Engine
	subscriber Subscriber
	metrics    *metrics.Registry
}

func NewFactory(engine *countdown.Engine, subscriber Subscriber, metrics *metrics.Registry) *Factory {
	return &Factory{
		engine:     engine,
		subscriber: subscriber,
		metrics:    metrics,
	}
}

func (f *Factory) New(notifier notify.Notifier, opts ...Option) *Component {
	opts = append([]Option{WithMetrics(f.metrics)}, opts...)
	return NewComponent(f.engine, f.subscriber, notifier, opts...)
}

func (f *Factory) Engine() *countdown.Engine {
	return f.engine
}
