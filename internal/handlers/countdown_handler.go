package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"golperbox/internal/landing"
	"golperbox/internal/logging"
	"golperbox/internal/models"
	"golperbox/internal/notify"
)

const wsWriteTimeout = 5 * time.Second

type CountdownHandler struct {
	factory  *landing.Factory
	upgrader websocket.Upgrader
	logger   *logging.ContextLogger
	tracer   trace.Tracer
}

func NewCountdownHandler(factory *landing.Factory, logger *logging.ContextLogger) *CountdownHandler {
	return &CountdownHandler{
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
		tracer: otel.Tracer("countdown-handler"),
	}
}

func (h *CountdownHandler) response(state models.CountdownState, launched bool) models.CountdownResponse {
	return models.CountdownResponse{
		Target:         h.factory.Engine().Target(),
		Launched:       launched,
		CountdownState: state,
	}
}

func (h *CountdownHandler) GetCountdown(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "countdown.handler.get")
	defer span.End()

	state, launched := h.factory.Engine().Snapshot()
	c.JSON(http.StatusOK, h.response(state, launched))
}

// StreamCountdown mounts one component per WebSocket connection and pushes
// every tick. The component is unmounted when the client goes away or the
// countdown reaches launch.
func (h *CountdownHandler) StreamCountdown(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.ErrorWithTracing(ctx, "Failed to upgrade countdown stream", err, logrus.Fields{
			"endpoint": "GET /countdown/ws",
		})
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The read loop only notices the client closing the connection.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	component := h.factory.New(notify.NewRecorder(), landing.WithTickObserver(func(state models.CountdownState, launched bool) {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(h.response(state, launched)); err != nil {
			cancel()
		}
	}))

	if err := component.Mount(ctx); err != nil {
		h.logger.ErrorWithTracing(ctx, "Failed to mount countdown", err, nil)
		return
	}

	h.logger.InfoWithTracing(ctx, "Countdown stream opened", logrus.Fields{
		"remote_addr": c.Request.RemoteAddr,
	})

	select {
	case <-ctx.Done():
	case <-component.Done():
	}
	component.Unmount()

	reason := "client gone"
	if component.View().Launched {
		reason = "launched"
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(wsWriteTimeout))

	h.logger.InfoWithTracing(ctx, "Countdown stream closed", logrus.Fields{
		"reason": reason,
	})
}
