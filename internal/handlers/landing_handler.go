package handlers

import (
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
	"golperbox/internal/web"
)

// LandingHandler serves the HTML page and its plain form post.
type LandingHandler struct {
	factory *landing.Factory
	site    web.Site
	logger  *logging.ContextLogger
	tracer  trace.Tracer
}

func NewLandingHandler(factory *landing.Factory, site web.Site, logger *logging.ContextLogger) *LandingHandler {
	return &LandingHandler{
		factory: factory,
		site:    site,
		logger:  logger,
		tracer:  otel.Tracer("landing-handler"),
	}
}

func (h *LandingHandler) ShowPage(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "landing.handler.show")
	defer span.End()

	component := h.factory.New(notify.NewRecorder())
	component.Refresh()

	h.render(c, http.StatusOK, component, nil)
}

func (h *LandingHandler) Subscribe(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "landing.handler.subscribe")
	defer span.End()

	var lead models.Lead
	if err := c.ShouldBind(&lead); err != nil {
		h.logger.ErrorWithTracing(ctx, "Invalid form post", err, logrus.Fields{
			"endpoint": "POST /subscribe",
		})
		span.RecordError(err)
		c.String(http.StatusBadRequest, "invalid form submission")
		return
	}

	recorder := notify.NewRecorder()
	component := h.factory.New(recorder, landing.WithInput(lead))
	err := component.Submit(ctx)
	component.Refresh()

	status := statusFor(err)
	span.SetAttributes(
		attribute.Int("http.response.status", status),
		attribute.Bool("success", err == nil),
	)

	h.render(c, status, component, recorder.Notices())
}

func (h *LandingHandler) render(c *gin.Context, status int, component *landing.Component, notices []models.Notice) {
	year := h.factory.Engine().Clock().Now().Year()
	c.HTML(status, web.PageTemplate, web.NewPage(h.site, component.View(), notices, year))
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case models.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
