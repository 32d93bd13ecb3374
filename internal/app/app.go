package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"golperbox/internal/countdown"
	"golperbox/internal/handlers"
	"golperbox/internal/landing"
	"golperbox/internal/logging"
	"golperbox/internal/metrics"
	"golperbox/internal/relay"
	"golperbox/internal/service"
	"golperbox/internal/web"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Port           string
	Logger         *logging.ContextLogger
	TracerProvider trace.TracerProvider
	GinMode        string

	LaunchTarget time.Time
	TickInterval time.Duration
	Clock        countdown.Clock // defaults to the system clock
	Site         web.Site
	Form         relay.GoogleFormConfig
	Relay        relay.Relay // overrides Form when set
	Metrics      *metrics.Registry
}

type Application struct {
	server  *http.Server
	config  *Config
	router  *gin.Engine
	metrics *metrics.Registry
	engine  *countdown.Engine
	service *service.SubscriptionService
	factory *landing.Factory
}

func Build(config *Config) *Application {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	var formRelay relay.Relay
	if config.Relay != nil {
		formRelay = config.Relay
	} else {
		formRelay = relay.NewGoogleFormRelay(config.Form)
	}

	registry := config.Metrics
	if registry == nil {
		registry = metrics.NewRegistry()
	}

	engineOpts := []countdown.Option{countdown.WithInterval(config.TickInterval)}
	if config.Clock != nil {
		engineOpts = append(engineOpts, countdown.WithClock(config.Clock))
	}
	engine := countdown.NewEngine(config.LaunchTarget, engineOpts...)

	subscriptionService := service.NewSubscriptionService(formRelay, registry, config.Logger)
	factory := landing.NewFactory(engine, subscriptionService, registry)

	landingHandler := handlers.NewLandingHandler(factory, config.Site, config.Logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(factory, config.Logger)
	countdownHandler := handlers.NewCountdownHandler(factory, config.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(config.ServiceName, otelgin.WithTracerProvider(config.TracerProvider)))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		config.Logger.WithTracing(c.Request.Context()).WithFields(map[string]interface{}{
			"method":     method,
			"path":       path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}).Info("HTTP request completed")
	})

	router.SetHTMLTemplate(web.Templates())
	router.StaticFS("/assets", web.Assets())

	router.GET("/", landingHandler.ShowPage)
	router.POST("/subscribe", landingHandler.Subscribe)

	api := router.Group("/api/v1")
	{
		api.POST("/subscriptions", subscriptionHandler.CreateSubscription)

		countdownGroup := api.Group("/countdown")
		{
			countdownGroup.GET("", countdownHandler.GetCountdown)
			countdownGroup.GET("/ws", countdownHandler.StreamCountdown)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   config.ServiceName,
			"version":   config.ServiceVersion,
		})
	})
	router.GET("/metrics", gin.WrapH(registry.Handler()))

	server := &http.Server{
		Addr:    ":" + config.Port,
		Handler: router,
	}

	return &Application{
		server:  server,
		config:  config,
		router:  router,
		metrics: registry,
		engine:  engine,
		service: subscriptionService,
		factory: factory,
	}
}

func (app *Application) Run() error {
	app.config.Logger.Info("Starting server on :" + app.config.Port)
	if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.config.Logger.Info("Shutting down server...")
	return app.server.Shutdown(ctx)
}

func (app *Application) GetMetrics() *metrics.Registry {
	return app.metrics
}

func (app *Application) GetEngine() *countdown.Engine {
	return app.engine
}

func (app *Application) GetService() *service.SubscriptionService {
	return app.service
}

func (app *Application) GetFactory() *landing.Factory {
	return app.factory
}

func (app *Application) GetRouter() *gin.Engine {
	return app.router
}
