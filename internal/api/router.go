package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facegate/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facegate/internal/camera"
	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/events"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider"
	"github.com/saturnino-fabrica-de-software/facegate/internal/repository"
	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
	"github.com/saturnino-fabrica-de-software/facegate/internal/stream"
	"github.com/saturnino-fabrica-de-software/facegate/internal/ws"
)

type Dependencies struct {
	Config       *config.Config
	IdentityRepo *repository.IdentityRepository
	Detector     provider.FaceDetector
	DB           *pgxpool.Pool
}

type Router struct {
	app           *fiber.App
	logger        *slog.Logger
	deps          *Dependencies
	rateLimiter   *middleware.RateLimiter
	wsHub         *ws.Hub
	cancelHub     context.CancelFunc
	cancelGallery context.CancelFunc
	cancelCamera  context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Facegate API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler(r.deps.DB)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/v1")

	// WebSocket hub carries the live decision/registration feed
	r.wsHub = ws.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	r.cancelHub = hubCancel
	go r.wsHub.Run(hubCtx)

	sink := ws.NewSink(r.wsHub)
	bus := events.NewBus(sink)

	// Gallery snapshot, refreshed in the background
	gallery := service.NewGalleryCache(r.deps.IdentityRepo, r.logger)
	if err := gallery.Refresh(context.Background()); err != nil {
		r.logger.Warn("initial gallery load failed", "error", err)
	}
	galleryCtx, galleryCancel := context.WithCancel(context.Background())
	r.cancelGallery = galleryCancel
	go gallery.Run(galleryCtx)

	// Decision engine
	registrar := service.NewRegistrar(r.deps.IdentityRepo, gallery, sink, r.logger)
	previewBuffer := stream.NewBuffer()
	annotator := stream.NewAnnotator(previewBuffer, r.logger)
	pipeline := service.NewPipeline(r.deps.Detector, gallery, registrar, bus, r.logger).
		WithZone(r.deps.Config.Zone).
		WithFrameSink(annotator)

	// Optional snapshot-polling camera feeding the same pipeline
	if r.deps.Config.CameraURL != "" {
		poller := camera.NewPoller(r.deps.Config.CameraURL, r.deps.Config.CameraInterval, pipeline, r.logger)
		cameraCtx, cameraCancel := context.WithCancel(context.Background())
		r.cancelCamera = cameraCancel
		go poller.Run(cameraCtx)
	}

	// Websocket feed (observers don't need the API key)
	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))

	// Everything else behind the static API key
	v1.Use(middleware.Auth(r.deps.Config.APIKey))

	r.rateLimiter = middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	v1.Use(r.rateLimiter.Handler())

	identityHandler := handler.NewIdentityHandler(r.deps.IdentityRepo, gallery, r.wsHub, r.logger)
	v1.Get("/identities", identityHandler.List)
	v1.Delete("/identities/:name", identityHandler.Delete)
	v1.Put("/identities/:name/name", identityHandler.Rename)
	v1.Put("/identities/:name/access-window", identityHandler.UpdateAccessWindow)
	v1.Get("/identities/:name/thumbnail", identityHandler.Thumbnail)

	registrationHandler := handler.NewRegistrationHandler(registrar, r.logger)
	v1.Post("/registrations", registrationHandler.Start)

	frameHandler := handler.NewFrameHandler(pipeline, r.logger)
	v1.Post("/frames", frameHandler.Process)

	eventsHandler := handler.NewEventsHandler(bus)
	v1.Get("/events", eventsHandler.List)

	v1.Get("/stream", stream.MJPEGHandler(previewBuffer))
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelCamera != nil {
		r.cancelCamera()
	}

	if r.cancelGallery != nil {
		r.cancelGallery()
	}

	if r.cancelHub != nil {
		r.cancelHub()
	}

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
