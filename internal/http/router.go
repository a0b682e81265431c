// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// rate limiting, CORS, security headers, compression, bearer authentication
// and content negotiation.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/cityinfo-api/docs"
	"github.com/tbourn/cityinfo-api/internal/config"
	"github.com/tbourn/cityinfo-api/internal/http/handlers"
	"github.com/tbourn/cityinfo-api/internal/http/middleware"
	"github.com/tbourn/cityinfo-api/internal/services"
)

// Every point-of-interest request must carry city=London.
const (
	cityClaim = "city"
	cityValue = "London"
)

// multipartOverhead is the allowance on top of the upload cap for the
// multipart envelope (boundaries, part headers).
const multipartOverhead int64 = 1 << 20

// Deps are the storage-facing dependencies the API's services are built on.
type Deps struct {
	// Repos opens one unit of work per service call (GORM or memory store).
	Repos services.RepositoryFactory
	// Notifier receives the point-of-interest deletion notices. May be nil.
	Notifier services.Notifier
	// Files persists uploads.
	Files services.FileStore
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// API under cfg.APIBasePath, <base>/v1 and <base>/v2.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. ContextLogger: request-scoped zerolog logger
//  4. RedactingLogger: structured access logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Metrics
//  7. Rate limiter (per IP; /health, /metrics and /swagger exempt)
//  8. CORS and security headers
//  9. Gzip
//
// Body limits, authentication, the per-subject rate limit and Accept checks
// are applied per route group.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) error {
	secret, err := middleware.DecodeSecret(cfg.Auth.SecretForKey)
	if err != nil {
		return fmt.Errorf("auth secret: %w", err)
	}

	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Request-scoped logger for handlers and services
	r.Use(middleware.ContextLogger())

	// 4) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	r.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP()).
		Exempt("/health", "/metrics", "/swagger/").
		Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		HSTS:          cfg.Security.EnableHSTS,
		HSTSMaxAge:    cfg.Security.HSTSMaxAge,
		BrowserPolicy: true,
		ExposeHeaders: []string{handlers.PaginationHeader, "Location"},
		Vary:          []string{"Accept"},
	}))

	// 9) Compression; the metrics handler compresses on its own
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repositories/notifier/file store
	h := handlers.New(
		services.NewCityService(deps.Repos),
		services.NewPointOfInterestService(deps.Repos, deps.Notifier, cfg.Mail.Timeout),
		services.NewFileService(cfg.Files.DemoPath, deps.Files, cfg.Files.MaxUploadBytes),
	)

	// perSubject holds one bucket per token subject across all route groups.
	api := apiRoutes{
		h:          h,
		auth:       middleware.Authenticate(middleware.AuthOptions{Secret: secret, Issuer: cfg.Auth.Issuer, Audience: cfg.Auth.Audience}),
		perSubject: middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySubjectOrIP()).Handler(),
		negotiate:  middleware.AcceptNegotiation(),
		bodyMax:    cfg.MaxBodyBytes,
		fileMax:    cfg.Files.MaxUploadBytes + multipartOverhead,
	}

	base := groupWithPrefix(r, cfg.APIBasePath)
	api.mount(base, h.ListCities)
	api.mount(base.Group("/v1"), h.ListCitiesV1)
	api.mount(base.Group("/v2"), h.ListCities)
	return nil
}

// apiRoutes mounts one copy of the public API on a route group.
type apiRoutes struct {
	h          *handlers.Handlers
	auth       gin.HandlerFunc
	perSubject gin.HandlerFunc
	negotiate  gin.HandlerFunc
	bodyMax    int64
	fileMax    int64
}

func (a apiRoutes) mount(g *gin.RouterGroup, listCities gin.HandlerFunc) {
	cities := g.Group("/cities", a.negotiate, limitBody(a.bodyMax))
	{
		cities.GET("", listCities)
		cities.GET("/:cityId", a.h.GetCity)
	}

	// Points of interest: bearer token with city=London
	pois := cities.Group("/:cityId/pointsofinterest", a.auth, middleware.RequireClaim(cityClaim, cityValue), a.perSubject, middleware.NoStore())
	{
		pois.GET("", a.h.ListPointsOfInterest)
		pois.POST("", a.h.CreatePointOfInterest)
		pois.GET("/:id", a.h.GetPointOfInterest)
		pois.PUT("/:id", a.h.UpdatePointOfInterest)
		pois.PATCH("/:id", a.h.PatchPointOfInterest)
		pois.DELETE("/:id", a.h.DeletePointOfInterest)
	}

	// Files serve PDFs, so no Accept check on the download.
	files := g.Group("/files")
	{
		files.GET("/:fileId", a.h.GetFile)
		files.POST("", limitBody(a.fileMax), a.h.UploadFile)
	}
}

// corsMiddleware returns allow-all CORS when origins is empty and an
// allowlist otherwise.
func corsMiddleware(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", handlers.PaginationHeader, "Location"},
		AllowCredentials: false, // must remain false with AllowAllOrigins
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	return cors.New(conf)
}

// limitBody returns a Gin middleware that caps the request body size to
// maxBytes using http.MaxBytesReader. Requests exceeding the cap will cause
// downstream body reads to error. A non-positive cap disables the limit.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
