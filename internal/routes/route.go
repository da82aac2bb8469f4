package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/container"
	"github.com/joshua-takyi/eventhub/internal/handlers"
	"github.com/joshua-takyi/eventhub/internal/middleware"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "eventhub-api"

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(corsConfig(container.Config.CORSAllowOrigins)))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(container.Metrics.Middleware())
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/health", handlers.Health(serviceName, container.HealthChecks()))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/")
	if container.RateLimiter != nil {
		api.Use(container.RateLimiter.Middleware())
	}

	registerEntity(api, "/events", container.EventService)
	registerEntity(api, "/attendees", container.AttendeeService)
	registerEntity(api, "/venues", container.VenueService)
	registerEntity(api, "/bookings", container.BookingService)

	maxBytes := container.Config.MaxUploadBytes
	api.POST("/upload_event_poster/:event_id", handlers.UploadMedia(container.MediaService, models.EventPosterKind, maxBytes))
	api.GET("/download_event_poster/:id", handlers.DownloadMedia(container.MediaService, models.EventPosterKind))
	api.POST("/upload_promo_video/:event_id", handlers.UploadMedia(container.MediaService, models.PromoVideoKind, maxBytes))
	api.GET("/download_promo_video/:id", handlers.DownloadMedia(container.MediaService, models.PromoVideoKind))
	api.POST("/upload_venue_photo/:venue_id", handlers.UploadMedia(container.MediaService, models.VenuePhotoKind, maxBytes))
	api.GET("/download_venue_photo/:id", handlers.DownloadMedia(container.MediaService, models.VenuePhotoKind))

	return r
}

func registerEntity[T models.Record](rg *gin.RouterGroup, path string, es *services.EntityService[T]) {
	g := rg.Group(path)
	{
		g.POST("", handlers.CreateEntity(es))
		g.GET("", handlers.ListEntities(es))
		g.PUT("/:id", handlers.UpdateEntity(es))
		g.DELETE("/:id", handlers.DeleteEntity(es))
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
