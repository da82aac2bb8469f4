package container

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/eventhub/internal/config"
	"github.com/joshua-takyi/eventhub/internal/connect"
	"github.com/joshua-takyi/eventhub/internal/middleware"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/security"
	"github.com/joshua-takyi/eventhub/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	Config *config.Config

	// Database clients
	MongoDBClient *mongo.Client
	RedisClient   *redis.Client

	EventService    *services.EntityService[models.Event]
	AttendeeService *services.EntityService[models.Attendee]
	VenueService    *services.EntityService[models.Venue]
	BookingService  *services.EntityService[models.Booking]
	MediaService    *services.MediaService

	// RateLimiter is nil when no Redis instance is configured.
	RateLimiter *security.RateLimiter

	Registry *prometheus.Registry
	Metrics  *middleware.HTTPMetrics
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	mongoDBClient *mongo.Client,
	redisClient *redis.Client,
) *Container {
	// Initialize repositories
	mongoRepo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBDatabase)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Container{
		Logger:          logger,
		Config:          cfg,
		MongoDBClient:   mongoDBClient,
		RedisClient:     redisClient,
		EventService:    services.NewEntityService[models.Event](models.EventEntity, mongoRepo.EntityStore(models.EventEntity)),
		AttendeeService: services.NewEntityService[models.Attendee](models.AttendeeEntity, mongoRepo.EntityStore(models.AttendeeEntity)),
		VenueService:    services.NewEntityService[models.Venue](models.VenueEntity, mongoRepo.EntityStore(models.VenueEntity)),
		BookingService:  services.NewEntityService[models.Booking](models.BookingEntity, mongoRepo.EntityStore(models.BookingEntity)),
		MediaService:    services.NewMediaService(mongoRepo, logger),
		Registry:        reg,
		Metrics:         middleware.NewHTTPMetrics(reg),
	}

	if redisClient != nil {
		c.RateLimiter = security.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, logger)
	}
	return c
}

// HealthChecks returns a check per backing store.
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"mongodb": func(ctx context.Context) error {
			return connect.MongoDBHealthCheck(ctx, c.MongoDBClient)
		},
	}
	if c.RedisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return connect.RedisHealthCheck(ctx, c.RedisClient)
		}
	}
	return checks
}

// Close releases the store clients.
func (c *Container) Close() {
	if err := connect.MongoDBDisconnect(c.MongoDBClient); err != nil {
		c.Logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	if err := connect.RedisDisconnect(c.RedisClient); err != nil {
		c.Logger.Error("Error closing Redis", "error", err)
	}
}
