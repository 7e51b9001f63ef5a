package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"booknblock/internal/app/auth"
	"booknblock/internal/app/availability"
	"booknblock/internal/app/blocks"
	"booknblock/internal/app/bookings"
	"booknblock/internal/app/policies"
	"booknblock/internal/app/properties"
	domainblock "booknblock/internal/domain/block"
	domainbooking "booknblock/internal/domain/booking"
	domainproperty "booknblock/internal/domain/property"
	domainuser "booknblock/internal/domain/user"
	"booknblock/internal/infra/broker/kafka"
	"booknblock/internal/infra/config"
	mongodb "booknblock/internal/infra/db/mongo"
	ginserver "booknblock/internal/infra/http/gin"
	"booknblock/internal/infra/lock"
	"booknblock/internal/infra/obs"
	"booknblock/internal/infra/security"
	"booknblock/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application build failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.SeedDemoData {
		if err := app.seedDemoData(ctx, logger); err != nil {
			logger.Warn("demo data seed failed", "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	ready    func() error

	users      domainuser.Repository
	properties domainproperty.Repository
	blocks     domainblock.Repository
	bookings   domainbooking.Repository
	passwords  auth.PasswordHasher
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, func(), error) {
	app := &application{ready: func() error { return nil }}
	cleanup := func() {}

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		app.users = mongodb.NewUserRepository(client.DB)
		app.properties = mongodb.NewPropertyRepository(client.DB)
		app.blocks = mongodb.NewBlockRepository(client.DB)
		app.bookings = mongodb.NewBookingRepository(client.DB)
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("storage: mongo", "db", cfg.MongoDB)
	} else {
		app.users = memory.NewUserRepository()
		app.properties = memory.NewPropertyRepository()
		app.blocks = memory.NewBlockRepository()
		app.bookings = memory.NewBookingRepository()
		logger.Info("storage: in-memory")
	}

	var locker policies.PropertyLocker
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		locker = lock.NewRedisLocker(client, cfg.LockTTL)
		logger.Info("property lock: redis", "addr", cfg.RedisAddr)
	} else {
		locker = lock.NewMemoryLocker()
		logger.Info("property lock: in-process")
	}

	var publisher policies.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			return nil, nil, err
		}
		publisher = producer
		cleanup = func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		}
		logger.Info("events: kafka", "topic", cfg.KafkaTopic)
	}

	app.passwords = security.BcryptHasher{}
	tokens := security.JWTIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	authService := &auth.Service{
		Users:     app.users,
		Passwords: app.passwords,
		Tokens:    tokens,
		Logger:    logger,
	}

	validator := availability.Validator{Blocks: app.blocks, Bookings: app.bookings}
	blockService := &blocks.Service{
		Properties: app.properties,
		Blocks:     app.blocks,
		Validator:  validator,
		Locker:     locker,
		Publisher:  publisher,
		Logger:     logger,
	}
	bookingService := &bookings.Service{
		Users:      app.users,
		Properties: app.properties,
		Bookings:   app.bookings,
		Validator:  validator,
		Locker:     locker,
		Publisher:  publisher,
		Logger:     logger,
	}
	propertyService := &properties.Service{
		Properties: app.properties,
		Users:      app.users,
		Logger:     logger,
	}

	app.handlers = ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService},
		Property:       ginserver.PropertyHandler{Service: propertyService},
		Block:          ginserver.BlockHandler{Service: blockService},
		Booking:        ginserver.BookingHandler{Service: bookingService},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	return app, cleanup, nil
}

// seedDemoData provisions a known owner, manager and guest plus one property,
// mirroring the demo dataset the service has always shipped with. Existing
// records are left alone so reseeding is safe.
func (a *application) seedDemoData(ctx context.Context, logger *slog.Logger) error {
	if _, err := a.users.ByEmail(ctx, "ricardo.cervo@example.com"); err == nil {
		return nil
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return err
	}
	owner, err := a.seedUser(ctx, "Ricardo Cervo", "ricardo.cervo@example.com", "pass1234")
	if err != nil {
		return err
	}
	manager, err := a.seedUser(ctx, "Alexa Richmond", "alexa.richmond@example.com", "pass1234")
	if err != nil {
		return err
	}
	if _, err := a.seedUser(ctx, "Jordan Hughes", "jordan.hughes@example.com", "pass1234"); err != nil {
		return err
	}

	prop, err := domainproperty.NewProperty(domainproperty.CreateParams{
		ID:          domainproperty.ID(uuid.NewString()),
		OwnerID:     owner.ID,
		Name:        "Beach House",
		Location:    "Florianopolis",
		Description: "Two-bedroom house a block from the beach",
	})
	if err != nil {
		return err
	}
	prop.AddManager(manager.ID, time.Now())
	if err := a.properties.Save(ctx, prop); err != nil {
		return err
	}
	logger.Info("demo data seeded", "property_id", prop.ID, "owner", owner.Email, "manager", manager.Email)
	return nil
}

func (a *application) seedUser(ctx context.Context, name, email, password string) (*domainuser.User, error) {
	if existing, err := a.users.ByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	hash, err := a.passwords.Hash(password)
	if err != nil {
		return nil, err
	}
	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	if err := a.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
