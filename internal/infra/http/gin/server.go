package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"booknblock/internal/infra/config"
	"booknblock/internal/infra/obs"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
}

type PropertyHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	AddManager(c *gin.Context)
	RemoveManager(c *gin.Context)
}

type BlockHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	UpdateDates(c *gin.Context)
	UpdateGuests(c *gin.Context)
	Rebook(c *gin.Context)
	Delete(c *gin.Context)
	Get(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Property       PropertyHTTP
	Block          BlockHTTP
	Booking        BookingHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Property != nil {
		api.POST("/properties", h.Property.Create)
		api.GET("/properties/:id", h.Property.Get)
		api.POST("/properties/:id/managers", h.Property.AddManager)
		api.DELETE("/properties/:id/managers/:userId", h.Property.RemoveManager)
	}
	if h.Block != nil {
		api.POST("/blocks", h.Block.Create)
		api.PUT("/blocks/:id", h.Block.Update)
		api.DELETE("/blocks/:id", h.Block.Delete)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.PATCH("/bookings/:id/dates", h.Booking.UpdateDates)
		api.PUT("/bookings/:id/guests", h.Booking.UpdateGuests)
		api.POST("/bookings/:id/rebook", h.Booking.Rebook)
		api.DELETE("/bookings/:id", h.Booking.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var (
	_ AuthHTTP     = AuthHandler{}
	_ PropertyHTTP = PropertyHandler{}
	_ BlockHTTP    = BlockHandler{}
	_ BookingHTTP  = BookingHandler{}
)
