package api

import (
	"log/slog"
	"net/http"

	"github.com/albertium/FlexPricer/config"
	"github.com/gin-gonic/gin"
)

// Server serves HTTP requests for the pricing service.
type Server struct {
	cfg    *config.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(cfg *config.Server, logger *slog.Logger) *Server {
	server := &Server{cfg: cfg, logger: logger.With("module", "api")}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), server.requestLogger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := router.Group("/v1").Use(server.authentication)
	authRoutes.POST("/price", server.price)
	authRoutes.POST("/greeks", server.greeks)
	authRoutes.POST("/curvature", server.curvature)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	server.logger.Info("listening", "address", address)
	return server.router.Run(address)
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.router.ServeHTTP(w, r)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}
