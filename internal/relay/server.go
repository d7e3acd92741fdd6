package relay

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the relay web server
type Server struct {
	client       *Client
	router       *gin.Engine
	logger       *zap.Logger
	telemetryURL string
	commandURL   string
}

// Options configures the relay server.
type Options struct {
	TelemetryURL   string
	CommandURL     string
	Timeout        time.Duration
	AllowedOrigins []string
}

// NewServer creates a new relay server
func NewServer(opts Options, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		client:       NewClient(opts.Timeout),
		router:       router,
		logger:       logger,
		telemetryURL: opts.TelemetryURL,
		commandURL:   opts.CommandURL,
	}

	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	api := router.Group("/api")
	{
		api.GET("/telemetry", s.handleTelemetry)
		api.POST("/command", s.handleCommand)
	}

	return s
}

// Run starts the relay server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		MaxAge:        10 * time.Minute,
		AllowWildcard: true,
	}
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) handleTelemetry(c *gin.Context) {
	if s.telemetryURL == "" {
		s.logger.Error("telemetry url is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server is not configured for telemetry relay",
		})
		return
	}

	body, status := s.client.Forward(c.Request.Context(), http.MethodGet, s.telemetryURL, nil)
	c.JSON(status, body)
}

func (s *Server) handleCommand(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Expected a JSON object body",
		})
		return
	}

	cmdType, ok := payload["type"].(string)
	if !ok || strings.TrimSpace(cmdType) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Field 'type' must be a non-empty string",
		})
		return
	}
	value, ok := payload["value"]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Field 'value' is required",
		})
		return
	}

	if s.commandURL == "" {
		s.logger.Error("command url is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Server is not configured for command relay",
		})
		return
	}

	forward := map[string]any{
		"type":  strings.TrimSpace(cmdType),
		"value": value,
	}
	body, status := s.client.Forward(c.Request.Context(), http.MethodPost, s.commandURL, forward)
	c.JSON(status, body)
}
