// Package web serves the project dashboard: server-rendered HTML plus the
// JSON API the page and external tooling share.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecthub/internal/store"
	"projecthub/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*.css
var staticFS embed.FS

// Server is the dashboard web server
type Server struct {
	store  *store.Store
	router *gin.Engine
	logger *zap.Logger
	now    func() time.Time
}

// NewServer creates a new web server
func NewServer(st *store.Store, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		store:  st,
		router: router,
		logger: logger,
		now:    time.Now,
	}

	router.Use(s.requestLogger())

	// Load templates
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")))
	router.StaticFS("/static", staticHTTPFS())

	// Web routes
	router.GET("/", s.handleDashboard)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/data", s.handleAPIData)
		api.GET("/db-health", s.handleAPIDBHealth)
		api.GET("/project", s.handleAPIProject)
		api.PUT("/project", s.handleAPIUpdateProject)
		api.GET("/development_progress", s.handleAPIProgress)
		api.PUT("/development_progress", s.handleAPIUpdateProgress)
		api.GET("/cards", s.handleAPICards)
		api.PUT("/cards/:key", s.handleAPIUpdateCard)
		api.GET("/:entity", s.handleAPIList)
		api.POST("/:entity", s.handleAPICreate)
		api.PUT("/:entity/:id", s.handleAPIUpdate)
		api.DELETE("/:entity/:id", s.handleAPIDelete)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// templateFuncs exposes the pill-class transforms to the templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"str": func(v any) string {
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%v", v)
		},
		"priorityClass": view.PriorityClass,
		"taskClass":     view.TaskStatusClass,
		"bomClass":      view.BomStatusClass,
		"riskClass":     view.RiskStatusClass,
		"onlineClass":   view.OnlineClass,
		"isOnline":      view.IsOnline,
	}
}

func staticHTTPFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
