package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-webfront/internal/download"
	"github.com/ytget/yt-webfront/internal/fetch"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server timeouts. Writes are not limited since a download response is only
// started once the remote transfer is done.
const (
	ReadHeaderTimeout = 10 * time.Second
	ReadTimeout       = 30 * time.Second
	IdleTimeout       = 120 * time.Second
)

// Server is the HTTP front-end for the download service
type Server struct {
	addr      string
	downloads download.Downloader
	inspector fetch.Inspector
	engine    *gin.Engine
	server    *http.Server
}

// NewServer creates a server listening on addr. inspector may be nil, in
// which case the metadata endpoint answers 501.
func NewServer(addr string, downloads download.Downloader, inspector fetch.Inspector) (*Server, error) {
	s := &Server{
		addr:      addr,
		downloads: downloads,
		inspector: inspector,
	}

	engine, err := s.newEngine()
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.server = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      0,
		IdleTimeout:       IdleTimeout,
	}
	return s, nil
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Stop is called. It returns http.ErrServerClosed after a
// graceful stop.
func (s *Server) Start() error {
	logrus.WithFields(logrus.Fields{
		"addr": s.addr,
		"dir":  s.downloads.DownloadDirectory(),
	}).Info("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) newEngine() (*gin.Engine, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware())
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handleIndex)
	engine.POST("/download", s.handleDownload)

	api := engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/video/info", s.handleVideoInfo)
	api.GET("/jobs/:token", s.handleJob)

	return engine, nil
}

// Middleware

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
			"client":  c.ClientIP(),
		}).Info("Request handled")
	}
}
