// Package api serves the classification endpoints, the news store and the
// live analysis event stream over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fakenews/internal/detector"
	"fakenews/internal/domain"
	"fakenews/internal/news"
)

type Detector interface {
	Predict(ctx context.Context, text string) (*detector.Prediction, error)
	Analyze(ctx context.Context, text string) (*detector.Detail, error)
	Health() detector.Health
}

type NewsService interface {
	Create(ctx context.Context, cmd news.CreateCommand) (*domain.News, error)
	Find(ctx context.Context, id uuid.UUID) (*domain.News, error)
	List(ctx context.Context, limit, offset int) ([]domain.News, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (news.Stats, error)
}

// FeedStore manages feeds added at runtime.
type FeedStore interface {
	AddFeed(ctx context.Context, url string) error
	RemoveFeed(ctx context.Context, url string) error
	GetFeeds(ctx context.Context) ([]string, error)
	FeedExists(ctx context.Context, url string) (bool, error)
}

type Readiness interface {
	Ready() bool
}

type Server struct {
	echo     *echo.Echo
	detector Detector
	news     NewsService
	feeds    FeedStore
	ready    Readiness
	sse      *SSEBroker
	logger   *slog.Logger
}

// ErrorResponse is the body of every failed request. Timestamp is in unix
// milliseconds.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// NewServer builds the HTTP server. news and feeds may be nil, in which case
// their routes are not registered.
func NewServer(det Detector, svc NewsService, feeds FeedStore, ready Readiness, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		detector: det,
		news:     svc,
		feeds:    feeds,
		ready:    ready,
		sse:      NewSSEBroker(),
		logger:   logger.With("component", "api"),
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/readyz", s.readyz)
	s.echo.GET("/api/events", s.events)

	ml := s.echo.Group("/api/ml")
	ml.POST("/predict", s.predict)
	ml.POST("/analyze", s.analyze)
	ml.GET("/health", s.mlHealth)

	if s.news != nil {
		g := s.echo.Group("/api/news")
		g.GET("", s.listNews)
		g.POST("", s.createNews)
		g.GET("/stats", s.newsStats)
		g.GET("/:id", s.getNews)
		g.DELETE("/:id", s.deleteNews)
	}

	if s.feeds != nil {
		g := s.echo.Group("/api/feeds")
		g.GET("", s.getFeeds)
		g.POST("", s.addFeed)
		g.DELETE("", s.removeFeed)
	}
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be mounted or driven directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Broadcast pushes msg to every connected event stream.
func (s *Server) Broadcast(msg string) {
	s.sse.Broadcast(msg)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(c echo.Context) error {
	if s.ready == nil || !s.ready.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{
		Error:     msg,
		Timestamp: time.Now().UnixMilli(),
	})
}
