package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"fakenews/internal/news"
)

func (s *Server) listNews(c echo.Context) error {
	var limit, offset int
	if err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid paging parameters")
	}

	list, err := s.news.List(c.Request().Context(), limit, offset)
	if err != nil {
		return s.newsError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) getNews(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid id")
	}

	n, err := s.news.Find(c.Request().Context(), id)
	if err != nil {
		return s.newsError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (s *Server) createNews(c echo.Context) error {
	var cmd news.CreateCommand
	if err := c.Bind(&cmd); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid request body")
	}

	n, err := s.news.Create(c.Request().Context(), cmd)
	if err != nil {
		return s.newsError(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (s *Server) deleteNews(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid id")
	}

	if err := s.news.Delete(c.Request().Context(), id); err != nil {
		return s.newsError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) newsStats(c echo.Context) error {
	stats, err := s.news.Stats(c.Request().Context())
	if err != nil {
		return s.newsError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) newsError(c echo.Context, err error) error {
	status := news.MapHTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "news request failed", "error", err)
		return s.fail(c, status, "internal error")
	}
	return s.fail(c, status, err.Error())
}

type feedRequest struct {
	URL string `json:"url"`
}

func (s *Server) getFeeds(c echo.Context) error {
	feeds, err := s.feeds.GetFeeds(c.Request().Context())
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "get feeds failed", "error", err)
		return s.fail(c, http.StatusInternalServerError, "internal error")
	}
	if feeds == nil {
		feeds = []string{}
	}
	return c.JSON(http.StatusOK, feeds)
}

func (s *Server) addFeed(c echo.Context) error {
	var req feedRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid request body")
	}

	feed := strings.TrimSpace(req.URL)
	if !validFeedURL(feed) {
		return s.fail(c, http.StatusBadRequest, "url must be an absolute http or https URL")
	}

	ctx := c.Request().Context()

	exists, err := s.feeds.FeedExists(ctx, feed)
	if err != nil {
		s.logger.ErrorContext(ctx, "feed lookup failed", "error", err)
		return s.fail(c, http.StatusInternalServerError, "internal error")
	}
	if exists {
		return s.fail(c, http.StatusConflict, "already tracking")
	}

	if err := s.feeds.AddFeed(ctx, feed); err != nil {
		s.logger.ErrorContext(ctx, "add feed failed", "error", err)
		return s.fail(c, http.StatusInternalServerError, "internal error")
	}

	s.logger.InfoContext(ctx, "feed added", "url", feed)
	return c.JSON(http.StatusCreated, feedRequest{URL: feed})
}

func (s *Server) removeFeed(c echo.Context) error {
	feed := strings.TrimSpace(c.QueryParam("url"))
	if feed == "" {
		return s.fail(c, http.StatusBadRequest, "url is required")
	}

	if err := s.feeds.RemoveFeed(c.Request().Context(), feed); err != nil {
		s.logger.ErrorContext(c.Request().Context(), "remove feed failed", "error", err)
		return s.fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

func validFeedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
