package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fakenews/internal/detector"
)

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) predict(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, "Text field is required and cannot be empty")
	}

	res, err := s.detector.Predict(c.Request().Context(), req.Text)
	if err != nil {
		if detector.MapHTTPStatus(err) == http.StatusBadRequest {
			return s.fail(c, http.StatusBadRequest, "Text field is required and cannot be empty")
		}
		s.logger.ErrorContext(c.Request().Context(), "predict failed", "error", err)
		return s.fail(c, http.StatusInternalServerError, "Error during prediction")
	}

	return c.JSON(http.StatusOK, res)
}

func (s *Server) analyze(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, http.StatusBadRequest, "Text field is required")
	}

	res, err := s.detector.Analyze(c.Request().Context(), req.Text)
	if err != nil {
		if detector.MapHTTPStatus(err) == http.StatusBadRequest {
			return s.fail(c, http.StatusBadRequest, "Text field is required")
		}
		s.logger.ErrorContext(c.Request().Context(), "analyze failed", "error", err)
		return s.fail(c, http.StatusInternalServerError, "Analysis failed")
	}

	return c.JSON(http.StatusOK, res)
}

func (s *Server) mlHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.detector.Health())
}
