package server

import (
	"errors"
	"fmt"
	"net/http"
	"transcriptsum/internal/domain"

	"github.com/labstack/echo/v4"
)

// handleError writes every error as {"detail": "..."}. Internal causes are
// never sent to the client.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := http.StatusText(status)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			detail = msg
		} else if httpErr.Message != nil {
			detail = fmt.Sprint(httpErr.Message)
		}
	} else {
		s.log.ErrorContext(c.Request().Context(), "Unhandled request error",
			"error", err,
			"path", c.Path())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, domain.ErrorResponse{Detail: detail})
	}
	if err != nil {
		s.log.ErrorContext(c.Request().Context(), "Failed to write error response",
			"error", err,
			"status", status)
	}
}
