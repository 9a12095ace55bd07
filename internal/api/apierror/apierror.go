package apierror

import (
	"errors"
	"log/slog"
	"net/http"

	"portfolio-app/internal/catalog"
	"portfolio-app/internal/ingest"

	"github.com/gin-gonic/gin"
)

// Status maps a catalog or ingest error to an HTTP status and a public message.
func Status(err error) (int, string) {
	var (
		ve *ingest.ValidationError
		de *ingest.DecodeError
		ce *ingest.CollisionError
	)

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, catalog.ErrInvalidOrder),
		errors.Is(err, catalog.ErrImageNotInProject),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, catalog.ErrTitleRequired),
		errors.Is(err, catalog.ErrInvalidSlug):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &ve):
		switch ve.Constraint {
		case ingest.ConstraintSize, ingest.ConstraintDimensions:
			return http.StatusRequestEntityTooLarge, ve.Error()
		case ingest.ConstraintSlug:
			return http.StatusBadRequest, ve.Error()
		}
		return http.StatusUnsupportedMediaType, ve.Error()
	case errors.As(err, &de):
		return http.StatusUnprocessableEntity, de.Error()
	case errors.As(err, &ce):
		return http.StatusConflict, "Storage key already taken, retry the upload"
	case ingest.IsTransport(err):
		return http.StatusBadGateway, "Storage is unavailable"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// Respond writes err in the standard {"error": ...} shape. Server side
// failures are logged with the cause and answered without it.
func Respond(c *gin.Context, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
	}
	c.JSON(status, gin.H{"error": msg})
}
