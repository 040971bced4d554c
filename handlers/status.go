package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"booking-service/domain"
)

// writeError folds a domain error into the HTTP reply.
func writeError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	if domain.IsNotFound(err) {
		return http.StatusNotFound
	}
	var state domain.StateError
	if errors.As(err, &state) {
		return http.StatusConflict
	}
	var missing domain.MissingInventoryError
	if domain.IsConflict(err) || errors.As(err, &missing) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func ExtractTraceInfoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
