package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/etnz/tracker"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HTTPError is the body of every error response.
type HTTPError struct {
	Error string `json:"error"`
}

// NewError aborts the request with status and err as body.
func NewError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, HTTPError{Error: err.Error()})
}

// ErrorHandler maps tracker errors to statuses.
func ErrorHandler(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrValidation),
		errors.Is(err, tracker.ErrParse),
		errors.Is(err, tracker.ErrUnknownField),
		errors.Is(err, tracker.ErrUnknownKind):
		NewError(c, http.StatusBadRequest, err)

	case errors.Is(err, tracker.ErrNotFound):
		NewError(c, http.StatusNotFound, err)

	default:
		// persistence failures keep the change in memory, it is saved by the next successful write.
		log.Error().Str("request-id", requestid.Get(c)).Err(err).Msg("request failed")
		NewError(c, http.StatusInternalServerError, fmt.Errorf("%w (request id %q)", err, requestid.Get(c)))
	}
}
