package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"

	"github.com/velox/url-shortener/internal/storage"
	"github.com/velox/url-shortener/internal/validator"
)

const (
	unavailableMessage = "Service temporarily unavailable"
	databaseMessage    = "Database error"
	internalMessage    = "Internal server error"
)

// errorResponse maps a service error to an HTTP status and a message that is
// safe to show to clients. Only validation errors carry their own text.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, validator.ErrInvalidURL):
		return http.StatusBadRequest, err.Error()
	case storage.Kind(err) == storage.KindUnavailable:
		return http.StatusServiceUnavailable, unavailableMessage
	case storage.Kind(err) == storage.KindQuery:
		return http.StatusInternalServerError, databaseMessage
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// grpcCode is the gRPC counterpart of errorResponse.
func grpcCode(err error) (codes.Code, string) {
	status, message := errorResponse(err)
	switch status {
	case http.StatusBadRequest:
		return codes.InvalidArgument, message
	case http.StatusServiceUnavailable:
		return codes.Unavailable, message
	default:
		return codes.Internal, message
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", status).
			Msg("Request failed")
	}
	writeJSON(w, status, message)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
