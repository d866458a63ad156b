package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/velox/url-shortener/internal/logger"
	"github.com/velox/url-shortener/internal/middleware"
	"github.com/velox/url-shortener/internal/model"
)

const (
	welcomeMessage      = "Welcome to Velox URL Shortener!"
	notFoundMessage     = "URL not found"
	badBodyMessage      = "Invalid request body"
	bodyTooLargeMessage = "Request body too large"
	healthyMessage      = "Healthy"
	unhealthyMsg        = "Unhealthy"

	maxBodyBytes = 1 << 20
)

// URLService is the business logic the handlers delegate to.
type URLService interface {
	Shorten(ctx context.Context, originalURL string) (model.ShortenedURL, error)
	Resolve(ctx context.Context, code string) (string, bool, error)
	Health(ctx context.Context) error
}

type Handler struct {
	urlService URLService
}

func NewHandler(urlService URLService) *Handler {
	return &Handler{
		urlService: urlService,
	}
}

func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	r.Get("/", h.handleWelcome)
	r.Post("/shorten", h.handleShorten)
	r.Get("/health", h.handleHealth)
	r.Get("/{code}", h.handleRedirect)

	return r
}

func (h *Handler) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, welcomeMessage)
}

func (h *Handler) handleShorten(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "application/json") {
		writeJSON(w, http.StatusBadRequest, badBodyMessage)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, bodyTooLargeMessage)
			return
		}
		writeJSON(w, http.StatusBadRequest, badBodyMessage)
		return
	}

	var request model.ShortenRequest
	if err := json.Unmarshal(body, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, badBodyMessage)
		return
	}

	result, err := h.urlService.Shorten(r.Context(), request.Original)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	originalURL, found, err := h.urlService.Resolve(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !found {
		writeJSON(w, http.StatusNotFound, notFoundMessage)
		return
	}

	w.Header().Set("Location", originalURL)
	w.WriteHeader(http.StatusPermanentRedirect)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.urlService.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyMsg)
		return
	}

	writeJSON(w, http.StatusOK, healthyMessage)
}
