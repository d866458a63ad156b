package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/velox/url-shortener/internal/generator"
	"github.com/velox/url-shortener/internal/model"
	"github.com/velox/url-shortener/internal/storage"
	"github.com/velox/url-shortener/internal/validator"
)

// CodeGenerator produces short codes.
type CodeGenerator func() (string, error)

// Option customizes a URLService.
type Option func(*URLService)

// WithGenerator replaces the random short code generator.
func WithGenerator(gen CodeGenerator) Option {
	return func(s *URLService) {
		s.generate = gen
	}
}

// URLService provides business logic for creating and resolving short URLs.
// It holds no mutable state; one instance serves all requests.
type URLService struct {
	store    storage.Store
	baseURL  string
	generate CodeGenerator
}

// NewURLService constructs a URLService with the given store and base URL.
func NewURLService(store storage.Store, baseURL string, opts ...Option) *URLService {
	s := &URLService{
		store:    store,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		generate: generator.ShortCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shorten validates originalURL, stores it under a fresh code and returns
// the absolute short URL. An existing mapping with the same code is overwritten.
func (s *URLService) Shorten(ctx context.Context, originalURL string) (model.ShortenedURL, error) {
	if err := validator.ValidateURL(originalURL); err != nil {
		return model.ShortenedURL{}, err
	}

	code, err := s.generate()
	if err != nil {
		return model.ShortenedURL{}, fmt.Errorf("generate short code: %w", err)
	}

	mapping := model.URLMapping{Original: originalURL, ShortenedCode: code}
	if err := s.store.Put(ctx, mapping.ShortenedCode, mapping.Original); err != nil {
		return model.ShortenedURL{}, err
	}

	result := model.ShortenedURL{
		Original:  mapping.Original,
		Shortened: s.ShortURL(mapping.ShortenedCode),
	}

	log.Info().
		Str("original", result.Original).
		Str("code", code).
		Str("shortened", result.Shortened).
		Msg("Created shortened URL")

	return result, nil
}

// Resolve returns the original URL stored for code.
func (s *URLService) Resolve(ctx context.Context, code string) (string, bool, error) {
	return s.store.Get(ctx, code)
}

// Health reports whether the store can currently be reached.
func (s *URLService) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ShortURL builds the public URL for code.
func (s *URLService) ShortURL(code string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, code)
}
