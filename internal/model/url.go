package model

// URLMapping is a persisted short code to original URL pair.
type URLMapping struct {
	Original      string
	ShortenedCode string
}

// ShortenRequest is the body of POST /shorten.
type ShortenRequest struct {
	Original string `json:"original"`
}

// ShortenedURL is returned to clients after a successful shorten request.
type ShortenedURL struct {
	Original  string `json:"original"`
	Shortened string `json:"shortened"`
}
