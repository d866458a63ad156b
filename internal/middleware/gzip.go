package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/velox/url-shortener/internal/pool"
)

var bodyBuffers = pool.New(64, func() *bytes.Buffer { return new(bytes.Buffer) })

var compressibleTypes = []string{"application/json", "text/html", "text/plain"}

func compressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

// bufferedWriter holds the response until the handler returns so the
// encoding can be chosen from the final Content-Type.
type bufferedWriter struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

// GzipMiddleware compresses JSON and text responses when the client accepts gzip.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		buf := bodyBuffers.Get()
		defer bodyBuffers.Put(buf)

		bw := &bufferedWriter{ResponseWriter: w, statusCode: http.StatusOK, body: buf}
		next.ServeHTTP(bw, r)

		w.Header().Add("Vary", "Accept-Encoding")

		if buf.Len() == 0 || !compressible(w.Header().Get("Content-Type")) {
			w.WriteHeader(bw.statusCode)
			w.Write(buf.Bytes())
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		w.WriteHeader(bw.statusCode)

		gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			return
		}
		defer gz.Close()
		gz.Write(buf.Bytes())
	})
}

// GzipReader transparently decompresses gzipped request bodies.
func GzipReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") != "gzip" {
			next.ServeHTTP(w, r)
			return
		}

		gzReader, err := gzip.NewReader(r.Body)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(strconv.Quote("Invalid gzip body")))
			return
		}
		defer gzReader.Close()

		r.Body = io.NopCloser(gzReader)
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1

		next.ServeHTTP(w, r)
	})
}
