package errleak

import (
	"errors"
	"fmt"
	"net/http"
)

var errBoom = errors.New("boom")

type queryError struct{ op string }

func (e *queryError) Error() string { return e.op + " failed" }

func leakHTTPError(w http.ResponseWriter, r *http.Request) {
	err := errBoom
	http.Error(w, err.Error(), http.StatusInternalServerError) // want "error text written to HTTP response"
}

func leakConcat(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "failed: "+errBoom.Error(), http.StatusInternalServerError) // want "error text written to HTTP response"
}

func leakWrite(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(errBoom.Error())) // want "error text written to HTTP response"
}

func leakCustomError(w http.ResponseWriter, r *http.Request) {
	err := &queryError{op: "get"}
	w.Write([]byte(err.Error())) // want "error text written to HTTP response"
}

func leakFprintf(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "failed: %v", errBoom) // want "error text written to HTTP response"
}

func leakFprintln(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, errBoom.Error()) // want "error text written to HTTP response"
}
