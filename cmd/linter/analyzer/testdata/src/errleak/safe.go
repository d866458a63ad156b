package errleak

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
)

func genericMessage(w http.ResponseWriter, r *http.Request) {
	if errBoom != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("ok"))
	fmt.Fprintln(w, "Healthy")
}

func notAResponse() {
	var buf bytes.Buffer
	buf.Write([]byte(errBoom.Error()))
	fmt.Fprintf(os.Stderr, "failed: %v\n", errBoom)
	fmt.Fprintln(&buf, errBoom)
}
