package generator

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/jxskiss/base62"
)

// CodeLength is the maximum length of a generated short code.
const CodeLength = 8

// ShortCode returns a random base-62 code of at most CodeLength characters.
// Codes are not checked for uniqueness.
func ShortCode() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random source: %w", err)
	}

	return encode(binary.BigEndian.Uint64(b[:])), nil
}

func encode(n uint64) string {
	code := base62.FormatUint(n)
	if len(code) > CodeLength {
		code = code[:CodeLength]
	}
	return string(code)
}
